package resolvworld

import (
	"errors"
	"testing"

	"github.com/decker502/erasable/pkg/collision"
	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/raster"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

var spriteBounds = rect.Rect{LLx: -2, LLy: -2, URx: 2, URy: 2}

func newWorld(t *testing.T) *World {
	t.Helper()
	w, err := New(spriteBounds, 10, 4)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestNewRejectsInvalidBounds(t *testing.T) {
	tests := []struct {
		name   string
		bounds rect.Rect
		scale  float64
		cell   int
	}{
		{"empty bounds", rect.Rect{}, 10, 4},
		{"inverted bounds", rect.Rect{LLx: 1, LLy: 1, URx: 0, URy: 2}, 10, 4},
		{"zero scale", spriteBounds, 0, 4},
		{"zero cell", spriteBounds, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.bounds, tt.scale, tt.cell); !errors.Is(err, ErrInvalidBounds) {
				t.Errorf("expected ErrInvalidBounds, got %v", err)
			}
		})
	}
}

func TestGridBoxesBlockAndCull(t *testing.T) {
	// 20x20 全不透明，10ppu，旋转 30°
	mask, err := raster.New(20, 20, true)
	if err != nil {
		t.Fatal(err)
	}
	mapper, err := coords.NewMapper(20, 20, 10, coords.CenterPivot, coords.SpriteTransform(vec.Vec2{}, 30, 1))
	if err != nil {
		t.Fatal(err)
	}

	w := newWorld(t)
	grid := collision.NewGridSync(mapper, w, 10, false)
	if err := grid.Initialize(mask); err != nil {
		t.Fatal(err)
	}
	if w.BoxCount() != 4 {
		t.Fatalf("expected 4 boxes, got %d", w.BoxCount())
	}

	box, _ := grid.Cell(1, 1)
	tests := []struct {
		name string
		p    vec.Vec2
		want bool
	}{
		{"cell center", box.Center, true},
		{"sprite center", vec.Vec2{}, true},
		{"outside rotated corner", vec.Vec2{X: 1, Y: 1}, false},
		{"outside bounds", vec.Vec2{X: 5, Y: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Blocked(tt.p); got != tt.want {
				t.Errorf("expected Blocked(%v)=%v, got %v", tt.p, tt.want, got)
			}
		})
	}

	grid.Cull(box.Center, 0.1)
	if w.BoxCount() != 3 {
		t.Errorf("expected 3 boxes after culling one cell, got %d", w.BoxCount())
	}
	if w.Blocked(box.Center) {
		t.Error("culled cell should no longer block")
	}
}

func TestOutlineHoleIsFree(t *testing.T) {
	mask, err := raster.New(20, 20, true)
	if err != nil {
		t.Fatal(err)
	}
	mapper, err := coords.NewMapper(20, 20, 10, coords.CenterPivot, matrix.Identity)
	if err != nil {
		t.Fatal(err)
	}
	mask.EraseDisc(10, 10, 5)

	w := newWorld(t)
	poly := collision.NewPolygonSync(mapper, w, 0)
	if err := poly.Initialize(mask); err != nil {
		t.Fatal(err)
	}
	if w.LoopCount() != 2 {
		t.Fatalf("expected outer loop and hole, got %d loops", w.LoopCount())
	}

	if w.Blocked(vec.Vec2{}) {
		t.Error("point inside the hole should be free")
	}
	if !w.Blocked(vec.Vec2{X: 0.8, Y: 0.8}) {
		t.Error("point between hole and outer edge should be blocked")
	}
	if w.Blocked(vec.Vec2{X: 1.5, Y: 0}) {
		t.Error("point outside the sprite should be free")
	}

	w.ReplaceOutline(nil)
	if w.LoopCount() != 0 || w.Blocked(vec.Vec2{X: 0.8, Y: 0.8}) {
		t.Error("empty outline should clear every loop")
	}
}
