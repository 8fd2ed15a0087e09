package cpworld

import (
	"testing"

	"github.com/decker502/erasable/pkg/collision"
	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/raster"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

var gravity = vec.Vec2{Y: -10}

// solidSprite 20x20 全不透明，10ppu，中心在原点：占据 [-1,1]²
func solidSprite(t *testing.T) (*raster.Mask, *coords.Mapper) {
	t.Helper()
	mask, err := raster.New(20, 20, true)
	if err != nil {
		t.Fatal(err)
	}
	mapper, err := coords.NewMapper(20, 20, 10, coords.CenterPivot, matrix.Identity)
	if err != nil {
		t.Fatal(err)
	}
	return mask, mapper
}

func simulate(w *World, seconds float64) {
	const dt = 1.0 / 60
	for i := 0; i < int(seconds/dt); i++ {
		w.Step(dt)
	}
}

func TestGridBoxesSupportAndRelease(t *testing.T) {
	mask, mapper := solidSprite(t)
	w := New(gravity, 0.01)
	grid := collision.NewGridSync(mapper, w, 10, false)
	if err := grid.Initialize(mask); err != nil {
		t.Fatal(err)
	}
	if w.BoxCount() != 4 || w.ShapeCount() != 4 {
		t.Fatalf("expected 4 box shapes, got %d (%d in space)", w.BoxCount(), w.ShapeCount())
	}

	if !w.Blocked(vec.Vec2{X: 0.5, Y: 0.5}) {
		t.Error("point inside a cell box should be blocked")
	}
	if w.Blocked(vec.Vec2{X: 3, Y: 3}) {
		t.Error("point outside the sprite should be free")
	}

	ball := w.AddBall(vec.Vec2{X: 0.5, Y: 3}, 0.2, 1)
	simulate(w, 2)
	if y := ball.Position().Y; y < 0.9 || y > 1.5 {
		t.Fatalf("ball should rest on top of the sprite (y≈1.2), got %v", y)
	}

	// 剔除所有单元后小球穿过精灵下落
	grid.Cull(vec.Vec2{}, 10)
	if w.ShapeCount() != 0 {
		t.Fatalf("expected all box shapes to be removed, got %d", w.ShapeCount())
	}
	simulate(w, 1.5)
	if y := w.Balls()[0].Y; y > -1 {
		t.Errorf("ball should fall through the culled sprite, got y=%v", y)
	}
}

func TestOutlineSegmentsReplaced(t *testing.T) {
	mask, mapper := solidSprite(t)
	w := New(gravity, 0.02)
	poly := collision.NewPolygonSync(mapper, w, 0)
	if err := poly.Initialize(mask); err != nil {
		t.Fatal(err)
	}

	if !w.Blocked(vec.Vec2{}) {
		t.Error("sprite center should be inside the outline")
	}
	first := w.OutlineSegments()
	if first < 4 || first != w.ShapeCount() {
		t.Fatalf("expected at least 4 outline segments, got %d (%d in space)", first, w.ShapeCount())
	}

	// 挖一个洞：外轮廓 + 孔洞，旧线段全部被替换
	mask.EraseDisc(10, 10, 4)
	poly.Update(collision.Frame{Mask: mask, Mutated: true})
	if w.OutlineSegments() <= first {
		t.Errorf("expected more segments after carving a hole, got %d (was %d)", w.OutlineSegments(), first)
	}
	if w.Blocked(vec.Vec2{}) {
		t.Error("point inside the carved hole should be free")
	}
	if w.ShapeCount() != w.OutlineSegments() {
		t.Errorf("stale segments left in space: %d shapes for %d segments", w.ShapeCount(), w.OutlineSegments())
	}

	ball := w.AddBall(vec.Vec2{X: -0.6, Y: 3}, 0.15, 1)
	simulate(w, 2)
	if y := ball.Position().Y; y < 0.9 || y > 1.5 {
		t.Errorf("ball should rest on the top edge of the outline, got y=%v", y)
	}

	w.ReplaceOutline(nil)
	if w.ShapeCount() != 0 {
		t.Errorf("empty outline should clear every segment, got %d", w.ShapeCount())
	}
}

func TestAddBoxMirroredTransform(t *testing.T) {
	w := New(vec.Vec2{}, 0)
	// 顺时针顶点（镜像变换的结果）
	b := collision.Box{
		Cell: collision.CellID{X: 2, Y: 1},
		Corners: [4]vec.Vec2{
			{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0},
		},
	}
	w.AddBox(b)
	if !w.Blocked(vec.Vec2{X: 0.5, Y: 0.5}) {
		t.Error("clockwise box should still be solid")
	}

	// 重复添加同一单元只保留一个形状
	w.AddBox(b)
	if w.ShapeCount() != 1 {
		t.Errorf("expected 1 shape after re-adding the same cell, got %d", w.ShapeCount())
	}

	w.RemoveBox(b.Cell)
	w.RemoveBox(b.Cell)
	if w.ShapeCount() != 0 || w.Blocked(vec.Vec2{X: 0.5, Y: 0.5}) {
		t.Error("removed box should leave no shape behind")
	}
}
