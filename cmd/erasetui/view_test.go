package main

import (
	"image"
	"math"
	"testing"

	"github.com/decker502/erasable/pkg/collision"
	"github.com/decker502/erasable/pkg/config"
	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/physics/resolvworld"
	"github.com/decker502/erasable/pkg/session"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// newGridSession 20x20 全不透明精灵，10ppu，网格单元 10 像素（4 个单元，占据 [-1,1]²）
func newGridSession(t *testing.T) (*session.Session, *coords.Camera, *resolvworld.World) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}

	sc := config.DefaultSpriteConfig()
	sc.PixelsPerUnit = 10
	sc.Strategy = config.StrategyGrid
	sc.CellSize = 10

	physics, err := resolvworld.New(rect.Rect{LLx: -2, LLy: -2, URx: 2, URy: 2}, 10, 16)
	if err != nil {
		t.Fatal(err)
	}
	cam := &coords.Camera{PixelsPerUnit: 1, ScreenWidth: 1, ScreenHeight: 1}
	sess, err := session.Build(session.Sprite{
		Config:    sc,
		Source:    img,
		Transform: matrix.Identity,
		Camera:    cam,
		Physics:   physics,
		Sink:      &uploadCounter{},
	})
	if err != nil {
		t.Fatal(err)
	}
	*cam = *fitCamera(sess, 40, 20)
	return sess, cam, physics
}

func TestFitCamera(t *testing.T) {
	_, cam, _ := newGridSession(t)

	if cam.ScreenWidth != 40 || cam.ScreenHeight != 40 {
		t.Errorf("expected 40x40 logical screen, got %dx%d", cam.ScreenWidth, cam.ScreenHeight)
	}
	if math.Abs(cam.PixelsPerUnit-18) > 1e-9 {
		t.Errorf("expected 18 pixels per unit, got %v", cam.PixelsPerUnit)
	}
	if cam.Position != (vec.Vec2{}) {
		t.Errorf("expected camera centered on the sprite, got %v", cam.Position)
	}
}

func TestCellToScreen(t *testing.T) {
	tests := []struct {
		x, y int
		want vec.Vec2
	}{
		{0, 0, vec.Vec2{X: 0.5, Y: 1}},
		{3, 2, vec.Vec2{X: 3.5, Y: 5}},
	}
	for _, tt := range tests {
		if got := cellToScreen(tt.x, tt.y); got != tt.want {
			t.Errorf("cellToScreen(%d, %d): expected %v, got %v", tt.x, tt.y, tt.want, got)
		}
	}
}

func TestFrameClassifiesPixels(t *testing.T) {
	sess, cam, physics := newGridSession(t)
	w := cam.ScreenWidth
	at := func(px []Pixel, sx, sy int) Pixel { return px[sy*w+sx] }

	// 纹理像素 (5,5) 对应屏幕 (11,28)
	sess.Mask().ErasePixel(5, 5)
	// 剔除右上单元 (1,1)，其像素仍不透明
	if n := sess.Sync().(*collision.GridSync).Cull(vec.Vec2{X: 0.5, Y: 0.5}, 0.1); n != 1 {
		t.Fatalf("expected 1 culled cell, got %d", n)
	}

	pixels := Frame(sess, cam, physics)
	if len(pixels) != 40*40 {
		t.Fatalf("expected 1600 pixels, got %d", len(pixels))
	}

	tests := []struct {
		name   string
		sx, sy int
		want   Pixel
	}{
		{"outside the sprite", 0, 0, PixelEmpty},
		{"erased pixel", 11, 28, PixelErased},
		{"opaque with collider", 11, 29, PixelSolid},
		{"opaque in culled cell", 29, 11, PixelNoCollide},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := at(pixels, tt.sx, tt.sy); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}

	// 不着色碰撞体时，剔除单元显示为普通不透明像素
	plain := Frame(sess, cam, nil)
	if got := at(plain, 29, 11); got != PixelSolid {
		t.Errorf("expected solid without collider shading, got %d", got)
	}
}
