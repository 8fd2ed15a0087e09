package render

import (
	"image"
	"math"
	"testing"

	"github.com/decker502/erasable/pkg/collision"
	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/physics/recorder"
	"github.com/decker502/erasable/pkg/raster"
	"seehuhn.de/go/geom/vec"
)

func near(a, b vec.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func apply(m [6]float64, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

func TestImageToScreen(t *testing.T) {
	cam := &coords.Camera{PixelsPerUnit: 50, ScreenWidth: 400, ScreenHeight: 300}

	tests := []struct {
		name      string
		transform [6]float64
	}{
		{"identity", coords.SpriteTransform(vec.Vec2{}, 0, 1)},
		{"rotated and moved", coords.SpriteTransform(vec.Vec2{X: 1, Y: -0.5}, 40, 1.5)},
		{"mirrored", [6]float64{-1, 0, 0, 1, 0.25, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapper, err := coords.NewMapper(80, 40, 20, coords.CenterPivot, tt.transform)
			if err != nil {
				t.Fatal(err)
			}
			m := ImageToScreen(mapper, cam)

			// 图片左上角 = 纹理像素 (0, h)
			for _, p := range []vec.Vec2{{X: 0, Y: 0}, {X: 80, Y: 40}, {X: 13, Y: 7}} {
				want := cam.WorldToScreen(mapper.PixelToWorld(vec.Vec2{X: p.X, Y: 40 - p.Y}))
				if got := apply(m, p); !near(got, want) {
					t.Errorf("image %v: expected %v, got %v", p, want, got)
				}
			}
		})
	}
}

func TestSubPixels(t *testing.T) {
	const w, h = 4, 3
	pix := make([]byte, 4*w*h)
	for i := range pix {
		pix[i] = byte(i)
	}

	got := SubPixels(pix, w, image.Rect(1, 1, 3, 3))
	if len(got) != 4*2*2 {
		t.Fatalf("expected 16 bytes, got %d", len(got))
	}
	// 第 1 行第 1 列的像素偏移 4*(1*4+1)=20
	if got[0] != 20 || got[8] != 36 {
		t.Errorf("expected rows starting at 20 and 36, got %d and %d", got[0], got[8])
	}
}

func TestScreenSegments(t *testing.T) {
	mask, err := raster.New(20, 20, true)
	if err != nil {
		t.Fatal(err)
	}
	mapper, err := coords.NewMapper(20, 20, 10, coords.CenterPivot, coords.SpriteTransform(vec.Vec2{}, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	cam := &coords.Camera{PixelsPerUnit: 100, ScreenWidth: 400, ScreenHeight: 400}

	grid := collision.NewGridSync(mapper, recorder.New(), 10, false)
	if err := grid.Initialize(mask); err != nil {
		t.Fatal(err)
	}
	if got := len(ScreenSegments(grid, cam)); got != 4*4*2 {
		t.Errorf("expected 32 endpoints for 4 boxes, got %d", got)
	}

	poly := collision.NewPolygonSync(mapper, recorder.New(), 0)
	if err := poly.Initialize(mask); err != nil {
		t.Fatal(err)
	}
	segs := ScreenSegments(poly, cam)
	if len(segs) < 8 {
		t.Fatalf("expected at least 4 outline edges, got %d endpoints", len(segs))
	}
	// 精灵占据 [-1,1]²，屏幕上是 [100,300]²
	for _, p := range segs {
		if p.X < 100-1e-9 || p.X > 300+1e-9 || p.Y < 100-1e-9 || p.Y > 300+1e-9 {
			t.Errorf("segment endpoint %v outside the sprite's screen rect", p)
		}
	}
}
