package render

import (
	"image/color"

	"github.com/decker502/erasable/pkg/collision"
	"github.com/decker502/erasable/pkg/coords"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"seehuhn.de/go/geom/vec"
)

// 调试层颜色
var (
	OutlineColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	BoxColor     = color.RGBA{R: 0, G: 160, B: 255, A: 200}
	BrushColor   = color.RGBA{R: 255, G: 64, B: 64, A: 255}
	BallColor    = color.RGBA{R: 255, G: 200, B: 0, A: 255}
)

const overlayStroke = 1

// ScreenSegments 返回碰撞同步当前形状的屏幕线段（每两个点为一条线段）
func ScreenSegments(sync collision.Sync, cam *coords.Camera) []vec.Vec2 {
	var segs []vec.Vec2
	edge := func(a, b vec.Vec2) {
		segs = append(segs, cam.WorldToScreen(a), cam.WorldToScreen(b))
	}

	switch s := sync.(type) {
	case *collision.PolygonSync:
		for _, loop := range s.WorldOutline() {
			for i := range loop {
				edge(loop[i], loop[(i+1)%len(loop)])
			}
		}
	case *collision.GridSync:
		for _, id := range s.LiveCells() {
			box, _ := s.Cell(id.X, id.Y)
			for i := range box.Corners {
				edge(box.Corners[i], box.Corners[(i+1)%4])
			}
		}
	}
	return segs
}

// DrawColliders 绘制碰撞形状
func DrawColliders(screen *ebiten.Image, sync collision.Sync, cam *coords.Camera) {
	clr := OutlineColor
	if _, ok := sync.(*collision.GridSync); ok {
		clr = BoxColor
	}
	segs := ScreenSegments(sync, cam)
	for i := 0; i+1 < len(segs); i += 2 {
		a, b := segs[i], segs[i+1]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), overlayStroke, clr, false)
	}
}

// DrawCircle 在世界坐标位置绘制圆（笔刷或小球）
func DrawCircle(screen *ebiten.Image, cam *coords.Camera, center vec.Vec2, worldRadius float64, clr color.Color) {
	p := cam.WorldToScreen(center)
	vector.StrokeCircle(screen, float32(p.X), float32(p.Y), float32(worldRadius*cam.PixelsPerUnit), overlayStroke, clr, true)
}
