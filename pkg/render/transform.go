// Package render 负责把可擦除精灵和碰撞调试层绘制到 ebiten 屏幕上
package render

import (
	"image"

	"github.com/decker502/erasable/pkg/coords"
	"github.com/hajimehoshi/ebiten/v2"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// ImageToScreen 返回图片坐标（左上角原点）→ 屏幕坐标的仿射变换
//
// 组合链：图片 → 纹理像素（y 翻转）→ 局部 → 世界 → 屏幕，整体仍是仿射变换，
// 所以用三个点的像求出矩阵。
func ImageToScreen(mapper *coords.Mapper, cam *coords.Camera) matrix.Matrix {
	h := float64(mapper.TextureHeight)
	f := func(ix, iy float64) vec.Vec2 {
		return cam.WorldToScreen(mapper.PixelToWorld(vec.Vec2{X: ix, Y: h - iy}))
	}
	o := f(0, 0)
	ax := f(1, 0).Sub(o)
	ay := f(0, 1).Sub(o)
	return matrix.Matrix{ax.X, ax.Y, ay.X, ay.Y, o.X, o.Y}
}

// GeoM 把仿射矩阵转换为 ebiten.GeoM
func GeoM(m matrix.Matrix) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// SubPixels 从整张 RGBA 缓冲中拷贝矩形 r（图片坐标）内的像素
func SubPixels(pix []byte, width int, r image.Rectangle) []byte {
	out := make([]byte, 0, 4*r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := 4 * (y*width + r.Min.X)
		out = append(out, pix[off:off+4*r.Dx()]...)
	}
	return out
}
