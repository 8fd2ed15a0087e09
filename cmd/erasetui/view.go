package main

import (
	"math"

	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/session"
	"seehuhn.de/go/geom/vec"
)

// 每个终端字符格显示上下两个逻辑像素（半块字符）
const rowsPerCell = 2

// Pixel 逻辑像素的显示状态
type Pixel uint8

const (
	PixelEmpty   Pixel = iota // 精灵外部
	PixelErased               // 精灵范围内但已擦除
	PixelSolid                // 不透明且有碰撞体
	PixelNoCollide            // 不透明但碰撞体已剔除（网格策略）
)

// blocker 判断世界坐标点是否有碰撞体
type blocker interface {
	Blocked(p vec.Vec2) bool
}

// fitCamera 让整个精灵以 90% 的比例显示在终端中
func fitCamera(sess *session.Session, cols, rows int) *coords.Camera {
	h := rows * rowsPerCell
	mapper := sess.Mapper()
	tex := sess.Texture()
	worldW := mapper.PixelRadiusToWorld(float64(tex.Width()))
	worldH := mapper.PixelRadiusToWorld(float64(tex.Height()))

	ppu := 1.0
	if worldW > 0 && worldH > 0 {
		ppu = 0.9 * math.Min(float64(cols)/worldW, float64(h)/worldH)
	}
	center := mapper.PixelToWorld(vec.Vec2{X: float64(tex.Width()) / 2, Y: float64(tex.Height()) / 2})
	return &coords.Camera{
		Position:      center,
		PixelsPerUnit: ppu,
		ScreenWidth:   cols,
		ScreenHeight:  h,
	}
}

// cellToScreen 终端字符格 → 逻辑屏幕坐标（取下半格中心附近）
func cellToScreen(x, y int) vec.Vec2 {
	return vec.Vec2{X: float64(x) + 0.5, Y: float64(y*rowsPerCell) + 1}
}

// Frame 把当前遮罩采样为逻辑像素网格
//
// 返回按行排列的 cols × rows*2 个像素。
func Frame(sess *session.Session, cam *coords.Camera, physics blocker) []Pixel {
	w, h := cam.ScreenWidth, cam.ScreenHeight
	out := make([]Pixel, w*h)
	mask := sess.Mask()
	mapper := sess.Mapper()

	for sy := 0; sy < h; sy++ {
		for sx := 0; sx < w; sx++ {
			world := cam.ScreenToWorld(vec.Vec2{X: float64(sx) + 0.5, Y: float64(sy) + 0.5})
			p := mapper.WorldToPixelUnclamped(world)
			px, py := int(math.Floor(p.X)), int(math.Floor(p.Y))
			if px < 0 || py < 0 || px >= mask.Width() || py >= mask.Height() {
				continue
			}
			idx := sy*w + sx
			switch {
			case !mask.IsOpaque(px, py):
				out[idx] = PixelErased
			case physics != nil && !physics.Blocked(world):
				out[idx] = PixelNoCollide
			default:
				out[idx] = PixelSolid
			}
		}
	}
	return out
}
