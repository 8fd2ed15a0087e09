package coords

import "seehuhn.de/go/geom/vec"

// Camera 正交摄像机，负责屏幕坐标与世界坐标的转换
//
// 屏幕原点在左上角、y 向下；摄像机 Position 对应屏幕中心。
type Camera struct {
	Position      vec.Vec2 // 屏幕中心对应的世界坐标
	PixelsPerUnit float64  // 每个世界 unit 的屏幕像素数
	ScreenWidth   int
	ScreenHeight  int
}

// ScreenToWorld 屏幕坐标 → 世界坐标
func (c *Camera) ScreenToWorld(screen vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: c.Position.X + (screen.X-float64(c.ScreenWidth)/2)/c.PixelsPerUnit,
		Y: c.Position.Y - (screen.Y-float64(c.ScreenHeight)/2)/c.PixelsPerUnit,
	}
}

// WorldToScreen 世界坐标 → 屏幕坐标
func (c *Camera) WorldToScreen(world vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: (world.X-c.Position.X)*c.PixelsPerUnit + float64(c.ScreenWidth)/2,
		Y: float64(c.ScreenHeight)/2 - (world.Y-c.Position.Y)*c.PixelsPerUnit,
	}
}
