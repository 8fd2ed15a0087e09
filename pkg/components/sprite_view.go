package components

import "github.com/decker502/erasable/pkg/render"

// SpriteViewComponent 精灵的 GPU 纹理
type SpriteViewComponent struct {
	Texture *render.EbitenTexture
	Hidden  bool
}

// ColliderOverlayComponent 碰撞调试层开关
type ColliderOverlayComponent struct {
	Enabled bool
	// ShowBrush 绘制时是否显示笔刷圆圈
	ShowBrush bool
}
