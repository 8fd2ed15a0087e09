package components

import (
	"github.com/decker502/erasable/pkg/coords"
	"seehuhn.de/go/geom/vec"
)

// CameraComponent 摄像机及其平移动画状态
//
// 动画期间摄像机位置按缓动曲线从 From 移动到 Target。
type CameraComponent struct {
	Camera *coords.Camera

	From   vec.Vec2
	Target vec.Vec2

	// Duration 动画时长（秒），Elapsed 已经过的时间
	Duration float64
	Elapsed  float64

	IsAnimating bool

	// EasingType 缓动类型：linear、easeOut、easeInOut
	EasingType string
}
