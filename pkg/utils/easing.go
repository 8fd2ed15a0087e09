package utils

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Easing 缓动函数：输入进度 t ∈ [0, 1]，返回缓动后的进度
type Easing func(t float64) float64

// 缓动类型名称
const (
	EasingLinear   = "linear"
	EasingOut      = "easeOut"
	EasingInOut    = "easeInOut"
	EasingOutCubic = "easeOutCubic"
)

// EaseLinear 匀速
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutQuad 二次方缓出：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInOutQuad 二次方缓入缓出
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// EaseOutCubic 三次方缓出：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EasingByName 按名称查找缓动函数，未知名称返回线性缓动和 false
func EasingByName(name string) (Easing, bool) {
	switch name {
	case EasingLinear, "":
		return EaseLinear, true
	case EasingOut:
		return EaseOutQuad, true
	case EasingInOut:
		return EaseInOutQuad, true
	case EasingOutCubic:
		return EaseOutCubic, true
	default:
		return EaseLinear, false
	}
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec 二维线性插值
func LerpVec(a, b vec.Vec2, t float64) vec.Vec2 {
	return vec.Vec2{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}
