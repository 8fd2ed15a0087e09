// Package utils 提供通用工具函数
package utils

import (
	"github.com/decker502/erasable/pkg/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"seehuhn.de/go/geom/vec"
)

// GetPointerState 获取指针的完整状态
// 同时支持鼠标和触摸输入，优先检测触摸
//
// 返回：是否按下、X坐标、Y坐标（屏幕像素）
func GetPointerState() (pressed bool, x, y int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y = ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	x, y = ebiten.CursorPosition()
	pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	return pressed, x, y
}

// IsPointerJustPressed 检查是否刚刚按下指针（触摸或鼠标）
func IsPointerJustPressed() bool {
	if len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		return true
	}
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

// AdjustBrushSize 按滚轮增量调整笔刷尺寸，结果限制在 [lo, hi]
//
// 参数：
//   - size: 当前尺寸（纹理较长边的比例）
//   - wheel: 滚轮 y 增量，向上为正
//   - step: 每格滚轮的尺寸变化
func AdjustBrushSize(size, wheel, step, lo, hi float64) float64 {
	return min(max(size+wheel*step, lo), hi)
}

// PointerSource 从 ebiten 读取指针状态的输入源
//
// 每帧调用一次 Poll；滚轮调整笔刷尺寸。
type PointerSource struct {
	// BrushSize 当前笔刷尺寸，0 表示使用精灵配置的像素半径
	BrushSize float64

	// WheelStep 每格滚轮的尺寸变化，0 表示禁用滚轮调整
	WheelStep float64

	MinSize, MaxSize float64
}

// NewPointerSource 创建指针输入源
func NewPointerSource(brushSize float64) *PointerSource {
	return &PointerSource{
		BrushSize: brushSize,
		WheelStep: 0.005,
		MinSize:   0.005,
		MaxSize:   0.25,
	}
}

// Poll 实现 input.Source
func (p *PointerSource) Poll() input.State {
	if p.WheelStep > 0 && p.BrushSize > 0 {
		if _, wy := ebiten.Wheel(); wy != 0 {
			p.BrushSize = AdjustBrushSize(p.BrushSize, wy, p.WheelStep, p.MinSize, p.MaxSize)
		}
	}

	pressed, x, y := GetPointerState()
	return input.State{
		Drawing:   pressed,
		Screen:    vec.Vec2{X: float64(x), Y: float64(y)},
		BrushSize: p.BrushSize,
	}
}
