// Package input 定义每帧交给编辑会话的输入快照
//
// 输入协作方（鼠标、触摸、终端）每帧轮询一次设备，生成一个 State 值；
// 编辑会话只读取这个值，不关心输入来自哪种设备。
package input

import "seehuhn.de/go/geom/vec"

// State 单帧输入快照（值对象）
type State struct {
	// Drawing 指针/触摸是否处于按下状态
	Drawing bool

	// Screen 指针位置（屏幕像素，左上角原点，y 向下）
	Screen vec.Vec2

	// BrushSize 笔刷尺寸，占纹理最长边的比例；<= 0 表示使用配置的像素半径
	BrushSize float64
}

// Source 每帧提供一次输入快照
type Source interface {
	Poll() State
}

// SourceFunc 函数适配器
type SourceFunc func() State

// Poll 调用 f
func (f SourceFunc) Poll() State { return f() }

// Script 按顺序回放预先录制的输入，播放完毕后保持最后一帧并抬起指针
//
// 用于测试和无界面工具。
type Script struct {
	frames []State
	next   int
}

// NewScript 创建回放输入源
func NewScript(frames ...State) *Script {
	return &Script{frames: frames}
}

// Poll 返回下一帧输入
func (s *Script) Poll() State {
	if s.next < len(s.frames) {
		st := s.frames[s.next]
		s.next++
		return st
	}
	if len(s.frames) == 0 {
		return State{}
	}
	last := s.frames[len(s.frames)-1]
	last.Drawing = false
	return last
}

// Done 是否已回放完所有帧
func (s *Script) Done() bool { return s.next >= len(s.frames) }

// Drag 生成一次从 from 到 to 的拖动（steps 帧按下，最后一帧抬起）
func Drag(from, to vec.Vec2, steps int, brushSize float64) []State {
	if steps < 1 {
		steps = 1
	}
	frames := make([]State, 0, steps+1)
	for i := 0; i < steps; i++ {
		t := 0.0
		if steps > 1 {
			t = float64(i) / float64(steps-1)
		}
		frames = append(frames, State{
			Drawing:   true,
			Screen:    from.Add(to.Sub(from).Mul(t)),
			BrushSize: brushSize,
		})
	}
	frames = append(frames, State{Screen: to, BrushSize: brushSize})
	return frames
}
