package components

import (
	"github.com/decker502/erasable/pkg/session"
)

// ErasableComponent 可擦除精灵
// 持有编辑会话，每帧由 EraseSystem 驱动
type ErasableComponent struct {
	Name    string
	Session *session.Session

	// Paused 为 true 时忽略输入（碰撞形状保持不变）
	Paused bool

	// LastFrame 最近一帧的处理结果，供渲染笔刷指示器使用
	LastFrame session.FrameResult
}
