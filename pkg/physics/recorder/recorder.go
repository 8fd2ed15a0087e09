// Package recorder 提供内存中的物理协作方
//
// 只记录碰撞同步下发的形状，不做任何物理模拟。
// 用于测试、命令行工具以及调试层绘制。
package recorder

import (
	"sort"

	"github.com/decker502/erasable/pkg/collision"
)

// Recorder 记录当前存在的碰撞形状
type Recorder struct {
	outline []collision.Loop
	boxes   map[collision.CellID]collision.Box

	// 调用计数
	Replaces int
	Adds     int
	Removes  int
}

// New 创建记录器
func New() *Recorder {
	return &Recorder{boxes: make(map[collision.CellID]collision.Box)}
}

// ReplaceOutline 整体替换轮廓
func (r *Recorder) ReplaceOutline(loops []collision.Loop) {
	r.outline = loops
	r.Replaces++
}

// AddBox 添加单元碰撞体
func (r *Recorder) AddBox(b collision.Box) {
	r.boxes[b.Cell] = b
	r.Adds++
}

// RemoveBox 移除单元碰撞体，不存在时忽略
func (r *Recorder) RemoveBox(id collision.CellID) {
	if _, ok := r.boxes[id]; !ok {
		return
	}
	delete(r.boxes, id)
	r.Removes++
}

// Outline 返回当前轮廓（世界坐标）
func (r *Recorder) Outline() []collision.Loop { return r.outline }

// BoxCount 返回当前单元碰撞体数量
func (r *Recorder) BoxCount() int { return len(r.boxes) }

// Box 返回指定单元的碰撞体
func (r *Recorder) Box(id collision.CellID) (collision.Box, bool) {
	b, ok := r.boxes[id]
	return b, ok
}

// Boxes 按 (Y, X) 顺序返回所有单元碰撞体
func (r *Recorder) Boxes() []collision.Box {
	out := make([]collision.Box, 0, len(r.boxes))
	for _, b := range r.boxes {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cell.Y != out[j].Cell.Y {
			return out[i].Cell.Y < out[j].Cell.Y
		}
		return out[i].Cell.X < out[j].Cell.X
	})
	return out
}

// Reset 清空所有形状和计数
func (r *Recorder) Reset() {
	r.outline = nil
	r.boxes = make(map[collision.CellID]collision.Box)
	r.Replaces, r.Adds, r.Removes = 0, 0, 0
}
