// Package raster 提供可擦除精灵的逐像素占用网格
//
// Mask 是碰撞同步与渲染上传的唯一数据来源：
//   - 0 表示已擦除（透明、无碰撞）
//   - >0 表示实心（不透明、参与碰撞）
//
// 坐标约定与纹理一致：行优先存储，原点在左下角（y 向上）。
// 所有访问在越界时静默忽略，因为该代码每帧都在用户输入驱动下运行。
package raster

import (
	"errors"
	"image"
	"math"
)

// ErrDegenerateSize 表示纹理尺寸为 0 或负数
var ErrDegenerateSize = errors.New("raster: degenerate texture size")

const (
	// Erased 完全擦除（透明）
	Erased uint8 = 0
	// Opaque 完全不透明
	Opaque uint8 = 255
)

// Mask 逐像素占用网格
//
// 不支持并发访问：一个 Mask 只属于一个精灵的编辑会话。
type Mask struct {
	width  int
	height int
	data   []uint8

	// dirty 自上次 ClearDirty 以来被修改过的像素区域（纹理坐标）
	dirty image.Rectangle

	// support 非 nil 时，Paint 只能恢复 support 为 true 的像素
	support []bool
}

// New 创建 width×height 的网格
//
// 参数：
//   - width, height: 纹理尺寸（像素），必须为正数
//   - initialOpaque: true 时所有像素初始化为 Opaque，否则为 Erased
//
// 返回：
//   - error: 尺寸非法时返回 ErrDegenerateSize
func New(width, height int, initialOpaque bool) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrDegenerateSize
	}

	m := &Mask{
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
	}
	if initialOpaque {
		for i := range m.data {
			m.data[i] = Opaque
		}
	}
	return m, nil
}

// FromAlpha 用图片的 alpha 通道初始化网格（RGBA32 变体）
//
// 图片行是自上而下的，网格行是自下而上的：图片第 0 行对应网格第 height-1 行。
func FromAlpha(img image.Image) (*Mask, error) {
	b := img.Bounds()
	m, err := New(b.Dx(), b.Dy(), false)
	if err != nil {
		return nil, err
	}

	for iy := 0; iy < m.height; iy++ {
		row := (m.height - 1 - iy) * m.width
		for x := 0; x < m.width; x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+iy).RGBA()
			m.data[row+x] = uint8(a >> 8)
		}
	}
	return m, nil
}

// Width 返回网格宽度
func (m *Mask) Width() int { return m.width }

// Height 返回网格高度
func (m *Mask) Height() int { return m.height }

// Bounds 返回网格范围
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// Data 返回底层数据（行优先，左下角原点），调用方不得修改
func (m *Mask) Data() []uint8 { return m.data }

func (m *Mask) inBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// At 返回 (x, y) 的占用值，越界返回 Erased
func (m *Mask) At(x, y int) uint8 {
	if !m.inBounds(x, y) {
		return Erased
	}
	return m.data[y*m.width+x]
}

// IsOpaque 判断像素是否实心，越界返回 false
func (m *Mask) IsOpaque(x, y int) bool {
	return m.At(x, y) > 0
}

// ErasePixel 擦除单个像素，越界时无操作
func (m *Mask) ErasePixel(x, y int) {
	m.set(x, y, Erased)
}

// PaintPixel 恢复单个像素为完全不透明，越界时无操作
func (m *Mask) PaintPixel(x, y int) {
	m.set(x, y, Opaque)
}

func (m *Mask) set(x, y int, v uint8) bool {
	if !m.inBounds(x, y) {
		return false
	}
	i := y*m.width + x
	if m.data[i] == v || (v != Erased && !m.paintable(i)) {
		return false
	}
	m.data[i] = v
	m.markDirty(image.Rect(x, y, x+1, y+1))
	return true
}

func (m *Mask) paintable(i int) bool {
	return m.support == nil || m.support[i]
}

// LimitPaint 把网格二值化，并限制之后的 Paint 只能恢复当前实心的像素
//
// 用于独立遮罩模式：源 alpha 为 0 的像素既不可见也不参与碰撞，恢复笔刷也不能让它们变成实心。
func (m *Mask) LimitPaint() {
	m.support = make([]bool, len(m.data))
	for i, v := range m.data {
		if v > 0 {
			m.data[i] = Opaque
			m.support[i] = true
		}
	}
}

func (m *Mask) markDirty(r image.Rectangle) {
	m.dirty = m.dirty.Union(r)
}

// EraseDisc 擦除圆盘内的所有像素
//
// 像素 (x, y) 满足 (x-cx)² + (y-cy)² < radius² 时被擦除。
// 严格小于：恰好位于圆周上的像素保留。
//
// 返回：
//   - bool: 是否有像素发生变化
func (m *Mask) EraseDisc(cx, cy, radius float64) bool {
	return m.fillDisc(cx, cy, radius, Erased)
}

// PaintDisc 将圆盘内的像素恢复为不透明，边界规则同 EraseDisc
//
// 调用过 LimitPaint 时只恢复允许的像素。
func (m *Mask) PaintDisc(cx, cy, radius float64) bool {
	return m.fillDisc(cx, cy, radius, Opaque)
}

func (m *Mask) fillDisc(cx, cy, radius float64, v uint8) bool {
	if radius <= 0 || math.IsNaN(cx) || math.IsNaN(cy) {
		return false
	}

	box := image.Rect(
		int(math.Floor(cx-radius)), int(math.Floor(cy-radius)),
		int(math.Ceil(cx+radius))+1, int(math.Ceil(cy+radius))+1,
	).Intersect(m.Bounds())
	if box.Empty() {
		return false
	}

	r2 := radius * radius
	changed := image.Rectangle{}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		dy := float64(y) - cy
		row := y * m.width
		for x := box.Min.X; x < box.Max.X; x++ {
			dx := float64(x) - cx
			if dx*dx+dy*dy >= r2 {
				continue
			}
			if v != Erased && !m.paintable(row+x) {
				continue
			}
			if m.data[row+x] != v {
				m.data[row+x] = v
				changed = changed.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}

	if changed.Empty() {
		return false
	}
	m.markDirty(changed)
	return true
}

// HasOpaqueIn 判断区域内是否存在实心像素，区域会先裁剪到网格范围
func (m *Mask) HasOpaqueIn(r image.Rectangle) bool {
	r = r.Intersect(m.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.data[y*m.width+r.Min.X : y*m.width+r.Max.X]
		for _, v := range row {
			if v > 0 {
				return true
			}
		}
	}
	return false
}

// OpaqueCells 按 cellSize 划分网格，返回含有实心像素的单元索引
//
// 单元按行优先顺序返回（先 gy 后 gx），最后一行/列的单元可能小于 cellSize。
// cellSize <= 0 时返回 nil。
func (m *Mask) OpaqueCells(cellSize int) []image.Point {
	if cellSize <= 0 {
		return nil
	}

	var cells []image.Point
	for gy := 0; gy*cellSize < m.height; gy++ {
		for gx := 0; gx*cellSize < m.width; gx++ {
			r := image.Rect(gx*cellSize, gy*cellSize, (gx+1)*cellSize, (gy+1)*cellSize)
			if m.HasOpaqueIn(r) {
				cells = append(cells, image.Pt(gx, gy))
			}
		}
	}
	return cells
}

// OpaqueCount 返回实心像素数量
func (m *Mask) OpaqueCount() int {
	n := 0
	for _, v := range m.data {
		if v > 0 {
			n++
		}
	}
	return n
}

// Dirty 返回自上次 ClearDirty 以来修改过的区域
func (m *Mask) Dirty() image.Rectangle { return m.dirty }

// ClearDirty 清空脏区域
func (m *Mask) ClearDirty() { m.dirty = image.Rectangle{} }

// Clone 返回网格的深拷贝
func (m *Mask) Clone() *Mask {
	c := &Mask{
		width:   m.width,
		height:  m.height,
		data:    make([]uint8, len(m.data)),
		dirty:   m.dirty,
		support: m.support,
	}
	copy(c.data, m.data)
	return c
}

// Equal 判断两个网格内容是否一致（忽略脏区域）
func (m *Mask) Equal(o *Mask) bool {
	if m.width != o.width || m.height != o.height {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}
	return true
}
