// Package stroke 将连续的指针路径转换为离散的圆盘编辑
//
// 相邻两帧的输入采样可能相距很远（快速拖动、低采样率），
// 本包保证笔画在视觉和物理上都是连续的：每移动一个像素至少落一个圆盘。
package stroke

import (
	"fmt"
	"image"
	"math"
	"strings"

	"seehuhn.de/go/geom/vec"
)

// BrushMode 笔刷作用方式
type BrushMode int

const (
	// BrushErase 擦除像素
	BrushErase BrushMode = iota
	// BrushPaint 恢复像素为不透明
	BrushPaint
)

// String 返回笔刷模式名称（与配置文件取值一致）
func (m BrushMode) String() string {
	switch m {
	case BrushErase:
		return "erase"
	case BrushPaint:
		return "paint"
	default:
		return fmt.Sprintf("BrushMode(%d)", int(m))
	}
}

// ParseBrushMode 解析笔刷模式名称
func ParseBrushMode(s string) (BrushMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "erase":
		return BrushErase, nil
	case "paint":
		return BrushPaint, nil
	default:
		return 0, fmt.Errorf("unknown brush mode %q", s)
	}
}

// Brush 圆盘笔刷，单次编辑过程中不可变
type Brush struct {
	Radius float64 // 半径（像素）
	Mode   BrushMode
}

// Interpolation 两次采样之间的插值算法
type Interpolation int

const (
	// InterpolateLerp 线性插值，步数 = ceil(距离)
	InterpolateLerp Interpolation = iota
	// InterpolateBresenham 整数 Bresenham 直线，每个直线像素落一个圆盘
	InterpolateBresenham
)

// String 返回插值算法名称（与配置文件取值一致）
func (i Interpolation) String() string {
	switch i {
	case InterpolateLerp:
		return "lerp"
	case InterpolateBresenham:
		return "bresenham"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// ParseInterpolation 解析插值算法名称
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lerp":
		return InterpolateLerp, nil
	case "bresenham":
		return InterpolateBresenham, nil
	default:
		return 0, fmt.Errorf("unknown interpolation %q", s)
	}
}

// RasterizeSegment 在 prev 与 curr 之间线性插值并对每个插值点调用 apply
//
// 步数为 ceil(|curr-prev|)，包含两个端点；长度为 0 时只在该点调用一次 apply。
//
// 返回：
//   - int: apply 的调用次数
func RasterizeSegment(prev, curr vec.Vec2, apply func(center vec.Vec2)) int {
	dist := curr.Sub(prev).Length()
	if dist == 0 || math.IsNaN(dist) || math.IsInf(dist, 0) {
		apply(curr)
		return 1
	}

	steps := int(math.Ceil(dist))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		apply(prev.Add(curr.Sub(prev).Mul(t)))
	}
	return steps + 1
}

// RasterizeLine 使用 Bresenham 算法遍历 p0 到 p1 之间的整数像素（含端点）
//
// 返回：
//   - int: apply 的调用次数
func RasterizeLine(p0, p1 image.Point, apply func(p image.Point)) int {
	dx := abs(p1.X - p0.X)
	dy := abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}
	err := dx - dy

	n := 0
	x, y := p0.X, p0.Y
	for {
		apply(image.Pt(x, y))
		n++
		if x == p1.X && y == p1.Y {
			return n
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Rasterizer 跟踪一次笔画的插值状态
//
// 笔画开始时 lastPoint 初始化为当前点，因此第一段长度为 0（只落一个圆盘）；
// 笔画结束时状态被清空。
type Rasterizer struct {
	interp Interpolation
	last   vec.Vec2
	active bool
}

// NewRasterizer 创建笔画光栅化器
func NewRasterizer(interp Interpolation) *Rasterizer {
	return &Rasterizer{interp: interp}
}

// Interpolation 返回插值算法
func (r *Rasterizer) Interpolation() Interpolation { return r.interp }

// Active 是否处于笔画中
func (r *Rasterizer) Active() bool { return r.active }

// Last 返回上一次采样点，笔画外返回 false
func (r *Rasterizer) Last() (vec.Vec2, bool) {
	return r.last, r.active
}

// Begin 开始新笔画
func (r *Rasterizer) Begin(p vec.Vec2) {
	r.last = p
	r.active = true
}

// End 结束当前笔画并清空插值状态
func (r *Rasterizer) End() {
	r.last = vec.Vec2{}
	r.active = false
}

// Continue 将笔画延伸到 p，对每个圆盘中心调用 apply
//
// 如果尚未开始笔画，先以 p 开始（不会从未定义的上一点插值）。
//
// 返回：
//   - int: 圆盘数量
func (r *Rasterizer) Continue(p vec.Vec2, apply func(center vec.Vec2)) int {
	if !r.active {
		r.Begin(p)
	}

	var n int
	switch r.interp {
	case InterpolateBresenham:
		p0 := image.Pt(int(math.Floor(r.last.X)), int(math.Floor(r.last.Y)))
		p1 := image.Pt(int(math.Floor(p.X)), int(math.Floor(p.Y)))
		n = RasterizeLine(p0, p1, func(q image.Point) {
			apply(vec.Vec2{X: float64(q.X), Y: float64(q.Y)})
		})
	default:
		n = RasterizeSegment(r.last, p, apply)
	}

	r.last = p
	return n
}
