// Package collision 让物理碰撞形状与可擦除纹理的剩余像素保持同步
//
// 提供两种可互换的同步策略：
//   - PolygonSync（策略 A）：每次编辑后丢弃并重建精确轮廓，像素级精确但代价高
//   - GridSync（策略 B）：初始化时按单元生成矩形碰撞体，绘制时移除笔刷范围内的单元，
//     粒度粗、只会减少，但每帧代价为 O(单元数)
//
// 具体碰撞形状由物理协作方持有，本包只通过 OutlineSink / BoxSink 下发描述。
package collision

import (
	"errors"
	"fmt"
	"strings"

	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/raster"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

var (
	// ErrInvalidCellSize 表示网格单元尺寸非法
	ErrInvalidCellSize = errors.New("collision: cell size must be positive")

	// ErrMaskMismatch 表示 Mask 尺寸与坐标转换器的纹理尺寸不一致
	ErrMaskMismatch = errors.New("collision: mask size does not match mapper texture size")

	// ErrAlreadyInitialized 表示网格已经初始化过（单元被移除后不允许重建）
	ErrAlreadyInitialized = errors.New("collision: grid already initialized")
)

// Frame 单帧的同步输入
//
// 调用方必须在 Mask 完全更新之后再调用 Sync.Update。
type Frame struct {
	Mask     *raster.Mask
	Mutated  bool // 本帧是否修改了 Mask
	Drawing  bool // 本帧是否处于绘制状态
	Painting bool // 笔刷处于恢复模式

	BrushWorld       vec.Vec2 // 笔刷中心（世界坐标）
	BrushWorldRadius float64  // 笔刷半径（世界坐标）
}

// Sync 碰撞同步策略
type Sync interface {
	// Name 返回策略名称
	Name() string
	// Initialize 根据初始 Mask 建立碰撞形状，只调用一次
	Initialize(mask *raster.Mask) error
	// Update 每帧调用一次
	Update(f Frame)
}

// Reprojector 精灵变换改变后重新下发碰撞形状
type Reprojector interface {
	Reproject()
}

// Loop 闭合轮廓，首尾顶点不重复
type Loop []vec.Vec2

// OutlineSink 接收策略 A 的完整替换轮廓（世界坐标）
type OutlineSink interface {
	ReplaceOutline(loops []Loop)
}

// CellID 网格单元索引
type CellID struct {
	X, Y int
}

// Box 策略 B 的矩形碰撞体描述
type Box struct {
	Cell CellID

	// Center 单元中心（世界坐标）
	Center vec.Vec2

	// Corners 逆时针排列的四个角（世界坐标），精灵旋转时不再与坐标轴对齐
	Corners [4]vec.Vec2
}

// AABB 返回 Box 的世界坐标包围盒
func (b Box) AABB() rect.Rect {
	r := rect.Rect{LLx: b.Corners[0].X, LLy: b.Corners[0].Y, URx: b.Corners[0].X, URy: b.Corners[0].Y}
	for _, c := range b.Corners[1:] {
		r.LLx = min(r.LLx, c.X)
		r.LLy = min(r.LLy, c.Y)
		r.URx = max(r.URx, c.X)
		r.URy = max(r.URy, c.Y)
	}
	return r
}

// BoxSink 接收策略 B 的单元增删
type BoxSink interface {
	AddBox(b Box)
	RemoveBox(id CellID)
}

// Sink 同时支持两种策略的物理协作方
type Sink interface {
	OutlineSink
	BoxSink
}

// Strategy 同步策略类型
type Strategy int

const (
	// StrategyPolygon 策略 A：多边形重建
	StrategyPolygon Strategy = iota
	// StrategyGrid 策略 B：网格单元剔除
	StrategyGrid
)

// String 返回策略名称（与配置文件取值一致）
func (s Strategy) String() string {
	switch s {
	case StrategyPolygon:
		return "polygon"
	case StrategyGrid:
		return "grid"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy 解析策略名称
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "polygon":
		return StrategyPolygon, nil
	case "grid":
		return StrategyGrid, nil
	default:
		return 0, fmt.Errorf("unknown collision strategy %q", s)
	}
}

// Options 策略参数
type Options struct {
	// CellSize 网格单元边长（像素），仅策略 B 使用
	CellSize int
	// IndexedCulling 仅扫描笔刷包围盒覆盖的单元，仅策略 B 使用
	IndexedCulling bool
	// SimplifyTolerance 轮廓简化角度容差（弧度），仅策略 A 使用；0 表示只合并共线边
	SimplifyTolerance float64
}

// New 按策略创建同步器
//
// 参数：
//   - strategy: 同步策略
//   - mapper: 精灵坐标转换器
//   - sink: 物理协作方
//   - opts: 策略参数
func New(strategy Strategy, mapper *coords.Mapper, sink Sink, opts Options) (Sync, error) {
	switch strategy {
	case StrategyPolygon:
		return NewPolygonSync(mapper, sink, opts.SimplifyTolerance), nil
	case StrategyGrid:
		if opts.CellSize <= 0 {
			return nil, ErrInvalidCellSize
		}
		return NewGridSync(mapper, sink, opts.CellSize, opts.IndexedCulling), nil
	default:
		return nil, fmt.Errorf("unknown collision strategy: %v", strategy)
	}
}

func checkMask(mapper *coords.Mapper, mask *raster.Mask) error {
	if mask.Width() != mapper.TextureWidth || mask.Height() != mapper.TextureHeight {
		return fmt.Errorf("%w: mask %dx%d, mapper %dx%d", ErrMaskMismatch,
			mask.Width(), mask.Height(), mapper.TextureWidth, mapper.TextureHeight)
	}
	return nil
}
