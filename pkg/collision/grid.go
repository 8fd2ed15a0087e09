package collision

import (
	"image"
	"log"
	"math"

	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/raster"
	"seehuhn.de/go/geom/vec"
)

// gridCell 网格单元状态
type gridCell struct {
	box  Box
	live bool
}

// GridSync 策略 B：网格单元剔除
//
// 初始化时为每个含有不透明像素的单元生成一个矩形碰撞体；
// 绘制期间每帧移除中心落在笔刷半径内的单元。单元只会减少，不会重建。
type GridSync struct {
	mapper   *coords.Mapper
	sink     BoxSink
	cellSize int
	indexed  bool

	cols, rows int
	cells      []gridCell // 行优先，gy*cols+gx
	live       int
	ready      bool
}

// NewGridSync 创建网格剔除同步器
//
// 参数：
//   - mapper: 精灵坐标转换器
//   - sink: 接收单元增删的物理协作方
//   - cellSize: 单元边长（像素）
//   - indexed: true 时只检查笔刷包围盒覆盖的单元，false 时扫描所有单元
func NewGridSync(mapper *coords.Mapper, sink BoxSink, cellSize int, indexed bool) *GridSync {
	return &GridSync{
		mapper:   mapper,
		sink:     sink,
		cellSize: cellSize,
		indexed:  indexed,
	}
}

// Name 返回策略名称
func (g *GridSync) Name() string { return StrategyGrid.String() }

// Initialize 划分网格并为含有不透明像素的单元生成碰撞体
func (g *GridSync) Initialize(mask *raster.Mask) error {
	if g.cellSize <= 0 {
		return ErrInvalidCellSize
	}
	if g.ready {
		return ErrAlreadyInitialized
	}
	if err := checkMask(g.mapper, mask); err != nil {
		return err
	}

	cs := g.cellSize
	g.cols = (mask.Width() + cs - 1) / cs
	g.rows = (mask.Height() + cs - 1) / cs
	g.cells = make([]gridCell, g.cols*g.rows)

	for _, p := range mask.OpaqueCells(cs) {
		c := &g.cells[p.Y*g.cols+p.X]
		c.box = g.cellBox(p.X, p.Y)
		c.live = true
		g.live++
		g.sink.AddBox(c.box)
	}
	g.ready = true

	log.Printf("[GridSync] initialized: %dx%d grid, cell=%dpx, %d colliders", g.cols, g.rows, cs, g.live)
	return nil
}

// cellBox 计算单元在世界坐标中的矩形（边缘单元也使用完整尺寸）
func (g *GridSync) cellBox(gx, gy int) Box {
	cs := float64(g.cellSize)
	x0, y0 := float64(gx)*cs, float64(gy)*cs
	return Box{
		Cell:   CellID{X: gx, Y: gy},
		Center: g.mapper.PixelToWorld(vec.Vec2{X: x0 + cs/2, Y: y0 + cs/2}),
		Corners: [4]vec.Vec2{
			g.mapper.PixelToWorld(vec.Vec2{X: x0, Y: y0}),
			g.mapper.PixelToWorld(vec.Vec2{X: x0 + cs, Y: y0}),
			g.mapper.PixelToWorld(vec.Vec2{X: x0 + cs, Y: y0 + cs}),
			g.mapper.PixelToWorld(vec.Vec2{X: x0, Y: y0 + cs}),
		},
	}
}

// Reproject 精灵变换改变后，按当前变换重新下发所有存活单元
func (g *GridSync) Reproject() {
	for i := range g.cells {
		c := &g.cells[i]
		if !c.live {
			continue
		}
		c.box = g.cellBox(c.box.Cell.X, c.box.Cell.Y)
		g.sink.AddBox(c.box)
	}
}

// Update 擦除笔画期间每帧剔除一次（不论本帧是否真的擦除了像素）
//
// 恢复笔刷不剔除单元；单元只减不增，被恢复的像素不会重新获得碰撞体。
func (g *GridSync) Update(f Frame) {
	if !f.Drawing || f.Painting {
		return
	}
	if n := g.Cull(f.BrushWorld, f.BrushWorldRadius); n > 0 {
		log.Printf("[GridSync] culled %d cells, %d remaining", n, g.live)
	}
}

// Cull 永久移除中心与 pos 距离不超过 radius 的单元
//
// 单元中心按精灵当前变换重新计算，精灵移动后依然正确。
//
// 返回：
//   - int: 本次移除的单元数
func (g *GridSync) Cull(pos vec.Vec2, radius float64) int {
	if g.live == 0 || radius < 0 || math.IsNaN(radius) {
		return 0
	}

	x0, y0, x1, y1 := 0, 0, g.cols-1, g.rows-1
	if g.indexed {
		r, ok := g.candidateRange(pos, radius)
		if !ok {
			return 0
		}
		x0, y0, x1, y1 = r.Min.X, r.Min.Y, r.Max.X, r.Max.Y
	}

	removed := 0
	cs := float64(g.cellSize)
	for gy := y0; gy <= y1; gy++ {
		for gx := x0; gx <= x1; gx++ {
			c := &g.cells[gy*g.cols+gx]
			if !c.live {
				continue
			}
			center := g.mapper.PixelToWorld(vec.Vec2{X: float64(gx)*cs + cs/2, Y: float64(gy)*cs + cs/2})
			if center.Sub(pos).Length() > radius {
				continue
			}
			c.live = false
			g.live--
			removed++
			g.sink.RemoveBox(c.box.Cell)
		}
	}
	return removed
}

// candidateRange 返回可能落在笔刷内的单元索引范围（闭区间）
//
// 世界坐标中的圆经逆变换后是局部坐标中的椭圆，按其包围盒换算到网格索引，
// 并向外多取一格。
func (g *GridSync) candidateRange(pos vec.Vec2, radius float64) (image.Rectangle, bool) {
	m := g.mapper
	origin := m.WorldToLocal(pos)
	ex := m.WorldToLocal(pos.Add(vec.Vec2{X: radius})).Sub(origin)
	ey := m.WorldToLocal(pos.Add(vec.Vec2{Y: radius})).Sub(origin)

	c := m.WorldToPixelUnclamped(pos)
	px, py := c.X, c.Y
	hx := math.Hypot(ex.X, ey.X) / m.BoundsSize.X * float64(m.TextureWidth)
	hy := math.Hypot(ex.Y, ey.Y) / m.BoundsSize.Y * float64(m.TextureHeight)

	cs := float64(g.cellSize)
	lo := func(c, h float64) float64 { return math.Floor((c-h-cs/2)/cs) - 1 }
	hi := func(c, h float64) float64 { return math.Ceil((c+h-cs/2)/cs) + 1 }

	fx0, fx1 := lo(px, hx), hi(px, hx)
	fy0, fy1 := lo(py, hy), hi(py, hy)
	if math.IsNaN(fx0) || math.IsNaN(fy0) || fx1 < 0 || fy1 < 0 ||
		fx0 > float64(g.cols-1) || fy0 > float64(g.rows-1) {
		return image.Rectangle{}, false
	}

	return image.Rect(
		int(math.Max(fx0, 0)),
		int(math.Max(fy0, 0)),
		int(math.Min(fx1, float64(g.cols-1))),
		int(math.Min(fy1, float64(g.rows-1))),
	), true
}

// Dims 返回网格的列数和行数
func (g *GridSync) Dims() (cols, rows int) { return g.cols, g.rows }

// CellSize 返回单元边长（像素）
func (g *GridSync) CellSize() int { return g.cellSize }

// LiveCount 返回存活单元数
func (g *GridSync) LiveCount() int { return g.live }

// Cell 返回 (gx, gy) 单元的碰撞体，单元不存在、越界或已移除时返回 false
func (g *GridSync) Cell(gx, gy int) (Box, bool) {
	if gx < 0 || gy < 0 || gx >= g.cols || gy >= g.rows {
		return Box{}, false
	}
	c := g.cells[gy*g.cols+gx]
	return c.box, c.live
}

// LiveCells 按行优先顺序返回所有存活单元
func (g *GridSync) LiveCells() []CellID {
	ids := make([]CellID, 0, g.live)
	for _, c := range g.cells {
		if c.live {
			ids = append(ids, c.box.Cell)
		}
	}
	return ids
}
