package collision

import (
	"log"

	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/raster"
)

// PolygonSync 策略 A：每次编辑后完整重建轮廓碰撞形状
//
// 形状没有独立身份：每次 Refresh 都整体替换，从不增量修补。
// 代价为 O(轮廓复杂度)，只适合小精灵或低频编辑。
type PolygonSync struct {
	mapper    *coords.Mapper
	sink      OutlineSink
	tolerance float64

	// loops 最近一次提取的轮廓（纹理像素坐标）
	loops     []Loop
	world     []Loop
	refreshes int
}

// NewPolygonSync 创建多边形重建同步器
//
// 参数：
//   - mapper: 精灵坐标转换器，用于将轮廓转换为世界坐标
//   - sink: 接收替换轮廓的物理协作方
//   - tolerance: 轮廓简化角度容差（弧度）
func NewPolygonSync(mapper *coords.Mapper, sink OutlineSink, tolerance float64) *PolygonSync {
	return &PolygonSync{
		mapper:    mapper,
		sink:      sink,
		tolerance: tolerance,
	}
}

// Name 返回策略名称
func (p *PolygonSync) Name() string { return StrategyPolygon.String() }

// Initialize 生成初始轮廓
func (p *PolygonSync) Initialize(mask *raster.Mask) error {
	if err := checkMask(p.mapper, mask); err != nil {
		return err
	}
	p.Refresh(mask)
	log.Printf("[PolygonSync] initialized: %d loops", len(p.loops))
	return nil
}

// Update 本帧修改过 Mask 时重建轮廓
func (p *PolygonSync) Update(f Frame) {
	if f.Mutated && f.Mask != nil {
		p.Refresh(f.Mask)
	}
}

// Refresh 丢弃旧形状并根据当前 Mask 重建
func (p *PolygonSync) Refresh(mask *raster.Mask) {
	p.loops = Trace(mask, p.tolerance)
	p.refreshes++
	p.Reproject()
}

// Reproject 按精灵当前变换重新映射轮廓并整体替换，不重新提取
func (p *PolygonSync) Reproject() {
	world := make([]Loop, len(p.loops))
	for i, l := range p.loops {
		wl := make(Loop, len(l))
		for j, v := range l {
			wl[j] = p.mapper.PixelToWorld(v)
		}
		world[i] = wl
	}
	p.world = world
	p.sink.ReplaceOutline(world)
}

// Outline 返回最近一次提取的轮廓（纹理像素坐标）
func (p *PolygonSync) Outline() []Loop { return p.loops }

// WorldOutline 返回最近一次下发的轮廓（世界坐标）
func (p *PolygonSync) WorldOutline() []Loop { return p.world }

// Refreshes 返回重建次数
func (p *PolygonSync) Refreshes() int { return p.refreshes }
