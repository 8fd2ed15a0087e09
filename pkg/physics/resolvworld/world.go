// Package resolvworld 基于 github.com/solarlune/resolv 的轻量碰撞协作方
//
// resolv 使用 y 向下的整数网格做宽相检测，这里把世界坐标按固定边界和缩放
// 映射到网格坐标。宽相之后再对候选形状做精确测试：
//   - 单元碰撞体：点在凸四边形内
//   - 轮廓：对所有候选闭合轮廓做奇偶规则的射线测试（孔洞自然成立）
package resolvworld

import (
	"errors"
	"log"
	"math"

	"github.com/decker502/erasable/pkg/collision"
	"github.com/solarlune/resolv"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// 对象标签
const (
	TagBox     = "box"
	TagOutline = "outline"
	tagProbe   = "probe"
)

// ErrInvalidBounds 表示世界边界或缩放非法
var ErrInvalidBounds = errors.New("resolvworld: bounds must be non-empty and scale positive")

// probeSize 探针对象在网格坐标中的边长
const probeSize = 0.01

// World resolv 碰撞空间
type World struct {
	space  *resolv.Space
	bounds rect.Rect
	scale  float64

	boxes   map[collision.CellID]*resolv.Object
	outline []*resolv.Object
	probe   *resolv.Object
}

// New 创建碰撞空间
//
// 参数：
//   - bounds: 覆盖精灵的世界坐标范围，范围外的形状不参与检测
//   - scale: 每个世界单位对应的网格坐标长度
//   - cellSize: resolv 宽相网格的单元尺寸（网格坐标）
func New(bounds rect.Rect, scale float64, cellSize int) (*World, error) {
	if bounds.URx <= bounds.LLx || bounds.URy <= bounds.LLy || scale <= 0 || cellSize <= 0 {
		return nil, ErrInvalidBounds
	}
	w := int(math.Ceil((bounds.URx - bounds.LLx) * scale))
	h := int(math.Ceil((bounds.URy - bounds.LLy) * scale))

	world := &World{
		space:  resolv.NewSpace(w, h, cellSize, cellSize),
		bounds: bounds,
		scale:  scale,
		boxes:  make(map[collision.CellID]*resolv.Object),
	}
	world.probe = resolv.NewObject(0, 0, probeSize, probeSize, tagProbe)
	world.space.Add(world.probe)
	log.Printf("[resolvworld] space %dx%d, cell %d", w, h, cellSize)
	return world, nil
}

// Space 返回底层 resolv 空间
func (w *World) Space() *resolv.Space { return w.space }

// toGrid 世界坐标 → 网格坐标（y 向下）
func (w *World) toGrid(p vec.Vec2) (float64, float64) {
	return (p.X - w.bounds.LLx) * w.scale, (w.bounds.URy - p.Y) * w.scale
}

// newObject 把世界坐标包围盒转换为 resolv 对象
func (w *World) newObject(r rect.Rect, tag string) *resolv.Object {
	x, y := w.toGrid(vec.Vec2{X: r.LLx, Y: r.URy})
	return resolv.NewObject(x, y, (r.URx-r.LLx)*w.scale, (r.URy-r.LLy)*w.scale, tag)
}

// ReplaceOutline 每条轮廓一个对象，对象的 Data 保存世界坐标轮廓
func (w *World) ReplaceOutline(loops []collision.Loop) {
	if len(w.outline) > 0 {
		w.space.Remove(w.outline...)
	}
	w.outline = w.outline[:0]

	for _, loop := range loops {
		if len(loop) < 3 {
			continue
		}
		obj := w.newObject(loopBounds(loop), TagOutline)
		obj.Data = loop
		w.outline = append(w.outline, obj)
	}
	if len(w.outline) > 0 {
		w.space.Add(w.outline...)
	}
}

func loopBounds(loop collision.Loop) rect.Rect {
	r := rect.Rect{LLx: loop[0].X, LLy: loop[0].Y, URx: loop[0].X, URy: loop[0].Y}
	for _, p := range loop[1:] {
		r.LLx = min(r.LLx, p.X)
		r.LLy = min(r.LLy, p.Y)
		r.URx = max(r.URx, p.X)
		r.URy = max(r.URy, p.Y)
	}
	return r
}

// AddBox 添加单元碰撞体，宽相使用其包围盒
func (w *World) AddBox(b collision.Box) {
	if old, ok := w.boxes[b.Cell]; ok {
		w.space.Remove(old)
	}
	obj := w.newObject(b.AABB(), TagBox)
	obj.Data = b
	w.space.Add(obj)
	w.boxes[b.Cell] = obj
}

// RemoveBox 删除单元碰撞体，不存在时忽略
func (w *World) RemoveBox(id collision.CellID) {
	obj, ok := w.boxes[id]
	if !ok {
		return
	}
	w.space.Remove(obj)
	delete(w.boxes, id)
}

// Blocked 判断世界坐标点是否被碰撞形状覆盖
func (w *World) Blocked(p vec.Vec2) bool {
	if p.X < w.bounds.LLx || p.X > w.bounds.URx || p.Y < w.bounds.LLy || p.Y > w.bounds.URy {
		return false
	}

	w.probe.X, w.probe.Y = w.toGrid(p)
	w.probe.Update()
	hit := w.probe.Check(0, 0)
	if hit == nil {
		return false
	}

	inside := false
	seen := make(map[*resolv.Object]bool, len(hit.Objects))
	for _, obj := range hit.Objects {
		if seen[obj] {
			continue
		}
		seen[obj] = true
		switch data := obj.Data.(type) {
		case collision.Box:
			if insideQuad(data.Corners, p) {
				return true
			}
		case collision.Loop:
			if data.Crossings(p)%2 == 1 {
				inside = !inside
			}
		}
	}
	return inside
}

// insideQuad 点是否在凸四边形内（含边界），与顶点方向无关
func insideQuad(c [4]vec.Vec2, p vec.Vec2) bool {
	var pos, neg bool
	for i := range c {
		a, b := c[i], c[(i+1)%4]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross > 0 {
			pos = true
		} else if cross < 0 {
			neg = true
		}
	}
	return !(pos && neg)
}

// BoxCount 返回当前单元碰撞体数量
func (w *World) BoxCount() int { return len(w.boxes) }

// LoopCount 返回当前轮廓数量
func (w *World) LoopCount() int { return len(w.outline) }
