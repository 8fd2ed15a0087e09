// Package cpworld 基于 Chipmunk2D（github.com/jakecoffman/cp）的物理协作方
//
// 可擦除精灵的碰撞形状全部挂在空间的静态刚体上：
//   - 轮廓策略：每条闭合轮廓拆成若干线段形状，整体替换
//   - 网格策略：每个单元一个四边形形状，只删除不重建
//
// 动态刚体（例如掉落的小球）可以通过 AddBall 加入同一空间，用于演示碰撞效果。
package cpworld

import (
	"log"

	"github.com/decker502/erasable/pkg/collision"
	"github.com/jakecoffman/cp"
	"seehuhn.de/go/geom/vec"
)

// 形状的默认材质参数
const (
	defaultFriction   = 0.8
	defaultElasticity = 0.1
)

// World 物理空间
type World struct {
	space *cp.Space

	// segmentRadius 轮廓线段的半径（世界单位），给线段一点厚度避免穿透
	segmentRadius float64

	outline []*cp.Shape
	loops   []collision.Loop
	boxes   map[collision.CellID]*cp.Shape
	balls   []*cp.Body
}

// New 创建物理空间
//
// 参数：
//   - gravity: 重力（世界坐标，y 向上）
//   - segmentRadius: 轮廓线段半径
func New(gravity vec.Vec2, segmentRadius float64) *World {
	space := cp.NewSpace()
	space.SetGravity(toCP(gravity))
	return &World{
		space:         space,
		segmentRadius: segmentRadius,
		boxes:         make(map[collision.CellID]*cp.Shape),
	}
}

func toCP(v vec.Vec2) cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

func fromCP(v cp.Vector) vec.Vec2 { return vec.Vec2{X: v.X, Y: v.Y} }

// Space 返回底层 Chipmunk 空间
func (w *World) Space() *cp.Space { return w.space }

// ReplaceOutline 丢弃旧轮廓形状，按新的轮廓生成静态线段
func (w *World) ReplaceOutline(loops []collision.Loop) {
	for _, s := range w.outline {
		w.space.RemoveShape(s)
	}
	w.outline = w.outline[:0]
	w.loops = loops

	body := w.space.StaticBody
	for _, loop := range loops {
		n := len(loop)
		if n < 2 {
			continue
		}
		for i := range loop {
			a, b := loop[i], loop[(i+1)%n]
			if a == b {
				continue
			}
			s := w.space.AddShape(cp.NewSegment(body, toCP(a), toCP(b), w.segmentRadius))
			s.SetFriction(defaultFriction)
			s.SetElasticity(defaultElasticity)
			w.outline = append(w.outline, s)
		}
	}
}

// AddBox 为网格单元添加四边形静态形状
func (w *World) AddBox(b collision.Box) {
	if old, ok := w.boxes[b.Cell]; ok {
		w.space.RemoveShape(old)
	}

	verts := make([]cp.Vector, 4)
	for i, c := range b.Corners {
		verts[i] = toCP(c)
	}
	// Chipmunk 要求逆时针顶点；镜像变换会翻转方向
	if signedArea(verts) < 0 {
		verts[1], verts[3] = verts[3], verts[1]
	}

	s := w.space.AddShape(cp.NewPolyShapeRaw(w.space.StaticBody, len(verts), verts, 0))
	s.SetFriction(defaultFriction)
	s.SetElasticity(defaultElasticity)
	w.boxes[b.Cell] = s
}

// RemoveBox 删除网格单元的形状，不存在时忽略
func (w *World) RemoveBox(id collision.CellID) {
	s, ok := w.boxes[id]
	if !ok {
		return
	}
	w.space.RemoveShape(s)
	delete(w.boxes, id)
}

func signedArea(verts []cp.Vector) float64 {
	var a float64
	for i := range verts {
		p, q := verts[i], verts[(i+1)%len(verts)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// AddBall 添加一个动态圆形刚体
func (w *World) AddBall(pos vec.Vec2, radius, mass float64) *cp.Body {
	body := w.space.AddBody(cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{})))
	body.SetPosition(toCP(pos))

	s := w.space.AddShape(cp.NewCircle(body, radius, cp.Vector{}))
	s.SetFriction(defaultFriction)
	s.SetElasticity(defaultElasticity)

	w.balls = append(w.balls, body)
	log.Printf("[cpworld] ball added at (%.2f, %.2f), r=%.2f", pos.X, pos.Y, radius)
	return body
}

// Balls 返回所有动态圆形刚体的位置
func (w *World) Balls() []vec.Vec2 {
	out := make([]vec.Vec2, len(w.balls))
	for i, b := range w.balls {
		out[i] = fromCP(b.Position())
	}
	return out
}

// Step 推进物理模拟
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.space.Step(dt)
}

// Blocked 判断世界坐标点是否被碰撞形状覆盖
//
// 轮廓线段本身没有内部，所以轮廓按奇偶规则判断，单元四边形用 Chipmunk 点查询。
func (w *World) Blocked(p vec.Vec2) bool {
	if collision.Inside(w.loops, p) {
		return true
	}
	info := w.space.PointQueryNearest(toCP(p), 0, cp.SHAPE_FILTER_ALL)
	return info.Shape != nil && info.Shape.Body() == w.space.StaticBody
}

// OutlineSegments 返回当前轮廓线段数量
func (w *World) OutlineSegments() int { return len(w.outline) }

// BoxCount 返回当前单元形状数量
func (w *World) BoxCount() int { return len(w.boxes) }

// ShapeCount 返回空间中静态形状的总数
func (w *World) ShapeCount() int {
	n := 0
	w.space.EachShape(func(s *cp.Shape) {
		if s.Body() == w.space.StaticBody {
			n++
		}
	})
	return n
}
