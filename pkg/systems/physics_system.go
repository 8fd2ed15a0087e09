package systems

import (
	"github.com/decker502/erasable/pkg/physics/cpworld"
	"seehuhn.de/go/geom/vec"
)

// PhysicsSystem 以固定步长推进 Chipmunk 空间，并清理掉出世界的小球
type PhysicsSystem struct {
	world *cpworld.World

	// FixedStep 固定物理步长（秒）
	FixedStep float64
	// KillY 小球低于该高度（世界坐标）时不再绘制
	KillY float64

	accumulator float64
	steps       int
}

// NewPhysicsSystem 创建物理系统
//
// 参数:
//   - world: Chipmunk 物理空间
//   - killY: 出界高度
func NewPhysicsSystem(world *cpworld.World, killY float64) *PhysicsSystem {
	return &PhysicsSystem{
		world:     world,
		FixedStep: 1.0 / 120,
		KillY:     killY,
	}
}

// Update 累积帧时间，按固定步长推进
//
// 返回：
//   - int: 本帧执行的物理步数
func (ps *PhysicsSystem) Update(deltaTime float64) int {
	if deltaTime <= 0 || ps.FixedStep <= 0 {
		return 0
	}
	ps.accumulator += deltaTime
	n := 0
	for ps.accumulator >= ps.FixedStep {
		ps.world.Step(ps.FixedStep)
		ps.accumulator -= ps.FixedStep
		n++
	}
	ps.steps += n
	return n
}

// VisibleBalls 返回仍在世界内的小球位置
func (ps *PhysicsSystem) VisibleBalls() []vec.Vec2 {
	balls := ps.world.Balls()
	out := balls[:0]
	for _, b := range balls {
		if b.Y >= ps.KillY {
			out = append(out, b)
		}
	}
	return out
}

// Steps 返回累计物理步数
func (ps *PhysicsSystem) Steps() int { return ps.steps }

// World 返回物理空间
func (ps *PhysicsSystem) World() *cpworld.World { return ps.world }
