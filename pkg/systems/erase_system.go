package systems

import (
	"log"

	"github.com/decker502/erasable/pkg/components"
	"github.com/decker502/erasable/pkg/ecs"
	"github.com/decker502/erasable/pkg/input"
)

// EraseSystem 每帧采样一次输入，驱动所有可擦除精灵的编辑会话
//
// 同一帧的输入会交给每个精灵；笔刷没有落在精灵上时 Tick 不会修改任何像素。
type EraseSystem struct {
	entityManager *ecs.EntityManager
	source        input.Source

	last input.State
}

// NewEraseSystem 创建擦除系统
//
// 参数:
//   - em: 实体管理器
//   - source: 输入源（ebiten 指针、脚本或测试替身）
func NewEraseSystem(em *ecs.EntityManager, source input.Source) *EraseSystem {
	return &EraseSystem{
		entityManager: em,
		source:        source,
	}
}

// Update 采样输入并逐个处理精灵
func (s *EraseSystem) Update() {
	in := s.source.Poll()
	s.last = in

	for _, id := range ecs.GetEntitiesWith1[*components.ErasableComponent](s.entityManager) {
		er, _ := ecs.GetComponent[*components.ErasableComponent](s.entityManager, id)
		if er.Session == nil {
			continue
		}

		// 先同步变换，保证本帧的坐标转换和碰撞形状使用最新位置
		if tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id); ok {
			if err := er.Session.SetTransform(tr.Matrix()); err != nil {
				log.Printf("[EraseSystem] entity %d: %v", id, err)
			}
		}

		frame := in
		if er.Paused {
			frame.Drawing = false
		}
		er.LastFrame = er.Session.Tick(frame)
	}
}

// LastInput 返回最近一帧采样到的输入
func (s *EraseSystem) LastInput() input.State { return s.last }
