package systems

import (
	"log"

	"github.com/decker502/erasable/pkg/components"
	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/ecs"
	"github.com/decker502/erasable/pkg/utils"
	"seehuhn.de/go/geom/vec"
)

// CameraSystem 管理摄像机平移和平滑动画
//
// 摄像机指针与编辑会话共享，平移后屏幕到纹理的映射立即生效。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	cameraEntity  ecs.EntityID
}

// NewCameraSystem 创建摄像机系统，并为 cam 创建摄像机实体
func NewCameraSystem(em *ecs.EntityManager, cam *coords.Camera) *CameraSystem {
	cs := &CameraSystem{entityManager: em}
	cs.cameraEntity = em.CreateEntity()
	em.AddComponent(cs.cameraEntity, &components.CameraComponent{
		Camera:     cam,
		Target:     cam.Position,
		EasingType: utils.EasingInOut,
	})
	return cs
}

func (cs *CameraSystem) component() (*components.CameraComponent, bool) {
	return ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
}

// Update 推进摄像机动画
func (cs *CameraSystem) Update(dt float64) {
	cc, ok := cs.component()
	if !ok || !cc.IsAnimating {
		return
	}

	cc.Elapsed += dt
	if cc.Duration <= 0 || cc.Elapsed >= cc.Duration {
		cc.Camera.Position = cc.Target
		cc.IsAnimating = false
		return
	}

	ease, _ := utils.EasingByName(cc.EasingType)
	cc.Camera.Position = utils.LerpVec(cc.From, cc.Target, ease(cc.Elapsed/cc.Duration))
}

// MoveTo 在 duration 秒内把摄像机中心移动到 target（世界坐标）
//
// 参数：
//   - easing: 缓动类型，未知名称按线性处理
func (cs *CameraSystem) MoveTo(target vec.Vec2, duration float64, easing string) {
	cc, ok := cs.component()
	if !ok {
		return
	}
	if _, known := utils.EasingByName(easing); !known {
		log.Printf("[CameraSystem] unknown easing %q, using linear", easing)
	}

	cc.From = cc.Camera.Position
	cc.Target = target
	cc.Duration = duration
	cc.Elapsed = 0
	cc.EasingType = easing
	cc.IsAnimating = true
}

// Pan 立即平移摄像机，打断正在进行的动画
func (cs *CameraSystem) Pan(delta vec.Vec2) {
	cc, ok := cs.component()
	if !ok {
		return
	}
	cc.IsAnimating = false
	cc.Camera.Position = cc.Camera.Position.Add(delta)
	cc.Target = cc.Camera.Position
}

// StopAnimation 停止动画，立即跳到目标位置
func (cs *CameraSystem) StopAnimation() {
	cc, ok := cs.component()
	if !ok {
		return
	}
	cc.IsAnimating = false
	cc.Camera.Position = cc.Target
}

// IsAnimating 返回摄像机是否正在动画中
func (cs *CameraSystem) IsAnimating() bool {
	cc, ok := cs.component()
	return ok && cc.IsAnimating
}
