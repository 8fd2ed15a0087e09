package systems

import (
	"fmt"

	"github.com/decker502/erasable/pkg/collision"
	"github.com/decker502/erasable/pkg/components"
	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/ecs"
	"github.com/decker502/erasable/pkg/render"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RenderSystem 绘制可擦除精灵、碰撞调试层和状态文字
type RenderSystem struct {
	entityManager *ecs.EntityManager
	physics       *PhysicsSystem // 可为 nil
	ballRadius    float64

	// ShowHUD 是否在左上角显示状态文字
	ShowHUD bool
}

// NewRenderSystem 创建渲染系统
//
// 参数:
//   - em: 实体管理器
//   - physics: 物理系统，用于绘制小球，可为 nil
//   - ballRadius: 小球半径（世界坐标）
func NewRenderSystem(em *ecs.EntityManager, physics *PhysicsSystem, ballRadius float64) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		physics:       physics,
		ballRadius:    ballRadius,
		ShowHUD:       true,
	}
}

// Draw 按实体 ID 顺序绘制
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith2[*components.ErasableComponent, *components.SpriteViewComponent](s.entityManager) {
		er, _ := ecs.GetComponent[*components.ErasableComponent](s.entityManager, id)
		view, _ := ecs.GetComponent[*components.SpriteViewComponent](s.entityManager, id)
		if er.Session == nil || view.Hidden {
			continue
		}
		sess := er.Session
		render.DrawSprite(screen, view.Texture, render.GeoM(render.ImageToScreen(sess.Mapper(), sess.Camera())))

		overlay, ok := ecs.GetComponent[*components.ColliderOverlayComponent](s.entityManager, id)
		if !ok {
			continue
		}
		if overlay.Enabled {
			render.DrawColliders(screen, sess.Sync(), sess.Camera())
		}
		if overlay.ShowBrush && er.LastFrame.Drawing {
			render.DrawCircle(screen, sess.Camera(), er.LastFrame.World, er.LastFrame.WorldRadius, render.BrushColor)
		}
	}

	if s.physics != nil {
		if cam := s.firstCamera(); cam != nil {
			for _, b := range s.physics.VisibleBalls() {
				render.DrawCircle(screen, cam, b, s.ballRadius, render.BallColor)
			}
		}
	}

	if s.ShowHUD {
		for i, line := range s.HUDLines() {
			ebitenutil.DebugPrintAt(screen, line, 8, 8+16*i)
		}
	}
}

// firstCamera 返回第一个精灵的摄像机（所有精灵共用同一个摄像机）
func (s *RenderSystem) firstCamera() *coords.Camera {
	for _, id := range ecs.GetEntitiesWith1[*components.ErasableComponent](s.entityManager) {
		if er, _ := ecs.GetComponent[*components.ErasableComponent](s.entityManager, id); er.Session != nil {
			return er.Session.Camera()
		}
	}
	return nil
}

// HUDLines 返回每个精灵的状态文字
func (s *RenderSystem) HUDLines() []string {
	var lines []string
	for _, id := range ecs.GetEntitiesWith1[*components.ErasableComponent](s.entityManager) {
		er, _ := ecs.GetComponent[*components.ErasableComponent](s.entityManager, id)
		if er.Session == nil {
			continue
		}
		sess := er.Session
		line := fmt.Sprintf("%s [%s] brush=%s %.0fpx opaque=%d strokes=%d",
			er.Name, sess.Sync().Name(), sess.Brush().Mode, er.LastFrame.PixelRadius,
			sess.Mask().OpaqueCount(), sess.Strokes())
		switch sync := sess.Sync().(type) {
		case *collision.GridSync:
			line += fmt.Sprintf(" cells=%d", sync.LiveCount())
		case *collision.PolygonSync:
			line += fmt.Sprintf(" loops=%d", len(sync.Outline()))
		}
		lines = append(lines, line)
	}
	if s.physics != nil {
		lines = append(lines, fmt.Sprintf("balls=%d", len(s.physics.VisibleBalls())))
	}
	return lines
}
