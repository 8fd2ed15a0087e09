// Package app 提供编辑器应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/erasable/pkg/collision"
	"github.com/decker502/erasable/pkg/components"
	"github.com/decker502/erasable/pkg/config"
	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/ecs"
	"github.com/decker502/erasable/pkg/embedded"
	"github.com/decker502/erasable/pkg/game"
	"github.com/decker502/erasable/pkg/physics/cpworld"
	"github.com/decker502/erasable/pkg/physics/resolvworld"
	"github.com/decker502/erasable/pkg/render"
	"github.com/decker502/erasable/pkg/session"
	"github.com/decker502/erasable/pkg/stroke"
	"github.com/decker502/erasable/pkg/systems"
	"github.com/decker502/erasable/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// 逻辑屏幕尺寸
const (
	ScreenWidth  = 960
	ScreenHeight = 540

	// 每个世界单位的屏幕像素数
	screenPixelsPerUnit = 200

	ballRadius = 0.04

	audioSampleRate = 48000

	// 摄像机回到精灵的动画时长（秒）
	cameraFocusDuration = 0.4
)

// 物理后端名称
const (
	PhysicsChipmunk = "chipmunk"
	PhysicsResolv   = "resolv"
)

// ErrUnknownPhysics 表示未知的物理后端
var ErrUnknownPhysics = errors.New("unknown physics backend")

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// SpriteConfig 精灵配置路径（data/ 下），为空则使用设置中的最近配置
	SpriteConfig string
	// Strategy 覆盖碰撞策略（polygon / grid），为空则使用设置或精灵配置
	Strategy string
	// Physics 物理后端：chipmunk（默认，带小球演示）或 resolv（只做点查询）
	Physics string
	// Audio 启用笔画音效（需要音频设备）
	Audio bool
}

// blocker 支持点查询的物理协作方
type blocker interface {
	collision.Sink
	Blocked(p vec.Vec2) bool
}

// App 是编辑器应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg      Config
	settings *game.SettingsManager
	sprite   *config.SpriteConfig

	camera  *coords.Camera
	pointer *utils.PointerSource

	entityManager *ecs.EntityManager
	entity        ecs.EntityID
	eraseSystem   *systems.EraseSystem
	cameraSystem  *systems.CameraSystem
	audio         *game.AudioManager
	renderSystem  *systems.RenderSystem
	physicsSystem *systems.PhysicsSystem // resolv 后端时为 nil
	cp            *cpworld.World         // resolv 后端时为 nil
	blocker       blocker

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化编辑器应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
//
// 参数：
//   - cfg: 启动配置
//   - settings: 偏好设置管理器，可为 nil（使用默认设置、不持久化）
func NewApp(cfg Config, settings *game.SettingsManager) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}
	if settings == nil {
		settings = game.NewSettingsManager(nil)
	}
	if cfg.Physics == "" {
		cfg.Physics = PhysicsChipmunk
	}
	if cfg.Physics != PhysicsChipmunk && cfg.Physics != PhysicsResolv {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPhysics, cfg.Physics)
	}
	if cfg.Strategy != "" {
		if err := settings.SetStrategy(cfg.Strategy); err != nil {
			return nil, err
		}
	}
	if cfg.SpriteConfig == "" {
		cfg.SpriteConfig = settings.GetSettings().LastConfig
	}

	a := &App{
		cfg:      cfg,
		settings: settings,
		camera: &coords.Camera{
			PixelsPerUnit: screenPixelsPerUnit,
			ScreenWidth:   ScreenWidth,
			ScreenHeight:  ScreenHeight,
		},
	}
	var actx *audio.Context
	if cfg.Audio {
		actx = audioContext()
	}
	a.audio = game.NewAudioManager(actx, settings)
	if err := a.load(); err != nil {
		return nil, err
	}

	settings.SetLastConfig(cfg.SpriteConfig)
	if err := settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	return a, nil
}

// load 读取精灵配置和纹理，重建实体、物理空间和系统
func (a *App) load() error {
	data, err := embedded.ReadFile(a.cfg.SpriteConfig)
	if err != nil {
		return fmt.Errorf("精灵配置读取失败: %w", err)
	}
	sc, err := config.ParseSpriteConfig(data)
	if err != nil {
		return fmt.Errorf("精灵配置解析失败 %s: %w", a.cfg.SpriteConfig, err)
	}
	if sc, err = a.settings.Apply(sc); err != nil {
		return err
	}
	if sc.Image == "" {
		return fmt.Errorf("%w: %s has no image", config.ErrInvalidConfig, a.cfg.SpriteConfig)
	}
	img, err := embedded.LoadImage(sc.Image)
	if err != nil {
		return fmt.Errorf("精灵纹理加载失败: %w", err)
	}
	log.Printf("[Config] 加载精灵配置: %s (%s, %s)", a.cfg.SpriteConfig, sc.Image, sc.Strategy)

	// 物理空间覆盖整个屏幕
	halfW := float64(ScreenWidth) / screenPixelsPerUnit / 2
	halfH := float64(ScreenHeight) / screenPixelsPerUnit / 2
	a.cp, a.physicsSystem = nil, nil
	switch a.cfg.Physics {
	case PhysicsChipmunk:
		a.cp = cpworld.New(vec.Vec2{Y: -9.8}, 0.01)
		a.physicsSystem = systems.NewPhysicsSystem(a.cp, -halfH-1)
		a.blocker = a.cp
	case PhysicsResolv:
		rw, err := resolvworld.New(rect.Rect{LLx: -halfW, LLy: -halfH, URx: halfW, URy: halfH}, screenPixelsPerUnit, 16)
		if err != nil {
			return err
		}
		a.blocker = rw
	}

	tex := render.NewEbitenTexture()
	sess, err := session.Build(session.Sprite{
		Config:    sc,
		Source:    img,
		Transform: coords.SpriteTransform(vec.Vec2{}, 0, 1),
		Camera:    a.camera,
		Physics:   a.blocker,
		Sink:      tex,
	})
	if err != nil {
		return err
	}

	brushSize := utils.PointerBrushSize(sc.Brush.Size)
	if a.settings.GetSettings().BrushRadius > 0 {
		// 偏好中的像素半径优先于比例尺寸
		brushSize = 0
	}
	a.pointer = utils.NewPointerSource(brushSize)

	a.entityManager = ecs.NewEntityManager()
	a.entity = a.entityManager.CreateEntity()
	a.entityManager.AddComponent(a.entity, &components.ErasableComponent{Name: sc.Image, Session: sess})
	a.entityManager.AddComponent(a.entity, &components.TransformComponent{Scale: 1})
	a.entityManager.AddComponent(a.entity, &components.SpriteViewComponent{Texture: tex})
	a.entityManager.AddComponent(a.entity, &components.ColliderOverlayComponent{
		Enabled:   a.settings.GetSettings().ShowColliders,
		ShowBrush: true,
	})

	a.sprite = sc
	a.eraseSystem = systems.NewEraseSystem(a.entityManager, a.pointer)
	a.cameraSystem = systems.NewCameraSystem(a.entityManager, a.camera)
	a.renderSystem = systems.NewRenderSystem(a.entityManager, a.physicsSystem, ballRadius)
	return nil
}

// Update 更新编辑器逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	a.updateWindow()

	er, _ := ecs.GetComponent[*components.ErasableComponent](a.entityManager, a.entity)
	overlay, _ := ecs.GetComponent[*components.ColliderOverlayComponent](a.entityManager, a.entity)
	sess := er.Session

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		overlay.Enabled = !overlay.Enabled
		a.settings.SetShowColliders(overlay.Enabled)
		a.saveSettings()
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		a.setBrushMode(sess, stroke.BrushErase)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		a.setBrushMode(sess, stroke.BrushPaint)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		log.Printf("[App] reloading %s", a.cfg.SpriteConfig)
		return a.load()
	case inpututil.IsKeyJustPressed(ebiten.KeyB) && a.cp != nil:
		_, x, y := utils.GetPointerState()
		a.cp.AddBall(a.camera.ScreenToWorld(vec.Vec2{X: float64(x), Y: float64(y)}), ballRadius, 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		enabled := !a.settings.GetSettings().SoundEnabled
		a.settings.SetSoundEnabled(enabled)
		a.saveSettings()
		log.Printf("[App] stroke sounds: %v", enabled)
	}

	a.updateMovement()

	a.eraseSystem.Update()
	if er.LastFrame.Started {
		a.audio.PlayStroke(sess.Brush().Mode)
	}
	a.cameraSystem.Update(1.0 / 60.0)
	if a.physicsSystem != nil {
		a.physicsSystem.Update(1.0 / 60.0)
	}
	return nil
}

// updateMovement 方向键移动、Q/W 旋转精灵；按住 Shift 时方向键平移摄像机，C 让摄像机回到精灵
func (a *App) updateMovement() {
	tr, ok := ecs.GetComponent[*components.TransformComponent](a.entityManager, a.entity)
	if !ok {
		return
	}
	const move, turn = 0.02, 1.0

	var d vec.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		d.X -= move
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		d.X += move
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		d.Y += move
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		d.Y -= move
	}
	if d != (vec.Vec2{}) {
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			a.cameraSystem.Pan(d)
		} else {
			tr.Position = tr.Position.Add(d)
		}
	}

	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		tr.Rotation += turn
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		tr.Rotation -= turn
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.cameraSystem.MoveTo(tr.Position, cameraFocusDuration, utils.EasingInOut)
	}
}

// audioContext 返回进程内唯一的音频上下文
func audioContext() *audio.Context {
	if ctx := audio.CurrentContext(); ctx != nil {
		return ctx
	}
	return audio.NewContext(audioSampleRate)
}

func (a *App) setBrushMode(sess *session.Session, mode stroke.BrushMode) {
	b := sess.Brush()
	b.Mode = mode
	sess.SetBrush(b)
	if err := a.settings.SetBrushMode(mode.String()); err == nil {
		a.saveSettings()
	}
	log.Printf("[App] brush mode: %s", mode)
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// updateWindow 处理 F11 全屏切换
func (a *App) updateWindow() {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settings.SetFullscreen(false)
		} else {
			ebiten.SetFullscreen(true)
			a.settings.SetFullscreen(true)
		}
		a.saveSettings()
	}
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 48, G: 52, B: 64, A: 255})
	a.renderSystem.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Session 返回当前编辑会话
func (a *App) Session() *session.Session {
	er, _ := ecs.GetComponent[*components.ErasableComponent](a.entityManager, a.entity)
	return er.Session
}

// SpriteConfig 返回生效的精灵配置（已应用偏好设置）
func (a *App) SpriteConfig() *config.SpriteConfig { return a.sprite }

// Blocked 查询世界坐标点是否被碰撞形状覆盖
func (a *App) Blocked(p vec.Vec2) bool { return a.blocker.Blocked(p) }
