package main

import (
	"flag"
	"log"

	"github.com/decker502/erasable/pkg/app"
	"github.com/decker502/erasable/pkg/embedded"
	"github.com/decker502/erasable/pkg/game"
	"github.com/decker502/erasable/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	spriteConfig := flag.String("config", "", "精灵配置路径，例如 data/sprites/grid.yaml")
	strategy := flag.String("strategy", "", "覆盖碰撞策略：polygon 或 grid")
	physics := flag.String("physics", app.PhysicsChipmunk, "物理后端：chipmunk 或 resolv")
	mute := flag.Bool("mute", false, "关闭笔画音效")
	flag.Parse()

	// 初始化嵌入资源（assetsFS 和 dataFS 在 embed.go 中声明）
	embedded.Init(assetsFS, dataFS)

	// 偏好设置持久化失败时降级为内存模式
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[main] Warning: %v", err)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: "erasable"})
	if err != nil {
		log.Printf("[main] Warning: settings storage unavailable: %v", err)
		gdataManager = nil
	}
	settings := game.NewSettingsManager(gdataManager)

	editor, err := app.NewApp(app.Config{
		Verbose:      *verbose,
		SpriteConfig: *spriteConfig,
		Strategy:     *strategy,
		Physics:      *physics,
		Audio:        !*mute,
	}, settings)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("Erasable Sprite")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(settings.GetSettings().Fullscreen)

	if err := ebiten.RunGame(editor); err != nil {
		log.Fatal(err)
	}
}
