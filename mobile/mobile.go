//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数：
//
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.erasable -o build/android/erasable.aar -v ./mobile
//	ebitenmobile bind -target ios -tags mobile -o build/ios/Erasable.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/erasable/pkg/app"
	"github.com/decker502/erasable/pkg/embedded"
	"github.com/decker502/erasable/pkg/game"
	"github.com/decker502/erasable/pkg/utils"
)

func init() {
	// assetsFS 和 dataFS 在 embed.go 中声明
	embedded.Init(assetsFS, dataFS)

	// 存储不可用时偏好设置降级为内存模式
	var settings *game.SettingsManager
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[mobile] Warning: %v", err)
	} else if m, err := gdata.Open(gdata.Config{AppName: "erasable"}); err == nil {
		settings = game.NewSettingsManager(m)
	} else {
		log.Printf("[mobile] Warning: settings storage unavailable: %v", err)
	}

	// 大精灵默认使用网格剔除
	editor, err := app.NewApp(app.Config{
		Verbose:  true,
		Strategy: "grid",
		Physics:  app.PhysicsChipmunk,
		Audio:    true,
	}, settings)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	mobile.SetGame(editor)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
