//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// 构建前需要把 assets/sprites 和 data/sprites 复制到本目录：
//
//	mkdir -p mobile/assets mobile/data
//	cp -r assets/sprites mobile/assets/ && cp -r data/sprites mobile/data/
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed assets/sprites
var assetsFS embed.FS

//go:embed data/sprites
var dataFS embed.FS
