// outline 提取精灵纹理的碰撞轮廓并导出为 YAML
//
// 用法：
//
//	go run ./cmd/outline -config data/sprites/default.yaml
//	go run ./cmd/outline -image assets/sprites/terrain.png -mode alpha -o terrain.yaml -preview terrain_outline.png
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/decker502/erasable/pkg/config"
	"github.com/decker502/erasable/pkg/embedded"
	"github.com/decker502/erasable/pkg/raster"
	"gopkg.in/yaml.v3"
)

func main() {
	configPath := flag.String("config", config.DefaultSpriteConfigPath, "精灵配置文件路径（提供图片、遮罩模式和简化容差）")
	imagePath := flag.String("image", "", "直接指定 PNG 图片，覆盖配置中的图片")
	mode := flag.String("mode", "", "遮罩模式覆盖：alpha 或 mask")
	tolerance := flag.Float64("tolerance", -1, "简化角度容差（弧度），负数表示使用配置值")
	root := flag.String("root", ".", "资源根目录（包含 assets/ 和 data/）")
	output := flag.String("o", "", "YAML 输出文件，为空时写到标准输出")
	preview := flag.String("preview", "", "轮廓预览 PNG 输出路径")
	scale := flag.Int("scale", 4, "预览图放大倍数")
	flag.Parse()

	dir := os.DirFS(*root)
	embedded.Init(dir, dir)

	sc, err := loadConfig(*configPath, *imagePath)
	if err != nil {
		log.Fatalf("❌ 加载配置失败: %v", err)
	}
	if *mode != "" {
		sc.MaskMode = *mode
	}
	if *tolerance >= 0 {
		sc.Outline.SimplifyTolerance = *tolerance
	}

	maskMode, err := raster.ParseMaskMode(sc.MaskMode)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	img, err := embedded.LoadImage(sc.Image)
	if err != nil {
		log.Fatalf("❌ 加载图片失败: %v", err)
	}
	tex, err := raster.NewTexture(img, maskMode)
	if err != nil {
		log.Fatalf("❌ 创建纹理失败: %v", err)
	}

	doc := NewDocument(sc.Image, tex.Mask(), maskMode, sc.Outline.SimplifyTolerance)
	log.Printf("[outline] %s: %dx%d, %d loops (%d holes), %d opaque px",
		sc.Image, doc.Width, doc.Height, len(doc.Loops), doc.Holes(), doc.Opaque)

	if err := writeDocument(doc, *output); err != nil {
		log.Fatalf("❌ 写入轮廓失败: %v", err)
	}

	if *preview != "" {
		if err := writePreview(Preview(tex.Mask(), doc, *scale), *preview); err != nil {
			log.Fatalf("❌ 写入预览失败: %v", err)
		}
		log.Printf("[outline] preview saved to %s", *preview)
	}
}

// loadConfig 读取精灵配置；指定了图片时配置文件可以不存在
func loadConfig(configPath, imagePath string) (*config.SpriteConfig, error) {
	sc := config.DefaultSpriteConfig()
	if configPath != "" {
		data, err := embedded.ReadFile(configPath)
		switch {
		case err == nil:
			if sc, err = config.ParseSpriteConfig(data); err != nil {
				return nil, err
			}
		case imagePath == "":
			return nil, err
		}
	}
	if imagePath != "" {
		sc.Image = imagePath
	}
	if sc.Image == "" {
		return nil, fmt.Errorf("%w: no image given", config.ErrInvalidConfig)
	}
	return sc, nil
}

func writeDocument(doc *Document, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func writePreview(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
