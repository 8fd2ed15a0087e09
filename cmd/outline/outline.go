package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/decker502/erasable/pkg/collision"
	"github.com/decker502/erasable/pkg/raster"
	"github.com/decker502/erasable/pkg/stroke"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Document 导出的轮廓文档
type Document struct {
	Image     string    `yaml:"image"`
	Width     int       `yaml:"width"`
	Height    int       `yaml:"height"`
	Mode      string    `yaml:"mode"`
	Tolerance float64   `yaml:"tolerance"`
	Opaque    int       `yaml:"opaque"`
	Loops     []LoopDoc `yaml:"loops"`
}

// LoopDoc 单条闭合轮廓（纹理像素坐标，左下角原点）
type LoopDoc struct {
	Hole   bool         `yaml:"hole"`
	Area   float64      `yaml:"area"`
	Points [][2]float64 `yaml:"points,flow"`
}

// NewDocument 提取 Mask 的轮廓
//
// 与面积最大的轮廓方向相反的轮廓视为孔洞。
func NewDocument(name string, mask *raster.Mask, mode raster.MaskMode, tolerance float64) *Document {
	loops := collision.Trace(mask, tolerance)
	doc := &Document{
		Image:     name,
		Width:     mask.Width(),
		Height:    mask.Height(),
		Mode:      mode.String(),
		Tolerance: tolerance,
		Opaque:    mask.OpaqueCount(),
		Loops:     make([]LoopDoc, 0, len(loops)),
	}

	var outer float64
	for _, l := range loops {
		if a := l.SignedArea(); math.Abs(a) > math.Abs(outer) {
			outer = a
		}
	}

	for _, l := range loops {
		a := l.SignedArea()
		ld := LoopDoc{
			Hole:   a*outer < 0,
			Area:   math.Abs(a),
			Points: make([][2]float64, len(l)),
		}
		for i, p := range l {
			ld.Points[i] = [2]float64{p.X, p.Y}
		}
		doc.Loops = append(doc.Loops, ld)
	}
	return doc
}

// Holes 返回孔洞数量
func (d *Document) Holes() int {
	n := 0
	for _, l := range d.Loops {
		if l.Hole {
			n++
		}
	}
	return n
}

// 预览图颜色
var (
	previewBackground = color.NRGBA{R: 24, G: 24, B: 32, A: 255}
	previewSolid      = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
	previewOuter      = color.NRGBA{R: 255, G: 80, B: 80, A: 255}
	previewHole       = color.NRGBA{R: 80, G: 160, B: 255, A: 255}
	previewText       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// previewHeader 预览图顶部标题栏高度（像素）
const previewHeader = 16

// Preview 按 scale 倍放大绘制遮罩和轮廓，顶部标注轮廓统计
func Preview(mask *raster.Mask, doc *Document, scale int) *image.NRGBA {
	scale = max(scale, 1)
	w, h := mask.Width(), mask.Height()
	img := image.NewNRGBA(image.Rect(0, 0, w*scale, h*scale+previewHeader))
	draw.Draw(img, img.Bounds(), image.NewUniform(previewBackground), image.Point{}, draw.Src)

	// Mask 左下角原点，图片左上角原点
	solid := image.NewUniform(previewSolid)
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			if !mask.IsOpaque(px, py) {
				continue
			}
			y := (h-1-py)*scale + previewHeader
			draw.Draw(img, image.Rect(px*scale, y, (px+1)*scale, y+scale), solid, image.Point{}, draw.Src)
		}
	}

	toImage := func(p [2]float64) image.Point {
		return image.Pt(int(math.Round(p[0]*float64(scale))), int(math.Round((float64(h)-p[1])*float64(scale)))+previewHeader)
	}
	for _, l := range doc.Loops {
		c := previewOuter
		if l.Hole {
			c = previewHole
		}
		for i := range l.Points {
			a, b := toImage(l.Points[i]), toImage(l.Points[(i+1)%len(l.Points)])
			stroke.RasterizeLine(a, b, func(p image.Point) {
				if p.In(img.Bounds()) {
					img.SetNRGBA(p.X, p.Y, c)
				}
			})
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(previewText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(2, previewHeader-4),
	}
	d.DrawString(fmt.Sprintf("%d loops, %d holes, %d px", len(doc.Loops), doc.Holes(), doc.Opaque))
	return img
}
