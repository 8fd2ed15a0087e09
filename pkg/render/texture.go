package render

import (
	"image"
	"log"

	"github.com/decker502/erasable/pkg/session"
	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenTexture 把编辑会话的像素缓冲同步到 GPU 纹理
type EbitenTexture struct {
	img *ebiten.Image

	// 统计
	Uploads     int
	PixelsSent  int
	FullUploads int
}

// NewEbitenTexture 创建空的 GPU 纹理，首次 Upload 时按尺寸分配
func NewEbitenTexture() *EbitenTexture {
	return &EbitenTexture{}
}

// Upload 实现 session.TextureSink，只写入脏矩形
func (t *EbitenTexture) Upload(u session.Upload) {
	full := image.Rect(0, 0, u.Width, u.Height)
	if t.img == nil || t.img.Bounds() != full {
		if t.img != nil {
			t.img.Deallocate()
		}
		t.img = ebiten.NewImage(u.Width, u.Height)
		u.Dirty = full
		log.Printf("[Render] texture allocated %dx%d", u.Width, u.Height)
	}

	r := u.Dirty.Intersect(full)
	if r.Empty() {
		return
	}
	if r == full {
		t.img.WritePixels(u.Pixels)
		t.FullUploads++
	} else {
		sub := t.img.SubImage(r).(*ebiten.Image)
		sub.WritePixels(SubPixels(u.Pixels, u.Width, r))
	}
	t.Uploads++
	t.PixelsSent += r.Dx() * r.Dy()
}

// Image 返回 GPU 纹理，首次 Upload 之前为 nil
func (t *EbitenTexture) Image() *ebiten.Image { return t.img }

// DrawSprite 按精灵变换和摄像机把纹理绘制到屏幕
func DrawSprite(screen *ebiten.Image, tex *EbitenTexture, geo ebiten.GeoM) {
	if tex.img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geo
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(tex.img, op)
}

var _ session.TextureSink = (*EbitenTexture)(nil)
