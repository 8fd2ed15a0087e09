package raster

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// MaskMode 决定 Mask 如何作用到渲染像素上
type MaskMode int

const (
	// MaskModeAlpha 直接擦除纹理 alpha（RGBA32 变体）
	// Mask 由源图 alpha 初始化，渲染 alpha = Mask 值
	MaskModeAlpha MaskMode = iota

	// MaskModeMask 使用独立的单通道遮罩（R8 变体）
	// 源 alpha 大于 0 的像素初始化为未擦除，渲染 alpha = 源 alpha * Mask / 255。
	// 源 alpha 为 0 的像素始终为 Erased，恢复笔刷也不会改变它们。
	MaskModeMask
)

// String 返回模式名称（与配置文件中的取值一致）
func (m MaskMode) String() string {
	switch m {
	case MaskModeAlpha:
		return "alpha"
	case MaskModeMask:
		return "mask"
	default:
		return fmt.Sprintf("MaskMode(%d)", int(m))
	}
}

// ParseMaskMode 解析模式名称
func ParseMaskMode(s string) (MaskMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alpha":
		return MaskModeAlpha, nil
	case "mask":
		return MaskModeMask, nil
	default:
		return 0, fmt.Errorf("unknown mask mode %q", s)
	}
}

// Texture 组合源纹理与占用网格，生成交给渲染协作方的 CPU 像素缓冲
type Texture struct {
	source *image.NRGBA
	mask   *Mask
	mode   MaskMode

	// pixels 自上而下、预乘 alpha 的 RGBA 缓冲（ebiten WritePixels 格式）
	pixels []byte
}

// NewTexture 根据源图片和模式创建可擦除纹理
//
// 参数：
//   - src: 源纹理，不会被修改
//   - mode: 遮罩模式
//
// 返回：
//   - error: 源图片尺寸为 0 时返回 ErrDegenerateSize
func NewTexture(src image.Image, mode MaskMode) (*Texture, error) {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrDegenerateSize
	}

	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)

	var (
		mask *Mask
		err  error
	)
	switch mode {
	case MaskModeAlpha:
		mask, err = FromAlpha(nrgba)
	case MaskModeMask:
		if mask, err = FromAlpha(nrgba); err == nil {
			mask.LimitPaint()
		}
	default:
		return nil, fmt.Errorf("unknown mask mode: %v", mode)
	}
	if err != nil {
		return nil, err
	}

	t := &Texture{
		source: nrgba,
		mask:   mask,
		mode:   mode,
		pixels: make([]byte, 4*b.Dx()*b.Dy()),
	}
	t.Refresh(mask.Bounds())
	mask.ClearDirty()
	return t, nil
}

// Mask 返回纹理的占用网格
func (t *Texture) Mask() *Mask { return t.mask }

// Source 返回源纹理（自上而下）
func (t *Texture) Source() *image.NRGBA { return t.source }

// Mode 返回遮罩模式
func (t *Texture) Mode() MaskMode { return t.mode }

// Width 返回纹理宽度
func (t *Texture) Width() int { return t.mask.width }

// Height 返回纹理高度
func (t *Texture) Height() int { return t.mask.height }

// Pixels 返回渲染缓冲（自上而下、预乘 alpha 的 RGBA）
func (t *Texture) Pixels() []byte { return t.pixels }

// Refresh 重新计算 r（纹理坐标，左下角原点）范围内的渲染像素
func (t *Texture) Refresh(r image.Rectangle) {
	r = r.Intersect(t.mask.Bounds())
	w, h := t.mask.width, t.mask.height

	for y := r.Min.Y; y < r.Max.Y; y++ {
		iy := h - 1 - y
		for x := r.Min.X; x < r.Max.X; x++ {
			m := uint32(t.mask.data[y*w+x])
			s := t.source.PixOffset(x, iy)
			sr, sg, sb, sa := uint32(t.source.Pix[s]), uint32(t.source.Pix[s+1]), uint32(t.source.Pix[s+2]), uint32(t.source.Pix[s+3])

			a := m
			if t.mode == MaskModeMask {
				a = sa * m / 255
			}

			d := 4 * (iy*w + x)
			t.pixels[d] = uint8(sr * a / 255)
			t.pixels[d+1] = uint8(sg * a / 255)
			t.pixels[d+2] = uint8(sb * a / 255)
			t.pixels[d+3] = uint8(a)
		}
	}
}

// DirtyToImage 将纹理坐标（左下角原点）的矩形转换为图片坐标（左上角原点）
func (t *Texture) DirtyToImage(r image.Rectangle) image.Rectangle {
	h := t.mask.height
	return image.Rect(r.Min.X, h-r.Max.Y, r.Max.X, h-r.Min.Y)
}
