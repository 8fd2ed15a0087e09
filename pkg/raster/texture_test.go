package raster

import (
	"image"
	"image/color"
	"testing"
)

func newSolidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestNewTextureModes(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, A: 255})

	alpha, err := NewTexture(src, MaskModeAlpha)
	if err != nil {
		t.Fatal(err)
	}
	if alpha.Mask().OpaqueCount() != 1 {
		t.Errorf("alpha mode should seed from source alpha, got %d opaque", alpha.Mask().OpaqueCount())
	}

	masked, err := NewTexture(src, MaskModeMask)
	if err != nil {
		t.Fatal(err)
	}
	if masked.Mask().OpaqueCount() != 1 {
		t.Errorf("mask mode should only mark pixels with source alpha as solid, got %d opaque", masked.Mask().OpaqueCount())
	}
	// 图片 (0,0) 是左上角，对应网格 (0,3)
	if !masked.Mask().IsOpaque(0, 3) || masked.Mask().At(0, 3) != Opaque {
		t.Error("covered pixel should start fully unerased")
	}
}

func TestMaskModePaintLimitedToSource(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			src.SetNRGBA(x, y, color.NRGBA{G: 255, A: 64})
		}
	}

	for _, mode := range []MaskMode{MaskModeAlpha, MaskModeMask} {
		t.Run(mode.String(), func(t *testing.T) {
			tex, err := NewTexture(src, mode)
			if err != nil {
				t.Fatal(err)
			}
			m := tex.Mask()
			if m.OpaqueCount() != 16 {
				t.Fatalf("expected 16 solid pixels, got %d", m.OpaqueCount())
			}

			m.EraseDisc(4, 4, 10)
			if m.OpaqueCount() != 0 {
				t.Fatalf("expected the mask to be cleared, got %d", m.OpaqueCount())
			}

			m.PaintDisc(4, 4, 10)
			m.PaintPixel(0, 0)
			want := 16
			if mode == MaskModeAlpha {
				want = 64
			}
			if m.OpaqueCount() != want {
				t.Errorf("expected %d solid pixels after painting, got %d", want, m.OpaqueCount())
			}
		})
	}

	tex, _ := NewTexture(src, MaskModeMask)
	tex.Mask().EraseDisc(4, 4, 10)
	tex.Mask().PaintDisc(4, 4, 10)
	tex.Refresh(tex.Mask().Bounds())
	pix := tex.Pixels()
	if pix[3] != 0 {
		t.Errorf("uncovered pixel must stay transparent, got alpha %d", pix[3])
	}
	if off := 4 * (2*8 + 2); pix[off+3] != 64 {
		t.Errorf("restored pixel should show source alpha 64, got %d", pix[off+3])
	}
}

func TestNewTextureDegenerate(t *testing.T) {
	_, err := NewTexture(image.NewNRGBA(image.Rectangle{}), MaskModeAlpha)
	if err != ErrDegenerateSize {
		t.Errorf("expected ErrDegenerateSize, got %v", err)
	}
}

func TestTextureRefreshAfterErase(t *testing.T) {
	src := newSolidImage(4, 4, color.NRGBA{R: 255, G: 128, B: 0, A: 255})
	tex, err := NewTexture(src, MaskModeAlpha)
	if err != nil {
		t.Fatal(err)
	}

	// 纹理坐标 (1,0) 是底行，对应缓冲的最后一行
	tex.Mask().ErasePixel(1, 0)
	tex.Refresh(tex.Mask().Dirty())

	pix := tex.Pixels()
	off := 4 * (3*4 + 1)
	if pix[off+3] != 0 || pix[off] != 0 {
		t.Errorf("erased pixel should be fully transparent, got %v", pix[off:off+4])
	}
	top := 4 * (0*4 + 1)
	if pix[top+3] != 255 || pix[top] != 255 || pix[top+1] != 128 {
		t.Errorf("untouched pixel should keep its color, got %v", pix[top:top+4])
	}
}

func TestTextureMaskModePremultiplies(t *testing.T) {
	src := newSolidImage(2, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	tex, err := NewTexture(src, MaskModeMask)
	if err != nil {
		t.Fatal(err)
	}

	pix := tex.Pixels()
	if pix[3] != 128 {
		t.Errorf("expected source alpha 128, got %d", pix[3])
	}
	if pix[0] != uint8(200*128/255) {
		t.Errorf("expected premultiplied red %d, got %d", 200*128/255, pix[0])
	}
}

func TestDirtyToImage(t *testing.T) {
	tex, err := NewTexture(newSolidImage(10, 10, color.NRGBA{A: 255}), MaskModeAlpha)
	if err != nil {
		t.Fatal(err)
	}
	got := tex.DirtyToImage(image.Rect(2, 0, 4, 3))
	want := image.Rect(2, 7, 4, 10)
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseMaskMode(t *testing.T) {
	tests := []struct {
		in      string
		want    MaskMode
		wantErr bool
	}{
		{"alpha", MaskModeAlpha, false},
		{"MASK", MaskModeMask, false},
		{"r8", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMaskMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
