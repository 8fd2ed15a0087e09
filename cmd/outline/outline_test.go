package main

import (
	"image/color"
	"strings"
	"testing"

	"github.com/decker502/erasable/pkg/raster"
	"gopkg.in/yaml.v3"
)

// ringMask 10x10 不透明，中间挖掉 2x2 的孔
func ringMask(t *testing.T) *raster.Mask {
	t.Helper()
	m, err := raster.New(10, 10, true)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range [][2]int{{4, 4}, {5, 4}, {4, 5}, {5, 5}} {
		m.ErasePixel(p[0], p[1])
	}
	return m
}

func TestNewDocumentDetectsHoles(t *testing.T) {
	doc := NewDocument("ring.png", ringMask(t), raster.MaskModeAlpha, 0)

	if len(doc.Loops) != 2 {
		t.Fatalf("expected 2 loops, got %d", len(doc.Loops))
	}
	if doc.Holes() != 1 {
		t.Errorf("expected 1 hole, got %d", doc.Holes())
	}
	if doc.Opaque != 96 {
		t.Errorf("expected 96 opaque pixels, got %d", doc.Opaque)
	}

	for _, l := range doc.Loops {
		want := 100.0
		if l.Hole {
			want = 4
		}
		if l.Area != want {
			t.Errorf("expected loop area %v (hole=%v), got %v", want, l.Hole, l.Area)
		}
		if len(l.Points) != 4 {
			t.Errorf("expected collinear edges merged into 4 corners, got %d", len(l.Points))
		}
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"image: ring.png", "mode: alpha", "hole: true", "hole: false"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("expected YAML to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPreview(t *testing.T) {
	mask := ringMask(t)
	doc := NewDocument("ring.png", mask, raster.MaskModeAlpha, 0)
	img := Preview(mask, doc, 2)

	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 20+previewHeader {
		t.Fatalf("expected 20x%d preview, got %v", 20+previewHeader, b)
	}

	tests := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"solid pixel", 5, 31, previewSolid},
		{"hole interior", 9, 26, previewBackground},
		{"outer edge", 0, 30, previewOuter},
		{"hole edge", 8, 26, previewHole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.NRGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("expected %v at (%d,%d), got %v", tt.want, tt.x, tt.y, got)
			}
		})
	}

	labelled := false
	for y := 0; y < previewHeader && !labelled; y++ {
		for x := 0; x < 20; x++ {
			if img.NRGBAAt(x, y) == previewText {
				labelled = true
				break
			}
		}
	}
	if !labelled {
		t.Error("expected the header to contain label text")
	}
}
