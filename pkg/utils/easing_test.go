package utils

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"
)

func TestEasingEndpoints(t *testing.T) {
	tests := []struct {
		name string
		fn   Easing
		mid  float64
	}{
		{"linear", EaseLinear, 0.5},
		{"easeOutQuad", EaseOutQuad, 0.75},
		{"easeInOutQuad", EaseInOutQuad, 0.5},
		{"easeOutCubic", EaseOutCubic, 0.875},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(0); math.Abs(got) > 1e-9 {
				t.Errorf("expected f(0)=0, got %v", got)
			}
			if got := tt.fn(1); math.Abs(got-1) > 1e-9 {
				t.Errorf("expected f(1)=1, got %v", got)
			}
			if got := tt.fn(0.5); math.Abs(got-tt.mid) > 1e-9 {
				t.Errorf("expected f(0.5)=%v, got %v", tt.mid, got)
			}
		})
	}
}

func TestEasingByName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		at   float64 // f(0.5)
	}{
		{"", true, 0.5},
		{EasingLinear, true, 0.5},
		{EasingOut, true, 0.75},
		{EasingInOut, true, 0.5},
		{EasingOutCubic, true, 0.875},
		{"bounce", false, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := EasingByName(tt.name)
			if ok != tt.ok {
				t.Errorf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got := fn(0.5); math.Abs(got-tt.at) > 1e-9 {
				t.Errorf("expected f(0.5)=%v, got %v", tt.at, got)
			}
		})
	}
}

func TestLerpVec(t *testing.T) {
	got := LerpVec(vec.Vec2{X: 1, Y: -2}, vec.Vec2{X: 3, Y: 2}, 0.25)
	if got != (vec.Vec2{X: 1.5, Y: -1}) {
		t.Errorf("expected (1.5, -1), got %v", got)
	}
}
