package input

import (
	"testing"

	"seehuhn.de/go/geom/vec"
)

func TestScriptReplay(t *testing.T) {
	s := NewScript(
		State{Drawing: true, Screen: vec.Vec2{X: 1, Y: 2}},
		State{Drawing: true, Screen: vec.Vec2{X: 3, Y: 4}},
	)

	if got := s.Poll(); got.Screen != (vec.Vec2{X: 1, Y: 2}) || !got.Drawing {
		t.Errorf("unexpected first frame: %+v", got)
	}
	s.Poll()
	if !s.Done() {
		t.Error("script should be done after replaying every frame")
	}

	// 回放结束后保持最后位置并抬起
	got := s.Poll()
	if got.Drawing {
		t.Error("exhausted script should report pointer released")
	}
	if got.Screen != (vec.Vec2{X: 3, Y: 4}) {
		t.Errorf("expected last position to be kept, got %v", got.Screen)
	}

	if (NewScript().Poll() != State{}) {
		t.Error("empty script should return the zero state")
	}
}

func TestDrag(t *testing.T) {
	tests := []struct {
		name  string
		steps int
		want  int
	}{
		{"single press", 1, 2},
		{"five frames", 5, 6},
		{"clamped steps", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := Drag(vec.Vec2{}, vec.Vec2{X: 8}, tt.steps, 0.05)
			if len(frames) != tt.want {
				t.Fatalf("expected %d frames, got %d", tt.want, len(frames))
			}
			if frames[len(frames)-1].Drawing {
				t.Error("last frame should release the pointer")
			}
			for _, f := range frames[:len(frames)-1] {
				if !f.Drawing || f.BrushSize != 0.05 {
					t.Errorf("unexpected drag frame %+v", f)
				}
			}
		})
	}
}

func TestSourceFunc(t *testing.T) {
	var src Source = SourceFunc(func() State { return State{Drawing: true} })
	if !src.Poll().Drawing {
		t.Error("SourceFunc should forward to the wrapped function")
	}
}
