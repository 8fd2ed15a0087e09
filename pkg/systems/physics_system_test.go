package systems

import (
	"testing"

	"github.com/decker502/erasable/pkg/physics/cpworld"
	"seehuhn.de/go/geom/vec"
)

func TestPhysicsSystemFixedStep(t *testing.T) {
	ps := NewPhysicsSystem(cpworld.New(vec.Vec2{Y: -10}, 0), -5)

	tests := []struct {
		dt   float64
		want int
	}{
		{0, 0},
		{-1, 0},
		{1.0 / 60, 2},
		{1.0 / 240, 0},
		{1.0 / 240, 1},
	}
	for _, tt := range tests {
		if got := ps.Update(tt.dt); got != tt.want {
			t.Errorf("Update(%v): expected %d steps, got %d", tt.dt, tt.want, got)
		}
	}
	if ps.Steps() != 3 {
		t.Errorf("expected 3 total steps, got %d", ps.Steps())
	}
}

func TestPhysicsSystemDropsFallenBalls(t *testing.T) {
	world := cpworld.New(vec.Vec2{Y: -10}, 0)
	ps := NewPhysicsSystem(world, -1)
	world.AddBall(vec.Vec2{Y: 0}, 0.1, 1)
	world.AddBall(vec.Vec2{Y: 100}, 0.1, 1)

	if got := len(ps.VisibleBalls()); got != 2 {
		t.Fatalf("expected 2 visible balls, got %d", got)
	}
	for i := 0; i < 60; i++ {
		ps.Update(1.0 / 60)
	}
	// 第一个小球 1 秒下落约 5 个单位，已出界
	if got := len(ps.VisibleBalls()); got != 1 {
		t.Errorf("expected 1 visible ball, got %d", got)
	}
}
