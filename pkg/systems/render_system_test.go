package systems

import (
	"strings"
	"testing"

	"github.com/decker502/erasable/pkg/config"
	"github.com/decker502/erasable/pkg/ecs"
	"github.com/decker502/erasable/pkg/physics/cpworld"
	"seehuhn.de/go/geom/vec"
)

func TestRenderSystemHUDLines(t *testing.T) {
	em := ecs.NewEntityManager()
	newErasable(t, em, config.StrategyGrid)
	newErasable(t, em, config.StrategyPolygon)

	rs := NewRenderSystem(em, NewPhysicsSystem(cpworld.New(vec.Vec2{}, 0), -10), 0.1)
	lines := rs.HUDLines()
	if len(lines) != 3 {
		t.Fatalf("expected a line per sprite plus physics, got %v", lines)
	}

	tests := []struct {
		line int
		want string
	}{
		{0, "cells=4"},
		{0, "opaque=400"},
		{1, "loops=1"},
		{1, "[polygon]"},
		{2, "balls=0"},
	}
	for _, tt := range tests {
		if !strings.Contains(lines[tt.line], tt.want) {
			t.Errorf("line %d: expected %q in %q", tt.line, tt.want, lines[tt.line])
		}
	}
}
