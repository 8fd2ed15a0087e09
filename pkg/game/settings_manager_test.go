package game

import (
	"errors"
	"os"
	"testing"

	"github.com/decker502/erasable/pkg/config"
	"github.com/quasilyte/gdata/v2"
)

// openTestGdata 在临时 HOME 下打开 gdata 存储
func openTestGdata(t *testing.T, app string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	m, err := gdata.Open(gdata.Config{AppName: app})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.BrushRadius != 0 || s.BrushMode != "" || s.Strategy != "" {
		t.Errorf("expected no overrides by default, got %+v", s)
	}
	if !s.ShowColliders {
		t.Error("expected collider overlay on by default")
	}
	if !s.SoundEnabled || s.SoundVolume != defaultSoundVolume {
		t.Errorf("expected stroke sounds on at volume %v, got %v/%v", defaultSoundVolume, s.SoundEnabled, s.SoundVolume)
	}
	if s.LastConfig != config.DefaultSpriteConfigPath {
		t.Errorf("expected last config %q, got %q", config.DefaultSpriteConfigPath, s.LastConfig)
	}
}

func TestNilGdataDegradedMode(t *testing.T) {
	sm := NewSettingsManager(nil)
	sm.SetBrushRadius(12)
	if err := sm.Save(); err != nil {
		t.Errorf("Save in degraded mode should not fail, got %v", err)
	}
	if err := sm.Load(); err != nil {
		t.Errorf("Load in degraded mode should not fail, got %v", err)
	}
	if sm.GetSettings().BrushRadius != 0 {
		t.Error("degraded Load should reset to defaults")
	}
}

func TestSettingsLoadSave(t *testing.T) {
	m := openTestGdata(t, "test_erasable_settings")

	sm1 := NewSettingsManager(m)
	sm1.SetBrushRadius(14)
	if err := sm1.SetBrushMode(config.BrushModePaint); err != nil {
		t.Fatal(err)
	}
	if err := sm1.SetStrategy(config.StrategyGrid); err != nil {
		t.Fatal(err)
	}
	sm1.SetShowColliders(false)
	sm1.SetLastConfig("data/sprites/grid.yaml")
	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2 := NewSettingsManager(m)
	got := sm2.GetSettings()
	want := EditorSettings{
		BrushRadius: 14,
		BrushMode:   config.BrushModePaint,
		Strategy:    config.StrategyGrid,
		LastConfig:  "data/sprites/grid.yaml",
	}
	if *got != want {
		t.Errorf("expected %+v, got %+v", want, *got)
	}
}

func TestSetters(t *testing.T) {
	sm := NewSettingsManager(nil)

	radii := []struct {
		in, want float64
	}{
		{-3, 0},
		{6, 6},
		{1000, maxBrushRadius},
	}
	for _, tt := range radii {
		sm.SetBrushRadius(tt.in)
		if got := sm.GetSettings().BrushRadius; got != tt.want {
			t.Errorf("SetBrushRadius(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if err := sm.SetBrushMode("smudge"); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown brush mode, got %v", err)
	}
	if err := sm.SetStrategy("voxel"); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown strategy, got %v", err)
	}
	if err := sm.SetStrategy(""); err != nil {
		t.Errorf("clearing the override should succeed, got %v", err)
	}

	volumes := []struct {
		in, want float64
	}{
		{-1, 0},
		{0.3, 0.3},
		{2, 1},
	}
	for _, tt := range volumes {
		sm.SetSoundVolume(tt.in)
		if got := sm.GetSettings().SoundVolume; got != tt.want {
			t.Errorf("SetSoundVolume(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
	sm.SetSoundEnabled(false)
	if sm.GetSettings().SoundEnabled {
		t.Error("expected sound to be disabled")
	}
}

func TestApply(t *testing.T) {
	base := config.DefaultSpriteConfig()

	t.Run("no overrides", func(t *testing.T) {
		out, err := NewSettingsManager(nil).Apply(base)
		if err != nil {
			t.Fatal(err)
		}
		if *out != *base {
			t.Errorf("expected unchanged config, got %+v", out)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		sm := NewSettingsManager(nil)
		sm.SetBrushRadius(20)
		_ = sm.SetBrushMode(config.BrushModePaint)
		_ = sm.SetStrategy(config.StrategyGrid)

		out, err := sm.Apply(base)
		if err != nil {
			t.Fatal(err)
		}
		if out.Brush.Radius != 20 || out.Brush.Mode != config.BrushModePaint || out.Strategy != config.StrategyGrid {
			t.Errorf("overrides not applied: %+v", out)
		}
		if base.Strategy != config.StrategyPolygon {
			t.Error("Apply must not modify the input config")
		}
	})
}
