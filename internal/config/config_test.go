package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Blend.MinWeight != 5 {
		t.Fatalf("blend.minWeight = %d, want 5", cfg.Blend.MinWeight)
	}
}

func TestLoadJSONOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{"blend": {"power": 2.5, "minWeight": 10, "densityWeighted": true}, "world": {"chunksPerAxis": 5, "workers": 2}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Blend.Power != 2.5 || cfg.Blend.MinWeight != 10 {
		t.Fatalf("blend overrides not applied: %+v", cfg.Blend)
	}
	if cfg.World.ChunksPerAxis != 5 {
		t.Fatalf("world.chunksPerAxis = %d, want 5", cfg.World.ChunksPerAxis)
	}
	// Untouched sections keep their defaults.
	if cfg.Terrain.Octaves != 4 {
		t.Fatalf("terrain.octaves = %d, want default 4", cfg.Terrain.Octaves)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
terrain:
  seed: 42
  frequency: 0.05
  octaves: 2
  persistence: 0.5
  lacunarity: 2.0
  baseHeight: 12
  amplitude: 6
  layers:
    - maxHeight: 16
      material: 1
    - maxHeight: 32
      material: 2
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Terrain.Seed != 42 || len(cfg.Terrain.Layers) != 2 {
		t.Fatalf("terrain overrides not applied: %+v", cfg.Terrain)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"zero power":      func(c *Config) { c.Blend.Power = 0 },
		"zero frequency":  func(c *Config) { c.Terrain.Frequency = 0 },
		"no layers":       func(c *Config) { c.Terrain.Layers = nil },
		"unsorted layers": func(c *Config) { c.Terrain.Layers = []LayerConfig{{MaxHeight: 20}, {MaxHeight: 10}} },
		"zero chunks":     func(c *Config) { c.World.ChunksPerAxis = 0 },
		"no snapshot dir": func(c *Config) { c.Storage.SnapshotDir = "" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
