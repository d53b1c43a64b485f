// Package config captures the tunable parameters for the painting
// pipeline: blend engine settings, terrain shaping, world extent, and
// storage locations.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures the tunable parameters needed to bootstrap a paint run.
type Config struct {
	Blend   BlendConfig   `json:"blend" yaml:"blend"`
	Terrain TerrainConfig `json:"terrain" yaml:"terrain"`
	World   WorldConfig   `json:"world" yaml:"world"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Palette PaletteConfig `json:"palette" yaml:"palette"`
}

type BlendConfig struct {
	// Power sharpens material transitions; 1 keeps them linear in depth.
	Power float64 `json:"power" yaml:"power"`
	// MinWeight drops contributions below this 0-255 threshold.
	MinWeight uint8 `json:"minWeight" yaml:"minWeight"`
	// DensityWeighted switches between depth-proportional and uniform
	// corner contributions.
	DensityWeighted bool `json:"densityWeighted" yaml:"densityWeighted"`
}

type TerrainConfig struct {
	Seed        int64   `json:"seed" yaml:"seed"`
	Frequency   float64 `json:"frequency" yaml:"frequency"`
	Octaves     int     `json:"octaves" yaml:"octaves"`
	Persistence float64 `json:"persistence" yaml:"persistence"`
	Lacunarity  float64 `json:"lacunarity" yaml:"lacunarity"`
	// BaseHeight and Amplitude are in voxels, measured from world y=0.
	BaseHeight float64 `json:"baseHeight" yaml:"baseHeight"`
	Amplitude  float64 `json:"amplitude" yaml:"amplitude"`

	// Layers assign materials by height below the surface, lowest first.
	Layers []LayerConfig `json:"layers" yaml:"layers"`
	// Steepness overrides the surface material on slopes past Threshold.
	Steepness SteepnessConfig `json:"steepness" yaml:"steepness"`
}

type LayerConfig struct {
	MaxHeight float64 `json:"maxHeight" yaml:"maxHeight"`
	Material  uint8   `json:"material" yaml:"material"`
}

type SteepnessConfig struct {
	Enabled   bool    `json:"enabled" yaml:"enabled"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Material  uint8   `json:"material" yaml:"material"`
}

type WorldConfig struct {
	// ChunksPerAxis spans the generated world on X and Z; Y is a single
	// chunk tall.
	ChunksPerAxis int `json:"chunksPerAxis" yaml:"chunksPerAxis"`
	// Workers bounds concurrent chunk rebuilds.
	Workers int `json:"workers" yaml:"workers"`
}

type StorageConfig struct {
	SnapshotDir string `json:"snapshotDir" yaml:"snapshotDir"`
	IndexPath   string `json:"indexPath" yaml:"indexPath"`
	PreviewDir  string `json:"previewDir" yaml:"previewDir"`
}

type PaletteConfig struct {
	// Path to a palette document; empty selects the built-in catalog.
	Path string `json:"path" yaml:"path"`
}

// Load reads configuration from a JSON or YAML file, picked by
// extension. An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Blend: BlendConfig{
			Power:           1.0,
			MinWeight:       5,
			DensityWeighted: true,
		},
		Terrain: TerrainConfig{
			Seed:        1337,
			Frequency:   0.02,
			Octaves:     4,
			Persistence: 0.45,
			Lacunarity:  2.0,
			BaseHeight:  16,
			Amplitude:   10,
			Layers: []LayerConfig{
				{MaxHeight: 8, Material: 0},  // stone
				{MaxHeight: 14, Material: 1}, // dirt
				{MaxHeight: 22, Material: 2}, // grass
				{MaxHeight: 32, Material: 3}, // snow
			},
			Steepness: SteepnessConfig{
				Enabled:   true,
				Threshold: 0.45,
				Material:  4, // rock
			},
		},
		World: WorldConfig{
			ChunksPerAxis: 3,
			Workers:       4,
		},
		Storage: StorageConfig{
			SnapshotDir: "data/chunks",
			IndexPath:   "data/index.db",
			PreviewDir:  "data/previews",
		},
		Palette: PaletteConfig{},
	}
}

func (c *Config) Validate() error {
	if c.Blend.Power <= 0 {
		return errors.New("blend.power must be positive")
	}
	if c.Terrain.Frequency <= 0 {
		return errors.New("terrain.frequency must be positive")
	}
	if c.Terrain.Octaves <= 0 {
		return errors.New("terrain.octaves must be positive")
	}
	if c.Terrain.Persistence <= 0 || c.Terrain.Lacunarity <= 0 {
		return errors.New("terrain.persistence and terrain.lacunarity must be positive")
	}
	if len(c.Terrain.Layers) == 0 {
		return errors.New("terrain.layers must define at least one layer")
	}
	for i := 1; i < len(c.Terrain.Layers); i++ {
		if c.Terrain.Layers[i].MaxHeight <= c.Terrain.Layers[i-1].MaxHeight {
			return errors.New("terrain.layers must be sorted by ascending maxHeight")
		}
	}
	if c.Terrain.Steepness.Enabled &&
		(c.Terrain.Steepness.Threshold <= 0 || c.Terrain.Steepness.Threshold >= 1) {
		return errors.New("terrain.steepness.threshold must be in (0, 1)")
	}
	if c.World.ChunksPerAxis <= 0 {
		return errors.New("world.chunksPerAxis must be positive")
	}
	if c.World.Workers < 0 {
		return errors.New("world.workers cannot be negative")
	}
	if c.Storage.SnapshotDir == "" {
		return errors.New("storage.snapshotDir must be set")
	}
	if c.Storage.IndexPath == "" {
		return errors.New("storage.indexPath must be set")
	}
	return nil
}
