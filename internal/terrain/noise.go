// Package terrain populates chunks with repeatable heightfield terrain:
// hashed value noise shapes a signed-distance density, height layers and
// slope detection assign the materials.
package terrain

import (
	"context"
	"math"
	"runtime"
	"sync"

	"voxelpaint/internal/config"
	"voxelpaint/internal/field"
	"voxelpaint/internal/paint"
	"voxelpaint/internal/world"
)

// densityClamp bounds the signed distance stored per voxel so blend
// weights stay proportional near the surface instead of exploding deep
// underground.
const densityClamp = 4.0

// NoiseGenerator creates repeatable terrain using hashed value noise.
type NoiseGenerator struct {
	cfg  config.TerrainConfig
	seed int64
}

func NewNoiseGenerator(cfg config.TerrainConfig) *NoiseGenerator {
	return &NoiseGenerator{cfg: cfg, seed: cfg.Seed}
}

// SurfaceHeight returns the world-space terrain height above the column
// at world coordinates (x, z).
func (g *NoiseGenerator) SurfaceHeight(x, z float64) float64 {
	return g.cfg.BaseHeight + g.fractalNoise(x, z)*g.cfg.Amplitude
}

// Generate builds the material and density grids for one chunk. Columns
// are filled concurrently; each worker owns a disjoint set of (x, z)
// columns so the grids need no locking.
func (g *NoiseGenerator) Generate(ctx context.Context, coord world.ChunkCoord) (*field.Material, *field.Density, error) {
	materials := field.NewMaterial()
	density := field.NewDensity()

	originX := coord.X * field.Size
	originY := coord.Y * field.Size
	originZ := coord.Z * field.Size

	totalColumns := field.Size * field.Size
	workers := runtime.GOMAXPROCS(0) * 2
	if workers > totalColumns {
		workers = totalColumns
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for col := start; col < totalColumns; col += workers {
				if ctx.Err() != nil {
					return
				}
				x := col % field.Size
				z := col / field.Size
				surface := g.SurfaceHeight(float64(originX+x), float64(originZ+z))
				for y := 0; y < field.Size; y++ {
					d := float64(originY+y) + 0.5 - surface
					if d > densityClamp {
						d = densityClamp
					}
					if d < -densityClamp {
						d = -densityClamp
					}
					density.Set(x, y, z, float32(d))
				}
			}
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	g.assignMaterials(coord, materials, density)
	return materials, density, nil
}

// assignMaterials layers materials by height and overrides steep slopes.
// Layer heights are in world space; the chunk's vertical origin shifts
// them into grid space first.
func (g *NoiseGenerator) assignMaterials(coord world.ChunkCoord, m *field.Material, d *field.Density) {
	originY := float32(coord.Y * field.Size)
	layers := make([]paint.Layer, len(g.cfg.Layers))
	for i, l := range g.cfg.Layers {
		layers[i] = paint.Layer{
			MaxHeight: float32(l.MaxHeight) - originY,
			ID:        l.Material,
		}
	}
	paint.HeightLayers(m, layers)

	if g.cfg.Steepness.Enabled {
		paint.SteepnessOverride(m, d, g.cfg.Steepness.Material, float32(g.cfg.Steepness.Threshold))
	}
}

func (g *NoiseGenerator) fractalNoise(x, y float64) float64 {
	frequency := g.cfg.Frequency
	amplitude := 1.0
	noiseSum := 0.0
	maxAmplitude := 0.0

	for i := 0; i < g.cfg.Octaves; i++ {
		noise := g.valueNoise(x*frequency, y*frequency)
		noiseSum += noise * amplitude
		maxAmplitude += amplitude
		amplitude *= g.cfg.Persistence
		frequency *= g.cfg.Lacunarity
	}

	if maxAmplitude == 0 {
		return 0
	}
	return noiseSum / maxAmplitude
}

func (g *NoiseGenerator) valueNoise(x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	sx := smooth(x - float64(x0))
	sy := smooth(y - float64(y0))

	n0 := random2D(x0, y0, g.seed)
	n1 := random2D(x1, y0, g.seed)
	ix0 := lerp(n0, n1, sx)

	n2 := random2D(x0, y1, g.seed)
	n3 := random2D(x1, y1, g.seed)
	ix1 := lerp(n2, n3, sx)

	return lerp(ix0, ix1, sy)
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func random2D(x, y int, seed int64) float64 {
	return float64(hash3(x, y, int(seed))&0xFFFF)/0x8000 - 1.0
}

func hash3(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}
