package paint

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxelpaint/internal/field"
)

func TestSphere(t *testing.T) {
	m := field.NewMaterial()
	Sphere(m, mgl32.Vec3{16, 16, 16}, 3, 7)

	if got := m.Get(16, 16, 16); got != 7 {
		t.Fatalf("sphere center = %d, want 7", got)
	}
	if got := m.Get(0, 0, 0); got != field.DefaultMaterial {
		t.Fatalf("far corner painted: %d", got)
	}
	// Just outside the radius along one axis.
	if got := m.Get(16, 16, 20); got != field.DefaultMaterial {
		t.Fatalf("voxel outside radius painted: %d", got)
	}
}

func TestSphereClipsAtGridEdge(t *testing.T) {
	m := field.NewMaterial()
	// Center beyond the grid; only the in-grid cap may be painted and the
	// brush must not fault.
	Sphere(m, mgl32.Vec3{33, 16, 16}, 4, 9)
	if got := m.Get(field.Size-1, 16, 16); got != 9 {
		t.Fatalf("clipped sphere missed boundary voxel, got %d", got)
	}
	if got := m.Get(20, 16, 16); got != field.DefaultMaterial {
		t.Fatalf("clipped sphere reached too deep: %d", got)
	}
}

func TestSphereSoft(t *testing.T) {
	m := field.NewMaterial()
	rng := rand.New(rand.NewSource(1))
	SphereSoft(m, mgl32.Vec3{16, 16, 16}, 5, 3, 1, 1, rng.Float32)

	painted := 0
	for z := 10; z < 22; z++ {
		for y := 10; y < 22; y++ {
			for x := 10; x < 22; x++ {
				if m.Get(x, y, z) == 3 {
					painted++
				}
			}
		}
	}
	if painted == 0 {
		t.Fatalf("soft sphere painted nothing")
	}
	// The falloff must leave some of the rim unpainted.
	full := 0
	Sphere(m, mgl32.Vec3{16, 16, 16}, 5, 3)
	for z := 10; z < 22; z++ {
		for y := 10; y < 22; y++ {
			for x := 10; x < 22; x++ {
				if m.Get(x, y, z) == 3 {
					full++
				}
			}
		}
	}
	if painted >= full {
		t.Fatalf("soft sphere painted %d voxels, hard sphere %d", painted, full)
	}
}

func TestSurface(t *testing.T) {
	m := field.NewMaterial()
	// Density increases with x: the surface band |d| <= 0.5 covers x 14-17.
	d := field.DensityFromFunc(func(x, y, z int) float32 {
		return float32(x-16) * 0.25
	})
	Surface(m, d, mgl32.Vec3{16, 16, 16}, 6, 5, 0.5)

	if got := m.Get(16, 16, 16); got != 5 {
		t.Fatalf("surface voxel = %d, want 5", got)
	}
	if got := m.Get(12, 16, 16); got != field.DefaultMaterial {
		t.Fatalf("deep interior voxel painted: %d", got)
	}
	if got := m.Get(20, 16, 16); got != field.DefaultMaterial {
		t.Fatalf("far exterior voxel painted: %d", got)
	}
}

func TestBox(t *testing.T) {
	m := field.NewMaterial()
	Box(m, mgl32.Vec3{2, 2, 2}, mgl32.Vec3{5, 5, 5}, 4)

	if got := m.Get(3, 3, 3); got != 4 {
		t.Fatalf("box interior = %d, want 4", got)
	}
	if got := m.Get(6, 3, 3); got != field.DefaultMaterial {
		t.Fatalf("voxel outside box painted: %d", got)
	}
	// Out-of-grid boxes clip silently.
	Box(m, mgl32.Vec3{30, 30, 30}, mgl32.Vec3{40, 40, 40}, 8)
	if got := m.Get(field.Size - 1, field.Size - 1, field.Size - 1); got != 8 {
		t.Fatalf("clipped box missed boundary voxel: %d", got)
	}
}

func TestHeightLayers(t *testing.T) {
	m := field.NewMaterial()
	HeightLayers(m, []Layer{
		{MaxHeight: 10, ID: 1},
		{MaxHeight: 20, ID: 2},
		{MaxHeight: 32, ID: 3},
	})

	if got := m.Get(0, 5, 0); got != 1 {
		t.Fatalf("y=5 material = %d, want 1", got)
	}
	if got := m.Get(0, 15, 0); got != 2 {
		t.Fatalf("y=15 material = %d, want 2", got)
	}
	if got := m.Get(0, 25, 0); got != 3 {
		t.Fatalf("y=25 material = %d, want 3", got)
	}
}

func TestSteepness(t *testing.T) {
	m := field.NewMaterial()
	// Density rising with y only: gradient points straight up, steepness 0.
	flat := field.DensityFromFunc(func(x, y, z int) float32 {
		return float32(y) - 16
	})
	Steepness(m, flat, 1, 2, 0.5)
	if got := m.Get(16, 16, 16); got != 1 {
		t.Fatalf("flat surface material = %d, want flat id 1", got)
	}

	// Density rising with x only: gradient is horizontal, steepness 1.
	steep := field.DensityFromFunc(func(x, y, z int) float32 {
		return float32(x) - 16
	})
	Steepness(m, steep, 1, 2, 0.5)
	if got := m.Get(16, 16, 16); got != 2 {
		t.Fatalf("steep surface material = %d, want steep id 2", got)
	}

	// Boundary voxels are outside the gradient stencil and stay untouched.
	probe := field.NewMaterial()
	Steepness(probe, steep, 1, 2, 0.5)
	if got := probe.Get(0, 0, 0); got != field.DefaultMaterial {
		t.Fatalf("boundary voxel processed: %d", got)
	}
}

func TestSteepnessOverrideKeepsFlatMaterials(t *testing.T) {
	m := field.FilledMaterial(7)

	flat := field.DensityFromFunc(func(x, y, z int) float32 {
		return float32(y) - 16
	})
	SteepnessOverride(m, flat, 3, 0.5)
	if got := m.Get(16, 16, 16); got != 7 {
		t.Fatalf("flat voxel repainted to %d, want 7 kept", got)
	}

	steep := field.DensityFromFunc(func(x, y, z int) float32 {
		return float32(x) - 16
	})
	SteepnessOverride(m, steep, 3, 0.5)
	if got := m.Get(16, 16, 16); got != 3 {
		t.Fatalf("steep voxel material = %d, want override id 3", got)
	}
}
