// Package paint provides bulk material brushes over a chunk's material
// grid. Every brush iterates an axis-aligned bounding box clipped to the
// grid, so callers never bounds-check brush parameters. Brushes are
// synchronous single-writer mutations; do not run two against the same
// grid concurrently.
package paint

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxelpaint/internal/field"
)

// brushBounds clips the inclusive AABB around center±extent to the grid.
func brushBounds(center mgl32.Vec3, extent float32) (min, max [3]int) {
	for axis := 0; axis < 3; axis++ {
		lo := int(math.Floor(float64(center[axis] - extent - 1)))
		hi := int(math.Ceil(float64(center[axis] + extent + 1)))
		if lo < 0 {
			lo = 0
		}
		if hi > field.Size-1 {
			hi = field.Size - 1
		}
		min[axis], max[axis] = lo, hi
	}
	return min, max
}

// voxelCenter is the continuous position of a voxel's midpoint.
func voxelCenter(x, y, z int) mgl32.Vec3 {
	return mgl32.Vec3{float32(x) + 0.5, float32(y) + 0.5, float32(z) + 0.5}
}

// Sphere paints a hard-edged sphere: every voxel whose center lies within
// radius of center is set to id.
func Sphere(m *field.Material, center mgl32.Vec3, radius float32, id byte) {
	min, max := brushBounds(center, radius)
	radiusSq := radius * radius
	for z := min[2]; z <= max[2]; z++ {
		for y := min[1]; y <= max[1]; y++ {
			for x := min[0]; x <= max[0]; x++ {
				d := voxelCenter(x, y, z).Sub(center)
				if d.Dot(d) <= radiusSq {
					m.SetSigned(x, y, z, id)
				}
			}
		}
	}
}

// SphereSoft paints a sphere with probability falloff toward the edge,
// giving painted areas a softer, speckled rim. strength is the paint
// probability at the center and falloff the curve power (1 linear, 2
// quadratic). rand supplies uniform samples in [0, 1); passing a seeded
// source keeps the stroke reproducible.
func SphereSoft(m *field.Material, center mgl32.Vec3, radius float32, id byte, strength, falloff float32, rand func() float32) {
	if radius <= 0 {
		return
	}
	min, max := brushBounds(center, radius)
	for z := min[2]; z <= max[2]; z++ {
		for y := min[1]; y <= max[1]; y++ {
			for x := min[0]; x <= max[0]; x++ {
				dist := voxelCenter(x, y, z).Sub(center).Len()
				if dist > radius {
					continue
				}
				t := 1 - dist/radius
				probability := strength * float32(math.Pow(float64(t), float64(falloff)))
				if rand() < probability {
					m.SetSigned(x, y, z, id)
				}
			}
		}
	}
}

// Surface paints a sphere restricted to voxels near the isosurface:
// besides the radius test, a voxel's density magnitude must not exceed
// threshold. Interior and far-exterior voxels are left untouched, so the
// stroke behaves like spray paint on the visible surface.
func Surface(m *field.Material, d *field.Density, center mgl32.Vec3, radius float32, id byte, threshold float32) {
	min, max := brushBounds(center, radius)
	radiusSq := radius * radius
	for z := min[2]; z <= max[2]; z++ {
		for y := min[1]; y <= max[1]; y++ {
			for x := min[0]; x <= max[0]; x++ {
				off := voxelCenter(x, y, z).Sub(center)
				if off.Dot(off) > radiusSq {
					continue
				}
				if dv := d.Get(x, y, z); dv < -threshold || dv > threshold {
					continue
				}
				m.SetSigned(x, y, z, id)
			}
		}
	}
}

// Box fills every voxel whose center lies within the axis-aligned box
// [min, max].
func Box(m *field.Material, boxMin, boxMax mgl32.Vec3, id byte) {
	var lo, hi [3]int
	for axis := 0; axis < 3; axis++ {
		l := int(math.Floor(float64(boxMin[axis])))
		h := int(math.Ceil(float64(boxMax[axis])))
		if l < 0 {
			l = 0
		}
		if h > field.Size-1 {
			h = field.Size - 1
		}
		lo[axis], hi[axis] = l, h
	}
	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				c := voxelCenter(x, y, z)
				if c.X() < boxMin.X() || c.X() > boxMax.X() ||
					c.Y() < boxMin.Y() || c.Y() > boxMax.Y() ||
					c.Z() < boxMin.Z() || c.Z() > boxMax.Z() {
					continue
				}
				m.SetSigned(x, y, z, id)
			}
		}
	}
}

// Layer is one height band of HeightLayers: every voxel below MaxHeight
// (and above the previous layer's bound) takes ID.
type Layer struct {
	MaxHeight float32
	ID        byte
}

// HeightLayers assigns materials by the first layer whose MaxHeight
// exceeds the voxel's Y coordinate. The last layer is the implicit
// fallback for all heights above the listed maxima. Layers must be sorted
// by MaxHeight ascending.
func HeightLayers(m *field.Material, layers []Layer) {
	if len(layers) == 0 {
		return
	}
	m.FillByHeight(func(y float32) byte {
		for _, l := range layers {
			if y < l.MaxHeight {
				return l.ID
			}
		}
		return layers[len(layers)-1].ID
	})
}

// Steepness derives a surface-normal estimate from the density gradient
// via central differences and assigns steepID where 1-|normal.y| exceeds
// threshold, flatID elsewhere. Only interior voxels are processed; the
// gradient stencil needs both neighbors along each axis.
func Steepness(m *field.Material, d *field.Density, flatID, steepID byte, threshold float32) {
	forEachSteepness(d, func(x, y, z int, steepness float32) {
		if steepness > threshold {
			m.Set(x, y, z, steepID)
		} else {
			m.Set(x, y, z, flatID)
		}
	})
}

// SteepnessOverride assigns steepID only where the slope exceeds
// threshold, leaving flatter voxels with whatever material they already
// carry. Used to drape rock over layered terrain without repainting it.
func SteepnessOverride(m *field.Material, d *field.Density, steepID byte, threshold float32) {
	forEachSteepness(d, func(x, y, z int, steepness float32) {
		if steepness > threshold {
			m.Set(x, y, z, steepID)
		}
	})
}

func forEachSteepness(d *field.Density, fn func(x, y, z int, steepness float32)) {
	for z := 1; z < field.Size-1; z++ {
		for y := 1; y < field.Size-1; y++ {
			for x := 1; x < field.Size-1; x++ {
				gradient := mgl32.Vec3{
					d.Get(x+1, y, z) - d.Get(x-1, y, z),
					d.Get(x, y+1, z) - d.Get(x, y-1, z),
					d.Get(x, y, z+1) - d.Get(x, y, z-1),
				}
				length := gradient.Len()
				if length < 1e-3 {
					fn(x, y, z, 0)
					continue
				}
				normal := gradient.Mul(1 / length)
				fn(x, y, z, 1-float32(math.Abs(float64(normal.Y()))))
			}
		}
	}
}
