// Package mesh bridges the blend engine to an external isosurface mesher.
// The mesher itself is a black box that hands back vertex positions; this
// package turns those positions into packed per-vertex material attributes.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelpaint/internal/blend"
	"voxelpaint/internal/field"
)

// VertexSource supplies vertex positions for a chunk in the local grid's
// fractional coordinate space. Implementations are external meshers; the
// density neighbor cache lets them agree with the blend step about what
// counts as inside near chunk seams.
type VertexSource interface {
	Vertices(d *field.Density, neighbors *field.Cache[float32]) []mgl32.Vec3
}

// Attributes computes the packed material attribute pair for each vertex:
// one uint32 of material ids and one of blend weights, both four 8-bit
// lanes little-endian, appended to the mesh alongside position and normal.
// Positions are in grid space; callers with world-space vertices scale by
// gridSize/meshWorldSize first (see GridPositions).
func Attributes(
	e blend.Engine,
	positions []mgl32.Vec3,
	mats *field.Material,
	dens *field.Density,
	matNeighbors *field.Cache[byte],
	densNeighbors *field.Cache[float32],
) (ids, weights []uint32) {
	ids = make([]uint32, len(positions))
	weights = make([]uint32, len(positions))
	for i, pos := range positions {
		vm := e.Compute(pos, mats, dens, matNeighbors, densNeighbors)
		ids[i] = vm.PackIDs()
		weights[i] = vm.PackWeights()
	}
	return ids, weights
}

// GridPositions converts world-space vertex positions into grid space
// given the world-space size of the meshed chunk.
func GridPositions(worldPositions []mgl32.Vec3, meshSize mgl32.Vec3) []mgl32.Vec3 {
	scale := mgl32.Vec3{
		field.Size / meshSize.X(),
		field.Size / meshSize.Y(),
		field.Size / meshSize.Z(),
	}
	out := make([]mgl32.Vec3, len(worldPositions))
	for i, p := range worldPositions {
		out[i] = mgl32.Vec3{p.X() * scale.X(), p.Y() * scale.Y(), p.Z() * scale.Z()}
	}
	return out
}

// SurfaceCellSource emits one vertex at the center of every cell whose
// corners straddle the isosurface. It is a stand-in position source for
// pipelines without a real mesher wired in, not an isosurface extractor:
// it produces no triangles, only blend sample points.
type SurfaceCellSource struct{}

// Vertices scans all cells of the grid, consulting the neighbor cache for
// the corner planes of boundary cells so seam cells are classified the
// same way on both sides.
func (SurfaceCellSource) Vertices(d *field.Density, neighbors *field.Cache[float32]) []mgl32.Vec3 {
	var out []mgl32.Vec3
	for z := 0; z < field.Size; z++ {
		for y := 0; y < field.Size; y++ {
			for x := 0; x < field.Size; x++ {
				if cellCrossesSurface(d, neighbors, x, y, z) {
					out = append(out, mgl32.Vec3{float32(x) + 0.5, float32(y) + 0.5, float32(z) + 0.5})
				}
			}
		}
	}
	return out
}

func cellCrossesSurface(d *field.Density, neighbors *field.Cache[float32], x, y, z int) bool {
	inside, outside := false, false
	for dz := 0; dz <= 1; dz++ {
		for dy := 0; dy <= 1; dy++ {
			for dx := 0; dx <= 1; dx++ {
				v, ok := d.GetSigned(x+dx, y+dy, z+dz)
				if !ok {
					v, ok = neighbors.Sample(x+dx, y+dy, z+dz)
					if !ok {
						continue
					}
				}
				if v < 0 {
					inside = true
				} else {
					outside = true
				}
			}
		}
	}
	return inside && outside
}
