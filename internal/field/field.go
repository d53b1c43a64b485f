// Package field stores dense per-chunk voxel data: one material index and
// one signed density sample per voxel, plus cached boundary planes copied
// from adjacent chunks so sampling stays seamless across chunk borders.
package field

// Size is the edge length of a chunk grid in voxels.
const Size = 32

// Volume is the number of voxels in one chunk grid.
const Volume = Size * Size * Size

// NeighborDepth is how many boundary planes are cached per neighbor face.
// Cross-chunk sampling deeper than this is treated as unresolved.
const NeighborDepth = 2

// DefaultMaterial is the material index of uninitialized voxels.
const DefaultMaterial byte = 0

// index computes the linear offset for grid coordinates, x fastest.
// Material and density grids share this layout so voxel (x, y, z)
// addresses the same location in both.
func index(x, y, z int) int {
	return (z*Size+y)*Size + x
}

// InBounds reports whether (x, y, z) lies inside the grid.
func InBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < Size && y < Size && z < Size
}
