// Package world keeps the authoritative chunk state: the material and
// density grids per chunk coordinate, the boundary exchange between
// neighboring chunks, and the remesh pipeline that turns edited chunks
// into blended vertex attributes.
package world

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"voxelpaint/internal/field"
)

// ChunkCoord addresses a chunk on the world lattice.
type ChunkCoord struct {
	X, Y, Z int
}

// Shifted returns the coordinate of the chunk across the given face.
func (c ChunkCoord) Shifted(f field.Face) ChunkCoord {
	dx, dy, dz := f.Offset()
	return ChunkCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// MeshData is the blended vertex output of the last rebuild.
type MeshData struct {
	Positions       []mgl32.Vec3
	MaterialIDs     []uint32
	MaterialWeights []uint32
}

// Chunk pairs a material grid with its density grid under one lock. The
// two grids share the voxel layout; edits that touch both happen inside
// a single Edit call so readers never observe them out of step.
type Chunk struct {
	Coord ChunkCoord

	mu        sync.RWMutex
	materials *field.Material
	density   *field.Density
	dirty     bool
	mesh      MeshData
}

// NewChunk wraps freshly generated grids. New chunks start dirty so the
// first rebuild pass picks them up.
func NewChunk(coord ChunkCoord, materials *field.Material, density *field.Density) *Chunk {
	if materials == nil {
		materials = field.NewMaterial()
	}
	if density == nil {
		density = field.NewDensity()
	}
	return &Chunk{
		Coord:     coord,
		materials: materials,
		density:   density,
		dirty:     true,
	}
}

// Edit runs fn with exclusive access to both grids and marks the chunk
// for remeshing.
func (c *Chunk) Edit(fn func(m *field.Material, d *field.Density)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.materials, c.density)
	c.dirty = true
}

// View runs fn with shared read access to both grids. The grids must
// not be mutated through it.
func (c *Chunk) View(fn func(m *field.Material, d *field.Density)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.materials, c.density)
}

// Dirty reports whether the chunk has edits newer than its mesh.
func (c *Chunk) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// Mesh returns the attributes produced by the last rebuild.
func (c *Chunk) Mesh() MeshData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mesh
}

// Snapshot returns deep copies of both grids, taken under the read lock.
func (c *Chunk) Snapshot() (*field.Material, *field.Density) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.materials.Clone(), c.density.Clone()
}

// boundary copies the two voxel planes a neighbor across face f would
// need, under this chunk's read lock.
func (c *Chunk) boundary(f field.Face) (*field.Slice[byte], *field.Slice[float32]) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return field.MaterialBoundary(c.materials, f), field.DensityBoundary(c.density, f)
}

func (c *Chunk) setMesh(m MeshData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mesh = m
	c.dirty = false
}
