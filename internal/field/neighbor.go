package field

// Sample constrains the voxel value types a neighbor cache can carry:
// material indices and density samples.
type Sample interface {
	~uint8 | ~float32
}

// Slice is a cached copy of NeighborDepth boundary planes from an adjacent
// chunk's grid, flattened [depth][b][a]. It is built once from a snapshot
// of the neighbor and never references its live storage; rebuild it when
// the neighbor's grid changes.
type Slice[T Sample] struct {
	data  []T
	sizeA int
	sizeB int
	depth int
}

// faceAxes returns the in-plane extents for a face. Grids are cubic, but
// the mapping stays explicit so the slice layout matches the grid axes.
func faceAxes(f Face) (sizeA, sizeB int) {
	switch f {
	case FaceNegX, FacePosX:
		return Size, Size // a spans y, b spans z
	case FaceNegY, FacePosY:
		return Size, Size // a spans x, b spans z
	default:
		return Size, Size // a spans x, b spans y
	}
}

// neighborVoxel maps slice coordinates to the neighbor's local grid
// coordinates for the requester's face. Depth 0 is always the neighbor's
// boundary plane nearest the requesting chunk: a +X request reads the
// neighbor's x = 0 plane, a -X request its x = Size-1 plane.
func neighborVoxel(f Face, a, b, depth int) (x, y, z int) {
	switch f {
	case FacePosX:
		return depth, a, b
	case FaceNegX:
		return Size - 1 - depth, a, b
	case FacePosY:
		return a, depth, b
	case FaceNegY:
		return a, Size - 1 - depth, b
	case FacePosZ:
		return a, b, depth
	default: // FaceNegZ
		return a, b, Size - 1 - depth
	}
}

// NewSlice builds the boundary slice a chunk needs for the given face of
// its own grid. The sampler is called with the neighbor's local voxel
// coordinates and must read from a stable snapshot of that grid.
func NewSlice[T Sample](face Face, sampler func(x, y, z int) T) *Slice[T] {
	sizeA, sizeB := faceAxes(face)
	s := &Slice[T]{
		data:  make([]T, sizeA*sizeB*NeighborDepth),
		sizeA: sizeA,
		sizeB: sizeB,
		depth: NeighborDepth,
	}
	for d := 0; d < s.depth; d++ {
		for b := 0; b < sizeB; b++ {
			for a := 0; a < sizeA; a++ {
				x, y, z := neighborVoxel(face, a, b, d)
				s.data[(d*sizeB+b)*sizeA+a] = sampler(x, y, z)
			}
		}
	}
	return s
}

// MaterialBoundary copies the boundary planes of m needed by a chunk whose
// given face borders the chunk owning m.
func MaterialBoundary(m *Material, face Face) *Slice[byte] {
	return NewSlice(face, m.Get)
}

// DensityBoundary copies the boundary planes of d needed by a chunk whose
// given face borders the chunk owning d.
func DensityBoundary(d *Density, face Face) *Slice[float32] {
	return NewSlice(face, d.Get)
}

// Get returns the cached value at in-plane coordinates (a, b) and the
// given depth. False when any coordinate exceeds the stored extents or
// the depth exceeds the cached planes; callers treat that as unknown.
func (s *Slice[T]) Get(a, b, depth int) (T, bool) {
	var zero T
	if a < 0 || b < 0 || depth < 0 || a >= s.sizeA || b >= s.sizeB || depth >= s.depth {
		return zero, false
	}
	return s.data[(depth*s.sizeB+b)*s.sizeA+a], true
}

// Cache holds up to six boundary slices, one per face. A nil entry means
// no neighbor chunk was loaded on that face when the cache was gathered.
type Cache[T Sample] struct {
	slices [FaceCount]*Slice[T]
}

// Set stores the slice for a face, replacing any previous one.
func (c *Cache[T]) Set(face Face, s *Slice[T]) {
	c.slices[face] = s
}

// Slice returns the cached slice for a face, or nil.
func (c *Cache[T]) Slice(face Face) *Slice[T] {
	return c.slices[face]
}

// Sample resolves a grid position that lies outside the owning grid by
// dispatching to the face whose axis is out of range. It returns false
// for in-bounds positions (the caller samples the local grid directly),
// for faces without a cached slice, for depths beyond NeighborDepth, and
// for positions out of range on more than one axis: diagonal chunk
// neighbors are not cached, so corner and edge overflow stays unresolved.
func (c *Cache[T]) Sample(x, y, z int) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	inX := x >= 0 && x < Size
	inY := y >= 0 && y < Size
	inZ := z >= 0 && z < Size

	switch {
	case !inX && inY && inZ:
		face, depth := FacePosX, x-Size
		if x < 0 {
			face, depth = FaceNegX, -1-x
		}
		if s := c.slices[face]; s != nil {
			return s.Get(y, z, depth)
		}
	case inX && !inY && inZ:
		face, depth := FacePosY, y-Size
		if y < 0 {
			face, depth = FaceNegY, -1-y
		}
		if s := c.slices[face]; s != nil {
			return s.Get(x, z, depth)
		}
	case inX && inY && !inZ:
		face, depth := FacePosZ, z-Size
		if z < 0 {
			face, depth = FaceNegZ, -1-z
		}
		if s := c.slices[face]; s != nil {
			return s.Get(x, y, depth)
		}
	}
	return zero, false
}
