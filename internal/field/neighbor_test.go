package field

import "testing"

func TestFaceOppositeAndOffset(t *testing.T) {
	for _, f := range Faces {
		if f.Opposite().Opposite() != f {
			t.Fatalf("face %v: opposite not involutive", f)
		}
		dx, dy, dz := f.Offset()
		ox, oy, oz := f.Opposite().Offset()
		if dx+ox != 0 || dy+oy != 0 || dz+oz != 0 {
			t.Fatalf("face %v: offsets not mirrored", f)
		}
	}
}

func TestSliceReadsNearBoundary(t *testing.T) {
	// The neighbor encodes its own x in every voxel; a +X request must see
	// the neighbor's x = 0 plane at depth 0 and x = 1 at depth 1.
	neighbor := MaterialFromFunc(func(x, y, z int) byte { return byte(x) })
	s := MaterialBoundary(neighbor, FacePosX)

	for depth := 0; depth < NeighborDepth; depth++ {
		got, ok := s.Get(7, 9, depth)
		if !ok {
			t.Fatalf("depth %d: unexpected miss", depth)
		}
		if got != byte(depth) {
			t.Fatalf("depth %d: got neighbor x=%d, want %d", depth, got, depth)
		}
	}

	// A -X request reads the far boundary of the lower neighbor.
	s = MaterialBoundary(neighbor, FaceNegX)
	got, ok := s.Get(7, 9, 0)
	if !ok || got != byte(Size-1) {
		t.Fatalf("-x depth 0: got %d/%v, want %d", got, ok, Size-1)
	}
}

func TestSliceDepthExhaustion(t *testing.T) {
	s := MaterialBoundary(NewMaterial(), FacePosY)
	if _, ok := s.Get(0, 0, NeighborDepth); ok {
		t.Fatalf("expected miss beyond cached depth")
	}
	if _, ok := s.Get(Size, 0, 0); ok {
		t.Fatalf("expected miss beyond in-plane extent")
	}
	if _, ok := s.Get(-1, 0, 0); ok {
		t.Fatalf("expected miss for negative in-plane coordinate")
	}
}

func TestCacheSampleDispatch(t *testing.T) {
	var cache Cache[byte]
	cache.Set(FacePosX, MaterialBoundary(FilledMaterial(11), FacePosX))
	cache.Set(FaceNegY, MaterialBoundary(FilledMaterial(22), FaceNegY))

	if got, ok := cache.Sample(Size, 5, 5); !ok || got != 11 {
		t.Fatalf("+x sample = %d/%v, want 11/true", got, ok)
	}
	if got, ok := cache.Sample(Size+1, 5, 5); !ok || got != 11 {
		t.Fatalf("+x depth 1 sample = %d/%v, want 11/true", got, ok)
	}
	if got, ok := cache.Sample(5, -1, 5); !ok || got != 22 {
		t.Fatalf("-y sample = %d/%v, want 22/true", got, ok)
	}
}

func TestCacheSampleUnresolved(t *testing.T) {
	var cache Cache[float32]
	cache.Set(FacePosX, DensityBoundary(FilledDensity(-1), FacePosX))

	// No slice on the requested face: never a silent default.
	if _, ok := cache.Sample(-1, 5, 5); ok {
		t.Fatalf("expected miss for face without cached slice")
	}
	// Depth beyond the cached planes.
	if _, ok := cache.Sample(Size+NeighborDepth, 5, 5); ok {
		t.Fatalf("expected miss beyond neighbor depth")
	}
	// Diagonal overflow crosses two faces at once; not cached.
	if _, ok := cache.Sample(Size, -1, 5); ok {
		t.Fatalf("expected miss for two-axis overflow")
	}
	if _, ok := cache.Sample(Size, -1, Size); ok {
		t.Fatalf("expected miss for three-axis overflow")
	}
	// In-bounds positions belong to the local grid, not the cache.
	if _, ok := cache.Sample(5, 5, 5); ok {
		t.Fatalf("expected miss for in-bounds position")
	}
	// A nil cache resolves nothing.
	var none *Cache[float32]
	if _, ok := none.Sample(Size, 5, 5); ok {
		t.Fatalf("expected miss for nil cache")
	}
}
