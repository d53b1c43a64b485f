package world

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"voxelpaint/internal/blend"
	"voxelpaint/internal/field"
	"voxelpaint/internal/palette"
)

type funcGenerator struct {
	calls int32
	fn    func(coord ChunkCoord) (*field.Material, *field.Density, error)
}

func (g *funcGenerator) Generate(_ context.Context, coord ChunkCoord) (*field.Material, *field.Density, error) {
	atomic.AddInt32(&g.calls, 1)
	return g.fn(coord)
}

// halfSolid fills the lower half of the chunk with the given material.
func halfSolid(id byte) func(ChunkCoord) (*field.Material, *field.Density, error) {
	return func(ChunkCoord) (*field.Material, *field.Density, error) {
		m := field.FilledMaterial(id)
		d := field.DensityFromFunc(func(x, y, z int) float32 {
			return float32(y) - float32(field.Size)/2
		})
		return m, d, nil
	}
}

func TestManagerGeneratesChunkOnce(t *testing.T) {
	gen := &funcGenerator{fn: halfSolid(1)}
	m := NewManager(gen, blend.Default(), nil)

	coord := ChunkCoord{X: 1, Y: 0, Z: -2}
	first, err := m.Chunk(context.Background(), coord)
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	second, err := m.Chunk(context.Background(), coord)
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	if first != second {
		t.Fatal("repeated Chunk calls returned different chunks")
	}
	if got := atomic.LoadInt32(&gen.calls); got != 1 {
		t.Fatalf("generator called %d times, want 1", got)
	}
}

func TestChunkEditMarksDirty(t *testing.T) {
	ch := NewChunk(ChunkCoord{}, nil, nil)
	ch.setMesh(MeshData{})
	if ch.Dirty() {
		t.Fatal("chunk dirty after setMesh")
	}
	ch.Edit(func(m *field.Material, d *field.Density) {
		m.Set(0, 0, 0, 3)
		d.Set(0, 0, 0, -1)
	})
	if !ch.Dirty() {
		t.Fatal("chunk not dirty after Edit")
	}
}

func TestGatherNeighborsCopiesBoundaryPlanes(t *testing.T) {
	gen := &funcGenerator{fn: func(coord ChunkCoord) (*field.Material, *field.Density, error) {
		// Distinct material per chunk so the copied planes are attributable.
		id := byte(10 + coord.X)
		m := field.FilledMaterial(id)
		d := field.FilledDensity(-1)
		return m, d, nil
	}}
	m := NewManager(gen, blend.Default(), nil)

	center := ChunkCoord{X: 0, Y: 0, Z: 0}
	if _, err := m.Chunk(context.Background(), center); err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	if _, err := m.Chunk(context.Background(), ChunkCoord{X: 1}); err != nil {
		t.Fatalf("Chunk: %v", err)
	}

	mats, dens := m.GatherNeighbors(center)

	// +X overflow resolves against the loaded neighbor's x=0 plane.
	id, ok := mats.Sample(field.Size, 5, 9)
	if !ok {
		t.Fatal("+X material sample unresolved")
	}
	if id != 11 {
		t.Fatalf("+X material = %d, want 11", id)
	}
	if d, ok := dens.Sample(field.Size, 5, 9); !ok || d != -1 {
		t.Fatalf("+X density = %v, %v, want -1, true", d, ok)
	}

	// -X neighbor is not loaded, so that face stays unresolved.
	if _, ok := mats.Sample(-1, 5, 9); ok {
		t.Fatal("-X material sample resolved without a loaded neighbor")
	}
}

func TestRebuildDirtyProducesMeshAndClearsFlag(t *testing.T) {
	gen := &funcGenerator{fn: halfSolid(2)}
	m := NewManager(gen, blend.Default(), nil)

	ctx := context.Background()
	coords := []ChunkCoord{{X: 0}, {X: 1}, {X: 2}}
	for _, coord := range coords {
		if _, err := m.Chunk(ctx, coord); err != nil {
			t.Fatalf("Chunk %v: %v", coord, err)
		}
	}

	rebuilt, err := m.RebuildDirty(ctx, 2)
	if err != nil {
		t.Fatalf("RebuildDirty: %v", err)
	}
	if rebuilt != len(coords) {
		t.Fatalf("rebuilt %d chunks, want %d", rebuilt, len(coords))
	}

	for _, coord := range coords {
		ch, _ := m.Loaded(coord)
		if ch.Dirty() {
			t.Fatalf("chunk %v still dirty after rebuild", coord)
		}
		data := ch.Mesh()
		if len(data.Positions) == 0 {
			t.Fatalf("chunk %v mesh has no vertices", coord)
		}
		if len(data.MaterialIDs) != len(data.Positions) || len(data.MaterialWeights) != len(data.Positions) {
			t.Fatalf("chunk %v attribute counts %d/%d do not match %d vertices",
				coord, len(data.MaterialIDs), len(data.MaterialWeights), len(data.Positions))
		}
	}

	// Nothing left to do on a clean world.
	rebuilt, err = m.RebuildDirty(ctx, 2)
	if err != nil {
		t.Fatalf("second RebuildDirty: %v", err)
	}
	if rebuilt != 0 {
		t.Fatalf("second pass rebuilt %d chunks, want 0", rebuilt)
	}
}

func TestRebuildDirtyHonorsCancellation(t *testing.T) {
	gen := &funcGenerator{fn: halfSolid(1)}
	m := NewManager(gen, blend.Default(), nil)
	if _, err := m.Chunk(context.Background(), ChunkCoord{}); err != nil {
		t.Fatalf("Chunk: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.RebuildDirty(ctx, 1); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestSaveChunkPreview(t *testing.T) {
	gen := &funcGenerator{fn: halfSolid(2)}
	m := NewManager(gen, blend.Default(), nil)
	ch, err := m.Chunk(context.Background(), ChunkCoord{X: 3, Y: 0, Z: -1})
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}

	dir := t.TempDir()
	if err := SaveChunkPreview(ch, palette.Default(), dir); err != nil {
		t.Fatalf("SaveChunkPreview: %v", err)
	}
	path := filepath.Join(dir, "chunk_3_0_-1.png")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("preview not written: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("preview file is empty")
	}
}
