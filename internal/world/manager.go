package world

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"voxelpaint/internal/blend"
	"voxelpaint/internal/field"
	"voxelpaint/internal/mesh"
)

// Generator describes terrain population for chunks.
type Generator interface {
	Generate(ctx context.Context, coord ChunkCoord) (*field.Material, *field.Density, error)
}

// Manager keeps the authoritative chunk state for this process.
type Manager struct {
	generator Generator
	engine    blend.Engine
	source    mesh.VertexSource

	mu     sync.RWMutex
	chunks map[ChunkCoord]*Chunk
}

func NewManager(generator Generator, engine blend.Engine, source mesh.VertexSource) *Manager {
	if source == nil {
		source = mesh.SurfaceCellSource{}
	}
	return &Manager{
		generator: generator,
		engine:    engine,
		chunks:    make(map[ChunkCoord]*Chunk),
		source:    source,
	}
}

// Chunk returns the chunk at coord, generating it on first request. A
// concurrent generation race keeps the first chunk stored.
func (m *Manager) Chunk(ctx context.Context, coord ChunkCoord) (*Chunk, error) {
	m.mu.RLock()
	ch, ok := m.chunks[coord]
	m.mu.RUnlock()
	if ok {
		return ch, nil
	}

	if m.generator == nil {
		return nil, fmt.Errorf("chunk %v not loaded and no generator configured", coord)
	}

	materials, density, err := m.generator.Generate(ctx, coord)
	if err != nil {
		return nil, fmt.Errorf("generate chunk %v: %w", coord, err)
	}
	ch = NewChunk(coord, materials, density)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.chunks[coord]; ok {
		return existing, nil
	}
	m.chunks[coord] = ch
	return ch, nil
}

// Loaded returns the chunk at coord without triggering generation.
func (m *Manager) Loaded(coord ChunkCoord) (*Chunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ch, ok := m.chunks[coord]
	return ch, ok
}

// Put stores a chunk, replacing any chunk already at its coordinate.
// Used when restoring chunks from snapshots.
func (m *Manager) Put(ch *Chunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks[ch.Coord] = ch
}

// Coords lists loaded chunk coordinates in deterministic order.
func (m *Manager) Coords() []ChunkCoord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ChunkCoord, 0, len(m.chunks))
	for coord := range m.chunks {
		out = append(out, coord)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return out
}

// GatherNeighbors copies boundary planes from every loaded chunk
// adjacent to coord. Faces without a loaded neighbor stay unset, which
// the blend engine treats as unresolved. Each neighbor is copied under
// its own read lock, so the caches are a coherent snapshot per face.
func (m *Manager) GatherNeighbors(coord ChunkCoord) (*field.Cache[byte], *field.Cache[float32]) {
	materials := &field.Cache[byte]{}
	density := &field.Cache[float32]{}
	for _, f := range field.Faces {
		neighbor, ok := m.Loaded(coord.Shifted(f))
		if !ok {
			continue
		}
		ms, ds := neighbor.boundary(f)
		materials.Set(f, ms)
		density.Set(f, ds)
	}
	return materials, density
}

// Rebuild regenerates the mesh attributes for one chunk. Neighbor
// boundaries are gathered first; the chunk's own grids are then read
// under its lock so concurrent edits cannot interleave with blending.
func (m *Manager) Rebuild(ctx context.Context, coord ChunkCoord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch, ok := m.Loaded(coord)
	if !ok {
		return fmt.Errorf("rebuild chunk %v: not loaded", coord)
	}

	matCache, denCache := m.GatherNeighbors(coord)

	var data MeshData
	ch.View(func(mats *field.Material, dens *field.Density) {
		data.Positions = m.source.Vertices(dens, denCache)
		data.MaterialIDs, data.MaterialWeights = mesh.Attributes(
			m.engine, data.Positions, mats, dens, matCache, denCache)
	})
	ch.setMesh(data)
	return nil
}

// RebuildDirty remeshes every dirty chunk using up to workers
// goroutines. It returns the number of chunks rebuilt and the first
// error encountered.
func (m *Manager) RebuildDirty(ctx context.Context, workers int) (int, error) {
	if workers < 1 {
		workers = 1
	}

	var dirty []ChunkCoord
	for _, coord := range m.Coords() {
		if ch, ok := m.Loaded(coord); ok && ch.Dirty() {
			dirty = append(dirty, coord)
		}
	}
	if len(dirty) == 0 {
		return 0, nil
	}

	var (
		wg       sync.WaitGroup
		sem      = make(chan struct{}, workers)
		errMu    sync.Mutex
		firstErr error
		rebuilt  int
	)
	for _, coord := range dirty {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(coord ChunkCoord) {
			defer wg.Done()
			defer func() { <-sem }()
			err := m.Rebuild(ctx, coord)
			errMu.Lock()
			defer errMu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			rebuilt++
		}(coord)
	}
	wg.Wait()

	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}
	return rebuilt, firstErr
}
