package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"voxelpaint/internal/blend"
	"voxelpaint/internal/config"
	"voxelpaint/internal/field"
	"voxelpaint/internal/paint"
	"voxelpaint/internal/palette"
	"voxelpaint/internal/store"
	"voxelpaint/internal/terrain"
	"voxelpaint/internal/world"
)

func main() {
	var (
		cfgPath string
		outDir  string
		chunks  int
	)
	flag.StringVar(&cfgPath, "config", "", "path to voxelpaint configuration file")
	flag.StringVar(&outDir, "out", "", "output directory, overrides the configured storage paths")
	flag.IntVar(&chunks, "chunks", 0, "world span in chunks per horizontal axis, overrides the config")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if outDir != "" {
		cfg.Storage.SnapshotDir = filepath.Join(outDir, "chunks")
		cfg.Storage.IndexPath = filepath.Join(outDir, "index.db")
		cfg.Storage.PreviewDir = filepath.Join(outDir, "previews")
	}
	if chunks > 0 {
		cfg.World.ChunksPerAxis = chunks
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("voxelpaint exited with error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()

	pal := palette.Default()
	if cfg.Palette.Path != "" {
		loaded, err := palette.Load(cfg.Palette.Path)
		if err != nil {
			return err
		}
		pal = loaded
	}
	log.Printf("palette loaded with %d materials", pal.Len())

	engine := blend.Engine{
		Power:           cfg.Blend.Power,
		MinWeight:       cfg.Blend.MinWeight,
		DensityWeighted: cfg.Blend.DensityWeighted,
	}
	generator := terrain.NewNoiseGenerator(cfg.Terrain)
	manager := world.NewManager(generator, engine, nil)

	index, err := store.OpenIndex(cfg.Storage.IndexPath)
	if err != nil {
		return err
	}
	defer index.Close()

	// Populate the world: restore indexed chunks, generate the rest.
	span := cfg.World.ChunksPerAxis
	restored, generated := 0, 0
	for cz := 0; cz < span; cz++ {
		for cx := 0; cx < span; cx++ {
			coord := world.ChunkCoord{X: cx, Y: 0, Z: cz}
			entry, ok, err := index.Lookup(ctx, coord)
			if ok && err == nil {
				storedCoord, m, d, err := store.ReadChunk(entry.Path)
				if err == nil && storedCoord == coord {
					manager.Put(world.NewChunk(coord, m, d))
					restored++
					continue
				}
				log.Printf("snapshot for chunk %v unusable, regenerating: %v", coord, err)
			}
			if _, err := manager.Chunk(ctx, coord); err != nil {
				return err
			}
			generated++
		}
	}
	log.Printf("world populated: %d chunks restored, %d generated", restored, generated)

	paintDemoStrokes(manager, span)

	rebuilt, err := manager.RebuildDirty(ctx, cfg.World.Workers)
	if err != nil {
		return err
	}

	vertices := 0
	for _, coord := range manager.Coords() {
		ch, _ := manager.Loaded(coord)
		data := ch.Mesh()
		vertices += len(data.Positions)

		m, d := ch.Snapshot()
		path := store.ChunkPath(cfg.Storage.SnapshotDir, coord)
		if err := store.WriteChunk(path, coord, m, d); err != nil {
			return err
		}
		if err := index.Record(ctx, coord, path); err != nil {
			return err
		}
		if cfg.Storage.PreviewDir != "" {
			if err := world.SaveChunkPreview(ch, pal, cfg.Storage.PreviewDir); err != nil {
				return err
			}
		}
	}

	log.Printf("rebuilt %d chunks, %d blended vertices, finished in %s",
		rebuilt, vertices, time.Since(start).Round(time.Millisecond))
	return nil
}

// paintDemoStrokes applies a few brushes near the world center so fresh
// runs produce visibly blended output.
func paintDemoStrokes(manager *world.Manager, span int) {
	center := world.ChunkCoord{X: span / 2, Y: 0, Z: span / 2}
	ch, ok := manager.Loaded(center)
	if !ok {
		return
	}
	ch.Edit(func(m *field.Material, d *field.Density) {
		mid := float32(field.Size) / 2
		paint.Sphere(m, mgl32.Vec3{mid, mid, mid}, 6, 1)
		paint.Surface(m, d, mgl32.Vec3{mid - 8, mid, mid + 8}, 5, 3, 2)
		paint.Box(m, mgl32.Vec3{2, 2, 2}, mgl32.Vec3{10, 6, 10}, 4)
	})
	log.Printf("painted demo strokes into chunk %v", center)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}

		// Ensure the process terminates if shutdown stalls.
		time.AfterFunc(10*time.Second, func() {
			log.Printf("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}
