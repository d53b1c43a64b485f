// Package store persists chunk grids to disk: zstd-compressed gob
// snapshots per chunk, plus a SQLite index that maps chunk coordinates
// to snapshot files for fast lookup without scanning the directory.
package store

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"voxelpaint/internal/field"
	"voxelpaint/internal/world"
)

// Header opens every snapshot file as one JSON line before the gob
// payload, so files stay identifiable with zstdcat | head.
type Header struct {
	Version int    `json:"version"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Z       int    `json:"z"`
	Size    int    `json:"size"`
	Format  string `json:"format"`
}

const (
	snapshotVersion = 1
	snapshotFormat  = "voxelpaint-chunk"
)

type chunkSnapshotV1 struct {
	Header    Header
	Materials []byte
	Density   []float32
}

// ChunkPath returns the snapshot file path for a chunk coordinate.
func ChunkPath(dir string, coord world.ChunkCoord) string {
	return filepath.Join(dir, fmt.Sprintf("chunk_%d_%d_%d.bin.zst", coord.X, coord.Y, coord.Z))
}

// WriteChunk snapshots both grids of a chunk to path.
func WriteChunk(path string, coord world.ChunkCoord, m *field.Material, d *field.Density) error {
	if m == nil || d == nil {
		return fmt.Errorf("write chunk %v: nil grid", coord)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	snap := chunkSnapshotV1{
		Header: Header{
			Version: snapshotVersion,
			X:       coord.X,
			Y:       coord.Y,
			Z:       coord.Z,
			Size:    field.Size,
			Format:  snapshotFormat,
		},
		Materials: m.Data(),
		Density:   d.Data(),
	}

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

// ReadChunk restores a chunk snapshot from path.
func ReadChunk(path string) (world.ChunkCoord, *field.Material, *field.Density, error) {
	var coord world.ChunkCoord
	f, err := os.Open(path)
	if err != nil {
		return coord, nil, nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return coord, nil, nil, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Skip the header line; gob carries the header too.
	_, _ = br.ReadBytes('\n')

	var snap chunkSnapshotV1
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return coord, nil, nil, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Format != snapshotFormat || snap.Header.Version != snapshotVersion {
		return coord, nil, nil, fmt.Errorf("unsupported snapshot %q v%d", snap.Header.Format, snap.Header.Version)
	}
	if snap.Header.Size != field.Size {
		return coord, nil, nil, fmt.Errorf("snapshot grid size %d does not match %d", snap.Header.Size, field.Size)
	}
	if len(snap.Materials) != field.Volume || len(snap.Density) != field.Volume {
		return coord, nil, nil, fmt.Errorf("snapshot payload truncated: %d/%d voxels", len(snap.Materials), len(snap.Density))
	}

	coord = world.ChunkCoord{X: snap.Header.X, Y: snap.Header.Y, Z: snap.Header.Z}
	m := field.NewMaterial()
	copy(m.Data(), snap.Materials)
	d := field.NewDensity()
	copy(d.Data(), snap.Density)
	return coord, m, d, nil
}
