package world

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"voxelpaint/internal/field"
	"voxelpaint/internal/palette"
)

const (
	previewScale        = 8
	previewAmbientLight = 0.35
)

// SaveChunkPreview renders a top-down material map PNG for one chunk.
// Each column shows the material of its highest interior voxel, shaded
// by that voxel's height so relief reads at a glance.
func SaveChunkPreview(chunk *Chunk, pal *palette.Palette, outputDir string) error {
	if chunk == nil {
		return fmt.Errorf("chunk is nil")
	}
	if pal == nil {
		pal = palette.Default()
	}

	side := field.Size * previewScale
	img := image.NewNRGBA(image.Rect(0, 0, side, side))

	background := color.NRGBA{R: 10, G: 10, B: 18, A: 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	chunk.View(func(m *field.Material, d *field.Density) {
		for z := 0; z < field.Size; z++ {
			for x := 0; x < field.Size; x++ {
				y, ok := topInteriorVoxel(d, x, z)
				if !ok {
					continue
				}
				base := pal.Color(m.Get(x, y, z))
				light := previewAmbientLight + (1-previewAmbientLight)*float64(y+1)/field.Size
				fillCell(img, x, z, applyLighting(base, light))
			}
		}
	})

	if err := ensurePreviewDir(outputDir); err != nil {
		return err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("chunk_%d_%d_%d.png", chunk.Coord.X, chunk.Coord.Y, chunk.Coord.Z))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

func topInteriorVoxel(d *field.Density, x, z int) (int, bool) {
	for y := field.Size - 1; y >= 0; y-- {
		if d.Get(x, y, z) < 0 {
			return y, true
		}
	}
	return 0, false
}

func fillCell(img *image.NRGBA, x, z int, col color.NRGBA) {
	for py := 0; py < previewScale; py++ {
		for px := 0; px < previewScale; px++ {
			img.SetNRGBA(x*previewScale+px, z*previewScale+py, col)
		}
	}
}

func applyLighting(base color.NRGBA, factor float64) color.NRGBA {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	r := uint8(math.Round(float64(base.R) * factor))
	g := uint8(math.Round(float64(base.G) * factor))
	b := uint8(math.Round(float64(base.B) * factor))
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func ensurePreviewDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("output directory is empty")
	}
	return os.MkdirAll(dir, 0o755)
}
