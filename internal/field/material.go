package field

import (
	"fmt"
	"sort"
	"strings"
)

// Material is the per-voxel material index grid for one chunk. It owns
// Volume bytes, one index per voxel, in the shared linear layout.
type Material struct {
	data []byte
}

// NewMaterial returns a grid filled with DefaultMaterial.
func NewMaterial() *Material {
	return &Material{data: make([]byte, Volume)}
}

// FilledMaterial returns a grid filled with a single material index.
func FilledMaterial(id byte) *Material {
	m := NewMaterial()
	m.Fill(id)
	return m
}

// MaterialFromFunc builds a grid by evaluating f at every voxel.
func MaterialFromFunc(f func(x, y, z int) byte) *Material {
	m := NewMaterial()
	for z := 0; z < Size; z++ {
		for y := 0; y < Size; y++ {
			for x := 0; x < Size; x++ {
				m.data[index(x, y, z)] = f(x, y, z)
			}
		}
	}
	return m
}

// Get returns the material index at (x, y, z). Panics if out of range;
// callers that may probe beyond the grid should use GetSigned.
func (m *Material) Get(x, y, z int) byte {
	if !InBounds(x, y, z) {
		panic(fmt.Sprintf("field: material get (%d,%d,%d) out of range", x, y, z))
	}
	return m.data[index(x, y, z)]
}

// Set writes the material index at (x, y, z). Panics if out of range.
func (m *Material) Set(x, y, z int, id byte) {
	if !InBounds(x, y, z) {
		panic(fmt.Sprintf("field: material set (%d,%d,%d) out of range", x, y, z))
	}
	m.data[index(x, y, z)] = id
}

// GetSigned returns the material at possibly out-of-range coordinates.
// The second result is false when the position lies outside the grid.
func (m *Material) GetSigned(x, y, z int) (byte, bool) {
	if !InBounds(x, y, z) {
		return 0, false
	}
	return m.data[index(x, y, z)], true
}

// SetSigned writes the material at possibly out-of-range coordinates.
// Out-of-range writes are ignored, so brush loops never need bounds checks.
func (m *Material) SetSigned(x, y, z int, id byte) {
	if !InBounds(x, y, z) {
		return
	}
	m.data[index(x, y, z)] = id
}

// Fill overwrites every voxel with the given material index.
func (m *Material) Fill(id byte) {
	for i := range m.data {
		m.data[i] = id
	}
}

// FillByHeight assigns materials per horizontal layer by evaluating f at
// each local Y coordinate. Deterministic full-volume iteration.
func (m *Material) FillByHeight(f func(y float32) byte) {
	for z := 0; z < Size; z++ {
		for y := 0; y < Size; y++ {
			id := f(float32(y))
			for x := 0; x < Size; x++ {
				m.data[index(x, y, z)] = id
			}
		}
	}
}

// FillByWorldHeight is FillByHeight in world space: chunkY is the owning
// chunk's vertical chunk coordinate and chunkHeight its world-space height.
func (m *Material) FillByWorldHeight(chunkY int, chunkHeight float32, f func(worldY float32) byte) {
	voxelHeight := chunkHeight / Size
	baseY := float32(chunkY) * chunkHeight
	m.FillByHeight(func(y float32) byte {
		return f(baseY + y*voxelHeight)
	})
}

// Data exposes the raw backing bytes for persistence. The slice aliases
// the grid's storage; callers must copy before mutating concurrently.
func (m *Material) Data() []byte {
	return m.data
}

// Clone returns an independent copy of the grid.
func (m *Material) Clone() *Material {
	dup := NewMaterial()
	copy(dup.data, m.data)
	return dup
}

// String summarizes the material distribution, e.g. "materials{0:30000 3:2768}".
func (m *Material) String() string {
	var counts [256]int
	for _, id := range m.data {
		counts[id]++
	}
	present := make([]int, 0, 8)
	for id, n := range counts {
		if n > 0 {
			present = append(present, id)
		}
	}
	sort.Ints(present)
	var b strings.Builder
	b.WriteString("materials{")
	for i, id := range present {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d:%d", id, counts[id])
	}
	b.WriteByte('}')
	return b.String()
}
