package field

import "fmt"

// Density is the per-voxel signed density grid for one chunk. Negative
// samples are interior (solid), non-negative exterior. The blend engine
// reads only sign and magnitude; how density was produced does not matter.
// Same shape and linear layout as Material.
type Density struct {
	data []float32
}

// NewDensity returns a grid filled with +1 (fully exterior).
func NewDensity() *Density {
	return FilledDensity(1)
}

// FilledDensity returns a grid filled with a constant sample.
func FilledDensity(v float32) *Density {
	d := &Density{data: make([]float32, Volume)}
	d.Fill(v)
	return d
}

// DensityFromFunc builds a grid by evaluating f at every voxel.
func DensityFromFunc(f func(x, y, z int) float32) *Density {
	d := &Density{data: make([]float32, Volume)}
	for z := 0; z < Size; z++ {
		for y := 0; y < Size; y++ {
			for x := 0; x < Size; x++ {
				d.data[index(x, y, z)] = f(x, y, z)
			}
		}
	}
	return d
}

// Get returns the density at (x, y, z). Panics if out of range.
func (d *Density) Get(x, y, z int) float32 {
	if !InBounds(x, y, z) {
		panic(fmt.Sprintf("field: density get (%d,%d,%d) out of range", x, y, z))
	}
	return d.data[index(x, y, z)]
}

// Set writes the density at (x, y, z). Panics if out of range.
func (d *Density) Set(x, y, z int, v float32) {
	if !InBounds(x, y, z) {
		panic(fmt.Sprintf("field: density set (%d,%d,%d) out of range", x, y, z))
	}
	d.data[index(x, y, z)] = v
}

// GetSigned returns the density at possibly out-of-range coordinates.
// The second result is false when the position lies outside the grid.
func (d *Density) GetSigned(x, y, z int) (float32, bool) {
	if !InBounds(x, y, z) {
		return 0, false
	}
	return d.data[index(x, y, z)], true
}

// Fill overwrites every voxel with the given sample.
func (d *Density) Fill(v float32) {
	for i := range d.data {
		d.data[i] = v
	}
}

// Data exposes the raw backing samples for persistence. The slice aliases
// the grid's storage; callers must copy before mutating concurrently.
func (d *Density) Data() []float32 {
	return d.data
}

// Clone returns an independent copy of the grid.
func (d *Density) Clone() *Density {
	dup := &Density{data: make([]float32, Volume)}
	copy(dup.data, d.data)
	return dup
}
