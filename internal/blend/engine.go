package blend

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"voxelpaint/internal/field"
)

// cornerOffsets are the 8 cube corners of a voxel cell.
var cornerOffsets = [8][3]int{
	{0, 0, 0},
	{1, 0, 0},
	{0, 1, 0},
	{1, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{0, 1, 1},
	{1, 1, 1},
}

// Engine converts the 8 voxel corners around a vertex into a normalized
// material blend. The zero value is unusable; start from Default.
type Engine struct {
	// Power sharpens density-derived weights: weight = max(0,-d)^Power.
	Power float64
	// MinWeight drops blended materials below this 0-255 weight after
	// normalization; survivors are renormalized back to 255.
	MinWeight uint8
	// DensityWeighted selects magnitude weighting. When false, every
	// interior corner counts 1 regardless of how deep it sits.
	DensityWeighted bool
}

// Default returns the engine configuration used by the pipeline.
func Default() Engine {
	return Engine{
		Power:           1.0,
		MinWeight:       5,
		DensityWeighted: true,
	}
}

type contribution struct {
	id     uint8
	weight float64
}

// Compute blends the materials around a vertex at gridPos, expressed in
// the local grid's fractional coordinate space. Out-of-chunk corners are
// resolved through the neighbor caches; a corner whose density or
// material cannot be resolved is excluded rather than defaulted, so
// unloaded neighbors never bleed the default material across a seam.
// The result always satisfies the weight-sum invariant; Compute never
// fails on valid grids.
func (e Engine) Compute(
	gridPos mgl32.Vec3,
	mats *field.Material,
	dens *field.Density,
	matNeighbors *field.Cache[byte],
	densNeighbors *field.Cache[float32],
) VertexMaterial {
	baseX := int(math.Floor(float64(gridPos.X())))
	baseY := int(math.Floor(float64(gridPos.Y())))
	baseZ := int(math.Floor(float64(gridPos.Z())))

	contribs := make([]contribution, 0, 8)
	for _, off := range cornerOffsets {
		x, y, z := baseX+off[0], baseY+off[1], baseZ+off[2]

		d, okD := sampleDensity(x, y, z, dens, densNeighbors)
		id, okM := sampleMaterial(x, y, z, mats, matNeighbors)
		if !okD || !okM {
			continue
		}
		if w := e.cornerWeight(d); w > 0 {
			contribs = append(contribs, contribution{id: id, weight: w})
		}
	}

	if len(contribs) == 0 {
		return e.fallback(gridPos, mats, matNeighbors)
	}

	merged := mergeByID(contribs)
	if len(merged) > MaxMaterials {
		merged = merged[:MaxMaterials]
	}
	vm := normalize(merged)
	if e.MinWeight > 0 {
		vm = filterLowWeights(vm, e.MinWeight)
	}
	return vm
}

// fallback handles vertices with no interior corner, an edge case of
// isosurface extraction where the vertex sits exactly on an exterior
// boundary. The nearest corner's material wins; material 0 if even that
// is unresolvable.
func (e Engine) fallback(gridPos mgl32.Vec3, mats *field.Material, matNeighbors *field.Cache[byte]) VertexMaterial {
	x := int(math.Round(float64(gridPos.X())))
	y := int(math.Round(float64(gridPos.Y())))
	z := int(math.Round(float64(gridPos.Z())))
	if id, ok := sampleMaterial(x, y, z, mats, matNeighbors); ok {
		return Single(id)
	}
	return Single(field.DefaultMaterial)
}

func (e Engine) cornerWeight(density float32) float64 {
	if !e.DensityWeighted {
		if density < 0 {
			return 1
		}
		return 0
	}
	inside := float64(-density)
	if inside <= 0 {
		return 0
	}
	return math.Pow(inside, e.Power)
}

func sampleDensity(x, y, z int, dens *field.Density, neighbors *field.Cache[float32]) (float32, bool) {
	if v, ok := dens.GetSigned(x, y, z); ok {
		return v, true
	}
	return neighbors.Sample(x, y, z)
}

func sampleMaterial(x, y, z int, mats *field.Material, neighbors *field.Cache[byte]) (byte, bool) {
	if v, ok := mats.GetSigned(x, y, z); ok {
		return v, true
	}
	return neighbors.Sample(x, y, z)
}

// mergeByID sums weights per material and orders the result by weight
// descending with ties broken by ascending id. Sorting by id before the
// merge keeps the output independent of corner iteration order.
func mergeByID(contribs []contribution) []contribution {
	sort.Slice(contribs, func(i, j int) bool {
		return contribs[i].id < contribs[j].id
	})

	merged := contribs[:0]
	for _, c := range contribs {
		if n := len(merged); n > 0 && merged[n-1].id == c.id {
			merged[n-1].weight += c.weight
			continue
		}
		merged = append(merged, c)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].weight != merged[j].weight {
			return merged[i].weight > merged[j].weight
		}
		return merged[i].id < merged[j].id
	})
	return merged
}

// normalize scales the retained weights to sum to exactly 255. The first
// slots round independently under a shared scale factor, clamped to the
// remaining budget; the last retained slot takes whatever is left, so the
// total is 255 by construction.
func normalize(merged []contribution) VertexMaterial {
	var sum float64
	for _, c := range merged {
		sum += c.weight
	}

	var vm VertexMaterial
	budget := 255
	last := len(merged) - 1
	for i, c := range merged {
		vm.IDs[i] = c.id
		if i == last {
			vm.Weights[i] = uint8(budget)
			break
		}
		w := int(math.Round(c.weight / sum * 255))
		if w > budget {
			w = budget
		}
		vm.Weights[i] = uint8(w)
		budget -= w
	}
	return vm
}

// filterLowWeights zeroes weights below the threshold and renormalizes
// the survivors back to 255 with the same remainder correction. Weights
// arrive sorted descending, so filtered slots always form a suffix. If
// filtering removes everything, the first slot is forced to 255 so the
// invariant holds even in the degenerate case.
func filterLowWeights(vm VertexMaterial, minWeight uint8) VertexMaterial {
	kept := 0
	sum := 0
	for i, w := range vm.Weights {
		if w < minWeight {
			vm.Weights[i] = 0
			if i > 0 {
				vm.IDs[i] = 0
			}
			continue
		}
		kept = i + 1
		sum += int(w)
	}

	if sum == 0 {
		vm.Weights[0] = 255
		return vm
	}
	if sum == 255 {
		return vm
	}

	scale := 255 / float64(sum)
	budget := 255
	for i := 0; i < kept; i++ {
		if i == kept-1 {
			vm.Weights[i] = uint8(budget)
			break
		}
		w := int(math.Round(float64(vm.Weights[i]) * scale))
		if w > budget {
			w = budget
		}
		vm.Weights[i] = uint8(w)
		budget -= w
	}
	return vm
}
