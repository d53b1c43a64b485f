// Package blend computes compact per-vertex material blends from per-voxel
// material and density grids, including boundary data cached from
// neighboring chunks.
package blend

import "encoding/binary"

// MaxMaterials is the most materials one vertex can blend.
const MaxMaterials = 4

// VertexMaterial is the blend result for one mesh vertex: up to four
// material indices with 8-bit fixed-point weights. Weights of every
// returned value sum to exactly 255; unused slots carry id 0, weight 0.
type VertexMaterial struct {
	IDs     [MaxMaterials]uint8
	Weights [MaxMaterials]uint8
}

// Single returns a vertex carrying one material at full weight.
func Single(id uint8) VertexMaterial {
	return VertexMaterial{
		IDs:     [MaxMaterials]uint8{id, 0, 0, 0},
		Weights: [MaxMaterials]uint8{255, 0, 0, 0},
	}
}

// PackIDs packs the four material indices little-endian into one uint32
// for storage as a mesh vertex attribute.
func (v VertexMaterial) PackIDs() uint32 {
	return binary.LittleEndian.Uint32(v.IDs[:])
}

// PackWeights packs the four weights little-endian into one uint32.
func (v VertexMaterial) PackWeights() uint32 {
	return binary.LittleEndian.Uint32(v.Weights[:])
}

// Unpack rebuilds a VertexMaterial from its packed attribute pair.
func Unpack(ids, weights uint32) VertexMaterial {
	var v VertexMaterial
	binary.LittleEndian.PutUint32(v.IDs[:], ids)
	binary.LittleEndian.PutUint32(v.Weights[:], weights)
	return v
}

// WeightSum returns the sum of all four weights.
func (v VertexMaterial) WeightSum() int {
	return int(v.Weights[0]) + int(v.Weights[1]) + int(v.Weights[2]) + int(v.Weights[3])
}
