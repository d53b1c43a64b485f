package field

// Face identifies one of the six axis-aligned chunk faces.
type Face int

const (
	FaceNegX Face = iota
	FacePosX
	FaceNegY
	FacePosY
	FaceNegZ
	FacePosZ

	// FaceCount is the number of chunk faces.
	FaceCount
)

// Faces lists all six faces in index order.
var Faces = [FaceCount]Face{FaceNegX, FacePosX, FaceNegY, FacePosY, FaceNegZ, FacePosZ}

var faceOpposites = [FaceCount]Face{FacePosX, FaceNegX, FacePosY, FaceNegY, FacePosZ, FaceNegZ}

var faceOffsets = [FaceCount][3]int{
	{-1, 0, 0},
	{1, 0, 0},
	{0, -1, 0},
	{0, 1, 0},
	{0, 0, -1},
	{0, 0, 1},
}

var faceNames = [FaceCount]string{"-x", "+x", "-y", "+y", "-z", "+z"}

// Opposite returns the face on the other side of the chunk.
func (f Face) Opposite() Face {
	return faceOpposites[f]
}

// Offset returns the chunk-coordinate delta toward the neighbor behind f.
func (f Face) Offset() (dx, dy, dz int) {
	o := faceOffsets[f]
	return o[0], o[1], o[2]
}

func (f Face) String() string {
	if f < 0 || f >= FaceCount {
		return "invalid"
	}
	return faceNames[f]
}
