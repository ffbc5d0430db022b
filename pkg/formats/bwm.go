// Package formats provides parsers for Lionhead game file formats.
// BWM (Black & White Model) format parser for 3D models.
package formats

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// BWM format errors. All are terminal: a decode either returns a complete
// model or one of these, never a partial result.
var (
	ErrInvalidBWMMagic       = errors.New("invalid BWM magic: expected 'LiOnHeAdMODEL'")
	ErrInvalidBWMHeader      = errors.New("invalid BWM header magic number")
	ErrUnsupportedBWMVersion = errors.New("unsupported BWM version")
	ErrTruncatedBWMData      = errors.New("truncated BWM data")
	ErrUnknownStrideFormat   = errors.New("unknown BWM stride format code")
	ErrMultipleStrides       = errors.New("multiple BWM stride tables not supported")
	ErrStrideTooSmall        = errors.New("BWM vertex stride smaller than decoded vertex size")
)

// BWMVersion represents the BWM file version.
type BWMVersion uint32

// Supported versions. Version 6 appends a cleave-point list; the rest of
// the layout is identical between the two.
const (
	BWMVersion5 BWMVersion = 5
	BWMVersion6 BWMVersion = 6
)

// String returns the version as a decimal string.
func (v BWMVersion) String() string {
	return fmt.Sprintf("%d", uint32(v))
}

// HasCleavePoints returns true if this version carries a cleave-point list.
func (v BWMVersion) HasCleavePoints() bool {
	return v >= BWMVersion6
}

// BWMMaterial holds the seven 64-byte text fields of a material record.
// Five are texture map paths, one is a material type tag, and the last has
// not been identified.
type BWMMaterial struct {
	DiffuseMap     string // Primary texture path
	LightMap       string
	BumpMap        string
	SpecularMap    string
	EnvironmentMap string
	Type           string // Material type tag (e.g. blend mode name)
	Unknown        string // Unidentified field, preserved as stored
}

// BWMMaterialRef binds a material to sub-ranges of the shared index and
// vertex arrays. Offsets and sizes are preserved exactly as stored; the
// decoder does not validate them against the array lengths.
type BWMMaterialRef struct {
	MaterialID uint32 // Index into BWM.Materials

	IndicesOffset  uint32 // Range into BWM.Indices
	IndicesSize    uint32
	VerticesOffset uint32 // Range into BWM.Vertices
	VerticesSize   uint32
	FacesOffset    uint32 // Face-granularity range into BWM.Indices
	FacesSize      uint32
	UnknownOffset  uint32 // Unidentified range, preserved as stored
	UnknownSize    uint32

	Unknown uint32 // Unidentified trailing field
}

// BWMMesh describes one mesh of the model. MaterialRefs holds exactly the
// number of references the mesh declared, in declaration order.
type BWMMesh struct {
	ID            uint32
	Name          string // 64-byte null-padded on disk
	FaceCount     uint32
	IndicesOffset uint32 // Start of this mesh within BWM.Indices
	Reserved      [2]uint32
	MaterialRefs  []BWMMaterialRef
}

// BWMEntity is a named placement point: a position plus three vectors whose
// meaning has not been identified.
type BWMEntity struct {
	Position [3]float32
	Unknown1 [3]float32
	Unknown2 [3]float32
	Unknown3 [3]float32
	Name     string // 256-byte null-padded on disk
}

// BWMVertex is one decoded vertex record. Only the first 32 bytes of a
// record carry known semantics; U1-U4 exist in wider strides but the format
// of the remainder is unknown, so they are never populated.
type BWMVertex struct {
	Position [3]float32
	Normal   [3]float32
	U, V     float32
	U1, U2   float32
	U3, U4   float32
}

// bwmVertexSize is the semantically decoded portion of a vertex record.
const bwmVertexSize = 32

// BWMStrideField is one entry of the embedded stride table: a type tag and
// the byte length its format code resolved to. The field sizes sum to the
// per-vertex stride.
type BWMStrideField struct {
	TypeTag uint32
	Size    uint32
}

// BWM represents a parsed Black & White model file.
type BWM struct {
	Version BWMVersion

	// Payload sizes as declared in the header. Informational only: the
	// decoder never checks them against the actual stream length.
	PayloadSize  uint32
	PayloadSize2 uint32

	Materials []BWMMaterial
	Meshes    []BWMMesh
	Entities  []BWMEntity

	// Counts of records that were consumed but not decoded.
	BoneCount     uint32
	UnknownACount uint32
	UnknownBCount uint32

	// Stride is the resolved per-vertex byte width, the sum of the
	// StrideFields sizes.
	Stride       uint32
	StrideFields []BWMStrideField
	Vertices     []BWMVertex

	// Indices is the flat index buffer shared by all meshes; material
	// references carve sub-ranges out of it.
	Indices []uint16

	// CleavePoints is only present for version 6 files.
	CleavePoints [][3]float32
}

// MaterialRefCount returns the total number of material references across
// all meshes.
func (m *BWM) MaterialRefCount() int {
	total := 0
	for i := range m.Meshes {
		total += len(m.Meshes[i].MaterialRefs)
	}
	return total
}

// GetMeshByName returns a mesh by its name, or nil if not found.
func (m *BWM) GetMeshByName(name string) *BWMMesh {
	for i := range m.Meshes {
		if m.Meshes[i].Name == name {
			return &m.Meshes[i]
		}
	}
	return nil
}

// GetMaterial returns the material a reference points at, or nil if the
// stored material index is out of range.
func (m *BWM) GetMaterial(ref *BWMMaterialRef) *BWMMaterial {
	if int(ref.MaterialID) >= len(m.Materials) {
		return nil
	}
	return &m.Materials[ref.MaterialID]
}

// RefIndices returns the index sub-range a material reference addresses, or
// nil if the stored range falls outside the index buffer.
func (m *BWM) RefIndices(ref *BWMMaterialRef) []uint16 {
	off, n := int(ref.IndicesOffset), int(ref.IndicesSize)
	if off < 0 || n < 0 || off+n > len(m.Indices) {
		return nil
	}
	return m.Indices[off : off+n]
}

// HasCleaveData returns true if the model carries cleave points.
func (m *BWM) HasCleaveData() bool {
	return len(m.CleavePoints) > 0
}

// Bounds returns the axis-aligned bounding box of the vertex cloud.
// Returns zero corners for an empty model.
func (m *BWM) Bounds() (min, max [3]float32) {
	if len(m.Vertices) == 0 {
		return min, max
	}
	min = m.Vertices[0].Position
	max = m.Vertices[0].Position
	for i := range m.Vertices {
		p := m.Vertices[i].Position
		for axis := 0; axis < 3; axis++ {
			min[axis] = math32.Min(min[axis], p[axis])
			max[axis] = math32.Max(max[axis], p[axis])
		}
	}
	return min, max
}
