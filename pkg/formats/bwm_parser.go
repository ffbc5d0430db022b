package formats

import (
	"fmt"
	"io"
	"os"
)

const (
	bwmMagic       = "LiOnHeAdMODEL"
	bwmHeaderMagic = 0x2B00B1E5

	bwmBoneSize     = 48  // Opaque bone record
	bwmUnknownSize  = 12  // Opaque unknown-block record (both block types)
	bwmMeshReserved = 124 // Unidentified span inside a mesh description
)

// strideFormatSizes maps a stride-table format code to a byte length.
// Codes outside this table are a decode error, never a default.
var strideFormatSizes = [...]uint32{4, 8, 12, 4, 1}

// ParseBWM parses BWM data from a byte slice.
//
// The decode is a single forward pass: header, fixed-size record arrays,
// the self-describing vertex stride table, the vertex block it sizes, the
// index buffer, and (version 6 only) the cleave-point list. Any failure
// aborts the whole decode; no partial model is returned.
func ParseBWM(data []byte) (*BWM, error) {
	c := &cursor{data: data}

	magic, err := c.take(len(bwmMagic))
	if err != nil {
		return nil, err
	}
	if string(magic) != bwmMagic {
		return nil, ErrInvalidBWMMagic
	}
	if err := c.skip(27); err != nil {
		return nil, err
	}

	model := &BWM{}
	if model.PayloadSize, err = c.uint32(); err != nil {
		return nil, err
	}

	headerMagic, err := c.uint32()
	if err != nil {
		return nil, err
	}
	if headerMagic != bwmHeaderMagic {
		return nil, fmt.Errorf("%w: got 0x%08X", ErrInvalidBWMHeader, headerMagic)
	}

	version, err := c.uint32()
	if err != nil {
		return nil, err
	}
	if version != uint32(BWMVersion5) && version != uint32(BWMVersion6) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBWMVersion, version)
	}
	model.Version = BWMVersion(version)

	if model.PayloadSize2, err = c.uint32(); err != nil {
		return nil, err
	}
	if err := c.skip(68); err != nil {
		return nil, err
	}

	counts, err := parseBWMCounts(c)
	if err != nil {
		return nil, err
	}
	model.BoneCount = counts.bones
	model.UnknownACount = counts.unknownA
	model.UnknownBCount = counts.unknownB

	if err := parseBWMMaterials(c, model, counts.materials); err != nil {
		return nil, err
	}
	if err := parseBWMMeshes(c, model, counts.meshes); err != nil {
		return nil, err
	}

	// Bone records are opaque 48-byte spans; consume without interpreting.
	if err := c.skip(int(counts.bones) * bwmBoneSize); err != nil {
		return nil, err
	}

	if err := parseBWMEntities(c, model, counts.entities); err != nil {
		return nil, err
	}

	// Both unknown block types are opaque 12-byte records.
	if err := c.skip(int(counts.unknownA) * bwmUnknownSize); err != nil {
		return nil, err
	}
	if err := c.skip(int(counts.unknownB) * bwmUnknownSize); err != nil {
		return nil, err
	}

	if model.StrideFields, model.Stride, err = resolveBWMStride(c, counts.strides); err != nil {
		return nil, err
	}
	if err := parseBWMVertices(c, model, counts.vertices); err != nil {
		return nil, err
	}

	model.Indices = make([]uint16, counts.indices)
	for i := range model.Indices {
		if model.Indices[i], err = c.uint16(); err != nil {
			return nil, err
		}
	}

	if model.Version.HasCleavePoints() {
		cleaveCount, err := c.uint32()
		if err != nil {
			return nil, err
		}
		model.CleavePoints = make([][3]float32, cleaveCount)
		for i := range model.CleavePoints {
			if model.CleavePoints[i], err = c.point3(); err != nil {
				return nil, err
			}
		}
	}

	return model, nil
}

// bwmCounts is the header count table sizing every subsequent array.
type bwmCounts struct {
	materials uint32
	meshes    uint32
	bones     uint32
	entities  uint32
	unknownA  uint32
	unknownB  uint32
	vertices  uint32
	strides   uint32
	indices   uint32
}

// parseBWMCounts reads the nine header counts. The wire order is
// load-bearing: a 20-byte reserved span sits between the unknown-block
// counts and the vertex count, and one more reserved 32-bit field sits
// between the stride count and the index count.
func parseBWMCounts(c *cursor) (bwmCounts, error) {
	var n bwmCounts
	fields := []*uint32{&n.materials, &n.meshes, &n.bones, &n.entities, &n.unknownA, &n.unknownB}
	for _, f := range fields {
		v, err := c.uint32()
		if err != nil {
			return n, err
		}
		*f = v
	}
	if err := c.skip(20); err != nil {
		return n, err
	}
	var err error
	if n.vertices, err = c.uint32(); err != nil {
		return n, err
	}
	if n.strides, err = c.uint32(); err != nil {
		return n, err
	}
	if err := c.skip(4); err != nil {
		return n, err
	}
	if n.indices, err = c.uint32(); err != nil {
		return n, err
	}
	return n, nil
}

// parseBWMMaterials reads count material records of seven 64-byte fields.
func parseBWMMaterials(c *cursor, model *BWM, count uint32) error {
	model.Materials = make([]BWMMaterial, count)
	for i := range model.Materials {
		mat := &model.Materials[i]
		fields := []*string{
			&mat.DiffuseMap, &mat.LightMap, &mat.BumpMap,
			&mat.SpecularMap, &mat.EnvironmentMap, &mat.Type, &mat.Unknown,
		}
		for _, f := range fields {
			s, err := c.fixedString(64)
			if err != nil {
				return fmt.Errorf("parsing material %d: %w", i, err)
			}
			*f = s
		}
	}
	return nil
}

// parseBWMMeshes reads the mesh descriptions, then a second pass reads each
// mesh's material references, grouped per mesh in declaration order.
func parseBWMMeshes(c *cursor, model *BWM, count uint32) error {
	refCounts := make([]uint32, count)
	model.Meshes = make([]BWMMesh, count)
	for i := range model.Meshes {
		if err := parseBWMMeshDescription(c, &model.Meshes[i], &refCounts[i]); err != nil {
			return fmt.Errorf("parsing mesh %d: %w", i, err)
		}
	}
	for i := range model.Meshes {
		mesh := &model.Meshes[i]
		mesh.MaterialRefs = make([]BWMMaterialRef, refCounts[i])
		for j := range mesh.MaterialRefs {
			if err := parseBWMMaterialRef(c, &mesh.MaterialRefs[j]); err != nil {
				return fmt.Errorf("parsing mesh %d material ref %d: %w", i, j, err)
			}
		}
	}
	return nil
}

func parseBWMMeshDescription(c *cursor, mesh *BWMMesh, refCount *uint32) error {
	var err error
	if mesh.ID, err = c.uint32(); err != nil {
		return err
	}
	if *refCount, err = c.uint32(); err != nil {
		return err
	}
	if mesh.Name, err = c.fixedString(64); err != nil {
		return err
	}
	if err = c.skip(bwmMeshReserved); err != nil {
		return err
	}
	if mesh.FaceCount, err = c.uint32(); err != nil {
		return err
	}
	if mesh.IndicesOffset, err = c.uint32(); err != nil {
		return err
	}
	for i := range mesh.Reserved {
		if mesh.Reserved[i], err = c.uint32(); err != nil {
			return err
		}
	}
	return nil
}

func parseBWMMaterialRef(c *cursor, ref *BWMMaterialRef) error {
	fields := []*uint32{
		&ref.MaterialID,
		&ref.IndicesOffset, &ref.IndicesSize,
		&ref.VerticesOffset, &ref.VerticesSize,
		&ref.FacesOffset, &ref.FacesSize,
		&ref.UnknownOffset, &ref.UnknownSize,
		&ref.Unknown,
	}
	for _, f := range fields {
		v, err := c.uint32()
		if err != nil {
			return err
		}
		*f = v
	}
	return nil
}

func parseBWMEntities(c *cursor, model *BWM, count uint32) error {
	model.Entities = make([]BWMEntity, count)
	for i := range model.Entities {
		e := &model.Entities[i]
		points := []*[3]float32{&e.Position, &e.Unknown1, &e.Unknown2, &e.Unknown3}
		for _, p := range points {
			v, err := c.point3()
			if err != nil {
				return fmt.Errorf("parsing entity %d: %w", i, err)
			}
			*p = v
		}
		var err error
		if e.Name, err = c.fixedString(256); err != nil {
			return fmt.Errorf("parsing entity %d: %w", i, err)
		}
	}
	return nil
}

// resolveBWMStride interprets the embedded stride table and returns its
// fields plus the per-vertex byte width. The table is self-describing: an
// entry count followed by (type tag, format code) pairs whose sizes
// accumulate into the stride. Exactly one table definition is supported;
// zero definitions resolve to stride 0.
func resolveBWMStride(c *cursor, tableCount uint32) ([]BWMStrideField, uint32, error) {
	if tableCount == 0 {
		return nil, 0, nil
	}
	if tableCount > 1 {
		return nil, 0, fmt.Errorf("%w: file declares %d stride tables", ErrMultipleStrides, tableCount)
	}

	entryCount, err := c.uint32()
	if err != nil {
		return nil, 0, err
	}
	fields := make([]BWMStrideField, 0, entryCount)
	var stride uint32
	for i := uint32(0); i < entryCount; i++ {
		// The type tag selects what the field means; only the format
		// code affects sizing.
		tag, err := c.uint32()
		if err != nil {
			return nil, 0, err
		}
		format, err := c.uint32()
		if err != nil {
			return nil, 0, err
		}
		if format >= uint32(len(strideFormatSizes)) {
			return nil, 0, fmt.Errorf("%w: %d in stride entry %d", ErrUnknownStrideFormat, format, i)
		}
		fields = append(fields, BWMStrideField{TypeTag: tag, Size: strideFormatSizes[format]})
		stride += strideFormatSizes[format]
	}
	return fields, stride, nil
}

// parseBWMVertices decodes count vertex records of the resolved stride.
// The first 32 bytes of each record are position, normal, U and V; any
// remainder is padding with no known layout and is skipped.
func parseBWMVertices(c *cursor, model *BWM, count uint32) error {
	if count == 0 {
		return nil
	}
	if model.Stride < bwmVertexSize {
		return fmt.Errorf("%w: stride %d, need %d", ErrStrideTooSmall, model.Stride, bwmVertexSize)
	}
	padding := int(model.Stride) - bwmVertexSize

	model.Vertices = make([]BWMVertex, count)
	for i := range model.Vertices {
		v := &model.Vertices[i]
		var err error
		if v.Position, err = c.point3(); err != nil {
			return fmt.Errorf("parsing vertex %d: %w", i, err)
		}
		if v.Normal, err = c.point3(); err != nil {
			return fmt.Errorf("parsing vertex %d: %w", i, err)
		}
		if v.U, err = c.float32(); err != nil {
			return fmt.Errorf("parsing vertex %d: %w", i, err)
		}
		if v.V, err = c.float32(); err != nil {
			return fmt.Errorf("parsing vertex %d: %w", i, err)
		}
		if err = c.skip(padding); err != nil {
			return fmt.Errorf("parsing vertex %d: %w", i, err)
		}
	}
	return nil
}

// ParseBWMReader parses a BWM model from an already-open stream. The stream
// is read to its end before decoding.
func ParseBWMReader(r io.Reader) (*BWM, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading BWM stream: %w", err)
	}
	return ParseBWM(data)
}

// ParseBWMFile parses a BWM file from disk.
func ParseBWMFile(path string) (*BWM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading BWM file: %w", err)
	}
	return ParseBWM(data)
}
