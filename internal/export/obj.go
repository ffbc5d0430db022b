// Package export converts decoded models into interchange formats.
package export

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Faultbox/bwmtool/pkg/formats"
)

// Options controls OBJ output.
type Options struct {
	Scale       float32 // Uniform scale applied to positions (0 means 1.0)
	FlipV       bool    // Flip the V texture coordinate
	FlipWinding bool    // Reverse triangle winding order
}

// WriteOBJ writes the model as Wavefront OBJ. Vertices, normals and texture
// coordinates are emitted once for the whole model; faces are grouped per
// mesh and per material reference, carved from the shared index buffer the
// way the format intends consumers to do it.
func WriteOBJ(w io.Writer, model *formats.BWM, opts Options) error {
	if model == nil {
		return fmt.Errorf("nil model")
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1.0
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# exported by bwmtool (BWM version %s)\n", model.Version)

	for i := range model.Vertices {
		p := model.Vertices[i].Position
		fmt.Fprintf(bw, "v %g %g %g\n", p[0]*scale, p[1]*scale, p[2]*scale)
	}
	for i := range model.Vertices {
		n := model.Vertices[i].Normal
		fmt.Fprintf(bw, "vn %g %g %g\n", n[0], n[1], n[2])
	}
	for i := range model.Vertices {
		v := model.Vertices[i].V
		if opts.FlipV {
			v = 1 - v
		}
		fmt.Fprintf(bw, "vt %g %g\n", model.Vertices[i].U, v)
	}

	for mi := range model.Meshes {
		mesh := &model.Meshes[mi]
		fmt.Fprintf(bw, "g %s\n", objGroupName(mesh, mi))

		for ri := range mesh.MaterialRefs {
			ref := &mesh.MaterialRefs[ri]
			indices := model.RefIndices(ref)
			if indices == nil {
				return fmt.Errorf("mesh %q material ref %d: index range (%d,%d) outside buffer of %d",
					mesh.Name, ri, ref.IndicesOffset, ref.IndicesSize, len(model.Indices))
			}

			fmt.Fprintf(bw, "usemtl %s\n", objMaterialName(model, ref))

			for t := 0; t+2 < len(indices); t += 3 {
				a, b, c := indices[t], indices[t+1], indices[t+2]
				if opts.FlipWinding {
					b, c = c, b
				}
				// OBJ indices are 1-based; v, vt and vn share ordering.
				fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n",
					a+1, a+1, a+1, b+1, b+1, b+1, c+1, c+1, c+1)
			}
		}
	}

	return bw.Flush()
}

func objGroupName(mesh *formats.BWMMesh, index int) string {
	name := strings.TrimSpace(mesh.Name)
	if name == "" {
		return fmt.Sprintf("mesh_%d", index)
	}
	return strings.ReplaceAll(name, " ", "_")
}

func objMaterialName(model *formats.BWM, ref *formats.BWMMaterialRef) string {
	mat := model.GetMaterial(ref)
	if mat == nil || mat.DiffuseMap == "" {
		return fmt.Sprintf("material_%d", ref.MaterialID)
	}
	// Texture paths in BWM files use Windows separators.
	base := mat.DiffuseMap
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, " ", "_")
}
