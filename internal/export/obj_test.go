package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Faultbox/bwmtool/pkg/formats"
)

func testModel() *formats.BWM {
	return &formats.BWM{
		Version: formats.BWMVersion5,
		Materials: []formats.BWMMaterial{
			{DiffuseMap: "textures\\wood.dds"},
		},
		Meshes: []formats.BWMMesh{
			{
				Name: "hull",
				MaterialRefs: []formats.BWMMaterialRef{
					{MaterialID: 0, IndicesOffset: 0, IndicesSize: 3},
				},
			},
		},
		Vertices: []formats.BWMVertex{
			{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 1, 0}, U: 0, V: 0},
			{Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 1, 0}, U: 1, V: 0},
			{Position: [3]float32{0, 0, 1}, Normal: [3]float32{0, 1, 0}, U: 0, V: 1},
		},
		Indices: []uint16{0, 1, 2},
	}
}

func TestWriteOBJ(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, testModel(), Options{}); err != nil {
		t.Fatalf("WriteOBJ failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"v 0 0 0\n",
		"v 1 0 0\n",
		"vn 0 1 0\n",
		"vt 1 0\n",
		"g hull\n",
		"usemtl wood\n",
		"f 1/1/1 2/2/2 3/3/3\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteOBJ_Scale(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, testModel(), Options{Scale: 2}); err != nil {
		t.Fatalf("WriteOBJ failed: %v", err)
	}
	if !strings.Contains(buf.String(), "v 2 0 0\n") {
		t.Errorf("scaled vertex missing:\n%s", buf.String())
	}
}

func TestWriteOBJ_FlipV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, testModel(), Options{FlipV: true}); err != nil {
		t.Fatalf("WriteOBJ failed: %v", err)
	}
	if !strings.Contains(buf.String(), "vt 0 1\n") {
		t.Errorf("flipped V coordinate missing:\n%s", buf.String())
	}
}

func TestWriteOBJ_FlipWinding(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, testModel(), Options{FlipWinding: true}); err != nil {
		t.Fatalf("WriteOBJ failed: %v", err)
	}
	if !strings.Contains(buf.String(), "f 1/1/1 3/3/3 2/2/2\n") {
		t.Errorf("reversed face missing:\n%s", buf.String())
	}
}

func TestWriteOBJ_OutOfRangeRef(t *testing.T) {
	model := testModel()
	model.Meshes[0].MaterialRefs[0].IndicesSize = 99

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, model, Options{}); err == nil {
		t.Error("expected error for out-of-range index range")
	}
}

func TestWriteOBJ_UnnamedMeshAndMaterial(t *testing.T) {
	model := testModel()
	model.Meshes[0].Name = ""
	model.Materials[0].DiffuseMap = ""

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, model, Options{}); err != nil {
		t.Fatalf("WriteOBJ failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "g mesh_0\n") {
		t.Errorf("fallback group name missing:\n%s", out)
	}
	if !strings.Contains(out, "usemtl material_0\n") {
		t.Errorf("fallback material name missing:\n%s", out)
	}
}
