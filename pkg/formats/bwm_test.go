package formats

import "testing"

func TestBWMVersion_String(t *testing.T) {
	tests := []struct {
		version BWMVersion
		want    string
	}{
		{BWMVersion5, "5"},
		{BWMVersion6, "6"},
		{BWMVersion(7), "7"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.version.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBWMVersion_HasCleavePoints(t *testing.T) {
	if BWMVersion5.HasCleavePoints() {
		t.Error("v5 should not have cleave points")
	}
	if !BWMVersion6.HasCleavePoints() {
		t.Error("v6 should have cleave points")
	}
}

func TestBWM_MaterialRefCount(t *testing.T) {
	model := &BWM{
		Meshes: []BWMMesh{
			{MaterialRefs: make([]BWMMaterialRef, 2)},
			{MaterialRefs: make([]BWMMaterialRef, 0)},
			{MaterialRefs: make([]BWMMaterialRef, 3)},
		},
	}
	if got := model.MaterialRefCount(); got != 5 {
		t.Errorf("MaterialRefCount() = %d, want 5", got)
	}
}

func TestBWM_GetMeshByName(t *testing.T) {
	model := &BWM{
		Meshes: []BWMMesh{
			{Name: "hull"},
			{Name: "sail"},
		},
	}

	mesh := model.GetMeshByName("sail")
	if mesh == nil {
		t.Fatal("GetMeshByName returned nil for existing mesh")
	}
	if mesh.Name != "sail" {
		t.Errorf("mesh.Name = %q, want %q", mesh.Name, "sail")
	}

	if model.GetMeshByName("mast") != nil {
		t.Error("GetMeshByName returned non-nil for nonexistent mesh")
	}
}

func TestBWM_GetMaterial(t *testing.T) {
	model := &BWM{
		Materials: []BWMMaterial{
			{DiffuseMap: "a.dds"},
			{DiffuseMap: "b.dds"},
		},
	}

	mat := model.GetMaterial(&BWMMaterialRef{MaterialID: 1})
	if mat == nil {
		t.Fatal("GetMaterial returned nil for valid index")
	}
	if mat.DiffuseMap != "b.dds" {
		t.Errorf("DiffuseMap = %q, want %q", mat.DiffuseMap, "b.dds")
	}

	if model.GetMaterial(&BWMMaterialRef{MaterialID: 2}) != nil {
		t.Error("GetMaterial returned non-nil for out-of-range index")
	}
}

func TestBWM_RefIndices(t *testing.T) {
	model := &BWM{Indices: []uint16{0, 1, 2, 3, 4, 5}}

	tests := []struct {
		name    string
		ref     BWMMaterialRef
		wantLen int
		first   uint16
	}{
		{"full range", BWMMaterialRef{IndicesOffset: 0, IndicesSize: 6}, 6, 0},
		{"sub range", BWMMaterialRef{IndicesOffset: 2, IndicesSize: 3}, 3, 2},
		{"empty range", BWMMaterialRef{IndicesOffset: 4, IndicesSize: 0}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.RefIndices(&tt.ref)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0] != tt.first {
				t.Errorf("got[0] = %d, want %d", got[0], tt.first)
			}
		})
	}

	// Ranges are stored unvalidated; carving an out-of-range one must
	// not panic, just return nil.
	if got := model.RefIndices(&BWMMaterialRef{IndicesOffset: 4, IndicesSize: 10}); got != nil {
		t.Errorf("out-of-range carve returned %v, want nil", got)
	}
}

func TestBWM_Bounds(t *testing.T) {
	model := &BWM{
		Vertices: []BWMVertex{
			{Position: [3]float32{1, -5, 2}},
			{Position: [3]float32{-3, 4, 0}},
			{Position: [3]float32{2, 0, 7}},
		},
	}

	min, max := model.Bounds()
	if min != [3]float32{-3, -5, 0} {
		t.Errorf("min = %v, want [-3 -5 0]", min)
	}
	if max != [3]float32{2, 4, 7} {
		t.Errorf("max = %v, want [2 4 7]", max)
	}

	empty := &BWM{}
	min, max = empty.Bounds()
	if min != [3]float32{} || max != [3]float32{} {
		t.Errorf("empty model bounds = %v %v, want zero corners", min, max)
	}
}
