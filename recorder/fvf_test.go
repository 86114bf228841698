package recorder

import "testing"

func TestFVFZeroReturnsNil(t *testing.T) {
	if got := FVFToVertexElements(0); got != nil {
		t.Fatalf("FVFToVertexElements(0) = %v, want nil", got)
	}
}

func TestFVFXYZDiffuseTex1(t *testing.T) {
	const fvfXYZFlag = 0x002
	const fvfDiffuseFlag = 0x040
	fvf := uint32(fvfXYZFlag | fvfDiffuseFlag | (1 << fvfTexCountShift))

	elems := FVFToVertexElements(fvf)
	if len(elems) != 3 {
		t.Fatalf("got %d elements, want 3: %+v", len(elems), elems)
	}

	pos := elems[0]
	if pos.Usage != DeclUsagePosition || pos.Type != DeclTypeFloat3 || pos.Offset != 0 {
		t.Fatalf("position element = %+v", pos)
	}
	diffuse := elems[1]
	if diffuse.Usage != DeclUsageColor || diffuse.Type != DeclTypeD3DColor || diffuse.Offset != 12 {
		t.Fatalf("diffuse element = %+v", diffuse)
	}
	tex := elems[2]
	if tex.Usage != DeclUsageTexCoord || tex.Type != DeclTypeFloat2 || tex.Offset != 16 {
		t.Fatalf("texcoord element = %+v", tex)
	}
}

func TestFVFXYZRHW(t *testing.T) {
	elems := FVFToVertexElements(fvfXYZRHW)
	if len(elems) != 1 || elems[0].Usage != DeclUsagePositionT || elems[0].Type != DeclTypeFloat4 {
		t.Fatalf("xyzrhw elements = %+v", elems)
	}
}

func TestFVFXYZB2BlendWeights(t *testing.T) {
	elems := FVFToVertexElements(fvfXYZB2)
	if len(elems) != 2 {
		t.Fatalf("got %d elements, want 2: %+v", len(elems), elems)
	}
	if elems[1].Usage != DeclUsageBlendWeight || elems[1].Type != DeclTypeFloat2 || elems[1].Offset != 12 {
		t.Fatalf("blend weight element = %+v", elems[1])
	}
}

func TestFVFTexCoordFormats(t *testing.T) {
	const fvfXYZFlag = 0x002
	fvf := uint32(fvfXYZFlag | (2 << fvfTexCountShift) | (1 << 16) | (2 << 18))
	elems := FVFToVertexElements(fvf)
	if len(elems) != 3 {
		t.Fatalf("got %d elements, want 3: %+v", len(elems), elems)
	}
	if elems[1].Type != DeclTypeFloat3 {
		t.Fatalf("texcoord0 type = %d, want float3", elems[1].Type)
	}
	if elems[2].Type != DeclTypeFloat4 {
		t.Fatalf("texcoord1 type = %d, want float4", elems[2].Type)
	}
}
