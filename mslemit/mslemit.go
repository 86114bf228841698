// Package mslemit lowers a parsed shader.Program into Metal Shading
// Language source text. It is the back-end half of the parse/IR/emit split
// shader begins (see shader's package doc): shader never depends on this
// package, so a caller that only needs the IR (e.g. shadercache computing a
// cache key) never pays for an MSL import.
//
// Grounded on original_source's d3d9_shader_emit_msl.c: register naming,
// swizzle/write-mask rendering, source-modifier wrapping, and the per-
// opcode lowering table are all carried over field-for-field. The fixed
// snprintf-into-caller-buffer style there becomes a strings.Builder here,
// Go's idiomatic equivalent of gogpu-gg's painter.go building SVG/path text
// incrementally rather than preallocating a max-size byte array.
package mslemit

import (
	"fmt"
	"strings"

	"github.com/dx9mt/dx9mt/shader"
)

// Result is a single emitted MSL shader function plus its metadata.
type Result struct {
	EntryName string
	Source    string
}

// swizzleComponents maps a swizzle index (0-3) to its MSL vector component
// letter, matching s_comp.
var swizzleComponents = [4]byte{'x', 'y', 'z', 'w'}

func regName(r shader.Register, isVS bool, majorVer uint8) string {
	switch r.Type {
	case shader.RegTemp:
		return fmt.Sprintf("r%d", r.Number)
	case shader.RegInput:
		return fmt.Sprintf("in.v%d", r.Number)
	case shader.RegConst:
		return fmt.Sprintf("c[%d]", r.Number)
	case shader.RegAddr:
		if isVS {
			return fmt.Sprintf("a%d", r.Number)
		}
		return fmt.Sprintf("in.t%d", r.Number)
	case shader.RegRastOut:
		switch r.Number {
		case 0:
			return "out.position"
		case 1:
			return "out.fog"
		default:
			return "out.pointsize"
		}
	case shader.RegAttrOut:
		return fmt.Sprintf("out.oD%d", r.Number)
	case shader.RegOutput:
		if isVS && majorVer < 3 {
			return fmt.Sprintf("out.oT%d", r.Number)
		}
		return fmt.Sprintf("out.o%d", r.Number)
	case shader.RegColorOut:
		return fmt.Sprintf("oC%d", r.Number)
	case shader.RegDepthOut:
		return "oDepth"
	case shader.RegSampler:
		return fmt.Sprintf("s%d", r.Number)
	case shader.RegConstInt:
		return fmt.Sprintf("i%d", r.Number)
	case shader.RegConstBool:
		return fmt.Sprintf("b%d", r.Number)
	case shader.RegMiscType:
		if r.Number == 0 {
			return "in.vpos"
		}
		return "in.vface"
	default:
		return fmt.Sprintf("UNKNOWN%d_%d", r.Type, r.Number)
	}
}

func swizzleStr(swiz [4]uint8) string {
	if swiz == [4]uint8{0, 1, 2, 3} {
		return ""
	}
	if swiz[0] == swiz[1] && swiz[1] == swiz[2] && swiz[2] == swiz[3] {
		return "." + string(swizzleComponents[swiz[0]])
	}
	var b strings.Builder
	b.WriteByte('.')
	for _, s := range swiz {
		b.WriteByte(swizzleComponents[s])
	}
	return b.String()
}

func writeMaskStr(mask uint8) string {
	if mask == 0xF {
		return ""
	}
	var b strings.Builder
	b.WriteByte('.')
	if mask&1 != 0 {
		b.WriteByte('x')
	}
	if mask&2 != 0 {
		b.WriteByte('y')
	}
	if mask&4 != 0 {
		b.WriteByte('z')
	}
	if mask&8 != 0 {
		b.WriteByte('w')
	}
	return b.String()
}

func maskCount(mask uint8) int {
	c := 0
	for _, bit := range []uint8{1, 2, 4, 8} {
		if mask&bit != 0 {
			c++
		}
	}
	return c
}

func srcExpr(r shader.Register, isVS bool, majorVer uint8) string {
	base := regName(r, isVS, majorVer)
	swiz := swizzleStr(r.Swizzle)
	switch r.SrcModifier {
	case shader.SrcModNone:
		return base + swiz
	case shader.SrcModNegate:
		return fmt.Sprintf("(-%s%s)", base, swiz)
	case shader.SrcModAbs:
		return fmt.Sprintf("abs(%s%s)", base, swiz)
	case shader.SrcModAbsNeg:
		return fmt.Sprintf("(-abs(%s%s))", base, swiz)
	case shader.SrcModComplement:
		return fmt.Sprintf("(1.0 - %s%s)", base, swiz)
	case shader.SrcModX2:
		return fmt.Sprintf("(%s%s * 2.0)", base, swiz)
	case shader.SrcModX2Neg:
		return fmt.Sprintf("(-%s%s * 2.0)", base, swiz)
	case shader.SrcModBias:
		return fmt.Sprintf("(%s%s - 0.5)", base, swiz)
	case shader.SrcModBiasNeg:
		return fmt.Sprintf("(-(%s%s - 0.5))", base, swiz)
	default:
		return base + swiz
	}
}

// comparison codes, matching dx9mt_sm_cmp (D3D9's shift-hack comparisons).
const (
	cmpGT = 1
	cmpEQ = 2
	cmpGE = 3
	cmpLT = 4
	cmpNE = 5
	cmpLE = 6
)

func comparisonOpStr(cmp uint8) string {
	switch cmp {
	case cmpGT:
		return ">"
	case cmpEQ:
		return "=="
	case cmpGE:
		return ">="
	case cmpLT:
		return "<"
	case cmpNE:
		return "!="
	case cmpLE:
		return "<="
	default:
		return "!="
	}
}

var truncSwiz = [5]string{"", ".x", ".xy", ".xyz", ""}

// emitInstruction lowers one instruction into zero or more MSL statement
// lines written to b, matching emit_instruction's per-opcode switch.
func emitInstruction(b *strings.Builder, inst shader.Instruction, isVS bool, majorVer uint8) {
	hasDst := inst.Opcode != shader.OpNOP
	var dst, wm string
	if hasDst {
		dst = regName(inst.Dst, isVS, majorVer)
		wm = writeMaskStr(inst.Dst.WriteMask)
	}

	var s [3]string
	for i := 0; i < int(inst.NumSources) && i < 3; i++ {
		s[i] = srcExpr(inst.Src[i], isVS, majorVer)
	}

	doSat := hasDst && inst.Dst.ResultModifier&shader.ResultModSaturate != 0

	var rhs string
	rhsScalar := false

	switch inst.Opcode {
	case shader.OpNOP:
		return
	case shader.OpMOV:
		rhs = s[0]
	case shader.OpADD:
		rhs = fmt.Sprintf("%s + %s", s[0], s[1])
	case shader.OpSUB:
		rhs = fmt.Sprintf("%s - %s", s[0], s[1])
	case shader.OpMUL:
		rhs = fmt.Sprintf("%s * %s", s[0], s[1])
	case shader.OpMAD:
		rhs = fmt.Sprintf("%s * %s + %s", s[0], s[1], s[2])
	case shader.OpDP3:
		rhs = fmt.Sprintf("dot(%s.xyz, %s.xyz)", s[0], s[1])
		rhsScalar = true
	case shader.OpDP4:
		rhs = fmt.Sprintf("dot(%s, %s)", s[0], s[1])
		rhsScalar = true
	case shader.OpRCP:
		rhs = fmt.Sprintf("(1.0 / %s.x)", s[0])
		rhsScalar = true
	case shader.OpRSQ:
		rhs = fmt.Sprintf("rsqrt(abs(%s.x))", s[0])
		rhsScalar = true
	case shader.OpMIN:
		rhs = fmt.Sprintf("min(%s, %s)", s[0], s[1])
	case shader.OpMAX:
		rhs = fmt.Sprintf("max(%s, %s)", s[0], s[1])
	case shader.OpSLT:
		rhs = fmt.Sprintf("select(float4(0.0), float4(1.0), (%s < %s))", s[0], s[1])
	case shader.OpSGE:
		rhs = fmt.Sprintf("select(float4(0.0), float4(1.0), (%s >= %s))", s[0], s[1])
	case shader.OpEXP:
		rhs = fmt.Sprintf("exp2(%s.x)", s[0])
		rhsScalar = true
	case shader.OpLOG:
		rhs = fmt.Sprintf("log2(abs(%s.x))", s[0])
		rhsScalar = true
	case shader.OpFRC:
		rhs = fmt.Sprintf("fract(%s)", s[0])
	case shader.OpABS:
		rhs = fmt.Sprintf("abs(%s)", s[0])
	case shader.OpNRM:
		rhs = fmt.Sprintf("float4(normalize(%s.xyz), rsqrt(dot(%s.xyz, %s.xyz)))", s[0], s[0], s[0])
	case shader.OpLRP:
		rhs = fmt.Sprintf("mix(%s, %s, %s)", s[2], s[1], s[0])
	case shader.OpCMP:
		rhs = fmt.Sprintf("select(%s, %s, %s >= float4(0.0))", s[2], s[1], s[0])
	case shader.OpPOW:
		rhs = fmt.Sprintf("pow(abs(%s.x), %s.x)", s[0], s[1])
		rhsScalar = true
	case shader.OpCRS:
		rhs = fmt.Sprintf("float4(cross(%s.xyz, %s.xyz), 0.0)", s[0], s[1])
	case shader.OpSINCOS:
		rhs = fmt.Sprintf("float4(cos(%s.x), sin(%s.x), 0.0, 0.0)", s[0], s[0])
	case shader.OpLIT:
		fmt.Fprintf(b, "  { // lit\n")
		fmt.Fprintf(b, "    float4 _ls = %s;\n", s[0])
		fmt.Fprintf(b, "    float _d = max(_ls.x, 0.0);\n")
		fmt.Fprintf(b, "    float _s = (_ls.x > 0.0) ? pow(max(_ls.y, 0.0), clamp(_ls.w, -128.0, 128.0)) : 0.0;\n")
		litRHS := "float4(1.0, _d, _s, 1.0)"
		if doSat {
			fmt.Fprintf(b, "    %s%s = saturate(%s);\n", dst, wm, litRHS)
		} else {
			fmt.Fprintf(b, "    %s%s = %s;\n", dst, wm, litRHS)
		}
		fmt.Fprintf(b, "  }\n")
		return
	case shader.OpDST:
		rhs = fmt.Sprintf("float4(1.0, %s.y * %s.y, %s.z, %s.w)", s[0], s[1], s[0], s[1])
	case shader.OpDP2ADD:
		rhs = fmt.Sprintf("(dot(%s.xy, %s.xy) + %s.x)", s[0], s[1], s[2])
		rhsScalar = true
	case shader.OpMOVA:
		rhs = fmt.Sprintf("float4(floor(%s + float4(0.5)))", s[0])
	case shader.OpM4x4:
		emitMatrixMul(b, dst, wm, s[0], inst.Src[1].Number, 4, doSat, "float4", "")
		return
	case shader.OpM4x3:
		emitMatrixMul(b, dst, wm, s[0], inst.Src[1].Number, 3, doSat, "float4", "1.0")
		return
	case shader.OpM3x4:
		emitMatrixMul(b, dst, wm, s[0]+".xyz", inst.Src[1].Number, 4, doSat, "float3", "")
		return
	case shader.OpM3x3:
		emitMatrixMul(b, dst, wm, s[0]+".xyz", inst.Src[1].Number, 3, doSat, "float3", "1.0")
		return
	case shader.OpM3x2:
		emitMatrixMul(b, dst, wm, s[0]+".xyz", inst.Src[1].Number, 2, doSat, "float3", "0.0, 1.0")
		return
	case shader.OpTEXLD:
		coord := srcExpr(inst.Src[0], isVS, majorVer)
		n := inst.Src[1].Number
		rhs = fmt.Sprintf("tex%d.sample(samp%d, %s.xy)", n, n, coord)
	case shader.OpTEXLDL:
		coord := srcExpr(inst.Src[0], isVS, majorVer)
		n := inst.Src[1].Number
		rhs = fmt.Sprintf("tex%d.sample(samp%d, %s.xy, level(%s.w))", n, n, coord, coord)
	case shader.OpTEXKILL:
		fmt.Fprintf(b, "  if (any(%s.xyz < float3(0.0))) discard_fragment();\n", dst)
		return
	case shader.OpIFC:
		s0e := srcExpr(inst.Src[0], isVS, majorVer)
		s1e := srcExpr(inst.Src[1], isVS, majorVer)
		fmt.Fprintf(b, "  if (%s.x %s %s.x) {\n", s0e, comparisonOpStr(inst.Comparison), s1e)
		return
	case shader.OpIF:
		s0e := srcExpr(inst.Src[0], isVS, majorVer)
		fmt.Fprintf(b, "  if (%s.x != 0.0) {\n", s0e)
		return
	case shader.OpELSE:
		fmt.Fprintf(b, "  } else {\n")
		return
	case shader.OpENDIF:
		fmt.Fprintf(b, "  }\n")
		return
	case shader.OpREP:
		s0e := srcExpr(inst.Src[0], isVS, majorVer)
		fmt.Fprintf(b, "  for (int rep_i = 0; rep_i < int(%s.x); rep_i++) {\n", s0e)
		return
	case shader.OpENDREP:
		fmt.Fprintf(b, "  }\n")
		return
	case shader.OpBREAK:
		fmt.Fprintf(b, "  break;\n")
		return
	case shader.OpBREAKC:
		s0e := srcExpr(inst.Src[0], isVS, majorVer)
		s1e := srcExpr(inst.Src[1], isVS, majorVer)
		fmt.Fprintf(b, "  if (%s.x %s %s.x) break;\n", s0e, comparisonOpStr(inst.Comparison), s1e)
		return
	default:
		fmt.Fprintf(b, "  // unsupported opcode %d\n", inst.Opcode)
		return
	}

	finalRHS := rhs
	if rhsScalar && hasDst {
		switch maskCount(inst.Dst.WriteMask) {
		case 1:
		case 2:
			finalRHS = fmt.Sprintf("float2(%s)", rhs)
		case 3:
			finalRHS = fmt.Sprintf("float3(%s)", rhs)
		default:
			finalRHS = fmt.Sprintf("float4(%s)", rhs)
		}
	}

	if !rhsScalar && hasDst && inst.Dst.WriteMask != 0xF {
		mc := maskCount(inst.Dst.WriteMask)
		rhsWidth := 4
		if inst.NumSources == 1 {
			sw := inst.Src[0].Swizzle
			if sw[0] == sw[1] && sw[1] == sw[2] && sw[2] == sw[3] {
				rhsWidth = 1
			}
		} else if inst.NumSources >= 2 {
			allScalar := true
			for i := 0; i < int(inst.NumSources) && i < 3; i++ {
				sw := inst.Src[i].Swizzle
				if !(sw[0] == sw[1] && sw[1] == sw[2] && sw[2] == sw[3]) {
					allScalar = false
					break
				}
			}
			if allScalar {
				rhsWidth = 1
			}
		}
		if mc < rhsWidth {
			finalRHS = fmt.Sprintf("(%s)%s", finalRHS, truncSwiz[mc])
		}
	}

	if doSat {
		fmt.Fprintf(b, "  %s%s = saturate(%s);\n", dst, wm, finalRHS)
	} else {
		fmt.Fprintf(b, "  %s%s = %s;\n", dst, wm, finalRHS)
	}
}

// emitMatrixMul lowers the mNxM family of instructions, each of which reads
// consecutive constant registers starting at cn.
func emitMatrixMul(b *strings.Builder, dst, wm, srcVec string, cn uint16, rows int, doSat bool, vecType, tail string) {
	fmt.Fprintf(b, "  { // matrix multiply\n")
	fmt.Fprintf(b, "    %s _mv = %s;\n", vecType, srcVec)
	dots := make([]string, 0, rows)
	suffix := ""
	if vecType == "float3" {
		suffix = ".xyz"
	}
	for i := 0; i < rows; i++ {
		dots = append(dots, fmt.Sprintf("dot(_mv, c[%d]%s)", int(cn)+i, suffix))
	}
	rhs := strings.Join(dots, ", ")
	if tail != "" {
		rhs += ", " + tail
	}
	full := fmt.Sprintf("float4(%s)", rhs)
	if doSat {
		fmt.Fprintf(b, "    %s%s = saturate(%s);\n", dst, wm, full)
	} else {
		fmt.Fprintf(b, "    %s%s = %s;\n", dst, wm, full)
	}
	fmt.Fprintf(b, "  }\n")
}

// usageToAttrIndex maps a vertex-input semantic to the attribute index the
// translated PSO's vertex descriptor uses, matching usage_to_attr_idx.
func usageToAttrIndex(usage shader.DCLUsage, usageIndex uint8) int {
	switch {
	case (usage == shader.UsagePosition || usage == shader.UsagePositionT) && usageIndex == 0:
		return 0
	case usage == shader.UsageColor && usageIndex == 0:
		return 1
	case usage == shader.UsageTexCoord && usageIndex == 0:
		return 2
	case usage == shader.UsageNormal && usageIndex == 0:
		return 3
	case usage == shader.UsageTexCoord && usageIndex == 1:
		return 4
	case usage == shader.UsageColor && usageIndex == 1:
		return 5
	case usage == shader.UsageBlendWeight && usageIndex == 0:
		return 6
	case usage == shader.UsageBlendIndices && usageIndex == 0:
		return 7
	default:
		return -1
	}
}

func typeForMask(mask uint8) string {
	switch maskCount(mask) {
	case 1:
		return "float"
	case 2:
		return "float2"
	case 3:
		return "float3"
	default:
		return "float4"
	}
}

func usageName(usage shader.DCLUsage) string {
	switch usage {
	case shader.UsageTexCoord:
		return "texcoord"
	case shader.UsageColor:
		return "color"
	case shader.UsageNormal:
		return "normal"
	case shader.UsageFog:
		return "fog"
	default:
		return "attr"
	}
}

// EmitVertexShader lowers prog (which must have IsVertexShader set) into an
// MSL vertex function, matching dx9mt_msl_emit_vs.
func EmitVertexShader(prog *shader.Program, bytecodeHash uint32) (Result, error) {
	if !prog.IsVertexShader {
		return Result{}, fmt.Errorf("mslemit: program is not a vertex shader")
	}
	entry := fmt.Sprintf("vs_%08x", bytecodeHash)

	var b strings.Builder
	fmt.Fprintf(&b, "#include <metal_stdlib>\n")
	fmt.Fprintf(&b, "using namespace metal;\n\n")

	fmt.Fprintf(&b, "struct VS_In_%08x {\n", bytecodeHash)
	for _, d := range prog.DCLs {
		if d.RegType != shader.RegInput {
			continue
		}
		attrIdx := usageToAttrIndex(d.Usage, d.UsageIndex)
		if attrIdx < 0 {
			continue
		}
		fmt.Fprintf(&b, "  %s v%d [[attribute(%d)]];\n", typeForMask(d.WriteMask), d.RegNumber, attrIdx)
	}
	fmt.Fprintf(&b, "};\n\n")

	fmt.Fprintf(&b, "struct VS_Out_%08x {\n", bytecodeHash)
	fmt.Fprintf(&b, "  float4 position [[position]];\n")
	if prog.MajorVersion >= 3 {
		for _, d := range prog.DCLs {
			if d.RegType != shader.RegOutput {
				continue
			}
			if d.Usage == shader.UsagePosition && d.UsageIndex == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s o%d [[user(%s%d)]];\n", typeForMask(d.WriteMask), d.RegNumber, usageName(d.Usage), d.UsageIndex)
		}
	} else {
		for i := 0; i < 2; i++ {
			if prog.ColorOutputMask&(1<<uint(i)) != 0 {
				fmt.Fprintf(&b, "  float4 oD%d [[user(color%d)]];\n", i, i)
			}
		}
		for i := 0; i < 8; i++ {
			if prog.OutputMask&(1<<uint(i)) != 0 {
				fmt.Fprintf(&b, "  float4 oT%d [[user(texcoord%d)]];\n", i, i)
			}
		}
	}
	if prog.WritesFog {
		fmt.Fprintf(&b, "  float fog;\n")
	}
	fmt.Fprintf(&b, "};\n\n")

	fmt.Fprintf(&b, "vertex VS_Out_%08x %s(\n", bytecodeHash, entry)
	fmt.Fprintf(&b, "    VS_In_%08x in [[stage_in]],\n", bytecodeHash)
	fmt.Fprintf(&b, "    constant float4 *c [[buffer(1)]]) {\n")

	for i := uint32(0); i <= prog.MaxTempReg; i++ {
		fmt.Fprintf(&b, "  float4 r%d = float4(0.0);\n", i)
	}

	usesAddrReg := false
	for _, inst := range prog.Instructions {
		if inst.Dst.Type == shader.RegAddr || inst.Opcode == shader.OpMOVA {
			usesAddrReg = true
			break
		}
	}
	if usesAddrReg {
		fmt.Fprintf(&b, "  float4 a0 = float4(0.0);\n")
	}

	emitDefConstants(&b, prog)

	fmt.Fprintf(&b, "  VS_Out_%08x out;\n", bytecodeHash)
	fmt.Fprintf(&b, "  out.position = float4(0.0);\n\n")

	for _, inst := range prog.Instructions {
		emitInstruction(&b, inst, true, prog.MajorVersion)
	}

	fmt.Fprintf(&b, "\n  return out;\n}\n")

	return Result{EntryName: entry, Source: b.String()}, nil
}

// EmitPixelShader lowers prog (which must have IsVertexShader unset) into an
// MSL fragment function, matching dx9mt_msl_emit_ps.
func EmitPixelShader(prog *shader.Program, bytecodeHash uint32) (Result, error) {
	if prog.IsVertexShader {
		return Result{}, fmt.Errorf("mslemit: program is not a pixel shader")
	}
	entry := fmt.Sprintf("ps_%08x", bytecodeHash)

	var b strings.Builder
	fmt.Fprintf(&b, "#include <metal_stdlib>\n")
	fmt.Fprintf(&b, "using namespace metal;\n\n")

	fmt.Fprintf(&b, "struct PS_In_%08x {\n", bytecodeHash)
	fmt.Fprintf(&b, "  float4 position [[position]];\n")
	for _, d := range prog.DCLs {
		if d.RegType != shader.RegInput {
			continue
		}
		fmt.Fprintf(&b, "  %s v%d [[user(%s%d)]];\n", typeForMask(d.WriteMask), d.RegNumber, usageName(d.Usage), d.UsageIndex)
	}
	for _, d := range prog.DCLs {
		if d.RegType != shader.RegAddr {
			continue
		}
		fmt.Fprintf(&b, "  float4 t%d [[user(texcoord%d)]];\n", d.RegNumber, d.RegNumber)
	}
	fmt.Fprintf(&b, "};\n\n")

	fmt.Fprintf(&b, "fragment float4 %s(\n", entry)
	fmt.Fprintf(&b, "    PS_In_%08x in [[stage_in]]", bytecodeHash)

	for _, d := range prog.DCLs {
		if d.RegType != shader.RegSampler {
			continue
		}
		texType := "texture2d<float>"
		switch d.SamplerType {
		case shader.SamplerCube:
			texType = "texturecube<float>"
		case shader.SamplerVolume:
			texType = "texture3d<float>"
		}
		fmt.Fprintf(&b, ",\n    %s tex%d [[texture(%d)]]", texType, d.RegNumber, d.RegNumber)
		fmt.Fprintf(&b, ",\n    sampler samp%d [[sampler(%d)]]", d.RegNumber, d.RegNumber)
	}
	fmt.Fprintf(&b, ",\n    constant float4 *c [[buffer(0)]]) {\n")

	for i := uint32(0); i <= prog.MaxTempReg; i++ {
		fmt.Fprintf(&b, "  float4 r%d = float4(0.0);\n", i)
	}

	fmt.Fprintf(&b, "  float4 oC0 = float4(0.0);\n")
	for i := 1; i < prog.NumColorOutputs; i++ {
		fmt.Fprintf(&b, "  float4 oC%d = float4(0.0);\n", i)
	}
	if prog.WritesDepth {
		fmt.Fprintf(&b, "  float oDepth = 0.0;\n")
	}

	emitDefConstants(&b, prog)
	fmt.Fprintf(&b, "\n")

	for _, inst := range prog.Instructions {
		emitInstruction(&b, inst, false, prog.MajorVersion)
	}

	fmt.Fprintf(&b, "\n  return oC0;\n}\n")

	return Result{EntryName: entry, Source: b.String()}, nil
}

func emitDefConstants(b *strings.Builder, prog *shader.Program) {
	for _, d := range prog.Defs {
		switch d.RegType {
		case shader.RegConst:
			fmt.Fprintf(b, "  // def c%d overridden by inline constant\n", d.RegNumber)
		case shader.RegConstInt:
			fmt.Fprintf(b, "  float4 i%d = float4(%d.0, %d.0, %d.0, %d.0);\n",
				d.RegNumber, d.Int[0], d.Int[1], d.Int[2], d.Int[3])
		case shader.RegConstBool:
			v := "0.0"
			if d.Bool != 0 {
				v = "1.0"
			}
			fmt.Fprintf(b, "  float4 b%d = float4(%s, 0.0, 0.0, 0.0);\n", d.RegNumber, v)
		}
	}
}
