package mslemit

import (
	"strings"
	"testing"

	"github.com/dx9mt/dx9mt/shader"
)

func TestEmitVertexShaderMov(t *testing.T) {
	prog := &shader.Program{
		IsVertexShader: true,
		MajorVersion:   3,
		DCLs: []shader.DCLEntry{
			{Usage: shader.UsagePosition, RegType: shader.RegInput, RegNumber: 0, WriteMask: 0xF},
			{Usage: shader.UsagePosition, RegType: shader.RegOutput, RegNumber: 0, WriteMask: 0xF},
		},
		Instructions: []shader.Instruction{
			{
				Opcode:     shader.OpMOV,
				NumSources: 1,
				Dst:        shader.Register{Type: shader.RegRastOut, Number: 0, WriteMask: 0xF},
				Src:        [4]shader.Register{{Type: shader.RegInput, Number: 0, Swizzle: [4]uint8{0, 1, 2, 3}, WriteMask: 0xF}},
			},
		},
	}
	res, err := EmitVertexShader(prog, 0xdeadbeef)
	if err != nil {
		t.Fatalf("EmitVertexShader: %v", err)
	}
	if res.EntryName != "vs_deadbeef" {
		t.Fatalf("entry = %q", res.EntryName)
	}
	if !strings.Contains(res.Source, "out.position = in.v0;") {
		t.Fatalf("expected mov to position, got:\n%s", res.Source)
	}
}

func TestEmitPixelShaderRejectsVertexProgram(t *testing.T) {
	prog := &shader.Program{IsVertexShader: true}
	if _, err := EmitPixelShader(prog, 1); err == nil {
		t.Fatal("expected error emitting a vertex program as a pixel shader")
	}
}

func TestEmitVertexShaderRejectsPixelProgram(t *testing.T) {
	prog := &shader.Program{IsVertexShader: false}
	if _, err := EmitVertexShader(prog, 1); err == nil {
		t.Fatal("expected error emitting a pixel program as a vertex shader")
	}
}

func TestEmitPixelShaderTexld(t *testing.T) {
	prog := &shader.Program{
		NumColorOutputs: 1,
		DCLs: []shader.DCLEntry{
			{Usage: shader.UsageSample, RegType: shader.RegSampler, RegNumber: 0, SamplerType: shader.Sampler2D},
			{Usage: shader.UsageTexCoord, RegType: shader.RegInput, RegNumber: 0, WriteMask: 0xF},
		},
		Instructions: []shader.Instruction{
			{
				Opcode:     shader.OpTEXLD,
				NumSources: 2,
				Dst:        shader.Register{Type: shader.RegColorOut, Number: 0, WriteMask: 0xF},
				Src: [4]shader.Register{
					{Type: shader.RegInput, Number: 0, Swizzle: [4]uint8{0, 1, 2, 3}, WriteMask: 0xF},
					{Type: shader.RegSampler, Number: 0, Swizzle: [4]uint8{0, 1, 2, 3}, WriteMask: 0xF},
				},
			},
		},
	}
	res, err := EmitPixelShader(prog, 0x1)
	if err != nil {
		t.Fatalf("EmitPixelShader: %v", err)
	}
	if !strings.Contains(res.Source, "tex0.sample(samp0, in.v0.xy)") {
		t.Fatalf("expected texld lowering, got:\n%s", res.Source)
	}
	if !strings.Contains(res.Source, "texture2d<float> tex0 [[texture(0)]]") {
		t.Fatalf("expected texture argument, got:\n%s", res.Source)
	}
}

func TestEmitSaturateWrapsAssignment(t *testing.T) {
	prog := &shader.Program{
		NumColorOutputs: 1,
		Instructions: []shader.Instruction{
			{
				Opcode:     shader.OpMUL,
				NumSources: 2,
				Dst:        shader.Register{Type: shader.RegColorOut, Number: 0, WriteMask: 0xF, ResultModifier: shader.ResultModSaturate},
				Src: [4]shader.Register{
					{Type: shader.RegTemp, Number: 0, Swizzle: [4]uint8{0, 1, 2, 3}, WriteMask: 0xF},
					{Type: shader.RegTemp, Number: 1, Swizzle: [4]uint8{0, 1, 2, 3}, WriteMask: 0xF},
				},
			},
		},
	}
	res, err := EmitPixelShader(prog, 0x2)
	if err != nil {
		t.Fatalf("EmitPixelShader: %v", err)
	}
	if !strings.Contains(res.Source, "oC0 = saturate(r0 * r1);") {
		t.Fatalf("expected saturate wrapper, got:\n%s", res.Source)
	}
}
