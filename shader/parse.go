package shader

import (
	"fmt"
	"math"
)

// ParseError is returned by Parse when the bytecode is malformed; it always
// names the dword offset at which parsing failed, matching the original's
// error_msg conventions.
type ParseError struct {
	Offset  uint32
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("shader: %s (at dword %d)", e.Message, e.Offset)
}

func decodeRegType(token uint32) RegType {
	return RegType(((token >> 28) & 0x7) | (((token >> 11) & 0x3) << 3))
}

func decodeRegNumber(token uint32) uint16 {
	return uint16(token & 0x7FF)
}

func decodeDst(token uint32) Register {
	return Register{
		Type:           decodeRegType(token),
		Number:         decodeRegNumber(token),
		WriteMask:      uint8((token >> 16) & 0xF),
		ResultModifier: ResultMod((token >> 20) & 0xF),
		Swizzle:        [4]uint8{0, 1, 2, 3},
	}
}

func decodeSrc(token uint32) Register {
	return Register{
		Type:   decodeRegType(token),
		Number: decodeRegNumber(token),
		Swizzle: [4]uint8{
			uint8((token >> 16) & 0x3),
			uint8((token >> 18) & 0x3),
			uint8((token >> 20) & 0x3),
			uint8((token >> 22) & 0x3),
		},
		SrcModifier: SrcMod((token >> 24) & 0xF),
		HasRelative: (token>>13)&0x1 != 0,
		WriteMask:   0xF,
	}
}

// srcCount returns the number of source operands for a regular (non-flow-
// control, non-declaration) opcode, or -1 if op is unknown to this parser.
func srcCount(op Opcode) int {
	switch op {
	case OpNOP:
		return 0
	case OpMOV, OpRCP, OpRSQ, OpEXP, OpLOG, OpLIT, OpFRC, OpABS, OpNRM, OpSINCOS, OpMOVA:
		return 1
	case OpADD, OpSUB, OpMUL, OpDP3, OpDP4, OpMIN, OpMAX, OpSLT, OpSGE, OpDST,
		OpM4x4, OpM4x3, OpM3x4, OpM3x3, OpM3x2, OpPOW, OpCRS, OpTEXLD, OpTEXLDL:
		return 2
	case OpMAD, OpLRP, OpSGN, OpCMP, OpDP2ADD:
		return 3
	case OpTEXKILL:
		return 0
	default:
		return -1
	}
}

func hasDst(op Opcode) bool {
	switch op {
	case OpNOP, OpREP, OpENDREP, OpIF, OpELSE, OpENDIF, OpBREAK, OpEND:
		return false
	default:
		return true
	}
}

// trackRegisterUsage updates Program's analysis masks/bounds for one decoded
// register operand, returning an error if the register number is out of the
// supported range for its type.
func trackRegisterUsage(p *Program, r *Register, isDst bool) error {
	switch r.Type {
	case RegTemp:
		if r.Number > 255 {
			return fmt.Errorf("temp register %d out of supported range", r.Number)
		}
		if uint32(r.Number) > p.MaxTempReg {
			p.MaxTempReg = uint32(r.Number)
		}
	case RegConst:
		if r.Number > 255 {
			return fmt.Errorf("const register %d out of supported range", r.Number)
		}
		if uint32(r.Number) > p.MaxConstReg {
			p.MaxConstReg = uint32(r.Number)
		}
	case RegInput:
		if r.Number >= 32 {
			return fmt.Errorf("input register %d out of supported range", r.Number)
		}
		p.InputMask |= 1 << r.Number
	case RegOutput:
		if r.Number >= 32 {
			return fmt.Errorf("output register %d out of supported range", r.Number)
		}
		p.OutputMask |= 1 << r.Number
	case RegSampler:
		if r.Number >= 32 {
			return fmt.Errorf("sampler register %d out of supported range", r.Number)
		}
		p.SamplerMask |= 1 << r.Number
	case RegRastOut:
		if r.Number > 2 {
			return fmt.Errorf("rastout register %d out of supported range", r.Number)
		}
		if isDst && r.Number == 0 {
			p.WritesPosition = true
		}
		if isDst && r.Number == 1 {
			p.WritesFog = true
		}
	case RegAttrOut:
		if r.Number >= 32 {
			return fmt.Errorf("attribute output register %d out of supported range", r.Number)
		}
		if isDst {
			p.ColorOutputMask |= 1 << r.Number
		}
	case RegColorOut:
		if r.Number >= 32 {
			return fmt.Errorf("color output register %d out of supported range", r.Number)
		}
		if isDst {
			p.NumColorOutputs = int(r.Number) + 1
		}
	case RegDepthOut:
		if isDst {
			p.WritesDepth = true
		}
	}
	return nil
}

// Parse decodes SM3.0 token-stream bytecode into a Program IR, matching
// dx9mt_sm_parse exactly: version token, then instructions/dcl/def entries
// until the END opcode (0xFFFF) is seen. Comment blocks (opcode low 16 bits
// == 0xFFFE) are skipped using their encoded DWORD length.
func Parse(bytecode []uint32) (*Program, error) {
	if len(bytecode) < 2 {
		return nil, &ParseError{Message: "bytecode too short"}
	}

	p := &Program{}
	pos := uint32(0)

	version := bytecode[pos]
	pos++
	p.MinorVersion = uint8(version & 0xFF)
	p.MajorVersion = uint8((version >> 8) & 0xFF)
	switch version & 0xFFFF0000 {
	case 0xFFFE0000:
		p.IsVertexShader = true
	case 0xFFFF0000:
		p.IsVertexShader = false
	default:
		return nil, &ParseError{Offset: 0, Message: fmt.Sprintf("bad version: 0x%08x", version)}
	}

	sawEnd := false
	n := uint32(len(bytecode))

	for pos < n {
		instrToken := bytecode[pos]
		opcode := Opcode(instrToken & 0xFFFF)

		if opcode == OpEND {
			sawEnd = true
			break
		}

		if instrToken&0xFFFF == 0xFFFE {
			commentLen := (instrToken >> 16) & 0x7FFF
			if pos+1+commentLen > n {
				return nil, &ParseError{Offset: pos, Message: "truncated comment block"}
			}
			pos += 1 + commentLen
			continue
		}
		pos++

		switch {
		case opcode == OpDCL:
			if pos+2 > n {
				return nil, &ParseError{Offset: pos, Message: "truncated dcl"}
			}
			semToken, regToken := bytecode[pos], bytecode[pos+1]
			pos += 2
			if len(p.DCLs) >= MaxDCL {
				return nil, &ParseError{Offset: pos, Message: fmt.Sprintf("too many declarations (>%d)", MaxDCL)}
			}
			dcl := DCLEntry{
				Usage:      DCLUsage(semToken & 0x1F),
				UsageIndex: uint8((semToken >> 16) & 0xF),
				RegType:    decodeRegType(regToken),
				RegNumber:  decodeRegNumber(regToken),
				WriteMask:  uint8((regToken >> 16) & 0xF),
			}
			if dcl.RegType == RegSampler {
				dcl.SamplerType = SamplerType((semToken >> 27) & 0xF)
				p.SamplerMask |= 1 << dcl.RegNumber
			}
			if dcl.RegType == RegInput {
				if dcl.RegNumber >= 32 {
					return nil, &ParseError{Offset: pos, Message: fmt.Sprintf("invalid input register %d", dcl.RegNumber)}
				}
				p.InputMask |= 1 << dcl.RegNumber
			}
			if dcl.RegType == RegOutput {
				if dcl.RegNumber >= 32 {
					return nil, &ParseError{Offset: pos, Message: fmt.Sprintf("invalid output register %d", dcl.RegNumber)}
				}
				p.OutputMask |= 1 << dcl.RegNumber
			}
			p.DCLs = append(p.DCLs, dcl)

		case opcode == OpDEF:
			if pos+5 > n {
				return nil, &ParseError{Offset: pos, Message: "truncated def"}
			}
			dstToken := bytecode[pos]
			pos++
			if len(p.Defs) >= MaxDef {
				return nil, &ParseError{Offset: pos, Message: fmt.Sprintf("too many immediate defs (>%d)", MaxDef)}
			}
			var def DefEntry
			def.RegType = RegConst
			def.RegNumber = decodeRegNumber(dstToken)
			for i := 0; i < 4; i++ {
				def.Float[i] = math.Float32frombits(bytecode[pos+uint32(i)])
			}
			pos += 4
			p.Defs = append(p.Defs, def)

		case opcode == OpDEFI:
			if pos+5 > n {
				return nil, &ParseError{Offset: pos, Message: "truncated defi"}
			}
			dstToken := bytecode[pos]
			pos++
			if len(p.Defs) >= MaxDef {
				return nil, &ParseError{Offset: pos, Message: fmt.Sprintf("too many immediate defs (>%d)", MaxDef)}
			}
			var def DefEntry
			def.RegType = RegConstInt
			def.RegNumber = decodeRegNumber(dstToken)
			for i := 0; i < 4; i++ {
				def.Int[i] = int32(bytecode[pos+uint32(i)])
			}
			pos += 4
			p.Defs = append(p.Defs, def)

		case opcode == OpDEFB:
			if pos+2 > n {
				return nil, &ParseError{Offset: pos, Message: "truncated defb"}
			}
			dstToken := bytecode[pos]
			pos++
			if len(p.Defs) >= MaxDef {
				return nil, &ParseError{Offset: pos, Message: fmt.Sprintf("too many immediate defs (>%d)", MaxDef)}
			}
			var def DefEntry
			def.RegType = RegConstBool
			def.RegNumber = decodeRegNumber(dstToken)
			def.Bool = bytecode[pos]
			pos++
			p.Defs = append(p.Defs, def)

		case opcode == OpIFC || opcode == OpBREAKC:
			if pos+2 > n {
				return nil, &ParseError{Offset: pos, Message: "truncated ifc/breakc"}
			}
			if len(p.Instructions) >= MaxInstructions {
				return nil, &ParseError{Offset: pos, Message: fmt.Sprintf("too many instructions (>%d)", MaxInstructions)}
			}
			inst := Instruction{
				Opcode:     opcode,
				Comparison: uint8((instrToken >> 18) & 0x7),
				NumSources: 2,
			}
			inst.Src[0] = decodeSrc(bytecode[pos])
			inst.Src[1] = decodeSrc(bytecode[pos+1])
			pos += 2
			p.Instructions = append(p.Instructions, inst)

		case opcode == OpREP || opcode == OpIF:
			if pos+1 > n {
				return nil, &ParseError{Offset: pos, Message: "truncated rep/if"}
			}
			if len(p.Instructions) >= MaxInstructions {
				return nil, &ParseError{Offset: pos, Message: fmt.Sprintf("too many instructions (>%d)", MaxInstructions)}
			}
			inst := Instruction{Opcode: opcode, NumSources: 1}
			inst.Src[0] = decodeSrc(bytecode[pos])
			pos++
			p.Instructions = append(p.Instructions, inst)

		case opcode == OpELSE || opcode == OpENDIF || opcode == OpENDREP || opcode == OpBREAK:
			if len(p.Instructions) >= MaxInstructions {
				return nil, &ParseError{Offset: pos, Message: fmt.Sprintf("too many instructions (>%d)", MaxInstructions)}
			}
			p.Instructions = append(p.Instructions, Instruction{Opcode: opcode})

		default:
			sc := srcCount(opcode)
			if sc < 0 {
				return nil, &ParseError{Offset: pos - 1, Message: fmt.Sprintf("unknown opcode %d", opcode)}
			}
			dst := hasDst(opcode)
			needed := sc
			if dst {
				needed++
			}
			if opcode == OpTEXKILL {
				dst, needed = true, 1
			}
			if pos+uint32(needed) > n {
				return nil, &ParseError{Offset: pos, Message: "truncated instruction operands"}
			}
			if len(p.Instructions) >= MaxInstructions {
				return nil, &ParseError{Offset: pos, Message: fmt.Sprintf("too many instructions (>%d)", MaxInstructions)}
			}

			inst := Instruction{Opcode: opcode}
			if dst {
				dstToken := bytecode[pos]
				pos++
				inst.Dst = decodeDst(dstToken)
				if (dstToken>>13)&0x1 != 0 {
					if pos >= n {
						return nil, &ParseError{Offset: pos, Message: "truncated dst relative token"}
					}
					relToken := bytecode[pos]
					pos++
					inst.Dst.HasRelative = true
					inst.Dst.RelativeComponent = uint8((relToken >> 16) & 0x3)
				}
				if err := trackRegisterUsage(p, &inst.Dst, true); err != nil {
					return nil, &ParseError{Offset: pos, Message: err.Error()}
				}
				if p.IsVertexShader && inst.Dst.Type == RegRastOut && inst.Dst.Number == 0 {
					p.WritesPosition = true
				}
			}

			inst.NumSources = uint8(sc)
			for s := 0; s < sc; s++ {
				srcToken := bytecode[pos]
				pos++
				inst.Src[s] = decodeSrc(srcToken)
				if inst.Src[s].HasRelative {
					if pos >= n {
						return nil, &ParseError{Offset: pos, Message: "truncated src relative token"}
					}
					relToken := bytecode[pos]
					pos++
					inst.Src[s].RelativeComponent = uint8((relToken >> 16) & 0x3)
				}
				if err := trackRegisterUsage(p, &inst.Src[s], false); err != nil {
					return nil, &ParseError{Offset: pos, Message: err.Error()}
				}
			}
			p.Instructions = append(p.Instructions, inst)
		}
	}

	if !p.IsVertexShader && p.NumColorOutputs == 0 {
		p.NumColorOutputs = 1
	}
	if !sawEnd {
		return nil, &ParseError{Offset: pos, Message: "missing END opcode"}
	}
	return p, nil
}
