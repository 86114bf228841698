// Package shader parses Direct3D9 Shader Model 3.0 token-stream bytecode
// into a typed instruction IR, mirroring original_source's
// d3d9_shader_parse.c/.h field-for-field so the bit-level semantics (and
// therefore the FNV-1a bytecode hash used as a shader-cache key) match
// exactly.
//
// The three-stage shape here -- bytecode bytes in, a typed Program IR out,
// a separate package (mslemit) turning that IR into target source -- follows
// the front-end/IR/back-end separation github.com/gogpu/naga uses for its
// own shader cross-compilation, even though this parser is hand-written
// against the much narrower SM3.0 token format rather than naga's general
// shader IR.
package shader

// Bounds on IR table sizes, matching DX9MT_SM_MAX_*.
const (
	MaxInstructions = 512
	MaxSources      = 4
	MaxDCL          = 48
	MaxDef          = 64
)

// RegType is a D3D9 shader register type (dx9mt_sm_reg_type).
type RegType uint16

const (
	RegTemp       RegType = 0
	RegInput      RegType = 1
	RegConst      RegType = 2
	RegAddr       RegType = 3
	RegRastOut    RegType = 4
	RegAttrOut    RegType = 5
	RegOutput     RegType = 6
	RegConstInt   RegType = 7
	RegColorOut   RegType = 8
	RegDepthOut   RegType = 9
	RegSampler    RegType = 10
	RegConst2     RegType = 11
	RegConst3     RegType = 12
	RegConst4     RegType = 13
	RegConstBool  RegType = 14
	RegLoop       RegType = 15
	RegTempFloat16 RegType = 16
	RegMiscType   RegType = 17
	RegLabel      RegType = 18
	RegPredicate  RegType = 19
)

// Opcode is a D3D9 shader instruction opcode (dx9mt_sm_opcode).
type Opcode uint16

const (
	OpNOP    Opcode = 0
	OpMOV    Opcode = 1
	OpADD    Opcode = 2
	OpSUB    Opcode = 3
	OpMAD    Opcode = 4
	OpMUL    Opcode = 5
	OpRCP    Opcode = 6
	OpRSQ    Opcode = 7
	OpDP3    Opcode = 8
	OpDP4    Opcode = 9
	OpMIN    Opcode = 10
	OpMAX    Opcode = 11
	OpSLT    Opcode = 12
	OpSGE    Opcode = 13
	OpEXP    Opcode = 14
	OpLOG    Opcode = 15
	OpLIT    Opcode = 16
	OpDST    Opcode = 17
	OpLRP    Opcode = 18
	OpFRC    Opcode = 19
	OpM4x4   Opcode = 20
	OpM4x3   Opcode = 21
	OpM3x4   Opcode = 22
	OpM3x3   Opcode = 23
	OpM3x2   Opcode = 24
	OpDCL    Opcode = 31
	OpPOW    Opcode = 32
	OpCRS    Opcode = 33
	OpSGN    Opcode = 34
	OpABS    Opcode = 35
	OpNRM    Opcode = 36
	OpSINCOS Opcode = 37
	OpREP    Opcode = 38
	OpENDREP Opcode = 39
	OpIF     Opcode = 40
	OpIFC    Opcode = 41
	OpELSE   Opcode = 42
	OpENDIF  Opcode = 43
	OpBREAK  Opcode = 44
	OpBREAKC Opcode = 45
	OpMOVA   Opcode = 46
	OpTEXKILL Opcode = 65
	OpTEXLD  Opcode = 66
	OpTEXLDL Opcode = 95
	OpDEF    Opcode = 81
	OpDEFI   Opcode = 48
	OpDEFB   Opcode = 47
	OpCMP    Opcode = 88
	OpDP2ADD Opcode = 90
	OpEND    Opcode = 0xFFFF
)

// SrcMod is a source register modifier (dx9mt_sm_src_mod).
type SrcMod uint8

const (
	SrcModNone      SrcMod = 0
	SrcModNegate    SrcMod = 1
	SrcModBias      SrcMod = 2
	SrcModBiasNeg   SrcMod = 3
	SrcModSign      SrcMod = 4
	SrcModSignNeg   SrcMod = 5
	SrcModComplement SrcMod = 6
	SrcModX2        SrcMod = 7
	SrcModX2Neg     SrcMod = 8
	SrcModDZ        SrcMod = 9
	SrcModDW        SrcMod = 10
	SrcModAbs       SrcMod = 11
	SrcModAbsNeg    SrcMod = 12
	SrcModNot       SrcMod = 13
)

// ResultMod is a destination register modifier (dx9mt_sm_result_mod),
// bitwise-combinable.
type ResultMod uint8

const (
	ResultModNone     ResultMod = 0
	ResultModSaturate ResultMod = 1
	ResultModPP       ResultMod = 2
	ResultModCentroid ResultMod = 4
)

// SamplerType is a dcl instruction's sampler kind (dx9mt_sm_sampler_type).
type SamplerType uint16

const (
	SamplerNone   SamplerType = 0
	Sampler2D     SamplerType = 2
	SamplerCube   SamplerType = 3
	SamplerVolume SamplerType = 4
)

// DCLUsage is a dcl instruction's semantic usage (dx9mt_sm_dcl_usage).
type DCLUsage uint8

const (
	UsagePosition     DCLUsage = 0
	UsageBlendWeight  DCLUsage = 1
	UsageBlendIndices DCLUsage = 2
	UsageNormal       DCLUsage = 3
	UsagePSize        DCLUsage = 4
	UsageTexCoord     DCLUsage = 5
	UsageTangent      DCLUsage = 6
	UsageBinormal     DCLUsage = 7
	UsageTessFactor   DCLUsage = 8
	UsagePositionT    DCLUsage = 9
	UsageColor        DCLUsage = 10
	UsageFog          DCLUsage = 11
	UsageDepth        DCLUsage = 12
	UsageSample       DCLUsage = 13
)

// Register is a decoded source or destination register operand.
type Register struct {
	Type               RegType
	Number             uint16
	Swizzle            [4]uint8 // 0=x,1=y,2=z,3=w, meaningful for source operands
	WriteMask          uint8    // bit0=x..bit3=w, meaningful for destination operands
	SrcModifier        SrcMod
	ResultModifier     ResultMod
	HasRelative        bool
	RelativeComponent  uint8 // which component of a0 indexes this register, when HasRelative
}

// Instruction is one decoded shader instruction.
type Instruction struct {
	Opcode     Opcode
	NumSources uint8
	Comparison uint8 // for IFC/BREAKC
	Dst        Register
	Src        [MaxSources]Register
}

// DCLEntry is a decoded `dcl` declaration.
type DCLEntry struct {
	Usage       DCLUsage
	UsageIndex  uint8
	RegType     RegType
	WriteMask   uint8
	RegNumber   uint16
	SamplerType SamplerType
}

// DefEntry is a decoded constant-definition instruction (def/defi/defb).
type DefEntry struct {
	RegType   RegType
	RegNumber uint16
	Float     [4]float32
	Int       [4]int32
	Bool      uint32
}

// Program is the parsed shader IR, mirroring dx9mt_sm_program.
type Program struct {
	IsVertexShader bool
	MajorVersion   uint8
	MinorVersion   uint8

	Instructions []Instruction
	DCLs         []DCLEntry
	Defs         []DefEntry

	MaxTempReg          uint32
	MaxConstReg         uint32
	SamplerMask         uint32
	InputMask           uint32
	OutputMask          uint32
	TexCoordOutputMask  uint32
	ColorOutputMask     uint32
	WritesPosition      bool
	WritesFog           bool
	WritesDepth         bool
	NumColorOutputs     int
}
