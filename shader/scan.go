package shader

import "fmt"

// MaxScanDwords bounds how far ScanBytecode looks for the END token before
// giving up, matching DX9MT_SHADER_MAX_SCAN_DWORDS: generous for SM3.0's
// 32768-instruction-slot ceiling without letting a garbage blob drive an
// unbounded scan.
const MaxScanDwords = 1 << 16

// endToken is the D3D9 shader bytecode END opcode.
const endToken = 0x0000FFFF

// ScanBytecode is the cheap validation CreateVertexShader/CreatePixelShader
// run before accepting a blob: check the version token's high 16 bits
// against the expected vertex/pixel tag, then scan for the END token within
// MaxScanDwords. It does not decode a single instruction -- that is Parse's
// job, run later at translation time. Matches dx9mt_shader_dword_count /
// dx9mt_copy_shader_blob: creation only confirms the blob is well-formed
// enough to copy and hash, not that every instruction in it is supported.
func ScanBytecode(bytecode []uint32, vertex bool) (dwordCount uint32, err error) {
	if len(bytecode) == 0 {
		return 0, fmt.Errorf("shader: empty bytecode")
	}

	version := bytecode[0]
	wantTag := uint32(0xFFFF0000)
	if vertex {
		wantTag = 0xFFFE0000
	}
	if version&0xFFFF0000 != wantTag {
		return 0, fmt.Errorf("shader: bad version token 0x%08x", version)
	}

	limit := MaxScanDwords
	if len(bytecode) < limit {
		limit = len(bytecode)
	}
	for i := 1; i < limit; i++ {
		if bytecode[i] == endToken {
			return uint32(i + 1), nil
		}
	}

	return 0, fmt.Errorf("shader: END token not found within %d dwords (version=0x%08x)", MaxScanDwords, version)
}
