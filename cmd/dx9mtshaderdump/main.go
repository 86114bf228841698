// Command dx9mtshaderdump parses a raw SM3.0 shader bytecode file and
// prints its decoded instruction stream and/or translated MSL source.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dx9mt/dx9mt/mslemit"
	"github.com/dx9mt/dx9mt/shader"
)

func main() {
	var (
		input   = flag.String("in", "", "path to a raw SM3.0 bytecode file (little-endian uint32 tokens)")
		mslOnly = flag.Bool("msl", false, "print only the translated MSL source")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("dx9mtshaderdump: -in is required")
	}

	bytecode, err := readBytecode(*input)
	if err != nil {
		log.Fatalf("dx9mtshaderdump: %v", err)
	}

	prog, err := shader.Parse(bytecode)
	if err != nil {
		log.Fatalf("dx9mtshaderdump: parse %s: %v", *input, err)
	}
	hash := shader.BytecodeHash(bytecode)

	var result mslemit.Result
	if prog.IsVertexShader {
		result, err = mslemit.EmitVertexShader(prog, hash)
	} else {
		result, err = mslemit.EmitPixelShader(prog, hash)
	}
	if err != nil {
		log.Fatalf("dx9mtshaderdump: emit MSL: %v", err)
	}

	if *mslOnly {
		fmt.Print(result.Source)
		return
	}

	kind := "pixel"
	if prog.IsVertexShader {
		kind = "vertex"
	}
	fmt.Printf("shader: %s model %d.%d, bytecode hash 0x%08x\n", kind, prog.MajorVersion, prog.MinorVersion, hash)
	fmt.Printf("instructions: %d, dcls: %d, defs: %d\n", len(prog.Instructions), len(prog.DCLs), len(prog.Defs))
	fmt.Printf("entry point: %s\n\n", result.EntryName)
	fmt.Print(result.Source)
}

// readBytecode reads a file of little-endian uint32 tokens, matching the
// raw token-stream layout original_source hands the D3D9 shader compiler.
func readBytecode(path string) ([]uint32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%s: length %d is not a multiple of 4", path, len(raw))
	}
	out := make([]uint32, len(raw)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
	}
	return out, nil
}
