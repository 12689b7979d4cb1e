package wgpu

import (
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/starmap/shader"
)

// compilePass compiles the desktop WGSL module of a pass to SPIR-V
// words. naga emits little-endian bytes; SPIR-V consumers want 32-bit
// words.
func compilePass(p shader.Pass) ([]uint32, error) {
	src, err := shader.WGSL(p)
	if err != nil {
		return nil, err
	}
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile %v/%v shader: %w", p, shader.Desktop, err)
	}
	if len(spirv)%4 != 0 {
		return nil, fmt.Errorf("compile %v/%v shader: %d bytes is not a whole number of SPIR-V words", p, shader.Desktop, len(spirv))
	}
	return spirvWords(spirv), nil
}

func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
