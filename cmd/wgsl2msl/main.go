// Command wgsl2msl translates WGSL shaders for the engine's GPU
// backends.
//
// Usage:
//
//	wgsl2msl <input.wgsl> <output.msl>
//
// The output extension selects the target: .spv produces a SPIR-V
// binary for the Vulkan backend, anything else produces Metal Shading
// Language. The input file name selects the Metal entry-point name:
// *_vertex.wgsl becomes main_vertex and *_overlay_vertex.wgsl becomes
// overlay_vertex, likewise for fragment shaders. Other names keep the
// generator's default entry-point names.
package main

import (
	"fmt"
	"os"

	"github.com/gogpu/wgsl2msl"
)

func main() {
	args := os.Args
	if len(args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <input.wgsl> <output.msl>\n", args[0])
		os.Exit(1)
	}

	if err := wgsl2msl.TranslateFile(args[1], args[2]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
