package wgsl2msl

import "strings"

// Shader file stems encode which engine entry point the shader
// implements: <scene>_vertex and <scene>_fragment for the scene pass,
// with an _overlay_ marker for the 2D overlay pass variants.
const (
	vertexSuffix   = "_vertex"
	fragmentSuffix = "_fragment"
	overlayMarker  = "_overlay_"
)

// entryPointOutputSuffix is appended to the escaped entry-point name
// by the MSL backend when it names the output struct, so a main entry
// point returns main__Output.
const entryPointOutputSuffix = "_Output"

// TargetEntryPoint maps a shader file stem to the entry-point name the
// engine binds at pipeline creation time. The second result is false
// when the stem matches no convention and the generated source should
// keep its default names.
func TargetEntryPoint(stem string) (string, bool) {
	switch {
	case strings.HasSuffix(stem, vertexSuffix):
		if strings.Contains(stem, overlayMarker) {
			return "overlay_vertex", true
		}
		return "main_vertex", true
	case strings.HasSuffix(stem, fragmentSuffix):
		if strings.Contains(stem, overlayMarker) {
			return "overlay_fragment", true
		}
		return "main_fragment", true
	default:
		return "", false
	}
}

// RenameEntryPoint rewrites the generated MSL entry-point declarations
// from oldName to newName. The backend emits exactly two declaration
// shapes for a struct-returning main entry point,
// "vertex main__Output main_(" and "fragment main__Output main_(",
// with the struct named after the escaped entry-point name, so the
// rewrite is keyed on those exact strings rather than re-parsing the
// output. The struct keeps its name; only the function is renamed.
// Both substitutions are attempted unconditionally; text containing
// neither shape is returned unchanged.
func RenameEntryPoint(source, oldName, newName string) string {
	out := source
	structName := oldName + entryPointOutputSuffix
	for _, stage := range []string{"vertex", "fragment"} {
		pattern := stage + " " + structName + " " + oldName + "("
		replacement := stage + " " + structName + " " + newName + "("
		out = strings.ReplaceAll(out, pattern, replacement)
	}
	return out
}
