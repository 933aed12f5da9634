// Package wgsl2msl translates WGSL shaders to Metal Shading Language.
//
// Parsing, validation, and code generation are done by
// github.com/gogpu/naga; this package layers the engine's translation
// policy on top:
//
//   - the Metal entry-point name is derived from the input file stem
//     (mousecircle_overlay_vertex.wgsl becomes overlay_vertex),
//   - every uniform or storage buffer an entry point uses is assigned
//     the Metal buffer slot equal to its @binding index,
//   - the generated entry-point declarations are renamed accordingly.
//
// Example usage:
//
//	msl, err := wgsl2msl.Translate(source, "mousecircle_overlay_vertex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For one-shot file translation (the CLI path), use TranslateFile:
//
//	err := wgsl2msl.TranslateFile("shader_vertex.wgsl", "shader_vertex.msl")
package wgsl2msl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
)

// DefaultEntryPoint is the name the MSL backend gives a WGSL entry
// point declared as fn main: "main" is reserved in MSL, so the
// generator escapes it with a trailing underscore.
const DefaultEntryPoint = "main_"

// langVersion is the MSL version the engine targets.
var langVersion = msl.Version{Major: 1, Minor: 0}

// ErrInvalidFilename reports an input path whose file stem is empty,
// which leaves nothing to classify the entry point from.
var ErrInvalidFilename = errors.New("invalid filename")

// Translate converts WGSL source text to MSL. stem is the input file
// name without directory or extension; it selects the Metal
// entry-point name per the engine's shader naming convention. A stem
// matching no convention passes the generated source through with its
// default names.
func Translate(source, stem string) (string, error) {
	module, access, err := parseAndValidate(source)
	if err != nil {
		return "", err
	}

	bindings, err := BuildBindings(module, access)
	if err != nil {
		return "", err
	}

	options := msl.Options{
		LangVersion:                   langVersion,
		PerEntryPointMap:              bindings,
		ZeroInitializeWorkgroupMemory: true,
		ForceLoopBounding:             false,
		FakeMissingBindings:           false,
	}

	out, _, err := msl.Compile(module, options)
	if err != nil {
		return "", fmt.Errorf("MSL generation error: %w", err)
	}

	if name, ok := TargetEntryPoint(stem); ok {
		out = RenameEntryPoint(out, DefaultEntryPoint, name)
	}

	return out, nil
}

// TranslateFile reads a WGSL shader from inputPath and writes the
// translated result to outputPath. An output path ending in .spv
// produces a SPIR-V binary for the Vulkan backend; any other extension
// produces MSL. The output file is written only after the whole
// translation succeeds.
func TranslateFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}
	source := string(data)

	if strings.EqualFold(filepath.Ext(outputPath), ".spv") {
		spv, err := naga.CompileWithOptions(source, naga.DefaultOptions())
		if err != nil {
			return fmt.Errorf("SPIR-V generation error: %w", err)
		}
		if err := os.WriteFile(outputPath, spv, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
		return nil
	}

	stem, err := fileStem(inputPath)
	if err != nil {
		return err
	}

	out, err := Translate(source, stem)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return nil
}

// parseAndValidate runs the naga front end: WGSL source to a validated
// IR module. It also returns the declared access mode of each global
// variable by name; the IR drops access modes during lowering, but the
// binding map needs them to decide buffer mutability.
func parseAndValidate(source string) (*ir.Module, map[string]string, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, nil, fmt.Errorf("WGSL parse error: %w", err)
	}

	access := make(map[string]string, len(ast.GlobalVars))
	for _, v := range ast.GlobalVars {
		access[v.Name] = v.AccessMode
	}

	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, nil, fmt.Errorf("WGSL lowering error: %w", err)
	}

	problems, err := naga.Validate(module)
	if err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}
	if len(problems) > 0 {
		return nil, nil, fmt.Errorf("validation error: %w", &problems[0])
	}

	return module, access, nil
}

// fileStem returns path's base name without its extension.
func fileStem(path string) (string, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, path)
	}
	return stem, nil
}
