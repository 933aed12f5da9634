package wgsl2msl

import (
	"fmt"

	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
)

// maxBufferSlot is the highest buffer index msl.BindTarget can address.
const maxBufferSlot = 255

// BindingRangeError reports a @binding index that does not fit in a
// Metal buffer slot.
type BindingRangeError struct {
	EntryPoint string
	Global     string
	Binding    ir.ResourceBinding
}

func (e *BindingRangeError) Error() string {
	return fmt.Sprintf("entry point %s: global %q @group(%d) @binding(%d) exceeds Metal buffer slot %d",
		e.EntryPoint, e.Global, e.Binding.Group, e.Binding.Binding, maxBufferSlot)
}

// BuildBindings assigns a Metal buffer slot to every uniform or
// storage buffer each entry point uses, keyed by the buffer's (group,
// binding) pair. The slot is the @binding index itself; the engine
// relies on this identity mapping when it binds buffers at draw time.
// access maps global variable names to their declared WGSL access mode
// and decides whether a storage buffer is bound read-write.
//
// Globals an entry point never reaches, globals without an explicit
// binding, and non-buffer globals (textures, samplers, private data)
// get no slot and are left to the generator's default handling. A
// binding index above 255 is an error, never a truncation.
func BuildBindings(module *ir.Module, access map[string]string) (map[string]msl.EntryPointResources, error) {
	perEntryPoint := make(map[string]msl.EntryPointResources, len(module.EntryPoints))

	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		used := usedGlobals(module, ep.Function)

		resources := make(map[ir.ResourceBinding]msl.BindTarget)
		for g := range module.GlobalVariables {
			global := &module.GlobalVariables[g]
			if !used[ir.GlobalVariableHandle(g)] || global.Binding == nil {
				continue
			}

			var mutable bool
			switch global.Space {
			case ir.SpaceUniform:
				mutable = false
			case ir.SpaceStorage:
				mutable = storageWritable(access[global.Name])
			case ir.SpaceFunction, ir.SpacePrivate, ir.SpaceWorkGroup,
				ir.SpacePushConstant, ir.SpaceHandle:
				// Not a buffer resource; no slot emitted.
				continue
			default:
				continue
			}

			if global.Binding.Binding > maxBufferSlot {
				return nil, &BindingRangeError{
					EntryPoint: ep.Name,
					Global:     global.Name,
					Binding:    *global.Binding,
				}
			}

			slot := uint8(global.Binding.Binding)
			resources[*global.Binding] = msl.BindTarget{
				Buffer:  &slot,
				Mutable: mutable,
			}
		}

		// Entry-point names are unique within a validated module; a
		// duplicate would overwrite here and is the validator's problem.
		perEntryPoint[ep.Name] = msl.EntryPointResources{Resources: resources}
	}

	return perEntryPoint, nil
}

// storageWritable reports whether a declared storage access mode
// permits stores. WGSL defaults storage buffers to read-only.
func storageWritable(mode string) bool {
	switch mode {
	case "write", "read_write":
		return true
	default:
		return false
	}
}

// usedGlobals collects every global variable reachable from fn,
// through its own expressions and through the functions it calls.
// It stands in for the per-entry-point usage info Rust naga's
// validator returns; the Go port does not expose one.
func usedGlobals(module *ir.Module, fn ir.FunctionHandle) map[ir.GlobalVariableHandle]bool {
	used := make(map[ir.GlobalVariableHandle]bool)
	visited := make(map[ir.FunctionHandle]bool)
	collectGlobals(module, fn, used, visited)
	return used
}

func collectGlobals(module *ir.Module, handle ir.FunctionHandle, used map[ir.GlobalVariableHandle]bool, visited map[ir.FunctionHandle]bool) {
	if visited[handle] || int(handle) >= len(module.Functions) {
		return
	}
	visited[handle] = true
	fn := &module.Functions[handle]

	for _, expr := range fn.Expressions {
		if g, ok := expr.Kind.(ir.ExprGlobalVariable); ok {
			used[g.Variable] = true
		}
	}

	collectCallees(module, fn.Body, used, visited)
}

// collectCallees walks a statement tree for calls and recurses into
// the called functions.
func collectCallees(module *ir.Module, block ir.Block, used map[ir.GlobalVariableHandle]bool, visited map[ir.FunctionHandle]bool) {
	for _, stmt := range block {
		switch s := stmt.Kind.(type) {
		case ir.StmtBlock:
			collectCallees(module, s.Block, used, visited)
		case ir.StmtIf:
			collectCallees(module, s.Accept, used, visited)
			collectCallees(module, s.Reject, used, visited)
		case ir.StmtSwitch:
			for _, c := range s.Cases {
				collectCallees(module, c.Body, used, visited)
			}
		case ir.StmtLoop:
			collectCallees(module, s.Body, used, visited)
			collectCallees(module, s.Continuing, used, visited)
		case ir.StmtCall:
			collectGlobals(module, s.Function, used, visited)
		}
	}
}
