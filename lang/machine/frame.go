package machine

import (
	"github.com/xnacly/purple-garden/lang/compiler"
	"github.com/xnacly/purple-garden/lang/value"
)

// Frame is a single call's variable table plus enough bookkeeping to
// return to the caller: the previous Frame in the call chain and the
// bytecode offset execution resumes at once this Frame's LEAVE runs.
// Frame.Prev forms a chain VAR walks outward through when a name isn't
// bound locally, matching a dynamic-scope choice to make every
// @let-bound and function-parameter name visible to nested calls rather
// than lexically scoped to one function body.
type Frame struct {
	vars     [compiler.VariableTableSize]variableSlot
	Prev     *Frame
	ReturnPC uint32

	// saved is the caller's register file, snapshotted by CALL and
	// restored (except r0, the callee's return value) by this Frame's
	// LEAVE. The register file is a single array shared by the whole
	// machine, and a function body is compiled once but called from many
	// sites whose own live scratch registers the compiler has no way to
	// know about in a single pass; saving and restoring across the call
	// boundary is what makes that safe without it.
	saved [compiler.Registers]value.Value
}

type variableSlot struct {
	used bool
	val  value.Value
}

// reset clears vars (keeping the backing array's capacity) so a Frame
// pulled from the FreeList never leaks a previous call's bindings; this is
// the fix for a stale-binding bug: without it, a function reusing a freed
// Frame would see its predecessor's locals still sitting in the table.
func (f *Frame) reset() {
	for i := range f.vars {
		f.vars[i] = variableSlot{}
	}
	f.saved = [compiler.Registers]value.Value{}
	f.Prev = nil
	f.ReturnPC = 0
}

func (f *Frame) set(bucket uint32, v value.Value) {
	f.vars[bucket&compiler.VariableTableMask] = variableSlot{used: true, val: v}
}

// lookup searches f and then f.Prev, f.Prev.Prev, ... for bucket, stopping
// at the first frame where it is bound.
func (f *Frame) lookup(bucket uint32) (value.Value, bool) {
	for fr := f; fr != nil; fr = fr.Prev {
		if slot := fr.vars[bucket&compiler.VariableTableMask]; slot.used {
			return slot.val, true
		}
	}
	return value.Value{}, false
}
