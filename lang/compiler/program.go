package compiler

import "github.com/xnacly/purple-garden/lang/value"

// functionUnknown and functionPending are the two negative sentinels a
// Program.FunctionEntry slot can hold before it names a real bytecode
// offset: functionUnknown means the bucket has never been touched (the
// original implementation's single -1 sentinel), functionPending is this
// implementation's addition for -a/--aot-functions (see REDESIGN FLAGS):
// the slot is known to belong to some @function not yet compiled.
const (
	functionUnknown int32 = -1
	functionPending int32 = -2
)

// Program is everything lang/machine needs to execute a compiled source:
// the flat bytecode, the global constant pool, and the function table.
// FunctionEntry/FunctionName are parallel arrays indexed by "name hash &
// MaxBuiltinMask", mirroring the original's two separate
// function_hash_to_bytecode_index/function_names tables rather than a
// single map, so a collision is a same-bucket conflict exactly like every
// other fixed-size table in this pipeline.
type Program struct {
	Bytecode      []uint32
	Globals       []value.Value
	FunctionEntry [MaxBuiltinSize]int32
	FunctionName  [MaxBuiltinSize]string
}

func newProgram() *Program {
	p := &Program{
		// Globals[0..2] are the reserved False/True/None singletons every
		// LOADG 0/1/2 resolves to.
		Globals: []value.Value{value.FalseValue, value.TrueValue, value.NoneValue},
	}
	for i := range p.FunctionEntry {
		p.FunctionEntry[i] = functionUnknown
	}
	return p
}

// reserved global indices, named for readability at call sites.
const (
	globalFalse = 0
	globalTrue  = 1
	globalNone  = 2
)
