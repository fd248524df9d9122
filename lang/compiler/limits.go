package compiler

// Fixed sizes for every direct-mapped table in the pipeline, mirroring the
// #defines in common.h. Every table keyed by a hash has a power-of-two
// size so that "hash & (size-1)" replaces a modulo; Registers is not a
// hashed table and is not a power of two.
const (
	// Registers is the size of the VM's register file, r0 (the
	// accumulator) through r126.
	Registers = 127

	// GlobalBucketSize is the number of buckets in the string intern
	// table. It is independent of len(Program.Globals): a bucket holds an
	// index into Globals, not the Value itself.
	GlobalBucketSize = 1 << 16
	GlobalBucketMask = GlobalBucketSize - 1

	// MaxBuiltinSize is shared by the compiler's compile-time-construct
	// table and the machine's runtime builtin dispatch table, and by the
	// function table: all three are keyed by "name hash & this mask".
	MaxBuiltinSize = 1024
	MaxBuiltinMask = MaxBuiltinSize - 1

	// VariableTableSize bounds a single Frame's variable table.
	VariableTableSize = 256
	VariableTableMask = VariableTableSize - 1

	// FrameFreeListSize is the number of preallocated Frames a Vm keeps
	// ready for reuse.
	FrameFreeListSize = 256
)
