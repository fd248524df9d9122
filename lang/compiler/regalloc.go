package compiler

import "github.com/xnacly/purple-garden/lang/errs"

// registerAllocator hands out scratch registers for Bin operand staging
// (the left operand must survive evaluation of the right operand, which
// may itself contain a call) with LIFO discipline, the same invariant
// cc.c's register_allocate/register_free track with a single cursor.
//
// It allocates from the TOP of the register file downward (r126, r125,
// ...) rather than from r1 upward, deliberately disjoint from the fixed
// r1..rN range every CALL/BUILTIN argument list is staged into (see
// compiler.go's compileCallArgs). A Bin's staged left operand and a
// nested call's argument registers can otherwise be live at the same
// time; keeping the two ranges on opposite ends of the file means they
// only collide in the genuinely-out-of-registers case, which count
// already reports as a CompileError.
type registerAllocator struct {
	count int
}

func newRegisterAllocator() registerAllocator {
	return registerAllocator{}
}

// ceiling is the lowest register index currently reserved by a live
// scratch allocation; every call-argument register (1..N) must stay below
// it.
func (ra *registerAllocator) ceiling() int {
	return Registers - ra.count
}

// alloc returns the next free scratch register or a CompileError if the
// register file is saturated.
func (ra *registerAllocator) alloc() (int, error) {
	if ra.count >= Registers-1 {
		return 0, errs.Compilef("cc: out of registers (all %d in use)", Registers)
	}
	ra.count++
	return Registers - ra.count, nil
}

// free releases r, which must be the register most recently returned by
// alloc and not yet freed; violating the LIFO discipline is a compiler
// bug, not a user-facing error, so it panics rather than returning an
// *errs.Error.
func (ra *registerAllocator) free(r int) {
	if r != Registers-ra.count {
		panic("compiler: register free/alloc discipline violated")
	}
	ra.count--
}
