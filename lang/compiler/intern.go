package compiler

import (
	"fmt"

	"github.com/xnacly/purple-garden/lang/hash"
)

// form tags a MaxBuiltinSize bucket as one of the five compile-time
// constructs cc.c recognizes before ever considering a runtime builtin
// call: @let, @function, @assert, @None and @if. Every other "@name" is
// left to the machine's runtime builtin table (see compile's Builtin
// case), a deliberate compiler/machine decoupling: a call to an unmapped
// builtin classes as a RuntimeError, not a CompileError, so the compiler
// never needs to know which runtime builtins a given machine has
// registered.
type form int8

const (
	formNone form = iota
	formLet
	formFunction
	formAssert
	formNoneConst
	formIf
)

// compileTimeForms is the fixed-size direct map from "name hash &
// MaxBuiltinMask" to a form, populated once at package init from the five
// names above. A collision between any two of these five fixed,
// known-in-advance names is a programming error, not a user-facing one,
// so it panics at init rather than surfacing as a CompileError.
var compileTimeForms [MaxBuiltinSize]form

func init() {
	register := func(name string, f form) {
		h := hash.String(name) & MaxBuiltinMask
		if compileTimeForms[h] != formNone {
			panic(fmt.Sprintf("compiler: compile-time builtin hash collision at bucket %d", h))
		}
		compileTimeForms[h] = f
	}
	register("let", formLet)
	register("function", formFunction)
	register("assert", formAssert)
	register("None", formNoneConst)
	register("if", formIf)
}

// globalBuckets is the string intern table: a fixed-size direct map from
// "hash & GlobalBucketMask" to an index into Program.Globals, with no
// chaining (a colliding second string simply gets its own, unshared
// Globals slot — a known, accepted imprecision rather than a bug).
type globalBuckets struct {
	slot [GlobalBucketSize]int32 // -1 = vacant, else Globals index
}

func newGlobalBuckets() *globalBuckets {
	b := &globalBuckets{}
	for i := range b.slot {
		b.slot[i] = -1
	}
	return b
}

// lookup returns the Globals index already interned at h's bucket, if any.
func (b *globalBuckets) lookup(h uint64) (int32, bool) {
	bucket := h & GlobalBucketMask
	idx := b.slot[bucket]
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

func (b *globalBuckets) set(h uint64, idx int32) {
	b.slot[h&GlobalBucketMask] = idx
}
