package machine

import (
	"fmt"

	"github.com/xnacly/purple-garden/lang/compiler"
	"github.com/xnacly/purple-garden/lang/errs"
	"github.com/xnacly/purple-garden/lang/hash"
	"github.com/xnacly/purple-garden/lang/value"
)

// BuiltinFunc is a runtime builtin: a Go function invoked by the BUILTIN
// opcode, receiving the argument values staged into r1..r[argc] and
// returning whatever lands back in r0, grounded in builtins.c's
// builtin_function signature.
type BuiltinFunc func(vm *Vm, args []value.Value) (value.Value, error)

// registerBuiltins installs the fixed set of runtime builtins into vm's
// builtin table, keyed the same way the compiler computes a BUILTIN
// opcode's argument: name hash & MaxBuiltinMask.
func registerBuiltins(vm *Vm) {
	register := func(name string, fn BuiltinFunc) {
		h := hash.String(name) & compiler.MaxBuiltinMask
		vm.builtinNames[h] = name
		vm.builtins[h] = fn
	}
	register("print", builtinPrint)
	register("println", builtinPrintln)
	register("len", builtinLen)
	register("type", builtinType)
	register("Some", builtinSome)
}

func builtinPrint(vm *Vm, args []value.Value) (value.Value, error) {
	fmt.Fprint(vm.Stdout, args[0].Debug())
	return value.NoneValue, nil
}

func builtinPrintln(vm *Vm, args []value.Value) (value.Value, error) {
	fmt.Fprintln(vm.Stdout, args[0].Debug())
	return value.NoneValue, nil
}

func builtinLen(vm *Vm, args []value.Value) (value.Value, error) {
	switch args[0].Tag {
	case value.Str:
		return value.Value{Tag: value.Int, Int: int64(len(args[0].Str.Data))}, nil
	case value.Array:
		return value.Value{Tag: value.Int, Int: int64(len(args[0].Array))}, nil
	default:
		return value.Value{}, errs.Runtimef("@len: unsupported type %s", args[0].Tag)
	}
}

func builtinType(vm *Vm, args []value.Value) (value.Value, error) {
	return value.Value{Tag: value.Str, Str: value.NewString(args[0].Tag.String())}, nil
}

func builtinSome(vm *Vm, args []value.Value) (value.Value, error) {
	return value.Some(args[0]), nil
}
