// Package machine executes the bytecode produced by lang/compiler: a
// flat-array dispatch loop over a single shared register file, grounded
// in vm.c's main interpreter loop. Unlike a tree-walking Thread, which
// walks a tree of Starlark call frames, a Vm here is one register file,
// one Frame chain and one flat uint32 program counter, matching the
// register-file execution model directly.
package machine

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/xnacly/purple-garden/lang/arena"
	"github.com/xnacly/purple-garden/lang/compiler"
	"github.com/xnacly/purple-garden/lang/errs"
	"github.com/xnacly/purple-garden/lang/value"
)

// Vm holds everything one Run needs: the compiled Program, the register
// file, the current Frame chain and the builtin dispatch table. A Vm is
// single-use: construct one per Program with New, call Run once.
type Vm struct {
	// Stdout is where the print/println builtins write. Defaults to
	// os.Stdout, overridable for tests the way Thread.Stdout is.
	Stdout io.Writer

	Program *compiler.Program
	Arena   arena.Allocator

	registers [compiler.Registers]value.Value
	frame     *Frame
	frames    *FreeList

	builtins     [compiler.MaxBuiltinSize]BuiltinFunc
	builtinNames [compiler.MaxBuiltinSize]string

	pc uint32
}

// New constructs a Vm ready to run prog. alloc is optional; pass nil to
// skip -m/--memory-usage accounting.
func New(prog *compiler.Program, alloc arena.Allocator) *Vm {
	vm := &Vm{
		Stdout:  os.Stdout,
		Program: prog,
		Arena:   alloc,
		frames:  newFreeList(),
	}
	vm.frame = vm.frames.pop()
	registerBuiltins(vm)
	return vm
}

func (vm *Vm) reg(i uint32) (value.Value, error) {
	if i >= compiler.Registers {
		return value.Value{}, errs.Runtimef("register r%d out of range", i)
	}
	return vm.registers[i], nil
}

func (vm *Vm) setReg(i uint32, v value.Value) error {
	if i >= compiler.Registers {
		return errs.Runtimef("register r%d out of range", i)
	}
	vm.registers[i] = v
	return nil
}

// Run executes Program from offset 0 until the bytecode is exhausted,
// returning whatever is left in r0. ctx is checked between instructions so
// a caller can cancel a runaway program the way Thread.RunProgram does via
// its context.
func (vm *Vm) Run(ctx context.Context) (value.Value, error) {
	argc := 0
	for int(vm.pc) < len(vm.Program.Bytecode) {
		select {
		case <-ctx.Done():
			return value.Value{}, errs.Runtimef("execution cancelled: %v", ctx.Err())
		default:
		}

		if int(vm.pc)+1 >= len(vm.Program.Bytecode) {
			return value.Value{}, errs.Runtimef("truncated instruction at offset %d", vm.pc)
		}
		op := compiler.Opcode(vm.Program.Bytecode[vm.pc])
		arg := vm.Program.Bytecode[vm.pc+1]
		vm.pc += 2

		switch op {
		case compiler.LOADG:
			if int(arg) >= len(vm.Program.Globals) {
				return value.Value{}, errs.Runtimef("LOADG: global index %d out of range", arg)
			}
			vm.registers[0] = vm.Program.Globals[arg]

		case compiler.LOAD:
			v, err := vm.reg(arg)
			if err != nil {
				return value.Value{}, err
			}
			vm.registers[0] = v

		case compiler.STORE:
			if err := vm.setReg(arg, vm.registers[0]); err != nil {
				return value.Value{}, err
			}

		case compiler.LOADV:
			vm.frame.set(arg, vm.registers[0])

		case compiler.VAR:
			v, ok := vm.frame.lookup(arg)
			if !ok {
				return value.Value{}, errs.Runtimef("undefined variable (bucket %d)", arg)
			}
			vm.registers[0] = v

		case compiler.ADD, compiler.SUB, compiler.MUL, compiler.DIV:
			left, err := vm.reg(arg)
			if err != nil {
				return value.Value{}, err
			}
			right := vm.registers[0]
			result, err := arith(op, left, right)
			if err != nil {
				return value.Value{}, errs.Runtimef("%s", err)
			}
			vm.registers[0] = result

		case compiler.EQ:
			left, err := vm.reg(arg)
			if err != nil {
				return value.Value{}, err
			}
			vm.registers[0] = value.Bool(value.Cmp(left, vm.registers[0]))

		case compiler.ARGS:
			argc = int(arg)

		case compiler.BUILTIN:
			if int(arg) >= compiler.MaxBuiltinSize || vm.builtins[arg] == nil {
				return value.Value{}, errs.Runtimef("call to an unmapped builtin (hash bucket %d)", arg)
			}
			args := make([]value.Value, argc)
			for i := 0; i < argc; i++ {
				args[i] = vm.registers[i+1]
			}
			result, err := vm.builtins[arg](vm, args)
			if err != nil {
				return value.Value{}, errs.Runtimef("%s", err)
			}
			vm.registers[0] = result

		case compiler.CALL:
			if int(arg) >= len(vm.Program.Bytecode) {
				return value.Value{}, errs.Runtimef("CALL: entry offset %d out of range", arg)
			}
			next := vm.frames.pop()
			next.saved = vm.registers
			next.Prev = vm.frame
			next.ReturnPC = vm.pc
			vm.frame = next
			vm.pc = arg

		case compiler.LEAVE:
			done := vm.frame
			ret := vm.registers[0]
			vm.registers = done.saved
			vm.registers[0] = ret
			vm.frame = done.Prev
			vm.pc = done.ReturnPC
			vm.frames.push(done)

		case compiler.JMP:
			vm.pc = arg

		case compiler.ASSERT:
			if !vm.registers[0].Truth() {
				return value.Value{}, errs.Runtimef("assertion failed: %s", vm.registers[0].Debug())
			}

		default:
			return value.Value{}, errs.Runtimef("unknown opcode %d at offset %d", op, vm.pc-2)
		}

		if vm.Arena != nil {
			vm.Arena.Request(0)
		}
	}
	return vm.registers[0], nil
}

func arith(op compiler.Opcode, left, right value.Value) (value.Value, error) {
	switch op {
	case compiler.ADD:
		return value.Add(left, right)
	case compiler.SUB:
		return value.Sub(left, right)
	case compiler.MUL:
		return value.Mul(left, right)
	case compiler.DIV:
		return value.Div(left, right)
	default:
		return value.Value{}, fmt.Errorf("not an arithmetic opcode: %s", op)
	}
}
