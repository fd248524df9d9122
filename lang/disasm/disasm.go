// Package disasm renders a compiler.Program as human-readable text, the Go
// equivalent of dis.c's disassembler: a listing of the global pool
// followed by a listing of the bytecode, each instruction alongside the
// offset it starts at.
package disasm

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"

	"github.com/xnacly/purple-garden/lang/compiler"
)

// labelIndex maps a bytecode offset to the symbolic label printed for it
// (currently only function entry points), built once per Disassemble call.
// A swiss.Map is overkill for the handful of functions a typical program
// defines, but it is the hash map this dependency family already brought
// in for exactly this "sparse offset -> name" shape, so it is used here
// rather than reaching for a plain Go map.
type labelIndex struct {
	m *swiss.Map[uint32, string]
}

func newLabelIndex(prog *compiler.Program) *labelIndex {
	li := &labelIndex{m: swiss.NewMap[uint32, string](8)}
	for h, entry := range prog.FunctionEntry {
		if entry >= 0 {
			name := prog.FunctionName[h]
			if name == "" {
				name = fmt.Sprintf("fn_%d", h)
			}
			li.m.Put(uint32(entry), name)
		}
	}
	return li
}

func (li *labelIndex) lookup(offset uint32) (string, bool) {
	return li.m.Get(offset)
}

// Disassemble renders prog's global pool and bytecode as text. LOADG lines
// are annotated with the referenced global's Debug form and CALL lines
// with the callee's recorded name, the two per-instruction annotations
// dis.c attaches beyond the bare opcode/argument pair.
func Disassemble(prog *compiler.Program) string {
	var b strings.Builder
	labels := newLabelIndex(prog)

	fmt.Fprintf(&b, "; globals (%d)\n", len(prog.Globals))
	for i, g := range prog.Globals {
		fmt.Fprintf(&b, "%04d %s\n", i, g.Debug())
	}

	fmt.Fprintf(&b, "\n; bytecode (%d words)\n", len(prog.Bytecode))
	for pc := 0; pc+1 < len(prog.Bytecode); pc += 2 {
		if name, ok := labels.lookup(uint32(pc)); ok {
			fmt.Fprintf(&b, "%s:\n", name)
		}
		op := compiler.Opcode(prog.Bytecode[pc])
		arg := prog.Bytecode[pc+1]
		fmt.Fprintf(&b, "%04d %-8s %d%s\n", pc, op, arg, annotation(prog, labels, op, arg))
	}

	return b.String()
}

// annotation returns the trailing "; ..." comment for instructions whose
// argument alone doesn't convey what it refers to: LOADG's global value
// and CALL's callee name.
func annotation(prog *compiler.Program, labels *labelIndex, op compiler.Opcode, arg uint32) string {
	switch op {
	case compiler.LOADG:
		if int(arg) < len(prog.Globals) {
			return fmt.Sprintf("\t; %s", prog.Globals[arg].Debug())
		}
	case compiler.CALL:
		if name, ok := labels.lookup(arg); ok {
			return fmt.Sprintf("\t; %s", name)
		}
	}
	return ""
}
