package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xnacly/purple-garden/lang/hash"
	"github.com/xnacly/purple-garden/lang/parser"
	"github.com/xnacly/purple-garden/lang/value"
)

func compileSrc(t *testing.T, src string, opts ...Option) *Program {
	t.Helper()
	nodes, err := parser.Parse(src)
	require.NoError(t, err)
	prog, err := Compile(nodes, nil, opts...)
	require.NoError(t, err)
	return prog
}

func TestCompileIntAtomLoadsGlobal(t *testing.T) {
	prog := compileSrc(t, "25")
	require.Equal(t, []uint32{uint32(LOADG), uint32(len(prog.Globals) - 1)}, prog.Bytecode)
	require.Equal(t, int64(25), prog.Globals[len(prog.Globals)-1].Int)
}

func TestCompileBinArithmeticOperandOrder(t *testing.T) {
	// (- 5 3): left (5) is stored, right (3) computed into r0, then SUB
	// leaves r[k] - r0 in r0 — 5 - 3 == 2.
	prog := compileSrc(t, "(- 5 3)")
	require.Equal(t, LOADG, Opcode(prog.Bytecode[0]))
	require.Equal(t, STORE, Opcode(prog.Bytecode[2]))
	require.Equal(t, LOADG, Opcode(prog.Bytecode[4]))
	require.Equal(t, SUB, Opcode(prog.Bytecode[6]))
}

func TestCompileStringInterning(t *testing.T) {
	prog := compileSrc(t, `"hi" "hi"`)
	first := prog.Bytecode[1]
	second := prog.Bytecode[3]
	require.Equal(t, first, second, "identical string literals should share a Globals slot")
}

func TestCompileEmptyArray(t *testing.T) {
	prog := compileSrc(t, "[]")
	idx := prog.Bytecode[1]
	require.Equal(t, value.Array, prog.Globals[idx].Tag)
	require.Empty(t, prog.Globals[idx].Array)
}

func TestCompileNonEmptyArrayIsCompileError(t *testing.T) {
	nodes, err := parser.Parse("[1 2]")
	require.NoError(t, err)
	_, err = Compile(nodes, nil)
	require.Error(t, err)
}

func TestCompileAssert(t *testing.T) {
	prog := compileSrc(t, "(@assert true)")
	require.Equal(t, LOADG, Opcode(prog.Bytecode[0]))
	require.Equal(t, ASSERT, Opcode(prog.Bytecode[2]))
}

func TestCompileLet(t *testing.T) {
	prog := compileSrc(t, "(@let age 25)")
	require.Equal(t, LOADG, Opcode(prog.Bytecode[0]))
	require.Equal(t, LOADV, Opcode(prog.Bytecode[2]))
}

func TestCompileNoneConst(t *testing.T) {
	prog := compileSrc(t, "(@None)")
	require.Equal(t, []uint32{uint32(LOADG), globalNone}, prog.Bytecode)
}

func TestCompileIfIsCompileError(t *testing.T) {
	nodes, err := parser.Parse("(@if true)")
	require.NoError(t, err)
	_, err = Compile(nodes, nil)
	require.Error(t, err)
}

func TestCompileFunctionAndCall(t *testing.T) {
	prog := compileSrc(t, "(@function add25 [arg] (+ arg 25)) (add25 17)")
	require.NotEqual(t, int32(-1), prog.FunctionEntry[hash.String("add25")&MaxBuiltinMask], "sanity: add25's bucket must have been claimed")

	var found bool
	for _, e := range prog.FunctionEntry {
		if e >= 0 {
			found = true
		}
	}
	require.True(t, found, "add25's entry offset should be recorded")

	// the opening JMP must skip clean past the function body, which always
	// ends in a LEAVE.
	require.Equal(t, JMP, Opcode(prog.Bytecode[0]))
	jmpTarget := prog.Bytecode[1]
	require.Less(t, int(jmpTarget), len(prog.Bytecode))
	require.Equal(t, LEAVE, Opcode(prog.Bytecode[jmpTarget-2]), "the function body must end in LEAVE right before the jump target")
}

func TestCompileCallToUndefinedFunctionErrors(t *testing.T) {
	nodes, err := parser.Parse("(ghost 1)")
	require.NoError(t, err)
	_, err = Compile(nodes, nil)
	require.Error(t, err)
}

func TestCompileAOTAllowsForwardReference(t *testing.T) {
	prog := compileSrc(t, "(add25 17) (@function add25 [arg] (+ arg 25))", WithAOTFunctions())
	// LOADG, STORE, ARGS, then the CALL at bytecode[6:8].
	require.Equal(t, CALL, Opcode(prog.Bytecode[6]))
	patchedEntry := prog.Bytecode[7]

	var recordedEntry int32 = -1
	for _, e := range prog.FunctionEntry {
		if e >= 0 {
			recordedEntry = e
		}
	}
	require.EqualValues(t, recordedEntry, patchedEntry, "the forward CALL must be back-patched to add25's real entry offset")
}

func TestCompileFunctionRedefinitionErrors(t *testing.T) {
	nodes, err := parser.Parse("(@function f [] 1) (@function f [] 2)")
	require.NoError(t, err)
	_, err = Compile(nodes, nil)
	require.Error(t, err)
}

func TestCompileLenArityChecked(t *testing.T) {
	nodes, err := parser.Parse(`(@len "a" "b")`)
	require.NoError(t, err)
	_, err = Compile(nodes, nil)
	require.Error(t, err)
}

func TestCompileUnknownBuiltinIsNotACompileError(t *testing.T) {
	// An unmapped builtin is a RuntimeError, not a CompileError: the
	// compiler emits BUILTIN unconditionally and lets lang/machine decide
	// whether the hash resolves to a registered function.
	prog := compileSrc(t, "(@totallyMadeUp)")
	require.Equal(t, BUILTIN, Opcode(prog.Bytecode[len(prog.Bytecode)-2]))
}
