package machine

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xnacly/purple-garden/lang/compiler"
	"github.com/xnacly/purple-garden/lang/parser"
	"github.com/xnacly/purple-garden/lang/value"
)

func run(t *testing.T, src string) (value.Value, *Vm) {
	t.Helper()
	nodes, err := parser.Parse(src)
	require.NoError(t, err)
	prog, err := compiler.Compile(nodes, nil)
	require.NoError(t, err)
	vm := New(prog, nil)
	var out bytes.Buffer
	vm.Stdout = &out
	result, err := vm.Run(context.Background())
	require.NoError(t, err)
	return result, vm
}

func TestArithmeticOperandOrder(t *testing.T) {
	// (- 5 3) == 2 and (/ 6 2) == 3, not the naive
	// "accumulator holds the first-seen operand" reading.
	result, _ := run(t, "(- 5 3)")
	require.Equal(t, value.Int, result.Tag)
	require.EqualValues(t, 2, result.Int)

	result, _ = run(t, "(/ 6 2)")
	require.EqualValues(t, 3, result.Int)
}

func TestNestedBinExpression(t *testing.T) {
	// (+ 5 (* 2 3)) exercises a live scratch register surviving a nested
	// Bin evaluation that itself allocates a scratch register.
	result, _ := run(t, "(+ 5 (* 2 3))")
	require.EqualValues(t, 11, result.Int)
}

func TestLetAndVar(t *testing.T) {
	result, _ := run(t, "(@let age 25) age")
	require.EqualValues(t, 25, result.Int)
}

func TestAssertPasses(t *testing.T) {
	require.NotPanics(t, func() {
		run(t, "(@assert true)")
	})
}

func TestAssertFails(t *testing.T) {
	nodes, err := parser.Parse("(@assert false)")
	require.NoError(t, err)
	prog, err := compiler.Compile(nodes, nil)
	require.NoError(t, err)
	vm := New(prog, nil)
	_, err = vm.Run(context.Background())
	require.Error(t, err)
}

func TestFunctionCallSurvivesArgStaging(t *testing.T) {
	// the second operand of the outer + is itself a call; the call's
	// argument staging at r1 must not clobber the outer Bin's staged left
	// operand (see regalloc.go).
	result, _ := run(t, "(@function addOne [x] (+ x 1)) (+ 10 (addOne 5))")
	require.EqualValues(t, 16, result.Int)
}

func TestFunctionCallWithMultipleArgs(t *testing.T) {
	result, _ := run(t, "(@function add [a b] (+ a b)) (add 3 4)")
	require.EqualValues(t, 7, result.Int)
}

func TestPrintBuiltinWritesToStdout(t *testing.T) {
	_, vm := run(t, `(@println "hi")`)
	require.Contains(t, vm.Stdout.(*bytes.Buffer).String(), "hi")
}

func TestLenBuiltin(t *testing.T) {
	result, _ := run(t, `(@len "hello")`)
	require.EqualValues(t, 5, result.Int)
}

func TestSomeBuiltinNeverEqualsBareValue(t *testing.T) {
	result, _ := run(t, `(@Some 5)`)
	require.True(t, result.IsSome)
	require.False(t, value.Cmp(result, value.Value{Tag: value.Int, Int: 5}))
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	nodes, err := parser.Parse("ghost")
	require.NoError(t, err)
	prog, err := compiler.Compile(nodes, nil)
	require.NoError(t, err)
	vm := New(prog, nil)
	_, err = vm.Run(context.Background())
	require.Error(t, err)
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	nodes, err := parser.Parse("(/ 1 0)")
	require.NoError(t, err)
	prog, err := compiler.Compile(nodes, nil)
	require.NoError(t, err)
	vm := New(prog, nil)
	_, err = vm.Run(context.Background())
	require.Error(t, err)
}
