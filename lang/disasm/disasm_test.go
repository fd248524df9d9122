package disasm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xnacly/purple-garden/lang/compiler"
	"github.com/xnacly/purple-garden/lang/parser"
)

func TestDisassembleListsGlobalsAndBytecode(t *testing.T) {
	nodes, err := parser.Parse("(- 5 3)")
	require.NoError(t, err)
	prog, err := compiler.Compile(nodes, nil)
	require.NoError(t, err)

	out := Disassemble(prog)
	require.Contains(t, out, "; globals")
	require.Contains(t, out, "; bytecode")
	require.Contains(t, out, "SUB")
}

func TestDisassembleLabelsFunctionEntry(t *testing.T) {
	nodes, err := parser.Parse("(@function addOne [x] (+ x 1))")
	require.NoError(t, err)
	prog, err := compiler.Compile(nodes, nil)
	require.NoError(t, err)

	out := Disassemble(prog)
	require.Contains(t, out, "addOne:")
}

func TestDisassembleAnnotatesLoadgAndCall(t *testing.T) {
	nodes, err := parser.Parse(`(@function addOne [x] (+ x 1)) (addOne "hi")`)
	require.NoError(t, err)
	prog, err := compiler.Compile(nodes, nil)
	require.NoError(t, err)

	out := Disassemble(prog)
	require.Contains(t, out, "LOADG")
	require.Contains(t, out, "; Str(`hi`)")
	require.Contains(t, out, "CALL")
	require.Contains(t, out, "; addOne")
}
