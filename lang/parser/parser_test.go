package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xnacly/purple-garden/lang/ast"
	"github.com/xnacly/purple-garden/lang/token"
)

func TestParseAtom(t *testing.T) {
	nodes, err := Parse("3.1415")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, ast.Atom, nodes[0].Kind)
	require.Equal(t, token.FLOAT, nodes[0].Token.Tok)
}

func TestParseBin(t *testing.T) {
	nodes, err := Parse("(+ 2 2)")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	n := nodes[0]
	require.Equal(t, ast.Bin, n.Kind)
	require.Equal(t, token.PLUS, n.Token.Tok)
	require.Len(t, n.Children, 2)
}

func TestParseCall(t *testing.T) {
	nodes, err := Parse("(ret 25)")
	require.NoError(t, err)
	n := nodes[0]
	require.Equal(t, ast.Call, n.Kind)
	require.Equal(t, "ret", n.Token.Str)
	require.Len(t, n.Children, 1)
}

func TestParseBuiltinFunction(t *testing.T) {
	nodes, err := Parse("(@function add25 [arg] (+ arg 25))")
	require.NoError(t, err)
	n := nodes[0]
	require.Equal(t, ast.Builtin, n.Kind)
	require.Equal(t, "function", n.Token.Str)
	require.Len(t, n.Children, 3)
	require.Equal(t, ast.Ident, n.Children[0].Kind)
	require.Equal(t, ast.Array, n.Children[1].Kind)
	require.Len(t, n.Children[1].Children, 1)
	require.Equal(t, ast.Bin, n.Children[2].Kind)
}

func TestParseLet(t *testing.T) {
	nodes, err := Parse("(@let age 25)")
	require.NoError(t, err)
	n := nodes[0]
	require.Equal(t, ast.Builtin, n.Kind)
	require.Equal(t, "let", n.Token.Str)
	require.Len(t, n.Children, 2)
	require.Equal(t, ast.Ident, n.Children[0].Kind)
}

func TestParseEmptyArray(t *testing.T) {
	nodes, err := Parse("[]")
	require.NoError(t, err)
	require.Equal(t, ast.Array, nodes[0].Kind)
	require.Empty(t, nodes[0].Children)
}

func TestParseMultipleTopLevelForms(t *testing.T) {
	nodes, err := Parse(`(@len "hello")(@len "hello")`)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
}

func TestParseUnterminatedListErrors(t *testing.T) {
	_, err := Parse("(+ 1 2")
	require.Error(t, err)
}

func TestParseInvalidListHeadErrors(t *testing.T) {
	_, err := Parse(`("string-head" 1)`)
	require.Error(t, err)
}
