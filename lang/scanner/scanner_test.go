package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xnacly/purple-garden/lang/token"
)

func toks(t *testing.T, src string) []token.Value {
	t.Helper()
	got, err := All(src)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	require.Equal(t, token.EOF, got[len(got)-1].Tok)
	return got[:len(got)-1]
}

func TestScansDelimitersAndOperators(t *testing.T) {
	got := toks(t, "(+ 1 2)")
	want := []token.Token{token.LPAREN, token.PLUS, token.INT, token.INT, token.RPAREN}
	require.Len(t, got, len(want))
	for i, w := range want {
		require.Equal(t, w, got[i].Tok)
	}
}

func TestScansFloatAndInt(t *testing.T) {
	got := toks(t, "3.1415 42")
	require.Equal(t, token.FLOAT, got[0].Tok)
	require.InDelta(t, 3.1415, got[0].Float, 1e-9)
	require.Equal(t, token.INT, got[1].Tok)
	require.EqualValues(t, 42, got[1].Int)
}

func TestScansNegativeNumberVsMinusOperator(t *testing.T) {
	got := toks(t, "(- 5 3) -5")
	require.Equal(t, token.MINUS, got[1].Tok)
	require.Equal(t, token.INT, got[len(got)-1].Tok)
	require.EqualValues(t, -5, got[len(got)-1].Int)
}

func TestScansString(t *testing.T) {
	got := toks(t, `"hello"`)
	require.Equal(t, token.STRING, got[0].Tok)
	require.Equal(t, "hello", got[0].Str)
	require.NotZero(t, got[0].Hash)
}

func TestScansQuotedSymbolAsString(t *testing.T) {
	got := toks(t, "'age")
	require.Equal(t, token.STRING, got[0].Tok)
	require.Equal(t, "age", got[0].Str)
}

func TestScansBuiltin(t *testing.T) {
	got := toks(t, "@len")
	require.Equal(t, token.BUILTIN, got[0].Tok)
	require.Equal(t, "len", got[0].Str)
}

func TestScansKeywords(t *testing.T) {
	got := toks(t, "true false")
	require.Equal(t, token.TRUE, got[0].Tok)
	require.Equal(t, token.FALSE, got[1].Tok)
}

func TestUnterminatedStringErrors(t *testing.T) {
	_, err := All(`"oops`)
	require.Error(t, err)
}

func TestIgnoresComments(t *testing.T) {
	got := toks(t, "; a comment\n42")
	require.Len(t, got, 1)
	require.Equal(t, token.INT, got[0].Tok)
}
