package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

// TestEBNF validates grammar.ebnf against the same machinery the Go
// project uses to self-check its own language spec: grammar.ebnf is
// documentation, not something lang/parser reads, so this test is the
// only thing keeping it honest as the s-expression grammar evolves.
func TestEBNF(t *testing.T) {
	f, err := os.Open("grammar.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("grammar.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Program"); err != nil {
		t.Fatal(err)
	}
}
