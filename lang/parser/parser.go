// Package parser turns a purple-garden token stream into an AST. It is a
// recursive-descent parser with one token of lookahead, the Go rendering
// of parser.h/Parser_next: every parenthesized form is classified by its
// head token into a Bin, Builtin or Call node; everything else is an
// Atom, Ident or Array leaf.
package parser

import (
	"fmt"

	"github.com/xnacly/purple-garden/lang/ast"
	"github.com/xnacly/purple-garden/lang/scanner"
	"github.com/xnacly/purple-garden/lang/token"
)

type parser struct {
	toks []token.Value
	pos  int
}

func (p *parser) cur() token.Value {
	if p.pos >= len(p.toks) {
		return token.Value{Tok: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *parser) advance() token.Value {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) expect(tok token.Token) (token.Value, error) {
	if p.cur().Tok != tok {
		return token.Value{}, fmt.Errorf("parser: expected %s, got %s at line %d", tok, p.cur().Tok, p.cur().Line)
	}
	return p.advance(), nil
}

// Parse tokenizes and parses src in one call, returning the top-level
// forms in source order.
func Parse(src string) ([]*ast.Node, error) {
	toks, err := scanner.All(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses an already-tokenized program, produced either by
// scanner.All or assembled by a caller (e.g. a test).
func ParseTokens(toks []token.Value) ([]*ast.Node, error) {
	p := &parser{toks: toks}
	var nodes []*ast.Node
	for p.cur().Tok != token.EOF {
		n, err := p.form()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (p *parser) form() (*ast.Node, error) {
	switch p.cur().Tok {
	case token.STRING, token.INT, token.FLOAT, token.TRUE, token.FALSE:
		tv := p.advance()
		return ast.NewAtom(tv), nil
	case token.IDENT:
		tv := p.advance()
		return ast.NewIdent(tv), nil
	case token.LBRACK:
		return p.array()
	case token.LPAREN:
		return p.list()
	default:
		return nil, fmt.Errorf("parser: unexpected token %s at line %d", p.cur().Tok, p.cur().Line)
	}
}

func (p *parser) array() (*ast.Node, error) {
	if _, err := p.expect(token.LBRACK); err != nil {
		return nil, err
	}
	var children []*ast.Node
	for p.cur().Tok != token.RBRACK {
		if p.cur().Tok == token.EOF {
			return nil, fmt.Errorf("parser: unterminated array literal")
		}
		n, err := p.form()
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	if _, err := p.expect(token.RBRACK); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.Array, Children: children}, nil
}

// list parses "(" head form* ")", classifying the result by its head
// token: a binary operator yields Bin, "@name" yields Builtin, and a bare
// identifier yields Call. Every other head is a parse error.
func (p *parser) list() (*ast.Node, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	head := p.cur()

	var kind ast.Kind
	switch {
	case head.Tok.IsBinOp():
		kind = ast.Bin
	case head.Tok == token.BUILTIN:
		kind = ast.Builtin
	case head.Tok == token.IDENT:
		kind = ast.Call
	default:
		return nil, fmt.Errorf("parser: list must start with an operator, builtin or identifier, got %s at line %d", head.Tok, head.Line)
	}
	p.advance()

	var children []*ast.Node
	for p.cur().Tok != token.RPAREN {
		if p.cur().Tok == token.EOF {
			return nil, fmt.Errorf("parser: unterminated list starting at line %d", head.Line)
		}
		n, err := p.form()
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: kind, Token: &head, Children: children}, nil
}
