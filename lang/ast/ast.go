// Package ast defines the abstract syntax tree produced by lang/parser and
// consumed by lang/compiler: a single tagged Node type carrying an optional
// token and an ordered child vector, matching a C parser.h layout rather
// than a one-interface-per-production-rule style — the grammar calls for
// this shape directly, so it is followed rather than generalized.
package ast

import "github.com/xnacly/purple-garden/lang/token"

// Kind tags a Node with its production.
type Kind uint8

const (
	// Atom is a leaf literal: string, int, double, true or false.
	Atom Kind = iota
	// Ident is a bare identifier reference.
	Ident
	// Array is anything between [ and ].
	Array
	// List is an uninterpreted parenthesized form, before a Bin/Call/Builtin
	// head has been recognized; the parser never emits a bare List, but the
	// tag is kept for disassembly/debug output parity with parser.h's
	// N_LIST.
	List
	// Builtin is (@name args...).
	Builtin
	// Bin is (+|-|*|/|= args...).
	Bin
	// Call is (name args...).
	Call
)

func (k Kind) String() string {
	switch k {
	case Atom:
		return "Atom"
	case Ident:
		return "Ident"
	case Array:
		return "Array"
	case List:
		return "List"
	case Builtin:
		return "Builtin"
	case Bin:
		return "Bin"
	case Call:
		return "Call"
	default:
		return "Unknown"
	}
}

// Node is the single AST node type: a Kind tag, an optional Token (the
// atom's literal, the identifier's name, the operator, the builtin/call
// name), and an ordered list of Children.
type Node struct {
	Kind     Kind
	Token    *token.Value
	Children []*Node
}

// NewAtom builds an Atom node wrapping tv.
func NewAtom(tv token.Value) *Node { return &Node{Kind: Atom, Token: &tv} }

// NewIdent builds an Ident node wrapping tv.
func NewIdent(tv token.Value) *Node { return &Node{Kind: Ident, Token: &tv} }
