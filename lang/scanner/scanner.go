// Package scanner tokenizes purple-garden source text. It is the Go
// rendering of lexer.c: a hand-rolled single-pass tokenizer with one
// character of lookahead, no source-position diagnostics beyond a line
// counter (precise diagnostics are out of scope).
package scanner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xnacly/purple-garden/lang/hash"
	"github.com/xnacly/purple-garden/lang/token"
)

// Scanner tokenizes a single source string.
type Scanner struct {
	src  string
	pos  int
	line int
}

// New creates a Scanner over src.
func New(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

func (s *Scanner) atEnd() bool { return s.pos >= len(s.src) }
func (s *Scanner) cur() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.pos]
}
func (s *Scanner) peek() byte {
	if s.pos+1 >= len(s.src) {
		return 0
	}
	return s.src[s.pos+1]
}

func (s *Scanner) advance() byte {
	c := s.cur()
	if c == '\n' {
		s.line++
	}
	s.pos++
	return c
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
func isIdent(c byte) bool { return isIdentStart(c) || isDigit(c) }
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func (s *Scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		c := s.cur()
		if isWhitespace(c) {
			s.advance()
			continue
		}
		if c == ';' { // line comment
			for !s.atEnd() && s.cur() != '\n' {
				s.advance()
			}
			continue
		}
		break
	}
}

// Next scans and returns the next token. It returns a token.EOF value once
// the source is exhausted; callers should stop calling Next at that point.
func (s *Scanner) Next() (token.Value, error) {
	s.skipWhitespaceAndComments()
	if s.atEnd() {
		return token.Value{Tok: token.EOF, Line: s.line}, nil
	}

	line := s.line
	c := s.cur()

	switch c {
	case '(':
		s.advance()
		return token.Value{Tok: token.LPAREN, Line: line}, nil
	case ')':
		s.advance()
		return token.Value{Tok: token.RPAREN, Line: line}, nil
	case '[':
		s.advance()
		return token.Value{Tok: token.LBRACK, Line: line}, nil
	case ']':
		s.advance()
		return token.Value{Tok: token.RBRACK, Line: line}, nil
	case '+':
		s.advance()
		return token.Value{Tok: token.PLUS, Line: line}, nil
	case '-':
		if isDigit(s.peek()) {
			return s.number(line)
		}
		s.advance()
		return token.Value{Tok: token.MINUS, Line: line}, nil
	case '*':
		s.advance()
		return token.Value{Tok: token.STAR, Line: line}, nil
	case '/':
		s.advance()
		return token.Value{Tok: token.SLASH, Line: line}, nil
	case '=':
		s.advance()
		return token.Value{Tok: token.ASSIGN, Line: line}, nil
	case '"':
		return s.string(line)
	case '\'':
		return s.quotedSymbol(line)
	case '@':
		return s.builtin(line)
	default:
		if isDigit(c) {
			return s.number(line)
		}
		if isIdentStart(c) {
			return s.identOrKeyword(line)
		}
		s.advance()
		return token.Value{}, fmt.Errorf("scanner: unexpected character %q at line %d", c, line)
	}
}

func (s *Scanner) readWhile(pred func(byte) bool) string {
	start := s.pos
	for !s.atEnd() && pred(s.cur()) {
		s.advance()
	}
	return s.src[start:s.pos]
}

func (s *Scanner) number(line int) (token.Value, error) {
	start := s.pos
	if s.cur() == '-' {
		s.advance()
	}
	s.readWhile(isDigit)
	isFloat := false
	if s.cur() == '.' && isDigit(s.peek()) {
		isFloat = true
		s.advance()
		s.readWhile(isDigit)
	}
	text := s.src[start:s.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token.Value{}, fmt.Errorf("scanner: invalid float %q at line %d: %w", text, line, err)
		}
		return token.Value{Tok: token.FLOAT, Line: line, Float: f}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token.Value{}, fmt.Errorf("scanner: invalid int %q at line %d: %w", text, line, err)
	}
	return token.Value{Tok: token.INT, Line: line, Int: n}, nil
}

func (s *Scanner) string(line int) (token.Value, error) {
	s.advance() // opening quote
	var b strings.Builder
	for !s.atEnd() && s.cur() != '"' {
		b.WriteByte(s.advance())
	}
	if s.atEnd() {
		return token.Value{}, fmt.Errorf("scanner: unterminated string starting at line %d", line)
	}
	s.advance() // closing quote
	text := b.String()
	return token.Value{Tok: token.STRING, Line: line, Str: text, Hash: hash.String(text)}, nil
}

// quotedSymbol scans 'name, treated as a string atom the way the original
// lexer folds T_IDENT text directly into a Str payload.
func (s *Scanner) quotedSymbol(line int) (token.Value, error) {
	s.advance() // '
	text := s.readWhile(isIdent)
	if text == "" {
		return token.Value{}, fmt.Errorf("scanner: empty quoted symbol at line %d", line)
	}
	return token.Value{Tok: token.STRING, Line: line, Str: text, Hash: hash.String(text)}, nil
}

func (s *Scanner) builtin(line int) (token.Value, error) {
	s.advance() // @
	text := s.readWhile(isIdent)
	if text == "" {
		return token.Value{}, fmt.Errorf("scanner: empty builtin name at line %d", line)
	}
	return token.Value{Tok: token.BUILTIN, Line: line, Str: text, Hash: hash.String(text)}, nil
}

func (s *Scanner) identOrKeyword(line int) (token.Value, error) {
	text := s.readWhile(isIdent)
	switch text {
	case "true":
		return token.Value{Tok: token.TRUE, Line: line}, nil
	case "false":
		return token.Value{Tok: token.FALSE, Line: line}, nil
	default:
		return token.Value{Tok: token.IDENT, Line: line, Str: text, Hash: hash.String(text)}, nil
	}
}

// All scans every token in src, stopping at (and including) the first
// token.EOF, the way Parser_all consumes a fully tokenized program.
func All(src string) ([]token.Value, error) {
	s := New(src)
	var toks []token.Value
	for {
		tv, err := s.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tv)
		if tv.Tok == token.EOF {
			return toks, nil
		}
	}
}
