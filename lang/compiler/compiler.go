// Package compiler implements the single-pass, single-scan compiler: it
// walks the AST produced by lang/parser once, lowering every node
// directly into the flat bytecode form in Program, with no separate
// resolution or optimization pass. The only extra walk is the
// -a/--aot-functions pre-pass, which registers top-level function names
// and emits no bytecode. It is grounded in cc.c: the
// node-dispatch switch, the register-order convention of ADD/SUB/MUL/DIV,
// and the forward-jump back-patch trick for @function bodies all mirror
// that file line for line in spirit if not in syntax.
package compiler

import (
	"github.com/xnacly/purple-garden/lang/arena"
	"github.com/xnacly/purple-garden/lang/ast"
	"github.com/xnacly/purple-garden/lang/errs"
	"github.com/xnacly/purple-garden/lang/token"
	"github.com/xnacly/purple-garden/lang/value"
)

// Option configures a Compile call.
type Option func(*options)

type options struct {
	aot bool
}

// WithAOTFunctions enables the -a/--aot-functions mode described in
// SPEC_FULL.md's REDESIGN FLAGS: every top-level @function's name hash is
// registered before the single emission pass begins, so a Call appearing
// before its @function's textual definition resolves instead of failing
// with "undefined function".
func WithAOTFunctions() Option {
	return func(o *options) { o.aot = true }
}

// builtinArity bounds the argument count of the handful of runtime
// builtins the compiler itself is aware of; the names here are the ones
// the error taxonomy singles out by name ("for len: non-singular"),
// not an exhaustive builtin registry (that lives in lang/machine and is
// checked at runtime, per compile's Builtin case).
var builtinArity = map[string]struct{ min, max int }{
	"print":   {1, 1},
	"println": {1, 1},
	"len":     {1, 1},
	"type":    {1, 1},
	"Some":    {1, 1},
}

type compiler struct {
	prog     *Program
	globals  *globalBuckets
	regs     registerAllocator
	arena    arena.Allocator
	aot      bool
	pending  map[uint64][]int // function name hash -> bytecode positions awaiting back-patch
}

// Compile lowers nodes (a full program, as returned by parser.Parse) into
// a Program ready for lang/machine to execute. alloc is consulted purely
// for -m/--memory-usage bookkeeping (see lang/arena's package doc); no
// Value in the returned Program is actually backed by it.
func Compile(nodes []*ast.Node, alloc arena.Allocator, opts ...Option) (*Program, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	c := &compiler{
		prog:    newProgram(),
		globals: newGlobalBuckets(),
		regs:    newRegisterAllocator(),
		arena:   alloc,
		aot:     o.aot,
		pending: map[uint64][]int{},
	}
	if alloc != nil {
		alloc.Request(len(c.prog.Globals) * value.ApproxSize)
	}

	if c.aot {
		for _, n := range nodes {
			if err := c.registerFunctionAheadOfTime(n); err != nil {
				return nil, err
			}
		}
	}

	for _, n := range nodes {
		if err := c.compile(n); err != nil {
			return nil, err
		}
	}

	for h, sites := range c.pending {
		if len(sites) > 0 {
			return nil, errs.Compilef("undefined function (hash %d) referenced but never defined", h)
		}
	}

	return c.prog, nil
}

// registerFunctionAheadOfTime scans a single top-level node for an
// @function form and, if found, reserves its hash bucket with
// functionPending so forward Calls resolve instead of erroring. It does
// not recurse into the node's children: only top-level function
// definitions participate in the AOT pre-pass (SPEC_FULL.md's REDESIGN
// FLAGS entry for -a/--aot-functions).
func (c *compiler) registerFunctionAheadOfTime(n *ast.Node) error {
	if n.Kind != ast.Builtin || n.Token.Str != "function" {
		return nil
	}
	if len(n.Children) < 2 || n.Children[0].Kind != ast.Ident {
		return errs.Compilef("@function requires a name and a parameter array")
	}
	name := n.Children[0].Token.Str
	h := n.Children[0].Token.Hash & MaxBuiltinMask
	if existing := c.prog.FunctionName[h]; existing != "" && existing != name {
		return errs.Compilef("function hash collision between `%s` and `%s`", existing, name)
	}
	c.prog.FunctionName[h] = name
	c.prog.FunctionEntry[h] = functionPending
	return nil
}

func (c *compiler) emit(op Opcode, arg uint32) int {
	pos := len(c.prog.Bytecode)
	c.prog.Bytecode = append(c.prog.Bytecode, uint32(op), arg)
	return pos
}

// internGlobal appends v to the global pool, recording it at h's bucket if
// that bucket is still vacant (no chaining: a colliding second
// value just gets its own unshared slot).
func (c *compiler) internGlobal(h uint64, v value.Value) int32 {
	bucketIdx, taken := c.globals.lookup(h)
	if taken && value.Cmp(c.prog.Globals[bucketIdx], v) {
		return bucketIdx
	}
	idx := int32(len(c.prog.Globals))
	c.prog.Globals = append(c.prog.Globals, v)
	if !taken {
		c.globals.set(h, idx)
	}
	if c.arena != nil {
		c.arena.Request(value.ApproxSize)
	}
	return idx
}

func (c *compiler) compile(n *ast.Node) error {
	switch n.Kind {
	case ast.Atom:
		return c.compileAtom(n)
	case ast.Ident:
		h := n.Token.Hash & VariableTableMask
		c.emit(VAR, uint32(h))
		return nil
	case ast.Array:
		return c.compileArray(n)
	case ast.Bin:
		return c.compileBin(n)
	case ast.Builtin:
		return c.compileBuiltin(n)
	case ast.Call:
		return c.compileCall(n)
	default:
		return errs.Compilef("cc: don't know how to compile node kind %s", n.Kind)
	}
}

func (c *compiler) compileAtom(n *ast.Node) error {
	tv := n.Token
	switch tv.Tok {
	case token.FALSE:
		c.emit(LOADG, globalFalse)
	case token.TRUE:
		c.emit(LOADG, globalTrue)
	case token.STRING:
		idx := c.internGlobal(tv.Hash, value.Value{Tag: value.Str, Str: value.NewString(tv.Str)})
		c.emit(LOADG, uint32(idx))
	case token.INT:
		idx := c.appendGlobal(value.Value{Tag: value.Int, Int: tv.Int})
		c.emit(LOADG, uint32(idx))
	case token.FLOAT:
		idx := c.appendGlobal(value.Value{Tag: value.Double, Double: tv.Float})
		c.emit(LOADG, uint32(idx))
	default:
		return errs.Compilef("cc: unsupported atom %s", tv.Tok)
	}
	return nil
}

// appendGlobal adds v to the global pool unconditionally, used for numeric
// literals which are never interned (only strings
// go through the bucket table; two equal int literals simply get two
// Globals slots).
func (c *compiler) appendGlobal(v value.Value) int32 {
	idx := int32(len(c.prog.Globals))
	c.prog.Globals = append(c.prog.Globals, v)
	if c.arena != nil {
		c.arena.Request(value.ApproxSize)
	}
	return idx
}

func (c *compiler) compileArray(n *ast.Node) error {
	if len(n.Children) != 0 {
		return errs.Compilef("cc: array literals with elements are not supported")
	}
	idx := c.appendGlobal(value.EmptyArray())
	c.emit(LOADG, uint32(idx))
	return nil
}

func binOpcode(t token.Token) Opcode {
	switch t {
	case token.PLUS:
		return ADD
	case token.MINUS:
		return SUB
	case token.STAR:
		return MUL
	case token.SLASH:
		return DIV
	case token.ASSIGN:
		return EQ
	default:
		panic("cc: not a binary operator token")
	}
}

func (c *compiler) compileBin(n *ast.Node) error {
	switch len(n.Children) {
	case 1:
		return c.compile(n.Children[0])
	case 2:
		if err := c.compile(n.Children[0]); err != nil {
			return err
		}
		r, err := c.regs.alloc()
		if err != nil {
			return err
		}
		c.emit(STORE, uint32(r))
		if err := c.compile(n.Children[1]); err != nil {
			return err
		}
		c.emit(binOpcode(n.Token.Tok), uint32(r))
		c.regs.free(r)
		return nil
	default:
		return errs.Compilef("cc: `%s` with %d operands is not yet defined (only 1 or 2 are)", n.Token.Tok, len(n.Children))
	}
}

// compileCallArgs compiles each argument and stores it into the fixed
// r1..r[len(args)] staging range every CALL/BUILTIN reads from, regardless
// of what the scratch allocator is doing elsewhere (see regalloc.go for
// why the two ranges are kept disjoint).
func (c *compiler) compileCallArgs(args []*ast.Node) error {
	if len(args) >= c.regs.ceiling() {
		return errs.Compilef("cc: too many call arguments (%d) for the remaining register space", len(args))
	}
	for i, a := range args {
		if err := c.compile(a); err != nil {
			return err
		}
		c.emit(STORE, uint32(i+1))
	}
	c.emit(ARGS, uint32(len(args)))
	return nil
}

func (c *compiler) compileBuiltin(n *ast.Node) error {
	name := n.Token.Str
	h := n.Token.Hash & MaxBuiltinMask
	switch compileTimeForms[h] {
	case formLet:
		return c.compileLet(n)
	case formFunction:
		return c.compileFunction(n)
	case formAssert:
		return c.compileAssert(n)
	case formNoneConst:
		c.emit(LOADG, globalNone)
		return nil
	case formIf:
		return errs.Compilef("@if is not supported")
	default:
		if arity, ok := builtinArity[name]; ok {
			if len(n.Children) < arity.min || len(n.Children) > arity.max {
				return errs.Compilef("@%s expects %d argument(s), got %d", name, arity.min, len(n.Children))
			}
		}
		if err := c.compileCallArgs(n.Children); err != nil {
			return err
		}
		c.emit(BUILTIN, uint32(h))
		return nil
	}
}

func (c *compiler) compileAssert(n *ast.Node) error {
	for _, child := range n.Children {
		if err := c.compile(child); err != nil {
			return err
		}
		c.emit(ASSERT, 0)
	}
	return nil
}

func (c *compiler) compileLet(n *ast.Node) error {
	if len(n.Children) != 2 || n.Children[0].Kind != ast.Ident {
		return errs.Compilef("@let expects a name and a value")
	}
	if err := c.compile(n.Children[1]); err != nil {
		return err
	}
	h := n.Children[0].Token.Hash & VariableTableMask
	c.emit(LOADV, uint32(h))
	return nil
}

// compileFunction lowers (@function name [params...] body...). Functions
// are compiled inline, at their definition site in the surrounding linear
// bytecode stream, so a JMP is emitted first to skip the whole
// prologue+body+LEAVE during normal top-level fallthrough; its argument is
// back-patched once the function's end is known. entry, the offset
// recorded in FunctionEntry and handed to every CALL site, points just
// past that JMP, directly at the prologue, so a call never executes the
// skip-jump itself.
func (c *compiler) compileFunction(n *ast.Node) error {
	if len(n.Children) < 2 || n.Children[0].Kind != ast.Ident || n.Children[1].Kind != ast.Array {
		return errs.Compilef("@function requires a name and a parameter array")
	}
	name := n.Children[0].Token.Str
	h := n.Children[0].Token.Hash & MaxBuiltinMask

	if existing := c.prog.FunctionEntry[h]; existing >= 0 {
		return errs.Compilef("function hash collision or redefinition: bucket %d already holds `%s`, cannot redefine as `%s`", h, c.prog.FunctionName[h], name)
	}

	jmpPos := c.emit(JMP, 0)
	entry := len(c.prog.Bytecode)

	c.prog.FunctionName[h] = name
	c.prog.FunctionEntry[h] = int32(entry)
	for _, pos := range c.pending[h] {
		c.prog.Bytecode[pos] = uint32(entry)
	}
	delete(c.pending, h)

	params := n.Children[1].Children
	for i, p := range params {
		if p.Kind != ast.Ident {
			return errs.Compilef("@function parameters must be identifiers")
		}
		c.emit(LOAD, uint32(i+1))
		ph := p.Token.Hash & VariableTableMask
		c.emit(LOADV, uint32(ph))
	}

	for _, body := range n.Children[2:] {
		if err := c.compile(body); err != nil {
			return err
		}
	}
	c.emit(LEAVE, 0)
	c.prog.Bytecode[jmpPos+1] = uint32(len(c.prog.Bytecode))
	return nil
}

func (c *compiler) compileCall(n *ast.Node) error {
	name := n.Token.Str
	h := n.Token.Hash & MaxBuiltinMask
	entry := c.prog.FunctionEntry[h]

	switch {
	case entry >= 0:
		if err := c.compileCallArgs(n.Children); err != nil {
			return err
		}
		c.emit(CALL, uint32(entry))
		return nil
	case entry == functionPending:
		if err := c.compileCallArgs(n.Children); err != nil {
			return err
		}
		pos := c.emit(CALL, 0)
		c.pending[h] = append(c.pending[h], pos+1)
		return nil
	default:
		return errs.Compilef("undefined function `%s`", name)
	}
}
