// Package value implements the runtime value model: a tagged union with
// an orthogonal "Some" lift, plus the shallow equality and arithmetic
// rules. It is the Go rendering of common.h's Value struct and
// common.c's Value_cmp/Value_as_double.
package value

import (
	"fmt"
	"strconv"

	"github.com/xnacly/purple-garden/lang/hash"
)

// Tag identifies which field of Value holds meaningful data.
type Tag uint8

const (
	None Tag = iota
	Str
	Int
	Double
	True
	False
	Array
)

func (t Tag) String() string {
	switch t {
	case None:
		return "None"
	case Str:
		return "Str"
	case Int:
		return "Int"
	case Double:
		return "Double"
	case True:
		return "True"
	case False:
		return "False"
	case Array:
		return "Array"
	default:
		return "unknown"
	}
}

// IString is an interned text payload: the text itself plus its precomputed
// hash, matching common.h's Str (pointer+length+hash folded together since
// Go strings already carry their own length).
type IString struct {
	Data string
	Hash uint64
}

// NewString computes the hash for s and returns an IString ready to be
// stored in a Value.
func NewString(s string) IString {
	return IString{Data: s, Hash: hash.String(s)}
}

// Value is the tagged union every register, global pool slot and variable
// table entry holds. IsSome lifts any tagged value into an optional wrapper
// orthogonally to its Tag: Some(Int 5) and Int 5 share Tag == Int but
// IsSome differs, and they must never compare equal.
type Value struct {
	Tag    Tag
	IsSome bool

	Str    IString
	Int    int64
	Double float64
	Array  []*Value
}

// Singletons. lang/compiler's newProgram places copies of these at
// globals[0..2];
// kept here so every package building a Value for False/True/None agrees on
// its shape.
var (
	FalseValue = Value{Tag: False}
	TrueValue  = Value{Tag: True}
	NoneValue  = Value{Tag: None}
)

// Bool returns TrueValue or FalseValue for a Go bool, used by the
// machine's EQ instruction.
func Bool(b bool) Value {
	if b {
		return TrueValue
	}
	return FalseValue
}

// Some wraps v with the orthogonal optional lift.
func Some(v Value) Value {
	v.IsSome = true
	return v
}

// EmptyArray returns the only array literal form the compiler currently
// supports (non-empty array literals are a compile error, not a runtime
// concern).
func EmptyArray() Value {
	return Value{Tag: Array, Array: []*Value{}}
}

// Truth reports whether v is considered true for @assert and similar
// constructs. Only True is truthy; there is no implicit truthiness for
// numbers, strings or None, matching the source language's "(@assert
// true)" rather than "(@assert 1)" style.
func (v Value) Truth() bool {
	return v.Tag == True && !v.IsSome
}

// Debug renders v the way Value_debug in common.c does, used by the print
// builtins and the disassembler's global pool listing.
func (v Value) Debug() string {
	var body string
	switch v.Tag {
	case None, True, False:
		body = ""
	case Str:
		body = "(`" + v.Str.Data + "`)"
	case Double:
		body = "(" + strconv.FormatFloat(v.Double, 'g', -1, 64) + ")"
	case Int:
		body = "(" + strconv.FormatInt(v.Int, 10) + ")"
	case Array:
		body = "[" + fmt.Sprint(len(v.Array)) + " elems]"
	default:
		body = "<unknown>"
	}
	name := v.Tag.String()
	if v.IsSome {
		return "Option::Some(" + name + body + ")"
	}
	return name + body
}

// AsDouble widens an Int or Double Value to float64, the Go equivalent of
// Value_as_double. Callers must only invoke this after confirming the tag
// is Int or Double.
func AsDouble(v Value) float64 {
	if v.Tag == Double {
		return v.Double
	}
	return float64(v.Int)
}

// ApproxSize is the notional heap footprint of a single Value, used only by
// lang/arena callers to keep -m/--memory-usage accounting honest; Go's
// allocator, not this constant, actually backs the memory.
const ApproxSize = 64

const epsilon = 1e-9

// Cmp implements Value_cmp: shallow equality, no unwrapping of Some, no
// deep comparison of arrays.
func Cmp(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	if a.IsSome || b.IsSome {
		return false
	}
	switch a.Tag {
	case Str:
		return a.Str.Data == b.Str.Data
	case Double:
		diff := a.Double - b.Double
		return diff < epsilon && diff > -epsilon
	case Int:
		return a.Int == b.Int
	case True, False, None:
		return true
	case Array:
		return false
	default:
		return false
	}
}

// typeMismatch builds the "Incompatible types X and Y" runtime diagnostic
// shared by Add/Sub/Mul/Div, naming the VM op the way vm.c's VM_ERR calls
// do.
func typeMismatch(op string, a, b Value) error {
	return fmt.Errorf("VM[%s] incompatible types %s and %s", op, a.Tag, b.Tag)
}

// binaryNumeric implements the widening rule shared by Add/Sub/Mul/Div: if
// either operand is Double, both widen to double; otherwise both must be
// Int, computed with 64-bit two's-complement wraparound (Go's default
// int64 overflow behavior, which is exactly what's wanted here).
func binaryNumeric(op string, left, right Value, ints func(a, b int64) int64, doubles func(a, b float64) float64) (Value, error) {
	if left.Tag == Double || right.Tag == Double {
		if left.Tag != Double && left.Tag != Int {
			return Value{}, typeMismatch(op, left, right)
		}
		if right.Tag != Double && right.Tag != Int {
			return Value{}, typeMismatch(op, left, right)
		}
		return Value{Tag: Double, Double: doubles(AsDouble(left), AsDouble(right))}, nil
	}
	if left.Tag != Int || right.Tag != Int {
		return Value{}, typeMismatch(op, left, right)
	}
	return Value{Tag: Int, Int: ints(left.Int, right.Int)}, nil
}

// Add, Sub, Mul and Div compute left OP right, where left is the operand
// that was compiled (and staged into a register) first and right is the
// operand compiled most recently (and left in the accumulator). This
// ordering, not the naive left-to-right one implied by register naming,
// is the one that makes (- 5 3) == 2.
func Add(left, right Value) (Value, error) {
	return binaryNumeric("+", left, right,
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b })
}

func Sub(left, right Value) (Value, error) {
	return binaryNumeric("-", left, right,
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b })
}

func Mul(left, right Value) (Value, error) {
	return binaryNumeric("*", left, right,
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b })
}

func Div(left, right Value) (Value, error) {
	if right.Tag == Int && right.Int == 0 && left.Tag != Double {
		return Value{}, fmt.Errorf("VM[/] division by zero")
	}
	return binaryNumeric("/", left, right,
		func(a, b int64) int64 { return a / b },
		func(a, b float64) float64 { return a / b })
}
