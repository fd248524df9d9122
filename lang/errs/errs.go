// Package errs defines the error taxonomy shared by the compiler and the
// machine: CompileError, RuntimeError and ResourceError, mirroring the three
// failure categories of the original C implementation's ASSERT/VM_ERR exits,
// but surfaced as ordinary Go errors instead of process aborts.
package errs

import "fmt"

// Kind distinguishes where in the pipeline an Error originated.
type Kind uint8

const (
	// Compile is raised by lang/compiler while lowering the AST to bytecode.
	Compile Kind = iota
	// Runtime is raised by lang/machine while executing bytecode.
	Runtime
	// Resource marks an allocation failure. The allocators in lang/arena
	// grow on demand and never raise it.
	Resource
)

func (k Kind) String() string {
	switch k {
	case Compile:
		return "compile error"
	case Runtime:
		return "runtime error"
	case Resource:
		return "resource error"
	default:
		return "error"
	}
}

// Error is the single sum type all purple-garden failures are reported as.
// Msg carries the human-readable diagnostic, already including the
// offending name/type/hash per the error taxonomy.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("purple-garden: %s: %s", e.Kind, e.Msg)
}

// Compilef builds a *Error of kind Compile.
func Compilef(format string, args ...any) *Error {
	return &Error{Kind: Compile, Msg: fmt.Sprintf(format, args...)}
}

// Runtimef builds a *Error of kind Runtime.
func Runtimef(format string, args ...any) *Error {
	return &Error{Kind: Runtime, Msg: fmt.Sprintf(format, args...)}
}

// Resourcef builds a *Error of kind Resource.
func Resourcef(format string, args ...any) *Error {
	return &Error{Kind: Resource, Msg: fmt.Sprintf(format, args...)}
}
