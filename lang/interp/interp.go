// Package interp wires lang/parser, lang/compiler and lang/machine
// together into the single Run entry point the CLI (and anything else
// embedding purple-garden) calls, the same role maincmd.go's subcommands
// play for a parse/resolve/tokenize pipeline collapsed into
// one pass.
package interp

import (
	"context"
	"io"

	"github.com/xnacly/purple-garden/lang/arena"
	"github.com/xnacly/purple-garden/lang/compiler"
	"github.com/xnacly/purple-garden/lang/disasm"
	"github.com/xnacly/purple-garden/lang/errs"
	"github.com/xnacly/purple-garden/lang/machine"
	"github.com/xnacly/purple-garden/lang/parser"
	"github.com/xnacly/purple-garden/lang/value"
)

// Options configures a Run call with the CLI flags described in
// SPEC_FULL.md's CLI module.
type Options struct {
	// BlockAllocator selects lang/arena's Block strategy over the default
	// growing Bump (-b/--block-allocator).
	BlockAllocator bool
	// AOTFunctions enables the forward-call pre-pass (-a/--aot-functions).
	AOTFunctions bool
	// Disassemble, if set, is written the bytecode listing before the
	// program is executed; execution happens either way.
	Disassemble io.Writer
	// Stdout is where the print/println builtins write; defaults to
	// io.Discard's absence meaning the machine's own os.Stdout default.
	Stdout io.Writer
	// MemoryUsage, if non-nil, receives the arena's final Stats after Run
	// completes (-m/--memory-usage).
	MemoryUsage *arena.Stats
}

// Run compiles and executes src, returning the final accumulator value.
// Every failure, whatever phase it originated in, comes back as an
// *errs.Error.
func Run(ctx context.Context, src string, opts Options) (value.Value, error) {
	nodes, err := parser.Parse(src)
	if err != nil {
		return value.Value{}, errs.Compilef("%s", err)
	}

	alloc := arena.New(opts.BlockAllocator, 0)

	var copts []compiler.Option
	if opts.AOTFunctions {
		copts = append(copts, compiler.WithAOTFunctions())
	}
	prog, err := compiler.Compile(nodes, alloc, copts...)
	if err != nil {
		return value.Value{}, err
	}

	if opts.Disassemble != nil {
		if _, err := io.WriteString(opts.Disassemble, disasm.Disassemble(prog)); err != nil {
			return value.Value{}, errs.Runtimef("writing disassembly: %s", err)
		}
	}

	vm := machine.New(prog, alloc)
	if opts.Stdout != nil {
		vm.Stdout = opts.Stdout
	}
	result, err := vm.Run(ctx)

	if opts.MemoryUsage != nil {
		*opts.MemoryUsage = alloc.Stats()
	}

	return result, err
}
