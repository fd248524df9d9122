// Package maincmd implements the purple-garden command-line tool: one
// flag-parsing Cmd invoked via github.com/mna/mainer, flattened to a
// single "compile, optionally disassemble, then run" pipeline rather
// than a parse/resolve/tokenize subcommand dispatch.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/xnacly/purple-garden/lang/arena"
	"github.com/xnacly/purple-garden/lang/errs"
	"github.com/xnacly/purple-garden/lang/interp"
)

const binName = "purple-garden"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <file.garden>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <file.garden>
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and virtual machine for the purple-garden programming language.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       -d --disassemble          Print the compiled bytecode listing
                                 before running it.
       -b --block-allocator      Use the fixed-block arena instead of the
                                 default growing bump arena.
       -a --aot-functions        Register every top-level function's name
                                 ahead of time, so calls may forward-
                                 reference a function defined later in the
                                 same file.
       -m --memory-usage         Print arena allocation statistics after
                                 the program finishes.

More information on the purple-garden repository:
       https://github.com/xnacly/purple-garden
`, binName)
)

// Cmd is the root command, its exported fields populated by mainer's
// struct-tag flag parser.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Disassemble    bool `flag:"d,disassemble"`
	BlockAllocator bool `flag:"b,block-allocator"`
	AOTFunctions   bool `flag:"a,aot-functions"`
	MemoryUsage    bool `flag:"m,memory-usage"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }
func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) != 1 {
		return errors.New("exactly one <file.garden> argument is required")
	}
	return nil
}

// Main is the process entry point's sole call into this package.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.run(ctx, stdio); err != nil {
		var e *errs.Error
		if errors.As(err, &e) {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, e)
		} else {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		}
		return mainer.Failure
	}
	return mainer.Success
}

func (c *Cmd) run(ctx context.Context, stdio mainer.Stdio) error {
	path := c.args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	opts := interp.Options{
		BlockAllocator: c.BlockAllocator,
		AOTFunctions:   c.AOTFunctions,
		Stdout:         stdio.Stdout,
	}
	if c.Disassemble {
		opts.Disassemble = stdio.Stdout
	}
	var stats arena.Stats
	if c.MemoryUsage {
		opts.MemoryUsage = &stats
	}

	_, err = interp.Run(ctx, string(src), opts)

	if c.MemoryUsage {
		fmt.Fprintf(stdio.Stdout, "; memory: %d/%d bytes used\n", stats.Used, stats.Allocated)
	}

	return err
}
