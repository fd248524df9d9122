package interp

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/xnacly/purple-garden/internal/filetest"
)

var testUpdate = flag.Bool("test.update-golden", false, "update testdata/*.want golden files instead of checking them")

// TestGolden runs every testdata/*.garden program and diffs its stdout
// against the matching .want file, the same golden-file harness the
// teacher uses for its parser/resolver fixtures, pointed at whole-program
// execution instead of an AST dump.
func TestGolden(t *testing.T) {
	dir := "testdata"
	for _, fi := range filetest.SourceFiles(t, dir, ".garden") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(dir, fi.Name()))
			if err != nil {
				t.Fatal(err)
			}
			var out bytes.Buffer
			if _, err := Run(context.Background(), string(src), Options{Stdout: &out}); err != nil {
				t.Fatal(err)
			}
			filetest.DiffOutput(t, fi, out.String(), dir, testUpdate)
		})
	}
}
