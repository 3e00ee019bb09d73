package e2e

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/kyanite/internal/codegen"
	"github.com/you-not-fish/kyanite/internal/config"
	"github.com/you-not-fish/kyanite/internal/driver"
	"github.com/you-not-fish/kyanite/internal/interp"
	"github.com/you-not-fish/kyanite/internal/ir"
)

// TestE2E runs every .kya file in testdata/ and compares its output with
// the .golden file next to it. Each program is:
//  1. compiled in-process through every phase with IR verification
//  2. run with the reference evaluator
//  3. exported as LLVM IR, linked with runtime/runtime.c and run, when
//     clang is available
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.kya")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .kya test files found in testdata/")
	}

	clang, _ := exec.LookPath("clang")
	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".kya")
		t.Run(name, func(t *testing.T) {
			want := readGolden(t, testFile)
			prog := compile(t, testFile)

			t.Run("interp", func(t *testing.T) {
				var out bytes.Buffer
				if err := interp.New(prog, &interp.Config{Stdout: &out}).Run(context.Background()); err != nil {
					t.Fatalf("run: %v\noutput so far:\n%s", err, out.String())
				}
				if got := out.String(); got != want {
					t.Errorf("output mismatch:\ngot:  %q\nwant: %q", got, want)
				}
			})

			t.Run("native", func(t *testing.T) {
				if clang == "" {
					t.Skip("clang not found")
				}
				if got := runNative(t, clang, prog, testFile); got != want {
					t.Errorf("output mismatch:\ngot:  %q\nwant: %q", got, want)
				}
			})
		})
	}
}

func readGolden(t *testing.T, kyaFile string) string {
	t.Helper()
	data, err := os.ReadFile(strings.TrimSuffix(kyaFile, ".kya") + ".golden")
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	return string(data)
}

// compile runs the compiler phases in-process.
func compile(t *testing.T, kyaFile string) *ir.Program {
	t.Helper()
	f, err := os.Open(kyaFile)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	conf := config.Default()
	conf.MaxErrors = 0
	res, err := driver.Compile(context.Background(), &driver.Options{Config: conf, Stop: driver.PhaseIR}, kyaFile, f)
	if err != nil {
		t.Fatalf("compile errors:\n%v", err)
	}
	return res.Program
}

// runNative links the exported module with the runtime and returns the
// binary's stdout.
func runNative(t *testing.T, clang string, prog *ir.Program, kyaFile string) string {
	t.Helper()
	tmpDir := t.TempDir()
	llFile := filepath.Join(tmpDir, "output.ll")
	binFile := filepath.Join(tmpDir, "output")

	out, err := os.Create(llFile)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := codegen.Emit(out, prog, kyaFile); err != nil {
		t.Fatalf("codegen: %v", err)
	}
	out.Close()

	cmd := exec.Command(clang, "-Wno-override-module", llFile, findRuntime(t), "-o", binFile)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("clang failed:\n%s\n%v", b, err)
	}
	b, err := exec.Command(binFile).Output()
	if err != nil {
		t.Fatalf("binary execution failed: %v", err)
	}
	return string(b)
}

// findRuntime locates runtime/runtime.c relative to the test directory.
func findRuntime(t *testing.T) string {
	t.Helper()
	for _, c := range []string{"../../runtime/runtime.c", "../../../runtime/runtime.c"} {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}
	t.Fatal("cannot find runtime/runtime.c")
	return ""
}
