// Package main implements the kyanite compiler entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/you-not-fish/kyanite/internal/codegen"
	"github.com/you-not-fish/kyanite/internal/config"
	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/driver"
	"github.com/you-not-fish/kyanite/internal/interp"
	"github.com/you-not-fish/kyanite/internal/ir"
	"github.com/you-not-fish/kyanite/internal/layout"
	"github.com/you-not-fish/kyanite/internal/syntax"
)

// Compiler flags
var (
	emitTokens   = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST      = flag.Bool("emit-ast", false, "Output AST")
	emitTypedAST = flag.Bool("emit-typed-ast", false, "Output typed AST")
	emitLayout   = flag.Bool("emit-layout", false, "Output class layouts and dispatch tables")
	layoutFormat = flag.String("layout-format", "", "Layout output format (text or yaml); overrides the config file")
	emitIR       = flag.Bool("emit-ir", false, "Output IR")
	emitLL       = flag.Bool("emit-ll", false, "Output LLVM IR")
	runProg      = flag.Bool("run", false, "Run main with the reference evaluator")
	output       = flag.String("o", "", "Output file")
	configFile   = flag.String("config", "", "Config file (default: kyac.toml or kyac.yaml next to the input)")
	jobs         = flag.Int("j", 0, "Functions lowered in parallel (0: GOMAXPROCS)")
	dumpFunc     = flag.String("dump-func", "", "Only dump specific function")
	noVerify     = flag.Bool("no-verify", false, "Skip IR verification")
	doctor       = flag.Bool("doctor", false, "Check toolchain")
	version      = flag.Bool("version", false, "Print version")
	trace        = flag.Bool("trace", false, "Log each phase with timings")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Kyanite Compiler %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: kyac [options] <file.kya>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("kyac version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	if *doctor {
		os.Exit(runDoctor())
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: kyac [options] <file.kya>")
		os.Exit(1)
	}
	filename := args[0]

	conf, err := loadConfig(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Handle -emit-tokens
	if *emitTokens {
		os.Exit(runEmitTokens(filename))
	}

	// Handle -emit-ast
	if *emitAST {
		os.Exit(runEmitAST(filename))
	}

	var code int
	switch {
	case *emitTypedAST:
		code = runEmitTypedAST(filename, conf)
	case *emitLayout:
		code = runEmitLayout(filename, conf)
	case *emitIR:
		code = runEmitIR(filename, conf)
	case *emitLL:
		code = runEmitLL(filename, conf)
	case *runProg:
		code = runProgram(filename, conf)
	default:
		// Checking without output reports errors only.
		_, code = compile(filename, conf, driver.PhaseIR)
	}
	os.Exit(code)
}

// loadConfig reads -config, or the config file found next to filename,
// and applies the command-line overrides.
func loadConfig(filename string) (*config.Config, error) {
	path := *configFile
	if path == "" {
		path = config.Find(filepath.Dir(filename))
	}
	conf := config.Default()
	if path != "" {
		var err error
		if conf, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if *jobs > 0 {
		conf.Jobs = *jobs
	}
	if *noVerify {
		conf.VerifyIR = false
	}
	if *trace {
		conf.Log.Level = "debug"
	}
	if *layoutFormat != "" {
		conf.Emit.LayoutFormat = *layoutFormat
	}
	return conf, conf.Validate()
}

// compile runs the driver up to stop and prints any errors. It returns
// the result and the exit code.
func compile(filename string, conf *config.Config, stop driver.Phase) (*driver.Result, int) {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return nil, 1
	}
	defer f.Close()

	log, err := driver.NewLogger(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return nil, 1
	}
	defer log.Sync()

	res, err := driver.Compile(context.Background(), &driver.Options{Config: conf, Logger: log, Stop: stop}, filename, f)
	if err != nil {
		printErrors(os.Stderr, err)
		return res, 1
	}
	return res, 0
}

// printErrors prints compile errors one per line with their kind.
func printErrors(w io.Writer, err error) {
	list := diag.Errors(err)
	if len(list) == 0 {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	for _, e := range list {
		fmt.Fprintf(w, "%s [%s]\n", e, e.Kind)
	}
}

// outputWriter opens -o, or returns stdout.
func outputWriter() (io.Writer, func() error, error) {
	if *output == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(*output)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	var errors []string
	errh := func(line, col uint32, msg string) {
		errors = append(errors, fmt.Sprintf("%s:%d:%d: %s", filename, line, col, msg))
	}

	s := syntax.NewScanner(filename, f, errh)

	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for {
		s.Next()
		tok := s.Token()
		fmt.Printf("%-20s %-12s %s\n", s.Pos(), tok, formatLiteral(s.Literal()))
		if tok.IsEOF() {
			break
		}
	}

	if len(errors) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, e := range errors {
			fmt.Printf("  %s\n", e)
		}
		return 1
	}
	return 0
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return "\"\""
	}
	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	var errs []string
	p := syntax.NewParser(filename, f, func(pos syntax.Pos, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", pos, msg))
	})
	ast := p.Parse()

	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}
	syntax.Fprint(os.Stdout, ast)

	if len(errs) > 0 {
		return 1
	}
	return 0
}

// runEmitTypedAST type-checks the input and outputs the AST with types.
func runEmitTypedAST(filename string, conf *config.Config) int {
	res, code := compile(filename, conf, driver.PhaseCheck)
	if code != 0 {
		return code
	}
	printTypedAST(os.Stdout, res.File, res.Info)
	return 0
}

// runEmitLayout outputs class layouts and dispatch tables.
func runEmitLayout(filename string, conf *config.Config) int {
	res, code := compile(filename, conf, driver.PhaseLayout)
	if code != 0 {
		return code
	}
	w, closeOut, err := outputWriter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeOut()

	if conf.Emit.LayoutFormat == config.LayoutYAML {
		if err := res.Layouts.WriteYAML(w); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}
	layout.Fprint(w, res.Layouts)
	return 0
}

// runEmitIR outputs the IR of every function, or only -dump-func.
func runEmitIR(filename string, conf *config.Config) int {
	res, code := compile(filename, conf, driver.PhaseIR)
	if code != 0 {
		return code
	}
	w, closeOut, err := outputWriter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeOut()

	if *dumpFunc != "" {
		fn := res.Program.Lookup(*dumpFunc)
		if fn == nil {
			fmt.Fprintf(os.Stderr, "error: no function %s\n", *dumpFunc)
			return 1
		}
		ir.FprintFunc(w, fn)
		return 0
	}
	ir.Fprint(w, res.Program)
	return 0
}

// runEmitLL outputs the LLVM module.
func runEmitLL(filename string, conf *config.Config) int {
	res, code := compile(filename, conf, driver.PhaseIR)
	if code != 0 {
		return code
	}
	w, closeOut, err := outputWriter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeOut()

	if err := codegen.Emit(w, res.Program, filename); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runProgram evaluates main and prints its output.
func runProgram(filename string, conf *config.Config) int {
	res, code := compile(filename, conf, driver.PhaseIR)
	if code != 0 {
		return code
	}
	log, err := driver.NewLogger(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	m := interp.New(res.Program, &interp.Config{Stdout: os.Stdout, Logger: log.With(zap.String("file", filename))})
	if err := m.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runDoctor checks the tools that consume -emit-ll output.
func runDoctor() int {
	fmt.Println("Kyanite Toolchain Doctor")
	fmt.Println("========================")
	fmt.Println()

	allOk := true

	fmt.Printf("Go:      %s ✓\n", runtime.Version())

	clangVersion, clangOk := checkTool("clang", "--version")
	fmt.Printf("clang:   %s", clangVersion)
	if clangOk {
		fmt.Println(" ✓")
	} else {
		fmt.Println(" ✗ (not found)")
		allOk = false
	}

	llvmAsVersion, llvmAsOk := checkTool("llvm-as", "--version")
	fmt.Printf("llvm-as: %s", llvmAsVersion)
	if llvmAsOk {
		fmt.Println(" ✓")
	} else {
		fmt.Println(" (optional, not found)")
	}

	fmt.Println()
	if allOk {
		fmt.Println("All required tools available!")
		return 0
	}
	fmt.Println("Some required tools are missing.")
	return 1
}

// checkTool runs a tool with the given arguments and returns the first line of output.
func checkTool(name string, args ...string) (string, bool) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", false
	}
	line := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	if len(line) > 60 {
		line = line[:57] + "..."
	}
	return line, true
}
