package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const (
	historyFile = ".pyswift_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `pyswift - translate Python source into Swift

Usage:
    pyswift <command> [arguments]

Commands:
    build <file>    Transpile a .py file to Swift source
    check <file>    Parse a .py file and report diagnostics
    repl            Transpile interactively, line by line
    help            Show this help message

Examples:
    pyswift build fib.py
    pyswift build -o out.swift -emit-runtime fib.py
    pyswift check fib.py

Use "pyswift <command> -h" for more information about a command.
`)
}

func buildCommand(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "", "Output file path (default: <filename>.swift)")
	verbose := fs.Bool("v", false, "Print diagnostics to stderr")
	emitRuntime := fs.Bool("emit-runtime", false, "Write "+RuntimeHelperFileName+" next to the output")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pyswift build [-o output] [-v] [-emit-runtime] <file>\n")
		fmt.Fprintf(os.Stderr, "Transpile a .py file to Swift source\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	text, diags, err := Generate(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Transpilation failed: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "warning: %s\n", d)
		}
	}

	outPath := *output
	if outPath == "" {
		outPath = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".swift"
	}
	if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote: %s\n", outPath)

	if *emitRuntime {
		runtimePath := filepath.Join(filepath.Dir(outPath), RuntimeHelperFileName)
		if err := os.WriteFile(runtimePath, []byte(swiftRuntimeHelpers), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", runtimePath, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote runtime helpers: %s\n", runtimePath)
	}
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Also report success explicitly")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pyswift check [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Parse a .py file and report diagnostics\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	_, diags, err := Generate(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		os.Exit(1)
	}
	for _, d := range diags {
		fmt.Printf("%s: warning: %s\n", filename, d)
	}
	if *verbose && len(diags) == 0 {
		fmt.Printf("%s: ok\n", filename)
	}
}

func replCommand(args []string) {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pyswift repl\n")
		fmt.Fprintf(os.Stderr, "Transpile interactively. Blocks end with an empty line.\n")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := filepath.Join(os.Getenv("HOME"), historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Println("pyswift REPL. Ctrl+C cancels input, Ctrl+D exits.")
	for {
		source, ok := readBlock(ln)
		if !ok {
			return
		}
		if strings.TrimSpace(source) == "" {
			continue
		}
		text, _, err := Generate(source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Print(stripHeader(text))
	}
}

// readBlock reads one logical unit of input: a single line, or, when the
// line opens a suite (ends with ":"), every following line until an empty
// one. The second result is false on Ctrl+D.
func readBlock(ln *liner.State) (string, bool) {
	var b strings.Builder
	prompt := promptMain
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading input: %v\n", err)
			return "", false
		}

		if b.Len() == 0 && !strings.HasSuffix(strings.TrimRight(line, " \t"), ":") {
			if strings.TrimSpace(line) != "" {
				ln.AppendHistory(line)
			}
			return line + "\n", true
		}
		if b.Len() > 0 && strings.TrimSpace(line) == "" {
			return b.String(), true
		}
		ln.AppendHistory(line)
		b.WriteString(line)
		b.WriteByte('\n')
		prompt = promptCont
	}
}

// stripHeader drops the fixed output header so the REPL shows only the
// generated statements.
func stripHeader(text string) string {
	header := strings.Join(outputHeader, "\n") + "\n"
	return strings.TrimPrefix(text, header)
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "build":
		buildCommand(os.Args[2:])
	case "check":
		checkCommand(os.Args[2:])
	case "repl":
		replCommand(os.Args[2:])
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		showUsage()
		os.Exit(1)
	}
}
