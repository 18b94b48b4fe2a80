package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"zen/pkg/ast"
	"zen/pkg/eval"
	"zen/pkg/lexer"
	"zen/pkg/object"
	"zen/pkg/parser"
	"zen/pkg/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	command := os.Args[1]

	// Handle flags
	switch command {
	case "--version", "-v", "version":
		printVersion()
		return
	case "--help", "-h", "help":
		printHelp()
		return
	}

	// If the first argument ends with .zen, treat it as a file to run
	if strings.HasSuffix(command, object.Ext) {
		runFile(command)
		return
	}

	// Handle subcommands
	switch command {
	case "repl":
		startREPL()
	case "run":
		if len(os.Args) < 3 {
			fmt.Println("Usage: zen run <file>")
			os.Exit(1)
		}
		runFile(os.Args[2])
	case "eval":
		if len(os.Args) < 3 {
			fmt.Println("Usage: zen eval '<code>'")
			os.Exit(1)
		}
		evalCode(os.Args[2])
	case "ast":
		if len(os.Args) < 3 {
			fmt.Println("Usage: zen ast <file>")
			os.Exit(1)
		}
		printProgramAST(os.Args[2])
	case "tokens":
		if len(os.Args) < 3 {
			fmt.Println("Usage: zen tokens <file>")
			os.Exit(1)
		}
		printTokens(os.Args[2])
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printHelp()
		os.Exit(1)
	}
}

// newInterpreter builds an interpreter whose module search roots come from
// .env, ZEN_PATH and zen.yaml, in that order.
func newInterpreter() *eval.Interpreter {
	registry := object.NewRegistry(configuredRoots()...)
	return eval.NewWithRegistry(registry)
}

func runFile(filename string) {
	in := newInterpreter()
	result := in.EvalFile(filename)
	if result != nil && result.Type() == object.ERROR_OBJ {
		color.New(color.FgRed).Fprintln(os.Stderr, result.Inspect())
		os.Exit(1)
	}
}

func evalCode(code string) {
	in := newInterpreter()
	result := in.Run(code)
	if result == nil {
		return
	}
	if result.Type() == object.ERROR_OBJ {
		color.New(color.FgRed).Fprintln(os.Stderr, result.Inspect())
		os.Exit(1)
	}
	if result.Type() != object.NIL_OBJ {
		fmt.Println(result.Inspect())
	}
}

func printProgramAST(filename string) {
	program, parserErrors, err := parseProgramFromFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}
	if len(parserErrors) != 0 {
		printParserErrors(parserErrors)
		os.Exit(1)
	}
	fmt.Println(program.String())
}

func printTokens(filename string) {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}
	for _, tok := range lexer.Tokenize(string(data)) {
		fmt.Println(tok.String())
	}
}

func parseProgramFromFile(filename string) (*ast.Program, []string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, err
	}

	program, errs := parser.Parse(lexer.Tokenize(string(data)))
	if len(errs) != 0 {
		return nil, errs, nil
	}

	return program, nil, nil
}

func printParserErrors(errors []string) {
	red := color.New(color.FgRed)
	red.Fprintln(os.Stderr, "Parser errors:")
	for _, msg := range errors {
		red.Fprintln(os.Stderr, "\t"+msg)
	}
}

func printUsage() {
	fmt.Println("Zen Programming Language v" + version.Version)
	fmt.Println("\nUsage:")
	fmt.Println("  zen <file.zen>       Run a Zen script")
	fmt.Println("  zen repl             Start interactive REPL")
	fmt.Println("  zen run <file>       Run a Zen script (explicit)")
	fmt.Println("  zen eval '<code>'    Evaluate a Zen expression")
	fmt.Println("  zen ast <file>       Print the program AST")
	fmt.Println("  zen tokens <file>    Print the token stream")
	fmt.Println("  zen version          Show version information")
	fmt.Println("  zen help             Show this help message")
	fmt.Println("\nFlags:")
	fmt.Println("  -v, --version        Show version information")
	fmt.Println("  -h, --help           Show this help message")
}

func printVersion() {
	fmt.Printf("Zen %s\n", version.Version)
	fmt.Printf("Git Commit: %s\n", version.Commit)
	fmt.Printf("Build Date: %s\n", version.Date)
}

func printHelp() {
	fmt.Println("Zen — a small dynamically-typed scripting language")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  zen <file.zen>       Run a Zen script (shortcut for 'zen run')")
	fmt.Println("  zen run <file>       Execute a script")
	fmt.Println("  zen repl             Start the interactive REPL")
	fmt.Println("  zen eval '<code>'    Evaluate an expression and print its value")
	fmt.Println("  zen ast <file>       Print the program AST")
	fmt.Println("  zen tokens <file>    Print the token stream")
	fmt.Println("  zen version          Display build metadata")
	fmt.Println("  zen help             Show this help message")
	fmt.Println()
	fmt.Println("Module search roots come from ZEN_PATH, .env and zen.yaml.")
	fmt.Println()
	fmt.Println("Global flags:")
	fmt.Println("  --help, -h           Show help")
	fmt.Println("  --version, -v        Show version")
}
