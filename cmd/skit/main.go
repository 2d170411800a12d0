// Command skit is the compiler front end for skit dialogue scripts.
//
// Usage:
//
//	skit check [options] <script-file>...
//	skit fmt [options] <script-file>...
//	skit tokens <script-file>...
//	skit version
//
// Check Command:
//
//	Lex, parse, and analyze script files, printing diagnostics.
//
//	Options:
//	  -config string   Config file path (default ".skit.yaml")
//	  -werror          Treat warnings as errors
//
// Fmt Command:
//
//	Print script files in canonical form.
//
//	Options:
//	  -config string   Config file path (default ".skit.yaml")
//	  -w               Write result to (source) file instead of stdout
//
// Tokens Command:
//
//	Dump the token table of script files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/skitlang/skit/internal/config"
	"github.com/skitlang/skit/internal/log"
	"github.com/skitlang/skit/pkg/format"
	"github.com/skitlang/skit/pkg/script"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "check", "c":
		cmdCheck(os.Args[2:])
	case "fmt", "f":
		cmdFmt(os.Args[2:])
	case "tokens", "t":
		cmdTokens(os.Args[2:])
	case "version":
		fmt.Printf("skit version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Skit Script Compiler

Usage:
  skit <command> [options] <files>...

Commands:
  check       Check script files and print diagnostics
  fmt         Print script files in canonical form
  tokens      Dump the token table of script files
  version     Print version information
  help        Print this help message

Run 'skit <command> -h' for command-specific help.`)
}

// loadConfig loads tool configuration and initializes logging from it.
func loadConfig(path string) config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Init(log.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	return cfg
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Config file path")
	werror := fs.Bool("werror", false, "Treat warnings as errors")

	fs.Usage = func() {
		fmt.Println(`Usage: skit check [options] <script-file>...

Check skit script files and print diagnostics.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadConfig(*cfgPath)
	strict := cfg.Check.WarningsAsErrors || *werror
	logger := log.WithComponent("check")

	hasErrors := false
	hasWarnings := false

	for _, inputFile := range fs.Args() {
		s, diags, err := script.CheckFile(inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			hasErrors = true
			continue
		}
		logger.Debug("checked file",
			"path", inputFile,
			"statements", len(s.Stmts),
			"diagnostics", diags.Len())

		if diags.Len() > 0 {
			diags.Render(os.Stderr, inputFile)
		}
		if diags.HasErrors() {
			hasErrors = true
		} else if len(diags.Warnings()) > 0 {
			hasWarnings = true
		} else {
			fmt.Printf("Valid: %s\n", inputFile)
		}
	}

	if hasErrors || (strict && hasWarnings) {
		os.Exit(1)
	}
	if hasWarnings {
		os.Exit(2)
	}
}

func cmdFmt(args []string) {
	fs := flag.NewFlagSet("fmt", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Config file path")
	write := fs.Bool("w", false, "Write result to (source) file instead of stdout")

	fs.Usage = func() {
		fmt.Println(`Usage: skit fmt [options] <script-file>...

Print skit script files in canonical form.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadConfig(*cfgPath)
	opts := format.Options{
		Indent:            cfg.Format.Indent,
		NormalizeSpeakers: cfg.Format.NormalizeSpeakers,
	}

	hasErrors := false
	for _, inputFile := range fs.Args() {
		content, err := os.ReadFile(inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", inputFile, err)
			hasErrors = true
			continue
		}

		formatted, diags := format.Source(content, opts)
		if diags.HasErrors() {
			diags.Render(os.Stderr, inputFile)
			hasErrors = true
			continue
		}

		if *write {
			if err := os.WriteFile(inputFile, []byte(formatted), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", inputFile, err)
				hasErrors = true
				continue
			}
			fmt.Printf("Formatted: %s\n", inputFile)
		} else {
			fmt.Print(formatted)
		}
	}

	if hasErrors {
		os.Exit(1)
	}
}

func cmdTokens(args []string) {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Println(`Usage: skit tokens <script-file>...

Dump the token table of skit script files.`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		fs.Usage()
		os.Exit(1)
	}

	hasErrors := false
	for _, inputFile := range fs.Args() {
		src, err := os.ReadFile(inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", inputFile, err)
			hasErrors = true
			continue
		}

		if fs.NArg() > 1 {
			fmt.Printf("%s:\n", inputFile)
		}
		for i, tok := range script.Tokenize(src) {
			fmt.Printf("%4d  %-12s %4d..%-4d %q\n", i, tok.Kind, tok.Start, tok.End, tok.Text(src))
		}
	}

	if hasErrors {
		os.Exit(1)
	}
}
