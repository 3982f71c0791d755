/*
Growseed bootstraps a self-hosted PEG meta-parser and uses it to run an
arbitrary grammar against an input.

Usage:

	growseed [flags]
	growseed [flags] -g grammar.peg -i input.txt

The flags are:

	-v, --version
		Print the version and exit.

	-d, --dialect DIALECT
		Surface syntax to bootstrap: "canonical" or "bpeg". Defaults to the
		config file's dialect setting, or "canonical" if unset.

	-g, --grammar FILE
		Parse FILE with the bootstrapped meta-grammar and run the resulting
		Grammar against the input instead of the meta-grammar itself.

	-i, --input FILE
		Parse FILE as input. If not given, growseed starts an interactive
		REPL, reading one line of input per prompt.

	-c, --config FILE
		Load settings from the given TOML file. Defaults to "growseed.toml"
		in the current directory if present.

Once a session has started in REPL mode, each line read is parsed against
the active Grammar and either its action Value or a Failure diagnostic is
printed. Type an empty line or send EOF (Ctrl-D) to exit.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/growseed/internal/action"
	"github.com/dekarrin/growseed/internal/bootstrap"
	"github.com/dekarrin/growseed/internal/grammar"
	"github.com/dekarrin/growseed/internal/meta"
)

const version = "0.1.0"

const (
	exitSuccess = iota
	exitInitError
	exitRunError
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Print the version and exit.")
	flagDialect = pflag.StringP("dialect", "d", "", "Surface syntax to bootstrap: canonical or bpeg.")
	flagGrammar = pflag.StringP("grammar", "g", "", "Parse FILE with the bootstrapped meta-grammar and use the result as the active Grammar.")
	flagInput   = pflag.StringP("input", "i", "", "Parse FILE as input instead of starting a REPL.")
	flagConfig  = pflag.StringP("config", "c", "growseed.toml", "Load settings from the given TOML file.")
)

func main() {
	returnCode := exitSuccess
	defer func() {
		if p := recover(); p != nil {
			fmt.Fprintf(os.Stderr, "growseed: unrecoverable panic: %v\n", p)
			os.Exit(exitRunError)
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Println(version)
		return
	}

	explicitConfig := pflag.CommandLine.Changed("config")
	cfg, err := loadConfig(*flagConfig, explicitConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "growseed: load config: %s\n", err)
		returnCode = exitInitError
		return
	}

	dialect := cfg.Dialect
	if *flagDialect != "" {
		dialect = *flagDialect
	}
	if dialect == "" {
		dialect = "canonical"
	}

	g, err := bootstrapDialect(dialect, cfg.MaxBootstrapIterations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "growseed: bootstrap %s dialect: %s\n", dialect, err)
		returnCode = exitInitError
		return
	}

	if *flagGrammar != "" {
		g, err = loadUserGrammar(g, *flagGrammar)
		if err != nil {
			fmt.Fprintf(os.Stderr, "growseed: load grammar %s: %s\n", *flagGrammar, err)
			returnCode = exitInitError
			return
		}
	}

	if *flagInput != "" {
		if err := runInputFile(g, *flagInput); err != nil {
			fmt.Fprintf(os.Stderr, "growseed: %s\n", err)
			returnCode = exitRunError
		}
		return
	}

	if err := runREPL(g, cfg.Prompt); err != nil {
		fmt.Fprintf(os.Stderr, "growseed: repl: %s\n", err)
		returnCode = exitRunError
	}
}

// bootstrapDialect runs the named dialect's fixed-point bootstrap
// (internal/bootstrap) and returns its converged meta-grammar: a Grammar
// that parses that dialect's own textual surface syntax into Clause IR.
// maxIterations of 0 or less means "use the package default".
func bootstrapDialect(dialect string, maxIterations int) (grammar.Grammar, error) {
	if maxIterations <= 0 {
		maxIterations = bootstrap.MaxIterations
	}
	switch dialect {
	case "canonical":
		result, err := bootstrap.CanonicalGrammarN(maxIterations)
		if err != nil {
			return grammar.Grammar{}, err
		}
		return result.Grammar, nil
	case "bpeg":
		result, err := bootstrap.BpegGrammarN(maxIterations)
		if err != nil {
			return grammar.Grammar{}, err
		}
		return result.Grammar, nil
	default:
		return grammar.Grammar{}, fmt.Errorf("unknown dialect %q (want \"canonical\" or \"bpeg\")", dialect)
	}
}

// loadUserGrammar reads path and parses it with metaGrammar (a bootstrapped
// meta-parser) to produce the Grammar that will actually run against
// input, rather than running input against the meta-grammar itself.
func loadUserGrammar(metaGrammar grammar.Grammar, path string) (grammar.Grammar, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return grammar.Grammar{}, err
	}
	return meta.Parse(metaGrammar, string(src))
}

func runInputFile(g grammar.Grammar, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	result, ok := evaluate(g, string(src))
	fmt.Println(result)
	if !ok {
		return fmt.Errorf("parse failed")
	}
	return nil
}

// evaluate parses input against g with internal/engine and, on success,
// evaluates its action tree with action.DefaultEval, reporting whichever of
// Value or a Failure.Report diagnostic is relevant.
func evaluate(g grammar.Grammar, input string) (string, bool) {
	runes := []rune(input)
	eng := newEngine(g)

	m, err := eng.Parse(runes)
	if err != nil {
		f := failureOf(err)
		return f.Report(runes), false
	}

	val, err := action.NewHost(runes, action.DefaultEval()).Evaluate(m)
	if err != nil {
		return fmt.Sprintf("action error: %s", err), false
	}
	if val == nil {
		return fmt.Sprintf("matched [%d, %d)", m.Start, m.End), true
	}
	return fmt.Sprintf("%v", val), true
}
