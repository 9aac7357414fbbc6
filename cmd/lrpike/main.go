/*
Lrpike builds an LR(1) or LALR(1) parser from a grammar definition file and
either parses a single input string and exits, or drops into a REPL that
parses one line at a time.

Usage:

	lrpike [flags] GRAMMAR-FILE [INPUT]

The flags are:

	-v, --version
		Print the current version and exit.

	-l, --lalr
		Build an LALR(1) parser instead of the default LR(1).

	-t, --trace
		Print a step-by-step shift/reduce trace alongside the parse tree.

If INPUT is given, it is tokenized and parsed once and the program exits
with the result. Otherwise an interactive REPL is started: each line is
parsed against the loaded grammar. REPL lines beginning with ":" are
directives (":trace", ":dump", ":lalr", ":stats", ":quit") rather than
input to parse.
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/hallward/lrpike"
	"github.com/hallward/lrpike/grammar"
	"github.com/hallward/lrpike/internal/input"
	"github.com/hallward/lrpike/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota
	// ExitUsageError indicates bad command-line arguments.
	ExitUsageError
	// ExitGrammarError indicates the grammar file could not be read or parsed.
	ExitGrammarError
	// ExitParserError indicates the grammar parsed but a parser could not be
	// built from it (undefined symbol/token, conflict, or empty grammar).
	ExitParserError
	// ExitParsingError indicates a one-shot INPUT could not be tokenized or
	// parsed.
	ExitParsingError
)

var (
	returnCode  int   = ExitSuccess
	flagVersion *bool = pflag.BoolP("version", "v", false, "Print the current version and exit")
	flagLALR    *bool = pflag.BoolP("lalr", "l", false, "Build an LALR(1) parser instead of LR(1)")
	flagTrace   *bool = pflag.BoolP("trace", "t", false, "Print a shift/reduce trace alongside the parse tree")
)

// replConfig is the optional small REPL config file, loaded from the OS
// config dir if present.
type replConfig struct {
	Prompt      string `toml:"prompt"`
	DefaultLALR bool   `toml:"default_lalr"`
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] GRAMMAR-FILE [INPUT]\n\n", filepath.Base(os.Args[0]))
		pflag.PrintDefaults()
	}
	pflag.Parse()

	color.NoColor = color.NoColor || !isatty.IsTerminal(os.Stdout.Fd())

	if *flagVersion {
		fmt.Printf("lrpike %s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) < 1 {
		pflag.Usage()
		returnCode = ExitUsageError
		return
	}

	cfg := loadConfig()

	src, err := os.ReadFile(args[0])
	if err != nil {
		diagnostic("grammar error:", err)
		returnCode = ExitGrammarError
		return
	}

	g, err := grammar.Parse(string(src))
	if err != nil {
		diagnostic("grammar error:", err)
		returnCode = ExitGrammarError
		return
	}

	useLALR := *flagLALR || cfg.DefaultLALR
	parser, err := buildParser(g, useLALR)
	if err != nil {
		diagnostic("conflict:", err)
		returnCode = ExitParserError
		return
	}

	if len(args) >= 2 {
		if !runOnce(parser, args[1], *flagTrace) {
			returnCode = ExitParsingError
		}
		return
	}

	returnCode = repl(parser, useLALR, cfg)
}

func buildParser(g *grammar.Grammar, lalr bool) (*lrpike.Parser, error) {
	if lalr {
		return lrpike.LALR(g)
	}
	return lrpike.LR(g)
}

// diagnostic prints err with a colorized category prefix. The prefix is the
// only part that is colorized; the message text itself stays the plain,
// machine-readable string produced by the error's Error() method.
func diagnostic(category string, err error) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString(category), err.Error())
}

func runOnce(parser *lrpike.Parser, input string, trace bool) bool {
	if trace {
		tree, tr, err := parser.ParseTrace(input)
		if err != nil {
			diagnostic("syntax error:", err)
			return false
		}
		tr.Dump(os.Stdout)
		tree.Dump(os.Stdout)
		return true
	}

	tree, err := parser.Parse(input)
	if err != nil {
		diagnostic("syntax error:", err)
		return false
	}
	tree.Dump(os.Stdout)
	return true
}

func loadConfig() replConfig {
	cfg := replConfig{Prompt: "> "}
	dir, err := os.UserConfigDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(dir, "lrpike", "config.toml")
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return replConfig{Prompt: "> "}
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "> "
	}
	return cfg
}

func historyFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "lrpike")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, filepath.Base(os.Args[0])+".history")
}

func repl(parser *lrpike.Parser, lalr bool, cfg replConfig) int {
	sessionID := uuid.New().String()

	var reader interface {
		ReadCommand() (string, error)
		AllowBlank(bool)
		Close() error
	}
	if isatty.IsTerminal(os.Stdin.Fd()) {
		icr, err := input.NewInteractiveReader(historyFilePath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			return ExitUsageError
		}
		icr.SetPrompt(cfg.Prompt)
		reader = icr
	} else {
		reader = input.NewDirectReader(os.Stdin)
	}
	defer reader.Close()
	reader.AllowBlank(true)

	trace := *flagTrace
	fmt.Printf("lrpike %s — session %s\n", version.Current, sessionID)
	fmt.Printf("mode: %s (:lalr to toggle, :trace to toggle trace, :stats, :dump, :quit)\n", modeName(lalr))

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			fmt.Println()
			return ExitSuccess
		}
		if line == "" {
			continue
		}

		if line[0] == ':' {
			parts, err := shellquote.Split(line[1:])
			if err != nil || len(parts) == 0 {
				fmt.Fprintln(os.Stderr, "malformed directive")
				continue
			}
			switch parts[0] {
			case "quit", "exit":
				return ExitSuccess
			case "trace":
				trace = !trace
				fmt.Printf("trace: %v\n", trace)
			case "lalr":
				lalr = !lalr
				rebuilt, err := buildParser(parser.Grammar, lalr)
				if err != nil {
					diagnostic("conflict:", err)
					lalr = !lalr
					continue
				}
				parser = rebuilt
				fmt.Printf("mode: %s\n", modeName(lalr))
			case "stats":
				printStats(parser, sessionID)
			case "dump":
				dumpParser(parser, sessionID)
			default:
				fmt.Fprintf(os.Stderr, "unknown directive %q\n", parts[0])
			}
			continue
		}

		runOnce(parser, line, trace)
	}
}

func modeName(lalr bool) string {
	if lalr {
		return "LALR(1)"
	}
	return "LR(1)"
}

func printStats(p *lrpike.Parser, sessionID string) {
	fmt.Printf("session %s: %s states, %s rules\n",
		sessionID,
		humanize.Comma(int64(len(p.Automaton.States))),
		humanize.Comma(int64(len(p.Grammar.Rules))))
}

func dumpParser(p *lrpike.Parser, sessionID string) {
	fmt.Printf("--- dump (session %s) ---\n", sessionID)
	fmt.Print(p.Grammar.String())
	for _, state := range p.Automaton.States {
		fmt.Printf("state %d:\n", state.ID)
		for _, item := range state.Items {
			fmt.Printf("  %s\n", item)
		}
	}
}
