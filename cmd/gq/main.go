/*
Gq compiles context-free grammars and answers questions about their languages.

Usage:

	gq [flags] COMMAND FILE [ARGS...]

FILE is a grammar file with one rule per line, in the form "<name>: body". The
first rule in the file is the start of the grammar.

The commands are:

	parse FILE
		Compile the grammar and print it in normalized form.

	check FILE WORD
		Tell whether WORD is accepted by the grammar.

	check-file FILE WORDS_FILE
		Check every line of WORDS_FILE as a word and print one verdict per
		line.

	compare FILE OTHER [LIMIT]
		Compare the first LIMIT words of both grammars and print the words
		only accepted by each one.

	produce FILE [LIMIT]
		Print the first LIMIT words of the grammar, shortest first.

	repl FILE
		Start an interactive session with the grammar.

	version
		Give the current version of gq and then exit.

The flags are:

	-d, --debug
		Log the parsed rules and the normalized grammar while compiling.

	-c, --config FILE
		Read settings from the given TOML file. Defaults to gq.toml in the
		current working directory, if it exists.

	--cache FILE
		Keep compiled grammars in the given SQLite file and reuse them when a
		grammar file has not changed. Overrides the cache path in the config.

The exit code is 0 on success, 1 if the command line or config could not be
used, and 2 if a grammar could not be loaded.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/dekarrin/grammarq"
	"github.com/dekarrin/grammarq/internal/cache"
	"github.com/dekarrin/grammarq/internal/compare"
	"github.com/dekarrin/grammarq/internal/compile"
	"github.com/dekarrin/grammarq/internal/config"
	"github.com/dekarrin/grammarq/internal/ebnf"
	"github.com/dekarrin/grammarq/internal/produce"
	"github.com/dekarrin/grammarq/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates an unsuccessful program execution due to a
	// problem with the command line or configuration.
	ExitInitError

	// ExitGrammarError indicates an unsuccessful program execution due to a
	// grammar that could not be loaded.
	ExitGrammarError
)

var cli struct {
	Debug  bool   `short:"d" help:"Log the parsed rules and normalized grammar while compiling."`
	Config string `short:"c" help:"TOML config file to read settings from." type:"path"`
	Cache  string `help:"SQLite file to keep compiled grammars in." type:"path"`

	Parse     ParseCmd     `cmd:"" help:"Print the normalized grammar."`
	Check     CheckCmd     `cmd:"" help:"Check whether a word is accepted by the grammar."`
	CheckFile CheckFileCmd `cmd:"" name:"check-file" help:"Check every line of a file as a word."`
	Compare   CompareCmd   `cmd:"" help:"Print the words only accepted by one of two grammars."`
	Produce   ProduceCmd   `cmd:"" help:"Print the first words of the grammar."`
	Repl      ReplCmd      `cmd:"" help:"Start an interactive session with the grammar."`
	Version   VersionCmd   `cmd:"" help:"Print version information."`
}

// app is what every command gets to run with.
type app struct {
	cfg      config.Config
	compiler compile.Compiler
}

// grammarError marks errors from loading a grammar.
type grammarError struct {
	err error
}

func (e grammarError) Error() string {
	var synErr ebnf.SyntaxError
	if errors.As(e.err, &synErr) {
		return synErr.FullMessage()
	}
	return e.err.Error()
}

func (e grammarError) Unwrap() error {
	return e.err
}

func (a *app) load(file string) (compile.Result, error) {
	res, err := a.compiler.File(context.Background(), file)
	if err != nil {
		return res, grammarError{err}
	}
	return res, nil
}

type ParseCmd struct {
	File string `arg:"" help:"Grammar file." type:"existingfile"`
}

func (c *ParseCmd) Run(a *app) error {
	res, err := a.load(c.File)
	if err != nil {
		return err
	}

	if res.Cached {
		fmt.Print(res.CNF.Generic().String())
	} else {
		fmt.Print(res.Normalized.String())
	}
	return nil
}

type CheckCmd struct {
	File string `arg:"" help:"Grammar file." type:"existingfile"`
	Word string `arg:"" help:"Word to check."`
}

func (c *CheckCmd) Run(a *app) error {
	res, err := a.load(c.File)
	if err != nil {
		return err
	}

	verdict := "rejected"
	if res.CNF.Accepts(compile.Word(c.Word)) {
		verdict = "accepted"
	}
	fmt.Printf("`%s` is %s by this grammar.\n", c.Word, verdict)
	return nil
}

type CheckFileCmd struct {
	File  string `arg:"" help:"Grammar file." type:"existingfile"`
	Words string `arg:"" help:"File with one word per line." type:"existingfile"`
}

func (c *CheckFileCmd) Run(a *app) error {
	res, err := a.load(c.File)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.Words)
	if err != nil {
		return fmt.Errorf("read words file: %w", err)
	}

	for _, line := range wordLines(string(data)) {
		yn := "n"
		if res.CNF.Accepts(compile.Word(line)) {
			yn = "y"
		}
		fmt.Printf("[%s] '%s'\n", yn, line)
	}
	return nil
}

// wordLines splits the content of a words file into words. A newline at the
// very end of the file does not start another word.
func wordLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

type CompareCmd struct {
	File  string `arg:"" help:"Grammar file." type:"existingfile"`
	Other string `arg:"" help:"Grammar file to compare with." type:"existingfile"`
	Limit int    `arg:"" optional:"" help:"Number of words to take from each grammar."`
}

func (c *CompareCmd) Run(a *app) error {
	first, err := a.load(c.File)
	if err != nil {
		return err
	}
	second, err := a.load(c.Other)
	if err != nil {
		return err
	}

	limit := c.Limit
	if limit < 1 {
		limit = a.cfg.Compare.Limit
	}

	cmp := compare.Grammars(first.CNF, second.CNF, limit)
	fmt.Printf("words only accepted by the first grammar:\n%s\n", formatWords(cmp.OnlyFirst))
	fmt.Printf("words only accepted by the second grammar:\n%s\n", formatWords(cmp.OnlySecond))
	return nil
}

type ProduceCmd struct {
	File  string `arg:"" help:"Grammar file." type:"existingfile"`
	Limit int    `arg:"" optional:"" help:"Number of words to print."`
}

func (c *ProduceCmd) Run(a *app) error {
	res, err := a.load(c.File)
	if err != nil {
		return err
	}

	limit := c.Limit
	if limit < 1 {
		limit = a.cfg.Produce.Limit
	}

	words := produce.New(res.CNF).Take(limit)
	fmt.Printf("\nwords accepted by this grammar:\n%s\n", formatWords(words))
	return nil
}

type ReplCmd struct {
	File   string `arg:"" help:"Grammar file." type:"existingfile"`
	Direct bool   `help:"Read directly from stdin instead of going through GNU readline."`
}

func (c *ReplCmd) Run(a *app) error {
	eng, err := grammarq.New(os.Stdin, os.Stdout, c.File, c.Direct, a.cfg)
	if err != nil {
		return grammarError{err}
	}
	defer eng.Close()

	return eng.RunUntilQuit()
}

type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	fmt.Printf("%s\n", version.Current)
	return nil
}

func formatWords(words []string) string {
	quoted := make([]string, len(words))
	for i := range words {
		quoted[i] = fmt.Sprintf("%q", words[i])
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	parser := kong.Must(&cli,
		kong.Name("gq"),
		kong.Description("Compile context-free grammars and explore their languages."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\nDo -h for help.\n", err.Error())
		return ExitInitError
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitInitError
	}
	if cli.Cache != "" {
		cfg.Cache.Path = cli.Cache
	}

	a := &app{cfg: cfg}
	a.compiler.Debug = cli.Debug

	// the repl opens the cache itself
	if cfg.Cache.Path != "" && ctx.Command() != "repl <file>" {
		db, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return ExitInitError
		}
		defer db.Close()
		a.compiler.Cache = db
	}

	if err := ctx.Run(a); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())

		var gErr grammarError
		if errors.As(err, &gErr) {
			return ExitGrammarError
		}
		return ExitInitError
	}

	return ExitSuccess
}
