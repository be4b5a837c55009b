// Package grammarq contains a CLI-driven engine for checking words against a
// grammar and listing and comparing the words of grammars until the user
// quits.
package grammarq

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/grammarq/internal/cache"
	"github.com/dekarrin/grammarq/internal/command"
	"github.com/dekarrin/grammarq/internal/compare"
	"github.com/dekarrin/grammarq/internal/compile"
	"github.com/dekarrin/grammarq/internal/config"
	"github.com/dekarrin/grammarq/internal/gqerrors"
	"github.com/dekarrin/grammarq/internal/input"
	"github.com/dekarrin/grammarq/internal/produce"
	"github.com/dekarrin/rosed"
)

// Engine contains the things needed to run a checker session from an
// interactive shell attached to an input stream and an output stream.
type Engine struct {
	file        string
	grammar     compile.Result
	compiler    compile.Compiler
	cache       *cache.DB
	cfg         config.Config
	producer    *produce.Producer
	produced    int
	in          command.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

const consoleOutputWidth = 80

var tableOptions = rosed.Options{
	TableHeaders:             true,
	NoTrailingLineSeparators: true,
}

// New creates a new engine ready to operate on the given input and output
// streams. It compiles the grammar in grammarFile right away, so any problem
// with the grammar is returned here.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. GNU readline style input is used only when
// both are attached to the console and forceDirect is false.
func New(inputStream io.Reader, outputStream io.Writer, grammarFile string, forceDirect bool, cfg config.Config) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	defaults := config.Default()
	if cfg.Produce.Limit < 1 {
		cfg.Produce.Limit = defaults.Produce.Limit
	}
	if cfg.Compare.Limit < 1 {
		cfg.Compare.Limit = defaults.Compare.Limit
	}

	eng := &Engine{
		file:        grammarFile,
		cfg:         cfg,
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirect,
	}

	if cfg.Cache.Path != "" {
		db, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("open grammar cache: %w", err)
		}
		eng.cache = db
		eng.compiler.Cache = db
	}

	var err error
	eng.grammar, err = eng.compiler.File(context.Background(), grammarFile)
	if err != nil {
		eng.closeCache()
		return nil, err
	}

	useReadline := !forceDirect && inputStream == os.Stdin && outputStream == os.Stdout
	if useReadline {
		eng.in, err = input.NewInteractiveReader(command.Verbs, "")
		if err != nil {
			eng.closeCache()
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	if err := eng.in.Close(); err != nil {
		eng.closeCache()
		return fmt.Errorf("close command reader: %w", err)
	}

	return eng.closeCache()
}

func (eng *Engine) closeCache() error {
	if eng.cache == nil {
		return nil
	}
	if err := eng.cache.Close(); err != nil {
		return fmt.Errorf("close grammar cache: %w", err)
	}
	eng.cache = nil
	return nil
}

// RunUntilQuit begins reading commands from the streams and carrying them out
// until the QUIT command is received or input ends.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "grammarq interactive checker\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "============================\n"
	introMsg += "\n"
	introMsg += fmt.Sprintf("Loaded grammar %s with %d rules.\n", eng.file, len(eng.grammar.CNF.Rules))
	introMsg += "Type HELP for a list of commands.\n"

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	defer func() {
		eng.running = false
	}()

	for eng.running {
		cmd, err := command.Get(eng.in, eng.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		if cmd.Verb == "QUIT" {
			break
		}

		output, err := eng.Execute(cmd)
		if err != nil {
			output = rosed.Edit(gqerrors.ConsoleMessage(err)).Wrap(consoleOutputWidth).String()
		}
		if err := eng.write(output + "\n"); err != nil {
			return err
		}
	}

	return eng.write("Goodbye\n")
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

// Execute carries out a single command and returns the text to show for it.
// QUIT is not handled by Execute.
func (eng *Engine) Execute(cmd command.Command) (string, error) {
	switch cmd.Verb {
	case "CHECK":
		return eng.check(cmd.Args), nil
	case "PRODUCE":
		eng.producer = produce.New(eng.grammar.CNF)
		eng.produced = 0
		return eng.more(cmd.Count), nil
	case "MORE":
		if eng.producer == nil {
			eng.producer = produce.New(eng.grammar.CNF)
			eng.produced = 0
		}
		return eng.more(cmd.Count), nil
	case "COMPARE":
		return eng.compare(cmd.Args[0], cmd.Count)
	case "GRAMMAR":
		return strings.TrimSuffix(eng.grammar.CNF.String(), "\n"), nil
	case "HELP":
		if len(cmd.Args) > 0 {
			return helpFor(cmd.Args[0])
		}
		return help(), nil
	default:
		return "", gqerrors.Command(
			fmt.Sprintf("I can't %s right now", cmd.Verb),
			fmt.Sprintf("unhandled verb %q", cmd.Verb),
		)
	}
}

func (eng *Engine) check(words []string) string {
	if len(words) == 1 {
		verdict := "rejected"
		if eng.grammar.CNF.Accepts(compile.Word(words[0])) {
			verdict = "accepted"
		}
		return fmt.Sprintf("%s is %s by this grammar.", quoteWord(words[0]), verdict)
	}

	var sb strings.Builder
	for i, w := range words {
		if i > 0 {
			sb.WriteRune('\n')
		}
		mark := "n"
		if eng.grammar.CNF.Accepts(compile.Word(w)) {
			mark = "y"
		}
		sb.WriteString(fmt.Sprintf("[%s] %s", mark, quoteWord(w)))
	}
	return sb.String()
}

func (eng *Engine) more(n int) string {
	if n < 1 {
		n = eng.cfg.Produce.Limit
	}

	words := eng.producer.Take(n)

	var footer string
	if eng.producer.Done() {
		footer = "(no more words)"
	} else {
		footer = "(type MORE for more words)"
	}

	if len(words) == 0 {
		if eng.produced == 0 {
			return "This grammar has no words.\n" + footer
		}
		return footer
	}

	data := [][]string{{"#", "Word"}}
	for _, w := range words {
		eng.produced++
		data = append(data, []string{strconv.Itoa(eng.produced), quoteWord(w)})
	}

	return rosed.Edit("\n"+footer).
		InsertTableOpts(0, data, consoleOutputWidth, tableOptions).
		String()
}

func (eng *Engine) compare(otherFile string, limit int) (string, error) {
	if limit < 1 {
		limit = eng.cfg.Compare.Limit
	}

	other, err := eng.compiler.File(context.Background(), otherFile)
	if err != nil {
		return "", gqerrors.Wrapf(err, "Could not load %s: %v", otherFile, err)
	}

	c := compare.Grammars(eng.grammar.CNF, other.CNF, limit)

	summary := fmt.Sprintf("%d words are in both grammars.", len(c.Both))
	if c.Equal() {
		return fmt.Sprintf("No difference found within the first %d words of each grammar.\n%s", limit, summary), nil
	}

	data := [][]string{{"Only in " + filepath.Base(eng.file), "Only in " + filepath.Base(otherFile)}}
	rows := max(len(c.OnlyFirst), len(c.OnlySecond))
	for i := 0; i < rows; i++ {
		row := []string{"", ""}
		if i < len(c.OnlyFirst) {
			row[0] = quoteWord(c.OnlyFirst[i])
		}
		if i < len(c.OnlySecond) {
			row[1] = quoteWord(c.OnlySecond[i])
		}
		data = append(data, row)
	}

	return rosed.Edit("\n"+summary).
		InsertTableOpts(0, data, consoleOutputWidth, tableOptions).
		String(), nil
}

var helpText = map[string]string{
	"CHECK":   "CHECK WORD...: tell whether each WORD is accepted by the grammar. Put a word in quotes to include spaces, and use '' for the empty word.",
	"PRODUCE": "PRODUCE [N]: list the first N words of the grammar, shortest first.",
	"MORE":    "MORE [N]: list the next N words after the ones already listed.",
	"COMPARE": "COMPARE FILE [N]: compare the first N words of the grammar with the first N words of the grammar in FILE.",
	"GRAMMAR": "GRAMMAR: show the grammar in Chomsky normal form.",
	"HELP":    "HELP [COMMAND]: show the list of commands, or help on one command.",
	"QUIT":    "QUIT: leave the checker.",
}

func help() string {
	data := [][]string{{"Command", "Description"}}
	for _, v := range command.Verbs {
		desc := helpText[v]
		if _, after, ok := strings.Cut(desc, ": "); ok {
			desc = after
		}
		data = append(data, []string{v, desc})
	}

	return rosed.Edit("\nType HELP followed by a command for more info on it.").
		InsertTableOpts(0, data, consoleOutputWidth, tableOptions).
		String()
}

func helpFor(verb string) (string, error) {
	text, ok := helpText[verb]
	if !ok {
		return "", gqerrors.Commandf("There is no command called %q", verb)
	}

	var aliases []string
	for alias, canon := range command.VerbAliases {
		if canon == verb {
			aliases = append(aliases, alias)
		}
	}
	if len(aliases) > 0 {
		sort.Strings(aliases)
		text += "\n\nAlso: " + strings.Join(aliases, ", ")
	}

	return rosed.Edit(text).Wrap(consoleOutputWidth).String(), nil
}

func quoteWord(w string) string {
	w = strings.ReplaceAll(w, `\`, `\\`)
	w = strings.ReplaceAll(w, `'`, `\'`)
	return "'" + w + "'"
}
