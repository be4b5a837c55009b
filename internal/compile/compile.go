// Package compile turns grammar source text into a CNF grammar.
package compile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dekarrin/grammarq/internal/bnf"
	"github.com/dekarrin/grammarq/internal/cnf"
	"github.com/dekarrin/grammarq/internal/ebnf"
	"github.com/dekarrin/grammarq/internal/grammar"
	"golang.org/x/text/unicode/norm"
)

// ErrNoRules is returned when grammar source defines no rules at all.
var ErrNoRules = errors.New("grammar has no rules")

// Cache stores compiled grammars by their source text.
type Cache interface {
	Get(ctx context.Context, src string) (cnf.Grammar, bool, error)
	Put(ctx context.Context, src string, g cnf.Grammar) error
}

// Result is the output of compiling a grammar. Rules and Normalized are not
// set when the grammar came out of a cache.
type Result struct {
	Rules      []bnf.Rule
	Normalized grammar.Grammar
	CNF        cnf.Grammar
	Cached     bool
}

// Compiler compiles grammar source. The zero value compiles without a cache.
type Compiler struct {
	// Cache, if set, is checked before compiling and filled afterwards.
	Cache Cache

	// Debug turns on DEBUG log output of each compilation stage.
	Debug bool
}

// Source compiles grammar source text with the default Compiler.
func Source(name, src string) (Result, error) {
	return Compiler{}.Source(context.Background(), name, src)
}

// File reads and compiles the grammar file at path with the default
// Compiler.
func File(path string) (Result, error) {
	return Compiler{}.File(context.Background(), path)
}

// File reads and compiles the grammar file at path.
func (c Compiler) File(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read grammar file: %w", err)
	}
	return c.Source(ctx, path, string(data))
}

// Source compiles grammar source text. The first rule of the source is the
// start of the grammar. The name is only used in error messages.
//
// Source text is brought into Unicode normalization form C first, so
// composed and decomposed spellings of the same characters are treated the
// same.
func (c Compiler) Source(ctx context.Context, name, src string) (Result, error) {
	src = norm.NFC.String(src)

	if c.Cache != nil {
		g, ok, err := c.Cache.Get(ctx, src)
		if err != nil {
			log.Printf("WARN  grammar cache lookup failed: %v", err)
		} else if ok {
			c.debugf("using cached grammar for %s", name)
			return Result{CNF: g, Cached: true}, nil
		}
	}

	rules, err := ebnf.Parse(name, src)
	if err != nil {
		return Result{}, err
	}
	if len(rules) == 0 {
		return Result{}, fmt.Errorf("%s: %w", name, ErrNoRules)
	}
	for _, r := range rules {
		c.debugf("%s", r)
	}

	g, err := bnf.ToGrammar(rules, rules[0].Name)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}

	g.Normalize()
	c.debugf("normalized grammar:\n%s", g)

	cg, err := cnf.FromNormalized(g)
	if err != nil {
		return Result{}, fmt.Errorf("%s: normalization left grammar invalid: %w", name, err)
	}

	if c.Cache != nil {
		if err := c.Cache.Put(ctx, src, cg); err != nil {
			log.Printf("WARN  grammar cache store failed: %v", err)
		}
	}

	return Result{Rules: rules, Normalized: g, CNF: cg}, nil
}

// Word brings a word into the same Unicode normalization form as compiled
// grammar source, so it can be checked against the grammar.
func Word(w string) string {
	return norm.NFC.String(w)
}

func (c Compiler) debugf(format string, a ...interface{}) {
	if c.Debug {
		log.Printf("DEBUG "+format, a...)
	}
}
