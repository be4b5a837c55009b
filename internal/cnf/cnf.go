// Package cnf contains grammars in Chomsky normal form. Only the two shapes of
// alternative the form allows can be represented, so a Grammar from this
// package can be handed to the acceptor and the word producer as is.
package cnf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/grammarq/internal/grammar"
)

var (
	// ErrOnlyStartMayBeNullable is the cause of a NormalFormError for an empty
	// alternative in a rule other than the start rule.
	ErrOnlyStartMayBeNullable = errors.New("only the starting rule may produce the empty string")

	// ErrUnitProductionNotAllowed is the cause of a NormalFormError for an
	// alternative made of one reference.
	ErrUnitProductionNotAllowed = errors.New("unit productions are not allowed")

	// ErrInvalidArity is the cause of a NormalFormError for an alternative of
	// two tokens that are not both references, or of more than two tokens.
	ErrInvalidArity = errors.New("alternatives must be one terminal or two nonterminals")
)

// NormalFormError reports the alternative of a grammar that keeps it from
// being in Chomsky normal form. Use errors.Is against the Err* values of this
// package to find out which rule of the form was broken.
type NormalFormError struct {
	Rule        grammar.NonTerminal
	Alternative grammar.Definition
	cause       error
}

func (e *NormalFormError) Error() string {
	return fmt.Sprintf("rule %d alternative %s: %s", e.Rule, e.Alternative.String(), e.cause.Error())
}

func (e *NormalFormError) Unwrap() error {
	return e.cause
}

// Alternative is one alternative of a Rule: either a terminal string or the
// concatenation of two rules.
type Alternative struct {
	term    string
	product [2]grammar.NonTerminal
	isTerm  bool
}

// Term returns an Alternative that derives exactly s.
func Term(s string) Alternative {
	return Alternative{term: s, isTerm: true}
}

// Product returns an Alternative that derives every string of a followed by a
// string of b.
func Product(a, b grammar.NonTerminal) Alternative {
	return Alternative{product: [2]grammar.NonTerminal{a, b}}
}

// IsTerm returns whether the alternative is a terminal.
func (alt Alternative) IsTerm() bool {
	return alt.isTerm
}

// Terminal returns the string of a Term alternative.
func (alt Alternative) Terminal() string {
	return alt.term
}

// Factors returns the two rules of a Product alternative.
func (alt Alternative) Factors() (grammar.NonTerminal, grammar.NonTerminal) {
	return alt.product[0], alt.product[1]
}

func (alt Alternative) String() string {
	if alt.isTerm {
		return grammar.Definition{grammar.T(alt.term)}.String()
	}
	return fmt.Sprintf("%d %d", alt.product[0], alt.product[1])
}

// Rule is the alternatives of one nonterminal.
type Rule []Alternative

// Grammar is a grammar in Chomsky normal form. Whether the start rule derives
// the empty string is recorded in Null instead of as an alternative. A
// Grammar is not modified after it is created and may be shared freely.
type Grammar struct {
	Start grammar.NonTerminal
	Null  bool
	Rules []Rule
}

// FromNormalized converts a grammar that is already in Chomsky normal form,
// such as one returned from grammar.Grammar.Normalize. The first alternative
// that does not fit the form is returned as a *NormalFormError.
func FromNormalized(g grammar.Grammar) (Grammar, error) {
	cg := Grammar{
		Start: g.Start,
		Rules: make([]Rule, len(g.Rules)),
	}

	for idx, r := range g.Rules {
		nt := grammar.NonTerminal(idx)
		cr := make(Rule, 0, len(r))

		for _, def := range r {
			var cause error

			switch len(def) {
			case 0:
				if nt != g.Start {
					cause = ErrOnlyStartMayBeNullable
				} else {
					cg.Null = true
				}
			case 1:
				if !def[0].IsTerminal() {
					cause = ErrUnitProductionNotAllowed
				} else {
					cr = append(cr, Term(def[0].Terminal()))
				}
			case 2:
				if def[0].IsTerminal() || def[1].IsTerminal() {
					cause = ErrInvalidArity
				} else {
					cr = append(cr, Product(def[0].NonTerminal(), def[1].NonTerminal()))
				}
			default:
				cause = ErrInvalidArity
			}

			if cause != nil {
				return Grammar{}, &NormalFormError{Rule: nt, Alternative: def.Copy(), cause: cause}
			}
		}

		cg.Rules[idx] = cr
	}

	return cg, nil
}

// Generic returns the grammar as a grammar.Grammar, with an empty start
// alternative if Null is set.
func (g Grammar) Generic() grammar.Grammar {
	gg := grammar.Grammar{Start: g.Start, Rules: make([]grammar.Rule, len(g.Rules))}

	for idx, r := range g.Rules {
		gr := make(grammar.Rule, 0, len(r)+1)
		if g.Null && grammar.NonTerminal(idx) == g.Start {
			gr = append(gr, grammar.Definition{})
		}
		for _, alt := range r {
			if alt.isTerm {
				gr = append(gr, grammar.Definition{grammar.T(alt.term)})
			} else {
				gr = append(gr, grammar.Definition{grammar.NT(alt.product[0]), grammar.NT(alt.product[1])})
			}
		}
		gg.Rules[idx] = gr
	}

	return gg
}

// Terminals returns every distinct terminal string used in the grammar in
// terminal order.
func (g Grammar) Terminals() []string {
	seen := map[string]bool{}
	var terms []string
	for _, r := range g.Rules {
		for _, alt := range r {
			if alt.isTerm && !seen[alt.term] {
				seen[alt.term] = true
				terms = append(terms, alt.term)
			}
		}
	}
	sortTerminals(terms)
	return terms
}

// String gives the dump format of grammar.Grammar.String with an added line
// for Null.
func (g Grammar) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Start: %d\n", g.Start))
	sb.WriteString(fmt.Sprintf("Null: %t\n", g.Null))
	for idx, r := range g.Rules {
		alts := make([]string, len(r))
		for i := range r {
			alts[i] = r[i].String()
		}
		body := strings.Join(alts, " | ")
		if len(r) == 0 {
			body = "undefined"
		}
		sb.WriteString(fmt.Sprintf("%3d -> %s\n", idx, body))
	}
	return sb.String()
}
