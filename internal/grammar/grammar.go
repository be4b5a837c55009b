// Package grammar holds the generic context-free grammar representation used
// between the front end and the Chomsky normal form. Rules are kept in a flat
// table and refer to each other by index.
package grammar

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NonTerminal is an index into the rule table of a Grammar. It is only
// meaningful within the Grammar that issued it and is renumbered whenever
// rules are compacted.
type NonTerminal int

// Token is a single element of a Definition; either a reference to a rule or a
// terminal string.
type Token struct {
	nt   NonTerminal
	term string
	isNT bool
}

// NT returns a Token that refers to the rule at index n.
func NT(n NonTerminal) Token {
	return Token{nt: n, isNT: true}
}

// T returns a Token that matches the literal string s.
func T(s string) Token {
	return Token{term: s}
}

// IsTerminal returns whether the token is a terminal string.
func (t Token) IsTerminal() bool {
	return !t.isNT
}

// IsEmpty returns whether the token is the empty terminal.
func (t Token) IsEmpty() bool {
	return !t.isNT && t.term == ""
}

// NonTerminal returns the rule index the token refers to. It is only valid if
// IsTerminal returns false.
func (t Token) NonTerminal() NonTerminal {
	return t.nt
}

// Terminal returns the literal string of the token. It is only valid if
// IsTerminal returns true.
func (t Token) Terminal() string {
	return t.term
}

func (t Token) String() string {
	if t.isNT {
		return fmt.Sprintf("%d", t.nt)
	}
	return quoteTerminal(t.term)
}

// Compare gives the sort order of two tokens. References sort before terminals,
// references are ordered by index and terminals by their characters.
func (t Token) Compare(o Token) int {
	if t.isNT != o.isNT {
		if t.isNT {
			return -1
		}
		return 1
	}
	if t.isNT {
		return int(t.nt) - int(o.nt)
	}
	return strings.Compare(t.term, o.term)
}

// Definition is one alternative of a Rule. An empty Definition derives the
// empty string.
type Definition []Token

// Copy returns a deep-copied duplicate of the definition.
func (d Definition) Copy() Definition {
	d2 := make(Definition, len(d))
	copy(d2, d)
	return d2
}

// Equal returns whether the two definitions hold the same tokens.
func (d Definition) Equal(o Definition) bool {
	return d.Compare(o) == 0
}

// Compare orders definitions lexicographically by token. A definition that is
// a prefix of another sorts first.
func (d Definition) Compare(o Definition) int {
	for i := 0; i < len(d) && i < len(o); i++ {
		if c := d[i].Compare(o[i]); c != 0 {
			return c
		}
	}
	return len(d) - len(o)
}

// IsUnit returns whether the definition is a single reference to a rule.
func (d Definition) IsUnit() bool {
	return len(d) == 1 && !d[0].IsTerminal()
}

func (d Definition) String() string {
	if len(d) == 0 {
		return `""`
	}

	var sb strings.Builder
	for i := range d {
		if i > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteString(d[i].String())
	}
	return sb.String()
}

// Rule is the set of alternatives of one nonterminal. The order of the
// alternatives carries no meaning.
type Rule []Definition

// Copy returns a deep-copied duplicate of the rule.
func (r Rule) Copy() Rule {
	r2 := make(Rule, len(r))
	for i := range r {
		r2[i] = r[i].Copy()
	}
	return r2
}

// HasDefinition returns whether the rule contains an alternative equal to def.
func (r Rule) HasDefinition(def Definition) bool {
	for i := range r {
		if r[i].Equal(def) {
			return true
		}
	}
	return false
}

func (r Rule) String() string {
	if len(r) == 0 {
		return "undefined"
	}

	alts := make([]string, len(r))
	for i := range r {
		alts[i] = r[i].String()
	}
	return strings.Join(alts, " | ")
}

// Grammar is a context-free grammar in no particular normal form. Every
// NonTerminal referenced in Rules, as well as Start, must be a valid index
// into Rules.
type Grammar struct {
	Start NonTerminal
	Rules []Rule
}

// New returns an empty Grammar.
func New() *Grammar {
	return &Grammar{}
}

// AddRule appends a new rule made of the given alternatives and returns the
// NonTerminal that refers to it.
func (g *Grammar) AddRule(defs ...Definition) NonTerminal {
	r := make(Rule, len(defs))
	copy(r, defs)
	g.Rules = append(g.Rules, r)
	return NonTerminal(len(g.Rules) - 1)
}

// Rule returns the rule for the given nonterminal.
func (g Grammar) Rule(nt NonTerminal) Rule {
	return g.Rules[nt]
}

// Copy returns a deep-copied duplicate of the grammar.
func (g Grammar) Copy() Grammar {
	g2 := Grammar{Start: g.Start, Rules: make([]Rule, len(g.Rules))}
	for i := range g.Rules {
		g2.Rules[i] = g.Rules[i].Copy()
	}
	return g2
}

// Equal returns whether two grammars have the same start and the same
// alternatives in the same order.
func (g Grammar) Equal(o Grammar) bool {
	if g.Start != o.Start || len(g.Rules) != len(o.Rules) {
		return false
	}
	for i := range g.Rules {
		if len(g.Rules[i]) != len(o.Rules[i]) {
			return false
		}
		for j := range g.Rules[i] {
			if !g.Rules[i][j].Equal(o.Rules[i][j]) {
				return false
			}
		}
	}
	return true
}

// Validate checks that Start and every reference point at existing rules.
func (g Grammar) Validate() error {
	if len(g.Rules) == 0 {
		return fmt.Errorf("grammar has no rules")
	}
	if g.Start < 0 || int(g.Start) >= len(g.Rules) {
		return fmt.Errorf("start %d is not a rule", g.Start)
	}

	var errs []string
	for idx, r := range g.Rules {
		for _, def := range r {
			for _, tok := range def {
				if tok.IsTerminal() {
					continue
				}
				if tok.nt < 0 || int(tok.nt) >= len(g.Rules) {
					errs = append(errs, fmt.Sprintf("rule %d refers to nonexistent rule %d", idx, tok.nt))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid grammar:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

// String gives the dump format of the grammar: a Start line followed by one
// line per rule.
func (g Grammar) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Start: %d\n", g.Start))
	for idx, r := range g.Rules {
		sb.WriteString(fmt.Sprintf("%3d -> %s\n", idx, r.String()))
	}

	return sb.String()
}

// CompareTerminals gives the order of words used throughout: shorter strings
// first, and strings of the same length by character.
func CompareTerminals(a, b string) int {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la != lb {
		if la < lb {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func quoteTerminal(s string) string {
	var sb strings.Builder
	sb.WriteRune('\'')
	for _, ch := range s {
		if ch == '\'' || ch == '\\' {
			sb.WriteRune('\\')
		}
		sb.WriteRune(ch)
	}
	sb.WriteRune('\'')
	return sb.String()
}
