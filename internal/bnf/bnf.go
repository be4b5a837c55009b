// Package bnf holds the syntax tree of a grammar file and converts it into a
// grammar.Grammar.
package bnf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/grammarq/internal/grammar"
)

// ErrUndefinedRule is returned when a rule is referenced but never defined.
var ErrUndefinedRule = errors.New("undefined rule")

// Kind is the type of a Part.
type Kind int

const (
	KindEmpty Kind = iota
	KindLiteral
	KindChoice
	KindConcat
	KindRepeat
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindLiteral:
		return "Literal"
	case KindChoice:
		return "Choice"
	case KindConcat:
		return "Concat"
	case KindRepeat:
		return "Repeat"
	case KindRef:
		return "Ref"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Part is a node of the syntax tree of a rule body. Text holds the string of a
// Literal and the rule name of a Ref. Parts holds the children of a Choice
// or Concat, and the single repeated part of a Repeat.
type Part struct {
	Kind  Kind
	Text  string
	Parts []Part
}

// Empty returns a Part that matches only the empty string.
func Empty() Part {
	return Part{Kind: KindEmpty}
}

// Lit returns a Part that matches s exactly.
func Lit(s string) Part {
	return Part{Kind: KindLiteral, Text: s}
}

// Choice returns a Part that matches any one of parts.
func Choice(parts ...Part) Part {
	return Part{Kind: KindChoice, Parts: parts}
}

// Concat returns a Part that matches each of parts in turn.
func Concat(parts ...Part) Part {
	return Part{Kind: KindConcat, Parts: parts}
}

// Repeat returns a Part that matches p zero or more times.
func Repeat(p Part) Part {
	return Part{Kind: KindRepeat, Parts: []Part{p}}
}

// Ref returns a Part that matches whatever the rule called name matches.
func Ref(name string) Part {
	return Part{Kind: KindRef, Text: name}
}

// Opt returns a Part that matches p or the empty string.
func Opt(p Part) Part {
	return Choice(p, Empty())
}

func (p Part) String() string {
	switch p.Kind {
	case KindEmpty:
		return "Empty"
	case KindLiteral:
		return strconv.Quote(p.Text)
	case KindRef:
		return "<" + p.Text + ">"
	default:
		sub := make([]string, len(p.Parts))
		for i := range p.Parts {
			sub[i] = p.Parts[i].String()
		}
		return fmt.Sprintf("%s(%s)", p.Kind, strings.Join(sub, ", "))
	}
}

// Rule is one rule definition. Line is the line of the source it was read
// from, or 0 if unknown.
type Rule struct {
	Name string
	Def  Part
	Line int
}

func (r Rule) String() string {
	return fmt.Sprintf("<%s>: %s", r.Name, r.Def.String())
}

// ToGrammar converts rule definitions into a grammar whose start is the rule
// called root. Every rule name gets its own nonterminal, numbered in the order
// the names are first defined and then first referenced. A name defined more
// than once has the bodies of all its definitions as alternatives.
//
// An error wrapping ErrUndefinedRule is returned if root or any referenced
// name has no definition.
func ToGrammar(rules []Rule, root string) (grammar.Grammar, error) {
	c := converter{
		g:     grammar.New(),
		names: map[string]grammar.NonTerminal{},
	}

	defined := map[string]bool{}
	for _, r := range rules {
		c.nonTerminal(r.Name)
		defined[r.Name] = true
	}
	for _, r := range rules {
		c.declareRefs(r.Def)
	}

	var undefined []string
	for _, name := range c.order {
		if !defined[name] {
			undefined = append(undefined, name)
		}
	}
	if len(undefined) > 0 {
		return grammar.Grammar{}, fmt.Errorf("%w: %s", ErrUndefinedRule, strings.Join(quoteAll(undefined), ", "))
	}
	if !defined[root] {
		return grammar.Grammar{}, fmt.Errorf("%w: root %q", ErrUndefinedRule, root)
	}

	for _, r := range rules {
		nt := c.names[r.Name]
		body := c.convert(r.Def)
		c.g.Rules[nt] = append(c.g.Rules[nt], grammar.Definition{grammar.NT(body)})
	}

	c.g.Start = c.names[root]
	return *c.g, nil
}

type converter struct {
	g     *grammar.Grammar
	names map[string]grammar.NonTerminal
	order []string
}

func (c *converter) nonTerminal(name string) grammar.NonTerminal {
	if nt, ok := c.names[name]; ok {
		return nt
	}
	nt := c.g.AddRule()
	c.names[name] = nt
	c.order = append(c.order, name)
	return nt
}

func (c *converter) declareRefs(p Part) {
	if p.Kind == KindRef {
		c.nonTerminal(p.Text)
		return
	}
	for i := range p.Parts {
		c.declareRefs(p.Parts[i])
	}
}

// convert adds the rules needed to match p and returns the nonterminal that
// matches it.
func (c *converter) convert(p Part) grammar.NonTerminal {
	switch p.Kind {
	case KindRef:
		return c.names[p.Text]
	case KindLiteral:
		return c.g.AddRule(grammar.Definition{grammar.T(p.Text)})
	case KindChoice:
		alts := make([]grammar.Definition, len(p.Parts))
		for i := range p.Parts {
			alts[i] = grammar.Definition{grammar.NT(c.convert(p.Parts[i]))}
		}
		return c.g.AddRule(alts...)
	case KindConcat:
		def := make(grammar.Definition, len(p.Parts))
		for i := range p.Parts {
			def[i] = grammar.NT(c.convert(p.Parts[i]))
		}
		return c.g.AddRule(def)
	case KindRepeat:
		self := c.g.AddRule()
		var inner grammar.NonTerminal
		if len(p.Parts) > 0 {
			inner = c.convert(p.Parts[0])
		} else {
			inner = c.g.AddRule(grammar.Definition{})
		}
		c.g.Rules[self] = grammar.Rule{
			{},
			{grammar.NT(self), grammar.NT(self)},
			{grammar.NT(inner)},
		}
		return self
	default:
		return c.g.AddRule(grammar.Definition{})
	}
}

func quoteAll(names []string) []string {
	q := make([]string, len(names))
	for i := range names {
		q[i] = strconv.Quote(names[i])
	}
	return q
}
