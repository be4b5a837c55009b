// Package ebnf reads grammar files.
//
// A grammar file has one rule per line:
//
//	<name>: body
//
// A body is a list of alternatives separated by "|". Each alternative is a
// sequence of items, where an item is a reference to a rule like <name>, a
// group "( ... )", an optional part "[ ... ]", a part repeated zero or more
// times "{ ... }", or literal text. Spaces and tabs are ignored everywhere,
// including inside literal text, and a backslash makes the next character part
// of the literal text no matter what it is.
package ebnf

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/dekarrin/grammarq/internal/bnf"
)

type fileNode struct {
	Rules []*ruleNode `( @@ | Newline )*`
}

type ruleNode struct {
	Pos  lexer.Position
	Name string      `"<" @(Char | Escaped)+ ">" ":"`
	Body *choiceNode `@@?`
}

type choiceNode struct {
	Items []*itemNode `@@+`
}

type itemNode struct {
	Bar  bool      `  @"|"`
	Term *termNode `| @@`
}

type termNode struct {
	Pos   lexer.Position
	Ref   string     `  "<" @(Char | Escaped)+ ">"`
	Group *groupNode `| @@`
	Lit   string     `| @(Char | Escaped)+`
}

type groupNode struct {
	Pos   lexer.Position
	Open  string      `@("(" | "[" | "{")`
	Body  *choiceNode `@@?`
	Close string      `@(")" | "]" | "}")`
}

var grammarLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Escaped", Pattern: `\\(?s:.)`},
	{Name: "Newline", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Punct", Pattern: `[<>()\[\]{}|:]`},
	{Name: "Char", Pattern: `[^<>()\[\]{}|:\\\s]+`},
})

var grammarParser = participle.MustBuild[fileNode](
	participle.Lexer(grammarLexer),
	participle.Elide("Whitespace"),
	participle.Map(func(t lexer.Token) (lexer.Token, error) {
		t.Value = t.Value[1:]
		return t, nil
	}, "Escaped"),
)

var closers = map[string]string{
	"(": ")",
	"[": "]",
	"{": "}",
}

// Parse reads the rules of a grammar file. The filename is only used in error
// messages. Any error is returned as a SyntaxError.
func Parse(filename, src string) ([]bnf.Rule, error) {
	file, err := grammarParser.ParseString(filename, src)
	if err != nil {
		return nil, syntaxErrorFrom(filename, src, err)
	}

	c := converter{filename: filename, src: src}

	var rules []bnf.Rule
	for _, r := range file.Rules {
		def, err := c.choice(r.Body)
		if err != nil {
			return nil, err
		}
		rules = append(rules, bnf.Rule{Name: r.Name, Def: def, Line: r.Pos.Line})
	}

	return rules, nil
}

type converter struct {
	filename string
	src      string
}

func (c converter) choice(n *choiceNode) (bnf.Part, error) {
	if n == nil {
		return bnf.Empty(), nil
	}

	var alts []bnf.Part
	var seq []bnf.Part

	endAlt := func() {
		switch len(seq) {
		case 0:
			alts = append(alts, bnf.Empty())
		case 1:
			alts = append(alts, seq[0])
		default:
			alts = append(alts, bnf.Concat(seq...))
		}
		seq = nil
	}

	for _, item := range n.Items {
		if item.Bar {
			endAlt()
			continue
		}
		p, err := c.term(item.Term)
		if err != nil {
			return bnf.Part{}, err
		}
		seq = append(seq, p)
	}
	endAlt()

	if len(alts) == 1 {
		return alts[0], nil
	}
	return bnf.Choice(alts...), nil
}

func (c converter) term(n *termNode) (bnf.Part, error) {
	switch {
	case n.Ref != "":
		return bnf.Ref(n.Ref), nil
	case n.Group != nil:
		return c.group(n.Group)
	default:
		return bnf.Lit(n.Lit), nil
	}
}

func (c converter) group(n *groupNode) (bnf.Part, error) {
	if closers[n.Open] != n.Close {
		return bnf.Part{}, syntaxErrorAt(c.filename, c.src, n.Pos.Line, n.Pos.Column,
			fmt.Sprintf("%q opened here is closed by %q instead of %q", n.Open, n.Close, closers[n.Open]))
	}

	body, err := c.choice(n.Body)
	if err != nil {
		return bnf.Part{}, err
	}

	switch n.Open {
	case "[":
		return bnf.Opt(body), nil
	case "{":
		return bnf.Repeat(body), nil
	default:
		return body, nil
	}
}
