package ebnf

import (
	"errors"
	"testing"

	"github.com/dekarrin/grammarq/internal/bnf"
	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []bnf.Rule
	}{
		{
			name:  "literal",
			input: "<a>: abc",
			expect: []bnf.Rule{
				{Name: "a", Def: bnf.Lit("abc"), Line: 1},
			},
		},
		{
			name:  "digits are literal text",
			input: "<a>: abc123",
			expect: []bnf.Rule{
				{Name: "a", Def: bnf.Lit("abc123"), Line: 1},
			},
		},
		{
			name:  "spaces inside literals are ignored",
			input: "<a b>:   hello world  ",
			expect: []bnf.Rule{
				{Name: "ab", Def: bnf.Lit("helloworld"), Line: 1},
			},
		},
		{
			name:  "escapes",
			input: `<peter\ >: mueller\ \a\}\|`,
			expect: []bnf.Rule{
				{Name: "peter ", Def: bnf.Lit("mueller a}|"), Line: 1},
			},
		},
		{
			name:  "literal choice",
			input: "<a>: a|b|c",
			expect: []bnf.Rule{
				{Name: "a", Def: bnf.Choice(bnf.Lit("a"), bnf.Lit("b"), bnf.Lit("c")), Line: 1},
			},
		},
		{
			name:  "nested groups collapse",
			input: "<a>: ((((((abc))))))",
			expect: []bnf.Rule{
				{Name: "a", Def: bnf.Lit("abc"), Line: 1},
			},
		},
		{
			name:  "groups in sequence",
			input: "<a>: (a)(b)",
			expect: []bnf.Rule{
				{Name: "a", Def: bnf.Concat(bnf.Lit("a"), bnf.Lit("b")), Line: 1},
			},
		},
		{
			name:  "group in choice",
			input: "<a>: (a|b)|c",
			expect: []bnf.Rule{
				{Name: "a", Def: bnf.Choice(bnf.Choice(bnf.Lit("a"), bnf.Lit("b")), bnf.Lit("c")), Line: 1},
			},
		},
		{
			name:  "optional and repetition",
			input: "<list>: <item> {, <item>} [;]",
			expect: []bnf.Rule{
				{Name: "list", Def: bnf.Concat(
					bnf.Ref("item"),
					bnf.Repeat(bnf.Concat(bnf.Lit(","), bnf.Ref("item"))),
					bnf.Opt(bnf.Lit(";")),
				), Line: 1},
			},
		},
		{
			name:  "empty alternatives",
			input: "<a>: x | | y |",
			expect: []bnf.Rule{
				{Name: "a", Def: bnf.Choice(bnf.Lit("x"), bnf.Empty(), bnf.Lit("y"), bnf.Empty()), Line: 1},
			},
		},
		{
			name:  "empty body and empty group",
			input: "<a>:\n<b>: ()",
			expect: []bnf.Rule{
				{Name: "a", Def: bnf.Empty(), Line: 1},
				{Name: "b", Def: bnf.Empty(), Line: 2},
			},
		},
		{
			name:  "blank lines are skipped",
			input: "\n\n<a>: x\r\n\n<b>: <a> y\n",
			expect: []bnf.Rule{
				{Name: "a", Def: bnf.Lit("x"), Line: 3},
				{Name: "b", Def: bnf.Concat(bnf.Ref("a"), bnf.Lit("y")), Line: 5},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Parse("test.gq", tc.input)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Parse_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		expectLine int
	}{
		{name: "missing colon", input: "<a> x", expectLine: 1},
		{name: "missing name", input: "<>: x", expectLine: 1},
		{name: "unclosed group", input: "<a>: (x\n", expectLine: 1},
		{name: "mismatched brackets", input: "<a>: x\n<b>: (y]", expectLine: 2},
		{name: "colon in body", input: "<a>: x:y", expectLine: 1},
		{name: "stray closing bracket", input: "<a>: x)", expectLine: 1},
		{name: "text before rule", input: "abc\n<a>: x", expectLine: 1},
		{name: "two rules on a line", input: "<a>: x <b>: y", expectLine: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Parse("test.gq", tc.input)
			if !assert.Error(err) {
				return
			}

			var synErr SyntaxError
			if !assert.True(errors.As(err, &synErr)) {
				return
			}
			assert.Equal(tc.expectLine, synErr.Line())
			assert.Contains(synErr.FullMessage(), "test.gq")
		})
	}
}

func Test_SyntaxError_FullMessage(t *testing.T) {
	assert := assert.New(t)

	se := syntaxErrorAt("g.gq", "<a>: x\n<b>: (y]", 2, 6, "bad bracket")

	expect := "<b>: (y]\n" +
		"     ^\n" +
		"g.gq: syntax error: around line 2, char 6: bad bracket"

	assert.Equal(expect, se.FullMessage())
}
