package bnf

import (
	"testing"

	"github.com/dekarrin/grammarq/internal/cnf"
	"github.com/stretchr/testify/assert"
)

func Test_ToGrammar_Layout(t *testing.T) {
	testCases := []struct {
		name   string
		rules  []Rule
		root   string
		expect string
	}{
		{
			name:   "literal",
			rules:  []Rule{{Name: "s", Def: Lit("a")}},
			root:   "s",
			expect: "Start: 0\n  0 -> 1\n  1 -> 'a'\n",
		},
		{
			name:   "repeat",
			rules:  []Rule{{Name: "s", Def: Repeat(Lit("a"))}},
			root:   "s",
			expect: "Start: 0\n  0 -> 1\n  1 -> \"\" | 1 1 | 2\n  2 -> 'a'\n",
		},
		{
			name:   "choice",
			rules:  []Rule{{Name: "s", Def: Choice(Lit("a"), Empty())}},
			root:   "s",
			expect: "Start: 0\n  0 -> 3\n  1 -> 'a'\n  2 -> \"\"\n  3 -> 1 | 2\n",
		},
		{
			name: "references are numbered after definitions",
			rules: []Rule{
				{Name: "s", Def: Concat(Ref("t"), Ref("s"))},
				{Name: "t", Def: Lit("x")},
			},
			root: "t",
			expect: "Start: 1\n" +
				"  0 -> 2\n" +
				"  1 -> 3\n" +
				"  2 -> 1 0\n" +
				"  3 -> 'x'\n",
		},
		{
			name: "repeated name collects alternatives",
			rules: []Rule{
				{Name: "s", Def: Lit("a")},
				{Name: "s", Def: Lit("b")},
			},
			root:   "s",
			expect: "Start: 0\n  0 -> 1 | 2\n  1 -> 'a'\n  2 -> 'b'\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := ToGrammar(tc.rules, tc.root)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, g.String())
			assert.NoError(g.Validate())
		})
	}
}

func Test_ToGrammar_Language(t *testing.T) {
	type check struct {
		word   string
		expect bool
	}

	testCases := []struct {
		name   string
		rules  []Rule
		checks []check
	}{
		{
			name: "literal choice",
			rules: []Rule{
				{Name: "start", Def: Choice(Lit("a"), Lit("b"), Lit("c"))},
			},
			checks: []check{{"a", true}, {"b", true}, {"c", true}, {"ab", false}, {"", false}},
		},
		{
			name: "optional",
			rules: []Rule{
				{Name: "start", Def: Concat(Lit("x"), Opt(Lit("y")))},
			},
			checks: []check{{"x", true}, {"xy", true}, {"y", false}, {"xyy", false}},
		},
		{
			name: "repetition of a reference",
			rules: []Rule{
				{Name: "list", Def: Concat(Ref("item"), Repeat(Concat(Lit(","), Ref("item"))))},
				{Name: "item", Def: Choice(Lit("a"), Lit("b"))},
			},
			checks: []check{{"a", true}, {"a,b,a", true}, {"a,", false}, {",a", false}, {"", false}},
		},
		{
			name: "nested repetition",
			rules: []Rule{
				{Name: "start", Def: Repeat(Repeat(Lit("a")))},
			},
			checks: []check{{"", true}, {"a", true}, {"aaaa", true}, {"b", false}},
		},
		{
			name: "recursion",
			rules: []Rule{
				{Name: "p", Def: Choice(Empty(), Concat(Lit("("), Ref("p"), Lit(")"), Ref("p")))},
			},
			checks: []check{{"", true}, {"(()())", true}, {"(()", false}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := ToGrammar(tc.rules, tc.rules[0].Name)
			if !assert.NoError(err) {
				return
			}
			g.Normalize()
			cg, err := cnf.FromNormalized(g)
			if !assert.NoError(err) {
				return
			}

			for _, c := range tc.checks {
				assert.Equal(c.expect, cg.Accepts(c.word), "word %q", c.word)
			}
		})
	}
}

func Test_ToGrammar_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		rules []Rule
		root  string
	}{
		{
			name:  "undefined reference",
			rules: []Rule{{Name: "s", Def: Concat(Lit("a"), Ref("missing"))}},
			root:  "s",
		},
		{
			name:  "undefined root",
			rules: []Rule{{Name: "s", Def: Lit("a")}},
			root:  "t",
		},
		{
			name: "no rules",
			root: "s",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := ToGrammar(tc.rules, tc.root)

			assert.ErrorIs(err, ErrUndefinedRule)
		})
	}
}

func Test_Part_String(t *testing.T) {
	assert := assert.New(t)

	p := Concat(Ref("a"), Opt(Lit("x")), Repeat(Lit("y")))

	assert.Equal(`Concat(<a>, Choice("x", Empty), Repeat("y"))`, p.String())
}
