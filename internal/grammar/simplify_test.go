package grammar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_Simplify(t *testing.T) {
	testCases := []struct {
		name   string
		input  Grammar
		expect string
	}{
		{
			name:   "single terminal is unchanged",
			input:  Grammar{Rules: []Rule{{{T("foo")}}}},
			expect: "Start: 0\n  0 -> 'foo'\n",
		},
		{
			name: "duplicate alternatives are removed",
			input: Grammar{Rules: []Rule{{
				{T("hello")}, {T("hello")}, {T("hello")}, {T("hello")},
			}}},
			expect: "Start: 0\n  0 -> 'hello'\n",
		},
		{
			name:   "adjacent terminals are concatenated",
			input:  Grammar{Rules: []Rule{{{T("hello"), T(" "), T("world")}}}},
			expect: "Start: 0\n  0 -> 'hello world'\n",
		},
		{
			name: "terminals are concatenated only up to a reference",
			input: Grammar{Rules: []Rule{
				{{T("a"), T("b"), NT(1), T("c"), T("")}},
				{{T("d")}},
			}},
			expect: "Start: 0\n  0 -> 'ab' 1 'c'\n  1 -> 'd'\n",
		},
		{
			name:   "empty terminals are removed",
			input:  Grammar{Rules: []Rule{{{T(""), T("a"), T("")}, {T("")}}}},
			expect: "Start: 0\n  0 -> \"\" | 'a'\n",
		},
		{
			name: "alternatives are sorted",
			input: Grammar{Rules: []Rule{
				{{T("b")}, {T("a")}, {NT(1)}, {}, {T("a"), NT(1)}},
				{{T("z")}},
			}},
			expect: "Start: 0\n  0 -> \"\" | 1 | 'a' | 'a' 1 | 'b'\n  1 -> 'z'\n",
		},
		{
			name:   "direct self reference is removed",
			input:  Grammar{Rules: []Rule{{{NT(0)}, {T("a")}}}},
			expect: "Start: 0\n  0 -> 'a'\n",
		},
		{
			name: "longer cycles are kept",
			input: Grammar{Rules: []Rule{
				{{NT(1)}, {T("a")}},
				{{NT(0)}, {T("b")}},
			}},
			expect: "Start: 0\n  0 -> 1 | 'a'\n  1 -> 0 | 'b'\n",
		},
		{
			name: "rule that derives nothing is cleared",
			input: Grammar{Rules: []Rule{
				{{NT(1)}, {T("a")}},
				{{NT(1), T("b")}},
			}},
			expect: "Start: 0\n  0 -> 1 | 'a'\n  1 -> undefined\n",
		},
		{
			name: "rules only used by an impossible rule are removed",
			input: Grammar{Rules: []Rule{
				{{NT(1)}, {T("a")}},
				{{NT(1), NT(2)}},
				{{T("c")}},
			}},
			expect: "Start: 0\n  0 -> 1 | 'a'\n  1 -> undefined\n",
		},
		{
			name: "unreachable rules are removed and the rest renumbered",
			input: Grammar{Start: 1, Rules: []Rule{
				{{T("x")}},
				{{NT(2)}},
				{{T("y")}},
			}},
			expect: "Start: 0\n  0 -> 1\n  1 -> 'y'\n",
		},
		{
			name:   "empty start rule is undefined",
			input:  Grammar{Rules: []Rule{{}, {{T("a")}}}},
			expect: "Start: 0\n  0 -> undefined\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := tc.input.Copy()
			g.Simplify()

			assert.Equal(tc.expect, g.String())
		})
	}
}

func Test_Grammar_Simplify_NoRules(t *testing.T) {
	assert := assert.New(t)

	g := Grammar{}

	assert.NotPanics(func() { g.Simplify() })
	assert.Empty(g.Rules)
}

func Test_Grammar_Simplify_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 300; i++ {
		g := Random(rng, 1+rng.Intn(6), 4, 4)
		if !assert.NoError(t, g.Validate()) {
			return
		}
		orig := g.String()

		g.Simplify()
		once := g.String()
		g.Simplify()
		twice := g.String()

		if !assert.Equal(t, once, twice, "simplify not idempotent for:\n%s", orig) {
			return
		}
		if !assert.NoError(t, g.Validate(), "simplify produced an invalid grammar for:\n%s", orig) {
			return
		}
	}
}
