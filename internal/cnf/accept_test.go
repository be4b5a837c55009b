package cnf

import (
	"testing"

	"github.com/dekarrin/grammarq/internal/grammar"
	"github.com/stretchr/testify/assert"
)

func mustCompile(dump string) Grammar {
	g := grammar.MustParse(dump)
	g.Normalize()
	cg, err := FromNormalized(g)
	if err != nil {
		panic(err.Error())
	}
	return cg
}

func Test_Grammar_Accepts(t *testing.T) {
	type check struct {
		word   string
		expect bool
	}

	testCases := []struct {
		name   string
		input  string
		checks []check
	}{
		{
			name:  "literal choice",
			input: "0 -> 'a' | 'b' | 'c'",
			checks: []check{
				{"a", true}, {"b", true}, {"c", true},
				{"ab", false}, {"", false}, {"d", false},
			},
		},
		{
			name:  "sequence",
			input: "0 -> 1 2\n1 -> 'a'\n2 -> 'b'",
			checks: []check{
				{"ab", true}, {"ba", false}, {"a", false}, {"abb", false},
			},
		},
		{
			name:  "optional literal",
			input: "0 -> \"\" | 'hello'",
			checks: []check{
				{"", true}, {"hello", true}, {"hellohello", false}, {"hell", false},
			},
		},
		{
			name:  "multi-character terminals",
			input: "0 -> 'ab' 1\n1 -> 'cde' | 'f'",
			checks: []check{
				{"abcde", true}, {"abf", true}, {"ab", false}, {"abcd", false}, {"acde", false},
			},
		},
		{
			name:  "repetition",
			input: "0 -> \"\" | 0 0 | 'a'",
			checks: []check{
				{"", true}, {"a", true}, {"aaaaaaa", true}, {"aab", false},
			},
		},
		{
			name:  "balanced parentheses",
			input: "0 -> \"\" | '(' 0 ')' 0",
			checks: []check{
				{"", true}, {"()", true}, {"(())()", true}, {"(()", false}, {")(", false},
			},
		},
		{
			name:  "non-ascii characters",
			input: "0 -> 'ä' 0 | 'ö'",
			checks: []check{
				{"ö", true}, {"ääö", true}, {"äa", false},
			},
		},
		{
			name:  "nothing derivable",
			input: "0 -> 0 'a'",
			checks: []check{
				{"", false}, {"a", false}, {"aa", false},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := mustCompile(tc.input)

			for _, c := range tc.checks {
				assert.Equal(c.expect, g.Accepts(c.word), "word %q", c.word)
			}
		})
	}
}

func Test_Grammar_Accepts_NoRules(t *testing.T) {
	assert := assert.New(t)

	assert.False(Grammar{}.Accepts("a"))
	assert.True(Grammar{Null: true}.Accepts(""))
}
