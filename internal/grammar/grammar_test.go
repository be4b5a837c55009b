package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Token_Compare(t *testing.T) {
	testCases := []struct {
		name   string
		a      Token
		b      Token
		expect int
	}{
		{name: "nonterminal before terminal", a: NT(5), b: T("a"), expect: -1},
		{name: "terminal after nonterminal", a: T(""), b: NT(0), expect: 1},
		{name: "nonterminals by index", a: NT(1), b: NT(3), expect: -1},
		{name: "same nonterminal", a: NT(2), b: NT(2), expect: 0},
		{name: "terminals by character", a: T("b"), b: T("ab"), expect: 1},
		{name: "same terminal", a: T("xy"), b: T("xy"), expect: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := tc.a.Compare(tc.b)

			switch {
			case tc.expect < 0:
				assert.Negative(actual)
			case tc.expect > 0:
				assert.Positive(actual)
			default:
				assert.Zero(actual)
			}
		})
	}
}

func Test_Definition_Compare(t *testing.T) {
	testCases := []struct {
		name   string
		a      Definition
		b      Definition
		expect int
	}{
		{name: "empty before anything", a: Definition{}, b: Definition{NT(0)}, expect: -1},
		{name: "prefix first", a: Definition{T("a")}, b: Definition{T("a"), NT(0)}, expect: -1},
		{name: "first differing token decides", a: Definition{NT(1), T("z")}, b: Definition{NT(0), T("a"), T("b")}, expect: 1},
		{name: "equal", a: Definition{NT(1), T("z")}, b: Definition{NT(1), T("z")}, expect: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := tc.a.Compare(tc.b)

			switch {
			case tc.expect < 0:
				assert.Negative(actual)
			case tc.expect > 0:
				assert.Positive(actual)
			default:
				assert.Zero(actual)
			}
		})
	}
}

func Test_CompareTerminals(t *testing.T) {
	testCases := []struct {
		name   string
		a      string
		b      string
		expect int
	}{
		{name: "shorter first", a: "zz", b: "aaa", expect: -1},
		{name: "longer last", a: "a", b: "", expect: 1},
		{name: "same length by character", a: "ab", b: "aa", expect: 1},
		{name: "length counts characters not bytes", a: "é", b: "ab", expect: -1},
		{name: "equal", a: "hello", b: "hello", expect: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := CompareTerminals(tc.a, tc.b)

			switch {
			case tc.expect < 0:
				assert.Negative(actual)
			case tc.expect > 0:
				assert.Positive(actual)
			default:
				assert.Zero(actual)
			}
		})
	}
}

func Test_Grammar_AddRule(t *testing.T) {
	assert := assert.New(t)

	g := New()
	a := g.AddRule(Definition{T("a")})
	s := g.AddRule(Definition{NT(a), NT(a)}, Definition{})

	assert.Equal(NonTerminal(0), a)
	assert.Equal(NonTerminal(1), s)
	assert.Len(g.Rules, 2)
	assert.Len(g.Rule(s), 2)
}

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		g         Grammar
		expectErr bool
	}{
		{
			name:      "no rules",
			g:         Grammar{},
			expectErr: true,
		},
		{
			name:      "start out of range",
			g:         Grammar{Start: 1, Rules: []Rule{{{T("a")}}}},
			expectErr: true,
		},
		{
			name:      "reference out of range",
			g:         Grammar{Rules: []Rule{{{NT(0), NT(4)}}}},
			expectErr: true,
		},
		{
			name: "valid",
			g:    Grammar{Rules: []Rule{{{NT(1)}}, {{T("x")}, {}}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.g.Validate()

			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Grammar_String(t *testing.T) {
	assert := assert.New(t)

	g := Grammar{
		Start: 1,
		Rules: []Rule{
			{{T("it's")}, {T(`a\b`)}},
			{{}, {NT(0), T("x"), NT(2)}},
			{},
		},
	}

	expect := "Start: 1\n" +
		`  0 -> 'it\'s' | 'a\\b'` + "\n" +
		`  1 -> "" | 0 'x' 2` + "\n" +
		"  2 -> undefined\n"

	assert.Equal(expect, g.String())
}

func Test_Grammar_Copy(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("0 -> 'a' 1\n1 -> 'b'")
	g2 := g.Copy()
	g2.Rules[0][0][0] = T("changed")

	assert.Equal("a", g.Rules[0][0][0].Terminal())
	assert.False(g.Equal(g2))
}
