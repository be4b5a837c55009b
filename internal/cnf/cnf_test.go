package cnf

import (
	"math/rand"
	"testing"

	"github.com/dekarrin/grammarq/internal/grammar"
	"github.com/stretchr/testify/assert"
)

func Test_FromNormalized(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Grammar
		expectErr error
	}{
		{
			name:  "terms and products",
			input: "Start: 2\n0 -> 'a'\n1 -> 'bc'\n2 -> 0 1 | 'x'",
			expect: Grammar{Start: 2, Rules: []Rule{
				{Term("a")},
				{Term("bc")},
				{Product(0, 1), Term("x")},
			}},
		},
		{
			name:   "empty start alternative sets null",
			input:  "0 -> \"\" | 'hello'",
			expect: Grammar{Null: true, Rules: []Rule{{Term("hello")}}},
		},
		{
			name:   "undefined rule is kept empty",
			input:  "0 -> 1 1 | 'a'\n1 -> undefined",
			expect: Grammar{Rules: []Rule{{Product(1, 1), Term("a")}, {}}},
		},
		{
			name:      "empty alternative outside of start",
			input:     "0 -> 1 1\n1 -> \"\" | 'a'",
			expectErr: ErrOnlyStartMayBeNullable,
		},
		{
			name:      "unit production",
			input:     "0 -> 1\n1 -> 'a'",
			expectErr: ErrUnitProductionNotAllowed,
		},
		{
			name:      "terminal in pair",
			input:     "0 -> 1 'b'\n1 -> 'a'",
			expectErr: ErrInvalidArity,
		},
		{
			name:      "three tokens",
			input:     "0 -> 1 1 1\n1 -> 'a'",
			expectErr: ErrInvalidArity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := FromNormalized(grammar.MustParse(tc.input))

			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				var nfErr *NormalFormError
				assert.ErrorAs(err, &nfErr)
				return
			} else if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_FromNormalized_Scenarios(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect Grammar
	}{
		{
			name:   "optional literal",
			input:  "0 -> \"\" | 'hello'",
			expect: Grammar{Null: true, Rules: []Rule{{Term("hello")}}},
		},
		{
			name:   "optional alternative",
			input:  "0 -> \"\" | 'hello' | 'world'",
			expect: Grammar{Null: true, Rules: []Rule{{Term("hello"), Term("world")}}},
		},
		{
			name:   "optional without the empty alternative",
			input:  "0 -> 'hello'",
			expect: Grammar{Null: false, Rules: []Rule{{Term("hello")}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := grammar.MustParse(tc.input)
			g.Normalize()
			actual, err := FromNormalized(g)

			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_FromNormalized_AfterNormalizeNeverFails(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		g := grammar.Random(rng, 1+rng.Intn(7), 4, 4)
		orig := g.String()

		g.Normalize()
		cg, err := FromNormalized(g)

		if !assert.NoError(t, err, "input:\n%s\nnormalized:\n%s", orig, g) {
			return
		}
		if !assert.Equal(t, cg.Null, cg.Accepts(""), "input:\n%s", orig) {
			return
		}
	}
}

func Test_Grammar_Generic(t *testing.T) {
	assert := assert.New(t)

	g := Grammar{Start: 1, Null: true, Rules: []Rule{
		{Term("a")},
		{Product(0, 0), Term("b")},
	}}

	expect := "Start: 1\n" +
		"  0 -> 'a'\n" +
		"  1 -> \"\" | 0 0 | 'b'\n"

	generic := g.Generic()
	assert.Equal(expect, generic.String())

	back, err := FromNormalized(generic)
	assert.NoError(err)
	assert.Equal(g, back)
}

func Test_Grammar_Terminals(t *testing.T) {
	assert := assert.New(t)

	g := Grammar{Rules: []Rule{
		{Term("bb"), Term("c")},
		{Product(0, 0), Term("a"), Term("bb")},
	}}

	assert.Equal([]string{"a", "c", "bb"}, g.Terminals())
}

func Test_Grammar_String(t *testing.T) {
	assert := assert.New(t)

	g := Grammar{Start: 0, Null: true, Rules: []Rule{
		{Product(1, 1), Term("x")},
		{},
	}}

	expect := "Start: 0\n" +
		"Null: true\n" +
		"  0 -> 1 1 | 'x'\n" +
		"  1 -> undefined\n"

	assert.Equal(expect, g.String())
}

func Test_NormalFormError_Error(t *testing.T) {
	assert := assert.New(t)

	err := &NormalFormError{Rule: 3, Alternative: grammar.Definition{grammar.NT(1)}, cause: ErrUnitProductionNotAllowed}

	assert.Equal("rule 3 alternative 1: unit productions are not allowed", err.Error())
}
