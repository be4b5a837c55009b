package produce

import (
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/dekarrin/grammarq/internal/cnf"
	"github.com/dekarrin/grammarq/internal/grammar"
	"github.com/stretchr/testify/assert"
)

func mustCompile(dump string) cnf.Grammar {
	g := grammar.MustParse(dump)
	g.Normalize()
	cg, err := cnf.FromNormalized(g)
	if err != nil {
		panic(err.Error())
	}
	return cg
}

func Test_Producer_Take(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		n      int
		expect []string
	}{
		{
			name:   "literal choice",
			input:  "0 -> 'c' | 'a' | 'b'",
			n:      3,
			expect: []string{"a", "b", "c"},
		},
		{
			name:   "single long literal",
			input:  "0 -> 'hello'",
			n:      5,
			expect: []string{"hello"},
		},
		{
			name:   "empty word first",
			input:  "0 -> \"\" | 'hello' | 'world'",
			n:      10,
			expect: []string{"", "hello", "world"},
		},
		{
			name:   "shorter words before longer ones",
			input:  "0 -> 'bb' | 'a' | 'aa' 'a' | 'c'",
			n:      10,
			expect: []string{"a", "c", "bb", "aaa"},
		},
		{
			name:   "duplicate derivations appear once",
			input:  "0 -> 1 1 | 'aa'\n1 -> 'a'",
			n:      10,
			expect: []string{"aa"},
		},
		{
			name:   "infinite language capped",
			input:  "0 -> \"\" | 0 0 | 'a' | 'b'",
			n:      8,
			expect: []string{"", "a", "b", "aa", "ab", "ba", "bb", "aaa"},
		},
		{
			name:   "gap in lengths",
			input:  "0 -> 'a' | 'bbbb' 'b'",
			n:      10,
			expect: []string{"a", "bbbbb"},
		},
		{
			name:   "infinite helper behind a dead alternative",
			input:  "0 -> 1 2 | 'a'\n1 -> 'b' 1 | 'b'\n2 -> 2 'c'",
			n:      3,
			expect: []string{"a"},
		},
		{
			name:   "nothing derivable",
			input:  "0 -> 0 'a'",
			n:      10,
			expect: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			p := New(mustCompile(tc.input))
			actual := p.Take(tc.n)

			assert.Equal(tc.expect, actual)
			assert.Equal(tc.expect, nilIfEmpty(p.Buffered()))
		})
	}
}

func Test_Producer_Next_Exhausted(t *testing.T) {
	assert := assert.New(t)

	p := New(mustCompile("0 -> 'x' | 'yz'"))

	w, ok := p.Next()
	assert.True(ok)
	assert.Equal("x", w)
	w, ok = p.Next()
	assert.True(ok)
	assert.Equal("yz", w)

	_, ok = p.Next()
	assert.False(ok)
	assert.True(p.Done())

	_, ok = p.Next()
	assert.False(ok)
}

func Test_Producer_FiniteLanguageFinishes(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "infinite helper behind a dead alternative",
			input:  "0 -> 1 2 | 'a'\n1 -> 'b' 1 | 'b'\n2 -> 2 'c'",
			expect: []string{"a"},
		},
		{
			name:   "long literal only",
			input:  "0 -> 'hello'",
			expect: []string{"hello"},
		},
		{
			name:   "finite nesting",
			input:  "0 -> 1 1 | 'x'\n1 -> 'y' | 'yy'",
			expect: []string{"x", "yy", "yyy", "yyyy"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			p := New(mustCompile(tc.input))
			var words []string
			for {
				w, ok := p.Next()
				if !ok {
					break
				}
				words = append(words, w)
			}

			assert.Equal(tc.expect, words)
			assert.True(p.Done())
		})
	}
}

func Test_contributing(t *testing.T) {
	assert := assert.New(t)

	g := cnf.Grammar{
		Start: 0,
		Rules: []cnf.Rule{
			{cnf.Product(1, 2), cnf.Term("a")},
			{cnf.Product(3, 1), cnf.Term("b")},
			{},
			{cnf.Term("b")},
			{cnf.Term("z")},
		},
	}

	assert.Equal([]bool{true, false, false, false, false}, contributing(g))

	g.Rules[2] = cnf.Rule{cnf.Term("c")}
	assert.Equal([]bool{true, true, true, true, false}, contributing(g))

	assert.Empty(contributing(cnf.Grammar{}))
}

func Test_Producer_NoRules(t *testing.T) {
	assert := assert.New(t)

	p := New(cnf.Grammar{Null: true})

	assert.Equal([]string{""}, p.Take(5))
}

func Test_Producer_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 150; i++ {
		g := grammar.Random(rng, 1+rng.Intn(5), 3, 3)
		orig := g.String()
		g.Normalize()
		cg, err := cnf.FromNormalized(g)
		if !assert.NoError(t, err) {
			return
		}

		words := New(cg).Take(25)
		seen := map[string]bool{}
		for j, w := range words {
			if !assert.False(t, seen[w], "word %q repeated for:\n%s", w, orig) {
				return
			}
			seen[w] = true

			if !assert.True(t, cg.Accepts(w), "word %q not accepted for:\n%s", w, orig) {
				return
			}

			if j > 0 {
				prev := words[j-1]
				if !assert.LessOrEqual(t, utf8.RuneCountInString(prev), utf8.RuneCountInString(w), "length decreased for:\n%s", orig) {
					return
				}
				if !assert.Negative(t, grammar.CompareTerminals(prev, w), "out of order for:\n%s", orig) {
					return
				}
			}
		}
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
