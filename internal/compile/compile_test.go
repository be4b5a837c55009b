package compile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/grammarq/internal/cnf"
	"github.com/dekarrin/grammarq/internal/ebnf"
	"github.com/stretchr/testify/assert"
)

func Test_Source(t *testing.T) {
	type check struct {
		word   string
		expect bool
	}

	testCases := []struct {
		name   string
		src    string
		checks []check
	}{
		{
			name:   "literal",
			src:    "<s>: hello",
			checks: []check{{"hello", true}, {"hell", false}, {"", false}},
		},
		{
			name: "list",
			src: "<list>: <item> {, <item>}\n" +
				"<item>: a | b\n",
			checks: []check{{"a", true}, {"a,b", true}, {"a,", false}},
		},
		{
			name:   "first rule is the start",
			src:    "<x>: <y> y\n<y>: x\n",
			checks: []check{{"xy", true}, {"x", false}},
		},
		{
			name:   "decomposed accents match composed words",
			src:    "<s>: café",
			checks: []check{{"café", true}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			res, err := Source("test.gq", tc.src)
			if !assert.NoError(err) {
				return
			}

			assert.False(res.Cached)
			assert.NotEmpty(res.Rules)
			for _, c := range tc.checks {
				assert.Equal(c.expect, res.CNF.Accepts(Word(c.word)), "word %q", c.word)
			}
		})
	}
}

func Test_Source_Errors(t *testing.T) {
	assert := assert.New(t)

	_, err := Source("test.gq", "")
	assert.ErrorIs(err, ErrNoRules)

	_, err = Source("test.gq", "<a> x")
	var synErr ebnf.SyntaxError
	assert.ErrorAs(err, &synErr)

	_, err = Source("test.gq", "<a>: <b>")
	assert.Error(err)
}

func Test_File(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "g.gq")
	if !assert.NoError(os.WriteFile(path, []byte("<s>: a [b]\n"), 0644)) {
		return
	}

	res, err := File(path)
	if !assert.NoError(err) {
		return
	}
	assert.True(res.CNF.Accepts("ab"))
	assert.True(res.CNF.Accepts("a"))

	_, err = File(filepath.Join(t.TempDir(), "missing.gq"))
	assert.Error(err)
}

type mapCache struct {
	data map[string]cnf.Grammar
	puts int
}

func (m *mapCache) Get(ctx context.Context, src string) (cnf.Grammar, bool, error) {
	g, ok := m.data[src]
	return g, ok, nil
}

func (m *mapCache) Put(ctx context.Context, src string, g cnf.Grammar) error {
	m.data[src] = g
	m.puts++
	return nil
}

func Test_Compiler_Cache(t *testing.T) {
	assert := assert.New(t)

	cache := &mapCache{data: map[string]cnf.Grammar{}}
	c := Compiler{Cache: cache}

	first, err := c.Source(context.Background(), "g", "<s>: a | b")
	if !assert.NoError(err) {
		return
	}
	assert.False(first.Cached)
	assert.Equal(1, cache.puts)

	second, err := c.Source(context.Background(), "g", "<s>: a | b")
	if !assert.NoError(err) {
		return
	}
	assert.True(second.Cached)
	assert.Equal(1, cache.puts)
	assert.Equal(first.CNF, second.CNF)
}
