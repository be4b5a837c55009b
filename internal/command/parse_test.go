package command

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Command
		expectErr bool
	}{
		{name: "blank", input: "   ", expect: Command{}},
		{name: "check one word", input: "CHECK abc", expect: Command{Verb: "CHECK", Args: []string{"abc"}}},
		{name: "check keeps case", input: "check AbC dEf", expect: Command{Verb: "CHECK", Args: []string{"AbC", "dEf"}}},
		{name: "check quoted", input: `c 'a b' "" "x\"y"`, expect: Command{Verb: "CHECK", Args: []string{"a b", "", `x"y`}}},
		{name: "check needs words", input: "CHECK", expectErr: true},
		{name: "produce", input: "produce", expect: Command{Verb: "PRODUCE"}},
		{name: "produce with count", input: "words 12", expect: Command{Verb: "PRODUCE", Count: 12}},
		{name: "produce bad count", input: "PRODUCE lots", expectErr: true},
		{name: "produce zero count", input: "PRODUCE 0", expectErr: true},
		{name: "produce two counts", input: "PRODUCE 1 2", expectErr: true},
		{name: "more", input: "next 3", expect: Command{Verb: "MORE", Count: 3}},
		{name: "compare", input: "compare other.gq", expect: Command{Verb: "COMPARE", Args: []string{"other.gq"}}},
		{name: "compare with count", input: "diff other.gq 50", expect: Command{Verb: "COMPARE", Args: []string{"other.gq"}, Count: 50}},
		{name: "compare needs file", input: "COMPARE", expectErr: true},
		{name: "grammar", input: "show", expect: Command{Verb: "GRAMMAR"}},
		{name: "grammar takes nothing", input: "GRAMMAR please", expectErr: true},
		{name: "help", input: "?", expect: Command{Verb: "HELP"}},
		{name: "help on alias", input: "help c", expect: Command{Verb: "HELP", Args: []string{"CHECK"}}},
		{name: "quit", input: "bye", expect: Command{Verb: "QUIT"}},
		{name: "quit takes nothing", input: "QUIT now", expectErr: true},
		{name: "unknown", input: "DANCE", expectErr: true},
		{name: "unclosed quote", input: "CHECK 'abc", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Parse(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

type linesReader struct {
	lines []string
}

func (lr *linesReader) ReadCommand() (string, error) {
	if len(lr.lines) == 0 {
		return "", io.EOF
	}
	line := lr.lines[0]
	lr.lines = lr.lines[1:]
	return line, nil
}

func (lr *linesReader) Close() error {
	return nil
}

func Test_Get(t *testing.T) {
	assert := assert.New(t)

	var sb strings.Builder
	out := bufio.NewWriter(&sb)
	r := &linesReader{lines: []string{"DANCE", "", "check x"}}

	cmd, err := Get(r, out)
	assert.NoError(err)
	assert.Equal(Command{Verb: "CHECK", Args: []string{"x"}}, cmd)
	assert.Contains(sb.String(), "I don't know what you mean by \"DANCE\"")
	assert.Contains(sb.String(), "Try HELP")

	_, err = Get(r, out)
	assert.ErrorIs(err, io.EOF)
}
