package grammar

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// MustParse is like Parse but panics if the text cannot be parsed.
func MustParse(text string) Grammar {
	g, err := Parse(text)
	if err != nil {
		panic(err.Error())
	}
	return g
}

// Parse reads a grammar back from the format produced by Grammar.String. The
// "Start:" line may be left out, in which case rule 0 is the start. Rule lines
// must be numbered in order starting from 0.
func Parse(text string) (Grammar, error) {
	var g Grammar

	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "Start:"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil {
				return Grammar{}, fmt.Errorf("line %d: start is not a number: %q", lineNo+1, rest)
			}
			g.Start = NonTerminal(start)
			continue
		}

		idx, rule, err := parseRuleLine(line)
		if err != nil {
			return Grammar{}, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		if idx != len(g.Rules) {
			return Grammar{}, fmt.Errorf("line %d: expected rule %d but got rule %d", lineNo+1, len(g.Rules), idx)
		}
		g.Rules = append(g.Rules, rule)
	}

	if err := g.Validate(); err != nil {
		return Grammar{}, err
	}

	return g, nil
}

func parseRuleLine(line string) (int, Rule, error) {
	sides := strings.SplitN(line, "->", 2)
	if len(sides) != 2 {
		return 0, nil, fmt.Errorf("not a rule of form 'N -> ALT | ALT ...': %q", line)
	}

	idx, err := strconv.Atoi(strings.TrimSpace(sides[0]))
	if err != nil {
		return 0, nil, fmt.Errorf("rule index is not a number: %q", sides[0])
	}

	body := strings.TrimSpace(sides[1])
	if body == "undefined" {
		return idx, Rule{}, nil
	}

	rule := Rule{}
	cur := Definition{}
	emptyMarker := false
	runes := []rune(body)

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case unicode.IsSpace(ch):
			continue
		case ch == '|':
			rule = append(rule, cur)
			cur = Definition{}
			emptyMarker = false
		case ch == '"':
			if i+1 >= len(runes) || runes[i+1] != '"' {
				return 0, nil, fmt.Errorf("unterminated empty alternative marker at char %d", i+1)
			}
			i++
			emptyMarker = true
		case ch == '\'':
			var sb strings.Builder
			closed := false
			for i++; i < len(runes); i++ {
				if runes[i] == '\\' && i+1 < len(runes) {
					i++
					sb.WriteRune(runes[i])
					continue
				}
				if runes[i] == '\'' {
					closed = true
					break
				}
				sb.WriteRune(runes[i])
			}
			if !closed {
				return 0, nil, fmt.Errorf("unterminated terminal in %q", body)
			}
			cur = append(cur, T(sb.String()))
		case unicode.IsDigit(ch):
			start := i
			for i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
				i++
			}
			n, _ := strconv.Atoi(string(runes[start : i+1]))
			cur = append(cur, NT(NonTerminal(n)))
		default:
			return 0, nil, fmt.Errorf("unexpected character %q at char %d", ch, i+1)
		}

		if emptyMarker && len(cur) > 0 {
			return 0, nil, fmt.Errorf(`empty alternative marker "" mixed with tokens`)
		}
	}
	rule = append(rule, cur)

	return idx, rule, nil
}
