package command

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/dekarrin/grammarq/internal/gqerrors"
)

// VerbAliases maps shorthand verbs (which must be the first words in a
// command) to their canonical forms. They are all uppercase.
var VerbAliases = map[string]string{
	"C":      "CHECK",
	"TEST":   "CHECK",
	"ACCEPT": "CHECK",
	"P":      "PRODUCE",
	"WORDS":  "PRODUCE",
	"LIST":   "PRODUCE",
	"M":      "MORE",
	"NEXT":   "MORE",
	"CMP":    "COMPARE",
	"DIFF":   "COMPARE",
	"G":      "GRAMMAR",
	"SHOW":   "GRAMMAR",
	"DUMP":   "GRAMMAR",
	"BYE":    "QUIT",
	"EXIT":   "QUIT",
	"Q":      "QUIT",
	"?":      "HELP",
	"/?":     "HELP",
	"/H":     "HELP",
	"-H":     "HELP",
	"H":      "HELP",
}

// Verbs is every canonical verb, in the order they are listed in help text.
var Verbs = []string{"CHECK", "PRODUCE", "MORE", "COMPARE", "GRAMMAR", "HELP", "QUIT"}

// Parse parses a command from the given text. If it cannot, a non-nil error
// is returned.
//
// If an empty string or a string composed only of whitespace is passed in, nil
// error is returned and a zero value for Command will be returned.
//
// Arguments are separated by whitespace. An argument can be put in single or
// double quotes to include spaces in it or to give the empty word, and a
// backslash inside quotes makes the next character part of the argument.
func Parse(toParse string) (Command, error) {
	var cmd Command

	tokens, err := Split(toParse)
	if err != nil {
		return cmd, err
	}
	if len(tokens) < 1 {
		return cmd, nil
	}

	typed := tokens[0]
	cmd.Verb = ExpandAlias(strings.ToUpper(typed))
	args := tokens[1:]

	switch cmd.Verb {
	case "CHECK":
		if len(args) < 1 {
			return cmd, gqerrors.Commandf("I don't know what words you want to check; use '' for the empty word")
		}
		cmd.Args = args
	case "PRODUCE", "MORE":
		if len(args) > 1 {
			return cmd, gqerrors.Commandf("%s takes at most one number", typed)
		}
		if len(args) == 1 {
			cmd.Count, err = parseCount(args[0])
			if err != nil {
				return cmd, err
			}
		}
	case "COMPARE":
		if len(args) < 1 {
			return cmd, gqerrors.Commandf("I don't know what grammar file you want to compare with")
		}
		if len(args) > 2 {
			return cmd, gqerrors.Commandf("%s takes a grammar file and at most one number", typed)
		}
		cmd.Args = args[:1]
		if len(args) == 2 {
			cmd.Count, err = parseCount(args[1])
			if err != nil {
				return cmd, err
			}
		}
	case "HELP":
		if len(args) > 1 {
			return cmd, gqerrors.Commandf("I can only give help on one command at a time")
		}
		if len(args) == 1 {
			cmd.Args = []string{ExpandAlias(strings.ToUpper(args[0]))}
		}
	case "GRAMMAR", "QUIT":
		if len(args) > 0 {
			errMsg := "You can't %s *something*; type %s by itself"
			return cmd, gqerrors.Commandf(errMsg, typed, typed)
		}
	default:
		return Command{}, gqerrors.Commandf("I don't know what you mean by %q", typed)
	}

	return cmd, nil
}

// ExpandAlias returns the canonical verb for an upper-case verb. If verb is
// not an alias, it is returned as-is.
func ExpandAlias(verb string) string {
	if canon, ok := VerbAliases[verb]; ok {
		return canon
	}
	return verb
}

// Split breaks command text into arguments.
func Split(s string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inToken := false
	var quote rune
	escaped := false

	for _, ch := range s {
		switch {
		case escaped:
			cur.WriteRune(ch)
			escaped = false
		case quote != 0 && ch == '\\':
			escaped = true
		case quote != 0 && ch == quote:
			quote = 0
		case quote != 0:
			cur.WriteRune(ch)
		case ch == '\'' || ch == '"':
			quote = ch
			inToken = true
		case unicode.IsSpace(ch):
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(ch)
			inToken = true
		}
	}

	if quote != 0 || escaped {
		return nil, gqerrors.Commandf("There's a quote that is never closed")
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, gqerrors.Wrapf(err, "%q is not a number", s)
	}
	if n < 1 {
		return 0, gqerrors.Commandf("The number of words must be at least 1")
	}
	return n, nil
}
