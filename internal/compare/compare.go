// Package compare diffs the languages of two grammars over their shortest
// words.
package compare

import (
	"github.com/dekarrin/grammarq/internal/cnf"
	"github.com/dekarrin/grammarq/internal/grammar"
	"github.com/dekarrin/grammarq/internal/produce"
)

// Comparison is the result of comparing two word lists. Each list is in
// terminal order.
type Comparison struct {
	OnlyFirst  []string `json:"only_first"`
	OnlySecond []string `json:"only_second"`
	Both       []string `json:"both"`
}

// Equal returns whether no word was found in only one of the lists.
func (c Comparison) Equal() bool {
	return len(c.OnlyFirst) == 0 && len(c.OnlySecond) == 0
}

// Grammars compares the first limit words of the language of g1 with the
// first limit words of the language of g2. It does not decide whether the two
// languages are equal; only the enumerated prefixes are looked at.
func Grammars(g1, g2 cnf.Grammar, limit int) Comparison {
	w1 := produce.New(g1).Take(limit)
	w2 := produce.New(g2).Take(limit)
	return Words(w1, w2)
}

// Words merges two word lists that are each in terminal order. The merge stops
// as soon as either list runs out; the rest of the longer list is not
// reported, since the other language was not enumerated that far.
func Words(w1, w2 []string) Comparison {
	var c Comparison

	p1, p2 := 0, 0
	for p1 < len(w1) && p2 < len(w2) {
		switch cmp := grammar.CompareTerminals(w1[p1], w2[p2]); {
		case cmp == 0:
			c.Both = append(c.Both, w1[p1])
			p1++
			p2++
		case cmp < 0:
			c.OnlyFirst = append(c.OnlyFirst, w1[p1])
			p1++
		default:
			c.OnlySecond = append(c.OnlySecond, w2[p2])
			p2++
		}
	}

	return c
}
