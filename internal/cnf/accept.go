package cnf

import (
	"sort"

	"github.com/dekarrin/grammarq/internal/grammar"
)

// Accepts returns whether word is in the language of the grammar. It uses the
// CYK algorithm over the characters of word and takes O(n^3 * r) time for a
// word of n characters and a grammar with r alternatives.
func (g Grammar) Accepts(word string) bool {
	chars := []rune(word)
	n := len(chars)

	if n == 0 {
		return g.Null
	}
	if len(g.Rules) == 0 {
		return false
	}

	// reach[rule][start][end] is whether rule derives chars[start:end].
	stride := (n + 1)
	reach := make([]bool, len(g.Rules)*n*stride)
	at := func(r grammar.NonTerminal, start, end int) int {
		return (int(r)*n+start)*stride + end
	}

	for r, rule := range g.Rules {
		for _, alt := range rule {
			if !alt.isTerm {
				continue
			}
			term := []rune(alt.term)
			for start := 0; start+len(term) <= n; start++ {
				if runesEqual(chars[start:start+len(term)], term) {
					reach[at(grammar.NonTerminal(r), start, start+len(term))] = true
				}
			}
		}
	}

	for length := 2; length <= n; length++ {
		for start := 0; start+length <= n; start++ {
			end := start + length
			for pivot := 1; pivot < length; pivot++ {
				mid := start + pivot
				for r, rule := range g.Rules {
					idx := at(grammar.NonTerminal(r), start, end)
					if reach[idx] {
						continue
					}
					for _, alt := range rule {
						if alt.isTerm {
							continue
						}
						if reach[at(alt.product[0], start, mid)] && reach[at(alt.product[1], mid, end)] {
							reach[idx] = true
							break
						}
					}
				}
			}
		}
	}

	return reach[at(g.Start, 0, n)]
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortTerminals(terms []string) {
	sort.Slice(terms, func(i, j int) bool {
		return grammar.CompareTerminals(terms[i], terms[j]) < 0
	})
}
