// Package produce enumerates the language of a CNF grammar in order of
// length.
package produce

import (
	"sort"
	"unicode/utf8"

	"github.com/dekarrin/grammarq/internal/cnf"
)

// Producer yields the words of a grammar's language one at a time, shortest
// first and words of the same length in character order. It computes the
// words of every rule one length at a time, only as far as needed to answer
// the next call.
//
// A Producer decides it is done once it has looked at more than 2*n+1 lengths
// without finding a new word at the start rule, where n is the length of the
// longest word known for a rule that can take part in a word of the start
// rule. The terminals of those rules count as known from the start. Rules the
// start rule only reaches through alternatives that derive nothing are left
// out, so a finite language always finishes. This is a heuristic. A language
// with a gap in its word lengths wider than that would be cut short. Infinite
// languages never finish, so callers should bound how many words they take.
//
// A Producer is not safe for concurrent use.
type Producer struct {
	g cnf.Grammar

	// buckets[r][l] holds the sorted words of length l derived by rule r.
	// Index 0 is unused.
	buckets [][][]string

	// the words of the start rule not yet returned by Next.
	pending []string

	// contributing[r] is whether rule r can appear in a derivation of a word
	// of the start rule.
	contributing []bool

	emitted  []string
	nullDone bool
	longest  int
	done     bool
}

// New returns a Producer for the language of g.
func New(g cnf.Grammar) *Producer {
	p := &Producer{
		g:            g,
		buckets:      make([][][]string, len(g.Rules)),
		contributing: contributing(g),
	}

	for r := range p.buckets {
		p.buckets[r] = [][]string{nil}
	}

	for r, rule := range g.Rules {
		if !p.contributing[r] {
			continue
		}
		for _, alt := range rule {
			if !alt.IsTerm() {
				continue
			}
			if n := utf8.RuneCountInString(alt.Terminal()); n > p.longest {
				p.longest = n
			}
		}
	}

	return p
}

// Next returns the next word of the language. It returns false once the
// language is believed to be exhausted.
func (p *Producer) Next() (string, bool) {
	if !p.nullDone {
		p.nullDone = true
		if p.g.Null {
			p.emitted = append(p.emitted, "")
			return "", true
		}
	}

	for len(p.pending) == 0 {
		if p.done || len(p.g.Rules) == 0 {
			p.done = true
			return "", false
		}

		computed := len(p.buckets[0]) - 1
		if computed > 2*p.longest+1 {
			p.done = true
			return "", false
		}

		p.extend()
		p.pending = append(p.pending, p.buckets[p.g.Start][computed+1]...)
	}

	w := p.pending[0]
	p.pending = p.pending[1:]
	p.emitted = append(p.emitted, w)
	return w, true
}

// Take returns up to n more words of the language. It returns fewer if the
// language is exhausted first.
func (p *Producer) Take(n int) []string {
	var words []string
	for i := 0; i < n; i++ {
		w, ok := p.Next()
		if !ok {
			break
		}
		words = append(words, w)
	}
	return words
}

// Buffered returns every word returned by Next so far, in order.
func (p *Producer) Buffered() []string {
	out := make([]string, len(p.emitted))
	copy(out, p.emitted)
	return out
}

// Done returns whether the producer has decided the language is exhausted.
func (p *Producer) Done() bool {
	return p.done
}

// extend computes the bucket of the next length for every rule.
func (p *Producer) extend() {
	length := len(p.buckets[0])

	next := make([][]string, len(p.g.Rules))
	for r, rule := range p.g.Rules {
		seen := map[string]bool{}
		var words []string
		add := func(w string) {
			if !seen[w] {
				seen[w] = true
				words = append(words, w)
			}
		}

		for _, alt := range rule {
			if alt.IsTerm() {
				if utf8.RuneCountInString(alt.Terminal()) == length {
					add(alt.Terminal())
				}
				continue
			}

			left, right := alt.Factors()
			for l1 := 1; l1 < length; l1++ {
				l2 := length - l1
				for _, a := range p.buckets[left][l1] {
					for _, b := range p.buckets[right][l2] {
						add(a + b)
					}
				}
			}
		}

		sort.Strings(words)
		next[r] = words
		if len(words) > 0 && p.contributing[r] && length > p.longest {
			p.longest = length
		}
	}

	for r := range p.buckets {
		p.buckets[r] = append(p.buckets[r], next[r])
	}
}

// contributing returns, for each rule of g, whether it is reachable from the
// start rule through product alternatives whose factors both derive at least
// one word.
func contributing(g cnf.Grammar) []bool {
	productive := make([]bool, len(g.Rules))
	for changed := true; changed; {
		changed = false
		for r, rule := range g.Rules {
			if productive[r] {
				continue
			}
			for _, alt := range rule {
				if alt.IsTerm() {
					productive[r] = true
					break
				}
				left, right := alt.Factors()
				if productive[left] && productive[right] {
					productive[r] = true
					break
				}
			}
			if productive[r] {
				changed = true
			}
		}
	}

	reached := make([]bool, len(g.Rules))
	if len(g.Rules) == 0 || !productive[g.Start] {
		return reached
	}

	reached[g.Start] = true
	queue := []int{int(g.Start)}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		for _, alt := range g.Rules[r] {
			if alt.IsTerm() {
				continue
			}
			left, right := alt.Factors()
			if !productive[left] || !productive[right] {
				continue
			}
			for _, next := range []int{int(left), int(right)} {
				if !reached[next] {
					reached[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return reached
}
