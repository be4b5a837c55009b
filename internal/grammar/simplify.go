package grammar

import (
	"sort"
)

// Simplify cleans up the grammar in place without changing its language.
// Adjacent terminals are merged, empty terminals removed, duplicate and
// directly self-referencing alternatives dropped, rules that can never derive
// a string are cleared, and rules unreachable from Start are removed with the
// remaining ones renumbered. Running it a second time has no effect.
func (g *Grammar) Simplify() {
	if len(g.Rules) == 0 {
		return
	}

	g.concatenateTerminals()
	g.removeEmptyTerminals()
	g.dedup()
	g.removeSelfLoops()
	g.flattenImpossible()
	g.removeUnreachable()
}

// concatenateTerminals merges each run of terminals into one. An empty
// terminal is left before every reference and at the end of the definition;
// removeEmptyTerminals takes those back out.
func (g *Grammar) concatenateTerminals() {
	for r := range g.Rules {
		for d, def := range g.Rules[r] {
			var acc []byte
			newDef := make(Definition, 0, len(def)+1)
			for _, tok := range def {
				if tok.IsTerminal() {
					acc = append(acc, tok.term...)
					continue
				}
				newDef = append(newDef, T(string(acc)), tok)
				acc = nil
			}
			newDef = append(newDef, T(string(acc)))
			g.Rules[r][d] = newDef
		}
	}
}

func (g *Grammar) removeEmptyTerminals() {
	for r := range g.Rules {
		for d, def := range g.Rules[r] {
			newDef := make(Definition, 0, len(def))
			for _, tok := range def {
				if !tok.IsEmpty() {
					newDef = append(newDef, tok)
				}
			}
			g.Rules[r][d] = newDef
		}
	}
}

func (g *Grammar) dedup() {
	for r := range g.Rules {
		g.Rules[r] = sortedUnique(g.Rules[r])
	}
}

// sortedUnique sorts the alternatives of r and drops repeats. The returned
// rule may share storage with r.
func sortedUnique(r Rule) Rule {
	sort.SliceStable(r, func(i, j int) bool {
		return r[i].Compare(r[j]) < 0
	})

	out := r[:0]
	for i := range r {
		if i > 0 && r[i].Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, r[i])
	}
	return out
}

// removeSelfLoops drops every alternative that consists of nothing but a
// reference to its own rule. Longer cycles are left alone.
func (g *Grammar) removeSelfLoops() {
	for r := range g.Rules {
		self := Definition{NT(NonTerminal(r))}
		kept := g.Rules[r][:0]
		for _, def := range g.Rules[r] {
			if !def.Equal(self) {
				kept = append(kept, def)
			}
		}
		g.Rules[r] = kept
	}
}

// flattenImpossible clears every rule that cannot derive any terminal string.
func (g *Grammar) flattenImpossible() {
	// once a rule is shown to derive something it always will, so positive
	// answers are remembered between searches. Negative ones depend on the
	// path taken and are not.
	known := make([]bool, len(g.Rules))
	visiting := make([]bool, len(g.Rules))

	var isPossible func(nt NonTerminal) bool
	isPossible = func(nt NonTerminal) bool {
		if known[nt] {
			return true
		}
		if visiting[nt] {
			return false
		}
		visiting[nt] = true
		defer func() { visiting[nt] = false }()

		for _, def := range g.Rules[nt] {
			allPossible := true
			for _, tok := range def {
				if !tok.IsTerminal() && !isPossible(tok.nt) {
					allPossible = false
					break
				}
			}
			if allPossible {
				known[nt] = true
				return true
			}
		}
		return false
	}

	possible := make([]bool, len(g.Rules))
	for r := range g.Rules {
		possible[r] = isPossible(NonTerminal(r))
	}

	for r := range g.Rules {
		if !possible[r] {
			g.Rules[r] = Rule{}
		}
	}
}

// removeUnreachable drops every rule that cannot be reached from Start and
// renumbers the rest so they occupy a dense range, keeping their relative
// order.
func (g *Grammar) removeUnreachable() {
	reachable := make([]bool, len(g.Rules))
	reachable[g.Start] = true
	stack := []NonTerminal{g.Start}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, def := range g.Rules[cur] {
			for _, tok := range def {
				if !tok.IsTerminal() && !reachable[tok.nt] {
					reachable[tok.nt] = true
					stack = append(stack, tok.nt)
				}
			}
		}
	}

	offsets := make([]NonTerminal, len(g.Rules))
	var count NonTerminal
	for i := range g.Rules {
		if reachable[i] {
			offsets[i] = count
			count++
		}
	}

	newRules := make([]Rule, 0, count)
	for i, r := range g.Rules {
		if !reachable[i] {
			continue
		}
		for _, def := range r {
			for t, tok := range def {
				if !tok.IsTerminal() {
					def[t] = NT(offsets[tok.nt])
				}
			}
		}
		newRules = append(newRules, r)
	}

	g.Rules = newRules
	g.Start = offsets[g.Start]
}
