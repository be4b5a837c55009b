package grammar

// Normalize brings the grammar into Chomsky normal form in place. Afterwards
// every alternative is either a single terminal or two references, and only
// the start rule may have an empty alternative. Normalize never fails;
// grammars with cycles, unreachable rules or rules that derive nothing are
// handled by removing what cannot contribute to the language.
//
// Epsilon elimination adds one alternative for every subset of nullable
// references in an alternative, so an alternative with n nullable references
// can grow into 2^n - 1 of them.
func (g *Grammar) Normalize() {
	if len(g.Rules) == 0 {
		return
	}

	g.Simplify()
	g.newStart()
	g.isolateTerminals()
	g.binarize()
	g.removeNullable()
	g.removeSelfLoops()
	g.removeUnits()
	g.Simplify()
}

// newStart adds a fresh start rule whose only alternative is the old start, so
// that no alternative anywhere refers to the start rule.
func (g *Grammar) newStart() {
	g.Start = g.AddRule(Definition{NT(g.Start)})
}

// isolateTerminals replaces every terminal that shares an alternative with
// other tokens by a reference to a new rule holding only that terminal.
func (g *Grammar) isolateTerminals() {
	count := len(g.Rules)
	for r := 0; r < count; r++ {
		for d := range g.Rules[r] {
			def := g.Rules[r][d]
			if len(def) < 2 {
				continue
			}
			for t := range def {
				if def[t].IsTerminal() {
					def[t] = NT(g.AddRule(Definition{T(def[t].term)}))
				}
			}
		}
	}
}

// binarize splits every alternative longer than two tokens into a chain of
// new rules of two tokens each, built from the right end of the alternative.
func (g *Grammar) binarize() {
	count := len(g.Rules)
	for r := 0; r < count; r++ {
		for d := range g.Rules[r] {
			def := g.Rules[r][d]
			n := len(def)
			if n <= 2 {
				continue
			}

			chain := g.AddRule(Definition{def[n-2], def[n-1]})
			for i := n - 3; i >= 1; i-- {
				chain = g.AddRule(Definition{def[i], NT(chain)})
			}
			g.Rules[r][d] = Definition{def[0], NT(chain)}
		}
	}
}

// removeNullable finds every rule that can derive the empty string, adds the
// alternatives made by leaving out any combination of nullable references, and
// then drops empty alternatives from every rule but the start rule.
func (g *Grammar) removeNullable() {
	nullable := g.nullableRules()

	for r := range g.Rules {
		var added []Definition
		for _, def := range g.Rules[r] {
			var nulls []int
			for i, tok := range def {
				if !tok.IsTerminal() && nullable[tok.nt] {
					nulls = append(nulls, i)
				}
			}

			// each bit of k set to 1 keeps the matching nullable token. The
			// all-ones combination is def itself and is skipped.
			for k := 0; k < (1<<len(nulls))-1; k++ {
				newDef := def.Copy()
				for i := len(nulls) - 1; i >= 0; i-- {
					if k&(1<<i) == 0 {
						newDef = append(newDef[:nulls[i]], newDef[nulls[i]+1:]...)
					}
				}
				added = append(added, newDef)
			}
		}

		rule := sortedUnique(append(g.Rules[r], added...))
		if NonTerminal(r) != g.Start {
			kept := rule[:0]
			for _, def := range rule {
				if len(def) > 0 {
					kept = append(kept, def)
				}
			}
			rule = kept
		}
		g.Rules[r] = rule
	}
}

// nullableRules gives for each rule whether it can derive the empty string.
func (g *Grammar) nullableRules() []bool {
	nullable := make([]bool, len(g.Rules))

	// dependents[x] lists the rules that have x somewhere in an alternative.
	dependents := make([][]NonTerminal, len(g.Rules))
	for r := range g.Rules {
		seen := map[NonTerminal]bool{}
		for _, def := range g.Rules[r] {
			for _, tok := range def {
				if tok.IsTerminal() || seen[tok.nt] {
					continue
				}
				seen[tok.nt] = true
				dependents[tok.nt] = append(dependents[tok.nt], NonTerminal(r))
			}
		}
	}

	var pending []NonTerminal
	for r := range g.Rules {
		if g.Rules[r].HasDefinition(Definition{}) {
			nullable[r] = true
			pending = append(pending, dependents[r]...)
		}
	}

	for len(pending) > 0 {
		cur := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if nullable[cur] {
			continue
		}

		for _, def := range g.Rules[cur] {
			allNull := true
			for _, tok := range def {
				if tok.IsTerminal() || !nullable[tok.nt] {
					allNull = false
					break
				}
			}
			if allNull {
				nullable[cur] = true
				for _, next := range dependents[cur] {
					if !nullable[next] {
						pending = append(pending, next)
					}
				}
				break
			}
		}
	}

	return nullable
}

// removeUnits replaces every alternative that is a lone reference by the
// alternatives of the rule it refers to. Each rule is walked once from left to
// right, including the alternatives appended during the walk. A rule that was
// already inlined into the current one, or the rule itself, is not inlined
// again, which keeps mutually referencing unit alternatives from growing the
// rule forever.
func (g *Grammar) removeUnits() {
	for r := range g.Rules {
		inlined := map[NonTerminal]bool{NonTerminal(r): true}
		var kept Rule

		for i := 0; i < len(g.Rules[r]); i++ {
			def := g.Rules[r][i]
			if !def.IsUnit() {
				kept = append(kept, def)
				continue
			}

			target := def[0].nt
			if inlined[target] {
				continue
			}
			inlined[target] = true
			g.Rules[r] = append(g.Rules[r], g.Rules[target].Copy()...)
		}

		g.Rules[r] = kept
	}
}
