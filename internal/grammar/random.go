package grammar

import (
	"math/rand"
)

// Random builds an arbitrary valid grammar with the given number of rules.
// Each rule gets up to maxAlts alternatives of up to maxLen tokens, mixing
// references to any rule (itself included) with short terminals over the
// alphabet "ab". The result may contain cycles, unreachable rules, rules that
// derive nothing and empty alternatives.
func Random(rng *rand.Rand, rules, maxAlts, maxLen int) Grammar {
	g := Grammar{Rules: make([]Rule, rules)}
	if rules == 0 {
		return g
	}
	g.Start = NonTerminal(rng.Intn(rules))

	for r := range g.Rules {
		alts := rng.Intn(maxAlts + 1)
		g.Rules[r] = make(Rule, alts)
		for a := 0; a < alts; a++ {
			n := rng.Intn(maxLen + 1)
			def := make(Definition, n)
			for t := range def {
				if rng.Intn(2) == 0 {
					def[t] = NT(NonTerminal(rng.Intn(rules)))
				} else {
					def[t] = T(randomTerminal(rng))
				}
			}
			g.Rules[r][a] = def
		}
	}

	return g
}

func randomTerminal(rng *rand.Rand) string {
	const alphabet = "ab"
	b := make([]byte, rng.Intn(3))
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}
