package cnf

import (
	"fmt"

	"github.com/dekarrin/grammarq/internal/grammar"
	"github.com/dekarrin/rezi"
)

// This file contains the binary format of CNF grammars, used for caching and
// storing compiled grammars.

func (alt Alternative) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncBool(alt.isTerm)...)
	if alt.isTerm {
		data = append(data, rezi.EncString(alt.term)...)
	} else {
		data = append(data, rezi.EncInt(int(alt.product[0]))...)
		data = append(data, rezi.EncInt(int(alt.product[1]))...)
	}

	return data, nil
}

func (alt *Alternative) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	alt.isTerm, n, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("kind: %w", err)
	}
	data = data[n:]

	if alt.isTerm {
		alt.term, _, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		alt.product = [2]grammar.NonTerminal{}
		return nil
	}

	alt.term = ""
	for i := range alt.product {
		var nt int
		nt, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("factor %d: %w", i, err)
		}
		data = data[n:]
		alt.product[i] = grammar.NonTerminal(nt)
	}

	return nil
}

func (g Grammar) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(int(g.Start))...)
	data = append(data, rezi.EncBool(g.Null)...)
	data = append(data, rezi.EncInt(len(g.Rules))...)
	for _, r := range g.Rules {
		data = append(data, rezi.EncInt(len(r))...)
		for i := range r {
			data = append(data, rezi.EncBinary(r[i])...)
		}
	}

	return data, nil
}

func (g *Grammar) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	var start int
	start, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	data = data[n:]

	var null bool
	null, n, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("null: %w", err)
	}
	data = data[n:]

	var ruleCount int
	ruleCount, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("rule count: %w", err)
	}
	data = data[n:]
	if ruleCount < 0 {
		return fmt.Errorf("rule count < 0")
	}

	rules := make([]Rule, ruleCount)
	for r := range rules {
		var altCount int
		altCount, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("rule %d: alternative count: %w", r, err)
		}
		data = data[n:]
		if altCount < 0 {
			return fmt.Errorf("rule %d: alternative count < 0", r)
		}

		rules[r] = make(Rule, altCount)
		for a := range rules[r] {
			n, err = rezi.DecBinary(data, &rules[r][a])
			if err != nil {
				return fmt.Errorf("rule %d: alternative %d: %w", r, a, err)
			}
			data = data[n:]
		}
	}

	g.Start = grammar.NonTerminal(start)
	g.Null = null
	g.Rules = rules

	if err := g.validate(); err != nil {
		return err
	}

	return nil
}

// validate checks that every reference points at an existing rule.
func (g Grammar) validate() error {
	if len(g.Rules) == 0 {
		return nil
	}
	if g.Start < 0 || int(g.Start) >= len(g.Rules) {
		return fmt.Errorf("start %d is not a rule", g.Start)
	}
	for r, rule := range g.Rules {
		for _, alt := range rule {
			if alt.isTerm {
				continue
			}
			for _, f := range alt.product {
				if f < 0 || int(f) >= len(g.Rules) {
					return fmt.Errorf("rule %d refers to nonexistent rule %d", r, f)
				}
			}
		}
	}
	return nil
}
