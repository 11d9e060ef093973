// Package slr1 constructs SLR(1) automata: the LR(0) collection with every reduction restricted to
// the FOLLOW set of its left-hand side.
package slr1

import (
	"github.com/nihei9/lrgen/automaton"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/grammar/symbol"
	"github.com/nihei9/lrgen/lr/lr0"
	"github.com/npillmayer/schuko/tracing"
)

const EngineName = "slr1"

// tracer traces with key 'lrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.lr")
}

// Build constructs an SLR(1) automaton. Conflicts of all states are collected and returned together
// as a single *error.LoweringError.
func Build(g *grammar.Grammar) (*automaton.Automaton, error) {
	c, err := lr0.Explore(g, nil)
	if err != nil {
		return nil, err
	}

	a := c.NewAutomaton()
	a.SetEngine(EngineName)
	symTab := g.SymbolTable()
	report := automaton.NewConflictReport(g)
	for _, s := range c.Sets {
		st := a.State(s.Num)
		cm := automaton.NewConflictMap[symbol.Symbol, automaton.Action](symTab.Terminals())
		for _, t := range s.Transitions {
			if symTab.IsTerminal(t.Symbol) {
				cm.Add(t.Symbol, automaton.Shift(t.To))
			}
		}
		for _, it := range s.Reducible(g) {
			if it.Rule == grammar.RuleAccept {
				continue
			}
			follow := g.Follow(g.Rule(it.Rule).LHS).Sorted()
			for _, sym := range follow {
				cm.Add(sym, automaton.Reduce(it.Rule))
			}
			setLookahead(st, it, follow)
		}

		resolved, conflicts := cm.Finish()
		for sym, act := range resolved {
			st.Actions[sym] = act
		}
		report.Add(s.Num, conflicts)
	}
	if err := report.Err(EngineName); err != nil {
		tracer().Infof("slr1: %v", err)
		return nil, err
	}

	tracer().Debugf("slr1: %v states", a.Len())

	return a, nil
}

// setLookahead annotates the reducible item of a state with the terminals it is reduced on.
func setLookahead(st *automaton.State, it lr0.Item, la []symbol.Symbol) {
	for _, items := range [][]automaton.Item{st.Kernel, st.Closure} {
		for i := range items {
			if items[i].Rule == it.Rule && items[i].Dot == it.Dot {
				items[i].Lookahead = la
			}
		}
	}
}
