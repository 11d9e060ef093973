// Package lalr1 constructs LALR(1) automata. Look-ahead sets are attached to the kernels of the LR(0)
// collection by spontaneous generation and propagation, so the automaton has exactly as many states
// as the LR(0) one.
package lalr1

import (
	"github.com/nihei9/lrgen/automaton"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/grammar/symbol"
	"github.com/nihei9/lrgen/lr/lr0"
	"github.com/nihei9/lrgen/lr/lr1"
	"github.com/npillmayer/schuko/tracing"
)

const EngineName = "lalr1"

// tracer traces with key 'lrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.lr")
}

// lookaheadMarker stands for "whatever the kernel item is followed by" while computing closures.
const lookaheadMarker = symbol.SymbolNil

type stateAndItem struct {
	state int
	item  lr0.Item
}

type propagation struct {
	src  stateAndItem
	dest []stateAndItem
}

type lookaheadTable map[stateAndItem]symbol.Set

func (t lookaheadTable) of(key stateAndItem) symbol.Set {
	la, ok := t[key]
	if !ok {
		la = symbol.NewSet()
		t[key] = la
	}
	return la
}

// Build constructs an LALR(1) automaton. Conflicts of all states are collected and returned together
// as a single *error.LoweringError.
func Build(g *grammar.Grammar) (*automaton.Automaton, error) {
	c, err := lr0.Explore(g, nil)
	if err != nil {
		return nil, err
	}

	las, props := genSpontaneousLookahead(c)
	propagateLookahead(las, props)

	a := c.NewAutomaton()
	a.SetEngine(EngineName)
	report := automaton.NewConflictReport(g)
	for _, s := range c.Sets {
		kernel := make([]*lr1.Item, s.KernelSize)
		for i, it := range s.Kernel() {
			kernel[i] = &lr1.Item{
				Item:      it,
				Lookahead: las.of(stateAndItem{state: s.Num, item: it}),
			}
		}
		items := lr1.Closure(g, kernel)

		st := a.State(s.Num)
		st.Kernel = lr1.ToAutomatonItems(items[:s.KernelSize])
		st.Closure = lr1.ToAutomatonItems(items[s.KernelSize:])
		report.Add(s.Num, lr1.FillActions(g, st, s.Transitions, items))
	}
	if err := report.Err(EngineName); err != nil {
		tracer().Infof("lalr1: %v", err)
		return nil, err
	}

	tracer().Debugf("lalr1: %v states, %v propagations", a.Len(), len(props))

	return a, nil
}

// genSpontaneousLookahead computes the closure of every kernel item with the marker as its only
// look-ahead symbol. A terminal showing up in the look-ahead set of a closure item is generated
// spontaneously for the item the closure item moves to; the marker means the kernel item's own set
// propagates there.
func genSpontaneousLookahead(c *lr0.Collection) (lookaheadTable, []*propagation) {
	g := c.Grammar
	las := lookaheadTable{}
	var props []*propagation
	for _, s := range c.Sets {
		next := map[symbol.Symbol]int{}
		for _, t := range s.Transitions {
			next[t.Symbol] = t.To
		}

		for _, kItem := range s.Kernel() {
			src := stateAndItem{
				state: s.Num,
				item:  kItem,
			}
			items := lr1.Closure(g, []*lr1.Item{
				{
					Item:      kItem,
					Lookahead: symbol.NewSet(lookaheadMarker),
				},
			})

			var propDests []stateAndItem
			for _, it := range items {
				sym := it.NextSymbol(g)
				if sym.IsNil() {
					continue
				}
				dest := stateAndItem{
					state: next[sym],
					item: lr0.Item{
						Rule: it.Rule,
						Dot:  it.Dot + 1,
					},
				}
				for a := range it.Lookahead {
					if a == lookaheadMarker {
						propDests = append(propDests, dest)
						continue
					}
					las.of(dest).Add(a)
				}
			}
			if len(propDests) == 0 {
				continue
			}

			props = append(props, &propagation{
				src:  src,
				dest: propDests,
			})
		}
	}
	return las, props
}

func propagateLookahead(las lookaheadTable, props []*propagation) {
	for {
		changed := false
		for _, prop := range props {
			srcLA := las.of(prop.src)
			for _, dest := range prop.dest {
				if las.of(dest).Merge(srcLA) {
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
}
