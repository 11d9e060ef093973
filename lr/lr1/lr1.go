// Package lr1 constructs canonical LR(1) automata. It also provides the LR(1) closure the LALR(1)
// construction computes its look-ahead sets with.
package lr1

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/nihei9/lrgen/automaton"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/grammar/symbol"
	"github.com/nihei9/lrgen/lr/lr0"
	"github.com/npillmayer/schuko/tracing"
)

const EngineName = "lr1"

// tracer traces with key 'lrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.lr")
}

// Item is an LR(0) item with a set of look-ahead terminals. An item set holds at most one Item per
// LR(0) item; look-ahead sets of equal cores are merged.
type Item struct {
	lr0.Item
	Lookahead symbol.Set
}

func (it *Item) clone() *Item {
	return &Item{
		Item:      it.Item,
		Lookahead: it.Lookahead.Clone(),
	}
}

// Closure returns the LR(1) closure of the kernel items. The kernel items come first, copied, in the
// order given. The look-ahead sets may contain symbol.SymbolNil as a marker; it is propagated like a
// terminal.
func Closure(g *grammar.Grammar, kernel []*Item) []*Item {
	symTab := g.SymbolTable()
	items := make([]*Item, 0, len(kernel))
	index := map[lr0.Item]int{}
	for _, it := range kernel {
		index[it.Item] = len(items)
		items = append(items, it.clone())
	}

	unchecked := make([]int, len(items))
	for i := range unchecked {
		unchecked[i] = i
	}
	for len(unchecked) > 0 {
		it := items[unchecked[0]]
		unchecked = unchecked[1:]

		sym := it.NextSymbol(g)
		if sym.IsNil() || symTab.IsTerminal(sym) {
			continue
		}
		rule := g.Rule(it.Rule)
		first, nullable := g.FirstOfSequence(rule.RHS[it.Dot+1:])
		la := first.Clone()
		if nullable {
			la.Merge(it.Lookahead)
		}

		for _, r := range g.RulesFor(sym) {
			key := lr0.Item{Rule: r.ID, Dot: 0}
			if i, ok := index[key]; ok {
				if items[i].Lookahead.Merge(la) {
					unchecked = append(unchecked, i)
				}
				continue
			}
			index[key] = len(items)
			items = append(items, &Item{
				Item:      key,
				Lookahead: la.Clone(),
			})
			unchecked = append(unchecked, len(items)-1)
		}
	}
	return items
}

type kernelKey string

func genKernelKey(kernel []*Item) kernelKey {
	sorted := make([]*Item, len(kernel))
	copy(sorted, kernel)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rule != sorted[j].Rule {
			return sorted[i].Rule < sorted[j].Rule
		}
		return sorted[i].Dot < sorted[j].Dot
	})
	var b strings.Builder
	for _, it := range sorted {
		fmt.Fprintf(&b, "%v.%v%v;", it.Rule, it.Dot, it.Lookahead.Sorted())
	}
	return kernelKey(b.String())
}

type neighbourKernel struct {
	symbol symbol.Symbol
	kernel []*Item
}

// genNeighbourKernels partitions the items by the symbol after the dot, keeping the order in which the
// symbols first appear.
func genNeighbourKernels(g *grammar.Grammar, items []*Item) []*neighbourKernel {
	partition := linkedhashmap.New()
	for _, it := range items {
		sym := it.NextSymbol(g)
		if sym.IsNil() {
			continue
		}
		var kernel []*Item
		if v, ok := partition.Get(sym); ok {
			kernel = v.([]*Item)
		}
		partition.Put(sym, append(kernel, &Item{
			Item: lr0.Item{
				Rule: it.Rule,
				Dot:  it.Dot + 1,
			},
			Lookahead: it.Lookahead.Clone(),
		}))
	}

	kernels := make([]*neighbourKernel, 0, partition.Size())
	iter := partition.Iterator()
	for iter.Next() {
		kernels = append(kernels, &neighbourKernel{
			symbol: iter.Key().(symbol.Symbol),
			kernel: iter.Value().([]*Item),
		})
	}
	return kernels
}

// ToAutomatonItems converts items into their diagnostic form with sorted look-ahead symbols.
func ToAutomatonItems(items []*Item) []automaton.Item {
	if len(items) == 0 {
		return nil
	}
	aItems := make([]automaton.Item, len(items))
	for i, it := range items {
		aItems[i] = automaton.Item{
			Rule:      it.Rule,
			Dot:       it.Dot,
			Lookahead: it.Lookahead.Sorted(),
		}
	}
	return aItems
}

// FillActions installs the shifts on terminal transitions and the reductions of the reducible items
// into the action table of a state. Competing actions are returned instead of being installed.
func FillActions(g *grammar.Grammar, st *automaton.State, trans []lr0.Transition, items []*Item) map[symbol.Symbol][]automaton.Action {
	symTab := g.SymbolTable()
	cm := automaton.NewConflictMap[symbol.Symbol, automaton.Action](symTab.Terminals())
	for _, t := range trans {
		if symTab.IsTerminal(t.Symbol) {
			cm.Add(t.Symbol, automaton.Shift(t.To))
		}
	}
	for _, it := range items {
		if !it.NextSymbol(g).IsNil() || it.Rule == grammar.RuleAccept {
			continue
		}
		for _, sym := range it.Lookahead.Sorted() {
			cm.Add(sym, automaton.Reduce(it.Rule))
		}
	}

	resolved, conflicts := cm.Finish()
	for sym, act := range resolved {
		st.Actions[sym] = act
	}
	return conflicts
}

// Build constructs a canonical LR(1) automaton. States are never merged, so the automaton can be
// much larger than its LALR(1) counterpart.
func Build(g *grammar.Grammar) (*automaton.Automaton, error) {
	a := automaton.New(g)
	a.SetEngine(EngineName)
	report := automaton.NewConflictReport(g)
	symTab := g.SymbolTable()

	known := map[kernelKey]int{}
	kernels := [][]*Item{}
	addState := func(kernel []*Item) (int, bool) {
		key := genKernelKey(kernel)
		if num, ok := known[key]; ok {
			return num, false
		}
		st := a.AddState(ToAutomatonItems(kernel))
		known[key] = st.Num
		kernels = append(kernels, kernel)
		return st.Num, true
	}

	addState([]*Item{
		{
			Item:      lr0.Item{Rule: grammar.RuleAccept, Dot: 0},
			Lookahead: symbol.NewSet(),
		},
	})
	unchecked := []int{0}
	for len(unchecked) > 0 {
		nextUnchecked := []int{}
		for _, num := range unchecked {
			st := a.State(num)
			items := Closure(g, kernels[num])
			st.Closure = ToAutomatonItems(items[len(kernels[num]):])

			var trans []lr0.Transition
			for _, n := range genNeighbourKernels(g, items) {
				to, added := addState(n.kernel)
				a.State(to).AddPred(num, n.symbol)
				trans = append(trans, lr0.Transition{
					Symbol: n.symbol,
					To:     to,
				})
				if !symTab.IsTerminal(n.symbol) {
					st.Gotos[n.symbol] = to
				}
				if added {
					nextUnchecked = append(nextUnchecked, to)
				}
			}

			report.Add(num, FillActions(g, st, trans, items))
		}
		unchecked = nextUnchecked
	}

	if err := report.Err(EngineName); err != nil {
		tracer().Infof("lr1: %v", err)
		return nil, err
	}

	tracer().Debugf("lr1: %v states", a.Len())

	return a, nil
}
