// Package lr0 constructs LR(0) automata. Its canonical collection is also the skeleton the SLR(1) and
// LALR(1) constructions decorate with look-ahead symbols.
package lr0

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/nihei9/lrgen/automaton"
	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/grammar/symbol"
	"github.com/npillmayer/schuko/tracing"
)

const EngineName = "lr0"

// tracer traces with key 'lrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.lr")
}

// Item is an LR(0) item.
type Item struct {
	Rule int
	Dot  int
}

// NextSymbol returns the symbol after the dot, or symbol.SymbolNil when the item is reducible.
func (it Item) NextSymbol(g *grammar.Grammar) symbol.Symbol {
	r := g.Rule(it.Rule)
	if it.Dot >= len(r.RHS) {
		return symbol.SymbolNil
	}
	return r.RHS[it.Dot]
}

func (it Item) advance() Item {
	return Item{
		Rule: it.Rule,
		Dot:  it.Dot + 1,
	}
}

// Transition is an outgoing edge of an item set.
type Transition struct {
	Symbol symbol.Symbol
	To     int
}

type ItemSet struct {
	Num int

	// Items lists the kernel items first, followed by the closure items.
	Items      []Item
	KernelSize int

	// Transitions are ordered by the first appearance of their symbols in Items.
	Transitions []Transition

	Preds []automaton.Transition
}

func (s *ItemSet) Kernel() []Item {
	return s.Items[:s.KernelSize]
}

// Reducible returns the items whose dot is at the end.
func (s *ItemSet) Reducible(g *grammar.Grammar) []Item {
	var items []Item
	for _, it := range s.Items {
		if it.NextSymbol(g).IsNil() {
			items = append(items, it)
		}
	}
	return items
}

// Collection is the canonical collection of LR(0) item sets.
type Collection struct {
	Grammar *grammar.Grammar
	Sets    []*ItemSet
}

type kernelKey string

func genKernelKey(items []Item) kernelKey {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rule != sorted[j].Rule {
			return sorted[i].Rule < sorted[j].Rule
		}
		return sorted[i].Dot < sorted[j].Dot
	})
	var b strings.Builder
	for _, it := range sorted {
		fmt.Fprintf(&b, "%v.%v;", it.Rule, it.Dot)
	}
	return kernelKey(b.String())
}

// VisitFunc is called once per item set after its closure and transitions are known. An error stops
// the exploration.
type VisitFunc func(c *Collection, s *ItemSet) error

// Explore builds the canonical LR(0) collection with a work list. Item sets are numbered in the order
// they are discovered.
func Explore(g *grammar.Grammar, visit VisitFunc) (*Collection, error) {
	c := &Collection{
		Grammar: g,
	}
	known := map[kernelKey]int{}

	addSet := func(kernel []Item) (int, bool) {
		key := genKernelKey(kernel)
		if num, ok := known[key]; ok {
			return num, false
		}
		s := &ItemSet{
			Num:        len(c.Sets),
			Items:      kernel,
			KernelSize: len(kernel),
		}
		known[key] = s.Num
		c.Sets = append(c.Sets, s)
		return s.Num, true
	}

	addSet([]Item{{Rule: grammar.RuleAccept, Dot: 0}})
	unchecked := []int{0}
	for len(unchecked) > 0 {
		nextUnchecked := []int{}
		for _, num := range unchecked {
			s := c.Sets[num]
			s.Items = genClosure(g, s.Kernel())

			for _, n := range genNeighbourKernels(g, s.Items) {
				to, added := addSet(n.kernel)
				c.Sets[to].Preds = append(c.Sets[to].Preds, automaton.Transition{
					From:   s.Num,
					Symbol: n.symbol,
				})
				s.Transitions = append(s.Transitions, Transition{
					Symbol: n.symbol,
					To:     to,
				})
				if added {
					nextUnchecked = append(nextUnchecked, to)
				}
			}

			if visit != nil {
				if err := visit(c, s); err != nil {
					return nil, err
				}
			}
		}
		unchecked = nextUnchecked
	}

	tracer().Debugf("lr0: %v item sets", len(c.Sets))

	return c, nil
}

func genClosure(g *grammar.Grammar, kernel []Item) []Item {
	items := make([]Item, len(kernel))
	copy(items, kernel)
	knownNonTerms := symbol.NewSet()
	knownRules := map[int]struct{}{}
	for _, it := range kernel {
		if it.Dot == 0 {
			knownRules[it.Rule] = struct{}{}
		}
	}
	for i := 0; i < len(items); i++ {
		sym := items[i].NextSymbol(g)
		if sym.IsNil() || g.SymbolTable().IsTerminal(sym) {
			continue
		}
		if !knownNonTerms.Add(sym) {
			continue
		}
		for _, r := range g.RulesFor(sym) {
			if _, ok := knownRules[r.ID]; ok {
				continue
			}
			knownRules[r.ID] = struct{}{}
			items = append(items, Item{Rule: r.ID, Dot: 0})
		}
	}
	return items
}

type neighbourKernel struct {
	symbol symbol.Symbol
	kernel []Item
}

// genNeighbourKernels partitions the items by the symbol after the dot, keeping the order in which the
// symbols first appear.
func genNeighbourKernels(g *grammar.Grammar, items []Item) []*neighbourKernel {
	partition := linkedhashmap.New()
	for _, it := range items {
		sym := it.NextSymbol(g)
		if sym.IsNil() {
			continue
		}
		var kernel []Item
		if v, ok := partition.Get(sym); ok {
			kernel = v.([]Item)
		}
		partition.Put(sym, append(kernel, it.advance()))
	}

	kernels := make([]*neighbourKernel, 0, partition.Size())
	iter := partition.Iterator()
	for iter.Next() {
		kernels = append(kernels, &neighbourKernel{
			symbol: iter.Key().(symbol.Symbol),
			kernel: iter.Value().([]Item),
		})
	}
	return kernels
}

// NewAutomaton creates an automaton with one state per item set, carrying items, predecessors and gotos.
// Action tables are left to the caller.
func (c *Collection) NewAutomaton() *automaton.Automaton {
	g := c.Grammar
	a := automaton.New(g)
	for _, s := range c.Sets {
		st := a.AddState(toAutomatonItems(s.Kernel()))
		st.Closure = toAutomatonItems(s.Items[s.KernelSize:])
		st.Preds = append(st.Preds, s.Preds...)
		for _, t := range s.Transitions {
			if !g.SymbolTable().IsTerminal(t.Symbol) {
				st.Gotos[t.Symbol] = t.To
			}
		}
	}
	return a
}

func toAutomatonItems(items []Item) []automaton.Item {
	if len(items) == 0 {
		return nil
	}
	aItems := make([]automaton.Item, len(items))
	for i, it := range items {
		aItems[i] = automaton.Item{
			Rule: it.Rule,
			Dot:  it.Dot,
		}
	}
	return aItems
}

// Build constructs an LR(0) automaton. It fails on the first state that has more than one reducible
// item, or a reducible item next to a shift.
func Build(g *grammar.Grammar) (*automaton.Automaton, error) {
	c, err := Explore(g, checkConflict)
	if err != nil {
		return nil, err
	}

	a := c.NewAutomaton()
	a.SetEngine(EngineName)
	symTab := g.SymbolTable()
	for _, s := range c.Sets {
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
			cm.AddDefault(automaton.Reduce(it.Rule))
		}
		resolved, _ := cm.Finish()
		st := a.State(s.Num)
		for sym, act := range resolved {
			st.Actions[sym] = act
		}
	}
	return a, nil
}

func checkConflict(c *Collection, s *ItemSet) error {
	g := c.Grammar
	symTab := g.SymbolTable()

	var reducible []Item
	var shift *Transition
	for _, it := range s.Reducible(g) {
		if it.Rule == grammar.RuleAccept {
			continue
		}
		reducible = append(reducible, it)
	}
	for i, t := range s.Transitions {
		if symTab.IsTerminal(t.Symbol) {
			shift = &s.Transitions[i]
			break
		}
	}

	switch {
	case len(reducible) > 1:
		acts := make([]string, len(reducible))
		for i, it := range reducible {
			acts[i] = automaton.Reduce(it.Rule).String()
		}
		return &verr.LoweringError{
			Engine:  EngineName,
			Message: "reduce/reduce conflict",
			Conflicts: []*verr.Conflict{
				{
					State:   s.Num,
					Actions: acts,
				},
			},
		}
	case len(reducible) == 1 && shift != nil:
		return &verr.LoweringError{
			Engine:  EngineName,
			Message: "shift/reduce conflict",
			Conflicts: []*verr.Conflict{
				{
					State:  s.Num,
					Symbol: symTab.Name(shift.Symbol),
					Actions: []string{
						automaton.Shift(shift.To).String(),
						automaton.Reduce(reducible[0].Rule).String(),
					},
				},
			},
		}
	}
	return nil
}
