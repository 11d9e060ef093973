package automaton

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/grammar/symbol"
)

// ConflictMap collects candidate values per key over a fixed key universe. Default candidates apply
// to every key that has no explicit candidate.
type ConflictMap[K comparable, V any] struct {
	keys     []K
	known    map[K]struct{}
	data     map[K][]V
	defaults []V
}

func NewConflictMap[K comparable, V any](keys []K) *ConflictMap[K, V] {
	known := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		known[k] = struct{}{}
	}
	return &ConflictMap[K, V]{
		keys:  keys,
		known: known,
		data:  map[K][]V{},
	}
}

// Add records an explicit candidate. A key outside the universe is a programming error.
func (m *ConflictMap[K, V]) Add(k K, v V) {
	if _, ok := m.known[k]; !ok {
		panic(fmt.Sprintf("conflict map: unknown key %v", k))
	}
	m.data[k] = append(m.data[k], v)
}

func (m *ConflictMap[K, V]) AddDefault(v V) {
	m.defaults = append(m.defaults, v)
}

// Finish splits the keys into resolved ones with a single candidate and conflicting ones with two or
// more. Keys without any candidate appear in neither map.
func (m *ConflictMap[K, V]) Finish() (map[K]V, map[K][]V) {
	resolved := map[K]V{}
	conflicts := map[K][]V{}
	for _, k := range m.keys {
		vs := m.data[k]
		if len(vs) == 0 {
			vs = m.defaults
		}
		switch len(vs) {
		case 0:
		case 1:
			resolved[k] = vs[0]
		default:
			conflicts[k] = vs
		}
	}
	return resolved, conflicts
}

// ConflictReport accumulates conflicts of several states and renders them ordered by state number and
// symbol index.
type ConflictReport struct {
	grammar *grammar.Grammar
	states  *treemap.Map
}

func NewConflictReport(g *grammar.Grammar) *ConflictReport {
	return &ConflictReport{
		grammar: g,
		states:  treemap.NewWithIntComparator(),
	}
}

func (r *ConflictReport) Add(state int, conflicts map[symbol.Symbol][]Action) {
	if len(conflicts) == 0 {
		return
	}
	r.states.Put(state, conflicts)
}

func (r *ConflictReport) Empty() bool {
	return r.states.Empty()
}

func (r *ConflictReport) Conflicts() []*verr.Conflict {
	symTab := r.grammar.SymbolTable()
	var cs []*verr.Conflict
	it := r.states.Iterator()
	for it.Next() {
		state := it.Key().(int)
		conflicts := it.Value().(map[symbol.Symbol][]Action)
		syms := symbol.NewSet()
		for sym := range conflicts {
			syms.Add(sym)
		}
		for _, sym := range syms.Sorted() {
			acts := make([]string, len(conflicts[sym]))
			for i, act := range conflicts[sym] {
				acts[i] = act.String()
			}
			cs = append(cs, &verr.Conflict{
				State:   state,
				Symbol:  symTab.Name(sym),
				Actions: acts,
			})
		}
	}
	return cs
}

// String renders the report:
//
//	conflicts in 1 states:
//	2 conflicts in state 4
//	  a: {Shift(<state 3>), Reduce(<rule 2>)}
//	  b: {Reduce(<rule 2>), Reduce(<rule 3>)}
func (r *ConflictReport) String() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("conflicts in %v states:", r.states.Size()))
	byState := map[int][]*verr.Conflict{}
	var order []int
	for _, c := range r.Conflicts() {
		if _, ok := byState[c.State]; !ok {
			order = append(order, c.State)
		}
		byState[c.State] = append(byState[c.State], c)
	}
	for _, state := range order {
		lines = append(lines, fmt.Sprintf("%v conflicts in state %v", len(byState[state]), state))
		for _, c := range byState[state] {
			lines = append(lines, "  "+c.String())
		}
	}
	return strings.Join(lines, "\n")
}

// Err returns nil when no conflict was reported.
func (r *ConflictReport) Err(engine string) error {
	if r.Empty() {
		return nil
	}
	return &verr.LoweringError{
		Engine:    engine,
		Message:   r.String(),
		Conflicts: r.Conflicts(),
	}
}
