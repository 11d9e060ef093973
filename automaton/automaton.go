// Package automaton holds the shift-reduce automaton every LR construction produces: states with
// their action and goto tables, the items that created them, and the reports built on top of them.
package automaton

import (
	"fmt"
	"strings"

	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/grammar/symbol"
)

type ActionKind int

const (
	ActionShift ActionKind = iota
	ActionReduce
)

// Action is an entry of an action table. There is no error action, a missing entry is an error, and
// there is no accept action either: acceptance is implicit after $eof is shifted.
type Action struct {
	Kind  ActionKind
	State int
	Rule  int
}

func Shift(state int) Action {
	return Action{
		Kind:  ActionShift,
		State: state,
	}
}

func Reduce(rule int) Action {
	return Action{
		Kind: ActionReduce,
		Rule: rule,
	}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionShift:
		return fmt.Sprintf("Shift(<state %v>)", a.State)
	case ActionReduce:
		return fmt.Sprintf("Reduce(<rule %v>)", a.Rule)
	}
	return fmt.Sprintf("<invalid action %v>", int(a.Kind))
}

// Item is the diagnostic form of an LR item. Lookahead is nil for constructions without look-ahead.
//
// E → E + T
//
// Dot | Item
// ----+-------------
// 0   | E → • E + T
// 1   | E → E • + T
// 2   | E → E + • T
// 3   | E → E + T •
type Item struct {
	Rule      int
	Dot       int
	Lookahead []symbol.Symbol
}

// Transition is an incoming edge of a state.
type Transition struct {
	From   int
	Symbol symbol.Symbol
}

type State struct {
	Num int

	// Kernel and Closure are the items the state was created from. Closure lists the non-kernel items
	// only.
	Kernel  []Item
	Closure []Item

	Preds []Transition

	Actions map[symbol.Symbol]Action
	Gotos   map[symbol.Symbol]int
}

func (s *State) Action(sym symbol.Symbol) (Action, bool) {
	act, ok := s.Actions[sym]
	return act, ok
}

func (s *State) Goto(sym symbol.Symbol) (int, bool) {
	next, ok := s.Gotos[sym]
	return next, ok
}

func (s *State) AddPred(from int, sym symbol.Symbol) {
	s.Preds = append(s.Preds, Transition{
		From:   from,
		Symbol: sym,
	})
}

// Automaton is an append-only list of states. State 0 is the initial state.
type Automaton struct {
	grammar *grammar.Grammar
	engine  string
	states  []*State
}

func New(g *grammar.Grammar) *Automaton {
	return &Automaton{
		grammar: g,
	}
}

func (a *Automaton) Grammar() *grammar.Grammar {
	return a.grammar
}

// Engine returns the name of the construction that built the automaton.
func (a *Automaton) Engine() string {
	return a.engine
}

func (a *Automaton) SetEngine(name string) {
	a.engine = name
}

// AddState appends a state numbered after the existing ones.
func (a *Automaton) AddState(kernel []Item) *State {
	s := &State{
		Num:     len(a.states),
		Kernel:  kernel,
		Actions: map[symbol.Symbol]Action{},
		Gotos:   map[symbol.Symbol]int{},
	}
	a.states = append(a.states, s)
	return s
}

func (a *Automaton) States() []*State {
	return a.states
}

func (a *Automaton) State(num int) *State {
	return a.states[num]
}

func (a *Automaton) Len() int {
	return len(a.states)
}

// IsFinal reports whether a state is the one reached by shifting $eof, i.e. its kernel is the single
// item `$accept → Start $eof •`.
func (a *Automaton) IsFinal(num int) bool {
	if num < 0 || num >= len(a.states) {
		return false
	}
	k := a.states[num].Kernel
	return len(k) == 1 && k[0].Rule == grammar.RuleAccept && k[0].Dot == 2
}

func (a *Automaton) String() string {
	return fmt.Sprintf("<Automaton with %v states>", len(a.states))
}

// ItemString renders an item as `<A → x • y ∥ {la}>`.
func (a *Automaton) ItemString(item Item) string {
	symTab := a.grammar.SymbolTable()
	r := a.grammar.Rule(item.Rule)

	var b strings.Builder
	fmt.Fprintf(&b, "<%v →", symTab.Name(r.LHS))
	for i, sym := range r.RHS {
		if i == item.Dot {
			fmt.Fprintf(&b, " •")
		}
		fmt.Fprintf(&b, " %v", symTab.Name(sym))
	}
	if item.Dot == len(r.RHS) {
		fmt.Fprintf(&b, " •")
	}
	if item.Lookahead != nil {
		names := make([]string, len(item.Lookahead))
		for i, sym := range item.Lookahead {
			names[i] = symTab.Name(sym)
		}
		fmt.Fprintf(&b, " ∥ {%v}", strings.Join(names, ", "))
	}
	b.WriteString(">")
	return b.String()
}
