package driver

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/nihei9/lrgen/automaton"
	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar/symbol"
)

// Runtime executes an automaton one terminal at a time. The state stack always holds one more entry
// than the value stack.
type Runtime struct {
	automaton *automaton.Automaton
	states    []int
	values    []Value
}

func NewRuntime(a *automaton.Automaton) *Runtime {
	return &Runtime{
		automaton: a,
		states:    []int{0},
	}
}

func (r *Runtime) top() int {
	return r.states[len(r.states)-1]
}

// Feed performs every reduction the terminal triggers and then shifts it. When a state has no action
// for the terminal, Feed returns an *error.InputError. Reductions performed before that stay on the
// stacks.
func (r *Runtime) Feed(tok *Terminal) error {
	g := r.automaton.Grammar()
	symTab := g.SymbolTable()
	if tok.Name == "" {
		named := *tok
		named.Name = symTab.Name(tok.Sym)
		tok = &named
	}

	for {
		state := r.automaton.State(r.top())
		act, ok := state.Action(tok.Sym)
		if !ok {
			return &verr.InputError{
				Symbol:   tok.Name,
				Expected: r.Expected(),
				Row:      tok.Row,
				Col:      tok.Col,
			}
		}

		switch act.Kind {
		case automaton.ActionShift:
			tracer().Debugf("shift %v: state %v -> %v", tok.Name, state.Num, act.State)
			r.values = append(r.values, tok)
			r.states = append(r.states, act.State)
			return nil
		case automaton.ActionReduce:
			rule := g.Rule(act.Rule)
			n := rule.Len()
			children := make([]Value, n)
			copy(children, r.values[len(r.values)-n:])
			r.values = r.values[:len(r.values)-n]
			r.states = r.states[:len(r.states)-n]

			next, ok := r.automaton.State(r.top()).Goto(rule.LHS)
			if !ok {
				panic(fmt.Sprintf("state %v has no goto on %v", r.top(), symTab.Name(rule.LHS)))
			}
			tracer().Debugf("reduce %v: state %v -> %v", g.RuleString(rule), r.top(), next)
			r.values = append(r.values, &Nonterminal{
				Sym:      rule.LHS,
				Name:     symTab.Name(rule.LHS),
				Rule:     rule.ID,
				Alt:      rule.Alt,
				Children: children,
			})
			r.states = append(r.states, next)
		default:
			panic(fmt.Sprintf("invalid action: %v", act))
		}
	}
}

// FeedAll feeds the terminals in order and stops at the first error.
func (r *Runtime) FeedAll(toks []*Terminal) error {
	for _, tok := range toks {
		if err := r.Feed(tok); err != nil {
			return err
		}
	}
	return nil
}

// Accepted reports whether $eof has been shifted into the final state.
func (r *Runtime) Accepted() bool {
	return len(r.states) == 3 && r.automaton.IsFinal(r.top()) && len(r.values) == 2
}

// Get returns the value of the start symbol. It panics unless the runtime has accepted its input.
func (r *Runtime) Get() Value {
	if !r.Accepted() {
		panic(fmt.Sprintf("the runtime has not accepted its input: %v", r))
	}
	return r.values[0]
}

// Expected returns the names of the terminals the current state has an action for, in symbol order.
func (r *Runtime) Expected() []string {
	set := treeset.NewWith(symbolComparator)
	for sym := range r.automaton.State(r.top()).Actions {
		set.Add(sym)
	}

	symTab := r.automaton.Grammar().SymbolTable()
	names := make([]string, 0, set.Size())
	it := set.Iterator()
	for it.Next() {
		names = append(names, symTab.Name(it.Value().(symbol.Symbol)))
	}
	return names
}

func symbolComparator(a, b interface{}) int {
	x := a.(symbol.Symbol)
	y := b.(symbol.Symbol)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func (r *Runtime) String() string {
	return fmt.Sprintf("<Runtime in state #%v/%v with %v values>", r.top(), r.automaton.Len(), len(r.values))
}
