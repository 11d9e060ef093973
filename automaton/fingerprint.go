package automaton

import (
	"fmt"

	"github.com/cnf/structhash"
)

type stateSnapshot struct {
	Actions map[string]string
	Gotos   map[string]int
	Final   bool
}

type automatonSnapshot struct {
	States []stateSnapshot
}

// Fingerprint hashes the tables of the automaton. States are renumbered breadth-first from state 0,
// following transitions in symbol order, so two automata that differ only in state numbering share
// a fingerprint. Items and predecessors do not contribute.
func (a *Automaton) Fingerprint() (string, error) {
	if len(a.states) == 0 {
		return structhash.Hash(automatonSnapshot{}, 1)
	}

	renum := map[int]int{0: 0}
	queue := []int{0}
	for len(queue) > 0 {
		s := a.states[queue[0]]
		queue = queue[1:]

		visit := func(next int) {
			if _, ok := renum[next]; ok {
				return
			}
			renum[next] = len(renum)
			queue = append(queue, next)
		}
		for _, sym := range sortedKeys(s.Actions) {
			if act := s.Actions[sym]; act.Kind == ActionShift {
				visit(act.State)
			}
		}
		for _, sym := range sortedKeys(s.Gotos) {
			visit(s.Gotos[sym])
		}
	}

	symTab := a.grammar.SymbolTable()
	snap := automatonSnapshot{
		States: make([]stateSnapshot, len(renum)),
	}
	for orig, num := range renum {
		s := a.states[orig]
		ss := stateSnapshot{
			Actions: map[string]string{},
			Gotos:   map[string]int{},
			Final:   a.IsFinal(orig),
		}
		for sym, act := range s.Actions {
			if act.Kind == ActionShift {
				act = Shift(renum[act.State])
			}
			ss.Actions[symTab.Name(sym)] = act.String()
		}
		for sym, next := range s.Gotos {
			ss.Gotos[symTab.Name(sym)] = renum[next]
		}
		snap.States[num] = ss
	}

	h, err := structhash.Hash(snap, 1)
	if err != nil {
		return "", fmt.Errorf("failed to hash the automaton: %w", err)
	}
	return h, nil
}
