package grammar

import (
	"github.com/nihei9/lrgen/grammar/symbol"
)

type followSet struct {
	set map[symbol.Symbol]symbol.Set
}

func newFollowSet(g *Grammar) *followSet {
	flw := &followSet{
		set: map[symbol.Symbol]symbol.Set{},
	}
	for _, sym := range g.symTab.Nonterminals() {
		flw.set[sym] = symbol.NewSet()
	}
	return flw
}

// genFollowSet runs a work list over the non-terminals. FOLLOW(A) collects FIRST of what comes after
// each occurrence of A, plus FOLLOW of the rule's LHS when that remainder is nullable. $eof enters
// through rule 0 `$accept → Start $eof`, so the start symbol needs no special case.
func genFollowSet(g *Grammar) *followSet {
	fst := g.firstSet()
	flw := newFollowSet(g)

	nonTerms := g.symTab.Nonterminals()
	queued := map[symbol.Symbol]bool{}
	var queue []symbol.Symbol
	for _, sym := range nonTerms {
		queued[sym] = true
		queue = append(queue, sym)
	}

	for len(queue) > 0 {
		sym := queue[0]
		queue = queue[1:]
		queued[sym] = false

		changed := false
		acc := flw.set[sym]
		for _, occ := range g.OccurrencesOf(sym) {
			r := g.rules[occ.Rule]
			e := fst.ofSequence(g.symTab, r.RHS[occ.Pos+1:])
			if acc.Merge(e.symbols) {
				changed = true
			}
			if e.empty && acc.Merge(flw.set[r.LHS]) {
				changed = true
			}
		}
		if !changed {
			continue
		}

		// FOLLOW(sym) flows into the non-terminals that end the right-hand sides of sym.
		for _, r := range g.lhs2Rules[sym] {
			for _, s := range r.RHS {
				if g.symTab.IsTerminal(s) || queued[s] {
					continue
				}
				queued[s] = true
				queue = append(queue, s)
			}
		}
	}

	return flw
}

// Follow returns FOLLOW(sym) for a non-terminal.
func (g *Grammar) Follow(sym symbol.Symbol) symbol.Set {
	g.followOnce.Do(func() {
		g.follow = genFollowSet(g)
	})
	s, ok := g.follow.set[sym]
	if !ok {
		return symbol.NewSet()
	}
	return s.Clone()
}
