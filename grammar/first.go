package grammar

import (
	"github.com/nihei9/lrgen/grammar/symbol"
)

type firstEntry struct {
	symbols symbol.Set
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: symbol.NewSet(),
		empty:   false,
	}
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	return e.symbols.Merge(target.symbols)
}

type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

func newFirstSet(g *Grammar) *firstSet {
	fst := &firstSet{
		set: map[symbol.Symbol]*firstEntry{},
	}
	for _, sym := range g.symTab.Nonterminals() {
		fst.set[sym] = newFirstEntry()
	}
	return fst
}

// ofSequence computes FIRST of a symbol sequence. The entry is empty-flagged when every symbol of
// syms is nullable, including when syms is empty.
func (fst *firstSet) ofSequence(symTab *symbol.SymbolTable, syms []symbol.Symbol) *firstEntry {
	entry := newFirstEntry()
	for _, sym := range syms {
		if symTab.IsTerminal(sym) {
			entry.symbols.Add(sym)
			return entry
		}
		e := fst.set[sym]
		entry.mergeExceptEmpty(e)
		if e == nil || !e.empty {
			return entry
		}
	}
	entry.addEmpty()
	return entry
}

func genFirstSet(g *Grammar) *firstSet {
	fst := newFirstSet(g)
	for {
		more := false
		for _, r := range g.rules {
			if genRuleFirstEntry(g.symTab, fst, fst.set[r.LHS], r) {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return fst
}

func genRuleFirstEntry(symTab *symbol.SymbolTable, fst *firstSet, acc *firstEntry, r *Rule) bool {
	if r.IsEmpty() {
		return acc.addEmpty()
	}

	changed := false
	for _, sym := range r.RHS {
		if symTab.IsTerminal(sym) {
			return acc.symbols.Add(sym) || changed
		}

		e := fst.set[sym]
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed
		}
	}
	return acc.addEmpty() || changed
}

func (g *Grammar) firstSet() *firstSet {
	g.firstOnce.Do(func() {
		g.first = genFirstSet(g)
	})
	return g.first
}

// First returns FIRST(sym). For a terminal it is the terminal itself. The second value reports
// whether sym derives the empty string.
func (g *Grammar) First(sym symbol.Symbol) (symbol.Set, bool) {
	if g.symTab.IsTerminal(sym) {
		return symbol.NewSet(sym), false
	}
	e, ok := g.firstSet().set[sym]
	if !ok {
		return symbol.NewSet(), false
	}
	return e.symbols.Clone(), e.empty
}

// FirstOfSequence returns FIRST of a symbol sequence and whether the whole sequence is nullable.
func (g *Grammar) FirstOfSequence(syms []symbol.Symbol) (symbol.Set, bool) {
	e := g.firstSet().ofSequence(g.symTab, syms)
	return e.symbols, e.empty
}
