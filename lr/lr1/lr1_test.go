package lr1

import (
	"testing"

	"github.com/nihei9/lrgen/grammar/symbol"
	"github.com/nihei9/lrgen/lr/internal/lrtest"
	"github.com/nihei9/lrgen/lr/lr0"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestBuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()

	lrtest.TestAccepts(t, Build, lrtest.Concat(lrtest.LR0, lrtest.SLR1, lrtest.LALR1, lrtest.LR1))
}

func TestBuild_Rejects(t *testing.T) {
	lrtest.TestRejects(t, Build, lrtest.Concat(
		lrtest.LR2,
		lrtest.Ambiguous,
	))
}

func TestBuild_StateCount(t *testing.T) {
	tests := []struct {
		caption string
		ex      *lrtest.Example
		lr0     int
		lr1     int
	}{
		{
			caption: "assignments split four LR(0) states",
			ex:      lrtest.LALR1[1],
			lr0:     11,
			lr1:     15,
		},
		{
			caption: "a shared kernel splits by its look-ahead",
			ex:      lrtest.LR0[3],
			lr0:     10,
			lr1:     11,
		},
		{
			caption: "a grammar without look-ahead needs no split",
			ex:      lrtest.LR0[0],
			lr0:     4,
			lr1:     4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := lrtest.ParseGrammar(t, tt.ex)
			c, err := lr0.Explore(g, nil)
			if err != nil {
				t.Fatal(err)
			}
			a, err := Build(g)
			if err != nil {
				t.Fatal(err)
			}
			if len(c.Sets) != tt.lr0 || a.Len() != tt.lr1 {
				t.Fatalf("unexpected state counts; want: %v/%v, got: %v/%v", tt.lr0, tt.lr1, len(c.Sets), a.Len())
			}
		})
	}
}

func TestClosure(t *testing.T) {
	g := lrtest.ParseGrammar(t, lrtest.LALR1[1])
	symTab := g.SymbolTable()
	lookup := func(name string) symbol.Symbol {
		sym, err := symTab.Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		return sym
	}

	items := Closure(g, []*Item{
		{
			Item:      lr0.Item{Rule: 0, Dot: 0},
			Lookahead: symbol.NewSet(),
		},
	})

	// $accept → • E $eof, E → • L = R, E → • R, L → • * R, L → • id, R → • L
	expected := []struct {
		rule      int
		lookahead []symbol.Symbol
	}{
		{rule: 0, lookahead: []symbol.Symbol{}},
		{rule: 1, lookahead: []symbol.Symbol{symbol.SymbolEOF}},
		{rule: 2, lookahead: []symbol.Symbol{symbol.SymbolEOF}},
		{rule: 3, lookahead: []symbol.Symbol{symbol.SymbolEOF, lookup("'='")}},
		{rule: 4, lookahead: []symbol.Symbol{symbol.SymbolEOF, lookup("'='")}},
		{rule: 5, lookahead: []symbol.Symbol{symbol.SymbolEOF}},
	}
	if len(items) != len(expected) {
		t.Fatalf("unexpected closure: %v", ToAutomatonItems(items))
	}
	for i, e := range expected {
		it := items[i]
		if it.Rule != e.rule || it.Dot != 0 {
			t.Fatalf("unexpected item #%v: %+v", i, it.Item)
		}
		la := it.Lookahead.Sorted()
		if len(la) != len(e.lookahead) {
			t.Fatalf("unexpected look-ahead of item #%v; want: %v, got: %v", i, e.lookahead, la)
		}
		for j := range la {
			if la[j] != e.lookahead[j] {
				t.Fatalf("unexpected look-ahead of item #%v; want: %v, got: %v", i, e.lookahead, la)
			}
		}
	}
}
