package lalr1

import (
	"errors"
	"testing"

	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/lr/internal/lrtest"
	"github.com/nihei9/lrgen/lr/lr0"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestBuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()

	lrtest.TestAccepts(t, Build, lrtest.Concat(lrtest.LR0, lrtest.SLR1, lrtest.LALR1))
}

func TestBuild_Rejects(t *testing.T) {
	lrtest.TestRejects(t, Build, lrtest.Concat(
		lrtest.LR1,
		lrtest.LR2,
		lrtest.Ambiguous,
	))
}

func TestBuild_StateCount(t *testing.T) {
	for _, ex := range lrtest.Concat(lrtest.LR0, lrtest.SLR1, lrtest.LALR1) {
		t.Run(ex.Caption, func(t *testing.T) {
			g := lrtest.ParseGrammar(t, ex)
			c, err := lr0.Explore(g, nil)
			if err != nil {
				t.Fatal(err)
			}
			a, err := Build(g)
			if err != nil {
				t.Fatal(err)
			}
			if a.Len() != len(c.Sets) {
				t.Fatalf("an LALR(1) automaton must have as many states as the LR(0) collection; want: %v, got: %v", len(c.Sets), a.Len())
			}
		})
	}
}

func TestBuild_Lookahead(t *testing.T) {
	g := lrtest.ParseGrammar(t, lrtest.LALR1[0])
	a, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{
		"<D → d • ∥ {a, e}>",
		"<D → d • ∥ {c}>",
		"<S → d c • ∥ {$eof}>",
	}
	found := map[string]bool{}
	for _, s := range a.States() {
		for _, item := range s.Kernel {
			found[a.ItemString(item)] = true
		}
	}
	for _, item := range expected {
		if !found[item] {
			t.Fatalf("item not found: %v", item)
		}
	}
}

func TestBuild_EmptyRule(t *testing.T) {
	ex := &lrtest.Example{
		Caption: "optional terminals",
		Grammar: `
S: Opt a Opt;
Opt: b;
Opt: ;
`,
		Good: []lrtest.Good{
			{Input: "a", Expected: `S0(Opt1(), 'a', Opt1())`},
			{Input: "b a", Expected: `S0(.'b', 'a', Opt1())`},
			{Input: "b a b", Expected: `S0(.'b', 'a', .'b')`},
		},
		Short: []string{
			"",
			"b",
		},
		Bad: []string{
			"b b",
			"a a",
		},
	}
	lrtest.TestAccepts(t, Build, []*lrtest.Example{ex})
}

func TestBuild_ConflictReport(t *testing.T) {
	g := lrtest.ParseGrammar(t, lrtest.Ambiguous[0])
	_, err := Build(g)
	var lowErr *verr.LoweringError
	if !errors.As(err, &lowErr) {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `conflicts in 1 states:
1 conflicts in state 4
  $eof: {Reduce(<rule 3>), Reduce(<rule 4>)}`
	if lowErr.Message != expected {
		t.Fatalf("unexpected report:\n%v", lowErr.Message)
	}
}
