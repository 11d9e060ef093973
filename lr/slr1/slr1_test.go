package slr1

import (
	"errors"
	"testing"

	"github.com/nihei9/lrgen/automaton"
	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/lr/internal/lrtest"
	"github.com/nihei9/lrgen/lr/lr0"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestBuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()

	lrtest.TestAccepts(t, Build, lrtest.Concat(lrtest.LR0, lrtest.SLR1))
}

func TestBuild_Rejects(t *testing.T) {
	lrtest.TestRejects(t, Build, lrtest.Concat(
		lrtest.LALR1,
		lrtest.LR1,
		lrtest.LR2,
		lrtest.Ambiguous,
	))
}

func TestBuild_ConflictReport(t *testing.T) {
	g := lrtest.ParseGrammar(t, lrtest.LALR1[1])
	_, err := Build(g)
	var lowErr *verr.LoweringError
	if !errors.As(err, &lowErr) {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `conflicts in 1 states:
1 conflicts in state 2
  =: {Shift(<state 7>), Reduce(<rule 5>)}`
	if lowErr.Message != expected {
		t.Fatalf("unexpected report:\n%v", lowErr.Message)
	}
	if lowErr.Engine != EngineName {
		t.Fatalf("unexpected engine: %v", lowErr.Engine)
	}
}

func TestBuild_Lookahead(t *testing.T) {
	g := lrtest.ParseGrammar(t, lrtest.SLR1[2])
	a, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}

	var found bool
	for _, s := range a.States() {
		if len(s.Kernel) != 2 {
			continue
		}
		found = true
		expected := []string{"<A → c • ∥ {a}>", "<B → c • ∥ {b}>"}
		for i, item := range s.Kernel {
			if a.ItemString(item) != expected[i] {
				t.Fatalf("unexpected item; want: %v, got: %v", expected[i], a.ItemString(item))
			}
		}
		if act, ok := s.Action(g.Start()); ok {
			t.Fatalf("a non-terminal must not have an action: %v", act)
		}
		for _, act := range s.Actions {
			if act.Kind != automaton.ActionReduce {
				t.Fatalf("the state must only reduce: %v", act)
			}
		}
	}
	if !found {
		t.Fatalf("the state reached by c was not found")
	}
}

func TestBuild_LookaheadNeeded(t *testing.T) {
	tests := []struct {
		ex        *lrtest.Example
		lr0Failed bool
	}{
		// The reduction of C is alone in its state, so no look-ahead is needed.
		{ex: lrtest.LR0[4], lr0Failed: false},
		{ex: lrtest.SLR1[0], lr0Failed: true},
	}
	for _, tt := range tests {
		t.Run(tt.ex.Caption, func(t *testing.T) {
			g := lrtest.ParseGrammar(t, tt.ex)
			_, err := lr0.Build(g)
			if tt.lr0Failed {
				var lowErr *verr.LoweringError
				if !errors.As(err, &lowErr) {
					t.Fatalf("LR(0) construction must fail with a lowering error: %v", err)
				}
			} else if err != nil {
				t.Fatal(err)
			}
			a, err := Build(g)
			if err != nil {
				t.Fatal(err)
			}
			lrtest.TestInputs(t, a, tt.ex)
		})
	}
}
