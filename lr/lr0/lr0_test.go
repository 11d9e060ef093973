package lr0

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lr/internal/lrtest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestBuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()

	lrtest.TestAccepts(t, Build, lrtest.LR0)
}

func TestBuild_Rejects(t *testing.T) {
	lrtest.TestRejects(t, Build, lrtest.Concat(
		lrtest.SLR1,
		lrtest.LALR1,
		lrtest.LR1,
		lrtest.LR2,
		lrtest.Ambiguous,
	))
}

func TestBuild_Automaton(t *testing.T) {
	g := lrtest.ParseGrammar(t, lrtest.LR0[0])
	a, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != "<Automaton with 4 states>" {
		t.Fatalf("unexpected automaton: %v", a)
	}
	if a.Engine() != EngineName {
		t.Fatalf("unexpected engine: %v", a.Engine())
	}

	var b bytes.Buffer
	if err := a.Dump(&b); err != nil {
		t.Fatal(err)
	}
	expected := `state 0, kernel 1/2, ← ()
  * <$accept → • Root $eof>
  + <Root → • term>
  term: Shift(<state 2>)
  Root: goto 1

state 1, kernel 1/1, ← (0)
  * <$accept → Root • $eof>
  $eof: Shift(<state 3>)

state 2, kernel 1/1, ← (0)
  * <Root → term •>
  $eof: Reduce(<rule 1>)
  term: Reduce(<rule 1>)

state 3, kernel 1/1, ← (1)
  * <$accept → Root $eof •>
  accept

`
	if b.String() != expected {
		t.Fatalf("unexpected dump:\n%v", b.String())
	}
}

func TestBuild_Conflict(t *testing.T) {
	tests := []struct {
		caption  string
		grammar  string
		message  string
		conflict string
		state    int
	}{
		{
			caption: "two reducible items",
			grammar: `
Root: A;
Root: B;
A: term;
B: term;
`,
			message:  "lr0: reduce/reduce conflict",
			conflict: ": {Reduce(<rule 3>), Reduce(<rule 4>)}",
			state:    4,
		},
		{
			caption: "a reducible item next to a shift",
			grammar: `
S: E;
E: t E;
E: t;
`,
			message:  "lr0: shift/reduce conflict",
			conflict: "t: {Shift(<state 3>), Reduce(<rule 3>)}",
			state:    3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g, err := grammar.ParseSource(strings.NewReader(tt.grammar))
			if err != nil {
				t.Fatal(err)
			}
			_, err = Build(g)
			var lowErr *verr.LoweringError
			if !errors.As(err, &lowErr) {
				t.Fatalf("unexpected error: %v", err)
			}
			if err.Error() != tt.message {
				t.Fatalf("unexpected message; want: %v, got: %v", tt.message, err)
			}
			if len(lowErr.Conflicts) != 1 {
				t.Fatalf("unexpected conflicts: %v", lowErr.Conflicts)
			}
			c := lowErr.Conflicts[0]
			if c.String() != tt.conflict || c.State != tt.state {
				t.Fatalf("unexpected conflict; want: %v in state %v, got: %v in state %v", tt.conflict, tt.state, c, c.State)
			}
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	for _, ex := range lrtest.LR0 {
		g := lrtest.ParseGrammar(t, ex)
		var fingerprints []string
		for i := 0; i < 3; i++ {
			a, err := Build(g)
			if err != nil {
				t.Fatal(err)
			}
			h, err := a.Fingerprint()
			if err != nil {
				t.Fatal(err)
			}
			fingerprints = append(fingerprints, h)
		}
		if fingerprints[0] != fingerprints[1] || fingerprints[1] != fingerprints[2] {
			t.Fatalf("%v: fingerprints differ: %v", ex.Caption, fingerprints)
		}
	}
}

func TestExplore(t *testing.T) {
	g := lrtest.ParseGrammar(t, lrtest.SLR1[1])
	var visited []int
	c, err := Explore(g, func(c *Collection, s *ItemSet) error {
		visited = append(visited, s.Num)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Sets) != 6 || len(visited) != 6 {
		t.Fatalf("unexpected item sets: %v, visited: %v", len(c.Sets), visited)
	}
	for i, num := range visited {
		if num != i {
			t.Fatalf("item sets must be visited in discovery order: %v", visited)
		}
	}

	s := c.Sets[3]
	if len(s.Kernel()) != 2 || len(s.Items) != 4 {
		t.Fatalf("unexpected item set: %#v", s)
	}
	if r := s.Reducible(g); len(r) != 1 || r[0].Rule != 3 {
		t.Fatalf("unexpected reducible items: %v", r)
	}
	if len(s.Preds) != 2 {
		t.Fatalf("state 3 is reached from state 0 and from itself: %v", s.Preds)
	}

	stop := errors.New("stop")
	_, err = Explore(g, func(c *Collection, s *ItemSet) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("an error of the visitor must stop the exploration: %v", err)
	}
}

// States with equal kernels are shared: `C → c •` is reached from both `S → a • C a` and
// `S → b • C b`, so the collection has 10 states rather than 11.
func TestBuild_SharedKernel(t *testing.T) {
	g := lrtest.ParseGrammar(t, lrtest.LR0[3])
	a, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 10 {
		t.Fatalf("unexpected state count: %v", a.Len())
	}

	symTab := g.SymbolTable()
	c, ok := symTab.ToSymbol("C")
	if !ok {
		t.Fatal("C is not defined")
	}
	rule := g.RulesFor(c)[0]
	var shared []int
	for _, st := range a.States() {
		if len(st.Kernel) == 1 && st.Kernel[0].Rule == rule.ID && st.Kernel[0].Dot == 1 {
			shared = append(shared, st.Num)
		}
	}
	if len(shared) != 1 {
		t.Fatalf("`C → c •` must be a single state: %v", shared)
	}
	preds := a.State(shared[0]).Preds
	if len(preds) != 2 {
		t.Fatalf("unexpected predecessors: %v", preds)
	}
	for _, p := range preds {
		from := a.State(p.From)
		if len(from.Kernel) != 1 || from.Kernel[0].Dot != 1 || g.Rule(from.Kernel[0].Rule).LHS == c {
			t.Fatalf("unexpected predecessor: %v", from.Num)
		}
		if symTab.Name(p.Symbol) != "c" {
			t.Fatalf("unexpected transition symbol: %v", symTab.Name(p.Symbol))
		}
	}
}
