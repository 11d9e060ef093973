// Package lrtest holds grammars sorted by the weakest construction that accepts them, along with
// inputs to run through the resulting automata.
package lrtest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/nihei9/lrgen/automaton"
	"github.com/nihei9/lrgen/driver"
	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar"
)

type Good struct {
	Input    string
	Expected string
}

// Example is a grammar with inputs. Short inputs run out before they are complete, so the runtime
// rejects their $eof. Bad inputs contain a terminal the runtime rejects at their end; they never
// reach $eof.
type Example struct {
	Caption string
	Grammar string
	Sep     string
	Good    []Good
	Short   []string
	Bad     []string
}

type BuildFunc func(g *grammar.Grammar) (*automaton.Automaton, error)

func ParseGrammar(t *testing.T, ex *Example) *grammar.Grammar {
	t.Helper()

	g, err := grammar.ParseSource(strings.NewReader(ex.Grammar))
	if err != nil {
		t.Fatalf("failed to parse the grammar of %v: %v", ex.Caption, err)
	}
	return g
}

// TestAccepts builds every example and checks the runtime against its inputs.
func TestAccepts(t *testing.T, build BuildFunc, examples []*Example) {
	t.Helper()

	for _, ex := range examples {
		t.Run(ex.Caption, func(t *testing.T) {
			g := ParseGrammar(t, ex)
			a, err := build(g)
			if err != nil {
				t.Fatalf("failed to build the automaton: %v", err)
			}
			TestInputs(t, a, ex)
		})
	}
}

// TestInputs checks the good, short and bad inputs of an example against an automaton.
func TestInputs(t *testing.T, a *automaton.Automaton, ex *Example) {
	t.Helper()

	symTab := a.Grammar().SymbolTable()
	split := func(src string) []*driver.Terminal {
		toks, err := driver.SplitTokens(symTab, src, ex.Sep)
		if err != nil {
			t.Fatalf("failed to split %q: %v", src, err)
		}
		return toks
	}

	for _, good := range ex.Good {
		r := driver.NewRuntime(a)
		if err := r.FeedAll(split(good.Input)); err != nil {
			t.Fatalf("input %q: %v\n%v", good.Input, err, dump(a))
		}
		v := r.Get()
		if v.String() != good.Expected {
			t.Fatalf("input %q: want: %v, got: %v\n%v", good.Input, good.Expected, v, spew.Sdump(v))
		}
	}

	bad := make([][]*driver.Terminal, 0, len(ex.Short)+len(ex.Bad))
	for _, src := range ex.Short {
		bad = append(bad, split(src))
	}
	for _, src := range ex.Bad {
		toks := split(src)
		bad = append(bad, toks[:len(toks)-1])
	}
	for _, toks := range bad {
		r := driver.NewRuntime(a)
		if err := r.FeedAll(toks[:len(toks)-1]); err != nil {
			t.Fatalf("input %v: the prefix must be accepted: %v", toks, err)
		}
		err := r.Feed(toks[len(toks)-1])
		var inErr *verr.InputError
		if !errors.As(err, &inErr) {
			t.Fatalf("input %v: the last terminal must be rejected: %v\n%v", toks, err, dump(a))
		}
	}
}

// TestRejects checks that every example fails to build with a lowering error.
func TestRejects(t *testing.T, build BuildFunc, examples []*Example) {
	t.Helper()

	for _, ex := range examples {
		t.Run(ex.Caption, func(t *testing.T) {
			a, err := build(ParseGrammar(t, ex))
			var lowErr *verr.LoweringError
			if !errors.As(err, &lowErr) {
				t.Fatalf("unexpected result: %v, %v", a, err)
			}
			if !verr.IsParserError(err) {
				t.Fatalf("a lowering error must be a parser error: %v", err)
			}
		})
	}
}

func dump(a *automaton.Automaton) string {
	var b bytes.Buffer
	a.Dump(&b)
	return b.String()
}
