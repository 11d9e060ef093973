package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nihei9/lrgen/automaton"
	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lr"
)

func readGrammar(path string) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	var opts []grammar.ParseOption
	if *rootFlags.start != "" {
		opts = append(opts, grammar.StartSymbol(*rootFlags.start))
	}
	g, err := grammar.ParseSource(f, opts...)
	if err != nil {
		return nil, verr.NewSpecError(err, path)
	}
	return g, nil
}

// buildAutomaton builds an automaton with the named engine. Without a name, the engine of the
// configuration is used.
func buildAutomaton(ctx context.Context, g *grammar.Grammar, engine string) (*automaton.Automaton, error) {
	if engine == "" {
		engine = conf.GetString(keyEngine)
	}
	engines, err := lr.ByName(engine, engineOptions(conf)...)
	if err != nil {
		return nil, err
	}
	return lr.BuildContext(ctx, g, lr.Engines(engines...))
}

// readAutomaton reads a grammar file and builds its automaton.
func readAutomaton(ctx context.Context, path string, engine string) (*automaton.Automaton, error) {
	g, err := readGrammar(path)
	if err != nil {
		return nil, err
	}
	a, err := buildAutomaton(ctx, g, engine)
	if err != nil {
		return nil, fmt.Errorf("Cannot build an automaton: %w", err)
	}
	return a, nil
}
