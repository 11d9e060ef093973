// Package lr selects a construction engine for a grammar. The fallback driver tries the engines from
// the smallest automaton class to the largest one and keeps the first automaton without conflicts.
package lr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nihei9/lrgen/automaton"
	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lr/bison"
	"github.com/nihei9/lrgen/lr/lalr1"
	"github.com/nihei9/lrgen/lr/lr0"
	"github.com/nihei9/lrgen/lr/lr1"
	"github.com/nihei9/lrgen/lr/slr1"
	"github.com/npillmayer/schuko/tracing"
)

const EngineAuto = "auto"

// tracer traces with key 'lrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.lr")
}

// Engine lowers a grammar into an automaton. An engine returns a *error.LoweringError when the grammar
// is outside its class and error.ErrNotImplemented when it is unavailable.
type Engine interface {
	Name() string
	Build(ctx context.Context, g *grammar.Grammar) (*automaton.Automaton, error)
}

type nativeEngine struct {
	name  string
	build func(g *grammar.Grammar) (*automaton.Automaton, error)
}

func (e *nativeEngine) Name() string {
	return e.name
}

func (e *nativeEngine) Build(ctx context.Context, g *grammar.Grammar) (*automaton.Automaton, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.build(g)
}

var (
	LR0   Engine = &nativeEngine{name: lr0.EngineName, build: lr0.Build}
	SLR1  Engine = &nativeEngine{name: slr1.EngineName, build: slr1.Build}
	LALR1 Engine = &nativeEngine{name: lalr1.EngineName, build: lalr1.Build}
	LR1   Engine = &nativeEngine{name: lr1.EngineName, build: lr1.Build}
)

// NativeEngines returns the built-in engines in the order the fallback driver tries them.
func NativeEngines() []Engine {
	return []Engine{LR0, SLR1, LALR1, LR1}
}

type buildConfig struct {
	engines []Engine
}

type BuildOption func(c *buildConfig)

// Engines replaces the engines the fallback driver tries. They are tried in the order given.
func Engines(engines ...Engine) BuildOption {
	return func(c *buildConfig) {
		c.engines = engines
	}
}

// Build is BuildContext with a background context.
func Build(g *grammar.Grammar, opts ...BuildOption) (*automaton.Automaton, error) {
	return BuildContext(context.Background(), g, opts...)
}

// BuildContext tries the engines in turn and returns the first automaton built. The automaton records
// the name of the engine that built it.
//
// An engine failing with a parser error passes the grammar on to the next engine, and an unavailable
// engine is skipped. When no engine succeeds, the last parser error is returned as is. Any other error
// stops the search immediately.
func BuildContext(ctx context.Context, g *grammar.Grammar, opts ...BuildOption) (*automaton.Automaton, error) {
	c := &buildConfig{
		engines: NativeEngines(),
	}
	for _, opt := range opts {
		opt(c)
	}

	var lastErr error
	for _, e := range c.engines {
		a, err := e.Build(ctx, g)
		if err == nil {
			a.SetEngine(e.Name())
			tracer().Infof("lr: %v built %v states", e.Name(), a.Len())
			return a, nil
		}
		if errors.Is(err, verr.ErrNotImplemented) {
			tracer().Debugf("lr: %v is not available", e.Name())
			continue
		}
		if !verr.IsParserError(err) {
			return nil, err
		}
		tracer().Debugf("lr: %v failed: %v", e.Name(), err)
		lastErr = err
	}
	if lastErr == nil {
		return nil, fmt.Errorf("no engine could build the automaton: %w", verr.ErrNotImplemented)
	}
	return nil, lastErr
}

type engineConfig struct {
	bisonPath    string
	bisonTimeout time.Duration
}

type EngineOption func(c *engineConfig)

// BisonPath sets the bison executable the bison engines run.
func BisonPath(path string) EngineOption {
	return func(c *engineConfig) {
		c.bisonPath = path
	}
}

// BisonTimeout bounds a single bison run.
func BisonTimeout(d time.Duration) EngineOption {
	return func(c *engineConfig) {
		c.bisonTimeout = d
	}
}

// ByName resolves an engine name. The name `auto` yields the native engines in fallback order; every
// other name yields a single engine.
func ByName(name string, opts ...EngineOption) ([]Engine, error) {
	c := &engineConfig{}
	for _, opt := range opts {
		opt(c)
	}
	var bisonOpts []bison.Option
	if c.bisonPath != "" {
		bisonOpts = append(bisonOpts, bison.Path(c.bisonPath))
	}
	if c.bisonTimeout > 0 {
		bisonOpts = append(bisonOpts, bison.Timeout(c.bisonTimeout))
	}

	switch name {
	case EngineAuto:
		return NativeEngines(), nil
	case lr0.EngineName:
		return []Engine{LR0}, nil
	case slr1.EngineName:
		return []Engine{SLR1}, nil
	case lalr1.EngineName:
		return []Engine{LALR1}, nil
	case lr1.EngineName:
		return []Engine{LR1}, nil
	}
	for _, lrType := range bison.LRTypes {
		if name == bison.EngineName(lrType) {
			return []Engine{bison.Engine(lrType, bisonOpts...)}, nil
		}
	}
	return nil, fmt.Errorf("unknown engine: %v", name)
}

// EngineNames lists the names ByName accepts.
func EngineNames() []string {
	names := []string{EngineAuto, lr0.EngineName, slr1.EngineName, lalr1.EngineName, lr1.EngineName}
	for _, lrType := range bison.LRTypes {
		names = append(names, bison.EngineName(lrType))
	}
	return names
}
