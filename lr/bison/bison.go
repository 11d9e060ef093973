// Package bison lowers grammars by running GNU Bison and reading back the automaton from its XML
// report. It serves as a reference the native engines are checked against.
package bison

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/nihei9/lrgen/automaton"
	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.lr")
}

// Values of `%define lr.type`.
const (
	LRTypeLALR        = "lalr"
	LRTypeIELR        = "ielr"
	LRTypeCanonicalLR = "canonical-lr"
)

var LRTypes = []string{LRTypeLALR, LRTypeIELR, LRTypeCanonicalLR}

const (
	defaultPath    = "bison"
	defaultTimeout = 10 * time.Second
)

// EngineName returns the engine name of an lr.type, e.g. `bison-ielr`.
func EngineName(lrType string) string {
	return "bison-" + lrType
}

// Backend runs one flavour of bison.
type Backend struct {
	lrType  string
	path    string
	timeout time.Duration
}

type Option func(b *Backend)

// Path sets the bison executable. A bare name is searched in PATH.
func Path(path string) Option {
	return func(b *Backend) {
		b.path = path
	}
}

// Timeout bounds a single bison run. A run exceeding it is killed.
func Timeout(d time.Duration) Option {
	return func(b *Backend) {
		b.timeout = d
	}
}

func Engine(lrType string, opts ...Option) *Backend {
	b := &Backend{
		lrType:  lrType,
		path:    defaultPath,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func LALR(opts ...Option) *Backend {
	return Engine(LRTypeLALR, opts...)
}

func IELR(opts ...Option) *Backend {
	return Engine(LRTypeIELR, opts...)
}

func CanonicalLR(opts ...Option) *Backend {
	return Engine(LRTypeCanonicalLR, opts...)
}

func (b *Backend) Name() string {
	return EngineName(b.lrType)
}

// Build runs bison on g and rebuilds the automaton from its report. Every failure, including a
// missing executable, is a *error.LoweringError unless ctx itself is done.
func (b *Backend) Build(ctx context.Context, g *grammar.Grammar) (*automaton.Automaton, error) {
	report, err := b.Run(ctx, g)
	if err != nil {
		return nil, err
	}
	a, err := Reconstruct(g, report)
	if err != nil {
		return nil, b.rename(err)
	}
	a.SetEngine(b.Name())

	tracer().Debugf("%v: %v states", b.Name(), a.Len())

	return a, nil
}

// Run writes g into a temporary directory, runs bison on it, and parses the XML report.
func (b *Backend) Run(ctx context.Context, g *grammar.Grammar) (*Report, error) {
	dir, err := os.MkdirTemp("", "lrgen-bison-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	yPath := filepath.Join(dir, "grammar.y")
	xmlPath := filepath.Join(dir, "grammar.xml")
	if err := b.writeGrammarFile(yPath, g); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, b.path, yPath, "-o", os.DevNull, "--xml="+xmlPath, "-Wall", "-Werror", "-Wno-deprecated")
	cmd.Stderr = &stderr

	tracer().Debugf("%v: running %v", b.Name(), strings.Join(cmd.Args, " "))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		switch {
		case errors.Is(err, exec.ErrNotFound):
			return nil, b.lowerErr("bison is not available", err)
		case runCtx.Err() != nil:
			return nil, b.lowerErr(fmt.Sprintf("bison did not finish within %v", b.timeout), runCtx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "bison failed"
		}
		return nil, b.lowerErr(msg, err)
	}

	f, err := os.Open(xmlPath)
	if err != nil {
		return nil, b.lowerErr("bison wrote no report", err)
	}
	defer f.Close()

	report, err := ParseReport(f)
	if err != nil {
		return nil, b.rename(err)
	}
	return report, nil
}

func (b *Backend) writeGrammarFile(path string, g *grammar.Grammar) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteGrammar(f, g, b.lrType); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (b *Backend) lowerErr(msg string, cause error) error {
	return &verr.LoweringError{
		Engine:  b.Name(),
		Message: msg,
		Cause:   cause,
	}
}

// rename attributes a lowering error raised while reading a report to this backend.
func (b *Backend) rename(err error) error {
	var lowErr *verr.LoweringError
	if errors.As(err, &lowErr) {
		lowErr.Engine = b.Name()
	}
	return err
}
