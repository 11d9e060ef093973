package driver

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/lrgen/grammar/symbol"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

const (
	lexSpecName    = "lrgen"
	kindNameSkip   = "ws"
	patternSkip    = `[\u{0009}\u{000A}\u{000D}\u{0020}]+`
	kindNamePrefix = "t"
)

type tokenStreamConfig struct {
	patterns map[string]string
	skip     string
}

type TokenStreamOption func(c *tokenStreamConfig) error

// Pattern makes the lexer match a terminal with a regular expression instead of its own spelling.
func Pattern(terminal string, pattern string) TokenStreamOption {
	return func(c *tokenStreamConfig) error {
		if pattern == "" {
			return fmt.Errorf("an empty pattern was given to %v", terminal)
		}
		c.patterns[terminal] = pattern
		return nil
	}
}

// Skip replaces the pattern of the text skipped between tokens, which defaults to white spaces.
func Skip(pattern string) TokenStreamOption {
	return func(c *tokenStreamConfig) error {
		c.skip = pattern
		return nil
	}
}

// TokenStream reads terminals from a source text with a lexer generated from the terminals of a
// symbol table.
type TokenStream struct {
	symTab         *symbol.SymbolTable
	lex            *mldriver.Lexer
	kindToTerminal []symbol.Symbol
	eof            bool
}

func NewTokenStream(symTab *symbol.SymbolTable, src io.Reader, opts ...TokenStreamOption) (*TokenStream, error) {
	c := &tokenStreamConfig{
		patterns: map[string]string{},
		skip:     patternSkip,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	lexSpec, kind2Term, err := genLexSpec(symTab, c)
	if err != nil {
		return nil, err
	}
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(lexSpec), src)
	if err != nil {
		return nil, err
	}

	return &TokenStream{
		symTab:         symTab,
		lex:            lex,
		kindToTerminal: kind2Term,
	}, nil
}

// genLexSpec compiles one lexical kind per terminal except $eof, plus a kind for skipped text. The
// kinds are named after the terminal indexes because terminal names need not be valid kind names.
func genLexSpec(symTab *symbol.SymbolTable, c *tokenStreamConfig) (*mlspec.CompiledLexSpec, []symbol.Symbol, error) {
	known := map[string]struct{}{}
	name2Term := map[mlspec.LexKindName]symbol.Symbol{}
	entries := []*mlspec.LexEntry{}
	for _, sym := range symTab.Terminals() {
		if sym == symbol.SymbolEOF {
			continue
		}
		name := symTab.Name(sym)
		known[name] = struct{}{}

		p, ok := c.patterns[name]
		if !ok {
			p = mlspec.EscapePattern(name)
		}
		kind := mlspec.LexKindName(fmt.Sprintf("%v%v", kindNamePrefix, sym.Int()))
		name2Term[kind] = sym
		entries = append(entries, &mlspec.LexEntry{
			Kind:    kind,
			Pattern: mlspec.LexPattern(p),
		})
	}
	for name := range c.patterns {
		if _, ok := known[name]; !ok {
			return nil, nil, fmt.Errorf("a pattern was given to an unknown terminal: %v", name)
		}
	}
	if c.skip != "" {
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(kindNameSkip),
			Pattern: mlspec.LexPattern(c.skip),
		})
	}

	lexSpec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    lexSpecName,
		Entries: entries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, nil, errors.New(b.String())
		}
		return nil, nil, err
	}

	kind2Term := make([]symbol.Symbol, len(lexSpec.KindNames))
	for i, k := range lexSpec.KindNames {
		sym, ok := name2Term[k]
		if !ok {
			kind2Term[i] = symbol.SymbolNil
			continue
		}
		kind2Term[i] = sym
	}
	return lexSpec, kind2Term, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

// Next returns the next terminal. Skipped text never appears. At the end of the source Next returns
// $eof once and io.EOF afterwards.
func (s *TokenStream) Next() (*Terminal, error) {
	if s.eof {
		return nil, io.EOF
	}
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			s.eof = true
			return &Terminal{
				Sym:  symbol.SymbolEOF,
				Name: symbol.NameEOF,
				Row:  tok.Row + 1,
				Col:  tok.Col + 1,
			}, nil
		}
		if tok.Invalid {
			return nil, fmt.Errorf("%v:%v: invalid token: %q", tok.Row+1, tok.Col+1, string(tok.Lexeme))
		}

		sym := s.kindToTerminal[tok.KindID]
		if sym.IsNil() {
			continue
		}
		return &Terminal{
			Sym:  sym,
			Name: s.symTab.Name(sym),
			Text: string(tok.Lexeme),
			Row:  tok.Row + 1,
			Col:  tok.Col + 1,
		}, nil
	}
}

// All reads the remaining terminals including $eof.
func (s *TokenStream) All() ([]*Terminal, error) {
	var toks []*Terminal
	for {
		tok, err := s.Next()
		if err == io.EOF {
			return toks, nil
		}
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
}
