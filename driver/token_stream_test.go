package driver

import (
	"io"
	"strings"
	"testing"

	"github.com/nihei9/lrgen/grammar/symbol"
)

func TestTokenStream(t *testing.T) {
	symTab, err := symbol.NewSymbolTable([]string{"'+'", "'*'", "int", "id", "'('", "')'"}, []string{"Sums"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		caption  string
		src      string
		opts     []TokenStreamOption
		expected []string
		err      bool
	}{
		{
			caption:  "terminals match their own spelling",
			src:      "(int) + id",
			expected: []string{`'('`, `'int'`, `')'`, `'+'`, `'id'`, `'$eof'`},
		},
		{
			caption: "patterns override the spelling",
			src:     "(0) + +1 *\n a",
			opts: []TokenStreamOption{
				Pattern("int", "[0-9]+"),
				Pattern("id", "[a-z]+"),
			},
			expected: []string{`'('`, `int('0')`, `')'`, `'+'`, `'+'`, `int('1')`, `'*'`, `id('a')`, `'$eof'`},
		},
		{
			caption:  "an empty source yields only $eof",
			src:      "",
			expected: []string{`'$eof'`},
		},
		{
			caption: "text matching no terminal is an error",
			src:     "( ? )",
			err:     true,
		},
		{
			caption: "a pattern of an unknown terminal is an error",
			src:     "id",
			opts: []TokenStreamOption{
				Pattern("ident", "[a-z]+"),
			},
			err: true,
		},
		{
			caption: "an empty pattern is an error",
			src:     "id",
			opts: []TokenStreamOption{
				Pattern("id", ""),
			},
			err: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			var toks []*Terminal
			s, err := NewTokenStream(symTab, strings.NewReader(tt.src), tt.opts...)
			if err == nil {
				toks, err = s.All()
			}
			if tt.err {
				if err == nil {
					t.Fatalf("an error must occur")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			actual := make([]string, len(toks))
			for i, tok := range toks {
				actual[i] = tok.String()
			}
			if strings.Join(actual, " ") != strings.Join(tt.expected, " ") {
				t.Fatalf("want: %v, got: %v", tt.expected, actual)
			}
		})
	}
}

func TestTokenStream_CompileError(t *testing.T) {
	symTab, err := symbol.NewSymbolTable([]string{"id"}, []string{"S"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewTokenStream(symTab, strings.NewReader("id"), Pattern("id", `a\%`))
	if err == nil {
		t.Fatal("an error must occur")
	}
	if !strings.Contains(err.Error(), `\% is not supported`) {
		t.Fatalf("the message must keep the pattern text: %v", err)
	}
}

func TestTokenStream_Next(t *testing.T) {
	symTab, err := symbol.NewSymbolTable([]string{"a", "b"}, []string{"S"})
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewTokenStream(symTab, strings.NewReader("a\n b"))
	if err != nil {
		t.Fatal(err)
	}

	expected := []struct {
		name string
		row  int
		col  int
	}{
		{name: "a", row: 1, col: 1},
		{name: "b", row: 2, col: 2},
		{name: "$eof"},
	}
	for _, e := range expected {
		tok, err := s.Next()
		if err != nil {
			t.Fatal(err)
		}
		if tok.Name != e.name {
			t.Fatalf("unexpected token; want: %v, got: %v", e.name, tok.Name)
		}
		if e.row > 0 && (tok.Row != e.row || tok.Col != e.col) {
			t.Fatalf("unexpected position of %v; want: %v:%v, got: %v:%v", e.name, e.row, e.col, tok.Row, tok.Col)
		}
	}
	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("Next must return io.EOF after $eof: %v", err)
	}
}
