package driver

import (
	"strings"
	"testing"
)

func TestTerminal_String(t *testing.T) {
	tests := []struct {
		caption  string
		name     string
		text     string
		expected string
	}{
		{
			caption:  "a terminal without text prints its symbol",
			name:     "term",
			expected: `'term'`,
		},
		{
			caption:  "a terminal spelling its own symbol prints the symbol",
			name:     "...",
			text:     "...",
			expected: `'...'`,
		},
		{
			caption:  "a terminal with text prints both",
			name:     "int",
			text:     "42",
			expected: `int('42')`,
		},
		{
			caption:  "a single quote switches to double quotes",
			name:     "str",
			text:     "it's",
			expected: `str("it's")`,
		},
		{
			caption:  "both quotes keep single quotes and escape the single one",
			name:     "str",
			text:     `'"`,
			expected: `str('\'"')`,
		},
		{
			caption:  "control characters and back slashes are escaped",
			name:     "str",
			text:     "a\\b\tc\n\x01",
			expected: `str('a\\b\tc\n\x01')`,
		},
		{
			caption:  "printable non-ASCII characters are kept",
			name:     "str",
			text:     "día",
			expected: `str('día')`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			tok := &Terminal{
				Name: tt.name,
				Text: tt.text,
			}
			if s := tok.String(); s != tt.expected {
				t.Fatalf("want: %v, got: %v", tt.expected, s)
			}
		})
	}
}

func TestNonterminal_String(t *testing.T) {
	a := &Terminal{Name: "a"}
	c := &Terminal{Name: "c"}
	tests := []struct {
		caption  string
		value    Value
		expected string
	}{
		{
			caption: "a single child is prefixed with a dot",
			value: &Nonterminal{
				Name:     "C",
				Children: []Value{c},
			},
			expected: `.'c'`,
		},
		{
			caption: "chains of single children accumulate dots",
			value: &Nonterminal{
				Name: "A",
				Children: []Value{
					&Nonterminal{
						Name:     "B",
						Children: []Value{c},
					},
				},
			},
			expected: `..'c'`,
		},
		{
			caption: "several children are listed after the symbol and the alternative",
			value: &Nonterminal{
				Name: "S",
				Alt:  1,
				Children: []Value{
					a,
					&Nonterminal{
						Name:     "C",
						Children: []Value{c},
					},
					a,
				},
			},
			expected: `S1('a', .'c', 'a')`,
		},
		{
			caption: "an empty rule has no children",
			value: &Nonterminal{
				Name: "Opt",
				Alt:  0,
			},
			expected: `Opt0()`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			if s := tt.value.String(); s != tt.expected {
				t.Fatalf("want: %v, got: %v", tt.expected, s)
			}
		})
	}
}

func TestPrintTree(t *testing.T) {
	v := &Nonterminal{
		Name: "S",
		Children: []Value{
			&Terminal{Name: "a", Text: "a"},
			&Nonterminal{
				Name: "C",
				Children: []Value{
					&Terminal{Name: "int", Text: "1"},
				},
			},
			&Terminal{Name: "b"},
		},
	}

	var b strings.Builder
	PrintTree(&b, v)
	expected := `S0
├─ a
├─ C0
│  └─ int "1"
└─ b
`
	if b.String() != expected {
		t.Fatalf("unexpected tree:\n%v", b.String())
	}
}
