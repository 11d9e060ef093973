package driver

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nihei9/lrgen/grammar/symbol"
)

// Value is a node of a value tree. It is either a *Terminal or a *Nonterminal.
type Value interface {
	Symbol() symbol.Symbol
	String() string
}

// Terminal is a token fed into a runtime. Row and Col are 1-based, and zero when the position is
// unknown.
type Terminal struct {
	Sym  symbol.Symbol
	Name string
	Text string
	Row  int
	Col  int
}

// NewTerminal creates a terminal value of the symbol interned under name.
func NewTerminal(symTab *symbol.SymbolTable, name string, text string) (*Terminal, error) {
	sym, err := symTab.Lookup(name)
	if err != nil {
		return nil, err
	}
	return &Terminal{
		Sym:  sym,
		Name: symTab.Name(sym),
		Text: text,
	}, nil
}

func (t *Terminal) Symbol() symbol.Symbol {
	return t.Sym
}

// String returns `'sym'` when the text is empty or spells the symbol itself, and `sym('text')`
// otherwise.
func (t *Terminal) String() string {
	if t.Text == "" || t.Text == t.Name {
		return quote(t.Name)
	}
	return fmt.Sprintf("%v(%v)", t.Name, quote(t.Text))
}

// Nonterminal is the result of a reduction. Alt is the position of the rule among the rules of its
// left-hand side.
type Nonterminal struct {
	Sym      symbol.Symbol
	Name     string
	Rule     int
	Alt      int
	Children []Value
}

func (n *Nonterminal) Symbol() symbol.Symbol {
	return n.Sym
}

// String collapses single-child nodes into dots: `.'a'` is a nonterminal whose only child is the
// terminal `'a'`. Other nonterminals print as `Sym<alt>(child, ...)`.
func (n *Nonterminal) String() string {
	if len(n.Children) == 1 {
		return "." + n.Children[0].String()
	}
	children := make([]string, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.String()
	}
	return fmt.Sprintf("%v%v(%v)", n.Name, n.Alt, strings.Join(children, ", "))
}

// quote renders s as a single-quoted literal. It switches to double quotes when s contains a single
// quote but no double quote.
func quote(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder
	b.WriteRune(q)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(&b, `\x%02x`, s[i])
		case r == q || r == '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
		i += size
	}
	b.WriteRune(q)
	return b.String()
}

// PrintTree writes a value tree with one node per line:
//
//	S0
//	├─ a
//	├─ C0
//	│  └─ c
//	└─ int "1"
func PrintTree(w io.Writer, v Value) {
	printTree(w, v, "", "")
}

func printTree(w io.Writer, v Value, ruledLine string, childRuledLinePrefix string) {
	if v == nil {
		return
	}

	var children []Value
	switch v := v.(type) {
	case *Terminal:
		if v.Text != "" && v.Text != v.Name {
			fmt.Fprintf(w, "%v%v %#v\n", ruledLine, v.Name, v.Text)
		} else {
			fmt.Fprintf(w, "%v%v\n", ruledLine, v.Name)
		}
	case *Nonterminal:
		fmt.Fprintf(w, "%v%v%v\n", ruledLine, v.Name, v.Alt)
		children = v.Children
	}

	num := len(children)
	for i, child := range children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
