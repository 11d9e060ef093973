package symbol

import (
	"fmt"
	"sort"
	"strings"

	verr "github.com/nihei9/lrgen/error"
)

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

// Symbol is an index into a SymbolTable. Terminal symbols occupy the lower indexes and non-terminal
// symbols the upper ones:
//
// Index   | Symbol
// --------+-------------------------------
// 0       | $eof
// 1..t    | terminals in interning order
// t+1     | $accept
// t+2..   | non-terminals in interning order
type Symbol int

const (
	// SymbolNil stands for "no symbol", e.g. the symbol after the dot of a reducible item.
	SymbolNil = Symbol(-1)
	SymbolEOF = Symbol(0)

	// The names contain `$` to avoid conflicting with user-defined symbols.
	NameEOF    = "$eof"
	NameAccept = "$accept"

	nameReserved = "error"
)

func (s Symbol) Int() int {
	return int(s)
}

func (s Symbol) IsNil() bool {
	return s < 0
}

func (s Symbol) String() string {
	if s.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("#%v", int(s))
}

type SymbolTable struct {
	text2Sym map[string]Symbol
	sym2Text []string

	// termNum is the number of terminal symbols including $eof. The $accept symbol is numbered termNum.
	termNum int
}

// NewSymbolTable interns terminal and non-terminal names. The reserved symbols $eof and $accept are
// always present; $eof is the first terminal and $accept is the first non-terminal.
func NewSymbolTable(terminals, nonTerminals []string) (*SymbolTable, error) {
	t := &SymbolTable{
		text2Sym: map[string]Symbol{},
	}
	t.add(NameEOF)
	for _, name := range terminals {
		text, err := normalize(name, symbolKindTerminal)
		if err != nil {
			return nil, err
		}
		if _, ok := t.text2Sym[text]; ok {
			return nil, &verr.SymbolError{Name: name, Cause: verr.ErrDuplicateSymbol}
		}
		t.add(text)
	}
	t.termNum = len(t.sym2Text)
	t.add(NameAccept)
	for _, name := range nonTerminals {
		text, err := normalize(name, symbolKindNonTerminal)
		if err != nil {
			return nil, err
		}
		if _, ok := t.text2Sym[text]; ok {
			return nil, &verr.SymbolError{Name: name, Cause: verr.ErrDuplicateSymbol}
		}
		t.add(text)
	}
	return t, nil
}

func (t *SymbolTable) add(text string) {
	t.text2Sym[text] = Symbol(len(t.sym2Text))
	t.sym2Text = append(t.sym2Text, text)
}

// Lookup returns the symbol interned under name. Quoted literals are accepted in their quoted form;
// names beginning with `$` are looked up verbatim.
func (t *SymbolTable) Lookup(name string) (Symbol, error) {
	text := name
	if !strings.HasPrefix(name, "$") {
		var err error
		text, err = normalize(name, symbolKindTerminal)
		if err != nil {
			return SymbolNil, err
		}
	}
	sym, ok := t.text2Sym[text]
	if !ok {
		return SymbolNil, &verr.SymbolError{Name: name, Cause: verr.ErrUndefinedSymbol}
	}
	return sym, nil
}

// ToSymbol looks up a canonical (unquoted) name.
func (t *SymbolTable) ToSymbol(text string) (Symbol, bool) {
	sym, ok := t.text2Sym[text]
	return sym, ok
}

// Name returns the canonical name of sym. Quoted literals are returned without their quotes.
func (t *SymbolTable) Name(sym Symbol) string {
	if sym.IsNil() || sym.Int() >= len(t.sym2Text) {
		return sym.String()
	}
	return t.sym2Text[sym]
}

func (t *SymbolTable) IsTerminal(sym Symbol) bool {
	return !sym.IsNil() && sym.Int() < t.termNum
}

func (t *SymbolTable) Accept() Symbol {
	return Symbol(t.termNum)
}

func (t *SymbolTable) Len() int {
	return len(t.sym2Text)
}

// Terminals returns all terminal symbols including $eof in index order.
func (t *SymbolTable) Terminals() []Symbol {
	syms := make([]Symbol, t.termNum)
	for i := range syms {
		syms[i] = Symbol(i)
	}
	return syms
}

// Nonterminals returns all non-terminal symbols including $accept in index order.
func (t *SymbolTable) Nonterminals() []Symbol {
	syms := make([]Symbol, 0, len(t.sym2Text)-t.termNum)
	for i := t.termNum; i < len(t.sym2Text); i++ {
		syms = append(syms, Symbol(i))
	}
	return syms
}

var bisonEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// BisonName spells sym the way bison expects it in a grammar file.
func (t *SymbolTable) BisonName(sym Symbol) string {
	text := t.Name(sym)
	switch {
	case sym == SymbolEOF:
		return "$end"
	case sym == t.Accept():
		return "$accept"
	case isBareName(text):
		return text
	case len(text) == 1 && text != "'":
		return "'" + strings.ReplaceAll(text, `\`, `\\`) + "'"
	default:
		return `"` + bisonEscaper.Replace(text) + `"`
	}
}

// normalize validates a symbol name and returns its canonical form.
//
// Kind         | Form                     | Canonical
// -------------+--------------------------+----------
// bare name    | expr, left-paren         | as is
// quoted       | '+', "...", '"'          | unquoted
//
// Quoted literals are allowed only for terminals, must contain only ASCII punctuation, and must not
// contain their own quote character.
func normalize(name string, kind symbolKind) (string, error) {
	if name == nameReserved || name == NameEOF || name == NameAccept {
		if name == nameReserved {
			return "", &verr.SymbolError{Name: name, Cause: verr.ErrInvalidSymbolName}
		}
		return "", &verr.SymbolError{Name: name, Cause: verr.ErrDuplicateSymbol}
	}
	if kind == symbolKindTerminal && len(name) > 2 {
		for _, q := range []byte{'\'', '"'} {
			if name[0] != q || name[len(name)-1] != q {
				continue
			}
			text := name[1 : len(name)-1]
			if strings.IndexByte(text, q) >= 0 || !isPunctuation(text) {
				return "", &verr.SymbolError{Name: name, Cause: verr.ErrInvalidSymbolName}
			}
			return text, nil
		}
	}
	if !isBareName(name) {
		return "", &verr.SymbolError{Name: name, Cause: verr.ErrInvalidSymbolName}
	}
	return name, nil
}

func isBareName(name string) bool {
	if name == "" {
		return false
	}
	for _, w := range strings.Split(name, "-") {
		if w == "" {
			return false
		}
		for _, c := range w {
			if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
				return false
			}
		}
	}
	return true
}

func isPunctuation(text string) bool {
	for _, c := range text {
		if !strings.ContainsRune(punctuation, c) {
			return false
		}
	}
	return true
}

const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Set is a set of symbols. The zero value is not usable; make one with NewSet.
type Set map[Symbol]struct{}

func NewSet(syms ...Symbol) Set {
	s := Set{}
	for _, sym := range syms {
		s[sym] = struct{}{}
	}
	return s
}

// Add reports whether sym was newly added.
func (s Set) Add(sym Symbol) bool {
	if _, ok := s[sym]; ok {
		return false
	}
	s[sym] = struct{}{}
	return true
}

func (s Set) Has(sym Symbol) bool {
	_, ok := s[sym]
	return ok
}

// Merge adds all symbols of t and reports whether s changed.
func (s Set) Merge(t Set) bool {
	changed := false
	for sym := range t {
		if s.Add(sym) {
			changed = true
		}
	}
	return changed
}

func (s Set) Clone() Set {
	c := make(Set, len(s))
	for sym := range s {
		c[sym] = struct{}{}
	}
	return c
}

// Sorted returns the symbols in index order.
func (s Set) Sorted() []Symbol {
	syms := make([]Symbol, 0, len(s))
	for sym := range s {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}
