package driver

import (
	"strings"
	"unicode"

	"github.com/nihei9/lrgen/grammar/symbol"
)

// SplitTokens splits src at white spaces and turns every word into a terminal, then appends $eof.
//
// Word        | Symbol  | Text
// ------------+---------+------
// int:42      | int     | 42     (with sep ":")
// id          | id      | id
// +           | '+'     | +
//
// A word containing sep names its symbol before the first sep. An alphanumeric word names itself. Any
// other word is looked up as a quoted literal.
func SplitTokens(symTab *symbol.SymbolTable, src string, sep string) ([]*Terminal, error) {
	var toks []*Terminal
	for _, word := range strings.Fields(src) {
		var name, text string
		switch {
		case sep != "" && strings.Contains(word, sep):
			name, text, _ = strings.Cut(word, sep)
		case isAlnum(word):
			name, text = word, word
		default:
			name, text = quote(word), word
		}

		tok, err := NewTerminal(symTab, name, text)
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	toks = append(toks, &Terminal{
		Sym:  symbol.SymbolEOF,
		Name: symbol.NameEOF,
	})
	return toks, nil
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
