package bison

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/grammar/symbol"
)

// WriteGrammar writes g as a bison grammar file. Bare terminal names are declared with %token; quoted
// literals need no declaration. Only the augmented rule is left out, bison adds its own.
func WriteGrammar(w io.Writer, g *grammar.Grammar, lrType string) error {
	symTab := g.SymbolTable()
	bw := bufio.NewWriter(w)

	for _, sym := range symTab.Terminals() {
		if sym == symbol.SymbolEOF {
			continue
		}
		name := symTab.BisonName(sym)
		if name != symTab.Name(sym) {
			continue
		}
		fmt.Fprintf(bw, "%%token %v\n", name)
	}
	fmt.Fprintf(bw, "%%start %v\n", symTab.BisonName(g.Start()))
	fmt.Fprintf(bw, "%%define lr.type %v\n", lrType)
	fmt.Fprintf(bw, "%%define lr.default-reduction accepting\n")
	fmt.Fprintf(bw, "%%%%\n")
	for _, r := range g.Rules() {
		if r.ID == grammar.RuleAccept {
			continue
		}
		var rhs []string
		for _, sym := range r.RHS {
			rhs = append(rhs, symTab.BisonName(sym))
		}
		if len(rhs) == 0 {
			rhs = append(rhs, "%empty")
		}
		fmt.Fprintf(bw, "%v: %v;\n", symTab.BisonName(r.LHS), strings.Join(rhs, " "))
	}
	fmt.Fprintf(bw, "%%%%\n")

	return bw.Flush()
}
