package automaton

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nihei9/lrgen/grammar/symbol"
)

// Dump writes every state with its items and tables:
//
//	state 1, kernel 1/2, ← (0)
//	  * <S → a • E c>
//	  + <E → • e>
//	  e: Shift(<state 4>)
//	  E: goto 3
func (a *Automaton) Dump(w io.Writer) error {
	symTab := a.grammar.SymbolTable()
	for _, s := range a.states {
		preds := make([]int, 0, len(s.Preds))
		for _, p := range s.Preds {
			preds = append(preds, p.From)
		}
		sort.Ints(preds)
		predStrs := make([]string, len(preds))
		for i, p := range preds {
			predStrs[i] = fmt.Sprint(p)
		}

		_, err := fmt.Fprintf(w, "state %v, kernel %v/%v, ← (%v)\n", s.Num, len(s.Kernel), len(s.Kernel)+len(s.Closure), strings.Join(predStrs, ", "))
		if err != nil {
			return err
		}
		for _, item := range s.Kernel {
			fmt.Fprintf(w, "  * %v\n", a.ItemString(item))
		}
		for _, item := range s.Closure {
			fmt.Fprintf(w, "  + %v\n", a.ItemString(item))
		}
		for _, sym := range sortedKeys(s.Actions) {
			fmt.Fprintf(w, "  %v: %v\n", symTab.Name(sym), s.Actions[sym])
		}
		for _, sym := range sortedKeys(s.Gotos) {
			fmt.Fprintf(w, "  %v: goto %v\n", symTab.Name(sym), s.Gotos[sym])
		}
		if a.IsFinal(s.Num) {
			fmt.Fprintf(w, "  accept\n")
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// WriteDot exports the automaton to the Graphviz dot format. Shift edges are solid, goto edges are
// dashed, and the final state is filled gray.
func (a *Automaton) WriteDot(w io.Writer) error {
	symTab := a.grammar.SymbolTable()

	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range a.states {
		items := make([]string, 0, len(s.Kernel)+len(s.Closure))
		for _, item := range s.Kernel {
			items = append(items, dotEscape(a.ItemString(item)))
		}
		for _, item := range s.Closure {
			items = append(items, dotEscape(a.ItemString(item)))
		}
		color := "white"
		if a.IsFinal(s.Num) {
			color = "lightgray"
		}
		fmt.Fprintf(&b, "s%03d [fillcolor=%v label=\"{%03d | %v}\"]\n", s.Num, color, s.Num, strings.Join(items, `\l`)+`\l`)
	}
	for _, s := range a.states {
		for _, sym := range sortedKeys(s.Actions) {
			act := s.Actions[sym]
			if act.Kind != ActionShift {
				continue
			}
			fmt.Fprintf(&b, "s%03d -> s%03d [label=\"%v\"]\n", s.Num, act.State, dotEscape(symTab.Name(sym)))
		}
		for _, sym := range sortedKeys(s.Gotos) {
			fmt.Fprintf(&b, "s%03d -> s%03d [label=\"%v\", style=dashed]\n", s.Num, s.Gotos[sym], dotEscape(symTab.Name(sym)))
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

var dotReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

func dotEscape(s string) string {
	return dotReplacer.Replace(s)
}

func sortedKeys[V any](m map[symbol.Symbol]V) []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(m))
	for sym := range m {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}
