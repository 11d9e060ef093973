package bison

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nihei9/lrgen/automaton"
	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/grammar/symbol"
)

const (
	bisonEOF    = "$end"
	bisonAccept = "$accept"
)

// Symbols bison declares on its own. Grammars never refer to them.
var internalSymbols = map[string]bool{
	"error":      true,
	"$undefined": true,
	"YYUNDEF":    true,
}

func reportErr(format string, a ...interface{}) error {
	return &verr.LoweringError{
		Engine:  "bison",
		Message: fmt.Sprintf(format, a...),
	}
}

// symbolMap resolves the names a report uses into the symbols of a grammar.
type symbolMap map[string]symbol.Symbol

func newSymbolMap(symTab *symbol.SymbolTable, report *Report) (symbolMap, error) {
	m := symbolMap{}
	var names []string
	for _, t := range report.Grammar.Terminals {
		names = append(names, t.Name)
	}
	for _, n := range report.Grammar.Nonterminals {
		names = append(names, n.Name)
	}
	for _, name := range names {
		if internalSymbols[name] {
			continue
		}
		sym, ok := resolveName(symTab, name)
		if !ok {
			return nil, reportErr("unknown symbol in the report: %v", name)
		}
		m[name] = sym
	}
	return m, nil
}

func resolveName(symTab *symbol.SymbolTable, name string) (symbol.Symbol, bool) {
	switch name {
	case bisonEOF:
		return symbol.SymbolEOF, true
	case bisonAccept:
		return symTab.Accept(), true
	}
	text := name
	if len(name) >= 2 && (name[0] == '\'' || name[0] == '"') && name[len(name)-1] == name[0] {
		text = unescape(name[1 : len(name)-1])
	}
	return symTab.ToSymbol(text)
}

// unescape reverses the escapes symbol.SymbolTable.BisonName puts into a quoted literal.
func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (m symbolMap) lookup(name string) (symbol.Symbol, error) {
	sym, ok := m[name]
	if !ok {
		return symbol.SymbolNil, reportErr("undeclared symbol in the report: %v", name)
	}
	return sym, nil
}

// Reconstruct rebuilds the automaton bison computed for g. States keep bison's numbering. The report
// must describe the same rules in the same order as g.
//
// Reductions by the augmented rule are dropped since acceptance is implicit, and so are disabled ones.
// A `$default` reduction applies to every terminal without an explicit action.
func Reconstruct(g *grammar.Grammar, report *Report) (*automaton.Automaton, error) {
	symTab := g.SymbolTable()
	syms, err := newSymbolMap(symTab, report)
	if err != nil {
		return nil, err
	}
	if err := verifyRules(g, syms, report.Grammar.Rules); err != nil {
		return nil, err
	}

	a := automaton.New(g)
	for i, s := range report.States {
		if s.Number != i {
			return nil, reportErr("states are not numbered consecutively: expected state %v, got %v", i, s.Number)
		}
		kernel, closure, err := convertItems(g, syms, s.Items)
		if err != nil {
			return nil, err
		}
		st := a.AddState(kernel)
		st.Closure = closure
	}
	if a.Len() == 0 {
		return nil, reportErr("the report has no states")
	}

	cReport := automaton.NewConflictReport(g)
	for _, s := range report.States {
		st := a.State(s.Number)
		cm := automaton.NewConflictMap[symbol.Symbol, automaton.Action](symTab.Terminals())
		for _, t := range s.Transitions {
			sym, err := syms.lookup(t.Symbol)
			if err != nil {
				return nil, err
			}
			if t.State < 0 || t.State >= a.Len() {
				return nil, reportErr("state %v: transition to an unknown state %v", s.Number, t.State)
			}
			switch {
			case t.Type == TransitionShift && symTab.IsTerminal(sym):
				cm.Add(sym, automaton.Shift(t.State))
			case t.Type == TransitionGoto && !symTab.IsTerminal(sym):
				st.Gotos[sym] = t.State
			default:
				return nil, reportErr("state %v: invalid transition: %v on %v", s.Number, t.Type, t.Symbol)
			}
			a.State(t.State).AddPred(s.Number, sym)
		}
		for _, r := range s.Reductions {
			if !r.IsEnabled() || r.Rule == reductionAccept {
				continue
			}
			rule, err := strconv.Atoi(r.Rule)
			if err != nil || rule <= grammar.RuleAccept || rule >= len(g.Rules()) {
				return nil, reportErr("state %v: reduction by an unknown rule %v", s.Number, r.Rule)
			}
			if r.Symbol == symbolDefault {
				cm.AddDefault(automaton.Reduce(rule))
				continue
			}
			sym, err := syms.lookup(r.Symbol)
			if err != nil {
				return nil, err
			}
			if !symTab.IsTerminal(sym) {
				return nil, reportErr("state %v: reduction on a non-terminal %v", s.Number, r.Symbol)
			}
			cm.Add(sym, automaton.Reduce(rule))
		}

		resolved, conflicts := cm.Finish()
		for sym, act := range resolved {
			st.Actions[sym] = act
		}
		cReport.Add(s.Number, conflicts)
	}
	if err := cReport.Err("bison"); err != nil {
		return nil, err
	}

	return a, nil
}

func verifyRules(g *grammar.Grammar, syms symbolMap, rules []*Rule) error {
	if len(rules) != len(g.Rules()) {
		return reportErr("rule count mismatch: expected %v, got %v", len(g.Rules()), len(rules))
	}
	for i, r := range rules {
		gr := g.Rule(i)
		if r.Number != i {
			return reportErr("rules are not numbered consecutively: expected rule %v, got %v", i, r.Number)
		}
		lhs, err := syms.lookup(r.LHS)
		if err != nil {
			return err
		}
		if lhs != gr.LHS || len(r.RHS) != len(gr.RHS) {
			return reportErr("rule %v does not match: %v", i, g.RuleString(gr))
		}
		for j, name := range r.RHS {
			sym, err := syms.lookup(name)
			if err != nil {
				return err
			}
			if sym != gr.RHS[j] {
				return reportErr("rule %v does not match: %v", i, g.RuleString(gr))
			}
		}
	}
	return nil
}

// convertItems splits an item set into kernel and closure items. Apart from the initial item, the
// closure items are those with the dot at the beginning.
func convertItems(g *grammar.Grammar, syms symbolMap, items []*Item) ([]automaton.Item, []automaton.Item, error) {
	var kernel, closure []automaton.Item
	for _, it := range items {
		if it.RuleNumber < 0 || it.RuleNumber >= len(g.Rules()) || it.Point < 0 || it.Point > g.Rule(it.RuleNumber).Len() {
			return nil, nil, reportErr("invalid item: rule %v, point %v", it.RuleNumber, it.Point)
		}
		item := automaton.Item{
			Rule: it.RuleNumber,
			Dot:  it.Point,
		}
		if len(it.Lookaheads) > 0 {
			la := symbol.NewSet()
			for _, name := range it.Lookaheads {
				sym, err := syms.lookup(name)
				if err != nil {
					return nil, nil, err
				}
				la.Add(sym)
			}
			item.Lookahead = la.Sorted()
		}
		if it.Point > 0 || it.RuleNumber == grammar.RuleAccept {
			kernel = append(kernel, item)
		} else {
			closure = append(closure, item)
		}
	}
	return kernel, closure, nil
}
