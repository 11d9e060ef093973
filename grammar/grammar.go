package grammar

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar/symbol"
)

// RuleAccept is the ID of the augmented rule `$accept → Start $eof`.
const RuleAccept = 0

type Rule struct {
	ID  int
	LHS symbol.Symbol
	RHS []symbol.Symbol

	// Alt is the index of the rule among the rules sharing its LHS.
	Alt int

	// Row is the 1-based line the rule was declared on. The augmented rule has row 0.
	Row int
}

func (r *Rule) Len() int {
	return len(r.RHS)
}

func (r *Rule) IsEmpty() bool {
	return len(r.RHS) == 0
}

// Occurrence locates a symbol in the right-hand side of a rule.
type Occurrence struct {
	Rule int
	Pos  int
}

// Grammar is a set of rules over a symbol table. A Grammar is immutable once Parse returns.
type Grammar struct {
	symTab *symbol.SymbolTable
	start  symbol.Symbol
	rules  []*Rule

	lhs2Rules map[symbol.Symbol][]*Rule

	occOnce sync.Once
	occ     map[symbol.Symbol][]Occurrence

	firstOnce sync.Once
	first     *firstSet

	followOnce sync.Once
	follow     *followSet
}

type parseConfig struct {
	start string
}

type ParseOption func(c *parseConfig)

// StartSymbol selects the start symbol. Without it the LHS of the first rule is the start symbol.
func StartSymbol(name string) ParseOption {
	return func(c *parseConfig) {
		c.start = name
	}
}

type ruleLine struct {
	row  int
	text string
	lhs  string
	rhs  []string
}

// Parse reads rules of the form `LHS: RHS*;`, one per line. Blank lines and lines beginning with `#`
// are skipped. Every name must already be interned in symTab.
func Parse(symTab *symbol.SymbolTable, src io.Reader, opts ...ParseOption) (*Grammar, error) {
	c := &parseConfig{}
	for _, opt := range opts {
		opt(c)
	}

	lines, err := readRuleLines(src)
	if err != nil {
		return nil, err
	}

	return newGrammar(symTab, lines, c)
}

// ParseSource is like Parse but derives the symbol table from the rules: the LHS names become
// non-terminals and the remaining RHS names become terminals, both in order of first appearance.
func ParseSource(src io.Reader, opts ...ParseOption) (*Grammar, error) {
	c := &parseConfig{}
	for _, opt := range opts {
		opt(c)
	}

	lines, err := readRuleLines(src)
	if err != nil {
		return nil, err
	}

	var nonTerms []string
	isNonTerm := map[string]bool{}
	for _, l := range lines {
		if isNonTerm[l.lhs] {
			continue
		}
		isNonTerm[l.lhs] = true
		nonTerms = append(nonTerms, l.lhs)
	}
	var terms []string
	seen := map[string]bool{}
	for _, l := range lines {
		for _, name := range l.rhs {
			if isNonTerm[name] || seen[name] || strings.HasPrefix(name, "$") {
				continue
			}
			seen[name] = true
			terms = append(terms, name)
		}
	}

	symTab, err := symbol.NewSymbolTable(terms, nonTerms)
	if err != nil {
		return nil, err
	}

	return newGrammar(symTab, lines, c)
}

func readRuleLines(src io.Reader) ([]*ruleLine, error) {
	var lines []*ruleLine
	row := 0
	s := bufio.NewScanner(src)
	for s.Scan() {
		row++
		text := strings.TrimSpace(s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if !strings.HasSuffix(text, ";") {
			return nil, &verr.GrammarError{Row: row, Line: text, Cause: verr.ErrMissingTerminator}
		}
		sep := strings.Index(text, ":")
		if sep < 0 {
			return nil, &verr.GrammarError{Row: row, Line: text, Cause: verr.ErrMissingSeparator}
		}
		lines = append(lines, &ruleLine{
			row:  row,
			text: text,
			lhs:  strings.TrimSpace(text[:sep]),
			rhs:  strings.Fields(text[sep+1 : len(text)-1]),
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func newGrammar(symTab *symbol.SymbolTable, lines []*ruleLine, c *parseConfig) (*Grammar, error) {
	g := &Grammar{
		symTab:    symTab,
		lhs2Rules: map[symbol.Symbol][]*Rule{},
	}

	// A start symbol taken from the first rule is reported at that rule.
	startName, startRow, startLine := c.start, 0, ""
	if startName == "" {
		if len(lines) == 0 {
			return nil, &verr.GrammarError{Cause: verr.ErrNoStart}
		}
		startName, startRow, startLine = lines[0].lhs, lines[0].row, lines[0].text
	}
	start, err := g.lookupLHS(startName, startRow, startLine)
	if err != nil {
		return nil, err
	}
	g.start = start
	g.addRule(&Rule{
		LHS: symTab.Accept(),
		RHS: []symbol.Symbol{start, symbol.SymbolEOF},
	})

	prev := symTab.Accept()
	for _, l := range lines {
		lhs, err := g.lookupLHS(l.lhs, l.row, l.text)
		if err != nil {
			return nil, err
		}
		if lhs != prev {
			if _, ok := g.lhs2Rules[lhs]; ok {
				return nil, &verr.GrammarError{Row: l.row, Line: l.text, Cause: verr.ErrNonAdjacentRules}
			}
		}
		prev = lhs

		rhs := make([]symbol.Symbol, 0, len(l.rhs))
		for _, name := range l.rhs {
			sym, err := symTab.Lookup(name)
			if err != nil {
				return nil, &verr.GrammarError{Row: l.row, Line: l.text, Cause: err}
			}
			rhs = append(rhs, sym)
		}
		g.addRule(&Rule{
			LHS: lhs,
			RHS: rhs,
			Row: l.row,
		})
	}

	// Every non-terminal a rule refers to needs at least one rule. Unreferenced non-terminals may stay
	// without rules.
	for _, r := range g.rules {
		for _, sym := range r.RHS {
			if symTab.IsTerminal(sym) {
				continue
			}
			if _, ok := g.lhs2Rules[sym]; ok {
				continue
			}
			return nil, &verr.GrammarError{
				Row:   r.Row,
				Line:  symTab.Name(sym),
				Cause: verr.ErrNoRules,
			}
		}
	}

	tracer().Debugf("grammar: %v rules, %v symbols, start symbol %v", len(g.rules), symTab.Len(), symTab.Name(start))

	return g, nil
}

func (g *Grammar) lookupLHS(name string, row int, line string) (symbol.Symbol, error) {
	sym, err := g.symTab.Lookup(name)
	if err != nil {
		return symbol.SymbolNil, &verr.GrammarError{Row: row, Line: line, Cause: err}
	}
	if g.symTab.IsTerminal(sym) || sym == g.symTab.Accept() {
		return symbol.SymbolNil, &verr.GrammarError{
			Row:   row,
			Line:  line,
			Cause: fmt.Errorf("%w: %v", verr.ErrTerminalLHS, name),
		}
	}
	return sym, nil
}

func (g *Grammar) addRule(r *Rule) {
	r.ID = len(g.rules)
	r.Alt = len(g.lhs2Rules[r.LHS])
	g.rules = append(g.rules, r)
	g.lhs2Rules[r.LHS] = append(g.lhs2Rules[r.LHS], r)
}

func (g *Grammar) SymbolTable() *symbol.SymbolTable {
	return g.symTab
}

// Start returns the user start symbol, i.e. the first symbol of the right-hand side of rule 0.
func (g *Grammar) Start() symbol.Symbol {
	return g.start
}

func (g *Grammar) Rules() []*Rule {
	return g.rules
}

func (g *Grammar) Rule(id int) *Rule {
	return g.rules[id]
}

// RulesFor returns the rules of a non-terminal in declaration order. It returns nil for terminals.
func (g *Grammar) RulesFor(sym symbol.Symbol) []*Rule {
	return g.lhs2Rules[sym]
}

// OccurrencesOf returns every position sym appears at in a right-hand side.
func (g *Grammar) OccurrencesOf(sym symbol.Symbol) []Occurrence {
	g.occOnce.Do(func() {
		g.occ = map[symbol.Symbol][]Occurrence{}
		for _, r := range g.rules {
			for i, s := range r.RHS {
				g.occ[s] = append(g.occ[s], Occurrence{Rule: r.ID, Pos: i})
			}
		}
	})
	return g.occ[sym]
}

// RuleString renders a rule as `LHS → RHS`.
func (g *Grammar) RuleString(r *Rule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", g.symTab.Name(r.LHS))
	for _, sym := range r.RHS {
		fmt.Fprintf(&b, " %v", g.symTab.Name(sym))
	}
	return b.String()
}

func (g *Grammar) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<Grammar with %v rules, %v symbols>", len(g.rules), g.symTab.Len())
	for _, r := range g.rules {
		fmt.Fprintf(&b, "\n  %v", g.RuleString(r))
	}
	return b.String()
}
