package bison

import (
	"encoding/xml"
	"io"

	verr "github.com/nihei9/lrgen/error"
)

// Report is the part of bison's XML report (`--xml`) the automaton is rebuilt from.
type Report struct {
	XMLName  xml.Name      `xml:"bison-xml-report"`
	Version  string        `xml:"version,attr"`
	Filename string        `xml:"filename"`
	Grammar  ReportGrammar `xml:"grammar"`
	States   []*State      `xml:"automaton>state"`
}

type ReportGrammar struct {
	Rules        []*Rule        `xml:"rules>rule"`
	Terminals    []*Terminal    `xml:"terminals>terminal"`
	Nonterminals []*Nonterminal `xml:"nonterminals>nonterminal"`
}

// Rule is a numbered rule. An empty right-hand side is reported as `<empty/>` and leaves RHS empty.
type Rule struct {
	Number     int      `xml:"number,attr"`
	Usefulness string   `xml:"usefulness,attr"`
	LHS        string   `xml:"lhs"`
	RHS        []string `xml:"rhs>symbol"`
}

type Terminal struct {
	SymbolNumber int    `xml:"symbol-number,attr"`
	TokenNumber  int    `xml:"token-number,attr"`
	Name         string `xml:"name,attr"`
	Usefulness   string `xml:"usefulness,attr"`
	Prec         int    `xml:"prec,attr"`
	Assoc        string `xml:"assoc,attr"`
}

type Nonterminal struct {
	SymbolNumber int    `xml:"symbol-number,attr"`
	Name         string `xml:"name,attr"`
	Usefulness   string `xml:"usefulness,attr"`
}

type State struct {
	Number      int           `xml:"number,attr"`
	Items       []*Item       `xml:"itemset>item"`
	Transitions []*Transition `xml:"actions>transitions>transition"`
	Errors      []*ErrorEntry `xml:"actions>errors>error"`
	Reductions  []*Reduction  `xml:"actions>reductions>reduction"`
	Resolutions []*Resolution `xml:"solved-conflicts>resolution"`
}

type Item struct {
	RuleNumber int      `xml:"rule-number,attr"`
	Point      int      `xml:"point,attr"`
	Lookaheads []string `xml:"lookaheads>symbol"`
}

const (
	TransitionShift = "shift"
	TransitionGoto  = "goto"
)

type Transition struct {
	Type   string `xml:"type,attr"`
	Symbol string `xml:"symbol,attr"`
	State  int    `xml:"state,attr"`
}

// ErrorEntry is an explicit error action caused by %nonassoc.
type ErrorEntry struct {
	Symbol string `xml:"symbol,attr"`
	Reason string `xml:",chardata"`
}

const (
	reductionAccept = "accept"
	symbolDefault   = "$default"
)

// Reduction reduces by a rule number, or by `accept` for the augmented rule. A disabled reduction lost
// a conflict resolution.
type Reduction struct {
	Symbol  string `xml:"symbol,attr"`
	Rule    string `xml:"rule,attr"`
	Enabled string `xml:"enabled,attr"`
}

func (r *Reduction) IsEnabled() bool {
	return r.Enabled != "false"
}

type Resolution struct {
	Rule   int    `xml:"rule,attr"`
	Symbol string `xml:"symbol,attr"`
	Type   string `xml:"type,attr"`
	Reason string `xml:",chardata"`
}

// ParseReport decodes an XML report. A malformed report is a *error.LoweringError.
func ParseReport(r io.Reader) (*Report, error) {
	report := &Report{}
	if err := xml.NewDecoder(r).Decode(report); err != nil {
		return nil, &verr.LoweringError{
			Engine:  "bison",
			Message: "malformed report",
			Cause:   err,
		}
	}
	return report, nil
}
