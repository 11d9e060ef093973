package error

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// SpecError decorates an error with the location of a grammar source file. The CLI wraps grammar errors
// in it so that the offending line is echoed back to the user.
type SpecError struct {
	Cause      error
	FilePath   string
	SourceName string
	Row        int
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Row != 0 {
		fmt.Fprintf(&b, "%v: ", e.Row)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)

	line := readLine(e.FilePath, e.Row)
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
	}

	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

// NewSpecError attaches a file path to err. When err is a *GrammarError, its row is carried over.
func NewSpecError(err error, filePath string) *SpecError {
	e := &SpecError{
		Cause:      err,
		FilePath:   filePath,
		SourceName: filePath,
	}
	var gErr *GrammarError
	if errors.As(err, &gErr) {
		e.Row = gErr.Row
	}
	return e
}

func readLine(filePath string, row int) string {
	if filePath == "" || row <= 0 {
		return ""
	}

	f, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	i := 1
	s := bufio.NewScanner(f)
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}

var (
	ErrDuplicateSymbol   = errors.New("duplicate symbol")
	ErrInvalidSymbolName = errors.New("invalid symbol name")
	ErrUndefinedSymbol   = errors.New("undefined symbol")

	ErrMissingTerminator = errors.New("a rule must end with ';'")
	ErrMissingSeparator  = errors.New("a rule needs ':' between its left-hand side and right-hand side")
	ErrNonAdjacentRules  = errors.New("rules of the same left-hand side must be adjacent")
	ErrTerminalLHS       = errors.New("a terminal symbol cannot be a left-hand side")
	ErrNoRules           = errors.New("a non-terminal symbol has no rules")
	ErrNoStart           = errors.New("a grammar needs at least one rule")

	// ErrNotImplemented is returned by a construction engine that is not available. The fallback
	// driver skips such engines silently.
	ErrNotImplemented = errors.New("not implemented")
)

// SymbolError reports a symbol table failure: a duplicate name, an invalid name, or a reference
// to a name that was never interned.
type SymbolError struct {
	Name  string
	Cause error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%v: %q", e.Cause, e.Name)
}

func (e *SymbolError) Unwrap() error {
	return e.Cause
}

// GrammarError reports a malformed rule line or a structural problem of a grammar.
type GrammarError struct {
	Row   int
	Line  string
	Cause error
}

func (e *GrammarError) Error() string {
	var b strings.Builder
	if e.Row > 0 {
		fmt.Fprintf(&b, "line %v: ", e.Row)
	}
	fmt.Fprintf(&b, "%v", e.Cause)
	if e.Line != "" {
		fmt.Fprintf(&b, ": %q", e.Line)
	}
	return b.String()
}

func (e *GrammarError) Unwrap() error {
	return e.Cause
}

// Conflict describes competing actions of a state under one lookahead symbol. Actions are rendered
// as text so that this package stays free of automaton types.
type Conflict struct {
	State   int
	Symbol  string
	Actions []string
}

func (c *Conflict) String() string {
	return fmt.Sprintf("%v: {%v}", c.Symbol, strings.Join(c.Actions, ", "))
}

// LoweringError reports that a grammar could not be lowered into an automaton by an engine. Either
// the grammar is outside the engine's class (conflicts), or an external backend failed.
type LoweringError struct {
	Engine    string
	Message   string
	Conflicts []*Conflict
	Cause     error
}

func (e *LoweringError) Error() string {
	var b strings.Builder
	if e.Engine != "" {
		fmt.Fprintf(&b, "%v: ", e.Engine)
	}
	fmt.Fprintf(&b, "%v", e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *LoweringError) Unwrap() error {
	return e.Cause
}

// InputError reports a token that the current state of a runtime does not accept.
type InputError struct {
	Symbol   string
	Expected []string
	Row      int
	Col      int
}

func (e *InputError) Error() string {
	var b strings.Builder
	if e.Row > 0 {
		fmt.Fprintf(&b, "%v:%v: ", e.Row, e.Col)
	}
	if len(e.Expected) == 0 {
		fmt.Fprintf(&b, "got %v; expected no more input", e.Symbol)
	} else {
		fmt.Fprintf(&b, "got %v; expected one of %v", e.Symbol, strings.Join(e.Expected, ", "))
	}
	return b.String()
}

// IsParserError reports whether err is one of the error kinds raised for a grammar or an input
// rather than for a defect or an environment failure.
func IsParserError(err error) bool {
	var symErr *SymbolError
	var gramErr *GrammarError
	var lowErr *LoweringError
	var inErr *InputError
	return errors.As(err, &symErr) ||
		errors.As(err, &gramErr) ||
		errors.As(err, &lowErr) ||
		errors.As(err, &inErr)
}
