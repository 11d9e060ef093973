// Package tester runs test case files against an automaton.
package tester

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/lrgen/automaton"
	"github.com/nihei9/lrgen/driver"
	verr "github.com/nihei9/lrgen/error"
)

type TestResult struct {
	TestCasePath string
	Error        error
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent = "    "

		msgLines := strings.Split(r.Error.Error(), "\n")
		return fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent, strings.Join(msgLines, "\n"+indent))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases reads a test case file, or every test case file under a directory recursively.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCase(f)
}

// Tester runs test cases against an automaton. Sep is the separator of `sym:text` words.
type Tester struct {
	Automaton *automaton.Automaton
	Sep       string
	Cases     []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, t.runTest(c))
	}
	return rs
}

func (t *Tester) runTest(c *TestCaseWithMetadata) *TestResult {
	fail := func(err error) *TestResult {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	if c.Error != nil {
		return fail(c.Error)
	}
	tc := c.TestCase

	toks, err := driver.SplitTokens(t.Automaton.Grammar().SymbolTable(), tc.Source, t.Sep)
	if err != nil {
		return fail(err)
	}

	r := driver.NewRuntime(t.Automaton)
	err = r.FeedAll(toks)
	if err != nil {
		var inErr *verr.InputError
		if !errors.As(err, &inErr) {
			return fail(err)
		}
		if tc.ErrorSymbol == "" {
			return fail(fmt.Errorf("the input was rejected: %w", err))
		}
		if inErr.Symbol != tc.ErrorSymbol {
			return fail(fmt.Errorf("the input was rejected at an unexpected symbol:\nexpected: %v\nactual:   %v", tc.ErrorSymbol, inErr.Symbol))
		}
		return &TestResult{
			TestCasePath: c.FilePath,
		}
	}

	if tc.ErrorSymbol != "" {
		return fail(fmt.Errorf("the input was accepted, but it must be rejected at %v", tc.ErrorSymbol))
	}
	if v := r.Get().String(); v != tc.Expected {
		return fail(fmt.Errorf("output mismatch:\nexpected: %v\nactual:   %v", tc.Expected, v))
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}
