package tester

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// TestCase is an input with the outcome the runtime must produce for it. A test case file consists of
// three parts separated by lines of dashes:
//
//	description
//	---
//	tokens
//	---
//	expected value, or `error: <symbol>`
//
// The tokens are white-space separated words as driver.SplitTokens reads them. The third part is either
// the repr of the value the input parses into, or the name of the terminal the runtime rejects.
type TestCase struct {
	Description string
	Source      string
	Expected    string
	ErrorSymbol string
}

const errorPrefix = "error:"

func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just three parts: %v parts found", len(parts))
	}

	c := &TestCase{
		Description: strings.TrimSpace(string(parts[0].buf)),
		Source:      string(parts[1].buf),
	}
	expected := strings.TrimSpace(string(parts[2].buf))
	if sym, ok := cutPrefix(expected, errorPrefix); ok {
		c.ErrorSymbol = strings.TrimSpace(sym)
		if c.ErrorSymbol == "" {
			return nil, fmt.Errorf("line %v: an expected error needs a symbol", parts[0].lineCount+parts[1].lineCount+1)
		}
		return c, nil
	}
	if expected == "" {
		return nil, fmt.Errorf("line %v: the expected value is missing", parts[0].lineCount+parts[1].lineCount+1)
	}
	c.Expected = expected
	return c, nil
}

func cutPrefix(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var bufs []*testCasePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

// readPart reads lines up to the next delimiter. It returns nil at the end of the input and an empty
// slice for an empty part.
func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	line := s.Bytes()
	if reDelim.Match(line) {
		return []byte{}, 1, nil
	}
	var buf bytes.Buffer
	buf.Write(line)
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		lineCount++
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		buf.WriteByte('\n')
		buf.Write(line)
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}
