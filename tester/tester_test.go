package tester

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lr"
)

const grammarSrc = `
Sums: Sums '+' Products;
Sums: Products;
Products: Products '*' Value;
Products: Value;
Value: int;
Value: '(' Sums ')';
`

func TestParseTestCase(t *testing.T) {
	tests := []struct {
		caption  string
		src      string
		expected *TestCase
		error    bool
	}{
		{
			caption: "an expected value",
			src: `Sum
---
int:1 + int:2
---
Sums0(.int('1'), '+', ..int('2'))
`,
			expected: &TestCase{
				Description: "Sum",
				Source:      "int:1 + int:2",
				Expected:    `Sums0(.int('1'), '+', ..int('2'))`,
			},
		},
		{
			caption: "an expected error",
			src: `
Dangling operator
-----
int:1 +
---
error: $eof
`,
			expected: &TestCase{
				Description: "Dangling operator",
				Source:      "int:1 +",
				ErrorSymbol: "$eof",
			},
		},
		{
			caption: "an empty input",
			src: `Nothing
---
---
error: $eof
`,
			expected: &TestCase{
				Description: "Nothing",
				ErrorSymbol: "$eof",
			},
		},
		{
			caption: "too few parts",
			src: `Sum
---
int:1
`,
			error: true,
		},
		{
			caption: "too many parts",
			src: `Sum
---
int:1
---
...int('1')
---
extra
`,
			error: true,
		},
		{
			caption: "an error without a symbol",
			src: `Sum
---
int:1
---
error:
`,
			error: true,
		},
		{
			caption: "a missing expected value",
			src: `Sum
---
int:1
---

`,
			error: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			c, err := ParseTestCase(strings.NewReader(tt.src))
			if tt.error {
				if err == nil {
					t.Fatalf("an error must occur: %+v", c)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if *c != *tt.expected {
				t.Fatalf("unexpected test case; want: %+v, got: %+v", tt.expected, c)
			}
		})
	}
}

func TestTester_Run(t *testing.T) {
	g, err := grammar.ParseSource(strings.NewReader(grammarSrc))
	if err != nil {
		t.Fatal(err)
	}
	a, err := lr.Build(g)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		caption string
		testSrc string
		error   bool
	}{
		{
			caption: "a matching value",
			testSrc: `
Test
---
int:1 + int:2 * int:3
---
Sums0(...int('1'), '+', Products0(..int('2'), '*', .int('3')))
`,
		},
		{
			caption: "a rejection at the expected symbol",
			testSrc: `
Test
---
( int:1
---
error: $eof
`,
		},
		{
			caption: "a different value",
			testSrc: `
Test
---
int:1
---
..int('2')
`,
			error: true,
		},
		{
			caption: "a rejection at another symbol",
			testSrc: `
Test
---
int:1 +
---
error: )
`,
			error: true,
		},
		{
			caption: "an unexpected rejection",
			testSrc: `
Test
---
int:1 + +
---
..int('1')
`,
			error: true,
		},
		{
			caption: "an unexpected acceptance",
			testSrc: `
Test
---
int:1
---
error: $eof
`,
			error: true,
		},
		{
			caption: "an unknown terminal",
			testSrc: `
Test
---
id:x
---
..id('x')
`,
			error: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			c, err := ParseTestCase(strings.NewReader(tt.testSrc))
			if err != nil {
				t.Fatal(err)
			}
			tester := &Tester{
				Automaton: a,
				Sep:       ":",
				Cases: []*TestCaseWithMetadata{
					{
						TestCase: c,
					},
				},
			}
			rs := tester.Run()
			if tt.error {
				errOccurred := false
				for _, r := range rs {
					if r.Error != nil {
						errOccurred = true
					}
				}
				if !errOccurred {
					t.Fatal("this test must fail, but it passed")
				}
			} else {
				for _, r := range rs {
					if r.Error != nil {
						t.Fatalf("unexpected error occurred: %v", r.Error)
					}
				}
			}
		})
	}
}

func TestListTestCases(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.txt":        "A\n---\nint:1\n---\n...int('1')\n",
		"sub/b.txt":    "B\n---\nint:1 +\n---\nerror: $eof\n",
		"sub/bad.txt":  "Bad\n---\nint:1\n",
		"sub/c/d.test": "D\n---\n( int:1 )\n---\n..Value1('(', ...int('1'), ')')\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cases := ListTestCases(dir)
	if len(cases) != len(files) {
		t.Fatalf("unexpected test case count: %v", len(cases))
	}
	var broken int
	for _, c := range cases {
		if c.Error != nil {
			broken++
			if !strings.HasSuffix(c.FilePath, "bad.txt") {
				t.Fatalf("unexpected error: %v: %v", c.FilePath, c.Error)
			}
		}
	}
	if broken != 1 {
		t.Fatalf("unexpected broken test case count: %v", broken)
	}

	g, err := grammar.ParseSource(strings.NewReader(grammarSrc))
	if err != nil {
		t.Fatal(err)
	}
	a, err := lr.Build(g)
	if err != nil {
		t.Fatal(err)
	}
	rs := (&Tester{Automaton: a, Sep: ":", Cases: cases}).Run()
	for _, r := range rs {
		failed := r.Error != nil
		if failed != strings.HasSuffix(r.TestCasePath, "bad.txt") {
			t.Fatalf("unexpected result: %v", r)
		}
	}

	missing := ListTestCases(filepath.Join(dir, "missing"))
	if len(missing) != 1 || missing[0].Error == nil {
		t.Fatalf("a missing path must be reported: %+v", missing)
	}
}
