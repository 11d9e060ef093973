package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	confFile := filepath.Join(t.TempDir(), "lrgen.nt")
	err := os.WriteFile(confFile, []byte(`engine: lalr1
bison:
    path: /opt/bison/bin/bison
    timeout: 30
tracelevel:
    lrgen:
        lr: Debug
`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		caption    string
		path       string
		traceLevel string
		expected   map[string]string
	}{
		{
			caption: "defaults",
			expected: map[string]string{
				"engine":                   "auto",
				"bison.path":               "bison",
				"bison.timeout":            "10",
				"tracing.adapter":          "go",
				"tracelevel.root":          "Error",
				"tracelevel.lrgen.lr":      "Error",
				"tracelevel.lrgen.grammar": "Error",
			},
		},
		{
			caption: "a file overrides the defaults",
			path:    confFile,
			expected: map[string]string{
				"engine":              "lalr1",
				"bison.path":          "/opt/bison/bin/bison",
				"bison.timeout":       "30",
				"tracelevel.root":     "Error",
				"tracelevel.lrgen.lr": "Debug",
			},
		},
		{
			caption:    "the trace level flag overrides the file",
			path:       confFile,
			traceLevel: "Info",
			expected: map[string]string{
				"engine":                  "lalr1",
				"tracelevel.root":         "Info",
				"tracelevel.lrgen.lr":     "Info",
				"tracelevel.lrgen.driver": "Info",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			c, err := loadConfig(tt.path, tt.traceLevel)
			if err != nil {
				t.Fatal(err)
			}
			for k, v := range tt.expected {
				if got := c.GetString(k); got != v {
					t.Fatalf("unexpected value of %v; want: %v, got: %v", k, v, got)
				}
			}
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.nt"), ""); err == nil {
		t.Fatal("a missing configuration file must be an error")
	}
	if _, err := loadConfig("", "verbose"); err == nil {
		t.Fatal("an unknown trace level must be an error")
	}
}
