package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/nihei9/lrgen/driver"
	"github.com/nihei9/lrgen/grammar/symbol"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source   *string
	engine   *string
	split    *string
	lex      *bool
	patterns *[]string
	tree     *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path>",
		Short: "Parse a text stream",
		Example: `  echo 'int:1 + int:2' | lrgen parse --split : grammar.txt
  echo '1 + 2' | lrgen parse --lex --pattern 'int=[0-9]+' grammar.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.engine = cmd.Flags().StringP("engine", "e", "", "construction engine (default from the configuration)")
	parseFlags.split = cmd.Flags().String("split", "", "separator between the symbol and the text of a word, e.g. ':' for 'int:42'")
	parseFlags.lex = cmd.Flags().Bool("lex", false, "tokenize the source with a lexer instead of splitting it at white spaces")
	parseFlags.patterns = cmd.Flags().StringArray("pattern", nil, "lexer pattern of a terminal in the form terminal=pattern (requires --lex)")
	parseFlags.tree = cmd.Flags().Bool("tree", false, "print the value as a tree")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v != nil {
			retErr = fmt.Errorf("an unexpected error occurred: %v", v)
			fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
		}
	}()

	if len(*parseFlags.patterns) > 0 && !*parseFlags.lex {
		return fmt.Errorf("--pattern requires --lex")
	}

	a, err := readAutomaton(cmd.Context(), args[0], *parseFlags.engine)
	if err != nil {
		return err
	}

	var src io.Reader = os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	toks, err := readTokens(a.Grammar().SymbolTable(), src)
	if err != nil {
		return err
	}

	r := driver.NewRuntime(a)
	err = r.FeedAll(toks)
	if err != nil {
		return err
	}

	if *parseFlags.tree {
		driver.PrintTree(os.Stdout, r.Get())
	} else {
		fmt.Fprintln(os.Stdout, r.Get())
	}

	return nil
}

func readTokens(symTab *symbol.SymbolTable, src io.Reader) ([]*driver.Terminal, error) {
	if !*parseFlags.lex {
		b, err := io.ReadAll(src)
		if err != nil {
			return nil, err
		}
		return driver.SplitTokens(symTab, string(b), *parseFlags.split)
	}

	var opts []driver.TokenStreamOption
	for _, p := range *parseFlags.patterns {
		term, pattern, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("a pattern must be in the form terminal=pattern: %v", p)
		}
		opts = append(opts, driver.Pattern(term, pattern))
	}
	ts, err := driver.NewTokenStream(symTab, src, opts...)
	if err != nil {
		return nil, err
	}
	return ts.All()
}
