package main

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/nihei9/lrgen/automaton"
	"github.com/nihei9/lrgen/driver"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// tracer traces with key 'lrgen.driver'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.driver")
}

var replFlags = struct {
	engine *string
	split  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "repl <grammar file path>",
		Short: "Parse lines interactively",
		Long: `repl reads one input per line, splits it at white spaces, and prints the
value the input parses into. The following commands are available:
  :automaton  print the automaton
  :quit       quit (as does <ctrl>D)`,
		Example: `  lrgen repl grammar.txt`,
		Args:    cobra.ExactArgs(1),
		RunE:    runREPL,
	}
	replFlags.engine = cmd.Flags().StringP("engine", "e", "", "construction engine (default from the configuration)")
	replFlags.split = cmd.Flags().String("split", ":", "separator between the symbol and the text of a word")
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	a, err := readAutomaton(cmd.Context(), args[0], *replFlags.engine)
	if err != nil {
		return err
	}

	initDisplay()
	rl, err := readline.New("lrgen> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	pterm.Info.Println(fmt.Sprintf("%v built by %v; quit with <ctrl>D", a, a.Engine()))
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if quit := evalLine(a, line); quit {
			break
		}
	}
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func evalLine(a *automaton.Automaton, line string) bool {
	switch line {
	case ":quit", ":q":
		return true
	case ":automaton":
		var b strings.Builder
		a.Dump(&b)
		pterm.Println(b.String())
		return false
	}

	toks, err := driver.SplitTokens(a.Grammar().SymbolTable(), line, *replFlags.split)
	if err != nil {
		pterm.Error.Println(err.Error())
		return false
	}
	r := driver.NewRuntime(a)
	if err := r.FeedAll(toks); err != nil {
		tracer().Debugf("%v", r)
		pterm.Error.Println(err.Error())
		return false
	}
	v := r.Get()
	pterm.Info.Println(v.String())
	pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(leveledValue(v, pterm.LeveledList{}, 0))).Render()
	return false
}

func leveledValue(v driver.Value, ll pterm.LeveledList, level int) pterm.LeveledList {
	switch v := v.(type) {
	case *driver.Terminal:
		ll = append(ll, pterm.LeveledListItem{
			Level: level,
			Text:  v.String(),
		})
	case *driver.Nonterminal:
		ll = append(ll, pterm.LeveledListItem{
			Level: level,
			Text:  fmt.Sprintf("%v%v", v.Name, v.Alt),
		})
		for _, c := range v.Children {
			ll = leveledValue(c, ll, level+1)
		}
	}
	return ll
}
