package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	config *string
	trace  *string
	start  *string
}{}

// conf is loaded before any subcommand runs.
var conf *koanfadapter.KConf

var rootCmd = &cobra.Command{
	Use:   "lrgen",
	Short: "Build LR automata from grammars and run them",
	Long: `lrgen provides the following features:
- Builds an LR(0), SLR(1), LALR(1) or canonical LR(1) automaton from a grammar,
  picking the smallest class that has no conflicts, and describes it.
- Runs the automaton on inputs, one at a time, from test case files, or
  interactively.
- Cross-checks the native constructions with GNU Bison.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(*rootFlags.config, *rootFlags.trace)
		if err != nil {
			return err
		}
		if err := setupTracing(c); err != nil {
			return err
		}
		conf = c
		return nil
	},
}

func init() {
	rootFlags.config = rootCmd.PersistentFlags().StringP("config", "c", "", "configuration file in NestedText format")
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "", "trace level [Error|Info|Debug] (default Error)")
	rootFlags.start = rootCmd.PersistentFlags().String("start", "", "start symbol (default the left-hand side of the first rule)")
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
