package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nihei9/lrgen/lr"
	"github.com/spf13/cobra"
)

var describeFlags = struct {
	engine      *string
	format      *string
	output      *string
	fingerprint *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "describe <grammar file path>",
		Short: "Print the automaton of a grammar",
		Example: `  lrgen describe grammar.txt
  lrgen describe --engine lalr1 --format dot --output grammar.dot grammar.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runDescribe,
	}
	describeFlags.engine = cmd.Flags().StringP("engine", "e", "", fmt.Sprintf("construction engine [%v] (default from the configuration)", strings.Join(lr.EngineNames(), "|")))
	describeFlags.format = cmd.Flags().StringP("format", "f", "text", "output format [text|dot]")
	describeFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	describeFlags.fingerprint = cmd.Flags().Bool("fingerprint", false, "print the engine and the fingerprint of the automaton instead of its tables")
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	a, err := readAutomaton(cmd.Context(), args[0], *describeFlags.engine)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *describeFlags.output != "" {
		f, err := os.Create(*describeFlags.output)
		if err != nil {
			return fmt.Errorf("Cannot create the output file %s: %w", *describeFlags.output, err)
		}
		defer f.Close()
		w = f
	}

	if *describeFlags.fingerprint {
		fp, err := a.Fingerprint()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%v %v\n", a.Engine(), fp)
		return nil
	}

	switch *describeFlags.format {
	case "text":
		fmt.Fprintf(w, "# engine: %v\n", a.Engine())
		return a.Dump(w)
	case "dot":
		return a.WriteDot(w)
	}
	return fmt.Errorf("unknown format: %v", *describeFlags.format)
}
