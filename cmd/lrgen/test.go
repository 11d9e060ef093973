package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/lrgen/tester"
	"github.com/spf13/cobra"
)

var testFlags = struct {
	engine *string
	split  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar file path> <test file path>|<test directory path>",
		Short:   "Test a grammar",
		Example: `  lrgen test grammar.txt test`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	testFlags.engine = cmd.Flags().StringP("engine", "e", "", "construction engine (default from the configuration)")
	testFlags.split = cmd.Flags().String("split", ":", "separator between the symbol and the text of a word")
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	a, err := readAutomaton(cmd.Context(), args[0], *testFlags.engine)
	if err != nil {
		return err
	}

	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[1])
		errOccurred := false
		for _, c := range cs {
			if c.Error != nil {
				fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("Cannot run test")
		}
	}

	t := &tester.Tester{
		Automaton: a,
		Sep:       *testFlags.split,
		Cases:     cs,
	}
	rs := t.Run()
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}
