package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// errEvaluationFailed makes eval exit non-zero once the error is printed
var errEvaluationFailed = errors.New("evaluation failed")

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var opts appOptions

	rootCmd := &cobra.Command{
		Use:           "calc",
		Short:         "A scientific calculator with statistics and charts",
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, in, out, opts)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&opts.plain, "plain", false, "print without colors or borders")
	flags.BoolVar(&opts.noHistory, "no-history", false, "do not read or record evaluation history")
	flags.StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	flags.StringVar(&opts.outputDir, "output-dir", "", "override OUTPUT_DIR for charts")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive calculator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, in, out, opts)
		},
	}

	evalCmd := &cobra.Command{
		Use:   "eval [operation]",
		Short: "Evaluate one operation, e.g. calc eval \"mean(1,2,3)\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(out, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.run(cmd.Context(), strings.Join(args, " ")) {
				return errEvaluationFailed
			}
			return nil
		},
	}

	var limit int
	var clear bool
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent evaluations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(out, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if clear {
				if a.store == nil {
					return fmt.Errorf("history is disabled")
				}
				if err := a.store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "History cleared.")
				return nil
			}
			return a.showHistory(cmd.Context(), limit)
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	historyCmd.Flags().BoolVar(&clear, "clear", false, "delete all history")

	opsCmd := &cobra.Command{
		Use:   "ops",
		Short: "List every supported operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(out, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			a.printer.Operators()
			return nil
		},
	}

	rootCmd.AddCommand(replCmd, evalCmd, historyCmd, opsCmd)
	return rootCmd
}
