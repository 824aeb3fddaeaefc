package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const (
	prompt       = "calc> "
	historyLimit = 20
)

func runREPL(cmd *cobra.Command, in io.Reader, out io.Writer, opts appOptions) error {
	a, err := newApp(out, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	a.printer.Banner()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			a.printer.Goodbye()
			return nil
		case "help", "?":
			a.printer.Help()
		case "ops":
			a.printer.Operators()
		case "history":
			if err := a.showHistory(ctx, historyLimit); err != nil {
				a.printer.Error(err)
			}
		default:
			a.run(ctx, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	a.printer.Goodbye()
	return nil
}
