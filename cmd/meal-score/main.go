// cmd/meal-score/main.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mcp-meal-score/internal/server"
)

func main() {
	root := &cobra.Command{
		Use:           "meal-score",
		Short:         "Estimate meal nutrition, score meals and keep a meal history",
		Version:       server.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newServeCmd(), newAnalyzeCmd(), newExportCmd(), newTargetsCmd())

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Exit codes: 2 invalid input, 3 I/O or storage failure.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
