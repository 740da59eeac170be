// cmd/meal-score/export.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mcp-meal-score/internal/report"
	"mcp-meal-score/internal/storage"
)

type exportFlags struct {
	dbPath string
	out    string
	start  string
	end    string
	limit  int
}

func newExportCmd() *cobra.Command {
	f := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved meals to an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.OutOrStdout(), f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.dbPath, "db-path", "/data/meal-score.db", "Database path")
	flags.StringVar(&f.out, "out", "meals.xlsx", "Output file path (- for stdout)")
	flags.StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	flags.StringVar(&f.end, "end", "", "End date (YYYY-MM-DD)")
	flags.IntVar(&f.limit, "limit", 1000, "Maximum number of meals")

	return cmd
}

func runExport(stdout io.Writer, f *exportFlags) error {
	if f.limit <= 0 {
		return exitError(2, "limit must be positive")
	}

	stor, err := storage.NewSQLiteStorage(f.dbPath)
	if err != nil {
		return exitError(3, "failed to open database: %v", err)
	}
	defer stor.Close()

	meals, err := stor.GetMeals(context.Background(), f.start, f.end, f.limit)
	if err != nil {
		return exitError(3, "failed to read meals: %v", err)
	}

	if f.out == "-" {
		if err := report.WriteXLSX(stdout, meals); err != nil {
			return exitError(3, "%v", err)
		}
		return nil
	}

	file, err := os.Create(f.out)
	if err != nil {
		return exitError(3, "failed to create %s: %v", f.out, err)
	}
	if err := report.WriteXLSX(file, meals); err != nil {
		file.Close()
		return exitError(3, "%v", err)
	}
	if err := file.Close(); err != nil {
		return exitError(3, "failed to close %s: %v", f.out, err)
	}
	fmt.Fprintf(os.Stderr, "Exported %d meals to %s\n", len(meals), f.out)
	return nil
}
