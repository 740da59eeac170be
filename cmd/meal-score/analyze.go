// cmd/meal-score/analyze.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mcp-meal-score/internal/models"
	"mcp-meal-score/internal/nutrition"
	"mcp-meal-score/internal/report"
	"mcp-meal-score/internal/scoring"
	"mcp-meal-score/internal/storage"
	"mcp-meal-score/internal/tray"
)

type analyzeFlags struct {
	age     int
	weight  float64
	height  float64
	bmi     float64
	bmiSet  bool
	unit    string
	format  string
	seed    int64
	hasSeed bool
	foods   string
	save    string
	name    string
	verbose bool
}

func newAnalyzeCmd() *cobra.Command {
	f := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze <food[:qty]>...",
		Short: "Analyze a meal and print the result",
		Example: `  meal-score analyze "chicken breast:2" broccoli --bmi 24.5
  meal-score analyze salmon "brown rice:1.5" --weight 75 --height 175 --format md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.hasSeed = cmd.Flags().Changed("seed")
			f.bmiSet = cmd.Flags().Changed("bmi")
			return runAnalyze(cmd.OutOrStdout(), args, f)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.age, "age", 30, "Age in years")
	flags.Float64Var(&f.weight, "weight", 75, "Weight in kg")
	flags.Float64Var(&f.height, "height", 175, "Height in cm")
	flags.Float64Var(&f.bmi, "bmi", 0, "BMI (default: computed from weight and height)")
	flags.StringVar(&f.unit, "unit", "serving", "Unit recorded for every food")
	flags.StringVar(&f.format, "format", "json", "Output format: json or md")
	flags.Int64Var(&f.seed, "seed", 0, "Seed for reproducible variance")
	flags.StringVar(&f.foods, "foods", "", "YAML food table (default: built-in table)")
	flags.StringVar(&f.save, "save", "", "Save the analysis to this database")
	flags.StringVar(&f.name, "name", "", "Name for the saved meal")
	flags.BoolVar(&f.verbose, "verbose", false, "Print processing steps to stderr")

	return cmd
}

func runAnalyze(out io.Writer, args []string, f *analyzeFlags) error {
	logger := log.New(os.Stderr, "", 0)
	verbose := func(msg string, args ...any) {
		if f.verbose {
			logger.Printf(msg, args...)
		}
	}

	if f.format != "json" && f.format != "md" {
		return exitError(2, "unknown format: %s", f.format)
	}

	t := tray.New()
	for _, arg := range args {
		name, qty := parseFoodArg(arg)
		if err := t.AddN(name, f.unit, qty); err != nil {
			return exitError(2, "invalid food %q: %v", arg, err)
		}
	}

	foods := nutrition.Default()
	if f.foods != "" {
		verbose("Loading food table: %s", f.foods)
		db, err := nutrition.LoadFile(f.foods)
		if err != nil {
			return exitError(3, "failed to load food table: %v", err)
		}
		foods = db
	}

	bio, err := biometrics(f)
	if err != nil {
		return exitError(2, "invalid biometrics: %v", err)
	}
	verbose("Using BMI %.1f", bio.BMI)

	var src scoring.Source
	if f.hasSeed {
		src = scoring.NewSource(f.seed)
	}
	result, err := scoring.New(src).Analyze(foods, t.Entries(), bio)
	if err != nil {
		return exitError(2, "analysis failed: %v", err)
	}
	verbose("Scored %d foods: %d/100", t.Len(), result.MealScore)

	if f.save != "" {
		if err := saveAnalysis(f.save, f.name, t.Entries(), result); err != nil {
			return exitError(3, "failed to save meal: %v", err)
		}
		verbose("Saved meal to %s", f.save)
	}

	switch f.format {
	case "md":
		fmt.Fprint(out, report.Markdown(result))
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return exitError(3, "failed to write output: %v", err)
		}
	}
	return nil
}

// parseFoodArg splits "name:qty". A suffix that is not a number is part of
// the name.
func parseFoodArg(arg string) (string, float64) {
	i := strings.LastIndex(arg, ":")
	if i < 0 {
		return arg, 1
	}
	qty, err := strconv.ParseFloat(strings.TrimSpace(arg[i+1:]), 64)
	if err != nil {
		return arg, 1
	}
	return arg[:i], qty
}

// biometrics uses an explicit --bmi as given, otherwise computes it from
// weight and height.
func biometrics(f *analyzeFlags) (models.UserBiometrics, error) {
	if f.bmiSet {
		bio := models.UserBiometrics{Age: f.age, WeightKg: f.weight, HeightCm: f.height, BMI: f.bmi}
		return bio, scoring.ValidateBiometrics(bio)
	}
	return scoring.Biometrics(scoring.Profile{WeightKg: f.weight, HeightCm: f.height, Age: f.age})
}

func saveAnalysis(dbPath, name string, foods []models.FoodEntry, result *models.AnalysisResult) error {
	stor, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return err
	}
	defer stor.Close()

	if name == "" {
		name = "Meal " + time.Now().Format("15:04")
	}
	return stor.SaveMeal(context.Background(), &models.Meal{
		Name:      name,
		Foods:     foods,
		Analysis:  result,
		Timestamp: result.Timestamp,
	})
}
