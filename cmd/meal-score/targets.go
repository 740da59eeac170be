// cmd/meal-score/targets.go
package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"mcp-meal-score/internal/scoring"
)

func newTargetsCmd() *cobra.Command {
	p := scoring.Profile{}

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Print personalised daily nutrition targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargets(cmd.OutOrStdout(), p)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&p.WeightKg, "weight", 75, "Weight in kg")
	flags.Float64Var(&p.HeightCm, "height", 175, "Height in cm")
	flags.IntVar(&p.Age, "age", 30, "Age in years")
	flags.StringVar(&p.Gender, "gender", "male", "male or female")
	flags.StringVar(&p.ActivityLevel, "activity", "moderately_active",
		"sedentary, lightly_active, moderately_active, very_active or extremely_active")
	flags.StringVar(&p.Goal, "goal", "maintain_weight", "weight_loss, muscle_gain or maintain_weight")

	return cmd
}

func runTargets(out io.Writer, p scoring.Profile) error {
	targets, err := scoring.PersonalTargets(p)
	if err != nil {
		return exitError(2, "invalid profile: %v", err)
	}
	bmi, err := scoring.BMI(p.WeightKg, p.HeightCm)
	if err != nil {
		return exitError(2, "invalid profile: %v", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]interface{}{
		"personal_targets": targets,
		"daily_targets":    scoring.Targets,
		"bmi":              bmi,
		"bmi_category":     scoring.CategorizeBMI(bmi),
	}); err != nil {
		return exitError(3, "failed to write output: %v", err)
	}
	return nil
}
