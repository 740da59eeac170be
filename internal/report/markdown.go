// internal/report/markdown.go

// Package report renders analyses for people: a Markdown breakdown, a short
// share line, and a spreadsheet of saved meals.
package report

import (
	"fmt"
	"strings"

	"mcp-meal-score/internal/models"
)

type row struct {
	label  string
	amount float64
	target float64
	unit   string
}

// Markdown renders the nutrient breakdown against daily targets followed by
// a summary and the recommendations.
func Markdown(a *models.AnalysisResult) string {
	var b strings.Builder

	b.WriteString("# Meal Analysis Report\n\n")
	if a.AnalyzedFoods != "" {
		fmt.Fprintf(&b, "**Foods:** %s\n\n", a.AnalyzedFoods)
	}

	b.WriteString("## Nutrient Breakdown\n\n")
	b.WriteString("| Nutrient | Amount | Daily Target | % of Target |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range rows(a) {
		fmt.Fprintf(&b, "| %s | %.1f%s | %g%s | %.1f%% |\n",
			r.label, r.amount, r.unit, r.target, r.unit, PercentOfTarget(r.amount, r.target))
	}
	fmt.Fprintf(&b, "| Sugar | %.1fg | - | - |\n", a.Nutrition.Sugar)
	fmt.Fprintf(&b, "| Sodium | %.0fmg | - | - |\n\n", a.Nutrition.Sodium)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "**Meal Score:** %d/100 (%s)\n", a.MealScore, a.Grade)
	fmt.Fprintf(&b, "**Health Risk:** %s. %s\n", a.HealthRisk.Level, a.HealthRisk.Details)
	fmt.Fprintf(&b, "**BMI:** %.1f (%s)\n\n", a.BMI.Value, a.BMI.Category)

	if len(a.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range a.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	if len(a.FoodSuggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range a.FoodSuggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// ShareText is a one-line summary suitable for sharing.
func ShareText(a *models.AnalysisResult) string {
	return fmt.Sprintf("I analyzed my meal and got a score of %d/100!", a.MealScore)
}

// PercentOfTarget returns amount as a percentage of target, or 0 without a
// target.
func PercentOfTarget(amount, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return amount / target * 100
}

func rows(a *models.AnalysisResult) []row {
	n, t := a.Nutrition, a.DailyTargets
	return []row{
		{"Calories", n.Calories, t.Calories, "kcal"},
		{"Protein", n.Protein, t.Protein, "g"},
		{"Carbs", n.Carbs, t.Carbs, "g"},
		{"Fats", n.Fats, t.Fats, "g"},
		{"Fiber", n.Fiber, t.Fiber, "g"},
	}
}
