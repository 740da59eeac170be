package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"mcp-meal-score/internal/models"
)

func sampleAnalysis() *models.AnalysisResult {
	return &models.AnalysisResult{
		Nutrition: models.Nutrition{
			Calories: 330, Protein: 62, Carbs: 10, Fats: 7.2,
			Fiber: 10, Sugar: 15, Sodium: 600,
		},
		HealthRisk: models.HealthRisk{
			Level:   models.LowRisk,
			Details: "This meal is well-balanced and nutritious.",
		},
		BMI:             models.BMIContext{Value: 24.5, Category: models.Normal},
		DailyTargets:    models.DailyTargets{Calories: 2200, Protein: 90, Carbs: 275, Fats: 73, Fiber: 30},
		Recommendations: []string{"Good variety of foods in this meal"},
		MealScore:       81,
		Grade:           "B",
		AnalyzedFoods:   "chicken breast",
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleAnalysis())

	checks := []string{
		"# Meal Analysis Report",
		"**Foods:** chicken breast",
		"| Calories | 330.0kcal | 2200kcal | 15.0% |",
		"| Protein | 62.0g | 90g | 68.9% |",
		"| Fiber | 10.0g | 30g | 33.3% |",
		"| Sodium | 600mg | - | - |",
		"**Meal Score:** 81/100 (B)",
		"**Health Risk:** Low Risk. This meal is well-balanced and nutritious.",
		"**BMI:** 24.5 (Normal)",
		"- Good variety of foods in this meal",
	}
	for _, c := range checks {
		if !strings.Contains(md, c) {
			t.Errorf("expected report to contain %q\n%s", c, md)
		}
	}
	if strings.Contains(md, "## Suggestions") {
		t.Error("expected no suggestions section without suggestions")
	}
}

func TestShareText(t *testing.T) {
	want := "I analyzed my meal and got a score of 81/100!"
	if got := ShareText(sampleAnalysis()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPercentOfTarget(t *testing.T) {
	if got := PercentOfTarget(45, 90); got != 50 {
		t.Errorf("expected 50, got %v", got)
	}
	if got := PercentOfTarget(45, 0); got != 0 {
		t.Errorf("expected 0 without target, got %v", got)
	}
}

func TestWriteXLSX(t *testing.T) {
	meals := []*models.Meal{
		{
			ID:        "m1",
			Name:      "Lunch",
			Foods:     []models.FoodEntry{{Name: "chicken breast", Quantity: 2}},
			Analysis:  sampleAnalysis(),
			Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, meals); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(mealSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][9] != "Risk" {
		t.Errorf("unexpected header %v", rows[0])
	}
	r := rows[1]
	if r[0] != "Lunch" || r[1] != "2024-03-01T12:00:00Z" || r[3] != "330" || r[7] != "81" || r[9] != "Low Risk" {
		t.Errorf("unexpected row %v", r)
	}
}
