// internal/report/xlsx.go
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"mcp-meal-score/internal/models"
)

const mealSheet = "Meals"

var mealHeader = []interface{}{
	"Name", "Timestamp", "Foods", "Calories", "Protein (g)", "Carbs (g)", "Fats (g)",
	"Meal Score", "Grade", "Risk",
}

// WriteXLSX writes one row per meal beneath a header row.
func WriteXLSX(w io.Writer, meals []*models.Meal) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", mealSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(mealSheet, "A1", &mealHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, m := range meals {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{m.Name, m.Timestamp.Format(time.RFC3339), len(m.Foods)}
		if a := m.Analysis; a != nil {
			row = append(row,
				a.Nutrition.Calories, a.Nutrition.Protein, a.Nutrition.Carbs, a.Nutrition.Fats,
				a.MealScore, a.Grade, string(a.HealthRisk.Level))
		}
		if err := f.SetSheetRow(mealSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write meal %s: %w", m.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
