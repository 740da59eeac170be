// internal/nutrition/aggregate.go
package nutrition

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"mcp-meal-score/internal/models"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive finite number")
	ErrEmptyName       = errors.New("food name is required")
)

// Aggregate sums the quantity-weighted nutrients of entries. Unmatched
// names contribute Fallback. An empty list yields zero totals.
func (db *Database) Aggregate(entries []models.FoodEntry) (models.NutrientTotals, error) {
	var totals models.NutrientTotals
	for i, e := range entries {
		if err := ValidateEntry(e); err != nil {
			return models.NutrientTotals{}, fmt.Errorf("entry %d (%q): %w", i, e.Name, err)
		}

		f, ok := db.Lookup(e.Name)
		if !ok {
			f = Fallback
		}
		totals.Calories += f.Calories * e.Quantity
		totals.Protein += f.Protein * e.Quantity
		totals.Carbs += f.Carbs * e.Quantity
		totals.Fats += f.Fats * e.Quantity
	}
	return totals, nil
}

func ValidateEntry(e models.FoodEntry) error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if math.IsNaN(e.Quantity) || math.IsInf(e.Quantity, 0) || e.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}
