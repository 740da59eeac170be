package nutrition

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"mcp-meal-score/internal/models"
)

func TestDefaultTableOrder(t *testing.T) {
	want := []string{
		"apple", "banana", "chicken breast", "brown rice", "broccoli", "salmon",
		"eggs", "bread", "milk", "yogurt", "almonds", "cheese",
	}
	foods := Default().Foods()
	if len(foods) != len(want) {
		t.Fatalf("expected %d foods, got %d", len(want), len(foods))
	}
	for i, f := range foods {
		if f.Pattern != want[i] {
			t.Errorf("food %d: expected %q, got %q", i, want[i], f.Pattern)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	got, err := Default().Aggregate(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (models.NutrientTotals{}) {
		t.Errorf("expected zero totals, got %+v", got)
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.FoodEntry
		want    models.NutrientTotals
	}{
		{
			"chicken breast x2",
			[]models.FoodEntry{{Name: "chicken breast", Quantity: 2}},
			models.NutrientTotals{Calories: 330, Protein: 62, Carbs: 0, Fats: 7.2},
		},
		{
			"fallback",
			[]models.FoodEntry{{Name: "mystery food", Quantity: 1}},
			models.NutrientTotals{Calories: 150, Protein: 10, Carbs: 20, Fats: 5},
		},
		{
			"case insensitive substring",
			[]models.FoodEntry{{Name: "Green APPLE", Quantity: 1}},
			models.NutrientTotals{Calories: 95, Protein: 0.5, Carbs: 25, Fats: 0.3},
		},
		{
			"half serving fallback",
			[]models.FoodEntry{{Name: "soup", Quantity: 0.5}},
			models.NutrientTotals{Calories: 75, Protein: 5, Carbs: 10, Fats: 2.5},
		},
		{
			"mixed",
			[]models.FoodEntry{
				{Name: "salmon", Quantity: 1},
				{Name: "tea", Quantity: 2},
			},
			models.NutrientTotals{Calories: 506, Protein: 42, Carbs: 40, Fats: 23},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Default().Aggregate(tt.entries)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !closeTotals(got, tt.want) {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestAggregateFirstMatchWins(t *testing.T) {
	// "bread" precedes "milk" in the built-in table.
	got, err := Default().Aggregate([]models.FoodEntry{{Name: "milk bread", Quantity: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Calories != 265 {
		t.Errorf("expected bread calories 265, got %v", got.Calories)
	}

	db, err := NewDatabase([]Food{
		{Pattern: "milk", Calories: 1},
		{Pattern: "bread", Calories: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = db.Aggregate([]models.FoodEntry{{Name: "milk bread", Quantity: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Calories != 1 {
		t.Errorf("expected milk to win with reordered table, got %v", got.Calories)
	}
}

func TestAggregateRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry models.FoodEntry
		want  error
	}{
		{"zero", models.FoodEntry{Name: "apple", Quantity: 0}, ErrInvalidQuantity},
		{"negative", models.FoodEntry{Name: "apple", Quantity: -1}, ErrInvalidQuantity},
		{"nan", models.FoodEntry{Name: "apple", Quantity: math.NaN()}, ErrInvalidQuantity},
		{"inf", models.FoodEntry{Name: "apple", Quantity: math.Inf(1)}, ErrInvalidQuantity},
		{"blank name", models.FoodEntry{Name: "  ", Quantity: 1}, ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Default().Aggregate([]models.FoodEntry{{Name: "apple", Quantity: 1}, tt.entry})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAggregateNonNegative(t *testing.T) {
	names := []string{"apple", "cheese", "unknown", "brown rice", "eggs"}
	var entries []models.FoodEntry
	for i, n := range names {
		entries = append(entries, models.FoodEntry{Name: n, Quantity: float64(i+1) * 0.5})
	}
	got, err := Default().Aggregate(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Calories < 0 || got.Protein < 0 || got.Carbs < 0 || got.Fats < 0 {
		t.Errorf("expected non-negative totals, got %+v", got)
	}
}

func TestParseRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty pattern", "foods:\n  - pattern: \"\"\n    calories: 1\n"},
		{"duplicate", "foods:\n  - pattern: rice\n  - pattern: RICE\n"},
		{"negative", "foods:\n  - pattern: rice\n    fats: -1\n"},
		{"malformed", "foods: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.yaml")
	doc := "foods:\n  - pattern: Oats\n    calories: 150\n    protein: 5\n    carbs: 27\n    fats: 3\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	db, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := db.Lookup("rolled oats")
	if !ok {
		t.Fatal("expected match for rolled oats")
	}
	if f.Pattern != "oats" || f.Carbs != 27 {
		t.Errorf("unexpected food: %+v", f)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func closeTotals(a, b models.NutrientTotals) bool {
	const eps = 1e-9
	return math.Abs(a.Calories-b.Calories) < eps &&
		math.Abs(a.Protein-b.Protein) < eps &&
		math.Abs(a.Carbs-b.Carbs) < eps &&
		math.Abs(a.Fats-b.Fats) < eps
}
