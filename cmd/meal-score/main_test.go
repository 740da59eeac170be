package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"mcp-meal-score/internal/models"
	"mcp-meal-score/internal/scoring"
)

func TestParseFoodArg(t *testing.T) {
	tests := []struct {
		arg  string
		name string
		qty  float64
	}{
		{"apple", "apple", 1},
		{"chicken breast:2", "chicken breast", 2},
		{"brown rice: 1.5", "brown rice", 1.5},
		{"tea:large", "tea:large", 1},
		{"a:b:3", "a:b", 3},
	}
	for _, tt := range tests {
		name, qty := parseFoodArg(tt.arg)
		if name != tt.name || qty != tt.qty {
			t.Errorf("parseFoodArg(%q) = %q, %v; expected %q, %v", tt.arg, name, qty, tt.name, tt.qty)
		}
	}
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ee *exitErr
	if !errors.As(err, &ee) {
		t.Fatalf("expected exitErr, got %v", err)
	}
	return ee.code
}

func defaultAnalyzeFlags() *analyzeFlags {
	return &analyzeFlags{age: 30, weight: 75, height: 175, unit: "serving", format: "json", seed: 7, hasSeed: true}
}

func TestRunAnalyzeJSON(t *testing.T) {
	var out bytes.Buffer
	f := defaultAnalyzeFlags()
	if err := runAnalyze(&out, []string{"chicken breast:2", "broccoli"}, f); err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.AnalyzedFoods != "chicken breast, broccoli" {
		t.Errorf("expected analyzed foods, got %q", result.AnalyzedFoods)
	}
	if result.BMI.Value != 24.5 {
		t.Errorf("expected BMI 24.5 from 75kg/175cm, got %v", result.BMI.Value)
	}
	if result.MealScore < 0 || result.MealScore > 100 {
		t.Errorf("score out of range: %d", result.MealScore)
	}

	// Same seed, same output.
	var again bytes.Buffer
	if err := runAnalyze(&again, []string{"chicken breast:2", "broccoli"}, defaultAnalyzeFlags()); err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}
	var second models.AnalysisResult
	if err := json.Unmarshal(again.Bytes(), &second); err != nil {
		t.Fatal(err)
	}
	if second.Nutrition != result.Nutrition || second.MealScore != result.MealScore {
		t.Errorf("seeded runs differ: %+v vs %+v", result.Nutrition, second.Nutrition)
	}
}

func TestRunAnalyzeExplicitBMI(t *testing.T) {
	var out bytes.Buffer
	f := defaultAnalyzeFlags()
	f.bmi, f.bmiSet = 31.2, true
	if err := runAnalyze(&out, []string{"apple"}, f); err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.BMI.Value != 31.2 || result.BMI.Category != models.Obese {
		t.Errorf("expected the given BMI to be used, got %+v", result.BMI)
	}
}

func TestRunAnalyzeMarkdownAndSave(t *testing.T) {
	var out bytes.Buffer
	f := defaultAnalyzeFlags()
	f.format = "md"
	f.save = filepath.Join(t.TempDir(), "meals.db")
	f.name = "Lunch"
	if err := runAnalyze(&out, []string{"salmon"}, f); err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}
	if !strings.Contains(out.String(), "| Calories |") {
		t.Errorf("expected markdown table, got:\n%s", out.String())
	}

	var xlsx bytes.Buffer
	if err := runExport(&xlsx, &exportFlags{dbPath: f.save, out: "-", limit: 10}); err != nil {
		t.Fatalf("runExport: %v", err)
	}
	if xlsx.Len() == 0 {
		t.Error("expected workbook bytes")
	}
}

func TestRunAnalyzeInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		edit func(*analyzeFlags)
	}{
		{"bad format", []string{"apple"}, func(f *analyzeFlags) { f.format = "xml" }},
		{"negative quantity", []string{"apple:-1"}, func(*analyzeFlags) {}},
		{"duplicate food", []string{"apple", "Apple"}, func(*analyzeFlags) {}},
		{"implausible body", []string{"apple"}, func(f *analyzeFlags) { f.height = 10 }},
		{"negative bmi", []string{"apple"}, func(f *analyzeFlags) { f.bmi, f.bmiSet = -3, true }},
		{"zero bmi", []string{"apple"}, func(f *analyzeFlags) { f.bmi, f.bmiSet = 0, true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := defaultAnalyzeFlags()
			tt.edit(f)
			err := runAnalyze(&bytes.Buffer{}, tt.args, f)
			if code := exitCode(t, err); code != 2 {
				t.Errorf("expected exit code 2, got %d (%v)", code, err)
			}
		})
	}
}

func TestRunExportRejectsBadLimit(t *testing.T) {
	err := runExport(&bytes.Buffer{}, &exportFlags{dbPath: filepath.Join(t.TempDir(), "x.db"), out: "-"})
	if code := exitCode(t, err); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
}

func TestRunTargets(t *testing.T) {
	var out bytes.Buffer
	p := scoring.Profile{WeightKg: 75, HeightCm: 175, Age: 30, Gender: "male", ActivityLevel: "moderately_active"}
	if err := runTargets(&out, p); err != nil {
		t.Fatalf("runTargets: %v", err)
	}
	var got struct {
		Personal models.DailyTargets `json:"personal_targets"`
		BMI      float64             `json:"bmi"`
		Category string              `json:"bmi_category"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Personal.Calories != 2633 {
		t.Errorf("expected 2633 kcal, got %v", got.Personal.Calories)
	}
	if got.Category != string(models.Normal) {
		t.Errorf("expected Normal, got %q", got.Category)
	}

	p.Age = 0
	if code := exitCode(t, runTargets(&bytes.Buffer{}, p)); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
}
