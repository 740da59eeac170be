// internal/models/meal.go
package models

import (
	"time"
)

// FoodEntry is one line of a meal: what was eaten and how many units of it.
type FoodEntry struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"` // informational only
}

type NutrientTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// UserBiometrics carries a precomputed BMI; scoring never derives it from
// weight and height.
type UserBiometrics struct {
	Age      int     `json:"age"`
	WeightKg float64 `json:"weight"`
	HeightCm float64 `json:"height"`
	BMI      float64 `json:"bmi"`
}

type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

type RiskLevel string

const (
	LowRisk    RiskLevel = "Low Risk"
	MediumRisk RiskLevel = "Medium Risk"
	HighRisk   RiskLevel = "High Risk"
)

// Score is the numeric form of the level: 0 low, 1 medium, 2 high.
func (r RiskLevel) Score() int {
	switch r {
	case MediumRisk:
		return 1
	case HighRisk:
		return 2
	default:
		return 0
	}
}

func (r RiskLevel) Valid() bool {
	switch r {
	case LowRisk, MediumRisk, HighRisk:
		return true
	}
	return false
}

type HealthRisk struct {
	Level   RiskLevel `json:"level"`
	Score   int       `json:"score"`
	Details string    `json:"details"`
}

type BMICategory string

const (
	Underweight BMICategory = "Underweight"
	Normal      BMICategory = "Normal"
	Overweight  BMICategory = "Overweight"
	Obese       BMICategory = "Obese"
)

func (c BMICategory) Valid() bool {
	switch c {
	case Underweight, Normal, Overweight, Obese:
		return true
	}
	return false
}

type BMIContext struct {
	Value    float64     `json:"value"`
	Category BMICategory `json:"category"`
}

type DailyTargets struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Fiber    float64 `json:"fiber"`
}

// AnalysisResult is produced once per analysis and never mutated afterwards.
type AnalysisResult struct {
	Nutrition       Nutrition    `json:"nutrition_analysis"`
	HealthRisk      HealthRisk   `json:"health_risk"`
	BMI             BMIContext   `json:"bmi"`
	DailyTargets    DailyTargets `json:"daily_targets"`
	Recommendations []string     `json:"recommendations"`
	FoodSuggestions []string     `json:"food_suggestions"`
	MealScore       int          `json:"meal_score"`
	Grade           string       `json:"meal_grade"`
	AnalyzedFoods   string       `json:"analyzed_foods"`
	Timestamp       time.Time    `json:"timestamp"`
}

// Meal is a saved analysis together with the foods it was computed from.
type Meal struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Foods     []FoodEntry     `json:"foods"`
	Analysis  *AnalysisResult `json:"analysis"`
	Timestamp time.Time       `json:"timestamp"`
	CreatedAt time.Time       `json:"created_at"`
}

type AnalysisRequest struct {
	FoodItems []FoodEntry    `json:"food_items"`
	UserInfo  UserBiometrics `json:"user_info"`
}
