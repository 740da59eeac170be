// internal/scoring/risk.go
package scoring

import "mcp-meal-score/internal/models"

const (
	lowRiskDetails        = "This meal is well-balanced and nutritious."
	highCalorieDetails    = "This meal is very high in calories. Consider reducing portion sizes."
	highFatDetails        = "High fat content. Consider choosing leaner options."
	highCarbLowProDetails = "High carb, low protein meal. Consider adding more protein."
)

// ClassifyRisk applies the rules in order; the first match wins.
func ClassifyRisk(calories, protein, carbs, fats float64) (models.RiskLevel, string) {
	switch {
	case calories > 800:
		return models.HighRisk, highCalorieDetails
	case fats > 30:
		return models.MediumRisk, highFatDetails
	case carbs > 100 && protein < 20:
		return models.MediumRisk, highCarbLowProDetails
	default:
		return models.LowRisk, lowRiskDetails
	}
}

// CategorizeBMI uses half-open ranges: [18.5, 25) is Normal, [25, 30)
// Overweight.
func CategorizeBMI(bmi float64) models.BMICategory {
	switch {
	case bmi < 18.5:
		return models.Underweight
	case bmi < 25:
		return models.Normal
	case bmi < 30:
		return models.Overweight
	default:
		return models.Obese
	}
}

// Grade converts a meal score to a letter.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
