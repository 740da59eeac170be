// internal/scoring/targets.go
package scoring

import (
	"errors"
	"math"
	"strings"

	"mcp-meal-score/internal/models"
)

var ErrImplausibleBody = errors.New("height/weight out of plausible range")

// Profile describes a user for personalised daily targets.
type Profile struct {
	WeightKg      float64 `json:"weight"`
	HeightCm      float64 `json:"height"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
}

var activityMultipliers = map[string]float64{
	"sedentary":         1.2,
	"lightly_active":    1.375,
	"moderately_active": 1.55,
	"very_active":       1.725,
	"extremely_active":  1.9,
}

// BMI expects height in centimetres and weight in kilograms.
func BMI(weightKg, heightCm float64) (float64, error) {
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, ErrImplausibleBody
	}
	h := heightCm / 100
	return weightKg / (h * h), nil
}

// Biometrics builds scorer input from a profile, computing BMI once.
func Biometrics(p Profile) (models.UserBiometrics, error) {
	bmi, err := BMI(p.WeightKg, p.HeightCm)
	if err != nil {
		return models.UserBiometrics{}, err
	}
	return models.UserBiometrics{
		Age:      p.Age,
		WeightKg: p.WeightKg,
		HeightCm: p.HeightCm,
		BMI:      math.Round(bmi*10) / 10,
	}, nil
}

// PersonalTargets estimates daily intake with the Mifflin-St Jeor equation.
// Analyses keep reporting the fixed Targets; these are informational.
func PersonalTargets(p Profile) (models.DailyTargets, error) {
	if _, err := BMI(p.WeightKg, p.HeightCm); err != nil {
		return models.DailyTargets{}, err
	}
	if p.Age <= 0 {
		return models.DailyTargets{}, ErrInvalidBiometrics
	}

	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if strings.EqualFold(p.Gender, "male") {
		bmr += 5
	} else {
		bmr -= 161
	}

	mult, ok := activityMultipliers[strings.ToLower(p.ActivityLevel)]
	if !ok {
		mult = activityMultipliers["moderately_active"]
	}
	calories := bmr * mult

	switch p.Goal {
	case "weight_loss":
		calories *= 0.85
	case "muscle_gain":
		calories *= 1.15
	}

	return models.DailyTargets{
		Calories: math.Round(calories),
		Protein:  math.Round(calories * 0.3 / 4),
		Carbs:    math.Round(calories * 0.4 / 4),
		Fats:     math.Round(calories * 0.3 / 9),
		Fiber:    30,
	}, nil
}
