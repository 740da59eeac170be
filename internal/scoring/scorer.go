// internal/scoring/scorer.go

// Package scoring turns aggregate meal nutrients and user biometrics into an
// analysis: varied totals, a meal score, a risk level, a BMI category and
// recommendations.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"mcp-meal-score/internal/models"
	"mcp-meal-score/internal/nutrition"
)

var (
	ErrInvalidTotals     = errors.New("nutrient totals must be finite and non-negative")
	ErrInvalidBiometrics = errors.New("invalid biometrics")
	ErrInvalidResult     = errors.New("invalid analysis result")
)

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

// NewSource returns a seeded generator suitable for production use.
func NewSource(seed int64) Source {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Variance and floor bounds applied to totals before scoring.
const (
	varianceMin   = 0.8
	varianceSpan  = 0.4
	minCalories   = 200
	minProtein    = 5
	minCarbs      = 10
	minFats       = 2
	subScoreFloor = 60
	subScoreCeil  = 100
)

// Targets are the fixed daily reference intakes reported with every analysis.
var Targets = models.DailyTargets{
	Calories: 2200,
	Protein:  90,
	Carbs:    275,
	Fats:     73,
	Fiber:    30,
}

// Scorer is safe for concurrent use; draws from Rand are serialised.
type Scorer struct {
	mu   sync.Mutex
	rand Source
	now  func() time.Time
}

// New returns a Scorer drawing from src, or from a time-seeded source when
// src is nil.
func New(src Source) *Scorer {
	if src == nil {
		src = NewSource(time.Now().UnixNano())
	}
	return &Scorer{rand: src, now: time.Now}
}

// WithClock overrides the timestamp source.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score produces an analysis for totals. Values are drawn from the source in
// a fixed order: calories, protein, carbs, fats, fiber, sugar, sodium.
func (s *Scorer) Score(totals models.NutrientTotals, bio models.UserBiometrics) (*models.AnalysisResult, error) {
	if err := ValidateTotals(totals); err != nil {
		return nil, err
	}
	if err := ValidateBiometrics(bio); err != nil {
		return nil, err
	}

	s.mu.Lock()
	r := make([]float64, 7)
	for i := range r {
		r[i] = s.rand.Float64()
	}
	s.mu.Unlock()

	calories := math.Max(minCalories, math.Round(totals.Calories*variance(r[0])))
	protein := math.Max(minProtein, round1(totals.Protein*variance(r[1])))
	carbs := math.Max(minCarbs, round1(totals.Carbs*variance(r[2])))
	fats := math.Max(minFats, round1(totals.Fats*variance(r[3])))

	score := MealScore(calories, protein, carbs, fats)
	level, details := ClassifyRisk(calories, protein, carbs, fats)

	return &models.AnalysisResult{
		Nutrition: models.Nutrition{
			Calories: calories,
			Protein:  protein,
			Carbs:    carbs,
			Fats:     fats,
			Fiber:    round1(r[4]*10 + 5),
			Sugar:    round1(r[5]*20 + 5),
			Sodium:   math.Round(r[6]*800 + 200),
		},
		HealthRisk: models.HealthRisk{
			Level:   level,
			Score:   level.Score(),
			Details: details,
		},
		BMI: models.BMIContext{
			Value:    bio.BMI,
			Category: CategorizeBMI(bio.BMI),
		},
		DailyTargets:    Targets,
		Recommendations: Recommendations(calories, protein, carbs),
		FoodSuggestions: FoodSuggestions(),
		MealScore:       score,
		Grade:           Grade(score),
		Timestamp:       s.now(),
	}, nil
}

// Analyze aggregates entries against db and scores the result.
func (s *Scorer) Analyze(db *nutrition.Database, entries []models.FoodEntry, bio models.UserBiometrics) (*models.AnalysisResult, error) {
	totals, err := db.Aggregate(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate foods: %w", err)
	}
	result, err := s.Score(totals, bio)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	result.AnalyzedFoods = strings.Join(names, ", ")
	return result, nil
}

// MealScore averages three sub-scores, each clamped to [60, 100]. The floor
// keeps the result at 60 or above.
func MealScore(calories, protein, carbs, fats float64) int {
	calorieScore := clamp(100 - math.Abs(calories-500)/10)
	proteinScore := clamp(protein * 2)
	balanceScore := clamp(100 - math.Abs(protein-carbs/2) - math.Abs(fats-15))
	return int(math.Round((calorieScore + proteinScore + balanceScore) / 3))
}

func ValidateTotals(t models.NutrientTotals) error {
	for _, v := range []float64{t.Calories, t.Protein, t.Carbs, t.Fats} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return ErrInvalidTotals
		}
	}
	return nil
}

// ValidateBiometrics requires a positive BMI. Age, weight and height may be
// zero when unknown but never negative or non-finite.
func ValidateBiometrics(b models.UserBiometrics) error {
	if math.IsNaN(b.BMI) || math.IsInf(b.BMI, 0) || b.BMI <= 0 {
		return fmt.Errorf("%w: bmi must be positive", ErrInvalidBiometrics)
	}
	if b.Age < 0 {
		return fmt.Errorf("%w: age must not be negative", ErrInvalidBiometrics)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"weight", b.WeightKg}, {"height", b.HeightCm}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidBiometrics, f.name)
		}
	}
	return nil
}

// ValidateResult checks an analysis produced elsewhere against the shape
// Score always produces.
func ValidateResult(r *models.AnalysisResult) error {
	if r == nil {
		return fmt.Errorf("%w: missing", ErrInvalidResult)
	}
	n := r.Nutrition
	for _, v := range []float64{n.Calories, n.Protein, n.Carbs, n.Fats, n.Fiber, n.Sugar, n.Sodium} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: nutrient totals must be finite and non-negative", ErrInvalidResult)
		}
	}
	if r.MealScore < 0 || r.MealScore > 100 {
		return fmt.Errorf("%w: meal score %d out of range", ErrInvalidResult, r.MealScore)
	}
	if r.Grade != Grade(r.MealScore) {
		return fmt.Errorf("%w: grade %q does not match score %d", ErrInvalidResult, r.Grade, r.MealScore)
	}
	if !r.HealthRisk.Level.Valid() || r.HealthRisk.Score != r.HealthRisk.Level.Score() {
		return fmt.Errorf("%w: unknown health risk %q", ErrInvalidResult, r.HealthRisk.Level)
	}
	if !r.BMI.Category.Valid() {
		return fmt.Errorf("%w: unknown bmi category %q", ErrInvalidResult, r.BMI.Category)
	}
	if len(r.Recommendations) != recommendationCount {
		return fmt.Errorf("%w: expected %d recommendations, got %d", ErrInvalidResult, recommendationCount, len(r.Recommendations))
	}
	if r.DailyTargets != Targets {
		return fmt.Errorf("%w: daily targets differ from the fixed targets", ErrInvalidResult)
	}
	return nil
}

func variance(r float64) float64 {
	return varianceMin + r*varianceSpan
}

func clamp(v float64) float64 {
	return math.Min(subScoreCeil, math.Max(subScoreFloor, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
