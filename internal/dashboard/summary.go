// internal/dashboard/summary.go

// Package dashboard summarises saved meal history.
package dashboard

import (
	"math"
	"sort"
	"time"

	"mcp-meal-score/internal/models"
)

const (
	window      = 7 * 24 * time.Hour
	topFoodsMax = 3
)

type FoodCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Summary struct {
	TotalMeals       int         `json:"total_meals"`
	MealsLogged7d    int         `json:"meals_logged_7d"`
	MealsLoggedToday int         `json:"meals_logged_today"`
	AvgDailyCalories float64     `json:"avg_daily_calories"`
	AvgMealScore     float64     `json:"avg_meal_score"`
	Streak           int         `json:"streak"`
	TopFoods         []FoodCount `json:"top_foods"`
}

// Summarize reports on the seven days before now. Daily calories are the
// window total divided by min(meals, 7).
func Summarize(meals []*models.Meal, now time.Time) Summary {
	s := Summary{TotalMeals: len(meals), Streak: Streak(meals, now)}

	today := now.Format(time.DateOnly)
	var recent []*models.Meal
	var calories, score float64
	for _, m := range meals {
		if m.Analysis == nil || !m.Timestamp.After(now.Add(-window)) {
			continue
		}
		recent = append(recent, m)
		s.MealsLogged7d++
		if m.Timestamp.In(now.Location()).Format(time.DateOnly) == today {
			s.MealsLoggedToday++
		}
		calories += m.Analysis.Nutrition.Calories
		score += float64(m.Analysis.MealScore)
	}
	s.TopFoods = TopFoods(recent, topFoodsMax)
	if s.MealsLogged7d == 0 {
		return s
	}

	s.AvgDailyCalories = math.Round(calories / float64(min(s.MealsLogged7d, 7)))
	s.AvgMealScore = math.Round(score / float64(s.MealsLogged7d))
	return s
}

// TopFoods returns up to n food names by how many meals list them, most
// frequent first. Ties keep the order in which names were first seen.
func TopFoods(meals []*models.Meal, n int) []FoodCount {
	index := make(map[string]int)
	counts := []FoodCount{}
	for _, m := range meals {
		for _, f := range m.Foods {
			i, ok := index[f.Name]
			if !ok {
				i = len(counts)
				index[f.Name] = i
				counts = append(counts, FoodCount{Name: f.Name})
			}
			counts[i].Count++
		}
	}
	sort.SliceStable(counts, func(a, b int) bool { return counts[a].Count > counts[b].Count })
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Streak counts consecutive calendar days, ending today, with at least one
// meal. Days are taken in now's location.
func Streak(meals []*models.Meal, now time.Time) int {
	days := make(map[string]bool, len(meals))
	for _, m := range meals {
		days[m.Timestamp.In(now.Location()).Format(time.DateOnly)] = true
	}

	streak := 0
	for d := now; days[d.Format(time.DateOnly)]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
