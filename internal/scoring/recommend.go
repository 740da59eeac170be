// internal/scoring/recommend.go
package scoring

const (
	RecVariety        = "Good variety of foods in this meal"
	RecReducePortions = "Consider reducing portion sizes for calorie control"
	RecCaloriesOK     = "Appropriate calorie intake"
	RecAddProtein     = "Add more protein-rich foods like chicken, fish, or legumes"
	RecProteinOK      = "Adequate protein for muscle maintenance"
	RecComplexCarbs   = "Consider choosing complex carbs over simple sugars"
	RecCarbsOK        = "Good carbohydrate sources"
	RecDrinkWater     = "Drink water with your meal for better digestion"
)

const recommendationCount = 5

// Recommendations always has five entries in a fixed order.
func Recommendations(calories, protein, carbs float64) []string {
	return []string{
		RecVariety,
		pick(calories > 600, RecReducePortions, RecCaloriesOK),
		pick(protein < 20, RecAddProtein, RecProteinOK),
		pick(carbs > 100, RecComplexCarbs, RecCarbsOK),
		RecDrinkWater,
	}
}

func FoodSuggestions() []string {
	return []string{
		"Add a side salad for more fiber",
		"Include a fruit for dessert",
		"Consider grilled instead of fried options",
		"Use herbs and spices instead of salt",
	}
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
