// internal/nutrition/fooddb.go

// Package nutrition maps food names to nutrient estimates using an ordered
// substring table.
package nutrition

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed foods.yaml
var defaultFoodsYAML []byte

// Food holds per-unit nutrient values for every name containing Pattern.
type Food struct {
	Pattern  string  `yaml:"pattern" json:"pattern"`
	Calories float64 `yaml:"calories" json:"calories"`
	Protein  float64 `yaml:"protein" json:"protein"`
	Carbs    float64 `yaml:"carbs" json:"carbs"`
	Fats     float64 `yaml:"fats" json:"fats"`
}

// Fallback is applied per unit to foods that match no pattern.
var Fallback = Food{Calories: 150, Protein: 10, Carbs: 20, Fats: 5}

// Database is read-only after construction and safe for concurrent use.
type Database struct {
	foods []Food
}

type foodFile struct {
	Foods []Food `yaml:"foods"`
}

var (
	defaultDB   *Database
	defaultOnce sync.Once
)

// Default returns the built-in table.
func Default() *Database {
	defaultOnce.Do(func() {
		db, err := Parse(defaultFoodsYAML)
		if err != nil {
			panic(fmt.Sprintf("nutrition: built-in food table: %v", err))
		}
		defaultDB = db
	})
	return defaultDB
}

// NewDatabase builds a table from foods in match order.
func NewDatabase(foods []Food) (*Database, error) {
	seen := make(map[string]bool, len(foods))
	out := make([]Food, 0, len(foods))
	for i, f := range foods {
		f.Pattern = strings.ToLower(strings.TrimSpace(f.Pattern))
		if f.Pattern == "" {
			return nil, fmt.Errorf("food %d: empty pattern", i)
		}
		if seen[f.Pattern] {
			return nil, fmt.Errorf("food %d: duplicate pattern %q", i, f.Pattern)
		}
		if f.Calories < 0 || f.Protein < 0 || f.Carbs < 0 || f.Fats < 0 {
			return nil, fmt.Errorf("food %d (%q): negative nutrient value", i, f.Pattern)
		}
		seen[f.Pattern] = true
		out = append(out, f)
	}
	return &Database{foods: out}, nil
}

// Parse reads a YAML document with a top-level "foods" list.
func Parse(data []byte) (*Database, error) {
	var ff foodFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("failed to parse food table: %w", err)
	}
	return NewDatabase(ff.Foods)
}

func LoadFile(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read food table: %w", err)
	}
	return Parse(data)
}

// Lookup returns the first food whose pattern is a substring of the
// lowercased name.
func (db *Database) Lookup(name string) (Food, bool) {
	lower := strings.ToLower(name)
	for _, f := range db.foods {
		if strings.Contains(lower, f.Pattern) {
			return f, true
		}
	}
	return Food{}, false
}

// Foods returns a copy of the table in match order.
func (db *Database) Foods() []Food {
	out := make([]Food, len(db.foods))
	copy(out, db.foods)
	return out
}

func (db *Database) Len() int {
	return len(db.foods)
}
