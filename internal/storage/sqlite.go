// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mcp-meal-score/internal/models"
)

// Timestamps are stored as fixed-width UTC text so they sort lexically and
// work with SQLite's DATE().
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	ErrNotFound      = errors.New("meal not found")
	ErrNothingToSave = errors.New("a meal needs at least one food and an analysis")
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS meals (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        timestamp TEXT NOT NULL,
        calories REAL NOT NULL,
        meal_score INTEGER NOT NULL,
        risk_level TEXT NOT NULL,
        analysis TEXT NOT NULL,
        created_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS foods (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        meal_id TEXT NOT NULL,
        name TEXT NOT NULL,
        quantity REAL NOT NULL,
        unit TEXT NOT NULL,
        FOREIGN KEY (meal_id) REFERENCES meals(id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_meals_timestamp ON meals(timestamp);
    CREATE INDEX IF NOT EXISTS idx_foods_meal_id ON foods(meal_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveMeal stores meal, filling in ID and timestamps when unset.
func (s *SQLiteStorage) SaveMeal(ctx context.Context, meal *models.Meal) error {
	if meal == nil || meal.Analysis == nil || len(meal.Foods) == 0 {
		return ErrNothingToSave
	}
	now := time.Now()
	if meal.ID == "" {
		meal.ID = uuid.NewString()
	}
	if meal.Timestamp.IsZero() {
		meal.Timestamp = now
	}
	if meal.CreatedAt.IsZero() {
		meal.CreatedAt = now
	}

	analysisJSON, err := json.Marshal(meal.Analysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Insert meal
	mealQuery := `
        INSERT INTO meals (id, name, timestamp, calories, meal_score, risk_level, analysis, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = tx.ExecContext(ctx, mealQuery,
		meal.ID, meal.Name, formatTime(meal.Timestamp), meal.Analysis.Nutrition.Calories,
		meal.Analysis.MealScore, string(meal.Analysis.HealthRisk.Level),
		string(analysisJSON), formatTime(meal.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}

	// Insert foods
	foodQuery := `
        INSERT INTO foods (meal_id, name, quantity, unit)
        VALUES (?, ?, ?, ?)
    `
	for _, food := range meal.Foods {
		_, err = tx.ExecContext(ctx, foodQuery, meal.ID, food.Name, food.Quantity, food.Unit)
		if err != nil {
			return fmt.Errorf("failed to insert food: %w", err)
		}
	}

	return tx.Commit()
}

// GetMeals returns meals newest first. Dates are YYYY-MM-DD in UTC and
// either bound may be empty.
func (s *SQLiteStorage) GetMeals(ctx context.Context, startDate, endDate string, limit int) ([]*models.Meal, error) {
	query := `
        SELECT id, name, timestamp, analysis, created_at
        FROM meals
        WHERE 1=1
    `
	args := []interface{}{}

	if startDate != "" {
		query += " AND DATE(timestamp) >= ?"
		args = append(args, startDate)
	}
	if endDate != "" {
		query += " AND DATE(timestamp) <= ?"
		args = append(args, endDate)
	}

	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}

	var meals []*models.Meal
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read meals: %w", err)
	}
	rows.Close()

	for _, meal := range meals {
		if err := s.loadFoodsForMeal(ctx, meal); err != nil {
			return nil, fmt.Errorf("failed to load foods for meal %s: %w", meal.ID, err)
		}
	}

	return meals, nil
}

func (s *SQLiteStorage) GetMeal(ctx context.Context, id string) (*models.Meal, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, timestamp, analysis, created_at
        FROM meals
        WHERE id = ?
    `, id)

	meal, err := scanMeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadFoodsForMeal(ctx, meal); err != nil {
		return nil, fmt.Errorf("failed to load foods for meal %s: %w", meal.ID, err)
	}
	return meal, nil
}

func (s *SQLiteStorage) DeleteMeal(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM foods WHERE meal_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete foods: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM meals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMeal(sc scanner) (*models.Meal, error) {
	meal := &models.Meal{}
	var timestampStr, createdAtStr, analysisStr string

	if err := sc.Scan(&meal.ID, &meal.Name, &timestampStr, &analysisStr, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan meal: %w", err)
	}

	var err error
	if meal.Timestamp, err = time.Parse(time.RFC3339Nano, timestampStr); err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	if meal.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	meal.Analysis = &models.AnalysisResult{}
	if err := json.Unmarshal([]byte(analysisStr), meal.Analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return meal, nil
}

func (s *SQLiteStorage) loadFoodsForMeal(ctx context.Context, meal *models.Meal) error {
	query := `
        SELECT name, quantity, unit
        FROM foods
        WHERE meal_id = ?
        ORDER BY id
    `

	rows, err := s.db.QueryContext(ctx, query, meal.ID)
	if err != nil {
		return fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	var foods []models.FoodEntry
	for rows.Next() {
		food := models.FoodEntry{}
		if err := rows.Scan(&food.Name, &food.Quantity, &food.Unit); err != nil {
			return fmt.Errorf("failed to scan food: %w", err)
		}
		foods = append(foods, food)
	}

	meal.Foods = foods
	return rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
