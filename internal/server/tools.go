// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"mcp-meal-score/internal/dashboard"
	"mcp-meal-score/internal/models"
	"mcp-meal-score/internal/nutrition"
	"mcp-meal-score/internal/report"
	"mcp-meal-score/internal/scoring"
)

var ErrInvalidParams = errors.New("invalid parameters")

// summaryHistory bounds how many saved meals feed the dashboard summary.
const summaryHistory = 500

type AnalyzeMealParams struct {
	FoodItems []models.FoodEntry    `json:"food_items" description:"Foods in the meal with quantity and unit"`
	UserInfo  models.UserBiometrics `json:"user_info" description:"Age, weight (kg), height (cm) and BMI of the eater"`
	Format    string                `json:"format,omitempty" description:"json (default) or md for a Markdown report"`
}

type SaveMealParams struct {
	Name      string                 `json:"name,omitempty" description:"Name for the meal (defaults to 'Meal HH:MM')"`
	Foods     []models.FoodEntry     `json:"foods" description:"Foods the analysis was computed from"`
	Analysis  *models.AnalysisResult `json:"analysis" description:"Analysis returned by analyze_meal"`
	Timestamp string                 `json:"timestamp,omitempty" description:"ISO timestamp of when meal was eaten (defaults to now)"`
}

type GetMealsParams struct {
	StartDate string `json:"start_date,omitempty" description:"Start date for meal query (YYYY-MM-DD)"`
	EndDate   string `json:"end_date,omitempty" description:"End date for meal query (YYYY-MM-DD)"`
	Limit     int    `json:"limit,omitempty" description:"Maximum number of meals to return"`
}

type MealIDParams struct {
	ID string `json:"id" description:"Meal ID"`
}

type TargetsResponse struct {
	Fixed       models.DailyTargets  `json:"daily_targets"`
	Personal    *models.DailyTargets `json:"personal_targets,omitempty"`
	BMI         float64              `json:"bmi,omitempty"`
	BMICategory models.BMICategory   `json:"bmi_category,omitempty"`
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	// Convert the Arguments map to JSON bytes, then unmarshal to target
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal arguments: %v", ErrInvalidParams, err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	return nil
}

// handleAnalyzeMeal scores a meal without saving it.
func (s *MealScoreServer) handleAnalyzeMeal(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AnalyzeMealParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(ctx, &models.AnalysisRequest{
		FoodItems: params.FoodItems,
		UserInfo:  params.UserInfo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze meal: %w", err)
	}

	switch params.Format {
	case "", "json":
		return s.createJSONResponse(map[string]interface{}{"analysis": result})
	case "md":
		return s.createJSONResponse(map[string]interface{}{
			"analysis": result,
			"report":   report.Markdown(result),
			"share":    report.ShareText(result),
		})
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidParams, params.Format)
	}
}

// handleSaveMeal stores a previously produced analysis with its foods.
func (s *MealScoreServer) handleSaveMeal(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SaveMealParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	timestamp := time.Now()
	if params.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, params.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid timestamp format: %v", ErrInvalidParams, err)
		}
		timestamp = t
	}

	if params.Analysis != nil {
		if err := scoring.ValidateResult(params.Analysis); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
	}
	for i, food := range params.Foods {
		if err := nutrition.ValidateEntry(food); err != nil {
			return nil, fmt.Errorf("%w: food %d: %v", ErrInvalidParams, i, err)
		}
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = "Meal " + timestamp.Format("15:04")
	}

	meal := &models.Meal{
		Name:      name,
		Foods:     params.Foods,
		Analysis:  params.Analysis,
		Timestamp: timestamp,
	}
	if err := s.storage.SaveMeal(ctx, meal); err != nil {
		return nil, fmt.Errorf("failed to save meal: %w", err)
	}

	log.Printf("Saved meal %s (%q, score %d)", meal.ID, meal.Name, meal.Analysis.MealScore)
	return s.createJSONResponse(meal)
}

// handleGetMeals retrieves meals from storage
func (s *MealScoreServer) handleGetMeals(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetMealsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	// Set defaults
	if params.Limit <= 0 {
		params.Limit = 20
	}

	meals, err := s.storage.GetMeals(ctx, params.StartDate, params.EndDate, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve meals: %w", err)
	}
	if meals == nil {
		meals = []*models.Meal{}
	}

	return s.createJSONResponse(meals)
}

func (s *MealScoreServer) handleGetMeal(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params MealIDParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, fmt.Errorf("%w: meal id is required", ErrInvalidParams)
	}

	meal, err := s.storage.GetMeal(ctx, params.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve meal: %w", err)
	}
	return s.createJSONResponse(meal)
}

func (s *MealScoreServer) handleDeleteMeal(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params MealIDParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, fmt.Errorf("%w: meal id is required", ErrInvalidParams)
	}

	if err := s.storage.DeleteMeal(ctx, params.ID); err != nil {
		return nil, fmt.Errorf("failed to delete meal: %w", err)
	}
	return s.createJSONResponse(map[string]interface{}{"deleted": params.ID})
}

func (s *MealScoreServer) handleGetSummary(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	meals, err := s.storage.GetMeals(ctx, "", "", summaryHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve meals: %w", err)
	}
	return s.createJSONResponse(dashboard.Summarize(meals, time.Now()))
}

// handleGetTargets returns the fixed targets and, when a profile is given,
// personalised ones.
func (s *MealScoreServer) handleGetTargets(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var profile scoring.Profile
	if err := extractParams(req, &profile); err != nil {
		return nil, err
	}

	resp := TargetsResponse{Fixed: scoring.Targets}
	if profile.WeightKg > 0 || profile.HeightCm > 0 {
		personal, err := scoring.PersonalTargets(profile)
		if err != nil {
			return nil, fmt.Errorf("failed to compute targets: %w", err)
		}
		bmi, err := scoring.BMI(profile.WeightKg, profile.HeightCm)
		if err != nil {
			return nil, fmt.Errorf("failed to compute bmi: %w", err)
		}
		resp.Personal = &personal
		resp.BMI = bmi
		resp.BMICategory = scoring.CategorizeBMI(bmi)
	}
	return s.createJSONResponse(resp)
}

func (s *MealScoreServer) registerTools() {
	s.tools = map[string]toolHandler{
		"analyze_meal": s.handleAnalyzeMeal,
		"save_meal":    s.handleSaveMeal,
		"get_meals":    s.handleGetMeals,
		"get_meal":     s.handleGetMeal,
		"delete_meal":  s.handleDeleteMeal,
		"get_summary":  s.handleGetSummary,
		"get_targets":  s.handleGetTargets,
	}

	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		log.Printf("Registered tool: %s", name)
	}
}
