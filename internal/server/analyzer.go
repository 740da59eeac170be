// internal/server/analyzer.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"mcp-meal-score/internal/models"
	"mcp-meal-score/internal/nutrition"
	"mcp-meal-score/internal/scoring"
)

var (
	ErrAnalysisInProgress = errors.New("analysis already in progress")
	ErrNoFoods            = errors.New("at least one food item is required")
)

// Analyzer runs one analysis at a time. When an upstream analyzer is
// configured it is tried first; any failure falls back to local scoring.
type Analyzer struct {
	foods       *nutrition.Database
	scorer      *scoring.Scorer
	httpClient  *http.Client
	upstreamURL string
	delay       time.Duration
	busy        atomic.Bool
}

func NewAnalyzer(foods *nutrition.Database, scorer *scoring.Scorer, upstreamURL string, delay time.Duration) *Analyzer {
	return &Analyzer{
		foods:  foods,
		scorer: scorer,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		upstreamURL: strings.TrimRight(upstreamURL, "/"),
		delay:       delay,
	}
}

// Analyze rejects a call made while another is running rather than
// queueing it.
func (a *Analyzer) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	if !a.busy.CompareAndSwap(false, true) {
		return nil, ErrAnalysisInProgress
	}
	defer a.busy.Store(false)

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if a.delay > 0 {
		t := time.NewTimer(a.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	if a.upstreamURL != "" {
		result, err := a.callUpstream(ctx, req)
		if err == nil {
			result.AnalyzedFoods = foodNames(req.FoodItems)
			if result.Timestamp.IsZero() {
				result.Timestamp = time.Now()
			}
			return result, nil
		}
		log.Printf("Upstream analysis failed, using local analysis: %v", err)
	}

	return a.scorer.Analyze(a.foods, req.FoodItems, req.UserInfo)
}

func (a *Analyzer) Busy() bool {
	return a.busy.Load()
}

func validateRequest(req *models.AnalysisRequest) error {
	if req == nil || len(req.FoodItems) == 0 {
		return ErrNoFoods
	}
	for i, e := range req.FoodItems {
		if err := nutrition.ValidateEntry(e); err != nil {
			return fmt.Errorf("entry %d (%q): %w", i, e.Name, err)
		}
	}
	return scoring.ValidateBiometrics(req.UserInfo)
}

func (a *Analyzer) callUpstream(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	url := fmt.Sprintf("%s/analyze", a.upstreamURL)

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("request failed with status %d and couldn't read body: %v", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return parseUpstreamResponse(body)
}

// parseUpstreamResponse accepts either {"analysis": {...}} or a bare
// analysis object.
func parseUpstreamResponse(body []byte) (*models.AnalysisResult, error) {
	var wrapped struct {
		Analysis *models.AnalysisResult `json:"analysis"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := wrapped.Analysis
	if result == nil {
		result = &models.AnalysisResult{}
		if err := json.Unmarshal(body, result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	if err := scoring.ValidateResult(result); err != nil {
		return nil, fmt.Errorf("unexpected response format: %w", err)
	}
	return result, nil
}

func foodNames(entries []models.FoodEntry) string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return strings.Join(names, ", ")
}
