// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"mcp-meal-score/internal/config"
	"mcp-meal-score/internal/nutrition"
	"mcp-meal-score/internal/scoring"
	"mcp-meal-score/internal/storage"
)

const Version = "1.0.0"

type toolHandler func(context.Context, *protocol.CallToolRequest) (*protocol.CallToolResult, error)

type MealScoreServer struct {
	info       protocol.Implementation
	httpServer *http.Server
	storage    *storage.SQLiteStorage
	analyzer   *Analyzer
	tools      map[string]toolHandler
	config     *config.Config
}

func NewMealScoreServer(cfg *config.Config) (*MealScoreServer, error) {
	foods := nutrition.Default()
	if cfg.FoodsPath != "" {
		db, err := nutrition.LoadFile(cfg.FoodsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load food table: %w", err)
		}
		foods = db
	}

	// Initialize database
	stor, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	mealServer := &MealScoreServer{
		info: protocol.Implementation{
			Name:    "meal-score",
			Version: Version,
		},
		storage:  stor,
		analyzer: NewAnalyzer(foods, scoring.New(nil), cfg.UpstreamURL, cfg.AnalysisDelay),
		config:   cfg,
	}

	mealServer.registerTools()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", mealServer.handleHealth)
	mux.HandleFunc("/", mealServer.handleHTTP)

	mealServer.httpServer = &http.Server{
		Addr:    cfg.Addr(),
		Handler: mux,
	}

	log.Printf("Loaded %d foods", foods.Len())
	return mealServer, nil
}

func (s *MealScoreServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Decode the MCP request
	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	result, err := handler(r.Context(), &request)
	if err != nil {
		log.Printf("Tool %s failed: %v", request.Name, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	// Send response
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func (s *MealScoreServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"server":    s.info,
		"analyzing": s.analyzer.Busy(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidParams), errors.Is(err, ErrNoFoods),
		errors.Is(err, nutrition.ErrInvalidQuantity), errors.Is(err, nutrition.ErrEmptyName),
		errors.Is(err, scoring.ErrInvalidBiometrics), errors.Is(err, scoring.ErrImplausibleBody),
		errors.Is(err, storage.ErrNothingToSave):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAnalysisInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *MealScoreServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *MealScoreServer) Start(ctx context.Context) error {
	log.Printf("Starting meal score server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *MealScoreServer) Stop(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.storage != nil {
		s.storage.Close()
	}
	return err
}

func (s *MealScoreServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
