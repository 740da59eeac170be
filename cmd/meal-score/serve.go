// cmd/meal-score/serve.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mcp-meal-score/internal/config"
	"mcp-meal-score/internal/server"
)

type serveFlags struct {
	envFile  string
	host     string
	port     int
	dbPath   string
	foods    string
	upstream string
	delay    time.Duration
}

func newServeCmd() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the meal score tool server over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.envFile)
			if err != nil {
				return exitError(2, "failed to load configuration: %v", err)
			}
			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.Host = f.host
			}
			if flags.Changed("port") {
				cfg.Port = f.port
			}
			if flags.Changed("db-path") {
				cfg.DBPath = f.dbPath
			}
			if flags.Changed("foods") {
				cfg.FoodsPath = f.foods
			}
			if flags.Changed("upstream") {
				cfg.UpstreamURL = f.upstream
			}
			if flags.Changed("delay") {
				cfg.AnalysisDelay = f.delay
			}
			return runServe(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.envFile, "env-file", ".env", "Environment file to load if present")
	flags.StringVar(&f.host, "host", "0.0.0.0", "Host address")
	flags.IntVar(&f.port, "port", 8012, "Port for HTTP transport")
	flags.StringVar(&f.dbPath, "db-path", "/data/meal-score.db", "Database path")
	flags.StringVar(&f.foods, "foods", "", "YAML food table (default: built-in table)")
	flags.StringVar(&f.upstream, "upstream", "", "Remote analyzer base URL; local analysis is used when it fails")
	flags.DurationVar(&f.delay, "delay", 0, "Simulated analysis latency")

	return cmd
}

func runServe(cfg *config.Config) error {
	srv, err := server.NewMealScoreServer(cfg)
	if err != nil {
		return exitError(3, "failed to create server: %v", err)
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(context.Background()); err != nil {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	var serveErr error
	select {
	case <-sigCh:
		log.Println("Received shutdown signal")
	case serveErr = <-errCh:
		log.Printf("Server error: %v", serveErr)
	}

	// Graceful shutdown
	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	if serveErr != nil {
		return exitError(3, "server error: %v", serveErr)
	}
	return nil
}
