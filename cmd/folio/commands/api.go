package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/folioquant/backend/internal/api"
	"github.com/folioquant/backend/internal/api/handlers"
	"github.com/folioquant/backend/internal/engine"
	"github.com/folioquant/backend/internal/policy"
	"github.com/folioquant/backend/pkg/config"
	"github.com/folioquant/backend/pkg/database"
	"github.com/folioquant/backend/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the optimization API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health               - Health check
  POST /api/optimize         - Optimize a portfolio from an asset list
  POST /api/quality          - Quality score only
  POST /api/correlations     - Correlation matrix only
  GET  /api/runs             - Recent optimization runs (requires database)
  GET  /api/runs/{id}        - One optimization run by id (requires database)

Example:
  go run ./cmd/folio api
  go run ./cmd/folio api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Load policy
	pol, err := loadPolicy(cfg)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}
	policyHash, err := policy.Hash(pol)
	if err != nil {
		return fmt.Errorf("hash policy: %w", err)
	}

	// 4. Connect to database (optional: run audit only)
	var repo *engine.Repository
	if cfg.Database.Enabled {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		repo = engine.NewRepository(db.Pool)
		log.Info("Connected to database")
	} else {
		log.Info("Database disabled, run audit unavailable")
	}

	// 5. Create engine
	eng := engine.New(pol, cfg.Engine.MaxSingleAsset, log)

	// 6. Create handler
	handler := handlers.NewOptimizeHandler(eng, repo, policyHash, log)

	// 7. Create router
	router := api.NewRouter(handler, log)

	// 8. Create server
	server := api.New(cfg, log, router)

	// 9. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/optimize")
	fmt.Println("  POST /api/quality")
	fmt.Println("  POST /api/correlations")
	fmt.Println("  GET  /api/runs")
	fmt.Println("  GET  /api/runs/{id}")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
