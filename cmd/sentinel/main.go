// Sentinel server — answers natural-language questions about SPB/PIX
// transaction records through an SQL-synthesis pipeline or a forensic
// investigation pipeline, and exposes both over HTTP.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/spb-forensics/sentinel/pkg/agent"
	"github.com/spb-forensics/sentinel/pkg/agent/orchestrator"
	"github.com/spb-forensics/sentinel/pkg/api"
	"github.com/spb-forensics/sentinel/pkg/cleanup"
	"github.com/spb-forensics/sentinel/pkg/config"
	"github.com/spb-forensics/sentinel/pkg/database"
	"github.com/spb-forensics/sentinel/pkg/llm"
	"github.com/spb-forensics/sentinel/pkg/memory"
	"github.com/spb-forensics/sentinel/pkg/services"
	"github.com/spb-forensics/sentinel/pkg/store"
	"github.com/spb-forensics/sentinel/pkg/version"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting sentinel",
		"version", version.Full(),
		"http_port", cfg.HTTPPort,
		"llm_backend", cfg.LLM.Backend,
		"llm_model", cfg.LLM.Model)

	ctx := context.Background()

	// Database client; applies the audit-table migration on startup.
	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load database config", "error", err)
		os.Exit(1)
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("Error closing database client", "error", err)
		}
	}()
	slog.Info("Connected to PostgreSQL database")

	// LLM completion client.
	llmClient, err := llm.NewFromConfig(cfg.LLM)
	if err != nil {
		slog.Error("Failed to initialize LLM client", "error", err)
		os.Exit(1)
	}

	// Pipeline wiring: store, steps, engine.
	txStore := store.NewTransactionStore(dbClient.DB())
	engine := orchestrator.New(
		agent.Router{},
		agent.NewSynthesisStep(llmClient),
		agent.NewExecutionStep(txStore, cfg.Agent.CellBudget),
		agent.NewInvestigationStep(txStore),
		agent.NewClassifierStep(llmClient, cfg.Agent.SLAThreshold),
	)

	conversationLog := memory.NewConversationLog(
		cfg.Agent.MemoryWindow,
		cfg.Agent.ReportSummaryBudget,
		cfg.Agent.DataSummaryBudget,
	)
	historyService := services.NewHistoryService(dbClient.DB())
	turnService := services.NewTurnService(engine, conversationLog, historyService)
	slog.Info("Services initialized")

	// Audit-log retention sweep.
	cleanupService := cleanup.NewService(cfg.Retention, historyService)
	cleanupService.Start(ctx)
	defer cleanupService.Stop()

	// HTTP server.
	server := api.NewServer(turnService, historyService, conversationLog, dbClient)
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	slog.Info("Sentinel started successfully", "addr", httpServer.Addr)

	// Wait for shutdown signal or server error.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
