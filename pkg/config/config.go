// Package config loads service configuration from the environment.
// Database connection settings live in pkg/database; everything else —
// agent knobs and LLM backend selection — is here.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// AgentConfig holds the orchestrator tuning knobs. Defaults match the
// behavior the front-end was built against.
type AgentConfig struct {
	// MemoryWindow is how many summarized entries of the conversation log
	// feed the synthesis prompt.
	MemoryWindow int `validate:"min=1"`
	// ReportSummaryBudget caps narrative-report memory entries, in runes.
	ReportSummaryBudget int `validate:"min=50"`
	// DataSummaryBudget caps raw-data memory entries, in runes.
	DataSummaryBudget int `validate:"min=50"`
	// CellBudget caps individual result cells before display elision.
	CellBudget int `validate:"min=10"`
	// SLAThreshold separates immediate from slow legacy consumption.
	SLAThreshold time.Duration
}

// LLMConfig selects and tunes the completion backend.
type LLMConfig struct {
	Backend       string  `validate:"required,oneof=ollama openai"`
	Model         string  `validate:"required"`
	OllamaBaseURL string  `validate:"required_if=Backend ollama"`
	Temperature   float32 `validate:"gte=0,lte=2"`
	Timeout       time.Duration
}

// RetentionConfig tunes the audit-log retention sweep.
type RetentionConfig struct {
	// TurnRetentionDays is how long completed turn records are kept.
	TurnRetentionDays int `validate:"min=1"`
	// CleanupInterval is how often the sweep runs.
	CleanupInterval time.Duration
}

// Config is the full service configuration.
type Config struct {
	HTTPPort  string `validate:"required"`
	Agent     AgentConfig
	LLM       LLMConfig
	Retention RetentionConfig
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),
		Agent: AgentConfig{
			MemoryWindow:        getEnvInt("AGENT_MEMORY_WINDOW", 10),
			ReportSummaryBudget: getEnvInt("AGENT_REPORT_SUMMARY_BUDGET", 500),
			DataSummaryBudget:   getEnvInt("AGENT_DATA_SUMMARY_BUDGET", 200),
			CellBudget:          getEnvInt("AGENT_CELL_BUDGET", 50),
			SLAThreshold:        getEnvDuration("AGENT_SLA_THRESHOLD", 10*time.Second),
		},
		LLM: LLMConfig{
			Backend:       getEnvOrDefault("LLM_BACKEND", "ollama"),
			Model:         getEnvOrDefault("LLM_MODEL", "llama3"),
			OllamaBaseURL: getEnvOrDefault("OLLAMA_BASE_URL", "http://localhost:11434"),
			Temperature:   getEnvFloat32("LLM_TEMPERATURE", 0),
			Timeout:       getEnvDuration("LLM_TIMEOUT", 5*time.Minute),
		},
		Retention: RetentionConfig{
			TurnRetentionDays: getEnvInt("RETENTION_TURN_DAYS", 90),
			CleanupInterval:   getEnvDuration("RETENTION_CLEANUP_INTERVAL", time.Hour),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat32(key string, defaultVal float32) float32 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 32); err == nil {
			return float32(f)
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
