// Package cleanup provides data retention for the turn audit log.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/spb-forensics/sentinel/pkg/config"
)

// TurnPruner deletes audit rows past their retention window.
type TurnPruner interface {
	DeleteTurnsOlderThan(ctx context.Context, retentionDays int) (int64, error)
}

// Service periodically enforces the audit-log retention policy. The sweep
// is idempotent and safe to run from multiple replicas.
type Service struct {
	config  config.RetentionConfig
	history TurnPruner

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new cleanup service.
func NewService(cfg config.RetentionConfig, history TurnPruner) *Service {
	return &Service{config: cfg, history: history}
}

// Start launches the background cleanup loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("Cleanup service started",
		"turn_retention_days", s.config.TurnRetentionDays,
		"interval", s.config.CleanupInterval)
}

// Stop signals the cleanup loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("Cleanup service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.sweep(ctx)

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	count, err := s.history.DeleteTurnsOlderThan(ctx, s.config.TurnRetentionDays)
	if err != nil {
		slog.Error("Retention: turn cleanup failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("Retention: deleted expired turn records", "count", count)
	}
}
