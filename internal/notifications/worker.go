package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/tradzyhq/tradzy-backend/pkg/config"
	"github.com/tradzyhq/tradzy-backend/pkg/logger"
	"github.com/tradzyhq/tradzy-backend/pkg/mail"
	"github.com/tradzyhq/tradzy-backend/pkg/metrics"
)

const workerName = "mailer"

// Worker drains the email outbox in batches.
type Worker struct {
	repo    *Repository
	sender  mail.Sender
	cfg     config.OutboxConfig
	logg    *logger.Logger
	metrics *metrics.OutboxMetrics
}

// NewWorker constructs the outbox worker.
func NewWorker(repo *Repository, sender mail.Sender, cfg config.OutboxConfig, logg *logger.Logger, m *metrics.OutboxMetrics) (*Worker, error) {
	if repo == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	return &Worker{repo: repo, sender: sender, cfg: cfg, logg: logg, metrics: m}, nil
}

// Run polls the outbox until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	interval := w.cfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.logg.Error(ctx, "outbox batch failed", err)
			}
		}
	}
}

// RunOnce dispatches a single batch and returns the number of emails sent.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	started := time.Now()
	defer func() {
		w.metrics.ObserveBatch(workerName, time.Since(started))
	}()

	rows, err := w.repo.ListPending(ctx, w.cfg.BatchSize, w.cfg.MaxAttempts)
	if err != nil {
		return 0, fmt.Errorf("listing pending outbox rows: %w", err)
	}

	sent := 0
	for _, row := range rows {
		rowCtx := w.logg.WithFields(ctx, map[string]any{
			"outbox_id": row.ID.String(),
			"order_id":  row.OrderID.String(),
		})

		if err := w.sender.Send(ctx, row.Recipient, row.Subject, row.BodyHTML); err != nil {
			w.metrics.IncFailed(workerName)
			w.logg.Warn(rowCtx, fmt.Sprintf("sending receipt failed: %v", err))
			if markErr := w.repo.MarkFailed(ctx, row.ID, err.Error(), w.cfg.MaxAttempts); markErr != nil {
				w.logg.Error(rowCtx, "marking outbox row failed", markErr)
			}
			continue
		}

		if err := w.repo.MarkSent(ctx, row.ID); err != nil {
			w.logg.Error(rowCtx, "marking outbox row sent", err)
			continue
		}
		w.metrics.IncSent(workerName)
		sent++
	}

	if len(rows) > 0 {
		w.logg.Info(w.logg.WithFields(ctx, map[string]any{
			"batch": len(rows),
			"sent":  sent,
		}), "outbox batch dispatched")
	}
	return sent, nil
}
