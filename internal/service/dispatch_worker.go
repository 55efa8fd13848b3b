package service

import (
	"context"
	"fmt"
	"time"

	"github.com/admitpath/admissions-api/internal/observability"
	"github.com/admitpath/admissions-api/internal/ratelimit"
	"github.com/admitpath/admissions-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultDispatchInterval    = 15 * time.Second
	defaultDispatchScanLimit   = 100
	defaultDispatchConcurrency = 8
)

type dispatcher interface {
	Dispatch(ctx context.Context, id int64) (bool, error)
}

// DispatchWorker periodically scans for pending-and-due notifications and
// dispatches them through their channel senders.
type DispatchWorker struct {
	notifications repository.NotificationRepository
	dispatcher    dispatcher
	rateLimiter   ratelimit.RateLimiter
	logger        *zap.Logger
	metrics       *observability.Metrics
	interval      time.Duration
	limit         int
	concurrency   int
	now           func() time.Time
}

func NewDispatchWorker(
	notifications repository.NotificationRepository,
	dispatcher dispatcher,
	rateLimiter ratelimit.RateLimiter,
	interval time.Duration,
	limit int,
	concurrency int,
	logger *zap.Logger,
) (*DispatchWorker, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if interval <= 0 {
		interval = defaultDispatchInterval
	}
	if limit <= 0 {
		limit = defaultDispatchScanLimit
	}
	if concurrency < 1 {
		concurrency = defaultDispatchConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DispatchWorker{
		notifications: notifications,
		dispatcher:    dispatcher,
		rateLimiter:   rateLimiter,
		logger:        logger,
		interval:      interval,
		limit:         limit,
		concurrency:   concurrency,
		now:           time.Now,
	}, nil
}

func (w *DispatchWorker) SetMetrics(metrics *observability.Metrics) {
	if w == nil {
		return
	}
	w.metrics = metrics
}

// Start runs scan-and-dispatch cycles until context cancellation.
func (w *DispatchWorker) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Run an initial scan so already-due notifications do not wait for the
	// first ticker edge.
	if err := w.scanDue(ctx); err != nil && ctx.Err() == nil {
		w.logger.Error("dispatch worker initial scan failed", zap.Error(err))
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.scanDue(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("dispatch worker scan failed", zap.Error(err))
			}
		}
	}
}

func (w *DispatchWorker) scanDue(ctx context.Context) error {
	due, err := w.notifications.ListDue(ctx, w.now(), w.limit)
	if err != nil {
		return fmt.Errorf("failed to fetch due notifications: %w", err)
	}

	w.metrics.SetDueQueueSize(len(due))
	if len(due) == 0 {
		return nil
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for i := range due {
		notification := due[i]
		g.Go(func() error {
			if w.rateLimiter != nil {
				if err := w.rateLimiter.Wait(groupCtx, notification.Channel.String()); err != nil {
					w.logger.Warn("rate limiter wait failed, skipping dispatch",
						zap.Int64("notificationId", notification.ID),
						zap.String("channel", notification.Channel.String()),
						zap.Error(err),
					)
					return nil
				}
			}

			sent, err := w.dispatcher.Dispatch(groupCtx, notification.ID)
			if err != nil {
				w.logger.Error("dispatch failed with persistence error",
					zap.Int64("notificationId", notification.ID),
					zap.Error(err),
				)
				return nil
			}
			if !sent {
				// Delivery failure already recorded as a failed transition;
				// the notification is picked up again on external retry.
				return nil
			}
			return nil
		})
	}

	return g.Wait()
}
