// Package scheduler runs the periodic maintenance jobs: removal of expired
// refresh tokens and reconciliation of the cached rating and like counters.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"bookshop/internal/logging"
	"bookshop/internal/metrics"
)

const jobTimeout = 2 * time.Minute

// TokenCleaner deletes refresh tokens that expired before now or were revoked.
type TokenCleaner interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Reconciler recomputes a cached aggregate and reports the rows it touched.
type Reconciler interface {
	Reconcile(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron              *cron.Cron
	tokens            TokenCleaner
	ratings           Reconciler
	likes             Reconciler
	cleanupSchedule   string
	reconcileSchedule string
	log               zerolog.Logger
	now               func() time.Time
}

// New builds a scheduler using six-field cron expressions (seconds first).
func New(tokens TokenCleaner, ratings, likes Reconciler, cleanupSchedule, reconcileSchedule string) *Scheduler {
	return &Scheduler{
		cron:              cron.New(cron.WithSeconds()),
		tokens:            tokens,
		ratings:           ratings,
		likes:             likes,
		cleanupSchedule:   cleanupSchedule,
		reconcileSchedule: reconcileSchedule,
		log:               logging.With("scheduler"),
		now:               time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cleanupSchedule, s.runCleanup); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.reconcileSchedule, s.runReconcile); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().
		Str("cleanup", s.cleanupSchedule).
		Str("reconcile", s.reconcileSchedule).
		Msg("scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info().Msg("scheduler stopped")
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out with jobs still running")
	}
}

func (s *Scheduler) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	_, _ = s.CleanupTokens(ctx)
}

func (s *Scheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	_ = s.ReconcileAggregates(ctx)
}

// CleanupTokens deletes expired and revoked refresh tokens.
func (s *Scheduler) CleanupTokens(ctx context.Context) (int64, error) {
	n, err := s.tokens.DeleteExpired(ctx, s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("refresh token cleanup failed")
		return 0, err
	}
	metrics.ExpiredTokensDeleted.Add(float64(n))
	s.log.Debug().Int64("deleted", n).Msg("refresh tokens cleaned up")
	return n, nil
}

// ReconcileAggregates recomputes cached_rate and cached_like. Both run even
// when the first fails; the first error is returned.
func (s *Scheduler) ReconcileAggregates(ctx context.Context) error {
	var firstErr error
	for name, r := range map[string]Reconciler{"cached_rate": s.ratings, "cached_like": s.likes} {
		n, err := r.Reconcile(ctx)
		if err != nil {
			s.log.Error().Err(err).Str("aggregate", name).Msg("reconcile failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if n > 0 {
			s.log.Info().Str("aggregate", name).Int64("rows", n).Msg("reconciled drifted rows")
		}
	}
	return firstErr
}
