package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/scheduling"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
	"github.com/noah-isme/tutoring-schedule-api/pkg/jobs"
)

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) (int, error)
}

// InvalidationService drops cached agendas affected by a schedule change.
type InvalidationService struct {
	cache   cacheInvalidator
	metrics *MetricsService
	logger  *zap.Logger
}

// NewInvalidationService constructs an InvalidationService.
func NewInvalidationService(cache cacheInvalidator, metrics *MetricsService, logger *zap.Logger) *InvalidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvalidationService{cache: cache, metrics: metrics, logger: logger}
}

// Pattern returns the cache key glob covering the change.
func Pattern(change models.ScheduleChange) string {
	branch, date := change.BranchID, change.Date
	if branch == "" {
		branch = "*"
	}
	if date == "" {
		date = "*"
	}
	return fmt.Sprintf("agenda:%s:%s", branch, date)
}

// Handle invalidates the agendas the change touches.
func (s *InvalidationService) Handle(ctx context.Context, change models.ScheduleChange) error {
	if change.Date != "" {
		if _, err := scheduling.ParseDate(change.Date, nil); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change date")
		}
	}
	pattern := Pattern(change)
	removed, err := s.cache.Invalidate(ctx, pattern)
	s.metrics.RecordInvalidation(err)
	if err != nil {
		return fmt.Errorf("invalidate %s: %w", pattern, err)
	}
	s.logger.Info("agenda cache invalidated",
		zap.String("type", change.Type),
		zap.String("pattern", pattern),
		zap.Int("removed", removed),
	)
	return nil
}

// Process is the invalidation queue handler. Malformed changes are dropped
// instead of retried.
func (s *InvalidationService) Process(ctx context.Context, job jobs.Job[models.ScheduleChange]) error {
	err := s.Handle(ctx, job.Payload)
	if errors.Is(err, appErrors.ErrValidation) {
		s.logger.Warn("dropping malformed schedule change", zap.String("job_id", job.ID), zap.Error(err))
		return nil
	}
	return err
}
