package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/scheduling"
)

type holidayLister interface {
	ListByRange(ctx context.Context, branchID string, from, to time.Time) ([]models.Holiday, error)
}

// HolidayService answers whether a branch is closed on a date.
type HolidayService struct {
	repo   holidayLister
	logger *zap.Logger
}

// NewHolidayService constructs a HolidayService.
func NewHolidayService(repo holidayLister, logger *zap.Logger) *HolidayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HolidayService{repo: repo, logger: logger}
}

// IsHoliday reports whether the branch is closed on date.
func (s *HolidayService) IsHoliday(ctx context.Context, date time.Time, branchID string) (bool, error) {
	closed, _, err := s.Describe(ctx, date, branchID)
	return closed, err
}

// Describe reports whether the branch is closed on date and the holiday name shown for it.
func (s *HolidayService) Describe(ctx context.Context, date time.Time, branchID string) (bool, string, error) {
	holidays, err := s.repo.ListByRange(ctx, branchID, date, date)
	if err != nil {
		return false, "", err
	}
	holiday, ok := scheduling.MatchHoliday(holidays, date, branchID)
	if !ok {
		return false, "", nil
	}
	s.logger.Debug("holiday matched", zap.String("branch_id", branchID), zap.String("holiday", holiday.Name))
	return true, holiday.Name, nil
}
