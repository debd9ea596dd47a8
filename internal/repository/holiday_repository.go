package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

// HolidayRepository reads the holiday calendar.
type HolidayRepository struct {
	db      *sqlx.DB
	metrics QueryObserver
}

// NewHolidayRepository constructs a HolidayRepository.
func NewHolidayRepository(db *sqlx.DB, metrics QueryObserver) *HolidayRepository {
	return &HolidayRepository{db: db, metrics: observerOrNop(metrics)}
}

// ListByRange returns holidays between from and to inclusive that close the branch.
// An empty branchID returns national holidays only.
func (r *HolidayRepository) ListByRange(ctx context.Context, branchID string, from, to time.Time) ([]models.Holiday, error) {
	defer track(r.metrics, "holidays.list_range", time.Now())

	const query = `SELECT id, holiday_date, scope, branch_ids, name
FROM holidays
WHERE holiday_date BETWEEN $1 AND $2
  AND (scope = 'national' OR $3 = ANY(branch_ids))
ORDER BY holiday_date, created_at, id`

	var holidays []models.Holiday
	if err := r.db.SelectContext(ctx, &holidays, query, dateParam(from), dateParam(to), branchID); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}
