package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

// TrialSessionRepository reads trial lessons.
type TrialSessionRepository struct {
	db      *sqlx.DB
	metrics QueryObserver
}

// NewTrialSessionRepository constructs a TrialSessionRepository.
func NewTrialSessionRepository(db *sqlx.DB, metrics QueryObserver) *TrialSessionRepository {
	return &TrialSessionRepository{db: db, metrics: observerOrNop(metrics)}
}

// ListScheduled returns scheduled trial sessions at the branch on the day.
func (r *TrialSessionRepository) ListScheduled(ctx context.Context, branchID string, date time.Time) ([]models.TrialSession, error) {
	defer track(r.metrics, "trial_sessions.list_scheduled", time.Now())

	const query = `SELECT id, student_name, subject_id, trial_date,
	to_char(start_time, 'HH24:MI') AS start_time, to_char(end_time, 'HH24:MI') AS end_time,
	teacher_id, branch_id, room_id, status, attended
FROM trial_sessions
WHERE status = $1 AND branch_id = $2 AND trial_date = $3
ORDER BY start_time, created_at, id`

	var trials []models.TrialSession
	if err := r.db.SelectContext(ctx, &trials, query, models.TrialScheduled, branchID, dateParam(date)); err != nil {
		return nil, fmt.Errorf("list scheduled trial sessions: %w", err)
	}
	return trials, nil
}
