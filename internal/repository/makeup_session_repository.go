package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

// MakeupSessionRepository reads makeup sessions.
type MakeupSessionRepository struct {
	db      *sqlx.DB
	metrics QueryObserver
}

// NewMakeupSessionRepository constructs a MakeupSessionRepository.
func NewMakeupSessionRepository(db *sqlx.DB, metrics QueryObserver) *MakeupSessionRepository {
	return &MakeupSessionRepository{db: db, metrics: observerOrNop(metrics)}
}

// ListScheduled returns scheduled makeup sessions placed at the branch on the day.
func (r *MakeupSessionRepository) ListScheduled(ctx context.Context, branchID string, date time.Time) ([]models.MakeupSession, error) {
	defer track(r.metrics, "makeup_sessions.list_scheduled", time.Now())

	const query = `SELECT id, original_class_id, original_occurrence_id, parent_id, student_id, status, makeup_date,
	to_char(start_time, 'HH24:MI') AS start_time, to_char(end_time, 'HH24:MI') AS end_time, teacher_id, branch_id, room_id
FROM makeup_sessions
WHERE status = $1 AND branch_id = $2 AND makeup_date = $3
ORDER BY start_time, id`

	var sessions []models.MakeupSession
	if err := r.db.SelectContext(ctx, &sessions, query, models.MakeupScheduled, branchID, dateParam(date)); err != nil {
		return nil, fmt.Errorf("list scheduled makeup sessions: %w", err)
	}
	return sessions, nil
}
