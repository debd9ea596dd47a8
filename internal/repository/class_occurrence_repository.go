package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

const occurrenceColumns = "id, class_id, session_number, session_date, status, rescheduled_from, rescheduled_by, rescheduled_at"

// ClassOccurrenceRepository reads dated class sessions.
type ClassOccurrenceRepository struct {
	db      *sqlx.DB
	metrics QueryObserver
}

// NewClassOccurrenceRepository constructs a ClassOccurrenceRepository.
func NewClassOccurrenceRepository(db *sqlx.DB, metrics QueryObserver) *ClassOccurrenceRepository {
	return &ClassOccurrenceRepository{db: db, metrics: observerOrNop(metrics)}
}

// ListByClassesAndDate loads the occurrences of several classes on one day.
func (r *ClassOccurrenceRepository) ListByClassesAndDate(ctx context.Context, classIDs []string, date time.Time) ([]models.ClassOccurrence, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}
	defer track(r.metrics, "class_occurrences.list", time.Now())

	query := fmt.Sprintf("SELECT %s FROM class_occurrences WHERE class_id = ANY($1) AND session_date = $2 ORDER BY class_id, session_number", occurrenceColumns)
	var occurrences []models.ClassOccurrence
	if err := r.db.SelectContext(ctx, &occurrences, query, pq.Array(classIDs), dateParam(date)); err != nil {
		return nil, fmt.Errorf("list class occurrences: %w", err)
	}
	return occurrences, nil
}
