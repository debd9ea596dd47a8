package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

// Times are rendered as zero-padded HH:MM so window comparisons stay lexical.
const recurringClassColumns = `id, branch_id, room_id, teacher_id, subject_id, name, start_date, end_date, weekdays,
	to_char(start_time, 'HH24:MI') AS start_time, to_char(end_time, 'HH24:MI') AS end_time, status, capacity, enrolled`

// RecurringClassRepository reads recurring class definitions.
type RecurringClassRepository struct {
	db      *sqlx.DB
	metrics QueryObserver
}

// NewRecurringClassRepository constructs a RecurringClassRepository.
func NewRecurringClassRepository(db *sqlx.DB, metrics QueryObserver) *RecurringClassRepository {
	return &RecurringClassRepository{db: db, metrics: observerOrNop(metrics)}
}

// ListByBranch returns every class of the branch, or of all branches when branchID is empty.
func (r *RecurringClassRepository) ListByBranch(ctx context.Context, branchID string) ([]models.RecurringClass, error) {
	defer track(r.metrics, "recurring_classes.list", time.Now())

	query := fmt.Sprintf("SELECT %s FROM recurring_classes", recurringClassColumns)
	var args []interface{}
	if branchID != "" {
		query += " WHERE branch_id = $1"
		args = append(args, branchID)
	}
	query += " ORDER BY start_time, id"

	var classes []models.RecurringClass
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list recurring classes: %w", err)
	}
	return classes, nil
}

// FindByID returns the class or nil when it does not exist.
func (r *RecurringClassRepository) FindByID(ctx context.Context, id string) (*models.RecurringClass, error) {
	defer track(r.metrics, "recurring_classes.find", time.Now())

	query := fmt.Sprintf("SELECT %s FROM recurring_classes WHERE id = $1", recurringClassColumns)
	var class models.RecurringClass
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recurring class: %w", err)
	}
	return &class, nil
}
