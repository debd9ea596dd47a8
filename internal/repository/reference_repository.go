package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
)

// ReferenceRepository looks up the records used to label schedule output.
type ReferenceRepository struct {
	db      *sqlx.DB
	metrics QueryObserver
}

// NewReferenceRepository constructs a ReferenceRepository.
func NewReferenceRepository(db *sqlx.DB, metrics QueryObserver) *ReferenceRepository {
	return &ReferenceRepository{db: db, metrics: observerOrNop(metrics)}
}

// FindRoom returns the room by id.
func (r *ReferenceRepository) FindRoom(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := r.get(ctx, "rooms.find", &room, "SELECT id, branch_id, name, capacity FROM rooms WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &room, nil
}

// FindTeacher returns the teacher by id.
func (r *ReferenceRepository) FindTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.get(ctx, "teachers.find", &teacher, "SELECT id, full_name, nickname FROM teachers WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindSubject returns the subject by id.
func (r *ReferenceRepository) FindSubject(ctx context.Context, id string) (*models.Subject, error) {
	var subject models.Subject
	if err := r.get(ctx, "subjects.find", &subject, "SELECT id, code, name FROM subjects WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// FindStudent returns a student registered under the parent.
func (r *ReferenceRepository) FindStudent(ctx context.Context, parentID, studentID string) (*models.Student, error) {
	var student models.Student
	if err := r.get(ctx, "students.find", &student, "SELECT id, parent_id, full_name, nickname FROM students WHERE parent_id = $1 AND id = $2", parentID, studentID); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindBranch returns the branch by id.
func (r *ReferenceRepository) FindBranch(ctx context.Context, id string) (*models.Branch, error) {
	var branch models.Branch
	if err := r.get(ctx, "branches.find", &branch, "SELECT id, name FROM branches WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *ReferenceRepository) get(ctx context.Context, label string, dest interface{}, query string, args ...interface{}) error {
	defer track(r.metrics, label, time.Now())
	if err := r.db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return fmt.Errorf("%s: %w", label, err)
	}
	return nil
}
