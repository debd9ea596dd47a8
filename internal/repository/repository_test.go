package repository

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
)

type recordingObserver struct {
	mu     sync.Mutex
	labels []string
}

func (o *recordingObserver) ObserveDBQuery(label string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.labels = append(o.labels, label)
}

func newScheduleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var june4 = time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)

func TestRecurringClassRepositoryListByBranch(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	observer := &recordingObserver{}
	repo := NewRecurringClassRepository(db, observer)

	columns := []string{"id", "branch_id", "room_id", "teacher_id", "subject_id", "name", "start_date", "end_date", "weekdays", "start_time", "end_time", "status", "capacity", "enrolled"}
	rows := sqlmock.NewRows(columns).
		AddRow("c1", "B", "R101", "T1", "S1", "Python101", june4, june4.AddDate(0, 3, 0), "{2}", "10:00", "11:30", "published", 8, 5)
	mock.ExpectQuery(`FROM recurring_classes WHERE branch_id = \$1 ORDER BY start_time, id`).
		WithArgs("B").
		WillReturnRows(rows)

	classes, err := repo.ListByBranch(context.Background(), "B")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Python101", classes[0].Name)
	assert.Equal(t, pq.Int64Array{2}, classes[0].Weekdays)
	assert.True(t, classes[0].MeetsOn(time.Tuesday))
	assert.Equal(t, []string{"recurring_classes.list"}, observer.labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurringClassRepositoryListAllBranches(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewRecurringClassRepository(db, nil)

	mock.ExpectQuery(`FROM recurring_classes ORDER BY start_time, id`).
		WithArgs().
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	classes, err := repo.ListByBranch(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, classes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurringClassRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewRecurringClassRepository(db, nil)

	mock.ExpectQuery(`FROM recurring_classes WHERE id = \$1`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	class, err := repo.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, class)
}

func TestClassOccurrenceRepositoryListByClassesAndDate(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewClassOccurrenceRepository(db, nil)

	empty, err := repo.ListByClassesAndDate(context.Background(), nil, june4)
	require.NoError(t, err)
	assert.Nil(t, empty)

	columns := []string{"id", "class_id", "session_number", "session_date", "status", "rescheduled_from", "rescheduled_by", "rescheduled_at"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE class_id = ANY($1) AND session_date = $2")).
		WithArgs(pq.Array([]string{"c1", "c2"}), "2024-06-04").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("o1", "c1", 1, june4, "scheduled", nil, nil, nil).
			AddRow("o2", "c2", 1, june4, "cancelled", nil, nil, nil))

	list, err := repo.ListByClassesAndDate(context.Background(), []string{"c1", "c2"}, june4)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[1].Live())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMakeupSessionRepositoryListScheduled(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewMakeupSessionRepository(db, nil)

	columns := []string{"id", "original_class_id", "original_occurrence_id", "parent_id", "student_id", "status", "makeup_date", "start_time", "end_time", "teacher_id", "branch_id", "room_id"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 AND branch_id = $2 AND makeup_date = $3")).
		WithArgs(models.MakeupScheduled, "B", "2024-06-04").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("m1", "c1", "o1", "p1", "s1", "scheduled", june4, "09:00", "10:00", "T9", "B", "R"))

	sessions, err := repo.ListScheduled(context.Background(), "B", june4)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	start, end := sessions[0].Window()
	assert.Equal(t, "09:00", start)
	assert.Equal(t, "10:00", end)
	assert.Equal(t, "R", *sessions[0].RoomID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrialSessionRepositoryListScheduledError(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewTrialSessionRepository(db, nil)

	mock.ExpectQuery("FROM trial_sessions").
		WithArgs(models.TrialScheduled, "B", "2024-06-04").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ListScheduled(context.Background(), "B", june4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list scheduled trial sessions")
}

func TestTrialSessionRepositoryListScheduled(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewTrialSessionRepository(db, nil)

	columns := []string{"id", "student_name", "subject_id", "trial_date", "start_time", "end_time", "teacher_id", "branch_id", "room_id", "status", "attended"}
	mock.ExpectQuery("FROM trial_sessions").
		WithArgs(models.TrialScheduled, "B", "2024-06-04").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("t1", "A", "S1", june4, "14:00", "15:00", "T3", "B", "R101", "scheduled", nil))

	trials, err := repo.ListScheduled(context.Background(), "B", june4)
	require.NoError(t, err)
	require.Len(t, trials, 1)
	assert.Nil(t, trials[0].Attended)
}

func TestHolidayRepositoryListByRange(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewHolidayRepository(db, nil)

	christmas := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE holiday_date BETWEEN $1 AND $2")).
		WithArgs("2024-12-25", "2024-12-25", "B").
		WillReturnRows(sqlmock.NewRows([]string{"id", "holiday_date", "scope", "branch_ids", "name"}).
			AddRow("h1", christmas, "national", "{}", "Christmas"))

	holidays, err := repo.ListByRange(context.Background(), "B", christmas, christmas)
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.True(t, holidays[0].AppliesTo("B"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceRepositoryLookups(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	observer := &recordingObserver{}
	repo := NewReferenceRepository(db, observer)

	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms WHERE id = $1")).
		WithArgs("R101").
		WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id", "name", "capacity"}).AddRow("R101", "B", "Room 101", 10))
	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers WHERE id = $1")).
		WithArgs("T1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "nickname"}).AddRow("T1", "Somchai Jaidee", "Kru Chai"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE parent_id = $1 AND id = $2")).
		WithArgs("p1", "s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent_id", "full_name", "nickname"}))

	room, err := repo.FindRoom(context.Background(), "R101")
	require.NoError(t, err)
	assert.Equal(t, "Room 101", room.Name)

	teacher, err := repo.FindTeacher(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, "Kru Chai", teacher.DisplayName())

	_, err = repo.FindStudent(context.Background(), "p1", "s1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	assert.Equal(t, []string{"rooms.find", "teachers.find", "students.find"}, observer.labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	var dest map[string]string

	assert.ErrorIs(t, repo.Get(context.Background(), "k", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "k", "v", time.Minute))
	n, err := repo.DeleteByPattern(context.Background(), "agenda:*")
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, repo.Ping(context.Background()))
}
