package service

import (
	"context"
	"errors"
	"path"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/scheduling"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
)

var errDown = errors.New("connection refused")

func day(raw string) time.Time {
	d, err := scheduling.ParseDate(raw, time.UTC)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

func python101() models.RecurringClass {
	return models.RecurringClass{
		ID:        "c-python",
		BranchID:  "B",
		RoomID:    "R101",
		TeacherID: "T1",
		SubjectID: "S-py",
		Name:      "Python101",
		StartDate: day("2024-06-01"),
		EndDate:   day("2024-08-31"),
		Weekdays:  pq.Int64Array{int64(time.Tuesday)},
		StartTime: "10:00",
		EndTime:   "11:30",
		Status:    models.ClassStatusPublished,
	}
}

type fakeClasses struct {
	classes []models.RecurringClass
	err     error
}

func (f *fakeClasses) ListByBranch(ctx context.Context, branchID string) ([]models.RecurringClass, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.RecurringClass
	for _, c := range f.classes {
		if branchID == "" || c.BranchID == branchID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClasses) FindByID(ctx context.Context, id string) (*models.RecurringClass, error) {
	for _, c := range f.classes {
		if c.ID == id {
			class := c
			return &class, nil
		}
	}
	return nil, nil
}

type fakeOccurrences struct {
	occurrences []models.ClassOccurrence
	err         error
}

func (f *fakeOccurrences) ListByClassesAndDate(ctx context.Context, classIDs []string, date time.Time) ([]models.ClassOccurrence, error) {
	if f.err != nil {
		return nil, f.err
	}
	wanted := map[string]bool{}
	for _, id := range classIDs {
		wanted[id] = true
	}
	var out []models.ClassOccurrence
	for _, o := range f.occurrences {
		if wanted[o.ClassID] && scheduling.SameDay(o.SessionDate, date) {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeMakeups struct {
	sessions []models.MakeupSession
	err      error
}

func (f *fakeMakeups) ListScheduled(ctx context.Context, branchID string, date time.Time) ([]models.MakeupSession, error) {
	return f.sessions, f.err
}

type fakeTrials struct {
	trials []models.TrialSession
	err    error
}

func (f *fakeTrials) ListScheduled(ctx context.Context, branchID string, date time.Time) ([]models.TrialSession, error) {
	return f.trials, f.err
}

type fakeHolidays struct {
	holidays []models.Holiday
	err      error
}

func (f *fakeHolidays) ListByRange(ctx context.Context, branchID string, from, to time.Time) ([]models.Holiday, error) {
	return f.holidays, f.err
}

type fakeRefs struct {
	mu      sync.Mutex
	rooms   map[string]string
	calls   map[string]int
	failAll bool
}

func newFakeRefs() *fakeRefs {
	return &fakeRefs{
		rooms: map[string]string{"R101": "Room 101", "R": "Room R"},
		calls: map[string]int{},
	}
}

func (f *fakeRefs) hit(kind string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[kind]++
	if f.failAll {
		return errDown
	}
	return nil
}

func (f *fakeRefs) FindRoom(ctx context.Context, id string) (*models.Room, error) {
	if err := f.hit("room"); err != nil {
		return nil, err
	}
	name, ok := f.rooms[id]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return &models.Room{ID: id, Name: name}, nil
}

func (f *fakeRefs) FindTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	if err := f.hit("teacher"); err != nil {
		return nil, err
	}
	if id == "T1" {
		return &models.Teacher{ID: id, FullName: "Somchai Jaidee", Nickname: strPtr("Kru Chai")}, nil
	}
	return nil, appErrors.ErrNotFound
}

func (f *fakeRefs) FindSubject(ctx context.Context, id string) (*models.Subject, error) {
	if err := f.hit("subject"); err != nil {
		return nil, err
	}
	if id == "S-py" {
		return &models.Subject{ID: id, Code: "PY", Name: "Python"}, nil
	}
	return nil, appErrors.ErrNotFound
}

func (f *fakeRefs) FindStudent(ctx context.Context, parentID, studentID string) (*models.Student, error) {
	if err := f.hit("student"); err != nil {
		return nil, err
	}
	if parentID == "p1" && studentID == "s1" {
		return &models.Student{ID: studentID, ParentID: parentID, FullName: "Napat Sukjai", Nickname: strPtr("Nong Pat")}, nil
	}
	return nil, appErrors.ErrNotFound
}

func (f *fakeRefs) FindBranch(ctx context.Context, id string) (*models.Branch, error) {
	if err := f.hit("branch"); err != nil {
		return nil, err
	}
	return &models.Branch{ID: id, Name: "Siam Branch"}, nil
}

// memoryCache is an in-memory CacheRepository with glob deletes.
type memoryCache struct {
	mu     sync.Mutex
	values map[string]interface{}
	err    error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]interface{}{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	v, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	agenda, ok := v.(*models.DayAgenda)
	if !ok {
		return errors.New("unexpected cached type")
	}
	*(dest.(*models.DayAgenda)) = *agenda
	return nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	removed := 0
	for key := range m.values {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.values, key)
			removed++
		}
	}
	return removed, nil
}

func (m *memoryCache) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.values))
	for key := range m.values {
		out = append(out, key)
	}
	return out
}

// fixture wires the engine over fakes seeded with Python101.
type fixture struct {
	classes     *fakeClasses
	occurrences *fakeOccurrences
	makeups     *fakeMakeups
	trials      *fakeTrials
	holidays    *fakeHolidays
	refs        *fakeRefs
}

func newFixture() *fixture {
	return &fixture{
		classes: &fakeClasses{classes: []models.RecurringClass{python101()}},
		occurrences: &fakeOccurrences{occurrences: []models.ClassOccurrence{
			{ID: "o1", ClassID: "c-python", SessionNumber: 1, SessionDate: day("2024-06-04"), Status: models.OccurrenceScheduled},
			{ID: "o2", ClassID: "c-python", SessionNumber: 2, SessionDate: day("2024-06-11"), Status: models.OccurrenceCancelled},
		}},
		makeups:  &fakeMakeups{},
		trials:   &fakeTrials{},
		holidays: &fakeHolidays{},
		refs:     newFakeRefs(),
	}
}

func (f *fixture) sources() ScheduleSources {
	return ScheduleSources{
		Classes:     f.classes,
		Occurrences: f.occurrences,
		Makeups:     f.makeups,
		Trials:      f.trials,
		Holidays:    NewHolidayService(f.holidays, nil),
	}
}

func (f *fixture) labels() *LabelResolver {
	return NewLabelResolver(f.refs, f.classes, nil)
}
