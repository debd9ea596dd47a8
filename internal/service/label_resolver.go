package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

// Placeholder labels shown when a referenced record cannot be resolved.
const (
	UnknownRoom    = "ไม่ระบุห้อง"
	UnknownTeacher = "ไม่ระบุครู"
	UnknownSubject = "ไม่ระบุวิชา"
	UnknownStudent = "ไม่ระบุนักเรียน"
	UnknownBranch  = "ไม่ระบุสาขา"
)

type referenceFinder interface {
	FindRoom(ctx context.Context, id string) (*models.Room, error)
	FindTeacher(ctx context.Context, id string) (*models.Teacher, error)
	FindSubject(ctx context.Context, id string) (*models.Subject, error)
	FindStudent(ctx context.Context, parentID, studentID string) (*models.Student, error)
	FindBranch(ctx context.Context, id string) (*models.Branch, error)
}

type classFinder interface {
	FindByID(ctx context.Context, id string) (*models.RecurringClass, error)
}

// LabelResolver turns record ids into display names. Lookup failures never
// surface as errors; they fall back to placeholder labels.
type LabelResolver struct {
	refs    referenceFinder
	classes classFinder
	logger  *zap.Logger
}

// NewLabelResolver constructs a LabelResolver.
func NewLabelResolver(refs referenceFinder, classes classFinder, logger *zap.Logger) *LabelResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LabelResolver{refs: refs, classes: classes, logger: logger}
}

// Labels memoises lookups for one request. It is not safe for concurrent use.
type Labels struct {
	resolver *LabelResolver
	names    map[string]string
}

// Session starts a memoised lookup scope. A nil resolver yields placeholders.
func (r *LabelResolver) Session() *Labels {
	return &Labels{resolver: r, names: map[string]string{}}
}

// Room returns the room name.
func (l *Labels) Room(ctx context.Context, id string) string {
	return l.lookup("room:"+id, id, UnknownRoom, func() (string, error) {
		room, err := l.resolver.refs.FindRoom(ctx, id)
		if err != nil {
			return "", err
		}
		return room.Name, nil
	})
}

// Teacher returns the teacher's timetable name.
func (l *Labels) Teacher(ctx context.Context, id string) string {
	return l.lookup("teacher:"+id, id, UnknownTeacher, func() (string, error) {
		teacher, err := l.resolver.refs.FindTeacher(ctx, id)
		if err != nil {
			return "", err
		}
		return teacher.DisplayName(), nil
	})
}

// Subject returns the subject name.
func (l *Labels) Subject(ctx context.Context, id string) string {
	return l.lookup("subject:"+id, id, UnknownSubject, func() (string, error) {
		subject, err := l.resolver.refs.FindSubject(ctx, id)
		if err != nil {
			return "", err
		}
		return subject.Name, nil
	})
}

// Student returns the student's display name.
func (l *Labels) Student(ctx context.Context, parentID, studentID string) string {
	return l.lookup("student:"+parentID+"/"+studentID, studentID, UnknownStudent, func() (string, error) {
		student, err := l.resolver.refs.FindStudent(ctx, parentID, studentID)
		if err != nil {
			return "", err
		}
		return student.DisplayName(), nil
	})
}

// Branch returns the branch name.
func (l *Labels) Branch(ctx context.Context, id string) string {
	return l.lookup("branch:"+id, id, UnknownBranch, func() (string, error) {
		branch, err := l.resolver.refs.FindBranch(ctx, id)
		if err != nil {
			return "", err
		}
		return branch.Name, nil
	})
}

// ClassSubject returns the subject name of a recurring class, using known when the class is already loaded.
func (l *Labels) ClassSubject(ctx context.Context, classID string, known map[string]models.RecurringClass) string {
	if class, ok := known[classID]; ok {
		return l.Subject(ctx, class.SubjectID)
	}
	if l.resolver == nil || l.resolver.classes == nil || classID == "" {
		return UnknownSubject
	}
	class, err := l.resolver.classes.FindByID(ctx, classID)
	if err != nil || class == nil {
		if err != nil {
			l.resolver.logger.Debug("class lookup failed", zap.String("class_id", classID), zap.Error(err))
		}
		return UnknownSubject
	}
	return l.Subject(ctx, class.SubjectID)
}

func (l *Labels) lookup(key, id, placeholder string, fetch func() (string, error)) string {
	if id == "" || l.resolver == nil || l.resolver.refs == nil {
		return placeholder
	}
	if name, ok := l.names[key]; ok {
		return name
	}
	name, err := fetch()
	if err != nil || name == "" {
		if err != nil {
			l.resolver.logger.Debug("label lookup failed", zap.String("key", key), zap.Error(err))
		}
		name = placeholder
	}
	l.names[key] = name
	return name
}
