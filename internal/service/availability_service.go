package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/tutoring-schedule-api/internal/dto"
	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/scheduling"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
)

const tracerName = "github.com/noah-isme/tutoring-schedule-api/internal/service"

// UnavailableMessage is reported when bookings could not be verified.
const UnavailableMessage = "could not verify availability, please try again"

// AvailabilityQuery is a validated availability request.
type AvailabilityQuery struct {
	Date      time.Time
	Window    scheduling.Window
	BranchID  string
	RoomID    string
	TeacherID string
	Exclude   models.Exclusion
}

// AvailabilityService decides whether a room and teacher can take a booking.
type AvailabilityService struct {
	sources   ScheduleSources
	labels    *LabelResolver
	metrics   *MetricsService
	validator *validator.Validate
	location  *time.Location
	timeout   time.Duration
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewAvailabilityService builds an AvailabilityService. Dates are interpreted in loc.
func NewAvailabilityService(
	sources ScheduleSources,
	labels *LabelResolver,
	metrics *MetricsService,
	validate *validator.Validate,
	loc *time.Location,
	timeout time.Duration,
	logger *zap.Logger,
) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return scheduling.ValidClock(fl.Field().String())
	}); err != nil {
		logger.Error("failed to register hhmm validation", zap.Error(err))
	}
	return &AvailabilityService{
		sources:   sources,
		labels:    labels,
		metrics:   metrics,
		validator: validate,
		location:  loc,
		timeout:   timeout,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
}

// Parse validates a request into a query.
func (s *AvailabilityService) Parse(req dto.AvailabilityRequest) (AvailabilityQuery, error) {
	if err := s.validator.Struct(req); err != nil {
		return AvailabilityQuery{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability request")
	}
	if !scheduling.ValidWindow(req.StartTime, req.EndTime) {
		return AvailabilityQuery{}, appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}
	date, err := scheduling.ParseDate(req.Date, s.location)
	if err != nil {
		return AvailabilityQuery{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	return AvailabilityQuery{
		Date:      date,
		Window:    scheduling.Window{Start: req.StartTime, End: req.EndTime},
		BranchID:  req.BranchID,
		RoomID:    req.RoomID,
		TeacherID: req.TeacherID,
		Exclude:   models.Exclusion{ClassID: req.ExcludeClassID, MakeupID: req.ExcludeMakeupID},
	}, nil
}

// RoomConflicts lists the bookings that overlap the window in the requested room.
func (s *AvailabilityService) RoomConflicts(ctx context.Context, req dto.AvailabilityRequest) ([]models.Conflict, error) {
	return s.conflicts(ctx, req, func(q AvailabilityQuery) scheduling.Target { return scheduling.RoomTarget(q.RoomID) })
}

// TeacherConflicts lists the bookings that overlap the window for the requested teacher.
func (s *AvailabilityService) TeacherConflicts(ctx context.Context, req dto.AvailabilityRequest) ([]models.Conflict, error) {
	return s.conflicts(ctx, req, func(q AvailabilityQuery) scheduling.Target { return scheduling.TeacherTarget(q.TeacherID) })
}

func (s *AvailabilityService) conflicts(ctx context.Context, req dto.AvailabilityRequest, target func(AvailabilityQuery) scheduling.Target) ([]models.Conflict, error) {
	q, err := s.Parse(req)
	if err != nil {
		return nil, err
	}
	t := target(q)
	if t.ID == "" {
		return nil, nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		day     materializedDay
		makeups []models.MakeupSession
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		day, err = s.sources.materialize(gctx, q.BranchID, q.Date)
		return err
	})
	g.Go(func() (err error) {
		makeups, err = s.sources.Makeups.ListScheduled(gctx, q.BranchID, q.Date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, appErrors.ErrUnavailable.Message)
	}
	return scheduling.DetectConflicts(s.bookingSources(ctx, q, day, makeups), t, q.Window), nil
}

// Check evaluates holiday, room and teacher constraints in that order. A
// failing data source yields an unavailable verdict, not an error; only
// invalid requests return an error.
func (s *AvailabilityService) Check(ctx context.Context, req dto.AvailabilityRequest) (*models.AvailabilityResult, error) {
	q, err := s.Parse(req)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "availability.check", trace.WithAttributes(
		attribute.String("branch.id", q.BranchID),
		attribute.String("schedule.date", q.Date.Format(scheduling.DateLayout)),
		attribute.String("schedule.window", q.Window.String()),
	))
	defer span.End()

	result, err := s.evaluate(ctx, q)
	if err != nil {
		s.logger.Error("availability check failed",
			zap.String("branch_id", q.BranchID),
			zap.String("date", q.Date.Format(scheduling.DateLayout)),
			zap.String("window", q.Window.String()),
			zap.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "data source unavailable")
		result = &models.AvailabilityResult{
			Available: false,
			Issues:    []models.Issue{{Kind: models.IssueUnavailable, Message: UnavailableMessage}},
		}
	}

	span.SetAttributes(attribute.Bool("availability.available", result.Available), attribute.Int("availability.issues", len(result.Issues)))
	s.metrics.RecordAvailabilityCheck(result)
	return result, nil
}

// IsAvailable reports the verdict of Check, treating invalid requests as unavailable.
func (s *AvailabilityService) IsAvailable(ctx context.Context, req dto.AvailabilityRequest) bool {
	result, err := s.Check(ctx, req)
	return err == nil && result.Available
}

func (s *AvailabilityService) evaluate(ctx context.Context, q AvailabilityQuery) (*models.AvailabilityResult, error) {
	var (
		holiday     bool
		holidayName string
		day         materializedDay
		makeups     []models.MakeupSession
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		holiday, holidayName, err = s.sources.Holidays.Describe(gctx, q.Date, q.BranchID)
		return err
	})
	g.Go(func() (err error) {
		day, err = s.sources.materialize(gctx, q.BranchID, q.Date)
		return err
	})
	g.Go(func() (err error) {
		makeups, err = s.sources.Makeups.ListScheduled(gctx, q.BranchID, q.Date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	issues := make([]models.Issue, 0)
	if holiday {
		issues = append(issues, models.Issue{Kind: models.IssueHoliday, Message: fmt.Sprintf("holiday: %s", holidayName)})
	}

	sources := s.bookingSources(ctx, q, day, makeups)
	if q.RoomID != "" {
		for _, c := range scheduling.DetectConflicts(sources, scheduling.RoomTarget(q.RoomID), q.Window) {
			conflict := c
			issues = append(issues, models.Issue{Kind: models.IssueRoomConflict, Message: "room busy: " + c.Message, Conflict: &conflict})
		}
	}
	if q.TeacherID != "" {
		for _, c := range scheduling.DetectConflicts(sources, scheduling.TeacherTarget(q.TeacherID), q.Window) {
			conflict := c
			issues = append(issues, models.Issue{Kind: models.IssueTeacherConflict, Message: "teacher busy: " + c.Message, Conflict: &conflict})
		}
	}
	return &models.AvailabilityResult{Available: len(issues) == 0, Issues: issues}, nil
}

func (s *AvailabilityService) bookingSources(ctx context.Context, q AvailabilityQuery, day materializedDay, makeups []models.MakeupSession) []scheduling.ConflictSource {
	labels := s.labels.Session()
	studentName := func(m models.MakeupSession) string {
		return labels.Student(ctx, m.ParentID, m.StudentID)
	}
	return scheduling.BookingSources(
		scheduling.ClassSource{Live: day.live(), Exclude: q.Exclude},
		scheduling.MakeupSource{
			Sessions:    makeups,
			Date:        q.Date,
			BranchID:    q.BranchID,
			Exclude:     q.Exclude,
			StudentName: studentName,
		},
	)
}

func (s *AvailabilityService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
