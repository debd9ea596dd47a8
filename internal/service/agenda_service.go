package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/scheduling"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
	"github.com/noah-isme/tutoring-schedule-api/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

var agendaExportHeaders = []string{"start", "end", "kind", "name", "room", "teacher", "subject", "students"}

// AgendaCacheKey is the cache key of a branch's agenda for one date.
func AgendaCacheKey(branchID string, date time.Time) string {
	return fmt.Sprintf("agenda:%s:%s", branchID, date.Format(scheduling.DateLayout))
}

// ExportFile is a rendered agenda download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// AgendaService builds a branch's descriptive day timeline.
type AgendaService struct {
	sources  ScheduleSources
	labels   *LabelResolver
	cache    *CacheService
	metrics  *MetricsService
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	location *time.Location
	cacheTTL time.Duration
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewAgendaService constructs an AgendaService.
func NewAgendaService(
	sources ScheduleSources,
	labels *LabelResolver,
	cache *CacheService,
	metrics *MetricsService,
	pdf *export.PDFExporter,
	loc *time.Location,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *AgendaService {
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgendaService{
		sources:  sources,
		labels:   labels,
		cache:    cache,
		metrics:  metrics,
		csv:      export.NewCSVExporter(),
		pdf:      pdf,
		location: loc,
		cacheTTL: cacheTTL,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

// ResolveDate parses a YYYY-MM-DD date in the school timezone; empty means today.
func (s *AgendaService) ResolveDate(raw string) (time.Time, error) {
	if raw == "" {
		return scheduling.StartOfDay(time.Now(), s.location), nil
	}
	date, err := scheduling.ParseDate(raw, s.location)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}
	return date, nil
}

// DayAgenda returns the agenda and whether it was served from cache.
func (s *AgendaService) DayAgenda(ctx context.Context, branchID string, date time.Time) (*models.DayAgenda, bool, error) {
	if branchID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "branch id is required")
	}
	key := AgendaCacheKey(branchID, date)

	var cached models.DayAgenda
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	ctx, span := s.tracer.Start(ctx, "agenda.build", trace.WithAttributes(
		attribute.String("branch.id", branchID),
		attribute.String("schedule.date", date.Format(scheduling.DateLayout)),
	))
	defer span.End()

	start := time.Now()
	agenda, err := s.build(ctx, branchID, date)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("failed to build agenda", zap.String("branch_id", branchID), zap.Time("date", date), zap.Error(err))
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build agenda")
	}
	s.metrics.ObserveAgendaBuild(time.Since(start))
	span.SetAttributes(attribute.Int("agenda.slots", len(agenda.BusySlots)))

	_ = s.cache.Set(ctx, key, agenda, s.cacheTTL)
	return agenda, false, nil
}

func (s *AgendaService) build(ctx context.Context, branchID string, date time.Time) (*models.DayAgenda, error) {
	var (
		holiday     bool
		holidayName string
		day         materializedDay
		makeups     []models.MakeupSession
		trials      []models.TrialSession
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		holiday, holidayName, err = s.sources.Holidays.Describe(gctx, date, branchID)
		return err
	})
	g.Go(func() (err error) {
		day, err = s.sources.materialize(gctx, branchID, date)
		return err
	})
	g.Go(func() (err error) {
		makeups, err = s.sources.Makeups.ListScheduled(gctx, branchID, date)
		return err
	})
	g.Go(func() (err error) {
		trials, err = s.sources.Trials.ListScheduled(gctx, branchID, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	labels := s.labels.Session()
	slots := make([]models.BusySlot, 0, len(day.materialized)+len(makeups)+len(trials))
	slots = append(slots, s.classSlots(ctx, labels, day)...)
	slots = append(slots, s.makeupSlots(ctx, labels, day, makeups, branchID, date)...)
	slots = append(slots, s.trialSlots(ctx, labels, trials)...)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].StartTime < slots[j].StartTime })

	return &models.DayAgenda{
		BranchID:    branchID,
		Date:        date,
		IsHoliday:   holiday,
		HolidayName: holidayName,
		BusySlots:   slots,
	}, nil
}

func (s *AgendaService) classSlots(ctx context.Context, labels *Labels, day materializedDay) []models.BusySlot {
	var slots []models.BusySlot
	for _, class := range day.live() {
		slots = append(slots, models.BusySlot{
			Kind:        models.SlotKindClass,
			SourceID:    class.ID,
			Name:        class.Name,
			StartTime:   class.StartTime,
			EndTime:     class.EndTime,
			RoomID:      class.RoomID,
			RoomName:    labels.Room(ctx, class.RoomID),
			TeacherID:   class.TeacherID,
			TeacherName: labels.Teacher(ctx, class.TeacherID),
			SubjectName: labels.Subject(ctx, class.SubjectID),
		})
	}
	return slots
}

func (s *AgendaService) makeupSlots(ctx context.Context, labels *Labels, day materializedDay, makeups []models.MakeupSession, branchID string, date time.Time) []models.BusySlot {
	known := day.byID()
	var slots []models.BusySlot
	for _, m := range makeups {
		if m.Status != models.MakeupScheduled || m.Date == nil || !scheduling.SameDay(*m.Date, date) {
			continue
		}
		if m.BranchID == nil || *m.BranchID != branchID {
			continue
		}
		start, end := m.Window()
		roomID, teacherID := lo.FromPtr(m.RoomID), lo.FromPtr(m.TeacherID)
		slots = append(slots, models.BusySlot{
			Kind:        models.SlotKindMakeup,
			SourceID:    m.ID,
			Name:        labels.Student(ctx, m.ParentID, m.StudentID),
			StartTime:   start,
			EndTime:     end,
			RoomID:      roomID,
			RoomName:    labels.Room(ctx, roomID),
			TeacherID:   teacherID,
			TeacherName: labels.Teacher(ctx, teacherID),
			SubjectName: labels.ClassSubject(ctx, m.OriginalClassID, known),
		})
	}
	return slots
}

func (s *AgendaService) trialSlots(ctx context.Context, labels *Labels, trials []models.TrialSession) []models.BusySlot {
	scheduled := lo.Filter(trials, func(t models.TrialSession, _ int) bool { return t.Status == models.TrialScheduled })
	groups := scheduling.GroupTrials(scheduled)

	slots := make([]models.BusySlot, 0, len(groups))
	for _, group := range groups {
		details := lo.Map(group.Trials, func(t models.TrialSession, _ int) models.TrialDetail {
			return models.TrialDetail{
				TrialID:     t.ID,
				StudentName: t.StudentName,
				SubjectName: labels.Subject(ctx, t.SubjectID),
				Status:      t.Status,
				Attended:    t.Attended,
			}
		})
		subjects := lo.Uniq(lo.Map(details, func(d models.TrialDetail, _ int) string { return d.SubjectName }))
		slots = append(slots, models.BusySlot{
			Kind:         models.SlotKindTrial,
			SourceID:     group.Trials[0].ID,
			Name:         strings.Join(group.StudentNames(), ", "),
			StartTime:    group.Key.StartTime,
			EndTime:      group.Key.EndTime,
			RoomID:       group.Key.RoomID,
			RoomName:     labels.Room(ctx, group.Key.RoomID),
			TeacherID:    group.Key.TeacherID,
			TeacherName:  labels.Teacher(ctx, group.Key.TeacherID),
			SubjectName:  strings.Join(subjects, ", "),
			TrialCount:   len(group.Trials),
			TrialDetails: details,
		})
	}
	return slots
}

// Export renders the agenda as a CSV or PDF download.
func (s *AgendaService) Export(ctx context.Context, branchID string, date time.Time, format string) (*ExportFile, error) {
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}
	agenda, _, err := s.DayAgenda(ctx, branchID, date)
	if err != nil {
		return nil, err
	}

	dataset := agendaDataset(agenda)
	day := date.Format(scheduling.DateLayout)
	filename := fmt.Sprintf("agenda-%s-%s.%s", branchID, day, format)

	var (
		body        []byte
		contentType string
	)
	switch format {
	case FormatPDF:
		title := fmt.Sprintf("%s %s", s.labels.Session().Branch(ctx, branchID), day)
		if agenda.IsHoliday {
			title += " (" + agenda.HolidayName + ")"
		}
		body, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		body, err = s.csv.Render(dataset)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render agenda export")
	}
	return &ExportFile{Filename: filename, ContentType: contentType, Body: body}, nil
}

func agendaDataset(agenda *models.DayAgenda) export.Dataset {
	rows := make([]map[string]string, 0, len(agenda.BusySlots))
	for _, slot := range agenda.BusySlots {
		students := ""
		if slot.Kind == models.SlotKindTrial {
			students = strconv.Itoa(slot.TrialCount)
		}
		rows = append(rows, map[string]string{
			"start":    slot.StartTime,
			"end":      slot.EndTime,
			"kind":     string(slot.Kind),
			"name":     slot.Name,
			"room":     slot.RoomName,
			"teacher":  slot.TeacherName,
			"subject":  slot.SubjectName,
			"students": students,
		})
	}
	return export.Dataset{Headers: agendaExportHeaders, Rows: rows}
}
