package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/tutordesk/internal/models"
	appErrors "github.com/noah-isme/tutordesk/pkg/errors"
	"github.com/noah-isme/tutordesk/pkg/export"
	"github.com/noah-isme/tutordesk/pkg/timeutil"
)

var scheduleHeaders = []string{"date", "weekday", "time", "student", "enrollment", "status", "meeting_link", "notes"}

type snapshotSource interface {
	Snapshot() models.AppState
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportService renders session schedules as CSV or PDF files.
type ExportService struct {
	source  snapshotSource
	storage exportStorage
	loc     *time.Location
	now     func() time.Time
	newID   func() string
	logger  *zap.Logger
}

// NewExportService wires export dependencies.
func NewExportService(source snapshotSource, store exportStorage, loc *time.Location, logger *zap.Logger) *ExportService {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{source: source, storage: store, loc: loc, now: time.Now, newID: uuid.NewString, logger: logger}
}

// EnrollmentSchedule builds the dataset for one enrollment's sessions.
func (s *ExportService) EnrollmentSchedule(enrollmentID string) (export.Dataset, error) {
	state := s.source.Snapshot()
	e, ok := findByID(state.Enrollments, enrollmentID, func(x models.Enrollment) string { return x.ID })
	if !ok {
		return export.Dataset{}, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	sessions := sessionsWhere(state.Sessions, func(x models.Session) bool { return x.EnrollmentID == e.ID })
	return s.dataset(e.Title, sessions, state), nil
}

// StudentSchedule builds the dataset for every session of a student.
func (s *ExportService) StudentSchedule(studentID string) (export.Dataset, error) {
	state := s.source.Snapshot()
	st, ok := findByID(state.Students, studentID, func(x models.Student) string { return x.ID })
	if !ok {
		return export.Dataset{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	sessions := sessionsWhere(state.Sessions, func(x models.Session) bool { return x.StudentID == st.ID })
	return s.dataset(st.Name, sessions, state), nil
}

func (s *ExportService) dataset(title string, sessions []models.Session, state models.AppState) export.Dataset {
	sortSessionsByStart(sessions)
	rows := make([]map[string]string, 0, len(sessions))
	for _, ss := range sessions {
		start := ss.StartAt.In(s.loc)
		studentName := ""
		if st, ok := findByID(state.Students, ss.StudentID, func(x models.Student) string { return x.ID }); ok {
			studentName = st.Name
		}
		enrollmentTitle := ""
		if e, ok := findByID(state.Enrollments, ss.EnrollmentID, func(x models.Enrollment) string { return x.ID }); ok {
			enrollmentTitle = e.Title
		}
		rows = append(rows, map[string]string{
			"date":         start.Format("2006-01-02"),
			"weekday":      start.Weekday().String()[:3],
			"time":         timeutil.TimeRangeString(start.Format("15:04"), ss.DurationMinutes),
			"student":      studentName,
			"enrollment":   enrollmentTitle,
			"status":       string(ss.Status),
			"meeting_link": ss.MeetingLink,
			"notes":        ss.Notes,
		})
	}
	return export.Dataset{Title: title, Headers: scheduleHeaders, Rows: rows}
}

// Write renders dataset in format and stores it under the exports directory,
// returning the stored filename. Names carry the timestamp and a random suffix.
func (s *ExportService) Write(ctx context.Context, dataset export.Dataset, format string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	renderer, err := export.ForFormat(format)
	if err != nil {
		return "", err
	}
	data, err := renderer.Render(dataset)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, "render schedule export")
	}
	filename := fmt.Sprintf("schedule-%s-%s.%s", s.now().In(s.loc).Format("20060102-150405"), shortID(s.newID()), renderer.Extension())
	stored, err := s.storage.Save(filename, data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, "store schedule export")
	}
	s.logger.Info("schedule exported", zap.String("file", stored), zap.Int("rows", len(dataset.Rows)))
	return stored, nil
}

// shortID keeps filenames readable; eight hex digits are enough to tell
// exports from the same second apart.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// PruneOlderThan deletes exports older than ttl.
func (s *ExportService) PruneOlderThan(ttl time.Duration) ([]string, error) {
	return s.storage.CleanupOlderThan(ttl)
}
