package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/tutordesk/internal/models"
	"github.com/noah-isme/tutordesk/pkg/timeutil"
)

// GenerateRequest carries everything the generator reads. It is never mutated.
type GenerateRequest struct {
	Enrollment models.Enrollment
	// Existing holds the sessions already linked to the enrollment, in any status.
	Existing []models.Session
	Holidays []models.HolidayRange
	// StudentTeacherID and SelectedTeacherID are the teacher fallbacks used when
	// the enrollment has no teacher of its own.
	StudentTeacherID  string
	SelectedTeacherID string
}

// GenerateResult lists the materialized sessions. Exhausted is true when the
// configured ranges could not supply enough matching days.
type GenerateResult struct {
	Sessions  []models.Session
	Exhausted bool
}

type dayRange struct {
	start time.Time
	end   time.Time
}

// SessionGenerator expands enrollment scheduling rules into dated sessions.
type SessionGenerator struct {
	loc   *time.Location
	newID func() string
}

// NewSessionGenerator builds a generator operating in loc.
func NewSessionGenerator(loc *time.Location, newID func() string) *SessionGenerator {
	if loc == nil {
		loc = time.Local
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &SessionGenerator{loc: loc, newID: newID}
}

// Generate fills the enrollment's lesson quota. Canceled sessions still count
// toward the quota, so generation never re-fills canceled slots.
func (g *SessionGenerator) Generate(req GenerateRequest) GenerateResult {
	e := req.Enrollment
	already := len(req.Existing)
	if already >= e.PlannedLessons {
		return GenerateResult{}
	}
	need := e.PlannedLessons - already

	ranges, ok := g.candidateRanges(e)
	if !ok {
		return GenerateResult{Exhausted: true}
	}

	teacherID := e.TeacherID
	if teacherID == "" {
		teacherID = req.StudentTeacherID
	}
	if teacherID == "" {
		teacherID = req.SelectedTeacherID
	}

	var created []models.Session
	for _, r := range ranges {
		for day := r.start; !day.After(r.end) && need > 0; day = timeutil.AddDays(day, 1) {
			if !e.AllowsWeekday(day.Weekday()) {
				continue
			}
			if e.SkipHolidays && g.holidayBlocked(day, req.Holidays) {
				continue
			}
			created = append(created, models.Session{
				ID:              g.newID(),
				StudentID:       e.StudentID,
				TeacherID:       teacherID,
				EnrollmentID:    e.ID,
				StartAt:         timeutil.ComposeDateTime(day, e.TimeHHmm, g.loc),
				DurationMinutes: e.DurationMinutes,
				Status:          models.SessionStatusPlanned,
				MeetingLink:     e.MeetingLink,
			})
			need--
		}
		if need == 0 {
			break
		}
	}

	return GenerateResult{Sessions: created, Exhausted: need > 0}
}

// candidateRanges picks the selected window, else every window in stored
// order, else the explicit start/end dates.
func (g *SessionGenerator) candidateRanges(e models.Enrollment) ([]dayRange, bool) {
	if len(e.Windows) > 0 {
		if w, ok := e.SelectedWindow(); ok {
			return []dayRange{g.span(w.Start, w.End)}, true
		}
		ranges := make([]dayRange, 0, len(e.Windows))
		for _, w := range e.Windows {
			ranges = append(ranges, g.span(w.Start, w.End))
		}
		return ranges, true
	}
	if e.StartDate != nil && e.EndDate != nil {
		return []dayRange{g.span(*e.StartDate, *e.EndDate)}, true
	}
	return nil, false
}

func (g *SessionGenerator) span(start, end time.Time) dayRange {
	return dayRange{start: timeutil.StartOfDay(start, g.loc), end: timeutil.StartOfDay(end, g.loc)}
}

func (g *SessionGenerator) holidayBlocked(day time.Time, holidays []models.HolidayRange) bool {
	return HolidayBlocked(day, holidays, g.loc)
}

// HolidayBlocked reports whether day falls inside any inclusive holiday range.
func HolidayBlocked(day time.Time, holidays []models.HolidayRange, loc *time.Location) bool {
	for _, h := range holidays {
		if timeutil.WithinDays(day, h.Start, h.End, loc) {
			return true
		}
	}
	return false
}
