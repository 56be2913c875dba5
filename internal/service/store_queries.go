package service

import (
	"sort"
	"time"

	"github.com/noah-isme/tutordesk/internal/models"
	"github.com/noah-isme/tutordesk/pkg/timeutil"
)

// Teacher looks up a teacher by ID.
func (s *Store) Teacher(id string) (models.Teacher, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.state.Teachers, id, func(x models.Teacher) string { return x.ID })
}

// Student looks up a student by ID.
func (s *Store) Student(id string) (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.state.Students, id, func(x models.Student) string { return x.ID })
}

// Enrollment looks up an enrollment by ID.
func (s *Store) Enrollment(id string) (models.Enrollment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := findByID(s.state.Enrollments, id, func(x models.Enrollment) string { return x.ID })
	return e.Clone(), ok
}

// Session looks up a session by ID.
func (s *Store) Session(id string) (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.state.Sessions, id, func(x models.Session) string { return x.ID })
}

// Template looks up a term template by ID.
func (s *Store) Template(id string) (models.TermTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := findByID(s.state.Templates, id, func(x models.TermTemplate) string { return x.ID })
	return t.Clone(), ok
}

// Settings returns the current settings.
func (s *Store) Settings() models.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings := s.state.Settings
	settings.HolidayRanges = append([]models.HolidayRange(nil), settings.HolidayRanges...)
	return settings
}

// OrderedEnrollments returns enrollments in display order (title, then ID).
func (s *Store) OrderedEnrollments() []models.Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return orderEnrollments(s.state.Enrollments)
}

// SessionsForStudent returns the student's sessions sorted by start time.
func (s *Store) SessionsForStudent(studentID string) []models.Session {
	return s.sortedSessions(func(x models.Session) bool { return x.StudentID == studentID })
}

// SessionsForEnrollment returns the enrollment's sessions sorted by start time.
func (s *Store) SessionsForEnrollment(enrollmentID string) []models.Session {
	return s.sortedSessions(func(x models.Session) bool { return x.EnrollmentID == enrollmentID })
}

// SessionsOn returns sessions starting on the calendar day of day, sorted by start time.
func (s *Store) SessionsOn(day time.Time) []models.Session {
	d0 := timeutil.StartOfDay(day, s.loc)
	d1 := timeutil.AddDays(d0, 1)
	return s.sortedSessions(func(x models.Session) bool {
		return !x.StartAt.Before(d0) && x.StartAt.Before(d1)
	})
}

func (s *Store) sortedSessions(keep func(models.Session) bool) []models.Session {
	s.mu.RLock()
	out := sessionsWhere(s.state.Sessions, keep)
	s.mu.RUnlock()
	sortSessionsByStart(out)
	return out
}

// Balance computes the derived metrics for an enrollment.
func (s *Store) Balance(enrollmentID string) (EnrollmentBalance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := findByID(s.state.Enrollments, enrollmentID, func(x models.Enrollment) string { return x.ID })
	if !ok {
		return EnrollmentBalance{}, false
	}
	return ComputeBalance(e, s.state.Sessions), true
}

// IsHolidayBlocked reports whether day falls in a configured holiday range.
func (s *Store) IsHolidayBlocked(day time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return HolidayBlocked(day, s.state.Settings.HolidayRanges, s.loc)
}

// Location is the timezone the store schedules in.
func (s *Store) Location() *time.Location {
	return s.loc
}

func findByID[T any](list []T, target string, id func(T) string) (T, bool) {
	if idx := indexByID(list, target, id); idx >= 0 {
		return list[idx], true
	}
	var zero T
	return zero, false
}

func sortSessionsByStart(list []models.Session) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].StartAt.Before(list[j].StartAt) })
}
