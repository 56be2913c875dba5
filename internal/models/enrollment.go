package models

import "time"

// Enrollment defaults applied to freshly created packages.
const (
	DefaultEnrollmentTitle    = "Phase"
	DefaultPricePerLesson     = 220
	DefaultPlannedLessons     = 12
	DefaultDurationMinutes    = 120
	DefaultStartTime          = "18:30"
	DefaultNewStudentName     = "New Student"
	DefaultTeacherDisplayName = "Primary Teacher"
)

// Enrollment captures a purchased package of lessons and its scheduling rules.
//
// When Windows is non-empty, StartDate and EndDate are ignored for generation.
// Weekdays uses time.Weekday numbering (0=Sunday ... 6=Saturday); an empty set
// matches every day.
type Enrollment struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	TeacherID string `json:"teacher_id,omitempty"`

	Title          string `json:"title"`
	PricePerLesson int    `json:"price_per_lesson"`
	PlannedLessons int    `json:"planned_lessons"`
	TotalPaid      int    `json:"total_paid"`

	DurationMinutes int `json:"duration_minutes"`

	Windows          []DateWindow `json:"windows"`
	StartDate        *time.Time   `json:"start_date,omitempty"`
	EndDate          *time.Time   `json:"end_date,omitempty"`
	SelectedWindowID string       `json:"selected_window_id,omitempty"`

	Weekdays []time.Weekday `json:"weekdays"`

	TimeHHmm string `json:"time_hhmm"`
	EndHHmm  string `json:"end_hhmm,omitempty"`

	MeetingLink  string `json:"meeting_link"`
	SkipHolidays bool   `json:"skip_holidays"`
}

// NewEnrollment returns an enrollment carrying the package defaults.
func NewEnrollment(id, studentID, teacherID string) Enrollment {
	return Enrollment{
		ID:              id,
		StudentID:       studentID,
		TeacherID:       teacherID,
		Title:           DefaultEnrollmentTitle,
		PricePerLesson:  DefaultPricePerLesson,
		PlannedLessons:  DefaultPlannedLessons,
		DurationMinutes: DefaultDurationMinutes,
		TimeHHmm:        DefaultStartTime,
		SkipHolidays:    true,
	}
}

// SelectedWindow resolves SelectedWindowID against Windows.
func (e Enrollment) SelectedWindow() (DateWindow, bool) {
	if e.SelectedWindowID == "" {
		return DateWindow{}, false
	}
	for _, w := range e.Windows {
		if w.ID == e.SelectedWindowID {
			return w, true
		}
	}
	return DateWindow{}, false
}

// AllowsWeekday reports whether day falls on one of the enrollment's weekdays.
func (e Enrollment) AllowsWeekday(day time.Weekday) bool {
	if len(e.Weekdays) == 0 {
		return true
	}
	for _, wd := range e.Weekdays {
		if wd == day {
			return true
		}
	}
	return false
}
