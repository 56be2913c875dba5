package models

import "time"

// SessionStatus represents the lifecycle of a single lesson.
type SessionStatus string

// Possible session statuses.
const (
	SessionStatusPlanned  SessionStatus = "planned"
	SessionStatusAttended SessionStatus = "attended"
	SessionStatusMissed   SessionStatus = "missed"
	SessionStatusCanceled SessionStatus = "canceled"
)

// Session is one concrete, dated lesson instance.
type Session struct {
	ID              string        `json:"id"`
	StudentID       string        `json:"student_id"`
	TeacherID       string        `json:"teacher_id,omitempty"`
	EnrollmentID    string        `json:"enrollment_id,omitempty"`
	StartAt         time.Time     `json:"start_at"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          SessionStatus `json:"status"`
	MeetingLink     string        `json:"meeting_link"`
	Notes           string        `json:"notes"`
}

// EndAt returns the instant the session finishes.
func (s Session) EndAt() time.Time {
	return s.StartAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}
