package service

import "github.com/noah-isme/tutordesk/internal/models"

// EnrollmentBalance summarizes lesson usage and money owed for an enrollment.
type EnrollmentBalance struct {
	UsedLessons      int `json:"used_lessons"`
	PlannedCount     int `json:"planned_count"`
	RemainingLessons int `json:"remaining_lessons"`
	TotalPrice       int `json:"total_price"`
	RemainingAmount  int `json:"remaining_amount"`
	UnpaidAmount     int `json:"unpaid_amount"`
}

// ComputeBalance derives every metric from e and the sessions linked to it.
// Sessions belonging to other enrollments are ignored.
func ComputeBalance(e models.Enrollment, sessions []models.Session) EnrollmentBalance {
	used := UsedLessons(e.ID, sessions)
	remaining := RemainingLessons(e, used)
	return EnrollmentBalance{
		UsedLessons:      used,
		PlannedCount:     PlannedCount(e.ID, sessions),
		RemainingLessons: remaining,
		TotalPrice:       TotalPrice(e),
		RemainingAmount:  RemainingAmount(e, remaining),
		UnpaidAmount:     UnpaidAmount(e),
	}
}

// UsedLessons counts attended sessions of the enrollment.
func UsedLessons(enrollmentID string, sessions []models.Session) int {
	n := 0
	for _, ss := range sessions {
		if ss.EnrollmentID == enrollmentID && ss.Status == models.SessionStatusAttended {
			n++
		}
	}
	return n
}

// PlannedCount counts sessions of the enrollment that are not canceled.
func PlannedCount(enrollmentID string, sessions []models.Session) int {
	n := 0
	for _, ss := range sessions {
		if ss.EnrollmentID == enrollmentID && ss.Status != models.SessionStatusCanceled {
			n++
		}
	}
	return n
}

// RemainingLessons is the unused part of the package, never negative.
func RemainingLessons(e models.Enrollment, used int) int {
	return max(0, e.PlannedLessons-used)
}

// TotalPrice is the package price.
func TotalPrice(e models.Enrollment) int {
	return e.PlannedLessons * e.PricePerLesson
}

// RemainingAmount is the value of the lessons not yet used.
func RemainingAmount(e models.Enrollment, remaining int) int {
	return max(0, remaining*e.PricePerLesson)
}

// UnpaidAmount is the price not yet covered by payments.
func UnpaidAmount(e models.Enrollment) int {
	return max(0, TotalPrice(e)-e.TotalPaid)
}
