package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/tutordesk/internal/models"
)

func TestComputeBalance(t *testing.T) {
	e := models.Enrollment{ID: "e-1", PlannedLessons: 7, PricePerLesson: 220, TotalPaid: 1000}
	sessions := []models.Session{
		{EnrollmentID: "e-1", Status: models.SessionStatusAttended},
		{EnrollmentID: "e-1", Status: models.SessionStatusAttended},
		{EnrollmentID: "e-1", Status: models.SessionStatusPlanned},
		{EnrollmentID: "e-1", Status: models.SessionStatusMissed},
		{EnrollmentID: "e-1", Status: models.SessionStatusCanceled},
		{EnrollmentID: "e-2", Status: models.SessionStatusAttended},
	}

	assert.Equal(t, EnrollmentBalance{
		UsedLessons:      2,
		PlannedCount:     4,
		RemainingLessons: 5,
		TotalPrice:       1540,
		RemainingAmount:  1100,
		UnpaidAmount:     540,
	}, ComputeBalance(e, sessions))
}

func TestBalanceNeverNegative(t *testing.T) {
	e := models.Enrollment{ID: "e-1", PlannedLessons: 1, PricePerLesson: 100, TotalPaid: 500}
	sessions := []models.Session{
		{EnrollmentID: "e-1", Status: models.SessionStatusAttended},
		{EnrollmentID: "e-1", Status: models.SessionStatusAttended},
	}

	b := ComputeBalance(e, sessions)
	assert.Equal(t, 2, b.UsedLessons)
	assert.Zero(t, b.RemainingLessons)
	assert.Zero(t, b.RemainingAmount)
	assert.Zero(t, b.UnpaidAmount)
}

func TestBalanceEmptyEnrollment(t *testing.T) {
	assert.Equal(t, EnrollmentBalance{}, ComputeBalance(models.Enrollment{ID: "e-1"}, nil))
}
