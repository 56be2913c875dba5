package service

import (
	"time"

	"github.com/noah-isme/tutordesk/internal/models"
	"github.com/noah-isme/tutordesk/pkg/timeutil"
)

const seedTeacherBio = `Hello! This is your teacher profile.

• 5+ years teaching experience
• Math + Programming (OI / NOIP / GESP)
• Online sessions + personalized plans

Edit this section like a personal blog.`

// SeedDefaultState builds the document used on first launch: one teacher, the
// 2026 holiday calendar, two term templates and a demo student with a winter
// enrollment.
func SeedDefaultState(loc *time.Location, newID func() string) models.AppState {
	date := func(m time.Month, d int) time.Time { return timeutil.MakeDate(2026, m, d, loc) }
	holiday := func(name string, sm time.Month, sd int, em time.Month, ed int) models.HolidayRange {
		return models.HolidayRange{ID: newID(), Name: name, Start: date(sm, sd), End: date(em, ed)}
	}
	window := func(name string, sm time.Month, sd int, em time.Month, ed int) models.DateWindow {
		return models.DateWindow{ID: newID(), Name: name, Start: date(sm, sd), End: date(em, ed)}
	}

	teacher := models.Teacher{
		ID:          newID(),
		DisplayName: "Shuxin Cao",
		Headline:    "TutorDesk · Lead Instructor",
		Bio:         seedTeacherBio,
	}

	settings := models.DefaultSettings()
	settings.HolidayRanges = []models.HolidayRange{
		holiday("元旦", time.January, 1, time.January, 3),
		holiday("春节", time.February, 15, time.February, 23),
		holiday("清明节", time.April, 4, time.April, 6),
		holiday("劳动节", time.May, 1, time.May, 5),
		holiday("端午节", time.June, 19, time.June, 21),
		holiday("中秋节", time.September, 25, time.September, 27),
		holiday("国庆节", time.October, 1, time.October, 7),
	}

	winterWindows := []models.DateWindow{
		window("一期", time.January, 23, time.January, 29),
		window("二期", time.January, 31, time.February, 6),
		window("三期", time.February, 8, time.February, 14),
		window("四期", time.February, 22, time.February, 28),
	}

	winter := models.TermTemplate{
		ID:       newID(),
		Title:    "Winter Break 2026",
		Subtitle: "4 windows · choose your time slot",
		Windows:  winterWindows,
		TimeOptions: []string{
			"08:30–10:30",
			"10:40–12:40",
			"13:30–15:30",
			"15:50–17:50",
			"18:30–20:30",
		},
		SuggestedLessons:         7,
		SuggestedPricePerLesson:  220,
		SuggestedDurationMinutes: 120,
	}

	availability := func(day time.Weekday, ranges ...string) models.WeekdayAvailability {
		return models.WeekdayAvailability{ID: newID(), Weekday: int(day), TimeRanges: ranges, Note: "可灵活调整", Status: "暂时空闲"}
	}
	spring := models.TermTemplate{
		ID:       newID(),
		Title:    "Spring 2026",
		Subtitle: "weekly availability (start date TBD)",
		WeekdayAvailability: []models.WeekdayAvailability{
			availability(time.Monday, "18:30–20:30"),
			availability(time.Tuesday, "18:30–20:30"),
			availability(time.Wednesday, "18:30–20:30"),
			availability(time.Sunday, "08:30–10:30", "18:30–20:30"),
		},
		SuggestedLessons:         17,
		SuggestedPricePerLesson:  220,
		SuggestedDurationMinutes: 120,
	}

	student := models.Student{
		ID:        newID(),
		Name:      "Demo Student",
		Grade:     "G8",
		Notes:     "You can delete this.",
		TeacherID: teacher.ID,
	}

	enrollment := models.NewEnrollment(newID(), student.ID, teacher.ID)
	enrollment.Title = winter.Title
	enrollment.PlannedLessons = 7
	enrollment.Windows = append([]models.DateWindow(nil), winterWindows...)

	return models.AppState{
		Teachers:    []models.Teacher{teacher},
		Students:    []models.Student{student},
		Enrollments: []models.Enrollment{enrollment},
		Templates:   []models.TermTemplate{winter, spring},
		Settings:    settings,
	}
}
