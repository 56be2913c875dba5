package service

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutordesk/internal/models"
	"github.com/noah-isme/tutordesk/pkg/timeutil"
)

// Template time options are turned into durations within these bounds.
const (
	minLessonMinutes  = 30
	maxLessonMinutes  = 300
	lessonMinuteStep  = 10
	quickSessionStart = "18:30"
)

// UpsertTeacher replaces the teacher with the same ID in place or appends it,
// and selects it.
func (s *Store) UpsertTeacher(t models.Teacher) {
	s.mutate("upsert_teacher", func() {
		upsertByID(&s.state.Teachers, t, func(x models.Teacher) string { return x.ID })
		s.selection.TeacherID = t.ID
	})
}

// UpsertStudent replaces or appends a student.
func (s *Store) UpsertStudent(st models.Student) {
	s.mutate("upsert_student", func() {
		upsertByID(&s.state.Students, st, func(x models.Student) string { return x.ID })
	})
}

// UpsertEnrollment replaces or appends an enrollment.
func (s *Store) UpsertEnrollment(e models.Enrollment) {
	s.mutate("upsert_enrollment", func() {
		upsertByID(&s.state.Enrollments, e.Clone(), func(x models.Enrollment) string { return x.ID })
	})
}

// UpsertSession replaces or appends a session.
func (s *Store) UpsertSession(ss models.Session) {
	s.mutate("upsert_session", func() {
		upsertByID(&s.state.Sessions, ss, func(x models.Session) string { return x.ID })
	})
}

// UpdateSettings replaces the settings block, including the holiday calendar.
func (s *Store) UpdateSettings(settings models.AppSettings) {
	s.mutate("update_settings", func() {
		settings.HolidayRanges = append([]models.HolidayRange(nil), settings.HolidayRanges...)
		s.state.Settings = settings
	})
}

// AddStudent creates a student bound to the selected teacher, selects it and
// switches to the students section.
func (s *Store) AddStudent(name string) models.Student {
	var st models.Student
	s.mutate("add_student", func() {
		st = models.Student{ID: s.newID(), Name: name, TeacherID: s.selection.TeacherID}
		s.state.Students = append(s.state.Students, st)
		s.selection.StudentID = st.ID
		s.selection.Section = models.SectionStudents
	})
	return st
}

// QuickAddStudent adds a placeholder student.
func (s *Store) QuickAddStudent() models.Student {
	return s.AddStudent(models.DefaultNewStudentName)
}

// AddEnrollment creates an enrollment for studentID, optionally seeded from a
// template, selects it with its student and switches to the booking section.
// It reports false when the student does not exist.
func (s *Store) AddEnrollment(studentID string, template *models.TermTemplate) (models.Enrollment, bool) {
	student, ok := s.Student(studentID)
	if !ok {
		return models.Enrollment{}, false
	}
	var e models.Enrollment
	s.mutate("add_enrollment", func() {
		teacherID := student.TeacherID
		if teacherID == "" {
			teacherID = s.selection.TeacherID
		}
		e = models.NewEnrollment(s.newID(), studentID, teacherID)
		if template != nil {
			applyTemplate(&e, *template, s.state.Settings.SkipHolidaysByDefault)
		}
		s.state.Enrollments = append(s.state.Enrollments, e)
		s.selection.StudentID = studentID
		s.selection.EnrollmentID = e.ID
		s.selection.Section = models.SectionBooking
	})
	return e, true
}

func applyTemplate(e *models.Enrollment, t models.TermTemplate, skipHolidays bool) {
	e.Title = t.Title
	e.PricePerLesson = t.SuggestedPricePerLesson
	e.PlannedLessons = t.SuggestedLessons
	e.DurationMinutes = t.SuggestedDurationMinutes
	e.Windows = append([]models.DateWindow(nil), t.Windows...)
	e.SkipHolidays = skipHolidays
	e.SelectedWindowID = ""

	if len(t.TimeOptions) == 0 {
		e.TimeHHmm = models.DefaultStartTime
		return
	}
	first := t.TimeOptions[0]
	if start, end, ok := timeutil.ParseTimeRangeOption(first); ok {
		e.TimeHHmm = start
		e.DurationMinutes = timeutil.DurationFromRange(start, end, minLessonMinutes, maxLessonMinutes, lessonMinuteStep)
		return
	}
	e.TimeHHmm = timeutil.NormalizeHHmm(first)
}

// AddSession creates a planned session on day at hhmm and selects it. The
// enrollment is attached only when it belongs to the student. The teacher
// comes from the enrollment, else the student, else the selection.
// It reports false when the student does not exist.
func (s *Store) AddSession(studentID, enrollmentID string, day time.Time, hhmm string, duration int) (models.Session, bool) {
	student, ok := s.Student(studentID)
	if !ok {
		return models.Session{}, false
	}
	var ss models.Session
	s.mutate("add_session", func() {
		ss = models.Session{
			ID:              s.newID(),
			StudentID:       studentID,
			StartAt:         timeutil.ComposeDateTime(day, hhmm, s.loc),
			DurationMinutes: duration,
			Status:          models.SessionStatusPlanned,
		}
		if eIdx := indexByID(s.state.Enrollments, enrollmentID, func(x models.Enrollment) string { return x.ID }); eIdx >= 0 && s.state.Enrollments[eIdx].StudentID == studentID {
			e := s.state.Enrollments[eIdx]
			ss.EnrollmentID = e.ID
			ss.TeacherID = e.TeacherID
			ss.MeetingLink = e.MeetingLink
		}
		if ss.TeacherID == "" {
			ss.TeacherID = student.TeacherID
		}
		if ss.TeacherID == "" {
			ss.TeacherID = s.selection.TeacherID
		}
		s.state.Sessions = append(s.state.Sessions, ss)
		s.selection.SessionID = ss.ID
	})
	return ss, true
}

// QuickAddSessionForSelection books a default session today for the selected
// student and enrollment. Without a selected student it only switches to the
// students section.
func (s *Store) QuickAddSessionForSelection() (models.Session, bool) {
	sel := s.Selection()
	if sel.StudentID == "" {
		s.SetSection(models.SectionStudents)
		return models.Session{}, false
	}
	ss, ok := s.AddSession(sel.StudentID, sel.EnrollmentID, s.now(), quickSessionStart, models.DefaultDurationMinutes)
	s.SetSection(models.SectionBooking)
	return ss, ok
}

// DeleteStudent removes the student and every enrollment and session that
// references it, keeping selections on a nearby live entity.
func (s *Store) DeleteStudent(id string) {
	s.mutate("delete_student", func() {
		oldIndex := indexByID(s.state.Students, id, func(x models.Student) string { return x.ID })

		removedEnrollments := make(map[string]struct{})
		for _, e := range s.state.Enrollments {
			if e.StudentID == id {
				removedEnrollments[e.ID] = struct{}{}
			}
		}
		// Sessions go with the student and with any removed enrollment, even
		// when they were booked for another student.
		dropSession := func(x models.Session) bool {
			if x.StudentID == id {
				return true
			}
			_, gone := removedEnrollments[x.EnrollmentID]
			return gone
		}
		removedSessions := make(map[string]struct{})
		for _, ss := range s.state.Sessions {
			if dropSession(ss) {
				removedSessions[ss.ID] = struct{}{}
			}
		}

		s.state.Students = removeWhere(s.state.Students, func(x models.Student) bool { return x.ID == id })
		s.state.Enrollments = removeWhere(s.state.Enrollments, func(x models.Enrollment) bool { return x.StudentID == id })
		s.state.Sessions = removeWhere(s.state.Sessions, dropSession)

		if s.selection.StudentID == id {
			s.selection.StudentID = nearestID(s.state.Students, oldIndex, func(x models.Student) string { return x.ID })
		}

		if _, gone := removedEnrollments[s.selection.EnrollmentID]; gone {
			s.selection.EnrollmentID = firstIDOwnedBy(s.state.Enrollments, s.selection.StudentID,
				func(x models.Enrollment) string { return x.StudentID },
				func(x models.Enrollment) string { return x.ID })
		}

		if _, gone := removedSessions[s.selection.SessionID]; gone {
			s.selection.SessionID = firstIDOwnedBy(s.state.Sessions, s.selection.StudentID,
				func(x models.Session) string { return x.StudentID },
				func(x models.Session) string { return x.ID })
		}

		if len(s.state.Students) == 0 {
			s.selection.StudentID = ""
			s.selection.EnrollmentID = ""
			s.selection.SessionID = ""
		}
	})
}

// DeleteEnrollment removes the enrollment and its sessions. The replacement
// selection is the neighbour at the same position in the displayed order
// (title, then ID), and the student selection follows the new enrollment.
func (s *Store) DeleteEnrollment(id string) {
	s.mutate("delete_enrollment", func() {
		oldIndex := indexByID(orderEnrollments(s.state.Enrollments), id, func(x models.Enrollment) string { return x.ID })

		removedSessions := make(map[string]struct{})
		for _, ss := range s.state.Sessions {
			if ss.EnrollmentID == id {
				removedSessions[ss.ID] = struct{}{}
			}
		}

		s.state.Enrollments = removeWhere(s.state.Enrollments, func(x models.Enrollment) bool { return x.ID == id })
		s.state.Sessions = removeWhere(s.state.Sessions, func(x models.Session) bool { return x.EnrollmentID == id })

		if s.selection.EnrollmentID == id {
			s.selection.EnrollmentID = nearestID(orderEnrollments(s.state.Enrollments), oldIndex, func(x models.Enrollment) string { return x.ID })
		}

		if idx := indexByID(s.state.Enrollments, s.selection.EnrollmentID, func(x models.Enrollment) string { return x.ID }); idx >= 0 {
			studentID := s.state.Enrollments[idx].StudentID
			if indexByID(s.state.Students, studentID, func(x models.Student) string { return x.ID }) >= 0 {
				s.selection.StudentID = studentID
			}
		}

		if _, gone := removedSessions[s.selection.SessionID]; gone {
			s.selection.SessionID = firstIDOwnedBy(s.state.Sessions, s.selection.EnrollmentID,
				func(x models.Session) string { return x.EnrollmentID },
				func(x models.Session) string { return x.ID })
		}

		if len(s.state.Sessions) == 0 {
			s.selection.SessionID = ""
		}
	})
}

// DeleteSession removes a session; a deleted selection moves to the first remaining session.
func (s *Store) DeleteSession(id string) {
	s.mutate("delete_session", func() {
		s.state.Sessions = removeWhere(s.state.Sessions, func(x models.Session) bool { return x.ID == id })
		if s.selection.SessionID == id {
			s.selection.SessionID = ""
			if len(s.state.Sessions) > 0 {
				s.selection.SessionID = s.state.Sessions[0].ID
			}
		}
	})
}

// ToggleAttendance flips a session between attended and planned. Missed and
// canceled sessions are left untouched, as are unknown IDs.
func (s *Store) ToggleAttendance(id string) {
	ss, ok := s.Session(id)
	if !ok {
		return
	}
	switch ss.Status {
	case models.SessionStatusAttended:
		ss.Status = models.SessionStatusPlanned
	case models.SessionStatusPlanned:
		ss.Status = models.SessionStatusAttended
	default:
		return
	}
	s.UpsertSession(ss)
}

// GenerateSessions materializes the enrollment's missing sessions and appends
// them. An unknown enrollment reports (0, true).
func (s *Store) GenerateSessions(enrollmentID string) (int, bool) {
	e, ok := s.Enrollment(enrollmentID)
	if !ok {
		return 0, true
	}
	var result GenerateResult
	s.mutate("generate_sessions", func() {
		req := GenerateRequest{
			Enrollment:        e,
			Existing:          sessionsWhere(s.state.Sessions, func(x models.Session) bool { return x.EnrollmentID == e.ID }),
			Holidays:          s.state.Settings.HolidayRanges,
			SelectedTeacherID: s.selection.TeacherID,
		}
		if stIdx := indexByID(s.state.Students, e.StudentID, func(x models.Student) string { return x.ID }); stIdx >= 0 {
			req.StudentTeacherID = s.state.Students[stIdx].TeacherID
		}
		result = s.generator.Generate(req)
		s.state.Sessions = append(s.state.Sessions, result.Sessions...)
	})

	s.metrics.ObserveGeneration(len(result.Sessions), result.Exhausted)
	if result.Exhausted {
		s.logger.Info("session generation could not fill quota",
			zap.String("enrollment_id", enrollmentID),
			zap.Int("added", len(result.Sessions)))
	}
	return len(result.Sessions), result.Exhausted
}

// SetSection switches the active UI section; unknown sections are ignored.
func (s *Store) SetSection(section models.Section) {
	if !section.Valid() {
		return
	}
	s.selectOnly("set_section", func() { s.selection.Section = section })
}

// SelectTeacher selects a teacher; unknown IDs clear the selection.
func (s *Store) SelectTeacher(id string) {
	s.selectOnly("select_teacher", func() {
		s.selection.TeacherID = liveID(s.state.Teachers, id, func(x models.Teacher) string { return x.ID })
	})
}

// SelectStudent selects a student; unknown IDs clear the selection.
func (s *Store) SelectStudent(id string) {
	s.selectOnly("select_student", func() {
		s.selection.StudentID = liveID(s.state.Students, id, func(x models.Student) string { return x.ID })
	})
}

// SelectEnrollment selects an enrollment and moves the student selection to its owner.
func (s *Store) SelectEnrollment(id string) {
	s.selectOnly("select_enrollment", func() {
		idx := indexByID(s.state.Enrollments, id, func(x models.Enrollment) string { return x.ID })
		if idx < 0 {
			s.selection.EnrollmentID = ""
			return
		}
		s.selection.EnrollmentID = id
		studentID := s.state.Enrollments[idx].StudentID
		if indexByID(s.state.Students, studentID, func(x models.Student) string { return x.ID }) >= 0 {
			s.selection.StudentID = studentID
		}
	})
}

// SelectSession selects a session; unknown IDs clear the selection.
func (s *Store) SelectSession(id string) {
	s.selectOnly("select_session", func() {
		s.selection.SessionID = liveID(s.state.Sessions, id, func(x models.Session) string { return x.ID })
	})
}

// orderEnrollments returns the display order: title, then ID so equal titles
// never swap places between renders.
func orderEnrollments(list []models.Enrollment) []models.Enrollment {
	ordered := append([]models.Enrollment(nil), list...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Title != ordered[j].Title {
			return ordered[i].Title < ordered[j].Title
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

func upsertByID[T any](list *[]T, item T, id func(T) string) {
	if idx := indexByID(*list, id(item), id); idx >= 0 {
		(*list)[idx] = item
		return
	}
	*list = append(*list, item)
}

func indexByID[T any](list []T, target string, id func(T) string) int {
	if target == "" {
		return -1
	}
	for i, item := range list {
		if id(item) == target {
			return i
		}
	}
	return -1
}

func removeWhere[T any](list []T, drop func(T) bool) []T {
	kept := list[:0]
	for _, item := range list {
		if !drop(item) {
			kept = append(kept, item)
		}
	}
	var zero T
	for i := len(kept); i < len(list); i++ {
		list[i] = zero
	}
	return kept
}

// nearestID picks the entity now at oldIndex, clamped to the end of list.
// Without a previous index the first entity is chosen.
func nearestID[T any](list []T, oldIndex int, id func(T) string) string {
	if len(list) == 0 {
		return ""
	}
	if oldIndex < 0 {
		return id(list[0])
	}
	return id(list[min(oldIndex, len(list)-1)])
}

// firstIDOwnedBy returns the first entity owned by owner, else the first entity.
func firstIDOwnedBy[T any](list []T, owner string, ownerOf, id func(T) string) string {
	if owner != "" {
		for _, item := range list {
			if ownerOf(item) == owner {
				return id(item)
			}
		}
	}
	if len(list) == 0 {
		return ""
	}
	return id(list[0])
}

func liveID[T any](list []T, target string, id func(T) string) string {
	if indexByID(list, target, id) < 0 {
		return ""
	}
	return target
}

func sessionsWhere(list []models.Session, keep func(models.Session) bool) []models.Session {
	out := make([]models.Session, 0)
	for _, ss := range list {
		if keep(ss) {
			out = append(out, ss)
		}
	}
	return out
}
