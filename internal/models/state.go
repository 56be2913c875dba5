package models

// AppState is the aggregate root persisted as a single document.
type AppState struct {
	Teachers    []Teacher      `json:"teachers"`
	Students    []Student      `json:"students"`
	Enrollments []Enrollment   `json:"enrollments"`
	Sessions    []Session      `json:"sessions"`
	Templates   []TermTemplate `json:"templates"`
	Settings    AppSettings    `json:"settings"`
}

// Clone returns a deep copy so snapshots never alias live slices.
func (s AppState) Clone() AppState {
	out := AppState{
		Teachers: append([]Teacher(nil), s.Teachers...),
		Students: append([]Student(nil), s.Students...),
		Sessions: append([]Session(nil), s.Sessions...),
		Settings: s.Settings,
	}
	out.Settings.HolidayRanges = append([]HolidayRange(nil), s.Settings.HolidayRanges...)
	out.Enrollments = make([]Enrollment, len(s.Enrollments))
	for i, e := range s.Enrollments {
		out.Enrollments[i] = e.Clone()
	}
	out.Templates = make([]TermTemplate, len(s.Templates))
	for i, t := range s.Templates {
		out.Templates[i] = t.Clone()
	}
	return out
}

// Clone returns a copy that shares no slices or pointers with e.
func (e Enrollment) Clone() Enrollment {
	e.Windows = append([]DateWindow(nil), e.Windows...)
	e.Weekdays = append(e.Weekdays[:0:0], e.Weekdays...)
	if e.StartDate != nil {
		v := *e.StartDate
		e.StartDate = &v
	}
	if e.EndDate != nil {
		v := *e.EndDate
		e.EndDate = &v
	}
	return e
}
