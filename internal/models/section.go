package models

// Section identifies the active area of the host UI.
type Section string

// Sections rendered by the presentation layer.
const (
	SectionSchedule Section = "schedule"
	SectionBooking  Section = "booking"
	SectionStudents Section = "students"
	SectionTeacher  Section = "teacher"
	SectionSettings Section = "settings"
)

// Sections lists every section in sidebar order.
var Sections = []Section{SectionSchedule, SectionBooking, SectionStudents, SectionTeacher, SectionSettings}

// Valid reports whether s is a known section.
func (s Section) Valid() bool {
	for _, known := range Sections {
		if s == known {
			return true
		}
	}
	return false
}
