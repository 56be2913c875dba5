package models

// Student represents a learner on the roster.
type Student struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Grade      string `json:"grade"`
	Notes      string `json:"notes"`
	TeacherID  string `json:"teacher_id,omitempty"`
	IsArchived bool   `json:"is_archived"`
}
