package models

// Teacher is the profile of a tutor who owns students and sessions.
type Teacher struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Headline    string `json:"headline"`
	Bio         string `json:"bio"`
	Contact     string `json:"contact"`
}
