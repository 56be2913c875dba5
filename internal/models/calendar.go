package models

import "time"

// DateWindow is a named inclusive date range in which sessions may be generated.
type DateWindow struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// HolidayRange is an inclusive blackout range.
type HolidayRange struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
