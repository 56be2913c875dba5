package models

// TermTemplate is a reusable preset used to pre-populate new enrollments.
type TermTemplate struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`

	Windows             []DateWindow          `json:"windows"`
	TimeOptions         []string              `json:"time_options"`
	WeekdayAvailability []WeekdayAvailability `json:"weekday_availability"`

	SuggestedLessons         int `json:"suggested_lessons"`
	SuggestedPricePerLesson  int `json:"suggested_price_per_lesson"`
	SuggestedDurationMinutes int `json:"suggested_duration_minutes"`
}

// WeekdayAvailability advertises open time ranges on a weekday.
type WeekdayAvailability struct {
	ID         string   `json:"id"`
	Weekday    int      `json:"weekday"`
	TimeRanges []string `json:"time_ranges"`
	Note       string   `json:"note"`
	Status     string   `json:"status"`
}

// Clone returns a copy that shares no slices with t.
func (t TermTemplate) Clone() TermTemplate {
	t.Windows = append([]DateWindow(nil), t.Windows...)
	t.TimeOptions = append([]string(nil), t.TimeOptions...)
	availability := make([]WeekdayAvailability, len(t.WeekdayAvailability))
	for i, a := range t.WeekdayAvailability {
		a.TimeRanges = append([]string(nil), a.TimeRanges...)
		availability[i] = a
	}
	t.WeekdayAvailability = availability
	return t
}
