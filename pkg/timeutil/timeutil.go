// Package timeutil parses and normalizes "HH:mm" wall-clock strings and performs
// the day arithmetic used by the scheduler. Day values are always midnight in the
// supplied location.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/width"
)

// Default wall-clock time used when input cannot be parsed.
const (
	DefaultHour   = 18
	DefaultMinute = 30
	MinutesPerDay = 24 * 60
)

var colonReplacer = strings.NewReplacer(
	"：", ":",
	"﹕", ":",
	"∶", ":",
	"·", ":",
	" ", "",
)

// ParseHHmm accepts "18:30", "18：30", "8:30", "1830" or "830" and returns hour
// and minute. Unparsable or out-of-range input yields 18:30.
func ParseHHmm(raw string) (int, int) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return DefaultHour, DefaultMinute
	}
	text = colonReplacer.Replace(width.Narrow.String(text))

	if strings.Contains(text, ":") {
		parts := strings.Split(text, ":")
		if len(parts) == 2 {
			h, errH := strconv.Atoi(parts[0])
			m, errM := strconv.Atoi(parts[1])
			if errH == nil && errM == nil && validClock(h, m) {
				return h, m
			}
		}
	}

	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, text)
	if len(digits) == 3 || len(digits) == 4 {
		h, errH := strconv.Atoi(digits[:len(digits)-2])
		m, errM := strconv.Atoi(digits[len(digits)-2:])
		if errH == nil && errM == nil && validClock(h, m) {
			return h, m
		}
	}

	return DefaultHour, DefaultMinute
}

func validClock(h, m int) bool {
	return h >= 0 && h <= 23 && m >= 0 && m <= 59
}

// NormalizeHHmm canonicalizes any accepted input to zero-padded "HH:mm".
func NormalizeHHmm(raw string) string {
	h, m := ParseHHmm(raw)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// MinutesFromHHmm converts a time string to minutes after midnight.
func MinutesFromHHmm(raw string) int {
	h, m := ParseHHmm(raw)
	return h*60 + m
}

// HHmmFromMinutes formats minutes-of-day, wrapping into a 24 hour cycle.
func HHmmFromMinutes(minutes int) string {
	m := ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// EndHHmm returns start + duration, wrapping past midnight.
func EndHHmm(start string, durationMinutes int) string {
	return HHmmFromMinutes(MinutesFromHHmm(start) + durationMinutes)
}

// DurationFromRange derives a duration from start and end. An end at or before
// start crosses midnight. The result is clamped to [min,max] and rounded to step.
func DurationFromRange(start, end string, min, max, step int) int {
	s := MinutesFromHHmm(start)
	e := MinutesFromHHmm(end)
	if e <= s {
		e += MinutesPerDay
	}
	return NormalizeDuration(e-s, min, max, step)
}

// NormalizeDuration clamps minutes to [min,max] and aligns it to the nearest
// multiple of step, re-clamping after rounding.
func NormalizeDuration(minutes, min, max, step int) int {
	clamped := clamp(minutes, min, max)
	if step <= 0 {
		return clamped
	}
	rounded := ((clamped + step/2) / step) * step
	return clamp(rounded, min, max)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var rangeReplacer = strings.NewReplacer(
	"—", "–",
	"-", "–",
	"~", "–",
	"～", "–",
	" ", "",
)

// ParseTimeRangeOption splits an option such as "08:30–10:30" into normalized
// start and end strings.
func ParseTimeRangeOption(option string) (string, string, bool) {
	text := strings.TrimSpace(option)
	if text == "" {
		return "", "", false
	}
	parts := strings.Split(rangeReplacer.Replace(text), "–")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return NormalizeHHmm(parts[0]), NormalizeHHmm(parts[1]), true
}

// TimeRangeString renders "HH:mm–HH:mm" for a start and duration.
func TimeRangeString(start string, durationMinutes int) string {
	s := NormalizeHHmm(start)
	return s + "–" + EndHHmm(s, durationMinutes)
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// AddDays moves a calendar day forward, keeping midnight across DST changes.
func AddDays(day time.Time, n int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+n, 0, 0, 0, 0, day.Location())
}

// MakeDate builds midnight of the given calendar date in loc.
func MakeDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// ComposeDateTime combines the calendar day of day with the wall clock hhmm.
func ComposeDateTime(day time.Time, hhmm string, loc *time.Location) time.Time {
	h, m := ParseHHmm(hhmm)
	base := StartOfDay(day, loc)
	return time.Date(base.Year(), base.Month(), base.Day(), h, m, 0, 0, loc)
}

// WithinDays reports whether day lies in [start,end] compared by calendar day.
func WithinDays(day, start, end time.Time, loc *time.Location) bool {
	d := StartOfDay(day, loc)
	return !d.Before(StartOfDay(start, loc)) && !d.After(StartOfDay(end, loc))
}
