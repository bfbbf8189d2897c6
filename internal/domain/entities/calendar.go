package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date encoding used for lastActiveDate, DailyActivity.Date
// and StudyPlanDay.Date. Lexicographic order of such strings equals chronological order.
const DateLayout = "2006-01-02"

// DateKey formats t as a calendar date in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays returns the calendar date n days after t (n may be negative).
// Dates are shifted with AddDate so DST transitions never skip or repeat a day.
func AddDays(t time.Time, n int) string {
	return DateKey(t.AddDate(0, 0, n))
}

// ParseDate parses a DateLayout string in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseLocation resolves the configured timezone used to decide what "today" is.
//
// Accepted forms:
//   - IANA names like "Asia/Kolkata"
//   - "UTC" / "GMT" / "" (UTC)
//   - fixed offsets: "UTC+5:30", "UTC-7", "+3", "-03:30"
func ParseLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	switch {
	case tz == "", strings.EqualFold(tz, "UTC"), strings.EqualFold(tz, "Etc/UTC"), strings.EqualFold(tz, "GMT"):
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	offset, ok := parseOffset(tz)
	if !ok {
		return nil, fmt.Errorf("unsupported timezone %q", tz)
	}

	return time.FixedZone(offsetName(offset), offset), nil
}

func parseOffset(tz string) (int, bool) {
	s := tz
	if strings.HasPrefix(strings.ToUpper(s), "UTC") {
		s = strings.TrimSpace(s[3:])
		if s == "" {
			return 0, true
		}
	}
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}

	sign := 1
	if s[0] == '-' {
		sign = -1
	}

	hh, mm, found := strings.Cut(s[1:], ":")
	if !found {
		mm = "0"
	}

	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, false
	}
	if h < 0 || h > 14 || m < 0 || m >= 60 {
		return 0, false
	}

	return sign * (h*3600 + m*60), true
}

func offsetName(offset int) string {
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, offset/3600, (offset%3600)/60)
}
