package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// LoadLocation resolves an IANA zone, falling back to UTC for empty or
// unknown names.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC, fmt.Errorf("LoadLocation: invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// LocalDate is the calendar date of t in loc, formatted YYYY-MM-DD.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ParseClock accepts HH:MM or HH:MM:SS in 24-hour form and returns the
// seconds since midnight.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("ParseClock: invalid time %q", value)
	}

	limits := []int{23, 59, 59}
	total := 0
	for i, part := range parts {
		if len(part) != 2 {
			return 0, fmt.Errorf("ParseClock: invalid time %q", value)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("ParseClock: invalid time %q", value)
		}
		switch i {
		case 0:
			total += n * 3600
		case 1:
			total += n * 60
		case 2:
			total += n
		}
	}
	return total, nil
}

// NormalizeClock turns HH:MM into the stored HH:MM:SS form.
func NormalizeClock(value string) (string, error) {
	secs, err := ParseClock(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60), nil
}

// ClockMinute truncates a stored clock time to HH:MM.
func ClockMinute(value string) string {
	if len(value) >= 5 {
		return value[:5]
	}
	return value
}

// FormatClock renders HH:MM[:SS] as a 12-hour display time, e.g. "7:00 PM".
func FormatClock(value string) string {
	secs, err := ParseClock(value)
	if err != nil {
		return value
	}
	hours, minutes := secs/3600, (secs%3600)/60
	suffix := "AM"
	if hours >= 12 {
		suffix = "PM"
	}
	switch {
	case hours > 12:
		hours -= 12
	case hours == 0:
		hours = 12
	}
	return fmt.Sprintf("%d:%02d %s", hours, minutes, suffix)
}

// FormatDate renders YYYY-MM-DD as "Monday, January 15, 2024".
func FormatDate(date string) string {
	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return parsed.Format("Monday, January 2, 2006")
}
