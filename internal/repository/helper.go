package repository

import (
	"fmt"
	"time"
)

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
// All timestamps are stored as RFC3339 UTC strings; the date-only form
// covers user-supplied date filters.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// FormatTime renders a timestamp the way every repository stores it.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
