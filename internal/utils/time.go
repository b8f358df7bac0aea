package utils

import (
	"time"

	"ticketing-api/internal/models"
)

// DateTimeLayout is the wire format used for purchase and event dates.
const DateTimeLayout = "2006-01-02 15:04:05"

var acceptedLayouts = []string{
	DateTimeLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// UnixTimeToTime converts a Unix timestamp to a time.Time object
func UnixTimeToTime(unixTime int64) time.Time {
	return time.Unix(unixTime, 0)
}

// ParseDateTime accepts the layouts clients are known to send and returns UTC.
func ParseDateTime(value string) (time.Time, error) {
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, models.NewValidationError("Invalid date %q, expected format YYYY-MM-DD HH:MM:SS", value)
}

func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
