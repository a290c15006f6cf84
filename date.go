package airtable_timeline

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrParseDate = errors.New("date parsing error")

var eventDateTimeFormats = []string{time.RFC3339, "2006-01-02T15:04:05.000Z07:00", "2006-01-02T15:04", "2006-01-02 15:04"}
var eventDateFormats = []string{time.DateOnly, "2006/01/02", "1/2/2006"}

// parseEventTime parses the date values found in start and end fields. The
// returned flag is true when the value carried a time of day.
func parseEventTime(d string, zone *time.Location) (time.Time, bool, error) {
	d = strings.TrimSpace(d)

	for _, f := range eventDateTimeFormats {
		t, err := time.ParseInLocation(f, d, zone)
		if err == nil {
			return t, true, nil
		}
	}

	for _, f := range eventDateFormats {
		t, err := time.ParseInLocation(f, d, zone)
		if err == nil {
			return t, false, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("%w: %s is not a valid date", ErrParseDate, d)
}
