package airtable_timeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arran4/golang-ical"
)

// WriteICal renders the events of doc as an iCal feed. Events without a
// parseable start are left out.
func WriteICal(doc Document, name string, w io.Writer) error {
	logger := NewLogger("ical")

	stamp, err := time.Parse(TimestampLayout, doc.UpdatedAt)
	if err != nil {
		stamp = time.Now().UTC()
	}

	// Create calendar
	cal := ics.NewCalendar()
	cal.SetName(name)
	cal.SetProductId("-//serverwentdown//airtable-timeline//EN")
	cal.SetRefreshInterval("P12H")

	added := 0
	for _, event := range doc.Events {
		if !truthy(event.Start) {
			continue
		}
		start, end, err := eventRange(event)
		if err != nil {
			logger.Warn().Err(err).Str("event", event.ID).Msg("skipping event in iCal feed")
			continue
		}

		calEvent := cal.AddEvent(event.ID + "@airtable-timeline")
		calEvent.SetSummary(textValue(event.Title))
		calEvent.SetDtStampTime(stamp)
		calEvent.SetStartAt(start)
		calEvent.SetEndAt(end)
		calEvent.SetDescription(eventDescription(event))
		added++
	}

	logger.Info().Int("events", added).Msg("rendered iCal feed")

	return cal.SerializeTo(w)
}

// SaveICal writes the iCal feed to path, creating its directory.
func SaveICal(doc Document, name string, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to open iCal file: %w", err)
	}
	defer f.Close()

	if err := WriteICal(doc, name, f); err != nil {
		return err
	}
	return f.Close()
}

func eventRange(event Event) (time.Time, time.Time, error) {
	start, hasTime, err := parseEventTime(textValue(event.Start), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end := start
	if !hasTime {
		end = start.AddDate(0, 0, 1)
	}
	if truthy(event.End) {
		t, endHasTime, err := parseEventTime(textValue(event.End), time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// Date-only ends are inclusive
		if !endHasTime {
			t = t.AddDate(0, 0, 1)
		}
		if !t.Before(start) {
			end = t
		}
	}
	return start, end, nil
}

func eventDescription(e Event) string {
	var s []string
	if d := textValue(e.Description); d != "" {
		s = append(s, d)
	}
	if c := textValue(e.Category); c != "" {
		s = append(s, "Category: "+c)
	}
	if l := textValue(e.Link); l != "" {
		s = append(s, "Link: "+l)
	}
	return strings.Join(s, "\n")
}
