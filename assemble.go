package airtable_timeline

import (
	"time"
)

// TimestampLayout formats Document.UpdatedAt.
const TimestampLayout = "2006-01-02 15:04:05 UTC"

// Stats counts what happened to the records of one assembly.
type Stats struct {
	Records int
	Events  int
	Dropped int
}

// Assemble normalizes records in order and drops events with neither a title
// nor a start.
func Assemble(records []RawRecord, now time.Time) Document {
	doc, _ := AssembleWithStats(records, now)
	return doc
}

func AssembleWithStats(records []RawRecord, now time.Time) (Document, Stats) {
	events := make([]Event, 0, len(records))
	for _, record := range records {
		event := Normalize(record)
		if !event.Valid() {
			continue
		}
		events = append(events, event)
	}

	doc := Document{
		UpdatedAt: now.UTC().Format(TimestampLayout),
		Events:    events,
	}
	stats := Stats{
		Records: len(records),
		Events:  len(events),
		Dropped: len(records) - len(events),
	}
	return doc, stats
}
