package airtable_timeline

import (
	"fmt"
	"strings"
)

// Event is the normalized output unit. Text fields carry the source value
// unchanged, which is usually a string but may be a number or a list for
// formula, lookup and multi-select fields. Absent values are nil and are
// written as JSON null.
type Event struct {
	ID          string   `json:"id"`
	Title       any      `json:"title"`
	Start       any      `json:"start"`
	End         any      `json:"end"`
	Description any      `json:"description"`
	Category    any      `json:"category"`
	Link        any      `json:"link"`
	Image       *string  `json:"image"`
	Featured    bool     `json:"featured"`
	Order       *float64 `json:"order"`
}

// Valid reports whether the event has a title or a start date.
func (e Event) Valid() bool {
	return truthy(e.Title) || truthy(e.Start)
}

// Document is the file written for the timeline site.
type Document struct {
	UpdatedAt string  `json:"updatedAt"`
	Events    []Event `json:"events"`
}

// textValue renders a field value for display. Lists are joined with ", ".
func textValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := textValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}
