package airtable_timeline

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Source field names. Matching is exact and case-sensitive.
const (
	FieldTitle       = "Title"
	FieldStart       = "Start"
	FieldEnd         = "End"
	FieldDescription = "Description"
	FieldCategory    = "Category"
	FieldLink        = "Link"
	FieldImage       = "Image"
	FieldFeatured    = "Featured"
	FieldOrder       = "Order"
)

// Normalize maps a record onto the fixed event schema. Text fields pass
// through as they are; an image or order with an unexpected shape is dropped
// rather than failing the run.
func Normalize(record RawRecord) Event {
	f := record.Fields
	n := normalizer{id: record.ID}

	return Event{
		ID:          record.ID,
		Title:       f[FieldTitle],
		Start:       f[FieldStart],
		End:         f[FieldEnd],
		Description: f[FieldDescription],
		Category:    f[FieldCategory],
		Link:        f[FieldLink],
		Image:       n.pickImage(f),
		Featured:    truthy(f[FieldFeatured]),
		Order:       n.numberField(f, FieldOrder),
	}
}

type normalizer struct {
	id string
}

func (n normalizer) malformed(field string, value any) {
	logger := NewLogger("normalize")
	logger.Debug().
		Str("record", n.id).
		Str("field", field).
		Interface("value", value).
		Msg("ignoring field with unexpected shape")
}

func (n normalizer) numberField(fields map[string]any, name string) *float64 {
	v, ok := fields[name]
	if !ok || v == nil {
		return nil
	}
	switch x := v.(type) {
	case float64:
		return &x
	case int:
		f := float64(x)
		return &f
	case int64:
		f := float64(x)
		return &f
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return &f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return &f
		}
	}
	n.malformed(name, v)
	return nil
}

// pickImage returns the URL of the first attachment of the image field.
func (n normalizer) pickImage(fields map[string]any) *string {
	v, ok := fields[FieldImage]
	if !ok || v == nil {
		return nil
	}
	attachments, ok := v.([]any)
	if !ok {
		n.malformed(FieldImage, v)
		return nil
	}
	if len(attachments) == 0 {
		return nil
	}
	first, ok := attachments[0].(map[string]any)
	if !ok {
		n.malformed(FieldImage, v)
		return nil
	}
	url, ok := first["url"].(string)
	if !ok {
		n.malformed(FieldImage, v)
		return nil
	}
	return &url
}

// truthy treats nil, false, zero, empty strings and empty collections as
// false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}
