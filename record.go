package airtable_timeline

// RawRecord is one row as returned by the table API.
type RawRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// recordPage is the body of one list records response. Offset is empty on the
// last page.
type recordPage struct {
	Records []RawRecord `json:"records"`
	Offset  string      `json:"offset,omitempty"`
}
