package airtable_timeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() Document {
	return Assemble([]RawRecord{
		{ID: "rec1", Fields: map[string]any{"Title": "Gala", "Start": "2024-05-01"}},
		{ID: "rec2", Fields: map[string]any{}},
		{ID: "rec3", Fields: map[string]any{
			"Title":       "Café & Bühne",
			"Start":       "2024-05-02T19:30:00.000Z",
			"Description": "<b>Open air</b> ☀",
			"Image":       []any{map[string]any{"url": "http://x/y.png"}},
			"Featured":    true,
			"Order":       1.0,
		}},
	}, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "events.json")
	doc := testDocument()

	require.NoError(t, WriteJSON(doc, path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Document
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, doc, got)
	assert.Len(t, got.Events, 2)
}

func TestWriteJSON_Formatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, WriteJSON(testDocument(), path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(b)

	assert.Contains(t, content, `"title": "Café & Bühne"`)
	assert.Contains(t, content, `"description": "<b>Open air</b> ☀"`)
	assert.Contains(t, content, "\n  \"events\": [\n")
	assert.Contains(t, content, `"end": null`)
	assert.Contains(t, content, `"updatedAt": "2024-05-01 08:00:00 UTC"`)
}

func TestWriteJSON_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"stale":true, "padding":"`+string(bytes.Repeat([]byte("x"), 4096))+`"}`), 0o644))

	doc := Assemble(nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, WriteJSON(doc, path))
	require.NoError(t, WriteJSON(doc, path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"updatedAt":"2024-01-01 00:00:00 UTC","events":[]}`, string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files should be cleaned up")
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(testDocument(), &buf))

	var got Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, testDocument(), got)
}
