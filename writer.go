package airtable_timeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EncodeJSON writes doc as indented JSON. Non-ASCII and HTML characters are
// written verbatim.
func EncodeJSON(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteJSON replaces the file at path with doc. The document is written to a
// temporary file in the same directory and renamed over path.
func WriteJSON(doc Document, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to open output file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := EncodeJSON(doc, f); err != nil {
		f.Close()
		return fmt.Errorf("unable to encode output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("unable to replace output file: %w", err)
	}
	return nil
}
