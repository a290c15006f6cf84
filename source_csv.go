package airtable_timeline

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var ErrCSVRead = errors.New("failed to read CSV")

// ConfigSourceCSV represents configuration for reading a table from a CSV
// download of an Airtable view.
type ConfigSourceCSV struct {
	// Path is the CSV file to read. The first row holds the field names.
	Path string
	// File is read instead of Path when set.
	File io.Reader
}

type SourceCSV struct {
	config ConfigSourceCSV
}

func NewSourceCSV(config ConfigSourceCSV) (SourceCSV, error) {
	if config.File == nil && config.Path == "" {
		return SourceCSV{}, fmt.Errorf("%w: CSV file", ErrMissingConfig)
	}
	return SourceCSV{config: config}, nil
}

func (s SourceCSV) Name() string {
	if s.config.Path == "" {
		return "csv"
	}
	return strings.TrimSuffix(filepath.Base(s.config.Path), filepath.Ext(s.config.Path))
}

// ReadAll reads every row. Empty cells are left out of the record fields, the
// same way the API omits empty fields.
func (s SourceCSV) ReadAll(ctx context.Context) ([]RawRecord, error) {
	file := s.config.File
	if file == nil {
		f, err := os.Open(s.config.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed open: %w", ErrCSVRead, err)
		}
		defer f.Close()
		file = f
	}

	csvReader := csv.NewReader(file)

	// Read the first row as headers
	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: headers: %v", ErrCSVRead, err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	records := make([]RawRecord, 0)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCSVRead, err)
		}

		record, err := recordFromCSVRow(headers, row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func recordFromCSVRow(headers []string, row []string) (RawRecord, error) {
	if len(headers) != len(row) {
		return RawRecord{}, fmt.Errorf("%w: unmatching header and record length", ErrCSVRead)
	}

	fields := make(map[string]any)
	for i, value := range row {
		if value == "" {
			continue
		}
		key := headers[i]
		if key == FieldImage {
			fields[key] = attachmentsFromCell(value)
			continue
		}
		fields[key] = value
	}

	// CSV downloads carry no record IDs, so derive one from the row
	h := sha256.New()
	for _, value := range row {
		h.Write([]byte(value))
		h.Write([]byte{0})
	}
	id := hex.EncodeToString(h.Sum(nil))[:17] + "@csv"

	return RawRecord{ID: id, Fields: fields}, nil
}

var attachmentURLPattern = regexp.MustCompile(`\((https?://[^\s()]+)\)`)

// attachmentsFromCell parses cells like "poster.png (https://...),other.jpg (https://...)".
func attachmentsFromCell(cell string) []any {
	matches := attachmentURLPattern.FindAllStringSubmatch(cell, -1)
	attachments := make([]any, 0, len(matches))
	for _, m := range matches {
		attachments = append(attachments, map[string]any{"url": m[1]})
	}
	return attachments
}
