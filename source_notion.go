package airtable_timeline

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dstotijn/go-notion"
)

// ConfigSourceNotion represents configuration for reading a database from the
// Notion API. Property names play the role of table field names.
type ConfigSourceNotion struct {
	// APIKey is the Notion integration token to use.
	APIKey string
	// DatabaseID is the database to read records from.
	DatabaseID string
	// PageSize is the number of pages requested per query.
	PageSize int
	// Timeout applies to every query.
	Timeout time.Duration
	// HTTPClient replaces the default client used by go-notion.
	HTTPClient *http.Client
	Throttle   Throttle
	Observer   PageObserver
}

type SourceNotion struct {
	config ConfigSourceNotion
	client *notion.Client
}

func NewSourceNotion(config ConfigSourceNotion) (SourceNotion, error) {
	if config.APIKey == "" || config.DatabaseID == "" {
		return SourceNotion{}, fmt.Errorf("%w: notion API key and database ID", ErrMissingConfig)
	}
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	config.Throttle = throttleOrDefault(config.Throttle)

	var opts []notion.ClientOption
	if config.HTTPClient != nil {
		opts = append(opts, notion.WithHTTPClient(config.HTTPClient))
	}

	return SourceNotion{
		config: config,
		client: notion.NewClient(config.APIKey, opts...),
	}, nil
}

func (s SourceNotion) Name() string {
	return s.config.DatabaseID
}

func (s SourceNotion) ReadAll(ctx context.Context) ([]RawRecord, error) {
	logger := NewLogger("notion")
	records := make([]RawRecord, 0)
	query := &notion.DatabaseQuery{
		PageSize: s.config.PageSize,
	}

	for {
		queryCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
		response, err := s.client.QueryDatabase(queryCtx, s.config.DatabaseID, query)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%w: query database %v: %w", ErrTransport, s.config.DatabaseID, err)
		}

		for _, page := range response.Results {
			records = append(records, recordFromPage(page))
		}
		observePage(s.config.Observer, len(response.Results))

		logger.Debug().
			Str("database", s.config.DatabaseID).
			Int("records", len(response.Results)).
			Bool("more", response.HasMore).
			Msg("queried database")

		if !response.HasMore || response.NextCursor == nil || *response.NextCursor == "" {
			break
		}
		query.StartCursor = *response.NextCursor

		if err := s.config.Throttle.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return records, nil
}

func recordFromPage(page notion.Page) RawRecord {
	properties, _ := page.Properties.(notion.DatabasePageProperties)
	return RawRecord{
		ID:     page.ID,
		Fields: fieldsFromProperties(properties),
	}
}

// fieldsFromProperties flattens page properties into plain values shaped like
// Airtable fields. Files become attachment objects with a url key.
func fieldsFromProperties(properties notion.DatabasePageProperties) map[string]any {
	fields := make(map[string]any, len(properties))
	endFields := make(map[string]any)

	for name, property := range properties {
		value, ok := propertyValue(property)
		if !ok {
			continue
		}
		fields[name] = value

		if property.Type == notion.DBPropTypeDate && property.Date != nil && property.Date.End != nil {
			endFields[name+" End"] = formatNotionDate(*property.Date.End)
		}
	}

	for name, value := range endFields {
		if _, exists := fields[name]; !exists {
			fields[name] = value
		}
	}

	return fields
}

func propertyValue(p notion.DatabasePageProperty) (any, bool) {
	switch p.Type {
	case notion.DBPropTypeTitle:
		return richTextToString(p.Title), true
	case notion.DBPropTypeRichText:
		return richTextToString(p.RichText), true
	case notion.DBPropTypeNumber:
		if p.Number != nil {
			return *p.Number, true
		}
	case notion.DBPropTypeCheckbox:
		if p.Checkbox != nil {
			return *p.Checkbox, true
		}
	case notion.DBPropTypeSelect:
		if p.Select != nil {
			return p.Select.Name, true
		}
	case notion.DBPropTypeStatus:
		if p.Status != nil {
			return p.Status.Name, true
		}
	case notion.DBPropTypeMultiSelect:
		names := make([]any, 0, len(p.MultiSelect))
		for _, opt := range p.MultiSelect {
			names = append(names, opt.Name)
		}
		return names, true
	case notion.DBPropTypeDate:
		if p.Date != nil {
			return formatNotionDate(p.Date.Start), true
		}
	case notion.DBPropTypeURL:
		if p.URL != nil {
			return *p.URL, true
		}
	case notion.DBPropTypeEmail:
		if p.Email != nil {
			return *p.Email, true
		}
	case notion.DBPropTypePhoneNumber:
		if p.PhoneNumber != nil {
			return *p.PhoneNumber, true
		}
	case notion.DBPropTypeFiles:
		attachments := make([]any, 0, len(p.Files))
		for _, file := range p.Files {
			attachments = append(attachments, map[string]any{
				"filename": file.Name,
				"url":      fileToString(file.Type, file.File, file.External),
			})
		}
		return attachments, true
	}
	return nil, false
}

func formatNotionDate(dt notion.DateTime) string {
	if dt.HasTime() {
		return dt.Time.Format(time.RFC3339)
	}
	return dt.Time.Format(time.DateOnly)
}

func richTextToString(rt []notion.RichText) string {
	var s string
	for _, rts := range rt {
		s += rts.PlainText
	}
	return s
}

func fileToString(t notion.FileType, f *notion.FileFile, e *notion.FileExternal) string {
	switch t {
	case notion.FileTypeFile:
		if f != nil {
			return f.URL
		}
	case notion.FileTypeExternal:
		if e != nil {
			return e.URL
		}
	}
	return ""
}
