package airtable_timeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAirtableURL = "https://api.airtable.com/v0"
	DefaultPageSize    = 100
	DefaultTimeout     = 30 * time.Second
)

var ErrAPI = errors.New("API error")

// APIError is returned when the API answers with a non-success status.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%v: %s", ErrAPI, e.Status)
	}
	return fmt.Sprintf("%v: %s: %s", ErrAPI, e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	return ErrAPI
}

// ConfigSourceAirtable represents configuration for reading a table from the
// Airtable API.
type ConfigSourceAirtable struct {
	// Token is the personal access token sent as a bearer credential.
	Token string
	// BaseID and Table identify the table to read.
	BaseID string
	Table  string
	// View optionally applies a saved view's filter and sort on the server.
	View string
	// PageSize is the number of records requested per page.
	PageSize int
	// BaseURL overrides the API root, mostly for tests.
	BaseURL string
	// UserAgent is sent when set.
	UserAgent string
	// Timeout applies to every page request.
	Timeout time.Duration
	// HTTPClient replaces the default client. Timeout is ignored when set.
	HTTPClient *http.Client
	// Throttle runs between pages. Defaults to DefaultDelay.
	Throttle Throttle
	// Observer is told about every page.
	Observer PageObserver
}

type SourceAirtable struct {
	config   ConfigSourceAirtable
	client   *http.Client
	endpoint string
}

func NewSourceAirtable(config ConfigSourceAirtable) (SourceAirtable, error) {
	if config.Token == "" {
		return SourceAirtable{}, fmt.Errorf("%w: airtable token", ErrMissingConfig)
	}
	if config.BaseID == "" || config.Table == "" {
		return SourceAirtable{}, fmt.Errorf("%w: airtable base ID and table name", ErrMissingConfig)
	}
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	config.Throttle = throttleOrDefault(config.Throttle)

	base := strings.TrimRight(config.BaseURL, "/")
	if base == "" {
		base = DefaultAirtableURL
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return SourceAirtable{
		config:   config,
		client:   client,
		endpoint: base + "/" + url.PathEscape(config.BaseID) + "/" + url.PathEscape(config.Table),
	}, nil
}

func (s SourceAirtable) Name() string {
	return s.config.Table
}

// ReadAll follows offsets until the API stops returning one. Any failed page
// fails the whole read.
func (s SourceAirtable) ReadAll(ctx context.Context) ([]RawRecord, error) {
	logger := NewLogger("airtable")
	records := make([]RawRecord, 0)
	offset := ""
	pages := 0

	for {
		page, err := s.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		pages++
		records = append(records, page.Records...)
		observePage(s.config.Observer, len(page.Records))

		logger.Debug().
			Str("table", s.config.Table).
			Int("page", pages).
			Int("records", len(page.Records)).
			Bool("more", page.Offset != "").
			Msg("fetched page")

		if page.Offset == "" {
			break
		}
		offset = page.Offset

		if err := s.config.Throttle.Wait(ctx); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("table", s.config.Table).
		Int("pages", pages).
		Int("records", len(records)).
		Msg("fetched table")

	return records, nil
}

func (s SourceAirtable) query(offset string) url.Values {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(s.config.PageSize))
	if s.config.View != "" {
		q.Set("view", s.config.View)
	}
	if offset != "" {
		q.Set("offset", offset)
	}
	return q
}

func (s SourceAirtable) fetchPage(ctx context.Context, offset string) (recordPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+s.query(offset).Encode(), nil)
	if err != nil {
		return recordPage{}, err
	}
	req.Header.Set("Authorization", "Bearer "+s.config.Token)
	req.Header.Set("Content-Type", "application/json")
	if s.config.UserAgent != "" {
		req.Header.Set("User-Agent", s.config.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return recordPage{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return recordPage{}, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	var page recordPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return recordPage{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return page, nil
}
