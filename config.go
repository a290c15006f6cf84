package airtable_timeline

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrNoSource = errors.New("no source configured")
var ErrConflictingSources = errors.New("more than one source configured")

// DefaultOutPath is where the document goes when no output is configured.
const DefaultOutPath = "data/events.json"

type AirtableConfig struct {
	Token     string `yaml:"token"`
	BaseID    string `yaml:"base_id"`
	Table     string `yaml:"table"`
	View      string `yaml:"view"`      // optional saved view
	PageSize  int    `yaml:"page_size"` // default 100
	APIURL    string `yaml:"api_url"`   // default https://api.airtable.com/v0
	UserAgent string `yaml:"user_agent"`
}

type NotionConfig struct {
	APIKey     string `yaml:"api_key"`
	DatabaseID string `yaml:"database_id"`
}

type LogSettings struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Config is everything a run needs. It is resolved once at startup.
type Config struct {
	Airtable AirtableConfig `yaml:"airtable"`
	Notion   NotionConfig   `yaml:"notion"`
	CSV      string         `yaml:"csv"` // path to a CSV download instead of the API

	Output      string        `yaml:"output"`       // default data/events.json
	ICal        string        `yaml:"ical"`         // optional iCal feed path
	MetricsFile string        `yaml:"metrics_file"` // optional textfile collector path
	Delay       time.Duration `yaml:"delay"`        // pause between pages
	Timeout     time.Duration `yaml:"timeout"`      // per request

	Log LogSettings `yaml:"log"`
}

// DefaultConfig returns the values used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		Airtable: AirtableConfig{PageSize: DefaultPageSize},
		Output:   DefaultOutPath,
		Delay:    time.Duration(DefaultDelay),
		Timeout:  DefaultTimeout,
		Log:      LogSettings{Level: "info"},
	}
}

// LoadConfig reads a YAML file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("unable to read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("unable to parse config %s: %w", path, err)
	}
	return c, nil
}

// NewSourceFromConfig builds the one configured source.
func NewSourceFromConfig(c Config, observer PageObserver) (Source, error) {
	configured := 0
	if c.Airtable.Token != "" {
		configured++
	}
	if c.Notion.APIKey != "" {
		configured++
	}
	if c.CSV != "" {
		configured++
	}
	if configured == 0 {
		return nil, ErrNoSource
	}
	if configured > 1 {
		return nil, fmt.Errorf("%w: set only one of airtable token, notion API key or CSV file", ErrConflictingSources)
	}

	throttle := FixedDelay(c.Delay)

	switch {
	case c.Airtable.Token != "":
		return NewSourceAirtable(ConfigSourceAirtable{
			Token:     c.Airtable.Token,
			BaseID:    c.Airtable.BaseID,
			Table:     c.Airtable.Table,
			View:      c.Airtable.View,
			PageSize:  c.Airtable.PageSize,
			BaseURL:   c.Airtable.APIURL,
			UserAgent: c.Airtable.UserAgent,
			Timeout:   c.Timeout,
			Throttle:  throttle,
			Observer:  observer,
		})
	case c.Notion.APIKey != "":
		return NewSourceNotion(ConfigSourceNotion{
			APIKey:     c.Notion.APIKey,
			DatabaseID: c.Notion.DatabaseID,
			PageSize:   c.Airtable.PageSize,
			Timeout:    c.Timeout,
			Throttle:   throttle,
			Observer:   observer,
		})
	default:
		return NewSourceCSV(ConfigSourceCSV{Path: c.CSV})
	}
}
