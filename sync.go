package airtable_timeline

import (
	"context"
	"time"
)

// SyncOptions controls where a sync writes its outputs.
type SyncOptions struct {
	// OutPath is the JSON document. Required.
	OutPath string
	// ICalPath is an optional iCal feed of the same events.
	ICalPath string
	// MetricsPath is an optional Prometheus textfile.
	MetricsPath string
	// Metrics receives run statistics. Created on demand when MetricsPath
	// is set.
	Metrics *Metrics
	// Clock stamps the document. Defaults to time.Now.
	Clock func() time.Time
}

// Result summarizes a successful sync.
type Result struct {
	Stats
	Path string
}

// Sync reads every record from source and replaces the output document. No
// file is touched unless every page was read successfully. Once the document
// is written, failures of the iCal feed or metrics are logged and do not fail
// the sync.
func Sync(ctx context.Context, source Source, opts SyncOptions) (Result, error) {
	logger := NewLogger("sync")
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	if opts.OutPath == "" {
		opts.OutPath = DefaultOutPath
	}
	started := clock()

	records, err := source.ReadAll(ctx)
	if err != nil {
		return Result{}, err
	}

	doc, stats := AssembleWithStats(records, clock())
	if stats.Dropped > 0 {
		logger.Info().Int("dropped", stats.Dropped).Msg("dropped records without title or start")
	}

	if err := WriteJSON(doc, opts.OutPath); err != nil {
		return Result{}, err
	}

	if opts.ICalPath != "" {
		if err := SaveICal(doc, source.Name(), opts.ICalPath); err != nil {
			logger.Warn().Err(err).Str("path", opts.ICalPath).Msg("unable to write iCal feed")
		}
	}

	if opts.MetricsPath != "" {
		m := opts.Metrics
		if m == nil {
			m = NewMetrics()
		}
		finished := clock()
		m.observeSync(stats, finished, finished.Sub(started))
		if err := m.WriteTextfile(opts.MetricsPath); err != nil {
			logger.Warn().Err(err).Str("path", opts.MetricsPath).Msg("unable to write metrics")
		}
	}

	logger.Info().
		Str("source", source.Name()).
		Int("records", stats.Records).
		Int("events", stats.Events).
		Str("path", opts.OutPath).
		Msg("sync finished")

	return Result{Stats: stats, Path: opts.OutPath}, nil
}
