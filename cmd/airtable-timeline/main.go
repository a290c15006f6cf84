package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/serverwentdown/airtable-timeline"
	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("airtable-timeline failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 "airtable-timeline",
		Usage:                "sync an Airtable table of events to a JSON document for a static timeline",
		EnableBashCompletion: true,
		Suggest:              true,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    "config",
				Aliases: []string{"c"},
				EnvVars: []string{"AIRTABLE_TIMELINE_CONFIG"},
				Usage:   "read settings from this YAML file, flags take precedence",
			},
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"k"},
				EnvVars: []string{"AIRTABLE_TOKEN"},
				Usage:   "read events from the Airtable API using this token",
			},
			&cli.StringFlag{
				Name:    "base-id",
				Aliases: []string{"b"},
				EnvVars: []string{"AIRTABLE_BASE_ID"},
				Usage:   "read events from this Airtable base",
			},
			&cli.StringFlag{
				Name:    "table",
				Aliases: []string{"t"},
				EnvVars: []string{"AIRTABLE_TABLE_NAME"},
				Usage:   "read events from this table",
			},
			&cli.StringFlag{
				Name:    "view",
				EnvVars: []string{"AIRTABLE_VIEW_NAME"},
				Usage:   "apply the filter and sort of this view",
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "records to request per page",
				Value: airtable_timeline.DefaultPageSize,
			},
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "Airtable API root",
				Value: airtable_timeline.DefaultAirtableURL,
			},
			&cli.StringFlag{
				Name:    "notion-api-key",
				EnvVars: []string{"NOTION_API_KEY"},
				Usage:   "read events from a Notion database using this API key instead",
			},
			&cli.StringFlag{
				Name:    "notion-database-id",
				EnvVars: []string{"NOTION_DATABASE_ID"},
				Usage:   "read events from this Notion database",
			},
			&cli.PathFlag{
				Name:  "csv",
				Usage: "read events from this CSV download instead",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "pause between page requests",
				Value: time.Duration(airtable_timeline.DefaultDelay),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "timeout for each page request",
				Value: airtable_timeline.DefaultTimeout,
			},
			&cli.PathFlag{
				Name:    "output",
				Aliases: []string{"o"},
				EnvVars: []string{"OUT_PATH"},
				Usage:   "output JSON file path",
				Value:   airtable_timeline.DefaultOutPath,
			},
			&cli.PathFlag{
				Name:  "ical",
				Usage: "also write an iCal feed to this path",
			},
			&cli.PathFlag{
				Name:  "metrics-file",
				Usage: "also write run metrics for the node_exporter textfile collector",
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Usage:   "one of debug, info, warn or error",
				Value:   "info",
			},
			&cli.BoolFlag{
				Name:  "log-pretty",
				Usage: "log human-readable lines instead of JSON",
			},
		},
		Action: syncAction,
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "write the events document (the default)",
				Action: syncAction,
			},
			{
				Name:  "print",
				Usage: "print the events document to stdout without writing files",
				Action: func(ctx *cli.Context) error {
					cfg, err := configFromFlags(ctx)
					if err != nil {
						return err
					}
					source, err := airtable_timeline.NewSourceFromConfig(cfg, nil)
					if err != nil {
						return sourceError(ctx, err)
					}
					records, err := source.ReadAll(context.Background())
					if err != nil {
						return err
					}
					return airtable_timeline.EncodeJSON(airtable_timeline.Assemble(records, time.Now()), ctx.App.Writer)
				},
			},
		},
	}
}

func syncAction(ctx *cli.Context) error {
	cfg, err := configFromFlags(ctx)
	if err != nil {
		return err
	}

	var metrics *airtable_timeline.Metrics
	var observer airtable_timeline.PageObserver
	if cfg.MetricsFile != "" {
		metrics = airtable_timeline.NewMetrics()
		observer = metrics
	}

	source, err := airtable_timeline.NewSourceFromConfig(cfg, observer)
	if err != nil {
		return sourceError(ctx, err)
	}

	result, err := airtable_timeline.Sync(context.Background(), source, airtable_timeline.SyncOptions{
		OutPath:     cfg.Output,
		ICalPath:    cfg.ICal,
		MetricsPath: cfg.MetricsFile,
		Metrics:     metrics,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "Wrote %d events to %s\n", result.Events, result.Path)
	return nil
}

func sourceError(ctx *cli.Context, err error) error {
	if showErr := cli.ShowAppHelp(ctx); showErr != nil {
		log.Error().Err(showErr).Msg("unable to show help")
	}
	return err
}

// configFromFlags layers flags and environment variables over the config
// file, then sets up logging.
func configFromFlags(ctx *cli.Context) (airtable_timeline.Config, error) {
	cfg := airtable_timeline.DefaultConfig()
	if path := ctx.Path("config"); path != "" {
		var err error
		cfg, err = airtable_timeline.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
	}

	setString := func(name string, dst *string) {
		if ctx.IsSet(name) {
			*dst = ctx.String(name)
		}
	}
	setString("token", &cfg.Airtable.Token)
	setString("base-id", &cfg.Airtable.BaseID)
	setString("table", &cfg.Airtable.Table)
	setString("view", &cfg.Airtable.View)
	setString("api-url", &cfg.Airtable.APIURL)
	setString("notion-api-key", &cfg.Notion.APIKey)
	setString("notion-database-id", &cfg.Notion.DatabaseID)
	setString("csv", &cfg.CSV)
	setString("output", &cfg.Output)
	setString("ical", &cfg.ICal)
	setString("metrics-file", &cfg.MetricsFile)
	setString("log-level", &cfg.Log.Level)

	if ctx.IsSet("page-size") {
		cfg.Airtable.PageSize = ctx.Int("page-size")
	}
	if ctx.IsSet("delay") {
		cfg.Delay = ctx.Duration("delay")
	}
	if ctx.IsSet("timeout") {
		cfg.Timeout = ctx.Duration("timeout")
	}
	if ctx.IsSet("log-pretty") {
		cfg.Log.Pretty = ctx.Bool("log-pretty")
	}

	airtable_timeline.SetupLogging(airtable_timeline.LogConfig{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	return cfg, nil
}
