// Command prodscrape runs the product scraping pipeline for one configured
// target and exports the result.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"prodscrape/config"
	"prodscrape/exporter"
	"prodscrape/fetcher"
	"prodscrape/pipeline"
	"prodscrape/validator"
)

var (
	configPath   string
	settingsPath string
	outputPath   string
	outputFormat string
	targetName   string
	limit        int
	dryRun       bool
)

var rootCmd = &cobra.Command{
	Use:          "prodscrape",
	Short:        "Scrape product list pages into structured records.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "config/targets.yml", "Path to the YAML targets file.")
	rootCmd.Flags().StringVar(&settingsPath, "settings", "config/settings.yml", "Path to the optional YAML settings file.")
	rootCmd.Flags().StringVar(&outputPath, "output", "sample_output/products.csv", "Path to the output file.")
	rootCmd.Flags().StringVar(&outputFormat, "format", "csv", "Output format: csv, json, or sqlite.")
	rootCmd.Flags().StringVar(&targetName, "target", "", "Name of the target to run; defaults to the first target.")
	rootCmd.Flags().IntVar(&limit, "limit", 0, "Limit the number of items to process; 0 means no limit.")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without writing any output.")
}

func run(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	configureLogging(settings.Logging.Level)

	targets, err := config.LoadTargets(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	target, err := config.SelectTarget(targets, targetName)
	if err != nil {
		return err
	}

	sink, err := buildExporter(outputFormat, outputPath)
	if err != nil {
		return err
	}

	f := fetcher.New(fetcher.Options{
		Timeout:           settings.HTTP.Timeout(),
		MaxRetries:        settings.HTTP.MaxRetries,
		UserAgent:         settings.HTTP.UserAgent,
		RetryBackoff:      settings.HTTP.RetryBackoff(),
		BackoffMultiplier: settings.HTTP.RetryBackoffMultiplier,
		RetryJitterMax:    settings.HTTP.RetryJitter(),
	})

	pipe := pipeline.New(f, sink, slog.Default())
	result, err := pipe.Run(cmd.Context(), target, pipeline.Options{
		Limit:             limit,
		Delay:             settings.HTTP.Delay(),
		DryRun:            dryRun,
		ValidationEnabled: settings.ValidationEnabled(),
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrNoRecords) {
			return fmt.Errorf("no records parsed; aborting")
		}
		return err
	}

	if !dryRun {
		slog.Info("wrote output", "path", outputPath, "format", outputFormat)
	}
	if result.Summary != nil {
		fmt.Println(validator.Format(result.Summary))
	}
	return nil
}

// buildExporter maps the --format flag to an output sink.
func buildExporter(format, path string) (pipeline.Exporter, error) {
	switch strings.ToLower(format) {
	case "csv":
		return exporter.NewCSV(path), nil
	case "json":
		return exporter.NewJSON(path), nil
	case "sqlite":
		return exporter.NewSQLite(path, "products"), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected csv, json, or sqlite)", format)
	}
}

// configureLogging installs a text handler at the configured level. Unknown
// level names fall back to info.
func configureLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
