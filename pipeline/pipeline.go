// Package pipeline orchestrates one scraping run end to end: fetch the list
// page, extract or follow into records, normalize URLs, then export and
// validate the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"prodscrape/config"
	"prodscrape/fetcher"
	"prodscrape/parser"
	"prodscrape/record"
	"prodscrape/validator"
)

// ErrNoRecords is returned when a run completes without extracting any
// records: the list had no items, or every detail fetch failed.
var ErrNoRecords = errors.New("no records extracted")

// Exporter persists an ordered record sequence. Implementations live in the
// exporter package.
type Exporter interface {
	Export(records []*record.Record) error
}

// Options are the per-run knobs that do not belong to the target
// descriptor.
type Options struct {
	// Limit truncates the number of items processed; 0 means no limit.
	Limit int
	// Delay is an optional politeness pause between detail page fetches.
	Delay time.Duration
	// DryRun skips the export step.
	DryRun bool
	// ValidationEnabled controls whether a quality summary is computed.
	ValidationEnabled bool
}

// Result is the outcome of a successful run.
type Result struct {
	RunID   uuid.UUID
	Records []*record.Record
	// Summary is nil when validation is disabled.
	Summary *validator.Summary
	// SkippedURLs lists detail pages that failed to fetch and were dropped.
	SkippedURLs []string
}

// Pipeline drives scraping runs. It is safe to reuse across runs; each run
// keeps its own state.
type Pipeline struct {
	fetcher  *fetcher.Fetcher
	exporter Exporter
	logger   *slog.Logger
}

// New creates a pipeline. A nil logger falls back to slog.Default; a nil
// exporter turns every run into a dry run.
func New(f *fetcher.Fetcher, exp Exporter, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{fetcher: f, exporter: exp, logger: logger}
}

// Run executes one scraping run for the target. The list page fetch is
// fatal; individual detail page failures are skipped and reported in the
// result. A run with zero records fails with ErrNoRecords before any export
// happens.
func (p *Pipeline) Run(ctx context.Context, target config.Target, opts Options) (*Result, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}

	runID := uuid.New()
	logger := p.logger.With("run_id", runID, "target", target.Name)
	logger.Info("starting run", "list_url", target.ListURL)

	listHTML, err := p.fetcher.Get(ctx, target.ListURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch list page: %w", err)
	}

	var records []*record.Record
	var skipped []string
	switch target.Mode() {
	case config.ModeListOnly:
		records, err = p.runListOnly(target, listHTML, opts)
	default:
		records, skipped, err = p.runDetailFollow(ctx, logger, target, listHTML, opts)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("extracted records", "count", len(records), "skipped", len(skipped))
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	result := &Result{
		RunID:       runID,
		Records:     records,
		SkippedURLs: skipped,
	}

	if opts.DryRun || p.exporter == nil {
		logger.Info("dry run enabled; skipping export")
	} else if err := p.exporter.Export(records); err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}

	if opts.ValidationEnabled {
		result.Summary = validator.Validate(records)
	}

	return result, nil
}

// runDetailFollow fetches every linked detail page and extracts one record
// per page, in list order. Fetch failures skip the page and continue.
func (p *Pipeline) runDetailFollow(ctx context.Context, logger *slog.Logger, target config.Target, listHTML string, opts Options) ([]*record.Record, []string, error) {
	links, err := parser.NewListLinkExtractor(target.LinkSelector).Extract(listHTML)
	if err != nil {
		return nil, nil, fmt.Errorf("parse list page: %w", err)
	}

	urls := make([]string, 0, len(links))
	for _, link := range links {
		urls = append(urls, ResolveLink(target.ListURL, link))
	}
	if opts.Limit > 0 && len(urls) > opts.Limit {
		urls = urls[:opts.Limit]
	}
	logger.Info("found product links", "count", len(urls))

	extractor := parser.NewDetailExtractor(target.DetailSelectors.Fields())

	var records []*record.Record
	var skipped []string
	for i, detailURL := range urls {
		if i > 0 && opts.Delay > 0 {
			sleep(ctx, opts.Delay)
		}

		html, err := p.fetcher.Get(ctx, detailURL)
		if err != nil {
			logger.Warn("skipping detail page", "url", detailURL, "err", err)
			skipped = append(skipped, detailURL)
			continue
		}

		rec, err := extractor.Extract(html)
		if err != nil {
			logger.Warn("skipping unparseable detail page", "url", detailURL, "err", err)
			skipped = append(skipped, detailURL)
			continue
		}

		rec.Set("detail_url", detailURL)
		rec.Set("source_list_url", target.ListURL)
		NormalizeRecordURLs(rec, detailURL)
		records = append(records, rec)
	}

	return records, skipped, nil
}

// runListOnly extracts complete records from the list page itself.
func (p *Pipeline) runListOnly(target config.Target, listHTML string, opts Options) ([]*record.Record, error) {
	records, err := parser.NewListItemExtractor(target.ItemSelector, target.ItemFields.Fields()).Extract(listHTML)
	if err != nil {
		return nil, fmt.Errorf("parse list page: %w", err)
	}

	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}

	for _, rec := range records {
		rec.Set("source_list_url", target.ListURL)
		NormalizeRecordURLs(rec, target.ListURL)
	}
	return records, nil
}

// validateTarget guards the mode dispatch before any network activity.
func validateTarget(target config.Target) error {
	if target.ListURL == "" {
		return &config.Error{Reason: "target must include a non-empty 'list_url'"}
	}
	switch target.Mode() {
	case config.ModeListOnly:
		if target.ItemSelector == "" {
			return &config.Error{Reason: "list-only target must include a non-empty 'item_selector'"}
		}
		if target.ItemFields.Len() == 0 {
			return &config.Error{Reason: "list-only target must include a non-empty 'item_fields' mapping"}
		}
	default:
		if target.LinkSelector == "" {
			return &config.Error{Reason: "target must include a non-empty 'link_selector'"}
		}
	}
	return nil
}

// sleep blocks for d or until the context ends.
func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
