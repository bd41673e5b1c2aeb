// Package collector runs one update cycle: load the dataset, work out
// which months are missing, fetch them in a single batch and merge the
// result back into the document.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/josaatt/josaatt.github.io/internal/period"
	"github.com/josaatt/josaatt.github.io/internal/providers"
	"github.com/josaatt/josaatt.github.io/internal/providers/scb"
	"github.com/josaatt/josaatt.github.io/internal/store"
)

type Collector struct {
	Provider providers.Provider
	Store    store.Store
	Logger   *slog.Logger

	// DryRun fetches and merges but never writes the dataset.
	DryRun bool

	// Now is the clock used to pick the target end month. Defaults to
	// time.Now; tests inject a fixed date.
	Now func() time.Time
}

type Result struct {
	Fetched int
	Added   int
	Wrote   bool
}

// Run executes one update cycle. The no-op outcomes (no baseline, nothing
// to fetch, months not yet published, nothing new after de-dup) all return
// a nil error: the dataset is simply left untouched.
func (c *Collector) Run(ctx context.Context) (Result, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}

	snapshot, err := c.Store.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	if !snapshot.HasBaseline {
		// Never bootstrap from nothing: a fabricated starting point would
		// look like an authoritative, complete history.
		logger.Info("no existing data found, skipping to avoid writing a partial history")
		return Result{}, nil
	}

	end := period.LastElapsed(now())
	if !snapshot.LatestComplete.Before(end) {
		logger.Info("no new months to fetch", "latest", snapshot.LatestComplete.String())
		return Result{}, nil
	}

	months := period.Range(snapshot.LatestComplete, end)
	logger.Info("fetching months",
		"from", months[0].String(),
		"to", months[len(months)-1].String(),
		"count", len(months))

	rows, err := c.Provider.FetchMonths(ctx, months)
	if err != nil {
		if errors.Is(err, scb.ErrNotPublished) {
			logger.Info("months not yet published upstream", "err", err)
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("fetching %d months: %w", len(months), err)
	}

	merged := snapshot.Observations
	added := 0
	for _, row := range rows {
		key := row.Key()
		if _, ok := snapshot.Seen[key]; ok {
			continue
		}
		merged = append(merged, row)
		snapshot.Seen[key] = struct{}{}
		added++
	}

	if added == 0 {
		logger.Info("no new rows after de-duplication", "fetched", len(rows))
		return Result{Fetched: len(rows)}, nil
	}

	if c.DryRun {
		logger.Info("dry run, skipping dataset write", "added", added)
		return Result{Fetched: len(rows), Added: added}, nil
	}

	if err := c.Store.Write(ctx, merged); err != nil {
		return Result{}, err
	}
	logger.Info("dataset updated", "added", added, "total", len(merged))
	return Result{Fetched: len(rows), Added: added, Wrote: true}, nil
}
