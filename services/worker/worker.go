// Package worker drives the check cycle: every extractor runs in parallel,
// results are upserted into the store, and fresh batches go out to the
// publisher and the mail digest.
package worker

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"freegamewatch/config"
	"freegamewatch/internal/extractor"
	"freegamewatch/internal/listing"
	"freegamewatch/logger"
	"freegamewatch/services/notifier"
	"freegamewatch/services/publisher"
	"freegamewatch/services/store"
)

// CycleSummary reports what one check cycle did.
type CycleSummary struct {
	Found   int           `json:"found"`
	Saved   int           `json:"saved"`
	Failed  []string      `json:"failed,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Worker runs check cycles over a set of extractors. Publisher and
// notifier are optional; a nil value disables that output.
type Worker struct {
	ctx        context.Context
	extractors []extractor.Extractor
	store      store.Store
	publisher  publisher.Publisher
	notifier   notifier.Notifier
	cfg        *config.Config
	log        *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	extractors []extractor.Extractor,
	st store.Store,
	pub publisher.Publisher,
	not notifier.Notifier,
	cfg *config.Config,
) *Worker {
	return &Worker{
		ctx:        ctx,
		extractors: extractors,
		store:      st,
		publisher:  pub,
		notifier:   not,
		cfg:        cfg,
		log:        logger.ForWorker(),
	}
}

// enabledStorefronts resolves the enabled set for this moment: the
// admin-editable setting wins, the process config is the fallback.
func (w *Worker) enabledStorefronts() map[listing.Storefront]bool {
	names := w.cfg.EnabledStores
	if raw, err := w.store.Setting("enabled_stores"); err == nil && strings.TrimSpace(raw) != "" {
		names = config.SplitList(raw)
	}

	enabled := make(map[listing.Storefront]bool, len(names))
	for _, name := range names {
		if store, ok := listing.ParseStorefront(name); ok {
			enabled[store] = true
		}
	}
	return enabled
}

// recencyWindow resolves how far back a listing may have been seen and
// still count as current.
func (w *Worker) recencyWindow() time.Duration {
	if raw, err := w.store.Setting("recency_hours"); err == nil {
		if hours, convErr := strconv.Atoi(strings.TrimSpace(raw)); convErr == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return w.cfg.RecencyWindow
}

// RunCycle runs every enabled extractor in parallel and persists
// whatever came back. One failing source never blocks the others; its
// name is recorded in the summary and the cycle carries on. The enabled
// set is re-read each cycle so admin edits take effect without a
// restart.
func (w *Worker) RunCycle() CycleSummary {
	start := time.Now()

	enabled := w.enabledStorefronts()

	g, _ := errgroup.WithContext(w.ctx)
	results := make([][]listing.Listing, len(w.extractors))

	var mu sync.Mutex
	var failed []string

	for i, ex := range w.extractors {
		if !enabled[ex.Storefront()] {
			continue
		}
		i, ex := i, ex
		g.Go(func() error {
			listings, err := ex.Extract()
			if err != nil {
				w.log.Error().Err(err).Str("source", ex.GetName()).Msg("Source failed")
				mu.Lock()
				failed = append(failed, ex.GetName())
				mu.Unlock()
				return nil
			}
			results[i] = listings
			return nil
		})
	}
	g.Wait()

	var batch []listing.Listing
	for _, listings := range results {
		batch = append(batch, listings...)
	}

	saved := 0
	for _, l := range batch {
		if err := w.store.UpsertListing(l); err != nil {
			w.log.Error().Err(err).Str("title", l.Title).Msg("Failed to save listing")
			continue
		}
		saved++
	}

	if w.publisher != nil && len(batch) > 0 {
		if err := w.publisher.PublishListings(batch); err != nil {
			w.log.Error().Err(err).Msg("Failed to publish batch")
		}
	}

	summary := CycleSummary{
		Found:   len(batch),
		Saved:   saved,
		Failed:  failed,
		Elapsed: time.Since(start),
	}
	w.log.Info().
		Int("found", summary.Found).
		Int("saved", summary.Saved).
		Strs("failed", summary.Failed).
		Dur("elapsed", summary.Elapsed).
		Msg("Cycle complete")
	return summary
}

// CurrentListings returns the recently seen listings from the enabled
// storefronts that have not expired, in display order.
func (w *Worker) CurrentListings() ([]listing.Listing, error) {
	recent, err := w.store.RecentListings(w.recencyWindow())
	if err != nil {
		return nil, err
	}

	enabled := w.enabledStorefronts()
	filtered := recent[:0]
	for _, l := range recent {
		if enabled[l.Storefront] {
			filtered = append(filtered, l)
		}
	}

	current := listing.FilterCurrent(filtered, time.Now().UTC())
	listing.SortForDisplay(current)
	return current, nil
}

// RunAndNotify runs one cycle and mails the digest of what is currently
// claimable to the active recipients.
func (w *Worker) RunAndNotify() (CycleSummary, error) {
	summary := w.RunCycle()

	if w.notifier == nil {
		return summary, nil
	}

	current, err := w.CurrentListings()
	if err != nil {
		return summary, err
	}
	recipients, err := w.store.ActiveRecipients()
	if err != nil {
		return summary, err
	}
	return summary, w.notifier.SendDigest(recipients, current)
}

// Start runs cycles on the configured interval until the context is
// cancelled. The first cycle runs immediately.
func (w *Worker) Start() error {
	ticker := time.NewTicker(w.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunAndNotify(); err != nil {
			w.log.Error().Err(err).Msg("Notify failed")
		}

		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-ticker.C:
		}
	}
}
