package service

import (
	"context"
	"log"
	"time"

	"github.com/Huudle/flow-fusion/internal/model"
	"github.com/Huudle/flow-fusion/internal/repository"
	"github.com/Huudle/flow-fusion/internal/resolver"
)

// RefreshWorker is a periodic background job that re-reads each tracked
// channel's public video feed and updates the stored metadata. Only the feed
// strategy is used here; a channel that falls off its feed keeps its last
// known metadata until the next successful refresh.
type RefreshWorker struct {
	repo     *repository.ChannelRepo
	cache    *CacheService
	feed     *resolver.FeedFetcher
	interval time.Duration
	stopCh   chan struct{}
}

// NewRefreshWorker creates a worker that ticks every interval.
func NewRefreshWorker(repo *repository.ChannelRepo, cache *CacheService, feed *resolver.FeedFetcher, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		repo:     repo,
		cache:    cache,
		feed:     feed,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic refresh loop.
// It runs one tick immediately, then every interval.
func (w *RefreshWorker) Start(ctx context.Context) {
	log.Printf("refresh-worker: starting (interval=%s)", w.interval)

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Println("refresh-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Println("refresh-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *RefreshWorker) Stop() {
	close(w.stopCh)
}

// tick runs one cycle: refresh every channel whose metadata is stale.
func (w *RefreshWorker) tick(ctx context.Context) {
	start := time.Now()

	channels, err := w.repo.All(ctx)
	if err != nil {
		log.Printf("refresh-worker: error listing channels: %v", err)
		return
	}

	now := time.Now()
	var refreshed, skipped, failed int
	for i := range channels {
		ch := &channels[i]
		if !shouldRefresh(ch.RefreshedAt, w.interval, now) {
			skipped++
			continue
		}
		if err := w.refreshChannel(ctx, ch); err != nil {
			log.Printf("refresh-worker: error refreshing %s: %v", ch.ChannelID, err)
			failed++
			continue
		}
		refreshed++
	}

	elapsed := time.Since(start)
	log.Printf("refresh-worker: tick complete — %d refreshed, %d fresh, %d failed (%s)",
		refreshed, skipped, failed, elapsed.Round(time.Millisecond))
}

// refreshChannel re-reads one channel's feed and persists the result.
func (w *RefreshWorker) refreshChannel(ctx context.Context, ch *model.Channel) error {
	out := w.feed.Resolve(ctx, ch.Handle)
	if out.Err != nil {
		return out.Err
	}

	updated := *ch
	updated.Name = out.Channel.Title
	updated.URI = out.Channel.URI
	updated.ViewCount = out.Channel.ViewCount
	updated.LastVideoID = out.Channel.LastVideoID
	updated.LastVideoDate = out.Channel.LastVideoDate
	if out.Channel.Thumbnail != "" {
		updated.Thumbnail = out.Channel.Thumbnail
	}

	if err := w.repo.Upsert(ctx, &updated); err != nil {
		return err
	}
	if w.cache != nil {
		if err := w.cache.InvalidateChannel(ctx, ch.ChannelID); err != nil {
			log.Printf("refresh-worker: cache invalidate error: %v", err)
		}
	}
	return nil
}

// shouldRefresh reports whether a channel refreshed at the given time is due
// again. A zero refreshedAt is always due.
func shouldRefresh(refreshedAt time.Time, interval time.Duration, now time.Time) bool {
	if refreshedAt.IsZero() {
		return true
	}
	return now.Sub(refreshedAt) >= interval
}
