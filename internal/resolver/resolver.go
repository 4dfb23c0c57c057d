// Package resolver turns a human-readable YouTube handle into a stable
// channel ID plus metadata through a cascade of three strategies: the public
// video feed, static HTML scraping, and a headless-browser render. Strategies
// escalate in cost, so each one is attempted exactly once and the first
// success wins.
package resolver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Huudle/flow-fusion/internal/model"
	"github.com/Huudle/flow-fusion/pkg/ytid"
)

// Outcome is the tagged result of one strategy attempt. Err == nil means
// success and Channel is non-nil; otherwise Err classifies the failure.
type Outcome struct {
	Channel *model.ResolvedChannel
	Err     error
}

func success(ch *model.ResolvedChannel) Outcome {
	return Outcome{Channel: ch}
}

func failure(err error) Outcome {
	return Outcome{Err: err}
}

// Strategy is a single resolution method. Implementations are pure functions
// of the handle plus network I/O; they never panic across this boundary.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, handle string) Outcome
}

// Observer is notified after every strategy attempt. Used for metrics.
type Observer func(strategy, outcome string, elapsed time.Duration)

// Resolver sequences the strategies. It holds no per-request state; one
// Resolver serves concurrent resolution calls.
type Resolver struct {
	strategies []Strategy
	observe    Observer
	logger     zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithObserver installs a per-attempt callback.
func WithObserver(obs Observer) Option {
	return func(r *Resolver) { r.observe = obs }
}

// WithStrategies replaces the default strategy chain. Used in tests.
func WithStrategies(strategies ...Strategy) Option {
	return func(r *Resolver) { r.strategies = strategies }
}

// WithLogger sets the logger used for escalation events.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// Config carries the resolver knobs from the environment.
type Config struct {
	// FeedTimeout bounds the feed and HTML fetches.
	FeedTimeout time.Duration
	// BrowserTimeout bounds headless navigation and indicator waits.
	BrowserTimeout time.Duration
	// BrowserPath is the Chromium executable. Empty means rod's default
	// platform resolution.
	BrowserPath string
}

// New builds a Resolver with the default feed → HTML → browser chain.
func New(cfg Config, opts ...Option) *Resolver {
	client := &http.Client{Timeout: cfg.FeedTimeout}
	r := &Resolver{
		strategies: []Strategy{
			NewFeedFetcher(client),
			NewHTMLExtractor(client),
			NewBrowserScraper(cfg.BrowserPath, cfg.BrowserTimeout),
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the strategy chain for the given handle. Every failure except
// the last strategy's is recovered and converted into escalation; only the
// final strategy's failure surfaces to the caller, wrapped with its cause.
func (r *Resolver) Resolve(ctx context.Context, rawHandle string) (*model.ResolvedChannel, error) {
	handle := ytid.NormalizeHandle(rawHandle)

	var lastErr error
	for _, s := range r.strategies {
		start := time.Now()
		out := s.Resolve(ctx, handle)
		elapsed := time.Since(start)

		if out.Err == nil {
			if r.observe != nil {
				r.observe(s.Name(), "success", elapsed)
			}
			r.logger.Debug().
				Str("strategy", s.Name()).
				Str("channel_id", out.Channel.ChannelID).
				Dur("elapsed_ms", elapsed).
				Msg("resolved")
			return out.Channel, nil
		}

		if r.observe != nil {
			r.observe(s.Name(), "failure", elapsed)
		}
		r.logger.Warn().
			Str("strategy", s.Name()).
			Err(out.Err).
			Dur("elapsed_ms", elapsed).
			Msg("strategy failed, escalating")
		lastErr = out.Err
	}

	return nil, fmt.Errorf("resolve handle %q: %w", handle, lastErr)
}
