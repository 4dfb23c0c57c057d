package resolver

import "errors"

// Sentinel errors for the resolution pipeline. Strategies wrap these with
// fmt.Errorf("...: %w", ...) so callers can classify failures with errors.Is.
var (
	// ErrNotFound means the target channel does not exist.
	ErrNotFound = errors.New("channel not found")
	// ErrFetch means an outbound request returned a non-success status other
	// than not-found.
	ErrFetch = errors.New("fetch failed")
	// ErrParse means the feed or page was fetched but structurally invalid.
	ErrParse = errors.New("parse failed")
	// ErrIDNotFound means the document was fetched but no channel ID pattern
	// matched.
	ErrIDNotFound = errors.New("channel id not found")
	// ErrTimeout means a browser wait exceeded its bound.
	ErrTimeout = errors.New("browser wait timed out")
	// ErrBrowserLaunch means the headless browser process could not be
	// started or driven.
	ErrBrowserLaunch = errors.New("browser launch failed")
)
