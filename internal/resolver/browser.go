package resolver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/Huudle/flow-fusion/internal/model"
	"github.com/Huudle/flow-fusion/pkg/ytid"
)

const defaultBrowserTimeout = 30 * time.Second

// indicatorSelectors signal that the rendered page carries its channel
// metadata; the first one to appear wins the race.
var indicatorSelectors = []string{
	`meta[property="og:url"]`,
	`link[rel="canonical"]`,
	`meta[itemprop="channelId"]`,
}

const pageMetaJS = `() => {
	const attr = (sel, name) => {
		const el = document.querySelector(sel);
		return el ? (el.getAttribute(name) || '') : '';
	};
	return {
		canonical: attr('meta[property="og:url"]', 'content') || attr('link[rel="canonical"]', 'href'),
		title: attr('meta[property="og:title"]', 'content') || document.title,
		thumbnail: attr('meta[property="og:image"]', 'content'),
	};
}`

// pageMeta is the canonical/title/thumbnail triad read from the rendered DOM.
type pageMeta struct {
	Canonical string
	Title     string
	Thumbnail string
}

// browserSession is one isolated headless-browser run. Close must release the
// underlying process on every path.
type browserSession interface {
	// Navigate loads the URL and returns the document response status.
	// Status 0 means the status could not be observed.
	Navigate(url string) (int, error)
	// WaitIndicator blocks until one of the selectors appears or the
	// session timeout elapses.
	WaitIndicator(selectors ...string) error
	// PageMeta evaluates the rendered document for the metadata triad.
	PageMeta() (pageMeta, error)
	// Location returns the post-navigation URL and page title.
	Location() (url, title string, err error)
	Close()
}

// BrowserScraper is the last-resort strategy: a full headless render. The
// most expensive and the least reliable long-term, it exists purely as a
// safety net behind the feed and HTML strategies.
type BrowserScraper struct {
	timeout    time.Duration
	newSession func(ctx context.Context) (browserSession, error)
}

// NewBrowserScraper builds the strategy. binPath selects the Chromium
// executable; empty means rod's platform default resolution.
func NewBrowserScraper(binPath string, timeout time.Duration) *BrowserScraper {
	if timeout <= 0 {
		timeout = defaultBrowserTimeout
	}
	return &BrowserScraper{
		timeout: timeout,
		newSession: func(ctx context.Context) (browserSession, error) {
			return newRodSession(ctx, binPath, timeout)
		},
	}
}

func (b *BrowserScraper) Name() string { return "browser" }

// Resolve renders the channel page and reads the metadata from the DOM. The
// session is torn down on every exit path.
func (b *BrowserScraper) Resolve(ctx context.Context, handle string) Outcome {
	sess, err := b.newSession(ctx)
	if err != nil {
		return failure(fmt.Errorf("%w: %v", ErrBrowserLaunch, err))
	}
	defer sess.Close()

	status, err := sess.Navigate(defaultBaseURL + "/@" + handle)
	if err != nil {
		return failure(fmt.Errorf("%w: navigate: %v", ErrBrowserLaunch, err))
	}
	switch {
	case status == http.StatusNotFound:
		return failure(fmt.Errorf("%w: channel page returned 404 for %q", ErrNotFound, handle))
	case status != 0 && (status < 200 || status >= 300):
		return failure(fmt.Errorf("%w: channel page returned status %d", ErrFetch, status))
	}

	if err := sess.WaitIndicator(indicatorSelectors...); err != nil {
		// No indicator in time. The navigation may still have landed on a
		// canonical /channel/<ID> URL; build a minimal result from it.
		if loc, title, lerr := sess.Location(); lerr == nil {
			if id := ytid.FromURL(loc); id != "" {
				return success(minimalChannel(id, title, handle))
			}
		}
		return failure(fmt.Errorf("%w: no indicator element within %s", ErrTimeout, b.timeout))
	}

	meta, err := sess.PageMeta()
	if err != nil {
		return failure(fmt.Errorf("%w: evaluate page: %v", ErrBrowserLaunch, err))
	}

	channelID := ytid.FromURL(meta.Canonical)
	if channelID == "" {
		if loc, _, lerr := sess.Location(); lerr == nil {
			channelID = ytid.FromURL(loc)
		}
	}
	if channelID == "" {
		return failure(fmt.Errorf("%w: rendered page carries no channel id for %q", ErrIDNotFound, handle))
	}

	uri := meta.Canonical
	if uri == "" {
		uri = ytid.ChannelURL(channelID)
	}
	title := cleanPageTitle(meta.Title, handle)

	return success(&model.ResolvedChannel{
		ChannelID: channelID,
		Title:     title,
		Author:    title,
		URI:       uri,
		Thumbnail: meta.Thumbnail,
	})
}

// minimalChannel is the URL-fallback result: ID and title only, no thumbnail
// or view count.
func minimalChannel(id, title, handle string) *model.ResolvedChannel {
	title = cleanPageTitle(title, handle)
	return &model.ResolvedChannel{
		ChannelID: id,
		Title:     title,
		Author:    title,
		URI:       ytid.ChannelURL(id),
	}
}

func cleanPageTitle(title, handle string) string {
	title = strings.TrimSpace(strings.TrimSuffix(title, titleSuffix))
	if title == "" {
		return handle
	}
	return title
}

// rodSession drives a real Chromium process through go-rod.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
}

func newRodSession(ctx context.Context, binPath string, timeout time.Duration) (browserSession, error) {
	l := launcher.New().
		Headless(true).
		Set("no-sandbox").
		Set("disable-extensions").
		Set("disable-plugins")
	if binPath != "" {
		l = l.Bin(binPath)
	}

	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	// Once Launch has succeeded a Chromium process exists; Cleanup only
	// removes the user-data dir, so failure paths must Kill it too.
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: browserUserAgent}); err != nil {
		_ = page.Close()
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("set user agent: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1280,
		Height:            800,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = page.Close()
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	return &rodSession{launcher: l, browser: browser, page: page, timeout: timeout}, nil
}

func (s *rodSession) Navigate(url string) (int, error) {
	e := proto.NetworkResponseReceived{}
	wait := s.page.Timeout(s.timeout).WaitEvent(&e)
	if err := s.page.Timeout(s.timeout).Navigate(url); err != nil {
		return 0, err
	}
	wait()
	if e.Response == nil {
		return 0, nil
	}
	return e.Response.Status, nil
}

func (s *rodSession) WaitIndicator(selectors ...string) error {
	race := s.page.Timeout(s.timeout).Race()
	for _, sel := range selectors {
		race = race.Element(sel)
	}
	_, err := race.Do()
	return err
}

func (s *rodSession) PageMeta() (pageMeta, error) {
	obj, err := s.page.Timeout(s.timeout).Eval(pageMetaJS)
	if err != nil {
		return pageMeta{}, err
	}
	return pageMeta{
		Canonical: obj.Value.Get("canonical").Str(),
		Title:     obj.Value.Get("title").Str(),
		Thumbnail: obj.Value.Get("thumbnail").Str(),
	}, nil
}

func (s *rodSession) Location() (string, string, error) {
	info, err := s.page.Timeout(s.timeout).Info()
	if err != nil {
		return "", "", err
	}
	return info.URL, info.Title, nil
}

func (s *rodSession) Close() {
	_ = s.page.Close()
	_ = s.browser.Close()
	s.launcher.Cleanup()
}
