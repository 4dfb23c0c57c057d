package resolver

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Huudle/flow-fusion/internal/model"
	"github.com/Huudle/flow-fusion/pkg/ytid"
)

const defaultBaseURL = "https://www.youtube.com"

// maxFeedBody bounds how much of a feed response we read.
const maxFeedBody = 4 << 20

// videoFeed is the subset of YouTube's Atom video feed the resolver needs.
// YouTube uses Atom 1.0 with yt: and media: namespace extensions.
type videoFeed struct {
	XMLName xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	Title   string      `xml:"title"`
	Author  feedAuthor  `xml:"author"`
	Entries []feedEntry `xml:"entry"`
}

type feedAuthor struct {
	Name string `xml:"name"`
	URI  string `xml:"uri"`
}

type feedEntry struct {
	VideoID   string     `xml:"http://www.youtube.com/xml/schemas/2015 videoId"`
	Published time.Time  `xml:"published"`
	Group     mediaGroup `xml:"http://search.yahoo.com/mrss/ group"`
}

type mediaGroup struct {
	Thumbnail mediaThumbnail `xml:"http://search.yahoo.com/mrss/ thumbnail"`
	Community mediaCommunity `xml:"http://search.yahoo.com/mrss/ community"`
}

type mediaThumbnail struct {
	URL string `xml:"url,attr"`
}

type mediaCommunity struct {
	Statistics mediaStatistics `xml:"http://search.yahoo.com/mrss/ statistics"`
}

type mediaStatistics struct {
	Views string `xml:"views,attr"`
}

// FeedFetcher resolves a handle through the channel's public video feed.
// Cheapest and most structured strategy; first in the chain. Also reused by
// the background refresh worker because it needs no browser.
type FeedFetcher struct {
	client  *http.Client
	baseURL string
}

// NewFeedFetcher returns a FeedFetcher using the given client.
func NewFeedFetcher(client *http.Client) *FeedFetcher {
	return &FeedFetcher{client: client, baseURL: defaultBaseURL}
}

// WithBaseURL overrides the feed endpoint base. Used in tests.
func (f *FeedFetcher) WithBaseURL(base string) *FeedFetcher {
	f.baseURL = base
	return f
}

func (f *FeedFetcher) Name() string { return "feed" }

// Resolve fetches and parses the video feed for the handle.
func (f *FeedFetcher) Resolve(ctx context.Context, handle string) Outcome {
	feedURL := f.baseURL + "/feeds/videos.xml?user=" + url.QueryEscape(handle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return failure(fmt.Errorf("%w: build feed request: %v", ErrFetch, err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return failure(fmt.Errorf("%w: fetch feed: %v", ErrFetch, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return failure(fmt.Errorf("%w: feed returned 404 for %q", ErrNotFound, handle))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return failure(fmt.Errorf("%w: feed returned status %d", ErrFetch, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBody))
	if err != nil {
		return failure(fmt.Errorf("%w: read feed body: %v", ErrFetch, err))
	}

	ch, err := parseVideoFeed(body, handle)
	if err != nil {
		return failure(err)
	}
	return success(ch)
}

// parseVideoFeed extracts a ResolvedChannel from a raw Atom feed document.
func parseVideoFeed(body []byte, handle string) (*model.ResolvedChannel, error) {
	var feed videoFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("%w: unmarshal feed: %v", ErrParse, err)
	}

	if feed.Author.Name == "" || feed.Author.URI == "" || feed.Title == "" {
		return nil, fmt.Errorf("%w: feed missing author or title", ErrParse)
	}

	channelID := ytid.FromURLPath(feed.Author.URI)
	if channelID == "" {
		return nil, fmt.Errorf("%w: author uri %q carries no channel id", ErrParse, feed.Author.URI)
	}

	ch := &model.ResolvedChannel{
		ChannelID: channelID,
		Title:     feed.Title,
		Author:    feed.Author.Name,
		URI:       feed.Author.URI,
	}

	// The first entry is treated as the channel's self-referential entry, so
	// the latest-video fields come from the second one.
	if len(feed.Entries) > 1 {
		entry := feed.Entries[1]
		ch.Thumbnail = entry.Group.Thumbnail.URL
		ch.ViewCount = parseViews(entry.Group.Community.Statistics.Views)
		ch.LastVideoID = entry.VideoID
		if !entry.Published.IsZero() {
			published := entry.Published
			ch.LastVideoDate = &published
		}
	}

	return ch, nil
}

// parseViews converts the media:statistics views attribute to an integer,
// defaulting to 0 when absent or non-numeric.
func parseViews(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
