package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/Huudle/flow-fusion/internal/model"
	"github.com/Huudle/flow-fusion/pkg/ytid"
)

// browserUserAgent mimics a desktop browser; YouTube serves a reduced page to
// unknown agents.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxPageBody bounds how much of a channel page we read.
const maxPageBody = 8 << 20

const titleSuffix = " - YouTube"

var (
	channelIDTokenRe = regexp.MustCompile(`"channelId":"(UC[0-9A-Za-z_-]{22})"`)
	avatarThumbRe    = regexp.MustCompile(`"avatar":\{"thumbnails":\[\{"url":"([^"]+)"`)
	genericThumbRe   = regexp.MustCompile(`"thumbnails":\[\{"url":"([^"]+)"`)
	subscriberRe     = regexp.MustCompile(`([\d.,]+[KMB]?)\s+subscribers`)
)

// channelPage is a fetched channel document, pre-digested for extraction:
// meta tags and links collected by a single DOM walk, plus the raw text for
// embedded-JSON pattern matches.
type channelPage struct {
	meta  map[string]string // keyed "property:og:url", "name:title", "itemprop:channelId"
	links map[string]string // rel -> href
	title string
	raw   string
}

// extractor pulls one candidate value for a field from the page. Extractors
// are applied in order and the first non-empty result wins.
type extractor func(p *channelPage) string

func firstMatch(p *channelPage, extractors ...extractor) string {
	for _, ex := range extractors {
		if v := ex(p); v != "" {
			return v
		}
	}
	return ""
}

// HTMLExtractor resolves a handle by fetching the channel's public page over
// plain HTTP and pattern-matching the embedded metadata.
type HTMLExtractor struct {
	client  *http.Client
	baseURL string
}

// NewHTMLExtractor returns an HTMLExtractor using the given client.
func NewHTMLExtractor(client *http.Client) *HTMLExtractor {
	return &HTMLExtractor{client: client, baseURL: defaultBaseURL}
}

// WithBaseURL overrides the page endpoint base. Used in tests.
func (h *HTMLExtractor) WithBaseURL(base string) *HTMLExtractor {
	h.baseURL = base
	return h
}

func (h *HTMLExtractor) Name() string { return "html" }

// Resolve fetches the channel page and extracts the metadata fields.
func (h *HTMLExtractor) Resolve(ctx context.Context, handle string) Outcome {
	pageURL := h.baseURL + "/@" + handle

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return failure(fmt.Errorf("%w: build page request: %v", ErrFetch, err))
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := h.client.Do(req)
	if err != nil {
		return failure(fmt.Errorf("%w: fetch channel page: %v", ErrFetch, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return failure(fmt.Errorf("%w: channel page returned 404 for %q", ErrNotFound, handle))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return failure(fmt.Errorf("%w: channel page returned status %d", ErrFetch, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBody))
	if err != nil {
		return failure(fmt.Errorf("%w: read channel page: %v", ErrFetch, err))
	}

	ch, err := extractChannel(body, handle)
	if err != nil {
		return failure(err)
	}
	return success(ch)
}

// extractChannel applies the per-field extractor chains to a raw document.
func extractChannel(body []byte, handle string) (*model.ResolvedChannel, error) {
	p := parseChannelPage(body)

	canonical := firstMatch(p, metaProperty("og:url"), linkRel("canonical"))

	channelID := ytid.FromURL(canonical)
	if channelID == "" {
		if m := channelIDTokenRe.FindStringSubmatch(p.raw); len(m) == 2 {
			channelID = m[1]
		}
	}
	if channelID == "" {
		return nil, fmt.Errorf("%w: no channel id pattern matched for %q", ErrIDNotFound, handle)
	}

	if canonical == "" {
		canonical = ytid.ChannelURL(channelID)
	}

	title := firstMatch(p,
		metaName("title"),
		metaProperty("og:title"),
		documentTitle,
	)
	if title == "" {
		title = handle
	}

	thumbnail := firstMatch(p,
		rawPattern(avatarThumbRe),
		metaProperty("og:image"),
		rawPattern(genericThumbRe),
	)

	var subscribers string
	if m := subscriberRe.FindStringSubmatch(p.raw); len(m) == 2 {
		subscribers = m[1]
	}

	return &model.ResolvedChannel{
		ChannelID:   channelID,
		Title:       title,
		Author:      title,
		URI:         canonical,
		Thumbnail:   thumbnail,
		Subscribers: subscribers,
	}, nil
}

func metaProperty(prop string) extractor {
	return func(p *channelPage) string { return p.meta["property:"+prop] }
}

func metaName(name string) extractor {
	return func(p *channelPage) string { return p.meta["name:"+name] }
}

func linkRel(rel string) extractor {
	return func(p *channelPage) string { return p.links[rel] }
}

func documentTitle(p *channelPage) string {
	return strings.TrimSpace(strings.TrimSuffix(p.title, titleSuffix))
}

func rawPattern(re *regexp.Regexp) extractor {
	return func(p *channelPage) string {
		if m := re.FindStringSubmatch(p.raw); len(m) == 2 {
			return m[1]
		}
		return ""
	}
}

// parseChannelPage walks the document once, collecting meta tags, link
// elements, and the title. Malformed HTML never fails here; html.Parse is
// lenient and missing fields simply stay empty.
func parseChannelPage(body []byte) *channelPage {
	p := &channelPage{
		meta:  make(map[string]string),
		links: make(map[string]string),
		raw:   string(body),
	}

	doc, err := html.Parse(strings.NewReader(p.raw))
	if err != nil {
		return p
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				collectMeta(n, p.meta)
			case "link":
				collectLink(n, p.links)
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode && p.title == "" {
					p.title = n.FirstChild.Data
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return p
}

func collectMeta(n *html.Node, meta map[string]string) {
	var key, content string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "content":
			content = attr.Val
		case "property":
			key = "property:" + attr.Val
		case "name":
			key = "name:" + attr.Val
		case "itemprop":
			key = "itemprop:" + attr.Val
		}
	}
	if key != "" && content != "" {
		if _, exists := meta[key]; !exists {
			meta[key] = content
		}
	}
}

func collectLink(n *html.Node, links map[string]string) {
	var rel, href string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "rel":
			rel = attr.Val
		case "href":
			href = attr.Val
		}
	}
	if rel != "" && href != "" {
		if _, exists := links[rel]; !exists {
			links[rel] = href
		}
	}
}
