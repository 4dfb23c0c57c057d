package ytid

import (
	"regexp"
	"strings"
)

var (
	// idRe matches a stable YouTube channel ID: "UC" followed by 22
	// alphanumeric, dash, or underscore characters.
	idRe = regexp.MustCompile(`^UC[0-9A-Za-z_-]{22}$`)
	// pathRe extracts a channel ID from a /channel/<ID> URL path segment.
	pathRe = regexp.MustCompile(`/channel/(UC[0-9A-Za-z_-]{22})`)
)

// Valid reports whether s is a well-formed stable channel ID.
func Valid(s string) bool {
	return idRe.MatchString(s)
}

// FromURL extracts the channel ID from a URL containing a /channel/<ID>
// segment. Trailing slashes, query strings, and fragments are never part of
// the returned ID. Returns "" when the URL carries no channel segment.
func FromURL(u string) string {
	m := pathRe.FindStringSubmatch(u)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

// FromURLPath falls back to the trailing path segment of a channel URL
// (e.g. a feed author URI) when the URL has no explicit /channel/ segment.
// The segment is only returned when it is a valid channel ID.
func FromURLPath(u string) string {
	if id := FromURL(u); id != "" {
		return id
	}
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimRight(u, "/")
	seg := u[strings.LastIndex(u, "/")+1:]
	if Valid(seg) {
		return seg
	}
	return ""
}

// ChannelURL returns the canonical channel URL for a channel ID.
func ChannelURL(id string) string {
	return "https://www.youtube.com/channel/" + id
}

// NormalizeHandle strips surrounding whitespace and the leading "@" marker
// from a user-supplied channel handle.
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}
