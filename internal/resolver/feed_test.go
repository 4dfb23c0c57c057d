package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015"
      xmlns:media="http://search.yahoo.com/mrss/"
      xmlns="http://www.w3.org/2005/Atom">
 <title>My Channel</title>
 <author>
  <name>My Channel</name>
  <uri>https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw</uri>
 </author>
 <entry>
  <yt:videoId>selfEntry01</yt:videoId>
  <published>2024-05-01T10:00:00+00:00</published>
 </entry>
 <entry>
  <yt:videoId>dQw4w9WgXcQ</yt:videoId>
  <published>2024-04-20T08:30:00+00:00</published>
  <media:group>
   <media:thumbnail url="https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg" width="480" height="360"/>
   <media:community>
    <media:statistics views="12345"/>
   </media:community>
  </media:group>
 </entry>
</feed>`

func feedServer(t *testing.T, status int, body string) (*FeedFetcher, *int) {
	t.Helper()
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if got := r.URL.Query().Get("user"); got == "" {
			t.Errorf("feed request missing user parameter, url = %s", r.URL)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewFeedFetcher(srv.Client()).WithBaseURL(srv.URL), &hits
}

func TestFeedFetcher_Success(t *testing.T) {
	f, hits := feedServer(t, http.StatusOK, sampleFeed)

	out := f.Resolve(context.Background(), "mychannel")
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	ch := out.Channel

	if ch.ChannelID != "UCuAXFkgsw1L7xaCfnd5JJOw" {
		t.Errorf("channel id = %q", ch.ChannelID)
	}
	if ch.Title != "My Channel" || ch.Author != "My Channel" {
		t.Errorf("title/author = %q/%q", ch.Title, ch.Author)
	}
	if ch.URI != "https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw" {
		t.Errorf("uri = %q", ch.URI)
	}
	// Latest-video fields come from the second entry.
	if ch.LastVideoID != "dQw4w9WgXcQ" {
		t.Errorf("last video id = %q, want second entry's id", ch.LastVideoID)
	}
	if ch.Thumbnail != "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
		t.Errorf("thumbnail = %q", ch.Thumbnail)
	}
	if ch.ViewCount != 12345 {
		t.Errorf("view count = %d, want 12345", ch.ViewCount)
	}
	wantDate := time.Date(2024, 4, 20, 8, 30, 0, 0, time.UTC)
	if ch.LastVideoDate == nil || !ch.LastVideoDate.Equal(wantDate) {
		t.Errorf("last video date = %v, want %v", ch.LastVideoDate, wantDate)
	}
	if *hits != 1 {
		t.Errorf("feed endpoint hit %d times, want 1", *hits)
	}
}

func TestFeedFetcher_NotFound(t *testing.T) {
	f, _ := feedServer(t, http.StatusNotFound, "")
	out := f.Resolve(context.Background(), "missing")
	if !errors.Is(out.Err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", out.Err)
	}
}

func TestFeedFetcher_ServerError(t *testing.T) {
	f, _ := feedServer(t, http.StatusInternalServerError, "")
	out := f.Resolve(context.Background(), "broken")
	if !errors.Is(out.Err, ErrFetch) {
		t.Errorf("error = %v, want ErrFetch", out.Err)
	}
}

func TestFeedFetcher_MalformedXML(t *testing.T) {
	f, _ := feedServer(t, http.StatusOK, "<feed><unclosed")
	out := f.Resolve(context.Background(), "garbled")
	if !errors.Is(out.Err, ErrParse) {
		t.Errorf("error = %v, want ErrParse", out.Err)
	}
}

func TestFeedFetcher_MissingAuthor(t *testing.T) {
	const feed = `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom"><title>Orphan</title></feed>`
	f, _ := feedServer(t, http.StatusOK, feed)
	out := f.Resolve(context.Background(), "orphan")
	if !errors.Is(out.Err, ErrParse) {
		t.Errorf("error = %v, want ErrParse", out.Err)
	}
}

func TestFeedFetcher_SingleEntryOmitsVideoFields(t *testing.T) {
	const feed = `<?xml version="1.0"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
 <title>Quiet Channel</title>
 <author>
  <name>Quiet Channel</name>
  <uri>https://www.youtube.com/channel/UC_x5XG1OV2P6uZZ5FSM9T-w</uri>
 </author>
 <entry><yt:videoId>onlyEntry01</yt:videoId></entry>
</feed>`
	f, _ := feedServer(t, http.StatusOK, feed)
	out := f.Resolve(context.Background(), "quiet")
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if out.Channel.LastVideoID != "" || out.Channel.LastVideoDate != nil {
		t.Errorf("latest-video fields populated from a single-entry feed: %+v", out.Channel)
	}
	if out.Channel.ViewCount != 0 {
		t.Errorf("view count = %d, want 0", out.Channel.ViewCount)
	}
}

func TestParseViews(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"12345", 12345},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"-5", 0},
	}
	for _, tt := range tests {
		if got := parseViews(tt.input); got != tt.want {
			t.Errorf("parseViews(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
