package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Huudle/flow-fusion/internal/model"
)

// fakeStrategy counts invocations and returns a canned outcome.
type fakeStrategy struct {
	name      string
	calls     int
	outcome   Outcome
	gotHandle string
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Resolve(_ context.Context, handle string) Outcome {
	f.calls++
	f.gotHandle = handle
	return f.outcome
}

func resolved(id string) Outcome {
	return success(&model.ResolvedChannel{ChannelID: id})
}

func TestResolve_FeedSuccessSkipsRest(t *testing.T) {
	feed := &fakeStrategy{name: "feed", outcome: resolved("UCuAXFkgsw1L7xaCfnd5JJOw")}
	html := &fakeStrategy{name: "html", outcome: failure(ErrIDNotFound)}
	browser := &fakeStrategy{name: "browser", outcome: failure(ErrTimeout)}

	r := New(Config{}, WithStrategies(feed, html, browser))
	ch, err := r.Resolve(context.Background(), "@somehandle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.ChannelID != "UCuAXFkgsw1L7xaCfnd5JJOw" {
		t.Errorf("channel id = %q", ch.ChannelID)
	}
	if feed.calls != 1 || html.calls != 0 || browser.calls != 0 {
		t.Errorf("calls = feed:%d html:%d browser:%d, want 1/0/0", feed.calls, html.calls, browser.calls)
	}
}

func TestResolve_FeedFailureEscalatesToHTML(t *testing.T) {
	feed := &fakeStrategy{name: "feed", outcome: failure(ErrNotFound)}
	html := &fakeStrategy{name: "html", outcome: resolved("UC_x5XG1OV2P6uZZ5FSM9T-w")}
	browser := &fakeStrategy{name: "browser", outcome: failure(ErrTimeout)}

	r := New(Config{}, WithStrategies(feed, html, browser))
	ch, err := r.Resolve(context.Background(), "somehandle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.ChannelID != "UC_x5XG1OV2P6uZZ5FSM9T-w" {
		t.Errorf("channel id = %q", ch.ChannelID)
	}
	if feed.calls != 1 || html.calls != 1 || browser.calls != 0 {
		t.Errorf("calls = feed:%d html:%d browser:%d, want 1/1/0", feed.calls, html.calls, browser.calls)
	}
}

func TestResolve_BrowserIsFinalFallback(t *testing.T) {
	feed := &fakeStrategy{name: "feed", outcome: failure(ErrFetch)}
	html := &fakeStrategy{name: "html", outcome: failure(ErrIDNotFound)}
	browser := &fakeStrategy{name: "browser", outcome: resolved("UCuAXFkgsw1L7xaCfnd5JJOw")}

	r := New(Config{}, WithStrategies(feed, html, browser))
	ch, err := r.Resolve(context.Background(), "somehandle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.ChannelID != "UCuAXFkgsw1L7xaCfnd5JJOw" {
		t.Errorf("channel id = %q", ch.ChannelID)
	}
	if feed.calls != 1 || html.calls != 1 || browser.calls != 1 {
		t.Errorf("calls = feed:%d html:%d browser:%d, want 1/1/1", feed.calls, html.calls, browser.calls)
	}
}

func TestResolve_BrowserFailureIsTerminal(t *testing.T) {
	feed := &fakeStrategy{name: "feed", outcome: failure(ErrNotFound)}
	html := &fakeStrategy{name: "html", outcome: failure(ErrIDNotFound)}
	browser := &fakeStrategy{name: "browser", outcome: failure(ErrTimeout)}

	r := New(Config{}, WithStrategies(feed, html, browser))
	_, err := r.Resolve(context.Background(), "somehandle")
	if err == nil {
		t.Fatal("expected terminal error")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("error = %v, want wrapped ErrTimeout", err)
	}
	if browser.calls != 1 {
		t.Errorf("browser calls = %d, want exactly 1 (no retries)", browser.calls)
	}
}

func TestResolve_NormalizesHandle(t *testing.T) {
	feed := &fakeStrategy{name: "feed", outcome: resolved("UCuAXFkgsw1L7xaCfnd5JJOw")}
	r := New(Config{}, WithStrategies(feed))
	if _, err := r.Resolve(context.Background(), "  @mkbhd "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.gotHandle != "mkbhd" {
		t.Errorf("strategy received handle %q, want %q", feed.gotHandle, "mkbhd")
	}
}

func TestResolve_ObserverSeesEveryAttempt(t *testing.T) {
	feed := &fakeStrategy{name: "feed", outcome: failure(ErrNotFound)}
	html := &fakeStrategy{name: "html", outcome: resolved("UCuAXFkgsw1L7xaCfnd5JJOw")}

	type attempt struct{ strategy, outcome string }
	var attempts []attempt
	r := New(Config{},
		WithStrategies(feed, html),
		WithObserver(func(strategy, outcome string, _ time.Duration) {
			attempts = append(attempts, attempt{strategy, outcome})
		}),
	)
	if _, err := r.Resolve(context.Background(), "mkbhd"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []attempt{{"feed", "failure"}, {"html", "success"}}
	if len(attempts) != len(want) {
		t.Fatalf("attempts = %v, want %v", attempts, want)
	}
	for i := range want {
		if attempts[i] != want[i] {
			t.Errorf("attempt %d = %v, want %v", i, attempts[i], want[i])
		}
	}
}
