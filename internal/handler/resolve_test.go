package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/Huudle/flow-fusion/internal/model"
	"github.com/Huudle/flow-fusion/internal/resolver"
)

type countingStrategy struct {
	calls int
	out   resolver.Outcome
}

func (s *countingStrategy) Name() string { return "counting" }

func (s *countingStrategy) Resolve(_ context.Context, _ string) resolver.Outcome {
	s.calls++
	return s.out
}

func resolveApp(s resolver.Strategy) *fiber.App {
	res := resolver.New(resolver.Config{}, resolver.WithStrategies(s))
	app := fiber.New()
	app.Get("/api/resolve", NewResolveHandler(res).Resolve)
	return app
}

func resolveBody(t *testing.T, resp io.Reader) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(resp).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

func TestResolve_MissingChannelName(t *testing.T) {
	strategy := &countingStrategy{}
	app := resolveApp(strategy)

	req := httptest.NewRequest("GET", "/api/resolve", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	body := resolveBody(t, resp.Body)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["error"] != "Channel name is required" {
		t.Errorf("error = %q, want %q", body["error"], "Channel name is required")
	}
	if strategy.calls != 0 {
		t.Errorf("strategy calls = %d, want 0 (no resolution without a handle)", strategy.calls)
	}
}

func TestResolve_BlankChannelName(t *testing.T) {
	strategy := &countingStrategy{}
	app := resolveApp(strategy)

	req := httptest.NewRequest("GET", "/api/resolve?channelName=%20%20", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	body := resolveBody(t, resp.Body)
	if body["error"] != "Channel name is required" {
		t.Errorf("error = %q, want %q", body["error"], "Channel name is required")
	}
	if strategy.calls != 0 {
		t.Errorf("strategy calls = %d, want 0", strategy.calls)
	}
}

func TestResolve_Success(t *testing.T) {
	strategy := &countingStrategy{
		out: resolver.Outcome{Channel: &model.ResolvedChannel{
			ChannelID: "UCBJycsmduvYEL83R_U4JriQ",
			Title:     "Marques Brownlee",
			URI:       "https://www.youtube.com/channel/UCBJycsmduvYEL83R_U4JriQ",
		}},
	}
	app := resolveApp(strategy)

	req := httptest.NewRequest("GET", "/api/resolve?channelName=@mkbhd", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	body := resolveBody(t, resp.Body)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if body["channelId"] != "UCBJycsmduvYEL83R_U4JriQ" {
		t.Errorf("channelId = %q, want UCBJycsmduvYEL83R_U4JriQ", body["channelId"])
	}
	if strategy.calls != 1 {
		t.Errorf("strategy calls = %d, want 1", strategy.calls)
	}
}

func TestResolve_FailureKeepsStatusOK(t *testing.T) {
	strategy := &countingStrategy{
		out: resolver.Outcome{Err: errors.New("indicator wait exceeded deadline")},
	}
	app := resolveApp(strategy)

	req := httptest.NewRequest("GET", "/api/resolve?channelName=mkbhd", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want %d (resolution failures stay in the body)", resp.StatusCode, fiber.StatusOK)
	}

	body := resolveBody(t, resp.Body)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if msg, _ := body["error"].(string); msg == "" {
		t.Error("error message is empty, want the resolution failure")
	}
}
