package service

import (
	"testing"
	"time"

	"github.com/Huudle/flow-fusion/internal/model"
)

func TestChannelFromResolved_PrefersTitle(t *testing.T) {
	r := &model.ResolvedChannel{
		ChannelID: "UCBJycsmduvYEL83R_U4JriQ",
		Title:     "Marques Brownlee",
		Author:    "mkbhd",
		URI:       "https://www.youtube.com/channel/UCBJycsmduvYEL83R_U4JriQ",
	}
	ch := channelFromResolved(r, "mkbhd")
	if ch.Name != "Marques Brownlee" {
		t.Errorf("Name = %q, want title over author", ch.Name)
	}
	if ch.Handle != "mkbhd" {
		t.Errorf("Handle = %q, want %q", ch.Handle, "mkbhd")
	}
}

func TestChannelFromResolved_FallsBackToAuthor(t *testing.T) {
	r := &model.ResolvedChannel{
		ChannelID: "UCBJycsmduvYEL83R_U4JriQ",
		Author:    "Marques Brownlee",
	}
	ch := channelFromResolved(r, "mkbhd")
	if ch.Name != "Marques Brownlee" {
		t.Errorf("Name = %q, want author fallback", ch.Name)
	}
}

func TestChannelFromResolved_CarriesVideoFields(t *testing.T) {
	published := time.Date(2024, 4, 20, 8, 30, 0, 0, time.UTC)
	r := &model.ResolvedChannel{
		ChannelID:     "UCBJycsmduvYEL83R_U4JriQ",
		Title:         "Marques Brownlee",
		ViewCount:     12345,
		LastVideoID:   "dQw4w9WgXcQ",
		LastVideoDate: &published,
	}
	ch := channelFromResolved(r, "mkbhd")
	if ch.ViewCount != 12345 {
		t.Errorf("ViewCount = %d, want 12345", ch.ViewCount)
	}
	if ch.LastVideoID != "dQw4w9WgXcQ" {
		t.Errorf("LastVideoID = %q, want dQw4w9WgXcQ", ch.LastVideoID)
	}
	if ch.LastVideoDate == nil || !ch.LastVideoDate.Equal(published) {
		t.Errorf("LastVideoDate = %v, want %v", ch.LastVideoDate, published)
	}
}

func TestChannelResponse_FormatsRefreshedAt(t *testing.T) {
	ch := &model.Channel{
		ChannelID:   "UCBJycsmduvYEL83R_U4JriQ",
		Handle:      "mkbhd",
		Name:        "Marques Brownlee",
		RefreshedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	resp := channelResponse(ch)
	if resp.RefreshedAt != "2024-05-01T12:00:00Z" {
		t.Errorf("RefreshedAt = %q, want RFC3339", resp.RefreshedAt)
	}
	if resp.ChannelID != ch.ChannelID {
		t.Errorf("ChannelID = %q, want %q", resp.ChannelID, ch.ChannelID)
	}
}
