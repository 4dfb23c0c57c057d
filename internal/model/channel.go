package model

import "time"

// Channel is a tracked YouTube channel as stored in the database.
type Channel struct {
	ChannelID     string     `json:"channelId"`
	Handle        string     `json:"handle"`
	Name          string     `json:"name"`
	URI           string     `json:"uri"`
	Thumbnail     string     `json:"thumbnail,omitempty"`
	ViewCount     int64      `json:"viewCount"`
	LastVideoID   string     `json:"lastVideoId,omitempty"`
	LastVideoDate *time.Time `json:"lastVideoDate,omitempty"`
	RefreshedAt   time.Time  `json:"refreshedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ResolvedChannel is the output of one resolution pipeline run. It is built
// once per call and never mutated afterwards.
type ResolvedChannel struct {
	ChannelID     string     `json:"channelId"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	URI           string     `json:"uri"`
	Thumbnail     string     `json:"thumbnail,omitempty"`
	ViewCount     int64      `json:"viewCount"`
	LastVideoID   string     `json:"lastVideoId,omitempty"`
	LastVideoDate *time.Time `json:"lastVideoDate,omitempty"`
	Subscribers   string     `json:"subscribers,omitempty"`
}

// ResolveResponse is the API response for handle resolution. The resolved
// fields are flattened into the body next to the success flag.
type ResolveResponse struct {
	Success bool `json:"success"`
	ResolvedChannel
}

// ChannelResponse is the API response for channel lookups.
type ChannelResponse struct {
	ChannelID   string `json:"channelId"`
	Handle      string `json:"handle"`
	Name        string `json:"name"`
	URI         string `json:"uri"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	ViewCount   int64  `json:"viewCount"`
	LastVideoID string `json:"lastVideoId,omitempty"`
	RefreshedAt string `json:"refreshedAt"`
}
