package model

// LinkChannelRequest is the body for POST /api/profiles/:profileId/channels.
type LinkChannelRequest struct {
	ChannelName string `json:"channelName"`
}

// StatsResponse is the API response for global statistics.
type StatsResponse struct {
	TotalChannels int `json:"totalChannels"`
	TotalProfiles int `json:"totalProfiles"`
	TotalLinks    int `json:"totalLinks"`
}
