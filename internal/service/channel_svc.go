package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Huudle/flow-fusion/internal/model"
	"github.com/Huudle/flow-fusion/internal/repository"
	"github.com/Huudle/flow-fusion/internal/resolver"
	"github.com/Huudle/flow-fusion/pkg/ytid"
)

type ChannelService struct {
	repo     *repository.ChannelRepo
	profiles *repository.ProfileRepo
	cache    *CacheService
	resolver *resolver.Resolver
}

func NewChannelService(repo *repository.ChannelRepo, profiles *repository.ProfileRepo, cache *CacheService, res *resolver.Resolver) *ChannelService {
	return &ChannelService{repo: repo, profiles: profiles, cache: cache, resolver: res}
}

// Lookup returns the channel response for a given channel ID.
// Uses cache-aside: check Redis first, fall back to DB, then populate cache.
func (s *ChannelService) Lookup(ctx context.Context, channelID string) (*model.ChannelResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.GetChannel(ctx, channelID)
		if err != nil {
			log.Printf("cache: channel get error: %v", err)
		} else if cached != nil {
			var resp model.ChannelResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return &resp, nil
			}
		}
	}

	ch, err := s.repo.FindByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	resp := channelResponse(ch)

	if s.cache != nil {
		if err := s.cache.SetChannel(ctx, channelID, resp); err != nil {
			log.Printf("cache: channel set error: %v", err)
		}
	}

	return resp, nil
}

// Link resolves a handle through the pipeline, persists the channel, and
// links it to the profile.
func (s *ChannelService) Link(ctx context.Context, profileID, handle string) (*model.Channel, error) {
	resolved, err := s.resolver.Resolve(ctx, handle)
	if err != nil {
		return nil, err
	}

	ch := channelFromResolved(resolved, ytid.NormalizeHandle(handle))
	if err := s.repo.Upsert(ctx, ch); err != nil {
		return nil, err
	}
	if err := s.profiles.LinkChannel(ctx, profileID, ch.ChannelID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateProfileChannels(ctx, profileID); err != nil {
			log.Printf("cache: profile invalidate error: %v", err)
		}
		if err := s.cache.InvalidateChannel(ctx, ch.ChannelID); err != nil {
			log.Printf("cache: channel invalidate error: %v", err)
		}
	}

	return ch, nil
}

// Unlink removes the profile's link to a channel. Returns false when the link
// did not exist.
func (s *ChannelService) Unlink(ctx context.Context, profileID, channelID string) (bool, error) {
	removed, err := s.profiles.UnlinkChannel(ctx, profileID, channelID)
	if err != nil {
		return false, err
	}
	if removed == 0 {
		return false, nil
	}

	// Drop the channel row once no profile links to it. The delete is
	// guarded in SQL, so a concurrent link keeps the row.
	if err := s.repo.Delete(ctx, channelID); err != nil {
		log.Printf("channel: orphan cleanup error: %v", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateProfileChannels(ctx, profileID); err != nil {
			log.Printf("cache: profile invalidate error: %v", err)
		}
		if err := s.cache.InvalidateChannel(ctx, channelID); err != nil {
			log.Printf("cache: channel invalidate error: %v", err)
		}
	}
	return true, nil
}

// ListForProfile returns the channels linked to a profile with cache-aside.
func (s *ChannelService) ListForProfile(ctx context.Context, profileID string) ([]model.ChannelResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.GetProfileChannels(ctx, profileID)
		if err != nil {
			log.Printf("cache: profile channels get error: %v", err)
		} else if cached != nil {
			var resp []model.ChannelResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return resp, nil
			}
		}
	}

	channels, err := s.profiles.ListChannels(ctx, profileID)
	if err != nil {
		return nil, err
	}

	resp := make([]model.ChannelResponse, 0, len(channels))
	for i := range channels {
		resp = append(resp, *channelResponse(&channels[i]))
	}

	if s.cache != nil {
		if err := s.cache.SetProfileChannels(ctx, profileID, resp); err != nil {
			log.Printf("cache: profile channels set error: %v", err)
		}
	}

	return resp, nil
}

// GetStats returns global totals for the stats endpoint.
func (s *ChannelService) GetStats(ctx context.Context) (*model.StatsResponse, error) {
	return s.profiles.GetStats(ctx)
}

// channelFromResolved maps a pipeline result onto the stored channel shape.
func channelFromResolved(r *model.ResolvedChannel, handle string) *model.Channel {
	name := r.Title
	if name == "" {
		name = r.Author
	}
	return &model.Channel{
		ChannelID:     r.ChannelID,
		Handle:        handle,
		Name:          name,
		URI:           r.URI,
		Thumbnail:     r.Thumbnail,
		ViewCount:     r.ViewCount,
		LastVideoID:   r.LastVideoID,
		LastVideoDate: r.LastVideoDate,
	}
}

func channelResponse(ch *model.Channel) *model.ChannelResponse {
	return &model.ChannelResponse{
		ChannelID:   ch.ChannelID,
		Handle:      ch.Handle,
		Name:        ch.Name,
		URI:         ch.URI,
		Thumbnail:   ch.Thumbnail,
		ViewCount:   ch.ViewCount,
		LastVideoID: ch.LastVideoID,
		RefreshedAt: ch.RefreshedAt.Format(time.RFC3339),
	}
}
