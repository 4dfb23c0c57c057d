package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Huudle/flow-fusion/internal/model"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// LinkChannel records that a profile follows a channel. Linking twice is a
// no-op.
func (r *ProfileRepo) LinkChannel(ctx context.Context, profileID, channelID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profile_channels (profile_id, channel_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (profile_id, channel_id) DO NOTHING`,
		profileID, channelID)
	return err
}

// UnlinkChannel removes the link. Returns the number of rows removed so the
// caller can distinguish "was not linked".
func (r *ProfileRepo) UnlinkChannel(ctx context.Context, profileID, channelID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM profile_channels
		WHERE profile_id = $1 AND channel_id = $2`,
		profileID, channelID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListChannels returns the channels linked to a profile, most recently linked
// first.
func (r *ProfileRepo) ListChannels(ctx context.Context, profileID string) ([]model.Channel, error) {
	query := `
		SELECT c.channel_id, c.handle, c.name, c.uri, COALESCE(c.thumbnail, ''), c.view_count,
		       COALESCE(c.last_video_id, ''), c.last_video_date, c.refreshed_at, c.created_at
		FROM channels c
		JOIN profile_channels pc ON pc.channel_id = c.channel_id
		WHERE pc.profile_id = $1
		ORDER BY pc.created_at DESC`

	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []model.Channel
	for rows.Next() {
		var ch model.Channel
		if err := rows.Scan(
			&ch.ChannelID, &ch.Handle, &ch.Name, &ch.URI, &ch.Thumbnail, &ch.ViewCount,
			&ch.LastVideoID, &ch.LastVideoDate, &ch.RefreshedAt, &ch.CreatedAt,
		); err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

// GetStats returns global totals for the stats endpoint.
func (r *ProfileRepo) GetStats(ctx context.Context) (*model.StatsResponse, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM channels),
			(SELECT COUNT(DISTINCT profile_id) FROM profile_channels),
			(SELECT COUNT(*) FROM profile_channels)`

	var stats model.StatsResponse
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalChannels, &stats.TotalProfiles, &stats.TotalLinks,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
