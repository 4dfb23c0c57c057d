package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Huudle/flow-fusion/internal/model"
)

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

// Upsert inserts or refreshes a channel record keyed by channel ID.
func (r *ChannelRepo) Upsert(ctx context.Context, ch *model.Channel) error {
	query := `
		INSERT INTO channels (channel_id, handle, name, uri, thumbnail, view_count,
		                      last_video_id, last_video_date, refreshed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (channel_id) DO UPDATE
		SET handle = EXCLUDED.handle,
		    name = EXCLUDED.name,
		    uri = EXCLUDED.uri,
		    thumbnail = EXCLUDED.thumbnail,
		    view_count = EXCLUDED.view_count,
		    last_video_id = EXCLUDED.last_video_id,
		    last_video_date = EXCLUDED.last_video_date,
		    refreshed_at = NOW()`

	_, err := r.pool.Exec(ctx, query,
		ch.ChannelID, ch.Handle, ch.Name, ch.URI, ch.Thumbnail, ch.ViewCount,
		nullable(ch.LastVideoID), ch.LastVideoDate,
	)
	return err
}

// FindByChannelID returns a single channel by its ID.
func (r *ChannelRepo) FindByChannelID(ctx context.Context, channelID string) (*model.Channel, error) {
	query := `
		SELECT channel_id, handle, name, uri, COALESCE(thumbnail, ''), view_count,
		       COALESCE(last_video_id, ''), last_video_date, refreshed_at, created_at
		FROM channels
		WHERE channel_id = $1`

	var ch model.Channel
	err := r.pool.QueryRow(ctx, query, channelID).Scan(
		&ch.ChannelID, &ch.Handle, &ch.Name, &ch.URI, &ch.Thumbnail, &ch.ViewCount,
		&ch.LastVideoID, &ch.LastVideoDate, &ch.RefreshedAt, &ch.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// All returns every tracked channel, oldest refresh first. Used by the
// refresh worker.
func (r *ChannelRepo) All(ctx context.Context) ([]model.Channel, error) {
	query := `
		SELECT channel_id, handle, name, uri, COALESCE(thumbnail, ''), view_count,
		       COALESCE(last_video_id, ''), last_video_date, refreshed_at, created_at
		FROM channels
		ORDER BY refreshed_at ASC`

	rows, err := r.pool.Query(ctx, query)
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

// Delete removes a channel that no profile links to anymore.
func (r *ChannelRepo) Delete(ctx context.Context, channelID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM channels
		WHERE channel_id = $1
		  AND NOT EXISTS (SELECT 1 FROM profile_channels WHERE channel_id = $1)`,
		channelID)
	return err
}

// nullable maps "" to NULL for optional text columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
