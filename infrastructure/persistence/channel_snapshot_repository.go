package persistence

import (
	"context"
	"database/sql"
	"time"

	"channel-studio/domain/model"
)

type ChannelSnapshotRepository struct{ db *sql.DB }

func NewChannelSnapshotRepository(db *sql.DB) *ChannelSnapshotRepository {
	return &ChannelSnapshotRepository{db: db}
}

const channelSnapshotColumns = `id, channel_id, youtube_channel_id, title, description, country, published_at,
	subscriber_count, video_count, view_count, hidden_subscriber_count, banner_image_url, profile_image_url,
	channel_keywords, default_language, avg_views_per_video, videos_last_30_days, last_synced_at,
	sync_successful, sync_error`

// Insert appends a snapshot row; snapshots are never updated in place.
func (r *ChannelSnapshotRepository) Insert(ctx context.Context, s *model.ChannelSnapshot) error {
	q := `INSERT INTO channel_snapshots (channel_id, youtube_channel_id, title, description, country, published_at,
	subscriber_count, video_count, view_count, hidden_subscriber_count, banner_image_url, profile_image_url,
	channel_keywords, default_language, avg_views_per_video, videos_last_30_days, last_synced_at,
	sync_successful, sync_error)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	RETURNING id`
	return r.db.QueryRowContext(ctx, q,
		s.ChannelID, s.YoutubeChannelID, s.Title, s.Description, s.Country, s.PublishedAt,
		s.SubscriberCount, s.VideoCount, s.ViewCount, s.HiddenSubscriberCount, s.BannerImageURL, s.ProfileImageURL,
		s.ChannelKeywords, s.DefaultLanguage, s.AvgViewsPerVideo, s.VideosLast30Days, s.LastSyncedAt,
		s.SyncSuccessful, s.SyncError,
	).Scan(&s.ID)
}

// LatestForChannel returns the most recent snapshot or nil when none exists.
func (r *ChannelSnapshotRepository) LatestForChannel(ctx context.Context, channelID int64) (*model.ChannelSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+channelSnapshotColumns+` FROM channel_snapshots
	WHERE channel_id = $1 ORDER BY last_synced_at DESC LIMIT 1`, channelID)
	s, err := scanChannelSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *ChannelSnapshotRepository) ListForChannel(ctx context.Context, channelID int64, from, to time.Time) ([]model.ChannelSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+channelSnapshotColumns+` FROM channel_snapshots
	WHERE channel_id = $1 AND last_synced_at >= $2 AND last_synced_at <= $3
	ORDER BY last_synced_at`, channelID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ChannelSnapshot, 0)
	for rows.Next() {
		s, err := scanChannelSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanChannelSnapshot(row interface{ Scan(...interface{}) error }) (*model.ChannelSnapshot, error) {
	var s model.ChannelSnapshot
	var youtubeChannelID, title, description, country sql.NullString
	var bannerImageURL, profileImageURL, channelKeywords, defaultLanguage, syncError sql.NullString
	var publishedAt sql.NullTime

	err := row.Scan(&s.ID, &s.ChannelID, &youtubeChannelID, &title, &description, &country, &publishedAt,
		&s.SubscriberCount, &s.VideoCount, &s.ViewCount, &s.HiddenSubscriberCount, &bannerImageURL, &profileImageURL,
		&channelKeywords, &defaultLanguage, &s.AvgViewsPerVideo, &s.VideosLast30Days, &s.LastSyncedAt,
		&s.SyncSuccessful, &syncError)
	if err != nil {
		return nil, err
	}

	s.YoutubeChannelID = nullableString(youtubeChannelID)
	s.Title = nullableString(title)
	s.Description = nullableString(description)
	s.Country = nullableString(country)
	s.BannerImageURL = nullableString(bannerImageURL)
	s.ProfileImageURL = nullableString(profileImageURL)
	s.ChannelKeywords = nullableString(channelKeywords)
	s.DefaultLanguage = nullableString(defaultLanguage)
	s.SyncError = nullableString(syncError)
	if publishedAt.Valid {
		t := publishedAt.Time
		s.PublishedAt = &t
	}
	return &s, nil
}
