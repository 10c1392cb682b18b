package persistence

import (
	"context"
	"database/sql"
	"encoding/json"

	"channel-studio/domain/model"
)

type VideoSnapshotRepository struct{ db *sql.DB }

func NewVideoSnapshotRepository(db *sql.DB) *VideoSnapshotRepository {
	return &VideoSnapshotRepository{db: db}
}

const videoSnapshotUpsert = `INSERT INTO video_snapshots (channel_id, youtube_video_id, youtube_channel_id, title, description,
	published_at, duration, duration_seconds, category_id, tags, thumbnail_default, thumbnail_medium,
	thumbnail_high, thumbnail_standard, thumbnail_maxres, view_count, like_count, comment_count,
	favorite_count, engagement_rate, like_rate, comment_rate, views_per_day, performance_score,
	privacy_status, upload_status, embeddable, made_for_kids, last_synced_at, sync_successful)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30)
	ON CONFLICT (channel_id, youtube_video_id) DO UPDATE SET
	youtube_channel_id=EXCLUDED.youtube_channel_id, title=EXCLUDED.title, description=EXCLUDED.description,
	published_at=EXCLUDED.published_at, duration=EXCLUDED.duration, duration_seconds=EXCLUDED.duration_seconds,
	category_id=EXCLUDED.category_id, tags=EXCLUDED.tags, thumbnail_default=EXCLUDED.thumbnail_default,
	thumbnail_medium=EXCLUDED.thumbnail_medium, thumbnail_high=EXCLUDED.thumbnail_high,
	thumbnail_standard=EXCLUDED.thumbnail_standard, thumbnail_maxres=EXCLUDED.thumbnail_maxres,
	view_count=EXCLUDED.view_count, like_count=EXCLUDED.like_count, comment_count=EXCLUDED.comment_count,
	favorite_count=EXCLUDED.favorite_count, engagement_rate=EXCLUDED.engagement_rate, like_rate=EXCLUDED.like_rate,
	comment_rate=EXCLUDED.comment_rate, views_per_day=EXCLUDED.views_per_day, performance_score=EXCLUDED.performance_score,
	privacy_status=EXCLUDED.privacy_status, upload_status=EXCLUDED.upload_status, embeddable=EXCLUDED.embeddable,
	made_for_kids=EXCLUDED.made_for_kids, last_synced_at=EXCLUDED.last_synced_at, sync_successful=EXCLUDED.sync_successful`

// Upsert stores or refreshes the snapshot keyed by (channel_id, youtube_video_id).
func (r *VideoSnapshotRepository) Upsert(ctx context.Context, s *model.VideoSnapshot) error {
	var tags interface{}
	if len(s.Tags) > 0 {
		raw, err := json.Marshal(s.Tags)
		if err != nil {
			return err
		}
		tags = raw
	}
	_, err := r.db.ExecContext(ctx, videoSnapshotUpsert,
		s.ChannelID, s.YoutubeVideoID, s.YoutubeChannelID, s.Title, s.Description,
		s.PublishedAt, s.Duration, s.DurationSeconds, s.CategoryID, tags, s.ThumbnailDefault, s.ThumbnailMedium,
		s.ThumbnailHigh, s.ThumbnailStandard, s.ThumbnailMaxres, s.ViewCount, s.LikeCount, s.CommentCount,
		s.FavoriteCount, s.EngagementRate, s.LikeRate, s.CommentRate, s.ViewsPerDay, s.PerformanceScore,
		s.PrivacyStatus, s.UploadStatus, s.Embeddable, s.MadeForKids, s.LastSyncedAt, s.SyncSuccessful)
	return err
}

const videoSnapshotColumns = `id, channel_id, youtube_video_id, youtube_channel_id, title, description,
	published_at, duration, duration_seconds, category_id, tags, thumbnail_default, thumbnail_medium,
	thumbnail_high, thumbnail_standard, thumbnail_maxres, view_count, like_count, comment_count,
	favorite_count, engagement_rate, like_rate, comment_rate, views_per_day, performance_score,
	privacy_status, upload_status, embeddable, made_for_kids, last_synced_at, sync_successful`

func (r *VideoSnapshotRepository) ListForChannel(ctx context.Context, channelID int64) ([]model.VideoSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+videoSnapshotColumns+` FROM video_snapshots
	WHERE channel_id = $1 ORDER BY published_at DESC NULLS LAST`, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVideoSnapshots(rows)
}

// ChannelTotals returns video count and summed view count for a channel.
func (r *VideoSnapshotRepository) ChannelTotals(ctx context.Context, channelID int64) (int64, int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(1), COALESCE(SUM(view_count), 0) FROM video_snapshots
	WHERE channel_id = $1`, channelID)
	var totalVideos, totalViews int64
	if err := row.Scan(&totalVideos, &totalViews); err != nil {
		return 0, 0, err
	}
	return totalVideos, totalViews, nil
}

func (r *VideoSnapshotRepository) TopByViews(ctx context.Context, limit int) ([]model.VideoSnapshot, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+videoSnapshotColumns+` FROM video_snapshots
	ORDER BY view_count DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVideoSnapshots(rows)
}

func collectVideoSnapshots(rows *sql.Rows) ([]model.VideoSnapshot, error) {
	out := make([]model.VideoSnapshot, 0)
	for rows.Next() {
		var s model.VideoSnapshot
		var youtubeChannelID, title, description, duration, categoryID sql.NullString
		var thumbDefault, thumbMedium, thumbHigh, thumbStandard, thumbMaxres sql.NullString
		var privacyStatus, uploadStatus sql.NullString
		var publishedAt sql.NullTime
		var tagsRaw []byte

		err := rows.Scan(&s.ID, &s.ChannelID, &s.YoutubeVideoID, &youtubeChannelID, &title, &description,
			&publishedAt, &duration, &s.DurationSeconds, &categoryID, &tagsRaw, &thumbDefault, &thumbMedium,
			&thumbHigh, &thumbStandard, &thumbMaxres, &s.ViewCount, &s.LikeCount, &s.CommentCount,
			&s.FavoriteCount, &s.EngagementRate, &s.LikeRate, &s.CommentRate, &s.ViewsPerDay, &s.PerformanceScore,
			&privacyStatus, &uploadStatus, &s.Embeddable, &s.MadeForKids, &s.LastSyncedAt, &s.SyncSuccessful)
		if err != nil {
			return nil, err
		}

		s.YoutubeChannelID = nullableString(youtubeChannelID)
		s.Title = nullableString(title)
		s.Description = nullableString(description)
		s.Duration = nullableString(duration)
		s.CategoryID = nullableString(categoryID)
		s.ThumbnailDefault = nullableString(thumbDefault)
		s.ThumbnailMedium = nullableString(thumbMedium)
		s.ThumbnailHigh = nullableString(thumbHigh)
		s.ThumbnailStandard = nullableString(thumbStandard)
		s.ThumbnailMaxres = nullableString(thumbMaxres)
		s.PrivacyStatus = nullableString(privacyStatus)
		s.UploadStatus = nullableString(uploadStatus)
		if publishedAt.Valid {
			t := publishedAt.Time
			s.PublishedAt = &t
		}
		if len(tagsRaw) > 0 {
			_ = json.Unmarshal(tagsRaw, &s.Tags)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
