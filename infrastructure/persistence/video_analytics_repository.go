package persistence

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"channel-studio/domain/model"
)

type VideoAnalyticsRepository struct{ db *sql.DB }

func NewVideoAnalyticsRepository(db *sql.DB) *VideoAnalyticsRepository {
	return &VideoAnalyticsRepository{db: db}
}

const videoAnalyticsUpsert = `INSERT INTO video_analytics (channel_id, youtube_video_id, report_date, report_type,
	dimension_type, dimension_value, views, estimated_minutes_watched, average_view_duration, likes,
	comments, shares, subscribers_gained, record_hash, last_synced_at, sync_successful)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	ON CONFLICT (record_hash) DO UPDATE SET
	views=EXCLUDED.views, estimated_minutes_watched=EXCLUDED.estimated_minutes_watched,
	average_view_duration=EXCLUDED.average_view_duration, likes=EXCLUDED.likes, comments=EXCLUDED.comments,
	shares=EXCLUDED.shares, subscribers_gained=EXCLUDED.subscribers_gained,
	last_synced_at=EXCLUDED.last_synced_at, sync_successful=EXCLUDED.sync_successful`

func (r *VideoAnalyticsRepository) Upsert(ctx context.Context, row *model.VideoAnalyticsRow) error {
	_, err := r.db.ExecContext(ctx, videoAnalyticsUpsert,
		row.ChannelID, row.YoutubeVideoID, row.ReportDate, row.ReportType,
		row.DimensionType, row.DimensionValue, row.Views, row.EstimatedMinutesWatched,
		row.AverageViewDuration, row.Likes, row.Comments, row.Shares, row.SubscribersGained,
		row.RecordHash, row.LastSyncedAt, row.SyncSuccessful)
	return err
}

func (r *VideoAnalyticsRepository) ListForVideo(ctx context.Context, channelID int64, youtubeVideoID string, from, to time.Time) ([]model.VideoAnalyticsRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, channel_id, youtube_video_id, report_date, report_type,
	dimension_type, dimension_value, views, estimated_minutes_watched, average_view_duration, likes,
	comments, shares, subscribers_gained, record_hash, last_synced_at, sync_successful
	FROM video_analytics
	WHERE channel_id = $1 AND youtube_video_id = $2 AND report_date >= $3 AND report_date <= $4
	ORDER BY report_date, report_type`, channelID, youtubeVideoID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.VideoAnalyticsRow, 0)
	for rows.Next() {
		var row model.VideoAnalyticsRow
		var dimensionValue sql.NullString
		err := rows.Scan(&row.ID, &row.ChannelID, &row.YoutubeVideoID, &row.ReportDate, &row.ReportType,
			&row.DimensionType, &dimensionValue, &row.Views, &row.EstimatedMinutesWatched,
			&row.AverageViewDuration, &row.Likes, &row.Comments, &row.Shares, &row.SubscribersGained,
			&row.RecordHash, &row.LastSyncedAt, &row.SyncSuccessful)
		if err != nil {
			return nil, err
		}
		row.DimensionValue = nullableString(dimensionValue)
		row.RecordHash = strings.TrimSpace(row.RecordHash)
		out = append(out, row)
	}
	return out, rows.Err()
}
