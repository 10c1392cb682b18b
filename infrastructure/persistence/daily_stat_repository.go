package persistence

import (
	"context"
	"database/sql"
	"time"

	"channel-studio/domain/model"
)

type DailyStatRepository struct{ db *sql.DB }

func NewDailyStatRepository(db *sql.DB) *DailyStatRepository {
	return &DailyStatRepository{db: db}
}

// Upsert writes the rollup keyed by (channel_id, bucket_time), so a rerun
// for the same day refreshes the existing row.
func (r *DailyStatRepository) Upsert(ctx context.Context, stat *model.DailyChannelStat) error {
	q := `INSERT INTO daily_channel_stats (channel_id, bucket_time, total_views, total_videos, avg_views_per_video)
	VALUES ($1,$2,$3,$4,$5)
	ON CONFLICT (channel_id, bucket_time) DO UPDATE SET
	total_views=EXCLUDED.total_views, total_videos=EXCLUDED.total_videos,
	avg_views_per_video=EXCLUDED.avg_views_per_video, updated_at=NOW()`
	_, err := r.db.ExecContext(ctx, q, stat.ChannelID, stat.BucketTime, stat.TotalViews, stat.TotalVideos, stat.AvgViewsPerVideo)
	return err
}

func (r *DailyStatRepository) ListRange(ctx context.Context, channelID int64, from, to time.Time) ([]model.DailyChannelStat, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, channel_id, bucket_time, total_views, total_videos,
	avg_views_per_video, created_at, updated_at
	FROM daily_channel_stats
	WHERE channel_id = $1 AND bucket_time >= $2 AND bucket_time <= $3
	ORDER BY bucket_time`, channelID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.DailyChannelStat, 0)
	for rows.Next() {
		var s model.DailyChannelStat
		if err := rows.Scan(&s.ID, &s.ChannelID, &s.BucketTime, &s.TotalViews, &s.TotalVideos,
			&s.AvgViewsPerVideo, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
