package model

import "time"

// DailyChannelStat is a per-channel daily rollup of catalog totals,
// upserted on (channel_id, bucket_time).
type DailyChannelStat struct {
	ID               int64     `json:"id"`
	ChannelID        int64     `json:"channel_id"`
	BucketTime       time.Time `json:"bucket_time"`
	TotalViews       int64     `json:"total_views"`
	TotalVideos      int64     `json:"total_videos"`
	AvgViewsPerVideo float64   `json:"avg_views_per_video"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
