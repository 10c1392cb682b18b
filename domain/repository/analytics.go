package repository

import (
	"context"
	"time"

	"channel-studio/domain/model"
)

// IAnalyticsReport stores normalized channel-level analytics records,
// keyed by record hash.
type IAnalyticsReport interface {
	Upsert(ctx context.Context, row *model.AnalyticsReportRow) error
	ListForChannel(ctx context.Context, channelID int64, reportType string, from, to time.Time) ([]model.AnalyticsReportRow, error)
}

// IVideoAnalytics stores normalized per-video analytics records.
type IVideoAnalytics interface {
	Upsert(ctx context.Context, row *model.VideoAnalyticsRow) error
	ListForVideo(ctx context.Context, channelID int64, youtubeVideoID string, from, to time.Time) ([]model.VideoAnalyticsRow, error)
}

// IDailyChannelStat stores per-day channel rollups keyed by
// (channel_id, bucket_time).
type IDailyChannelStat interface {
	Upsert(ctx context.Context, stat *model.DailyChannelStat) error
	ListRange(ctx context.Context, channelID int64, from, to time.Time) ([]model.DailyChannelStat, error)
}
