package dto

import "channel-studio/domain/model"

// ChannelOverview is one channel's latest snapshot joined with catalog
// totals for the dashboard summary.
type ChannelOverview struct {
	ChannelID        int64   `json:"channel_id"`
	Name             string  `json:"name"`
	SubscriberCount  int64   `json:"subscriber_count"`
	ViewCount        int64   `json:"view_count"`
	VideoCount       int64   `json:"video_count"`
	AvgViewsPerVideo float64 `json:"avg_views_per_video"`
	VideosLast30Days int64   `json:"videos_last_30_days"`
	LastSyncedAt     *string `json:"last_synced_at,omitempty"`
	SyncSuccessful   bool    `json:"sync_successful"`
}

// DashboardSummary aggregates all channels plus the current top videos.
type DashboardSummary struct {
	TotalChannels    int                   `json:"total_channels"`
	TotalSubscribers int64                 `json:"total_subscribers"`
	TotalViews       int64                 `json:"total_views"`
	TotalVideos      int64                 `json:"total_videos"`
	Channels         []ChannelOverview     `json:"channels"`
	TopVideos        []model.VideoSnapshot `json:"top_videos"`
}
