package model

import "time"

// Report type and dimension constants used by the analytics normalizer.
const (
	ReportTypeDaily         = "daily"
	ReportTypeGeographic    = "geographic"
	ReportTypeDevice        = "device"
	ReportTypeTrafficSource = "traffic_source"
	ReportTypeDemographics  = "demographics"
	ReportTypeRevenue       = "revenue"

	DimensionDay           = "day"
	DimensionCountry       = "country"
	DimensionDeviceType    = "deviceType"
	DimensionTrafficSource = "insightTrafficSourceType"
	DimensionAgeGroup      = "ageGroup"
)

// AnalyticsReportRow is one normalized channel-level analytics record.
// RecordHash identifies the logical record across runs, so re-syncing a
// window updates rows in place instead of duplicating them.
type AnalyticsReportRow struct {
	ID                         int64     `json:"id"`
	ChannelID                  int64     `json:"channel_id"`
	YoutubeChannelID           *string   `json:"youtube_channel_id,omitempty"`
	ReportDate                 time.Time `json:"report_date"`
	ReportType                 string    `json:"report_type"`
	DimensionType              string    `json:"dimension_type"`
	DimensionValue             *string   `json:"dimension_value,omitempty"`
	Views                      int64     `json:"views"`
	EstimatedMinutesWatched    int64     `json:"estimated_minutes_watched"`
	AverageViewDuration        float64   `json:"average_view_duration"`
	AverageViewPercentage      float64   `json:"average_view_percentage"`
	SubscribersGained          int64     `json:"subscribers_gained"`
	SubscribersLost            int64     `json:"subscribers_lost"`
	Likes                      int64     `json:"likes"`
	Dislikes                   int64     `json:"dislikes"`
	Comments                   int64     `json:"comments"`
	Shares                     int64     `json:"shares"`
	ViewerPercentage           float64   `json:"viewer_percentage"`
	EstimatedRevenue           *float64  `json:"estimated_revenue,omitempty"`
	EstimatedAdRevenue         *float64  `json:"estimated_ad_revenue,omitempty"`
	GrossRevenue               *float64  `json:"gross_revenue,omitempty"`
	CPM                        *float64  `json:"cpm,omitempty"`
	EstimatedRedPartnerRevenue *float64  `json:"estimated_red_partner_revenue,omitempty"`
	MonetizedPlaybacks         int64     `json:"monetized_playbacks"`
	AdImpressions              int64     `json:"ad_impressions"`
	RecordHash                 string    `json:"record_hash"`
	LastSyncedAt               time.Time `json:"last_synced_at"`
	SyncSuccessful             bool      `json:"sync_successful"`
}

// VideoAnalyticsRow is one normalized per-video analytics record.
type VideoAnalyticsRow struct {
	ID                      int64     `json:"id"`
	ChannelID               int64     `json:"channel_id"`
	YoutubeVideoID          string    `json:"youtube_video_id"`
	ReportDate              time.Time `json:"report_date"`
	ReportType              string    `json:"report_type"`
	DimensionType           string    `json:"dimension_type"`
	DimensionValue          *string   `json:"dimension_value,omitempty"`
	Views                   int64     `json:"views"`
	EstimatedMinutesWatched int64     `json:"estimated_minutes_watched"`
	AverageViewDuration     float64   `json:"average_view_duration"`
	Likes                   int64     `json:"likes"`
	Comments                int64     `json:"comments"`
	Shares                  int64     `json:"shares"`
	SubscribersGained       int64     `json:"subscribers_gained"`
	RecordHash              string    `json:"record_hash"`
	LastSyncedAt            time.Time `json:"last_synced_at"`
	SyncSuccessful          bool      `json:"sync_successful"`
}
