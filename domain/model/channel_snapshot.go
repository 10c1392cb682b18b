package model

import "time"

// ChannelSnapshot is one append-only observation of a channel's state on
// YouTube. Failed sync attempts are recorded too, with SyncSuccessful=false
// and the error message kept for diagnosis.
type ChannelSnapshot struct {
	ID                    int64      `json:"id"`
	ChannelID             int64      `json:"channel_id"`
	YoutubeChannelID      *string    `json:"youtube_channel_id,omitempty"`
	Title                 *string    `json:"title,omitempty"`
	Description           *string    `json:"description,omitempty"`
	Country               *string    `json:"country,omitempty"`
	PublishedAt           *time.Time `json:"published_at,omitempty"`
	SubscriberCount       int64      `json:"subscriber_count"`
	VideoCount            int64      `json:"video_count"`
	ViewCount             int64      `json:"view_count"`
	HiddenSubscriberCount bool       `json:"hidden_subscriber_count"`
	BannerImageURL        *string    `json:"banner_image_url,omitempty"`
	ProfileImageURL       *string    `json:"profile_image_url,omitempty"`
	ChannelKeywords       *string    `json:"channel_keywords,omitempty"`
	DefaultLanguage       *string    `json:"default_language,omitempty"`
	AvgViewsPerVideo      float64    `json:"avg_views_per_video"`
	VideosLast30Days      int64      `json:"videos_last_30_days"`
	LastSyncedAt          time.Time  `json:"last_synced_at"`
	SyncSuccessful        bool       `json:"sync_successful"`
	SyncError             *string    `json:"sync_error,omitempty"`
}
