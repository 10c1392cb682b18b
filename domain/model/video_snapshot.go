package model

import "time"

// VideoSnapshot is the current known state of a single YouTube video,
// upserted on (channel_id, youtube_video_id) so every sync refreshes the
// same row in place.
type VideoSnapshot struct {
	ID                int64      `json:"id"`
	ChannelID         int64      `json:"channel_id"`
	YoutubeVideoID    string     `json:"youtube_video_id"`
	YoutubeChannelID  *string    `json:"youtube_channel_id,omitempty"`
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	PublishedAt       *time.Time `json:"published_at,omitempty"`
	Duration          *string    `json:"duration,omitempty"`
	DurationSeconds   int64      `json:"duration_seconds"`
	CategoryID        *string    `json:"category_id,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	ThumbnailDefault  *string    `json:"thumbnail_default,omitempty"`
	ThumbnailMedium   *string    `json:"thumbnail_medium,omitempty"`
	ThumbnailHigh     *string    `json:"thumbnail_high,omitempty"`
	ThumbnailStandard *string    `json:"thumbnail_standard,omitempty"`
	ThumbnailMaxres   *string    `json:"thumbnail_maxres,omitempty"`
	ViewCount         int64      `json:"view_count"`
	LikeCount         int64      `json:"like_count"`
	CommentCount      int64      `json:"comment_count"`
	FavoriteCount     int64      `json:"favorite_count"`
	EngagementRate    float64    `json:"engagement_rate"`
	LikeRate          float64    `json:"like_rate"`
	CommentRate       float64    `json:"comment_rate"`
	ViewsPerDay       float64    `json:"views_per_day"`
	PerformanceScore  int        `json:"performance_score"`
	PrivacyStatus     *string    `json:"privacy_status,omitempty"`
	UploadStatus      *string    `json:"upload_status,omitempty"`
	Embeddable        bool       `json:"embeddable"`
	MadeForKids       bool       `json:"made_for_kids"`
	LastSyncedAt      time.Time  `json:"last_synced_at"`
	SyncSuccessful    bool       `json:"sync_successful"`
}
