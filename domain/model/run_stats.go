package model

import "time"

// RunStats aggregates the outcome of one full sync cycle.
type RunStats struct {
	ChannelsProcessed int           `json:"channels_processed"`
	ChannelsSucceeded int           `json:"channels_succeeded"`
	ChannelsFailed    int           `json:"channels_failed"`
	ChannelsSkipped   int           `json:"channels_skipped"`
	VideosProcessed   int           `json:"videos_processed"`
	VideosSucceeded   int           `json:"videos_succeeded"`
	VideosFailed      int           `json:"videos_failed"`
	StartedAt         time.Time     `json:"started_at"`
	Duration          time.Duration `json:"duration"`
}
