package repository

import (
	"context"
	"time"

	"channel-studio/domain/model"
)

// IChannelSnapshot defines the append-only channel snapshot store.
type IChannelSnapshot interface {
	Insert(ctx context.Context, snapshot *model.ChannelSnapshot) error
	// LatestForChannel returns the most recent snapshot or nil when none exists.
	LatestForChannel(ctx context.Context, channelID int64) (*model.ChannelSnapshot, error)
	ListForChannel(ctx context.Context, channelID int64, from, to time.Time) ([]model.ChannelSnapshot, error)
}

// IVideoSnapshot defines the per-video catalog store, keyed by
// (channel_id, youtube_video_id).
type IVideoSnapshot interface {
	Upsert(ctx context.Context, snapshot *model.VideoSnapshot) error
	ListForChannel(ctx context.Context, channelID int64) ([]model.VideoSnapshot, error)
	// ChannelTotals returns video count and summed view count for a channel.
	ChannelTotals(ctx context.Context, channelID int64) (totalVideos int64, totalViews int64, err error)
	TopByViews(ctx context.Context, limit int) ([]model.VideoSnapshot, error)
}
