package repository

import (
	"context"

	"channel-studio/domain/model"
)

// IVideoQueue defines the content generation queue.
type IVideoQueue interface {
	Create(ctx context.Context, video *model.Video) (*model.Video, error)
	GetByID(ctx context.Context, id int64) (*model.Video, error)
	ListForChannel(ctx context.Context, channelID int64) ([]model.Video, error)
	// CountInProgress counts videos in any of the processing statuses.
	CountInProgress(ctx context.Context) (int64, error)
	// ClaimPending atomically moves a pending video into generating_script
	// and returns it, or nil when the video is not pending anymore.
	ClaimPending(ctx context.Context, id int64) (*model.Video, error)
	// ClaimOldestPending atomically dequeues the oldest pending video, or
	// returns nil when the queue is empty.
	ClaimOldestPending(ctx context.Context) (*model.Video, error)
	UpdateStatus(ctx context.Context, id int64, status string, progress *int, errorMessage *string) error
	CompleteVideo(ctx context.Context, id int64, url, thumbnail, duration *string) error
}
