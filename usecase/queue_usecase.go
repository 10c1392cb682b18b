package usecase

import (
	"context"
	"fmt"

	"channel-studio/domain/dto"
	"channel-studio/domain/model"
	"channel-studio/domain/repository"
	"channel-studio/infrastructure/clients/n8n"
	"channel-studio/infrastructure/logger"
)

// IQueueUsecase manages the content generation queue.
type IQueueUsecase interface {
	// Enqueue creates a pending video and immediately tries to dispatch it.
	Enqueue(ctx context.Context, req *dto.CreateVideoRequest) (*model.Video, error)
	// Dispatch starts generation for a specific pending video. Returns
	// false when all generation slots are taken or the video is not
	// pending anymore.
	Dispatch(ctx context.Context, videoID int64) (bool, error)
	// DispatchNext starts generation for the oldest pending video when a
	// slot is free. Returns false when nothing was dispatched.
	DispatchNext(ctx context.Context) (bool, error)
	// ApplyStatusUpdate records a workflow callback and, on a terminal
	// status, frees the slot and pulls the next pending video.
	ApplyStatusUpdate(ctx context.Context, videoID int64, update *dto.VideoStatusUpdateRequest) error
	GetByID(ctx context.Context, videoID int64) (*model.Video, error)
	ListForChannel(ctx context.Context, channelID int64) ([]model.Video, error)
}

type QueueUsecase struct {
	queueRepo     repository.IVideoQueue
	channelRepo   repository.IChannel
	workflow      n8n.IWorkflowClient
	maxInProgress int64
}

func NewQueueUsecase(queueRepo repository.IVideoQueue, channelRepo repository.IChannel, workflow n8n.IWorkflowClient, maxInProgress int) *QueueUsecase {
	if maxInProgress <= 0 {
		maxInProgress = 8
	}
	return &QueueUsecase{
		queueRepo:     queueRepo,
		channelRepo:   channelRepo,
		workflow:      workflow,
		maxInProgress: int64(maxInProgress),
	}
}

func (u *QueueUsecase) Enqueue(ctx context.Context, req *dto.CreateVideoRequest) (*model.Video, error) {
	channel, err := u.channelRepo.GetByID(ctx, req.ChannelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, fmt.Errorf("channel %d not found", req.ChannelID)
	}

	video, err := u.queueRepo.Create(ctx, &model.Video{
		ChannelID:   req.ChannelID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}

	dispatched, err := u.Dispatch(ctx, video.ID)
	if err != nil {
		logger.GetLogger().WithField("videoId", video.ID).WithField("error", err).Warn("video enqueued but dispatch failed")
		return video, nil
	}
	if !dispatched {
		logger.GetLogger().WithField("videoId", video.ID).Info("all generation slots busy, video stays pending")
	}
	return u.queueRepo.GetByID(ctx, video.ID)
}

func (u *QueueUsecase) Dispatch(ctx context.Context, videoID int64) (bool, error) {
	free, err := u.hasFreeSlot(ctx)
	if err != nil || !free {
		return false, err
	}
	video, err := u.queueRepo.ClaimPending(ctx, videoID)
	if err != nil {
		return false, err
	}
	if video == nil {
		return false, nil
	}
	return true, u.trigger(ctx, video)
}

func (u *QueueUsecase) DispatchNext(ctx context.Context) (bool, error) {
	free, err := u.hasFreeSlot(ctx)
	if err != nil || !free {
		return false, err
	}
	video, err := u.queueRepo.ClaimOldestPending(ctx)
	if err != nil {
		return false, err
	}
	if video == nil {
		return false, nil
	}
	return true, u.trigger(ctx, video)
}

func (u *QueueUsecase) hasFreeSlot(ctx context.Context) (bool, error) {
	inProgress, err := u.queueRepo.CountInProgress(ctx)
	if err != nil {
		return false, err
	}
	return inProgress < u.maxInProgress, nil
}

// trigger posts the generation request. A rejected request marks the video
// failed so it does not hold a slot forever.
func (u *QueueUsecase) trigger(ctx context.Context, video *model.Video) error {
	channel, err := u.channelRepo.GetByID(ctx, video.ChannelID)
	if err != nil || channel == nil {
		msg := fmt.Sprintf("channel %d not found", video.ChannelID)
		_ = u.queueRepo.UpdateStatus(ctx, video.ID, model.VideoStatusFailed, nil, &msg)
		if err != nil {
			return err
		}
		return fmt.Errorf("%s", msg)
	}

	req := &n8n.GenerationRequest{
		VideoID:              video.ID,
		Title:                video.Title,
		Description:          video.Description,
		ChannelID:            channel.ID,
		ChannelName:          channel.Name,
		ChannelIntro:         channel.Intro,
		BackgroundVideo:      channel.BackgroundVideo,
		FrameImage:           channel.FrameImage,
		ImageStylePrompt:     channel.ImageStylePrompt,
		ThumbnailTemplate:    channel.ThumbnailTemplate,
		ThumbnailImagePrompt: channel.ThumbnailImagePrompt,
	}
	if err := u.workflow.TriggerGeneration(ctx, req); err != nil {
		msg := err.Error()
		_ = u.queueRepo.UpdateStatus(ctx, video.ID, model.VideoStatusFailed, nil, &msg)
		return err
	}
	logger.GetLogger().WithField("videoId", video.ID).WithField("channelId", channel.ID).Info("video generation dispatched")
	return nil
}

func (u *QueueUsecase) ApplyStatusUpdate(ctx context.Context, videoID int64, update *dto.VideoStatusUpdateRequest) error {
	video, err := u.queueRepo.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if video == nil {
		return fmt.Errorf("video %d not found", videoID)
	}

	switch update.Status {
	case model.VideoStatusCompleted:
		if err := u.queueRepo.CompleteVideo(ctx, videoID, update.URL, update.Thumbnail, update.Duration); err != nil {
			return err
		}
	case model.VideoStatusFailed:
		if err := u.queueRepo.UpdateStatus(ctx, videoID, model.VideoStatusFailed, update.StatusProgress, update.ErrorMessage); err != nil {
			return err
		}
	case model.VideoStatusStopped:
		if err := u.queueRepo.UpdateStatus(ctx, videoID, model.VideoStatusStopped, update.StatusProgress, nil); err != nil {
			return err
		}
	case model.VideoStatusProcessing, model.VideoStatusGeneratingScript, model.VideoStatusGeneratingContent, model.VideoStatusRendering:
		return u.queueRepo.UpdateStatus(ctx, videoID, update.Status, update.StatusProgress, nil)
	default:
		return fmt.Errorf("unknown video status %q", update.Status)
	}

	// A terminal status freed a slot; pull the next pending video in.
	if _, err := u.DispatchNext(ctx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed dispatching next pending video")
	}
	return nil
}

func (u *QueueUsecase) GetByID(ctx context.Context, videoID int64) (*model.Video, error) {
	return u.queueRepo.GetByID(ctx, videoID)
}

func (u *QueueUsecase) ListForChannel(ctx context.Context, channelID int64) ([]model.Video, error) {
	return u.queueRepo.ListForChannel(ctx, channelID)
}
