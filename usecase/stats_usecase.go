package usecase

import (
	"context"
	"time"

	"channel-studio/domain/model"
	"channel-studio/domain/repository"
	"channel-studio/infrastructure/logger"
	"channel-studio/infrastructure/utils"
)

// IStatsUsecase maintains the per-day channel rollups.
type IStatsUsecase interface {
	// RollupAll recomputes today's bucket for every channel.
	RollupAll(ctx context.Context) error
	ListRange(ctx context.Context, channelID int64, from, to time.Time) ([]model.DailyChannelStat, error)
}

type StatsUsecase struct {
	channelRepo repository.IChannel
	videoRepo   repository.IVideoSnapshot
	statRepo    repository.IDailyChannelStat
	now         func() time.Time
}

func NewStatsUsecase(channelRepo repository.IChannel, videoRepo repository.IVideoSnapshot, statRepo repository.IDailyChannelStat) *StatsUsecase {
	return &StatsUsecase{
		channelRepo: channelRepo,
		videoRepo:   videoRepo,
		statRepo:    statRepo,
		now:         utils.GetCurrentTime,
	}
}

// WithClock overrides the time source. Used by tests.
func (u *StatsUsecase) WithClock(now func() time.Time) *StatsUsecase {
	u.now = now
	return u
}

// RollupAll aggregates the current video catalog into a minute-truncated
// bucket per channel. Rerunning within the same minute refreshes the
// bucket in place.
func (u *StatsUsecase) RollupAll(ctx context.Context) error {
	channels, err := u.channelRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	bucket := u.now().Truncate(time.Minute)

	for i := range channels {
		channel := &channels[i]
		totalVideos, totalViews, err := u.videoRepo.ChannelTotals(ctx, channel.ID)
		if err != nil {
			logger.GetLogger().WithField("channelId", channel.ID).WithField("error", err).Error("failed computing channel totals")
			continue
		}
		stat := &model.DailyChannelStat{
			ChannelID:   channel.ID,
			BucketTime:  bucket,
			TotalViews:  totalViews,
			TotalVideos: totalVideos,
		}
		if totalVideos > 0 {
			stat.AvgViewsPerVideo = utils.Round(float64(totalViews)/float64(totalVideos), 2)
		}
		if err := u.statRepo.Upsert(ctx, stat); err != nil {
			logger.GetLogger().WithField("channelId", channel.ID).WithField("error", err).Error("failed storing daily channel stat")
		}
	}
	return nil
}

func (u *StatsUsecase) ListRange(ctx context.Context, channelID int64, from, to time.Time) ([]model.DailyChannelStat, error) {
	return u.statRepo.ListRange(ctx, channelID, from, to)
}
