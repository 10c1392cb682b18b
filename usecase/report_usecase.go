package usecase

import (
	"context"
	"fmt"
	"time"

	"channel-studio/domain/dto"
	"channel-studio/domain/model"
	"channel-studio/domain/repository"
	"channel-studio/infrastructure/cache"
)

// IReportUsecase serves the read side of the dashboard.
type IReportUsecase interface {
	ChannelSnapshots(ctx context.Context, channelID int64, from, to time.Time) ([]model.ChannelSnapshot, error)
	ChannelVideos(ctx context.Context, channelID int64) ([]model.VideoSnapshot, error)
	ChannelAnalytics(ctx context.Context, channelID int64, reportType string, from, to time.Time) ([]model.AnalyticsReportRow, error)
	VideoAnalytics(ctx context.Context, channelID int64, youtubeVideoID string, from, to time.Time) ([]model.VideoAnalyticsRow, error)
	DailyStats(ctx context.Context, channelID int64, from, to time.Time) ([]model.DailyChannelStat, error)
	DashboardSummary(ctx context.Context) (*dto.DashboardSummary, error)
}

type ReportUsecase struct {
	channelRepo   repository.IChannel
	snapshotRepo  repository.IChannelSnapshot
	videoRepo     repository.IVideoSnapshot
	analyticsRepo repository.IAnalyticsReport
	videoStats    repository.IVideoAnalytics
	dailyRepo     repository.IDailyChannelStat
	cache         cache.IReportCache
	topLimit      int
}

func NewReportUsecase(
	channelRepo repository.IChannel,
	snapshotRepo repository.IChannelSnapshot,
	videoRepo repository.IVideoSnapshot,
	analyticsRepo repository.IAnalyticsReport,
	videoStats repository.IVideoAnalytics,
	dailyRepo repository.IDailyChannelStat,
	reportCache cache.IReportCache,
	topLimit int,
) *ReportUsecase {
	if topLimit <= 0 {
		topLimit = 10
	}
	return &ReportUsecase{
		channelRepo:   channelRepo,
		snapshotRepo:  snapshotRepo,
		videoRepo:     videoRepo,
		analyticsRepo: analyticsRepo,
		videoStats:    videoStats,
		dailyRepo:     dailyRepo,
		cache:         reportCache,
		topLimit:      topLimit,
	}
}

func (u *ReportUsecase) ChannelSnapshots(ctx context.Context, channelID int64, from, to time.Time) ([]model.ChannelSnapshot, error) {
	return u.snapshotRepo.ListForChannel(ctx, channelID, from, to)
}

func (u *ReportUsecase) ChannelVideos(ctx context.Context, channelID int64) ([]model.VideoSnapshot, error) {
	key := fmt.Sprintf("report:videos:%d", channelID)
	var cached []model.VideoSnapshot
	if u.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	videos, err := u.videoRepo.ListForChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	u.cache.Set(ctx, key, videos)
	return videos, nil
}

func (u *ReportUsecase) ChannelAnalytics(ctx context.Context, channelID int64, reportType string, from, to time.Time) ([]model.AnalyticsReportRow, error) {
	return u.analyticsRepo.ListForChannel(ctx, channelID, reportType, from, to)
}

func (u *ReportUsecase) VideoAnalytics(ctx context.Context, channelID int64, youtubeVideoID string, from, to time.Time) ([]model.VideoAnalyticsRow, error) {
	return u.videoStats.ListForVideo(ctx, channelID, youtubeVideoID, from, to)
}

func (u *ReportUsecase) DailyStats(ctx context.Context, channelID int64, from, to time.Time) ([]model.DailyChannelStat, error) {
	return u.dailyRepo.ListRange(ctx, channelID, from, to)
}

// DashboardSummary joins every channel's latest snapshot with the global
// top videos. The result is cached briefly since the dashboard polls it.
func (u *ReportUsecase) DashboardSummary(ctx context.Context) (*dto.DashboardSummary, error) {
	const key = "report:dashboard:summary"
	var cached dto.DashboardSummary
	if u.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	channels, err := u.channelRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummary{
		TotalChannels: len(channels),
		Channels:      make([]dto.ChannelOverview, 0, len(channels)),
	}
	for _, channel := range channels {
		overview := dto.ChannelOverview{ChannelID: channel.ID, Name: channel.Name}
		latest, err := u.snapshotRepo.LatestForChannel(ctx, channel.ID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			overview.SubscriberCount = latest.SubscriberCount
			overview.ViewCount = latest.ViewCount
			overview.VideoCount = latest.VideoCount
			overview.AvgViewsPerVideo = latest.AvgViewsPerVideo
			overview.VideosLast30Days = latest.VideosLast30Days
			overview.SyncSuccessful = latest.SyncSuccessful
			if !latest.LastSyncedAt.IsZero() {
				synced := latest.LastSyncedAt.Format(time.RFC3339)
				overview.LastSyncedAt = &synced
			}
			summary.TotalSubscribers += latest.SubscriberCount
			summary.TotalViews += latest.ViewCount
			summary.TotalVideos += latest.VideoCount
		}
		summary.Channels = append(summary.Channels, overview)
	}

	topVideos, err := u.videoRepo.TopByViews(ctx, u.topLimit)
	if err != nil {
		return nil, err
	}
	summary.TopVideos = topVideos

	u.cache.Set(ctx, key, summary)
	return summary, nil
}
