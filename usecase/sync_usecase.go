package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"channel-studio/domain/model"
	"channel-studio/domain/repository"
	"channel-studio/infrastructure/logger"
	"channel-studio/infrastructure/utils"

	"google.golang.org/api/youtube/v3"
	youtubeanalytics "google.golang.org/api/youtubeanalytics/v2"
)

var (
	// ErrNoChannels means no channel was eligible for syncing.
	ErrNoChannels = errors.New("no channels eligible for sync")
	// ErrRunInProgress means another sync cycle holds the run lock.
	ErrRunInProgress = errors.New("a sync cycle is already running")
)

// ClientFactory builds a per-channel YouTube API gateway from a valid
// access token.
type ClientFactory func(ctx context.Context, channelID int64, accessToken string) (repository.IYouTubeData, error)

// SyncConfig carries the tunables of the sync pipeline.
type SyncConfig struct {
	RecencyWindow       time.Duration
	AnalyticsWindowDays int
	VideoCutoff         time.Time
	TopVideosLimit      int64
	MaxVideosPerChannel int
}

// ISyncUsecase runs full data synchronization cycles.
type ISyncUsecase interface {
	// RunCycle syncs all eligible channels, or a single one when
	// channelID > 0. force bypasses the recency guard.
	RunCycle(ctx context.Context, channelID int64, force bool) (*model.RunStats, error)
}

type SyncUsecase struct {
	channelRepo  repository.IChannel
	snapshotRepo repository.IChannelSnapshot
	videoRepo    repository.IVideoSnapshot
	analytics    IAnalyticsNormalizer
	guardian     ITokenGuardian
	lock         repository.ISyncLock
	newClient    ClientFactory
	cfg          SyncConfig
	now          func() time.Time
}

func NewSyncUsecase(
	channelRepo repository.IChannel,
	snapshotRepo repository.IChannelSnapshot,
	videoRepo repository.IVideoSnapshot,
	analytics IAnalyticsNormalizer,
	guardian ITokenGuardian,
	lock repository.ISyncLock,
	newClient ClientFactory,
	cfg SyncConfig,
) *SyncUsecase {
	return &SyncUsecase{
		channelRepo:  channelRepo,
		snapshotRepo: snapshotRepo,
		videoRepo:    videoRepo,
		analytics:    analytics,
		guardian:     guardian,
		lock:         lock,
		newClient:    newClient,
		cfg:          cfg,
		now:          utils.GetCurrentTime,
	}
}

// WithClock overrides the time source. Used by tests.
func (u *SyncUsecase) WithClock(now func() time.Time) *SyncUsecase {
	u.now = now
	return u
}

// RunCycle is single-flight: overlapping invocations get ErrRunInProgress
// instead of doubled API quota usage. One failing channel never aborts the
// others.
func (u *SyncUsecase) RunCycle(ctx context.Context, channelID int64, force bool) (*model.RunStats, error) {
	release, ok, err := u.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	defer release()

	channels, err := u.selectChannels(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}

	started := u.now()
	stats := &model.RunStats{StartedAt: started}
	logger.GetLogger().WithField("channels", len(channels)).Info("sync cycle started")

	for i := range channels {
		channel := &channels[i]
		stats.ChannelsProcessed++

		if !force && u.recentlySynced(ctx, channel.ID) {
			stats.ChannelsSkipped++
			logger.GetLogger().WithField("channelId", channel.ID).Debug("channel synced recently, skipping")
			continue
		}
		if !u.guardian.EnsureValid(ctx, channel) {
			stats.ChannelsFailed++
			continue
		}
		client, err := u.newClient(ctx, channel.ID, *channel.GoogleAccessToken)
		if err != nil {
			stats.ChannelsFailed++
			logger.GetLogger().WithField("channelId", channel.ID).WithField("error", err).Error("failed building YouTube client")
			continue
		}

		if err := u.syncChannel(ctx, channel, client, stats); err != nil {
			stats.ChannelsFailed++
			logger.GetLogger().WithField("channelId", channel.ID).WithField("error", err).Error("channel sync failed")
			continue
		}
		stats.ChannelsSucceeded++
	}

	stats.Duration = u.now().Sub(started)
	logger.GetLogger().WithFields(map[string]interface{}{
		"processed": stats.ChannelsProcessed,
		"succeeded": stats.ChannelsSucceeded,
		"failed":    stats.ChannelsFailed,
		"skipped":   stats.ChannelsSkipped,
		"videos":    stats.VideosProcessed,
		"duration":  stats.Duration.String(),
	}).Info("sync cycle finished")
	return stats, nil
}

func (u *SyncUsecase) selectChannels(ctx context.Context, channelID int64) ([]model.Channel, error) {
	if channelID > 0 {
		channel, err := u.channelRepo.GetByID(ctx, channelID)
		if err != nil {
			return nil, err
		}
		if channel == nil || !channel.HasValidOAuthTokens() {
			return nil, nil
		}
		return []model.Channel{*channel}, nil
	}
	return u.channelRepo.GetSyncable(ctx)
}

// recentlySynced reports whether the last snapshot is both successful and
// inside the recency window. Failed attempts never suppress a retry.
func (u *SyncUsecase) recentlySynced(ctx context.Context, channelID int64) bool {
	if u.cfg.RecencyWindow <= 0 {
		return false
	}
	latest, err := u.snapshotRepo.LatestForChannel(ctx, channelID)
	if err != nil || latest == nil {
		return false
	}
	return latest.SyncSuccessful && u.now().Sub(latest.LastSyncedAt) < u.cfg.RecencyWindow
}

func (u *SyncUsecase) syncChannel(ctx context.Context, channel *model.Channel, client repository.IYouTubeData, stats *model.RunStats) error {
	info := client.ChannelInfo(ctx)
	if info == nil {
		u.insertFailureSnapshot(ctx, channel.ID, "could not fetch channel info")
		return fmt.Errorf("could not fetch channel info")
	}

	// The catalog syncs before the snapshot because the snapshot row
	// embeds the last-30-days upload count derived from the fetched
	// videos.
	videosLast30Days := u.syncChannelVideos(ctx, channel, client, info, stats)

	snapshot := u.buildSnapshot(channel.ID, info, videosLast30Days)
	if err := u.snapshotRepo.Insert(ctx, snapshot); err != nil {
		return fmt.Errorf("storing channel snapshot: %w", err)
	}

	u.syncChannelAnalytics(ctx, channel, client, info.Id)
	return nil
}

func (u *SyncUsecase) buildSnapshot(channelID int64, info *youtube.Channel, videosLast30Days int64) *model.ChannelSnapshot {
	snapshot := &model.ChannelSnapshot{
		ChannelID:        channelID,
		VideosLast30Days: videosLast30Days,
		LastSyncedAt:     u.now(),
		SyncSuccessful:   true,
	}
	if info.Id != "" {
		id := info.Id
		snapshot.YoutubeChannelID = &id
	}
	if info.Snippet != nil {
		snapshot.Title = cleanPtr(info.Snippet.Title)
		snapshot.Description = cleanPtr(info.Snippet.Description)
		snapshot.Country = cleanPtr(info.Snippet.Country)
		if t, err := time.Parse(time.RFC3339, info.Snippet.PublishedAt); err == nil {
			snapshot.PublishedAt = &t
		}
		if info.Snippet.Thumbnails != nil && info.Snippet.Thumbnails.High != nil {
			snapshot.ProfileImageURL = cleanPtr(info.Snippet.Thumbnails.High.Url)
		}
	}
	if info.Statistics != nil {
		snapshot.SubscriberCount = int64(info.Statistics.SubscriberCount)
		snapshot.VideoCount = int64(info.Statistics.VideoCount)
		snapshot.ViewCount = int64(info.Statistics.ViewCount)
		snapshot.HiddenSubscriberCount = info.Statistics.HiddenSubscriberCount
		if snapshot.VideoCount > 0 {
			snapshot.AvgViewsPerVideo = utils.Round(float64(snapshot.ViewCount)/float64(snapshot.VideoCount), 2)
		}
	}
	if info.BrandingSettings != nil {
		if info.BrandingSettings.Channel != nil {
			snapshot.ChannelKeywords = cleanPtr(info.BrandingSettings.Channel.Keywords)
			snapshot.DefaultLanguage = cleanPtr(info.BrandingSettings.Channel.DefaultLanguage)
		}
		if info.BrandingSettings.Image != nil {
			snapshot.BannerImageURL = cleanPtr(info.BrandingSettings.Image.BannerExternalUrl)
		}
	}
	return snapshot
}

func (u *SyncUsecase) insertFailureSnapshot(ctx context.Context, channelID int64, message string) {
	failure := &model.ChannelSnapshot{
		ChannelID:      channelID,
		LastSyncedAt:   u.now(),
		SyncSuccessful: false,
		SyncError:      &message,
	}
	if err := u.snapshotRepo.Insert(ctx, failure); err != nil {
		logger.GetLogger().WithField("channelId", channelID).WithField("error", err).Error("failed storing failure snapshot")
	}
}

// syncChannelVideos refreshes the video catalog from the uploads playlist
// and returns how many of the fetched videos were published in the last 30
// days.
func (u *SyncUsecase) syncChannelVideos(ctx context.Context, channel *model.Channel, client repository.IYouTubeData, info *youtube.Channel, stats *model.RunStats) int64 {
	playlistID := ""
	if info.ContentDetails != nil && info.ContentDetails.RelatedPlaylists != nil {
		playlistID = info.ContentDetails.RelatedPlaylists.Uploads
	}
	if playlistID == "" {
		playlistID = client.UploadsPlaylistID(ctx)
	}
	if playlistID == "" {
		logger.GetLogger().WithField("channelId", channel.ID).Warn("no uploads playlist found, skipping video sync")
		return 0
	}

	videoIDs := client.PlaylistVideoIDs(ctx, playlistID, u.cfg.MaxVideosPerChannel)
	if len(videoIDs) == 0 {
		return 0
	}
	videos := client.VideosByID(ctx, videoIDs)
	if videos == nil {
		logger.GetLogger().WithField("channelId", channel.ID).Warn("could not fetch video details, skipping video sync")
		return 0
	}

	now := u.now()
	recentSince := now.AddDate(0, 0, -30)
	var recent int64

	for _, video := range videos {
		stats.VideosProcessed++

		publishedAt, ok := videoPublishedAt(video)
		if !ok || publishedAt.Before(u.cfg.VideoCutoff) {
			continue
		}
		if publishedAt.After(recentSince) || publishedAt.Equal(recentSince) {
			recent++
		}

		snapshot := u.buildVideoSnapshot(channel.ID, video, publishedAt, now)
		if err := u.videoRepo.Upsert(ctx, snapshot); err != nil {
			stats.VideosFailed++
			logger.GetLogger().WithField("videoId", video.Id).WithField("error", err).Error("failed storing video snapshot")
			continue
		}
		stats.VideosSucceeded++
	}
	return recent
}

func (u *SyncUsecase) buildVideoSnapshot(channelID int64, video *youtube.Video, publishedAt, now time.Time) *model.VideoSnapshot {
	snapshot := &model.VideoSnapshot{
		ChannelID:      channelID,
		YoutubeVideoID: video.Id,
		PublishedAt:    &publishedAt,
		LastSyncedAt:   now,
		SyncSuccessful: true,
	}
	if video.Snippet != nil {
		snapshot.Title = cleanPtr(video.Snippet.Title)
		snapshot.Description = cleanPtr(video.Snippet.Description)
		snapshot.CategoryID = cleanPtr(video.Snippet.CategoryId)
		if video.Snippet.ChannelId != "" {
			id := video.Snippet.ChannelId
			snapshot.YoutubeChannelID = &id
		}
		for _, tag := range video.Snippet.Tags {
			snapshot.Tags = append(snapshot.Tags, utils.CleanUTF8Text(tag))
		}
		if t := video.Snippet.Thumbnails; t != nil {
			if t.Default != nil {
				snapshot.ThumbnailDefault = cleanPtr(t.Default.Url)
			}
			if t.Medium != nil {
				snapshot.ThumbnailMedium = cleanPtr(t.Medium.Url)
			}
			if t.High != nil {
				snapshot.ThumbnailHigh = cleanPtr(t.High.Url)
			}
			if t.Standard != nil {
				snapshot.ThumbnailStandard = cleanPtr(t.Standard.Url)
			}
			if t.Maxres != nil {
				snapshot.ThumbnailMaxres = cleanPtr(t.Maxres.Url)
			}
		}
	}
	if video.ContentDetails != nil && video.ContentDetails.Duration != "" {
		d := video.ContentDetails.Duration
		snapshot.Duration = &d
		snapshot.DurationSeconds = utils.ParseISODuration(d)
	}
	if video.Statistics != nil {
		snapshot.ViewCount = int64(video.Statistics.ViewCount)
		snapshot.LikeCount = int64(video.Statistics.LikeCount)
		snapshot.CommentCount = int64(video.Statistics.CommentCount)
		snapshot.FavoriteCount = int64(video.Statistics.FavoriteCount)
	}
	if video.Status != nil {
		snapshot.PrivacyStatus = cleanPtr(video.Status.PrivacyStatus)
		snapshot.UploadStatus = cleanPtr(video.Status.UploadStatus)
		snapshot.Embeddable = video.Status.Embeddable
		snapshot.MadeForKids = video.Status.MadeForKids
	}

	snapshot.EngagementRate, snapshot.LikeRate, snapshot.CommentRate = EngagementRates(snapshot.ViewCount, snapshot.LikeCount, snapshot.CommentCount)
	snapshot.ViewsPerDay = ViewsPerDay(publishedAt, snapshot.ViewCount, now)
	snapshot.PerformanceScore = PerformanceScore(snapshot.ViewCount, snapshot.EngagementRate)
	return snapshot
}

// syncChannelAnalytics pulls the report battery over the rolling window.
// A missing report is logged and skipped; the rest still run.
func (u *SyncUsecase) syncChannelAnalytics(ctx context.Context, channel *model.Channel, client repository.IYouTubeData, youtubeChannelID string) {
	now := u.now()
	endDate := now.Format("2006-01-02")
	startDate := now.AddDate(0, 0, -u.cfg.AnalyticsWindowDays).Format("2006-01-02")

	daily := client.ChannelReport(ctx, startDate, endDate,
		"views,estimatedMinutesWatched,averageViewDuration,averageViewPercentage,subscribersGained,subscribersLost,likes,dislikes,comments,shares",
		model.DimensionDay, "", "", 0)
	u.processChannelReport(ctx, channel, youtubeChannelID, daily, model.ReportTypeDaily, model.DimensionDay, "")

	geographic := client.ChannelReport(ctx, startDate, endDate,
		"views,estimatedMinutesWatched,subscribersGained", model.DimensionCountry, "", "-views", 0)
	u.processChannelReport(ctx, channel, youtubeChannelID, geographic, model.ReportTypeGeographic, model.DimensionCountry, endDate)

	device := client.ChannelReport(ctx, startDate, endDate,
		"views,estimatedMinutesWatched", model.DimensionDeviceType, "", "", 0)
	u.processChannelReport(ctx, channel, youtubeChannelID, device, model.ReportTypeDevice, model.DimensionDeviceType, endDate)

	traffic := client.ChannelReport(ctx, startDate, endDate,
		"views,estimatedMinutesWatched", model.DimensionTrafficSource, "", "", 0)
	u.processChannelReport(ctx, channel, youtubeChannelID, traffic, model.ReportTypeTrafficSource, model.DimensionTrafficSource, endDate)

	demographics := client.ChannelReport(ctx, startDate, endDate,
		"viewerPercentage", "ageGroup,gender", "", "", 0)
	u.processChannelReport(ctx, channel, youtubeChannelID, demographics, model.ReportTypeDemographics, model.DimensionAgeGroup, endDate)

	revenue := client.ChannelReport(ctx, startDate, endDate,
		"estimatedRevenue,estimatedAdRevenue,grossRevenue,cpm,monetizedPlaybacks,adImpressions",
		model.DimensionDay, "", "", 0)
	u.processChannelReport(ctx, channel, youtubeChannelID, revenue, model.ReportTypeRevenue, model.DimensionDay, "")

	for _, videoID := range client.TopVideoIDs(ctx, startDate, endDate, u.cfg.TopVideosLimit) {
		videoDaily := client.VideoReport(ctx, videoID, startDate, endDate,
			"views,estimatedMinutesWatched,averageViewDuration,likes,comments,shares,subscribersGained",
			model.DimensionDay)
		u.processVideoReport(ctx, channel, videoID, videoDaily, model.ReportTypeDaily, model.DimensionDay, "")

		videoTraffic := client.VideoReport(ctx, videoID, startDate, endDate,
			"views,estimatedMinutesWatched", model.DimensionTrafficSource)
		u.processVideoReport(ctx, channel, videoID, videoTraffic, model.ReportTypeTrafficSource, model.DimensionTrafficSource, endDate)
	}
}

func (u *SyncUsecase) processChannelReport(ctx context.Context, channel *model.Channel, youtubeChannelID string, report *youtubeanalytics.QueryResponse, reportType, dimensionType, fixedDate string) {
	if report == nil {
		logger.GetLogger().WithField("channelId", channel.ID).WithField("reportType", reportType).Warn("analytics report unavailable")
		return
	}
	stored, skipped := u.analytics.ProcessChannelReport(ctx, channel, youtubeChannelID, report, reportType, dimensionType, fixedDate)
	logger.GetLogger().WithFields(map[string]interface{}{
		"channelId":  channel.ID,
		"reportType": reportType,
		"stored":     stored,
		"skipped":    skipped,
	}).Debug("analytics report processed")
}

func (u *SyncUsecase) processVideoReport(ctx context.Context, channel *model.Channel, videoID string, report *youtubeanalytics.QueryResponse, reportType, dimensionType, fixedDate string) {
	if report == nil {
		logger.GetLogger().WithField("videoId", videoID).WithField("reportType", reportType).Warn("video analytics report unavailable")
		return
	}
	u.analytics.ProcessVideoReport(ctx, channel, videoID, report, reportType, dimensionType, fixedDate)
}

func videoPublishedAt(video *youtube.Video) (time.Time, bool) {
	if video.Snippet == nil || video.Snippet.PublishedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func cleanPtr(s string) *string {
	if s == "" {
		return nil
	}
	cleaned := utils.CleanUTF8Text(s)
	return &cleaned
}
