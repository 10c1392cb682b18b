package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"channel-studio/domain/model"
	"channel-studio/domain/repository"
	"channel-studio/infrastructure/logger"
	"channel-studio/infrastructure/utils"

	youtubeanalytics "google.golang.org/api/youtubeanalytics/v2"
)

// IAnalyticsNormalizer turns raw Analytics API result tables into
// normalized, hash-keyed records.
type IAnalyticsNormalizer interface {
	ProcessChannelReport(ctx context.Context, channel *model.Channel, youtubeChannelID string, report *youtubeanalytics.QueryResponse, reportType, dimensionType, fixedDate string) (stored, skipped int)
	ProcessVideoReport(ctx context.Context, channel *model.Channel, youtubeVideoID string, report *youtubeanalytics.QueryResponse, reportType, dimensionType, fixedDate string) (stored, skipped int)
}

type AnalyticsUsecase struct {
	reportRepo repository.IAnalyticsReport
	videoRepo  repository.IVideoAnalytics
	now        func() time.Time
}

func NewAnalyticsUsecase(reportRepo repository.IAnalyticsReport, videoRepo repository.IVideoAnalytics) *AnalyticsUsecase {
	return &AnalyticsUsecase{reportRepo: reportRepo, videoRepo: videoRepo, now: utils.GetCurrentTime}
}

// WithClock overrides the time source. Used by tests.
func (u *AnalyticsUsecase) WithClock(now func() time.Time) *AnalyticsUsecase {
	u.now = now
	return u
}

// RecordHash derives the stable identity of a logical analytics record.
func RecordHash(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// ProcessChannelReport normalizes every row of a channel-level report.
// Rows with a malformed report date are skipped; a failing upsert is
// logged and counted without aborting the remaining rows.
func (u *AnalyticsUsecase) ProcessChannelReport(ctx context.Context, channel *model.Channel, youtubeChannelID string, report *youtubeanalytics.QueryResponse, reportType, dimensionType, fixedDate string) (int, int) {
	if report == nil || len(report.Rows) == 0 {
		return 0, 0
	}
	columns := columnIndex(report)
	now := u.now()
	stored, skipped := 0, 0

	for _, rawRow := range report.Rows {
		dateStr := resolveReportDate(rawRow, columns, fixedDate, now)
		reportDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			skipped++
			logger.GetLogger().WithField("channelId", channel.ID).WithField("date", dateStr).
				Warn("analytics row with malformed report date skipped")
			continue
		}
		dimensionValue := resolveDimensionValue(rawRow, columns, dimensionType)

		row := &model.AnalyticsReportRow{
			ChannelID:      channel.ID,
			ReportDate:     reportDate,
			ReportType:     reportType,
			DimensionType:  dimensionType,
			DimensionValue: dimensionValue,
			RecordHash:     RecordHash(strconv.FormatInt(channel.ID, 10), dateStr, reportType, dimensionType, stringOrEmpty(dimensionValue)),
			LastSyncedAt:   now,
			SyncSuccessful: true,
		}
		if youtubeChannelID != "" {
			id := youtubeChannelID
			row.YoutubeChannelID = &id
		}
		applyChannelMetrics(row, rawRow, columns)

		if err := u.reportRepo.Upsert(ctx, row); err != nil {
			skipped++
			logger.GetLogger().WithField("channelId", channel.ID).WithField("error", err).
				Error("failed storing analytics record")
			continue
		}
		stored++
	}
	return stored, skipped
}

// ProcessVideoReport normalizes every row of a per-video report.
func (u *AnalyticsUsecase) ProcessVideoReport(ctx context.Context, channel *model.Channel, youtubeVideoID string, report *youtubeanalytics.QueryResponse, reportType, dimensionType, fixedDate string) (int, int) {
	if report == nil || len(report.Rows) == 0 {
		return 0, 0
	}
	columns := columnIndex(report)
	now := u.now()
	stored, skipped := 0, 0

	for _, rawRow := range report.Rows {
		dateStr := resolveReportDate(rawRow, columns, fixedDate, now)
		reportDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			skipped++
			continue
		}
		dimensionValue := resolveDimensionValue(rawRow, columns, dimensionType)

		row := &model.VideoAnalyticsRow{
			ChannelID:      channel.ID,
			YoutubeVideoID: youtubeVideoID,
			ReportDate:     reportDate,
			ReportType:     reportType,
			DimensionType:  dimensionType,
			DimensionValue: dimensionValue,
			RecordHash:     RecordHash(strconv.FormatInt(channel.ID, 10), youtubeVideoID, dateStr, reportType, dimensionType, stringOrEmpty(dimensionValue)),
			LastSyncedAt:   now,
			SyncSuccessful: true,
		}
		applyVideoMetrics(row, rawRow, columns)

		if err := u.videoRepo.Upsert(ctx, row); err != nil {
			skipped++
			logger.GetLogger().WithField("videoId", youtubeVideoID).WithField("error", err).
				Error("failed storing video analytics record")
			continue
		}
		stored++
	}
	return stored, skipped
}

// columnIndex maps header names to their position in each row.
func columnIndex(report *youtubeanalytics.QueryResponse) map[string]int {
	idx := make(map[string]int, len(report.ColumnHeaders))
	for i, h := range report.ColumnHeaders {
		if h != nil {
			idx[h.Name] = i
		}
	}
	return idx
}

// resolveReportDate picks the row's date: a fixed date when the report is a
// whole-window aggregation, the day dimension column otherwise, and today
// when the row carries no date at all.
func resolveReportDate(row []interface{}, columns map[string]int, fixedDate string, now time.Time) string {
	if fixedDate != "" {
		return fixedDate
	}
	if i, ok := columns[model.DimensionDay]; ok && i < len(row) {
		if s, ok := row[i].(string); ok && s != "" {
			return s
		}
	}
	return now.Format("2006-01-02")
}

// resolveDimensionValue extracts the dimension column. Day-dimensioned
// rows keep it nil because the date already carries that information.
func resolveDimensionValue(row []interface{}, columns map[string]int, dimensionType string) *string {
	if dimensionType == model.DimensionDay {
		return nil
	}
	i, ok := columns[dimensionType]
	if !ok || i >= len(row) {
		return nil
	}
	s, ok := row[i].(string)
	if !ok || s == "" {
		return nil
	}
	s = utils.CleanUTF8Text(s)
	return &s
}

func applyChannelMetrics(dst *model.AnalyticsReportRow, row []interface{}, columns map[string]int) {
	for name, i := range columns {
		if i >= len(row) {
			continue
		}
		v := row[i]
		switch name {
		case "views":
			dst.Views = metricInt(v)
		case "estimatedMinutesWatched":
			dst.EstimatedMinutesWatched = metricInt(v)
		case "averageViewDuration":
			dst.AverageViewDuration = metricFloat(v)
		case "averageViewPercentage":
			dst.AverageViewPercentage = metricFloat(v)
		case "subscribersGained":
			dst.SubscribersGained = metricInt(v)
		case "subscribersLost":
			dst.SubscribersLost = metricInt(v)
		case "likes":
			dst.Likes = metricInt(v)
		case "dislikes":
			dst.Dislikes = metricInt(v)
		case "comments":
			dst.Comments = metricInt(v)
		case "shares":
			dst.Shares = metricInt(v)
		case "viewerPercentage":
			dst.ViewerPercentage = metricFloat(v)
		case "estimatedRevenue":
			dst.EstimatedRevenue = revenueValue(v)
		case "estimatedAdRevenue":
			dst.EstimatedAdRevenue = revenueValue(v)
		case "grossRevenue":
			dst.GrossRevenue = revenueValue(v)
		case "cpm":
			dst.CPM = revenueValue(v)
		case "estimatedRedPartnerRevenue":
			dst.EstimatedRedPartnerRevenue = revenueValue(v)
		case "monetizedPlaybacks":
			dst.MonetizedPlaybacks = metricInt(v)
		case "adImpressions":
			dst.AdImpressions = metricInt(v)
		}
	}
}

func applyVideoMetrics(dst *model.VideoAnalyticsRow, row []interface{}, columns map[string]int) {
	for name, i := range columns {
		if i >= len(row) {
			continue
		}
		v := row[i]
		switch name {
		case "views":
			dst.Views = metricInt(v)
		case "estimatedMinutesWatched":
			dst.EstimatedMinutesWatched = metricInt(v)
		case "averageViewDuration":
			dst.AverageViewDuration = metricFloat(v)
		case "likes":
			dst.Likes = metricInt(v)
		case "comments":
			dst.Comments = metricInt(v)
		case "shares":
			dst.Shares = metricInt(v)
		case "subscribersGained":
			dst.SubscribersGained = metricInt(v)
		}
	}
}

// numericValue accepts the JSON number and numeric string forms the API
// produces.
func numericValue(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// metricInt coerces a count metric; non-numeric values become 0.
func metricInt(v interface{}) int64 {
	f, ok := numericValue(v)
	if !ok {
		return 0
	}
	return int64(f)
}

// metricFloat coerces a decimal metric rounded to 2 places; non-numeric
// values become 0.
func metricFloat(v interface{}) float64 {
	f, ok := numericValue(v)
	if !ok {
		return 0
	}
	return utils.Round(f, 2)
}

// revenueValue is nil unless the value is numeric and strictly positive.
// Zero or missing revenue is indistinguishable from "not monetized", so it
// is stored as null rather than a misleading 0.
func revenueValue(v interface{}) *float64 {
	f, ok := numericValue(v)
	if !ok || f <= 0 {
		return nil
	}
	f = utils.Round(f, 4)
	return &f
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
