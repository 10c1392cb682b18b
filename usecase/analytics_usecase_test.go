package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	youtubeanalytics "google.golang.org/api/youtubeanalytics/v2"

	"channel-studio/domain/model"
	"channel-studio/usecase"
)

type fakeAnalyticsReportRepo struct {
	rows []model.AnalyticsReportRow
	err  error
}

func (f *fakeAnalyticsReportRepo) Upsert(ctx context.Context, row *model.AnalyticsReportRow) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, *row)
	return nil
}

func (f *fakeAnalyticsReportRepo) ListForChannel(ctx context.Context, channelID int64, reportType string, from, to time.Time) ([]model.AnalyticsReportRow, error) {
	return f.rows, nil
}

type fakeVideoAnalyticsRepo struct {
	rows []model.VideoAnalyticsRow
}

func (f *fakeVideoAnalyticsRepo) Upsert(ctx context.Context, row *model.VideoAnalyticsRow) error {
	f.rows = append(f.rows, *row)
	return nil
}

func (f *fakeVideoAnalyticsRepo) ListForVideo(ctx context.Context, channelID int64, youtubeVideoID string, from, to time.Time) ([]model.VideoAnalyticsRow, error) {
	return f.rows, nil
}

func queryResponse(headers []string, rows ...[]interface{}) *youtubeanalytics.QueryResponse {
	resp := &youtubeanalytics.QueryResponse{Rows: rows}
	for _, name := range headers {
		resp.ColumnHeaders = append(resp.ColumnHeaders, &youtubeanalytics.ResultTableColumnHeader{Name: name})
	}
	return resp
}

func TestRecordHash_Deterministic(t *testing.T) {
	a := usecase.RecordHash("1", "2025-06-01", "daily", "day", "")
	b := usecase.RecordHash("1", "2025-06-01", "daily", "day", "")
	c := usecase.RecordHash("1", "2025-06-01", "daily", "day", "US")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestProcessChannelReport_DailyRows(t *testing.T) {
	reportRepo := &fakeAnalyticsReportRepo{}
	normalizer := usecase.NewAnalyticsUsecase(reportRepo, &fakeVideoAnalyticsRepo{})
	channel := &model.Channel{ID: 1}

	report := queryResponse(
		[]string{"day", "views", "likes", "averageViewDuration"},
		[]interface{}{"2025-06-01", float64(120), float64(8), 95.456},
		[]interface{}{"2025-06-02", float64(140), float64(9), 101.123},
	)

	stored, skipped := normalizer.ProcessChannelReport(context.Background(), channel, "UCabc", report, model.ReportTypeDaily, model.DimensionDay, "")

	require.Equal(t, 2, stored)
	require.Zero(t, skipped)
	require.Len(t, reportRepo.rows, 2)

	first := reportRepo.rows[0]
	assert.Equal(t, int64(120), first.Views)
	assert.Equal(t, int64(8), first.Likes)
	assert.Equal(t, 95.46, first.AverageViewDuration)
	assert.Equal(t, "UCabc", *first.YoutubeChannelID)
	// Day-dimensioned rows carry the date, not a dimension value.
	assert.Nil(t, first.DimensionValue)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), first.ReportDate)
}

// Re-processing the same report produces identical record hashes, so the
// store can update in place instead of duplicating.
func TestProcessChannelReport_Idempotent(t *testing.T) {
	reportRepo := &fakeAnalyticsReportRepo{}
	normalizer := usecase.NewAnalyticsUsecase(reportRepo, &fakeVideoAnalyticsRepo{})
	channel := &model.Channel{ID: 1}

	report := queryResponse(
		[]string{"country", "views"},
		[]interface{}{"US", float64(300)},
	)

	normalizer.ProcessChannelReport(context.Background(), channel, "UCabc", report, model.ReportTypeGeographic, model.DimensionCountry, "2025-06-30")
	normalizer.ProcessChannelReport(context.Background(), channel, "UCabc", report, model.ReportTypeGeographic, model.DimensionCountry, "2025-06-30")

	require.Len(t, reportRepo.rows, 2)
	assert.Equal(t, reportRepo.rows[0].RecordHash, reportRepo.rows[1].RecordHash)
	assert.Equal(t, "US", *reportRepo.rows[0].DimensionValue)
}

func TestProcessChannelReport_RevenuePolicy(t *testing.T) {
	reportRepo := &fakeAnalyticsReportRepo{}
	normalizer := usecase.NewAnalyticsUsecase(reportRepo, &fakeVideoAnalyticsRepo{})
	channel := &model.Channel{ID: 1}

	report := queryResponse(
		[]string{"day", "estimatedRevenue", "cpm", "grossRevenue", "monetizedPlaybacks"},
		[]interface{}{"2025-06-01", 12.34567, float64(0), -0.5, float64(400)},
	)

	stored, skipped := normalizer.ProcessChannelReport(context.Background(), channel, "", report, model.ReportTypeRevenue, model.DimensionDay, "")

	require.Equal(t, 1, stored)
	require.Zero(t, skipped)

	row := reportRepo.rows[0]
	require.NotNil(t, row.EstimatedRevenue)
	assert.Equal(t, 12.3457, *row.EstimatedRevenue)
	// Zero and negative revenue are stored as null, not 0.
	assert.Nil(t, row.CPM)
	assert.Nil(t, row.GrossRevenue)
	assert.Equal(t, int64(400), row.MonetizedPlaybacks)
}

// A row with a malformed date is skipped without aborting the rest. A row
// carrying no date at all falls back to today instead of being dropped.
func TestProcessChannelReport_MalformedRowIsolated(t *testing.T) {
	reportRepo := &fakeAnalyticsReportRepo{}
	today := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	normalizer := usecase.NewAnalyticsUsecase(reportRepo, &fakeVideoAnalyticsRepo{}).
		WithClock(func() time.Time { return today })
	channel := &model.Channel{ID: 1}

	report := queryResponse(
		[]string{"day", "views"},
		[]interface{}{nil, float64(100)},
		[]interface{}{"not-a-date", float64(100)},
		[]interface{}{"2025-06-03", float64(100)},
	)

	stored, skipped := normalizer.ProcessChannelReport(context.Background(), channel, "", report, model.ReportTypeDaily, model.DimensionDay, "")

	assert.Equal(t, 2, stored)
	assert.Equal(t, 1, skipped)
	require.Len(t, reportRepo.rows, 2)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), reportRepo.rows[0].ReportDate)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), reportRepo.rows[1].ReportDate)
}

func TestProcessChannelReport_UpsertFailureCountsSkipped(t *testing.T) {
	reportRepo := &fakeAnalyticsReportRepo{err: assert.AnError}
	normalizer := usecase.NewAnalyticsUsecase(reportRepo, &fakeVideoAnalyticsRepo{})
	channel := &model.Channel{ID: 1}

	report := queryResponse(
		[]string{"day", "views"},
		[]interface{}{"2025-06-01", float64(100)},
	)

	stored, skipped := normalizer.ProcessChannelReport(context.Background(), channel, "", report, model.ReportTypeDaily, model.DimensionDay, "")

	assert.Zero(t, stored)
	assert.Equal(t, 1, skipped)
}

func TestProcessVideoReport(t *testing.T) {
	videoRepo := &fakeVideoAnalyticsRepo{}
	normalizer := usecase.NewAnalyticsUsecase(&fakeAnalyticsReportRepo{}, videoRepo)
	channel := &model.Channel{ID: 1}

	report := queryResponse(
		[]string{"insightTrafficSourceType", "views", "estimatedMinutesWatched"},
		[]interface{}{"YT_SEARCH", float64(50), float64(120)},
	)

	stored, skipped := normalizer.ProcessVideoReport(context.Background(), channel, "vid123", report, model.ReportTypeTrafficSource, model.DimensionTrafficSource, "2025-06-30")

	require.Equal(t, 1, stored)
	require.Zero(t, skipped)

	row := videoRepo.rows[0]
	assert.Equal(t, "vid123", row.YoutubeVideoID)
	assert.Equal(t, "YT_SEARCH", *row.DimensionValue)
	assert.Equal(t, int64(50), row.Views)
	// Hash includes the video id so two videos never collide.
	other := usecase.RecordHash("1", "vid999", "2025-06-30", model.ReportTypeTrafficSource, model.DimensionTrafficSource, "YT_SEARCH")
	assert.NotEqual(t, other, row.RecordHash)
}

func TestProcessChannelReport_EmptyReport(t *testing.T) {
	normalizer := usecase.NewAnalyticsUsecase(&fakeAnalyticsReportRepo{}, &fakeVideoAnalyticsRepo{})
	channel := &model.Channel{ID: 1}

	stored, skipped := normalizer.ProcessChannelReport(context.Background(), channel, "", nil, model.ReportTypeDaily, model.DimensionDay, "")

	assert.Zero(t, stored)
	assert.Zero(t, skipped)
}
