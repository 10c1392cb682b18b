package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"channel-studio/domain/model"
)

func TestAnalyticsReportRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAnalyticsReportRepository(db)

	reportDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	syncedAt := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	revenue := 12.3456
	row := &model.AnalyticsReportRow{
		ChannelID:               1,
		ReportDate:              reportDate,
		ReportType:              model.ReportTypeRevenue,
		DimensionType:           model.DimensionDay,
		Views:                   1000,
		EstimatedMinutesWatched: 4200,
		EstimatedRevenue:        &revenue,
		RecordHash:              "abc123",
		LastSyncedAt:            syncedAt,
		SyncSuccessful:          true,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO analytics_reports`)).
		WithArgs(int64(1), nil, reportDate, model.ReportTypeRevenue,
			model.DimensionDay, nil, int64(1000), int64(4200), float64(0),
			float64(0), int64(0), int64(0), int64(0), int64(0),
			int64(0), int64(0), float64(0), &revenue, nil,
			nil, nil, nil, int64(0), int64(0),
			"abc123", syncedAt, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repository.Upsert(context.Background(), row)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsReportRepository_ListForChannel_FilterByType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAnalyticsReportRepository(db)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	syncedAt := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	columns := []string{"id", "channel_id", "youtube_channel_id", "report_date", "report_type", "dimension_type",
		"dimension_value", "views", "estimated_minutes_watched", "average_view_duration", "average_view_percentage",
		"subscribers_gained", "subscribers_lost", "likes", "dislikes", "comments", "shares", "viewer_percentage",
		"estimated_revenue", "estimated_ad_revenue", "gross_revenue", "cpm", "estimated_red_partner_revenue",
		"monetized_playbacks", "ad_impressions", "record_hash", "last_synced_at", "sync_successful"}

	// record_hash comes back space padded from a CHAR(64) column
	mock.ExpectQuery(regexp.QuoteMeta(`FROM analytics_reports`)).
		WithArgs(int64(1), from, to, model.ReportTypeGeographic).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(10), int64(1), "UCabc", from, model.ReportTypeGeographic, model.DimensionCountry,
				"US", int64(500), int64(2100), 95.5, 40.2,
				int64(4), int64(1), int64(20), int64(0), int64(3), int64(2), float64(0),
				nil, nil, nil, nil, nil,
				int64(0), int64(0), "abc123   ", syncedAt, true))

	rows, err := repository.ListForChannel(context.Background(), 1, model.ReportTypeGeographic, from, to)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "abc123", rows[0].RecordHash)
	require.Equal(t, "US", *rows[0].DimensionValue)
	require.Nil(t, rows[0].EstimatedRevenue)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsReportRepository_ListForChannel_AllTypes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAnalyticsReportRepository(db)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM analytics_reports`)).
		WithArgs(int64(1), from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, err := repository.ListForChannel(context.Background(), 1, "", from, to)

	require.NoError(t, err)
	require.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}
