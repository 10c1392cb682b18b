package persistence

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"channel-studio/domain/model"
)

type AnalyticsReportRepository struct{ db *sql.DB }

func NewAnalyticsReportRepository(db *sql.DB) *AnalyticsReportRepository {
	return &AnalyticsReportRepository{db: db}
}

const analyticsReportUpsert = `INSERT INTO analytics_reports (channel_id, youtube_channel_id, report_date, report_type,
	dimension_type, dimension_value, views, estimated_minutes_watched, average_view_duration,
	average_view_percentage, subscribers_gained, subscribers_lost, likes, dislikes, comments, shares,
	viewer_percentage, estimated_revenue, estimated_ad_revenue, gross_revenue, cpm,
	estimated_red_partner_revenue, monetized_playbacks, ad_impressions, record_hash, last_synced_at, sync_successful)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
	ON CONFLICT (record_hash) DO UPDATE SET
	views=EXCLUDED.views, estimated_minutes_watched=EXCLUDED.estimated_minutes_watched,
	average_view_duration=EXCLUDED.average_view_duration, average_view_percentage=EXCLUDED.average_view_percentage,
	subscribers_gained=EXCLUDED.subscribers_gained, subscribers_lost=EXCLUDED.subscribers_lost,
	likes=EXCLUDED.likes, dislikes=EXCLUDED.dislikes, comments=EXCLUDED.comments, shares=EXCLUDED.shares,
	viewer_percentage=EXCLUDED.viewer_percentage, estimated_revenue=EXCLUDED.estimated_revenue,
	estimated_ad_revenue=EXCLUDED.estimated_ad_revenue, gross_revenue=EXCLUDED.gross_revenue,
	cpm=EXCLUDED.cpm, estimated_red_partner_revenue=EXCLUDED.estimated_red_partner_revenue,
	monetized_playbacks=EXCLUDED.monetized_playbacks, ad_impressions=EXCLUDED.ad_impressions,
	last_synced_at=EXCLUDED.last_synced_at, sync_successful=EXCLUDED.sync_successful`

// Upsert stores or refreshes the record identified by its hash.
func (r *AnalyticsReportRepository) Upsert(ctx context.Context, row *model.AnalyticsReportRow) error {
	_, err := r.db.ExecContext(ctx, analyticsReportUpsert,
		row.ChannelID, row.YoutubeChannelID, row.ReportDate, row.ReportType,
		row.DimensionType, row.DimensionValue, row.Views, row.EstimatedMinutesWatched, row.AverageViewDuration,
		row.AverageViewPercentage, row.SubscribersGained, row.SubscribersLost, row.Likes, row.Dislikes,
		row.Comments, row.Shares, row.ViewerPercentage, row.EstimatedRevenue, row.EstimatedAdRevenue,
		row.GrossRevenue, row.CPM, row.EstimatedRedPartnerRevenue, row.MonetizedPlaybacks, row.AdImpressions,
		row.RecordHash, row.LastSyncedAt, row.SyncSuccessful)
	return err
}

const analyticsReportColumns = `id, channel_id, youtube_channel_id, report_date, report_type, dimension_type,
	dimension_value, views, estimated_minutes_watched, average_view_duration, average_view_percentage,
	subscribers_gained, subscribers_lost, likes, dislikes, comments, shares, viewer_percentage,
	estimated_revenue, estimated_ad_revenue, gross_revenue, cpm, estimated_red_partner_revenue,
	monetized_playbacks, ad_impressions, record_hash, last_synced_at, sync_successful`

func (r *AnalyticsReportRepository) ListForChannel(ctx context.Context, channelID int64, reportType string, from, to time.Time) ([]model.AnalyticsReportRow, error) {
	q := `SELECT ` + analyticsReportColumns + ` FROM analytics_reports
	WHERE channel_id = $1 AND report_date >= $2 AND report_date <= $3`
	args := []interface{}{channelID, from, to}
	if reportType != "" {
		q += ` AND report_type = $4`
		args = append(args, reportType)
	}
	q += ` ORDER BY report_date, report_type, dimension_value`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.AnalyticsReportRow, 0)
	for rows.Next() {
		var row model.AnalyticsReportRow
		var youtubeChannelID, dimensionValue sql.NullString
		var estimatedRevenue, estimatedAdRevenue, grossRevenue, cpm, redPartnerRevenue sql.NullFloat64

		err := rows.Scan(&row.ID, &row.ChannelID, &youtubeChannelID, &row.ReportDate, &row.ReportType,
			&row.DimensionType, &dimensionValue, &row.Views, &row.EstimatedMinutesWatched,
			&row.AverageViewDuration, &row.AverageViewPercentage, &row.SubscribersGained, &row.SubscribersLost,
			&row.Likes, &row.Dislikes, &row.Comments, &row.Shares, &row.ViewerPercentage,
			&estimatedRevenue, &estimatedAdRevenue, &grossRevenue, &cpm, &redPartnerRevenue,
			&row.MonetizedPlaybacks, &row.AdImpressions, &row.RecordHash, &row.LastSyncedAt, &row.SyncSuccessful)
		if err != nil {
			return nil, err
		}

		row.YoutubeChannelID = nullableString(youtubeChannelID)
		row.DimensionValue = nullableString(dimensionValue)
		row.EstimatedRevenue = nullableFloat(estimatedRevenue)
		row.EstimatedAdRevenue = nullableFloat(estimatedAdRevenue)
		row.GrossRevenue = nullableFloat(grossRevenue)
		row.CPM = nullableFloat(cpm)
		row.EstimatedRedPartnerRevenue = nullableFloat(redPartnerRevenue)
		// CHAR(64) comes back space padded on some drivers
		row.RecordHash = strings.TrimSpace(row.RecordHash)
		out = append(out, row)
	}
	return out, rows.Err()
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
