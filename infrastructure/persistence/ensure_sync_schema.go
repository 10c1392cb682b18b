package persistence

import (
	"database/sql"
	"fmt"

	"channel-studio/infrastructure/logger"
)

// EnsureSyncSchema creates the tables used by the sync pipeline if they do
// not exist. Safe to call at startup.
func EnsureSyncSchema(db *sql.DB) error {
	ddls := []string{
		`CREATE TABLE IF NOT EXISTS channels (
        id BIGSERIAL PRIMARY KEY,
        name TEXT NOT NULL,
        description TEXT,
        intro TEXT,
        background_video TEXT,
        frame_image TEXT,
        image_style_prompt TEXT,
        thumbnail_template TEXT,
        thumbnail_image_prompt TEXT,
        google_client_id TEXT,
        google_client_secret TEXT,
        google_access_token TEXT,
        google_refresh_token TEXT,
        google_access_token_expires_at TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
		`CREATE TABLE IF NOT EXISTS channel_snapshots (
        id BIGSERIAL PRIMARY KEY,
        channel_id BIGINT NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
        youtube_channel_id TEXT,
        title TEXT,
        description TEXT,
        country TEXT,
        published_at TIMESTAMPTZ,
        subscriber_count BIGINT NOT NULL DEFAULT 0,
        video_count BIGINT NOT NULL DEFAULT 0,
        view_count BIGINT NOT NULL DEFAULT 0,
        hidden_subscriber_count BOOLEAN NOT NULL DEFAULT FALSE,
        banner_image_url TEXT,
        profile_image_url TEXT,
        channel_keywords TEXT,
        default_language TEXT,
        avg_views_per_video DOUBLE PRECISION NOT NULL DEFAULT 0,
        videos_last_30_days BIGINT NOT NULL DEFAULT 0,
        last_synced_at TIMESTAMPTZ NOT NULL,
        sync_successful BOOLEAN NOT NULL DEFAULT TRUE,
        sync_error TEXT
    )`,
		`CREATE TABLE IF NOT EXISTS video_snapshots (
        id BIGSERIAL PRIMARY KEY,
        channel_id BIGINT NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
        youtube_video_id TEXT NOT NULL,
        youtube_channel_id TEXT,
        title TEXT,
        description TEXT,
        published_at TIMESTAMPTZ,
        duration TEXT,
        duration_seconds BIGINT NOT NULL DEFAULT 0,
        category_id TEXT,
        tags JSONB,
        thumbnail_default TEXT,
        thumbnail_medium TEXT,
        thumbnail_high TEXT,
        thumbnail_standard TEXT,
        thumbnail_maxres TEXT,
        view_count BIGINT NOT NULL DEFAULT 0,
        like_count BIGINT NOT NULL DEFAULT 0,
        comment_count BIGINT NOT NULL DEFAULT 0,
        favorite_count BIGINT NOT NULL DEFAULT 0,
        engagement_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
        like_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
        comment_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
        views_per_day DOUBLE PRECISION NOT NULL DEFAULT 0,
        performance_score INT NOT NULL DEFAULT 0,
        privacy_status TEXT,
        upload_status TEXT,
        embeddable BOOLEAN NOT NULL DEFAULT FALSE,
        made_for_kids BOOLEAN NOT NULL DEFAULT FALSE,
        last_synced_at TIMESTAMPTZ NOT NULL,
        sync_successful BOOLEAN NOT NULL DEFAULT TRUE,
        UNIQUE (channel_id, youtube_video_id)
    )`,
		`CREATE TABLE IF NOT EXISTS analytics_reports (
        id BIGSERIAL PRIMARY KEY,
        channel_id BIGINT NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
        youtube_channel_id TEXT,
        report_date DATE NOT NULL,
        report_type TEXT NOT NULL,
        dimension_type TEXT NOT NULL,
        dimension_value TEXT,
        views BIGINT NOT NULL DEFAULT 0,
        estimated_minutes_watched BIGINT NOT NULL DEFAULT 0,
        average_view_duration DOUBLE PRECISION NOT NULL DEFAULT 0,
        average_view_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
        subscribers_gained BIGINT NOT NULL DEFAULT 0,
        subscribers_lost BIGINT NOT NULL DEFAULT 0,
        likes BIGINT NOT NULL DEFAULT 0,
        dislikes BIGINT NOT NULL DEFAULT 0,
        comments BIGINT NOT NULL DEFAULT 0,
        shares BIGINT NOT NULL DEFAULT 0,
        viewer_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
        estimated_revenue NUMERIC(12,4),
        estimated_ad_revenue NUMERIC(12,4),
        gross_revenue NUMERIC(12,4),
        cpm NUMERIC(12,4),
        estimated_red_partner_revenue NUMERIC(12,4),
        monetized_playbacks BIGINT NOT NULL DEFAULT 0,
        ad_impressions BIGINT NOT NULL DEFAULT 0,
        record_hash CHAR(64) NOT NULL UNIQUE,
        last_synced_at TIMESTAMPTZ NOT NULL,
        sync_successful BOOLEAN NOT NULL DEFAULT TRUE
    )`,
		`CREATE TABLE IF NOT EXISTS video_analytics (
        id BIGSERIAL PRIMARY KEY,
        channel_id BIGINT NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
        youtube_video_id TEXT NOT NULL,
        report_date DATE NOT NULL,
        report_type TEXT NOT NULL,
        dimension_type TEXT NOT NULL,
        dimension_value TEXT,
        views BIGINT NOT NULL DEFAULT 0,
        estimated_minutes_watched BIGINT NOT NULL DEFAULT 0,
        average_view_duration DOUBLE PRECISION NOT NULL DEFAULT 0,
        likes BIGINT NOT NULL DEFAULT 0,
        comments BIGINT NOT NULL DEFAULT 0,
        shares BIGINT NOT NULL DEFAULT 0,
        subscribers_gained BIGINT NOT NULL DEFAULT 0,
        record_hash CHAR(64) NOT NULL UNIQUE,
        last_synced_at TIMESTAMPTZ NOT NULL,
        sync_successful BOOLEAN NOT NULL DEFAULT TRUE
    )`,
		`CREATE TABLE IF NOT EXISTS daily_channel_stats (
        id BIGSERIAL PRIMARY KEY,
        channel_id BIGINT NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
        bucket_time TIMESTAMPTZ NOT NULL,
        total_views BIGINT NOT NULL DEFAULT 0,
        total_videos BIGINT NOT NULL DEFAULT 0,
        avg_views_per_video DOUBLE PRECISION NOT NULL DEFAULT 0,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        UNIQUE (channel_id, bucket_time)
    )`,
		`CREATE TABLE IF NOT EXISTS videos (
        id BIGSERIAL PRIMARY KEY,
        channel_id BIGINT NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
        title TEXT NOT NULL,
        description TEXT,
        url TEXT,
        thumbnail TEXT,
        duration TEXT,
        status TEXT NOT NULL DEFAULT 'pending',
        status_progress INT,
        error_message TEXT,
        completed_at TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	}

	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("ensure sync schema: %w", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_channel_snapshots_channel_synced ON channel_snapshots (channel_id, last_synced_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_video_snapshots_views ON video_snapshots (view_count DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_reports_channel_date ON analytics_reports (channel_id, report_type, report_date)`,
		`CREATE INDEX IF NOT EXISTS idx_video_analytics_video_date ON video_analytics (channel_id, youtube_video_id, report_date)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_status ON videos (status, created_at)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			logger.GetLogger().WithField("error", err).Warn("failed creating index")
		}
	}

	return nil
}
