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

func TestChannelSnapshotRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelSnapshotRepository(db)

	youtubeChannelID := "UCabc"
	title := "History Shorts"
	syncedAt := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	snapshot := &model.ChannelSnapshot{
		ChannelID:        1,
		YoutubeChannelID: &youtubeChannelID,
		Title:            &title,
		SubscriberCount:  12000,
		VideoCount:       40,
		ViewCount:        900000,
		AvgViewsPerVideo: 22500,
		VideosLast30Days: 6,
		LastSyncedAt:     syncedAt,
		SyncSuccessful:   true,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO channel_snapshots`)).
		WithArgs(int64(1), &youtubeChannelID, &title, nil, nil, nil,
			int64(12000), int64(40), int64(900000), false, nil, nil,
			nil, nil, float64(22500), int64(6), syncedAt,
			true, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	err = repository.Insert(context.Background(), snapshot)

	require.NoError(t, err)
	require.Equal(t, int64(5), snapshot.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelSnapshotRepository_LatestForChannel_None(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelSnapshotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY last_synced_at DESC LIMIT 1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	snapshot, err := repository.LatestForChannel(context.Background(), 1)

	require.NoError(t, err)
	require.Nil(t, snapshot)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelSnapshotRepository_LatestForChannel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelSnapshotRepository(db)

	syncedAt := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	columns := []string{"id", "channel_id", "youtube_channel_id", "title", "description", "country",
		"published_at", "subscriber_count", "video_count", "view_count", "hidden_subscriber_count",
		"banner_image_url", "profile_image_url", "channel_keywords", "default_language",
		"avg_views_per_video", "videos_last_30_days", "last_synced_at", "sync_successful", "sync_error"}

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY last_synced_at DESC LIMIT 1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(5), int64(1), "UCabc", "History Shorts", nil, "US",
				nil, int64(12000), int64(40), int64(900000), false,
				nil, nil, nil, nil,
				22500.0, int64(6), syncedAt, false, "could not fetch channel info"))

	snapshot, err := repository.LatestForChannel(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, snapshot)
	require.False(t, snapshot.SyncSuccessful)
	require.Equal(t, "could not fetch channel info", *snapshot.SyncError)
	require.Equal(t, "US", *snapshot.Country)
	require.NoError(t, mock.ExpectationsWereMet())
}
