package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestVideoSnapshotRepository_ChannelTotals(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewVideoSnapshotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(1), COALESCE(SUM(view_count), 0) FROM video_snapshots`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(int64(40), int64(900000)))

	totalVideos, totalViews, err := repository.ChannelTotals(context.Background(), 1)

	require.NoError(t, err)
	require.Equal(t, int64(40), totalVideos)
	require.Equal(t, int64(900000), totalViews)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A channel with no synced videos totals to zeros rather than NULL.
func TestVideoSnapshotRepository_ChannelTotals_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewVideoSnapshotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(1), COALESCE(SUM(view_count), 0) FROM video_snapshots`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(int64(0), int64(0)))

	totalVideos, totalViews, err := repository.ChannelTotals(context.Background(), 2)

	require.NoError(t, err)
	require.Zero(t, totalVideos)
	require.Zero(t, totalViews)
	require.NoError(t, mock.ExpectationsWereMet())
}
