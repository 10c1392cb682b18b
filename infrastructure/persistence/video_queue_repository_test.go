package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"channel-studio/domain/model"
)

func videoRows(id int64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "channel_id", "title", "description", "url", "thumbnail",
		"duration", "status", "status_progress", "error_message", "completed_at", "created_at", "updated_at"}).
		AddRow(id, int64(1), "How Rome Fell", "An overview", nil, nil, nil, status, nil, nil, nil, now, now)
}

func TestVideoQueueRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewVideoQueueRepository(db)

	description := "An overview"
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO videos (channel_id, title, description, status)`)).
		WithArgs(int64(1), "How Rome Fell", &description).
		WillReturnRows(videoRows(7, model.VideoStatusPending))

	video, err := repository.Create(context.Background(), &model.Video{
		ChannelID:   1,
		Title:       "How Rome Fell",
		Description: &description,
	})

	require.NoError(t, err)
	require.Equal(t, int64(7), video.ID)
	require.Equal(t, model.VideoStatusPending, video.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoQueueRepository_CountInProgress(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewVideoQueueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(1) FROM videos WHERE status = ANY($1)`)).
		WithArgs(pq.Array(model.ProcessingStatuses)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repository.CountInProgress(context.Background())

	require.NoError(t, err)
	require.Equal(t, int64(3), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoQueueRepository_ClaimPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewVideoQueueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE videos SET status='generating_script', updated_at=NOW()`)).
		WithArgs(int64(7)).
		WillReturnRows(videoRows(7, model.VideoStatusGeneratingScript))

	video, err := repository.ClaimPending(context.Background(), 7)

	require.NoError(t, err)
	require.NotNil(t, video)
	require.Equal(t, model.VideoStatusGeneratingScript, video.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A video that is no longer pending yields nil instead of an error, so a
// losing dispatcher just walks away.
func TestVideoQueueRepository_ClaimPending_AlreadyClaimed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewVideoQueueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE videos SET status='generating_script', updated_at=NOW()`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	video, err := repository.ClaimPending(context.Background(), 7)

	require.NoError(t, err)
	require.Nil(t, video)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoQueueRepository_ClaimOldestPending_EmptyQueue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewVideoQueueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE SKIP LOCKED`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	video, err := repository.ClaimOldestPending(context.Background())

	require.NoError(t, err)
	require.Nil(t, video)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoQueueRepository_CompleteVideo(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewVideoQueueRepository(db)

	url := "https://cdn.example.com/v/7.mp4"
	thumbnail := "https://cdn.example.com/v/7.jpg"
	duration := "00:08:31"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE videos SET status='completed', status_progress=100,`)).
		WithArgs(&url, &thumbnail, &duration, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repository.CompleteVideo(context.Background(), 7, &url, &thumbnail, &duration)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
