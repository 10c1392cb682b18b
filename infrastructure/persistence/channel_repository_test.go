package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func channelColumnNames() []string {
	return []string{"id", "name", "description", "intro", "background_video", "frame_image",
		"image_style_prompt", "thumbnail_template", "thumbnail_image_prompt", "google_client_id",
		"google_client_secret", "google_access_token", "google_refresh_token",
		"google_access_token_expires_at", "created_at", "updated_at"}
}

func TestChannelRepository_GetSyncable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelRepository(db)

	now := time.Now()
	expiresAt := now.Add(30 * time.Minute)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE google_access_token IS NOT NULL AND google_access_token <> ''`)).
		WillReturnRows(sqlmock.NewRows(channelColumnNames()).
			AddRow(int64(1), "History Shorts", "AI history channel", nil, nil, nil,
				nil, nil, nil, "client-id",
				"client-secret", "access-token", "refresh-token",
				expiresAt, now, now))

	channels, err := repository.GetSyncable(context.Background())

	require.NoError(t, err)
	require.Len(t, channels, 1)
	require.Equal(t, "History Shorts", channels[0].Name)
	require.True(t, channels[0].HasValidOAuthTokens())
	require.NotNil(t, channels[0].GoogleAccessTokenExpiresAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM channels WHERE id = $1`)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(channelColumnNames()))

	channel, err := repository.GetByID(context.Background(), 42)

	require.NoError(t, err)
	require.Nil(t, channel)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepository_UpdateTokens_WithRotatedRefreshToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelRepository(db)

	expiresAt := time.Now().Add(time.Hour)
	refreshToken := "new-refresh-token"
	mock.ExpectExec(regexp.QuoteMeta(`SET google_access_token=$1, google_refresh_token=$2, google_access_token_expires_at=$3, updated_at=NOW()`)).
		WithArgs("new-access-token", "new-refresh-token", expiresAt, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repository.UpdateTokens(context.Background(), 1, "new-access-token", &refreshToken, expiresAt)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Without a rotated refresh token only the access token columns change.
func TestChannelRepository_UpdateTokens_AccessTokenOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelRepository(db)

	expiresAt := time.Now().Add(time.Hour)
	mock.ExpectExec(regexp.QuoteMeta(`SET google_access_token=$1, google_access_token_expires_at=$2, updated_at=NOW()`)).
		WithArgs("new-access-token", expiresAt, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repository.UpdateTokens(context.Background(), 1, "new-access-token", nil, expiresAt)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
