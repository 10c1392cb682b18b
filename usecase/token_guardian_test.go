package usecase_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"channel-studio/domain/model"
	"channel-studio/usecase"
)

type fakeChannelRepo struct {
	channels []model.Channel
	byID     map[int64]*model.Channel

	updatedChannelID    int64
	updatedAccessToken  string
	updatedRefreshToken *string
	updatedExpiresAt    time.Time
	updateErr           error
	updateCalls         int
}

func (f *fakeChannelRepo) GetSyncable(ctx context.Context) ([]model.Channel, error) {
	return f.channels, nil
}

func (f *fakeChannelRepo) GetAll(ctx context.Context) ([]model.Channel, error) {
	return f.channels, nil
}

func (f *fakeChannelRepo) GetByID(ctx context.Context, id int64) (*model.Channel, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, nil
}

func (f *fakeChannelRepo) UpdateTokens(ctx context.Context, channelID int64, accessToken string, refreshToken *string, expiresAt time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updateCalls++
	f.updatedChannelID = channelID
	f.updatedAccessToken = accessToken
	f.updatedRefreshToken = refreshToken
	f.updatedExpiresAt = expiresAt
	return nil
}

func strPtr(s string) *string { return &s }

func tokenChannel(expiresIn time.Duration, now time.Time) *model.Channel {
	expiresAt := now.Add(expiresIn)
	return &model.Channel{
		ID:                         1,
		Name:                       "History Shorts",
		GoogleAccessToken:          strPtr("old-access-token"),
		GoogleRefreshToken:         strPtr("refresh-token"),
		GoogleAccessTokenExpiresAt: &expiresAt,
	}
}

func tokenServer(t *testing.T, body string, status int, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func TestTokenGuardian_RefreshesExpiringToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	server := tokenServer(t, `{"access_token":"new-access-token","expires_in":3600,"token_type":"Bearer"}`, http.StatusOK, &calls)
	defer server.Close()

	repo := &fakeChannelRepo{}
	guardian := usecase.NewTokenGuardian(repo, "client-id", "client-secret").
		WithEndpoint(oauth2.Endpoint{TokenURL: server.URL}).
		WithClock(func() time.Time { return now })

	// Expires in 4 minutes, inside the 5 minute lookahead.
	channel := tokenChannel(4*time.Minute, now)
	ok := guardian.EnsureValid(context.Background(), channel)

	require.True(t, ok)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, repo.updateCalls)
	assert.Equal(t, "new-access-token", repo.updatedAccessToken)
	assert.Nil(t, repo.updatedRefreshToken)
	assert.Equal(t, "new-access-token", *channel.GoogleAccessToken)
}

func TestTokenGuardian_FreshTokenNotRefreshed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	server := tokenServer(t, `{}`, http.StatusOK, &calls)
	defer server.Close()

	repo := &fakeChannelRepo{}
	guardian := usecase.NewTokenGuardian(repo, "client-id", "client-secret").
		WithEndpoint(oauth2.Endpoint{TokenURL: server.URL}).
		WithClock(func() time.Time { return now })

	// Expires in 6 minutes, outside the lookahead.
	channel := tokenChannel(6*time.Minute, now)
	ok := guardian.EnsureValid(context.Background(), channel)

	require.True(t, ok)
	assert.Zero(t, calls)
	assert.Zero(t, repo.updateCalls)
	assert.Equal(t, "old-access-token", *channel.GoogleAccessToken)
}

func TestTokenGuardian_RotatedRefreshTokenPersisted(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	server := tokenServer(t, `{"access_token":"new-access-token","refresh_token":"rotated-refresh-token","expires_in":3600}`, http.StatusOK, &calls)
	defer server.Close()

	repo := &fakeChannelRepo{}
	guardian := usecase.NewTokenGuardian(repo, "client-id", "client-secret").
		WithEndpoint(oauth2.Endpoint{TokenURL: server.URL}).
		WithClock(func() time.Time { return now })

	channel := tokenChannel(-time.Minute, now)
	ok := guardian.EnsureValid(context.Background(), channel)

	require.True(t, ok)
	require.NotNil(t, repo.updatedRefreshToken)
	assert.Equal(t, "rotated-refresh-token", *repo.updatedRefreshToken)
	assert.Equal(t, "rotated-refresh-token", *channel.GoogleRefreshToken)
}

func TestTokenGuardian_NoAccessToken(t *testing.T) {
	guardian := usecase.NewTokenGuardian(&fakeChannelRepo{}, "client-id", "client-secret")

	ok := guardian.EnsureValid(context.Background(), &model.Channel{ID: 1})

	assert.False(t, ok)
}

func TestTokenGuardian_NoExpiryAssumedValid(t *testing.T) {
	guardian := usecase.NewTokenGuardian(&fakeChannelRepo{}, "client-id", "client-secret")

	channel := &model.Channel{ID: 1, GoogleAccessToken: strPtr("access-token")}
	ok := guardian.EnsureValid(context.Background(), channel)

	assert.True(t, ok)
}

func TestTokenGuardian_ExpiredWithoutRefreshToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	guardian := usecase.NewTokenGuardian(&fakeChannelRepo{}, "client-id", "client-secret").
		WithClock(func() time.Time { return now })

	channel := tokenChannel(-time.Minute, now)
	channel.GoogleRefreshToken = nil
	ok := guardian.EnsureValid(context.Background(), channel)

	assert.False(t, ok)
}

func TestTokenGuardian_RefreshFailureFailsClosed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	server := tokenServer(t, `{"error":"invalid_grant"}`, http.StatusBadRequest, &calls)
	defer server.Close()

	repo := &fakeChannelRepo{}
	guardian := usecase.NewTokenGuardian(repo, "client-id", "client-secret").
		WithEndpoint(oauth2.Endpoint{TokenURL: server.URL}).
		WithClock(func() time.Time { return now })

	channel := tokenChannel(-time.Minute, now)
	ok := guardian.EnsureValid(context.Background(), channel)

	assert.False(t, ok)
	assert.Equal(t, 1, calls)
	assert.Zero(t, repo.updateCalls)
}

// Channel-level client credentials beat the configured fallback pair.
func TestTokenGuardian_PerChannelCredentials(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var seenClientID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		seenClientID = r.FormValue("client_id")
		if seenClientID == "" {
			if user, _, ok := r.BasicAuth(); ok {
				seenClientID = user
			}
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"new-access-token","expires_in":3600}`)
	}))
	defer server.Close()

	repo := &fakeChannelRepo{}
	guardian := usecase.NewTokenGuardian(repo, "fallback-id", "fallback-secret").
		WithEndpoint(oauth2.Endpoint{TokenURL: server.URL, AuthStyle: oauth2.AuthStyleInParams}).
		WithClock(func() time.Time { return now })

	channel := tokenChannel(-time.Minute, now)
	channel.GoogleClientID = strPtr("channel-client-id")
	channel.GoogleClientSecret = strPtr("channel-client-secret")

	ok := guardian.EnsureValid(context.Background(), channel)

	require.True(t, ok)
	assert.Equal(t, "channel-client-id", seenClientID)
}
