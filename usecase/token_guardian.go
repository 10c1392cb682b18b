package usecase

import (
	"context"
	"time"

	"channel-studio/domain/model"
	"channel-studio/domain/repository"
	"channel-studio/infrastructure/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// refreshLookahead refreshes tokens that expire within this window, so a
// token never goes stale mid-sync.
const refreshLookahead = 5 * time.Minute

// defaultTokenTTL is assumed when the provider response omits expires_in.
const defaultTokenTTL = time.Hour

// ITokenGuardian keeps channel OAuth access tokens usable.
type ITokenGuardian interface {
	// EnsureValid refreshes the channel's access token when it is expired
	// or close to expiring, persisting the result. Returns false when no
	// usable token could be obtained; the caller must skip API work then.
	EnsureValid(ctx context.Context, channel *model.Channel) bool
}

type TokenGuardian struct {
	channelRepo  repository.IChannel
	clientID     string
	clientSecret string
	endpoint     oauth2.Endpoint
	now          func() time.Time
}

// NewTokenGuardian builds a guardian using the given fallback OAuth client
// credentials for channels that do not carry their own pair.
func NewTokenGuardian(channelRepo repository.IChannel, clientID, clientSecret string) *TokenGuardian {
	return &TokenGuardian{
		channelRepo:  channelRepo,
		clientID:     clientID,
		clientSecret: clientSecret,
		endpoint:     google.Endpoint,
		now:          time.Now,
	}
}

// WithEndpoint overrides the token endpoint. Used by tests.
func (g *TokenGuardian) WithEndpoint(endpoint oauth2.Endpoint) *TokenGuardian {
	g.endpoint = endpoint
	return g
}

// WithClock overrides the time source. Used by tests.
func (g *TokenGuardian) WithClock(now func() time.Time) *TokenGuardian {
	g.now = now
	return g
}

func (g *TokenGuardian) EnsureValid(ctx context.Context, channel *model.Channel) bool {
	if channel.GoogleAccessToken == nil || *channel.GoogleAccessToken == "" {
		logger.GetLogger().WithField("channelId", channel.ID).Warn("channel has no access token")
		return false
	}
	// No recorded expiry means the token is assumed valid until the API
	// rejects it.
	if channel.GoogleAccessTokenExpiresAt == nil {
		return true
	}
	if g.now().Add(refreshLookahead).Before(*channel.GoogleAccessTokenExpiresAt) {
		return true
	}
	return g.refresh(ctx, channel)
}

func (g *TokenGuardian) refresh(ctx context.Context, channel *model.Channel) bool {
	if channel.GoogleRefreshToken == nil || *channel.GoogleRefreshToken == "" {
		logger.GetLogger().WithField("channelId", channel.ID).Error("access token expired and no refresh token available")
		return false
	}
	clientID, clientSecret := g.credentialsFor(channel)
	if clientID == "" || clientSecret == "" {
		logger.GetLogger().WithField("channelId", channel.ID).Error("no OAuth client credentials configured for refresh")
		return false
	}

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     g.endpoint,
	}
	token, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: *channel.GoogleRefreshToken}).Token()
	if err != nil {
		logger.GetLogger().WithField("channelId", channel.ID).WithField("error", err).Error("token refresh failed")
		return false
	}
	if token.AccessToken == "" {
		logger.GetLogger().WithField("channelId", channel.ID).Error("token refresh returned empty access token")
		return false
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = g.now().Add(defaultTokenTTL)
	}
	var newRefresh *string
	if token.RefreshToken != "" && token.RefreshToken != *channel.GoogleRefreshToken {
		rt := token.RefreshToken
		newRefresh = &rt
	}

	if err := g.channelRepo.UpdateTokens(ctx, channel.ID, token.AccessToken, newRefresh, expiresAt); err != nil {
		logger.GetLogger().WithField("channelId", channel.ID).WithField("error", err).Error("failed persisting refreshed token")
		return false
	}

	at := token.AccessToken
	channel.GoogleAccessToken = &at
	channel.GoogleAccessTokenExpiresAt = &expiresAt
	if newRefresh != nil {
		channel.GoogleRefreshToken = newRefresh
	}
	logger.GetLogger().WithField("channelId", channel.ID).WithField("expiresAt", expiresAt).Info("access token refreshed")
	return true
}

func (g *TokenGuardian) credentialsFor(channel *model.Channel) (string, string) {
	if channel.GoogleClientID != nil && *channel.GoogleClientID != "" &&
		channel.GoogleClientSecret != nil && *channel.GoogleClientSecret != "" {
		return *channel.GoogleClientID, *channel.GoogleClientSecret
	}
	return g.clientID, g.clientSecret
}
