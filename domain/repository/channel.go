package repository

import (
	"context"
	"time"

	"channel-studio/domain/model"
)

// IChannel defines the channel repository.
type IChannel interface {
	// GetSyncable returns channels with both OAuth tokens present.
	GetSyncable(ctx context.Context) ([]model.Channel, error)
	GetByID(ctx context.Context, id int64) (*model.Channel, error)
	GetAll(ctx context.Context) ([]model.Channel, error)
	// UpdateTokens persists a refreshed access token. refreshToken is only
	// written when non-nil (the provider may rotate it or omit it).
	UpdateTokens(ctx context.Context, channelID int64, accessToken string, refreshToken *string, expiresAt time.Time) error
}
