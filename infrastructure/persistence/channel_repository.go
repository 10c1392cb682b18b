package persistence

import (
	"context"
	"database/sql"
	"time"

	"channel-studio/domain/model"
)

type ChannelRepository struct{ db *sql.DB }

func NewChannelRepository(db *sql.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

const channelColumns = `id, name, description, intro, background_video, frame_image, image_style_prompt,
	thumbnail_template, thumbnail_image_prompt, google_client_id, google_client_secret,
	google_access_token, google_refresh_token, google_access_token_expires_at, created_at, updated_at`

func scanChannel(row interface{ Scan(...interface{}) error }) (*model.Channel, error) {
	var c model.Channel
	var description, intro, backgroundVideo, frameImage, imageStylePrompt sql.NullString
	var thumbnailTemplate, thumbnailImagePrompt, clientID, clientSecret sql.NullString
	var accessToken, refreshToken sql.NullString
	var expiresAt sql.NullTime

	err := row.Scan(&c.ID, &c.Name, &description, &intro, &backgroundVideo, &frameImage,
		&imageStylePrompt, &thumbnailTemplate, &thumbnailImagePrompt, &clientID, &clientSecret,
		&accessToken, &refreshToken, &expiresAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Description = nullableString(description)
	c.Intro = nullableString(intro)
	c.BackgroundVideo = nullableString(backgroundVideo)
	c.FrameImage = nullableString(frameImage)
	c.ImageStylePrompt = nullableString(imageStylePrompt)
	c.ThumbnailTemplate = nullableString(thumbnailTemplate)
	c.ThumbnailImagePrompt = nullableString(thumbnailImagePrompt)
	c.GoogleClientID = nullableString(clientID)
	c.GoogleClientSecret = nullableString(clientSecret)
	c.GoogleAccessToken = nullableString(accessToken)
	c.GoogleRefreshToken = nullableString(refreshToken)
	if expiresAt.Valid {
		t := expiresAt.Time
		c.GoogleAccessTokenExpiresAt = &t
	}
	return &c, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// GetSyncable returns channels with both OAuth tokens present.
func (r *ChannelRepository) GetSyncable(ctx context.Context) ([]model.Channel, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+channelColumns+` FROM channels
	WHERE google_access_token IS NOT NULL AND google_access_token <> ''
	  AND google_refresh_token IS NOT NULL AND google_refresh_token <> ''
	ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectChannels(rows)
}

func (r *ChannelRepository) GetAll(ctx context.Context) ([]model.Channel, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+channelColumns+` FROM channels ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectChannels(rows)
}

func collectChannels(rows *sql.Rows) ([]model.Channel, error) {
	out := make([]model.Channel, 0)
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *ChannelRepository) GetByID(ctx context.Context, id int64) (*model.Channel, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+channelColumns+` FROM channels WHERE id = $1`, id)
	c, err := scanChannel(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// UpdateTokens persists a refreshed access token. The refresh token column
// is only touched when the provider returned a new one.
func (r *ChannelRepository) UpdateTokens(ctx context.Context, channelID int64, accessToken string, refreshToken *string, expiresAt time.Time) error {
	if refreshToken != nil {
		_, err := r.db.ExecContext(ctx, `UPDATE channels
	SET google_access_token=$1, google_refresh_token=$2, google_access_token_expires_at=$3, updated_at=NOW()
	WHERE id=$4`, accessToken, *refreshToken, expiresAt, channelID)
		return err
	}
	_, err := r.db.ExecContext(ctx, `UPDATE channels
	SET google_access_token=$1, google_access_token_expires_at=$2, updated_at=NOW()
	WHERE id=$3`, accessToken, expiresAt, channelID)
	return err
}
