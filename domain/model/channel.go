package model

import "time"

// Channel is a managed YouTube channel with its Google OAuth credentials.
// Access and refresh tokens are nullable; a channel is only eligible for
// sync when both are present.
type Channel struct {
	ID                         int64      `json:"id"`
	Name                       string     `json:"name"`
	Description                *string    `json:"description,omitempty"`
	Intro                      *string    `json:"intro,omitempty"`
	BackgroundVideo            *string    `json:"background_video,omitempty"`
	FrameImage                 *string    `json:"frame_image,omitempty"`
	ImageStylePrompt           *string    `json:"image_style_prompt,omitempty"`
	ThumbnailTemplate          *string    `json:"thumbnail_template,omitempty"`
	ThumbnailImagePrompt       *string    `json:"thumbnail_image_prompt,omitempty"`
	GoogleClientID             *string    `json:"-"`
	GoogleClientSecret         *string    `json:"-"`
	GoogleAccessToken          *string    `json:"-"`
	GoogleRefreshToken         *string    `json:"-"`
	GoogleAccessTokenExpiresAt *time.Time `json:"google_access_token_expires_at,omitempty"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
}

// HasValidOAuthTokens reports whether both OAuth tokens are present.
// Expiry is not considered here; an expired access token is refreshable.
func (c *Channel) HasValidOAuthTokens() bool {
	return c.GoogleAccessToken != nil && *c.GoogleAccessToken != "" &&
		c.GoogleRefreshToken != nil && *c.GoogleRefreshToken != ""
}
