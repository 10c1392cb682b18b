package repository

import (
	"context"

	"google.golang.org/api/youtube/v3"
	youtubeanalytics "google.golang.org/api/youtubeanalytics/v2"
)

// IYouTubeData is the per-channel YouTube Data and Analytics gateway.
// Fetch methods return nil (or an empty result) on failure after logging;
// callers treat nil as "no data" and decide whether that is fatal for the
// step they are on.
type IYouTubeData interface {
	// ChannelInfo returns the authenticated channel with snippet,
	// statistics, branding and content details parts.
	ChannelInfo(ctx context.Context) *youtube.Channel
	// UploadsPlaylistID returns the channel's uploads playlist id, or ""
	// when it cannot be resolved.
	UploadsPlaylistID(ctx context.Context) string
	// PlaylistVideoIDs pages through a playlist and returns up to maxItems
	// video ids.
	PlaylistVideoIDs(ctx context.Context, playlistID string, maxItems int) []string
	// VideosByID returns full video resources for the given ids (max 50 per call).
	VideosByID(ctx context.Context, videoIDs []string) []*youtube.Video
	// ChannelReport runs a channel-scoped Analytics query against
	// "channel==MINE". filters and sort may be empty.
	ChannelReport(ctx context.Context, startDate, endDate, metrics, dimensions, filters, sort string, maxResults int64) *youtubeanalytics.QueryResponse
	// VideoReport runs a video-filtered Analytics query.
	VideoReport(ctx context.Context, videoID, startDate, endDate, metrics, dimensions string) *youtubeanalytics.QueryResponse
	// TopVideoIDs returns the channel's top video ids by views over the
	// window, most viewed first.
	TopVideoIDs(ctx context.Context, startDate, endDate string, limit int64) []string
}
