package youtube

import (
	"context"
	"net/http"
	"strings"
	"time"

	"channel-studio/domain/repository"
	"channel-studio/infrastructure/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
	youtubeanalytics "google.golang.org/api/youtubeanalytics/v2"
)

// pageSize is the YouTube API maximum per page.
const pageSize = 50

// Client is a per-channel YouTube Data + Analytics API client built from
// the channel's access token. Fetch methods log failures and return nil so
// that one failing report never aborts a whole sync cycle.
type Client struct {
	channelID int64
	service   *youtube.Service
	analytics *youtubeanalytics.Service
}

// NewClient builds an authenticated client for one channel. The access
// token must already be valid; refreshing is the token guardian's job.
func NewClient(ctx context.Context, channelID int64, accessToken string) (repository.IYouTubeData, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{Source: source},
		Timeout:   30 * time.Second,
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	analytics, err := youtubeanalytics.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}

	return &Client{channelID: channelID, service: service, analytics: analytics}, nil
}

// ChannelInfo returns the authenticated channel with snippet, statistics,
// branding and content details parts, or nil when unavailable.
func (c *Client) ChannelInfo(ctx context.Context) *youtube.Channel {
	resp, err := c.service.Channels.
		List([]string{"snippet", "statistics", "brandingSettings", "contentDetails"}).
		Mine(true).Context(ctx).Do()
	if err != nil {
		c.logAPIError("channels.list", err)
		return nil
	}
	if len(resp.Items) == 0 {
		logger.GetLogger().WithField("channelId", c.channelID).Warn("no channel found for authenticated user")
		return nil
	}
	return resp.Items[0]
}

// UploadsPlaylistID resolves the channel's uploads playlist id.
func (c *Client) UploadsPlaylistID(ctx context.Context) string {
	resp, err := c.service.Channels.
		List([]string{"contentDetails"}).
		Mine(true).Context(ctx).Do()
	if err != nil {
		c.logAPIError("channels.list contentDetails", err)
		return ""
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil || resp.Items[0].ContentDetails.RelatedPlaylists == nil {
		return ""
	}
	return resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
}

// PlaylistVideoIDs pages through a playlist and returns up to maxItems
// video ids, newest first as the API serves them.
func (c *Client) PlaylistVideoIDs(ctx context.Context, playlistID string, maxItems int) []string {
	if playlistID == "" {
		return nil
	}
	ids := make([]string, 0, maxItems)
	pageToken := ""
	for len(ids) < maxItems {
		call := c.service.PlaylistItems.
			List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			c.logAPIError("playlistItems.list", err)
			return nil
		}
		for _, item := range resp.Items {
			if item.ContentDetails == nil || item.ContentDetails.VideoId == "" {
				continue
			}
			ids = append(ids, item.ContentDetails.VideoId)
			if len(ids) >= maxItems {
				break
			}
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return ids
}

// VideosByID fetches full video resources in batches of up to 50 ids.
func (c *Client) VideosByID(ctx context.Context, videoIDs []string) []*youtube.Video {
	if len(videoIDs) == 0 {
		return nil
	}
	out := make([]*youtube.Video, 0, len(videoIDs))
	for start := 0; start < len(videoIDs); start += pageSize {
		end := start + pageSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		resp, err := c.service.Videos.
			List([]string{"snippet", "statistics", "contentDetails", "status"}).
			Id(strings.Join(videoIDs[start:end], ",")).
			Context(ctx).Do()
		if err != nil {
			c.logAPIError("videos.list", err)
			return nil
		}
		out = append(out, resp.Items...)
	}
	return out
}

// ChannelReport runs a channel-scoped Analytics query against channel==MINE.
func (c *Client) ChannelReport(ctx context.Context, startDate, endDate, metrics, dimensions, filters, sort string, maxResults int64) *youtubeanalytics.QueryResponse {
	call := c.analytics.Reports.Query().
		Ids("channel==MINE").
		StartDate(startDate).
		EndDate(endDate).
		Metrics(metrics).
		Context(ctx)
	if dimensions != "" {
		call = call.Dimensions(dimensions)
	}
	if filters != "" {
		call = call.Filters(filters)
	}
	if sort != "" {
		call = call.Sort(sort)
	}
	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}
	resp, err := call.Do()
	if err != nil {
		c.logAPIError("reports.query "+dimensions, err)
		return nil
	}
	return resp
}

// VideoReport runs an Analytics query filtered to a single video.
func (c *Client) VideoReport(ctx context.Context, videoID, startDate, endDate, metrics, dimensions string) *youtubeanalytics.QueryResponse {
	call := c.analytics.Reports.Query().
		Ids("channel==MINE").
		StartDate(startDate).
		EndDate(endDate).
		Metrics(metrics).
		Filters("video==" + videoID).
		Context(ctx)
	if dimensions != "" {
		call = call.Dimensions(dimensions)
	}
	resp, err := call.Do()
	if err != nil {
		c.logAPIError("reports.query video "+videoID, err)
		return nil
	}
	return resp
}

// TopVideoIDs returns the channel's top video ids by views over the window.
func (c *Client) TopVideoIDs(ctx context.Context, startDate, endDate string, limit int64) []string {
	resp := c.ChannelReport(ctx, startDate, endDate, "views", "video", "", "-views", limit)
	if resp == nil {
		return nil
	}
	ids := make([]string, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row) == 0 {
			continue
		}
		if id, ok := row[0].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *Client) logAPIError(op string, err error) {
	entry := logger.GetLogger().WithField("channelId", c.channelID).WithField("op", op)
	if apiErr, ok := err.(*googleapi.Error); ok {
		entry = entry.WithField("status", apiErr.Code).WithField("body", apiErr.Message)
	}
	entry.WithField("error", err).Warn("YouTube API request failed")
}
