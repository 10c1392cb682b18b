package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"channel-studio/infrastructure/logger"
)

// GenerationRequest is the payload posted to the workflow engine to start
// generating a video. Channel prompts travel along so the workflow does not
// need DB access.
type GenerationRequest struct {
	VideoID              int64   `json:"video_id"`
	Title                string  `json:"title"`
	Description          *string `json:"description,omitempty"`
	ChannelID            int64   `json:"channel_id"`
	ChannelName          string  `json:"channel_name"`
	ChannelIntro         *string `json:"channel_intro,omitempty"`
	BackgroundVideo      *string `json:"background_video,omitempty"`
	FrameImage           *string `json:"frame_image,omitempty"`
	ImageStylePrompt     *string `json:"image_style_prompt,omitempty"`
	ThumbnailTemplate    *string `json:"thumbnail_template,omitempty"`
	ThumbnailImagePrompt *string `json:"thumbnail_image_prompt,omitempty"`
}

// IWorkflowClient triggers video generation workflows.
type IWorkflowClient interface {
	TriggerGeneration(ctx context.Context, req *GenerationRequest) error
}

// Client posts generation requests to an n8n webhook.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) TriggerGeneration(ctx context.Context, req *GenerationRequest) error {
	if c.webhookURL == "" {
		return fmt.Errorf("workflow webhook URL not configured")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		logger.GetLogger().WithField("status", resp.StatusCode).WithField("body", string(raw)).
			Warn("workflow engine rejected generation request")
		return fmt.Errorf("workflow engine returned status %d", resp.StatusCode)
	}
	return nil
}
