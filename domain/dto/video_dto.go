package dto

// CreateVideoRequest is the payload for enqueueing a new video for
// generation.
type CreateVideoRequest struct {
	ChannelID   int64   `json:"channel_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
}

// VideoStatusUpdateRequest is the callback payload posted by the workflow
// engine as a video moves through the generation pipeline.
type VideoStatusUpdateRequest struct {
	Status         string  `json:"status" binding:"required"`
	StatusProgress *int    `json:"status_progress"`
	URL            *string `json:"url"`
	Thumbnail      *string `json:"thumbnail"`
	Duration       *string `json:"duration"`
	ErrorMessage   *string `json:"error_message"`
}
