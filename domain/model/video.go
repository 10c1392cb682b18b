package model

import "time"

// Video generation pipeline statuses. The middle states count against
// the in-progress cap; completed, failed and stopped are terminal.
const (
	VideoStatusPending           = "pending"
	VideoStatusProcessing        = "processing"
	VideoStatusGeneratingScript  = "generating_script"
	VideoStatusGeneratingContent = "generating_content"
	VideoStatusRendering         = "rendering"
	VideoStatusCompleted         = "completed"
	VideoStatusFailed            = "failed"
	VideoStatusStopped           = "stopped"
)

// ProcessingStatuses are the statuses that occupy a generation slot.
var ProcessingStatuses = []string{
	VideoStatusProcessing,
	VideoStatusGeneratingScript,
	VideoStatusGeneratingContent,
	VideoStatusRendering,
}

// Video is an entry in the content generation queue.
type Video struct {
	ID             int64      `json:"id"`
	ChannelID      int64      `json:"channel_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	URL            *string    `json:"url,omitempty"`
	Thumbnail      *string    `json:"thumbnail,omitempty"`
	Duration       *string    `json:"duration,omitempty"`
	Status         string     `json:"status"`
	StatusProgress *int       `json:"status_progress,omitempty"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
