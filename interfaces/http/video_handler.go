package http

import (
	"net/http"
	"strconv"

	"channel-studio/domain/dto"
	"channel-studio/usecase"

	"github.com/gin-gonic/gin"
)

// IVideoHandler defines the video queue HTTP handlers
type IVideoHandler interface {
	CreateVideo(ctx *gin.Context)
	GetVideo(ctx *gin.Context)
	ListVideos(ctx *gin.Context)
	DispatchVideo(ctx *gin.Context)
	UpdateVideoStatus(ctx *gin.Context)
}

type VideoHandler struct {
	queueUsecase usecase.IQueueUsecase
}

func NewVideoHandler(queueUsecase usecase.IQueueUsecase) IVideoHandler {
	return &VideoHandler{
		queueUsecase: queueUsecase,
	}
}

// CreateVideo handles POST /api/videos
func (h *VideoHandler) CreateVideo(ctx *gin.Context) {
	var req dto.CreateVideoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	video, err := h.queueUsecase.Enqueue(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue video",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    video,
	})
}

// GetVideo handles GET /api/videos/:videoId
func (h *VideoHandler) GetVideo(ctx *gin.Context) {
	videoID, ok := pathVideoID(ctx)
	if !ok {
		return
	}

	video, err := h.queueUsecase.GetByID(ctx.Request.Context(), videoID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get video",
			"message": err.Error(),
		})
		return
	}
	if video == nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error": "Video not found",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": video})
}

// ListVideos handles GET /api/channels/:channelId/queue
func (h *VideoHandler) ListVideos(ctx *gin.Context) {
	channelID, ok := pathChannelID(ctx)
	if !ok {
		return
	}

	videos, err := h.queueUsecase.ListForChannel(ctx.Request.Context(), channelID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list videos",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": videos})
}

// DispatchVideo handles POST /api/videos/:videoId/dispatch
func (h *VideoHandler) DispatchVideo(ctx *gin.Context) {
	videoID, ok := pathVideoID(ctx)
	if !ok {
		return
	}

	dispatched, err := h.queueUsecase.Dispatch(ctx.Request.Context(), videoID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to dispatch video",
			"message": err.Error(),
		})
		return
	}
	if !dispatched {
		ctx.JSON(http.StatusConflict, gin.H{
			"error": "Video could not be dispatched, slots are full or it is not pending",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Video generation dispatched",
	})
}

// UpdateVideoStatus handles POST /api/videos/:videoId/status, the callback
// posted by the workflow engine.
func (h *VideoHandler) UpdateVideoStatus(ctx *gin.Context) {
	videoID, ok := pathVideoID(ctx)
	if !ok {
		return
	}

	var req dto.VideoStatusUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.queueUsecase.ApplyStatusUpdate(ctx.Request.Context(), videoID, &req); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update video status",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Video status updated",
	})
}

func pathVideoID(ctx *gin.Context) (int64, bool) {
	videoID, err := strconv.ParseInt(ctx.Param("videoId"), 10, 64)
	if err != nil || videoID <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Video ID must be a positive integer",
		})
		return 0, false
	}
	return videoID, true
}
