package http

import (
	"net/http"
	"strconv"
	"time"

	"channel-studio/usecase"

	"github.com/gin-gonic/gin"
)

// IReportHandler defines the dashboard and reporting HTTP handlers
type IReportHandler interface {
	GetChannelSnapshots(ctx *gin.Context)
	GetChannelVideos(ctx *gin.Context)
	GetChannelAnalytics(ctx *gin.Context)
	GetVideoAnalytics(ctx *gin.Context)
	GetDailyStats(ctx *gin.Context)
	GetDashboardSummary(ctx *gin.Context)
}

type ReportHandler struct {
	reportUsecase usecase.IReportUsecase
}

func NewReportHandler(reportUsecase usecase.IReportUsecase) IReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
	}
}

// GetChannelSnapshots handles GET /api/channels/:channelId/snapshots
func (h *ReportHandler) GetChannelSnapshots(ctx *gin.Context) {
	channelID, ok := pathChannelID(ctx)
	if !ok {
		return
	}
	from, to, ok := dateRange(ctx)
	if !ok {
		return
	}

	snapshots, err := h.reportUsecase.ChannelSnapshots(ctx.Request.Context(), channelID, from, to)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get channel snapshots",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": snapshots})
}

// GetChannelVideos handles GET /api/channels/:channelId/videos
func (h *ReportHandler) GetChannelVideos(ctx *gin.Context) {
	channelID, ok := pathChannelID(ctx)
	if !ok {
		return
	}

	videos, err := h.reportUsecase.ChannelVideos(ctx.Request.Context(), channelID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get channel videos",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": videos})
}

// GetChannelAnalytics handles GET /api/channels/:channelId/analytics
func (h *ReportHandler) GetChannelAnalytics(ctx *gin.Context) {
	channelID, ok := pathChannelID(ctx)
	if !ok {
		return
	}
	from, to, ok := dateRange(ctx)
	if !ok {
		return
	}
	reportType := ctx.Query("report_type")

	rows, err := h.reportUsecase.ChannelAnalytics(ctx.Request.Context(), channelID, reportType, from, to)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get channel analytics",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
}

// GetVideoAnalytics handles GET /api/channels/:channelId/videos/:videoId/analytics
func (h *ReportHandler) GetVideoAnalytics(ctx *gin.Context) {
	channelID, ok := pathChannelID(ctx)
	if !ok {
		return
	}
	videoID := ctx.Param("videoId")
	if videoID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Video ID is required",
		})
		return
	}
	from, to, ok := dateRange(ctx)
	if !ok {
		return
	}

	rows, err := h.reportUsecase.VideoAnalytics(ctx.Request.Context(), channelID, videoID, from, to)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get video analytics",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
}

// GetDailyStats handles GET /api/channels/:channelId/daily-stats
func (h *ReportHandler) GetDailyStats(ctx *gin.Context) {
	channelID, ok := pathChannelID(ctx)
	if !ok {
		return
	}
	from, to, ok := dateRange(ctx)
	if !ok {
		return
	}

	stats, err := h.reportUsecase.DailyStats(ctx.Request.Context(), channelID, from, to)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get daily stats",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

// GetDashboardSummary handles GET /api/dashboard/summary
func (h *ReportHandler) GetDashboardSummary(ctx *gin.Context) {
	summary, err := h.reportUsecase.DashboardSummary(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get dashboard summary",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

func pathChannelID(ctx *gin.Context) (int64, bool) {
	channelID, err := strconv.ParseInt(ctx.Param("channelId"), 10, 64)
	if err != nil || channelID <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Channel ID must be a positive integer",
		})
		return 0, false
	}
	return channelID, true
}

// dateRange reads optional from/to query params (YYYY-MM-DD), defaulting to
// the last 30 days.
func dateRange(ctx *gin.Context) (time.Time, time.Time, bool) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	if raw := ctx.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": "from must be formatted as YYYY-MM-DD",
			})
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := ctx.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": "to must be formatted as YYYY-MM-DD",
			})
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	return from, to, true
}
