package http

import (
	"errors"
	"net/http"
	"strconv"

	"channel-studio/usecase"

	"github.com/gin-gonic/gin"
)

// ISyncHandler defines the sync HTTP handlers
type ISyncHandler interface {
	RunSync(ctx *gin.Context)
	RollupStats(ctx *gin.Context)
}

type SyncHandler struct {
	syncUsecase  usecase.ISyncUsecase
	statsUsecase usecase.IStatsUsecase
}

func NewSyncHandler(syncUsecase usecase.ISyncUsecase, statsUsecase usecase.IStatsUsecase) ISyncHandler {
	return &SyncHandler{
		syncUsecase:  syncUsecase,
		statsUsecase: statsUsecase,
	}
}

// RunSync handles POST /api/sync/run
func (h *SyncHandler) RunSync(ctx *gin.Context) {
	var channelID int64
	if raw := ctx.Query("channel_id"); raw != "" {
		val, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": "channel_id must be an integer",
			})
			return
		}
		channelID = val
	}
	force := ctx.Query("force") == "true"

	stats, err := h.syncUsecase.RunCycle(ctx.Request.Context(), channelID, force)
	if err != nil {
		if errors.Is(err, usecase.ErrRunInProgress) {
			ctx.JSON(http.StatusConflict, gin.H{
				"error": "A sync cycle is already running",
			})
			return
		}
		if errors.Is(err, usecase.ErrNoChannels) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error": "No channels eligible for sync",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Sync cycle failed",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// RollupStats handles POST /api/stats/rollup
func (h *SyncHandler) RollupStats(ctx *gin.Context) {
	if err := h.statsUsecase.RollupAll(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Stats rollup failed",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Daily stats rolled up",
	})
}
