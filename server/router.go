package server

import (
	"time"

	httpHandler "channel-studio/interfaces/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	healthHandler httpHandler.IHealthHandler,
	syncHandler httpHandler.ISyncHandler,
	reportHandler httpHandler.IReportHandler,
	videoHandler httpHandler.IVideoHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:4201", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/healthz", healthHandler.Healthz)

	api := router.Group("api")

	api.POST("/sync/run", syncHandler.RunSync)
	api.POST("/stats/rollup", syncHandler.RollupStats)

	channels := api.Group("/channels/:channelId")
	{
		channels.GET("/snapshots", reportHandler.GetChannelSnapshots)
		channels.GET("/videos", reportHandler.GetChannelVideos)
		channels.GET("/analytics", reportHandler.GetChannelAnalytics)
		channels.GET("/videos/:videoId/analytics", reportHandler.GetVideoAnalytics)
		channels.GET("/daily-stats", reportHandler.GetDailyStats)
		channels.GET("/queue", videoHandler.ListVideos)
	}

	api.GET("/dashboard/summary", reportHandler.GetDashboardSummary)

	videos := api.Group("/videos")
	{
		videos.POST("", videoHandler.CreateVideo)
		videos.GET("/:videoId", videoHandler.GetVideo)
		videos.POST("/:videoId/dispatch", videoHandler.DispatchVideo)
		videos.POST("/:videoId/status", videoHandler.UpdateVideoStatus)
	}

	return router
}
