package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"channel-studio/infrastructure/cache"
	"channel-studio/infrastructure/clients/n8n"
	youtubeclient "channel-studio/infrastructure/clients/youtube"
	"channel-studio/infrastructure/configuration"
	"channel-studio/infrastructure/logger"
	"channel-studio/infrastructure/persistence"
	httpHandler "channel-studio/interfaces/http"
	"channel-studio/server"
	"channel-studio/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()

	syncOnce := flag.Bool("sync-all", false, "run one sync cycle and exit instead of serving")
	force := flag.Bool("force", false, "bypass the recently-synced guard")
	channelID := flag.Int64("channel", 0, "sync only this channel id")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	psqlDb, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		os.Exit(1)
	}
	if err := persistence.EnsureSyncSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed ensuring database schema")
		os.Exit(1)
	}
	logger.GetLogger().Info("Database connected.")

	redisClient, _ := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)

	channelRepository := persistence.NewChannelRepository(psqlDb)
	snapshotRepository := persistence.NewChannelSnapshotRepository(psqlDb)
	videoSnapshotRepository := persistence.NewVideoSnapshotRepository(psqlDb)
	analyticsRepository := persistence.NewAnalyticsReportRepository(psqlDb)
	videoAnalyticsRepository := persistence.NewVideoAnalyticsRepository(psqlDb)
	dailyStatRepository := persistence.NewDailyStatRepository(psqlDb)
	videoQueueRepository := persistence.NewVideoQueueRepository(psqlDb)
	syncLock := persistence.NewSyncLock(psqlDb)

	videoCutoff, err := time.Parse("2006-01-02", configuration.C.Sync.VideoCutoffDate)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Invalid video cutoff date in config")
		os.Exit(1)
	}

	tokenGuardian := usecase.NewTokenGuardian(
		channelRepository,
		configuration.C.YouTube.ClientID,
		configuration.C.YouTube.ClientSecret,
	)
	analyticsNormalizer := usecase.NewAnalyticsUsecase(analyticsRepository, videoAnalyticsRepository)
	syncUsecase := usecase.NewSyncUsecase(
		channelRepository,
		snapshotRepository,
		videoSnapshotRepository,
		analyticsNormalizer,
		tokenGuardian,
		syncLock,
		youtubeclient.NewClient,
		usecase.SyncConfig{
			RecencyWindow:       time.Duration(configuration.C.Sync.RecencyWindowMinutes) * time.Minute,
			AnalyticsWindowDays: configuration.C.Sync.AnalyticsWindowDays,
			VideoCutoff:         videoCutoff,
			TopVideosLimit:      int64(configuration.C.Sync.TopVideosLimit),
			MaxVideosPerChannel: configuration.C.Sync.MaxVideosPerChannel,
		},
	)

	// One-shot mode for cron or manual runs.
	if *syncOnce {
		stats, err := syncUsecase.RunCycle(ctx, *channelID, *force)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Sync cycle failed")
			os.Exit(1)
		}
		logger.GetLogger().WithField("stats", stats).Info("Sync cycle finished")
		return
	}

	statsUsecase := usecase.NewStatsUsecase(channelRepository, videoSnapshotRepository, dailyStatRepository)
	workflowClient := n8n.NewClient(configuration.C.Queue.WebhookURL)
	queueUsecase := usecase.NewQueueUsecase(
		videoQueueRepository,
		channelRepository,
		workflowClient,
		configuration.C.Queue.MaxInProgress,
	)
	reportCache := cache.NewReportCache(redisClient, 60*time.Second)
	reportUsecase := usecase.NewReportUsecase(
		channelRepository,
		snapshotRepository,
		videoSnapshotRepository,
		analyticsRepository,
		videoAnalyticsRepository,
		dailyStatRepository,
		reportCache,
		configuration.C.Sync.TopVideosLimit,
	)

	healthHandler := httpHandler.NewHealthHandler()
	syncHandler := httpHandler.NewSyncHandler(syncUsecase, statsUsecase)
	reportHandler := httpHandler.NewReportHandler(reportUsecase)
	videoHandler := httpHandler.NewVideoHandler(queueUsecase)

	router := server.InitiateRouter(healthHandler, syncHandler, reportHandler, videoHandler)

	g, ctx := errgroup.WithContext(ctx)

	// Periodic sync loop. Busy and empty cycles are expected outcomes, not
	// reasons to stop the loop.
	g.Go(func() error {
		interval := time.Duration(configuration.C.Sync.IntervalMinutes) * time.Minute
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				runCtx, cancelRun := context.WithTimeout(ctx, interval)
				_, err := syncUsecase.RunCycle(runCtx, 0, false)
				cancelRun()
				if err != nil && !errors.Is(err, usecase.ErrRunInProgress) && !errors.Is(err, usecase.ErrNoChannels) {
					logger.GetLogger().WithField("error", err).Error("Scheduled sync cycle failed")
				}
			}
		}
	})

	// Daily stats rollup.
	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				rollupCtx, cancelRollup := context.WithTimeout(ctx, 5*time.Minute)
				if err := statsUsecase.RollupAll(rollupCtx); err != nil {
					logger.GetLogger().WithField("error", err).Error("Daily stats rollup failed")
				}
				cancelRollup()
			}
		}
	})

	port := configuration.C.App.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
