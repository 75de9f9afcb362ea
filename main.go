package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldops/config"
	"fieldops/cron"
	"fieldops/database"
	"fieldops/database/local"
	orderRepo "fieldops/database/repository/order"
	statsRepo "fieldops/database/repository/stats"
	trackingRepo "fieldops/database/repository/tracking"
	"fieldops/handlers"
	"fieldops/middleware"
	"fieldops/routes"
	"fieldops/services/geocode"
	"fieldops/services/location"
	"fieldops/services/queue"
	"fieldops/services/submission"
	syncsvc "fieldops/services/sync"
	"fieldops/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	ctx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	localStore, err := local.Open(ctx, config.AppConfig.LocalDBPath)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to open local store: %v", err)
	}
	defer localStore.Close()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	orders := orderRepo.NewMongoOrderRepo()
	stats := statsRepo.NewMongoStatsRepo()
	tracking := trackingRepo.NewMongoTrackingRepo(utils.GetCacheClient())

	// Background city enrichment for history entries.
	resolver := geocode.NewResolver(config.AppConfig.GeocodeEndpoint, config.AppConfig.GeocodeTimeout(), logger)
	scheduler := cron.NewGeocodeScheduler()
	defer scheduler.Close()
	cron.InitGeocodeWorker(resolver, tracking)

	// Location sampling.
	provider := location.NewPushProvider(config.AppConfig.LocationMaxAge())
	tracker := location.NewTracker(provider, tracking, logger)
	tracker.MinDistanceMeters = config.AppConfig.HistoryMinDistanceM
	tracker.MaxGap = config.AppConfig.HistoryMaxGap()
	tracker.AcquireTimeout = config.AppConfig.LocationTimeout()
	tracker.MaxAge = config.AppConfig.LocationMaxAge()

	// Restore the bound technician so ambient sampling resumes after a
	// restart without waiting for the identity endpoint.
	if name, err := localStore.Technician(ctx); err != nil {
		logger.Sugar().Warnf("main: failed to restore technician: %v", err)
	} else if name != "" {
		tracker.SetTechnician(name)
	}

	// services.
	queueService := &queue.DefaultQueueService{
		Store:         localStore,
		Logger:        logger,
		WarnThreshold: config.AppConfig.QueueWarnThreshold,
		ItemTimeout:   config.AppConfig.RemoteTimeoutPerItem(),
	}

	writer := &submission.DefaultSubmissionWriter{
		Orders:   orders,
		Stats:    stats,
		Recorder: tracker,
		Enricher: scheduler,
		Logger:   logger,
	}

	monitor := syncsvc.NewProbeMonitor(
		syncsvc.PingFunc(func(ctx context.Context) error {
			return database.MongoClient.Ping(ctx, readpref.Primary())
		}),
		config.AppConfig.ConnectivityProbeInterval(),
		logger,
	)

	engine := syncsvc.NewEngine(queueService, writer, monitor, logger)

	submissionService := submission.NewDefaultSubmissionService(
		tracker,
		queueService,
		writer,
		monitor,
		logger,
		config.AppConfig.RemoteTimeoutPerItem(),
	)

	// handlers.
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	syncHandler := handlers.NewSyncHandler(queueService, engine)
	trackingHandler := handlers.NewTrackingHandler(tracking, provider)
	statsHandler := handlers.NewStatsHandler(stats)
	technicianHandler := handlers.NewTechnicianHandler(localStore, orders, tracker)

	handlerBundle := &handlers.HandlerBundle{
		SubmitHandler: submissionHandler.SubmitHandler,

		GetQueueHandler: syncHandler.GetQueueHandler,
		SyncNowHandler:  syncHandler.SyncNowHandler,

		OfferFixHandler: trackingHandler.OfferFixHandler,
		LiveHandler:     trackingHandler.LiveHandler,
		HistoryHandler:  trackingHandler.HistoryHandler,

		RankingHandler:  statsHandler.RankingHandler,
		GetStatsHandler: statsHandler.GetStatsHandler,

		SetTechnicianHandler: technicianHandler.SetTechnicianHandler,
		GetTechnicianHandler: technicianHandler.GetTechnicianHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background loops: connectivity probing, reconnect draining, ambient
	// location sampling, service health.
	go monitor.Run(ctx)
	go engine.Run(ctx)
	go tracker.RunAmbient(ctx, config.AppConfig.AmbientInterval())
	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient()}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	cancelBackground()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
