// File: fitstudio/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitstudio/config"
	"fitstudio/cron"
	"fitstudio/database"
	bookingRepo "fitstudio/database/repository/booking"
	directoryRepo "fitstudio/database/repository/directory"
	"fitstudio/handlers"
	"fitstudio/middleware"
	"fitstudio/routes"
	"fitstudio/services/scheduler"
	"fitstudio/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	directory := directoryRepo.NewMongoDirectoryRepo()

	// Background queue for pending-hold expiry.
	var queueClient *asynq.Client
	holdFor := time.Duration(config.AppConfig.PendingHoldMinutes) * time.Minute
	if holdFor > 0 {
		queueClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		})
		defer queueClient.Close()
		cron.InitBookingExpiryWorker(bookings)
	}

	// Scheduling pipeline.
	studio := scheduler.StudioConfigFromApp()
	var snapshotCache scheduler.SnapshotCache
	cacheTTL := time.Duration(config.AppConfig.AvailabilityCacheTTLSeconds) * time.Second
	if cacheTTL > 0 {
		snapshotCache = scheduler.NewRedisSnapshotCache(utils.GetCacheClient())
	}
	availability := &scheduler.AvailabilityIndex{
		Directory: directory,
		Bookings:  bookings,
		Studio:    studio,
		Cache:     snapshotCache,
		CacheTTL:  cacheTTL,
	}
	builder := scheduler.NewModelBuilder()
	solver := scheduler.NewSolver(time.Duration(config.AppConfig.SolverBudgetMillis) * time.Millisecond)
	finalizer := scheduler.NewFinalizer(bookings, studio.Capacity, queueClient, holdFor)
	sessions := scheduler.NewSessionManager(
		scheduler.NewRedisSessionStore(utils.GetSessionCacheClient()),
		finalizer,
		builder,
		solver,
		time.Duration(config.AppConfig.SessionTTLMinutes)*time.Minute,
	)
	schedulingService := &scheduler.DefaultSchedulingService{
		Availability: availability,
		Builder:      builder,
		Solver:       solver,
		Sessions:     sessions,
		Directory:    directory,
		Bookings:     bookings,
	}

	schedulerHandler := handlers.NewSchedulerHandler(schedulingService, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		GetAvailabilityHandler:     schedulerHandler.GetAvailabilityHandler,
		GenerateSuggestionsHandler: schedulerHandler.GenerateSuggestionsHandler,
		ReSuggestHandler:           schedulerHandler.ReSuggestHandler,
		ReSuggestAllHandler:        schedulerHandler.ReSuggestAllHandler,
		BookSelectedHandler:        schedulerHandler.BookSelectedHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
