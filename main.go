package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carelink/config"
	"carelink/cron"
	"carelink/database"
	appointmentRepo "carelink/database/repository/appointment"
	availabilityRepo "carelink/database/repository/availability"
	"carelink/handlers"
	"carelink/middleware"
	"carelink/routes"
	"carelink/services/booking"
	"carelink/services/notification"
	"carelink/services/provider"
	"carelink/services/scheduling"
	"carelink/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitBookingCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	if err := apptRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
	}
	if err := availRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure availability indexes: %v", err)
	}

	// Notification queue.
	taskQueueOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}
	notifier := notification.NewAsynqNotificationService(taskQueueOpts, logger)
	cron.InitNotificationWorker(apptRepo, logger)

	// Services.
	expander := &scheduling.SlotExpansionEngine{
		Availability: availRepo,
		Appointments: apptRepo,
	}
	store := &scheduling.SchedulingStore{
		Repo:     apptRepo,
		Notifier: notifier,
		Logger:   logger,
	}
	lifecycle := &scheduling.AppointmentLifecycle{
		Repo:     apptRepo,
		Notifier: notifier,
		Logger:   logger,
	}
	querySvc := &scheduling.AppointmentQueryService{Repo: apptRepo}
	providerSvc := &provider.DefaultProviderService{
		Availability: availRepo,
		Logger:       logger,
	}
	workflow := &booking.DefaultBookingWorkflow{
		Expander:     expander,
		Store:        store,
		Cache:        utils.GetBookingCacheClient(),
		Logger:       logger,
		HorizonWeeks: config.AppConfig.DefaultHorizonWeeks,
		SessionTTL:   time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute,
	}

	// Assemble the handler bundle and register routes.
	bundle := &routes.HandlerBundle{
		Booking:      handlers.NewBookingHandler(workflow, logger),
		Appointments: handlers.NewAppointmentHandler(lifecycle, querySvc, logger),
		Availability: handlers.NewAvailabilityHandler(providerSvc, expander, logger),
	}
	routes.RegisterRoutes(router, bundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetBookingCacheClient()},
		database.MongoClient,
	)

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
