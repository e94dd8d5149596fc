package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/config"
	"marketplace/cron"
	"marketplace/database"
	"marketplace/database/repository"
	"marketplace/handlers"
	"marketplace/middleware"
	"marketplace/routes"
	"marketplace/services/booking"
	ai "marketplace/services/intelligence"
	"marketplace/services/notification"
	"marketplace/services/payment"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	mongoClient, err := database.Connect(rootCtx, config.AppConfig.DatabaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	repos := repository.NewRepositories(mongoClient.Database(config.AppConfig.DatabaseName))
	if err := repos.EnsureIndexes(rootCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to create indexes: %v", err)
	}

	cacheClient, err := utils.NewCacheClient(rootCtx, config.AppConfig)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	defer cacheClient.Close()
	utils.StartHealthMonitor(rootCtx, cacheClient, mongoClient)

	// Push notifications are optional in development.
	var notifier notification.NotificationService
	if config.AppConfig.FirebaseCredentialsFile != "" {
		fcmClient, err := utils.NewFCMClient(rootCtx, config.AppConfig.FirebaseCredentialsFile)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		fcmService, err := notification.NewFCMNotificationService(fcmClient, logger)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		notifier = fcmService
	} else {
		logger.Warn("FIREBASE_CREDENTIALS_FILE not set, push notifications disabled")
	}

	loc := config.Location()
	engine := booking.NewSchedulingEngine(
		repos.Providers,
		repos.Bookings,
		repos.Services,
		booking.NewRedisSlotCache(cacheClient, config.SlotCacheTTL()),
		notifier,
		logger,
		loc,
		config.AppConfig.MaxSlotRangeDays,
	)

	stripe.Key = config.AppConfig.StripeKey
	gateway := payment.NewStripeGateway(config.AppConfig.StripeKey, nil, logger)
	checkout := booking.NewCheckoutService(engine, repos.Services, gateway, logger)

	var aiHandler *handlers.AIHandler
	if config.AppConfig.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiClient(rootCtx, config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel, loc)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		defer gemini.Close()
		assistant := ai.NewAssistant(
			ai.NewRedisContextStore(cacheClient, utils.AIContextTTL),
			gemini,
			ai.NewDispatcher(engine, logger),
			logger,
		)
		aiHandler = handlers.NewAIHandler(assistant)
	} else {
		logger.Warn("GEMINI_API_KEY not set, AI chat disabled")
	}

	worker, err := cron.InitPurgeWorker(engine, loc, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewBookingHandler(engine, checkout),
		handlers.NewProviderHandler(engine),
		aiHandler,
	)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(config.AppConfig.TrustedProxies); err != nil {
		logger.Sugar().Fatalf("main: invalid TRUSTED_PROXIES: %v", err)
	}
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("timezone", loc.String()))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()
	stopBackground()
	if err := mongoClient.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
