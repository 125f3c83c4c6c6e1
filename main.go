package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carvault/config"
	"carvault/cron"
	"carvault/database"
	documentRepo "carvault/database/repository/document"
	servicerecordRepo "carvault/database/repository/servicerecord"
	vehicleRepo "carvault/database/repository/vehicle"
	"carvault/handlers"
	"carvault/middleware"
	"carvault/routes"
	"carvault/services/analysis"
	"carvault/services/export"
	"carvault/services/recall"
	"carvault/services/records"
	"carvault/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	storageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	analyzer, err := analysis.NewGeminiAnalyzer(config.AppConfig.GeminiAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize document analyzer: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	vehicles := vehicleRepo.NewMongoVehicleRepo()
	documents := documentRepo.NewMongoDocumentRepo()
	serviceRecords := servicerecordRepo.NewMongoServiceRecordRepo()

	// services.
	asynqClient := cron.NewAsynqClient()
	defer asynqClient.Close()

	recordService := &records.DefaultRecordService{
		Repo:      serviceRecords,
		Reminders: &cron.ReminderEnqueuer{Client: asynqClient},
		Logger:    logger,
	}
	recallService := recall.NewNHTSARecallService()
	exportService := export.NewService(serviceRecords)

	handlerBundle := &handlers.HandlerBundle{
		Vehicle:    handlers.NewVehicleHandler(vehicles),
		Record:     handlers.NewRecordHandler(recordService),
		Extraction: handlers.NewExtractionHandler(storageService, analyzer, recordService, documents),
		Document:   handlers.NewDocumentHandler(documents, storageService),
		Recall:     handlers.NewRecallHandler(vehicles, recallService),
		Export:     handlers.NewExportHandler(exportService),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the reminder worker.
	cron.InitReminderWorker()

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
