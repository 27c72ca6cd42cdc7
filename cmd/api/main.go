package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "milhier/docs" // This is for Swagger
	"milhier/internal/config"
	"milhier/internal/database"
	"milhier/internal/handlers"
	"milhier/internal/logger"
	"milhier/internal/middleware"
	"milhier/internal/mqtt"
	"milhier/internal/repository"
	"milhier/internal/service"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Military Hierarchy API
// @version 1.0
// @description Backend API for battlefield reporting: unit hierarchy, soldier reports, trigger-based suggestions and staff document generation

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level: cfg.Log.Level,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		err := db.Close()
		if err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established", "dialect", db.Dialect().String())

	// Run database migrations
	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize repositories
	unitRepo := repository.NewUnitRepository(db)
	soldierRepo := repository.NewSoldierRepository(db)
	rawInputRepo := repository.NewRawInputRepository(db)
	reportRepo := repository.NewReportRepository(db)
	suggestionRepo := repository.NewSuggestionRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	// Initialize services
	hierarchySvc := service.NewHierarchyService(unitRepo, soldierRepo)
	reportSvc := service.NewReportService(db, reportRepo, soldierRepo, suggestionRepo)
	suggestionSvc := service.NewSuggestionService(suggestionRepo)
	documentSvc := service.NewDocumentService(db, documentRepo, sequenceRepo, reportRepo, unitRepo)
	llmSvc := service.NewLLMService(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Enabled, cfg.LLM.Timeout, cfg.LLM.ReportCap)

	// Initialize handlers
	unitHandler := handlers.NewUnitHandler(unitRepo, soldierRepo, hierarchySvc)
	soldierHandler := handlers.NewSoldierHandler(soldierRepo, rawInputRepo)
	reportHandler := handlers.NewReportHandler(reportSvc)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionSvc)
	documentHandler := handlers.NewDocumentHandler(documentSvc)
	aiHandler := handlers.NewAIHandler(llmSvc, reportSvc, unitRepo)

	// Initialize middleware
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)

	// MQTT ingest for soldier devices
	var ingest *mqtt.Ingest
	if cfg.MQTT.Enabled {
		ingest = mqtt.NewIngest(&cfg.MQTT, rawInputRepo, soldierRepo)
		ingest.Start()
		defer ingest.Stop()
	} else {
		slog.Info("MQTT ingest disabled")
	}

	// Setup routes
	mux := http.NewServeMux()

	// Unit endpoints
	mux.HandleFunc("POST /api/v1/units", unitHandler.Create)
	mux.HandleFunc("GET /api/v1/units", unitHandler.GetAll)
	mux.HandleFunc("GET /api/v1/units/{id}", unitHandler.Get)
	mux.HandleFunc("DELETE /api/v1/units/{id}", unitHandler.Delete)
	mux.HandleFunc("GET /api/v1/units/{id}/soldiers", unitHandler.Soldiers)
	mux.HandleFunc("GET /api/v1/hierarchy", unitHandler.Hierarchy)

	// Soldier endpoints
	mux.HandleFunc("POST /api/v1/soldiers", soldierHandler.Create)
	mux.HandleFunc("GET /api/v1/soldiers", soldierHandler.GetAll)
	mux.HandleFunc("GET /api/v1/soldiers/{id}", soldierHandler.Get)
	mux.HandleFunc("DELETE /api/v1/soldiers/{id}", soldierHandler.Delete)
	mux.HandleFunc("PUT /api/v1/soldiers/{id}/status", soldierHandler.UpdateStatus)
	mux.HandleFunc("POST /api/v1/soldiers/{id}/raw_inputs", soldierHandler.CreateRawInput)
	mux.HandleFunc("GET /api/v1/soldiers/{id}/raw_inputs", soldierHandler.GetRawInputs)

	// Report endpoints
	mux.HandleFunc("POST /api/v1/soldiers/{id}/reports", reportHandler.Create)
	mux.HandleFunc("GET /api/v1/soldiers/{id}/reports", reportHandler.ListBySoldier)
	mux.HandleFunc("GET /api/v1/reports", reportHandler.List)
	mux.HandleFunc("GET /api/v1/reports/{id}", reportHandler.Get)

	// Suggestion endpoints
	mux.HandleFunc("GET /api/v1/suggestions", suggestionHandler.List)
	mux.HandleFunc("GET /api/v1/suggestions/{id}", suggestionHandler.Get)
	mux.HandleFunc("POST /api/v1/suggestions/{id}/review", suggestionHandler.Review)

	// Document endpoints
	mux.HandleFunc("POST /api/v1/documents", documentHandler.Generate)
	mux.HandleFunc("GET /api/v1/documents", documentHandler.List)
	mux.HandleFunc("GET /api/v1/documents/{id}", documentHandler.Get)
	mux.HandleFunc("POST /api/v1/documents/{id}/finalize", documentHandler.Finalize)

	// AI endpoints
	mux.HandleFunc("POST /api/v1/ai/summarize", aiHandler.Summarize)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, err := w.Write([]byte(`{"status":"unhealthy","database":"error"}`))
			if err != nil {
				slog.Error("Failed to write health check response", "error", err)
				return
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"status":"healthy","version":"` + cfg.App.Version + `"}`))
		if err != nil {
			slog.Error("Failed to write health check response", "error", err)
			return
		}
	})

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		corsMw.Handler(mux),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
