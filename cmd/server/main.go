package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/quangdo/folio/docs"
	"github.com/quangdo/folio/internal/db"
	"github.com/quangdo/folio/internal/handlers"
	"github.com/quangdo/folio/internal/logger"
	"github.com/quangdo/folio/internal/models"
	"github.com/quangdo/folio/internal/repositories"
	"github.com/quangdo/folio/internal/services"
)

// @title Folio API
// @version 1.0
// @description Personal multi-account investment ledger and return engine
// @BasePath /api
func main() {
	_ = godotenv.Load()

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	config := db.NewConfig()
	database, err := db.Connect(config)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		log.Fatal("database health check failed", zap.Error(err))
	}
	log.Info("database connection established", zap.String("driver", config.Driver))

	if err := database.AutoMigrate(&models.Account{}, &models.Event{}, &models.DailySnapshot{}); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	// Repositories
	accountRepo := repositories.NewAccountRepository(database)
	eventRepo := repositories.NewEventRepository(database)
	snapshotRepo := repositories.NewSnapshotRepository(database)

	// Services
	ledgerService := services.NewLedgerService(accountRepo, eventRepo, services.NewLedgerConfig())
	rateProvider := services.NewStaticRateProviderFromEnv()
	returnConfig := services.NewReturnConfig()
	returnService := services.NewReturnService(ledgerService, accountRepo, rateProvider, returnConfig)
	snapshotService := services.NewSnapshotService(snapshotRepo, returnService, returnConfig.ReportCurrency, log)

	// Handlers
	accountHandler := handlers.NewAccountHandler(ledgerService, returnService)
	eventHandler := handlers.NewEventHandler(ledgerService)
	summaryHandler := handlers.NewSummaryHandler(returnService)
	snapshotHandler := handlers.NewSnapshotHandler(snapshotService)

	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "folio-backend",
		})
	})

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/accounts", accountHandler.HandleAccounts)
	api.HandleFunc("/accounts/{id}", accountHandler.HandleAccount)
	api.HandleFunc("/accounts/{id}/balance", accountHandler.HandleBalance)
	api.HandleFunc("/accounts/{id}/events", eventHandler.HandleAccountEvents)
	api.HandleFunc("/events", eventHandler.HandleEvents)
	api.HandleFunc("/summary", summaryHandler.HandleSummary)
	api.HandleFunc("/snapshots/run", snapshotHandler.HandleRun)
	api.HandleFunc("/history", snapshotHandler.HandleHistory)

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Daily snapshot scheduler: catch up on start, then run once a day.
	// RunDaily is idempotent per calendar day so restarts are harmless.
	go func() {
		ctx := context.Background()
		if err := snapshotService.RunDaily(ctx, time.Now()); err != nil {
			log.Error("startup snapshot failed", zap.Error(err))
		}
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for now := range ticker.C {
			if err := snapshotService.RunDaily(ctx, now); err != nil {
				log.Error("scheduled snapshot failed", zap.Error(err))
			}
		}
	}()

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Info("server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, corsMiddleware(requestLogger(log)(router))); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
