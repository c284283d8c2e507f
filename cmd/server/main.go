package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/addyhq/addy-backend/internal/db"
	"github.com/addyhq/addy-backend/internal/handlers"
	"github.com/addyhq/addy-backend/internal/logger"
	"github.com/addyhq/addy-backend/internal/repositories"
	"github.com/addyhq/addy-backend/internal/services"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	zapLogger, err := logger.New()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	// Database connection
	config := db.NewConfig()
	database, err := db.Connect(config)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		zapLogger.Fatal("database health check failed", zap.Error(err))
	}
	zapLogger.Info("database connection established",
		zap.String("host", config.Host),
		zap.String("database", config.Name))

	// Repositories
	actionRepo := repositories.NewActionRepository(database)
	patternRepo := repositories.NewPatternRepository(database)
	ledgerStore := repositories.NewLedgerStore(database.DB)

	// Services
	registry := services.DefaultRegistry()
	trustService := services.NewTrustService(patternRepo, zapLogger)
	proposerService := services.NewProposerService(actionRepo, registry, zapLogger, reviewThreshold())
	executorService := services.NewExecutorService(database, actionRepo, registry, trustService, zapLogger)
	suggestionService := services.NewSuggestionService(actionRepo, patternRepo, ledgerStore, registry, zapLogger)

	// Handlers and routes
	router := handlers.NewRouter(
		handlers.NewActionHandler(proposerService, executorService),
		handlers.NewSuggestionHandler(suggestionService),
		handlers.NewIntakeHandler(proposerService),
	)

	// CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Org-ID, X-User-ID")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	zapLogger.Info("server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, corsHandler(router)); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

// reviewThreshold reads the document field confidence cutoff, falling back to
// the built-in default on absence or garbage.
func reviewThreshold() float64 {
	raw := os.Getenv("ADDY_REVIEW_THRESHOLD")
	if raw == "" {
		return services.DefaultReviewThreshold
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || v > 1 {
		return services.DefaultReviewThreshold
	}
	return v
}
