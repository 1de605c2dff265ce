package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/username/mtop/backend/src/config"
	"github.com/username/mtop/backend/src/database"
	"github.com/username/mtop/backend/src/handlers"
	"github.com/username/mtop/backend/src/logger"
	_ "github.com/username/mtop/backend/src/parsers/mpesa"
	"github.com/username/mtop/backend/src/processors"
	"github.com/username/mtop/backend/src/security"
	"github.com/username/mtop/backend/src/services"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool, len(config.Cfg.AllowedOrigins))
	for _, origin := range config.Cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("M-Top backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	tokenService := security.NewStatementTokenService(config.Cfg.StatementTokenSecret, config.Cfg.StatementTokenExpiry)

	statementService := services.NewStatementService(
		database.DB,
		processors.All(),
		tokenService,
		reportCache,
	)

	statementHandler := handlers.NewStatementHandler(statementService)
	reportHandler := handlers.NewReportHandler(statementService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "M-Top Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/statements", statementHandler.HandleUpload)

		r.Group(func(r chi.Router) {
			r.Use(handlers.StatementAuthMiddleware(tokenService))
			r.Get("/statements/{id}", statementHandler.HandleGetStatement)
			r.Delete("/statements/{id}", statementHandler.HandleDeleteStatement)
			r.Get("/statements/{id}/report", reportHandler.HandleGetReport)
			r.Get("/statements/{id}/categories/{category}", reportHandler.HandleGetCategory)
		})
	})

	server := &http.Server{
		Addr:         ":" + config.Cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
