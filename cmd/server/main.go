package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/api/middleware"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/api/rest"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/config"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/repository"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/service"
	"github.com/jitenkr2030/FinSmartAI-sub002/migrations"
)

func main() {
	log.Println("🚀 FinSmartAI backend starting...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("⚠️  Warning: Failed to load config: %v. Using defaults.", err)
		cfg = &config.Config{
			Port:           8080,
			DatabasePath:   "./finsmart.db",
			LogLevel:       "info",
			AllowedOrigins: []string{"*"},
			Security:       config.DefaultSecurity(),
		}
	}
	if cfg.AuthJWTSecret == "" {
		log.Fatal("❌ FINSMART_AUTH_JWT_SECRET is required")
	}

	log.Printf("📋 Configuration loaded: port=%d, db=%s, production=%v", cfg.Port, cfg.DatabasePath, cfg.Production)

	// Initialize database
	log.Println("💾 Initializing database...")
	repo, err := repository.NewSQLiteRepository(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(migrations.InitialSchema); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Initialize services
	predictions := service.NewPredictionService(cfg, repo)
	log.Println("✅ Services initialized")

	// Security pipeline. The rate limiter's janitor sweeps expired buckets
	// until shutdown.
	pipeline := middleware.NewSecurityPipeline(cfg.Security, cfg.Production)
	pipeline.RateLimiter().StartJanitor(ctx, time.Minute)

	// Setup HTTP router
	router := mux.NewRouter()
	handler := rest.NewHandler(repo, predictions, cfg.AuthJWTSecret)
	rest.SetupRoutes(router, handler)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Middleware. The security pipeline runs outermost so even unmatched
	// routes pass through it and its recover catches everything below.
	router.Use(middleware.RequestID)
	router.Use(middleware.StructuredLog)
	router.Use(middleware.MaxBodySize(cfg.MaxBodyBytes, cfg.UploadMaxBodyBytes))
	secured := pipeline.Middleware()(router)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-CSRF-Token"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      c.Handler(secured),
		ReadTimeout:  time.Duration(cfg.RequestTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("🌐 Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}
	log.Println("👋 Server stopped")
}
