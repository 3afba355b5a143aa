package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/R6Joan/Festa-Roser/internal/config"
	"github.com/R6Joan/Festa-Roser/internal/handlers"
	custommw "github.com/R6Joan/Festa-Roser/internal/middleware"
	"github.com/R6Joan/Festa-Roser/internal/observability"
	"github.com/R6Joan/Festa-Roser/internal/repository"
	"github.com/R6Joan/Festa-Roser/internal/services"
)

const serviceVersion = "1.0.0"

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Telemetry (env-gated)
	telemetry, err := observability.Initialize(ctx, observability.NewConfig("festa-roser-server", serviceVersion))
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// Session database
	db, err := repository.NewSQLiteDB(cfg.SessionDBPath)
	if err != nil {
		log.Fatalf("Failed to initialize session database: %v", err)
	}
	defer db.Close()
	sessionRepo := repository.NewSessionRepository(db)

	// Ledger stores: whole-file JSON, re-read on every request
	photoStore := repository.NewJSONPhotoStore(cfg.PhotosPath())
	voteStore := repository.NewJSONVoteStore(cfg.VotesPath())

	// Real-time notifier
	hub := services.NewHub()
	go hub.Run()

	// Services
	storage, err := services.NewUploadStorage(cfg.Uploads.BasePath, cfg.Uploads.AllowedExtensions, cfg.Uploads.MaxFileSizeMiB)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}
	thumbs := services.NewThumbnailService(cfg.Uploads.BasePath)
	photoService := services.NewPhotoService(photoStore, voteStore, storage, thumbs, hub)
	voteService := services.NewVoteService(voteStore, hub)
	authService := services.NewAuthService(
		sessionRepo,
		cfg.PublicURL,
		services.OAuthKeys{ClientID: cfg.OAuth.Google.ClientID, ClientSecret: cfg.OAuth.Google.ClientSecret},
		services.OAuthKeys{ClientID: cfg.OAuth.Facebook.ClientID, ClientSecret: cfg.OAuth.Facebook.ClientSecret},
		cfg.Sessions.DurationHours,
	)

	// Handlers
	photoHandler := handlers.NewPhotoHandler(photoService)
	voteHandler := handlers.NewVoteHandler(voteService)
	authHandler := handlers.NewAuthHandler(authService, cfg.Sessions.DurationHours)
	wsHandler := handlers.NewWebSocketHandler(hub)
	healthHandler := handlers.NewHealthHandler()

	httpMetrics, err := observability.NewHTTPMetrics()
	if err != nil {
		log.Fatalf("Failed to create HTTP metrics: %v", err)
	}

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(observability.TracingMiddleware("festa-roser-server"))
	r.Use(observability.MetricsMiddleware(httpMetrics))
	r.Use(custommw.Identify(authService))

	// Routes
	r.Get("/health", healthHandler.HealthCheck)

	r.Get("/me", authHandler.Me)
	r.Post("/logout", authHandler.Logout)
	r.Get("/auth/{provider}", authHandler.Begin)
	r.Get("/auth/{provider}/callback", authHandler.Callback)

	r.Get("/photos", photoHandler.List)
	r.Post("/upload", photoHandler.Upload)
	r.Delete("/photos/{id}", photoHandler.Delete)

	r.Get("/votes", voteHandler.Summary)
	r.Post("/vote", voteHandler.Toggle)

	r.Get("/ws", wsHandler.HandleConnection)

	// Static assets: frontend and uploaded images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.BasePath))))
	r.Handle("/*", http.FileServer(http.Dir(cfg.WebRoot)))

	// Create server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // Longer for uploads
		IdleTimeout:  60 * time.Second,
	}

	// Purge expired sessions hourly
	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-purgeCtx.Done():
				return
			case <-ticker.C:
				if n, err := authService.PurgeExpired(purgeCtx); err != nil {
					log.Printf("Failed to purge expired sessions: %v", err)
				} else if n > 0 {
					log.Printf("Purged %d expired sessions", n)
				}
			}
		}
	}()

	// Start server in goroutine
	go func() {
		log.Printf("Festa Roser server starting on %s", cfg.ServerAddress)
		log.Printf("Ledger directory: %s", cfg.DataDir)
		log.Printf("Upload directory: %s (limit %s)", cfg.Uploads.BasePath, humanize.IBytes(uint64(storage.MaxBytes())))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.Printf("Telemetry shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
