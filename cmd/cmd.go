package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lovenest-backend/internal/config"
	"lovenest-backend/internal/handlers"
	"lovenest-backend/internal/middleware"
	"lovenest-backend/internal/repository"
	"lovenest-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// A missing .env is fine; config.Load expands whatever is set.
	godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Log.Level)

	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	st := repository.New(db)

	// Feed broker: Redis when configured, in-process otherwise.
	var broker services.Broker
	var redisBroker *services.RedisBroker
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		redisBroker, err = services.NewRedisBroker(context.Background(), rdb)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		broker = redisBroker
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis feed broker connected")
	} else {
		broker = services.NewLocalBroker()
	}

	// Initialize services
	userService := services.NewUserService(st, cfg.JWT.Secret)
	pairingService := services.NewPairingService(st)
	channelService := services.NewChannelService(st, broker)
	journalService := services.NewJournalService(st)
	reminderService := services.NewReminderService(st)
	galleryService, err := services.NewGalleryService(
		st,
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create gallery service")
	}
	wsHub := services.NewWSHub()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	pairHandler := handlers.NewPairHandler(pairingService, wsHub)
	notificationHandler := handlers.NewNotificationHandler(pairingService)
	chatHandler := handlers.NewChatHandler(channelService, userService)
	journalHandler := handlers.NewJournalHandler(journalService)
	galleryHandler := handlers.NewGalleryHandler(galleryService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService, channelService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.CreateUser)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/me", userHandler.GetMe)
			r.Patch("/me", userHandler.UpdateMe)
			r.Get("/partner", userHandler.GetPartner)
			r.Get("/dashboard", userHandler.Dashboard)

			r.Post("/link-requests", pairHandler.CreateLinkRequest)
			r.Post("/link-requests/{request_id}/respond", pairHandler.RespondLinkRequest)
			r.Delete("/partner", pairHandler.Unlink)

			r.Get("/notifications", notificationHandler.ListNotifications)
			r.Post("/notifications/{notification_id}/read", notificationHandler.MarkRead)

			r.Get("/chat/channel", chatHandler.GetChannel)
			r.Get("/chat/messages", chatHandler.ListMessages)
			r.Post("/chat/messages", chatHandler.PostMessage)

			r.Get("/journal", journalHandler.ListEntries)
			r.Post("/journal", journalHandler.AddEntry)

			r.Get("/photos", galleryHandler.ListPhotos)
			r.Post("/photos", galleryHandler.AddPhoto)
			r.Post("/photos/upload", galleryHandler.UploadPhoto)

			r.Get("/reminders", reminderHandler.ListReminders)
			r.Post("/reminders", reminderHandler.AddReminder)
			r.Delete("/reminders/{reminder_id}", reminderHandler.DeleteReminder)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if redisBroker != nil {
		if err := redisBroker.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis broker")
		}
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
