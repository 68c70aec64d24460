package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/config"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/contacts"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/dashboard"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/handlers"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/middleware"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/store"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/wa"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("APP_ENV") == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Info().Msg("Starting WhatsApp Dashboard Service...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Env).
		Int("sync_rate_per_minute", cfg.SyncRatePerMin).
		Msg("Configuration loaded")

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 60*time.Second)
	dbStore, err := store.NewPostgres(startupCtx, cfg.DatabaseURL)
	cancelStartup()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database store")
	}
	defer dbStore.Close()

	// Repositories over the shared pool
	contactStore := store.NewContactStore(dbStore.DB())
	messageStore := store.NewMessageStore(dbStore.DB())
	labelStore := store.NewLabelStore(dbStore.DB())
	groupStore := store.NewGroupStore(dbStore.DB())

	// WhatsApp session with the turn recorder attached
	seen := wa.NewIdempotencyStore()
	recorder := wa.NewTurnRecorder(messageStore, groupStore, seen)
	session, err := wa.NewSession(context.Background(), dbStore, recorder)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize WhatsApp session")
	}

	// Connect in the background; the dashboard keeps serving from the
	// stores while the session is down.
	go func() {
		if err := session.Connect(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to connect WhatsApp session")
		}
	}()

	contactService := contacts.NewService(session, contactStore)
	engine := dashboard.NewEngine(contactStore, messageStore, labelStore, groupStore)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	rateLimiter := middleware.NewRateLimiter(cfg.SyncRatePerMin)

	router.GET("/healthz", handlers.HealthCheck(dbStore))
	router.GET("/readyz", handlers.ReadinessCheck(session))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		ch := handlers.NewContactHandler(contactService)
		v1.GET("/contacts", ch.GetContacts)
		v1.POST("/contacts/init", rateLimiter.Limit(), ch.InitContacts)

		dh := handlers.NewDashboardHandler(engine)
		v1.GET("/dashboard", dh.GetDashboard)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("WhatsApp Dashboard Service started")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	session.Disconnect()
	seen.Stop()
	rateLimiter.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	} else {
		log.Info().Msg("Server exited gracefully")
	}
}
