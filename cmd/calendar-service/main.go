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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"

	"ms-calendar/internal/calendar/calendar_api"
	"ms-calendar/internal/calendar/db"
	"ms-calendar/internal/calendar/service"
	"ms-calendar/internal/config"
	"ms-calendar/internal/database"
	"ms-calendar/internal/database/migrations"
	"ms-calendar/internal/logger"
	"ms-calendar/internal/session"
)

func main() {
	_ = godotenv.Load() // Loads .env file if present

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}

	appLogger, err := logger.NewLogger(logger.Options{
		Service: "calendar-service",
		Dir:     cfg.Log.Dir,
		Debug:   cfg.Log.Debug,
	})
	if err != nil {
		log.Fatalf("[Logger] %v", err)
	}
	defer appLogger.Close()

	ctx := context.Background()
	bunDB, err := database.Connect(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	prepareDatabase(ctx, bunDB, cfg, appLogger)

	repo := service.NewEventRepository(&db.DB{Bun: bunDB}, cfg.Database.QueryTimeout, cfg.Calendar.Location)
	handler := calendar_api.NewHandler(repo, appLogger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(appLogger.RequestLogger)
	r.Get("/health", healthHandler(bunDB))
	r.Group(func(r chi.Router) {
		r.Use(session.Middleware(session.Options{Secure: cfg.Server.CookieSecure}))
		handler.RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("SERVER", fmt.Sprintf("🚀 Calendar service on %s (timezone %s)", cfg.Server.Port, cfg.Calendar.Timezone))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("SERVER", fmt.Sprintf("HTTP error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("SERVER", fmt.Sprintf("Shutdown error: %v", err))
	}
	appLogger.Info("SERVER", "✅ Calendar service shutdown complete")
}

func prepareDatabase(ctx context.Context, bunDB *bun.DB, cfg *config.Config, log *logger.Logger) {
	if cfg.Database.MigrateOnStart {
		if err := migrations.Apply(ctx, bunDB, cfg.Database.Driver, log); err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
	}
	if cfg.Database.SeedData {
		n, err := database.Seed(ctx, bunDB, cfg.Calendar.Location)
		if err != nil {
			log.Fatal("DATABASE", err.Error())
		}
		log.Info("DATABASE", fmt.Sprintf("Seeded %d sample events", n))
	}
}

func healthHandler(bunDB *bun.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := bunDB.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}
}
