package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayushbhandari/campus-events/internal/config"
	"github.com/ayushbhandari/campus-events/internal/db"
	"github.com/ayushbhandari/campus-events/internal/events"
	httpapi "github.com/ayushbhandari/campus-events/internal/http"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	client, err := db.OpenMongo(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("can't connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Disconnect(ctx)
	}()

	repo := events.NewRepository(client.Database(cfg.MongoDB))

	// Seed before serving; a failed seed aborts startup.
	if err := repo.SeedEvents(ctx); err != nil {
		slog.Error("can't seed events", "error", err)
		os.Exit(1)
	}
	slog.Info("event catalog seeded", "count", len(events.SeedCatalog))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewRouter(repo),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("campus-events listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
