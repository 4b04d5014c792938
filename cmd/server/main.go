package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/rs/cors"

	"github.com/pennypilot/backend/internal/analytics"
	"github.com/pennypilot/backend/internal/config"
	"github.com/pennypilot/backend/internal/logger"
	"github.com/pennypilot/backend/internal/server"
	"github.com/pennypilot/backend/internal/service"
	"github.com/pennypilot/backend/internal/store"
)

func main() {
	cfg := config.Load()
	log := logger.Init(cfg.LogLevel)
	log.Info("pennypilot analytics server starting", "port", cfg.Port)

	var st store.Store
	if cfg.UseMemoryStore {
		log.Info("using in-memory store")
		st = store.NewMemoryStore()
	} else {
		log.Info("using sqlite store", "path", cfg.DatabasePath)
		sqliteStore, err := store.NewSQLiteStore(cfg.DatabasePath)
		if err != nil {
			log.Error("failed to open sqlite store", "error", err)
			os.Exit(1)
		}
		st = sqliteStore
	}
	defer st.Close()

	resultCache := cache.New(cfg.CacheTTL, cfg.CacheCleanupInterval)
	engine := analytics.New(analytics.DefaultConfig())
	svc := service.NewAnalyticsService(st, engine, resultCache, nil, log)

	srv := server.New(svc, log, cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Handler(srv.Router()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}
