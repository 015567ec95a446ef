package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/watchparty/sync-service/config"
	"github.com/watchparty/sync-service/internal/registry"
	"github.com/watchparty/sync-service/internal/service"
	httpx "github.com/watchparty/sync-service/internal/transport/http"
	"github.com/watchparty/sync-service/internal/transport/ws"
	"github.com/watchparty/sync-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	logger.L().Info("starting sync-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- registry ---
	reg := registry.New(registry.NewMemoryStore(), cfg.Room.IDLength)

	// --- WS Hub ---
	hub := ws.NewHub()

	// --- services ---
	roomSvc := service.NewRoomService(reg, hub)
	joinSvc := service.NewJoinService(reg, hub)
	syncSvc := service.NewSyncService(reg, hub)
	chatSvc := service.NewChatService(reg, hub, cfg.Room.MaxChatLen)

	wsServer := ws.NewServer(hub, roomSvc, joinSvc, syncSvc, chatSvc, cfg.PingEvery(), cfg.WS.MaxMessageBytes)

	// --- HTTP ---
	handler := httpx.NewHandler(reg)
	router := httpx.NewRouter(handler, wsServer)
	httpSrv := &http.Server{
		Addr:        cfg.HTTP.Addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped", "rooms", reg.Len())
}
