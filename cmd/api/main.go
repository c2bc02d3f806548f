package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/config"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/monitoring"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	if err := monitoring.Init(cfg); err != nil {
		log.Fatalf("monitoring init: %v", err)
	}
	defer monitoring.Flush()

	r, err := server.NewRouter(cfg)
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting web server on %s", addr)

	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		log.Printf("shutdown requested, waiting up to %s for in-flight requests", shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
