package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dairycoop/dairyledger/internal/adapter/http/middleware"
	"github.com/dairycoop/dairyledger/internal/infrastructure/config"
)

func TestNewHTTPServerUsesConfig(t *testing.T) {
	cfg := &config.Config{
		HTTPPort:         "9090",
		HTTPReadTimeout:  3 * time.Second,
		HTTPWriteTimeout: 4 * time.Second,
		HTTPIdleTimeout:  5 * time.Second,
	}

	srv := newHTTPServer(cfg, http.NotFoundHandler())

	if srv.Addr != ":9090" {
		t.Fatalf("expected addr :9090, got %s", srv.Addr)
	}
	if srv.ReadTimeout != 3*time.Second || srv.WriteTimeout != 4*time.Second || srv.IdleTimeout != 5*time.Second {
		t.Fatalf("timeouts not applied: %+v", srv)
	}
}

func TestSweepLimitersStopsOnCancel(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		sweepLimiters(ctx, rl, 5*time.Millisecond, time.Millisecond, zerolog.Nop())
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
