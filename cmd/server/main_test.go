package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/lexilearn/backend/internal/app"
	"github.com/lexilearn/backend/internal/infrastructure/config"
)

func newApp(t *testing.T) (*config.Config, *app.App, *slog.Logger) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.DefaultConfig()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "server.db")
	cfg.ShutdownTimeout = time.Second

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	return cfg, a, logger
}

func TestServe_ListenFailureClosesApp(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()

	cfg, a, logger := newApp(t)
	cfg.ServerAddress = busy.Addr().String()

	if err := serve(context.Background(), cfg, a, logger); err == nil {
		t.Fatal("expected an error for an address in use")
	}
	if _, err := a.Store.GetValues(context.Background()); err == nil {
		t.Error("expected the database to be closed")
	}
}

func TestServe_ShutdownClosesApp(t *testing.T) {
	cfg, a, logger := newApp(t)
	cfg.ServerAddress = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, a, logger) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
	if _, err := a.Store.GetValues(context.Background()); err == nil {
		t.Error("expected the database to be closed")
	}
}
