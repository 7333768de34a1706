// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/danielhkuo/crossword/catalog"
	"github.com/danielhkuo/crossword/cliparse"
	"github.com/danielhkuo/crossword/crosshare"
	"github.com/danielhkuo/crossword/db"
	"github.com/danielhkuo/crossword/router"
)

const (
	ShutdownTimeout = 10 * time.Second
	DefaultDebounce = 300 * time.Millisecond
)

// Loader builds a fresh configuration; Run calls it again on every reload
type Loader func() (cliparse.Config, error)

type Options struct {
	// Reload restarts the server when the env or config file changes
	Reload bool
	// Debounce collapses bursts of file events; zero means DefaultDebounce
	Debounce time.Duration
	// Ready is called with the bound address each time the listener starts
	Ready func(net.Addr)
}

// OpenStore connects to the configured database and creates the schema
func OpenStore(ctx context.Context, cfg cliparse.Config) (*db.Store, error) {
	dialect := cfg.Dialect()

	conn, err := db.Open(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.CreateSchema(ctx, conn, dialect); err != nil {
		conn.Close()
		return nil, fmt.Errorf("schema creation failed: %w", err)
	}
	slog.Info("Database schema ready", "dialect", dialect)

	return db.NewStore(conn, dialect), nil
}

// NewCrosshareClient builds a client with the configured timeout and cache size
func NewCrosshareClient(cfg cliparse.Config) *crosshare.Client {
	return crosshare.NewClient(cfg.CrosshareURL,
		crosshare.WithHTTPClient(&http.Client{Timeout: cfg.CrosshareTimeout}),
		crosshare.WithCacheSize(cfg.CrosshareCacheSize),
	)
}

// NewCatalog wires the store to a Crosshare client using the configured clue range
func NewCatalog(store *db.Store, client *crosshare.Client, cfg cliparse.Config) *catalog.Catalog {
	return catalog.New(store, client, SizeFilter(cfg), cfg.CrosshareMaxPages)
}

// SizeFilter is the configured clue range
func SizeFilter(cfg cliparse.Config) crosshare.SizeFilter {
	return crosshare.SizeFilter{Min: cfg.MinClues, Max: cfg.MaxClues}
}

// Serve runs the API until ctx is cancelled, then shuts down gracefully
func Serve(ctx context.Context, cfg cliparse.Config, ready func(net.Addr)) error {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.DB().Close()

	handler := router.NewHandler(store, NewCatalog(store, NewCrosshareClient(cfg), cfg), cfg)

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ready != nil {
		ready(ln.Addr())
	}
	slog.Info("Listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	<-errCh

	slog.Info("Server closed")
	return nil
}

// Run loads the configuration and serves it. With opts.Reload it restarts
// on env or config file changes; a configuration that fails to load keeps
// the previous one running.
func Run(ctx context.Context, load Loader, opts Options) error {
	cfg, err := load()
	if err != nil {
		return err
	}

	if !opts.Reload {
		return Serve(ctx, cfg, opts.Ready)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := newWatcher(debounce, cfg.EnvFile, cfg.ConfigFile)
	if err != nil {
		return err
	}
	defer w.Close()

	for {
		serveCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func(cfg cliparse.Config) {
			done <- Serve(serveCtx, cfg, opts.Ready)
		}(cfg)

		select {
		case <-ctx.Done():
			cancel()
			return <-done
		case err := <-done:
			cancel()
			return err
		case <-w.Changes():
		}

		cancel()
		if err := <-done; err != nil {
			return err
		}

		next, err := load()
		if err != nil {
			slog.Error("reload failed, keeping previous configuration", "error", err)
		} else {
			cfg = next
		}
		slog.Info("configuration changed, restarting")
	}
}
