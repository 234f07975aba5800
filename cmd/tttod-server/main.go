/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Command tttod-server runs the authoritative session coordinator over
// HTTP/websocket, mirroring Seednode-partybox's cmd/main.go entrypoint
// shape: build a Config, hand it to cobra, run until signaled.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/anlumo/tttod/internal/config"
	"github.com/anlumo/tttod/internal/registry"
	"github.com/anlumo/tttod/internal/session"
	"github.com/anlumo/tttod/internal/transport"
)

const releaseVersion = "0.1.0"

func main() {
	cfg := &config.Config{}

	cmd := config.NewCommand(cfg, releaseVersion, func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), cfg)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	mgr := registry.NewManager(cfg.SessionIdle)
	mux := transport.Register(cfg, mgr, session.NewRandomizer)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Bind, strconv.Itoa(cfg.Port)),
		Handler:           mux,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		config.Logf(cfg, "SERVE: Listening on %s://%s%s/", cfg.Scheme(), srv.Addr, cfg.Prefix)
		var err error
		if cfg.TLSCert != "" && cfg.TLSKey != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
			return
		}
		errs <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errs:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
