package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pt-autofill/internal/autofill"
	"pt-autofill/internal/config"
	"pt-autofill/internal/fetch"
	"pt-autofill/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	cfg, resolved, exists, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ptfilld: %v\n", err)
		os.Exit(1)
	}
	l, err := logger.NewWithOptions(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ptfilld: %v\n", err)
		os.Exit(1)
	}
	if exists {
		l.Infof("config loaded from %s", resolved)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	if err := run(cfg, l, stop); err != nil {
		l.Errorf("server error: %v", err)
		os.Exit(1)
	}
	l.Infof("bye")
}

// run serves until stop fires or the listener fails. A listener failure is
// returned; a stop signal shuts the server down gracefully.
func run(cfg *config.Config, l *logger.Logger, stop <-chan os.Signal) error {
	svc := autofill.New(cfg.Site, fetch.NewHTTPClient(cfg.FetchOptions()), l)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      logRequest(l, newMux(svc, cfg.Server)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		l.Infof("server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
