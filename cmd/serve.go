package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/watchlist/internal/auth"
	"github.com/desertthunder/watchlist/internal/shared"
	"github.com/desertthunder/watchlist/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web application until the context is cancelled or the process receives SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = port
	}

	db, store, err := r.openStore(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if config.Session.SecretKey == "" {
		r.logger.Warn("no session secret configured, sessions will not survive a restart")
	}
	cookies := auth.NewCookieStore(config.Session.SecretKey, auth.CookieOptions{
		MaxAge: config.Session.MaxAge,
		Secure: config.Session.Secure,
	})

	app, err := web.New(web.Options{
		Store:     store,
		Auth:      auth.NewManager(cookies, config.Session.Name, store.Users, shared.WithLogger(r.logger, "component", "auth")),
		Logger:    shared.WithLogger(r.logger, "component", "http"),
		RateLimit: config.Server.RateLimit,
		LoginRate: config.Server.LoginRate,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         config.Server.Addr(),
		Handler:      app.Handler(),
		ReadTimeout:  config.Server.ReadTimeout.Duration,
		WriteTimeout: config.Server.WriteTimeout.Duration,
		IdleTimeout:  config.Server.IdleTimeout.Duration,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	url := "http://" + ln.Addr().String()
	r.logger.Info("serving watchlist", "url", url, "database", config.Database.Path)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	r.logger.Info("shutting down", "timeout", config.Server.ShutdownTimeout.Duration)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
