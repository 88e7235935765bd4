package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	adapthttp "bmitrack/internal/adapter/http"
	"bmitrack/internal/app"
	"bmitrack/internal/metrics"

	"github.com/spf13/cobra"
)

const sessionPruneInterval = time.Hour

func (c *cli) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b, err := openBackend(ctx, c.cfg, c.log)
			if err != nil {
				return err
			}
			defer func() { _ = b.close() }()

			m := metrics.New()
			svc := newServices(b, c.log, m)

			srv := adapthttp.New(adapthttp.Services{
				Settings: svc.settings,
				History:  svc.history,
				BMI:      svc.bmi,
				Charts:   svc.charts,
				Auth:     svc.auth,
			}, c.cfg.WebDir).WithLogger(c.log).WithMetrics(m)

			if c.cfg.DisableAuth {
				c.log.Warn("authentication disabled")
				srv = srv.WithoutAuth()
			}
			if o := c.cfg.OIDC; o.Enabled() {
				oc, err := adapthttp.NewOIDCConfig(ctx, o.Issuer, o.ClientID, o.ClientSecret, o.RedirectURL)
				if err != nil {
					return err
				}
				srv = srv.WithOIDC(oc)
			}

			go pruneSessions(ctx, svc.auth, c)

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.log.Info("listening", "addr", addr, "storage", c.cfg.StorageDriver)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			c.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $ADDR or :8080)")
	return cmd
}

func pruneSessions(ctx context.Context, auth *app.AuthService, c *cli) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := auth.PruneSessions(ctx); err != nil {
				c.log.Warn("failed to prune sessions", "error", err)
			}
		}
	}
}
