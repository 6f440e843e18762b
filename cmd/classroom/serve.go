package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-client/pkg/config"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local JSON bridge for a UI shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == 0 {
				port = c.cfg.Port
			}
			if c.cfg.Env == config.EnvProduction {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx := cmd.Context()
			c.app.StartBackground(ctx)

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           c.app.Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			return c.runServer(ctx, srv)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Listen port (defaults to PORT)")
	return cmd
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func (c *cli) runServer(ctx context.Context, srv *http.Server) error {
	logr := c.logger.Sugar()
	errCh := make(chan error, 1)
	go func() {
		logr.Infow("bridge starting", "addr", srv.Addr, "env", c.cfg.Env, "store", c.cfg.Store.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.logger.Info("bridge shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.logger.Error("bridge shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
