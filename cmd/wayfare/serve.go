package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/wayfare-dev/wayfare/internal/routesfile"
	"github.com/wayfare-dev/wayfare/pkg/history"
	"github.com/wayfare-dev/wayfare/pkg/live"
	"github.com/wayfare-dev/wayfare/pkg/middleware"
	"github.com/wayfare-dev/wayfare/pkg/router"
)

func serveCmd() *cobra.Command {
	var (
		file      string
		addr      string
		startPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the router over HTTP and WebSocket",
		Long: `Serve loads a routes file and exposes the router:

  GET  /live/state     current state
  POST /live/navigate  drive a navigation
  GET  /live/ws        state push channel
  GET  /metrics        Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			f, err := routesfile.Load(file)
			if err != nil {
				return err
			}
			r, err := f.Router()
			if err != nil {
				return err
			}

			detachLog := middleware.LogEvents(r, middleware.WithSlog(logger))
			defer detachLog()
			detachMetrics := middleware.Metrics(r)
			defer detachMetrics()

			var startErr *router.Error
			r.Start(startPath, func(rerr *router.Error, to, from *router.State) {
				startErr = rerr
			})
			if startErr != nil {
				return fmt.Errorf("start at %q: %w", startPath, startErr)
			}
			defer r.Stop()

			srv := live.NewServer(r,
				live.WithLogger(logger),
				live.WithStateStore(history.NewMemoryStore(), "serve"))
			defer srv.Close()

			mux := chi.NewRouter()
			mux.Mount("/live", srv.Handler())
			mux.Handle("/metrics", promhttp.Handler())

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("serving", "addr", addr, "routes", file)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpSrv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "routes.yaml", "Routes file to load")
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	cmd.Flags().StringVar(&startPath, "start-path", "/", "Initial path to start the router at")

	return cmd
}
