package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/pipeline-insights/internal/server"
)

var (
	servePort   int
	serveSource string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dashboard data over HTTP",
	Long: `Loads and normalizes the source document once, then serves the
aggregations as JSON. Every endpoint accepts the filter parameters
(from, to, stages, owners, min_mrr, max_mrr) as query strings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		source := serveSource
		if source == "" {
			source = cfg.Source.Path
		}

		records, err := loadRecords(source, cfg.Source.Sheet)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.New(records, alertThresholds()).Router(),
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port), zap.Int("records", len(records)))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveSource, "source", "", "input document (default from config)")
	rootCmd.AddCommand(serveCmd)
}
