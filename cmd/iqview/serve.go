package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joeydtaylor/iqview/pkg/builder"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP and websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			logger, err := builder.NewLoggerFromConfig(cfg.Logging)
			if err != nil {
				return err
			}
			defer logger.Flush()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			recOpts := []builder.RecordingOption{builder.RecordingWithLogger(logger)}
			var reg *prometheus.Registry
			if cfg.Metrics.Enabled {
				reg = prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				recOpts = append(recOpts, builder.RecordingWithSensor(builder.NewMetricsSensor(reg, builder.SensorWithLogger(logger))))
			}

			rec, err := builder.OpenRecording(ctx, cfg, recOpts...)
			if err != nil {
				return err
			}
			defer rec.Close()

			defaults, err := cfg.Render.Defaults.Viewport(cfg.Render.TileSize)
			if err != nil {
				return err
			}
			srvOpts := []builder.RenderServerOption{
				builder.RenderServerWithGzip(cfg.Server.Gzip),
				builder.RenderServerWithAnnotations(rec.Annotations),
				builder.RenderServerWithProgressTimeout(cfg.Server.ProgressTimeout),
				builder.RenderServerWithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
				builder.RenderServerWithLogger(logger),
			}
			if reg != nil {
				srvOpts = append(srvOpts, builder.RenderServerWithMetrics(reg))
			}
			srv := builder.NewRenderServer(rec.Spectrogram, defaults, srvOpts...)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.ListenAndServe(gctx, cfg.Server.Listen)
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.Info("Serve: shutting down", "event", "Shutdown")
				return nil
			})
			err = g.Wait()
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address, overrides server.listen")
	return cmd
}
