package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joeydtaylor/iqview/pkg/builder"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var (
		view    viewFlags
		out     string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one view to a PNG, waiting for its tiles to load",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := builder.NewLoggerFromConfig(cfg.Logging)
			if err != nil {
				return err
			}
			defer logger.Flush()

			vs, err := view.viewport(cmd, cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			rec, err := builder.OpenRecording(ctx, cfg, builder.RecordingWithLogger(logger))
			if err != nil {
				return err
			}
			defer rec.Close()

			res, err := renderUntilComplete(ctx, rec.Spectrogram, vs)
			if err != nil {
				return err
			}
			if len(res.MissingTiles) > 0 {
				logger.Warn("Render: writing partial image", "missing_tiles", res.MissingTiles)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := builder.EncodePNG(f, res.Image, res.Width); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d, tiles %.3f-%.3f)\n", out, res.Width, res.Height, res.Tiles.Lower, res.Tiles.Upper)
			return nil
		},
	}
	view.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "spectrogram.png", "output PNG path")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "how long to wait for tiles")
	return cmd
}

// renderUntilComplete re-renders on every tile arrival. A deadline returns the last partial result.
func renderUntilComplete(ctx context.Context, spec *builder.Spectrogram, view builder.ViewportState) (builder.RenderResult, error) {
	res, err := spec.RenderAndFetch(ctx, view)
	for err == nil && len(res.MissingTiles) > 0 {
		select {
		case <-ctx.Done():
			return res, nil
		case _, ok := <-spec.Ready():
			if !ok {
				return res, nil
			}
		case <-time.After(250 * time.Millisecond):
		}
		res, err = spec.RenderAndFetch(ctx, view)
	}
	return res, err
}
