package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joeydtaylor/iqview/pkg/builder"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		view        viewFlags
		out         string
		outBucket   string
		outKey      string
		compression string
		wait        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the spectrum rows of one view to Parquet",
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
			ctx, cancel := context.WithTimeout(cmd.Context(), wait+30*time.Second)
			defer cancel()

			rec, err := builder.OpenRecording(ctx, cfg, builder.RecordingWithLogger(logger))
			if err != nil {
				return err
			}
			defer rec.Close()

			opts := []builder.ExportOption{
				builder.ExportWithCompression(compression),
				builder.ExportWithWait(wait),
				builder.ExportWithLogger(logger),
			}

			var sum builder.ExportSummary
			if outBucket != "" {
				cli, err := builder.NewS3Client(ctx, builder.S3ClientConfigFromEnv(cfg.Recording.S3))
				if err != nil {
					return err
				}
				sum, err = builder.ExportParquetToS3(ctx, cli, outBucket, outKey, rec.Spectrogram, vs, opts...)
				if err != nil {
					return err
				}
				out = "s3://" + outBucket + "/" + outKey
			} else {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				sum, err = builder.ExportParquet(ctx, rec.Spectrogram, vs, f, opts...)
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s (%d skipped, %d bytes)\n", sum.Rows, out, sum.SkippedRows, sum.Bytes)
			return nil
		},
	}
	view.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "spectrum.parquet", "output Parquet path")
	cmd.Flags().StringVar(&outBucket, "out-s3-bucket", "", "upload to this bucket instead of writing a file")
	cmd.Flags().StringVar(&outKey, "out-s3-key", "spectrum.parquet", "object key for --out-s3-bucket")
	cmd.Flags().StringVar(&compression, "compression", "snappy", "snappy, zstd, gzip or none")
	cmd.Flags().DurationVar(&wait, "wait", 30*time.Second, "how long to wait for missing tiles")
	return cmd
}
