package builder

import (
	"context"
	"io"
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/export"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

type (
	ExportOption   = export.Option
	ExportSummary  = export.Summary
	ExportRow      = export.Row
	S3PutObjectAPI = export.S3PutObjectAPI
)

// ExportParquet writes the spectrum rows of view to w.
func ExportParquet(ctx context.Context, spec *Spectrogram, view ViewportState, w io.Writer, options ...ExportOption) (ExportSummary, error) {
	return export.Write(ctx, spec, view, w, options...)
}

// ExportParquetToS3 writes the spectrum rows of view to bucket/key.
func ExportParquetToS3(ctx context.Context, api S3PutObjectAPI, bucket, key string, spec *Spectrogram, view ViewportState, options ...ExportOption) (ExportSummary, error) {
	return export.Upload(ctx, api, bucket, key, spec, view, options...)
}

// ReadParquetExport reads rows written by ExportParquet.
func ReadParquetExport(r io.ReaderAt) ([]ExportRow, error) {
	return export.Read(r)
}

// ExportWithCompression selects snappy, zstd, gzip or none.
func ExportWithCompression(name string) ExportOption {
	return export.WithCompression(name)
}

// ExportWithWait fetches missing tiles and waits up to d before writing.
func ExportWithWait(d time.Duration) ExportOption {
	return export.WithWait(d)
}

func ExportWithLogger(logger ...types.Logger) ExportOption {
	return export.WithLogger(logger...)
}
