// Package export writes spectrogram rows to Parquet so they can be analysed outside the viewer.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeydtaylor/iqview/pkg/internal/spectrogram"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"github.com/joeydtaylor/iqview/pkg/internal/viewport"
	parquet "github.com/parquet-go/parquet-go"
)

// Row is one displayed spectrum line.
type Row struct {
	Tile         int64     `parquet:"tile"`
	Row          int64     `parquet:"row"`
	SampleOffset int64     `parquet:"sample_offset"`
	TimeOffset   float64   `parquet:"time_offset_s"`
	FFTSize      int32     `parquet:"fft_size"`
	Window       string    `parquet:"window,dict"`
	MagnitudesDB []float32 `parquet:"magnitudes_db"`
}

// Summary reports what a Write call produced.
type Summary struct {
	Rows         int
	SkippedRows  int
	MissingTiles []int
	Bytes        int
}

// S3PutObjectAPI is the slice of the S3 client Upload needs.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type config struct {
	compression     parquet.WriterOption
	compressionName string
	wait            time.Duration
	loggers         []types.Logger
}

// Option configures Write.
type Option func(*config)

// WithCompression selects snappy (default), zstd, gzip or none.
func WithCompression(name string) Option {
	return func(c *config) {
		c.compressionName = strings.ToLower(name)
		switch c.compressionName {
		case "zstd":
			c.compression = parquet.Compression(&parquet.Zstd)
		case "gzip", "gz":
			c.compression = parquet.Compression(&parquet.Gzip)
		case "none", "uncompressed":
			c.compression = parquet.Compression(&parquet.Uncompressed)
		default:
			c.compressionName = "snappy"
			c.compression = parquet.Compression(&parquet.Snappy)
		}
	}
}

// WithWait makes Write fetch missing tiles and wait up to d for them before writing.
func WithWait(d time.Duration) Option {
	return func(c *config) { c.wait = d }
}

func WithLogger(l ...types.Logger) Option {
	return func(c *config) { c.loggers = append(c.loggers, l...) }
}

// Write renders the rows of view and writes them to w. Rows belonging to tiles that are still
// missing are skipped and counted in the summary.
func Write(ctx context.Context, spec *spectrogram.Spectrogram, view types.ViewportState, w io.Writer, options ...Option) (Summary, error) {
	cfg := config{}
	WithCompression("snappy")(&cfg)
	for _, option := range options {
		option(&cfg)
	}

	rows, missing, err := collect(ctx, spec, view, cfg.wait)
	if err != nil {
		return Summary{}, err
	}

	info := spec.Info()
	tr := spec.TileRange(view)
	first := viewport.FirstSample(tr, view.FFTSize, spec.TileSize())
	zoom := view.ZoomLevel
	if zoom < 1 {
		zoom = 1
	}
	step := int64(view.FFTSize * zoom)

	cw := &countingWriter{w: w}
	pw := parquet.NewGenericWriter[Row](cw, cfg.compression,
		parquet.KeyValueMetadata("sample_rate", strconv.FormatFloat(info.SampleRate, 'f', -1, 64)),
		parquet.KeyValueMetadata("center_frequency", strconv.FormatFloat(info.CenterFrequency, 'f', -1, 64)),
		parquet.KeyValueMetadata("datatype", info.DataType),
		parquet.KeyValueMetadata("zoom", strconv.Itoa(zoom)),
	)

	sum := Summary{MissingTiles: missing}
	n := len(rows) / view.FFTSize
	batch := make([]Row, 0, 256)
	for i := 0; i < n; i++ {
		line := rows[i*view.FFTSize : (i+1)*view.FFTSize]
		if math.IsInf(float64(line[0]), -1) {
			sum.SkippedRows++
			continue
		}
		offset := first + int64(i)*step
		r := Row{
			Tile:         offset / int64(spec.TileSize()),
			Row:          int64(i),
			SampleOffset: offset,
			FFTSize:      int32(view.FFTSize),
			Window:       view.Window.String(),
			MagnitudesDB: append([]float32(nil), line...),
		}
		if info.SampleRate > 0 {
			r.TimeOffset = float64(offset) / info.SampleRate
		}
		batch = append(batch, r)
		if len(batch) == cap(batch) {
			if _, err := pw.Write(batch); err != nil {
				return sum, err
			}
			sum.Rows += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if _, err := pw.Write(batch); err != nil {
			return sum, err
		}
		sum.Rows += len(batch)
	}
	if err := pw.Close(); err != nil {
		return sum, err
	}
	sum.Bytes = cw.n

	for _, l := range cfg.loggers {
		l.Info("Parquet export",
			"event", "ParquetExport",
			"rows", sum.Rows,
			"skipped", sum.SkippedRows,
			"bytes", sum.Bytes,
			"compression", cfg.compressionName,
		)
	}
	return sum, nil
}

// collect fetches rows for view, waiting up to wait for missing tiles to arrive.
func collect(ctx context.Context, spec *spectrogram.Spectrogram, view types.ViewportState, wait time.Duration) ([]float32, []int, error) {
	rows, missing, err := spec.Rows(ctx, view)
	if err != nil || len(missing) == 0 || wait <= 0 {
		return rows, missing, err
	}

	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()

	for len(missing) > 0 {
		spec.Coordinator().RequestFetchAll(missing)
		select {
		case <-ctx.Done():
			return rows, missing, ctx.Err()
		case <-deadline.C:
			return rows, missing, nil
		case <-spec.Ready():
		case <-poll.C:
		}
		if rows, missing, err = spec.Rows(ctx, view); err != nil {
			return nil, nil, err
		}
	}
	return rows, missing, nil
}

// Read decodes every row of a Parquet file produced by Write.
func Read(r io.ReaderAt) ([]Row, error) {
	gr := parquet.NewGenericReader[Row](r)
	defer gr.Close()

	out := make([]Row, 0, 256)
	batch := make([]Row, 256)
	for {
		n, err := gr.Read(batch)
		if n > 0 {
			out = append(out, batch[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Upload writes the rows of view to bucket/key as a single Parquet object.
func Upload(ctx context.Context, api S3PutObjectAPI, bucket, key string, spec *spectrogram.Spectrogram, view types.ViewportState, options ...Option) (Summary, error) {
	var buf bytes.Buffer
	sum, err := Write(ctx, spec, view, &buf, options...)
	if err != nil {
		return sum, err
	}
	_, err = api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentType:   aws.String("application/parquet"),
		ContentLength: aws.Int64(int64(buf.Len())),
	})
	if err != nil {
		return sum, fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	return sum, nil
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
