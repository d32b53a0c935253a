package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/joeydtaylor/iqview/pkg/internal/fftengine"
	"github.com/joeydtaylor/iqview/pkg/internal/sigmf"
	"github.com/joeydtaylor/iqview/pkg/internal/spectrogram"
	"github.com/joeydtaylor/iqview/pkg/internal/tilesource"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

type Spectrogram = spectrogram.Spectrogram

// S3ObjectAPI is what a recording stored in S3 needs from the client.
type S3ObjectAPI interface {
	tilesource.S3GetObjectAPI
	tilesource.S3HeadObjectAPI
}

// Recording is an opened SigMF recording ready to render.
type Recording struct {
	Meta        *sigmf.Metadata
	Info        RecordingInfo
	Annotations []Annotation
	Spectrogram *Spectrogram

	closers []io.Closer
}

// Close stops the spectrogram and releases the data reader.
func (r *Recording) Close() error {
	if r.Spectrogram != nil {
		r.Spectrogram.Close()
	}
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

type recordingOptions struct {
	loggers    []types.Logger
	sensors    []types.Sensor
	s3         S3ObjectAPI
	httpClient *http.Client
	preprocess tilesource.Preprocessor
}

// RecordingOption customises OpenRecording.
type RecordingOption func(*recordingOptions)

func RecordingWithLogger(l ...types.Logger) RecordingOption {
	return func(o *recordingOptions) { o.loggers = append(o.loggers, l...) }
}

func RecordingWithSensor(s ...types.Sensor) RecordingOption {
	return func(o *recordingOptions) { o.sensors = append(o.sensors, s...) }
}

// RecordingWithS3Client uses cli instead of building one from the config.
func RecordingWithS3Client(cli S3ObjectAPI) RecordingOption {
	return func(o *recordingOptions) { o.s3 = cli }
}

// RecordingWithHTTPClient sets the client for HTTP-hosted recordings.
func RecordingWithHTTPClient(c *http.Client) RecordingOption {
	return func(o *recordingOptions) { o.httpClient = c }
}

// RecordingWithPreprocessor transforms decoded samples before they are cached.
func RecordingWithPreprocessor(p tilesource.Preprocessor) RecordingOption {
	return func(o *recordingOptions) { o.preprocess = p }
}

// OpenRecording locates the metadata and data described by cfg.Recording and builds a
// spectrogram over them. Data is read from S3 when a bucket is set, then from HTTPURL, then from
// a local file.
func OpenRecording(ctx context.Context, cfg *Config, options ...RecordingOption) (*Recording, error) {
	o := recordingOptions{httpClient: http.DefaultClient}
	for _, option := range options {
		option(&o)
	}

	rec := &Recording{}
	reader, size, err := openData(ctx, cfg.Recording, &o, rec)
	if err != nil {
		_ = rec.Close()
		return nil, err
	}

	dt, err := rec.Meta.DataType()
	if err != nil {
		_ = rec.Close()
		return nil, err
	}
	info, err := rec.Meta.RecordingInfo(size)
	if err != nil {
		_ = rec.Close()
		return nil, err
	}
	rec.Info = info
	rec.Annotations = rec.Meta.RenderAnnotations()

	sourceOpts := []types.Option[*tilesource.Source]{tilesource.WithLogger(o.loggers...)}
	if o.preprocess != nil {
		sourceOpts = append(sourceOpts, tilesource.WithPreprocessor(o.preprocess))
	}
	source := tilesource.New(reader, dt, sourceOpts...)

	engine, err := fftengine.New(cfg.Render.FFTEngine)
	if err != nil {
		_ = rec.Close()
		return nil, err
	}
	specOpts := []types.Option[*spectrogram.Spectrogram]{
		spectrogram.WithTileSize(cfg.Render.TileSize),
		spectrogram.WithBytesPerIQSample(dt.BytesPerIQSample()),
		spectrogram.WithMaxInFlight(cfg.Render.MaxInFlight),
		spectrogram.WithMaxTiles(cfg.Render.MaxTiles),
		spectrogram.WithEngine(engine),
		spectrogram.WithLogger(o.loggers...),
		spectrogram.WithSensor(o.sensors...),
	}
	if cfg.Render.LegacyWindowing {
		specOpts = append(specOpts, spectrogram.WithLegacyWindowing())
	}
	spec, err := spectrogram.New(ctx, source, info, specOpts...)
	if err != nil {
		_ = rec.Close()
		return nil, err
	}
	rec.Spectrogram = spec
	return rec, nil
}

func openData(ctx context.Context, rc RecordingConfig, o *recordingOptions, rec *Recording) (tilesource.RangeReader, int64, error) {
	switch {
	case rc.S3.Bucket != "":
		cli := o.s3
		if cli == nil {
			c, err := NewS3Client(ctx, S3ClientConfigFromEnv(rc.S3))
			if err != nil {
				return nil, 0, err
			}
			cli = c
		}
		meta, err := loadMeta(rc.MetaPath, func() ([]byte, error) {
			return tilesource.S3ReadObject(ctx, cli, rc.S3.Bucket, sigmf.MetaPath(rc.S3.Key))
		})
		if err != nil {
			return nil, 0, err
		}
		rec.Meta = meta
		size, err := tilesource.S3ObjectSize(ctx, cli, rc.S3.Bucket, rc.S3.Key)
		if err != nil {
			return nil, 0, err
		}
		return tilesource.NewS3Reader(cli, rc.S3.Bucket, rc.S3.Key), size, nil

	case rc.HTTPURL != "":
		reader := tilesource.NewHTTPReader(rc.HTTPURL, tilesource.WithHTTPClient(o.httpClient))
		meta, err := loadMeta(rc.MetaPath, func() ([]byte, error) {
			return tilesource.NewHTTPReader(sigmf.MetaPath(rc.HTTPURL), tilesource.WithHTTPClient(o.httpClient)).ReadAll(ctx)
		})
		if err != nil {
			return nil, 0, err
		}
		rec.Meta = meta
		size, err := reader.Size(ctx)
		if err != nil {
			return nil, 0, err
		}
		return reader, size, nil

	default:
		if rc.MetaPath == "" {
			return nil, 0, fmt.Errorf("recording: no metadata path, HTTP URL or S3 bucket configured")
		}
		meta, err := sigmf.Load(rc.MetaPath)
		if err != nil {
			return nil, 0, err
		}
		rec.Meta = meta
		dataPath := rc.DataPath
		if dataPath == "" {
			dataPath = sigmf.DataPath(rc.MetaPath)
		}
		f, err := tilesource.OpenFile(dataPath)
		if err != nil {
			return nil, 0, err
		}
		rec.closers = append(rec.closers, f)
		return f, f.Size(), nil
	}
}

// loadMeta prefers a local metadata file and falls back to fetching one beside the data.
func loadMeta(localPath string, fetch func() ([]byte, error)) (*sigmf.Metadata, error) {
	if localPath != "" {
		return sigmf.Load(localPath)
	}
	data, err := fetch()
	if err != nil {
		return nil, fmt.Errorf("recording: fetch metadata: %w", err)
	}
	return sigmf.Parse(bytes.NewReader(data))
}
