// Package config loads iqview settings from YAML with IQVIEW_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/fftengine"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Recording RecordingConfig `yaml:"recording"`
	Render    RenderConfig    `yaml:"render"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// RecordingConfig locates the metadata and the sample data. Exactly one data location is used:
// S3 when a bucket is set, then HTTPURL, then DataPath (derived from MetaPath when empty).
type RecordingConfig struct {
	MetaPath string   `yaml:"meta"`
	DataPath string   `yaml:"data"`
	HTTPURL  string   `yaml:"http_url"`
	S3       S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Key          string `yaml:"key"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

type RenderConfig struct {
	TileSize        int          `yaml:"tile_size"`
	MaxInFlight     int          `yaml:"max_in_flight"`
	MaxTiles        int          `yaml:"max_tiles"`
	FFTEngine       string       `yaml:"fft_engine"`
	LegacyWindowing bool         `yaml:"legacy_windowing"`
	Defaults        ViewDefaults `yaml:"defaults"`
}

// ViewDefaults is the viewport used when a request leaves a parameter out.
type ViewDefaults struct {
	FFTSize      int     `yaml:"fft_size"`
	Window       string  `yaml:"window"`
	ColorMap     string  `yaml:"colormap"`
	ZoomLevel    int     `yaml:"zoom"`
	Height       int     `yaml:"height"`
	MagnitudeMin float64 `yaml:"magnitude_min"`
	MagnitudeMax float64 `yaml:"magnitude_max"`
}

type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	Gzip            bool          `yaml:"gzip"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ProgressTimeout time.Duration `yaml:"progress_timeout"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	File        string `yaml:"file"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			TileSize:    types.DefaultTileSize,
			MaxInFlight: 8,
			FFTEngine:   fftengine.BackendGoDSP,
			Defaults: ViewDefaults{
				FFTSize:      1024,
				Window:       "hamming",
				ColorMap:     "viridis",
				ZoomLevel:    1,
				Height:       600,
				MagnitudeMin: -60,
				MagnitudeMax: 0,
			},
		},
		Server: ServerConfig{
			Listen:          ":8080",
			Gzip:            true,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ProgressTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads filename over the defaults and applies environment overrides. An empty filename
// skips the file.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from IQVIEW_* variables.
func (c *Config) ApplyEnv() {
	c.Recording.MetaPath = EnvOr("IQVIEW_META", c.Recording.MetaPath)
	c.Recording.DataPath = EnvOr("IQVIEW_DATA", c.Recording.DataPath)
	c.Recording.HTTPURL = EnvOr("IQVIEW_HTTP_URL", c.Recording.HTTPURL)
	c.Recording.S3.Bucket = EnvOr("IQVIEW_S3_BUCKET", c.Recording.S3.Bucket)
	c.Recording.S3.Key = EnvOr("IQVIEW_S3_KEY", c.Recording.S3.Key)
	c.Recording.S3.Region = EnvOr("IQVIEW_S3_REGION", EnvOr("AWS_REGION", c.Recording.S3.Region))
	c.Recording.S3.Endpoint = EnvOr("IQVIEW_S3_ENDPOINT", c.Recording.S3.Endpoint)
	c.Recording.S3.UsePathStyle = EnvBoolOr("IQVIEW_S3_PATH_STYLE", c.Recording.S3.UsePathStyle)

	c.Render.TileSize = EnvIntOr("IQVIEW_TILE_SIZE", c.Render.TileSize)
	c.Render.MaxInFlight = EnvIntOr("IQVIEW_MAX_IN_FLIGHT", c.Render.MaxInFlight)
	c.Render.MaxTiles = EnvIntOr("IQVIEW_MAX_TILES", c.Render.MaxTiles)
	c.Render.FFTEngine = EnvOr("IQVIEW_FFT_ENGINE", c.Render.FFTEngine)
	c.Render.LegacyWindowing = EnvBoolOr("IQVIEW_LEGACY_WINDOWING", c.Render.LegacyWindowing)
	c.Render.Defaults.MagnitudeMin = EnvFloatOr("IQVIEW_MAGNITUDE_MIN", c.Render.Defaults.MagnitudeMin)
	c.Render.Defaults.MagnitudeMax = EnvFloatOr("IQVIEW_MAGNITUDE_MAX", c.Render.Defaults.MagnitudeMax)

	c.Server.Listen = EnvOr("IQVIEW_LISTEN", c.Server.Listen)
	c.Server.Gzip = EnvBoolOr("IQVIEW_GZIP", c.Server.Gzip)
	c.Server.ProgressTimeout = EnvDurationOr("IQVIEW_PROGRESS_TIMEOUT", c.Server.ProgressTimeout)
	c.Logging.Level = EnvOr("IQVIEW_LOG_LEVEL", c.Logging.Level)
	c.Logging.File = EnvOr("IQVIEW_LOG_FILE", c.Logging.File)
	c.Metrics.Enabled = EnvBoolOr("IQVIEW_METRICS", c.Metrics.Enabled)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if ts := c.Render.TileSize; ts < types.MinFFTSize || ts&(ts-1) != 0 {
		errs = append(errs, fmt.Errorf("render.tile_size %d must be a power of two >= %d", ts, types.MinFFTSize))
	}
	if c.Render.MaxInFlight < 1 {
		errs = append(errs, fmt.Errorf("render.max_in_flight must be >= 1"))
	}
	if c.Render.MaxTiles < 0 {
		errs = append(errs, fmt.Errorf("render.max_tiles must be >= 0"))
	}
	if _, err := fftengine.New(c.Render.FFTEngine); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Render.Defaults.Viewport(c.Render.TileSize); err != nil {
		errs = append(errs, fmt.Errorf("render.defaults: %w", err))
	}
	if s3 := c.Recording.S3; s3.Bucket != "" && s3.Key == "" {
		errs = append(errs, fmt.Errorf("recording.s3.key is required with a bucket"))
	}
	return errors.Join(errs...)
}

// Viewport converts the defaults to a ViewportState at the top of the recording.
func (d ViewDefaults) Viewport(tileSize int) (types.ViewportState, error) {
	w, err := types.ParseWindowFunction(d.Window)
	if err != nil {
		return types.ViewportState{}, err
	}
	cm, err := types.ParseColorMapID(d.ColorMap)
	if err != nil {
		return types.ViewportState{}, err
	}
	if err := fftengine.ValidateSize(d.FFTSize); err != nil {
		return types.ViewportState{}, err
	}
	if d.FFTSize < types.MinFFTSize || (tileSize > 0 && tileSize%d.FFTSize != 0) {
		return types.ViewportState{}, fmt.Errorf("%w: %d", types.ErrInvalidFFTSize, d.FFTSize)
	}
	if d.MagnitudeMax <= d.MagnitudeMin {
		return types.ViewportState{}, fmt.Errorf("%w: [%v, %v]", types.ErrInvalidMagnitudeRange, d.MagnitudeMin, d.MagnitudeMax)
	}
	if d.ZoomLevel < 1 {
		return types.ViewportState{}, fmt.Errorf("%w: %d", types.ErrInvalidZoom, d.ZoomLevel)
	}
	if d.Height < 1 {
		return types.ViewportState{}, fmt.Errorf("%w: height %d", types.ErrInvalidViewport, d.Height)
	}
	return types.ViewportState{
		FFTSize:           d.FFTSize,
		MagnitudeMin:      d.MagnitudeMin,
		MagnitudeMax:      d.MagnitudeMax,
		Window:            w,
		ColorMap:          cm,
		ZoomLevel:         d.ZoomLevel,
		SpectrogramHeight: d.Height,
	}, nil
}
