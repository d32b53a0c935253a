package main

import (
	"net/url"
	"strconv"

	"github.com/joeydtaylor/iqview/pkg/builder"
	"github.com/spf13/cobra"
)

// loadConfig applies the recording flags over the config file and environment.
func loadConfig() (*builder.Config, error) {
	cfg, err := builder.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	if metaPath != "" {
		cfg.Recording.MetaPath = metaPath
	}
	if dataPath != "" {
		cfg.Recording.DataPath = dataPath
	}
	if httpURL != "" {
		cfg.Recording.HTTPURL = httpURL
	}
	if s3Bucket != "" {
		cfg.Recording.S3.Bucket = s3Bucket
	}
	if s3Key != "" {
		cfg.Recording.S3.Key = s3Key
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, cfg.Validate()
}

type viewFlags struct {
	handleTop float64
	fftSize   int
	window    string
	colormap  string
	zoom      int
	height    int
	min       float64
	max       float64
}

func (v *viewFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&v.handleTop, "handle-top", 0, "scroll handle position in pixels")
	f.IntVar(&v.fftSize, "fft-size", 0, "FFT size, a power of two dividing the tile size")
	f.StringVar(&v.window, "window", "", "rectangular, hamming, hanning, bartlett or blackman")
	f.StringVar(&v.colormap, "colormap", "", "viridis, turbo, jet, gray or hot")
	f.IntVar(&v.zoom, "zoom", 0, "rows merged into one displayed row")
	f.IntVar(&v.height, "height", 0, "displayed rows")
	f.Float64Var(&v.min, "min", 0, "magnitude mapped to the bottom of the colormap, dB")
	f.Float64Var(&v.max, "max", 0, "magnitude mapped to the top of the colormap, dB")
}

// viewport overlays the flags the user set on the configured defaults.
func (v *viewFlags) viewport(cmd *cobra.Command, cfg *builder.Config) (builder.ViewportState, error) {
	defaults, err := cfg.Render.Defaults.Viewport(cfg.Render.TileSize)
	if err != nil {
		return defaults, err
	}
	q := url.Values{}
	set := func(flag, key, value string) {
		if cmd.Flags().Changed(flag) {
			q.Set(key, value)
		}
	}
	set("handle-top", "handleTop", strconv.FormatFloat(v.handleTop, 'f', -1, 64))
	set("fft-size", "fftSize", strconv.Itoa(v.fftSize))
	set("window", "window", v.window)
	set("colormap", "colormap", v.colormap)
	set("zoom", "zoom", strconv.Itoa(v.zoom))
	set("height", "height", strconv.Itoa(v.height))
	set("min", "min", strconv.FormatFloat(v.min, 'f', -1, 64))
	set("max", "max", strconv.FormatFloat(v.max, 'f', -1, 64))
	return builder.ParseViewport(q, defaults)
}
