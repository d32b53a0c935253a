package builder

import (
	"github.com/joeydtaylor/iqview/pkg/internal/config"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

type (
	ComponentMetadata = types.ComponentMetadata
	ViewportState     = types.ViewportState
	RenderResult      = types.RenderResult
	RecordingInfo     = types.RecordingInfo
	Annotation        = types.Annotation
	WindowFunction    = types.WindowFunction
	ColorMapID        = types.ColorMapID

	Config          = config.Config
	RecordingConfig = config.RecordingConfig
	RenderConfig    = config.RenderConfig
	ServerConfig    = config.ServerConfig
	LoggingConfig   = config.LoggingConfig
	S3Config        = config.S3Config
)

// LoadConfig reads a YAML config file, applies IQVIEW_* overrides and validates the result.
func LoadConfig(filename string) (*Config, error) {
	return config.Load(filename)
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return config.Default()
}
