package builder

import (
	internalLogger "github.com/joeydtaylor/iqview/pkg/internal/internallogger"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"github.com/joeydtaylor/iqview/pkg/logschema"
)

type LoggerOption = internalLogger.LoggerOption

type SinkConfig = types.SinkConfig

type SinkType = types.SinkType

const (
	FileSink   SinkType = types.FileSink
	StdoutSink SinkType = types.StdoutSink
)

func NewLogger(options ...internalLogger.LoggerOption) types.Logger {
	return internalLogger.NewLogger(options...)
}

// LoggerWithLevel configures the logger to use the specified log level
func LoggerWithLevel(levelStr string) LoggerOption {
	return internalLogger.LoggerWithLevel(levelStr)
}

// LoggerWithDevelopment enables or disables development mode
func LoggerWithDevelopment(dev bool) LoggerOption {
	return internalLogger.LoggerWithDevelopment(dev)
}

// LoggerWithFields attaches fields to every log line.
func LoggerWithFields(fields map[string]interface{}) LoggerOption {
	return internalLogger.LoggerWithFields(fields)
}

// LoggerWithSchema overrides the log schema identifier field.
func LoggerWithSchema(schema string) LoggerOption {
	return internalLogger.LoggerWithSchema(schema)
}

// NewLoggerFromConfig builds the process logger from the logging section, adding a file sink
// when one is configured.
func NewLoggerFromConfig(cfg LoggingConfig) (types.Logger, error) {
	logger := NewLogger(
		LoggerWithLevel(cfg.Level),
		LoggerWithDevelopment(cfg.Development),
		LoggerWithFields(map[string]interface{}{"service": "iqview"}),
	)
	if cfg.File != "" {
		if err := logger.AddSink("file", SinkConfig{
			Type:   string(FileSink),
			Config: map[string]interface{}{"path": cfg.File},
		}); err != nil {
			return nil, err
		}
	}
	return logger, nil
}

// Log schema constants for the standard iqview log format.
const (
	LogSchemaID    = logschema.SchemaID
	LogSchemaField = logschema.FieldSchema
)

// LogLevel is exported from the internal types package.
type LogLevel = types.LogLevel

// Export log levels to be accessible under the builder package
const (
	DebugLevel  = types.DebugLevel
	InfoLevel   = types.InfoLevel
	WarnLevel   = types.WarnLevel
	ErrorLevel  = types.ErrorLevel
	DPanicLevel = types.DPanicLevel
	PanicLevel  = types.PanicLevel
	FatalLevel  = types.FatalLevel
)
