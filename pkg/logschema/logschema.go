package logschema

// Log schema constants for iqview structured logs.
const (
	SchemaID    = "iqview.log.v1"
	FieldSchema = "log_schema"

	FieldTimestamp = "ts"
	FieldLevel     = "level"
	FieldMessage   = "msg"
	FieldLogger    = "logger"
	FieldCaller    = "caller"
	FieldStack     = "stack"

	FieldComponent = "component"
	FieldEvent     = "event"
	FieldResult    = "result"
	FieldError     = "error"
	FieldTile      = "tile"
	FieldFFTSize   = "fft_size"
	FieldWindow    = "window"
)

// LogRecord is a generic map representation of a log entry.
type LogRecord map[string]interface{}
