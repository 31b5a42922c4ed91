package logger

// Log levels accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config defines the configuration structure for the logger.
type Config struct {
	// Level sets the minimum level that is emitted.
	//
	// Accepted values: "debug", "info", "warning", "error".
	//
	// Default: "info"
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	// ServiceName is attached to every log entry as the "service" field,
	// distinguishing entries in aggregated log storage.
	ServiceName string `yaml:"service_name" envconfig:"ZAP_LOGGER_SERVICE_NAME"`

	// EnableTracing controls whether log entries carry the active trace
	// and span IDs when a traced context is available.
	EnableTracing bool `yaml:"enable_tracing" envconfig:"ZAP_LOGGER_ENABLE_TRACING"`
}
