package tracer

// Config defines the configuration structure for the tracer.
type Config struct {
	// ServiceName identifies the service in exported traces.
	ServiceName string `yaml:"service_name" envconfig:"TRACER_SERVICE_NAME"`

	// AppEnv tags spans with the deployment environment, e.g.
	// "production" or "staging".
	AppEnv string `yaml:"app_env" envconfig:"TRACER_APP_ENV"`

	// EnableExport controls whether spans are exported over OTLP HTTP.
	// When false the provider is wired but spans stay in-process, which
	// keeps local development and tests quiet.
	//
	// The exporter endpoint is taken from the standard OTLP environment
	// variables (OTEL_EXPORTER_OTLP_ENDPOINT and friends).
	EnableExport bool `yaml:"enable_export" envconfig:"TRACER_ENABLE_EXPORT"`
}
