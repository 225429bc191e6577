package config

// TelemetryConfig holds OTLP trace export configuration.
//
// Traces are exported over OTLP HTTP to a local collector/agent; the
// collector handles authentication, buffering, and forwarding. Tracing is
// disabled when Endpoint is empty.
type TelemetryConfig struct {
	Endpoint    string `mapstructure:"endpoint" json:"endpoint"`         // Collector endpoint (e.g., "localhost:4318"); empty disables tracing
	ServiceName string `mapstructure:"service_name" json:"service_name"` // Reported service.name (default: "coda")
	Environment string `mapstructure:"environment" json:"environment"`   // deployment.environment resource attribute
}
