package metrics

// Exporter selects where meter readings are sent.
type Exporter string

const (
	ExporterPrometheus Exporter = "prometheus"
	ExporterOTLP       Exporter = "otlp"
)

// Config describes the meter provider.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Readers        []ReaderConfig
}

// ReaderConfig is one export pipeline. Endpoint, Headers and Insecure only apply to OTLP.
type ReaderConfig struct {
	Exporter Exporter
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

type OptionFn func(*Config)

func WithServiceName(name string) OptionFn {
	return func(c *Config) { c.ServiceName = name }
}

func WithServiceVersion(version string) OptionFn {
	return func(c *Config) { c.ServiceVersion = version }
}

// WithPrometheus exposes readings on the process registry served by NewPrometheusServer.
func WithPrometheus() OptionFn {
	return func(c *Config) {
		c.Readers = append(c.Readers, ReaderConfig{Exporter: ExporterPrometheus})
	}
}

// WithOTLP pushes readings to a collector over gRPC.
func WithOTLP(endpoint string, headers map[string]string, insecure bool) OptionFn {
	return func(c *Config) {
		c.Readers = append(c.Readers, ReaderConfig{
			Exporter: ExporterOTLP,
			Endpoint: endpoint,
			Headers:  headers,
			Insecure: insecure,
		})
	}
}

// WithReader adds a pipeline as is.
func WithReader(r ReaderConfig) OptionFn {
	return func(c *Config) { c.Readers = append(c.Readers, r) }
}
