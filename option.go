package endpoint

// config holds an Endpoint's construction-time configuration. It is
// immutable once the worker thread starts.
type config struct {
	registry TypeRegistry
	codec    PayloadCodec
	logger   Logger
	metrics  MetricsRecorder
}

// Option is a function that configures an Endpoint at construction time.
type Option func(*config)

// WithTypeRegistry returns an Option that sets the message type registry.
// The registry is required and must be provided before calling Listen or
// Connect.
func WithTypeRegistry(registry TypeRegistry) Option {
	return func(c *config) {
		c.registry = registry
	}
}

// WithPayloadCodec returns an Option that sets the payload codec. The
// codec is required and must be provided before calling Listen or Connect.
func WithPayloadCodec(codec PayloadCodec) Option {
	return func(c *config) {
		c.codec = codec
	}
}

// WithLogger returns an Option that sets the structured logger. If not
// set, the default slog logger is used.
func WithLogger(logger Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics returns an Option that sets the metrics recorder, e.g. the
// Prometheus-backed Recorder from this module's metrics subpackage. If not
// set, observations are discarded.
func WithMetrics(metrics MetricsRecorder) Option {
	return func(c *config) {
		c.metrics = metrics
	}
}

// checkConfig validates required options and fills in defaults.
func checkConfig(c *config) error {
	if c.registry == nil {
		return ErrNoTypeRegistry
	}
	if c.codec == nil {
		return ErrNoPayloadCodec
	}
	if c.logger == nil {
		c.logger = defaultLogger()
	}
	if c.metrics == nil {
		c.metrics = noopMetrics{}
	}
	return nil
}
