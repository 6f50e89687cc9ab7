package telemetry

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName identifies the defrag binary to the trace backend.
const ServiceName = "defrag"

// Config holds OpenTelemetry configuration.
//
// A defrag invocation is one root span per command with one child span per
// policy run, so sampling decides whole invocations at once.
type Config struct {
	Enabled bool

	ServiceName    string
	ServiceVersion string

	// Endpoint is the OTLP gRPC collector address, e.g. "localhost:4317".
	Endpoint string
	Insecure bool

	// SampleRate is the fraction of invocations traced, 0.0 to 1.0.
	SampleRate float64
}

// DefaultConfig returns tracing disabled, every invocation sampled once it
// is turned on.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    ServiceName,
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}

// sampler returns a parent-based sampler. Policy spans follow the decision
// taken for their command span, so a sampled invocation is never traced
// partially. The root decision comes from SampleRate.
func (c Config) sampler() sdktrace.Sampler {
	var root sdktrace.Sampler
	switch {
	case c.SampleRate >= 1.0:
		root = sdktrace.AlwaysSample()
	case c.SampleRate <= 0.0:
		root = sdktrace.NeverSample()
	default:
		root = sdktrace.TraceIDRatioBased(c.SampleRate)
	}
	return sdktrace.ParentBased(root)
}
