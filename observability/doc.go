// Package observability wires OpenTelemetry tracing and metrics for httpkit.
//
// InitTracer and InitMeter install global OTLP/HTTP providers. Metrics holds
// the instruments the httpclient middleware records into: dispatch counts by
// raw outcome, dispatch latency, in-flight calls, and resolved problems.
//
// # Usage
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("svc"))
//	defer tp.Shutdown(ctx)
//	m, err := observability.NewMetrics(observability.Meter("httpkit"))
package observability
