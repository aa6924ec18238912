package httpclient

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/httpkit/logger"
	"github.com/kbukum/httpkit/observability"
)

// Middleware wraps a Transport.
type Middleware func(Transport) Transport

// Chain wraps t with mws. The first middleware is the outermost.
func Chain(t Transport, mws ...Middleware) Transport {
	for i := len(mws) - 1; i >= 0; i-- {
		t = mws[i](t)
	}
	return t
}

type ctxKey int

const (
	requestIDKey ctxKey = iota
	trackerKeyKey
)

// ContextWithRequestID returns a context carrying the request id of a call.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id set by the Client, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ContextWithTrackerKey returns a context carrying the tracker key of a call.
func ContextWithTrackerKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, trackerKeyKey, key)
}

// TrackerKeyFromContext returns the tracker key of a tracked call, if any.
func TrackerKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(trackerKeyKey).(string)
	return key
}

// LoggingMiddleware logs every round trip with its raw outcome. Complete
// responses are logged at debug, the other outcomes at warn.
func LoggingMiddleware(log *logger.Logger) Middleware {
	return func(next Transport) Transport {
		return TransportFunc(func(ctx context.Context, req Request, progress ProgressFunc) RawResponse {
			start := time.Now()
			raw := Normalize(next.RoundTrip(ctx, req, progress))

			fields := logger.Fields(
				logger.FieldMethod, req.Method(),
				logger.FieldURL, req.URL(),
				logger.FieldOutcome, string(raw.Outcome()),
			)
			if id := RequestIDFromContext(ctx); id != "" {
				fields[logger.FieldRequestID] = id
			}
			if key := TrackerKeyFromContext(ctx); key != "" {
				fields[logger.FieldTrackerKey] = key
			}
			if meta, ok := ResponseMetadata(raw); ok {
				fields[logger.FieldStatusCode] = meta.StatusCode
			}
			fields = logger.MergeWithDuration(fields, time.Since(start))

			switch raw.(type) {
			case GoodStatusResponse, BadStatusResponse:
				fields["headers"] = redactHeaders(req.Headers())
				log.Debug("http round trip", fields)
			default:
				log.Warn("http round trip failed", fields)
			}
			return raw
		})
	}
}

var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"x-api-key":           true,
}

// redactHeaders flattens headers for logging, masking credentials down to
// their first four characters.
func redactHeaders(headers []Header) map[string]string {
	out := make(map[string]string, len(headers))
	for i := len(headers) - 1; i >= 0; i-- {
		h := headers[i]
		v := h.Value
		if sensitiveHeaders[strings.ToLower(h.Name)] {
			v = maskSecret(v, 4)
		}
		if prev, ok := out[h.Name]; ok {
			v = prev + ", " + v
		}
		out[h.Name] = v
	}
	return out
}

func maskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}

// TracingMiddleware wraps each round trip in a span and forwards the trace
// context as request headers.
func TracingMiddleware(serviceName string) Middleware {
	return func(next Transport) Transport {
		return TransportFunc(func(ctx context.Context, req Request, progress ProgressFunc) RawResponse {
			ctx, span := observability.StartSpan(ctx, observability.SpanHTTPDispatch,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String(observability.AttrServiceName, serviceName),
					attribute.String(observability.AttrHTTPMethod, req.Method()),
					attribute.String(observability.AttrURL, req.URL()),
				),
			)
			defer span.End()

			if id := RequestIDFromContext(ctx); id != "" {
				span.SetAttributes(attribute.String(observability.AttrRequestID, id))
			}
			if key := TrackerKeyFromContext(ctx); key != "" {
				span.SetAttributes(attribute.String(observability.AttrTrackerKey, key))
			}
			observability.InjectHeaders(ctx, func(k, v string) {
				req = req.WithHeader(k, v)
			})

			raw := Normalize(next.RoundTrip(ctx, req, progress))

			span.SetAttributes(attribute.String(observability.AttrOutcome, string(raw.Outcome())))
			if meta, ok := ResponseMetadata(raw); ok {
				span.SetAttributes(attribute.Int(observability.AttrStatusCode, meta.StatusCode))
			}
			if raw.Outcome() != OutcomeGoodStatus {
				span.SetStatus(codes.Error, string(raw.Outcome()))
			}
			return raw
		})
	}
}

// MetricsMiddleware records in-flight count, latency and raw outcome of every
// round trip under the given client name.
func MetricsMiddleware(m *observability.Metrics, client string) Middleware {
	return func(next Transport) Transport {
		return TransportFunc(func(ctx context.Context, req Request, progress ProgressFunc) RawResponse {
			start := time.Now()
			m.RecordDispatchStart(ctx)
			raw := Normalize(next.RoundTrip(ctx, req, progress))
			m.RecordDispatchEnd(ctx, client, req.Method(), string(raw.Outcome()), time.Since(start))
			return raw
		})
	}
}
