package httpclient

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/httpkit/errors"
	"github.com/kbukum/httpkit/logger"
	"github.com/kbukum/httpkit/observability"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("httpclient: client closed")

var errRequestTimeout = errors.New("httpclient: request timeout")

// Client dispatches Requests through a Transport, applying configuration
// defaults, and resolves the results.
type Client struct {
	cfg       Config
	transport Transport
	tracker   *Tracker
	log       *logger.Logger
	metrics   *observability.Metrics
	closed    atomic.Bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for resolution failures. Without it the
// client uses the logger registered under Config.Name.
func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// WithMiddleware wraps the transport. The first middleware is the outermost.
func WithMiddleware(mws ...Middleware) ClientOption {
	return func(c *Client) { c.transport = Chain(c.transport, mws...) }
}

// WithMetrics records resolved problems by kind.
func WithMetrics(m *observability.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client for the given configuration and transport.
func New(cfg Config, transport Transport, opts ...ClientOption) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, apperrors.MissingField("transport")
	}

	c := &Client{
		cfg:       cfg,
		transport: transport,
		tracker:   NewTracker(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get(cfg.Name)
	} else {
		c.log = c.log.WithComponent(cfg.Name)
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// Tracker returns the registry of tracked calls.
func (c *Client) Tracker() *Tracker { return c.tracker }

// Send dispatches req and returns the raw response. The error is non-nil
// only when ctx is cancelled, the call is cancelled through its tracker
// key, or the client is closed. A request timeout is reported as
// TimeoutResponse.
func (c *Client) Send(ctx context.Context, req Request) (RawResponse, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	req, id := c.prepare(req)
	return c.roundTrip(ContextWithRequestID(ctx, id), req, nil)
}

// Cancel cancels the tracked call registered under key. It reports whether
// a call was in flight.
func (c *Client) Cancel(key string) bool {
	return c.tracker.Cancel(key)
}

// Close cancels every tracked call and rejects further calls.
func (c *Client) Close() error {
	c.closed.Store(true)
	c.tracker.CancelAll()
	return nil
}

// Do sends req and resolves the response with r.
func Do[T, E any](ctx context.Context, c *Client, req Request, r Resolver[T, E]) (T, error) {
	return do(ctx, c, req, r, nil)
}

// Go starts Do in a new goroutine.
func Go[T, E any](ctx context.Context, c *Client, req Request, r Resolver[T, E]) *Task[T] {
	return Start(func() (T, error) { return Do(ctx, c, req, r) })
}

// DoTracked sends req under a tracker key and resolves the response with r.
// A call already in flight under key is cancelled first. progress, which may
// be nil, receives the transport's Sending and Receiving events. A call that
// is superseded or cancelled returns ErrCanceled.
func DoTracked[T, E any](ctx context.Context, c *Client, key string, req Request, r Resolver[T, E], progress ProgressFunc) (T, error) {
	if c.closed.Load() {
		var zero T
		return zero, ErrClosed
	}
	ctx, release := c.tracker.Track(ctx, key)
	defer release()
	return do(ContextWithTrackerKey(ctx, key), c, req, r, progress)
}

// GoTracked starts DoTracked in a new goroutine. The key is registered
// before GoTracked returns, so a following Cancel(key) always applies.
func GoTracked[T, E any](ctx context.Context, c *Client, key string, req Request, r Resolver[T, E], progress ProgressFunc) *Task[T] {
	if c.closed.Load() {
		return Start(func() (T, error) {
			var zero T
			return zero, ErrClosed
		})
	}
	ctx, release := c.tracker.Track(ctx, key)
	return Start(func() (T, error) {
		defer release()
		return do(ContextWithTrackerKey(ctx, key), c, req, r, progress)
	})
}

func do[T, E any](ctx context.Context, c *Client, req Request, r Resolver[T, E], progress ProgressFunc) (T, error) {
	var zero T
	// A call cancelled by Close reports its cause rather than ErrClosed.
	if ctx.Err() != nil {
		return zero, context.Cause(ctx)
	}
	if c.closed.Load() {
		return zero, ErrClosed
	}
	sent, id := c.prepare(req)
	ctx = ContextWithRequestID(ctx, id)
	raw, err := c.roundTrip(ctx, sent, progress)
	if err != nil {
		return zero, err
	}
	v, err := r.Resolve(sent, raw)
	if err != nil {
		c.recordFailure(ctx, sent, err)
	}
	return v, err
}

// roundTrip enforces the request timeout around the transport call.
func (c *Client) roundTrip(ctx context.Context, req Request, progress ProgressFunc) (RawResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, context.Cause(ctx)
	}
	if d := req.Timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, d, errRequestTimeout)
		defer cancel()
	}

	raw := c.transport.RoundTrip(ctx, req, progress)
	if ctx.Err() != nil {
		cause := context.Cause(ctx)
		if errors.Is(cause, errRequestTimeout) {
			return TimeoutResponse{}, nil
		}
		return nil, cause
	}
	if raw == nil {
		panic("httpclient: transport returned no response")
	}
	return Normalize(raw), nil
}

// prepare applies the client defaults to req and returns it together with
// the request id of the call.
func (c *Client) prepare(req Request) (Request, string) {
	if c.cfg.BaseURL != "" && isRootRelative(req.URL()) {
		req = req.WithURL(strings.TrimRight(c.cfg.BaseURL, "/") + req.URL())
	}

	names := make([]string, 0, len(c.cfg.Headers))
	for name := range c.cfg.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !req.HasHeader(name) {
			req = req.withTrailingHeader(name, c.cfg.Headers[name])
		}
	}

	if c.cfg.UserAgent != "" && !req.HasHeader("User-Agent") {
		req = req.withTrailingHeader("User-Agent", c.cfg.UserAgent)
	}

	if c.cfg.AllowCrossOriginCredentials && !req.AllowsCrossOriginCredentials() {
		req = req.WithCredentialsAcrossOrigins(true)
	}
	if req.Timeout() == 0 && c.cfg.Timeout > 0 {
		req = req.WithTimeout(c.cfg.Timeout)
	}

	header := c.cfg.RequestIDHeader
	if header == "" {
		return req, uuid.NewString()
	}
	if values := req.HeaderValues(header); len(values) > 0 {
		return req, values[0]
	}
	id := uuid.NewString()
	return req.WithHeader(header, id), id
}

func (c *Client) recordFailure(ctx context.Context, req Request, err error) {
	kind, ok := KindOf(err)
	if !ok {
		return
	}
	fields := logger.Fields(
		logger.FieldMethod, req.Method(),
		logger.FieldURL, req.URL(),
		logger.FieldOutcome, kind.String(),
		logger.FieldRequestID, RequestIDFromContext(ctx),
	)
	if code := StatusCode(err); code != 0 {
		fields[logger.FieldStatusCode] = code
	}
	c.log.Warn("request failed", logger.MergeWithError(fields, err))
	if c.metrics != nil {
		c.metrics.RecordProblem(ctx, c.cfg.Name, kind.String())
	}
}

func isRootRelative(url string) bool {
	return strings.HasPrefix(url, "/") && !strings.HasPrefix(url, "//")
}
