// Package transporttest provides a scripted in-memory httpclient.Transport.
package transporttest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/kbukum/httpkit/httpclient"
)

// Responder produces the response for a matched request.
type Responder func(ctx context.Context, req httpclient.Request, progress httpclient.ProgressFunc) httpclient.RawResponse

type route struct {
	method  string
	url     string
	respond Responder
}

// Transport answers requests from registered routes. Requests that match no
// route get a 404 BadStatusResponse. It is safe for concurrent use.
type Transport struct {
	mu     sync.Mutex
	routes []route
	calls  []httpclient.Request
}

// New creates a Transport with no routes.
func New() *Transport {
	return &Transport{}
}

// On answers method and url with raw. An empty method matches any method.
// Later registrations take precedence.
func (t *Transport) On(method, url string, raw httpclient.RawResponse) *Transport {
	return t.OnFunc(method, url, func(context.Context, httpclient.Request, httpclient.ProgressFunc) httpclient.RawResponse {
		return raw
	})
}

// OnFunc answers method and url with fn.
func (t *Transport) OnFunc(method, url string, fn Responder) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = append(t.routes, route{method: method, url: url, respond: fn})
	return t
}

// RoundTrip implements httpclient.Transport.
func (t *Transport) RoundTrip(ctx context.Context, req httpclient.Request, progress httpclient.ProgressFunc) httpclient.RawResponse {
	t.mu.Lock()
	t.calls = append(t.calls, req)
	var respond Responder
	for i := len(t.routes) - 1; i >= 0; i-- {
		r := t.routes[i]
		if (r.method == "" || r.method == req.Method()) && r.url == req.URL() {
			respond = r.respond
			break
		}
	}
	t.mu.Unlock()

	if respond == nil {
		return Status(http.StatusNotFound, nil)
	}
	return respond(ctx, req, progress)
}

// Calls returns the requests received so far, in order.
func (t *Transport) Calls() []httpclient.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]httpclient.Request, len(t.calls))
	copy(out, t.calls)
	return out
}

// LastCall returns the most recent request.
func (t *Transport) LastCall() (httpclient.Request, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.calls) == 0 {
		return httpclient.Request{}, false
	}
	return t.calls[len(t.calls)-1], true
}

// Status builds a complete response with the standard reason phrase.
func Status(code int, body []byte, headers ...string) httpclient.RawResponse {
	meta := httpclient.Metadata{
		StatusCode: code,
		StatusText: http.StatusText(code),
		Headers:    make(map[string]string, len(headers)/2),
	}
	for i := 0; i+1 < len(headers); i += 2 {
		meta.Headers[headers[i]] = headers[i+1]
	}
	return httpclient.Classify(meta, body)
}

// JSON builds a complete response with a JSON body.
func JSON(code int, body string) httpclient.RawResponse {
	return Status(code, []byte(body), "Content-Type", "application/json")
}

// Text builds a complete response with a plain-text body.
func Text(code int, body string) httpclient.RawResponse {
	return Status(code, []byte(body), "Content-Type", "text/plain; charset=utf-8")
}

// Blocking returns a responder that waits until the call's context is done
// and then reports a network error.
func Blocking() Responder {
	return func(ctx context.Context, _ httpclient.Request, _ httpclient.ProgressFunc) httpclient.RawResponse {
		<-ctx.Done()
		return httpclient.NetworkErrorResponse{}
	}
}

// Delayed returns a responder that answers raw after d, or a network error
// if the call's context ends first.
func Delayed(d time.Duration, raw httpclient.RawResponse) Responder {
	return func(ctx context.Context, _ httpclient.Request, _ httpclient.ProgressFunc) httpclient.RawResponse {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return raw
		case <-ctx.Done():
			return httpclient.NetworkErrorResponse{}
		}
	}
}

// WithProgress returns a responder that reports the request body upload and
// the response download in chunk-sized steps before answering raw.
func WithProgress(chunk int64, raw httpclient.RawResponse) Responder {
	if chunk <= 0 {
		chunk = 1
	}
	return func(_ context.Context, req httpclient.Request, progress httpclient.ProgressFunc) httpclient.RawResponse {
		size := bodySize(req.Body())
		for _, n := range steps(size, chunk) {
			progress.Report(httpclient.Sending{Sent: n, Size: size})
		}
		var body []byte
		switch r := httpclient.Normalize(raw).(type) {
		case httpclient.GoodStatusResponse:
			body = r.Body
		case httpclient.BadStatusResponse:
			body = r.Body
		}
		total := int64(len(body))
		for _, n := range steps(total, chunk) {
			progress.Report(httpclient.Receiving{Received: n, Size: total, SizeKnown: true})
		}
		return raw
	}
}

// steps returns 0, chunk, 2*chunk, ... capped at and ending with total.
func steps(total, chunk int64) []int64 {
	var out []int64
	for n := int64(0); n < total; n += chunk {
		out = append(out, n)
	}
	return append(out, total)
}

func bodySize(b httpclient.Body) int64 {
	switch body := b.(type) {
	case httpclient.TextBody:
		return int64(len(body.Content))
	case httpclient.BytesBody:
		return int64(len(body.Data))
	default:
		return 0
	}
}

// File is an in-memory httpclient.File.
type File struct {
	name    string
	mime    string
	content []byte
}

// NewFile creates an in-memory file.
func NewFile(name, mime string, content []byte) *File {
	return &File{name: name, mime: mime, content: content}
}

func (f *File) Name() string { return f.name }

func (f *File) MIME() string { return f.mime }

func (f *File) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.content)), nil
}
