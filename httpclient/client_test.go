package httpclient_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/httpclient/decode"
	"github.com/kbukum/httpkit/httpclient/transporttest"
	"github.com/kbukum/httpkit/logger"
)

type user struct {
	Login     string `json:"login" validate:"required"`
	AvatarURL string `json:"avatar_url"`
}

type githubError struct {
	Message string `json:"message"`
}

func newClient(t *testing.T, cfg httpclient.Config, tr httpclient.Transport, opts ...httpclient.ClientOption) *httpclient.Client {
	t.Helper()
	c, err := httpclient.New(cfg, tr, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func userResolver() httpclient.Resolver[user, githubError] {
	return httpclient.WithRequest(decode.JSON[user](), httpclient.Static(decode.JSON[githubError]()))
}

func TestClient_Do_GoodStatus(t *testing.T) {
	tr := transporttest.New().On("GET", "https://api.github.com/users/alice",
		transporttest.JSON(200, `{"login":"alice","avatar_url":"http://x/a.png"}`))
	c := newClient(t, httpclient.Config{BaseURL: "https://api.github.com/"}, tr)

	u, err := httpclient.Do(context.Background(), c, httpclient.Get("/users/alice"), userResolver())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Login != "alice" || u.AvatarURL != "http://x/a.png" {
		t.Errorf("unexpected user %+v", u)
	}
}

func TestClient_Do_BadStatus(t *testing.T) {
	tr := transporttest.New().On("GET", "https://api.github.com/users/nobody",
		transporttest.JSON(404, `{"message":"Not Found"}`))
	c := newClient(t, httpclient.Config{BaseURL: "https://api.github.com"}, tr)

	_, err := httpclient.Do(context.Background(), c, httpclient.Get("/users/nobody"), userResolver())
	var e *httpclient.Error[githubError]
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %v", err)
	}
	body, ok := e.ErrorBody()
	if !ok || body.Message != "Not Found" {
		t.Errorf("ErrorBody() = %+v, %v", body, ok)
	}
	if e.Request == nil || e.Request.URL() != "https://api.github.com/users/nobody" {
		t.Errorf("request identity = %v", e.Request)
	}
}

func TestClient_AppliesDefaults(t *testing.T) {
	tr := transporttest.New().On("", "https://api.example.com/items", transporttest.Status(204, nil))
	c := newClient(t, httpclient.Config{
		BaseURL:                     "https://api.example.com",
		Timeout:                     3 * time.Second,
		Headers:                     map[string]string{"Accept": "application/json", "User-Agent": "httpkit"},
		AllowCrossOriginCredentials: true,
		RequestIDHeader:             "X-Request-ID",
	}, tr)

	req := httpclient.Get("/items").WithHeader("Accept", "text/csv")
	if _, err := c.Send(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sent, ok := tr.LastCall()
	if !ok {
		t.Fatal("transport was not called")
	}
	if got := sent.HeaderValues("Accept"); len(got) != 1 || got[0] != "text/csv" {
		t.Errorf("request header should win over default, got %v", got)
	}
	if got := sent.HeaderValues("User-Agent"); len(got) != 1 || got[0] != "httpkit" {
		t.Errorf("default header missing, got %v", got)
	}
	if ids := sent.HeaderValues("X-Request-ID"); len(ids) != 1 || len(ids[0]) != 36 {
		t.Errorf("expected generated request id, got %v", ids)
	}
	if sent.Timeout() != 3*time.Second {
		t.Errorf("Timeout() = %v", sent.Timeout())
	}
	if !sent.AllowsCrossOriginCredentials() {
		t.Error("expected credentials from config")
	}
	if req.HasHeader("User-Agent") {
		t.Error("Send mutated the caller's request")
	}
}

func TestClient_AbsoluteURLUntouched(t *testing.T) {
	tr := transporttest.New()
	c := newClient(t, httpclient.Config{BaseURL: "https://api.example.com"}, tr)

	for _, url := range []string{"https://other.example.com/x", "//cdn.example.com/y", "relative/z"} {
		_, _ = c.Send(context.Background(), httpclient.Get(url))
		sent, _ := tr.LastCall()
		if sent.URL() != url {
			t.Errorf("URL rewritten: %q -> %q", url, sent.URL())
		}
	}
}

func TestClient_UnmatchedRouteIsNotFound(t *testing.T) {
	c := newClient(t, httpclient.Config{}, transporttest.New())
	_, err := httpclient.Do(context.Background(), c, httpclient.Get("/missing"), httpclient.Simple(decode.JSON[user]()))
	if httpclient.StatusCode(err) != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestClient_TimeoutMapsToTimeoutResponse(t *testing.T) {
	tr := transporttest.New().OnFunc("GET", "/slow", transporttest.Blocking())
	c := newClient(t, httpclient.Config{}, tr)

	raw, err := c.Send(context.Background(), httpclient.Get("/slow").WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := raw.(httpclient.TimeoutResponse); !ok {
		t.Fatalf("expected TimeoutResponse, got %T", raw)
	}

	_, err = httpclient.Do(context.Background(), c, httpclient.Get("/slow").WithTimeout(20*time.Millisecond), userResolver())
	if !httpclient.IsTimeout(err) {
		t.Errorf("expected timeout, got %v", err)
	}
}

func TestClient_CallerCancellation(t *testing.T) {
	tr := transporttest.New().OnFunc("GET", "/slow", transporttest.Blocking())
	c := newClient(t, httpclient.Config{}, tr)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Send(ctx, httpclient.Get("/slow").WithTimeout(time.Minute))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected caller deadline, got %v", err)
	}
}

func TestClient_DoTrackedSupersedes(t *testing.T) {
	tr := transporttest.New().
		OnFunc("GET", "/search?q=a", transporttest.Blocking()).
		On("GET", "/search?q=ab", transporttest.JSON(200, `{"login":"ab"}`))
	c := newClient(t, httpclient.Config{}, tr)
	r := httpclient.Simple(decode.JSON[user]())

	first := httpclient.GoTracked(context.Background(), c, "search", httpclient.Get("/search?q=a"), r, nil)
	second := httpclient.GoTracked(context.Background(), c, "search", httpclient.Get("/search?q=ab"), r, nil)

	if _, err := first.Await(context.Background()); !errors.Is(err, httpclient.ErrCanceled) {
		t.Errorf("expected superseded call to return ErrCanceled, got %v", err)
	}
	u, err := second.Await(context.Background())
	if err != nil || u.Login != "ab" {
		t.Errorf("second call = %+v, %v", u, err)
	}
}

func TestClient_CancelOutOfBand(t *testing.T) {
	tr := transporttest.New().OnFunc("POST", "/upload", transporttest.Blocking())
	c := newClient(t, httpclient.Config{}, tr)

	task := httpclient.GoTracked(context.Background(), c, "upload", httpclient.Post("/upload"), httpclient.Simple(httpclient.Ignore[struct{}]()), nil)
	if !c.Cancel("upload") {
		t.Fatal("expected an in-flight call")
	}
	if _, err := task.Await(context.Background()); !errors.Is(err, httpclient.ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", err)
	}
	if c.Cancel("upload") {
		t.Error("key should be free after cancellation")
	}
}

func TestClient_DoTrackedProgress(t *testing.T) {
	tr := transporttest.New().OnFunc("POST", "/upload",
		transporttest.WithProgress(4, transporttest.Text(200, "0123456789")))
	c := newClient(t, httpclient.Config{}, tr)

	var events []httpclient.Progress
	got, err := httpclient.DoTracked(context.Background(), c, httpclient.NewTrackerKey(),
		httpclient.Post("/upload").WithTextBody("text/plain", "abcdef"),
		httpclient.Simple(httpclient.Text()),
		func(p httpclient.Progress) { events = append(events, p) },
	)
	if err != nil || got != "0123456789" {
		t.Fatalf("DoTracked() = %q, %v", got, err)
	}
	last := events[len(events)-1]
	if r, ok := last.(httpclient.Receiving); !ok || r.Fraction() != 1 {
		t.Errorf("last event = %+v", last)
	}
	var sending int
	for _, e := range events {
		if _, ok := e.(httpclient.Sending); ok {
			sending++
		}
	}
	if sending != 3 {
		t.Errorf("expected 3 sending events for 6 bytes in 4-byte chunks, got %d", sending)
	}
	if c.Tracker().Len() != 0 {
		t.Error("finished call still tracked")
	}
}

func TestClient_GoAndRace(t *testing.T) {
	tr := transporttest.New().
		OnFunc("GET", "/mirror/slow", transporttest.Delayed(time.Second, transporttest.JSON(200, `{"login":"slow"}`))).
		On("GET", "/mirror/fast", transporttest.JSON(200, `{"login":"fast"}`))
	c := newClient(t, httpclient.Config{}, tr)
	r := httpclient.Simple(decode.JSON[user]())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	u, err := httpclient.Race(ctx,
		httpclient.Go(ctx, c, httpclient.Get("/mirror/slow"), r),
		httpclient.Go(ctx, c, httpclient.Get("/mirror/fast"), r),
	)
	if err != nil || u.Login != "fast" {
		t.Errorf("Race() = %+v, %v", u, err)
	}
}

func TestDoAll(t *testing.T) {
	tr := transporttest.New().
		OnFunc("GET", "/users/slow", transporttest.Delayed(20*time.Millisecond, transporttest.JSON(200, `{"login":"slow"}`))).
		On("GET", "/users/fast", transporttest.JSON(200, `{"login":"fast"}`))
	c := newClient(t, httpclient.Config{}, tr)

	got, err := httpclient.DoAll(context.Background(), c,
		[]httpclient.Request{httpclient.Get("/users/slow"), httpclient.Get("/users/fast")},
		httpclient.Simple(decode.JSON[user]()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Login != "slow" || got[1].Login != "fast" {
		t.Errorf("DoAll() = %+v", got)
	}
}

func TestDoAll_FirstFailureCancelsRest(t *testing.T) {
	tr := transporttest.New().OnFunc("GET", "/stream", transporttest.Blocking())
	c := newClient(t, httpclient.Config{}, tr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := httpclient.DoAll(ctx, c,
		[]httpclient.Request{httpclient.Get("/stream"), httpclient.Get("/missing")},
		httpclient.Simple(httpclient.Text()))
	if !httpclient.IsBadStatus(err) || httpclient.StatusCode(err) != 404 {
		t.Fatalf("expected 404 bad status, got %v", err)
	}
	if ctx.Err() != nil {
		t.Error("blocking call was not cancelled by the failure")
	}
}

func TestClient_Close(t *testing.T) {
	tr := transporttest.New().OnFunc("GET", "/stream", transporttest.Blocking())
	c, err := httpclient.New(httpclient.Config{}, tr)
	if err != nil {
		t.Fatal(err)
	}
	task := httpclient.GoTracked(context.Background(), c, "stream", httpclient.Get("/stream"), httpclient.Simple(httpclient.Text()), nil)
	_ = c.Close()

	if _, err := task.Await(context.Background()); !errors.Is(err, httpclient.ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", err)
	}
	if _, err := c.Send(context.Background(), httpclient.Get("/stream")); !errors.Is(err, httpclient.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestClient_CloseCancelsEveryTrackedCall(t *testing.T) {
	tr := transporttest.New().OnFunc("GET", "/stream", transporttest.Blocking())
	c := newClient(t, httpclient.Config{}, tr)
	r := httpclient.Simple(httpclient.Text())

	var tasks []*httpclient.Task[string]
	for _, key := range []string{"a", "b", "c"} {
		tasks = append(tasks, httpclient.GoTracked(context.Background(), c, key, httpclient.Get("/stream"), r, nil))
	}
	_ = c.Close()

	for i, task := range tasks {
		if _, err := task.Await(context.Background()); !errors.Is(err, httpclient.ErrCanceled) {
			t.Errorf("task %d: expected ErrCanceled, got %v", i, err)
		}
	}
	if _, err := httpclient.DoTracked(context.Background(), c, "a", httpclient.Get("/stream"), r, nil); !errors.Is(err, httpclient.ErrClosed) {
		t.Errorf("DoTracked after Close: expected ErrClosed, got %v", err)
	}
	late := httpclient.GoTracked(context.Background(), c, "b", httpclient.Get("/stream"), r, nil)
	if _, err := late.Await(context.Background()); !errors.Is(err, httpclient.ErrClosed) {
		t.Errorf("GoTracked after Close: expected ErrClosed, got %v", err)
	}
	if n := c.Tracker().Len(); n != 0 {
		t.Errorf("expected empty tracker, got %d entries", n)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := httpclient.New(httpclient.Config{BaseURL: "not a url"}, transporttest.New()); err == nil {
		t.Error("expected invalid base url error")
	}
	if _, err := httpclient.New(httpclient.Config{Timeout: -time.Second}, transporttest.New()); err == nil {
		t.Error("expected negative timeout error")
	}
	if _, err := httpclient.New(httpclient.Config{}, nil); err == nil {
		t.Error("expected missing transport error")
	}
	c, err := httpclient.New(httpclient.Config{}, transporttest.New())
	if err != nil {
		t.Fatal(err)
	}
	if c.Config().Name != "httpclient" {
		t.Errorf("default name = %q", c.Config().Name)
	}
	if !strings.HasPrefix(c.Config().UserAgent, "httpkit/") {
		t.Errorf("default user agent = %q", c.Config().UserAgent)
	}
}

func TestClient_UsesRegisteredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.Register("billing", logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "test", &buf))
	t.Cleanup(func() { logger.Register("billing", nil) })

	tr := transporttest.New().On("GET", "/down", httpclient.NetworkErrorResponse{})
	c := newClient(t, httpclient.Config{Name: "billing"}, tr)

	if _, err := httpclient.Do(context.Background(), c, httpclient.Get("/down"), userResolver()); !httpclient.IsNetworkError(err) {
		t.Fatalf("expected network error, got %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"message":"request failed"`, `"component":"billing"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestClient_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	tr := transporttest.New().On("GET", "/down", httpclient.NetworkErrorResponse{})
	c := newClient(t, httpclient.Config{Name: "github"}, tr,
		httpclient.WithLogger(log),
		httpclient.WithMiddleware(httpclient.LoggingMiddleware(log)),
	)

	_, err := httpclient.Do(context.Background(), c, httpclient.Get("/down"), userResolver())
	if !httpclient.IsNetworkError(err) {
		t.Fatalf("expected network error, got %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"outcome":"network_error"`, `"request_id"`, `"message":"request failed"`, `"component":"github"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
