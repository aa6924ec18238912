package httpclient

import (
	"io"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"
)

type memFile struct{ name, mime string }

func (f memFile) Name() string { return f.name }
func (f memFile) MIME() string { return f.mime }
func (f memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func TestMethodConstructors(t *testing.T) {
	tests := []struct {
		req  Request
		want string
	}{
		{Get("/a"), http.MethodGet},
		{Post("/a"), http.MethodPost},
		{Put("/a"), http.MethodPut},
		{Patch("/a"), http.MethodPatch},
		{Delete("/a"), http.MethodDelete},
		{NewRequest("PROPFIND", "/a"), "PROPFIND"},
	}
	for _, tt := range tests {
		if got := tt.req.Method(); got != tt.want {
			t.Errorf("Method() = %q, want %q", got, tt.want)
		}
		if tt.req.URL() != "/a" {
			t.Errorf("URL() = %q", tt.req.URL())
		}
		if len(tt.req.Headers()) != 0 {
			t.Errorf("expected no headers, got %v", tt.req.Headers())
		}
		if _, ok := tt.req.Body().(EmptyBody); !ok {
			t.Errorf("expected EmptyBody, got %T", tt.req.Body())
		}
		if tt.req.Timeout() != 0 {
			t.Errorf("expected no timeout, got %v", tt.req.Timeout())
		}
		if tt.req.AllowsCrossOriginCredentials() {
			t.Error("expected credentials off")
		}
	}
}

func TestZeroRequestBodyIsEmpty(t *testing.T) {
	var r Request
	if _, ok := r.Body().(EmptyBody); !ok {
		t.Errorf("expected EmptyBody, got %T", r.Body())
	}
}

func TestWithHeaderDoesNotMutate(t *testing.T) {
	base := Get("/users/alice").WithHeader("Accept", "application/json")
	a := base.WithHeader("X-A", "1")
	b := base.WithHeader("X-B", "2")

	if got := len(base.Headers()); got != 1 {
		t.Fatalf("base should keep 1 header, got %d", got)
	}
	if a.HasHeader("X-B") || b.HasHeader("X-A") {
		t.Error("derived requests share header storage")
	}
	want := []Header{{"X-A", "1"}, {"Accept", "application/json"}}
	if got := a.Headers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Headers() = %v, want %v", got, want)
	}
}

func TestHeadersReturnsCopy(t *testing.T) {
	r := Get("/").WithHeader("A", "1")
	h := r.Headers()
	h[0].Value = "changed"
	if r.HeaderValues("A")[0] != "1" {
		t.Error("Headers() exposed internal storage")
	}
}

func TestDuplicateHeaders(t *testing.T) {
	r := Get("/").WithHeader("Accept", "text/plain").WithHeader("accept", "application/json")
	got := r.HeaderValues("ACCEPT")
	want := []string{"application/json", "text/plain"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HeaderValues() = %v, want %v", got, want)
	}
}

func TestHeadersAreNotValidated(t *testing.T) {
	r := Get("/").WithHeader("bad header\n", "\x00")
	if !r.HasHeader("bad header\n") {
		t.Error("header should be passed through unchanged")
	}
}

func TestLastBodyWins(t *testing.T) {
	r := Post("/upload").
		WithTextBody("text/plain", "hello").
		WithJSONBody(map[string]int{"a": 1}).
		WithBytesBody("application/octet-stream", []byte{1, 2})

	body, ok := r.Body().(BytesBody)
	if !ok {
		t.Fatalf("expected BytesBody, got %T", r.Body())
	}
	if body.MIME != "application/octet-stream" || !reflect.DeepEqual(body.Data, []byte{1, 2}) {
		t.Errorf("unexpected body %+v", body)
	}
	if r.ContentType() != "application/octet-stream" {
		t.Errorf("ContentType() = %q", r.ContentType())
	}
}

func TestWithBytesBodyCopiesData(t *testing.T) {
	data := []byte("abc")
	r := Post("/").WithBytesBody("application/octet-stream", data)
	data[0] = 'x'
	if got := r.Body().(BytesBody).Data; string(got) != "abc" {
		t.Errorf("body aliased caller slice: %q", got)
	}
}

func TestWithMultipartBody(t *testing.T) {
	f := memFile{name: "a.png", mime: "image/png"}
	parts := []Part{
		NewTextPart("title", "cat"),
		NewFilePart("image", f),
		NewBytesPart("raw", "application/octet-stream", []byte{0xff}),
	}
	r := Post("/upload").WithMultipartBody(parts...)
	parts[0] = NewTextPart("title", "dog")

	body, ok := r.Body().(MultipartBody)
	if !ok {
		t.Fatalf("expected MultipartBody, got %T", r.Body())
	}
	if len(body.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(body.Parts))
	}
	if p := body.Parts[0].(TextPart); p.Value != "cat" {
		t.Errorf("parts aliased caller slice: %+v", p)
	}
	names := []string{body.Parts[0].PartName(), body.Parts[1].PartName(), body.Parts[2].PartName()}
	if !reflect.DeepEqual(names, []string{"title", "image", "raw"}) {
		t.Errorf("part names = %v", names)
	}
	if r.ContentType() != "multipart/form-data" {
		t.Errorf("ContentType() = %q", r.ContentType())
	}
}

func TestBodyKind(t *testing.T) {
	tests := []struct {
		body Body
		want string
	}{
		{EmptyBody{}, "empty"},
		{TextBody{MIME: "text/plain", Content: "x"}, "text"},
		{JSONBody{Value: 1}, "json"},
		{FileBody{File: memFile{}}, "file"},
		{BytesBody{}, "bytes"},
		{MultipartBody{}, "multipart"},
		{&EmptyBody{}, "empty"},
		{&TextBody{MIME: "text/plain", Content: "x"}, "text"},
		{&JSONBody{Value: 1}, "json"},
		{&FileBody{File: memFile{}}, "file"},
		{&BytesBody{}, "bytes"},
		{(*MultipartBody)(nil), "multipart"},
	}
	for _, tt := range tests {
		if got := BodyKind(tt.body); got != tt.want {
			t.Errorf("BodyKind(%T) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestFileBodyWithoutFile(t *testing.T) {
	r := Post("/upload").WithFileBody(nil)
	if got := r.ContentType(); got != "" {
		t.Errorf("ContentType() = %q, want empty", got)
	}
	if got := BodyKind(r.Body()); got != "file" {
		t.Errorf("BodyKind() = %q", got)
	}
}

func TestRequestOptions(t *testing.T) {
	r := Get("/slow").WithTimeout(2 * time.Second).WithCredentialsAcrossOrigins(true)
	if r.Timeout() != 2*time.Second {
		t.Errorf("Timeout() = %v", r.Timeout())
	}
	if !r.AllowsCrossOriginCredentials() {
		t.Error("expected credentials on")
	}
	if r.String() != "GET /slow" {
		t.Errorf("String() = %q", r.String())
	}
	if r.WithTimeout(0).Timeout() != 0 {
		t.Error("WithTimeout(0) should clear the timeout")
	}
}
