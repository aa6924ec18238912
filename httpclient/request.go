package httpclient

import (
	"net/http"
	"strings"
	"time"
)

// Header is one request header. Duplicates are allowed.
type Header struct {
	Name  string
	Value string
}

// Request describes one HTTP call. It is a value: configuration methods
// return an updated copy and never modify the receiver.
type Request struct {
	method      string
	url         string
	headers     []Header
	body        Body
	timeout     time.Duration
	credentials bool
}

// NewRequest creates a request with an arbitrary method. Headers are empty,
// the body is EmptyBody, there is no timeout and cross-origin credentials
// are off.
func NewRequest(method, url string) Request {
	return Request{method: method, url: url, body: EmptyBody{}}
}

// Get creates a GET request.
func Get(url string) Request { return NewRequest(http.MethodGet, url) }

// Post creates a POST request.
func Post(url string) Request { return NewRequest(http.MethodPost, url) }

// Put creates a PUT request.
func Put(url string) Request { return NewRequest(http.MethodPut, url) }

// Patch creates a PATCH request.
func Patch(url string) Request { return NewRequest(http.MethodPatch, url) }

// Delete creates a DELETE request.
func Delete(url string) Request { return NewRequest(http.MethodDelete, url) }

// Method returns the HTTP method.
func (r Request) Method() string { return r.method }

// URL returns the request target.
func (r Request) URL() string { return r.url }

// Body returns the body variant. A zero Request reports EmptyBody.
func (r Request) Body() Body {
	if r.body == nil {
		return EmptyBody{}
	}
	return r.body
}

// Timeout returns the client-side timeout; zero means none.
func (r Request) Timeout() time.Duration { return r.timeout }

// AllowsCrossOriginCredentials reports whether the request should carry
// cookies and credentials across origins.
func (r Request) AllowsCrossOriginCredentials() bool { return r.credentials }

// Headers returns a copy of the headers, most recently added first.
// Transports send all of them, duplicates included.
func (r Request) Headers() []Header {
	out := make([]Header, len(r.headers))
	copy(out, r.headers)
	return out
}

// HeaderValues returns every value of the named header, matched
// case-insensitively, in the same order as Headers.
func (r Request) HeaderValues(name string) []string {
	var values []string
	for _, h := range r.headers {
		if strings.EqualFold(h.Name, name) {
			values = append(values, h.Value)
		}
	}
	return values
}

// HasHeader reports whether a header with the given name is present.
func (r Request) HasHeader(name string) bool {
	return len(r.HeaderValues(name)) > 0
}

// ContentType returns the MIME type implied by the body, or "" for EmptyBody.
func (r Request) ContentType() string { return r.Body().ContentType() }

// String returns "METHOD URL".
func (r Request) String() string { return r.method + " " + r.url }

// WithURL returns a copy targeting url.
func (r Request) WithURL(url string) Request {
	r.url = url
	return r
}

// WithHeader returns a copy with the header added. Names and values are not
// validated; an illegal header is left for the transport to reject.
func (r Request) WithHeader(name, value string) Request {
	headers := make([]Header, 0, len(r.headers)+1)
	headers = append(headers, Header{Name: name, Value: value})
	r.headers = append(headers, r.headers...)
	return r
}

// withTrailingHeader adds a header behind every existing one. Used for
// client defaults so that per-request headers stay in front.
func (r Request) withTrailingHeader(name, value string) Request {
	headers := make([]Header, 0, len(r.headers)+1)
	headers = append(headers, r.headers...)
	r.headers = append(headers, Header{Name: name, Value: value})
	return r
}

// WithTimeout returns a copy with the given timeout. Zero removes it.
func (r Request) WithTimeout(d time.Duration) Request {
	r.timeout = d
	return r
}

// WithCredentialsAcrossOrigins returns a copy with the credentials flag set.
func (r Request) WithCredentialsAcrossOrigins(allow bool) Request {
	r.credentials = allow
	return r
}

// WithTextBody replaces the body with text of the given MIME type.
func (r Request) WithTextBody(mime, content string) Request {
	r.body = TextBody{MIME: mime, Content: content}
	return r
}

// WithJSONBody replaces the body with a value to be JSON-encoded by the transport.
func (r Request) WithJSONBody(value any) Request {
	r.body = JSONBody{Value: value}
	return r
}

// WithFileBody replaces the body with a file.
func (r Request) WithFileBody(file File) Request {
	r.body = FileBody{File: file}
	return r
}

// WithBytesBody replaces the body with raw bytes. data is copied.
func (r Request) WithBytesBody(mime string, data []byte) Request {
	r.body = BytesBody{MIME: mime, Data: cloneBytes(data)}
	return r
}

// WithMultipartBody replaces the body with multipart/form-data parts.
// The parts slice is copied.
func (r Request) WithMultipartBody(parts ...Part) Request {
	cp := make([]Part, len(parts))
	copy(cp, parts)
	r.body = MultipartBody{Parts: cp}
	return r
}

// WithEmptyBody removes the body.
func (r Request) WithEmptyBody() Request {
	r.body = EmptyBody{}
	return r
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
