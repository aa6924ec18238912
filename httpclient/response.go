package httpclient

import (
	"fmt"
	"strings"
)

// Metadata describes a response the server actually sent.
type Metadata struct {
	// URL is the final URL, after redirects.
	URL string
	// StatusCode is the HTTP status code.
	StatusCode int
	// StatusText is the reason phrase, e.g. "Not Found".
	StatusText string
	// Headers are the response headers. Repeated headers are joined with ", ".
	Headers map[string]string
}

// Header returns the value of the named header, matched case-insensitively.
func (m Metadata) Header(name string) string {
	if v, ok := m.Headers[name]; ok {
		return v
	}
	for k, v := range m.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// ContentType returns the media type of the response without parameters.
func (m Metadata) ContentType() string {
	ct := m.Header("Content-Type")
	if i := strings.IndexByte(ct, ';'); i != -1 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// Outcome names the variant of a RawResponse.
type Outcome string

const (
	OutcomeBadURL       Outcome = "bad_url"
	OutcomeTimeout      Outcome = "timeout"
	OutcomeNetworkError Outcome = "network_error"
	OutcomeBadStatus    Outcome = "bad_status"
	OutcomeGoodStatus   Outcome = "good_status"
)

// RawResponse is what a Transport yields for one Request, before any
// decoding. It is exactly one of BadURLResponse, TimeoutResponse,
// NetworkErrorResponse, BadStatusResponse or GoodStatusResponse.
type RawResponse interface {
	Outcome() Outcome
	rawResponse()
}

// BadURLResponse reports a request target that could not be used.
type BadURLResponse struct {
	URL string
}

// TimeoutResponse reports that the request timeout elapsed.
type TimeoutResponse struct{}

// NetworkErrorResponse reports a connectivity failure: DNS, refused or
// reset connections, or being offline.
type NetworkErrorResponse struct{}

// BadStatusResponse is a complete response outside the 2xx range.
type BadStatusResponse struct {
	Metadata Metadata
	Body     []byte
}

// GoodStatusResponse is a complete 2xx response.
type GoodStatusResponse struct {
	Metadata Metadata
	Body     []byte
}

func (BadURLResponse) Outcome() Outcome       { return OutcomeBadURL }
func (TimeoutResponse) Outcome() Outcome      { return OutcomeTimeout }
func (NetworkErrorResponse) Outcome() Outcome { return OutcomeNetworkError }
func (BadStatusResponse) Outcome() Outcome    { return OutcomeBadStatus }
func (GoodStatusResponse) Outcome() Outcome   { return OutcomeGoodStatus }
func (BadURLResponse) rawResponse()           {}
func (TimeoutResponse) rawResponse()          {}
func (NetworkErrorResponse) rawResponse()     {}
func (BadStatusResponse) rawResponse()        {}
func (GoodStatusResponse) rawResponse()       {}

// Classify builds the status variant for a complete response: 2xx codes are
// GoodStatusResponse, everything else BadStatusResponse.
func Classify(meta Metadata, body []byte) RawResponse {
	if meta.StatusCode >= 200 && meta.StatusCode < 300 {
		return GoodStatusResponse{Metadata: meta, Body: body}
	}
	return BadStatusResponse{Metadata: meta, Body: body}
}

// Normalize returns the value form of a pointer variant, so that
// &GoodStatusResponse{...} classifies like GoodStatusResponse{...}. A nil
// pointer becomes the zero variant. Value forms are returned unchanged.
func Normalize(raw RawResponse) RawResponse {
	switch r := raw.(type) {
	case *BadURLResponse:
		return deref(r)
	case *TimeoutResponse:
		return TimeoutResponse{}
	case *NetworkErrorResponse:
		return NetworkErrorResponse{}
	case *BadStatusResponse:
		return deref(r)
	case *GoodStatusResponse:
		return deref(r)
	default:
		return raw
	}
}

func deref[V any](p *V) V {
	if p == nil {
		var zero V
		return zero
	}
	return *p
}

// ResponseMetadata returns the metadata of a status variant.
func ResponseMetadata(raw RawResponse) (Metadata, bool) {
	switch r := Normalize(raw).(type) {
	case BadStatusResponse:
		return r.Metadata, true
	case GoodStatusResponse:
		return r.Metadata, true
	default:
		return Metadata{}, false
	}
}

func unreachable(what string, v any) string {
	return fmt.Sprintf("httpclient: unreachable %s %T", what, v)
}
