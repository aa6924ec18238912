package httpclient

import (
	"errors"
	"fmt"
)

// Kind classifies a resolved failure.
type Kind int

const (
	// KindBadURL indicates a malformed request target. Never retryable
	// without fixing the input.
	KindBadURL Kind = iota
	// KindTimeout indicates the client-side deadline elapsed.
	KindTimeout
	// KindNetworkError indicates a connectivity failure.
	KindNetworkError
	// KindBadStatus indicates a response outside the success range.
	KindBadStatus
	// KindBadBody indicates a payload that did not match the expected shape.
	KindBadBody
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBadURL:
		return "bad_url"
	case KindTimeout:
		return "timeout"
	case KindNetworkError:
		return "network_error"
	case KindBadStatus:
		return "bad_status"
	case KindBadBody:
		return "bad_body"
	default:
		return "unknown"
	}
}

// Retryable reports whether resending the same request may succeed.
// BadStatus is false because only the caller can judge status semantics.
func (k Kind) Retryable() bool {
	return k == KindTimeout || k == KindNetworkError
}

// Problem is the failure inside an Error: BadURL, Timeout, NetworkError,
// BadStatus[E] or BadBody.
type Problem interface {
	Kind() Kind
	problem()
}

// BadURL carries the unusable request target.
type BadURL struct {
	URL string
}

// Timeout means the request took longer than its timeout.
type Timeout struct{}

// NetworkError means the server could not be reached.
type NetworkError struct{}

// BadStatus carries the metadata of a non-2xx response and its decoded body.
type BadStatus[E any] struct {
	Metadata Metadata
	Body     E
}

// BadBody carries the metadata of a response whose body failed to decode and
// the decoder's message.
type BadBody struct {
	Metadata Metadata
	Message  string
}

func (BadURL) Kind() Kind       { return KindBadURL }
func (Timeout) Kind() Kind      { return KindTimeout }
func (NetworkError) Kind() Kind { return KindNetworkError }
func (BadStatus[E]) Kind() Kind { return KindBadStatus }
func (BadBody) Kind() Kind      { return KindBadBody }
func (BadURL) problem()         {}
func (Timeout) problem()        {}
func (NetworkError) problem()   {}
func (BadStatus[E]) problem()   {}
func (BadBody) problem()        {}

// Error is a resolved failure. E is the type of the decoded error body
// carried by BadStatus. Request is nil unless the resolver keeps request
// identity.
type Error[E any] struct {
	Request *Request
	Problem Problem
}

// normalizeProblem maps pointer variants to their value forms.
func normalizeProblem[E any](p Problem) Problem {
	switch v := p.(type) {
	case *BadURL:
		return deref(v)
	case *Timeout:
		return Timeout{}
	case *NetworkError:
		return NetworkError{}
	case *BadStatus[E]:
		return deref(v)
	case *BadBody:
		return deref(v)
	default:
		return p
	}
}

// Kind returns the kind of the problem.
func (e *Error[E]) Kind() Kind { return normalizeProblem[E](e.Problem).Kind() }

// Metadata returns the response metadata for BadStatus and BadBody.
func (e *Error[E]) Metadata() (Metadata, bool) {
	switch p := normalizeProblem[E](e.Problem).(type) {
	case BadStatus[E]:
		return p.Metadata, true
	case BadBody:
		return p.Metadata, true
	default:
		return Metadata{}, false
	}
}

// StatusCode returns the response status code, or 0 when no response was received.
func (e *Error[E]) StatusCode() int {
	meta, _ := e.Metadata()
	return meta.StatusCode
}

// ErrorBody returns the decoded error body of a BadStatus problem.
func (e *Error[E]) ErrorBody() (E, bool) {
	if p, ok := normalizeProblem[E](e.Problem).(BadStatus[E]); ok {
		return p.Body, true
	}
	var zero E
	return zero, false
}

// Error implements the error interface.
func (e *Error[E]) Error() string {
	prefix := "httpclient: "
	if e.Request != nil {
		prefix += e.Request.String() + ": "
	}
	switch p := normalizeProblem[E](e.Problem).(type) {
	case BadURL:
		return fmt.Sprintf("%sbad_url: %q", prefix, p.URL)
	case BadStatus[E]:
		return fmt.Sprintf("%sbad_status (HTTP %d): %s", prefix, p.Metadata.StatusCode, p.Metadata.StatusText)
	case BadBody:
		return fmt.Sprintf("%sbad_body (HTTP %d): %s", prefix, p.Metadata.StatusCode, p.Message)
	default:
		return prefix + p.Kind().String()
	}
}

// Compat strips the error down to its minimal compatible form.
func (e *Error[E]) Compat() *CompatError {
	c := &CompatError{Kind: e.Kind()}
	switch p := normalizeProblem[E](e.Problem).(type) {
	case BadURL:
		c.URL = p.URL
	case BadStatus[E]:
		c.StatusCode = p.Metadata.StatusCode
	case BadBody:
		c.Message = p.Message
	}
	return c
}

// CompatError is the minimal error shape: BadURL carries URL, BadStatus
// carries StatusCode and BadBody carries Message. Headers, request identity
// and decoded error bodies are dropped.
type CompatError struct {
	Kind       Kind
	URL        string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *CompatError) Error() string {
	switch e.Kind {
	case KindBadURL:
		return fmt.Sprintf("httpclient: bad_url: %q", e.URL)
	case KindBadStatus:
		return fmt.Sprintf("httpclient: bad_status (HTTP %d)", e.StatusCode)
	case KindBadBody:
		return "httpclient: bad_body: " + e.Message
	default:
		return "httpclient: " + e.Kind.String()
	}
}

// Compat returns the receiver.
func (e *CompatError) Compat() *CompatError { return e }

// classified is satisfied by every *Error[E] and *CompatError.
type classified interface {
	error
	Compat() *CompatError
}

// Compatible converts a resolved error of any fidelity into a *CompatError.
// Other errors, including nil, are returned unchanged.
func Compatible(err error) error {
	var c classified
	if errors.As(err, &c) {
		return c.Compat()
	}
	return err
}

// KindOf returns the kind of a resolved error.
func KindOf(err error) (Kind, bool) {
	var c classified
	if errors.As(err, &c) {
		return c.Compat().Kind, true
	}
	return 0, false
}

// StatusCode returns the HTTP status code carried by a resolved error, or 0.
func StatusCode(err error) int {
	var c classified
	if errors.As(err, &c) {
		if sc, ok := c.(interface{ StatusCode() int }); ok {
			return sc.StatusCode()
		}
		return c.Compat().StatusCode
	}
	return 0
}

func isKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

// IsBadURL checks if an error is a bad URL error.
func IsBadURL(err error) bool { return isKind(err, KindBadURL) }

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return isKind(err, KindTimeout) }

// IsNetworkError checks if an error is a network error.
func IsNetworkError(err error) bool { return isKind(err, KindNetworkError) }

// IsBadStatus checks if an error is a bad status error.
func IsBadStatus(err error) bool { return isKind(err, KindBadStatus) }

// IsBadBody checks if an error is a bad body error.
func IsBadBody(err error) bool { return isKind(err, KindBadBody) }

// IsRetryable checks if an error is a timeout or network error.
func IsRetryable(err error) bool {
	k, ok := KindOf(err)
	return ok && k.Retryable()
}
