package httpclient

// Resolver maps a RawResponse to a decoded value or an *Error[E].
//
// Success decodes 2xx bodies. Failure picks the decoder for non-2xx bodies
// from the response metadata, so the error shape may vary by status code or
// content type; a nil Failure leaves BadStatus bodies undecoded (zero E).
// IncludeRequest attaches the originating Request to every error.
//
// Resolve is pure: the same inputs always produce equal results.
type Resolver[T, E any] struct {
	Success        Decoder[T]
	Failure        func(Metadata) Decoder[E]
	IncludeRequest bool
}

// Simple returns a resolver that keeps response metadata and passes error
// bodies through as text.
func Simple[T any](dec Decoder[T]) Resolver[T, string] {
	return Resolver[T, string]{Success: dec, Failure: Static(Text())}
}

// Detailed returns a resolver that decodes error bodies with errDec.
func Detailed[T, E any](dec Decoder[T], errDec func(Metadata) Decoder[E]) Resolver[T, E] {
	return Resolver[T, E]{Success: dec, Failure: errDec}
}

// WithRequest returns a Detailed resolver whose errors also carry the
// originating Request.
func WithRequest[T, E any](dec Decoder[T], errDec func(Metadata) Decoder[E]) Resolver[T, E] {
	return Resolver[T, E]{Success: dec, Failure: errDec, IncludeRequest: true}
}

// ResolveCompatible resolves raw into the minimal *CompatError shape.
func ResolveCompatible[T any](req Request, raw RawResponse, dec Decoder[T]) (T, error) {
	v, err := Simple(dec).Resolve(req, raw)
	if err != nil {
		return v, Compatible(err)
	}
	return v, nil
}

// Resolve classifies raw. The returned error, when non-nil, is an *Error[E].
func (r Resolver[T, E]) Resolve(req Request, raw RawResponse) (T, error) {
	var zero T
	raw = Normalize(raw)
	good, ok := raw.(GoodStatusResponse)
	if !ok {
		return zero, r.wrap(req, r.problem(raw))
	}
	if r.Success == nil {
		panic("httpclient: Resolver has no Success decoder")
	}
	v, err := r.Success.Decode(good.Body)
	if err != nil {
		return zero, r.wrap(req, BadBody{Metadata: good.Metadata, Message: decodeMessage(err)})
	}
	return v, nil
}

// problem classifies every non-success variant.
func (r Resolver[T, E]) problem(raw RawResponse) Problem {
	switch res := raw.(type) {
	case BadURLResponse:
		return BadURL{URL: res.URL}
	case TimeoutResponse:
		return Timeout{}
	case NetworkErrorResponse:
		return NetworkError{}
	case BadStatusResponse:
		if r.Failure == nil {
			return BadStatus[E]{Metadata: res.Metadata}
		}
		body, err := r.Failure(res.Metadata).Decode(res.Body)
		if err != nil {
			return BadBody{Metadata: res.Metadata, Message: decodeMessage(err)}
		}
		return BadStatus[E]{Metadata: res.Metadata, Body: body}
	default:
		// GoodStatusResponse is handled by Resolve and never reaches here.
		panic(unreachable("raw response on failure path", raw))
	}
}

func (r Resolver[T, E]) wrap(req Request, p Problem) *Error[E] {
	e := &Error[E]{Problem: p}
	if r.IncludeRequest {
		e.Request = &req
	}
	return e
}

func decodeMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "body could not be decoded"
}
