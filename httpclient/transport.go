package httpclient

import "context"

// Transport performs the I/O for one Request. It must always return exactly
// one RawResponse; connectivity failures are NetworkErrorResponse, never an
// error value. When ctx is cancelled the transport should stop and may return
// any variant, which the Client discards in favour of the cancellation.
type Transport interface {
	RoundTrip(ctx context.Context, req Request, progress ProgressFunc) RawResponse
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req Request, progress ProgressFunc) RawResponse

// RoundTrip calls f(ctx, req, progress).
func (f TransportFunc) RoundTrip(ctx context.Context, req Request, progress ProgressFunc) RawResponse {
	return f(ctx, req, progress)
}

// ProgressFunc receives progress events of a tracked call. It may be nil.
type ProgressFunc func(Progress)

// Report calls f when it is non-nil.
func (f ProgressFunc) Report(p Progress) {
	if f != nil {
		f(p)
	}
}

// Progress is a Sending or Receiving event.
type Progress interface {
	// Fraction returns the completed share in [0, 1], or 0 when the total
	// size is unknown.
	Fraction() float64
	progress()
}

// Sending reports upload progress.
type Sending struct {
	Sent int64
	Size int64
}

// Receiving reports download progress. Size is meaningful only when SizeKnown.
type Receiving struct {
	Received  int64
	Size      int64
	SizeKnown bool
}

func (s Sending) Fraction() float64 {
	return fraction(s.Sent, s.Size)
}

func (r Receiving) Fraction() float64 {
	if !r.SizeKnown {
		return 0
	}
	return fraction(r.Received, r.Size)
}

func (Sending) progress()   {}
func (Receiving) progress() {}

func fraction(done, size int64) float64 {
	if size <= 0 {
		return 1
	}
	f := float64(done) / float64(size)
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}
