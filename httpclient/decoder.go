package httpclient

import "errors"

// ErrUnexpectedPayload is the failure reported by binary decoders, which
// cannot explain why a payload was rejected.
var ErrUnexpectedPayload = errors.New("unexpected payload")

// Decoder turns a response body into a value of type T. A returned error
// becomes a BadBody problem whose message is the error text.
type Decoder[T any] interface {
	Decode(body []byte) (T, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc[T any] func(body []byte) (T, error)

// Decode calls f(body).
func (f DecoderFunc[T]) Decode(body []byte) (T, error) { return f(body) }

// Text returns a decoder that yields the body verbatim as a string. It never fails.
func Text() Decoder[string] {
	return DecoderFunc[string](func(body []byte) (string, error) {
		return string(body), nil
	})
}

// Binary returns a decoder for byte-oriented payloads. fn reports whether it
// accepted the bytes; a rejection is reported as ErrUnexpectedPayload.
func Binary[T any](fn func([]byte) (T, bool)) Decoder[T] {
	return DecoderFunc[T](func(body []byte) (T, error) {
		v, ok := fn(body)
		if !ok {
			var zero T
			return zero, ErrUnexpectedPayload
		}
		return v, nil
	})
}

// RawBytes returns a binary decoder that yields a copy of the body.
func RawBytes() Decoder[[]byte] {
	return Binary(func(b []byte) ([]byte, bool) {
		return cloneBytes(b), true
	})
}

// Ignore returns a decoder that accepts any body and yields the zero value.
// It suits calls where only the status matters, e.g. DELETE.
func Ignore[T any]() Decoder[T] {
	return DecoderFunc[T](func([]byte) (T, error) {
		var zero T
		return zero, nil
	})
}

// Static adapts a single decoder to the metadata-aware failure decoder shape.
func Static[E any](d Decoder[E]) func(Metadata) Decoder[E] {
	return func(Metadata) Decoder[E] { return d }
}
