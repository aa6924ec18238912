package decode

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/httpkit/errors"
	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/validation"
)

// Formats reported in Error.
const (
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatPath   = "path"
	FormatSchema = "schema"
)

// Error is a body that could not be decoded.
type Error struct {
	Format  string
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Format + ": " + e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// JSON decodes a JSON body into T and validates the result.
func JSON[T any]() httpclient.Decoder[T] {
	return httpclient.DecoderFunc[T](func(body []byte) (T, error) {
		return unmarshalJSON[T](FormatJSON, body)
	})
}

// YAML decodes a YAML body into T and validates the result.
func YAML[T any]() httpclient.Decoder[T] {
	return httpclient.DecoderFunc[T](func(body []byte) (T, error) {
		var v T
		if err := yaml.Unmarshal(body, &v); err != nil {
			return v, &Error{Format: FormatYAML, Message: strings.TrimPrefix(err.Error(), "yaml: "), Cause: err}
		}
		if err := validate(FormatYAML, v); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	})
}

func unmarshalJSON[T any](format string, body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		var zero T
		return zero, &Error{Format: format, Message: strings.TrimPrefix(err.Error(), "json: "), Cause: err}
	}
	if err := validate(format, v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

func validate(format string, v any) error {
	err := validation.ValidateValue(v)
	if err == nil {
		return nil
	}
	msg := err.Error()
	if appErr, ok := errors.AsAppError(err); ok {
		msg = appErr.Message
	}
	return &Error{Format: format, Message: msg, Cause: err}
}
