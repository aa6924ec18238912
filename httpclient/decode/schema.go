package decode

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kbukum/httpkit/httpclient"
)

// Schema returns a decoder that checks the body against a JSON schema before
// decoding it as JSON into T. Every violation is listed in the failure
// message. It fails if the schema itself does not compile.
func Schema[T any](schema []byte) (httpclient.Decoder[T], error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("decode: compiling schema: %w", err)
	}
	return httpclient.DecoderFunc[T](func(body []byte) (T, error) {
		var zero T
		result, err := compiled.Validate(gojsonschema.NewBytesLoader(body))
		if err != nil {
			return zero, &Error{Format: FormatSchema, Message: err.Error(), Cause: err}
		}
		if !result.Valid() {
			violations := make([]string, 0, len(result.Errors()))
			for _, desc := range result.Errors() {
				violations = append(violations, desc.String())
			}
			return zero, &Error{Format: FormatSchema, Message: strings.Join(violations, "; ")}
		}
		return unmarshalJSON[T](FormatSchema, body)
	}), nil
}

// MustSchema is like Schema but panics if the schema does not compile.
func MustSchema[T any](schema []byte) httpclient.Decoder[T] {
	d, err := Schema[T](schema)
	if err != nil {
		panic(err)
	}
	return d
}
