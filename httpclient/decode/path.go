package decode

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kbukum/httpkit/httpclient"
)

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// Path decodes the JSON value found at path into T. Paths use gjson syntax;
// bracket indexes such as "items[0].id" are accepted too.
func Path[T any](path string) httpclient.Decoder[T] {
	gpath := toGJSONPath(path)
	return httpclient.DecoderFunc[T](func(body []byte) (T, error) {
		var zero T
		if !gjson.ValidBytes(body) {
			return zero, &Error{Format: FormatPath, Message: "invalid JSON"}
		}
		res := gjson.GetBytes(body, gpath)
		if !res.Exists() {
			return zero, &Error{Format: FormatPath, Message: fmt.Sprintf("missing field %q", path)}
		}
		return unmarshalJSON[T](FormatPath, []byte(res.Raw))
	})
}

// toGJSONPath converts "items[0].tags[1]" to "items.0.tags.1".
func toGJSONPath(path string) string {
	return strings.TrimPrefix(bracketIndex.ReplaceAllString(path, ".$1"), ".")
}
