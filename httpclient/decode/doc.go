// Package decode provides body decoders for httpclient resolvers.
//
// JSON and YAML decode into a struct and then apply its validate tags, so a
// missing required field is reported by its JSON name. required rejects a
// zero value, so a field whose zero value is valid is declared as a pointer
// to require only its presence:
//
//	type Repo struct {
//	    Name       string `json:"name" validate:"required"`
//	    ForksCount *int   `json:"forks_count" validate:"required"`
//	}
//	r := httpclient.Detailed(decode.JSON[Repo](), decode.ByStatus(
//	    httpclient.Text(),
//	    map[int]httpclient.Decoder[string]{404: decode.Path[string]("message")},
//	))
//
// Path extracts a sub-document with a gjson path before decoding it, and
// Schema checks the body against a JSON schema first.
package decode
