package decode

import (
	"strings"

	"github.com/kbukum/httpkit/httpclient"
)

// Negotiate picks an error decoder from the response Content-Type. Keys are
// media types without parameters, e.g. "application/json". A structured
// suffix such as "application/problem+json" also matches
// "application/json". Other content types use fallback.
func Negotiate[E any](fallback httpclient.Decoder[E], byContentType map[string]httpclient.Decoder[E]) func(httpclient.Metadata) httpclient.Decoder[E] {
	return func(meta httpclient.Metadata) httpclient.Decoder[E] {
		ct := meta.ContentType()
		if d, ok := byContentType[ct]; ok {
			return d
		}
		if i := strings.LastIndexByte(ct, '+'); i != -1 {
			if major, _, ok := strings.Cut(ct, "/"); ok {
				if d, ok := byContentType[major+"/"+ct[i+1:]]; ok {
					return d
				}
			}
		}
		return fallback
	}
}

// ByStatus picks an error decoder by status code. Other codes use fallback.
func ByStatus[E any](fallback httpclient.Decoder[E], byCode map[int]httpclient.Decoder[E]) func(httpclient.Metadata) httpclient.Decoder[E] {
	return func(meta httpclient.Metadata) httpclient.Decoder[E] {
		if d, ok := byCode[meta.StatusCode]; ok {
			return d
		}
		return fallback
	}
}
