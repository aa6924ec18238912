package httpclient

import "io"

// File is an opaque handle to file content. The transport opens it when the
// request is sent; this package never reads it.
type File interface {
	// Name is the file name reported to the server.
	Name() string
	// MIME is the content type, e.g. "image/png".
	MIME() string
	// Open returns the file content.
	Open() (io.ReadCloser, error)
}

// Body is the request body. It is exactly one of EmptyBody, TextBody,
// JSONBody, FileBody, BytesBody or MultipartBody.
type Body interface {
	// ContentType returns the MIME type the transport should send.
	ContentType() string
	body()
}

// EmptyBody sends no body.
type EmptyBody struct{}

// TextBody sends Content with the given MIME type.
type TextBody struct {
	MIME    string
	Content string
}

// JSONBody sends Value encoded as JSON.
type JSONBody struct {
	Value any
}

// FileBody sends the content of File.
type FileBody struct {
	File File
}

// BytesBody sends Data with the given MIME type.
type BytesBody struct {
	MIME string
	Data []byte
}

// MultipartBody sends Parts as multipart/form-data.
type MultipartBody struct {
	Parts []Part
}

func (EmptyBody) ContentType() string     { return "" }
func (b TextBody) ContentType() string    { return b.MIME }
func (JSONBody) ContentType() string      { return "application/json" }
func (b BytesBody) ContentType() string   { return b.MIME }
func (MultipartBody) ContentType() string { return "multipart/form-data" }

// ContentType reports the file's MIME type, or "" when no file is set.
func (b FileBody) ContentType() string {
	if b.File == nil {
		return ""
	}
	return b.File.MIME()
}
func (EmptyBody) body()     {}
func (TextBody) body()      {}
func (JSONBody) body()      {}
func (FileBody) body()      {}
func (BytesBody) body()     {}
func (MultipartBody) body() {}

// BodyKind names the variant of b for logs and metrics.
func BodyKind(b Body) string {
	switch normalizeBody(b).(type) {
	case nil, EmptyBody:
		return "empty"
	case TextBody:
		return "text"
	case JSONBody:
		return "json"
	case FileBody:
		return "file"
	case BytesBody:
		return "bytes"
	case MultipartBody:
		return "multipart"
	default:
		panic(unreachable("body variant", b))
	}
}

func normalizeBody(b Body) Body {
	switch v := b.(type) {
	case *EmptyBody:
		return EmptyBody{}
	case *TextBody:
		return deref(v)
	case *JSONBody:
		return deref(v)
	case *FileBody:
		return deref(v)
	case *BytesBody:
		return deref(v)
	case *MultipartBody:
		return deref(v)
	default:
		return b
	}
}

// Part is one entry of a multipart body: TextPart, FilePart or BytesPart.
type Part interface {
	// PartName returns the form field name.
	PartName() string
	part()
}

// TextPart is a plain form field.
type TextPart struct {
	Name  string
	Value string
}

// FilePart is a file upload field.
type FilePart struct {
	Name string
	File File
}

// BytesPart is a raw upload field with an explicit MIME type.
type BytesPart struct {
	Name string
	MIME string
	Data []byte
}

func (p TextPart) PartName() string  { return p.Name }
func (p FilePart) PartName() string  { return p.Name }
func (p BytesPart) PartName() string { return p.Name }
func (TextPart) part()               {}
func (FilePart) part()               {}
func (BytesPart) part()              {}

// NewTextPart creates a form field part.
func NewTextPart(name, value string) Part {
	return TextPart{Name: name, Value: value}
}

// NewFilePart creates a file upload part.
func NewFilePart(name string, file File) Part {
	return FilePart{Name: name, File: file}
}

// NewBytesPart creates a raw upload part. data is copied.
func NewBytesPart(name, mime string, data []byte) Part {
	return BytesPart{Name: name, MIME: mime, Data: cloneBytes(data)}
}
