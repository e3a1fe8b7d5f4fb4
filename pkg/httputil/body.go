package httputil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"strings"
)

// MaxBodySize bounds how much of a body is read.
const MaxBodySize = 10 << 20

// ReadBody reads at most MaxBodySize bytes of r.
func ReadBody(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, MaxBodySize))
}

// DecodeBody turns a raw body into a JSON value. Bodies that are not valid
// JSON are returned as text, and an empty body is nil. A declared non-JSON
// content type keeps the body as text even when it happens to parse.
func DecodeBody(data []byte, contentType string) any {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if contentType != "" && !isJSON(contentType) {
		return string(data)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}
	return v
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
