package server

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// errUnsupportedEncoding is returned for Content-Encoding values other than
// identity, gzip, br and zstd.
type errUnsupportedEncoding struct {
	encoding string
}

func (e *errUnsupportedEncoding) Error() string {
	return fmt.Sprintf("unsupported Content-Encoding %q", e.encoding)
}

// parseContentEncoding returns the outermost encoding of a Content-Encoding
// header, lowercased. "gzip, br" yields "br".
func parseContentEncoding(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.Split(header, ",")
	return strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
}

// decodeBody wraps body with a decompressor for the request's Content-Encoding.
// The returned closer releases the decompressor, not the request body.
func decodeBody(r *http.Request, body io.Reader) (io.ReadCloser, error) {
	switch encoding := parseContentEncoding(r.Header.Get("Content-Encoding")); encoding {
	case "", "identity":
		return io.NopCloser(body), nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("invalid gzip body: %w", err)
		}
		return zr, nil
	case "br":
		return io.NopCloser(brotli.NewReader(body)), nil
	case "zstd":
		zr, err := zstd.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("invalid zstd body: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, &errUnsupportedEncoding{encoding: encoding}
	}
}
