package parser

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// DecodeUTF8 converts an SRT document to UTF-8.
//
// The encoding is taken from, in order:
// 1. A byte order mark
// 2. The charset parameter of contentType (e.g. "text/plain; charset=windows-1252")
// 3. The content itself: valid UTF-8 is returned unchanged, anything else is read as Windows-1252
//
// The whole document is checked, so non-ASCII text far into a file is not misread.
func DecodeUTF8(data []byte, contentType string) ([]byte, error) {
	enc, name, certain := charset.DetermineEncoding(data, contentType)
	if !certain {
		// Only a BOM or a declared charset is trusted.
		if utf8.Valid(data) {
			return data, nil
		}
		enc, name = charmap.Windows1252, "windows-1252"
	}
	if name == "utf-8" {
		return data, nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s input: %w", name, err)
	}
	return out, nil
}

// NewUTF8Reader reads body to the end and returns its content as UTF-8, using
// the same rules as DecodeUTF8.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	out, err := DecodeUTF8(data, contentType)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(out), nil
}

// NewDecodingReader converts body from the named encoding (any WHATWG label such as
// "latin1" or "windows-1250") to UTF-8.
func NewDecodingReader(body io.Reader, encodingName string) (io.Reader, error) {
	enc, err := htmlindex.Get(encodingName)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", encodingName, err)
	}
	return enc.NewDecoder().Reader(body), nil
}
