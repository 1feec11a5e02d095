package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/monasticacademy/srt-to-json-microservice/internal/apperrors"
	"github.com/monasticacademy/srt-to-json-microservice/internal/parser"
)

const (
	contentField = "srt_content"
	previewRunes = 200
)

// errBodyTooLarge is returned when the decoded body exceeds the configured cap.
var errBodyTooLarge = errors.New("request body too large")

// errBadBody marks request bodies that cannot be decoded (broken compression,
// invalid JSON or form encoding). Those are client errors.
type errBadBody struct {
	err error
}

func (e *errBadBody) Error() string { return e.err.Error() }
func (e *errBadBody) Unwrap() error { return e.err }

// readBody decompresses the request body, reads at most maxBytes of the result
// and converts it to UTF-8. JSON bodies are UTF-8 by definition and are not
// converted.
func readBody(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	raw := http.MaxBytesReader(w, r.Body, maxBytes)

	decoded, err := decodeBody(r, raw)
	if err != nil {
		return nil, bodyError(err)
	}
	defer decoded.Close()

	data, err := io.ReadAll(io.LimitReader(decoded, maxBytes+1))
	if err != nil {
		return nil, bodyError(fmt.Errorf("read body: %w", err))
	}
	if int64(len(data)) > maxBytes {
		return nil, errBodyTooLarge
	}

	contentType := r.Header.Get("Content-Type")
	if mediaType, _, _ := mime.ParseMediaType(contentType); mediaType == "application/json" {
		return data, nil
	}
	data, err = parser.DecodeUTF8(data, contentType)
	if err != nil {
		return nil, bodyError(err)
	}
	return data, nil
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errBodyTooLarge
	}
	return &errBadBody{err: err}
}

// extractContent picks the SRT document out of a request body. JSON bodies
// carry it in "srt_content", form bodies in the srt_content field, anything
// else is the document itself.
func extractContent(contentType string, body []byte) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	var content string
	switch mediaType {
	case "application/json":
		var payload struct {
			SRTContent string `json:"srt_content"`
		}
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return "", &errBadBody{err: fmt.Errorf("invalid JSON body: %w", err)}
			}
		}
		content = payload.SRTContent
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return "", &errBadBody{err: fmt.Errorf("invalid form body: %w", err)}
		}
		content = values.Get(contentField)
	case "multipart/form-data":
		content, err = multipartField(body, params["boundary"])
		if err != nil {
			return "", &errBadBody{err: err}
		}
	default:
		content = string(body)
	}

	if content == "" {
		return "", &apperrors.ErrNoContent{Preview: preview(body)}
	}
	return content, nil
}

// multipartField returns the srt_content value, falling back to an uploaded
// file under the same name.
func multipartField(body []byte, boundary string) (string, error) {
	if boundary == "" {
		return "", errors.New("multipart body without boundary")
	}
	form, err := multipart.NewReader(bytes.NewReader(body), boundary).ReadForm(int64(len(body)) + 1)
	if err != nil {
		return "", fmt.Errorf("invalid multipart body: %w", err)
	}
	defer form.RemoveAll()

	if values := form.Value[contentField]; len(values) > 0 && values[0] != "" {
		return values[0], nil
	}
	files := form.File[contentField]
	if len(files) == 0 {
		return "", nil
	}
	f, err := files[0].Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read uploaded file: %w", err)
	}
	return string(data), nil
}

// preview returns the first 200 runes of body for error messages.
func preview(body []byte) string {
	s := strings.ToValidUTF8(string(body), "�")
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	return string([]rune(s)[:previewRunes])
}
