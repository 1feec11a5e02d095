package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	output, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("Failed to read from UTF-8 reader: %v", err)
	}
	return string(output)
}

// TestNewUTF8Reader_AlreadyUTF8 tests that UTF-8 content passes through unchanged
func TestNewUTF8Reader_AlreadyUTF8(t *testing.T) {
	t.Parallel()
	input := []byte("1\n00:00:01,000 --> 00:00:02,000\nÁrvíztűrő tükörfúrógép ☺\n")
	reader, err := NewUTF8Reader(bytes.NewReader(input), "text/plain")
	if err != nil {
		t.Fatalf("NewUTF8Reader failed: %v", err)
	}

	if output := readAll(t, reader); output != string(input) {
		t.Errorf("Expected UTF-8 content to pass through unchanged, got %q", output)
	}
}

// TestNewUTF8Reader_ContentTypeCharset tests conversion driven by the Content-Type charset parameter
func TestNewUTF8Reader_ContentTypeCharset(t *testing.T) {
	t.Parallel()
	// é = 0xE9 in ISO-8859-1
	input := []byte("1\n00:00:01,000 --> 00:00:02,000\nCaf" + string([]byte{0xE9}) + "\n")

	reader, err := NewUTF8Reader(bytes.NewReader(input), "text/plain; charset=ISO-8859-1")
	if err != nil {
		t.Fatalf("NewUTF8Reader failed: %v", err)
	}

	if output := readAll(t, reader); !strings.Contains(output, "Café") {
		t.Errorf("Expected 'Café' in UTF-8 output, got: %q", output)
	}
}

// TestNewUTF8Reader_Windows1252Heuristic tests that invalid UTF-8 without a declared charset is decoded as Windows-1252
func TestNewUTF8Reader_Windows1252Heuristic(t *testing.T) {
	t.Parallel()
	// ™ = 0x99 in Windows-1252, which is not valid UTF-8 on its own
	input := []byte("Test" + string([]byte{0x99}) + " done")

	reader, err := NewUTF8Reader(bytes.NewReader(input), "")
	if err != nil {
		t.Fatalf("NewUTF8Reader failed: %v", err)
	}

	if output := readAll(t, reader); !strings.Contains(output, "™") {
		t.Errorf("Expected '™' (trademark) in UTF-8 output, got: %q", output)
	}
}

func TestNewDecodingReader(t *testing.T) {
	t.Parallel()
	// ü = 0xFC and ö = 0xF6 in latin1 (windows-1252)
	input := []byte("T" + string([]byte{0xFC}) + "k" + string([]byte{0xF6}) + "r")

	reader, err := NewDecodingReader(bytes.NewReader(input), "latin1")
	if err != nil {
		t.Fatalf("NewDecodingReader failed: %v", err)
	}
	if output := readAll(t, reader); output != "Tükör" {
		t.Errorf("Expected 'Tükör', got %q", output)
	}
}

func TestNewDecodingReader_UnknownEncoding(t *testing.T) {
	t.Parallel()
	if _, err := NewDecodingReader(strings.NewReader("x"), "not-a-charset"); err == nil {
		t.Fatal("Expected error for unknown encoding")
	}
}

// asciiThenAccented returns an SRT document whose first non-ASCII byte sits
// well past the first kilobyte.
func asciiThenAccented() []byte {
	var b strings.Builder
	for i := 1; b.Len() < 1100; i++ {
		fmt.Fprintf(&b, "%d\n00:00:01,000 --> 00:00:02,000\nPlain English line %d\n\n", i, i)
	}
	b.WriteString("99\n00:00:03,000 --> 00:00:04,000\ncafé\n")
	return []byte(b.String())
}

func TestNewUTF8Reader_LateNonASCIIStaysUTF8(t *testing.T) {
	t.Parallel()
	input := asciiThenAccented()

	for _, contentType := range []string{"", "text/plain", "application/json", "application/x-subrip"} {
		reader, err := NewUTF8Reader(bytes.NewReader(input), contentType)
		if err != nil {
			t.Fatalf("NewUTF8Reader(%q) failed: %v", contentType, err)
		}
		if output := readAll(t, reader); output != string(input) {
			t.Errorf("content type %q: expected input unchanged, got tail %q", contentType, output[len(output)-8:])
		}
	}
}

func TestDecodeUTF8_DeclaredCharsetWins(t *testing.T) {
	t.Parallel()
	// Valid UTF-8 bytes declared as latin1 are decoded as latin1.
	output, err := DecodeUTF8([]byte("caf\xc3\xa9"), "text/plain; charset=ISO-8859-1")
	if err != nil {
		t.Fatalf("DecodeUTF8 failed: %v", err)
	}
	if string(output) != "cafÃ©" {
		t.Errorf("Expected declared latin1 decoding, got %q", output)
	}
}

func TestDecodeUTF8_UTF8BOMPassesThrough(t *testing.T) {
	t.Parallel()
	input := []byte("\ufeff1\n00:00:01,000 --> 00:00:02,000\nnaïve\n")
	output, err := DecodeUTF8(input, "text/plain; charset=windows-1252")
	if err != nil {
		t.Fatalf("DecodeUTF8 failed: %v", err)
	}
	if !bytes.Equal(output, input) {
		t.Errorf("Expected BOM-marked UTF-8 unchanged, got %q", output)
	}
}
