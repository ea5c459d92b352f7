// Package format provides source format detection for pagemd.
package format

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported source format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// LayoutJSON indicates a page layout dump: pages of text, image and
	// table blocks serialized as JSON.
	LayoutJSON
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case LayoutJSON:
		return "LayoutJSON"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case LayoutJSON:
		return ".json"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	name := strings.ToLower(filepath.Base(filename))
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return PDF
	case strings.HasSuffix(name, ".layout.json"), strings.HasSuffix(name, ".json"):
		return LayoutJSON
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine format.
// Returns Unknown if the format cannot be determined from them alone.
func DetectFromMagic(data []byte) Format {
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}
	if detectLayoutMagic(data) {
		return LayoutJSON
	}
	return Unknown
}

// detectLayoutMagic checks for a JSON object mentioning "pages" near the start
func detectLayoutMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n\xef\xbb\xbf")
	if len(data) == 0 || data[0] != '{' {
		return false
	}
	if len(data) > 512 {
		data = data[:512]
	}
	return bytes.Contains(data, []byte(`"pages"`))
}

// DetectFromReader inspects the content to determine format.
func DetectFromReader(r io.ReaderAt) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}

// Supported reports whether a file name has an extension pagemd can read
func Supported(filename string) bool {
	return Detect(filename) != Unknown
}
