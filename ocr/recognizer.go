package ocr

import (
	"errors"
	"strings"
)

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
// Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Recognizer turns image bytes into text
type Recognizer interface {
	RecognizeImage(data []byte) (string, error)
	Close() error
}

// Config holds recognition settings
type Config struct {
	// Languages are Tesseract language codes, joined with "+"
	// Default: ["eng"]
	Languages []string

	// PageSegMode is the Tesseract page segmentation mode
	// Default: PSMAuto
	PageSegMode PageSegMode
}

// PageSegMode is a Tesseract page segmentation mode
type PageSegMode int

// Page segmentation modes used by page images
const (
	PSMAuto        PageSegMode = 3  // Fully automatic
	PSMSingleBlock PageSegMode = 6  // One uniform block of text
	PSMSparseText  PageSegMode = 11 // As much text as possible, in no order
)

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Languages:   []string{"eng"},
		PageSegMode: PSMAuto,
	}
}

func (c Config) language() string {
	if len(c.Languages) == 0 {
		return "eng"
	}
	return strings.Join(c.Languages, "+")
}

// Lines splits recognized text into trimmed, non-empty lines
func Lines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
