package pagemd

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal problem
type WarningKind int

const (
	// WarningClassificationAmbiguity means font sizes could not be told
	// apart and default size tiers were used
	WarningClassificationAmbiguity WarningKind = iota
	// WarningAssetWrite means an image was not saved and its reference
	// was left out
	WarningAssetWrite
	// WarningBlockExtraction means a malformed block was dropped
	WarningBlockExtraction
	// WarningPageSkipped means a whole page could not be decoded
	WarningPageSkipped
	// WarningOCR means text recognition failed for a page image
	WarningOCR
	// WarningDecode means a document in a batch could not be opened
	WarningDecode
)

func (k WarningKind) String() string {
	switch k {
	case WarningClassificationAmbiguity:
		return "classification ambiguity"
	case WarningAssetWrite:
		return "asset write"
	case WarningBlockExtraction:
		return "block extraction"
	case WarningPageSkipped:
		return "page skipped"
	case WarningOCR:
		return "ocr"
	case WarningDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Warning is a problem that did not stop conversion
type Warning struct {
	Kind WarningKind

	// Source is the document path, set for batch conversions
	Source string

	// Page is the 1-based page number, or 0 for document-level warnings
	Page int

	Message string
	Err     error
}

func (w Warning) String() string {
	var sb strings.Builder
	sb.WriteString(w.Kind.String())
	if w.Source != "" {
		sb.WriteString(" ")
		sb.WriteString(w.Source)
	}
	if w.Page > 0 {
		fmt.Fprintf(&sb, " page %d", w.Page)
	}
	sb.WriteString(": ")
	sb.WriteString(w.Message)
	if w.Err != nil && w.Message != w.Err.Error() {
		sb.WriteString(": ")
		sb.WriteString(w.Err.Error())
	}
	return sb.String()
}

// FormatWarnings renders warnings one per line
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// Count returns how many warnings have the given kind
func Count(warnings []Warning, kind WarningKind) int {
	n := 0
	for _, w := range warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}
