package layout

import (
	"regexp"
	"strings"

	"github.com/tsawler/pagemd/model"
)

// ParagraphConfig holds configuration for paragraph merging
type ParagraphConfig struct {
	// Terminators are the runes that end a paragraph. A paragraph whose
	// text does not end in one of them absorbs the next paragraph line.
	// Default: ".。!！?？:：;；"
	Terminators string

	// FooterPatterns match page footers that a decoder glued onto the end
	// of body text, such as "March 2024 12" or "2024年3月 12". Each match
	// is cut from the merged text.
	FooterPatterns []*regexp.Regexp
}

// DefaultParagraphConfig returns sensible default configuration
func DefaultParagraphConfig() ParagraphConfig {
	return ParagraphConfig{
		Terminators: ".。!！?？:：;；",
		FooterPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\s*\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{4}\s*(?:[|·•–—-]\s*)?\d{1,4}\s*$`),
			regexp.MustCompile(`\s*\d{4}\s*年\s*\d{1,2}\s*月\s*(?:[|·•–—-]\s*)?\d{1,4}\s*$`),
		},
	}
}

// ParagraphMerger joins paragraph lines that a decoder split at line wraps
type ParagraphMerger struct {
	config ParagraphConfig
}

// NewParagraphMerger creates a merger with default configuration
func NewParagraphMerger() *ParagraphMerger {
	return &ParagraphMerger{config: DefaultParagraphConfig()}
}

// NewParagraphMergerWithConfig creates a merger with custom configuration
func NewParagraphMergerWithConfig(config ParagraphConfig) *ParagraphMerger {
	return &ParagraphMerger{config: config}
}

// Merge concatenates runs of consecutive paragraph elements with a single
// space until the running text ends in a terminator. Any other element
// kind ends the run. Paragraphs that are empty after footer stripping are
// dropped.
func (m *ParagraphMerger) Merge(elements []model.PageElement) []model.PageElement {
	out := make([]model.PageElement, 0, len(elements))

	for i := 0; i < len(elements); i++ {
		e := elements[i]
		if e.Kind != model.ElementParagraph {
			out = append(out, e)
			continue
		}

		text := e.Content
		for i+1 < len(elements) && elements[i+1].Kind == model.ElementParagraph &&
			!m.endsParagraph(text) {
			i++
			text = strings.TrimSpace(text) + " " + strings.TrimSpace(elements[i].Content)
		}

		e.Content = m.StripFooter(text)
		if e.Content != "" {
			out = append(out, e)
		}
	}

	return out
}

// endsParagraph reports whether text ends in a terminator, looking past a
// closing emphasis marker
func (m *ParagraphMerger) endsParagraph(text string) bool {
	core, _ := splitClosingMarker(text)
	return endsWithAny(core, m.config.Terminators)
}

// StripFooter removes a trailing page footer from text. A footer rendered
// in emphasis, as in "*March 2024 12*", is removed with its markers.
func (m *ParagraphMerger) StripFooter(text string) string {
	text = strings.TrimSpace(text)
	core, marker := splitClosingMarker(text)

	stripped := core
	for _, re := range m.config.FooterPatterns {
		stripped = re.ReplaceAllString(stripped, "")
	}
	stripped = strings.TrimSpace(stripped)
	if stripped == core {
		return text
	}

	if marker != "" {
		// The opening marker is left dangling when the whole emphasis run
		// was the footer; otherwise the run needs closing again.
		if strings.HasSuffix(stripped, marker) {
			return strings.TrimSpace(strings.TrimSuffix(stripped, marker))
		}
		return stripped + marker
	}
	return stripped
}

// splitClosingMarker splits a trailing run of up to three asterisks from
// the trimmed text
func splitClosingMarker(text string) (core, marker string) {
	text = strings.TrimSpace(text)
	n := len(text) - len(strings.TrimRight(text, "*"))
	if n > 3 {
		n = 3
	}
	return strings.TrimSpace(text[:len(text)-n]), text[len(text)-n:]
}
