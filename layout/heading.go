package layout

import (
	"unicode/utf8"

	"github.com/tsawler/pagemd/model"
)

// HeadingMergeConfig holds configuration for heading fragment merging
type HeadingMergeConfig struct {
	// MaxTitleLength is the rune length the merged title must stay below
	// Default: 60
	MaxTitleLength int

	// MaxFragmentLength is the longest fragment, in runes, that may take
	// part in a merge
	// Default: 40
	MaxFragmentLength int
}

// DefaultHeadingMergeConfig returns sensible default configuration
func DefaultHeadingMergeConfig() HeadingMergeConfig {
	return HeadingMergeConfig{
		MaxTitleLength:    60,
		MaxFragmentLength: 40,
	}
}

// HeadingMerger rejoins headings that a layout split into several runs,
// such as "Agent Tools &" followed by "Interoperability".
type HeadingMerger struct {
	config HeadingMergeConfig
}

// NewHeadingMerger creates a merger with default configuration
func NewHeadingMerger() *HeadingMerger {
	return &HeadingMerger{config: DefaultHeadingMergeConfig()}
}

// NewHeadingMergerWithConfig creates a merger with custom configuration
func NewHeadingMergerWithConfig(config HeadingMergeConfig) *HeadingMerger {
	return &HeadingMerger{config: config}
}

// Merge space-joins consecutive headings of the same level while every
// fragment is short enough and the joined title stays below the limit
func (m *HeadingMerger) Merge(elements []model.PageElement) []model.PageElement {
	out := make([]model.PageElement, 0, len(elements))

	for i := 0; i < len(elements); i++ {
		e := elements[i]
		if e.Kind != model.ElementHeading || !m.fragmentFits(e.Content) {
			out = append(out, e)
			continue
		}

		for i+1 < len(elements) {
			next := elements[i+1]
			if next.Kind != model.ElementHeading || next.Level != e.Level || !m.fragmentFits(next.Content) {
				break
			}
			joined := e.Content + " " + next.Content
			if utf8.RuneCountInString(joined) >= m.config.MaxTitleLength {
				break
			}
			e.Content = joined
			i++
		}

		out = append(out, e)
	}

	return out
}

func (m *HeadingMerger) fragmentFits(s string) bool {
	return utf8.RuneCountInString(s) <= m.config.MaxFragmentLength
}
