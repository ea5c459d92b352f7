package layout

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/pagemd/model"
)

// SizeMap maps heading tiers to font size thresholds for one document.
// A SizeMap is immutable once built; the threshold slice is never exposed.
type SizeMap struct {
	body     float64
	headings []float64 // descending, at most three
}

// NewSizeMap builds a SizeMap from a body size and up to three heading
// thresholds. Thresholds are sorted descending; extras are ignored.
func NewSizeMap(body float64, headings ...float64) SizeMap {
	hs := append([]float64(nil), headings...)
	sort.Sort(sort.Reverse(sort.Float64Slice(hs)))
	if len(hs) > maxHeadingLevels {
		hs = hs[:maxHeadingLevels]
	}
	return SizeMap{body: body, headings: hs}
}

// DefaultSizeMap is used when a document has no measurable text
func DefaultSizeMap() SizeMap {
	return NewSizeMap(12, 24, 18, 14)
}

const maxHeadingLevels = 3

// Body returns the body text size
func (m SizeMap) Body() float64 {
	return m.body
}

// Levels returns how many heading tiers were found (0-3)
func (m SizeMap) Levels() int {
	return len(m.headings)
}

// Threshold returns the size threshold for a heading level (1-based)
func (m SizeMap) Threshold(level int) (float64, bool) {
	if level < 1 || level > len(m.headings) {
		return 0, false
	}
	return m.headings[level-1], true
}

// Level returns the heading level a size qualifies for, checking h1 before
// h2 before h3. A size qualifies when it reaches threshold-tolerance.
// Zero means body text.
func (m SizeMap) Level(size, tolerance float64) int {
	for i, threshold := range m.headings {
		if size >= threshold-tolerance {
			return i + 1
		}
	}
	return 0
}

func (m SizeMap) String() string {
	var sb strings.Builder
	sb.WriteString("body=")
	sb.WriteString(formatSize(m.body))
	for i, h := range m.headings {
		sb.WriteString(" h")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("=")
		sb.WriteString(formatSize(h))
	}
	return sb.String()
}

// FontProfileConfig holds configuration for font profiling
type FontProfileConfig struct {
	// HeadingGap is how far above the body size a size must be to become a
	// heading tier. Sizes strictly greater than body+HeadingGap qualify.
	// Default: 1.0
	HeadingGap float64
}

// DefaultFontProfileConfig returns sensible default configuration
func DefaultFontProfileConfig() FontProfileConfig {
	return FontProfileConfig{
		HeadingGap: 1.0,
	}
}

// FontProfileAnalyzer accumulates character counts per font size across a
// whole document and derives the SizeMap from them.
type FontProfileAnalyzer struct {
	config FontProfileConfig
	counts map[float64]int
}

// NewFontProfileAnalyzer creates an analyzer with default configuration
func NewFontProfileAnalyzer() *FontProfileAnalyzer {
	return NewFontProfileAnalyzerWithConfig(DefaultFontProfileConfig())
}

// NewFontProfileAnalyzerWithConfig creates an analyzer with custom configuration
func NewFontProfileAnalyzerWithConfig(config FontProfileConfig) *FontProfileAnalyzer {
	return &FontProfileAnalyzer{
		config: config,
		counts: make(map[float64]int),
	}
}

// Add records one span. Blank spans and spans without a size are ignored.
func (a *FontProfileAnalyzer) Add(span model.Span) {
	if span.IsBlank() || span.Size <= 0 {
		return
	}
	size := roundSize(span.Size)
	a.counts[size] += utf8.RuneCountInString(strings.TrimSpace(span.Text))
}

// AddPage records every span of a page
func (a *FontProfileAnalyzer) AddPage(page *model.Page) {
	if page == nil {
		return
	}
	page.Spans(a.Add)
}

// SizeMap returns the profile built from the spans added so far. The second
// result is false when nothing was measured and the defaults were used.
func (a *FontProfileAnalyzer) SizeMap() (SizeMap, bool) {
	if len(a.counts) == 0 {
		return DefaultSizeMap(), false
	}

	sizes := make([]float64, 0, len(a.counts))
	for size := range a.counts {
		sizes = append(sizes, size)
	}
	sort.Float64s(sizes)

	// Ties go to the smaller size so the result does not depend on map order
	body := sizes[0]
	for _, size := range sizes[1:] {
		if a.counts[size] > a.counts[body] {
			body = size
		}
	}

	var headings []float64
	for i := len(sizes) - 1; i >= 0 && len(headings) < maxHeadingLevels; i-- {
		if sizes[i] > body+a.config.HeadingGap {
			headings = append(headings, sizes[i])
		}
	}

	return NewSizeMap(body, headings...), true
}

// Analyze profiles all pages in one call
func (a *FontProfileAnalyzer) Analyze(pages []*model.Page) (SizeMap, bool) {
	for _, p := range pages {
		a.AddPage(p)
	}
	return a.SizeMap()
}

func roundSize(size float64) float64 {
	return math.Round(size*10) / 10
}

func formatSize(size float64) string {
	return strconv.FormatFloat(size, 'f', -1, 64)
}
