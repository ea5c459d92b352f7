package layout

import (
	"sort"
	"strings"

	"github.com/tsawler/pagemd/model"
)

// NoiseSet is the immutable set of exact texts recognized as repeating
// page furniture (running headers, footers, confidentiality banners).
type NoiseSet struct {
	texts  map[string]struct{}
	sorted []string
}

// NewNoiseSet builds a set from explicit texts. Texts are trimmed; empty
// strings are ignored.
func NewNoiseSet(texts ...string) NoiseSet {
	set := NoiseSet{texts: make(map[string]struct{}, len(texts))}
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := set.texts[t]; ok {
			continue
		}
		set.texts[t] = struct{}{}
		set.sorted = append(set.sorted, t)
	}
	sort.Strings(set.sorted)
	return set
}

// Contains reports whether the trimmed text is noise
func (s NoiseSet) Contains(text string) bool {
	if len(s.texts) == 0 {
		return false
	}
	_, ok := s.texts[strings.TrimSpace(text)]
	return ok
}

// Len returns the number of noise strings
func (s NoiseSet) Len() int {
	return len(s.sorted)
}

// Strings returns the noise strings in sorted order
func (s NoiseSet) Strings() []string {
	return append([]string(nil), s.sorted...)
}

// NoiseConfig holds configuration for header/footer noise detection
type NoiseConfig struct {
	// SamplePages is how many pages are sampled from each end of the
	// document. Documents with at most 2*SamplePages pages are read whole.
	// Default: 20
	SamplePages int

	// EdgeRatio is the fraction of page height at the top and at the bottom
	// treated as header and footer regions
	// Default: 0.15
	EdgeRatio float64

	// MinFrequency is the fraction of sampled pages a text must strictly
	// exceed, within one region, to count as noise
	// Default: 0.6
	MinFrequency float64

	// MinPages is the minimum number of pages required for detection.
	// A single page would otherwise flag its own title as a header.
	// Default: 3
	MinPages int
}

// DefaultNoiseConfig returns sensible default configuration
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		SamplePages:  20,
		EdgeRatio:    0.15,
		MinFrequency: 0.6,
		MinPages:     3,
	}
}

// NoiseDetector finds texts that repeat in the header or footer region of
// most pages.
type NoiseDetector struct {
	config NoiseConfig
}

// NewNoiseDetector creates a detector with default configuration
func NewNoiseDetector() *NoiseDetector {
	return &NoiseDetector{config: DefaultNoiseConfig()}
}

// NewNoiseDetectorWithConfig creates a detector with custom configuration
func NewNoiseDetectorWithConfig(config NoiseConfig) *NoiseDetector {
	return &NoiseDetector{config: config}
}

// Detect samples the document and returns the noise set. The result only
// depends on the page contents, never on map iteration order.
func (d *NoiseDetector) Detect(pages []*model.Page) NoiseSet {
	sample := d.samplePages(pages)
	if len(sample) == 0 || len(sample) < d.config.MinPages {
		return NewNoiseSet()
	}

	headerCounts := make(map[string]int)
	footerCounts := make(map[string]int)

	for _, page := range sample {
		headers, footers := d.edgeTexts(page)
		for t := range headers {
			headerCounts[t]++
		}
		for t := range footers {
			footerCounts[t]++
		}
	}

	limit := d.config.MinFrequency * float64(len(sample))
	var texts []string
	for _, counts := range []map[string]int{headerCounts, footerCounts} {
		for t, n := range counts {
			if float64(n) > limit {
				texts = append(texts, t)
			}
		}
	}

	return NewNoiseSet(texts...)
}

// samplePages returns the first and last SamplePages pages, or every page
// of a short document
func (d *NoiseDetector) samplePages(pages []*model.Page) []*model.Page {
	var present []*model.Page
	for _, p := range pages {
		if p != nil {
			present = append(present, p)
		}
	}

	n := d.config.SamplePages
	if n <= 0 || len(present) <= 2*n {
		return present
	}

	sample := make([]*model.Page, 0, 2*n)
	sample = append(sample, present[:n]...)
	sample = append(sample, present[len(present)-n:]...)
	return sample
}

// edgeTexts collects the distinct candidate texts of a page's header and
// footer regions. Each block contributes its joined text and each of its
// line texts, so a banner split across lines on some pages still matches.
func (d *NoiseDetector) edgeTexts(page *model.Page) (headers, footers map[string]struct{}) {
	headers = make(map[string]struct{})
	footers = make(map[string]struct{})

	height := pageHeight(page)
	if height <= 0 {
		return headers, footers
	}
	top := height * d.config.EdgeRatio
	bottom := height * (1 - d.config.EdgeRatio)

	for _, tb := range page.TextBlocks() {
		var region map[string]struct{}
		switch {
		case tb.BBox.Y0 < top:
			region = headers
		case tb.BBox.Y1 > bottom:
			region = footers
		default:
			continue
		}

		if t := tb.Text(); t != "" {
			region[t] = struct{}{}
		}
		for _, line := range tb.Lines {
			if t := strings.TrimSpace(line.Text()); t != "" {
				region[t] = struct{}{}
			}
		}
	}

	return headers, footers
}

// pageHeight returns the page height, falling back to the lowest block edge
// when the decoder did not report one
func pageHeight(page *model.Page) float64 {
	if page.Height > 0 {
		return page.Height
	}
	var h float64
	for _, b := range page.Blocks {
		if y := b.Bounds().Y1; y > h {
			h = y
		}
	}
	return h
}
