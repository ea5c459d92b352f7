package layout

import (
	"strings"

	"github.com/tsawler/pagemd/model"
)

// PageStats accounts for every text block of a page. For any page,
// TextBlocks == EmittedBlocks + NoiseBlocks + OverlapBlocks + EmptyBlocks.
type PageStats struct {
	TextBlocks    int
	EmittedBlocks int // blocks that produced at least one element
	NoiseBlocks   int // whole blocks matching the noise set
	OverlapBlocks int // blocks covered by a table
	EmptyBlocks   int // blocks left with no text after line filtering
	NoiseLines    int // individual lines matching the noise set
	Tables        int
	Images        int
}

// Add accumulates another page's stats
func (s *PageStats) Add(o PageStats) {
	s.TextBlocks += o.TextBlocks
	s.EmittedBlocks += o.EmittedBlocks
	s.NoiseBlocks += o.NoiseBlocks
	s.OverlapBlocks += o.OverlapBlocks
	s.EmptyBlocks += o.EmptyBlocks
	s.NoiseLines += o.NoiseLines
	s.Tables += o.Tables
	s.Images += o.Images
}

// PageProcessor runs ordering, classification and merging for one page.
// It only reads the shared SizeMap and NoiseSet, so one processor may be
// used from several goroutines at once.
type PageProcessor struct {
	noise      NoiseSet
	orderer    *SpatialOrderer
	classifier *LineClassifier
	paragraphs *ParagraphMerger
	headings   *HeadingMerger
}

// NewPageProcessor creates a processor for one document
func NewPageProcessor(sizes SizeMap, noise NoiseSet, config Config) *PageProcessor {
	return &PageProcessor{
		noise:      noise,
		orderer:    NewSpatialOrdererWithConfig(noise, config.Order),
		classifier: NewLineClassifierWithConfig(sizes, config.Heading, config.Code),
		paragraphs: NewParagraphMergerWithConfig(config.Paragraph),
		headings:   NewHeadingMergerWithConfig(config.HeadingMerge),
	}
}

// Classifier returns the line classifier used by the processor
func (p *PageProcessor) Classifier() *LineClassifier {
	return p.classifier
}

// Process classifies one page into ordered elements
func (p *PageProcessor) Process(page *model.Page) (model.PageContent, PageStats) {
	var stats PageStats
	if page == nil {
		return model.PageContent{}, stats
	}

	blocks, order := p.orderer.Order(page)
	stats.TextBlocks = order.TextBlocks
	stats.NoiseBlocks = order.NoiseDropped
	stats.OverlapBlocks = order.OverlapDropped

	var elements []model.PageElement
	for _, b := range blocks {
		switch blk := b.(type) {
		case *model.TextBlock:
			emitted := false
			for _, line := range blk.Lines {
				if p.noise.Contains(line.Text()) {
					stats.NoiseLines++
					continue
				}
				elem, ok := p.classifier.Classify(line)
				if !ok {
					continue
				}
				if elem.Y == 0 && line.BBox.IsEmpty() {
					elem.Y = blk.BBox.Y0
				}
				elements = append(elements, elem)
				emitted = true
			}
			if emitted {
				stats.EmittedBlocks++
			} else {
				stats.EmptyBlocks++
			}

		case *model.TableBlock:
			markup := strings.TrimSpace(blk.Markup)
			if markup == "" {
				continue
			}
			stats.Tables++
			elements = append(elements, model.PageElement{
				Kind:    model.ElementTable,
				Content: markup,
				Y:       blk.BBox.Y0,
			})

		case *model.ImageBlock:
			if len(blk.Data) == 0 {
				continue
			}
			stats.Images++
			elements = append(elements, model.PageElement{
				Kind:  model.ElementImage,
				Y:     blk.BBox.Y0,
				Image: blk,
			})
		}
	}

	elements = p.paragraphs.Merge(elements)
	elements = p.headings.Merge(elements)

	return model.PageContent{Number: page.Number, Elements: elements}, stats
}
