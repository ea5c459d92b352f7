package layout

import (
	"sort"

	"github.com/tsawler/pagemd/model"
)

// OrderConfig holds configuration for block ordering
type OrderConfig struct {
	// TableOverlapRatio is the fraction of a text block's own area that a
	// table must cover for the block to be dropped as already represented
	// in the table markup
	// Default: 0.6
	TableOverlapRatio float64
}

// DefaultOrderConfig returns sensible default configuration
func DefaultOrderConfig() OrderConfig {
	return OrderConfig{
		TableOverlapRatio: 0.6,
	}
}

// OrderStats counts what the orderer did with a page's text blocks
type OrderStats struct {
	TextBlocks     int // text blocks supplied by the decoder
	NoiseDropped   int // whole blocks matching the noise set
	OverlapDropped int // blocks covered by a table
}

// SpatialOrderer filters a page's blocks and sorts them top to bottom
type SpatialOrderer struct {
	config OrderConfig
	noise  NoiseSet
}

// NewSpatialOrderer creates an orderer with default configuration
func NewSpatialOrderer(noise NoiseSet) *SpatialOrderer {
	return NewSpatialOrdererWithConfig(noise, DefaultOrderConfig())
}

// NewSpatialOrdererWithConfig creates an orderer with custom configuration
func NewSpatialOrdererWithConfig(noise NoiseSet, config OrderConfig) *SpatialOrderer {
	return &SpatialOrderer{config: config, noise: noise}
}

// Order returns the retained blocks in reading order. Text blocks matching
// the noise set or mostly covered by a table are dropped; ties on top-y keep
// discovery order.
func (o *SpatialOrderer) Order(page *model.Page) ([]model.Block, OrderStats) {
	var stats OrderStats
	if page == nil {
		return nil, stats
	}

	tables := page.TableBlocks()

	kept := make([]model.Block, 0, len(page.Blocks))
	for _, b := range page.Blocks {
		tb, ok := b.(*model.TextBlock)
		if !ok {
			if b != nil {
				kept = append(kept, b)
			}
			continue
		}

		stats.TextBlocks++
		switch {
		case o.noise.Contains(tb.Text()):
			stats.NoiseDropped++
		case o.coveredByTable(tb, tables):
			stats.OverlapDropped++
		default:
			kept = append(kept, tb)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Bounds().Top() < kept[j].Bounds().Top()
	})

	return kept, stats
}

func (o *SpatialOrderer) coveredByTable(tb *model.TextBlock, tables []*model.TableBlock) bool {
	for _, t := range tables {
		if tb.BBox.CoverageBy(t.BBox) > o.config.TableOverlapRatio {
			return true
		}
	}
	return false
}
