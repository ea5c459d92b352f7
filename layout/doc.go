// Package layout recovers document structure from decoded pages.
//
// Two document-wide passes run first and act as barriers:
//
//   - [FontProfileAnalyzer] - builds the [SizeMap] (body size and h1-h3 thresholds)
//   - [NoiseDetector] - builds the [NoiseSet] of repeating headers and footers
//
// Both results are immutable and are shared by every page afterwards. Each
// page is then handled independently by a [PageProcessor], which chains:
//
//   - [SpatialOrderer] - drops noise and table-covered text, sorts by top-y
//   - [LineClassifier] - tags each line through an ordered [Rule] table
//   - [ParagraphMerger] - joins wrapped paragraph lines, strips page footers
//   - [HeadingMerger] - rejoins headings split across text runs
//
// # Usage
//
//	cfg := layout.DefaultConfig()
//	sizes, _ := layout.NewFontProfileAnalyzerWithConfig(cfg.FontProfile).Analyze(pages)
//	noise := layout.NewNoiseDetectorWithConfig(cfg.Noise).Detect(pages)
//	proc := layout.NewPageProcessor(sizes, noise, cfg)
//	for _, p := range pages {
//		content, stats := proc.Process(p)
//		...
//	}
//
// # Configuration
//
// Every threshold is a field on a config struct with a Default*Config
// constructor. [DefaultConfig] aggregates them all.
package layout
