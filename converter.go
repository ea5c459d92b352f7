package pagemd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/pagemd/assets"
	"github.com/tsawler/pagemd/layout"
	"github.com/tsawler/pagemd/markdown"
	"github.com/tsawler/pagemd/model"
	"github.com/tsawler/pagemd/ocr"
	"github.com/tsawler/pagemd/reader"
)

// Stats summarizes a conversion
type Stats struct {
	// Pages is the number of pages the source reports
	Pages int

	// Converted is the number of pages written to the output
	Converted int

	// Skipped is the number of pages that could not be decoded
	Skipped int

	Headings int

	// Blocks accounts for every block of the converted pages. Its Images
	// count includes images whose save failed.
	Blocks layout.PageStats

	// Saved is the number of images written to the asset saver
	Saved int
}

// Result is the outcome of converting one document
type Result struct {
	// Name is the document name used for asset naming
	Name string

	Markdown string

	// Document holds the classified pages in output order
	Document *model.Document

	// Assets are the references of the images written, in output order
	Assets []string

	Sizes layout.SizeMap
	Noise layout.NoiseSet
	Stats Stats

	Warnings []Warning
}

// Converter turns decoded pages into Markdown. Font profiling and noise
// detection read every page before any page is classified; classification
// then runs on several pages at once, and assembly consumes pages strictly
// in order. A Converter holds no per-document state and may be reused.
type Converter struct {
	config        Config
	newRecognizer func() (ocr.Recognizer, error)
}

// NewConverter creates a converter with default configuration
func NewConverter() *Converter {
	return NewConverterWithConfig(DefaultConfig())
}

// NewConverterWithConfig creates a converter with custom configuration
func NewConverterWithConfig(config Config) *Converter {
	c := &Converter{config: config}
	c.newRecognizer = func() (ocr.Recognizer, error) {
		client, err := ocr.NewWithConfig(c.config.OCRConfig)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return c
}

// Config returns the converter's configuration
func (c *Converter) Config() Config {
	return c.config
}

// ConvertFile opens path and converts it, writing images to the asset
// directory under outDir. An unreadable document yields a *DecodeError.
func (c *Converter) ConvertFile(ctx context.Context, path, outDir string) (*Result, error) {
	src, err := reader.OpenWithConfig(path, c.config.PDF)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer src.Close()

	store := assets.NewFileStore(filepath.Join(outDir, c.config.assetDir()), c.config.assetDir())
	return c.Convert(ctx, src, store)
}

// Convert converts an opened source. Images go to saver; a nil saver drops
// them. When ctx is cancelled the result holds the pages assembled so far
// and the context error is returned alongside it.
func (c *Converter) Convert(ctx context.Context, src reader.Source, saver markdown.AssetSaver) (*Result, error) {
	log := c.config.Logger.With().Str("document", src.Name()).Logger()

	res := &Result{
		Name:  src.Name(),
		Stats: Stats{Pages: src.NumPages()},
	}

	if ie, ok := src.(interface{ ImageError() error }); ok {
		if err := ie.ImageError(); err != nil {
			res.warn(log, Warning{Kind: WarningBlockExtraction, Message: "images unavailable", Err: err})
		}
	}

	pages, err := c.readPages(ctx, src, res, log)
	if err != nil {
		return nil, err
	}

	// Both barriers need every page before any page is classified
	sizes, measured := layout.NewFontProfileAnalyzerWithConfig(c.config.Layout.FontProfile).Analyze(pages)
	switch {
	case !measured:
		res.warn(log, Warning{
			Kind:    WarningClassificationAmbiguity,
			Message: "no sized text found; using default size tiers " + sizes.String(),
		})
	case sizes.Levels() == 0:
		res.warn(log, Warning{
			Kind:    WarningClassificationAmbiguity,
			Message: "no heading sizes distinguishable from body " + sizes.String(),
		})
	}
	noise := layout.NewNoiseDetectorWithConfig(c.config.Layout.Noise).Detect(pages)
	res.Sizes, res.Noise = sizes, noise

	log.Debug().
		Stringer("sizes", sizes).
		Int("noise", noise.Len()).
		Msg("document profiled")

	if c.config.OCR {
		c.recognize(pages, res, log)
	}

	contents, stats, done := c.classify(ctx, pages, sizes, noise)

	cfg := markdown.DefaultConfig()
	cfg.DocName = src.Name()
	cfg.PageMarkers = c.config.PageMarkers
	cfg.Logger = log
	if c.config.Title {
		cfg.Title = TitleFromName(src.Name())
	}
	asm := markdown.NewAssembler(saver, cfg)

	doc := &model.Document{Name: src.Name()}
	var cancelled error
	for i := range contents {
		if err := ctx.Err(); err != nil || !done[i] {
			cancelled = ctx.Err()
			if cancelled == nil {
				cancelled = context.Canceled
			}
			break
		}
		asm.AddPage(contents[i])
		doc.Pages = append(doc.Pages, contents[i])
		res.Stats.Blocks.Add(stats[i])
		res.Stats.Converted++

		log.Debug().
			Int("page", contents[i].Number).
			Int("elements", len(contents[i].Elements)).
			Int("noise", stats[i].NoiseBlocks).
			Int("overlap", stats[i].OverlapBlocks).
			Msg("page converted")
	}

	for _, f := range asm.Failures() {
		res.warn(log, Warning{
			Kind:    WarningAssetWrite,
			Page:    f.Page,
			Message: "image omitted",
			Err:     &AssetWriteError{Page: f.Page, Name: f.Name, Err: f.Err},
		})
	}

	res.Markdown = asm.String()
	res.Document = doc
	res.Assets = asm.Assets()
	res.Stats.Saved = len(res.Assets)
	res.Stats.Headings = doc.Count(model.ElementHeading)

	log.Info().
		Int("pages", res.Stats.Converted).
		Int("headings", res.Stats.Headings).
		Int("tables", res.Stats.Blocks.Tables).
		Int("images", res.Stats.Blocks.Images).
		Int("saved", res.Stats.Saved).
		Int("warnings", len(res.Warnings)).
		Msg("conversion finished")

	return res, cancelled
}

// readPages decodes every page. Pages that fail are skipped and blocks that
// fail are dropped, each with a warning.
func (c *Converter) readPages(ctx context.Context, src reader.Source, res *Result, log zerolog.Logger) ([]*model.Page, error) {
	pages := make([]*model.Page, 0, src.NumPages())
	for n := 1; n <= src.NumPages(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, dropped, err := src.Page(n)
		if err != nil {
			res.Stats.Skipped++
			res.warn(log, Warning{Kind: WarningPageSkipped, Page: n, Message: "page omitted", Err: err})
			continue
		}
		for _, d := range dropped {
			res.warn(log, Warning{
				Kind:    WarningBlockExtraction,
				Page:    d.Page,
				Message: "block dropped",
				Err:     &BlockExtractionError{Page: d.Page, Block: d.Block, Err: d.Err},
			})
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// classify processes pages concurrently. done reports which pages were
// processed before ctx was cancelled.
func (c *Converter) classify(ctx context.Context, pages []*model.Page, sizes layout.SizeMap, noise layout.NoiseSet) ([]model.PageContent, []layout.PageStats, []bool) {
	proc := layout.NewPageProcessor(sizes, noise, c.config.Layout)

	contents := make([]model.PageContent, len(pages))
	stats := make([]layout.PageStats, len(pages))
	done := make([]bool, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.workers())
	for i, page := range pages {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			contents[i], stats[i] = proc.Process(page)
			done[i] = true
			return nil
		})
	}
	// Workers never fail; cancellation shows up in done
	_ = g.Wait()

	return contents, stats, done
}

// recognize adds OCR text after each image of pages without text blocks.
// The recognizer is created on first use and is not shared across
// goroutines.
func (c *Converter) recognize(pages []*model.Page, res *Result, log zerolog.Logger) {
	var rec ocr.Recognizer
	for _, page := range pages {
		if len(page.TextBlocks()) > 0 || len(page.ImageBlocks()) == 0 {
			continue
		}
		if rec == nil {
			r, err := c.newRecognizer()
			if err != nil {
				res.warn(log, Warning{Kind: WarningOCR, Page: page.Number, Message: "text recognition unavailable", Err: err})
				return
			}
			rec = r
			defer rec.Close()
		}

		blocks := make([]model.Block, 0, len(page.Blocks))
		for _, b := range page.Blocks {
			blocks = append(blocks, b)
			img, ok := b.(*model.ImageBlock)
			if !ok {
				continue
			}
			text, err := rec.RecognizeImage(img.Data)
			if err != nil {
				res.warn(log, Warning{Kind: WarningOCR, Page: page.Number, Message: "image not recognized", Err: err})
				continue
			}
			if tb := ocrBlock(text, img.BBox); tb != nil {
				blocks = append(blocks, tb)
			}
		}
		page.Blocks = blocks
	}
}

// ocrBlock turns recognized text into a text block sharing the image's
// position, so ordering keeps it right after the image
func ocrBlock(text string, bbox model.BBox) *model.TextBlock {
	lines := ocr.Lines(text)
	if len(lines) == 0 {
		return nil
	}
	tb := &model.TextBlock{BBox: bbox}
	for _, l := range lines {
		tb.Lines = append(tb.Lines, model.Line{Spans: []model.Span{{Text: l}}})
	}
	return tb
}

func (r *Result) warn(log zerolog.Logger, w Warning) {
	r.Warnings = append(r.Warnings, w)

	ev := log.Warn().Str("kind", w.Kind.String())
	if w.Page > 0 {
		ev = ev.Int("page", w.Page)
	}
	if w.Err != nil {
		ev = ev.Err(w.Err)
	}
	ev.Msg(w.Message)
}

var orderingPrefix = regexp.MustCompile(`^\d+-`)

// TitleFromName derives a document title from its name by removing a
// leading "NN-" ordering prefix, as in "01-Introduction"
func TitleFromName(name string) string {
	return orderingPrefix.ReplaceAllString(name, "")
}

// IsCancelled reports whether err came from a cancelled or expired context
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (s Stats) String() string {
	return fmt.Sprintf("%d/%d pages, %d headings, %d tables, %d images (%d saved)",
		s.Converted, s.Pages, s.Headings, s.Blocks.Tables, s.Blocks.Images, s.Saved)
}
