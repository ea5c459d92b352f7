package pagemd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tsawler/pagemd/assets"
	"github.com/tsawler/pagemd/markdown"
	"github.com/tsawler/pagemd/reader"
)

// Extractor provides a fluent interface for converting one document.
// Each configuration method returns a new Extractor instance, so a
// partially configured Extractor can be shared and extended safely.
type Extractor struct {
	// Source
	path   string
	source reader.Source

	// Where images go; nil means the asset directory beside the source
	saver    markdown.AssetSaver
	saverSet bool

	config Config
}

// clone creates a copy of the Extractor with a deep copy of its config
func (e *Extractor) clone() *Extractor {
	out := *e
	out.config = e.config.clone()
	return &out
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// WithConfig replaces the whole configuration
func (e *Extractor) WithConfig(config Config) *Extractor {
	out := e.clone()
	out.config = config.clone()
	return out
}

// Title writes a level 1 heading derived from the document name before
// page 1.
//
// Example:
//
//	md, _, err := pagemd.Open("01-Introduction.pdf").Title().Markdown()
//	// md starts with "# Introduction"
func (e *Extractor) Title() *Extractor {
	out := e.clone()
	out.config.Title = true
	return out
}

// NoPageMarkers omits the "<!-- Page N -->" lines between pages
func (e *Extractor) NoPageMarkers() *Extractor {
	out := e.clone()
	out.config.PageMarkers = false
	return out
}

// Workers bounds how many pages are classified concurrently
func (e *Extractor) Workers(n int) *Extractor {
	out := e.clone()
	out.config.Workers = n
	return out
}

// OCR enables text recognition for image-only pages. Languages default to
// English.
func (e *Extractor) OCR(languages ...string) *Extractor {
	out := e.clone()
	out.config.OCR = true
	if len(languages) > 0 {
		out.config.OCRConfig.Languages = append([]string(nil), languages...)
	}
	return out
}

// AssetDir sets the directory name images are written to and referenced by
func (e *Extractor) AssetDir(dir string) *Extractor {
	out := e.clone()
	out.config.AssetDir = dir
	return out
}

// Assets sends images to saver instead of the asset directory. A nil saver
// drops images.
func (e *Extractor) Assets(saver markdown.AssetSaver) *Extractor {
	out := e.clone()
	out.saver = saver
	out.saverSet = true
	return out
}

// Logger sets the logger for progress and warnings
func (e *Extractor) Logger(l zerolog.Logger) *Extractor {
	out := e.clone()
	out.config.Logger = l
	return out
}

// ============================================================================
// Terminal Methods
// ============================================================================

// Markdown converts the document.
//
// Example:
//
//	md, warnings, err := pagemd.Open("report.pdf").Markdown()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pagemd.FormatWarnings(warnings))
//	}
func (e *Extractor) Markdown() (string, []Warning, error) {
	return e.MarkdownContext(context.Background())
}

// MarkdownContext converts the document, stopping between pages when ctx
// is cancelled. The Markdown assembled before cancellation is returned
// with the context error.
func (e *Extractor) MarkdownContext(ctx context.Context) (string, []Warning, error) {
	res, err := e.Convert(ctx)
	if res == nil {
		return "", nil, err
	}
	return res.Markdown, res.Warnings, err
}

// Convert converts the document and returns the full result
func (e *Extractor) Convert(ctx context.Context) (*Result, error) {
	conv := NewConverterWithConfig(e.config)

	src := e.source
	if src == nil {
		if e.path == "" {
			return nil, fmt.Errorf("no source specified")
		}
		opened, err := reader.OpenWithConfig(e.path, e.config.PDF)
		if err != nil {
			return nil, &DecodeError{Path: e.path, Err: err}
		}
		defer opened.Close()
		src = opened
	}

	saver := e.saver
	if !e.saverSet {
		dir := "."
		if e.path != "" {
			dir = filepath.Dir(e.path)
		}
		saver = assets.NewFileStore(filepath.Join(dir, e.config.assetDir()), e.config.assetDir())
	}

	return conv.Convert(ctx, src, saver)
}

// PageCount returns the number of pages in the document
func (e *Extractor) PageCount() (int, error) {
	if e.source != nil {
		return e.source.NumPages(), nil
	}
	src, err := reader.OpenWithConfig(e.path, e.config.PDF)
	if err != nil {
		return 0, &DecodeError{Path: e.path, Err: err}
	}
	defer src.Close()
	return src.NumPages(), nil
}
