package pagemd

import (
	"regexp"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/tsawler/pagemd/assets"
	"github.com/tsawler/pagemd/layout"
	"github.com/tsawler/pagemd/ocr"
	"github.com/tsawler/pagemd/reader"
)

// Config holds conversion configuration
type Config struct {
	// Layout configures every analysis stage
	Layout layout.Config

	// PDF configures native PDF decoding
	PDF reader.PDFConfig

	// AssetDir is the directory name, relative to the Markdown file, where
	// images are written and which image references point into
	// Default: "images"
	AssetDir string

	// Title writes "# <name>" before page 1, where name is the document
	// name without a leading "NN-" ordering prefix
	// Default: false
	Title bool

	// PageMarkers writes "<!-- Page N -->" between pages
	// Default: true
	PageMarkers bool

	// Workers bounds how many pages are classified at once. Zero or less
	// uses GOMAXPROCS.
	// Default: 0
	Workers int

	// OCR recognizes text in the images of pages that have no text
	// blocks. It needs a binary built with the "ocr" tag.
	// Default: false
	OCR bool

	// OCRConfig configures recognition when OCR is set
	OCRConfig ocr.Config

	// Logger receives progress and warnings
	// Default: zerolog.Nop()
	Logger zerolog.Logger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Layout:      layout.DefaultConfig(),
		PDF:         reader.DefaultPDFConfig(),
		AssetDir:    assets.DefaultDir,
		PageMarkers: true,
		OCRConfig:   ocr.DefaultConfig(),
		Logger:      zerolog.Nop(),
	}
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c Config) assetDir() string {
	if c.AssetDir == "" {
		return assets.DefaultDir
	}
	return c.AssetDir
}

// clone copies the configuration, including the slices it holds
func (c Config) clone() Config {
	out := c
	out.Layout.Code.MonospaceFonts = append([]string(nil), c.Layout.Code.MonospaceFonts...)
	out.Layout.Paragraph.FooterPatterns = append([]*regexp.Regexp(nil), c.Layout.Paragraph.FooterPatterns...)
	out.OCRConfig.Languages = append([]string(nil), c.OCRConfig.Languages...)
	return out
}
