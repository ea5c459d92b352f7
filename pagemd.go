// Package pagemd converts page-layout documents into Markdown.
//
// A document is read page by page into positioned text blocks, images and
// tables. Font sizes across the whole document decide heading levels,
// text repeated in the page margins is dropped as running headers and
// footers, and the remaining lines are classified into headings,
// paragraphs, list items and code before being written out in reading
// order.
//
// Basic usage:
//
//	md, warnings, err := pagemd.Open("report.pdf").Markdown()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pagemd.FormatWarnings(warnings))
//	}
//
// With options:
//
//	md, _, err := pagemd.Open("01-Guide.layout.json").
//	    Title().
//	    Assets(assets.NewMemoryStore("images")).
//	    Markdown()
//
// Whole directories are converted with Converter.ConvertPath. The lower
// level layout, markdown and reader packages are also available.
package pagemd

import (
	"github.com/tsawler/pagemd/reader"
)

// Open returns an Extractor for the document at path. Images are written to
// the asset directory beside the document unless Assets is used.
//
// Example:
//
//	md, warnings, err := pagemd.Open("document.pdf").Markdown()
func Open(path string) *Extractor {
	return &Extractor{
		path:   path,
		config: DefaultConfig(),
	}
}

// FromSource creates an Extractor for an already opened source.
// The caller is responsible for closing the source.
//
// Example:
//
//	src, err := reader.OpenLayout("doc", r)
//	if err != nil {
//	    // handle error
//	}
//	md, warnings, err := pagemd.FromSource(src).Assets(store).Markdown()
func FromSource(src reader.Source) *Extractor {
	return &Extractor{
		source: src,
		config: DefaultConfig(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := pagemd.Must(pagemd.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to Markdown() and panics if the
// error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	md := pagemd.MustText(pagemd.Open("document.pdf").Markdown())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
