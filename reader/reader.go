package reader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/pagemd/format"
	"github.com/tsawler/pagemd/model"
)

// ErrUnsupported is returned for files in a format no reader handles
var ErrUnsupported = errors.New("unsupported source format")

// Source is an opened document whose pages can be decoded one at a time
type Source interface {
	// Name is the document name used for asset naming, usually the file
	// name without its extension
	Name() string

	// NumPages returns the number of pages
	NumPages() int

	// Page decodes page n (1-based)
	Page(n int) (*model.Page, []BlockError, error)

	Close() error
}

// BlockError describes a block that could not be decoded. Block is the
// index within the page, or -1 when the failure is not tied to one block.
type BlockError struct {
	Page  int
	Block int
	Err   error
}

func (e *BlockError) Error() string {
	if e.Block < 0 {
		return fmt.Sprintf("page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("page %d block %d: %v", e.Page, e.Block, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// Open opens a source file with default PDF configuration
func Open(path string) (Source, error) {
	return OpenWithConfig(path, DefaultPDFConfig())
}

// OpenWithConfig opens a source file, choosing the reader by extension and
// falling back to content sniffing
func OpenWithConfig(path string, config PDFConfig) (Source, error) {
	f := format.Detect(path)
	if f == format.Unknown {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		f, err = format.DetectFromReader(file)
		file.Close()
		if err != nil {
			return nil, err
		}
	}

	switch f {
	case format.PDF:
		src, err := OpenPDFWithConfig(path, config)
		if err != nil {
			return nil, err
		}
		return src, nil
	case format.LayoutJSON:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		src, err := OpenLayout(DocName(path), bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
}

// DocName returns the file name of path without its extension. A
// ".layout.json" suffix is removed whole.
func DocName(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(base), ".layout.json") {
		return base[:len(base)-len(".layout.json")]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func checkPage(n, count int) error {
	if n < 1 || n > count {
		return fmt.Errorf("page %d out of range [1, %d]", n, count)
	}
	return nil
}
