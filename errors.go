package pagemd

import (
	"errors"
	"fmt"
)

// ErrNoSources is returned by a batch conversion when not a single source
// document could be opened
var ErrNoSources = errors.New("no source document could be opened")

// DecodeError reports a source document that could not be read. It is fatal
// for that document only.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// AssetWriteError reports an image that could not be persisted. The image
// reference is omitted from the output.
type AssetWriteError struct {
	Page int
	Name string
	Err  error
}

func (e *AssetWriteError) Error() string {
	return fmt.Sprintf("page %d: write asset %s: %v", e.Page, e.Name, e.Err)
}

func (e *AssetWriteError) Unwrap() error {
	return e.Err
}

// BlockExtractionError reports a block that was dropped because it could
// not be decoded. Block is -1 when the failure covers a page's images.
type BlockExtractionError struct {
	Page  int
	Block int
	Err   error
}

func (e *BlockExtractionError) Error() string {
	if e.Block < 0 {
		return fmt.Sprintf("page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("page %d block %d: %v", e.Page, e.Block, e.Err)
}

func (e *BlockExtractionError) Unwrap() error {
	return e.Err
}
