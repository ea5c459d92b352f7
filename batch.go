package pagemd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/pagemd/format"
	"github.com/tsawler/pagemd/reader"
)

// FileResult is the outcome for one document of a batch
type FileResult struct {
	// Source is the input path
	Source string

	// Output is the Markdown file written
	Output string

	Result *Result
}

// BatchResult is the outcome of converting a file or a directory
type BatchResult struct {
	Files []FileResult

	// Warnings holds per-file failures and the warnings of every converted
	// document, each tagged with its source path
	Warnings []Warning
}

// Converted returns the number of documents written
func (b *BatchResult) Converted() int {
	return len(b.Files)
}

// ConvertPath converts a single source file or every supported file of a
// directory, in file name order. Each document is written to
// "<stem>.md"; images go to the asset directory beside it.
//
// output may name a Markdown file (single input only) or a directory. When
// empty, output is written beside the input.
//
// A document that cannot be opened is reported as a warning and the batch
// continues. ErrNoSources is returned only when nothing could be opened.
func (c *Converter) ConvertPath(ctx context.Context, input, output string) (*BatchResult, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSources, err)
	}

	var sources []string
	outDir := output
	if info.IsDir() {
		sources, err = listSources(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoSources, err)
		}
		if outDir == "" {
			outDir = input
		}
	} else {
		sources = []string{input}
		if outDir == "" {
			outDir = filepath.Dir(input)
		}
	}

	// A single input may name its output file directly
	var outFile string
	if !info.IsDir() && strings.EqualFold(filepath.Ext(output), ".md") {
		outFile = output
		outDir = filepath.Dir(output)
	}

	batch := &BatchResult{}
	log := c.config.Logger
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		target := outFile
		if target == "" {
			target = filepath.Join(outDir, reader.DocName(src)+".md")
		}

		res, err := c.convertTo(ctx, src, target)
		if res != nil {
			for _, w := range res.Warnings {
				w.Source = src
				batch.Warnings = append(batch.Warnings, w)
			}
		}
		if err != nil {
			if IsCancelled(err) {
				return batch, err
			}
			batch.Warnings = append(batch.Warnings, Warning{
				Kind:    WarningDecode,
				Source:  src,
				Message: "document skipped",
				Err:     err,
			})
			log.Warn().Err(err).Str("source", src).Msg("document skipped")
			continue
		}

		batch.Files = append(batch.Files, FileResult{Source: src, Output: target, Result: res})
		log.Info().
			Str("source", src).
			Str("output", target).
			Str("stats", res.Stats.String()).
			Msg("document written")
	}

	if len(batch.Files) == 0 {
		return batch, ErrNoSources
	}
	return batch, nil
}

// convertTo converts one document and writes its Markdown to target
func (c *Converter) convertTo(ctx context.Context, src, target string) (*Result, error) {
	dir := filepath.Dir(target)
	res, err := c.ConvertFile(ctx, src, dir)
	if err != nil {
		return res, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(res.Markdown), 0o644); err != nil {
		return res, fmt.Errorf("write markdown: %w", err)
	}
	return res, nil
}

// listSources returns the supported files of dir sorted by name
func listSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || !format.Supported(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}
