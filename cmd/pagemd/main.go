// Command pagemd converts a layout document, or every document in a
// directory, to Markdown.
//
//	pagemd [flags] <file-or-directory>
//
// The exit status is 1 when no document could be opened at all, 2 on a
// usage or configuration error and 130 when the run was interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tsawler/pagemd"
)

// exitInterrupted is the shell convention for a run stopped by SIGINT
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	log.Logger = logger

	fs := flag.NewFlagSet("pagemd", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		output     string
		configPath string
		assetDir   string
		title      bool
		noMarkers  bool
		workers    int
		enableOCR  bool
		ocrLangs   string
		verbose    bool
	)
	fs.StringVar(&output, "o", "", "Output Markdown file or directory (default: beside the input)")
	fs.StringVar(&configPath, "config", "", "Path to a YAML or JSON configuration file")
	fs.StringVar(&assetDir, "assets", "", "Image directory name, relative to the output (default \"images\")")
	fs.BoolVar(&title, "title", false, "Write a title derived from the file name")
	fs.BoolVar(&noMarkers, "no-page-markers", false, "Omit <!-- Page N --> markers")
	fs.IntVar(&workers, "workers", 0, "Pages classified concurrently (0 = GOMAXPROCS)")
	fs.BoolVar(&enableOCR, "ocr", false, "Recognize text on image-only pages (needs a build with -tags ocr)")
	fs.StringVar(&ocrLangs, "ocr.lang", "", "OCR languages, e.g. \"eng+deu\"")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: pagemd [flags] <file-or-directory>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := pagemd.DefaultConfig()
	if configPath != "" {
		fc, err := pagemd.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("failed to load config")
			return 2
		}
		if err := fc.Apply(&cfg); err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("invalid config")
			return 2
		}
	}

	// Flags win over the config file
	if assetDir != "" {
		cfg.AssetDir = assetDir
	}
	if title {
		cfg.Title = true
	}
	if noMarkers {
		cfg.PageMarkers = false
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if enableOCR {
		cfg.OCR = true
	}
	if ocrLangs != "" {
		cfg.OCRConfig.Languages = strings.Split(ocrLangs, "+")
	}
	cfg.Logger = logger

	batch, err := pagemd.NewConverterWithConfig(cfg).ConvertPath(ctx, fs.Arg(0), output)
	if batch != nil {
		for _, w := range batch.Warnings {
			log.Warn().Msg(w.String())
		}
	}

	switch {
	case errors.Is(err, pagemd.ErrNoSources):
		log.Error().Err(err).Str("input", fs.Arg(0)).Msg("nothing converted")
		return 1
	case pagemd.IsCancelled(err):
		log.Error().Err(err).Int("documents", batch.Converted()).Msg("conversion interrupted")
		return exitInterrupted
	case err != nil:
		log.Error().Err(err).Msg("conversion failed")
		return 1
	}

	log.Info().
		Int("documents", batch.Converted()).
		Int("warnings", len(batch.Warnings)).
		Msg("done")
	return 0
}
