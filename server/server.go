// Package server exposes conversion over HTTP.
//
// Routes:
//
//	POST /v1/convert?name=<doc>          body: layout dump or PDF
//	GET  /v1/assets/{id}/{name}          an image written by a conversion
//	GET  /healthz
//
// Each conversion gets a fresh id; its images are written under
// <root>/<id>/<asset dir>.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tsawler/pagemd"
	"github.com/tsawler/pagemd/assets"
	"github.com/tsawler/pagemd/format"
	"github.com/tsawler/pagemd/reader"
)

// Config holds server configuration
type Config struct {
	// Root is the directory conversions write their assets to
	Root string

	// MaxBodyBytes limits the size of an uploaded document
	// Default: 64 MiB
	MaxBodyBytes int64

	// Convert configures every conversion
	Convert pagemd.Config

	Logger zerolog.Logger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Root:         filepath.Join(os.TempDir(), "pagemd"),
		MaxBodyBytes: 64 << 20,
		Convert:      pagemd.DefaultConfig(),
		Logger:       zerolog.Nop(),
	}
}

// Server handles conversion requests
type Server struct {
	config    Config
	converter *pagemd.Converter
	router    *chi.Mux
}

// New creates a server
func New(config Config) *Server {
	convert := config.Convert
	convert.Logger = config.Logger

	s := &Server{
		config:    config,
		converter: pagemd.NewConverterWithConfig(convert),
		router:    chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/v1/convert", s.handleConvert)
	s.router.Get("/v1/assets/{id}/{name}", s.handleAsset)

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ConvertResponse is the body of a successful conversion
type ConvertResponse struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Markdown string        `json:"markdown"`
	Assets   []string      `json:"assets"`
	Warnings []WarningJSON `json:"warnings"`
	Stats    StatsJSON     `json:"stats"`
}

// WarningJSON is the wire form of a pagemd.Warning
type WarningJSON struct {
	Kind    string `json:"kind"`
	Page    int    `json:"page,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// StatsJSON is the wire form of pagemd.Stats
type StatsJSON struct {
	Pages     int `json:"pages"`
	Converted int `json:"converted"`
	Skipped   int `json:"skipped"`
	Headings  int `json:"headings"`
	Tables    int `json:"tables"`
	Images    int `json:"images"`
	Saved     int `json:"saved"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// handleConvert converts the request body.
// POST /v1/convert?name=<doc>
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	name := cleanName(r.URL.Query().Get("name"))
	id := uuid.New().String()
	dir := filepath.Join(s.config.Root, id)

	src, err := s.openSource(dir, name, body)
	if err != nil {
		if errors.Is(err, reader.ErrUnsupported) {
			http.Error(w, "unsupported document format", http.StatusUnsupportedMediaType)
			return
		}
		http.Error(w, "invalid document: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer src.Close()

	assetDir := s.converter.Config().AssetDir
	if assetDir == "" {
		assetDir = assets.DefaultDir
	}
	store := assets.NewFileStore(filepath.Join(dir, assetDir), assetDir)

	res, err := s.converter.Convert(r.Context(), src, store)
	if err != nil {
		s.config.Logger.Warn().Err(err).Str("id", id).Msg("conversion aborted")
		http.Error(w, "conversion aborted", http.StatusServiceUnavailable)
		return
	}

	resp := ConvertResponse{
		ID:       id,
		Name:     res.Name,
		Markdown: res.Markdown,
		Assets:   res.Assets,
		Warnings: make([]WarningJSON, 0, len(res.Warnings)),
		Stats: StatsJSON{
			Pages:     res.Stats.Pages,
			Converted: res.Stats.Converted,
			Skipped:   res.Stats.Skipped,
			Headings:  res.Stats.Headings,
			Tables:    res.Stats.Blocks.Tables,
			Images:    res.Stats.Blocks.Images,
			Saved:     res.Stats.Saved,
		},
	}
	if resp.Assets == nil {
		resp.Assets = []string{}
	}
	for _, wa := range res.Warnings {
		wj := WarningJSON{Kind: wa.Kind.String(), Page: wa.Page, Message: wa.Message}
		if wa.Err != nil {
			wj.Error = wa.Err.Error()
		}
		resp.Warnings = append(resp.Warnings, wj)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.config.Logger.Error().Err(err).Str("id", id).Msg("failed to write response")
	}
}

// openSource decodes the body as a layout dump, or stores it and opens it
// as a PDF
func (s *Server) openSource(dir, name string, body []byte) (reader.Source, error) {
	switch format.DetectFromMagic(body) {
	case format.LayoutJSON:
		src, err := reader.OpenLayout(name, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		return src, nil

	case format.PDF:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create work directory: %w", err)
		}
		path := filepath.Join(dir, name+".pdf")
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return nil, fmt.Errorf("store upload: %w", err)
		}
		src, err := reader.OpenPDFWithConfig(path, s.config.Convert.PDF)
		if err != nil {
			return nil, err
		}
		return src, nil

	default:
		return nil, reader.ErrUnsupported
	}
}

// handleAsset serves an image written by an earlier conversion.
// GET /v1/assets/{id}/{name}
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	name := chi.URLParam(r, "name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.Error(w, "invalid asset name", http.StatusBadRequest)
		return
	}

	assetDir := s.converter.Config().AssetDir
	if assetDir == "" {
		assetDir = assets.DefaultDir
	}
	path := filepath.Join(s.config.Root, id, assetDir, name)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// cleanName turns the name parameter into a safe document name
func cleanName(name string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "." || name == "/" || name == ".." {
		return "document"
	}
	if name = reader.DocName(name); name == "" {
		return "document"
	}
	return name
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.config.Logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
