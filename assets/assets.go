// Package assets persists images extracted from documents.
//
// Stores receive a bare file name such as "report_p3_0.png" and return the
// relative reference the Markdown output should use, such as
// "images/report_p3_0.png". [FileStore] writes to disk; [MemoryStore]
// keeps everything in memory for tests and the HTTP server.
package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// DefaultDir is the relative directory images are referenced from
const DefaultDir = "images"

// Ext returns the file extension for image data, without the dot. The
// decoded format wins over the hint; the hint is kept when it names the
// same format ("jpg" for JPEG data) or when the data is in a format Go
// cannot decode (JPEG 2000, JBIG2).
func Ext(data []byte, hint string) string {
	hint = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(hint), "."))

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if hint == "" {
			return "bin"
		}
		return hint
	}

	switch {
	case format == "jpeg" && (hint == "jpg" || hint == "jpeg"):
		return hint
	case format == "tiff" && (hint == "tif" || hint == "tiff"):
		return hint
	}
	return format
}

// FileName builds the asset name for the seq-th image of a document:
// "<doc>_p<page>_<seq>.<ext>". Spaces in the document name become
// underscores.
func FileName(doc string, page, seq int, ext string) string {
	doc = strings.ReplaceAll(strings.TrimSpace(doc), " ", "_")
	if doc == "" {
		doc = "document"
	}
	return fmt.Sprintf("%s_p%d_%d.%s", doc, page, seq, ext)
}

// FileStore writes assets into a directory on disk
type FileStore struct {
	dir string // where files are written
	ref string // how the output refers to dir

	mu      sync.Mutex
	written []string
}

// NewFileStore creates a store writing into dir. ref is the relative
// directory used in references; empty means [DefaultDir].
func NewFileStore(dir, ref string) *FileStore {
	if ref == "" {
		ref = DefaultDir
	}
	return &FileStore{dir: dir, ref: ref}
}

// Save writes data under name and returns its reference. The directory
// is created on first use.
func (s *FileStore) Save(name string, data []byte) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid asset name %q", name)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}

	full := filepath.Join(s.dir, name)
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}

	s.mu.Lock()
	s.written = append(s.written, full)
	s.mu.Unlock()

	return path.Join(s.ref, name), nil
}

// Files returns the paths written so far, in write order
func (s *FileStore) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.written...)
}

// MemoryStore keeps assets in memory
type MemoryStore struct {
	ref string

	mu    sync.Mutex
	files map[string][]byte
}

// NewMemoryStore creates an empty store. ref is the relative directory
// used in references; empty means [DefaultDir].
func NewMemoryStore(ref string) *MemoryStore {
	if ref == "" {
		ref = DefaultDir
	}
	return &MemoryStore{ref: ref, files: make(map[string][]byte)}
}

// Save records a copy of data under name
func (s *MemoryStore) Save(name string, data []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("invalid asset name %q", name)
	}
	s.mu.Lock()
	s.files[name] = append([]byte(nil), data...)
	s.mu.Unlock()
	return path.Join(s.ref, name), nil
}

// Get returns the data stored under name
func (s *MemoryStore) Get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}

// Names returns the stored names in sorted order
func (s *MemoryStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
