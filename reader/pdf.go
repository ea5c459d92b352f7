package reader

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/pagemd/model"
)

// PDFConfig holds configuration for PDF glyph grouping
type PDFConfig struct {
	// LineTolerance is the baseline difference, as a fraction of the font
	// size, within which glyphs share a line
	// Default: 0.5
	LineTolerance float64

	// WordGap is the horizontal gap, as a fraction of the font size, above
	// which a space is inserted between glyphs
	// Default: 0.25
	WordGap float64

	// BlockGap is the baseline distance, as a multiple of the font size,
	// above which a new block starts
	// Default: 1.5
	BlockGap float64

	// Images enables embedded image extraction
	// Default: true
	Images bool
}

// DefaultPDFConfig returns sensible default configuration
func DefaultPDFConfig() PDFConfig {
	return PDFConfig{
		LineTolerance: 0.5,
		WordGap:       0.25,
		BlockGap:      1.5,
		Images:        true,
	}
}

// Letter size, used when a page has no readable MediaBox
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// PDFSource reads pages from a PDF file
type PDFSource struct {
	name   string
	config PDFConfig

	file *os.File
	text *pdf.Reader

	images   *pdfmodel.Context
	imageErr error
}

// OpenPDF opens a PDF with default configuration
func OpenPDF(path string) (*PDFSource, error) {
	return OpenPDFWithConfig(path, DefaultPDFConfig())
}

// OpenPDFWithConfig opens a PDF. Text is read with ledongthuc/pdf; images
// come from a separate pdfcpu context. A PDF that pdfcpu rejects is still
// read for text, and ImageError reports why images are missing.
func OpenPDFWithConfig(path string, config PDFConfig) (src *PDFSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("open pdf: %v", r)
		}
	}()

	file, text, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	src = &PDFSource{
		name:   DocName(path),
		config: config,
		file:   file,
		text:   text,
	}
	if config.Images {
		src.images, src.imageErr = readImageContext(path)
	}
	return src, nil
}

func readImageContext(path string) (ctx *pdfmodel.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctx, err = nil, fmt.Errorf("read image context: %v", r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx, err = api.ReadValidateAndOptimize(f, pdfmodel.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read image context: %w", err)
	}
	return ctx, nil
}

// Name returns the document name
func (s *PDFSource) Name() string {
	return s.name
}

// NumPages returns the number of pages
func (s *PDFSource) NumPages() int {
	return s.text.NumPage()
}

// ImageError reports why images could not be extracted, if they could not
func (s *PDFSource) ImageError() error {
	return s.imageErr
}

// Close closes the underlying file
func (s *PDFSource) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// Page decodes page n. Malformed content streams make the decoder panic;
// that is reported as a page error.
func (s *PDFSource) Page(n int) (page *model.Page, dropped []BlockError, err error) {
	if err := checkPage(n, s.NumPages()); err != nil {
		return nil, nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			page, dropped, err = nil, nil, fmt.Errorf("decode page %d: %v", n, r)
		}
	}()

	p := s.text.Page(n)
	if p.V.IsNull() {
		return nil, nil, fmt.Errorf("page %d not found", n)
	}

	width, height := pageSize(p)
	page = &model.Page{Number: n, Width: width, Height: height}

	for _, tb := range groupGlyphs(p.Content().Text, height, s.config) {
		page.Blocks = append(page.Blocks, tb)
	}

	if s.images != nil {
		imgs, err := pageImages(s.images, n, width, height)
		if err != nil {
			dropped = append(dropped, BlockError{Page: n, Block: -1, Err: err})
		}
		for _, img := range imgs {
			page.Blocks = append(page.Blocks, img)
		}
	}

	return page, dropped, nil
}

// pageSize reads the MediaBox, falling back to Letter
func pageSize(p pdf.Page) (float64, float64) {
	box := p.V.Key("MediaBox")
	if box.IsNull() || box.Len() != 4 {
		return defaultPageWidth, defaultPageHeight
	}
	w := math.Abs(box.Index(2).Float64() - box.Index(0).Float64())
	h := math.Abs(box.Index(3).Float64() - box.Index(1).Float64())
	if w <= 0 || h <= 0 {
		return defaultPageWidth, defaultPageHeight
	}
	return w, h
}

// pageImages extracts a page's images. Their position is unknown, so
// they are placed at the bottom edge of the page in object order.
func pageImages(ctx *pdfmodel.Context, n int, width, height float64) ([]*model.ImageBlock, error) {
	found, err := pdfcpu.ExtractPageImages(ctx, n, false)
	if err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}

	objNrs := make([]int, 0, len(found))
	for nr := range found {
		objNrs = append(objNrs, nr)
	}
	sort.Ints(objNrs)

	var out []*model.ImageBlock
	for _, nr := range objNrs {
		img := found[nr]
		if img.Reader == nil {
			continue
		}
		data, err := io.ReadAll(img)
		if err != nil || len(data) == 0 {
			continue
		}
		out = append(out, &model.ImageBlock{
			Data: data,
			Ext:  img.FileType,
			BBox: model.BBox{X0: 0, Y0: height, X1: width, Y1: height},
		})
	}
	return out, nil
}

// glyphRun is a positioned piece of text in top-left coordinates
type glyphRun struct {
	text     string
	font     string
	size     float64
	x, x1    float64
	baseline float64
}

// groupGlyphs assembles glyph runs into spans, lines and blocks. Runs are
// taken in content stream order; a baseline jump starts a new line and a
// large vertical gap starts a new block.
func groupGlyphs(texts []pdf.Text, height float64, config PDFConfig) []*model.TextBlock {
	var blocks []*model.TextBlock
	var block *model.TextBlock
	var line *model.Line
	var last glyphRun
	haveLast := false

	closeLine := func() {
		if line != nil && len(line.Spans) > 0 {
			block.Lines = append(block.Lines, *line)
			block.BBox = block.BBox.Union(line.BBox)
		}
		line = nil
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		size := t.FontSize
		if size <= 0 {
			size = 1
		}
		w := t.W
		if w <= 0 {
			w = size * 0.5 * float64(len([]rune(t.S)))
		}
		g := glyphRun{
			text:     t.S,
			font:     fontFamily(t.Font),
			size:     size,
			x:        t.X,
			x1:       t.X + w,
			baseline: height - t.Y,
		}

		newLine := !haveLast ||
			math.Abs(g.baseline-last.baseline) > config.LineTolerance*math.Max(g.size, last.size) ||
			g.x < last.x-g.size
		newBlock := !haveLast ||
			g.baseline-last.baseline > config.BlockGap*math.Max(g.size, last.size) ||
			g.baseline < last.baseline-g.size

		if newBlock {
			closeLine()
			if block != nil && len(block.Lines) > 0 {
				blocks = append(blocks, block)
			}
			block = &model.TextBlock{}
		}
		if newLine || newBlock {
			closeLine()
			line = &model.Line{}
		} else if g.x-last.x1 > config.WordGap*g.size && !endsWithSpace(last.text) && !startsWithSpace(g.text) {
			appendRun(line, glyphRun{text: " ", font: last.font, size: last.size, x: last.x1, x1: g.x, baseline: last.baseline})
		}

		appendRun(line, g)
		last = g
		haveLast = true
	}

	closeLine()
	if block != nil && len(block.Lines) > 0 {
		blocks = append(blocks, block)
	}
	return blocks
}

// appendRun adds a run to the line, extending the last span when font and
// size match
func appendRun(line *model.Line, g glyphRun) {
	bbox := model.BBox{X0: g.x, Y0: g.baseline - g.size, X1: g.x1, Y1: g.baseline + g.size*0.2}
	size := roundSize(g.size)

	if n := len(line.Spans); n > 0 {
		s := &line.Spans[n-1]
		if s.Font == g.font && s.Size == size {
			s.Text += g.text
			s.BBox = s.BBox.Union(bbox)
			line.BBox = line.BBox.Union(bbox)
			return
		}
	}

	span := model.Span{
		Text:  g.text,
		Size:  size,
		Font:  g.font,
		Style: styleFromFont(g.font),
		BBox:  bbox,
	}
	if strings.TrimSpace(g.text) == "" {
		span.Style = model.Style{}
	}
	line.Spans = append(line.Spans, span)
	line.BBox = line.BBox.Union(bbox)
}

func endsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[len(s)-1]))
}

func startsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[0]))
}
