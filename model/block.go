package model

import "strings"

// BlockKind identifies the variant of a page-level layout block
type BlockKind int

const (
	BlockKindText BlockKind = iota
	BlockKindImage
	BlockKindTable
)

func (k BlockKind) String() string {
	switch k {
	case BlockKindText:
		return "text"
	case BlockKindImage:
		return "image"
	case BlockKindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Block is a layout unit supplied by a page reader. The concrete types are
// *TextBlock, *ImageBlock and *TableBlock.
type Block interface {
	Kind() BlockKind
	Bounds() BBox
}

// TextBlock is a group of lines the reader considered one unit
type TextBlock struct {
	Lines []Line
	BBox  BBox
}

func (b *TextBlock) Kind() BlockKind { return BlockKindText }
func (b *TextBlock) Bounds() BBox    { return b.BBox }

// Text returns the trimmed text of every non-empty line joined by a single
// space. This is the form used for noise matching.
func (b *TextBlock) Text() string {
	parts := make([]string, 0, len(b.Lines))
	for _, line := range b.Lines {
		if t := strings.TrimSpace(line.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// ImageBlock is an embedded raster image
type ImageBlock struct {
	Data []byte
	Ext  string // File extension without the dot, e.g. "png"
	BBox BBox
}

func (b *ImageBlock) Kind() BlockKind { return BlockKindImage }
func (b *ImageBlock) Bounds() BBox    { return b.BBox }

// TableBlock is a detected table whose content has already been rendered
// to Markdown by the reader.
type TableBlock struct {
	Markup string
	BBox   BBox
}

func (b *TableBlock) Kind() BlockKind { return BlockKindTable }
func (b *TableBlock) Bounds() BBox    { return b.BBox }

// Page is one decoded page
type Page struct {
	Number int // 1-indexed page number
	Width  float64
	Height float64
	Blocks []Block
}

// TextBlocks returns the text blocks of the page in discovery order
func (p *Page) TextBlocks() []*TextBlock {
	var out []*TextBlock
	for _, b := range p.Blocks {
		if tb, ok := b.(*TextBlock); ok {
			out = append(out, tb)
		}
	}
	return out
}

// ImageBlocks returns the image blocks of the page in discovery order
func (p *Page) ImageBlocks() []*ImageBlock {
	var out []*ImageBlock
	for _, b := range p.Blocks {
		if ib, ok := b.(*ImageBlock); ok {
			out = append(out, ib)
		}
	}
	return out
}

// TableBlocks returns the table blocks of the page in discovery order
func (p *Page) TableBlocks() []*TableBlock {
	var out []*TableBlock
	for _, b := range p.Blocks {
		if tb, ok := b.(*TableBlock); ok {
			out = append(out, tb)
		}
	}
	return out
}

// Spans calls fn for every span on the page, in block and line order
func (p *Page) Spans(fn func(Span)) {
	for _, tb := range p.TextBlocks() {
		for _, line := range tb.Lines {
			for _, s := range line.Spans {
				fn(s)
			}
		}
	}
}
