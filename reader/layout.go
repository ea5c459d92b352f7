package reader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tsawler/pagemd/markup"
	"github.com/tsawler/pagemd/model"
)

// Block type codes of the layout dump format
const (
	layoutText  = 0
	layoutImage = 1
)

// layoutDoc mirrors the layout dump format:
//
//	{"name": "...", "pages": [{"number": 1, "width": 612, "height": 792,
//	  "blocks": [...], "tables": [...]}]}
//
// Blocks follow the get_text("dict") convention: type 0 carries lines of
// spans, type 1 carries base64 image bytes.
type layoutDoc struct {
	Name  string       `json:"name"`
	Pages []layoutPage `json:"pages"`
}

type layoutPage struct {
	Number int               `json:"number"`
	Width  float64           `json:"width"`
	Height float64           `json:"height"`
	Blocks []json.RawMessage `json:"blocks"`
	Tables []json.RawMessage `json:"tables"`
}

type layoutBlock struct {
	Type  int          `json:"type"`
	BBox  []float64    `json:"bbox"`
	Lines []layoutLine `json:"lines"`
	Ext   string       `json:"ext"`
	Image []byte       `json:"image"`
}

type layoutLine struct {
	BBox  []float64    `json:"bbox"`
	Spans []layoutSpan `json:"spans"`
}

type layoutSpan struct {
	Text  string    `json:"text"`
	Size  float64   `json:"size"`
	Flags int       `json:"flags"`
	Font  string    `json:"font"`
	BBox  []float64 `json:"bbox"`
}

type layoutTable struct {
	BBox     []float64  `json:"bbox"`
	Markdown string     `json:"markdown"`
	HTML     string     `json:"html"`
	Rows     [][]string `json:"rows"`
}

// LayoutSource reads pages from a layout dump
type LayoutSource struct {
	name   string
	doc    layoutDoc
	tables *markup.Converter
}

// OpenLayout decodes a layout dump. name is used when the dump does not
// carry its own.
func OpenLayout(name string, r io.Reader) (*LayoutSource, error) {
	var doc layoutDoc
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	if doc.Pages == nil {
		return nil, errors.New("decode layout: no pages array")
	}
	if doc.Name != "" {
		name = doc.Name
	}
	return &LayoutSource{name: name, doc: doc, tables: markup.NewConverter()}, nil
}

// Name returns the document name
func (s *LayoutSource) Name() string {
	return s.name
}

// NumPages returns the number of pages in the dump
func (s *LayoutSource) NumPages() int {
	return len(s.doc.Pages)
}

// Close releases nothing; the dump is held in memory
func (s *LayoutSource) Close() error {
	return nil
}

// Page decodes page n. Tables are appended after the page's blocks.
func (s *LayoutSource) Page(n int) (*model.Page, []BlockError, error) {
	if err := checkPage(n, len(s.doc.Pages)); err != nil {
		return nil, nil, err
	}
	lp := s.doc.Pages[n-1]

	number := lp.Number
	if number <= 0 {
		number = n
	}
	page := &model.Page{Number: number, Width: lp.Width, Height: lp.Height}

	var dropped []BlockError
	for i, raw := range lp.Blocks {
		b, err := decodeBlock(raw)
		if err != nil {
			dropped = append(dropped, BlockError{Page: number, Block: i, Err: err})
			continue
		}
		if b != nil {
			page.Blocks = append(page.Blocks, b)
		}
	}

	for i, raw := range lp.Tables {
		t, err := s.decodeTable(raw)
		if err != nil {
			dropped = append(dropped, BlockError{Page: number, Block: len(lp.Blocks) + i, Err: err})
			continue
		}
		page.Blocks = append(page.Blocks, t)
	}

	return page, dropped, nil
}

func decodeBlock(raw json.RawMessage) (model.Block, error) {
	var lb layoutBlock
	if err := json.Unmarshal(raw, &lb); err != nil {
		return nil, err
	}
	bbox, err := toBBox(lb.BBox)
	if err != nil {
		return nil, err
	}

	switch lb.Type {
	case layoutText:
		tb := &model.TextBlock{BBox: bbox}
		for _, ll := range lb.Lines {
			line := model.Line{}
			if len(ll.BBox) > 0 {
				if line.BBox, err = toBBox(ll.BBox); err != nil {
					return nil, fmt.Errorf("line: %w", err)
				}
			}
			for _, ls := range ll.Spans {
				span := model.Span{
					Text:  ls.Text,
					Size:  roundSize(ls.Size),
					Style: decodeFlags(ls.Flags, ls.Font),
					Font:  fontFamily(ls.Font),
				}
				if len(ls.BBox) > 0 {
					if span.BBox, err = toBBox(ls.BBox); err != nil {
						return nil, fmt.Errorf("span: %w", err)
					}
				}
				line.Spans = append(line.Spans, span)
			}
			tb.Lines = append(tb.Lines, line)
		}
		return tb, nil

	case layoutImage:
		if len(lb.Image) == 0 {
			return nil, errors.New("image block without data")
		}
		return &model.ImageBlock{Data: lb.Image, Ext: lb.Ext, BBox: bbox}, nil

	default:
		// Other block types (vector drawings) carry nothing to emit
		return nil, nil
	}
}

func (s *LayoutSource) decodeTable(raw json.RawMessage) (*model.TableBlock, error) {
	var lt layoutTable
	if err := json.Unmarshal(raw, &lt); err != nil {
		return nil, err
	}
	bbox, err := toBBox(lt.BBox)
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}

	var md string
	switch {
	case lt.Markdown != "":
		md, err = s.tables.Table(lt.Markdown)
	case lt.HTML != "":
		md, err = s.tables.Table(lt.HTML)
	case len(lt.Rows) > 0:
		md = model.NewTableFromStrings(lt.Rows).ToMarkdown()
	}
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	if md == "" {
		return nil, markup.ErrEmptyTable
	}
	return &model.TableBlock{Markup: md, BBox: bbox}, nil
}

func toBBox(v []float64) (model.BBox, error) {
	if len(v) != 4 {
		return model.BBox{}, fmt.Errorf("bbox needs 4 values, got %d", len(v))
	}
	return model.NewBBox(v[0], v[1], v[2], v[3]), nil
}
