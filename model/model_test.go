package model

import (
	"math"
	"testing"
)

// ============================================================================
// BBox Tests
// ============================================================================

func TestNewBBoxNormalizes(t *testing.T) {
	b := NewBBox(50, 70, 10, 20)
	want := BBox{X0: 10, Y0: 20, X1: 50, Y1: 70}
	if b != want {
		t.Errorf("NewBBox() = %+v, want %+v", b, want)
	}
}

func TestBBoxArea(t *testing.T) {
	tests := []struct {
		name string
		box  BBox
		want float64
	}{
		{"normal", BBox{0, 0, 10, 5}, 50},
		{"zero width", BBox{5, 0, 5, 10}, 0},
		{"inverted", BBox{10, 10, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.Area(); got != tt.want {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBBoxIntersection(t *testing.T) {
	a := BBox{0, 0, 10, 10}
	b := BBox{5, 5, 15, 15}

	got := a.Intersection(b)
	want := BBox{5, 5, 10, 10}
	if got != want {
		t.Errorf("Intersection() = %+v, want %+v", got, want)
	}

	// Touching edges share no area
	c := BBox{10, 0, 20, 10}
	if a.Intersects(c) {
		t.Error("expected touching boxes not to intersect")
	}
	if got := a.Intersection(c); got != (BBox{}) {
		t.Errorf("Intersection() of touching boxes = %+v, want zero", got)
	}
}

func TestBBoxCoverageBy(t *testing.T) {
	tests := []struct {
		name  string
		box   BBox
		other BBox
		want  float64
	}{
		{"fully inside", BBox{2, 2, 4, 4}, BBox{0, 0, 10, 10}, 1},
		{"seventy percent", BBox{0, 0, 10, 10}, BBox{3, 0, 20, 10}, 0.7},
		{"disjoint", BBox{0, 0, 1, 1}, BBox{5, 5, 6, 6}, 0},
		{"zero area", BBox{1, 1, 1, 5}, BBox{0, 0, 10, 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.box.CoverageBy(tt.other)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CoverageBy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBBoxUnion(t *testing.T) {
	var empty BBox
	a := BBox{0, 0, 10, 10}
	if got := empty.Union(a); got != a {
		t.Errorf("empty.Union(a) = %+v, want %+v", got, a)
	}
	got := a.Union(BBox{5, -5, 20, 8})
	want := BBox{0, -5, 20, 10}
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
}

// ============================================================================
// Line Tests
// ============================================================================

func TestLineDerivedAttributes(t *testing.T) {
	line := Line{Spans: []Span{
		{Text: "Hello", Size: 12, Style: Style{Bold: true}},
		{Text: " ", Size: 30, Style: Style{Italic: true}},
		{Text: "world", Size: 14},
	}}

	if got := line.Text(); got != "Hello world" {
		t.Errorf("Text() = %q, want %q", got, "Hello world")
	}
	if got := line.MaxSize(); got != 14 {
		t.Errorf("MaxSize() = %v, want 14 (blank spans ignored)", got)
	}
	st := line.Style()
	if !st.Bold || st.Italic {
		t.Errorf("Style() = %+v, want bold only", st)
	}
	if !line.HasText() {
		t.Error("HasText() = false, want true")
	}
}

func TestLineHasTextBlank(t *testing.T) {
	line := Line{Spans: []Span{{Text: "  "}, {Text: ""}}}
	if line.HasText() {
		t.Error("HasText() = true for whitespace-only spans")
	}
}

// ============================================================================
// Block Tests
// ============================================================================

func TestTextBlockText(t *testing.T) {
	tb := &TextBlock{Lines: []Line{
		{Spans: []Span{{Text: "  Company "}}},
		{Spans: []Span{{Text: "   "}}},
		{Spans: []Span{{Text: "Confidential"}}},
	}}
	if got := tb.Text(); got != "Company Confidential" {
		t.Errorf("Text() = %q, want %q", got, "Company Confidential")
	}
}

func TestPageBlockAccessors(t *testing.T) {
	p := &Page{Blocks: []Block{
		&TextBlock{},
		&ImageBlock{Ext: "png"},
		&TableBlock{Markup: "| a |"},
		&TextBlock{},
	}}
	if n := len(p.TextBlocks()); n != 2 {
		t.Errorf("TextBlocks() = %d, want 2", n)
	}
	if n := len(p.ImageBlocks()); n != 1 {
		t.Errorf("ImageBlocks() = %d, want 1", n)
	}
	if n := len(p.TableBlocks()); n != 1 {
		t.Errorf("TableBlocks() = %d, want 1", n)
	}
}

// ============================================================================
// Table Tests
// ============================================================================

func TestTableToMarkdown(t *testing.T) {
	table := NewTableFromStrings([][]string{
		{"Name", "Value"},
		{"a|b", "1"},
		{"only"},
	})

	want := "| Name | Value |\n| --- | --- |\n| a\\|b | 1 |\n| only |  |"
	if got := table.ToMarkdown(); got != want {
		t.Errorf("ToMarkdown() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableToMarkdownEmpty(t *testing.T) {
	if got := (&Table{}).ToMarkdown(); got != "" {
		t.Errorf("ToMarkdown() on empty table = %q, want empty", got)
	}
}

func TestDocumentCount(t *testing.T) {
	doc := &Document{Pages: []PageContent{
		{Number: 1, Elements: []PageElement{{Kind: ElementHeading}, {Kind: ElementParagraph}}},
		{Number: 2, Elements: []PageElement{{Kind: ElementHeading}}},
	}}
	if got := doc.Count(ElementHeading); got != 2 {
		t.Errorf("Count(Heading) = %d, want 2", got)
	}
}
