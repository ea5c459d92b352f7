package model

import "strings"

// Style is the decoded emphasis of a span. Readers decode whatever raw
// font flags their source provides into a Style once, at ingestion.
type Style struct {
	Bold   bool
	Italic bool
}

// Span is a styled run of text sharing one font and size within a line.
type Span struct {
	Text  string
	Size  float64 // Font size rounded by the reader
	Style Style
	Font  string // Font family or base font name
	BBox  BBox
}

// IsBlank reports whether the span carries no visible text
func (s Span) IsBlank() bool {
	return strings.TrimSpace(s.Text) == ""
}

// Line is an ordered sequence of spans sharing a baseline.
type Line struct {
	Spans []Span
	BBox  BBox
}

// Text returns the concatenated span text, including whitespace-only spans
// so that inter-word spacing survives.
func (l Line) Text() string {
	var sb strings.Builder
	for _, s := range l.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// HasText reports whether at least one span carries visible text
func (l Line) HasText() bool {
	for _, s := range l.Spans {
		if !s.IsBlank() {
			return true
		}
	}
	return false
}

// MaxSize returns the largest font size among non-blank spans
func (l Line) MaxSize() float64 {
	var size float64
	for _, s := range l.Spans {
		if s.IsBlank() {
			continue
		}
		if s.Size > size {
			size = s.Size
		}
	}
	return size
}

// Style returns the OR-combined style of all non-blank spans
func (l Line) Style() Style {
	var st Style
	for _, s := range l.Spans {
		if s.IsBlank() {
			continue
		}
		st.Bold = st.Bold || s.Style.Bold
		st.Italic = st.Italic || s.Style.Italic
	}
	return st
}
