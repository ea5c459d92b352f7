package reader

import (
	"math"
	"strings"

	"github.com/tsawler/pagemd/model"
)

// Span flag bits of the layout dump format
const (
	flagItalic = 1 << 1
	flagBold   = 1 << 4
)

// decodeFlags turns a raw flag bitmask into a style. Font name hints fill
// in what the flags leave out.
func decodeFlags(flags int, font string) model.Style {
	st := styleFromFont(font)
	st.Bold = st.Bold || flags&flagBold != 0
	st.Italic = st.Italic || flags&flagItalic != 0
	return st
}

// styleFromFont derives emphasis from a font name such as
// "ABCDEF+Helvetica-BoldOblique"
func styleFromFont(font string) model.Style {
	name := strings.ToLower(font)
	if i := strings.IndexByte(name, '+'); i >= 0 {
		name = name[i+1:]
	}
	return model.Style{
		Bold: strings.Contains(name, "bold") || strings.Contains(name, "black") ||
			strings.Contains(name, "heavy") || strings.Contains(name, "semibold"),
		Italic: strings.Contains(name, "italic") || strings.Contains(name, "oblique"),
	}
}

// fontFamily strips the subset prefix from a font name
func fontFamily(font string) string {
	if i := strings.IndexByte(font, '+'); i == 6 {
		return font[i+1:]
	}
	return font
}

func roundSize(size float64) float64 {
	return math.Round(size*10) / 10
}
