// Package reader decodes source documents into pages of layout blocks.
//
// # Opening Sources
//
// Use [Open] to open a file; the format is chosen from the file name and,
// failing that, from its leading bytes:
//
//	src, err := reader.Open("report.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer src.Close()
//
// Two formats are supported:
//
//   - Layout JSON dumps ([OpenLayout]) - pages of text, image and table
//     blocks as produced by a layout engine. This is the richest input:
//     span styles, image placement and detected tables are all preserved.
//   - PDF ([OpenPDF]) - glyph runs are grouped into spans, lines and
//     blocks; embedded images are attached at the bottom of their page.
//     Tables are not detected.
//
// # Page Access
//
// Pages are decoded one at a time, 1-based:
//
//	page, dropped, err := src.Page(1)
//
// A page error means the whole page is unusable. Individual blocks that
// fail to decode are dropped and reported as [BlockError] values while
// the rest of the page is still returned.
package reader
