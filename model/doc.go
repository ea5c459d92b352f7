// Package model provides the data types shared by every stage of the
// Markdown recovery pipeline.
//
// Readers produce [Page] values made of [Block] variants:
//
//   - [TextBlock] - lines of styled [Span] runs
//   - [ImageBlock] - raw image bytes with an extension
//   - [TableBlock] - a table already rendered to Markdown
//
// The layout package turns pages into [PageContent] values holding
// classified [PageElement] items, and the markdown package serializes the
// resulting [Document].
//
// # Geometry
//
// [BBox] uses a top-left origin with Y growing downward, so sorting by
// [BBox.Top] yields top-to-bottom reading order on a single-column page.
package model
