package model

import (
	"strings"
)

// Table is a cell grid handed over by a reader that detected a table but did
// not render it. Rows may be ragged; missing cells render empty.
type Table struct {
	Rows [][]Cell
	BBox BBox
}

// Cell represents a table cell
type Cell struct {
	Text string
}

// NewTableFromStrings builds a table from plain string rows
func NewTableFromStrings(rows [][]string) *Table {
	t := &Table{Rows: make([][]Cell, len(rows))}
	for i, row := range rows {
		t.Rows[i] = make([]Cell, len(row))
		for j, text := range row {
			t.Rows[i][j] = Cell{Text: text}
		}
	}
	return t
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the width of the widest row
func (t *Table) ColCount() int {
	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// ToMarkdown renders the table as a pipe table. The first row is the header.
func (t *Table) ToMarkdown() string {
	cols := t.ColCount()
	if len(t.Rows) == 0 || cols == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []Cell) {
		sb.WriteString("|")
		for j := 0; j < cols; j++ {
			text := ""
			if j < len(row) {
				text = cellText(row[j].Text)
			}
			sb.WriteString(" ")
			sb.WriteString(text)
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(t.Rows[0])
	sb.WriteString("|")
	for j := 0; j < cols; j++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for _, row := range t.Rows[1:] {
		writeRow(row)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// cellText flattens a cell onto one line and escapes pipes
func cellText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
