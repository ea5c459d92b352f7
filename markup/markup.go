// Package markup normalizes table markup handed over by page decoders.
//
// Decoders supply tables either as ready Markdown pipe tables or as HTML
// <table> fragments. HTML is sanitized, then converted to a pipe table so
// that every table in the output has the same shape.
package markup

import (
	"errors"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/pagemd/model"
)

// ErrEmptyTable is returned when markup holds no table cells
var ErrEmptyTable = errors.New("table has no cells")

// Converter turns table markup into a Markdown pipe table. It is safe for
// concurrent use.
type Converter struct {
	md     *converter.Converter
	policy *bluemonday.Policy
}

// NewConverter creates a converter
func NewConverter() *Converter {
	return &Converter{
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Table returns markup as a pipe table. Markdown input is returned
// trimmed; HTML input is sanitized and converted.
func (c *Converter) Table(markup string) (string, error) {
	markup = strings.TrimSpace(markup)
	if markup == "" {
		return "", ErrEmptyTable
	}
	if !IsHTML(markup) {
		return markup, nil
	}

	clean := c.policy.Sanitize(markup)

	md, err := c.md.ConvertString(clean)
	if err == nil && isPipeTable(md) {
		return strings.TrimSpace(md), nil
	}

	// The converter falls back to plain text for tables it cannot map
	// (nested tables, rowspans); rebuild the grid directly instead.
	t, gerr := ParseHTMLTable(clean)
	if gerr != nil {
		if err != nil {
			return "", err
		}
		return "", gerr
	}
	return t.ToMarkdown(), nil
}

// IsHTML reports whether markup contains an HTML <table> element
func IsHTML(markup string) bool {
	if !strings.Contains(markup, "<") {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Table {
				return true
			}
		}
	}
}

// ParseHTMLTable extracts the cell grid of the first table in an HTML
// fragment. Cell text has its whitespace collapsed.
func ParseHTMLTable(fragment string) (*model.Table, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	tbl := findElement(doc, atom.Table)
	if tbl == nil {
		return nil, ErrEmptyTable
	}

	var rows [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type != html.ElementNode {
				continue
			}
			switch ch.DataAtom {
			case atom.Tr:
				var row []string
				for cell := ch.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type == html.ElementNode && (cell.DataAtom == atom.Td || cell.DataAtom == atom.Th) {
						row = append(row, strings.Join(strings.Fields(textContent(cell)), " "))
					}
				}
				if len(row) > 0 {
					rows = append(rows, row)
				}
			case atom.Table:
				// nested tables are flattened into their parent cell text
			default:
				walk(ch)
			}
		}
	}
	walk(tbl)

	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	return model.NewTableFromStrings(rows), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if found := findElement(ch, a); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return sb.String()
}

func isPipeTable(md string) bool {
	lines := strings.Split(strings.TrimSpace(md), "\n")
	if len(lines) < 2 {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(lines[0]), "|") &&
		strings.Contains(lines[1], "---")
}
