package model

// ElementKind tags a classified page element
type ElementKind int

const (
	ElementParagraph ElementKind = iota
	ElementHeading
	ElementListItem
	ElementCode
	ElementTable
	ElementImage
)

func (k ElementKind) String() string {
	switch k {
	case ElementParagraph:
		return "Paragraph"
	case ElementHeading:
		return "Heading"
	case ElementListItem:
		return "ListItem"
	case ElementCode:
		return "Code"
	case ElementTable:
		return "Table"
	case ElementImage:
		return "Image"
	default:
		return "Unknown"
	}
}

// PageElement is the classified, order-tagged unit produced for each
// retained line or block.
type PageElement struct {
	Kind ElementKind

	// Level is the heading level (1-3); zero for other kinds
	Level int

	// Content is the rendered text. Lists carry their normalized "- " or
	// "N. " prefix, code lines are verbatim, tables hold their markup.
	Content string

	// Y is the top coordinate of the source line or block
	Y float64

	// Image is set for ElementImage
	Image *ImageBlock
}

// IsText reports whether the element came from a text line
func (e PageElement) IsText() bool {
	switch e.Kind {
	case ElementParagraph, ElementHeading, ElementListItem, ElementCode:
		return true
	}
	return false
}

// PageContent holds the ordered elements of one page
type PageContent struct {
	Number   int
	Elements []PageElement
}

// Document is the ordered sequence of classified pages
type Document struct {
	// Name is the source document name used for asset naming and the
	// optional title line
	Name  string
	Pages []PageContent
}

// Count returns how many elements of the given kind the document holds
func (d *Document) Count(kind ElementKind) int {
	n := 0
	for _, p := range d.Pages {
		for _, e := range p.Elements {
			if e.Kind == kind {
				n++
			}
		}
	}
	return n
}
