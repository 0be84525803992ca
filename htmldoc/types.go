package htmldoc

// parsedElement represents a block parsed from the HTML body.
type parsedElement struct {
	Type  ElementType
	Text  string
	Level int        // For headings (1-6)
	Items []listItem // For lists
	Table [][]string // For tables, cell text per row
}

// ElementType represents the type of HTML block.
type ElementType int

const (
	ElementParagraph ElementType = iota
	ElementHeading
	ElementList
	ElementTable
	ElementCode
)

// listItem represents an item in a list.
type listItem struct {
	Text  string
	Level int
}
