// Package htmldoc extracts readable text from HTML documents.
package htmldoc

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Reader provides access to HTML document content.
type Reader struct {
	doc   *html.Node
	title string
}

// ExtractOptions holds options for text extraction.
type ExtractOptions struct {
	// StripNavigation skips <nav>, <aside> and elements with a navigation
	// or complementary ARIA role.
	StripNavigation bool
}

// Open opens an HTML file for reading. The character encoding is taken from
// a byte order mark or <meta> declaration, falling back to content sniffing.
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	decoded, err := charset.NewReader(f, "")
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}
	return OpenReader(decoded)
}

// OpenReader parses UTF-8 HTML from an io.Reader.
func OpenReader(r io.Reader) (*Reader, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	reader := &Reader{doc: doc}
	if title := findElement(doc, "title"); title != nil {
		reader.title = getTextContent(title)
	}
	return reader, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	return nil
}

// Title returns the document's <title>, or "" when it has none.
func (r *Reader) Title() string {
	return r.title
}

// Text extracts all text content from the document body.
func (r *Reader) Text() string {
	return r.TextWithOptions(ExtractOptions{})
}

// TextWithOptions extracts body text. Blocks are separated by a blank line,
// list items and table rows by a single newline, and table cells by " | ".
func (r *Reader) TextWithOptions(opts ExtractOptions) string {
	body := findElement(r.doc, "body")
	if body == nil {
		body = r.doc
	}

	b := &blockBuilder{opts: opts}
	b.walk(body)
	b.flush()

	var result strings.Builder
	for _, elem := range b.elements {
		if result.Len() > 0 {
			result.WriteString("\n\n")
		}

		switch elem.Type {
		case ElementList:
			for i, item := range elem.Items {
				if i > 0 {
					result.WriteString("\n")
				}
				result.WriteString(strings.Repeat("  ", item.Level))
				result.WriteString("- ")
				result.WriteString(item.Text)
			}
		case ElementTable:
			for i, row := range elem.Table {
				if i > 0 {
					result.WriteString("\n")
				}
				result.WriteString(strings.Join(row, " | "))
			}
		default:
			result.WriteString(elem.Text)
		}
	}
	return result.String()
}

// blockBuilder walks a DOM tree and collects its blocks. Inline content
// accumulates until the next block boundary.
type blockBuilder struct {
	opts     ExtractOptions
	elements []parsedElement
	inline   strings.Builder
}

// flush turns pending inline content into a paragraph.
func (b *blockBuilder) flush() {
	text := normalizeText(b.inline.String())
	b.inline.Reset()
	if text != "" {
		b.elements = append(b.elements, parsedElement{Type: ElementParagraph, Text: text})
	}
}

func (b *blockBuilder) add(elem parsedElement) {
	b.flush()
	b.elements = append(b.elements, elem)
}

func (b *blockBuilder) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.inline.WriteString(spaceOut(n.Data))
		return
	case html.ElementNode:
		if b.skip(n) {
			return
		}

		switch n.Data {
		case "br":
			b.inline.WriteString("\n")
			return

		case "h1", "h2", "h3", "h4", "h5", "h6":
			if text := getTextContent(n); text != "" {
				b.add(parsedElement{Type: ElementHeading, Text: text, Level: int(n.Data[1] - '0')})
			}
			return

		case "ul", "ol":
			var items []listItem
			b.collectItems(n, 0, &items)
			if len(items) > 0 {
				b.add(parsedElement{Type: ElementList, Items: items})
			}
			return

		case "table":
			if rows := parseTable(n); len(rows) > 0 {
				b.add(parsedElement{Type: ElementTable, Table: rows})
			}
			return

		case "pre":
			if text := strings.Trim(rawText(n), "\n"); strings.TrimSpace(text) != "" {
				b.add(parsedElement{Type: ElementCode, Text: text})
			}
			return
		}

		if isBlock(n.Data) {
			b.flush()
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				b.walk(c)
			}
			b.flush()
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

func (b *blockBuilder) skip(n *html.Node) bool {
	if shouldSkipElement(n.Data) {
		return true
	}
	if !b.opts.StripNavigation {
		return false
	}
	switch n.Data {
	case "nav", "aside":
		return true
	}
	switch getAttr(n, "role") {
	case "navigation", "complementary":
		return true
	}
	return false
}

// collectItems gathers the items of a list, descending into nested lists.
func (b *blockBuilder) collectItems(list *html.Node, level int, items *[]listItem) {
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" || b.skip(li) {
			continue
		}

		var text strings.Builder
		var nested []*html.Node
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				nested = append(nested, c)
				continue
			}
			writeText(c, &text)
			text.WriteString(" ")
		}

		if t := normalizeText(text.String()); t != "" {
			*items = append(*items, listItem{Text: strings.ReplaceAll(t, "\n", " "), Level: level})
		}
		for _, sub := range nested {
			b.collectItems(sub, level+1, items)
		}
	}
}

// parseTable returns the cell text of each non-blank row of a table. A cell
// spanning several columns repeats its text in each of them.
func parseTable(table *html.Node) [][]string {
	var rows [][]string

	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead", "tbody", "tfoot":
				visit(c)
			case "tr":
				if row := parseTableRow(c); row != nil {
					rows = append(rows, row)
				}
			}
		}
	}
	visit(table)
	return rows
}

// parseTableRow returns the cells of a row, or nil when every cell is blank.
func parseTableRow(tr *html.Node) []string {
	var row []string
	blank := true

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}

		text := strings.ReplaceAll(getTextContent(c), "\n", " ")
		if text != "" {
			blank = false
		}

		span := 1
		if v, err := strconv.Atoi(getAttr(c, "colspan")); err == nil && v > 1 && v <= 1000 {
			span = v
		}
		for range span {
			row = append(row, text)
		}
	}

	if blank {
		return nil
	}
	return row
}

// shouldSkipElement returns true if the element never carries readable text.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "head", "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed":
		return true
	}
	return false
}

// isBlock reports whether an element starts a new block of text.
func isBlock(tagName string) bool {
	switch tagName {
	case "p", "div", "blockquote", "article", "section", "main", "header", "footer",
		"nav", "aside", "figure", "figcaption", "address", "dl", "dt", "dd", "li",
		"form", "fieldset", "details", "summary", "hr", "center":
		return true
	}
	return false
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return strings.ToLower(strings.TrimSpace(attr.Val))
		}
	}
	return ""
}

// getTextContent returns the normalized text of a node and its descendants.
// Line breaks survive only where a <br> or block boundary puts them.
func getTextContent(n *html.Node) string {
	var result strings.Builder
	writeText(n, &result)
	return normalizeText(result.String())
}

func writeText(n *html.Node, result *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		result.WriteString(spaceOut(n.Data))
		return
	case html.ElementNode:
		if shouldSkipElement(n.Data) {
			return
		}
		if n.Data == "br" {
			result.WriteString("\n")
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(c, result)
	}
	if n.Type == html.ElementNode && isBlock(n.Data) {
		result.WriteString("\n")
	}
}

// rawText returns the unmodified text below n, as <pre> content requires.
func rawText(n *html.Node) string {
	var result strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			result.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			result.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return result.String()
}

// spaceOut turns every whitespace character of source text into a plain
// space; source line breaks are not text line breaks in HTML.
func spaceOut(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}

// normalizeText collapses spaces within each line and drops blank lines.
func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
