package pdfdoc

import "fmt"

// FigureMarker is the text of a figure unit: page number, then image count.
const FigureMarker = "Page %d: %d image(s) detected"

// FigureText formats the figure marker for a page.
func FigureText(page, count int) string {
	return fmt.Sprintf(FigureMarker, page, count)
}

// ParseMarkerPage returns the page number written in a figure marker, or -1
// when text is not a marker.
func ParseMarkerPage(text string) int {
	var page, count int
	if _, err := fmt.Sscanf(text, FigureMarker, &page, &count); err != nil {
		return -1
	}
	return page
}
