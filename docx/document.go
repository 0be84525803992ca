package docx

import "encoding/xml"

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML represents the document body. Only top-level paragraphs and
// tables are collected; each list keeps document order.
type bodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
	Tables     []tableXML     `xml:"tbl"`
}

// paragraphXML represents a paragraph element (<w:p>). Children are kept in
// order so runs nested in hyperlinks and revisions read in place.
type paragraphXML struct {
	XMLName  xml.Name       `xml:"p"`
	Children []paraChildXML `xml:",any"`
}

// paraChildXML is a run (<w:r>) or a container of runs such as
// <w:hyperlink>, <w:ins> or <w:smartTag>.
type paraChildXML struct {
	XMLName xml.Name
	Content []runChildXML  `xml:",any"`
	Runs    []paraChildXML `xml:"r"`
}

// runChildXML is an element inside a run: text, tab, break and so on.
type runChildXML struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	XMLName xml.Name      `xml:"tbl"`
	Rows    []tableRowXML `xml:"tr"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	XMLName xml.Name       `xml:"tr"`
	Cells   []tableCellXML `xml:"tc"`
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	XMLName    xml.Name       `xml:"tc"`
	Properties cellPropsXML   `xml:"tcPr"`
	Paragraphs []paragraphXML `xml:"p"`
}

// cellPropsXML represents cell properties.
type cellPropsXML struct {
	GridSpan gridSpanXML `xml:"gridSpan"`
	VMerge   *vMergeXML  `xml:"vMerge"`
}

// gridSpanXML represents column span.
type gridSpanXML struct {
	Val string `xml:"val,attr"` // Number of columns spanned
}

// vMergeXML represents vertical merge.
type vMergeXML struct {
	Val string `xml:"val,attr"` // "restart" or empty (continue)
}
