package xlsx

import "encoding/xml"

// workbookXML represents the xl/workbook.xml file structure.
type workbookXML struct {
	XMLName xml.Name  `xml:"workbook"`
	Sheets  sheetsXML `xml:"sheets"`
}

type sheetsXML struct {
	Sheet []sheetRefXML `xml:"sheet"`
}

type sheetRefXML struct {
	Name  string `xml:"name,attr"`
	State string `xml:"state,attr"`
	RID   string `xml:"id,attr"` // r:id attribute for relationship
}

// worksheetXML represents a xl/worksheets/sheet*.xml file structure.
type worksheetXML struct {
	XMLName   xml.Name     `xml:"worksheet"`
	SheetData sheetDataXML `xml:"sheetData"`
}

type sheetDataXML struct {
	Rows []rowXML `xml:"row"`
}

type rowXML struct {
	R     int       `xml:"r,attr"` // Row number (1-indexed, optional)
	Cells []cellXML `xml:"c"`
}

type cellXML struct {
	R  string       `xml:"r,attr"` // Cell reference (e.g., "A1", optional)
	T  string       `xml:"t,attr"` // Type: s=shared string, n=number, b=bool, str=formula string, e=error
	V  string       `xml:"v"`
	F  string       `xml:"f"`
	Is *richTextXML `xml:"is"`
}

// sharedStringsXML represents the xl/sharedStrings.xml file structure.
type sharedStringsXML struct {
	XMLName xml.Name      `xml:"sst"`
	SI      []richTextXML `xml:"si"`
}

// richTextXML is a string item: either plain text or a list of runs.
type richTextXML struct {
	T string `xml:"t"`
	R []rXML `xml:"r"`
}

type rXML struct {
	T string `xml:"t"`
}

func (rt *richTextXML) text() string {
	if rt == nil {
		return ""
	}
	if len(rt.R) == 0 {
		return rt.T
	}
	var n int
	for _, run := range rt.R {
		n += len(run.T)
	}
	buf := make([]byte, 0, n)
	for _, run := range rt.R {
		buf = append(buf, run.T...)
	}
	return string(buf)
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
