package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// layout locates the pieces of a main document part by byte offset.
type layout struct {
	// rootStart and rootEnd bound the root element's start tag.
	rootStart, rootEnd int
	rootAttrs          []xml.Attr
	rootName           xml.Name

	// bodyStart and bodyEnd bound the inner content of <w:body>.
	bodyStart, bodyEnd int
	// sectStart and sectEnd bound the body-level section properties; -1 when absent.
	sectStart, sectEnd int
	// children counts body children other than the section properties.
	children int
}

// contentEnd is where page content stops: before the body-level section properties.
func (l layout) contentEnd() int {
	if l.sectStart >= 0 {
		return l.sectStart
	}
	return l.bodyEnd
}

func parseLayout(doc []byte) (layout, error) {
	l := layout{rootStart: -1, bodyStart: -1, bodyEnd: -1, sectStart: -1, sectEnd: -1}

	dec := xml.NewDecoder(bytes.NewReader(doc))
	depth, bodyDepth := 0, -1
	lastChildStart, lastChildName := -1, ""

	for {
		off := int(dec.InputOffset())
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return l, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case depth == 1:
				l.rootStart, l.rootEnd = off, int(dec.InputOffset())
				l.rootAttrs = t.Attr
				l.rootName = t.Name
			case bodyDepth < 0 && t.Name.Local == "body":
				bodyDepth = depth
				l.bodyStart = int(dec.InputOffset())
			case bodyDepth > 0 && depth == bodyDepth+1:
				lastChildStart, lastChildName = off, t.Name.Local
			}
		case xml.EndElement:
			switch {
			case bodyDepth > 0 && depth == bodyDepth+1:
				if lastChildName == "sectPr" {
					l.sectStart, l.sectEnd = lastChildStart, int(dec.InputOffset())
				} else {
					l.sectStart, l.sectEnd = -1, -1
					l.children++
				}
			case bodyDepth > 0 && depth == bodyDepth:
				l.bodyEnd = off
				bodyDepth = -2 // only the first body counts
			}
			depth--
		}
	}

	if l.bodyStart < 0 || l.bodyEnd < 0 {
		return l, fmt.Errorf("%w: no document body", ErrInvalidDocument)
	}
	if l.sectStart >= 0 && strings.TrimSpace(string(doc[l.sectEnd:l.bodyEnd])) != "" {
		l.sectStart, l.sectEnd = -1, -1
	}
	return l, nil
}

// Paragraphs returns the plain text of every paragraph in the document body.
func (d *Document) Paragraphs() ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(d.parts[PartDocument]))

	var (
		paras  []string
		cur    strings.Builder
		inPara int
		inText bool
	)
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if inPara == 0 {
					cur.Reset()
				}
				inPara++
			case "t":
				inText = true
			case "tab":
				if inPara > 0 {
					cur.WriteByte('\t')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				inPara--
				if inPara == 0 {
					paras = append(paras, cur.String())
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && inPara > 0 {
				cur.Write(t)
			}
		}
	}
	return paras, nil
}
