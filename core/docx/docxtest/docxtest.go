// Package docxtest builds small .docx packages for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
)

const (
	nsW  = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsA  = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsMC = "http://schemas.openxmlformats.org/markup-compatibility/2006"

	// ImageRelID and LinkRelID are the relationship IDs used for Page.Image and Page.Link.
	ImageRelID = "rId10"
	LinkRelID  = "rId11"
)

// Page describes a generated document.
type Page struct {
	// Paragraphs become one text paragraph each.
	Paragraphs []string
	// Styles are extra paragraph style IDs defined next to Normal.
	Styles []string
	// Image embeds a PNG in a trailing paragraph.
	Image []byte
	// Link adds a trailing paragraph with an external hyperlink.
	Link string
	// Namespaces declares extra prefixes on the root element.
	Namespaces map[string]string
	// Ignorable is the mc:Ignorable list of the root element.
	Ignorable string
	// Raw is appended verbatim to the body before the section properties.
	Raw string
	// NoSection omits the body-level section properties.
	NoSection bool
}

// Build returns a document with one paragraph per argument.
func Build(paragraphs ...string) []byte {
	return Page{Paragraphs: paragraphs}.Bytes()
}

// Bytes renders the page as a .docx package.
func (p Page) Bytes() []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range []struct{ name, body string }{
		{"[Content_Types].xml", p.contentTypes()},
		{"_rels/.rels", packageRels},
		{"word/document.xml", p.document()},
		{"word/styles.xml", p.styles()},
		{"word/_rels/document.xml.rels", p.rels()},
	} {
		w, _ := zw.Create(part.name)
		_, _ = w.Write([]byte(part.body))
	}
	if p.Image != nil {
		w, _ := zw.Create("word/media/image1.png")
		_, _ = w.Write(p.Image)
	}
	_ = zw.Close()
	return buf.Bytes()
}

const packageRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

func (p Page) contentTypes() string {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	if p.Image != nil {
		b.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	}
	b.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	b.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	b.WriteString(`</Types>`)
	return b.String()
}

func (p Page) document() string {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<w:document xmlns:w="%s" xmlns:r="%s" xmlns:a="%s"`, nsW, nsR, nsA)
	prefixes := make([]string, 0, len(p.Namespaces))
	for prefix := range p.Namespaces {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		fmt.Fprintf(&b, ` xmlns:%s="%s"`, prefix, p.Namespaces[prefix])
	}
	if p.Ignorable != "" {
		fmt.Fprintf(&b, ` xmlns:mc="%s" mc:Ignorable="%s"`, nsMC, p.Ignorable)
	}
	b.WriteString(`><w:body>`)
	for _, text := range p.Paragraphs {
		b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		_ = xml.EscapeText(&b, []byte(text))
		b.WriteString(`</w:t></w:r></w:p>`)
	}
	if p.Image != nil {
		fmt.Fprintf(&b, `<w:p><w:r><w:drawing><a:blip r:embed="%s"/></w:drawing></w:r></w:p>`, ImageRelID)
	}
	if p.Link != "" {
		fmt.Fprintf(&b, `<w:p><w:hyperlink r:id="%s"><w:r><w:t>link</w:t></w:r></w:hyperlink></w:p>`, LinkRelID)
	}
	b.WriteString(p.Raw)
	if !p.NoSection {
		b.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr>`)
	}
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func (p Page) styles() string {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<w:styles xmlns:w="%s">`, nsW)
	for _, id := range append([]string{"Normal"}, p.Styles...) {
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="%s"/></w:style>`, id, id)
	}
	b.WriteString(`</w:styles>`)
	return b.String()
}

func (p Page) rels() string {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	if p.Image != nil {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>`, ImageRelID)
	}
	if p.Link != "" {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="`, LinkRelID)
		_ = xml.EscapeText(&b, []byte(p.Link))
		b.WriteString(`" TargetMode="External"/>`)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}
