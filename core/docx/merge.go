package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

const pageBreak = `<w:p><w:r><w:br w:type="page"/></w:r></w:p>`

// MergeReport describes what a merge carried over.
type MergeReport struct {
	Pages    int      `json:"pages"`
	Styles   int      `json:"styles"`
	Media    int      `json:"media"`
	Links    int      `json:"links"`
	Warnings []string `json:"warnings,omitempty"`
}

// Merge appends the body of every page to master, in order, before the
// master's final section properties. Master is modified in place.
//
// A page break precedes each page when the master already has content.
// Styles missing from the master are copied, as are the images and
// hyperlinks the pages reference, under fresh relationship IDs.
func Merge(master *Document, pages []*Document) (*MergeReport, error) {
	m, err := newMerger(master)
	if err != nil {
		return nil, fmt.Errorf("master: %w", err)
	}
	for i, page := range pages {
		if err := m.add(i+1, page); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
	}
	m.flush()
	return m.report, nil
}

type merger struct {
	doc    *Document
	main   []byte
	lay    layout
	report *MergeReport

	body      bytes.Buffer
	needBreak bool

	rels    map[string]relationship
	newRels []relationship

	types    *contentTypes
	newTypes bytes.Buffer
	addedExt map[string]bool

	styles     []byte
	haveStyles map[string]bool
	newStyles  bytes.Buffer

	attrs       []xml.Attr
	declared    map[string]bool
	ignorable   []string
	ignored     map[string]bool
	rootChanged bool
}

func newMerger(master *Document) (*merger, error) {
	main := master.parts[PartDocument]
	lay, err := parseLayout(main)
	if err != nil {
		return nil, err
	}
	rels, err := parseRelationships(master.parts[PartDocumentRels])
	if err != nil {
		return nil, err
	}
	types, err := parseContentTypes(master.parts[PartContentTypes])
	if err != nil {
		return nil, err
	}

	m := &merger{
		doc:       master,
		main:      main,
		lay:       lay,
		report:    &MergeReport{},
		needBreak: lay.children > 0,
		rels:      rels,
		types:     types,
		addedExt:  make(map[string]bool),
		attrs:     append([]xml.Attr(nil), lay.rootAttrs...),
		declared:  make(map[string]bool),
		ignored:   make(map[string]bool),
	}

	if styles, ok := master.parts[PartStyles]; ok {
		m.styles = styles
		m.haveStyles = styleIDs(styles)
	}
	for _, a := range m.attrs {
		if ns, ok := namespacePrefix(a); ok {
			m.declared[ns] = true
		}
		if isIgnorable(a) {
			m.addIgnorable(a.Value)
		}
	}
	return m, nil
}

func (m *merger) warnf(format string, args ...any) {
	m.report.Warnings = append(m.report.Warnings, fmt.Sprintf(format, args...))
}

func (m *merger) add(n int, page *Document) error {
	main := page.parts[PartDocument]
	lay, err := parseLayout(main)
	if err != nil {
		return err
	}
	prels, err := parseRelationships(page.parts[PartDocumentRels])
	if err != nil {
		return err
	}
	ptypes, err := parseContentTypes(page.parts[PartContentTypes])
	if err != nil {
		return err
	}

	content := main[lay.bodyStart:lay.contentEnd()]
	if lay.children == 0 {
		m.warnf("page %d has no content", n)
	}

	mapping := make(map[string]string)
	for _, ref := range relReference.FindAllSubmatch(content, -1) {
		id := string(ref[2])
		if _, done := mapping[id]; done {
			continue
		}
		rel, ok := prels[id]
		if !ok {
			m.warnf("page %d references unknown relationship %s", n, id)
			mapping[id] = id
			continue
		}
		mapping[id] = m.carry(n, rel, page, ptypes)
	}
	content = relReference.ReplaceAllFunc(content, func(ref []byte) []byte {
		sub := relReference.FindSubmatch(ref)
		if id, ok := mapping[string(sub[2])]; ok {
			return []byte(fmt.Sprintf(`r:%s="%s"`, sub[1], id))
		}
		return ref
	})
	if bytes.Contains(content, []byte("<w:numPr")) {
		m.warnf("page %d uses list numbering; the master's numbering definitions apply", n)
	}

	m.mergeStyles(n, page.parts[PartStyles])
	m.mergeRoot(lay.rootAttrs)

	if m.needBreak {
		m.body.WriteString(pageBreak)
	}
	m.body.Write(content)
	m.needBreak = true
	m.report.Pages++
	return nil
}

// carry copies a relationship and its target part into the master and
// returns the new relationship ID.
func (m *merger) carry(n int, rel relationship, page *Document, ptypes *contentTypes) string {
	id := m.freshID(fmt.Sprintf("rIdP%d%s", n, rel.ID))
	out := relationship{ID: id, Type: rel.Type, Target: rel.Target, TargetMode: rel.TargetMode}

	if rel.external() {
		if rel.Type == relTypeHyperlink {
			m.report.Links++
		}
		m.addRel(out)
		return id
	}

	src := targetPart(rel.Target)
	data, ok := page.parts[src]
	if !ok {
		m.warnf("page %d: relationship %s points to missing part %s", n, rel.ID, src)
		return rel.ID
	}

	dir, base := path.Split(src)
	dst := m.freshPart(dir + fmt.Sprintf("page%d-%s", n, base))
	m.doc.SetPart(dst, data)

	if strings.HasPrefix(dst, "word/") {
		out.Target = strings.TrimPrefix(dst, "word/")
	} else {
		out.Target = "/" + dst
	}

	if ctype := ptypes.byPart(src); ctype != "" {
		m.addOverride(dst, ctype)
	} else {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(base), "."))
		m.ensureDefault(ext, ptypes.byExtension(ext))
	}

	if _, nested := page.parts[dir+"_rels/"+base+".rels"]; nested {
		m.warnf("page %d: dependencies of %s were not carried over", n, src)
	}
	if rel.Type != relTypeImage {
		m.warnf("page %d: copied %s part %s", n, path.Base(rel.Type), src)
	}

	m.report.Media++
	m.addRel(out)
	return id
}

func (m *merger) addRel(r relationship) {
	m.rels[r.ID] = r
	m.newRels = append(m.newRels, r)
}

func (m *merger) freshID(base string) string {
	id := base
	for i := 2; ; i++ {
		if _, taken := m.rels[id]; !taken {
			return id
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

func (m *merger) freshPart(name string) string {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 2; m.doc.hasPartFold(candidate); i++ {
		candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
	return candidate
}

func (m *merger) ensureDefault(ext, ctype string) {
	if ext == "" || m.addedExt[ext] || m.types.byExtension(ext) != "" {
		return
	}
	if ctype == "" {
		ctype = fallbackMediaTypes[ext]
	}
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	m.addedExt[ext] = true
	m.newTypes.WriteString(`<Default Extension="`)
	writeAttr(&m.newTypes, ext)
	m.newTypes.WriteString(`" ContentType="`)
	writeAttr(&m.newTypes, ctype)
	m.newTypes.WriteString(`"/>`)
}

func (m *merger) addOverride(part, ctype string) {
	m.newTypes.WriteString(`<Override PartName="/`)
	writeAttr(&m.newTypes, part)
	m.newTypes.WriteString(`" ContentType="`)
	writeAttr(&m.newTypes, ctype)
	m.newTypes.WriteString(`"/>`)
}

func (m *merger) mergeStyles(n int, styles []byte) {
	if len(styles) == 0 {
		return
	}
	if m.haveStyles == nil {
		m.warnf("page %d: master has no styles part, page styles dropped", n)
		return
	}
	for _, block := range styleBlock.FindAllSubmatch(styles, -1) {
		id := string(block[1])
		if m.haveStyles[id] {
			continue
		}
		m.haveStyles[id] = true
		m.newStyles.Write(block[0])
		m.report.Styles++
	}
}

func (m *merger) mergeRoot(attrs []xml.Attr) {
	for _, a := range attrs {
		if ns, ok := namespacePrefix(a); ok && !m.declared[ns] {
			m.declared[ns] = true
			m.attrs = append(m.attrs, a)
			m.rootChanged = true
		}
	}
	for _, a := range attrs {
		if isIgnorable(a) && m.addIgnorable(a.Value) {
			m.rootChanged = true
		}
	}
}

func (m *merger) addIgnorable(list string) bool {
	added := false
	for _, p := range strings.Fields(list) {
		if !m.ignored[p] {
			m.ignored[p] = true
			m.ignorable = append(m.ignorable, p)
			added = true
		}
	}
	return added
}

func (m *merger) rootTag() []byte {
	var ignorable []string
	for _, p := range m.ignorable {
		if m.declared[p] {
			ignorable = append(ignorable, p)
		}
	}

	attrs := make([]xml.Attr, 0, len(m.attrs)+1)
	found := false
	for _, a := range m.attrs {
		if isIgnorable(a) {
			a.Value = strings.Join(ignorable, " ")
			found = true
		}
		attrs = append(attrs, a)
	}
	if !found && len(ignorable) > 0 && m.declared["mc"] {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Space: "mc", Local: "Ignorable"}, Value: strings.Join(ignorable, " ")})
	}
	return startTag(m.lay.rootName, attrs)
}

func (m *merger) flush() {
	main, lay := m.main, m.lay
	insertAt := lay.contentEnd()

	var out bytes.Buffer
	out.Grow(len(main) + m.body.Len())
	out.Write(main[:lay.rootStart])
	if m.rootChanged {
		out.Write(m.rootTag())
	} else {
		out.Write(main[lay.rootStart:lay.rootEnd])
	}
	out.Write(main[lay.rootEnd:insertAt])
	out.Write(m.body.Bytes())
	out.Write(main[insertAt:])
	m.doc.SetPart(PartDocument, out.Bytes())

	if len(m.newRels) > 0 {
		if _, ok := m.doc.parts[PartDocumentRels]; !ok {
			m.ensureDefault("rels", "application/vnd.openxmlformats-package.relationships+xml")
		}
		m.doc.SetPart(PartDocumentRels, appendRelationships(m.doc.parts[PartDocumentRels], m.newRels))
	}
	if m.newTypes.Len() > 0 {
		m.doc.SetPart(PartContentTypes, insertBefore(m.doc.parts[PartContentTypes], "</Types>", m.newTypes.Bytes()))
	}
	if m.newStyles.Len() > 0 {
		m.doc.SetPart(PartStyles, insertBefore(m.styles, "</w:styles>", m.newStyles.Bytes()))
	}
}

func namespacePrefix(a xml.Attr) (string, bool) {
	switch {
	case a.Name.Space == "xmlns":
		return a.Name.Local, true
	case a.Name.Space == "" && a.Name.Local == "xmlns":
		return "", true
	}
	return "", false
}

func isIgnorable(a xml.Attr) bool {
	return a.Name.Space == "mc" && a.Name.Local == "Ignorable"
}
