package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"regexp"
	"strings"
)

const (
	relationshipsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"
	relTypeHyperlink       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	relTypeImage           = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

func (r relationship) external() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

type relationships struct {
	Rels []relationship `xml:"Relationship"`
}

func parseRelationships(data []byte) (map[string]relationship, error) {
	out := make(map[string]relationship)
	if len(data) == 0 {
		return out, nil
	}
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("%w: relationships: %v", ErrInvalidDocument, err)
	}
	for _, r := range rels.Rels {
		out[r.ID] = r
	}
	return out, nil
}

func appendRelationships(data []byte, add []relationship) []byte {
	if len(add) == 0 {
		return data
	}
	var buf bytes.Buffer
	for _, r := range add {
		buf.WriteString(`<Relationship Id="`)
		writeAttr(&buf, r.ID)
		buf.WriteString(`" Type="`)
		writeAttr(&buf, r.Type)
		buf.WriteString(`" Target="`)
		writeAttr(&buf, r.Target)
		buf.WriteByte('"')
		if r.TargetMode != "" {
			buf.WriteString(` TargetMode="`)
			writeAttr(&buf, r.TargetMode)
			buf.WriteByte('"')
		}
		buf.WriteString("/>")
	}

	if len(data) == 0 {
		data = []byte(xml.Header + `<Relationships xmlns="` + relationshipsNamespace + `"></Relationships>`)
	}
	return insertBefore(data, "</Relationships>", buf.Bytes())
}

// targetPart resolves a relationship target of the main document to a part name.
func targetPart(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join("word", target))
}

type contentTypes struct {
	Defaults []struct {
		Extension   string `xml:"Extension,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Default"`
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

func parseContentTypes(data []byte) (*contentTypes, error) {
	var ct contentTypes
	if len(data) == 0 {
		return &ct, nil
	}
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("%w: content types: %v", ErrInvalidDocument, err)
	}
	return &ct, nil
}

func (ct *contentTypes) byExtension(ext string) string {
	for _, d := range ct.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType
		}
	}
	return ""
}

func (ct *contentTypes) byPart(part string) string {
	for _, o := range ct.Overrides {
		if strings.EqualFold(strings.TrimPrefix(o.PartName, "/"), part) {
			return o.ContentType
		}
	}
	return ""
}

var fallbackMediaTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"svg":  "image/svg+xml",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
}

// styleBlock matches one style definition, self-closing or not.
var styleBlock = regexp.MustCompile(`(?s)<w:style\b[^>]*?\bw:styleId="([^"]+)"[^>]*?(?:/>|>.*?</w:style>)`)

func styleIDs(styles []byte) map[string]bool {
	ids := make(map[string]bool)
	for _, m := range styleBlock.FindAllSubmatch(styles, -1) {
		ids[string(m[1])] = true
	}
	return ids
}

// relReference matches relationship references in document markup.
var relReference = regexp.MustCompile(`\br:(embed|id|link|pict)="([^"]*)"`)

func insertBefore(data []byte, marker string, add []byte) []byte {
	i := bytes.LastIndex(data, []byte(marker))
	if i < 0 {
		return data
	}
	out := make([]byte, 0, len(data)+len(add))
	out = append(out, data[:i]...)
	out = append(out, add...)
	out = append(out, data[i:]...)
	return out
}

func writeAttr(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}

// startTag renders an element start tag from raw tokens.
func startTag(name xml.Name, attrs []xml.Attr) []byte {
	var buf bytes.Buffer
	buf.WriteByte('<')
	buf.WriteString(qualified(name))
	for _, a := range attrs {
		buf.WriteByte(' ')
		buf.WriteString(qualified(a.Name))
		buf.WriteString(`="`)
		writeAttr(&buf, a.Value)
		buf.WriteByte('"')
	}
	buf.WriteByte('>')
	return buf.Bytes()
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
