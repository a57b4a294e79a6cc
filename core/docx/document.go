package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Well-known part names of a WordprocessingML package.
const (
	PartContentTypes = "[Content_Types].xml"
	PartDocument     = "word/document.xml"
	PartStyles       = "word/styles.xml"
	PartDocumentRels = "word/_rels/document.xml.rels"
)

// MediaType is the content type of a .docx file.
const MediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ErrInvalidDocument is returned when a package lacks a main document part.
var ErrInvalidDocument = errors.New("invalid docx document")

// Document is an in-memory .docx package.
type Document struct {
	names []string
	parts map[string][]byte
}

// Open parses a .docx package from bytes.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	d := &Document{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", f.Name, err)
		}
		d.SetPart(f.Name, content)
	}

	if _, ok := d.parts[PartDocument]; !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidDocument, PartDocument)
	}
	return d, nil
}

// Read parses a .docx package from a stream.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Open(data)
}

// OpenFile parses a .docx file from disk.
func OpenFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Open(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Part returns the content of a part.
func (d *Document) Part(name string) ([]byte, bool) {
	p, ok := d.parts[name]
	return p, ok
}

// SetPart adds or replaces a part. New parts are written after existing ones.
func (d *Document) SetPart(name string, content []byte) {
	if _, ok := d.parts[name]; !ok {
		d.names = append(d.names, name)
	}
	d.parts[name] = content
}

// Parts returns the part names in package order.
func (d *Document) Parts() []string {
	return append([]string(nil), d.names...)
}

// hasPartFold reports whether a part exists, ignoring case as OPC part names do.
func (d *Document) hasPartFold(name string) bool {
	for _, n := range d.names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// Write serializes the package.
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, name := range d.names {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("failed to create part %s: %w", name, err)
		}
		if _, err := fw.Write(d.parts[name]); err != nil {
			return fmt.Errorf("failed to write part %s: %w", name, err)
		}
	}
	return zw.Close()
}

// Bytes serializes the package into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
