// Package docx reads the paragraphs and embedded pictures of a WordprocessingML
// (.docx) document. It exposes a Document that satisfies transcript.Source.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	cverrors "github.com/otherjamesbrown/chatview/pkg/errors"
	"github.com/otherjamesbrown/chatview/pkg/transcript"
)

const (
	documentPart     = "word/document.xml"
	relationshipPart = "word/_rels/document.xml.rels"
	contentTypesPart = "[Content_Types].xml"
)

// Document is a parsed .docx file held in memory.
type Document struct {
	files      map[string]*zip.File
	paragraphs []paragraph
	rels       *Relationships
	types      *ContentTypes
	media      map[string]*transcript.Image
}

// Paragraph summarizes one body paragraph for inspection output.
type Paragraph struct {
	Index  int    `json:"index" yaml:"index"`
	Text   string `json:"text" yaml:"text"`
	Images int    `json:"images" yaml:"images"`
}

var _ transcript.Source = (*Document)(nil)

// Open reads and parses the document at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("opening %s: %w: %w", path, cverrors.ErrNotFound, err)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := New(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// New parses a document from its raw archive bytes.
func New(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w: %w", cverrors.ErrInvalidDocument, err)
	}

	d := &Document{
		files: make(map[string]*zip.File, len(zr.File)),
		media: make(map[string]*transcript.Image),
	}
	for _, f := range zr.File {
		d.files[f.Name] = f
	}

	if _, ok := d.files[documentPart]; !ok {
		return nil, fmt.Errorf("missing %s: %w", documentPart, cverrors.ErrInvalidDocument)
	}

	body, err := d.readFile(documentPart)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w: %w", documentPart, cverrors.ErrInvalidDocument, err)
	}
	d.paragraphs, err = parseBody(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cverrors.ErrInvalidDocument, err)
	}

	// Relationships and content types are optional; a document without
	// them simply has no resolvable pictures.
	d.rels = &Relationships{}
	if _, ok := d.files[relationshipPart]; ok {
		if err := d.readXML(relationshipPart, d.rels); err != nil {
			return nil, fmt.Errorf("%w: %w", cverrors.ErrInvalidDocument, err)
		}
	}
	d.types = &ContentTypes{}
	if _, ok := d.files[contentTypesPart]; ok {
		if err := d.readXML(contentTypesPart, d.types); err != nil {
			return nil, fmt.Errorf("%w: %w", cverrors.ErrInvalidDocument, err)
		}
	}

	return d, nil
}

// ParagraphCount returns the number of body-level paragraphs.
func (d *Document) ParagraphCount() int {
	return len(d.paragraphs)
}

// ParagraphText returns the plain text of paragraph i, or "" if i is out of range.
func (d *Document) ParagraphText(i int) string {
	if i < 0 || i >= len(d.paragraphs) {
		return ""
	}
	return d.paragraphs[i].text
}

// ParagraphImage returns the first picture in paragraph i whose relationship
// resolves to a media part inside the archive.
func (d *Document) ParagraphImage(i int) (*transcript.Image, bool) {
	if i < 0 || i >= len(d.paragraphs) {
		return nil, false
	}
	for _, id := range d.paragraphs[i].imageRefs {
		if img := d.image(id); img != nil {
			return img, true
		}
	}
	return nil, false
}

// Paragraphs lists every paragraph with its text and resolvable picture count.
func (d *Document) Paragraphs() []Paragraph {
	out := make([]Paragraph, len(d.paragraphs))
	for i, p := range d.paragraphs {
		n := 0
		for _, id := range p.imageRefs {
			if d.image(id) != nil {
				n++
			}
		}
		out[i] = Paragraph{Index: i, Text: p.text, Images: n}
	}
	return out
}

// Images returns the number of resolvable pictures across all paragraphs.
func (d *Document) Images() int {
	total := 0
	for _, p := range d.Paragraphs() {
		total += p.Images
	}
	return total
}

// image loads the media part behind relationship id, caching the result.
func (d *Document) image(id string) *transcript.Image {
	rel := d.rels.Get(id)
	if rel == nil || rel.IsExternal() || !rel.IsImage() {
		return nil
	}

	part := resolveTarget(rel.Target)
	if img, ok := d.media[part]; ok {
		return img
	}
	if _, ok := d.files[part]; !ok {
		return nil
	}

	data, err := d.readFile(part)
	if err != nil {
		return nil
	}
	img := &transcript.Image{Data: data, MediaType: d.types.MediaType(part)}
	d.media[part] = img
	return img
}

// resolveTarget maps a relationship target to an archive part name.
// Targets are relative to word/ unless they start with a slash.
func resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join("word", target))
}

func (d *Document) readFile(name string) ([]byte, error) {
	f, ok := d.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

func (d *Document) readXML(name string, v any) error {
	data, err := d.readFile(name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}
