package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// paragraph is a body-level w:p reduced to its text and picture references.
type paragraph struct {
	text      string
	imageRefs []string
}

// Elements whose descendants never contribute paragraph text. w:pPr holds
// tab stop definitions and w:txbxContent holds nested text box paragraphs.
var skippedContainers = map[string]bool{
	"pPr":         true,
	"rPr":         true,
	"txbxContent": true,
}

// parseBody streams word/document.xml and collects the paragraphs that are
// direct children of w:body. Tables and other block containers are not
// descended into for paragraphs.
func parseBody(data []byte) ([]paragraph, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var (
		stack     []string
		paras     []paragraph
		current   *paragraph
		openDepth int
		text      strings.Builder
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if current == nil {
				if name == "p" && len(stack) > 0 && stack[len(stack)-1] == "body" {
					current = &paragraph{}
					openDepth = len(stack)
					text.Reset()
				}
				stack = append(stack, name)
				continue
			}

			if id := imageRef(t); id != "" {
				current.imageRefs = append(current.imageRefs, id)
			}
			if !skipped(stack[openDepth:]) {
				switch name {
				case "tab":
					text.WriteByte('\t')
				case "br":
					if lineBreak(t) {
						text.WriteByte('\n')
					}
				case "cr":
					text.WriteByte('\n')
				}
			}
			stack = append(stack, name)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if current != nil && len(stack) == openDepth {
				current.text = text.String()
				paras = append(paras, *current)
				current = nil
			}

		case xml.CharData:
			if current != nil && len(stack) > 0 && stack[len(stack)-1] == "t" && !skipped(stack[openDepth:]) {
				text.Write(t)
			}
		}
	}

	return paras, nil
}

// lineBreak reports whether a w:br is a text-wrapping break. Page and
// column breaks carry no text.
func lineBreak(el xml.StartElement) bool {
	for _, attr := range el.Attr {
		if attr.Name.Local == "type" {
			return attr.Value == "" || attr.Value == "textWrapping"
		}
	}
	return true
}

// imageRef returns the relationship id of a picture reference: the r:embed
// of a DrawingML a:blip, or the r:id of a VML v:imagedata.
func imageRef(el xml.StartElement) string {
	var want string
	switch el.Name.Local {
	case "blip":
		want = "embed"
	case "imagedata":
		want = "id"
	default:
		return ""
	}
	for _, attr := range el.Attr {
		if attr.Name.Local == want && attr.Name.Space != "" {
			return attr.Value
		}
	}
	return ""
}

func skipped(path []string) bool {
	for _, name := range path {
		if skippedContainers[name] {
			return true
		}
	}
	return false
}
