package docx

import (
	"encoding/xml"
	"path"
	"strings"
)

// Relationships represents word/_rels/document.xml.rels.
type Relationships struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Relationships []Relationship `xml:"Relationship"`
}

// Relationship defines a single relationship.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// Relationship types of embedded pictures, transitional and strict.
const (
	RelTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeImageStrict = "http://purl.oclc.org/ooxml/officeDocument/relationships/image"
)

// Get returns the relationship with the given id, or nil.
func (r *Relationships) Get(id string) *Relationship {
	for i := range r.Relationships {
		if r.Relationships[i].ID == id {
			return &r.Relationships[i]
		}
	}
	return nil
}

// IsImage reports whether the relationship targets a picture part.
func (r *Relationship) IsImage() bool {
	return r.Type == RelTypeImage || r.Type == RelTypeImageStrict
}

// IsExternal reports whether the relationship points outside the archive.
func (r *Relationship) IsExternal() bool {
	return r.TargetMode == "External"
}

// ContentTypes represents [Content_Types].xml.
type ContentTypes struct {
	XMLName   xml.Name       `xml:"Types"`
	Defaults  []DefaultType  `xml:"Default"`
	Overrides []OverrideType `xml:"Override"`
}

// DefaultType maps a file extension to a media type.
type DefaultType struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// OverrideType maps a single part to a media type.
type OverrideType struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// MediaType returns the declared media type of an archive part. Overrides
// win over extension defaults; parts not declared at all fall back to a
// table of common picture extensions.
func (c *ContentTypes) MediaType(part string) string {
	partName := "/" + part
	for _, o := range c.Overrides {
		if strings.EqualFold(o.PartName, partName) {
			return o.ContentType
		}
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(part)), ".")
	for _, d := range c.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType
		}
	}

	return mimeFromExt(ext)
}

// mimeFromExt returns the media type for common picture extensions.
func mimeFromExt(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tif", "tiff":
		return "image/tiff"
	case "svg":
		return "image/svg+xml"
	case "webp":
		return "image/webp"
	case "emf":
		return "image/x-emf"
	case "wmf":
		return "image/x-wmf"
	default:
		return "application/octet-stream"
	}
}
