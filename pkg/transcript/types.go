// Package transcript turns the paragraphs of a meeting-transcript document
// into an ordered list of utterances. It recognizes three export layouts,
// binds speaker portraits, and optionally merges consecutive turns.
package transcript

import "fmt"

// Layout identifies which transcript export layout a document uses.
type Layout string

const (
	// LayoutSimpleLabel is "Name  MM:SS" followed by body lines in one paragraph.
	LayoutSimpleLabel Layout = "simple-label"
	// LayoutTimedCaption is WebVTT-style cue timings followed by <v Speaker> caption tags.
	LayoutTimedCaption Layout = "timed-caption"
	// LayoutLegacy is a timing paragraph, then a speaker paragraph, then body paragraphs.
	LayoutLegacy Layout = "legacy"
	// LayoutNone means no layout yielded any entries.
	LayoutNone Layout = "none"
)

// String returns the layout name.
func (l Layout) String() string {
	return string(l)
}

// Utterance is one speaker turn.
type Utterance struct {
	Start   string `json:"start" yaml:"start"`
	End     string `json:"end" yaml:"end"`
	Speaker string `json:"speaker" yaml:"speaker"`
	Text    string `json:"text" yaml:"text"`
	Icon    *Icon  `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Icon is a resolved speaker portrait. Exactly one of Path or Payload is set.
type Icon struct {
	// Path is relative to the output location, e.g. icons/icon_003.png.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	MediaType string `json:"media_type" yaml:"media_type"`

	// Payload is the standard base64 encoding of the image bytes.
	Payload string `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Ref returns the reference used to embed the icon: the relative path in
// file mode, or a data URI in inline mode.
func (i *Icon) Ref() string {
	if i == nil {
		return ""
	}
	if i.Path != "" {
		return i.Path
	}
	return fmt.Sprintf("data:%s;base64,%s", i.MediaType, i.Payload)
}

// Inline reports whether the icon carries its payload rather than a file path.
func (i *Icon) Inline() bool {
	return i != nil && i.Path == ""
}

// Image is an embedded picture as stored in the source document.
type Image struct {
	Data      []byte
	MediaType string
}

// Source exposes a document as an ordered list of paragraphs.
type Source interface {
	// ParagraphCount returns the number of paragraphs.
	ParagraphCount() int
	// ParagraphText returns the plain text of paragraph i.
	ParagraphText(i int) string
	// ParagraphImage returns the first embedded image of paragraph i.
	ParagraphImage(i int) (*Image, bool)
}

// Paragraphs returns the text of every paragraph in src.
func Paragraphs(src Source) []string {
	n := src.ParagraphCount()
	texts := make([]string, n)
	for i := 0; i < n; i++ {
		texts[i] = src.ParagraphText(i)
	}
	return texts
}
