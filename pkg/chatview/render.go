package chatview

import (
	"strings"

	"github.com/otherjamesbrown/chatview/pkg/transcript"
)

// RenderOptions controls the header of each rendered turn.
type RenderOptions struct {
	ShowTimestamp bool
	ShowIcon      bool

	// Roles and Glyphs override DefaultRoles and DefaultGlyphs when set.
	Roles  []string
	Glyphs []string
}

// DefaultRenderOptions shows both timestamps and icons.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{ShowTimestamp: true, ShowIcon: true}
}

// Render serializes entries as chat-view markup:
//
//	@ai[👨 Jane]{00:12:34.000}
//	Hello there
//
// Each turn is a header line, the trimmed text, and a blank line. An empty
// transcript renders as the empty string.
func Render(entries []transcript.Utterance, opts RenderOptions) string {
	if len(entries) == 0 {
		return ""
	}

	track := NewSpeakerTrack(opts.Roles, opts.Glyphs)
	lines := make([]string, 0, len(entries)*3)

	for _, e := range entries {
		a := track.Assign(e)
		lines = append(lines, header(a, e, opts), strings.TrimSpace(e.Text), "")
	}

	return strings.Join(lines, "\n")
}

func header(a Assignment, e transcript.Utterance, opts RenderOptions) string {
	var b strings.Builder
	b.WriteString("@")
	b.WriteString(a.Role)
	b.WriteString("[")
	if opts.ShowIcon && a.Icon != "" {
		b.WriteString(a.Icon)
		b.WriteString(" ")
	}
	b.WriteString(e.Speaker)
	b.WriteString("]")
	if opts.ShowTimestamp {
		b.WriteString("{")
		b.WriteString(e.Start)
		b.WriteString("}")
	}
	return b.String()
}
