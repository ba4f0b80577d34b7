// Package chatview renders transcript utterances into the annotated chat-view
// markup and into structured JSON or YAML exports.
package chatview

import (
	"fmt"

	"github.com/otherjamesbrown/chatview/pkg/transcript"
)

// DefaultRoles are the two alternating display roles.
var DefaultRoles = []string{"ai", "me"}

// DefaultGlyphs are the fallback icons for speakers without a portrait.
var DefaultGlyphs = []string{"👨", "👩", "🧑", "👴", "👵", "👦", "👧", "🧔", "👱", "👨‍💼"}

// Assignment is the frozen role and icon of one speaker.
type Assignment struct {
	Speaker string `json:"speaker" yaml:"speaker"`
	Role    string `json:"role" yaml:"role"`
	Icon    string `json:"icon" yaml:"icon"`
	// Order is the zero-based position of the speaker's first appearance.
	Order int `json:"order" yaml:"order"`
	// FromImage is true when Icon wraps a portrait from the document.
	FromImage bool `json:"from_image" yaml:"from_image"`
}

// SpeakerTrack assigns each distinct speaker a role and icon on first
// encounter and returns the same assignment for every later turn.
// A track is meant for a single render pass.
type SpeakerTrack struct {
	roles    []string
	glyphs   []string
	assigned map[string]Assignment
	order    []string
}

// NewSpeakerTrack creates a track over the given role and glyph tables.
// Empty tables fall back to DefaultRoles and DefaultGlyphs.
func NewSpeakerTrack(roles, glyphs []string) *SpeakerTrack {
	if len(roles) == 0 {
		roles = DefaultRoles
	}
	if len(glyphs) == 0 {
		glyphs = DefaultGlyphs
	}
	return &SpeakerTrack{
		roles:    roles,
		glyphs:   glyphs,
		assigned: make(map[string]Assignment),
	}
}

// Assign returns the assignment for u.Speaker, creating it from u when the
// speaker has not been seen before.
func (t *SpeakerTrack) Assign(u transcript.Utterance) Assignment {
	if a, ok := t.assigned[u.Speaker]; ok {
		return a
	}

	order := len(t.order)
	a := Assignment{
		Speaker: u.Speaker,
		Role:    t.roles[order%len(t.roles)],
		Order:   order,
	}
	if u.Icon != nil {
		a.Icon = ImageTag(u.Icon.Ref())
		a.FromImage = true
	} else {
		a.Icon = t.glyphs[order%len(t.glyphs)]
	}

	t.assigned[u.Speaker] = a
	t.order = append(t.order, u.Speaker)
	return a
}

// Speakers returns all assignments in first-seen order.
func (t *SpeakerTrack) Speakers() []Assignment {
	out := make([]Assignment, len(t.order))
	for i, name := range t.order {
		out[i] = t.assigned[name]
	}
	return out
}

// ImageTag wraps an image reference as a markdown image.
func ImageTag(ref string) string {
	return fmt.Sprintf("![icon](%s)", ref)
}

// AssignAll runs a fresh track over entries and returns the speakers in
// first-seen order.
func AssignAll(entries []transcript.Utterance) []Assignment {
	track := NewSpeakerTrack(nil, nil)
	for _, e := range entries {
		track.Assign(e)
	}
	return track.Speakers()
}
