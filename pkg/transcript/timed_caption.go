package transcript

import (
	"regexp"
	"strings"
)

// Timed caption and legacy regular expressions
var (
	// Matches cue timing: 0:00:01.000 --> 0:00:02.500
	cueTimingRegex = regexp.MustCompile(`^(\d+:\d+:\d+\.\d+)\s*-->\s*(\d+:\d+:\d+\.\d+)`)

	// Matches a voice-tagged caption: <v Bob>Hi</v>
	captionVoiceRegex = regexp.MustCompile(`^<v\s+([^>]+)>(.*?)</v>`)
)

// ParseTimedCaption parses WebVTT-style cues embedded in the document text.
// Paragraph boundaries are ignored; each timing line must be followed
// directly by a <v Speaker>text</v> line.
func ParseTimedCaption(paragraphs []string, _ IconLookup) []Utterance {
	var entries []Utterance
	lines := strings.Split(strings.Join(paragraphs, "\n"), "\n")

	for i := 0; i < len(lines); i++ {
		timing := cueTimingRegex.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if timing == nil {
			continue
		}

		// The caption line is consumed whether or not it matches.
		i++
		if i >= len(lines) {
			break
		}
		caption := captionVoiceRegex.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if caption == nil {
			continue
		}

		text := strings.TrimSpace(caption[2])
		speaker := strings.TrimSpace(caption[1])
		if text == "" || speaker == "" {
			continue
		}

		entries = append(entries, Utterance{
			Start:   timing[1],
			End:     timing[2],
			Speaker: speaker,
			Text:    text,
		})
	}

	return entries
}
