package transcript

import (
	"regexp"
	"strings"
)

// Matches a label line: "Jane Doe  12:34". The separator is two or more
// spaces of any kind, including ideographic and no-break spaces.
var simpleLabelRegex = regexp.MustCompile(`^(.+?)[\s\p{Zs}]{2,}(\d+:\d+)`)

// ParseSimpleLabel parses paragraphs of the form "Name  MM:SS\nbody...".
// The first picture seen for a speaker becomes that speaker's icon and is
// carried by that entry and every later one. Earlier entries keep no icon.
func ParseSimpleLabel(paragraphs []string, icons IconLookup) []Utterance {
	var entries []Utterance
	speakerIcons := make(map[string]*Icon)

	for i, raw := range paragraphs {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}

		lines := strings.Split(text, "\n")
		matches := simpleLabelRegex.FindStringSubmatch(lines[0])
		if matches == nil {
			continue
		}

		body := strings.TrimSpace(strings.Join(lines[1:], "\n"))
		if body == "" {
			continue
		}

		speaker := strings.TrimSpace(matches[1])
		timestamp := "00:" + matches[2] + ".000"

		if _, bound := speakerIcons[speaker]; !bound && icons != nil {
			if icon := icons(i); icon != nil {
				speakerIcons[speaker] = icon
			}
		}

		entries = append(entries, Utterance{
			Start:   timestamp,
			End:     timestamp,
			Speaker: speaker,
			Text:    body,
			Icon:    speakerIcons[speaker],
		})
	}

	return entries
}
