package transcript

import "strings"

type legacyState int

const (
	awaitingTimestamp legacyState = iota
	awaitingSpeaker
	awaitingBody
)

// ParseLegacy parses the older export where a timing paragraph is followed
// by a speaker paragraph and then one or more body paragraphs.
// Entries whose body is empty are dropped.
func ParseLegacy(paragraphs []string, _ IconLookup) []Utterance {
	var entries []Utterance
	var current *Utterance
	state := awaitingTimestamp

	flush := func() {
		if current != nil && current.Text != "" {
			entries = append(entries, *current)
		}
	}

	for _, raw := range paragraphs {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}

		if timing := cueTimingRegex.FindStringSubmatch(text); timing != nil {
			flush()
			current = &Utterance{Start: timing[1], End: timing[2]}
			state = awaitingSpeaker
			continue
		}

		switch state {
		case awaitingSpeaker:
			current.Speaker = text
			state = awaitingBody
		case awaitingBody:
			if current.Text == "" {
				current.Text = text
			} else {
				current.Text += " " + text
			}
		}
	}
	flush()

	return entries
}
