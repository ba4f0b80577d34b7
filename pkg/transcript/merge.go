package transcript

// MergeConsecutiveSpeakers coalesces runs of entries by the same speaker
// into one entry. Texts are joined with a space and the merged entry ends
// where the last entry of the run ends; Start and Icon come from the first.
// The input slice is not modified.
func MergeConsecutiveSpeakers(entries []Utterance) []Utterance {
	if len(entries) == 0 {
		return []Utterance{}
	}

	merged := make([]Utterance, 0, len(entries))
	current := entries[0]

	for _, entry := range entries[1:] {
		if entry.Speaker == current.Speaker {
			current.Text += " " + entry.Text
			current.End = entry.End
			continue
		}
		merged = append(merged, current)
		current = entry
	}

	return append(merged, current)
}
