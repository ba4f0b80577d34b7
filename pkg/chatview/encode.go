package chatview

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/chatview/pkg/transcript"
)

// Export is the structured form of a converted transcript.
type Export struct {
	Layout     transcript.Layout      `json:"layout" yaml:"layout"`
	Speakers   []Assignment           `json:"speakers" yaml:"speakers"`
	Utterances []transcript.Utterance `json:"utterances" yaml:"utterances"`
}

// NewExport builds an Export, assigning speakers the same way Render does.
func NewExport(layout transcript.Layout, entries []transcript.Utterance) Export {
	if entries == nil {
		entries = []transcript.Utterance{}
	}
	return Export{
		Layout:     layout,
		Speakers:   AssignAll(entries),
		Utterances: entries,
	}
}

// EncodeJSON returns the export as indented JSON.
func EncodeJSON(e Export) (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding json: %w", err)
	}
	return string(data) + "\n", nil
}

// EncodeYAML returns the export as YAML.
func EncodeYAML(e Export) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(e); err != nil {
		return "", fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding yaml: %w", err)
	}
	return buf.String(), nil
}
