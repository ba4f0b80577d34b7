package transcript

// strategy parses a paragraph sequence into entries. An empty result means
// the document is not in that layout.
type strategy struct {
	layout Layout
	parse  func(paragraphs []string, icons IconLookup) []Utterance
}

// strategies are tried in order; the first non-empty result wins.
var strategies = []strategy{
	{LayoutSimpleLabel, ParseSimpleLabel},
	{LayoutTimedCaption, ParseTimedCaption},
	{LayoutLegacy, ParseLegacy},
}

// Detect parses src with each known layout in priority order and returns the
// first layout that yields entries. A document matching no layout returns
// LayoutNone and no entries.
func Detect(src Source, icons IconLookup) (Layout, []Utterance) {
	return detect(Paragraphs(src), icons)
}

func detect(paragraphs []string, icons IconLookup) (Layout, []Utterance) {
	for _, s := range strategies {
		if entries := s.parse(paragraphs, icons); len(entries) > 0 {
			return s.layout, entries
		}
	}
	return LayoutNone, []Utterance{}
}
