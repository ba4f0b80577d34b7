package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/otherjamesbrown/chatview/pkg/docx"
)

// newInspectTable returns a rounded table whose numeric columns, named by
// header, are right-aligned.
func newInspectTable(header table.Row, numeric ...string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(numeric))
	for _, name := range numeric {
		configs = append(configs, table.ColumnConfig{
			Name:        name,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw
}

// speakerTable lists speakers in first-seen order.
func speakerTable(speakers []SpeakerSummary) string {
	tw := newInspectTable(table.Row{"#", "SPEAKER", "ROLE", "ICON", "TURNS", "FIRST"}, "#", "TURNS")
	for _, s := range speakers {
		tw.AppendRow(table.Row{s.Order, s.Speaker, s.Role, s.Icon, s.Turns, s.FirstTimestamp})
	}
	return tw.Render()
}

// paragraphTable lists raw paragraphs with a one-line text preview.
func paragraphTable(paragraphs []docx.Paragraph) string {
	tw := newInspectTable(table.Row{"#", "IMAGES", "TEXT"}, "#", "IMAGES")
	for _, p := range paragraphs {
		tw.AppendRow(table.Row{p.Index, p.Images, preview(p.Text, 60)})
	}
	return tw.Render()
}
