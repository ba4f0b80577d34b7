package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/chatview/pkg/chatview"
	"github.com/otherjamesbrown/chatview/pkg/docx"
	cverrors "github.com/otherjamesbrown/chatview/pkg/errors"
	"github.com/otherjamesbrown/chatview/pkg/transcript"
)

// SpeakerSummary describes one speaker found in a transcript.
type SpeakerSummary struct {
	Order          int    `json:"order" yaml:"order"`
	Speaker        string `json:"speaker" yaml:"speaker"`
	Role           string `json:"role" yaml:"role"`
	Icon           string `json:"icon" yaml:"icon"`
	Turns          int    `json:"turns" yaml:"turns"`
	FirstTimestamp string `json:"first_timestamp" yaml:"first_timestamp"`
}

// InspectReport is the result of inspecting one document.
type InspectReport struct {
	File          string            `json:"file" yaml:"file"`
	Layout        transcript.Layout `json:"layout" yaml:"layout"`
	Paragraphs    int               `json:"paragraphs" yaml:"paragraphs"`
	Images        int               `json:"images" yaml:"images"`
	Utterances    int               `json:"utterances" yaml:"utterances"`
	Speakers      []SpeakerSummary  `json:"speakers" yaml:"speakers"`
	ParagraphList []docx.Paragraph  `json:"paragraph_list,omitempty" yaml:"paragraph_list,omitempty"`
}

type inspectFlags struct {
	output       string
	paragraphs   bool
	mergeSpeaker bool
}

// NewInspectCommand creates the 'inspect' command.
func NewInspectCommand(deps *CommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	flags := &inspectFlags{}
	cmd := &cobra.Command{
		Use:   "inspect <input.docx>",
		Short: "Show the detected layout and speakers of a transcript",
		Long: `Inspect a meeting-transcript DOCX without converting it.

Prints the detected layout, paragraph and picture counts, and a table of
speakers with their assigned role, icon source, number of turns, and first
timestamp. No icon files are written.

Examples:
  chatview inspect meeting.docx
  chatview inspect meeting.docx --paragraphs
  chatview inspect meeting.docx --merge-speaker -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, deps, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "text", "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&flags.paragraphs, "paragraphs", false, "Also list every paragraph with its picture count")
	cmd.Flags().BoolVar(&flags.mergeSpeaker, "merge-speaker", false, "Count turns after merging consecutive speakers")

	return cmd
}

func runInspect(cmd *cobra.Command, deps *CommandDeps, flags *inspectFlags, input string) error {
	cfg, err := deps.config()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := deps.logger(cfg, cmd.ErrOrStderr())

	doc, err := docx.Open(input)
	if err != nil {
		cerr := cverrors.ClassifyError(err, "open")
		printFailureHint(cmd.ErrOrStderr(), cerr.Code)
		return cerr
	}

	// Inline mode resolves portraits without touching the filesystem.
	resolver := transcript.NewIconResolver(doc, transcript.IconModeInline, "", logger)
	layout, entries := transcript.Detect(doc, resolver.Resolve)
	if flags.mergeSpeaker || cfg.MergeConsecutiveSpeakers {
		entries = transcript.MergeConsecutiveSpeakers(entries)
	}

	report := buildInspectReport(input, doc, layout, entries)
	if flags.paragraphs {
		report.ParagraphList = doc.Paragraphs()
	}

	out := cmd.OutOrStdout()
	switch flags.output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(report)
	case "text", "":
		printInspectText(out, report)
		return nil
	default:
		return fmt.Errorf("invalid output format %q (must be text, json, or yaml): %w", flags.output, cverrors.ErrValidation)
	}
}

func buildInspectReport(input string, doc *docx.Document, layout transcript.Layout, entries []transcript.Utterance) InspectReport {
	report := InspectReport{
		File:       input,
		Layout:     layout,
		Paragraphs: doc.ParagraphCount(),
		Images:     doc.Images(),
		Utterances: len(entries),
		Speakers:   []SpeakerSummary{},
	}

	turns := make(map[string]int)
	first := make(map[string]string)
	for _, e := range entries {
		turns[e.Speaker]++
		if _, ok := first[e.Speaker]; !ok {
			first[e.Speaker] = e.Start
		}
	}

	firstIcons := make(map[string]*transcript.Icon)
	for _, e := range entries {
		if _, ok := firstIcons[e.Speaker]; !ok && e.Icon != nil {
			firstIcons[e.Speaker] = e.Icon
		}
	}

	for _, a := range chatview.AssignAll(entries) {
		icon := a.Icon
		if a.FromImage {
			icon = "portrait"
			if img, ok := firstIcons[a.Speaker]; ok {
				icon = "portrait (" + img.MediaType + ")"
			}
		}
		report.Speakers = append(report.Speakers, SpeakerSummary{
			Order:          a.Order + 1,
			Speaker:        a.Speaker,
			Role:           a.Role,
			Icon:           icon,
			Turns:          turns[a.Speaker],
			FirstTimestamp: first[a.Speaker],
		})
	}

	return report
}

func printInspectText(w io.Writer, r InspectReport) {
	fmt.Fprintf(w, "File:        %s\n", r.File)
	fmt.Fprintf(w, "Layout:      %s\n", r.Layout)
	fmt.Fprintf(w, "Paragraphs:  %d\n", r.Paragraphs)
	fmt.Fprintf(w, "Images:      %d\n", r.Images)
	fmt.Fprintf(w, "Utterances:  %d\n", r.Utterances)

	if len(r.Speakers) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, speakerTable(r.Speakers))
	}

	if len(r.ParagraphList) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, paragraphTable(r.ParagraphList))
	}
}

// preview flattens line breaks and truncates s to width runes.
func preview(s string, width int) string {
	s = strings.NewReplacer("\n", " ⏎ ", "\t", " ").Replace(s)
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}
