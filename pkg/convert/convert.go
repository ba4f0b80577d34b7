// Package convert runs the transcript pipeline for one document: open the
// DOCX, detect its layout, optionally merge turns, and render the result.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/otherjamesbrown/chatview/pkg/chatview"
	"github.com/otherjamesbrown/chatview/pkg/docx"
	cverrors "github.com/otherjamesbrown/chatview/pkg/errors"
	"github.com/otherjamesbrown/chatview/pkg/logging"
	"github.com/otherjamesbrown/chatview/pkg/observability"
	"github.com/otherjamesbrown/chatview/pkg/transcript"
)

// Format selects the output encoding.
type Format string

const (
	FormatChatView Format = "chatview"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Pipeline stage names, used in errors, spans, and log lines.
const (
	StageOpen   = "open"
	StageDetect = "detect"
	StageMerge  = "merge"
	StageRender = "render"
	StageWrite  = "write"
)

// Options controls a conversion.
type Options struct {
	MergeConsecutiveSpeakers bool
	ShowTimestamp            bool
	ShowIcon                 bool
	IconMode                 transcript.IconMode

	// OutputDirectory receives icons/ in file mode when Convert is used
	// directly. ConvertFileToFile uses the output file's directory instead.
	OutputDirectory string

	// IconNamespace puts each document's icon files under icons/<name>/,
	// where name is the input file name without its extension.
	IconNamespace bool

	Format Format
}

// DefaultOptions mirrors the default configuration.
func DefaultOptions() Options {
	return Options{
		ShowTimestamp: true,
		ShowIcon:      true,
		IconMode:      transcript.IconModeFile,
		Format:        FormatChatView,
	}
}

// Result is the outcome of converting one document.
type Result struct {
	RunID      string
	Input      string
	Layout     transcript.Layout
	Paragraphs int
	Utterances []transcript.Utterance
	Speakers   []chatview.Assignment
	Output     string
	Icons      []string
	Duration   time.Duration
}

// Converter runs conversions with a fixed set of options.
type Converter struct {
	opts    Options
	logger  logging.Logger
	metrics *observability.ConversionMetrics
	tracer  *observability.Tracer
}

// New creates a Converter. A nil logger discards logs, nil metrics are not
// recorded, and a nil tracer uses the global provider.
func New(opts Options, logger logging.Logger, metrics *observability.ConversionMetrics, tracer *observability.Tracer) *Converter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if tracer == nil {
		tracer = observability.NewTracer()
	}
	if opts.Format == "" {
		opts.Format = FormatChatView
	}
	if opts.IconMode == "" {
		opts.IconMode = transcript.IconModeFile
	}
	return &Converter{
		opts:    opts,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
}

// Options returns the converter's options.
func (c *Converter) Options() Options {
	return c.opts
}

// Convert converts the document at inputPath and returns the rendered output
// without writing it anywhere. Icon files, if any, go under OutputDirectory.
func (c *Converter) Convert(ctx context.Context, inputPath string) (*Result, error) {
	return c.run(ctx, inputPath, c.opts.OutputDirectory)
}

// ConvertFileToFile converts inputPath and writes the output to outputPath,
// creating its parent directory. Icon files are written next to the output.
func (c *Converter) ConvertFileToFile(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	outDir := filepath.Dir(outputPath)
	result, err := c.run(ctx, inputPath, outDir)
	if err != nil {
		return nil, err
	}

	ctx = logging.ContextWithRunID(ctx, result.RunID)
	_, span := c.tracer.StartStageSpan(ctx, observability.SpanWrite, StageWrite)
	defer span.End()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		cerr := cverrors.ClassifyError(fmt.Errorf("writing output directory %s: %w", outDir, err), StageWrite)
		observability.NewSpanHelper(span).SetError(cerr, string(cerr.Code))
		return nil, cerr
	}
	if err := os.WriteFile(outputPath, []byte(result.Output), 0644); err != nil {
		cerr := cverrors.ClassifyError(fmt.Errorf("writing %s: %w", outputPath, err), StageWrite)
		observability.NewSpanHelper(span).SetError(cerr, string(cerr.Code))
		return nil, cerr
	}

	c.logger.WithContext(ctx).Debug("Wrote output",
		logging.F("output", outputPath),
		logging.F("bytes", len(result.Output)))

	return result, nil
}

func (c *Converter) run(ctx context.Context, inputPath, iconDir string) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = logging.ContextWithRunID(ctx, runID)
	log := c.logger.WithContext(ctx).With(logging.F("input", inputPath))

	ctx, span := c.tracer.StartConvertSpan(ctx, runID, inputPath)
	defer span.End()
	if traceID := observability.GetTraceID(ctx); traceID != "" {
		log = log.With(logging.F("trace_id", traceID))
	}
	root := observability.NewSpanHelper(span)

	result := &Result{RunID: runID, Input: inputPath, Layout: transcript.LayoutNone}

	fail := func(stage string, err error) (*Result, error) {
		cerr := cverrors.ClassifyError(err, stage)
		root.SetError(cerr, string(cerr.Code))
		log.Error("Conversion failed",
			logging.F("stage", stage),
			logging.F("code", string(cerr.Code)),
			logging.Err(err))
		c.recordConversion(result.Layout, observability.StatusFailed, time.Since(start))
		return nil, cerr
	}

	// Open
	_, openSpan := c.tracer.StartStageSpan(ctx, observability.SpanOpen, StageOpen)
	doc, err := docx.Open(inputPath)
	openSpan.End()
	if err != nil {
		return fail(StageOpen, err)
	}
	result.Paragraphs = doc.ParagraphCount()

	// Detect
	_, detectSpan := c.tracer.StartStageSpan(ctx, observability.SpanDetect, StageDetect)
	var resolver *transcript.IconResolver
	var lookup transcript.IconLookup
	if c.opts.ShowIcon {
		resolver = transcript.NewIconResolver(doc, c.opts.IconMode, iconDir, log)
		if c.opts.IconNamespace {
			resolver.SetNamespace(stem(inputPath))
		}
		lookup = resolver.Resolve
	}
	layout, entries := transcript.Detect(doc, lookup)
	observability.NewSpanHelper(detectSpan).SetDetection(layout.String(), result.Paragraphs, len(entries))
	detectSpan.End()

	result.Layout = layout
	if resolver != nil {
		result.Icons = resolver.Written()
	}
	log.Debug("Detected layout",
		logging.F("layout", layout.String()),
		logging.F("paragraphs", result.Paragraphs),
		logging.F("entries", len(entries)))

	// Merge
	if c.opts.MergeConsecutiveSpeakers {
		_, mergeSpan := c.tracer.StartStageSpan(ctx, observability.SpanMerge, StageMerge)
		before := len(entries)
		entries = transcript.MergeConsecutiveSpeakers(entries)
		mergeSpan.End()
		log.Debug("Merged consecutive speakers",
			logging.F("before", before),
			logging.F("after", len(entries)))
	}
	result.Utterances = entries

	// Render
	_, renderSpan := c.tracer.StartStageSpan(ctx, observability.SpanRender, StageRender)
	output, err := c.render(layout, entries)
	if err != nil {
		renderSpan.End()
		return fail(StageRender, err)
	}
	result.Output = output
	result.Speakers = chatview.AssignAll(entries)
	observability.NewSpanHelper(renderSpan).SetRendered(len(result.Speakers), countIcons(result.Speakers))
	renderSpan.End()

	result.Duration = time.Since(start)
	status := observability.StatusSuccess
	if len(entries) == 0 {
		status = observability.StatusEmpty
		log.Warn("No transcript layout matched; output is empty")
	}
	c.recordConversion(layout, status, result.Duration)
	if c.metrics != nil {
		c.metrics.RecordUtterances(layout.String(), len(entries))
		c.metrics.RecordSpeakers(layout.String(), len(result.Speakers))
		c.metrics.RecordIcons(string(c.opts.IconMode), countIcons(result.Speakers))
	}
	root.SetSuccess()

	log.Info("Converted transcript",
		logging.F("layout", layout.String()),
		logging.F("utterances", len(entries)),
		logging.F("speakers", len(result.Speakers)),
		logging.F("duration_ms", result.Duration.Milliseconds()))

	return result, nil
}

func (c *Converter) render(layout transcript.Layout, entries []transcript.Utterance) (string, error) {
	switch c.opts.Format {
	case FormatJSON:
		return chatview.EncodeJSON(chatview.NewExport(layout, entries))
	case FormatYAML:
		return chatview.EncodeYAML(chatview.NewExport(layout, entries))
	case FormatChatView:
		return chatview.Render(entries, chatview.RenderOptions{
			ShowTimestamp: c.opts.ShowTimestamp,
			ShowIcon:      c.opts.ShowIcon,
		}), nil
	default:
		return "", fmt.Errorf("unsupported output format %q: %w", c.opts.Format, cverrors.ErrValidation)
	}
}

func (c *Converter) recordConversion(layout transcript.Layout, status string, d time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordConversion(layout.String(), status, d.Seconds())
}

func countIcons(speakers []chatview.Assignment) int {
	n := 0
	for _, s := range speakers {
		if s.FromImage {
			n++
		}
	}
	return n
}

// Extension returns the output file extension for a format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".md"
	}
}

// OutputPath returns the output path for inputPath. With an empty outputDir
// the output sits next to the input.
func OutputPath(inputPath, outputDir string, f Format) string {
	name := stem(inputPath) + f.Extension()
	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}
	return filepath.Join(outputDir, name)
}

// stem returns the file name of path without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
