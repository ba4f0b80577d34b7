package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/chatview/config"
	"github.com/otherjamesbrown/chatview/pkg/convert"
	cverrors "github.com/otherjamesbrown/chatview/pkg/errors"
	"github.com/otherjamesbrown/chatview/pkg/observability"
	"github.com/otherjamesbrown/chatview/pkg/transcript"
)

// convertFlags holds the flags of one convert command instance.
type convertFlags struct {
	output       string
	outputDir    string
	iconMode     string
	format       string
	metricsFile  string
	mergeSpeaker bool
	noTimestamp  bool
	noIcon       bool
}

// NewConvertCommand creates the 'convert' command.
func NewConvertCommand(deps *CommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	flags := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert <input.docx>...",
		Short: "Convert meeting transcripts to chat-view markup",
		Long: `Convert one or more meeting-transcript DOCX files into chat-view markup.

The transcript layout is detected automatically:
  simple-label    "Jane Doe  12:34" followed by the spoken text
  timed-caption   "0:00:01.000 --> 0:00:02.000" then "<v Jane>text</v>"
  legacy          timing, speaker, and text in separate paragraphs

Each speaker is assigned a role (ai/me, alternating by first appearance)
and an icon: their portrait from the document when present, otherwise an
emoji. Portraits are written to icons/ next to the output, or embedded as
data URIs with --icon-mode inline.

Directories are searched recursively for .docx files.

Output destination:
  one file, no -o / --output-dir    rendered to stdout
  -o FILE                           single input only
  --output-dir DIR                  DIR/<name>.md (or .json / .yaml)
  several inputs, no --output-dir   next to each input

Examples:
  chatview convert meeting.docx
  chatview convert meeting.docx -o meeting.md --merge-speaker
  chatview convert *.docx --output-dir ./chat --no-timestamp
  chatview convert meeting.docx --icon-mode inline --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, deps, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (single input only)")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "Directory for converted files and icons")
	cmd.Flags().BoolVar(&flags.mergeSpeaker, "merge-speaker", false, "Merge consecutive turns by the same speaker")
	cmd.Flags().BoolVar(&flags.noTimestamp, "no-timestamp", false, "Omit {timestamp} from headers")
	cmd.Flags().BoolVar(&flags.noIcon, "no-icon", false, "Omit speaker icons from headers")
	cmd.Flags().StringVar(&flags.iconMode, "icon-mode", "", "Icon output mode: file, inline")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output format: chatview, json, yaml")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "Write conversion metrics in Prometheus text format to this file")

	return cmd
}

// buildConvertOptions layers command-line flags over the configuration.
func buildConvertOptions(cfg *config.CLIConfig, flags *convertFlags) (convert.Options, error) {
	opts := convert.Options{
		MergeConsecutiveSpeakers: cfg.MergeConsecutiveSpeakers,
		ShowTimestamp:            cfg.ShowTimestamp,
		ShowIcon:                 cfg.ShowIcon,
		IconMode:                 transcript.IconMode(cfg.IconOutputMode),
		Format:                   convert.Format(cfg.OutputFormat),
	}

	if flags.mergeSpeaker {
		opts.MergeConsecutiveSpeakers = true
	}
	if flags.noTimestamp {
		opts.ShowTimestamp = false
	}
	if flags.noIcon {
		opts.ShowIcon = false
	}
	if flags.iconMode != "" {
		mode := config.IconOutputMode(flags.iconMode)
		if !mode.IsValid() {
			return opts, fmt.Errorf("invalid --icon-mode %q (must be file or inline): %w", flags.iconMode, cverrors.ErrValidation)
		}
		opts.IconMode = transcript.IconMode(mode)
	}
	if flags.format != "" {
		format := config.OutputFormat(flags.format)
		if !format.IsValid() {
			return opts, fmt.Errorf("invalid --format %q (must be chatview, json, or yaml): %w", flags.format, cverrors.ErrValidation)
		}
		opts.Format = convert.Format(format)
	}

	return opts, nil
}

// destinationFor returns the output path for input, or "" for stdout.
func destinationFor(input string, flags *convertFlags, outputDir string, toStdout bool, format convert.Format) string {
	switch {
	case flags.output != "":
		return flags.output
	case outputDir != "":
		return convert.OutputPath(input, outputDir, format)
	case toStdout:
		return ""
	default:
		return convert.OutputPath(input, "", format)
	}
}

func runConvert(cmd *cobra.Command, deps *CommandDeps, flags *convertFlags, args []string) error {
	cfg, err := deps.config()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	opts, err := buildConvertOptions(cfg, flags)
	if err != nil {
		return err
	}

	inputs, err := convert.DiscoverInputs(args)
	if err != nil {
		return fmt.Errorf("discovering inputs: %w", err)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no %s files found in %v: %w", convert.DocxExtension, args, cverrors.ErrNotFound)
	}

	if flags.output != "" && len(inputs) > 1 {
		return fmt.Errorf("--output can only be used with a single input (got %d): %w", len(inputs), cverrors.ErrValidation)
	}

	outputDir := flags.outputDir
	if outputDir == "" {
		outputDir, err = config.ExpandPath(cfg.OutputDirectory)
		if err != nil {
			return fmt.Errorf("resolving output directory: %w", err)
		}
	}

	// Only a single file named on the command line is printed to stdout.
	toStdout := flags.output == "" && outputDir == "" && len(args) == 1 && len(inputs) == 1 && inputs[0] == args[0]
	if toStdout {
		// Its icons land in the working directory.
		opts.OutputDirectory = "."
	}

	// Batches may share an output directory.
	opts.IconNamespace = len(inputs) > 1

	stderr := cmd.ErrOrStderr()
	logger := deps.logger(cfg, stderr)
	reg := prometheus.NewRegistry()
	converter := convert.New(opts, logger, observability.NewConversionMetrics(reg), observability.NewTracer())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	batch := convert.NewBatch(len(inputs))

	var lastErr error
	for _, input := range inputs {
		if ctx.Err() != nil {
			batch.Cancel()
			return ctx.Err()
		}
		dest := destinationFor(input, flags, outputDir, toStdout, opts.Format)

		var result *convert.Result
		if dest == "" {
			result, err = converter.Convert(ctx, input)
			if err == nil {
				_, err = io.WriteString(cmd.OutOrStdout(), result.Output)
				if err != nil {
					err = cverrors.ClassifyError(fmt.Errorf("writing stdout: %w", err), convert.StageWrite)
				}
			}
		} else {
			result, err = converter.ConvertFileToFile(ctx, input, dest)
		}

		if err != nil {
			batch.Fail(input, err)
			lastErr = err
			if len(inputs) > 1 {
				fmt.Fprintf(stderr, "%s: failed: %v\n", input, err)
			}
			printFailureHint(stderr, cverrors.CodeOf(err))
			continue
		}

		batch.Done(result)
		printConvertSummary(stderr, result, dest)
	}
	batch.Finish()

	if flags.metricsFile != "" {
		if err := observability.WriteTextfile(flags.metricsFile, reg); err != nil {
			return err
		}
	}

	snap := batch.Snapshot()
	if len(inputs) > 1 {
		fmt.Fprintf(stderr, "Converted %d of %d file(s) (%d empty, %d failed) in %s\n",
			snap.Converted, snap.Total, snap.Empty, len(snap.Failures), snap.Elapsed.Round(time.Millisecond))
	}

	switch {
	case snap.OK():
		return nil
	case len(inputs) == 1:
		return lastErr
	default:
		return fmt.Errorf("%d of %d conversions failed", len(snap.Failures), snap.Total)
	}
}

// printFailureHint explains an error code and what to do about it.
func printFailureHint(w io.Writer, code cverrors.ErrorCode) {
	fmt.Fprintf(w, "  cause: %s (%s)\n", cverrors.GetDescription(code), code)
	fmt.Fprintf(w, "  hint: %s\n", cverrors.GetSuggestedAction(code))
}

func printConvertSummary(w io.Writer, result *convert.Result, dest string) {
	if dest == "" {
		dest = "stdout"
	}
	fmt.Fprintf(w, "%s: %d entries (%s) -> %s\n", result.Input, len(result.Utterances), result.Layout, dest)
	if len(result.Icons) > 0 {
		fmt.Fprintf(w, "  %d icon file(s) written\n", len(result.Icons))
	}
}
