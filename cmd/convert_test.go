package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cverrors "github.com/otherjamesbrown/chatview/pkg/errors"
)

func executeConvert(t *testing.T, deps *CommandDeps, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewConvertCommand(deps)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewConvertCommand(t *testing.T) {
	cmd := NewConvertCommand(createTestDeps(mockConfig()))

	assert.NotNil(t, cmd)
	assert.Equal(t, "convert <input.docx>...", cmd.Use)
	assert.Contains(t, cmd.Short, "chat-view")

	for _, name := range []string{"output", "output-dir", "merge-speaker", "no-timestamp", "no-icon", "icon-mode", "format", "metrics-file"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag --%s", name)
	}
	assert.Equal(t, "o", cmd.Flags().Lookup("output").Shorthand)
}

func TestNewConvertCommand_NilDeps(t *testing.T) {
	assert.NotNil(t, NewConvertCommand(nil))
}

func TestConvert_StdoutInline(t *testing.T) {
	dir := t.TempDir()
	input := simpleLabelDOCX(t, dir, "meeting.docx")

	stdout, stderr, err := executeConvert(t, createTestDeps(mockConfig()), input, "--icon-mode", "inline")
	require.NoError(t, err)

	assert.Contains(t, stdout, "@ai[![icon](data:image/png;base64,")
	assert.Contains(t, stdout, " Alice]{00:00:01.000}\nHello there")
	assert.Contains(t, stdout, " Bob]{00:00:05.000}\nHi Alice")
	assert.Contains(t, stdout, "@me[")
	assert.Contains(t, stderr, "3 entries (simple-label) -> stdout")
}

func TestConvert_OutputFileWithIcons(t *testing.T) {
	dir := t.TempDir()
	input := simpleLabelDOCX(t, dir, "meeting.docx")
	output := filepath.Join(dir, "out", "meeting.md")

	stdout, stderr, err := executeConvert(t, createTestDeps(mockConfig()), input, "-o", output)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "-> "+output)
	assert.Contains(t, stderr, "1 icon file(s) written")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "![icon](icons/icon_000.png)")

	_, err = os.Stat(filepath.Join(dir, "out", "icons", "icon_000.png"))
	assert.NoError(t, err)
}

func TestConvert_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeDOCX(t, dir, "meeting.docx",
		para("Alice  00:01\nOne", false),
		para("Alice  00:02\nTwo", false),
		para("Bob  00:03\nThree", false),
	)

	stdout, _, err := executeConvert(t, createTestDeps(mockConfig()), input,
		"--merge-speaker", "--no-timestamp", "--no-icon")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(stdout, "@ai[Alice]"))
	assert.Contains(t, stdout, "@ai[Alice]\nOne Two\n")
	assert.Contains(t, stdout, "@me[Bob]\nThree\n")
	assert.NotContains(t, stdout, "{")
}

func TestConvert_ConfigDefaultsApply(t *testing.T) {
	dir := t.TempDir()
	input := writeDOCX(t, dir, "meeting.docx", para("Alice  00:01\nOne", false))

	cfg := mockConfig()
	cfg.ShowTimestamp = false
	cfg.ShowIcon = false

	stdout, _, err := executeConvert(t, createTestDeps(cfg), input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "@ai[Alice]\nOne")
}

func TestConvert_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	input := simpleLabelDOCX(t, dir, "meeting.docx")

	stdout, _, err := executeConvert(t, createTestDeps(mockConfig()), input, "--format", "json", "--icon-mode", "inline")
	require.NoError(t, err)

	var export struct {
		Layout     string `json:"layout"`
		Utterances []struct {
			Speaker string `json:"speaker"`
		} `json:"utterances"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &export))
	assert.Equal(t, "simple-label", export.Layout)
	assert.Len(t, export.Utterances, 3)
}

func TestConvert_OutputDirMultipleInputs(t *testing.T) {
	dir := t.TempDir()
	a := simpleLabelDOCX(t, dir, "a.docx")
	b := writeDOCX(t, dir, "b.docx", para("Carol  01:00\nHey", false))
	outDir := filepath.Join(dir, "chat")

	_, stderr, err := executeConvert(t, createTestDeps(mockConfig()), a, b, "--output-dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "a.docx: 3 entries")
	assert.Contains(t, stderr, "b.docx: 1 entries")

	for _, name := range []string{"a.md", "b.md"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
	// Batch icons are namespaced per input.
	_, err = os.Stat(filepath.Join(outDir, "icons", "a", "icon_000.png"))
	assert.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(outDir, "a.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "![icon](icons/a/icon_000.png)")
}

func TestConvert_OutputWithMultipleInputsRejected(t *testing.T) {
	dir := t.TempDir()
	a := simpleLabelDOCX(t, dir, "a.docx")
	b := simpleLabelDOCX(t, dir, "b.docx")

	_, _, err := executeConvert(t, createTestDeps(mockConfig()), a, b, "-o", filepath.Join(dir, "x.md"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, cverrors.ErrValidation))
}

func TestConvert_InvalidFlagValues(t *testing.T) {
	dir := t.TempDir()
	input := simpleLabelDOCX(t, dir, "meeting.docx")

	tests := []struct {
		name string
		args []string
	}{
		{"icon mode", []string{"--icon-mode", "attached"}},
		{"format", []string{"--format", "html"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeConvert(t, createTestDeps(mockConfig()), append([]string{input}, tt.args...)...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, cverrors.ErrValidation))
		})
	}
}

func TestConvert_MissingInput(t *testing.T) {
	_, stderr, err := executeConvert(t, createTestDeps(mockConfig()), filepath.Join(t.TempDir(), "nope.docx"))
	require.Error(t, err)
	assert.Equal(t, cverrors.ErrInputNotFound, cverrors.CodeOf(err))
	assert.Contains(t, stderr, "cause: Input document does not exist (input_not_found)")
	assert.Contains(t, stderr, "hint: Check the path passed to chatview convert")
}

func TestConvert_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := simpleLabelDOCX(t, dir, "good.docx")
	bad := filepath.Join(dir, "bad.docx")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0644))

	_, stderr, err := executeConvert(t, createTestDeps(mockConfig()), good, bad, "--output-dir", filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 conversions failed")
	assert.Contains(t, stderr, "bad.docx: failed")

	_, statErr := os.Stat(filepath.Join(dir, "out", "good.md"))
	assert.NoError(t, statErr)
}

func TestConvert_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	input := simpleLabelDOCX(t, dir, "meeting.docx")
	metrics := filepath.Join(dir, "chatview.prom")

	_, _, err := executeConvert(t, createTestDeps(mockConfig()), input, "--no-icon", "--metrics-file", metrics)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `chatview_conversions_total{layout="simple-label",status="success"} 1`)
	assert.Contains(t, string(data), `chatview_utterances_total{layout="simple-label"} 3`)
}

func TestDestinationFor(t *testing.T) {
	tests := []struct {
		name      string
		flags     convertFlags
		outputDir string
		toStdout  bool
		want      string
	}{
		{"explicit output", convertFlags{output: "x.md"}, "", false, "x.md"},
		{"output dir", convertFlags{}, "out", false, filepath.Join("out", "m.md")},
		{"single input to stdout", convertFlags{}, "", true, ""},
		{"several inputs next to source", convertFlags{}, "", false, filepath.Join("in", "m.md")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := tt.flags
			got := destinationFor(filepath.Join("in", "m.docx"), &flags, tt.outputDir, tt.toStdout, "chatview")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvert_Directory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "transcripts")
	require.NoError(t, os.MkdirAll(src, 0755))
	simpleLabelDOCX(t, src, "standup.docx")
	writeDOCX(t, src, "notes.docx", para("nothing to see", false))

	stdout, stderr, err := executeConvert(t, createTestDeps(mockConfig()), src, "--no-icon")
	require.NoError(t, err)
	assert.Empty(t, stdout, "a directory is never printed to stdout")
	assert.Contains(t, stderr, "Converted 1 of 2 file(s) (1 empty, 0 failed)")

	data, err := os.ReadFile(filepath.Join(src, "standup.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "@ai[Alice]{00:00:01.000}")
}

func TestConvert_EmptyDirectory(t *testing.T) {
	_, _, err := executeConvert(t, createTestDeps(mockConfig()), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, cverrors.ErrNotFound)
}
