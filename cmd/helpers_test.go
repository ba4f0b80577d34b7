package cmd

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/otherjamesbrown/chatview/config"
	"github.com/otherjamesbrown/chatview/pkg/logging"
)

const (
	wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`

	testRels = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`

	testContentTypes = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="png" ContentType="image/png"/>
</Types>`
)

// mockConfig returns defaults, isolated from the caller's environment.
func mockConfig() *config.CLIConfig {
	return config.DefaultConfig()
}

// createTestDeps creates dependencies with a fixed config and a silent logger.
func createTestDeps(cfg *config.CLIConfig) *CommandDeps {
	return &CommandDeps{
		Config: cfg,
		LoadConfig: func() (*config.CLIConfig, error) {
			return cfg, nil
		},
		NewLogger: func(*config.CLIConfig, io.Writer) logging.Logger {
			return logging.NewNopLogger()
		},
	}
}

// para builds a body paragraph, optionally preceded by the test portrait.
func para(text string, withPortrait bool) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	if withPortrait {
		b.WriteString(`<w:r><w:drawing><a:blip r:embed="rId1"/></w:drawing></w:r>`)
	}
	b.WriteString("<w:r>")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("<w:br/>")
		}
		b.WriteString("<w:t>" + line + "</w:t>")
	}
	b.WriteString("</w:r></w:p>")
	return b.String()
}

// writeDOCX writes a minimal document with the given paragraphs into dir.
func writeDOCX(t *testing.T, dir, name string, paragraphs ...string) string {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          testContentTypes,
		"word/_rels/document.xml.rels": testRels,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document ` + wordNS + `><w:body>` +
			strings.Join(paragraphs, "") + `</w:body></w:document>`,
		"word/media/image1.png": "\x89PNG\r\n",
	}
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

// simpleLabelDOCX is a two-speaker simple-label transcript; Alice has a portrait.
func simpleLabelDOCX(t *testing.T, dir, name string) string {
	return writeDOCX(t, dir, name,
		para("Alice  00:01\nHello there", true),
		para("Bob  00:05\nHi Alice", false),
		para("Alice  00:09\nShall we start?", false),
	)
}
