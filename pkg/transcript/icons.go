package transcript

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otherjamesbrown/chatview/pkg/logging"
)

// IconMode selects how resolved portraits are emitted.
type IconMode string

const (
	// IconModeFile copies the picture into an icons/ directory.
	IconModeFile IconMode = "file"
	// IconModeInline embeds the picture as a base64 data URI.
	IconModeInline IconMode = "inline"
)

// IconsDir is the directory, relative to the output location, that receives
// icon files in file mode.
const IconsDir = "icons"

// IconLookup returns the icon for a paragraph, or nil when it has none.
type IconLookup func(paragraph int) *Icon

// IconResolver extracts the first picture of a paragraph and turns it into
// an Icon in the configured mode.
type IconResolver struct {
	src       Source
	mode      IconMode
	outputDir string
	namespace string
	logger    logging.Logger
	written   []string
}

// NewIconResolver creates a resolver over src. outputDir is only used in
// file mode. A nil logger discards log output.
func NewIconResolver(src Source, mode IconMode, outputDir string, logger logging.Logger) *IconResolver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &IconResolver{
		src:       src,
		mode:      mode,
		outputDir: outputDir,
		logger:    logger,
	}
}

// SetNamespace places icon files under icons/<ns>/ so that several documents
// converted into one directory do not overwrite each other's icons.
func (r *IconResolver) SetNamespace(ns string) {
	r.namespace = ns
}

// Resolve returns the icon for paragraph i, or nil when the paragraph has no
// resolvable picture or the picture could not be persisted.
func (r *IconResolver) Resolve(i int) *Icon {
	img, ok := r.src.ParagraphImage(i)
	if !ok || img == nil || len(img.Data) == 0 {
		return nil
	}

	if r.mode == IconModeInline {
		return &Icon{
			MediaType: img.MediaType,
			Payload:   base64.StdEncoding.EncodeToString(img.Data),
		}
	}

	rel := filepath.ToSlash(filepath.Join(IconsDir, r.namespace, IconFileName(i, img.MediaType)))
	dest := filepath.Join(r.outputDir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		r.logger.Warn("Failed to create icons directory",
			logging.F("paragraph", i),
			logging.Err(err))
		return nil
	}
	if err := os.WriteFile(dest, img.Data, 0644); err != nil {
		r.logger.Warn("Failed to write icon file",
			logging.F("paragraph", i),
			logging.F("path", dest),
			logging.Err(err))
		return nil
	}

	r.logger.Debug("Wrote icon file",
		logging.F("paragraph", i),
		logging.F("path", dest),
		logging.F("media_type", img.MediaType))
	r.written = append(r.written, dest)

	return &Icon{Path: rel, MediaType: img.MediaType}
}

// Written returns the icon files persisted so far, in write order.
func (r *IconResolver) Written() []string {
	return append([]string(nil), r.written...)
}

// IconFileName returns the deterministic file name for the picture of a
// paragraph, e.g. icon_003.png.
func IconFileName(paragraph int, mediaType string) string {
	return fmt.Sprintf("icon_%03d.%s", paragraph, ExtensionFor(mediaType))
}

// ExtensionFor derives a file extension from a media type: the subtype with
// any parameters, "+suffix", and "x-" prefix removed.
func ExtensionFor(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "application/octet-stream" {
		return "bin"
	}

	_, sub, ok := strings.Cut(mt, "/")
	if !ok {
		sub = mt
	}
	if i := strings.IndexByte(sub, '+'); i >= 0 {
		sub = sub[:i]
	}
	sub = strings.TrimPrefix(sub, "x-")
	if sub == "" {
		return "bin"
	}
	return sub
}
