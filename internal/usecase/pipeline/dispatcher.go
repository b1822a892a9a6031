package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// documentExts and audioExts form the closed set of supported uploads.
var (
	documentExts = map[string]bool{
		".txt":  true,
		".pdf":  true,
		".docx": true,
	}
	audioExts = map[string]bool{
		".mp3":  true,
		".wav":  true,
		".m4a":  true,
		".flac": true,
		".ogg":  true,
	}
)

// Classify resolves the uploaded file name to an artifact kind once, before
// any extraction or transcription work starts. Unknown extensions fail with
// ErrUnsupportedFormat naming the offending extension.
func Classify(fileName string) (entities.ArtifactKind, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	switch {
	case documentExts[ext]:
		return entities.KindDocument, nil
	case audioExts[ext]:
		return entities.KindAudio, nil
	default:
		return "", fmt.Errorf("%w: %q", entities.ErrUnsupportedFormat, ext)
	}
}

// SupportedExtensions returns every extension the dispatcher accepts.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(documentExts)+len(audioExts))
	for ext := range documentExts {
		exts = append(exts, ext)
	}
	for ext := range audioExts {
		exts = append(exts, ext)
	}
	return exts
}
