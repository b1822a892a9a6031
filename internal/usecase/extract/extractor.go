package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// Extractor pulls plain text out of text-bearing documents.
// Supported kinds: plain text, PDF, DOCX.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a new Extractor
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract reads the document at path and returns its plain text with page and
// paragraph boundaries collapsed to whitespace. A document with zero
// extractable characters fails with ErrEmptyContent, never an empty string.
func (e *Extractor) Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		text string
		err  error
	)
	switch ext {
	case ".txt":
		text, err = e.extractTXT(path)
	case ".pdf":
		text, err = e.extractPDF(path)
	case ".docx":
		text, err = extractDOCX(path)
	default:
		return "", fmt.Errorf("%w: %q", entities.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %s", entities.ErrEmptyContent, filepath.Base(path))
	}

	if e.logger != nil {
		e.logger.Info("document text extracted",
			zap.String("file", filepath.Base(path)),
			zap.Int("chars", len(text)),
		)
	}
	return text, nil
}

// extractTXT reads a plain text file, decoding Windows-1252 when the content
// is not valid UTF-8.
func (e *Extractor) extractTXT(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrCorruptDocument, err)
	}
	return string(decoded), nil
}

// extractPDF extracts the text content of each page and joins pages with
// newlines.
func (e *Extractor) extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrCorruptDocument, err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrCorruptDocument, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrCorruptDocument, err)
	}
	return buf.String(), nil
}
