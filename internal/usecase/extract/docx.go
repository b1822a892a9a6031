package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// extractDOCX pulls paragraph text out of the word/document.xml entry of a
// DOCX archive. Runs inside a paragraph are concatenated, paragraphs are
// joined with newlines.
func extractDOCX(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrCorruptDocument, err)
	}
	defer archive.Close()

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", fmt.Errorf("%w: missing word/document.xml", entities.ErrCorruptDocument)
	}

	rc, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrCorruptDocument, err)
	}
	defer rc.Close()

	return decodeDocumentXML(rc)
}

// decodeDocumentXML walks the WordprocessingML token stream collecting the
// character data of w:t elements and breaking lines at paragraph ends.
func decodeDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		sb     strings.Builder
		inText bool
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", entities.ErrCorruptDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
