package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// PDF renders a meeting record as a paginated A4 document with a fixed
// section order: title and metadata, summary, topics, keywords, then the full
// transcript as an appendix. A render failure never invalidates the record.
func PDF(record *entities.MeetingRecord) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: record is nil", entities.ErrRenderFailure)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25, 25, 25)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 128)
	pdf.CellFormat(0, 12, "Meeting Summary", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Metadata block
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf("File: %s", record.FileName)), "", "L", false)
	pdf.MultiCell(0, 6, fmt.Sprintf("Meeting date: %s", record.MeetingDate), "", "L", false)
	pdf.MultiCell(0, 6, fmt.Sprintf("Analysis date: %s", record.CreatedAt.Format("01/02/2006 15:04")), "", "L", false)
	pdf.Ln(6)

	writeSection(pdf, "Summary")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 6, tr(record.Summary), "", "L", false)
	pdf.Ln(6)

	writeSection(pdf, "Main Topics")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	for _, topic := range record.Topics {
		pdf.MultiCell(0, 6, tr("- "+topic), "", "L", false)
	}
	pdf.Ln(6)

	writeSection(pdf, "Keywords")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	for _, line := range groupKeywords(record.Keywords, 4) {
		pdf.MultiCell(0, 6, tr("- "+line), "", "L", false)
	}

	// Transcript appendix on its own page
	pdf.AddPage()
	writeSection(pdf, "Transcript")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 5, tr(record.Transcription), "", "L", false)

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(0, 6,
		fmt.Sprintf("Automatically generated on %s by Meeting Summarizer", time.Now().Format("01/02/2006 15:04")),
		"", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrRenderFailure, err)
	}
	return buf.Bytes(), nil
}

// writeSection emits a section heading in the document's accent style.
func writeSection(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 128)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

// groupKeywords joins keywords into lines of at most perLine entries.
func groupKeywords(keywords []string, perLine int) []string {
	var lines []string
	for i := 0; i < len(keywords); i += perLine {
		end := i + perLine
		if end > len(keywords) {
			end = len(keywords)
		}
		lines = append(lines, strings.Join(keywords[i:end], " - "))
	}
	return lines
}
