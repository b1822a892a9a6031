package meeting

import (
	"time"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/pipeline"
)

// RecordResponse is the API shape of a stored meeting record.
type RecordResponse struct {
	ID            string    `json:"id"`
	FileName      string    `json:"file_name"`
	MeetingDate   string    `json:"meeting_date"`
	Transcription string    `json:"transcription"`
	Summary       string    `json:"summary"`
	Topics        []string  `json:"topics"`
	Keywords      []string  `json:"keywords"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewRecordResponse maps an entity to its API shape.
func NewRecordResponse(record *entities.MeetingRecord) RecordResponse {
	return RecordResponse{
		ID:            record.ID.String(),
		FileName:      record.FileName,
		MeetingDate:   record.MeetingDate,
		Transcription: record.Transcription,
		Summary:       record.Summary,
		Topics:        record.Topics,
		Keywords:      record.Keywords,
		CreatedAt:     record.CreatedAt,
	}
}

// ProcessResponse reports the outcome of one pipeline run. Render and
// persistence problems are reported alongside the record, never instead of
// it.
type ProcessResponse struct {
	Record       RecordResponse `json:"record"`
	CacheHit     bool           `json:"cache_hit"`
	PDFURL       string         `json:"pdf_url,omitempty"`
	PDFPath      string         `json:"pdf_path,omitempty"`
	Persisted    bool           `json:"persisted"`
	RenderError  string         `json:"render_error,omitempty"`
	PersistError string         `json:"persist_error,omitempty"`
}

// NewProcessResponse maps a pipeline result to its API shape.
func NewProcessResponse(result *pipeline.ProcessResult) ProcessResponse {
	resp := ProcessResponse{
		Record:    NewRecordResponse(result.Record),
		CacheHit:  result.CacheHit,
		PDFURL:    result.PDFURL,
		PDFPath:   result.PDFPath,
		Persisted: result.Persisted,
	}
	if result.RenderErr != nil {
		resp.RenderError = result.RenderErr.Error()
	}
	if result.PersistErr != nil {
		resp.PersistError = result.PersistErr.Error()
	}
	return resp
}

// ListResponse is a page of stored records.
type ListResponse struct {
	Records []RecordResponse `json:"records"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}
