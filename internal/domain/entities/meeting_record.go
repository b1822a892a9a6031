package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingRecord is the sole durable entity: the result of one pipeline run.
// A record is immutable once built; corrections require a new record.
type MeetingRecord struct {
	ID            uuid.UUID                            `json:"id" gorm:"type:uuid;primary_key"`
	FileName      string                               `json:"file_name" gorm:"type:varchar(512)"`
	MeetingDate   string                               `json:"meeting_date" gorm:"type:varchar(10)"`
	Transcription string                               `json:"transcription" gorm:"type:text;not null"`
	Summary       string                               `json:"summary" gorm:"type:text;not null"`
	Topics        []string                             `json:"topics" gorm:"type:jsonb;serializer:json"`
	Keywords      []string                             `json:"keywords" gorm:"type:jsonb;serializer:json"`
	RawAnalysis   datatypes.JSONType[*AnalysisResult]  `json:"-" gorm:"type:jsonb"`
	CreatedAt     time.Time                            `json:"created_at" gorm:"not null"`
}

// TableName specifies the table name for GORM
func (MeetingRecord) TableName() string {
	return "meeting_records"
}

// NewMeetingRecord assembles a record from a transcript, a completed analysis
// and caller-supplied metadata. The id is generated here and never reused;
// a zero meetingDate defaults to the processing date.
func NewMeetingRecord(fileName string, meetingDate time.Time, transcription string, analysis *AnalysisResult) *MeetingRecord {
	now := time.Now().UTC()
	if meetingDate.IsZero() {
		meetingDate = now
	}

	return &MeetingRecord{
		ID:            uuid.New(),
		FileName:      fileName,
		MeetingDate:   meetingDate.Format("2006-01-02"),
		Transcription: transcription,
		Summary:       analysis.Summary,
		Topics:        analysis.Topics,
		Keywords:      analysis.Keywords,
		RawAnalysis:   datatypes.NewJSONType(analysis),
		CreatedAt:     now,
	}
}
