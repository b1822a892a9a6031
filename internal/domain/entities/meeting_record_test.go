package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeetingRecord(t *testing.T) {
	analysis := &AnalysisResult{
		Summary:  "The team agreed on a Q3 launch.",
		Topics:   []string{"Launch"},
		Keywords: []string{"launch", "Q3"},
	}
	date := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

	record := NewMeetingRecord("standup.mp3", date, "we decided to launch", analysis)

	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, "standup.mp3", record.FileName)
	assert.Equal(t, "2025-03-14", record.MeetingDate)
	assert.Equal(t, "we decided to launch", record.Transcription)
	assert.Equal(t, analysis.Summary, record.Summary)
	assert.Equal(t, analysis.Topics, record.Topics)
	assert.Equal(t, analysis.Keywords, record.Keywords)
	assert.WithinDuration(t, time.Now().UTC(), record.CreatedAt, time.Minute)

	raw := record.RawAnalysis.Data()
	require.NotNil(t, raw)
	assert.Equal(t, analysis.Summary, raw.Summary)
}

func TestNewMeetingRecord_DefaultsDateToToday(t *testing.T) {
	record := NewMeetingRecord("notes.txt", time.Time{}, "t", &AnalysisResult{
		Summary: "s", Topics: []string{}, Keywords: []string{},
	})
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), record.MeetingDate)
}

func TestNewMeetingRecord_UniqueIDs(t *testing.T) {
	analysis := &AnalysisResult{Summary: "s", Topics: []string{}, Keywords: []string{}}
	a := NewMeetingRecord("a.txt", time.Time{}, "t", analysis)
	b := NewMeetingRecord("a.txt", time.Time{}, "t", analysis)
	assert.NotEqual(t, a.ID, b.ID)
}
