package render

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

func testRecord() *entities.MeetingRecord {
	return entities.NewMeetingRecord(
		"standup.mp3",
		time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		"We decided to launch the product in Q3. Marketing will prepare a campaign.",
		&entities.AnalysisResult{
			Summary:  "The team committed to a Q3 launch.",
			Topics:   []string{"Product launch", "Marketing", "Budget"},
			Keywords: []string{"launch", "Q3", "marketing", "campaign", "budget", "sign-off"},
		},
	)
}

func TestPDF_ProducesDocument(t *testing.T) {
	data, err := PDF(testRecord())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
	// Two pages: report plus the transcript appendix.
	assert.Contains(t, string(data), "/Count 2")
}

func TestPDF_NilRecord(t *testing.T) {
	_, err := PDF(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrRenderFailure))
}

func TestPDF_HandlesNonASCIIText(t *testing.T) {
	record := testRecord()
	record.Summary = "Résumé of the réunion: café budget approved."
	data, err := PDF(record)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestGroupKeywords(t *testing.T) {
	lines := groupKeywords([]string{"a", "b", "c", "d", "e", "f"}, 4)
	require.Len(t, lines, 2)
	assert.Equal(t, "a - b - c - d", lines[0])
	assert.Equal(t, "e - f", lines[1])

	assert.Empty(t, groupKeywords(nil, 4))
}
