package transcribe

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

type scriptedSTT struct {
	errs  []error
	text  string
	calls int
}

func (s *scriptedSTT) TranscribeChunk(_ context.Context, audio io.Reader) (string, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return "", s.errs[idx]
	}
	return s.text, nil
}

func newTestTranscriber(stt SpeechToText) *Transcriber {
	return &Transcriber{
		stt:            stt,
		maxSeconds:     300,
		overlapSeconds: 5,
		chunkTimeout:   time.Minute,
	}
}

func TestTranscribe_UnsupportedExtension(t *testing.T) {
	tr := newTestTranscriber(&scriptedSTT{})

	_, err := tr.Transcribe(context.Background(), "/tmp/slides.pptx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrUnsupportedFormat))
}

func TestTranscribeChunk_RetriesTransientFailure(t *testing.T) {
	stt := &scriptedSTT{
		errs: []error{errors.New("connection reset")},
		text: "we decided to launch",
	}
	tr := newTestTranscriber(stt)

	text, err := tr.transcribeChunk(context.Background(), make([]int16, sampleRate))
	require.NoError(t, err)
	assert.Equal(t, "we decided to launch", text)
	assert.Equal(t, 2, stt.calls)
}

func TestTranscribeChunk_TimeoutAfterRetryBudget(t *testing.T) {
	stt := &scriptedSTT{
		errs: []error{
			context.DeadlineExceeded,
			context.DeadlineExceeded,
			context.DeadlineExceeded,
			context.DeadlineExceeded,
		},
	}
	tr := newTestTranscriber(stt)

	_, err := tr.transcribeChunk(context.Background(), make([]int16, sampleRate))
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrTranscriptionTimeout))
	assert.Equal(t, 4, stt.calls)
}

func TestTranscribeChunk_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stt := &scriptedSTT{errs: []error{errors.New("transient")}}
	tr := newTestTranscriber(stt)

	_, err := tr.transcribeChunk(ctx, make([]int16, sampleRate))
	require.Error(t, err)
	assert.LessOrEqual(t, stt.calls, 1)
}

func TestEncodeWAV_Header(t *testing.T) {
	samples := []int16{0, 1, -1, 32767}
	wav := encodeWAV(samples)

	require.Len(t, wav, 44+len(samples)*2)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, "data", string(wav[36:40]))

	assert.Equal(t, uint32(36+len(samples)*2), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]), "PCM format")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]), "mono")
	assert.Equal(t, uint32(sampleRate), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]), "bits per sample")
	assert.Equal(t, uint32(len(samples)*2), binary.LittleEndian.Uint32(wav[40:44]))

	// First sample starts right after the header, little-endian.
	assert.Equal(t, int16(0), int16(binary.LittleEndian.Uint16(wav[44:46])))
	assert.Equal(t, int16(1), int16(binary.LittleEndian.Uint16(wav[46:48])))
}
