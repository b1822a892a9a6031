package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// SpeechToText converts one audio chunk into text. Implemented by the
// AssemblyAI client in pkg/ai and by fixtures in tests.
type SpeechToText interface {
	TranscribeChunk(ctx context.Context, audio io.Reader) (string, error)
}

// supportedAudioExts is the closed set of audio containers the transcriber accepts.
var supportedAudioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
}

// Transcriber converts audio artifacts into a single chronological transcript:
// decode to mono 16 kHz PCM, split long recordings into overlapping chunks,
// transcribe each chunk, merge with boundary de-duplication.
type Transcriber struct {
	stt            SpeechToText
	logger         *zap.Logger
	maxSeconds     int
	overlapSeconds int
	chunkTimeout   time.Duration
}

// NewTranscriber constructs a Transcriber with the pipeline tunables from config.
func NewTranscriber(stt SpeechToText, cfg *config.PipelineConfig, logger *zap.Logger) *Transcriber {
	maxSeconds := 300
	overlapSeconds := 5
	chunkTimeout := 3 * time.Minute
	if cfg != nil {
		maxSeconds = cfg.MaxChunkSeconds
		overlapSeconds = cfg.ChunkOverlapSeconds
		chunkTimeout = cfg.ChunkTimeout
	}
	return &Transcriber{
		stt:            stt,
		logger:         logger,
		maxSeconds:     maxSeconds,
		overlapSeconds: overlapSeconds,
		chunkTimeout:   chunkTimeout,
	}
}

// Transcribe produces the full transcript of the audio artifact at path.
// Decode and format failures are terminal; transient model-call failures are
// retried a bounded number of times per chunk.
func (t *Transcriber) Transcribe(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedAudioExts[ext] {
		return "", fmt.Errorf("%w: %q", entities.ErrUnsupportedFormat, ext)
	}

	samples, err := decodePCM(ctx, path)
	if err != nil {
		return "", err
	}

	chunks := splitChunks(samples, t.maxSeconds, t.overlapSeconds)
	if t.logger != nil {
		t.logger.Info("audio decoded",
			zap.String("file", filepath.Base(path)),
			zap.Float64("duration_seconds", float64(len(samples))/float64(sampleRate)),
			zap.Int("chunks", len(chunks)),
		)
	}

	texts := make([]string, len(chunks))

	// Max 2 concurrent uploads against the speech-to-text service.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for i, c := range chunks {
		g.Go(func() error {
			text, err := t.transcribeChunk(gctx, c.samples)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	transcript := mergeTranscripts(texts)
	if t.logger != nil {
		t.logger.Info("transcription completed",
			zap.String("file", filepath.Base(path)),
			zap.Int("transcript_chars", len(transcript)),
		)
	}
	return transcript, nil
}

// transcribeChunk submits one chunk under a bounded timeout, retrying
// transient model-call failures with exponential backoff.
func (t *Transcriber) transcribeChunk(ctx context.Context, samples []int16) (string, error) {
	wav := encodeWAV(samples)

	var text string
	call := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, t.chunkTimeout)
		defer cancel()

		out, err := t.stt.TranscribeChunk(attemptCtx, bytes.NewReader(wav))
		if err != nil {
			// Timeouts count against the same bounded retry budget; after it
			// is exhausted the caller sees ErrTranscriptionTimeout.
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %v", entities.ErrTranscriptionTimeout, err)
			}
			return err
		}
		text = out
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second

	if err := backoff.Retry(call, backoff.WithContext(backoff.WithMaxRetries(bo, 3), ctx)); err != nil {
		return "", err
	}
	return text, nil
}
