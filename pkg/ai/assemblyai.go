package ai

import (
	"context"
	"fmt"
	"io"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// AssemblyAIClient wraps the official AssemblyAI SDK behind a chunk-in,
// text-out interface: the caller hands over one audio chunk and blocks until
// its transcript is ready.
type AssemblyAIClient struct {
	sdk *aai.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig) *AssemblyAIClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &AssemblyAIClient{
		sdk: aai.NewClient(apiKey),
	}
}

// TranscribeChunk uploads a single audio chunk and waits for its transcript.
// The context bounds the whole upload-and-poll cycle.
func (c *AssemblyAIClient) TranscribeChunk(ctx context.Context, audio io.Reader) (string, error) {
	transcript, err := c.sdk.Transcripts.TranscribeFromReader(ctx, audio, &aai.TranscriptOptionalParams{
		LanguageDetection: aai.Bool(true),
	})
	if err != nil {
		return "", err
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "transcription failed"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("assemblyai: %s", msg)
	}

	if transcript.Text == nil {
		return "", nil
	}
	return *transcript.Text, nil
}
