package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	pkgai "github.com/johnquangdev/meeting-summarizer/pkg/ai"
)

// maxReparseAttempts is how many times a malformed response is re-asked with
// a reinforced instruction before surfacing ErrMalformedAnalysis.
const maxReparseAttempts = 2

const systemPrompt = "You are an expert assistant in meeting analysis. Always provide responses in valid JSON format."

const promptTemplate = `Analyze the following meeting text and provide a response in JSON format with the following keys:

1. "summary": A comprehensive and detailed summary of the meeting (minimum 200 words)
2. "topics": A list of 5-8 main topics discussed in the meeting
3. "keywords": A list of 10-15 relevant keywords

Meeting text:
%s

Respond ONLY with the requested JSON, without any additional text.`

const reinforcedPrompt = `The previous response could not be parsed. Respond with a single JSON object with exactly the keys "summary" (a string), "topics" (an array of strings) and "keywords" (an array of strings). Do not wrap the JSON in markdown fences and do not add any text outside the object.`

// CompletionClient is the language-model service surface the analyzer needs.
// Implemented by pkg/ai.OpenAIClient and by fixtures in tests.
type CompletionClient interface {
	ChatCompletion(ctx context.Context, apiKey string, messages []pkgai.ChatMessage) (string, error)
}

// Analyzer turns a transcript into a validated AnalysisResult via the
// language-model service.
type Analyzer struct {
	llm    CompletionClient
	parser *Parser
	logger *zap.Logger
}

// NewAnalyzer constructs a new Analyzer
func NewAnalyzer(llm CompletionClient, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		llm:    llm,
		parser: NewParser(),
		logger: logger,
	}
}

// Analyze sends the transcript to the language-model service and returns the
// parsed structured result. An empty transcript is rejected before any paid
// call is made. Malformed responses are re-asked with a reinforced
// instruction up to maxReparseAttempts times; transient service errors are
// retried with exponential backoff.
func (a *Analyzer) Analyze(ctx context.Context, apiKey, transcript string) (*entities.AnalysisResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, entities.ErrEmptyTranscript
	}

	messages := []pkgai.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(promptTemplate, transcript)},
	}

	var lastParseErr error
	for attempt := 0; attempt <= maxReparseAttempts; attempt++ {
		content, err := a.complete(ctx, apiKey, messages)
		if err != nil {
			return nil, err
		}

		result, parseErr := a.parser.ParseAnalysisResponse(content)
		if parseErr == nil {
			if a.logger != nil {
				a.logger.Info("analysis completed",
					zap.Int("attempt", attempt+1),
					zap.Int("topics", len(result.Topics)),
					zap.Int("keywords", len(result.Keywords)),
				)
			}
			return result, nil
		}

		lastParseErr = parseErr
		if a.logger != nil {
			a.logger.Warn("analysis response malformed, re-asking with reinforced instruction",
				zap.Int("attempt", attempt+1),
				zap.Error(parseErr),
			)
		}

		// Re-ask: carry the bad response so the model can see what to fix.
		messages = append(messages,
			pkgai.ChatMessage{Role: "assistant", Content: content},
			pkgai.ChatMessage{Role: "user", Content: reinforcedPrompt},
		)
	}

	return nil, fmt.Errorf("%w: %v", entities.ErrMalformedAnalysis, lastParseErr)
}

// complete performs one logical completion call, retrying transient service
// failures (rate limit, timeout, 5xx) with bounded exponential backoff.
func (a *Analyzer) complete(ctx context.Context, apiKey string, messages []pkgai.ChatMessage) (string, error) {
	var content string
	call := func() error {
		out, err := a.llm.ChatCompletion(ctx, apiKey, messages)
		if err != nil {
			var apiErr *pkgai.APIError
			if errors.As(err, &apiErr) && !apiErr.Transient() {
				return backoff.Permanent(err)
			}
			return err
		}
		content = out
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 10 * time.Second

	if err := backoff.Retry(call, backoff.WithContext(backoff.WithMaxRetries(bo, 3), ctx)); err != nil {
		var apiErr *pkgai.APIError
		if errors.As(err, &apiErr) && !apiErr.Transient() {
			return "", fmt.Errorf("language model rejected the request: %w", err)
		}
		return "", fmt.Errorf("%w: %v", entities.ErrAnalysisServiceUnavailable, err)
	}
	return content, nil
}
