package analyze

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// Parser handles parsing and validation of language-model analysis responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseAnalysisResponse parses the model output into an AnalysisResult.
// The result must be a JSON object with exactly summary (string), topics and
// keywords (arrays of strings); anything else is a parse failure. Topics or
// keywords returned as a single delimited string are rejected here rather
// than split on a guessed delimiter.
func (p *Parser) ParseAnalysisResponse(content string) (*entities.AnalysisResult, error) {
	content = extractJSON(content)

	var result entities.AnalysisResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := p.validate(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// validate checks that every required field is present. Fields are never
// defaulted: a missing field is an error the caller can retry on.
func (p *Parser) validate(result *entities.AnalysisResult) error {
	if strings.TrimSpace(result.Summary) == "" {
		return fmt.Errorf("missing summary in response")
	}
	if result.Topics == nil {
		return fmt.Errorf("missing topics in response")
	}
	if result.Keywords == nil {
		return fmt.Errorf("missing keywords in response")
	}
	for i, topic := range result.Topics {
		if strings.TrimSpace(topic) == "" {
			return fmt.Errorf("topics[%d] is blank", i)
		}
	}
	for i, keyword := range result.Keywords {
		if strings.TrimSpace(keyword) == "" {
			return fmt.Errorf("keywords[%d] is blank", i)
		}
	}
	return nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
