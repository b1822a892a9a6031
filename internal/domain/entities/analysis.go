package entities

// AnalysisResult represents the structured output of the LLM analysis stage.
// Topics and keywords keep the order returned by the model (relevance order).
type AnalysisResult struct {
	Summary  string   `json:"summary"`
	Topics   []string `json:"topics"`
	Keywords []string `json:"keywords"`
}
