package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	pkgai "github.com/johnquangdev/meeting-summarizer/pkg/ai"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

const launchTranscript = "We decided to launch the product in Q3. Marketing will prepare a campaign and the budget needs sign-off by the end of the month."

// fixture is a fake chat completions endpoint scripted with one response per
// call.
type fixture struct {
	t         *testing.T
	responses []func(w http.ResponseWriter)
	calls     int
	lastBody  pkgai.ChatRequest
}

func (f *fixture) handler(w http.ResponseWriter, r *http.Request) {
	require.Equal(f.t, http.MethodPost, r.Method)
	require.Equal(f.t, "/v1/chat/completions", r.URL.Path)
	require.Equal(f.t, "Bearer sk-test", r.Header.Get("Authorization"))

	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&f.lastBody))

	idx := f.calls
	f.calls++
	require.Less(f.t, idx, len(f.responses), "unexpected extra model call")
	f.responses[idx](w)
}

func respondContent(content string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func respondStatus(status int) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(status)
	}
}

func newTestAnalyzer(t *testing.T, f *fixture) *Analyzer {
	ts := httptest.NewServer(http.HandlerFunc(f.handler))
	t.Cleanup(ts.Close)

	client := pkgai.NewOpenAIClient(&config.OpenAIConfig{BaseURL: ts.URL, Model: "gpt-4o-mini"})
	return NewAnalyzer(client, nil)
}

func TestAnalyze_Success(t *testing.T) {
	f := &fixture{t: t, responses: []func(http.ResponseWriter){
		respondContent(`{
			"summary": "The team committed to a Q3 launch with a marketing campaign and pending budget sign-off.",
			"topics": ["Product launch", "Marketing campaign", "Budget"],
			"keywords": ["launch", "Q3", "marketing", "budget", "sign-off"]
		}`),
	}}
	a := newTestAnalyzer(t, f)

	result, err := a.Analyze(context.Background(), "sk-test", launchTranscript)
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
	assert.Contains(t, result.Summary, "Q3 launch")
	assert.Equal(t, []string{"Product launch", "Marketing campaign", "Budget"}, result.Topics)
	assert.Len(t, result.Keywords, 5)

	// The transcript must reach the model inside the analysis prompt.
	require.Len(t, f.lastBody.Messages, 2)
	assert.Equal(t, "system", f.lastBody.Messages[0].Role)
	assert.Contains(t, f.lastBody.Messages[1].Content, launchTranscript)
}

func TestAnalyze_EmptyTranscriptRejectedBeforeAnyCall(t *testing.T) {
	f := &fixture{t: t}
	a := newTestAnalyzer(t, f)

	_, err := a.Analyze(context.Background(), "sk-test", "   \n\t ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrEmptyTranscript))
	assert.Equal(t, 0, f.calls)
}

func TestAnalyze_ReinforcedReask(t *testing.T) {
	f := &fixture{t: t, responses: []func(http.ResponseWriter){
		respondContent(`{"summary": "s", "topics": "launch; budget", "keywords": ["k"]}`),
		respondContent(`{"summary": "s", "topics": ["launch", "budget"], "keywords": ["k"]}`),
	}}
	a := newTestAnalyzer(t, f)

	result, err := a.Analyze(context.Background(), "sk-test", launchTranscript)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
	assert.Equal(t, []string{"launch", "budget"}, result.Topics)

	// The second call must carry the bad response and the corrective
	// instruction.
	require.Len(t, f.lastBody.Messages, 4)
	assert.Equal(t, "assistant", f.lastBody.Messages[2].Role)
	assert.Contains(t, f.lastBody.Messages[3].Content, "could not be parsed")
}

func TestAnalyze_MalformedEveryTime(t *testing.T) {
	bad := respondContent(`not json at all`)
	f := &fixture{t: t, responses: []func(http.ResponseWriter){bad, bad, bad}}
	a := newTestAnalyzer(t, f)

	_, err := a.Analyze(context.Background(), "sk-test", launchTranscript)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrMalformedAnalysis))
	assert.Equal(t, 3, f.calls)
}

func TestAnalyze_RateLimitedThenRecovers(t *testing.T) {
	f := &fixture{t: t, responses: []func(http.ResponseWriter){
		respondStatus(http.StatusTooManyRequests),
		respondContent(`{"summary": "s", "topics": ["a"], "keywords": ["b"]}`),
	}}
	a := newTestAnalyzer(t, f)

	result, err := a.Analyze(context.Background(), "sk-test", launchTranscript)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
	assert.Equal(t, "s", result.Summary)
}

func TestAnalyze_AuthFailureIsNotRetried(t *testing.T) {
	f := &fixture{t: t, responses: []func(http.ResponseWriter){
		respondStatus(http.StatusUnauthorized),
	}}
	a := newTestAnalyzer(t, f)

	_, err := a.Analyze(context.Background(), "sk-test", launchTranscript)
	require.Error(t, err)
	assert.False(t, errors.Is(err, entities.ErrAnalysisServiceUnavailable))
	assert.Equal(t, 1, f.calls)
}

func TestAnalyze_ServiceDownAfterRetries(t *testing.T) {
	down := respondStatus(http.StatusServiceUnavailable)
	f := &fixture{t: t, responses: []func(http.ResponseWriter){down, down, down, down}}
	a := newTestAnalyzer(t, f)

	_, err := a.Analyze(context.Background(), "sk-test", launchTranscript)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrAnalysisServiceUnavailable))
	assert.Equal(t, 4, f.calls)
}
