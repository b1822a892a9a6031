package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

func TestChatCompletion_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-per-run", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.InDelta(t, 0.3, req.Temperature, 0.001)
		assert.Equal(t, 2000, req.MaxTokens)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "{\"summary\": \"ok\"}"}},
			},
		})
	}))
	defer ts.Close()

	client := NewOpenAIClient(&config.OpenAIConfig{BaseURL: ts.URL, Model: "gpt-4o-mini"})

	content, err := client.ChatCompletion(context.Background(), "sk-per-run", []ChatMessage{
		{Role: "user", Content: "analyze this"},
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"summary\": \"ok\"}", content)
}

func TestChatCompletion_ErrorCarriesStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewOpenAIClient(&config.OpenAIConfig{BaseURL: ts.URL})

	_, err := client.ChatCompletion(context.Background(), "sk", nil)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.True(t, apiErr.Transient())
}

func TestChatCompletion_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer ts.Close()

	client := NewOpenAIClient(&config.OpenAIConfig{BaseURL: ts.URL})

	_, err := client.ChatCompletion(context.Background(), "sk", nil)
	assert.Error(t, err)
}

func TestAPIError_Transient(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: 429}).Transient())
	assert.True(t, (&APIError{StatusCode: 503}).Transient())
	assert.False(t, (&APIError{StatusCode: 401}).Transient())
	assert.False(t, (&APIError{StatusCode: 400}).Transient())
}
