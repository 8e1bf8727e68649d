package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khata-app/khata/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestAnthropicClient_Complete(t *testing.T) {
	// given
	var received anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "hello"}]}`))
	}))
	defer server.Close()

	client := NewAnthropicClient(config.Anthropic{
		ApiKey:    "test-key",
		BaseUrl:   server.URL,
		Model:     "claude-3-5-sonnet-20241022",
		MaxTokens: 512,
	})

	// when
	reply, err := client.Complete(context.Background(), "parse this")

	// then
	assert.NoError(t, err)
	assert.Equal(t, "hello", reply)
	assert.Equal(t, "claude-3-5-sonnet-20241022", received.Model)
	assert.Equal(t, 512, received.MaxTokens)
	assert.Equal(t, []anthropicMessage{{Role: "user", Content: "parse this"}}, received.Messages)
}

func TestAnthropicClient_Complete_ApiError(t *testing.T) {
	// given
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	client := NewAnthropicClient(config.Anthropic{ApiKey: "test-key", BaseUrl: server.URL})

	// when
	_, err := client.Complete(context.Background(), "parse this")

	// then
	assert.ErrorContains(t, err, "rate limited")
}

func TestAnthropicClient_Complete_MissingApiKey(t *testing.T) {
	client := NewAnthropicClient(config.Anthropic{BaseUrl: "http://localhost"})

	_, err := client.Complete(context.Background(), "parse this")

	assert.ErrorContains(t, err, "api key")
}
