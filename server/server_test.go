package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reagentdev/reagent"
)

// echoRunner answers every task with a fixed prefix plus the task text.
type echoRunner struct {
	prefix string
	err    error
	tasks  []string
}

func (r *echoRunner) Run(ctx context.Context, task string) (string, error) {
	r.tasks = append(r.tasks, task)
	if r.err != nil {
		return "", r.err
	}
	return r.prefix + task, nil
}

func newTestServer(runner reagent.Runner) *httptest.Server {
	return httptest.NewServer(New(runner, nil).Handler())
}

func postJSON(t *testing.T, url string, body any, headers map[string]string) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(string(data)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestChatCompletions(t *testing.T) {
	runner := &echoRunner{prefix: "answer: "}
	ts := newTestServer(runner)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/chat/completions", ChatCompletionRequest{
		Model: "reagent",
		Messages: []ChatMessage{
			{Role: "system", Content: "be helpful"},
			{Role: "user", Content: "what is 2+2?"},
		},
	}, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ChatCompletionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.True(t, strings.HasPrefix(body.ID, "chatcmpl-"))
	assert.Equal(t, "chat.completion", body.Object)
	require.Len(t, body.Choices, 1)
	assert.Equal(t, "assistant", body.Choices[0].Message.Role)
	assert.Equal(t, "answer: what is 2+2?", body.Choices[0].Message.Content)
	assert.Equal(t, "stop", body.Choices[0].FinishReason)
	assert.Equal(t, 4, body.Usage.CompletionTokens)

	// The last message is the task; earlier messages are context only.
	require.Len(t, runner.tasks, 1)
	assert.Equal(t, "what is 2+2?", runner.tasks[0])

	// A conversation ID is minted when the client sends none.
	assert.NotEmpty(t, resp.Header.Get("X-Conversation-ID"))
}

func TestChatCompletions_EchoesConversationID(t *testing.T) {
	ts := newTestServer(&echoRunner{})
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/chat/completions", ChatCompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	}, map[string]string{"X-Conversation-ID": "conv-123"})
	defer resp.Body.Close()

	assert.Equal(t, "conv-123", resp.Header.Get("X-Conversation-ID"))
}

func TestChatCompletions_EmptyMessages(t *testing.T) {
	ts := newTestServer(&echoRunner{})
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/chat/completions", ChatCompletionRequest{
		Messages: []ChatMessage{},
	}, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Messages array is required and cannot be empty", body.Error.Message)
	assert.Equal(t, "invalid_request_error", body.Error.Type)
}

func TestChatCompletions_RunnerError(t *testing.T) {
	ts := newTestServer(&echoRunner{err: errors.New("model unavailable")})
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/chat/completions", ChatCompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	}, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "server_error", body.Error.Type)
}

func TestChatCompletions_Streaming(t *testing.T) {
	ts := newTestServer(&echoRunner{prefix: ""})
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/chat/completions", ChatCompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "one two three"}},
		Stream:   true,
	}, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var chunks []string
	var sawDone bool
	var finishReason string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			sawDone = true
			continue
		}
		var chunk StreamChunk
		require.NoError(t, json.Unmarshal([]byte(payload), &chunk))
		require.Len(t, chunk.Choices, 1)
		if chunk.Choices[0].FinishReason != nil {
			finishReason = *chunk.Choices[0].FinishReason
			continue
		}
		chunks = append(chunks, chunk.Choices[0].Delta.Content)
	}
	require.NoError(t, scanner.Err())

	// One chunk per word, trailing space on all but the last, then a
	// finish chunk and the DONE marker.
	assert.Equal(t, []string{"one ", "two ", "three"}, chunks)
	assert.Equal(t, "stop", finishReason)
	assert.True(t, sawDone)
}

func TestLegacyCompletions(t *testing.T) {
	ts := newTestServer(&echoRunner{prefix: "answer: "})
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/completions", CompletionRequest{
		Prompt: "what is 2+2?",
	}, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ChatCompletionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Choices, 1)
	assert.Equal(t, "answer: what is 2+2?", body.Choices[0].Message.Content)
}

func TestLegacyCompletions_MissingPrompt(t *testing.T) {
	ts := newTestServer(&echoRunner{})
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/completions", CompletionRequest{}, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestModels(t *testing.T) {
	ts := newTestServer(&echoRunner{})
	defer ts.Close()

	for _, path := range []string{"/v1/models", "/models"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)

		var body ModelsResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, "list", body.Object)
		require.Len(t, body.Data, 1)
		assert.Equal(t, DefaultModelID, body.Data[0].ID)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(&echoRunner{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestEmbeddingsStub(t *testing.T) {
	ts := newTestServer(&echoRunner{})
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/embeddings", map[string]any{"input": "x"}, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Len(t, body.Data[0].Embedding, 1536)
}

func TestUnprefixedChatCompletionsAlias(t *testing.T) {
	ts := newTestServer(&echoRunner{prefix: "answer: "})
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/chat/completions", ChatCompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	}, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
