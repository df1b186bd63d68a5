package oracle

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aiContext = "AI was founded as an academic discipline in 1956."

func newClaudeServer(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))

		var req anthropicRequest
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &req))
		assert.Equal(t, AnswerPrompt, req.System)
		if !assert.Len(t, req.Messages, 1) {
			return
		}
		assert.Contains(t, req.Messages[0].Content, aiContext)

		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = io.WriteString(w, text)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": text}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClaude_VerbatimAnswer(t *testing.T) {
	srv := newClaudeServer(t, http.StatusOK, "```json\n{\"answer\": \" 1956 \", \"score\": 0.91}\n```")
	c := NewClaudeClient("sk-test", "", time.Second).WithBaseURL(srv.URL)

	res, err := c.Answer(context.Background(), "When was AI founded?", aiContext)
	require.NoError(t, err)
	assert.Equal(t, "1956", res.Answer)
	assert.InDelta(t, 0.91, res.Score, 1e-9)
	assert.Nil(t, res.Span)
}

func TestClaude_ScoreClamped(t *testing.T) {
	srv := newClaudeServer(t, http.StatusOK, `{"answer": "academic discipline", "score": 3}`)
	c := NewClaudeClient("sk-test", "", time.Second).WithBaseURL(srv.URL)

	res, err := c.Answer(context.Background(), "What kind?", aiContext)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Score)
}

func TestClaude_RejectsParaphrase(t *testing.T) {
	srv := newClaudeServer(t, http.StatusOK, `{"answer": "in the year 1956", "score": 0.8}`)
	c := NewClaudeClient("sk-test", "", time.Second).WithBaseURL(srv.URL)

	_, err := c.Answer(context.Background(), "When?", aiContext)
	assert.ErrorIs(t, err, ErrNotVerbatim)
}

func TestClaude_MalformedJSON(t *testing.T) {
	srv := newClaudeServer(t, http.StatusOK, `The answer is 1956.`)
	c := NewClaudeClient("sk-test", "", time.Second).WithBaseURL(srv.URL)

	_, err := c.Answer(context.Background(), "When?", aiContext)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse answer json")
}

func TestClaude_OverloadedIsRetryable(t *testing.T) {
	srv := newClaudeServer(t, 529, `{"type":"error","error":{"type":"overloaded_error"}}`)
	c := NewClaudeClient("sk-test", "", time.Second).WithBaseURL(srv.URL)

	_, err := c.Answer(context.Background(), "When?", aiContext)
	assert.True(t, IsRetryable(err))
}

func TestStripCodeBlock(t *testing.T) {
	tests := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		`  {"a":1}  `:             `{"a":1}`,
	}
	for in, want := range tests {
		assert.Equal(t, want, stripCodeBlock(in))
	}
}
