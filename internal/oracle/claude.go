package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultAnthropicURL   = "https://api.anthropic.com"
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
)

// ClaudeClient calls the Anthropic Messages API and asks the model to quote
// the answer verbatim from the context. It returns no offsets.
type ClaudeClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClaudeClient(apiKey, model string, timeout time.Duration) *ClaudeClient {
	if model == "" {
		model = DefaultAnthropicModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ClaudeClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultAnthropicURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithBaseURL points the client at another Messages API host.
func (c *ClaudeClient) WithBaseURL(u string) *ClaudeClient {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type quotedResult struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

func (c *ClaudeClient) Name() string { return "claude:" + c.model }

// Answer asks Claude for the shortest verbatim span of passage answering question.
func (c *ClaudeClient) Answer(ctx context.Context, question, passage string) (Result, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: 512,
		System:    AnswerPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: BuildQuestionPrompt(question, passage)},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("claude api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return Result{}, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("claude api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return Result{}, fmt.Errorf("claude error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return Result{}, fmt.Errorf("empty response from claude")
	}

	text := stripCodeBlock(apiResp.Content[0].Text)
	if err := validateJSON(quotedAnswer, []byte(text)); err != nil {
		return Result{}, fmt.Errorf("parse answer json: %w (raw: %s)", err, truncate(text, 200))
	}
	var q quotedResult
	if err := json.Unmarshal([]byte(text), &q); err != nil {
		return Result{}, fmt.Errorf("parse answer json: %w (raw: %s)", err, truncate(text, 200))
	}

	return CheckVerbatim(Result{Answer: q.Answer, Score: q.Score}, passage)
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// Close releases resources.
func (c *ClaudeClient) Close() {
	c.httpClient.CloseIdleConnections()
}
