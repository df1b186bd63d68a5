package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultHFBaseURL = "https://router.huggingface.co/hf-inference"
	DefaultHFModel   = "deepset/roberta-base-squad2"
)

// HuggingFaceClient calls a Hugging Face inference endpoint running an
// extractive question-answering model. Answers carry character offsets.
type HuggingFaceClient struct {
	token      string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewHuggingFaceClient(token, baseURL, model string, timeout time.Duration) *HuggingFaceClient {
	if baseURL == "" {
		baseURL = DefaultHFBaseURL
	}
	if model == "" {
		model = DefaultHFModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HuggingFaceClient{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type hfInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfRequest struct {
	Inputs  hfInputs  `json:"inputs"`
	Options hfOptions `json:"options"`
}

type hfAnswer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

func (c *HuggingFaceClient) Name() string { return "huggingface:" + c.model }

// Answer asks the model for the span of context that answers question.
func (c *HuggingFaceClient) Answer(ctx context.Context, question, passage string) (Result, error) {
	body, err := json.Marshal(hfRequest{
		Inputs:  hfInputs{Question: question, Context: passage},
		Options: hfOptions{WaitForModel: true},
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("huggingface api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return Result{}, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    hfErrorMessage(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("huggingface api status %d: %s", resp.StatusCode, truncate(hfErrorMessage(respBody), 200))
	}

	raw, err := firstAnswer(respBody)
	if err != nil {
		return Result{}, err
	}
	if err := validateJSON(spanAnswer, raw); err != nil {
		return Result{}, fmt.Errorf("invalid answer: %w", err)
	}
	var ans hfAnswer
	if err := json.Unmarshal(raw, &ans); err != nil {
		return Result{}, fmt.Errorf("decode answer: %w", err)
	}

	res := Result{Answer: ans.Answer, Score: ans.Score}
	if ans.End >= ans.Start {
		res.Span = &Span{Start: ans.Start, End: ans.End}
	}
	return res, nil
}

// firstAnswer accepts either a single answer object or a list of them.
func firstAnswer(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("empty response from huggingface")
		}
		return list[0], nil
	}
	return json.RawMessage(trimmed), nil
}

func hfErrorMessage(body []byte) string {
	var e hfError
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		if e.EstimatedTime > 0 {
			return fmt.Sprintf("%s (estimated time %.0fs)", e.Error, e.EstimatedTime)
		}
		return e.Error
	}
	return string(body)
}

// Close releases resources.
func (c *HuggingFaceClient) Close() {
	c.httpClient.CloseIdleConnections()
}
