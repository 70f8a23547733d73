// Package groq calls Groq's OpenAI-compatible chat completions endpoint.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"guanago/internal/config"
	"guanago/internal/domain"
	"guanago/internal/metrics"

	"github.com/tidwall/gjson"
)

type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type ChatResult struct {
	Content          string
	Model            string
	FinishReason     string
	PromptTokens     int64
	CompletionTokens int64
}

func NewClient(env config.Env) *Client {
	timeout := env.HTTPTimeout
	if timeout < 30*time.Second {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: env.GroqAPIURL,
		APIKey:  env.GroqAPIKey,
		Model:   env.GroqModel,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.APIKey != ""
}

// Complete returns the first choice of a chat completion.
func (c *Client) Complete(ctx context.Context, in ChatRequest) (ChatResult, error) {
	if !c.Configured() {
		return ChatResult{}, domain.UpstreamError{Service: "groq", Err: domain.ErrNotConfigured}
	}
	if in.Model == "" {
		in.Model = c.Model
	}
	if len(in.Messages) == 0 {
		return ChatResult{}, domain.ValidationError{Field: "messages", Msg: "requerido"}
	}

	raw, err := json.Marshal(in)
	if err != nil {
		return ChatResult{}, domain.InternalError{Msg: "no se pudo serializar la petición", Err: err}
	}
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return ChatResult{}, domain.InternalError{Msg: "petición groq inválida", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		metrics.UpstreamCalls.WithLabelValues("groq", metrics.Outcome(0, err)).Inc()
		return ChatResult{}, domain.UpstreamError{Service: "groq", Err: err}
	}
	defer resp.Body.Close()
	metrics.UpstreamCalls.WithLabelValues("groq", metrics.Outcome(resp.StatusCode, nil)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return ChatResult{}, domain.UpstreamError{Service: "groq", Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return ChatResult{}, domain.UpstreamError{Service: "groq", Status: resp.StatusCode, Msg: msg}
	}

	choice := gjson.GetBytes(body, "choices.0")
	if !choice.Exists() {
		return ChatResult{}, domain.UpstreamError{Service: "groq", Status: resp.StatusCode, Msg: "respuesta sin choices"}
	}
	return ChatResult{
		Content:          strings.TrimSpace(choice.Get("message.content").String()),
		FinishReason:     choice.Get("finish_reason").String(),
		Model:            gjson.GetBytes(body, "model").String(),
		PromptTokens:     gjson.GetBytes(body, "usage.prompt_tokens").Int(),
		CompletionTokens: gjson.GetBytes(body, "usage.completion_tokens").Int(),
	}, nil
}
