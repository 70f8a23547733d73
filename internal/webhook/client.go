// Package webhook dispatches actions to Make.com scenarios.
//
// Every scenario listens on a custom webhook and routes on the "action" key
// of the JSON body. Scenarios that end with a "Webhook response" module
// answer JSON; the others answer the plain text "Accepted".
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"guanago/internal/domain"
	"guanago/internal/metrics"

	"github.com/tidwall/gjson"
)

type Client struct {
	URL  string
	HTTP *http.Client
	Now  func() time.Time
}

// Response is the body returned by the scenario.
type Response struct {
	Status int
	Raw    []byte
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{URL: strings.TrimSpace(url), HTTP: &http.Client{Timeout: timeout}}
}

func (c *Client) Configured() bool {
	return c != nil && c.URL != ""
}

// JSON reports whether the scenario answered a JSON document.
func (r Response) JSON() bool {
	return gjson.ValidBytes(r.Raw) && (gjson.ParseBytes(r.Raw).IsObject() || gjson.ParseBytes(r.Raw).IsArray())
}

// Get reads a gjson path from a JSON response. Non-JSON bodies yield an empty result.
func (r Response) Get(path string) gjson.Result {
	if !r.JSON() {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.Raw, path)
}

// Dispatch posts {"action": action, ...payload, "sentAt": now} to the webhook.
func (c *Client) Dispatch(ctx context.Context, action string, payload map[string]any) (Response, error) {
	if !c.Configured() {
		return Response{}, domain.UpstreamError{Service: "make", Err: domain.ErrNotConfigured}
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return Response{}, domain.ValidationError{Field: "action", Msg: "requerido"}
	}

	body := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["action"] = action
	body["sentAt"] = c.now().UTC().Format(time.RFC3339)

	raw, err := json.Marshal(body)
	if err != nil {
		return Response{}, domain.InternalError{Msg: "no se pudo serializar el payload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(raw))
	if err != nil {
		return Response{}, domain.InternalError{Msg: "petición make inválida", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		metrics.UpstreamCalls.WithLabelValues("make", metrics.Outcome(0, err)).Inc()
		return Response{}, domain.UpstreamError{Service: "make", Err: err}
	}
	defer resp.Body.Close()
	metrics.UpstreamCalls.WithLabelValues("make", metrics.Outcome(resp.StatusCode, nil)).Inc()

	out, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Response{}, domain.UpstreamError{Service: "make", Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{Status: resp.StatusCode, Raw: out}, domain.UpstreamError{
			Service: "make",
			Status:  resp.StatusCode,
			Msg:     strings.TrimSpace(string(out)),
		}
	}
	return Response{Status: resp.StatusCode, Raw: out}, nil
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
