// Package airtable is a small REST client for the Airtable base that acts as
// GuanaGO's system of record.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"guanago/internal/config"
	"guanago/internal/domain"
	"guanago/internal/metrics"

	"github.com/tidwall/gjson"
)

// Airtable caps pageSize at 100 records per request.
const maxPageSize = 100

type Client struct {
	BaseURL string
	BaseID  string
	APIKey  string
	HTTP    *http.Client
}

type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

type Sort struct {
	Field     string
	Direction string // asc / desc
}

type ListOptions struct {
	FilterByFormula string
	View            string
	Sort            []Sort
	Fields          []string
	MaxRecords      int
	PageSize        int
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

func NewClient(env config.Env) *Client {
	return &Client{
		BaseURL: env.AirtableAPIURL,
		BaseID:  env.AirtableBaseID,
		APIKey:  env.AirtableAPIKey,
		HTTP:    &http.Client{Timeout: env.HTTPTimeout},
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c != nil && c.APIKey != "" && c.BaseID != ""
}

// List fetches every record matching opts, following offset pagination.
func (c *Client) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	out := []Record{}
	offset := ""
	for {
		q := opts.query()
		if offset != "" {
			q.Set("offset", offset)
		}
		var page listResponse
		if err := c.do(ctx, http.MethodGet, c.tableURL(table, "")+"?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		out = append(out, page.Records...)
		if opts.MaxRecords > 0 && len(out) >= opts.MaxRecords {
			return out[:opts.MaxRecords], nil
		}
		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

func (c *Client) Get(ctx context.Context, table, id string) (Record, error) {
	var rec Record
	if strings.TrimSpace(id) == "" {
		return rec, domain.ValidationError{Field: "id", Msg: "requerido"}
	}
	err := c.do(ctx, http.MethodGet, c.tableURL(table, id), nil, &rec)
	return rec, err
}

func (c *Client) Create(ctx context.Context, table string, fields map[string]any) (Record, error) {
	var rec Record
	body := map[string]any{"fields": fields, "typecast": true}
	err := c.do(ctx, http.MethodPost, c.tableURL(table, ""), body, &rec)
	return rec, err
}

// Update PATCHes only the given fields.
func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) (Record, error) {
	var rec Record
	if strings.TrimSpace(id) == "" {
		return rec, domain.ValidationError{Field: "id", Msg: "requerido"}
	}
	body := map[string]any{"fields": fields, "typecast": true}
	err := c.do(ctx, http.MethodPatch, c.tableURL(table, id), body, &rec)
	return rec, err
}

func (c *Client) Delete(ctx context.Context, table, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationError{Field: "id", Msg: "requerido"}
	}
	return c.do(ctx, http.MethodDelete, c.tableURL(table, id), nil, nil)
}

func (c *Client) tableURL(table, id string) string {
	u := strings.TrimRight(c.BaseURL, "/") + "/" + url.PathEscape(c.BaseID) + "/" + url.PathEscape(table)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, dst any) error {
	if !c.Configured() {
		return domain.UpstreamError{Service: "airtable", Err: domain.ErrNotConfigured}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return domain.InternalError{Msg: "no se pudo serializar el cuerpo", Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return domain.InternalError{Msg: "petición airtable inválida", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		metrics.UpstreamCalls.WithLabelValues("airtable", metrics.Outcome(0, err)).Inc()
		return domain.UpstreamError{Service: "airtable", Err: err}
	}
	defer resp.Body.Close()
	metrics.UpstreamCalls.WithLabelValues("airtable", metrics.Outcome(resp.StatusCode, nil)).Inc()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return domain.UpstreamError{Service: "airtable", Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}
	if dst == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return domain.UpstreamError{Service: "airtable", Status: resp.StatusCode, Msg: "respuesta no es JSON", Err: err}
	}
	return nil
}

func statusError(status int, raw []byte) error {
	msg := strings.TrimSpace(string(raw))
	if m := gjson.GetBytes(raw, "error.message"); m.Exists() {
		msg = m.String()
	} else if e := gjson.GetBytes(raw, "error"); e.Type == gjson.String {
		msg = e.String()
	}

	switch status {
	case http.StatusNotFound:
		return domain.NotFoundError{Resource: "registro", Err: errors.New(msg)}
	case http.StatusUnprocessableEntity:
		return domain.ValidationError{Msg: msg}
	default:
		return domain.UpstreamError{Service: "airtable", Status: status, Msg: msg}
	}
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.FilterByFormula != "" {
		q.Set("filterByFormula", o.FilterByFormula)
	}
	if o.View != "" {
		q.Set("view", o.View)
	}
	for i, s := range o.Sort {
		q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		dir := strings.ToLower(s.Direction)
		if dir != "desc" {
			dir = "asc"
		}
		q.Set(fmt.Sprintf("sort[%d][direction]", i), dir)
	}
	for _, f := range o.Fields {
		q.Add("fields[]", f)
	}
	if o.MaxRecords > 0 {
		q.Set("maxRecords", strconv.Itoa(o.MaxRecords))
	}
	size := o.PageSize
	if size <= 0 || size > maxPageSize {
		size = maxPageSize
	}
	q.Set("pageSize", strconv.Itoa(size))
	return q
}
