package airtable

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"guanago/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Client{BaseURL: srv.URL, BaseID: "appTEST", APIKey: "key", HTTP: srv.Client()}
}

func TestListFollowsOffsets(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/appTEST/ServiciosTuristicos_SAI", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.Equal(t, "{Activo}", r.URL.Query().Get("filterByFormula"))
		switch r.URL.Query().Get("offset") {
		case "":
			_, _ = w.Write([]byte(`{"records":[{"id":"rec1","fields":{"Nombre":"Tour A"}}],"offset":"p2"}`))
		case "p2":
			_, _ = w.Write([]byte(`{"records":[{"id":"rec2","fields":{"Nombre":"Tour B"}}]}`))
		default:
			t.Fatalf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	})

	recs, err := c.List(context.Background(), "ServiciosTuristicos_SAI", ListOptions{FilterByFormula: "{Activo}"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "rec2", recs[1].ID)
	assert.Equal(t, 2, calls)
}

func TestListStopsAtMaxRecords(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("maxRecords"))
		_, _ = w.Write([]byte(`{"records":[{"id":"rec1","fields":{}},{"id":"rec2","fields":{}}],"offset":"more"}`))
	})
	recs, err := c.List(context.Background(), "T", ListOptions{MaxRecords: 1})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestCreateSendsFieldsWithTypecast(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["typecast"])
		assert.Equal(t, map[string]any{"Nombre": "Ana"}, body["fields"])
		_, _ = w.Write([]byte(`{"id":"recNEW","fields":{"Nombre":"Ana"}}`))
	})
	rec, err := c.Create(context.Background(), "Reservas", map[string]any{"Nombre": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "recNEW", rec.ID)
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		body   string
		check  func(error) bool
	}{
		{http.StatusNotFound, `{"error":"NOT_FOUND"}`, domain.IsNotFound},
		{http.StatusUnprocessableEntity, `{"error":{"type":"INVALID_VALUE","message":"bad field"}}`, domain.IsValidation},
		{http.StatusServiceUnavailable, `oops`, domain.IsUpstream},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		})
		_, err := c.Get(context.Background(), "T", "rec1")
		require.Error(t, err)
		assert.True(t, tc.check(err), "status %d: %v", tc.status, err)
	}
}

func TestNotConfigured(t *testing.T) {
	c := &Client{BaseURL: "http://unused"}
	_, err := c.List(context.Background(), "T", ListOptions{})
	assert.True(t, domain.IsNotConfigured(err))
}

func TestDeleteRequiresID(t *testing.T) {
	c := &Client{BaseURL: "http://unused", BaseID: "b", APIKey: "k"}
	assert.True(t, domain.IsValidation(c.Delete(context.Background(), "T", " ")))
}
