package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GriffinCanCode/AppShelf/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daemon(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	reply := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("GET /catalog", func(w http.ResponseWriter, r *http.Request) {
		entries := []client.Entry{
			{Name: "Figma", Path: "/Applications/Figma.app", Category: "Design", UsageCount: 3},
			{Name: "Mail", Path: "/System/Applications/Mail.app", IsSystem: true},
		}
		if r.URL.Query().Get("category") == "Design" {
			entries = entries[:1]
		}
		reply(w, http.StatusOK, map[string]any{"entries": entries})
	})
	mux.HandleFunc("POST /catalog/usage", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["path"] == "/gone.app" {
			reply(w, http.StatusNotFound, map[string]string{"error": "app not found: /gone.app"})
			return
		}
		reply(w, http.StatusOK, map[string]any{"path": body["path"], "count": 4})
	})
	mux.HandleFunc("PUT /catalog/category", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /categories", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusCreated, client.Categories{
			UserCategories: []string{"Games"},
			CategoryOrder:  []string{"Frequent", "Games"},
		})
	})
	mux.HandleFunc("POST /catalog/auto-categorize", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, client.AutoResult{Examined: 5, Assigned: 2, Unmatched: 1, Failed: 2, Written: true})
	})
	mux.HandleFunc("GET /catalog/stats", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("top"))
		reply(w, http.StatusOK, client.Stats{
			Apps: 2, SystemApps: 1, Categorized: 1, TotalLaunches: 3,
			ByCategory: map[string]int{"Design": 1},
			TopUsed:    []client.Usage{{Name: "Figma", Count: 3}},
		})
	})
	mux.HandleFunc("GET /config", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"config": map[string]any{"theme": "Aurora"}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(&out)
	cmd.SetArgs(append([]string{"--addr", srv.URL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestListTable(t *testing.T) {
	out, err := run(t, daemon(t), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Figma")
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "Mail")
}

func TestListJSONWithCategory(t *testing.T) {
	out, err := run(t, daemon(t), "list", "--category", "Design", "--json")
	require.NoError(t, err)

	var entries []client.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Figma", entries[0].Name)
}

func TestUsage(t *testing.T) {
	srv := daemon(t)

	out, err := run(t, srv, "usage", "/Applications/Figma.app")
	require.NoError(t, err)
	assert.Equal(t, "/Applications/Figma.app launched 4 times\n", out)

	_, err = run(t, srv, "usage", "/gone.app")
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestCategorizeAndCategories(t *testing.T) {
	srv := daemon(t)

	out, err := run(t, srv, "categorize", "/Applications/Figma.app", "Design")
	require.NoError(t, err)
	assert.Contains(t, out, "-> Design")

	out, err = run(t, srv, "categorize", "/Applications/Figma.app")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared")

	out, err = run(t, srv, "category", "add", "Games")
	require.NoError(t, err)
	assert.Equal(t, "  Frequent\n* Games\n", out)
}

func TestAutoAndStats(t *testing.T) {
	srv := daemon(t)

	out, err := run(t, srv, "auto")
	require.NoError(t, err)
	assert.Equal(t, "Examined 5, assigned 2, unmatched 1, failed 2\n", out)

	out, err = run(t, srv, "stats", "--top", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Applications")
	assert.Contains(t, out, "1. Figma")
}

func TestConfig(t *testing.T) {
	out, err := run(t, daemon(t), "config")
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"Aurora"}`, out)
}

func TestArgsValidated(t *testing.T) {
	_, err := run(t, daemon(t), "usage")
	assert.Error(t, err)
}
