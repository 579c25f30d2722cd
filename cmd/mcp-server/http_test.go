package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/njchilds90/symengine/engine"
	"github.com/njchilds90/symengine/internal/catalog"
)

func testServer(t *testing.T, cfg config) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(engine.NewConfig())
	cat, err := catalog.New(eng)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	ts := httptest.NewServer(newServer(logger, eng, cat, cfg).routes())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, out
}

func TestCompute_OK(t *testing.T) {
	ts := testServer(t, config{})
	resp, out := post(t, ts.URL+"/compute", `{"expression": "x**3", "task": "diff", "variable": "x"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d: %v", resp.StatusCode, out)
	}
	if out["resultText"] != "3*x**2" {
		t.Errorf("want 3*x**2, got %v", out["resultText"])
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("want application/json, got %s", resp.Header.Get("Content-Type"))
	}
}

func TestCompute_ErrorStatus(t *testing.T) {
	ts := testServer(t, config{})
	tests := []struct {
		name, body, kind string
		status           int
	}{
		{"parse", `{"expression": "x**", "task": "expand"}`, "ParseError", http.StatusBadRequest},
		{"unsupported", `{"expression": "x", "task": "fourier"}`, "UnsupportedOperation", http.StatusNotFound},
		{"invalid", `{"expression": "", "task": "expand"}`, "InvalidRequest", http.StatusBadRequest},
		{"unknown field", `{"expression": "x", "task": "expand", "bogus": 1}`, "InvalidRequest", http.StatusBadRequest},
		{"trailing data", `{"expression": "x", "task": "expand"} {}`, "InvalidRequest", http.StatusBadRequest},
		{"computation", `{"expression": "Matrix([[1, 2], [2, 4]])", "task": "inv"}`, "ComputationError", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := post(t, ts.URL+"/compute", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("want %d, got %d", tt.status, resp.StatusCode)
			}
			e, _ := out["error"].(map[string]any)
			if e["kind"] != tt.kind {
				t.Errorf("want kind %s, got %v", tt.kind, out)
			}
		})
	}
}

func TestCompute_BodyLimit(t *testing.T) {
	ts := testServer(t, config{MaxBodyBytes: 32})
	resp, _ := post(t, ts.URL+"/compute", `{"expression": "`+strings.Repeat("x+", 40)+`x", "task": "expand"}`)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("want 413, got %d", resp.StatusCode)
	}
}

func TestBatch(t *testing.T) {
	ts := testServer(t, config{})
	resp, out := post(t, ts.URL+"/batch", `{"items": [
		{"expression": "(x + 1)**2", "task": "expand"},
		{"expression": "x**", "task": "expand"}
	]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	results, _ := out["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %v", out)
	}
	first, _ := results[0].(map[string]any)
	second, _ := results[1].(map[string]any)
	if first["ok"] != true || second["ok"] != false {
		t.Errorf("want [ok, failed], got %v", results)
	}
	if msg, _ := second["error"].(string); !strings.HasPrefix(msg, "ParseError: ") {
		t.Errorf("want ParseError message, got %q", msg)
	}
}

func TestTasks(t *testing.T) {
	ts := testServer(t, config{})
	resp, err := http.Get(ts.URL + "/tasks")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out struct {
		Tasks []string `json:"tasks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Tasks) == 0 {
		t.Errorf("want tasks, got none")
	}
}

func TestTasksSearch(t *testing.T) {
	ts := testServer(t, config{})
	resp, err := http.Get(ts.URL + "/tasks/search?q=laplace&limit=5")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out struct {
		Results []catalog.Entry `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Results) == 0 || len(out.Results) > 5 {
		t.Errorf("want 1..5 results, got %d", len(out.Results))
	}

	bad, err := http.Get(ts.URL + "/tasks/search")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("missing q: want 400, got %d", bad.StatusCode)
	}
}

func TestRateLimit(t *testing.T) {
	ts := testServer(t, config{Rate: 0.001, Burst: 1})
	first, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	first.Body.Close()
	second, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	second.Body.Close()
	if first.StatusCode != http.StatusOK || second.StatusCode != http.StatusTooManyRequests {
		t.Errorf("want 200 then 429, got %d then %d", first.StatusCode, second.StatusCode)
	}
}
