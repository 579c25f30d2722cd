package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/njchilds90/symengine/engine"
	"github.com/njchilds90/symengine/internal/catalog"
)

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(engine.NewConfig())
	cat, err := catalog.New(eng)
	if err != nil {
		t.Fatal(err)
	}

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := newMCPServer(logger, eng, cat).Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

// structured decodes a tool result's structured content into v.
func structured(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
}

func TestMCP_ListsTools(t *testing.T) {
	cs := connect(t)
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"compute", "compute_batch", "list_tasks", "search_tasks"} {
		if !names[want] {
			t.Errorf("want tool %s", want)
		}
	}
}

func TestMCP_Compute(t *testing.T) {
	cs := connect(t)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "compute",
		Arguments: map[string]any{"expression": "sin(x)/x", "task": "limit", "variable": "x"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %v", res.Content)
	}
	var out engine.Response
	structured(t, res, &out)
	if out.ResultText != "1" {
		t.Errorf("want 1, got %s", out.ResultText)
	}
}

func TestMCP_ComputeErrorIsInBand(t *testing.T) {
	cs := connect(t)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "compute",
		Arguments: map[string]any{"expression": "x**", "task": "expand"},
	})
	if err != nil {
		t.Fatalf("protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatalf("want IsError")
	}
	text, _ := res.Content[0].(*mcp.TextContent)
	if text == nil || !strings.Contains(text.Text, "ParseError") {
		t.Errorf("want ParseError text, got %v", res.Content)
	}
}

func TestMCP_Batch(t *testing.T) {
	cs := connect(t)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "compute_batch",
		Arguments: map[string]any{"items": []any{
			map[string]any{"expression": "x + x", "task": "simplify"},
			map[string]any{"expression": "x", "task": "not_a_task"},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	var out batchOutput
	structured(t, res, &out)
	if len(out.Results) != 2 || !out.Results[0].OK || out.Results[1].OK {
		t.Errorf("want [ok, failed], got %+v", out.Results)
	}
}

func TestMCP_SearchTasks(t *testing.T) {
	cs := connect(t)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "search_tasks",
		Arguments: map[string]any{"query": "laplace", "limit": 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	var out searchOutput
	structured(t, res, &out)
	if len(out.Results) == 0 {
		t.Errorf("want results for laplace")
	}
}
