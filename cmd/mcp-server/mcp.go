package main

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/njchilds90/symengine/engine"
	"github.com/njchilds90/symengine/internal/catalog"
)

type batchOutput struct {
	Results []engine.BatchItemResult `json:"results"`
}

type tasksOutput struct {
	Tasks []string `json:"tasks"`
}

type searchInput struct {
	Query string `json:"query" jsonschema:"free-text description of the operation"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default 10)"`
}

type searchOutput struct {
	Results []catalog.Entry `json:"results"`
}

// newMCPServer exposes the engine as MCP tools. Tool errors are reported
// in-band (IsError) so a failed computation never tears down the session.
func newMCPServer(logger *slog.Logger, eng *engine.Engine, cat *catalog.Catalog) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "symengine", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compute",
		Description: "Run one symbolic computation: an expression plus a task name (simplify, solve, diff, integrate, limit, series, a library function, a dotted path or an alias).",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in engine.Request) (*mcp.CallToolResult, engine.Response, error) {
		resp, err := eng.Compute(in)
		if err != nil {
			logger.Debug("compute failed", slog.String("task", in.Task), slog.String("error", err.Error()))
			return nil, engine.Response{}, err
		}
		return nil, *resp, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compute_batch",
		Description: "Run several computations in order; failures are reported per item.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in engine.BatchRequest) (*mcp.CallToolResult, batchOutput, error) {
		return nil, batchOutput{Results: eng.ComputeBatch(in.Items)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List the task names accepted by compute.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, tasksOutput, error) {
		return nil, tasksOutput{Tasks: eng.ListTasks()}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_tasks",
		Description: "Find task names by free-text query, e.g. \"partial fractions\" or \"determinant\".",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in searchInput) (*mcp.CallToolResult, searchOutput, error) {
		hits, err := cat.Search(in.Query, in.Limit)
		if err != nil {
			return nil, searchOutput{}, err
		}
		return nil, searchOutput{Results: hits}, nil
	})

	return server
}
