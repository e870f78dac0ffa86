package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ListTablesInput struct {
	Schema     string `json:"schema,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

type TableSummary struct {
	Name string `json:"table_name"`
	Type string `json:"table_type"`
}

type ListTablesOutput struct {
	Schema string         `json:"schema"`
	Tables []TableSummary `json:"tables"`
	Count  int            `json:"count"`
}

func RegisterListTablesTool(log *slog.Logger, server *mcp.Server, svc Dispatcher) error {
	req, err := jsonschema.For[ListTablesInput](nil)
	if err != nil {
		return fmt.Errorf("create list_tables input schema: %w", err)
	}

	res, err := jsonschema.For[ListTablesOutput](nil)
	if err != nil {
		return fmt.Errorf("create list_tables output schema: %w", err)
	}

	mcp.AddTool(server, &mcp.Tool{
		Name: "list_tables",
		Description: `List all tables in a schema, ordered by name. "schema" defaults to
"public". An unknown or empty schema yields an empty list.`,
		InputSchema:  req,
		OutputSchema: res,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in ListTablesInput) (*mcp.CallToolResult, ListTablesOutput, error) {
		start := time.Now()
		out, err := handleListTables(ctx, svc, in)
		logToolCall(log, "list_tables", start, err)
		if err != nil {
			return nil, ListTablesOutput{}, err
		}
		return nil, out, nil
	})
	return nil
}

func handleListTables(ctx context.Context, svc Dispatcher, in ListTablesInput) (ListTablesOutput, error) {
	tables, err := svc.ListTables(ctx, in.Schema, in.DatabaseID)
	if err != nil {
		return ListTablesOutput{}, err
	}

	schema := in.Schema
	if schema == "" {
		schema = "public"
	}

	summaries := make([]TableSummary, len(tables))
	for i, t := range tables {
		summaries[i] = TableSummary{Name: t.Name, Type: t.Type}
	}

	return ListTablesOutput{
		Schema: schema,
		Tables: summaries,
		Count:  len(summaries),
	}, nil
}
