package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ExecuteQueryInput struct {
	SQL        string `json:"sql"`
	DatabaseID string `json:"database_id,omitempty"`
}

type ExecuteQueryOutput struct {
	Columns      []string         `json:"columns,omitempty"`
	Rows         []map[string]any `json:"rows,omitempty"`
	RowCount     int              `json:"row_count"`
	Mutation     bool             `json:"mutation"`
	RowsAffected int64            `json:"rows_affected,omitempty"`
}

func RegisterExecuteQueryTool(log *slog.Logger, server *mcp.Server, svc Dispatcher) error {
	req, err := jsonschema.For[ExecuteQueryInput](nil)
	if err != nil {
		return fmt.Errorf("create execute_query input schema: %w", err)
	}

	res, err := jsonschema.For[ExecuteQueryOutput](nil)
	if err != nil {
		return fmt.Errorf("create execute_query output schema: %w", err)
	}

	mcp.AddTool(server, &mcp.Tool{
		Name: "execute_query",
		Description: `Execute a SQL statement against a configured PostgreSQL database.

Statements returning rows (SELECT, RETURNING) yield columns plus rows; other
statements (INSERT, UPDATE, DELETE, DDL) yield the affected-row count. The
optional "database_id" selects a database from "list_databases"; when omitted
the configured default is used.`,
		InputSchema:  req,
		OutputSchema: res,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in ExecuteQueryInput) (*mcp.CallToolResult, ExecuteQueryOutput, error) {
		start := time.Now()
		out, err := handleExecuteQuery(ctx, svc, in)
		logToolCall(log, "execute_query", start, err)
		if err != nil {
			return nil, ExecuteQueryOutput{}, err
		}
		return nil, out, nil
	})
	return nil
}

func handleExecuteQuery(ctx context.Context, svc Dispatcher, in ExecuteQueryInput) (ExecuteQueryOutput, error) {
	result, err := svc.ExecuteQuery(ctx, in.SQL, in.DatabaseID)
	if err != nil {
		return ExecuteQueryOutput{}, err
	}

	return ExecuteQueryOutput{
		Columns:      result.Columns,
		Rows:         result.Rows,
		RowCount:     result.RowCount,
		Mutation:     result.Mutation,
		RowsAffected: result.RowsAffected,
	}, nil
}
