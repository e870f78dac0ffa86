package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ListDatabasesInput struct{}

type DatabaseStatus struct {
	ID        string `json:"id"`
	IsDefault bool   `json:"is_default"`
	Connected bool   `json:"connected"`
}

type ListDatabasesOutput struct {
	Databases []DatabaseStatus `json:"databases"`
}

func RegisterListDatabasesTool(log *slog.Logger, server *mcp.Server, svc Dispatcher) error {
	req, err := jsonschema.For[ListDatabasesInput](nil)
	if err != nil {
		return fmt.Errorf("create list_databases input schema: %w", err)
	}

	res, err := jsonschema.For[ListDatabasesOutput](nil)
	if err != nil {
		return fmt.Errorf("create list_databases output schema: %w", err)
	}

	mcp.AddTool(server, &mcp.Tool{
		Name: "list_databases",
		Description: `List every configured database identifier, marking the default. Use the
identifiers as "database_id" in the other tools.`,
		InputSchema:  req,
		OutputSchema: res,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ ListDatabasesInput) (*mcp.CallToolResult, ListDatabasesOutput, error) {
		start := time.Now()

		statuses := svc.ListDatabases()
		databases := make([]DatabaseStatus, len(statuses))
		for i, st := range statuses {
			databases[i] = DatabaseStatus{
				ID:        st.Name,
				IsDefault: st.IsDefault,
				Connected: st.Connected,
			}
		}

		logToolCall(log, "list_databases", start, nil)
		return nil, ListDatabasesOutput{Databases: databases}, nil
	})
	return nil
}
