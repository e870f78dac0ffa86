package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joacominatel/pgbridge/internal/database"
)

// registerPrompts adds the query-helper prompt: guidance for writing a SQL
// statement against a specific table.
func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "sql_query_helper",
		Description: "Generate a helpful prompt for writing SQL queries against a specific table.",
		Arguments: []*mcp.PromptArgument{
			{Name: "table_name", Description: "The table to query", Required: true},
			{Name: "operation", Description: "Type of SQL operation (SELECT, INSERT, UPDATE, DELETE)"},
		},
	}, s.handleSQLQueryHelper)
}

func (s *Server) handleSQLQueryHelper(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	table := req.Params.Arguments["table_name"]
	if table == "" {
		return nil, &database.ValidationError{Field: "table_name"}
	}
	operation := req.Params.Arguments["operation"]
	if operation == "" {
		operation = "SELECT"
	}

	text := fmt.Sprintf(`Help me write a %[1]s query for the '%[2]s' table.

Please consider:
1. The table structure and column types
2. Appropriate WHERE clauses for filtering
3. Proper JOIN syntax if multiple tables are involved
4. Best practices for %[1]s operations

Table: %[2]s
Operation: %[1]s

What would you like to accomplish with this query?`, operation, table)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("SQL %s helper for table %s", operation, table),
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}, nil
}
