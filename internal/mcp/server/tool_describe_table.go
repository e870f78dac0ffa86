package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joacominatel/pgbridge/internal/database"
)

type DescribeTableInput struct {
	TableName  string `json:"table_name"`
	Schema     string `json:"schema,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

type ColumnInfo struct {
	Name       string `json:"name"`
	DataType   string `json:"data_type"`
	IsNullable bool   `json:"is_nullable"`
	Default    string `json:"default,omitempty"`
	OrdinalPos int    `json:"ordinal_position"`
}

type ForeignKeyInfo struct {
	ConstraintName   string `json:"constraint_name"`
	Column           string `json:"column"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
}

type DescribeTableOutput struct {
	Schema      string           `json:"schema"`
	TableName   string           `json:"table_name"`
	Columns     []ColumnInfo     `json:"columns"`
	PrimaryKey  []string         `json:"primary_key,omitempty"`
	ForeignKeys []ForeignKeyInfo `json:"foreign_keys,omitempty"`
}

func RegisterDescribeTableTool(log *slog.Logger, server *mcp.Server, svc Dispatcher) error {
	req, err := jsonschema.For[DescribeTableInput](nil)
	if err != nil {
		return fmt.Errorf("create describe_table input schema: %w", err)
	}

	res, err := jsonschema.For[DescribeTableOutput](nil)
	if err != nil {
		return fmt.Errorf("create describe_table output schema: %w", err)
	}

	mcp.AddTool(server, &mcp.Tool{
		Name: "describe_table",
		Description: `Describe one table: columns in declaration order (name, type, nullability,
default), primary-key columns, and foreign keys with their referenced
table/column. "schema" defaults to "public". A nonexistent table is an
error, not an empty description.`,
		InputSchema:  req,
		OutputSchema: res,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in DescribeTableInput) (*mcp.CallToolResult, DescribeTableOutput, error) {
		start := time.Now()
		out, err := handleDescribeTable(ctx, svc, in)
		logToolCall(log, "describe_table", start, err)
		if err != nil {
			return nil, DescribeTableOutput{}, err
		}
		return nil, out, nil
	})
	return nil
}

func handleDescribeTable(ctx context.Context, svc Dispatcher, in DescribeTableInput) (DescribeTableOutput, error) {
	desc, err := svc.DescribeTable(ctx, in.TableName, in.Schema, in.DatabaseID)
	if err != nil {
		return DescribeTableOutput{}, err
	}
	return describeOutput(desc), nil
}

func describeOutput(desc *database.TableDescriptor) DescribeTableOutput {
	columns := make([]ColumnInfo, len(desc.Columns))
	for i, c := range desc.Columns {
		columns[i] = ColumnInfo{
			Name:       c.Name,
			DataType:   c.DataType,
			IsNullable: c.IsNullable,
			Default:    c.Default,
			OrdinalPos: c.OrdinalPos,
		}
	}

	fks := make([]ForeignKeyInfo, len(desc.ForeignKeys))
	for i, fk := range desc.ForeignKeys {
		fks[i] = ForeignKeyInfo{
			ConstraintName:   fk.ConstraintName,
			Column:           fk.Column,
			ReferencedTable:  fk.ReferencedTable,
			ReferencedColumn: fk.ReferencedColumn,
		}
	}

	return DescribeTableOutput{
		Schema:      desc.Schema,
		TableName:   desc.Name,
		Columns:     columns,
		PrimaryKey:  desc.PrimaryKey,
		ForeignKeys: fks,
	}
}
