package server

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joacominatel/pgbridge/internal/database"
)

const (
	resourceTablesURI     = "schema://tables"
	resourceTablePrefix   = "schema://table/"
	resourceTableTemplate = resourceTablePrefix + "{table}"
)

// registerResources exposes read-only schema overviews of the default
// database as markdown resources.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         resourceTablesURI,
		Name:        "schema-overview",
		Description: "Overview of every table in the public schema of the default database, with columns.",
		MIMEType:    "text/markdown",
	}, s.handleTablesResource)

	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceTableTemplate,
		Name:        "table-schema",
		Description: "Detailed schema of one table in the public schema of the default database.",
		MIMEType:    "text/markdown",
	}, s.handleTableResource)
}

func (s *Server) handleTablesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	tables, err := s.svc.ListTables(ctx, "", "")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("# Database Schema Overview\n\n")

	for _, t := range tables {
		desc, err := s.svc.DescribeTable(ctx, t.Name, "", "")
		if err != nil {
			return nil, err
		}
		buf.WriteString(fmt.Sprintf("## Table: %s\n\nType: %s\n\n", t.Name, t.Type))
		writeColumnTable(&buf, desc.Columns)
		buf.WriteString("\n")
	}

	return markdownResult(req.Params.URI, buf.String()), nil
}

func (s *Server) handleTableResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	table := strings.TrimPrefix(req.Params.URI, resourceTablePrefix)
	if table == "" || table == req.Params.URI {
		return nil, &database.ValidationError{Field: "table"}
	}

	desc, err := s.svc.DescribeTable(ctx, table, "", "")
	if err != nil {
		return nil, err
	}

	return markdownResult(req.Params.URI, renderTableDetail(desc)), nil
}

func renderTableDetail(desc *database.TableDescriptor) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("# Table: %s.%s\n\n## Columns\n\n", desc.Schema, desc.Name))
	writeColumnTable(&buf, desc.Columns)

	if len(desc.PrimaryKey) > 0 {
		buf.WriteString(fmt.Sprintf("\n## Primary Key\n\n%s\n", strings.Join(desc.PrimaryKey, ", ")))
	}

	if len(desc.ForeignKeys) > 0 {
		buf.WriteString("\n## Foreign Keys\n\n")
		rows := make([][]string, len(desc.ForeignKeys))
		for i, fk := range desc.ForeignKeys {
			rows[i] = []string{fk.ConstraintName, fk.Column, fk.ReferencedTable, fk.ReferencedColumn}
		}
		writeMarkdownTable(&buf, []string{"Constraint", "Column", "References Table", "References Column"}, rows)
	}

	return buf.String()
}

func writeColumnTable(buf *bytes.Buffer, columns []database.Column) {
	rows := make([][]string, len(columns))
	for i, c := range columns {
		nullable := "No"
		if c.IsNullable {
			nullable = "Yes"
		}
		def := c.Default
		if def == "" {
			def = "None"
		}
		rows[i] = []string{c.Name, c.DataType, nullable, def}
	}
	writeMarkdownTable(buf, []string{"Column", "Type", "Nullable", "Default"}, rows)
}

func markdownResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     text,
		}},
	}
}
