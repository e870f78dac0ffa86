package database

import "time"

// Table is one entry from a schema's table listing.
type Table struct {
	Name string
	Type string
}

// Column represents a table column with its metadata.
type Column struct {
	Name       string
	DataType   string
	IsNullable bool
	Default    string
	OrdinalPos int
}

// ForeignKey describes one foreign-key constraint column.
type ForeignKey struct {
	ConstraintName   string
	Column           string
	ReferencedTable  string
	ReferencedColumn string
}

// TableDescriptor is the full catalog description of a single table:
// columns in declaration order, primary-key columns, and foreign keys.
// It is produced fresh per request and never cached.
type TableDescriptor struct {
	Schema      string
	Name        string
	Columns     []Column
	PrimaryKey  []string
	ForeignKeys []ForeignKey
}

// QueryResult holds the result of a SQL statement execution. Exactly one of
// two shapes is populated: a row-set (Columns, Rows, RowCount) for statements
// that return a row description, or a mutation (Mutation, RowsAffected) for
// statements that only report an affected-row count.
type QueryResult struct {
	Columns      []string
	Rows         []map[string]any
	RowCount     int
	Mutation     bool
	RowsAffected int64
	Duration     time.Duration
}
