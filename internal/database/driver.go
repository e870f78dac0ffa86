package database

import "context"

// Driver defines the operations the dispatcher needs from one connected
// database. All implementations must be safe for concurrent use.
type Driver interface {
	// Close releases the underlying connection resources.
	Close() error

	// Ping checks if the connection is alive.
	Ping(ctx context.Context) error

	// ListTables returns the tables in a schema, ordered by name. An
	// unknown schema yields an empty list, matching catalog semantics.
	ListTables(ctx context.Context, schema string) ([]Table, error)

	// DescribeTable returns the full descriptor for a table. A table
	// absent from the catalog is a NotFoundError, not an empty descriptor.
	DescribeTable(ctx context.Context, schema, table string) (*TableDescriptor, error)

	// Execute runs a SQL statement and returns its result. Statement
	// failures are QueryErrors; a dead connection is a ConnectionError.
	Execute(ctx context.Context, sql string) (*QueryResult, error)

	// DatabaseName returns the name of the connected database.
	DatabaseName() string
}
