package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/joacominatel/pgbridge/internal/database"
	"github.com/joacominatel/pgbridge/internal/registry"
)

// DefaultSchema is substituted when a caller omits the schema argument.
const DefaultSchema = "public"

// Resolver is the slice of the connection registry the dispatcher uses.
// Implemented by *registry.Registry.
type Resolver interface {
	Canonical(name string) (string, error)
	Resolve(ctx context.Context, name string) (database.Driver, error)
	Evict(name string)
	List() []registry.Status
}

// Service is the dispatcher core: it validates arguments, substitutes
// defaults, resolves the target database, delegates to the driver, and
// passes every underlying failure through unchanged so callers see the
// originating error kind.
type Service struct {
	log      *slog.Logger
	registry Resolver
}

// NewService creates a new dispatcher over the given registry.
func NewService(log *slog.Logger, reg Resolver) *Service {
	return &Service{log: log, registry: reg}
}

// ExecuteQuery runs an arbitrary SQL statement against the identified
// database. Both read and write statements are permitted; query governance
// is a deployment concern, not enforced here.
func (s *Service) ExecuteQuery(ctx context.Context, sql, databaseID string) (*database.QueryResult, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, &database.ValidationError{Field: "sql"}
	}

	name, drv, err := s.resolve(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	log := s.opLogger("execute_query", name)
	result, err := drv.Execute(ctx, sql)
	if err != nil {
		s.maybeEvict(name, err)
		log.Error("query failed", "error", err)
		return nil, err
	}

	if result.Mutation {
		log.Debug("statement executed", "rows_affected", result.RowsAffected, "duration", result.Duration)
	} else {
		log.Debug("query executed", "rows", result.RowCount, "duration", result.Duration)
	}
	return result, nil
}

// ListTables lists the tables of a schema. An empty schema argument means
// the conventional default schema; an existing-but-empty schema yields an
// empty list, not an error.
func (s *Service) ListTables(ctx context.Context, schema, databaseID string) ([]database.Table, error) {
	if schema == "" {
		schema = DefaultSchema
	}

	name, drv, err := s.resolve(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	tables, err := drv.ListTables(ctx, schema)
	if err != nil {
		s.maybeEvict(name, err)
		return nil, err
	}
	return tables, nil
}

// DescribeTable returns the full descriptor of one table. A nonexistent
// table is a NotFoundError, never an empty descriptor.
func (s *Service) DescribeTable(ctx context.Context, table, schema, databaseID string) (*database.TableDescriptor, error) {
	if strings.TrimSpace(table) == "" {
		return nil, &database.ValidationError{Field: "table_name"}
	}
	if schema == "" {
		schema = DefaultSchema
	}

	name, drv, err := s.resolve(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	desc, err := drv.DescribeTable(ctx, schema, table)
	if err != nil {
		s.maybeEvict(name, err)
		return nil, err
	}
	return desc, nil
}

// ListDatabases enumerates all configured database identifiers with the
// default marker. Purely configuration-driven: no database I/O.
func (s *Service) ListDatabases() []registry.Status {
	return s.registry.List()
}

func (s *Service) resolve(ctx context.Context, databaseID string) (string, database.Driver, error) {
	name, err := s.registry.Canonical(databaseID)
	if err != nil {
		return "", nil, err
	}
	drv, err := s.registry.Resolve(ctx, name)
	if err != nil {
		return "", nil, err
	}
	return name, drv, nil
}

// maybeEvict discards the cached handle when the failure indicates a dead
// connection. The current call still fails; only the next resolution
// benefits.
func (s *Service) maybeEvict(name string, err error) {
	var connErr *database.ConnectionError
	if errors.As(err, &connErr) {
		s.registry.Evict(name)
	}
}

func (s *Service) opLogger(op, db string) *slog.Logger {
	return s.log.With("op", op, "database", db, "request_id", uuid.NewString())
}
