package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joacominatel/pgbridge/internal/config"
	"github.com/joacominatel/pgbridge/internal/database"
)

// Driver implements the database.Driver interface for PostgreSQL.
type Driver struct {
	pool   *pgxpool.Pool
	dbName string
}

// Open establishes a connection pool to PostgreSQL and verifies it with a
// ping. The pool is kept small: connection reuse, not pool tuning.
func Open(ctx context.Context, conn config.Connection) (*Driver, error) {
	cfg, err := pgxpool.ParseConfig(conn.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = 5
	cfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Driver{pool: pool, dbName: cfg.ConnConfig.Database}, nil
}

// Close closes the connection pool.
func (d *Driver) Close() error {
	if d.pool != nil {
		d.pool.Close()
	}
	return nil
}

// Ping checks if the connection is alive.
func (d *Driver) Ping(ctx context.Context) error {
	if d.pool == nil {
		return fmt.Errorf("not connected")
	}
	return d.pool.Ping(ctx)
}

// ListTables returns the tables in a schema, ordered by name.
func (d *Driver) ListTables(ctx context.Context, schema string) ([]database.Table, error) {
	rows, err := d.pool.Query(ctx, queryListTables, schema)
	if err != nil {
		return nil, d.wrapErr(queryListTables, err)
	}
	defer rows.Close()

	tables := make([]database.Table, 0)
	for rows.Next() {
		var t database.Table
		if err := rows.Scan(&t.Name, &t.Type); err != nil {
			return nil, d.wrapErr(queryListTables, err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, d.wrapErr(queryListTables, err)
	}
	return tables, nil
}

// DescribeTable assembles a TableDescriptor from three catalog lookups:
// columns, primary-key columns, and foreign keys. A table with zero catalog
// columns does not exist.
func (d *Driver) DescribeTable(ctx context.Context, schema, table string) (*database.TableDescriptor, error) {
	columns, err := d.getColumns(ctx, schema, table)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, &database.NotFoundError{Msg: fmt.Sprintf("table not found: %s.%s", schema, table)}
	}

	primaryKey, err := d.getPrimaryKey(ctx, schema, table)
	if err != nil {
		return nil, err
	}

	foreignKeys, err := d.getForeignKeys(ctx, schema, table)
	if err != nil {
		return nil, err
	}

	return &database.TableDescriptor{
		Schema:      schema,
		Name:        table,
		Columns:     columns,
		PrimaryKey:  primaryKey,
		ForeignKeys: foreignKeys,
	}, nil
}

func (d *Driver) getColumns(ctx context.Context, schema, table string) ([]database.Column, error) {
	rows, err := d.pool.Query(ctx, queryGetColumns, schema, table)
	if err != nil {
		return nil, d.wrapErr(queryGetColumns, err)
	}
	defer rows.Close()

	var columns []database.Column
	for rows.Next() {
		var col database.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &col.Default, &col.OrdinalPos); err != nil {
			return nil, d.wrapErr(queryGetColumns, err)
		}
		col.IsNullable = nullable == "YES"
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, d.wrapErr(queryGetColumns, err)
	}
	return columns, nil
}

func (d *Driver) getPrimaryKey(ctx context.Context, schema, table string) ([]string, error) {
	rows, err := d.pool.Query(ctx, queryPrimaryKey, schema, table)
	if err != nil {
		return nil, d.wrapErr(queryPrimaryKey, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, d.wrapErr(queryPrimaryKey, err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, d.wrapErr(queryPrimaryKey, err)
	}
	return cols, nil
}

func (d *Driver) getForeignKeys(ctx context.Context, schema, table string) ([]database.ForeignKey, error) {
	rows, err := d.pool.Query(ctx, queryForeignKeys, schema, table)
	if err != nil {
		return nil, d.wrapErr(queryForeignKeys, err)
	}
	defer rows.Close()

	var fks []database.ForeignKey
	for rows.Next() {
		var fk database.ForeignKey
		if err := rows.Scan(&fk.ConstraintName, &fk.Column, &fk.ReferencedTable, &fk.ReferencedColumn); err != nil {
			return nil, d.wrapErr(queryForeignKeys, err)
		}
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, d.wrapErr(queryForeignKeys, err)
	}
	return fks, nil
}

// Execute runs a SQL statement and returns its result. Statements that
// produce a row description yield a row-set with all rows fetched and
// values converted to JSON-safe representations; everything else yields a
// mutation result with the affected-row count from the command tag. The
// statement text is submitted as-is: no client-side parsing, no statement
// type restriction, no retries.
func (d *Driver) Execute(ctx context.Context, sql string) (*database.QueryResult, error) {
	start := time.Now()

	rows, err := d.pool.Query(ctx, sql)
	if err != nil {
		return nil, d.wrapErr(sql, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	if len(fields) == 0 {
		// No row description: INSERT/UPDATE/DELETE/DDL. The command tag
		// is only valid once the rows are fully closed.
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, d.wrapErr(sql, err)
		}
		return &database.QueryResult{
			Mutation:     true,
			RowsAffected: rows.CommandTag().RowsAffected(),
			Duration:     time.Since(start),
		}, nil
	}

	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, d.wrapErr(sql, err)
		}
		row := make(map[string]any, len(columns))
		for i, v := range values {
			row[columns[i]] = jsonValue(v)
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, d.wrapErr(sql, err)
	}

	return &database.QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
		Duration: time.Since(start),
	}, nil
}

// DatabaseName returns the name of the connected database.
func (d *Driver) DatabaseName() string {
	return d.dbName
}

// wrapErr maps a driver-level failure to the error kind the dispatcher
// reacts to: a terminated connection becomes a ConnectionError (so the
// registry evicts the handle), everything else a QueryError.
func (d *Driver) wrapErr(sql string, err error) error {
	if terminal(err) {
		return &database.ConnectionError{Database: d.dbName, Cause: err}
	}
	return &database.QueryError{Query: sql, Cause: err}
}
