package server

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joacominatel/pgbridge/internal/database"
	"github.com/joacominatel/pgbridge/internal/registry"
)

// fakeDispatcher serves canned answers for the tool and resource handlers.
type fakeDispatcher struct {
	queryResult *database.QueryResult
	queryErr    error
	tables      []database.Table
	tablesErr   error
	descriptors map[string]*database.TableDescriptor
	statuses    []registry.Status

	gotSQL        string
	gotDatabaseID string
	gotSchema     string
}

func (f *fakeDispatcher) ExecuteQuery(ctx context.Context, sql, databaseID string) (*database.QueryResult, error) {
	f.gotSQL = sql
	f.gotDatabaseID = databaseID
	return f.queryResult, f.queryErr
}

func (f *fakeDispatcher) ListTables(ctx context.Context, schema, databaseID string) ([]database.Table, error) {
	f.gotSchema = schema
	f.gotDatabaseID = databaseID
	return f.tables, f.tablesErr
}

func (f *fakeDispatcher) DescribeTable(ctx context.Context, table, schema, databaseID string) (*database.TableDescriptor, error) {
	desc, ok := f.descriptors[table]
	if !ok {
		return nil, &database.NotFoundError{Msg: "table not found: public." + table}
	}
	return desc, nil
}

func (f *fakeDispatcher) ListDatabases() []registry.Status {
	return f.statuses
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func usersDescriptor() *database.TableDescriptor {
	return &database.TableDescriptor{
		Schema: "public",
		Name:   "users",
		Columns: []database.Column{
			{Name: "id", DataType: "integer", Default: "nextval('users_id_seq'::regclass)", OrdinalPos: 1},
			{Name: "email", DataType: "text", OrdinalPos: 2},
		},
		PrimaryKey: []string{"id"},
		ForeignKeys: []database.ForeignKey{
			{ConstraintName: "users_org_fk", Column: "org_id", ReferencedTable: "orgs", ReferencedColumn: "id"},
		},
	}
}

func TestServerNew(t *testing.T) {
	t.Parallel()

	t.Run("registers all tools", func(t *testing.T) {
		t.Parallel()

		s, err := New(Config{Logger: testLogger(), Service: &fakeDispatcher{}})
		require.NoError(t, err)
		require.NotNil(t, s.mcp)
		require.Nil(t, s.http)
	})

	t.Run("http server when listen addr set", func(t *testing.T) {
		t.Parallel()

		s, err := New(Config{
			Logger:     testLogger(),
			Service:    &fakeDispatcher{},
			ListenAddr: "127.0.0.1:0",
		})
		require.NoError(t, err)
		require.NotNil(t, s.http)
	})

	t.Run("missing service", func(t *testing.T) {
		t.Parallel()

		_, err := New(Config{Logger: testLogger()})
		require.Error(t, err)
	})
}
