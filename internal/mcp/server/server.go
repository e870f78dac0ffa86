// Package server exposes the dispatcher's operations as Model Context
// Protocol tools, resources, and prompts, over stdio or streamable HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joacominatel/pgbridge/internal/database"
	"github.com/joacominatel/pgbridge/internal/registry"
)

// Dispatcher is the operation surface the MCP layer forwards to.
// Implemented by *app.Service.
type Dispatcher interface {
	ExecuteQuery(ctx context.Context, sql, databaseID string) (*database.QueryResult, error)
	ListTables(ctx context.Context, schema, databaseID string) ([]database.Table, error)
	DescribeTable(ctx context.Context, table, schema, databaseID string) (*database.TableDescriptor, error)
	ListDatabases() []registry.Status
}

type Server struct {
	log  *slog.Logger
	cfg  Config
	svc  Dispatcher
	mcp  *mcp.Server
	http *http.Server
}

// New builds the MCP server and registers all tools, resources, and the
// query-helper prompt.
func New(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "pgbridge",
		Version: cfg.Version,
	}, nil)

	s := &Server{
		log: cfg.Logger,
		cfg: cfg,
		svc: cfg.Service,
		mcp: mcpServer,
	}

	if err := RegisterExecuteQueryTool(s.log, mcpServer, s.svc); err != nil {
		return nil, fmt.Errorf("register execute_query tool: %w", err)
	}
	if err := RegisterListTablesTool(s.log, mcpServer, s.svc); err != nil {
		return nil, fmt.Errorf("register list_tables tool: %w", err)
	}
	if err := RegisterDescribeTableTool(s.log, mcpServer, s.svc); err != nil {
		return nil, fmt.Errorf("register describe_table tool: %w", err)
	}
	if err := RegisterListDatabasesTool(s.log, mcpServer, s.svc); err != nil {
		return nil, fmt.Errorf("register list_databases tool: %w", err)
	}

	s.registerResources()
	s.registerPrompts()

	if cfg.ListenAddr != "" {
		mux := http.NewServeMux()
		handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
			return s.mcp
		}, &mcp.StreamableHTTPOptions{
			Stateless: true,
		})
		mux.Handle("/", handler)
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write([]byte("ok\n")); err != nil {
				s.log.Error("mcp/server: write healthz response", "error", err)
			}
		})

		s.http = &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           mux,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		}
	}

	return s, nil
}

// Run serves MCP requests until the context is cancelled. With a listen
// address configured it serves streamable HTTP; otherwise it speaks the
// protocol over stdin/stdout.
func (s *Server) Run(ctx context.Context) error {
	if s.http == nil {
		s.log.Info("mcp/server: serving on stdio")
		return s.mcp.Run(ctx, &mcp.StdioTransport{})
	}

	serveErrCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErrCh <- fmt.Errorf("listen and serve: %w", err)
		}
	}()

	s.log.Info("mcp/server: streamable http listening", "listenAddr", s.cfg.ListenAddr)

	select {
	case <-ctx.Done():
		s.log.Info("mcp/server: stopping", "reason", ctx.Err())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serveErrCh:
		s.log.Error("mcp/server: http server error", "error", err)
		return err
	}
}

// logToolCall records one tool dispatch with its outcome and duration.
func logToolCall(log *slog.Logger, tool string, start time.Time, err error) {
	if err != nil {
		log.Error("mcp/tool: "+tool+" failed", "error", err, "duration", time.Since(start))
		return
	}
	log.Debug("mcp/tool: "+tool+" ok", "duration", time.Since(start))
}
