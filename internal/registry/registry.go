// Package registry owns the identifier -> connection handle mapping: lazy,
// cached, self-healing connection creation with explicit eviction on
// failure.
package registry

import (
	"context"
	"log/slog"
	"sync"

	"github.com/joacominatel/pgbridge/internal/config"
	"github.com/joacominatel/pgbridge/internal/database"
)

// Factory constructs a live, verified driver for one configured database.
type Factory func(ctx context.Context, conn config.Connection) (database.Driver, error)

// Status describes one configured database identifier for listings.
type Status struct {
	Name      string
	IsDefault bool
	Connected bool
}

// entry is the per-identifier slot. Its mutex guards creation and eviction
// of the driver for that identifier only, so a slow connect to one database
// never blocks resolutions of another.
type entry struct {
	mu     sync.Mutex
	driver database.Driver
}

// Registry resolves logical database identifiers to live connection
// handles, creating them on first use and caching them until they are
// evicted or the registry is closed. Safe for concurrent use.
type Registry struct {
	log     *slog.Logger
	cfg     *config.Config
	factory Factory

	mu      sync.Mutex
	entries map[string]*entry
}

// New creates a registry over the given configuration. No connections are
// established until an identifier is first resolved.
func New(log *slog.Logger, cfg *config.Config, factory Factory) *Registry {
	return &Registry{
		log:     log,
		cfg:     cfg,
		factory: factory,
		entries: make(map[string]*entry, len(cfg.Databases)),
	}
}

// Canonical maps a caller-supplied identifier to a configured one. An empty
// identifier selects the configured default; an unknown identifier is a
// NotFoundError, never a silent fallback.
func (r *Registry) Canonical(name string) (string, error) {
	if name == "" {
		if r.cfg.Default == "" {
			return "", &database.NoDefaultError{}
		}
		return r.cfg.Default, nil
	}
	if _, ok := r.cfg.ByName(name); !ok {
		return "", &database.NotFoundError{Msg: "unknown database: " + name}
	}
	return name, nil
}

// Resolve returns the live driver for the given identifier, establishing
// and caching the connection on first use. A failed connection attempt is
// reported as a ConnectionError and never cached; the next call retries
// construction. At most one connection is created per identifier even under
// concurrent first use.
func (r *Registry) Resolve(ctx context.Context, name string) (database.Driver, error) {
	canonical, err := r.Canonical(name)
	if err != nil {
		return nil, err
	}
	conn, _ := r.cfg.ByName(canonical)

	ent := r.entry(canonical)
	ent.mu.Lock()
	defer ent.mu.Unlock()

	if ent.driver != nil {
		return ent.driver, nil
	}

	r.log.Info("registry: connecting", "database", canonical, "target", conn.DisplayString())
	drv, err := r.factory(ctx, conn)
	if err != nil {
		return nil, &database.ConnectionError{Database: canonical, Cause: err}
	}

	ent.driver = drv
	return drv, nil
}

// Evict discards the cached handle for an identifier so the next
// resolution re-creates it. Used when the query layer reports a terminated
// connection; the call that observed the failure still fails.
func (r *Registry) Evict(name string) {
	r.mu.Lock()
	ent, ok := r.entries[name]
	r.mu.Unlock()
	if !ok {
		return
	}

	ent.mu.Lock()
	drv := ent.driver
	ent.driver = nil
	ent.mu.Unlock()

	if drv != nil {
		r.log.Warn("registry: evicting dead connection", "database", name)
		_ = drv.Close()
	}
}

// List enumerates all configured identifiers in declaration order,
// regardless of whether a live connection exists, marking the configured
// default.
func (r *Registry) List() []Status {
	out := make([]Status, 0, len(r.cfg.Databases))
	for _, c := range r.cfg.Databases {
		out = append(out, Status{
			Name:      c.Name,
			IsDefault: c.Name == r.cfg.Default,
			Connected: r.connected(c.Name),
		})
	}
	return out
}

// Close shuts down every live connection. Called once at process exit.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := make([]*entry, 0, len(r.entries))
	for _, ent := range r.entries {
		entries = append(entries, ent)
	}
	r.mu.Unlock()

	for _, ent := range entries {
		ent.mu.Lock()
		if ent.driver != nil {
			_ = ent.driver.Close()
			ent.driver = nil
		}
		ent.mu.Unlock()
	}
}

func (r *Registry) entry(name string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	ent, ok := r.entries[name]
	if !ok {
		ent = &entry{}
		r.entries[name] = ent
	}
	return ent
}

func (r *Registry) connected(name string) bool {
	r.mu.Lock()
	ent, ok := r.entries[name]
	r.mu.Unlock()
	if !ok {
		return false
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	return ent.driver != nil
}
