package registry

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantgate"
	"github.com/dmitrymomot/tenantgate/pkg/tenantdb"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsTable names the goose version table so the registry schema
// never collides with migration state of tenant databases sharing a
// server.
const migrationsTable = "registry_schema_migrations"

// PGStore serves tenant records from the central registry database.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore wraps an existing connection pool. The caller keeps ownership
// of the pool unless the store was built with OpenPGStore.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// OpenPGStore connects to the registry database and applies the embedded
// schema migrations before returning the store. A nil logger disables
// migration logging.
func OpenPGStore(ctx context.Context, dsn string, cfg tenantdb.Config, log *slog.Logger) (*PGStore, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	pool, err := tenantdb.Open(ctx, dsn, cfg)
	if err != nil {
		return nil, fmt.Errorf("registry: connect: %w", err)
	}

	if err := tenantdb.Migrate(ctx, pool, migrationsFS, "migrations", migrationsTable, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("registry: migrate: %w", err)
	}

	return NewPGStore(pool), nil
}

// Get implements Store.
func (s *PGStore) Get(ctx context.Context, id tenantgate.ID) (*Record, error) {
	const q = `SELECT id, name, dsn, active, created_at, updated_at FROM tenants WHERE id = $1`

	var rec Record
	err := s.pool.QueryRow(ctx, q, int64(id)).Scan(
		&rec.ID, &rec.Name, &rec.DSN, &rec.Active, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if tenantdb.IsNotFound(err) {
			return nil, tenantgate.ErrTenantNotFound
		}
		return nil, fmt.Errorf("registry: get tenant %d: %w", id, err)
	}
	return &rec, nil
}

// List implements Store. Records are returned in ID order.
func (s *PGStore) List(ctx context.Context) ([]Record, error) {
	const q = `SELECT id, name, dsn, active, created_at, updated_at FROM tenants ORDER BY id`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("registry: list tenants: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.DSN, &rec.Active, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("registry: scan tenant: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registry: list tenants: %w", err)
	}
	return records, nil
}

// Upsert inserts a record or replaces an existing one, bumping updated_at.
func (s *PGStore) Upsert(ctx context.Context, rec Record) error {
	const q = `
		INSERT INTO tenants (id, name, dsn, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, dsn = EXCLUDED.dsn, active = EXCLUDED.active, updated_at = now()`

	if _, err := s.pool.Exec(ctx, q, int64(rec.ID), rec.Name, rec.DSN, rec.Active); err != nil {
		return fmt.Errorf("registry: upsert tenant %d: %w", rec.ID, err)
	}
	return nil
}

// SetActive flips the liveness flag of a tenant. Returns
// tenantgate.ErrTenantNotFound when no record exists.
func (s *PGStore) SetActive(ctx context.Context, id tenantgate.ID, active bool) error {
	const q = `UPDATE tenants SET active = $2, updated_at = now() WHERE id = $1`

	tag, err := s.pool.Exec(ctx, q, int64(id), active)
	if err != nil {
		return fmt.Errorf("registry: set tenant %d active=%t: %w", id, active, err)
	}
	if tag.RowsAffected() == 0 {
		return tenantgate.ErrTenantNotFound
	}
	return nil
}

// Healthcheck returns a probe over the registry pool.
func (s *PGStore) Healthcheck() func(context.Context) error {
	return tenantdb.Healthcheck(s.pool)
}

// Close implements Store and releases the pool.
func (s *PGStore) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}
