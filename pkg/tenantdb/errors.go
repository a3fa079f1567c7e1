package tenantdb

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidDSN              = errors.New("invalid tenant database dsn")
	ErrFailedToOpenPool        = errors.New("failed to open tenant database pool")
	ErrManagerClosed           = errors.New("tenant pool manager is closed")
	ErrHealthcheckFailed       = errors.New("healthcheck failed, connection is not available")
	ErrFailedToApplyMigrations = errors.New("failed to apply migrations")
)

// IsNotFound detects pgx.ErrNoRows for consistent "not found" handling
// across queries.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKey detects PostgreSQL unique constraint violations
// (SQLSTATE 23505).
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
