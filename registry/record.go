package registry

import (
	"context"
	"time"

	"github.com/dmitrymomot/tenantgate"
)

// Record is a tenant registry row: identity, liveness flag, and the DSN of
// the tenant's own database.
type Record struct {
	ID        tenantgate.ID `json:"id" yaml:"id" bson:"_id"`
	Name      string        `json:"name" yaml:"name" bson:"name"`
	DSN       string        `json:"dsn" yaml:"dsn" bson:"dsn"`
	Active    bool          `json:"active" yaml:"active" bson:"active"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at,omitempty" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" yaml:"updated_at,omitempty" bson:"updated_at"`
}

// Store provides tenant records from a backing source.
//
// Get returns tenantgate.ErrTenantNotFound when no record exists; inactive
// records are returned as-is, the caller decides what inactivity means.
// Any other error is an infrastructure failure of the backing source.
type Store interface {
	Get(ctx context.Context, id tenantgate.ID) (*Record, error)
	List(ctx context.Context) ([]Record, error)
	Close(ctx context.Context) error
}
