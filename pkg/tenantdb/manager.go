package tenantdb

import (
	"context"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"
)

// OpenFunc opens a pool for a tenant DSN. Replaced in tests to avoid real
// connections.
type OpenFunc func(ctx context.Context, dsn string, cfg Config) (*pgxpool.Pool, error)

// Manager holds one connection pool per tenant, opened on first use.
// All methods are safe for concurrent use.
type Manager struct {
	cfg      Config
	open     OpenFunc
	onChange func(open int)

	group singleflight.Group

	mu     sync.RWMutex
	pools  map[int64]*pgxpool.Pool
	closed bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithOpenFunc replaces the pool opener. The default is Open.
func WithOpenFunc(fn OpenFunc) ManagerOption {
	return func(m *Manager) {
		if fn != nil {
			m.open = fn
		}
	}
}

// WithPoolObserver registers a hook invoked with the number of open pools
// after every open and close. Used to feed gauges.
func WithPoolObserver(fn func(open int)) ManagerOption {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// NewManager creates an empty manager. Pools are opened lazily by Get.
func NewManager(cfg Config, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:   cfg,
		open:  Open,
		pools: make(map[int64]*pgxpool.Pool),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Get returns the pool for the tenant, opening it on first use. Concurrent
// calls for the same tenant share a single open attempt; a failed open is
// not cached, so the next call retries.
func (m *Manager) Get(ctx context.Context, id int64, dsn string) (*pgxpool.Pool, error) {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return nil, ErrManagerClosed
	}
	if pool, ok := m.pools[id]; ok {
		m.mu.RUnlock()
		return pool, nil
	}
	m.mu.RUnlock()

	v, err, _ := m.group.Do(strconv.FormatInt(id, 10), func() (any, error) {
		// Re-check: another flight may have stored the pool between the
		// fast-path read and entering the group.
		m.mu.RLock()
		pool, ok := m.pools[id]
		closed := m.closed
		m.mu.RUnlock()
		if closed {
			return nil, ErrManagerClosed
		}
		if ok {
			return pool, nil
		}

		opened, err := m.open(ctx, dsn, m.cfg)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			opened.Close()
			return nil, ErrManagerClosed
		}
		m.pools[id] = opened
		n := len(m.pools)
		m.mu.Unlock()

		m.notify(n)
		return opened, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*pgxpool.Pool), nil
}

// Close evicts and closes the tenant's pool if one is open. In-flight
// queries finish before the pool releases its connections. No-op for
// tenants without a pool.
func (m *Manager) Close(id int64) {
	m.mu.Lock()
	pool, ok := m.pools[id]
	if ok {
		delete(m.pools, id)
	}
	n := len(m.pools)
	m.mu.Unlock()

	if ok {
		pool.Close()
		m.notify(n)
	}
}

// Len reports the number of open pools.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pools)
}

// Shutdown closes every pool and refuses further Get calls. Safe to call
// more than once.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	pools := m.pools
	m.pools = make(map[int64]*pgxpool.Pool)
	m.mu.Unlock()

	for _, pool := range pools {
		pool.Close()
	}
	m.notify(0)
}

func (m *Manager) notify(open int) {
	if m.onChange != nil {
		m.onChange(open)
	}
}
