package registry

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/tenantgate"
)

// StaticStore serves tenant records from memory. Backed by a YAML fixture
// file it covers development and tests without a registry database; it is
// also the in-memory store the directory tests build on.
type StaticStore struct {
	mu      sync.RWMutex
	records map[tenantgate.ID]Record
}

// staticFile is the YAML shape of a fixture file.
type staticFile struct {
	Tenants []Record `yaml:"tenants"`
}

// NewStaticStore creates a store holding the given records.
func NewStaticStore(records ...Record) *StaticStore {
	s := &StaticStore{
		records: make(map[tenantgate.ID]Record, len(records)),
	}
	for _, rec := range records {
		s.records[rec.ID] = rec
	}
	return s
}

// LoadStatic reads a YAML fixture file of the form:
//
//	tenants:
//	  - id: 1
//	    name: acme
//	    dsn: postgres://acme:secret@db:5432/tenant_acme
//	    active: true
func LoadStatic(path string) (*StaticStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read static store file: %w", err)
	}

	var file staticFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("registry: parse static store file %s: %w", path, err)
	}

	return NewStaticStore(file.Tenants...), nil
}

// Get implements Store.
func (s *StaticStore) Get(ctx context.Context, id tenantgate.ID) (*Record, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()

	if !ok {
		return nil, tenantgate.ErrTenantNotFound
	}
	return &rec, nil
}

// List implements Store. Records are returned in ID order.
func (s *StaticStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	records := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// Put inserts or replaces a record.
func (s *StaticStore) Put(rec Record) {
	s.mu.Lock()
	s.records[rec.ID] = rec
	s.mu.Unlock()
}

// Delete removes a record if present.
func (s *StaticStore) Delete(id tenantgate.ID) {
	s.mu.Lock()
	delete(s.records, id)
	s.mu.Unlock()
}

// Close implements Store. It is a no-op.
func (s *StaticStore) Close(ctx context.Context) error { return nil }
