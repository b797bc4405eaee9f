package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/crucial707/printdesk/internal/models"
)

type rowKey struct {
	resource models.Resource
	id       int
}

// memStore is an in-memory stand-in for both the resource tables and audit_logs.
type memStore struct {
	mu      sync.Mutex
	rows    map[rowKey]map[string]any
	records []models.AuditRecord

	snapshotErr error
	insertErr   error
	reads       int
}

func newMemStore() *memStore {
	return &memStore{rows: map[rowKey]map[string]any{}}
}

func (m *memStore) put(resource models.Resource, id int, row map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[rowKey{resource, id}] = row
}

func (m *memStore) remove(resource models.Resource, id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, rowKey{resource, id})
}

func (m *memStore) Snapshot(_ context.Context, resource models.Resource, id int) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.snapshotErr != nil {
		return nil, m.snapshotErr
	}
	row, ok := m.rows[rowKey{resource, id}]
	if !ok {
		return nil, nil
	}
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Insert(_ context.Context, rec models.AuditRecord) (models.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return rec, m.insertErr
	}
	rec.ID = int64(len(m.records) + 1)
	rec.Timestamp = time.Date(2026, 10, 18, 14, 5, 0, 0, time.UTC)
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *memStore) written() []models.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.AuditRecord(nil), m.records...)
}

var errStoreDown = errors.New("store down")
