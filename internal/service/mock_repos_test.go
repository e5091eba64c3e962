package service

import (
	"context"
	"errors"
	"sync"

	"academic-calendar/backend/internal/model"
	"academic-calendar/backend/internal/repository"
)

// ── Mock BatchRepository ──

type mockBatchRepo struct {
	mu        sync.Mutex
	rows      map[int]model.Batch
	listErr   error
	upsertErr []error // 依次消费，耗尽后成功
	reauthErr error
	upserts   int
	reauths   int
}

func newMockBatchRepo() *mockBatchRepo {
	return &mockBatchRepo{rows: make(map[int]model.Batch)}
}

func (m *mockBatchRepo) List(_ context.Context) ([]model.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Batch
	for _, r := range m.rows {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockBatchRepo) Upsert(_ context.Context, batch *model.Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	if len(m.upsertErr) > 0 {
		err := m.upsertErr[0]
		m.upsertErr = m.upsertErr[1:]
		if err != nil {
			return err
		}
	}
	m.rows[batch.BatchID] = *batch
	return nil
}

func (m *mockBatchRepo) Reauthenticate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reauths++
	return m.reauthErr
}

func (m *mockBatchRepo) counts() (upserts, reauths int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts, m.reauths
}

// ── Mock FallbackStore ──

type mockFallbackStore struct {
	mu     sync.Mutex
	saved  map[string]model.BatchDocument
	putErr error
}

func newMockFallbackStore() *mockFallbackStore {
	return &mockFallbackStore{saved: make(map[string]model.BatchDocument)}
}

func (m *mockFallbackStore) Put(_ context.Context, doc model.BatchDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.saved[doc.Key()] = doc
	return nil
}

func (m *mockFallbackStore) All(_ context.Context) (map[string]model.BatchDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]model.BatchDocument, len(m.saved))
	for k, v := range m.saved {
		out[k] = v
	}
	return out, nil
}

// ── 测试辅助 ──

var errConnReset = errors.New("connection reset by peer")

func newMockRepository() (*repository.Repository, *mockBatchRepo, *mockFallbackStore) {
	batchRepo := newMockBatchRepo()
	fallback := newMockFallbackStore()
	return repository.NewRepository(batchRepo, fallback), batchRepo, fallback
}
