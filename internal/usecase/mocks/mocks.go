package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/iho/gocredit/internal/domain"
)

// FakeRiskProvider is a hand-written RiskProvider that counts calls.
type FakeRiskProvider struct {
	mu    sync.Mutex
	calls int

	ScoreFunc func(ctx context.Context, req domain.RiskRequest) (*domain.RiskReply, error)
}

// Score invokes ScoreFunc, or returns a low-risk reply when unset.
func (f *FakeRiskProvider) Score(ctx context.Context, req domain.RiskRequest) (*domain.RiskReply, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.ScoreFunc != nil {
		return f.ScoreFunc(ctx, req)
	}
	return &domain.RiskReply{RiskScore: 20, Reason: "Stable income and low exposure"}, nil
}

// Calls returns how many times Score was invoked.
func (f *FakeRiskProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// MemoryIdempotencyStore is an in-memory IdempotencyStore.
type MemoryIdempotencyStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryIdempotencyStore creates an empty store.
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{data: make(map[string][]byte)}
}

func (s *MemoryIdempotencyStore) CheckAndSet(_ context.Context, key string, response []byte, _ time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.data[key]; ok {
		return true, existing, nil
	}
	if response == nil {
		response = []byte("processing")
	}
	s.data[key] = response
	return false, nil, nil
}

func (s *MemoryIdempotencyStore) Update(_ context.Context, key string, response []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = response
	return nil
}

func (s *MemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Get returns the stored value for key.
func (s *MemoryIdempotencyStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}
