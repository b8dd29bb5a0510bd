package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"
)

type ledgerEntry struct {
	token       string
	leaseUntil  time.Time
	processed   bool
	processedAt time.Time
}

// ProcessedEventRepository is the in-memory webhook ledger. A single mutex makes
// Claim an atomic insert-if-absent.
type ProcessedEventRepository struct {
	mu      sync.Mutex
	entries map[entities.EventKey]ledgerEntry
	now     func() time.Time
}

var _ interfaces.IProcessedEventRepository = (*ProcessedEventRepository)(nil)

func NewProcessedEventRepository() *ProcessedEventRepository {
	return &ProcessedEventRepository{
		entries: make(map[entities.EventKey]ledgerEntry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *ProcessedEventRepository) Claim(_ context.Context, key entities.EventKey, token string, leaseUntil time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		if e.processed || r.now().Before(e.leaseUntil) {
			return false, nil
		}
	}
	r.entries[key] = ledgerEntry{token: token, leaseUntil: leaseUntil}
	return true, nil
}

func (r *ProcessedEventRepository) MarkProcessed(_ context.Context, key entities.EventKey, token string, processedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok || e.token != token {
		return fmt.Errorf("%w: claim %s is no longer held", entities.ErrStorage, key)
	}
	e.processed = true
	e.processedAt = processedAt
	r.entries[key] = e
	return nil
}

func (r *ProcessedEventRepository) Release(_ context.Context, key entities.EventKey, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok && e.token == token && !e.processed {
		delete(r.entries, key)
	}
	return nil
}

func (r *ProcessedEventRepository) HasProcessed(_ context.Context, key entities.EventKey) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[key].processed, nil
}
