package memory

import (
	"context"
	"sync"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"
)

// PaymentRepository keeps payment records in process memory.
type PaymentRepository struct {
	mu         sync.RWMutex
	byID       map[string]entities.PaymentRecord
	byExternal map[string][]string
	now        func() time.Time
}

var _ interfaces.IPaymentRepository = (*PaymentRepository)(nil)

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		byID:       make(map[string]entities.PaymentRecord),
		byExternal: make(map[string][]string),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *PaymentRepository) Create(_ context.Context, p entities.PaymentRecord) (entities.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[p.ID]; ok {
		return existing, nil
	}
	r.byID[p.ID] = p
	if p.ExternalID != "" {
		r.byExternal[p.ExternalID] = append(r.byExternal[p.ExternalID], p.ID)
	}
	return p, nil
}

func (r *PaymentRepository) GetByID(_ context.Context, id string) (entities.PaymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id], nil
}

func (r *PaymentRepository) ListByExternalID(_ context.Context, externalID string) ([]entities.PaymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byExternal[externalID]
	out := make([]entities.PaymentRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *PaymentRepository) UpdateStatus(_ context.Context, subjectID string, status entities.CanonicalStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := []string{subjectID}
	if _, ok := r.byID[subjectID]; !ok {
		ids = r.byExternal[subjectID]
	}
	if len(ids) == 0 {
		return entities.ErrPaymentNotFound
	}
	now := r.now()
	for _, id := range ids {
		p := r.byID[id]
		p.Status = status
		p.UpdatedAt = now
		r.byID[id] = p
	}
	return nil
}
