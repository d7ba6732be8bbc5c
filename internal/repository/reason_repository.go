package repository

import (
	"context"

	"github.com/spec-kit/service-orders/internal/domain"
)

// ReasonRepository manages wait and cancellation reasons.
type ReasonRepository interface {
	Create(ctx context.Context, reason *domain.Reason) error
	Replace(ctx context.Context, id string, reason domain.Reason) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Reason, error)
	List(ctx context.Context) ([]domain.Reason, error)
	ListActive(ctx context.Context) ([]domain.Reason, error)
}

type reasonRepository struct {
	store *Store
}

func (r *reasonRepository) Create(ctx context.Context, reason *domain.Reason) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if reason.Status == "" {
		reason.Status = domain.RecordActive
	}
	r.store.reasons.insert(reason, r.store.newID, false)
	return nil
}

func (r *reasonRepository) Replace(ctx context.Context, id string, reason domain.Reason) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.reasons.replace(id, reason)
}

func (r *reasonRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.reasons.remove(id)
}

func (r *reasonRepository) GetByID(ctx context.Context, id string) (*domain.Reason, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.reasons.get(id)
}

func (r *reasonRepository) List(ctx context.Context) ([]domain.Reason, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.reasons.list(nil), nil
}

func (r *reasonRepository) ListActive(ctx context.Context) ([]domain.Reason, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.reasons.list(domain.Reason.Active), nil
}
