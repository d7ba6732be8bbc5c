package repository

import (
	"context"

	"github.com/spec-kit/service-orders/internal/domain"
)

// ServiceOrderRepository encapsulates service order storage. Orders are
// never deleted.
type ServiceOrderRepository interface {
	// Create inserts the order at the head of the collection so the newest
	// order is listed first.
	Create(ctx context.Context, order *domain.ServiceOrder) error
	Replace(ctx context.Context, id string, order domain.ServiceOrder) error
	GetByID(ctx context.Context, id string) (*domain.ServiceOrder, error)
	List(ctx context.Context) ([]domain.ServiceOrder, error)
}

type serviceOrderRepository struct {
	store *Store
}

func (r *serviceOrderRepository) Create(ctx context.Context, order *domain.ServiceOrder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders.insert(order, r.store.newID, true)
	return nil
}

func (r *serviceOrderRepository) Replace(ctx context.Context, id string, order domain.ServiceOrder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.orders.replace(id, order)
}

func (r *serviceOrderRepository) GetByID(ctx context.Context, id string) (*domain.ServiceOrder, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.orders.get(id)
}

func (r *serviceOrderRepository) List(ctx context.Context) ([]domain.ServiceOrder, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.orders.list(nil), nil
}
