package repository

import (
	"context"

	"github.com/spec-kit/service-orders/internal/domain"
)

// BuildingRepository manages buildings.
type BuildingRepository interface {
	Create(ctx context.Context, building *domain.Building) error
	Replace(ctx context.Context, id string, building domain.Building) error
	// Delete removes the building and every sector that belongs to it.
	// Service orders referencing the building are left untouched.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Building, error)
	List(ctx context.Context) ([]domain.Building, error)
	ListActive(ctx context.Context) ([]domain.Building, error)
}

type buildingRepository struct {
	store *Store
}

func (r *buildingRepository) Create(ctx context.Context, building *domain.Building) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if building.Status == "" {
		building.Status = domain.RecordActive
	}
	r.store.buildings.insert(building, r.store.newID, false)
	return nil
}

func (r *buildingRepository) Replace(ctx context.Context, id string, building domain.Building) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.buildings.replace(id, building)
}

func (r *buildingRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.buildings.remove(id); err != nil {
		return err
	}
	r.store.sectors.removeWhere(func(s domain.Sector) bool { return s.BuildingID == id })
	return nil
}

func (r *buildingRepository) GetByID(ctx context.Context, id string) (*domain.Building, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.buildings.get(id)
}

func (r *buildingRepository) List(ctx context.Context) ([]domain.Building, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.buildings.list(nil), nil
}

func (r *buildingRepository) ListActive(ctx context.Context) ([]domain.Building, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.buildings.list(domain.Building.Active), nil
}
