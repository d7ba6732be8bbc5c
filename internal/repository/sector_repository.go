package repository

import (
	"context"

	"github.com/spec-kit/service-orders/internal/domain"
)

// SectorRepository manages sectors.
type SectorRepository interface {
	Create(ctx context.Context, sector *domain.Sector) error
	Replace(ctx context.Context, id string, sector domain.Sector) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Sector, error)
	List(ctx context.Context) ([]domain.Sector, error)
	ListByBuilding(ctx context.Context, buildingID string) ([]domain.Sector, error)
}

type sectorRepository struct {
	store *Store
}

func (r *sectorRepository) Create(ctx context.Context, sector *domain.Sector) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sectors.insert(sector, r.store.newID, false)
	return nil
}

func (r *sectorRepository) Replace(ctx context.Context, id string, sector domain.Sector) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.sectors.replace(id, sector)
}

func (r *sectorRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.sectors.remove(id)
}

func (r *sectorRepository) GetByID(ctx context.Context, id string) (*domain.Sector, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.sectors.get(id)
}

func (r *sectorRepository) List(ctx context.Context) ([]domain.Sector, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.sectors.list(nil), nil
}

func (r *sectorRepository) ListByBuilding(ctx context.Context, buildingID string) ([]domain.Sector, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.sectors.list(func(s domain.Sector) bool { return s.BuildingID == buildingID }), nil
}
