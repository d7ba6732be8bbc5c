package repository

import (
	"context"

	"github.com/spec-kit/service-orders/internal/domain"
)

// ProfessionalRepository manages technicians.
type ProfessionalRepository interface {
	Create(ctx context.Context, professional *domain.Professional) error
	Replace(ctx context.Context, id string, professional domain.Professional) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Professional, error)
	List(ctx context.Context) ([]domain.Professional, error)
	ListByTeam(ctx context.Context, teamID string) ([]domain.Professional, error)
	ListActiveByTeam(ctx context.Context, teamID string) ([]domain.Professional, error)
}

type professionalRepository struct {
	store *Store
}

func (r *professionalRepository) Create(ctx context.Context, professional *domain.Professional) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if professional.Status == "" {
		professional.Status = domain.RecordActive
	}
	r.store.professionals.insert(professional, r.store.newID, false)
	return nil
}

func (r *professionalRepository) Replace(ctx context.Context, id string, professional domain.Professional) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.professionals.replace(id, professional)
}

func (r *professionalRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.professionals.remove(id)
}

func (r *professionalRepository) GetByID(ctx context.Context, id string) (*domain.Professional, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.professionals.get(id)
}

func (r *professionalRepository) List(ctx context.Context) ([]domain.Professional, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.professionals.list(nil), nil
}

func (r *professionalRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Professional, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.professionals.list(func(p domain.Professional) bool { return p.TeamID == teamID }), nil
}

func (r *professionalRepository) ListActiveByTeam(ctx context.Context, teamID string) ([]domain.Professional, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.professionals.list(func(p domain.Professional) bool {
		return p.TeamID == teamID && p.Active()
	}), nil
}
