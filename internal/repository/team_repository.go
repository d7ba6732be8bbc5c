package repository

import (
	"context"

	"github.com/spec-kit/service-orders/internal/domain"
)

// TeamRepository manages teams.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	Replace(ctx context.Context, id string, team domain.Team) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	ListActive(ctx context.Context) ([]domain.Team, error)
}

type teamRepository struct {
	store *Store
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if team.Status == "" {
		team.Status = domain.RecordActive
	}
	r.store.teams.insert(team, r.store.newID, false)
	return nil
}

func (r *teamRepository) Replace(ctx context.Context, id string, team domain.Team) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.teams.replace(id, team)
}

// Delete removes the team only. Professionals keep their team reference.
func (r *teamRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.teams.remove(id)
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.teams.get(id)
}

func (r *teamRepository) List(ctx context.Context) ([]domain.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.teams.list(nil), nil
}

func (r *teamRepository) ListActive(ctx context.Context) ([]domain.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.teams.list(domain.Team.Active), nil
}
