package repository

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/service-orders/internal/domain"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

// Store owns every in-memory collection. All mutation goes through the
// repositories it hands out; state lives for the lifetime of the process.
type Store struct {
	mu sync.RWMutex

	buildings     table[domain.Building]
	sectors       table[domain.Sector]
	teams         table[domain.Team]
	professionals table[domain.Professional]
	reasons       table[domain.Reason]
	orders        table[domain.ServiceOrder]

	newID func() string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		buildings:     newTable(func(b *domain.Building) *string { return &b.ID }),
		sectors:       newTable(func(s *domain.Sector) *string { return &s.ID }),
		teams:         newTable(func(t *domain.Team) *string { return &t.ID }),
		professionals: newTable(func(p *domain.Professional) *string { return &p.ID }),
		reasons:       newTable(func(r *domain.Reason) *string { return &r.ID }),
		orders:        newTable(func(o *domain.ServiceOrder) *string { return &o.ID }),
		newID:         uuid.NewString,
	}
}

// Buildings returns the building repository.
func (s *Store) Buildings() BuildingRepository { return &buildingRepository{store: s} }

// Sectors returns the sector repository.
func (s *Store) Sectors() SectorRepository { return &sectorRepository{store: s} }

// Teams returns the team repository.
func (s *Store) Teams() TeamRepository { return &teamRepository{store: s} }

// Professionals returns the professional repository.
func (s *Store) Professionals() ProfessionalRepository { return &professionalRepository{store: s} }

// Reasons returns the reason repository.
func (s *Store) Reasons() ReasonRepository { return &reasonRepository{store: s} }

// ServiceOrders returns the service order repository.
func (s *Store) ServiceOrders() ServiceOrderRepository { return &serviceOrderRepository{store: s} }

// table is an ordered collection keyed by an id field.
type table[T any] struct {
	items []T
	idOf  func(*T) *string
}

func newTable[T any](idOf func(*T) *string) table[T] {
	return table[T]{idOf: idOf}
}

func (t *table[T]) index(id string) int {
	for i := range t.items {
		if *t.idOf(&t.items[i]) == id {
			return i
		}
	}
	return -1
}

// insert stores a copy of item, assigning an id when absent. Head insertion
// puts the record first.
func (t *table[T]) insert(item *T, newID func() string, head bool) {
	if id := t.idOf(item); *id == "" {
		*id = newID()
	}
	if head {
		t.items = append([]T{*item}, t.items...)
		return
	}
	t.items = append(t.items, *item)
}

func (t *table[T]) replace(id string, item T) error {
	i := t.index(id)
	if i < 0 {
		return ErrNotFound
	}
	*t.idOf(&item) = id
	t.items[i] = item
	return nil
}

func (t *table[T]) remove(id string) error {
	i := t.index(id)
	if i < 0 {
		return ErrNotFound
	}
	t.items = append(t.items[:i], t.items[i+1:]...)
	return nil
}

func (t *table[T]) get(id string) (*T, error) {
	i := t.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	item := t.items[i]
	return &item, nil
}

func (t *table[T]) list(keep func(T) bool) []T {
	result := make([]T, 0, len(t.items))
	for _, item := range t.items {
		if keep == nil || keep(item) {
			result = append(result, item)
		}
	}
	return result
}

func (t *table[T]) removeWhere(match func(T) bool) int {
	kept := t.items[:0]
	removed := 0
	for _, item := range t.items {
		if match(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	t.items = kept
	return removed
}
