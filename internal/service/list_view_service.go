package service

import (
	"context"
	"sync"

	"github.com/spec-kit/service-orders/internal/domain"
	"github.com/spec-kit/service-orders/internal/query"
	"github.com/spec-kit/service-orders/internal/repository"
	apperrors "github.com/spec-kit/service-orders/pkg/util/errorutil"
)

// ListViewService holds the order list's filter and print selection.
type ListViewService struct {
	orders repository.ServiceOrderRepository

	mu        sync.Mutex
	text      string
	status    query.StatusFilter
	selection *query.Selection
}

// ListView is the filtered order list together with the current selection.
type ListView struct {
	Text     string
	Status   query.StatusFilter
	Orders   []domain.ServiceOrder
	Selected []string
}

// NewListViewService constructs the service with an empty filter.
func NewListViewService(orders repository.ServiceOrderRepository) *ListViewService {
	return &ListViewService{
		orders:    orders,
		status:    query.StatusAll,
		selection: query.NewSelection(),
	}
}

// SetFilter updates the search text and/or status filter. Nil leaves the
// corresponding filter unchanged.
func (s *ListViewService) SetFilter(_ context.Context, text, status *string) error {
	var parsed query.StatusFilter
	if status != nil {
		var ok bool
		parsed, ok = query.ParseStatusFilter(*status)
		if !ok {
			return apperrors.NewValidationError("unknown status filter", map[string]any{"status": *status})
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if text != nil {
		s.text = *text
	}
	if status != nil {
		s.status = parsed
	}
	return nil
}

// View returns the orders matching the current filter.
func (s *ListViewService) View(ctx context.Context) (ListView, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return ListView{}, apperrors.MapError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return ListView{
		Text:     s.text,
		Status:   s.status,
		Orders:   query.Filter(all, s.text, s.status),
		Selected: s.selection.IDs(),
	}, nil
}

// Toggle flips one order's membership in the selection.
func (s *ListViewService) Toggle(ctx context.Context, orderID string) ([]string, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, mapStoreError("service order", orderID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Toggle(orderID)
	return s.selection.IDs(), nil
}

// ToggleAll selects exactly the visible orders, or clears the selection if
// it already equals them.
func (s *ListViewService) ToggleAll(ctx context.Context) ([]string, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.ToggleAll(query.IDs(query.Filter(all, s.text, s.status)))
	return s.selection.IDs(), nil
}

// ClearSelection empties the selection.
func (s *ListViewService) ClearSelection(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

// Selected returns the selected ids.
func (s *ListViewService) Selected(context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IDs()
}

// SelectedOrders resolves the selection in store order. Ids of orders no
// longer in the store are skipped.
func (s *ListViewService) SelectedOrders(ctx context.Context) ([]domain.ServiceOrder, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	selected := make([]domain.ServiceOrder, 0, s.selection.Len())
	for _, o := range all {
		if s.selection.Has(o.ID) {
			selected = append(selected, o)
		}
	}
	return selected, nil
}
