package service

import (
	"context"

	"github.com/spec-kit/service-orders/internal/domain"
	"github.com/spec-kit/service-orders/internal/printout"
	"github.com/spec-kit/service-orders/internal/repository"
	apperrors "github.com/spec-kit/service-orders/pkg/util/errorutil"
)

// PrintService builds print documents for selected orders.
type PrintService struct {
	orders     repository.ServiceOrderRepository
	references *ReferenceService
	listView   *ListViewService
}

// NewPrintService constructs the service.
func NewPrintService(orders repository.ServiceOrderRepository, references *ReferenceService, listView *ListViewService) *PrintService {
	return &PrintService{orders: orders, references: references, listView: listView}
}

// Document projects the given orders, or the current selection when ids is
// empty. Orders appear in store order.
func (s *PrintService) Document(ctx context.Context, ids []string) (printout.Document, error) {
	orders, err := s.resolve(ctx, ids)
	if err != nil {
		return printout.Document{}, err
	}
	if len(orders) == 0 {
		return printout.Document{}, apperrors.NewValidationError("no orders selected for printing", nil)
	}
	lookups, err := s.references.Lookups(ctx)
	if err != nil {
		return printout.Document{}, err
	}
	return printout.Project(orders, lookups), nil
}

func (s *PrintService) resolve(ctx context.Context, ids []string) ([]domain.ServiceOrder, error) {
	if len(ids) == 0 {
		return s.listView.SelectedOrders(ctx)
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, err := s.orders.GetByID(ctx, id); err != nil {
			return nil, mapStoreError("service order", id, err)
		}
		wanted[id] = true
	}
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	orders := make([]domain.ServiceOrder, 0, len(wanted))
	for _, o := range all {
		if wanted[o.ID] {
			orders = append(orders, o)
		}
	}
	return orders, nil
}
