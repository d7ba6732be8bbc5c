package service

import (
	"context"

	"github.com/spec-kit/service-orders/internal/domain"
	"github.com/spec-kit/service-orders/internal/repository"
	apperrors "github.com/spec-kit/service-orders/pkg/util/errorutil"
)

// DashboardStats summarizes the order backlog.
type DashboardStats struct {
	Total      int
	Executed   int
	Pending    int
	InProgress int
	ByStatus   map[domain.Status]int
	ByPriority map[domain.Priority]int
}

// DashboardService computes backlog statistics.
type DashboardService struct {
	orders repository.ServiceOrderRepository
}

// NewDashboardService constructs the service.
func NewDashboardService(orders repository.ServiceOrderRepository) *DashboardService {
	return &DashboardService{orders: orders}
}

// Stats counts orders by status and priority. Pending covers queued and
// waiting orders.
func (s *DashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return DashboardStats{}, apperrors.MapError(err)
	}
	stats := DashboardStats{
		Total:      len(orders),
		ByStatus:   make(map[domain.Status]int, len(domain.Statuses)),
		ByPriority: make(map[domain.Priority]int, len(domain.Priorities)),
	}
	for _, st := range domain.Statuses {
		stats.ByStatus[st] = 0
	}
	for _, p := range domain.Priorities {
		stats.ByPriority[p] = 0
	}
	for _, o := range orders {
		stats.ByStatus[o.Status]++
		stats.ByPriority[o.Priority]++
		switch o.Status {
		case domain.StatusExecuted:
			stats.Executed++
		case domain.StatusQueued, domain.StatusWaiting:
			stats.Pending++
		case domain.StatusInProgress:
			stats.InProgress++
		}
	}
	return stats, nil
}
