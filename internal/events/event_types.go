package events

import (
	"time"

	"github.com/spec-kit/service-orders/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated       EventType = "order_created"
	EventOrderUpdated       EventType = "order_updated"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventOrderAssigned      EventType = "order_assigned"
	EventDiagnosisCompleted EventType = "diagnosis_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OrderID   string      `json:"order_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	BuildingID string          `json:"building_id"`
	SectorID   string          `json:"sector_id"`
	Priority   domain.Priority `json:"priority"`
	Status     domain.Status   `json:"status"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
	ReasonID  string        `json:"reason_id,omitempty"`
}

// OrderAssignedPayload payload.
type OrderAssignedPayload struct {
	TeamID         string `json:"team_id,omitempty"`
	ProfessionalID string `json:"professional_id,omitempty"`
}

// DiagnosisCompletedPayload payload.
type DiagnosisCompletedPayload struct {
	SessionID string `json:"session_id"`
	Fallback  bool   `json:"fallback"`
}
