package dto

import (
	"time"

	"github.com/spec-kit/service-orders/internal/domain"
	"github.com/spec-kit/service-orders/internal/service"
)

// OrderResponse is the API representation of a service order.
type OrderResponse struct {
	ID             string     `json:"id"`
	BuildingID     string     `json:"buildingId"`
	SectorID       string     `json:"sectorId"`
	OpeningDate    time.Time  `json:"openingDate"`
	AcceptanceDate *time.Time `json:"acceptanceDate,omitempty"`
	ClosingDate    *time.Time `json:"closingDate,omitempty"`
	RequesterName  string     `json:"requesterName"`
	RequesterRamal string     `json:"requesterRamal"`
	Description    string     `json:"description"`
	Priority       string     `json:"priority"`
	PriorityLabel  string     `json:"priorityLabel"`
	TeamID         string     `json:"teamId,omitempty"`
	ProfessionalID string     `json:"professionalId,omitempty"`
	Status         string     `json:"status"`
	StatusLabel    string     `json:"statusLabel"`
	ReasonID       string     `json:"reasonId,omitempty"`
	AIDiagnosis    string     `json:"aiDiagnosis,omitempty"`
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(o domain.ServiceOrder) OrderResponse {
	return OrderResponse{
		ID:             o.ID,
		BuildingID:     o.BuildingID,
		SectorID:       o.SectorID,
		OpeningDate:    o.OpeningDate,
		AcceptanceDate: o.AcceptanceDate,
		ClosingDate:    o.ClosingDate,
		RequesterName:  o.RequesterName,
		RequesterRamal: o.RequesterRamal,
		Description:    o.Description,
		Priority:       string(o.Priority),
		PriorityLabel:  o.Priority.Label(),
		TeamID:         o.TeamID,
		ProfessionalID: o.ProfessionalID,
		Status:         string(o.Status),
		StatusLabel:    o.Status.Label(),
		ReasonID:       o.ReasonID,
		AIDiagnosis:    o.AIDiagnosis,
	}
}

// OrderListResponse is the filtered list with the current selection.
type OrderListResponse struct {
	Query    string          `json:"q"`
	Status   string          `json:"status"`
	Orders   []OrderResponse `json:"orders"`
	Selected []string        `json:"selected"`
}

// NewOrderListResponse maps a list view.
func NewOrderListResponse(v service.ListView) OrderListResponse {
	orders := make([]OrderResponse, 0, len(v.Orders))
	for _, o := range v.Orders {
		orders = append(orders, NewOrderResponse(o))
	}
	return OrderListResponse{Query: v.Text, Status: string(v.Status), Orders: orders, Selected: v.Selected}
}

// OpenDraftRequest opens a form, blank or for an existing order.
type OpenDraftRequest struct {
	OrderID string `json:"orderId"`
}

// DraftPatchRequest carries field edits. Absent fields are left unchanged;
// an empty string clears an optional field.
type DraftPatchRequest struct {
	BuildingID     *string `json:"buildingId"`
	SectorID       *string `json:"sectorId"`
	RequesterName  *string `json:"requesterName"`
	RequesterRamal *string `json:"requesterRamal"`
	Description    *string `json:"description"`
	Priority       *string `json:"priority"`
	TeamID         *string `json:"teamId"`
	ProfessionalID *string `json:"professionalId"`
	Status         *string `json:"status"`
	ReasonID       *string `json:"reasonId"`
	AIDiagnosis    *string `json:"aiDiagnosis"`
}

// DraftResponse is an open form.
type DraftResponse struct {
	SessionID string       `json:"sessionId"`
	IsNew     bool         `json:"isNew"`
	Analyzing bool         `json:"analyzing"`
	Draft     domain.Draft `json:"draft"`
}

// NewDraftResponse maps a form view.
func NewDraftResponse(v service.FormView) DraftResponse {
	return DraftResponse{SessionID: v.SessionID, IsNew: v.IsNew, Analyzing: v.Analyzing, Draft: v.Draft}
}

// SelectionToggleRequest toggles one order.
type SelectionToggleRequest struct {
	OrderID string `json:"orderId" validate:"notblank"`
}

// SelectionResponse lists the selected order ids.
type SelectionResponse struct {
	Selected []string `json:"selected"`
}

// PrintRequest names the orders to print; empty means the current selection.
type PrintRequest struct {
	OrderIDs []string `json:"orderIds"`
}

// DashboardResponse summarizes the backlog.
type DashboardResponse struct {
	Total      int            `json:"total"`
	Executed   int            `json:"executed"`
	Pending    int            `json:"pending"`
	InProgress int            `json:"inProgress"`
	ByStatus   map[string]int `json:"byStatus"`
	ByPriority map[string]int `json:"byPriority"`
}

// NewDashboardResponse maps dashboard stats.
func NewDashboardResponse(s service.DashboardStats) DashboardResponse {
	resp := DashboardResponse{
		Total:      s.Total,
		Executed:   s.Executed,
		Pending:    s.Pending,
		InProgress: s.InProgress,
		ByStatus:   make(map[string]int, len(s.ByStatus)),
		ByPriority: make(map[string]int, len(s.ByPriority)),
	}
	for k, v := range s.ByStatus {
		resp.ByStatus[string(k)] = v
	}
	for k, v := range s.ByPriority {
		resp.ByPriority[string(k)] = v
	}
	return resp
}
