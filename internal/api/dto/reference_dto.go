package dto

import "github.com/spec-kit/service-orders/internal/domain"

// BuildingRequest payload for creating or replacing a building.
type BuildingRequest struct {
	Description string `json:"description" validate:"notblank"`
	Status      string `json:"status"`
}

// SectorRequest payload for creating or replacing a sector.
type SectorRequest struct {
	BuildingID  string `json:"buildingId" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
}

// TeamRequest payload for creating or replacing a team.
type TeamRequest struct {
	Description string `json:"description" validate:"notblank"`
	Status      string `json:"status"`
}

// ProfessionalRequest payload for creating or replacing a professional.
type ProfessionalRequest struct {
	Name   string `json:"name" validate:"notblank"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	TeamID string `json:"teamId" validate:"notblank"`
	Status string `json:"status"`
}

// ReasonRequest payload for creating or replacing a reason.
type ReasonRequest struct {
	Description string `json:"description" validate:"notblank"`
	Status      string `json:"status"`
}

// BuildingResponse representation.
type BuildingResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
}

// SectorResponse representation.
type SectorResponse struct {
	ID          string `json:"id"`
	BuildingID  string `json:"buildingId"`
	Description string `json:"description"`
}

// TeamResponse representation.
type TeamResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
}

// ProfessionalResponse representation.
type ProfessionalResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	TeamID      string `json:"teamId"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
}

// ReasonResponse representation.
type ReasonResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
}

func NewBuildingResponse(b domain.Building) BuildingResponse {
	return BuildingResponse{ID: b.ID, Description: b.Description, Status: string(b.Status), StatusLabel: b.Status.Label()}
}

func NewSectorResponse(s domain.Sector) SectorResponse {
	return SectorResponse{ID: s.ID, BuildingID: s.BuildingID, Description: s.Description}
}

func NewTeamResponse(t domain.Team) TeamResponse {
	return TeamResponse{ID: t.ID, Description: t.Description, Status: string(t.Status), StatusLabel: t.Status.Label()}
}

func NewProfessionalResponse(p domain.Professional) ProfessionalResponse {
	return ProfessionalResponse{
		ID: p.ID, Name: p.Name, Phone: p.Phone, Email: p.Email, TeamID: p.TeamID,
		Status: string(p.Status), StatusLabel: p.Status.Label(),
	}
}

func NewReasonResponse(r domain.Reason) ReasonResponse {
	return ReasonResponse{ID: r.ID, Description: r.Description, Status: string(r.Status), StatusLabel: r.Status.Label()}
}
