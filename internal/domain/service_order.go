package domain

import "time"

// ServiceOrder is the aggregate for maintenance requests.
type ServiceOrder struct {
	ID             string
	BuildingID     string
	SectorID       string
	OpeningDate    time.Time
	AcceptanceDate *time.Time
	ClosingDate    *time.Time
	RequesterName  string
	RequesterRamal string
	Description    string
	Priority       Priority
	TeamID         string
	ProfessionalID string
	Status         Status
	ReasonID       string
	AIDiagnosis    string
}

// Draft is the editable form of a service order. Every field is optional
// until the draft is submitted.
type Draft struct {
	ID             string     `json:"id,omitempty"`
	BuildingID     string     `json:"buildingId" validate:"required"`
	SectorID       string     `json:"sectorId" validate:"required"`
	OpeningDate    *time.Time `json:"openingDate,omitempty"`
	AcceptanceDate *time.Time `json:"acceptanceDate,omitempty"`
	ClosingDate    *time.Time `json:"closingDate,omitempty"`
	RequesterName  string     `json:"requesterName" validate:"required"`
	RequesterRamal string     `json:"requesterRamal" validate:"required"`
	Description    string     `json:"description" validate:"required"`
	Priority       Priority   `json:"priority,omitempty"`
	TeamID         string     `json:"teamId,omitempty"`
	ProfessionalID string     `json:"professionalId,omitempty"`
	Status         Status     `json:"status,omitempty"`
	ReasonID       string     `json:"reasonId,omitempty"`
	AIDiagnosis    string     `json:"aiDiagnosis,omitempty"`
}

// NewDraft returns the defaults of a fresh request form.
func NewDraft(openedAt time.Time) Draft {
	opened := openedAt
	return Draft{
		Priority:    PriorityMedium,
		Status:      StatusQueued,
		OpeningDate: &opened,
	}
}

// IsNew reports whether the draft has not been committed yet.
func (d Draft) IsNew() bool { return d.ID == "" }

// DraftFromOrder copies a stored order into an editable draft.
func DraftFromOrder(o ServiceOrder) Draft {
	opened := o.OpeningDate
	return Draft{
		ID:             o.ID,
		BuildingID:     o.BuildingID,
		SectorID:       o.SectorID,
		OpeningDate:    &opened,
		AcceptanceDate: copyTime(o.AcceptanceDate),
		ClosingDate:    copyTime(o.ClosingDate),
		RequesterName:  o.RequesterName,
		RequesterRamal: o.RequesterRamal,
		Description:    o.Description,
		Priority:       o.Priority,
		TeamID:         o.TeamID,
		ProfessionalID: o.ProfessionalID,
		Status:         o.Status,
		ReasonID:       o.ReasonID,
		AIDiagnosis:    o.AIDiagnosis,
	}
}

// Order converts the draft into a service order. Callers validate first.
func (d Draft) Order() ServiceOrder {
	o := ServiceOrder{
		ID:             d.ID,
		BuildingID:     d.BuildingID,
		SectorID:       d.SectorID,
		AcceptanceDate: copyTime(d.AcceptanceDate),
		ClosingDate:    copyTime(d.ClosingDate),
		RequesterName:  d.RequesterName,
		RequesterRamal: d.RequesterRamal,
		Description:    d.Description,
		Priority:       d.Priority,
		TeamID:         d.TeamID,
		ProfessionalID: d.ProfessionalID,
		Status:         d.Status,
		ReasonID:       d.ReasonID,
		AIDiagnosis:    d.AIDiagnosis,
	}
	if d.OpeningDate != nil {
		o.OpeningDate = *d.OpeningDate
	}
	return o
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
