package lifecycle

import (
	"time"

	"github.com/spec-kit/service-orders/internal/domain"
)

// ApplyDerivedFields fills in the timestamps implied by the draft's current
// assignment and status. It must run after every field change and is
// idempotent. Acceptance is evaluated before closing so that a freshly
// assigned professional always leaves the draft in progress.
func ApplyDerivedFields(d domain.Draft, now time.Time) domain.Draft {
	if d.ProfessionalID != "" && d.AcceptanceDate == nil {
		accepted := now
		d.AcceptanceDate = &accepted
		d.Status = domain.StatusInProgress
	}
	if d.Status == domain.StatusExecuted && d.ClosingDate == nil {
		closed := now
		d.ClosingDate = &closed
	}
	return d
}

// ChangeBuilding moves the draft to another building. The previous sector
// may not belong to it, so it is cleared.
func ChangeBuilding(d domain.Draft, buildingID string) domain.Draft {
	d.BuildingID = buildingID
	d.SectorID = ""
	return d
}

// ChangeTeam assigns another team and clears the professional.
func ChangeTeam(d domain.Draft, teamID string) domain.Draft {
	d.TeamID = teamID
	d.ProfessionalID = ""
	return d
}

// Change is a set of field-level edits. Nil fields are left untouched.
type Change struct {
	BuildingID     *string
	SectorID       *string
	RequesterName  *string
	RequesterRamal *string
	Description    *string
	Priority       *domain.Priority
	TeamID         *string
	ProfessionalID *string
	Status         *domain.Status
	ReasonID       *string
	AIDiagnosis    *string
}

// Empty reports whether the change carries no edits.
func (c Change) Empty() bool {
	return c == Change{}
}

// ApplyChange applies each edit in form order, deriving fields after every
// one of them, exactly as if the user had changed the fields one by one.
func ApplyChange(d domain.Draft, c Change, now time.Time) domain.Draft {
	steps := []func(domain.Draft) domain.Draft{}
	if c.BuildingID != nil {
		v := *c.BuildingID
		steps = append(steps, func(d domain.Draft) domain.Draft { return ChangeBuilding(d, v) })
	}
	if c.SectorID != nil {
		v := *c.SectorID
		steps = append(steps, func(d domain.Draft) domain.Draft { d.SectorID = v; return d })
	}
	if c.RequesterName != nil {
		v := *c.RequesterName
		steps = append(steps, func(d domain.Draft) domain.Draft { d.RequesterName = v; return d })
	}
	if c.RequesterRamal != nil {
		v := *c.RequesterRamal
		steps = append(steps, func(d domain.Draft) domain.Draft { d.RequesterRamal = v; return d })
	}
	if c.Description != nil {
		v := *c.Description
		steps = append(steps, func(d domain.Draft) domain.Draft { d.Description = v; return d })
	}
	if c.Priority != nil {
		v := *c.Priority
		steps = append(steps, func(d domain.Draft) domain.Draft { d.Priority = v; return d })
	}
	if c.TeamID != nil {
		v := *c.TeamID
		steps = append(steps, func(d domain.Draft) domain.Draft { return ChangeTeam(d, v) })
	}
	if c.ProfessionalID != nil {
		v := *c.ProfessionalID
		steps = append(steps, func(d domain.Draft) domain.Draft { d.ProfessionalID = v; return d })
	}
	if c.Status != nil {
		v := *c.Status
		steps = append(steps, func(d domain.Draft) domain.Draft { d.Status = v; return d })
	}
	if c.ReasonID != nil {
		v := *c.ReasonID
		steps = append(steps, func(d domain.Draft) domain.Draft { d.ReasonID = v; return d })
	}
	if c.AIDiagnosis != nil {
		v := *c.AIDiagnosis
		steps = append(steps, func(d domain.Draft) domain.Draft { d.AIDiagnosis = v; return d })
	}
	for _, step := range steps {
		d = ApplyDerivedFields(step(d), now)
	}
	return d
}
