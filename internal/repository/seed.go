package repository

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/service-orders/internal/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

// DefaultSeed returns the built-in demo data set.
func DefaultSeed() []byte {
	return defaultSeed
}

// ReadSeedFile loads seed data from path, or the built-in set when path is empty.
func ReadSeedFile(path string) ([]byte, error) {
	if path == "" {
		return defaultSeed, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	return data, nil
}

type seedFile struct {
	Buildings []struct {
		ID          string `yaml:"id"`
		Description string `yaml:"description"`
		Status      string `yaml:"status"`
	} `yaml:"buildings"`
	Sectors []struct {
		ID          string `yaml:"id"`
		BuildingID  string `yaml:"building_id"`
		Description string `yaml:"description"`
	} `yaml:"sectors"`
	Teams []struct {
		ID          string `yaml:"id"`
		Description string `yaml:"description"`
		Status      string `yaml:"status"`
	} `yaml:"teams"`
	Professionals []struct {
		ID     string `yaml:"id"`
		Name   string `yaml:"name"`
		Phone  string `yaml:"phone"`
		Email  string `yaml:"email"`
		TeamID string `yaml:"team_id"`
		Status string `yaml:"status"`
	} `yaml:"professionals"`
	Reasons []struct {
		ID          string `yaml:"id"`
		Description string `yaml:"description"`
		Status      string `yaml:"status"`
	} `yaml:"reasons"`
	Orders []seedOrder `yaml:"orders"`
}

type seedOrder struct {
	ID             string         `yaml:"id"`
	BuildingID     string         `yaml:"building_id"`
	SectorID       string         `yaml:"sector_id"`
	OpenedAgo      time.Duration  `yaml:"opened_ago"`
	AcceptedAgo    *time.Duration `yaml:"accepted_ago"`
	ClosedAgo      *time.Duration `yaml:"closed_ago"`
	RequesterName  string         `yaml:"requester_name"`
	RequesterRamal string         `yaml:"requester_ramal"`
	Description    string         `yaml:"description"`
	Priority       string         `yaml:"priority"`
	TeamID         string         `yaml:"team_id"`
	ProfessionalID string         `yaml:"professional_id"`
	Status         string         `yaml:"status"`
	ReasonID       string         `yaml:"reason_id"`
	AIDiagnosis    string         `yaml:"ai_diagnosis"`
}

// LoadSeed replaces the contents of the store with the YAML data set.
// Order timestamps are given as offsets before now.
func LoadSeed(s *Store, data []byte, now time.Time) error {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}

	buildings := newTable(func(b *domain.Building) *string { return &b.ID })
	for _, b := range seed.Buildings {
		status, err := parseRecordStatus(b.Status)
		if err != nil {
			return fmt.Errorf("building %s: %w", b.ID, err)
		}
		item := domain.Building{ID: b.ID, Description: b.Description, Status: status}
		buildings.insert(&item, s.newID, false)
	}

	sectors := newTable(func(x *domain.Sector) *string { return &x.ID })
	for _, x := range seed.Sectors {
		item := domain.Sector{ID: x.ID, BuildingID: x.BuildingID, Description: x.Description}
		sectors.insert(&item, s.newID, false)
	}

	teams := newTable(func(t *domain.Team) *string { return &t.ID })
	for _, t := range seed.Teams {
		status, err := parseRecordStatus(t.Status)
		if err != nil {
			return fmt.Errorf("team %s: %w", t.ID, err)
		}
		item := domain.Team{ID: t.ID, Description: t.Description, Status: status}
		teams.insert(&item, s.newID, false)
	}

	professionals := newTable(func(p *domain.Professional) *string { return &p.ID })
	for _, p := range seed.Professionals {
		status, err := parseRecordStatus(p.Status)
		if err != nil {
			return fmt.Errorf("professional %s: %w", p.ID, err)
		}
		item := domain.Professional{ID: p.ID, Name: p.Name, Phone: p.Phone, Email: p.Email, TeamID: p.TeamID, Status: status}
		professionals.insert(&item, s.newID, false)
	}

	reasons := newTable(func(r *domain.Reason) *string { return &r.ID })
	for _, r := range seed.Reasons {
		status, err := parseRecordStatus(r.Status)
		if err != nil {
			return fmt.Errorf("reason %s: %w", r.ID, err)
		}
		item := domain.Reason{ID: r.ID, Description: r.Description, Status: status}
		reasons.insert(&item, s.newID, false)
	}

	orders := newTable(func(o *domain.ServiceOrder) *string { return &o.ID })
	for _, o := range seed.Orders {
		item, err := o.toOrder(now)
		if err != nil {
			return fmt.Errorf("order %s: %w", o.ID, err)
		}
		orders.insert(&item, s.newID, false)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.buildings = buildings
	s.sectors = sectors
	s.teams = teams
	s.professionals = professionals
	s.reasons = reasons
	s.orders = orders
	return nil
}

func (o seedOrder) toOrder(now time.Time) (domain.ServiceOrder, error) {
	priority := domain.PriorityMedium
	if o.Priority != "" {
		p, ok := domain.ParsePriority(o.Priority)
		if !ok {
			return domain.ServiceOrder{}, fmt.Errorf("unknown priority %q", o.Priority)
		}
		priority = p
	}
	status := domain.StatusQueued
	if o.Status != "" {
		st, ok := domain.ParseStatus(o.Status)
		if !ok {
			return domain.ServiceOrder{}, fmt.Errorf("unknown status %q", o.Status)
		}
		status = st
	}
	return domain.ServiceOrder{
		ID:             o.ID,
		BuildingID:     o.BuildingID,
		SectorID:       o.SectorID,
		OpeningDate:    now.Add(-o.OpenedAgo),
		AcceptanceDate: offset(now, o.AcceptedAgo),
		ClosingDate:    offset(now, o.ClosedAgo),
		RequesterName:  o.RequesterName,
		RequesterRamal: o.RequesterRamal,
		Description:    o.Description,
		Priority:       priority,
		TeamID:         o.TeamID,
		ProfessionalID: o.ProfessionalID,
		Status:         status,
		ReasonID:       o.ReasonID,
		AIDiagnosis:    o.AIDiagnosis,
	}, nil
}

func offset(now time.Time, ago *time.Duration) *time.Time {
	if ago == nil {
		return nil
	}
	t := now.Add(-*ago)
	return &t
}

func parseRecordStatus(raw string) (domain.RecordStatus, error) {
	status, ok := domain.ParseRecordStatus(raw)
	if !ok {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return status, nil
}
