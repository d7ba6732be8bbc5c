package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/service-orders/internal/domain"
	"github.com/spec-kit/service-orders/internal/printout"
	"github.com/spec-kit/service-orders/internal/repository"
	"github.com/spec-kit/service-orders/internal/validation"
	apperrors "github.com/spec-kit/service-orders/pkg/util/errorutil"
)

// ReferenceService maintains the lookup tables orders are classified by.
type ReferenceService struct {
	buildings     repository.BuildingRepository
	sectors       repository.SectorRepository
	teams         repository.TeamRepository
	professionals repository.ProfessionalRepository
	reasons       repository.ReasonRepository
	logger        *zap.Logger
}

// ReferenceDependencies bundles repositories for the reference service.
type ReferenceDependencies struct {
	BuildingRepo     repository.BuildingRepository
	SectorRepo       repository.SectorRepository
	TeamRepo         repository.TeamRepository
	ProfessionalRepo repository.ProfessionalRepository
	ReasonRepo       repository.ReasonRepository
	Logger           *zap.Logger
}

// NewReferenceService constructs the service.
func NewReferenceService(deps ReferenceDependencies) *ReferenceService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{
		buildings:     deps.BuildingRepo,
		sectors:       deps.SectorRepo,
		teams:         deps.TeamRepo,
		professionals: deps.ProfessionalRepo,
		reasons:       deps.ReasonRepo,
		logger:        logger,
	}
}

// BuildingInput describes a building create/replace payload.
type BuildingInput struct {
	Description string              `json:"description" validate:"notblank"`
	Status      domain.RecordStatus `json:"status"`
}

// SectorInput describes a sector create/replace payload.
type SectorInput struct {
	BuildingID  string `json:"buildingId" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
}

// TeamInput describes a team create/replace payload.
type TeamInput struct {
	Description string              `json:"description" validate:"notblank"`
	Status      domain.RecordStatus `json:"status"`
}

// ProfessionalInput describes a professional create/replace payload.
type ProfessionalInput struct {
	Name   string              `json:"name" validate:"notblank"`
	Phone  string              `json:"phone"`
	Email  string              `json:"email"`
	TeamID string              `json:"teamId" validate:"notblank"`
	Status domain.RecordStatus `json:"status"`
}

// ReasonInput describes a reason create/replace payload.
type ReasonInput struct {
	Description string              `json:"description" validate:"notblank"`
	Status      domain.RecordStatus `json:"status"`
}

// describedInput validates in and returns its trimmed description.
func describedInput(in any, description string) (string, error) {
	if err := validation.Struct(in); err != nil {
		return "", err
	}
	return strings.TrimSpace(description), nil
}

func recordStatus(s domain.RecordStatus) domain.RecordStatus {
	if s == "" {
		return domain.RecordActive
	}
	return s
}

// ListBuildings returns all buildings, or only the pickable ones.
func (s *ReferenceService) ListBuildings(ctx context.Context, activeOnly bool) ([]domain.Building, error) {
	if activeOnly {
		return s.buildings.ListActive(ctx)
	}
	return s.buildings.List(ctx)
}

// GetBuilding fetches one building.
func (s *ReferenceService) GetBuilding(ctx context.Context, id string) (*domain.Building, error) {
	b, err := s.buildings.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError("building", id, err)
	}
	return b, nil
}

// CreateBuilding adds a building.
func (s *ReferenceService) CreateBuilding(ctx context.Context, in BuildingInput) (*domain.Building, error) {
	desc, err := describedInput(in, in.Description)
	if err != nil {
		return nil, err
	}
	b := &domain.Building{Description: desc, Status: recordStatus(in.Status)}
	if err := s.buildings.Create(ctx, b); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("building created", zap.String("building_id", b.ID))
	return b, nil
}

// UpdateBuilding replaces a building by id.
func (s *ReferenceService) UpdateBuilding(ctx context.Context, id string, in BuildingInput) (*domain.Building, error) {
	desc, err := describedInput(in, in.Description)
	if err != nil {
		return nil, err
	}
	b := domain.Building{ID: id, Description: desc, Status: recordStatus(in.Status)}
	if err := s.buildings.Replace(ctx, id, b); err != nil {
		return nil, mapStoreError("building", id, err)
	}
	return &b, nil
}

// DeleteBuilding removes a building and its sectors. Orders that point at
// it keep their ids and print with placeholders.
func (s *ReferenceService) DeleteBuilding(ctx context.Context, id string) error {
	if err := s.buildings.Delete(ctx, id); err != nil {
		return mapStoreError("building", id, err)
	}
	s.logger.Info("building deleted", zap.String("building_id", id))
	return nil
}

// ListSectors returns every sector, or only those of one building.
func (s *ReferenceService) ListSectors(ctx context.Context, buildingID string) ([]domain.Sector, error) {
	if buildingID == "" {
		return s.sectors.List(ctx)
	}
	if _, err := s.buildings.GetByID(ctx, buildingID); err != nil {
		return nil, mapStoreError("building", buildingID, err)
	}
	return s.sectors.ListByBuilding(ctx, buildingID)
}

// CreateSector adds a sector to an existing building.
func (s *ReferenceService) CreateSector(ctx context.Context, in SectorInput) (*domain.Sector, error) {
	sector, err := s.sectorFromInput(ctx, "", in)
	if err != nil {
		return nil, err
	}
	if err := s.sectors.Create(ctx, sector); err != nil {
		return nil, apperrors.MapError(err)
	}
	return sector, nil
}

// UpdateSector replaces a sector by id.
func (s *ReferenceService) UpdateSector(ctx context.Context, id string, in SectorInput) (*domain.Sector, error) {
	sector, err := s.sectorFromInput(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if err := s.sectors.Replace(ctx, id, *sector); err != nil {
		return nil, mapStoreError("sector", id, err)
	}
	return sector, nil
}

func (s *ReferenceService) sectorFromInput(ctx context.Context, id string, in SectorInput) (*domain.Sector, error) {
	desc, err := describedInput(in, in.Description)
	if err != nil {
		return nil, err
	}
	if _, err := s.buildings.GetByID(ctx, in.BuildingID); err != nil {
		return nil, mapStoreError("building", in.BuildingID, err)
	}
	return &domain.Sector{ID: id, BuildingID: in.BuildingID, Description: desc}, nil
}

// DeleteSector removes a sector.
func (s *ReferenceService) DeleteSector(ctx context.Context, id string) error {
	return mapStoreError("sector", id, s.sectors.Delete(ctx, id))
}

// ListTeams returns all teams, or only the pickable ones.
func (s *ReferenceService) ListTeams(ctx context.Context, activeOnly bool) ([]domain.Team, error) {
	if activeOnly {
		return s.teams.ListActive(ctx)
	}
	return s.teams.List(ctx)
}

// CreateTeam adds a team.
func (s *ReferenceService) CreateTeam(ctx context.Context, in TeamInput) (*domain.Team, error) {
	desc, err := describedInput(in, in.Description)
	if err != nil {
		return nil, err
	}
	t := &domain.Team{Description: desc, Status: recordStatus(in.Status)}
	if err := s.teams.Create(ctx, t); err != nil {
		return nil, apperrors.MapError(err)
	}
	return t, nil
}

// UpdateTeam replaces a team by id.
func (s *ReferenceService) UpdateTeam(ctx context.Context, id string, in TeamInput) (*domain.Team, error) {
	desc, err := describedInput(in, in.Description)
	if err != nil {
		return nil, err
	}
	t := domain.Team{ID: id, Description: desc, Status: recordStatus(in.Status)}
	if err := s.teams.Replace(ctx, id, t); err != nil {
		return nil, mapStoreError("team", id, err)
	}
	return &t, nil
}

// DeleteTeam removes a team. Its professionals are kept.
func (s *ReferenceService) DeleteTeam(ctx context.Context, id string) error {
	return mapStoreError("team", id, s.teams.Delete(ctx, id))
}

// ListProfessionals returns every professional, or the members of one team.
// activeOnly restricts the result to pickable professionals.
func (s *ReferenceService) ListProfessionals(ctx context.Context, teamID string, activeOnly bool) ([]domain.Professional, error) {
	if teamID == "" {
		all, err := s.professionals.List(ctx)
		if err != nil || !activeOnly {
			return all, err
		}
		active := make([]domain.Professional, 0, len(all))
		for _, p := range all {
			if p.Active() {
				active = append(active, p)
			}
		}
		return active, nil
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, mapStoreError("team", teamID, err)
	}
	if activeOnly {
		return s.professionals.ListActiveByTeam(ctx, teamID)
	}
	return s.professionals.ListByTeam(ctx, teamID)
}

// CreateProfessional adds a professional to an existing team.
func (s *ReferenceService) CreateProfessional(ctx context.Context, in ProfessionalInput) (*domain.Professional, error) {
	p, err := s.professionalFromInput(ctx, "", in)
	if err != nil {
		return nil, err
	}
	if err := s.professionals.Create(ctx, p); err != nil {
		return nil, apperrors.MapError(err)
	}
	return p, nil
}

// UpdateProfessional replaces a professional by id.
func (s *ReferenceService) UpdateProfessional(ctx context.Context, id string, in ProfessionalInput) (*domain.Professional, error) {
	p, err := s.professionalFromInput(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if err := s.professionals.Replace(ctx, id, *p); err != nil {
		return nil, mapStoreError("professional", id, err)
	}
	return p, nil
}

func (s *ReferenceService) professionalFromInput(ctx context.Context, id string, in ProfessionalInput) (*domain.Professional, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if _, err := s.teams.GetByID(ctx, in.TeamID); err != nil {
		return nil, mapStoreError("team", in.TeamID, err)
	}
	return &domain.Professional{
		ID:     id,
		Name:   name,
		Phone:  strings.TrimSpace(in.Phone),
		Email:  strings.TrimSpace(in.Email),
		TeamID: in.TeamID,
		Status: recordStatus(in.Status),
	}, nil
}

// DeleteProfessional removes a professional.
func (s *ReferenceService) DeleteProfessional(ctx context.Context, id string) error {
	return mapStoreError("professional", id, s.professionals.Delete(ctx, id))
}

// ListReasons returns all reasons, or only the pickable ones.
func (s *ReferenceService) ListReasons(ctx context.Context, activeOnly bool) ([]domain.Reason, error) {
	if activeOnly {
		return s.reasons.ListActive(ctx)
	}
	return s.reasons.List(ctx)
}

// CreateReason adds a reason.
func (s *ReferenceService) CreateReason(ctx context.Context, in ReasonInput) (*domain.Reason, error) {
	desc, err := describedInput(in, in.Description)
	if err != nil {
		return nil, err
	}
	r := &domain.Reason{Description: desc, Status: recordStatus(in.Status)}
	if err := s.reasons.Create(ctx, r); err != nil {
		return nil, apperrors.MapError(err)
	}
	return r, nil
}

// UpdateReason replaces a reason by id.
func (s *ReferenceService) UpdateReason(ctx context.Context, id string, in ReasonInput) (*domain.Reason, error) {
	desc, err := describedInput(in, in.Description)
	if err != nil {
		return nil, err
	}
	r := domain.Reason{ID: id, Description: desc, Status: recordStatus(in.Status)}
	if err := s.reasons.Replace(ctx, id, r); err != nil {
		return nil, mapStoreError("reason", id, err)
	}
	return &r, nil
}

// DeleteReason removes a reason.
func (s *ReferenceService) DeleteReason(ctx context.Context, id string) error {
	return mapStoreError("reason", id, s.reasons.Delete(ctx, id))
}

// Lookups snapshots every reference table for printing. Inactive entries
// are included so old orders still resolve.
func (s *ReferenceService) Lookups(ctx context.Context) (printout.Lookups, error) {
	buildings, err := s.buildings.List(ctx)
	if err != nil {
		return printout.Lookups{}, apperrors.MapError(err)
	}
	sectors, err := s.sectors.List(ctx)
	if err != nil {
		return printout.Lookups{}, apperrors.MapError(err)
	}
	teams, err := s.teams.List(ctx)
	if err != nil {
		return printout.Lookups{}, apperrors.MapError(err)
	}
	professionals, err := s.professionals.List(ctx)
	if err != nil {
		return printout.Lookups{}, apperrors.MapError(err)
	}
	return printout.NewLookups(buildings, sectors, teams, professionals), nil
}
