package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-orders/internal/api/dto"
	"github.com/spec-kit/service-orders/internal/service"
)

// ReferenceHandler exposes CRUD for buildings, sectors, teams,
// professionals and reasons.
type ReferenceHandler struct {
	refs *service.ReferenceService
}

// NewReferenceHandler constructs handler.
func NewReferenceHandler(refs *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refs: refs}
}

// ListBuildings handles GET /buildings.
func (h *ReferenceHandler) ListBuildings(c *fiber.Ctx) error {
	buildings, err := h.refs.ListBuildings(c.UserContext(), activeOnly(c))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, mapSlice(buildings, dto.NewBuildingResponse))
}

// CreateBuilding handles POST /buildings.
func (h *ReferenceHandler) CreateBuilding(c *fiber.Ctx) error {
	in, err := buildingInput(c)
	if err != nil {
		return err
	}
	b, err := h.refs.CreateBuilding(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewBuildingResponse(*b))
}

// UpdateBuilding handles PUT /buildings/:id.
func (h *ReferenceHandler) UpdateBuilding(c *fiber.Ctx) error {
	in, err := buildingInput(c)
	if err != nil {
		return err
	}
	b, err := h.refs.UpdateBuilding(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewBuildingResponse(*b))
}

// DeleteBuilding handles DELETE /buildings/:id.
func (h *ReferenceHandler) DeleteBuilding(c *fiber.Ctx) error {
	if err := h.refs.DeleteBuilding(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListBuildingSectors handles GET /buildings/:id/sectors.
func (h *ReferenceHandler) ListBuildingSectors(c *fiber.Ctx) error {
	sectors, err := h.refs.ListSectors(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, mapSlice(sectors, dto.NewSectorResponse))
}

// ListSectors handles GET /sectors.
func (h *ReferenceHandler) ListSectors(c *fiber.Ctx) error {
	sectors, err := h.refs.ListSectors(c.UserContext(), c.Query("buildingId"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, mapSlice(sectors, dto.NewSectorResponse))
}

// CreateSector handles POST /sectors.
func (h *ReferenceHandler) CreateSector(c *fiber.Ctx) error {
	var req dto.SectorRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}
	s, err := h.refs.CreateSector(c.UserContext(), service.SectorInput{BuildingID: req.BuildingID, Description: req.Description})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewSectorResponse(*s))
}

// UpdateSector handles PUT /sectors/:id.
func (h *ReferenceHandler) UpdateSector(c *fiber.Ctx) error {
	var req dto.SectorRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}
	s, err := h.refs.UpdateSector(c.UserContext(), c.Params("id"), service.SectorInput{BuildingID: req.BuildingID, Description: req.Description})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewSectorResponse(*s))
}

// DeleteSector handles DELETE /sectors/:id.
func (h *ReferenceHandler) DeleteSector(c *fiber.Ctx) error {
	if err := h.refs.DeleteSector(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListTeams handles GET /teams.
func (h *ReferenceHandler) ListTeams(c *fiber.Ctx) error {
	teams, err := h.refs.ListTeams(c.UserContext(), activeOnly(c))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, mapSlice(teams, dto.NewTeamResponse))
}

// CreateTeam handles POST /teams.
func (h *ReferenceHandler) CreateTeam(c *fiber.Ctx) error {
	in, err := teamInput(c)
	if err != nil {
		return err
	}
	t, err := h.refs.CreateTeam(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewTeamResponse(*t))
}

// UpdateTeam handles PUT /teams/:id.
func (h *ReferenceHandler) UpdateTeam(c *fiber.Ctx) error {
	in, err := teamInput(c)
	if err != nil {
		return err
	}
	t, err := h.refs.UpdateTeam(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewTeamResponse(*t))
}

// DeleteTeam handles DELETE /teams/:id.
func (h *ReferenceHandler) DeleteTeam(c *fiber.Ctx) error {
	if err := h.refs.DeleteTeam(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListTeamProfessionals handles GET /teams/:id/professionals.
func (h *ReferenceHandler) ListTeamProfessionals(c *fiber.Ctx) error {
	professionals, err := h.refs.ListProfessionals(c.UserContext(), c.Params("id"), activeOnly(c))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, mapSlice(professionals, dto.NewProfessionalResponse))
}

// ListProfessionals handles GET /professionals.
func (h *ReferenceHandler) ListProfessionals(c *fiber.Ctx) error {
	professionals, err := h.refs.ListProfessionals(c.UserContext(), c.Query("teamId"), activeOnly(c))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, mapSlice(professionals, dto.NewProfessionalResponse))
}

// CreateProfessional handles POST /professionals.
func (h *ReferenceHandler) CreateProfessional(c *fiber.Ctx) error {
	in, err := professionalInput(c)
	if err != nil {
		return err
	}
	p, err := h.refs.CreateProfessional(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewProfessionalResponse(*p))
}

// UpdateProfessional handles PUT /professionals/:id.
func (h *ReferenceHandler) UpdateProfessional(c *fiber.Ctx) error {
	in, err := professionalInput(c)
	if err != nil {
		return err
	}
	p, err := h.refs.UpdateProfessional(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewProfessionalResponse(*p))
}

// DeleteProfessional handles DELETE /professionals/:id.
func (h *ReferenceHandler) DeleteProfessional(c *fiber.Ctx) error {
	if err := h.refs.DeleteProfessional(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListReasons handles GET /reasons.
func (h *ReferenceHandler) ListReasons(c *fiber.Ctx) error {
	reasons, err := h.refs.ListReasons(c.UserContext(), activeOnly(c))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, mapSlice(reasons, dto.NewReasonResponse))
}

// CreateReason handles POST /reasons.
func (h *ReferenceHandler) CreateReason(c *fiber.Ctx) error {
	in, err := reasonInput(c)
	if err != nil {
		return err
	}
	r, err := h.refs.CreateReason(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewReasonResponse(*r))
}

// UpdateReason handles PUT /reasons/:id.
func (h *ReferenceHandler) UpdateReason(c *fiber.Ctx) error {
	in, err := reasonInput(c)
	if err != nil {
		return err
	}
	r, err := h.refs.UpdateReason(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewReasonResponse(*r))
}

// DeleteReason handles DELETE /reasons/:id.
func (h *ReferenceHandler) DeleteReason(c *fiber.Ctx) error {
	if err := h.refs.DeleteReason(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func buildingInput(c *fiber.Ctx) (service.BuildingInput, error) {
	var req dto.BuildingRequest
	if err := parseRequest(c, &req); err != nil {
		return service.BuildingInput{}, err
	}
	status, err := parseRecordStatus(req.Status)
	if err != nil {
		return service.BuildingInput{}, err
	}
	return service.BuildingInput{Description: req.Description, Status: status}, nil
}

func teamInput(c *fiber.Ctx) (service.TeamInput, error) {
	var req dto.TeamRequest
	if err := parseRequest(c, &req); err != nil {
		return service.TeamInput{}, err
	}
	status, err := parseRecordStatus(req.Status)
	if err != nil {
		return service.TeamInput{}, err
	}
	return service.TeamInput{Description: req.Description, Status: status}, nil
}

func professionalInput(c *fiber.Ctx) (service.ProfessionalInput, error) {
	var req dto.ProfessionalRequest
	if err := parseRequest(c, &req); err != nil {
		return service.ProfessionalInput{}, err
	}
	status, err := parseRecordStatus(req.Status)
	if err != nil {
		return service.ProfessionalInput{}, err
	}
	return service.ProfessionalInput{Name: req.Name, Phone: req.Phone, Email: req.Email, TeamID: req.TeamID, Status: status}, nil
}

func reasonInput(c *fiber.Ctx) (service.ReasonInput, error) {
	var req dto.ReasonRequest
	if err := parseRequest(c, &req); err != nil {
		return service.ReasonInput{}, err
	}
	status, err := parseRecordStatus(req.Status)
	if err != nil {
		return service.ReasonInput{}, err
	}
	return service.ReasonInput{Description: req.Description, Status: status}, nil
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

