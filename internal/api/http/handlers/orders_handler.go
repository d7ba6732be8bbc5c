package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-orders/internal/api/dto"
	"github.com/spec-kit/service-orders/internal/domain"
	"github.com/spec-kit/service-orders/internal/lifecycle"
	"github.com/spec-kit/service-orders/internal/service"
	apperrors "github.com/spec-kit/service-orders/pkg/util/errorutil"
)

// OrdersHandler exposes the order list and the order form.
type OrdersHandler struct {
	orders   *service.ServiceOrderService
	listView *service.ListViewService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.ServiceOrderService, listView *service.ListViewService) *OrdersHandler {
	return &OrdersHandler{orders: orders, listView: listView}
}

// List handles GET /orders. Given q or status, the list filter is updated
// before the view is returned.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	args := c.Context().QueryArgs()
	var text, status *string
	if args.Has("q") {
		v := c.Query("q")
		text = &v
	}
	if args.Has("status") {
		v := c.Query("status")
		status = &v
	}
	if text != nil || status != nil {
		if err := h.listView.SetFilter(c.UserContext(), text, status); err != nil {
			return err
		}
	}
	view, err := h.listView.View(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewOrderListResponse(view))
}

// Get handles GET /orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewOrderResponse(*order))
}

// OpenDraft handles POST /drafts.
func (h *OrdersHandler) OpenDraft(c *fiber.Ctx) error {
	var req dto.OpenDraftRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	view, err := h.orders.OpenForm(c.UserContext(), strings.TrimSpace(req.OrderID))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewDraftResponse(view))
}

// GetDraft handles GET /drafts/:id.
func (h *OrdersHandler) GetDraft(c *fiber.Ctx) error {
	view, err := h.orders.GetForm(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewDraftResponse(view))
}

// PatchDraft handles PATCH /drafts/:id.
func (h *OrdersHandler) PatchDraft(c *fiber.Ctx) error {
	var req dto.DraftPatchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	change, err := changeFromRequest(req)
	if err != nil {
		return err
	}
	view, err := h.orders.UpdateForm(c.UserContext(), c.Params("id"), change)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewDraftResponse(view))
}

// RequestDiagnosis handles POST /drafts/:id/diagnosis.
func (h *OrdersHandler) RequestDiagnosis(c *fiber.Ctx) error {
	view, err := h.orders.RequestDiagnosis(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusAccepted, dto.NewDraftResponse(view))
}

// SubmitDraft handles POST /drafts/:id/submit.
func (h *OrdersHandler) SubmitDraft(c *fiber.Ctx) error {
	order, err := h.orders.SubmitForm(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewOrderResponse(*order))
}

// AbandonDraft handles DELETE /drafts/:id.
func (h *OrdersHandler) AbandonDraft(c *fiber.Ctx) error {
	if err := h.orders.AbandonForm(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func changeFromRequest(req dto.DraftPatchRequest) (lifecycle.Change, error) {
	change := lifecycle.Change{
		BuildingID:     req.BuildingID,
		SectorID:       req.SectorID,
		RequesterName:  req.RequesterName,
		RequesterRamal: req.RequesterRamal,
		Description:    req.Description,
		TeamID:         req.TeamID,
		ProfessionalID: req.ProfessionalID,
		ReasonID:       req.ReasonID,
		AIDiagnosis:    req.AIDiagnosis,
	}
	if req.Priority != nil {
		p, ok := domain.ParsePriority(*req.Priority)
		if !ok {
			return lifecycle.Change{}, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *req.Priority})
		}
		change.Priority = &p
	}
	if req.Status != nil {
		s, ok := domain.ParseStatus(*req.Status)
		if !ok {
			return lifecycle.Change{}, apperrors.NewValidationError("unknown status", map[string]any{"status": *req.Status})
		}
		change.Status = &s
	}
	if change.Empty() {
		return lifecycle.Change{}, apperrors.NewValidationError("no changes provided", nil)
	}
	return change, nil
}
