package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-orders/internal/api/dto"
	"github.com/spec-kit/service-orders/internal/printout"
	"github.com/spec-kit/service-orders/internal/service"
	apperrors "github.com/spec-kit/service-orders/pkg/util/errorutil"
)

// ViewHandler exposes the print selection, printing and the dashboard.
type ViewHandler struct {
	listView  *service.ListViewService
	print     *service.PrintService
	dashboard *service.DashboardService
}

// NewViewHandler constructs handler.
func NewViewHandler(listView *service.ListViewService, printer *service.PrintService, dashboard *service.DashboardService) *ViewHandler {
	return &ViewHandler{listView: listView, print: printer, dashboard: dashboard}
}

// Selection handles GET /selection.
func (h *ViewHandler) Selection(c *fiber.Ctx) error {
	return data(c, fiber.StatusOK, dto.SelectionResponse{Selected: h.listView.Selected(c.UserContext())})
}

// Toggle handles POST /selection/toggle.
func (h *ViewHandler) Toggle(c *fiber.Ctx) error {
	var req dto.SelectionToggleRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}
	selected, err := h.listView.Toggle(c.UserContext(), req.OrderID)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.SelectionResponse{Selected: selected})
}

// ToggleAll handles POST /selection/toggle-all.
func (h *ViewHandler) ToggleAll(c *fiber.Ctx) error {
	selected, err := h.listView.ToggleAll(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.SelectionResponse{Selected: selected})
}

// ClearSelection handles DELETE /selection.
func (h *ViewHandler) ClearSelection(c *fiber.Ctx) error {
	h.listView.ClearSelection(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}

// Print handles POST /print?format=html|text|json.
func (h *ViewHandler) Print(c *fiber.Ctx) error {
	var req dto.PrintRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	doc, err := h.print.Document(c.UserContext(), req.OrderIDs)
	if err != nil {
		return err
	}
	switch format := c.Query("format", "html"); format {
	case "html":
		page, err := printout.RenderHTML(doc)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(page)
	case "text":
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(printout.RenderText(doc))
	case "json":
		return data(c, fiber.StatusOK, doc)
	default:
		return apperrors.NewValidationError("unknown print format", map[string]any{"format": format})
	}
}

// Dashboard handles GET /dashboard.
func (h *ViewHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewDashboardResponse(stats))
}
