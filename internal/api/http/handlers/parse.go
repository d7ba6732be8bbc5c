package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-orders/internal/domain"
	"github.com/spec-kit/service-orders/internal/validation"
	apperrors "github.com/spec-kit/service-orders/pkg/util/errorutil"
)

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	return nil
}

// parseRequest binds the body and runs its validate tags.
func parseRequest(c *fiber.Ctx, out any) error {
	if err := parseBody(c, out); err != nil {
		return err
	}
	return validation.Struct(out)
}

func parseRecordStatus(raw string) (domain.RecordStatus, error) {
	status, ok := domain.ParseRecordStatus(raw)
	if !ok {
		return "", apperrors.NewValidationError("unknown status", map[string]any{"status": raw})
	}
	return status, nil
}

// activeOnly reads the ?active=true picker flag.
func activeOnly(c *fiber.Ctx) bool {
	return c.QueryBool("active", false)
}

func data(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}
